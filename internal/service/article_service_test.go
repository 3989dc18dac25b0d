package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
)

type inMemoryArticleRepo struct {
	mu     sync.Mutex
	nextID uint
	rows   map[uint]*domain.Article
}

func newInMemoryArticleRepo() *inMemoryArticleRepo {
	return &inMemoryArticleRepo{nextID: 1, rows: map[uint]*domain.Article{}}
}

func (r *inMemoryArticleRepo) Create(a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = r.nextID
	r.nextID++
	cp := *a
	r.rows[cp.ID] = &cp
	return nil
}

func (r *inMemoryArticleRepo) FindByID(id uint) (*domain.Article, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *inMemoryArticleRepo) ListPaged(req repository.PageRequest) (repository.PageResult[domain.Article], error) {
	return repository.PageResult[domain.Article]{}, nil
}

func (r *inMemoryArticleRepo) Update(a *domain.Article) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *a
	r.rows[cp.ID] = &cp
	return nil
}

func (r *inMemoryArticleRepo) IncrementViewCount(id uint) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, ok := r.rows[id]
	if !ok {
		return repository.ErrNotFound
	}
	a.ViewCount++
	return nil
}

func (r *inMemoryArticleRepo) SoftDelete(id uint) error                 { return nil }
func (r *inMemoryArticleRepo) ListDeleted() ([]domain.Article, error)   { return nil, nil }
func (r *inMemoryArticleRepo) Restore(id uint) error                    { return nil }
func (r *inMemoryArticleRepo) PurgeDeletedBefore(time.Time) (int64, error) { return 0, nil }

func TestArticleViewCountsOncePerSession(t *testing.T) {
	repo := newInMemoryArticleRepo()
	svc := NewArticleService(repo, NewInMemoryViewMarkerStore(), time.Minute)
	ctx := context.Background()

	article := &domain.Article{Title: "Printer setup", AuthorID: 1, Published: true}
	if err := repo.Create(article); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.View(ctx, article.ID, "viewer-1")
	if err != nil {
		t.Fatalf("first view: %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("expected view count 1, got %d", got.ViewCount)
	}

	got, err = svc.View(ctx, article.ID, "viewer-1")
	if err != nil {
		t.Fatalf("second view: %v", err)
	}
	if got.ViewCount != 1 {
		t.Fatalf("expected deduped view count 1, got %d", got.ViewCount)
	}

	got, err = svc.View(ctx, article.ID, "viewer-2")
	if err != nil {
		t.Fatalf("other viewer: %v", err)
	}
	if got.ViewCount != 2 {
		t.Fatalf("expected view count 2 for second viewer, got %d", got.ViewCount)
	}
}

type failingMarkerStore struct{}

func (failingMarkerStore) Seen(context.Context, string, uint) (bool, error) {
	return false, errors.New("marker store down")
}
func (failingMarkerStore) Mark(context.Context, string, uint, time.Duration) error {
	return errors.New("marker store down")
}

func TestArticleViewSurvivesMarkerStoreOutage(t *testing.T) {
	repo := newInMemoryArticleRepo()
	svc := NewArticleService(repo, failingMarkerStore{}, time.Minute)

	article := &domain.Article{Title: "VPN guide", AuthorID: 1}
	if err := repo.Create(article); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := svc.View(context.Background(), article.ID, "viewer-1")
	if err != nil {
		t.Fatalf("view with failing markers: %v", err)
	}
	if got.ViewCount != 0 {
		t.Fatalf("expected no increment when lookup fails, got %d", got.ViewCount)
	}
}

func TestArticleViewAnonymousSessionSkipsCounting(t *testing.T) {
	repo := newInMemoryArticleRepo()
	svc := NewArticleService(repo, NewInMemoryViewMarkerStore(), time.Minute)

	article := &domain.Article{Title: "Wifi", AuthorID: 1}
	if err := repo.Create(article); err != nil {
		t.Fatalf("create: %v", err)
	}
	got, err := svc.View(context.Background(), article.ID, "")
	if err != nil {
		t.Fatalf("view: %v", err)
	}
	if got.ViewCount != 0 {
		t.Fatalf("expected no counting without a session, got %d", got.ViewCount)
	}
}
