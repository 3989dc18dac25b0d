package repository

import (
	"context"
	"errors"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	Create(a *domain.Article) error
	FindByID(id uint) (*domain.Article, error)
	ListPaged(req PageRequest) (PageResult[domain.Article], error)
	Update(a *domain.Article) error
	IncrementViewCount(id uint) error
	SoftDelete(id uint) error
	ListDeleted() ([]domain.Article, error)
	Restore(id uint) error
	PurgeDeletedBefore(cutoff time.Time) (int64, error)
}

type GormArticleRepository struct{ db *gorm.DB }

func NewArticleRepository(db *gorm.DB) ArticleRepository { return &GormArticleRepository{db: db} }

func (r *GormArticleRepository) Create(a *domain.Article) error {
	err := r.db.Create(a).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "article", "create", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "article", "create", "success")
	return nil
}

func (r *GormArticleRepository) FindByID(id uint) (*domain.Article, error) {
	var a domain.Article
	err := r.db.First(&a, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			observability.RecordRepositoryOperation(context.Background(), "article", "find_by_id", "not_found")
			return nil, ErrNotFound
		}
		observability.RecordRepositoryOperation(context.Background(), "article", "find_by_id", "error")
		return nil, err
	}
	observability.RecordRepositoryOperation(context.Background(), "article", "find_by_id", "success")
	return &a, nil
}

func (r *GormArticleRepository) ListPaged(req PageRequest) (PageResult[domain.Article], error) {
	return listPaged[domain.Article](r.db, req, "article")
}

func (r *GormArticleRepository) Update(a *domain.Article) error {
	err := r.db.Save(a).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "article", "update", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "article", "update", "success")
	return nil
}

// IncrementViewCount is a single atomic UPDATE; callers debounce duplicates
// per viewer session before getting here.
func (r *GormArticleRepository) IncrementViewCount(id uint) error {
	err := r.db.Model(&domain.Article{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
	if err != nil {
		observability.RecordRepositoryOperation(context.Background(), "article", "increment_view_count", "error")
		return err
	}
	observability.RecordRepositoryOperation(context.Background(), "article", "increment_view_count", "success")
	return nil
}

func (r *GormArticleRepository) SoftDelete(id uint) error {
	return softDeleteByID[domain.Article](r.db, "article", id)
}

func (r *GormArticleRepository) ListDeleted() ([]domain.Article, error) {
	return listDeleted[domain.Article](r.db, "article")
}

func (r *GormArticleRepository) Restore(id uint) error {
	return restoreByID[domain.Article](r.db, "article", id)
}

func (r *GormArticleRepository) PurgeDeletedBefore(cutoff time.Time) (int64, error) {
	return purgeDeletedBefore[domain.Article](r.db, "article", cutoff)
}
