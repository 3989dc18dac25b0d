package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
)

// ArticleService wraps the knowledge base with view counting. The count is
// approximate: marker-store failures never fail the read, they just risk a
// double count.
type ArticleService struct {
	articles  repository.ArticleRepository
	markers   ViewMarkerStore
	markerTTL time.Duration
}

func NewArticleService(articles repository.ArticleRepository, markers ViewMarkerStore, markerTTL time.Duration) *ArticleService {
	if markers == nil {
		markers = NewNoopViewMarkerStore()
	}
	return &ArticleService{articles: articles, markers: markers, markerTTL: markerTTL}
}

// View fetches an article and counts the view once per viewer session within
// the marker TTL.
func (s *ArticleService) View(ctx context.Context, id uint, viewerSession string) (*domain.Article, error) {
	article, err := s.articles.FindByID(id)
	if err != nil {
		return nil, err
	}
	if viewerSession == "" {
		return article, nil
	}

	seen, err := s.markers.Seen(ctx, viewerSession, id)
	if err != nil {
		observability.RecordViewMarker(ctx, "lookup_error")
		slog.WarnContext(ctx, "view marker lookup failed", "article_id", id, "error", err)
		return article, nil
	}
	if seen {
		observability.RecordViewMarker(ctx, "deduped")
		return article, nil
	}

	if err := s.articles.IncrementViewCount(id); err != nil {
		slog.WarnContext(ctx, "view count increment failed", "article_id", id, "error", err)
		return article, nil
	}
	article.ViewCount++
	if err := s.markers.Mark(ctx, viewerSession, id, s.markerTTL); err != nil {
		observability.RecordViewMarker(ctx, "mark_error")
		slog.WarnContext(ctx, "view marker write failed", "article_id", id, "error", err)
		return article, nil
	}
	observability.RecordViewMarker(ctx, "counted")
	return article, nil
}
