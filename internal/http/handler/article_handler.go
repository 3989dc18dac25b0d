package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
	"github.com/AgnesMuita/asset-maintenance-api/internal/service"
)

type ArticleHandler struct {
	articles *service.ArticleService
	repo     repository.ArticleRepository
}

func NewArticleHandler(articles *service.ArticleService, repo repository.ArticleRepository) *ArticleHandler {
	return &ArticleHandler{articles: articles, repo: repo}
}

type createArticleRequest struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	Tags      string `json:"tags"`
	Published bool   `json:"published"`
}

func (h *ArticleHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, accountID, ok := callerClaims(w, r)
	if !ok {
		return
	}
	var req createArticleRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, r, "title is required")
		return
	}

	article := &domain.Article{
		Title:     strings.TrimSpace(req.Title),
		Body:      req.Body,
		Tags:      strings.TrimSpace(req.Tags),
		Published: req.Published,
		AuthorID:  accountID,
	}
	if err := h.repo.Create(article); err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "article.create", "article_id", article.ID)
	response.JSON(w, r, http.StatusCreated, article)
}

func (h *ArticleHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.repo.ListPaged(pageRequest(r))
	if err != nil {
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

// Get reads one article and counts the view. The viewer session comes from the
// X-Session-Id header; anonymous reads are served without counting.
func (h *ArticleHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid article id")
		return
	}
	article, err := h.articles.View(r.Context(), id, r.Header.Get("X-Session-Id"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "article not found")
			return
		}
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, article)
}

type updateArticleRequest struct {
	Title     *string `json:"title"`
	Body      *string `json:"body"`
	Tags      *string `json:"tags"`
	Published *bool   `json:"published"`
}

func (h *ArticleHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid article id")
		return
	}
	var req updateArticleRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}

	article, err := h.repo.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "article not found")
			return
		}
		internalError(w, r)
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			badRequest(w, r, "title must not be empty")
			return
		}
		article.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		article.Body = *req.Body
	}
	if req.Tags != nil {
		article.Tags = strings.TrimSpace(*req.Tags)
	}
	if req.Published != nil {
		article.Published = *req.Published
	}

	if err := h.repo.Update(article); err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "article.update", "article_id", article.ID)
	response.JSON(w, r, http.StatusOK, article)
}

func (h *ArticleHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid article id")
		return
	}
	if err := h.repo.SoftDelete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "article not found")
			return
		}
		internalError(w, r)
		return
	}
	observability.Audit(r, "article.delete", "article_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}
