package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
)

type AnnouncementHandler struct {
	announcements repository.AnnouncementRepository
}

func NewAnnouncementHandler(announcements repository.AnnouncementRepository) *AnnouncementHandler {
	return &AnnouncementHandler{announcements: announcements}
}

type createAnnouncementRequest struct {
	Kind     string     `json:"kind"`
	Title    string     `json:"title"`
	Body     string     `json:"body"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

func validAnnouncementKind(k domain.AnnouncementKind) bool {
	switch k {
	case domain.AnnouncementKindGeneral, domain.AnnouncementKindNews, domain.AnnouncementKindEvent:
		return true
	}
	return false
}

func (h *AnnouncementHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, accountID, ok := callerClaims(w, r)
	if !ok {
		return
	}
	var req createAnnouncementRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, r, "title is required")
		return
	}
	kind := domain.AnnouncementKind(req.Kind)
	if kind == "" {
		kind = domain.AnnouncementKindGeneral
	}
	if !validAnnouncementKind(kind) {
		badRequest(w, r, "invalid kind")
		return
	}
	if req.StartsAt != nil && req.EndsAt != nil && req.EndsAt.Before(*req.StartsAt) {
		badRequest(w, r, "ends_at must not precede starts_at")
		return
	}

	a := &domain.Announcement{
		Kind:     kind,
		Title:    strings.TrimSpace(req.Title),
		Body:     req.Body,
		AuthorID: accountID,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	if err := h.announcements.Create(a); err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "announcement.create", "announcement_id", a.ID, "kind", string(a.Kind))
	response.JSON(w, r, http.StatusCreated, a)
}

func (h *AnnouncementHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.announcements.ListPaged(pageRequest(r))
	if err != nil {
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AnnouncementHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid announcement id")
		return
	}
	a, err := h.announcements.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "announcement not found")
			return
		}
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, a)
}

type updateAnnouncementRequest struct {
	Kind     *string    `json:"kind"`
	Title    *string    `json:"title"`
	Body     *string    `json:"body"`
	StartsAt *time.Time `json:"starts_at"`
	EndsAt   *time.Time `json:"ends_at"`
}

func (h *AnnouncementHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid announcement id")
		return
	}
	var req updateAnnouncementRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}

	a, err := h.announcements.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "announcement not found")
			return
		}
		internalError(w, r)
		return
	}

	if req.Kind != nil {
		kind := domain.AnnouncementKind(*req.Kind)
		if !validAnnouncementKind(kind) {
			badRequest(w, r, "invalid kind")
			return
		}
		a.Kind = kind
	}
	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			badRequest(w, r, "title must not be empty")
			return
		}
		a.Title = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		a.Body = *req.Body
	}
	if req.StartsAt != nil {
		a.StartsAt = req.StartsAt
	}
	if req.EndsAt != nil {
		a.EndsAt = req.EndsAt
	}
	if a.StartsAt != nil && a.EndsAt != nil && a.EndsAt.Before(*a.StartsAt) {
		badRequest(w, r, "ends_at must not precede starts_at")
		return
	}

	if err := h.announcements.Update(a); err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "announcement.update", "announcement_id", a.ID)
	response.JSON(w, r, http.StatusOK, a)
}

func (h *AnnouncementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid announcement id")
		return
	}
	if err := h.announcements.SoftDelete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "announcement not found")
			return
		}
		internalError(w, r)
		return
	}
	observability.Audit(r, "announcement.delete", "announcement_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}
