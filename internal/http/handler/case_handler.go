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

type CaseHandler struct {
	cases *service.CaseService
}

func NewCaseHandler(cases *service.CaseService) *CaseHandler {
	return &CaseHandler{cases: cases}
}

type createCaseRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Priority    string `json:"priority"`
	AssigneeID  *uint  `json:"assignee_id"`
}

func (h *CaseHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, accountID, ok := callerClaims(w, r)
	if !ok {
		return
	}
	var req createCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		badRequest(w, r, "title is required")
		return
	}

	c, err := h.cases.Create(service.CreateCaseInput{
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Priority:    domain.CasePriority(req.Priority),
		ReporterID:  accountID,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "case.create", "case_id", c.ID, "number", c.Number)
	response.JSON(w, r, http.StatusCreated, c)
}

func (h *CaseHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.cases.List(pageRequest(r))
	if err != nil {
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid case id")
		return
	}
	c, err := h.cases.Get(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "case not found")
			return
		}
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, c)
}

type updateCaseRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	Priority    *string `json:"priority"`
	AssigneeID  *uint   `json:"assignee_id"`
}

func (h *CaseHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid case id")
		return
	}
	var req updateCaseRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}

	in := service.UpdateCaseInput{
		Title:       req.Title,
		Description: req.Description,
		AssigneeID:  req.AssigneeID,
	}
	if req.Status != nil {
		st := domain.CaseStatus(*req.Status)
		in.Status = &st
	}
	if req.Priority != nil {
		pr := domain.CasePriority(*req.Priority)
		in.Priority = &pr
	}

	c, err := h.cases.Update(id, in)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			notFound(w, r, "case not found")
		case errors.Is(err, service.ErrInvalidCaseStatus):
			badRequest(w, r, "invalid case status")
		default:
			internalError(w, r)
		}
		return
	}
	observability.Audit(r, "case.update", "case_id", c.ID)
	response.JSON(w, r, http.StatusOK, c)
}

func (h *CaseHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid case id")
		return
	}
	if err := h.cases.Delete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "case not found")
			return
		}
		internalError(w, r)
		return
	}
	observability.Audit(r, "case.delete", "case_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}
