package handler

import (
	"encoding/base64"
	"errors"
	"net/http"
	"strings"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
)

type DocumentHandler struct {
	documents repository.DocumentRepository
}

func NewDocumentHandler(documents repository.DocumentRepository) *DocumentHandler {
	return &DocumentHandler{documents: documents}
}

type createDocumentRequest struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
	Data     string `json:"data"`
}

// Create stores an uploaded file. Data arrives base64 encoded inside the JSON
// body; the decoded size is recorded so listings can show it without loading
// the payload.
func (h *DocumentHandler) Create(w http.ResponseWriter, r *http.Request) {
	_, accountID, ok := callerClaims(w, r)
	if !ok {
		return
	}
	var req createDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}
	if strings.TrimSpace(req.Name) == "" || req.Data == "" {
		badRequest(w, r, "name and data are required")
		return
	}
	decoded, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		badRequest(w, r, "data must be valid base64")
		return
	}

	doc := &domain.Document{
		Name:      strings.TrimSpace(req.Name),
		MimeType:  strings.TrimSpace(req.MimeType),
		Data:      req.Data,
		SizeBytes: int64(len(decoded)),
		OwnerID:   accountID,
	}
	if err := h.documents.Create(doc); err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "document.create", "document_id", doc.ID, "size_bytes", doc.SizeBytes)
	response.JSON(w, r, http.StatusCreated, doc)
}

func (h *DocumentHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.documents.ListPaged(pageRequest(r))
	if err != nil {
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid document id")
		return
	}
	doc, err := h.documents.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "document not found")
			return
		}
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, doc)
}

func (h *DocumentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid document id")
		return
	}
	if err := h.documents.SoftDelete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "document not found")
			return
		}
		internalError(w, r)
		return
	}
	observability.Audit(r, "document.delete", "document_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}
