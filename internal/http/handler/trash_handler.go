package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
	"github.com/AgnesMuita/asset-maintenance-api/internal/maintenance"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
)

// trashBin erases the per-entity item type so one handler can serve every
// soft-deletable resource.
type trashBin struct {
	list    func() (any, error)
	restore func(id uint) error
}

type TrashHandler struct {
	bins    map[string]trashBin
	sweeper *maintenance.Sweeper
}

func NewTrashHandler(sweeper *maintenance.Sweeper) *TrashHandler {
	return &TrashHandler{bins: make(map[string]trashBin), sweeper: sweeper}
}

// RegisterBin exposes one resource under /trash/{entity}.
func RegisterBin[T any](h *TrashHandler, entity string, list func() ([]T, error), restore func(id uint) error) {
	h.bins[entity] = trashBin{
		list: func() (any, error) {
			items, err := list()
			if err != nil {
				return nil, err
			}
			return items, nil
		},
		restore: restore,
	}
}

func (h *TrashHandler) List(w http.ResponseWriter, r *http.Request) {
	bin, ok := h.bins[chi.URLParam(r, "entity")]
	if !ok {
		notFound(w, r, "unknown trash entity")
		return
	}
	items, err := bin.list()
	if err != nil {
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, items)
}

func (h *TrashHandler) Restore(w http.ResponseWriter, r *http.Request) {
	bin, ok := h.bins[chi.URLParam(r, "entity")]
	if !ok {
		notFound(w, r, "unknown trash entity")
		return
	}
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid id")
		return
	}
	if err := bin.restore(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "no deleted record with that id")
			return
		}
		internalError(w, r)
		return
	}
	observability.Audit(r, "trash.restore", "entity", chi.URLParam(r, "entity"), "id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"restored": id})
}

// Purge runs the retention sweep immediately instead of waiting for the next
// scheduled pass.
func (h *TrashHandler) Purge(w http.ResponseWriter, r *http.Request) {
	if h.sweeper == nil {
		response.Error(w, r, http.StatusServiceUnavailable, "SWEEPER_DISABLED", "retention sweeper is not running", nil)
		return
	}
	purged := h.sweeper.SweepOnce(r.Context())
	observability.Audit(r, "trash.purge", "rows", purged)
	response.JSON(w, r, http.StatusOK, map[string]any{"purged": purged})
}
