package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
)

type AssetHandler struct {
	assets repository.AssetRepository
}

func NewAssetHandler(assets repository.AssetRepository) *AssetHandler {
	return &AssetHandler{assets: assets}
}

type createAssetRequest struct {
	Tag          string `json:"tag"`
	Name         string `json:"name"`
	Category     string `json:"category"`
	SerialNumber string `json:"serial_number"`
	Condition    string `json:"condition"`
	Location     string `json:"location"`
}

func (h *AssetHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}
	if strings.TrimSpace(req.Tag) == "" || strings.TrimSpace(req.Name) == "" {
		badRequest(w, r, "tag and name are required")
		return
	}
	condition := domain.AssetCondition(req.Condition)
	if condition == "" {
		condition = domain.AssetConditionGood
	}

	asset := &domain.Asset{
		Tag:          strings.TrimSpace(req.Tag),
		Name:         strings.TrimSpace(req.Name),
		Category:     strings.TrimSpace(req.Category),
		SerialNumber: strings.TrimSpace(req.SerialNumber),
		Condition:    condition,
		Location:     strings.TrimSpace(req.Location),
	}
	if err := h.assets.Create(asset); err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "asset.create", "asset_id", asset.ID, "tag", asset.Tag)
	response.JSON(w, r, http.StatusCreated, asset)
}

func (h *AssetHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.assets.ListPaged(pageRequest(r))
	if err != nil {
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid asset id")
		return
	}
	asset, err := h.assets.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "asset not found")
			return
		}
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, asset)
}

type updateAssetRequest struct {
	Name         *string `json:"name"`
	Category     *string `json:"category"`
	SerialNumber *string `json:"serial_number"`
	Condition    *string `json:"condition"`
	Location     *string `json:"location"`
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid asset id")
		return
	}
	var req updateAssetRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}

	asset, err := h.assets.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "asset not found")
			return
		}
		internalError(w, r)
		return
	}

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			badRequest(w, r, "name must not be empty")
			return
		}
		asset.Name = strings.TrimSpace(*req.Name)
	}
	if req.Category != nil {
		asset.Category = strings.TrimSpace(*req.Category)
	}
	if req.SerialNumber != nil {
		asset.SerialNumber = strings.TrimSpace(*req.SerialNumber)
	}
	if req.Condition != nil {
		asset.Condition = domain.AssetCondition(*req.Condition)
	}
	if req.Location != nil {
		asset.Location = strings.TrimSpace(*req.Location)
	}

	if err := h.assets.Update(asset); err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "asset.update", "asset_id", asset.ID)
	response.JSON(w, r, http.StatusOK, asset)
}

func (h *AssetHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid asset id")
		return
	}
	if err := h.assets.SoftDelete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "asset not found")
			return
		}
		internalError(w, r)
		return
	}
	observability.Audit(r, "asset.delete", "asset_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}

type allocateRequest struct {
	AccountID uint `json:"account_id"`
}

// Allocate hands the asset to an account. A second allocation while one is
// open is a conflict, not a reassignment.
func (h *AssetHandler) Allocate(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid asset id")
		return
	}
	var req allocateRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}
	if req.AccountID == 0 {
		badRequest(w, r, "account_id is required")
		return
	}

	allocation, err := h.assets.Allocate(id, req.AccountID)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			notFound(w, r, "asset not found")
		case errors.Is(err, repository.ErrAssetAllocated):
			response.Error(w, r, http.StatusConflict, "ASSET_ALLOCATED", "asset is already allocated", nil)
		default:
			internalError(w, r)
		}
		return
	}
	observability.Audit(r, "asset.allocate", "asset_id", id, "account_id", req.AccountID)
	response.JSON(w, r, http.StatusCreated, allocation)
}

func (h *AssetHandler) Return(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid asset id")
		return
	}
	closed, err := h.assets.Return(id)
	if err != nil {
		internalError(w, r)
		return
	}
	if !closed {
		notFound(w, r, "no open allocation for asset")
		return
	}
	observability.Audit(r, "asset.return", "asset_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"returned": id})
}

func (h *AssetHandler) AllocationHistory(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid asset id")
		return
	}
	history, err := h.assets.AllocationHistory(id)
	if err != nil {
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, history)
}
