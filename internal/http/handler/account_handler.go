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

type AccountHandler struct {
	accounts repository.AccountRepository
}

func NewAccountHandler(accounts repository.AccountRepository) *AccountHandler {
	return &AccountHandler{accounts: accounts}
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	_, accountID, ok := callerClaims(w, r)
	if !ok {
		return
	}
	account, err := h.accounts.FindByID(accountID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			notFound(w, r, "account not found")
			return
		}
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, account)
}

func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.accounts.ListPaged(pageRequest(r))
	if err != nil {
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, result)
}

func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid account id")
		return
	}
	account, err := h.accounts.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			notFound(w, r, "account not found")
			return
		}
		internalError(w, r)
		return
	}
	response.JSON(w, r, http.StatusOK, account)
}

type updateAccountRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Department *string `json:"department"`
	Role       *string `json:"role"`
	Active     *bool   `json:"active"`
}

func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid account id")
		return
	}
	var req updateAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		badRequest(w, r, "malformed json body")
		return
	}

	account, err := h.accounts.FindByID(id)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			notFound(w, r, "account not found")
			return
		}
		internalError(w, r)
		return
	}

	if req.FirstName != nil {
		if strings.TrimSpace(*req.FirstName) == "" {
			badRequest(w, r, "first_name must not be empty")
			return
		}
		account.FirstName = strings.TrimSpace(*req.FirstName)
	}
	if req.LastName != nil {
		account.LastName = strings.TrimSpace(*req.LastName)
	}
	if req.Department != nil {
		account.Department = strings.TrimSpace(*req.Department)
	}
	if req.Role != nil {
		role := domain.Role(*req.Role)
		if !role.Valid() {
			badRequest(w, r, "invalid role")
			return
		}
		account.Role = role
	}
	if req.Active != nil {
		account.Active = *req.Active
	}

	if err := h.accounts.Update(account); err != nil {
		internalError(w, r)
		return
	}
	observability.Audit(r, "account.update", "account_id", account.ID)
	response.JSON(w, r, http.StatusOK, account)
}

func (h *AccountHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r)
	if err != nil {
		badRequest(w, r, "invalid account id")
		return
	}
	if err := h.accounts.SoftDelete(id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			notFound(w, r, "account not found")
			return
		}
		internalError(w, r)
		return
	}
	observability.Audit(r, "account.delete", "account_id", id)
	response.JSON(w, r, http.StatusOK, map[string]any{"deleted": id})
}
