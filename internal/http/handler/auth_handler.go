package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
	"github.com/AgnesMuita/asset-maintenance-api/internal/observability"
	"github.com/AgnesMuita/asset-maintenance-api/internal/service"
)

type AuthHandler struct {
	auth *service.AuthService
}

func NewAuthHandler(auth *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type registerRequest struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Department string `json:"department"`
}

type tokenPairResponse struct {
	Account      *domain.Account `json:"account,omitempty"`
	AccessToken  string          `json:"accessToken"`
	RefreshToken string          `json:"refreshToken"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		observability.RecordAuthRegister("bad_request")
		badRequest(w, r, "malformed json body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		observability.RecordAuthRegister("bad_request")
		badRequest(w, r, "email and password are required")
		return
	}

	account, pair, err := h.auth.Register(service.RegisterInput{
		FirstName:  strings.TrimSpace(req.FirstName),
		LastName:   strings.TrimSpace(req.LastName),
		Email:      req.Email,
		Password:   req.Password,
		Department: strings.TrimSpace(req.Department),
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			observability.RecordAuthRegister("conflict")
			response.Error(w, r, http.StatusConflict, "EMAIL_TAKEN", "email already registered", nil)
			return
		}
		observability.RecordAuthRegister("error")
		internalError(w, r)
		return
	}
	observability.RecordAuthRegister("success")
	observability.Audit(r, "auth.register", "account_id", account.ID)
	response.JSON(w, r, http.StatusCreated, tokenPairResponse{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		observability.RecordAuthLogin("bad_request")
		badRequest(w, r, "malformed json body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		observability.RecordAuthLogin("bad_request")
		badRequest(w, r, "email and password are required")
		return
	}

	account, pair, err := h.auth.Login(req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrAccountNotFound):
			observability.RecordAuthLogin("not_found")
			notFound(w, r, "account not found")
		case errors.Is(err, service.ErrInvalidCredentials):
			observability.RecordAuthLogin("denied")
			response.Error(w, r, http.StatusForbidden, "INVALID_CREDENTIALS", "invalid credentials", nil)
		default:
			observability.RecordAuthLogin("error")
			internalError(w, r)
		}
		return
	}
	observability.RecordAuthLogin("success")
	observability.Audit(r, "auth.login", "account_id", account.ID)
	response.JSON(w, r, http.StatusOK, tokenPairResponse{
		Account:      account,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Refresh exchanges a live refresh token for a new pair. The old token is
// consumed even if the response is lost; retrying with it yields 401.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := decodeJSON(r, &req); err != nil {
		observability.RecordAuthRefresh("bad_request")
		badRequest(w, r, "malformed json body")
		return
	}
	if req.RefreshToken == "" {
		observability.RecordAuthRefresh("bad_request")
		badRequest(w, r, "refreshToken is required")
		return
	}

	pair, err := h.auth.Refresh(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRefreshTokenExpired):
			observability.RecordAuthRefresh("expired")
			response.Error(w, r, http.StatusUnauthorized, "TOKEN_EXPIRED", "refresh token expired", nil)
		case errors.Is(err, service.ErrInvalidRefreshToken):
			observability.RecordAuthRefresh("denied")
			response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid refresh token", nil)
		default:
			observability.RecordAuthRefresh("error")
			internalError(w, r)
		}
		return
	}
	observability.RecordAuthRefresh("success")
	response.JSON(w, r, http.StatusOK, tokenPairResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type revokeRequest struct {
	UserID uint `json:"userId"`
}

// RevokeAll invalidates every refresh session of an account. Without a body it
// targets the caller; a userId naming another account needs the session-revoke
// capability. Access tokens already issued keep working until they expire.
func (h *AuthHandler) RevokeAll(w http.ResponseWriter, r *http.Request) {
	claims, accountID, ok := callerClaims(w, r)
	if !ok {
		observability.RecordAuthRevoke("denied")
		return
	}

	target := accountID
	if r.ContentLength != 0 {
		var req revokeRequest
		if err := decodeJSON(r, &req); err != nil {
			observability.RecordAuthRevoke("bad_request")
			badRequest(w, r, "malformed json body")
			return
		}
		if req.UserID != 0 {
			target = req.UserID
		}
	}
	if target != accountID && !domain.Role(claims.Role).Can(domain.CapSessionRevoke) {
		observability.RecordAuthRevoke("denied")
		response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role", map[string]string{"required": string(domain.CapSessionRevoke)})
		return
	}

	revoked, err := h.auth.RevokeAll(target)
	if err != nil {
		observability.RecordAuthRevoke("error")
		internalError(w, r)
		return
	}
	observability.RecordAuthRevoke("success")
	observability.Audit(r, "auth.revoke_all", "caller_id", accountID, "account_id", target, "revoked", revoked)
	response.JSON(w, r, http.StatusOK, map[string]any{"revoked": revoked})
}
