package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/AgnesMuita/asset-maintenance-api/internal/http/middleware"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
	"github.com/AgnesMuita/asset-maintenance-api/internal/repository"
	"github.com/AgnesMuita/asset-maintenance-api/internal/security"
)

var errBadJSON = errors.New("malformed json body")

func decodeJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return errBadJSON
	}
	if dec.More() {
		return errBadJSON
	}
	if _, err := io.Copy(io.Discard, r.Body); err != nil {
		return errBadJSON
	}
	return nil
}

func idParam(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}

func pageRequest(r *http.Request) repository.PageRequest {
	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	size, _ := strconv.Atoi(q.Get("page_size"))
	return repository.PageRequest{Page: page, PageSize: size}
}

func callerClaims(w http.ResponseWriter, r *http.Request) (*security.Claims, uint, bool) {
	claims, ok := middleware.ClaimsFromContext(r.Context())
	if !ok {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
		return nil, 0, false
	}
	accountID, err := claims.AccountID()
	if err != nil {
		response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "invalid auth context", nil)
		return nil, 0, false
	}
	return claims, accountID, true
}

func badRequest(w http.ResponseWriter, r *http.Request, message string) {
	response.Error(w, r, http.StatusBadRequest, "BAD_REQUEST", message, nil)
}

func notFound(w http.ResponseWriter, r *http.Request, message string) {
	response.Error(w, r, http.StatusNotFound, "NOT_FOUND", message, nil)
}

func internalError(w http.ResponseWriter, r *http.Request) {
	response.Error(w, r, http.StatusInternalServerError, "INTERNAL", "internal server error", nil)
}
