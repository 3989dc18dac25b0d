package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AgnesMuita/asset-maintenance-api/internal/security"
)

func newTestJWT(accessTTL time.Duration) *security.JWTManager {
	return security.NewJWTManager("asset-maintenance-api", "access-secret", "refresh-secret", accessTTL, 48*time.Hour)
}

func protectedEcho(t *testing.T) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, ok := ClaimsFromContext(r.Context())
		if !ok {
			t.Fatal("expected claims in context")
		}
		w.Header().Set("X-Subject", claims.Subject)
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddlewareAcceptsBearerToken(t *testing.T) {
	jwtMgr := newTestJWT(time.Hour)
	token, err := jwtMgr.SignAccessToken(42, "technician")
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	AuthMiddleware(jwtMgr)(protectedEcho(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("X-Subject"); got != "42" {
		t.Fatalf("expected subject 42, got %q", got)
	}
}

func TestAuthMiddlewareRejectsMissingToken(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	AuthMiddleware(newTestJWT(time.Hour))(protectedEcho(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "UNAUTHORIZED") {
		t.Fatalf("expected UNAUTHORIZED code, got %s", rec.Body.String())
	}
}

func TestAuthMiddlewareExpiredTokenGetsDistinctCode(t *testing.T) {
	expiredMgr := newTestJWT(-time.Minute)
	token, err := expiredMgr.SignAccessToken(7, "basic")
	if err != nil {
		t.Fatalf("sign access token: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	AuthMiddleware(expiredMgr)(protectedEcho(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "TOKEN_EXPIRED") {
		t.Fatalf("expected TOKEN_EXPIRED code, got %s", rec.Body.String())
	}
}

func TestAuthMiddlewareRejectsRefreshTokenOnAccessRoute(t *testing.T) {
	jwtMgr := newTestJWT(time.Hour)
	refresh, err := jwtMgr.SignRefreshToken(7, security.NewSessionID())
	if err != nil {
		t.Fatalf("sign refresh token: %v", err)
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cases", nil)
	req.Header.Set("Authorization", "Bearer "+refresh)
	AuthMiddleware(jwtMgr)(protectedEcho(t)).ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for refresh token, got %d", rec.Code)
	}
}
