package middleware

import (
	"net/http"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
)

// RequireCapability gates a route on the caller's role. Runs after
// AuthMiddleware; a request without claims is treated as unauthenticated.
func RequireCapability(capability domain.Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				response.Error(w, r, http.StatusUnauthorized, "UNAUTHORIZED", "missing auth context", nil)
				return
			}
			role := domain.Role(claims.Role)
			if !role.Can(capability) {
				response.Error(w, r, http.StatusForbidden, "FORBIDDEN", "insufficient role", map[string]string{"required": string(capability)})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
