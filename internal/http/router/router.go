package router

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/AgnesMuita/asset-maintenance-api/internal/domain"
	"github.com/AgnesMuita/asset-maintenance-api/internal/health"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/handler"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/middleware"
	"github.com/AgnesMuita/asset-maintenance-api/internal/http/response"
	"github.com/AgnesMuita/asset-maintenance-api/internal/security"
)

type Dependencies struct {
	AuthHandler         *handler.AuthHandler
	AccountHandler      *handler.AccountHandler
	CaseHandler         *handler.CaseHandler
	AssetHandler        *handler.AssetHandler
	ArticleHandler      *handler.ArticleHandler
	AnnouncementHandler *handler.AnnouncementHandler
	DocumentHandler     *handler.DocumentHandler
	TrashHandler        *handler.TrashHandler
	JWTManager          *security.JWTManager
	Logger              *slog.Logger
	CORSOrigins         []string
	AuthRateLimitRPM    int
	APIRateLimitRPM     int
	BodyLimitBytes      int64
	Readiness           *health.ProbeRunner
	EnableOTelHTTP      bool
}

func NewRouter(dep Dependencies) http.Handler {
	if dep.Logger == nil {
		dep.Logger = slog.Default()
	}
	if dep.BodyLimitBytes <= 0 {
		dep.BodyLimitBytes = 1 << 20
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.StructuredRequestLogger(dep.Logger))
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(dep.CORSOrigins))
	r.Use(middleware.BodyLimit(dep.BodyLimitBytes))
	r.Use(middleware.NewRateLimiter(dep.APIRateLimitRPM, time.Minute).Middleware())

	authLimiter := middleware.NewRateLimiter(dep.AuthRateLimitRPM, time.Minute).Middleware()
	authed := middleware.AuthMiddleware(dep.JWTManager)

	r.Get("/health/live", func(w http.ResponseWriter, r *http.Request) {
		response.JSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/health/ready", func(w http.ResponseWriter, r *http.Request) {
		if dep.Readiness == nil {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": []any{}})
			return
		}
		ready, results := dep.Readiness.Ready(r.Context())
		if ready {
			response.JSON(w, r, http.StatusOK, map[string]any{"status": "ready", "checks": results})
			return
		}
		response.Error(w, r, http.StatusServiceUnavailable, "DEPENDENCY_UNREADY", "dependencies are not ready", map[string]any{"checks": results})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(authLimiter).Post("/register", dep.AuthHandler.Register)
			r.With(authLimiter).Post("/login", dep.AuthHandler.Login)
			r.With(authLimiter).Post("/refreshToken", dep.AuthHandler.Refresh)
			r.With(authed, authLimiter).Post("/revokeRefreshTokens", dep.AuthHandler.RevokeAll)
		})

		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Get("/me", dep.AccountHandler.Me)

			r.Route("/accounts", func(r chi.Router) {
				r.Use(middleware.RequireCapability(domain.CapAccountManage))
				r.Get("/", dep.AccountHandler.List)
				r.Get("/{id}", dep.AccountHandler.Get)
				r.Patch("/{id}", dep.AccountHandler.Update)
				r.Delete("/{id}", dep.AccountHandler.Delete)
			})

			r.Route("/cases", func(r chi.Router) {
				r.Get("/", dep.CaseHandler.List)
				r.Get("/{id}", dep.CaseHandler.Get)
				r.Post("/", dep.CaseHandler.Create)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(domain.CapCaseManage))
					r.Patch("/{id}", dep.CaseHandler.Update)
					r.Delete("/{id}", dep.CaseHandler.Delete)
				})
			})

			r.Route("/assets", func(r chi.Router) {
				r.Get("/", dep.AssetHandler.List)
				r.Get("/{id}", dep.AssetHandler.Get)
				r.Get("/{id}/allocations", dep.AssetHandler.AllocationHistory)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(domain.CapAssetManage))
					r.Post("/", dep.AssetHandler.Create)
					r.Patch("/{id}", dep.AssetHandler.Update)
					r.Delete("/{id}", dep.AssetHandler.Delete)
					r.Post("/{id}/allocate", dep.AssetHandler.Allocate)
					r.Post("/{id}/return", dep.AssetHandler.Return)
				})
			})

			r.Route("/articles", func(r chi.Router) {
				r.Get("/", dep.ArticleHandler.List)
				r.Get("/{id}", dep.ArticleHandler.Get)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(domain.CapArticleManage))
					r.Post("/", dep.ArticleHandler.Create)
					r.Patch("/{id}", dep.ArticleHandler.Update)
					r.Delete("/{id}", dep.ArticleHandler.Delete)
				})
			})

			r.Route("/announcements", func(r chi.Router) {
				r.Get("/", dep.AnnouncementHandler.List)
				r.Get("/{id}", dep.AnnouncementHandler.Get)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(domain.CapAnnounceManage))
					r.Post("/", dep.AnnouncementHandler.Create)
					r.Patch("/{id}", dep.AnnouncementHandler.Update)
					r.Delete("/{id}", dep.AnnouncementHandler.Delete)
				})
			})

			r.Route("/documents", func(r chi.Router) {
				r.Get("/", dep.DocumentHandler.List)
				r.Get("/{id}", dep.DocumentHandler.Get)
				r.Group(func(r chi.Router) {
					r.Use(middleware.RequireCapability(domain.CapDocumentManage))
					r.Post("/", dep.DocumentHandler.Create)
					r.Delete("/{id}", dep.DocumentHandler.Delete)
				})
			})

			r.Route("/trash", func(r chi.Router) {
				r.Use(middleware.RequireCapability(domain.CapTrashManage))
				r.Get("/{entity}", dep.TrashHandler.List)
				r.Post("/{entity}/{id}/restore", dep.TrashHandler.Restore)
				r.Post("/purge", dep.TrashHandler.Purge)
			})
		})
	})

	var h http.Handler = r
	if dep.EnableOTelHTTP {
		h = otelhttp.NewHandler(r, "http.server")
	}
	return h
}
