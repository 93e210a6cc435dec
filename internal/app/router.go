package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/meridian-shop/meridian-shop/internal/auth"
	"github.com/meridian-shop/meridian-shop/internal/catalog"
	"github.com/meridian-shop/meridian-shop/internal/observability"
	"github.com/meridian-shop/meridian-shop/internal/products"
	"github.com/meridian-shop/meridian-shop/internal/shared"
	"github.com/meridian-shop/meridian-shop/internal/siteconfig"
	"github.com/meridian-shop/meridian-shop/internal/users"
	"github.com/meridian-shop/meridian-shop/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger            *slog.Logger
	Config            *Config
	SessionManager    *shared.SessionManager
	CSRFManager       *shared.CSRFManager
	AuthHandler       *auth.Handler
	UsersHandler      *users.Handler
	CatalogHandler    *catalog.Handler
	ProductsHandler   *products.Handler
	SiteConfigHandler *siteconfig.Handler
	JobHandler        *jobs.Handler
	Metrics           *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:         params.Logger,
		Config:         params.Config,
		SessionManager: params.SessionManager,
		CSRFManager:    params.CSRFManager,
		Metrics:        params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/auth", params.AuthHandler.MountRoutes)
	if params.UsersHandler != nil {
		r.Route("/users", func(r chi.Router) {
			params.UsersHandler.MountRoutes(r)
		})
	}
	if params.CatalogHandler != nil {
		r.Route("/categories", func(r chi.Router) {
			params.CatalogHandler.MountRoutes(r)
		})
	}
	if params.ProductsHandler != nil {
		r.Route("/products", func(r chi.Router) {
			params.ProductsHandler.MountRoutes(r)
		})
	}
	if params.SiteConfigHandler != nil {
		r.Route("/site-config", func(r chi.Router) {
			params.SiteConfigHandler.MountRoutes(r)
		})
	}
	if params.JobHandler != nil {
		r.Route("/jobs", func(r chi.Router) {
			params.JobHandler.MountRoutes(r)
		})
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
