package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/odyssey-erp/odyssey-users/internal/auth"
	"github.com/odyssey-erp/odyssey-users/internal/observability"
	"github.com/odyssey-erp/odyssey-users/internal/platform/httpx"
	"github.com/odyssey-erp/odyssey-users/internal/roles"
	"github.com/odyssey-erp/odyssey-users/internal/users"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger       *slog.Logger
	Config       *Config
	AuthHandler  *auth.Handler
	RolesHandler *roles.Handler
	UsersHandler *users.Handler
	Metrics      *observability.Metrics
}

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}
	if !InTestMode() {
		r.Use(chimw.Logger)
	}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	if params.AuthHandler != nil {
		r.Route("/auth", params.AuthHandler.MountRoutes)
	}
	if params.RolesHandler != nil {
		r.Route("/roles", params.RolesHandler.MountRoutes)
	}
	if params.UsersHandler != nil {
		r.Route("/users", params.UsersHandler.MountRoutes)
	}
	return r
}
