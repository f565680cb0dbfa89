// Package httpapi is the thin HTTP layer: it assembles the middleware chain
// and mounts the domain handlers. Business logic stays in the services.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"vowcraft/internal/identity"
	authmw "vowcraft/pkg/platform/middleware/auth"
	"vowcraft/pkg/platform/middleware/metadata"
	"vowcraft/pkg/platform/middleware/requesttime"
)

// Registrar is implemented by the domain handlers.
type Registrar interface {
	Register(r chi.Router)
}

// Deps carries everything the router needs.
type Deps struct {
	Logger       *slog.Logger
	TokenService authmw.Validator

	CookieCodec   *identity.Codec
	CookieMaxAge  int
	SecureCookies bool

	// Public handlers serve both anonymous and authenticated callers;
	// Protected handlers require a valid session token.
	Public    []Registrar
	Protected []Registrar
}

// NewRouter wires the full middleware chain and all endpoints.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(identity.Middleware(deps.CookieCodec, deps.CookieMaxAge, deps.SecureCookies))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Group(func(public chi.Router) {
		public.Use(authmw.Optional(deps.TokenService, deps.Logger))
		for _, h := range deps.Public {
			h.Register(public)
		}
	})

	r.Group(func(protected chi.Router) {
		protected.Use(authmw.RequireAuth(deps.TokenService, deps.Logger))
		for _, h := range deps.Protected {
			h.Register(protected)
		}
	})

	return r
}
