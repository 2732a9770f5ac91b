// Package handler assembles the root HTTP router: middleware, the health
// endpoint, metrics and the JSON API.
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mendel-gtm/gtm-api/internal/api"
	"github.com/mendel-gtm/gtm-api/internal/generate"
	"github.com/mendel-gtm/gtm-api/internal/gtmctx"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	Contexts  *gtmctx.Provider
	Generator *generate.Service
	Log       *zap.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	if deps.Log == nil {
		deps.Log = zap.NewNop()
	}

	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(deps.Log.Named("http")))
	r.Use(middleware.Recoverer)

	health := NewHealthHandler(deps.Contexts, deps.Generator)
	r.Get("/", health.Show)
	r.Handle("/metrics", promhttp.Handler())

	r.Mount("/api", api.NewAPIRouter(api.Deps{
		Contexts:  deps.Contexts,
		Generator: deps.Generator,
		Log:       deps.Log,
	}))

	return r
}
