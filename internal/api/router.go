// Package api serves the JSON API: tenant context listings, cache control
// and the generation endpoints.
package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mendel-gtm/gtm-api/internal/generate"
	"github.com/mendel-gtm/gtm-api/internal/gtmctx"
)

const maxBodyBytes = 1 << 20

// Deps holds all dependencies required to build the API router.
type Deps struct {
	Contexts  *gtmctx.Provider
	Generator *generate.Service
	Log       *zap.Logger
}

// NewAPIRouter creates a chi sub-router for /api.
// All routes return application/json.
func NewAPIRouter(deps Deps) chi.Router {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("api")

	r := chi.NewRouter()
	r.Use(jsonContentType)

	ctxh := newContextHandler(deps.Contexts)
	r.Get("/clients", ctxh.Clients)
	r.Post("/cache/clear", ctxh.ClearCache)
	r.Get("/playbook", ctxh.Playbook)
	r.Get("/features", ctxh.Features)
	r.Get("/templates", ctxh.Templates)
	r.Get("/competitors", ctxh.Competitors)
	r.Get("/objections", ctxh.Objections)
	r.Get("/case-studies", ctxh.CaseStudies)
	r.Get("/signals", ctxh.Signals)

	gen := newGenerateHandler(deps.Generator, log)
	r.Post("/generate-email", gen.Email)
	r.Post("/research-brief", gen.Research)
	r.Post("/score-lead", gen.Score)
	r.Post("/generate", gen.Generate)
	r.Post("/snippet", gen.Snippet)

	return r
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
