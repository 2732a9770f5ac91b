package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mendel-gtm/gtm-api/internal/build"
	"github.com/mendel-gtm/gtm-api/internal/generate"
	"github.com/mendel-gtm/gtm-api/internal/gtmctx"
)

// Endpoints lists the public routes announced by the health endpoint.
var Endpoints = []string{
	"POST /api/generate-email",
	"POST /api/research-brief",
	"POST /api/score-lead",
	"POST /api/generate",
	"POST /api/snippet",
	"GET /api/clients",
	"GET /api/playbook",
	"GET /api/features",
	"GET /api/templates",
	"GET /api/competitors",
	"GET /api/objections",
	"GET /api/case-studies",
	"GET /api/signals",
	"POST /api/cache/clear",
	"GET /metrics",
}

// HealthHandler serves the service status.
type HealthHandler struct {
	contexts *gtmctx.Provider
	gen      *generate.Service
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(p *gtmctx.Provider, gen *generate.Service) *HealthHandler {
	return &HealthHandler{contexts: p, gen: gen}
}

type healthResponse struct {
	Status     string   `json:"status"`
	Service    string   `json:"service"`
	Version    string   `json:"version"`
	Commit     string   `json:"commit"`
	Database   string   `json:"database"`
	Generation bool     `json:"generation"`
	Clients    []string `json:"clients"`
	Endpoints  []string `json:"endpoints"`
}

// Show serves GET /. The database field is "remote" when a store backs the
// context provider and "fallback" when only bundled data is served.
func (h *HealthHandler) Show(w http.ResponseWriter, r *http.Request) {
	database := "fallback"
	if h.contexts.RemoteConfigured() {
		database = "remote"
	}
	tenants := h.contexts.Tenants(r.Context())
	clients := make([]string, len(tenants))
	for i, t := range tenants {
		clients[i] = t.Slug
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(healthResponse{
		Status:     "ok",
		Service:    "GTM API",
		Version:    build.Version,
		Commit:     build.Commit,
		Database:   database,
		Generation: h.gen != nil && h.gen.Enabled(),
		Clients:    clients,
		Endpoints:  Endpoints,
	})
}
