package api

import (
	"net/http"

	"github.com/mendel-gtm/gtm-api/internal/gtmctx"
	"github.com/mendel-gtm/gtm-api/internal/store"
)

type contextHandler struct {
	contexts *gtmctx.Provider
}

func newContextHandler(p *gtmctx.Provider) *contextHandler {
	return &contextHandler{contexts: p}
}

// clientsResponse is the JSON shape for GET /api/clients.
type clientsResponse struct {
	Success bool           `json:"success"`
	Clients []store.Tenant `json:"clients"`
}

// Clients lists the tenants context can be served for.
// GET /api/clients
func (h *contextHandler) Clients(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, clientsResponse{Success: true, Clients: h.contexts.Tenants(r.Context())})
}

// ClearCache drops every cached context lookup.
// POST /api/cache/clear
func (h *contextHandler) ClearCache(w http.ResponseWriter, r *http.Request) {
	h.contexts.ClearCache()
	writeJSON(w, http.StatusOK, map[string]any{"success": true, "message": "Cache cleared"})
}

// listHandler serves one entity kind as {"success", "client", key: items}.
// The query parameter named by filter selects matching entries.
func listHandler[T any](h *contextHandler, key, filter string, list func(r *http.Request, tenant, want string) []T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		tenant := h.contexts.Tenant(q.Get("client"))
		var want string
		if filter != "" {
			want = q.Get(filter)
		}
		items := list(r, tenant, want)
		if items == nil {
			items = []T{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true, "client": tenant, key: items})
	}
}

// Playbook serves GET /api/playbook.
func (h *contextHandler) Playbook(w http.ResponseWriter, r *http.Request) {
	listHandler(h, "playbook", "", func(r *http.Request, tenant, _ string) []store.PlaybookEntry {
		return h.contexts.Playbook(r.Context(), tenant)
	})(w, r)
}

// Features serves GET /api/features?slug=.
func (h *contextHandler) Features(w http.ResponseWriter, r *http.Request) {
	listHandler(h, "features", "slug", func(r *http.Request, tenant, slug string) []store.ProductFeature {
		return h.contexts.Features(r.Context(), tenant, slug)
	})(w, r)
}

// Templates serves GET /api/templates?type=.
func (h *contextHandler) Templates(w http.ResponseWriter, r *http.Request) {
	listHandler(h, "templates", "type", func(r *http.Request, tenant, typ string) []store.EmailTemplate {
		return h.contexts.Templates(r.Context(), tenant, typ)
	})(w, r)
}

// Competitors serves GET /api/competitors?name=.
func (h *contextHandler) Competitors(w http.ResponseWriter, r *http.Request) {
	listHandler(h, "competitors", "name", func(r *http.Request, tenant, name string) []store.Competitor {
		return h.contexts.Competitors(r.Context(), tenant, name)
	})(w, r)
}

// Objections serves GET /api/objections?category=.
func (h *contextHandler) Objections(w http.ResponseWriter, r *http.Request) {
	listHandler(h, "objections", "category", func(r *http.Request, tenant, category string) []store.Objection {
		return h.contexts.Objections(r.Context(), tenant, category)
	})(w, r)
}

// CaseStudies serves GET /api/case-studies?industry=.
func (h *contextHandler) CaseStudies(w http.ResponseWriter, r *http.Request) {
	listHandler(h, "case_studies", "industry", func(r *http.Request, tenant, industry string) []store.CaseStudy {
		return h.contexts.CaseStudies(r.Context(), tenant, industry)
	})(w, r)
}

// Signals serves GET /api/signals?category=.
func (h *contextHandler) Signals(w http.ResponseWriter, r *http.Request) {
	listHandler(h, "signals", "category", func(r *http.Request, tenant, category string) []store.Signal {
		return h.contexts.Signals(r.Context(), tenant, category)
	})(w, r)
}
