package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/mendel-gtm/gtm-api/internal/generate"
)

type generateHandler struct {
	svc *generate.Service
	log *zap.Logger
}

func newGenerateHandler(svc *generate.Service, log *zap.Logger) *generateHandler {
	return &generateHandler{svc: svc, log: log}
}

// serve decodes the body into Req, runs call and writes the result as
// {"success": true, ...result}.
func serve[Req, Res any](h *generateHandler, call func(*generateHandler, *http.Request, Req) (Res, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req Req
		if !decodeBody(w, r, &req) {
			return
		}
		res, err := call(h, r, req)
		if err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		body, err := withSuccess(res)
		if err != nil {
			writeServiceError(w, h.log, err)
			return
		}
		writeJSON(w, http.StatusOK, body)
	}
}

// Email serves POST /api/generate-email.
func (h *generateHandler) Email(w http.ResponseWriter, r *http.Request) {
	serve(h, func(h *generateHandler, r *http.Request, req generate.EmailRequest) (*generate.EmailResult, error) {
		return h.svc.Email(r.Context(), req)
	})(w, r)
}

// Research serves POST /api/research-brief.
func (h *generateHandler) Research(w http.ResponseWriter, r *http.Request) {
	serve(h, func(h *generateHandler, r *http.Request, req generate.ResearchRequest) (*generate.ResearchResult, error) {
		return h.svc.Research(r.Context(), req)
	})(w, r)
}

// Score serves POST /api/score-lead.
func (h *generateHandler) Score(w http.ResponseWriter, r *http.Request) {
	serve(h, func(h *generateHandler, r *http.Request, req generate.ScoreRequest) (*generate.ScoreResult, error) {
		return h.svc.Score(r.Context(), req)
	})(w, r)
}

// Generate serves POST /api/generate.
func (h *generateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	serve(h, func(h *generateHandler, r *http.Request, req generate.GenerateRequest) (*generate.GenerateResult, error) {
		return h.svc.Generate(r.Context(), req)
	})(w, r)
}

// Snippet serves POST /api/snippet.
func (h *generateHandler) Snippet(w http.ResponseWriter, r *http.Request) {
	serve(h, func(h *generateHandler, r *http.Request, req generate.SnippetRequest) (*generate.SnippetResult, error) {
		return h.svc.Snippet(r.Context(), req)
	})(w, r)
}

// withSuccess flattens res into a JSON object carrying "success": true.
func withSuccess(res any) (map[string]json.RawMessage, error) {
	b, err := json.Marshal(res)
	if err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	var body map[string]json.RawMessage
	if err := json.Unmarshal(b, &body); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	body["success"] = json.RawMessage("true")
	return body, nil
}
