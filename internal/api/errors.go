package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/mendel-gtm/gtm-api/internal/generate"
)

type errorBody struct {
	Error  string   `json:"error"`
	Code   string   `json:"code"`
	Fields []string `json:"fields,omitempty"`
}

// writeError writes a JSON error response with the given HTTP status code.
func writeError(w http.ResponseWriter, status int, message, code string) {
	writeJSON(w, status, errorBody{Error: message, Code: code})
}

// writeJSON writes a JSON response with the given HTTP status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeServiceError maps generation errors to responses: validation
// failures are the caller's, provider failures are upstream's.
func writeServiceError(w http.ResponseWriter, log *zap.Logger, err error) {
	var verr *generate.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorBody{Error: verr.Error(), Code: "BAD_REQUEST", Fields: verr.Fields})
	case errors.Is(err, generate.ErrGeneratorDisabled):
		writeError(w, http.StatusServiceUnavailable, err.Error(), "GENERATOR_DISABLED")
	case errors.Is(err, generate.ErrGeneration):
		writeError(w, http.StatusBadGateway, err.Error(), "UPSTREAM_ERROR")
	default:
		log.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "INTERNAL_ERROR")
	}
}

// decodeBody decodes the JSON request body into dst. An empty body decodes
// as an empty object.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return true
		}
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error(), "BAD_REQUEST")
		return false
	}
	return true
}
