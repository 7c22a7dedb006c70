package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/gravitas-games/tacticsd/internal/engine"
	"github.com/rs/zerolog/log"
)

// writeJSON encodes v as the response body with status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		if err := json.NewEncoder(w).Encode(v); err != nil {
			log.Error().Err(err).Msg("failed to encode response body")
		}
	}
}

// writeError translates a typed engine error into its HTTP status code. No
// handler hand-rolls a status code outside this function.
func writeError(w http.ResponseWriter, err error) {
	kind, ok := engine.KindOf(err)
	if !ok {
		log.Error().Err(err).Msg("unmapped internal error")
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal_error"})
		return
	}

	status := http.StatusInternalServerError
	switch kind {
	case engine.ErrValidation:
		status = http.StatusBadRequest
	case engine.ErrAuth:
		status = http.StatusUnauthorized
	case engine.ErrForbidden:
		status = http.StatusForbidden
	case engine.ErrConflict:
		status = http.StatusConflict
	case engine.ErrNotFound:
		status = http.StatusNotFound
	case engine.ErrStorage:
		status = http.StatusInternalServerError
	}

	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func tokenMissingErr() error {
	return engine.Auth("missing bearer token")
}

func tokenInvalidErr(cause error) error {
	return engine.Auth("invalid bearer token: %v", cause)
}
