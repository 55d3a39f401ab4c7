package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/isdelr/habit-tracker-be/internal/auth"
	"github.com/isdelr/habit-tracker-be/internal/services"
	"github.com/rs/zerolog/log"
)

// errorMessages holds the client-facing text for each service error class.
// Empty entries fall back to a generic message.
type errorMessages struct {
	invalidInput      string
	notFound          string
	conflict          string
	invalidCredential string
	storage           string
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// writeServiceError maps a service error onto its HTTP status.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, msgs errorMessages) {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, orDefault(msgs.invalidInput, "Invalid request"))
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, orDefault(msgs.notFound, "Not found"))
	case errors.Is(err, services.ErrConflict):
		writeError(w, http.StatusConflict, orDefault(msgs.conflict, "Conflict"))
	case errors.Is(err, services.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, orDefault(msgs.invalidCredential, "Invalid credentials"))
	default:
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("Request failed")
		writeError(w, http.StatusInternalServerError, orDefault(msgs.storage, "Database error"))
	}
}

func orDefault(msg, fallback string) string {
	if msg == "" {
		return fallback
	}
	return msg
}

func decodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// accountID returns the caller resolved by auth.RequireIdentity.
func accountID(r *http.Request) int64 {
	id, _ := auth.AccountID(r.Context())
	return id
}

// idParam parses a numeric chi URL parameter.
func idParam(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	return id, err == nil
}
