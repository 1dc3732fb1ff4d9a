package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/avelov/ticketlot/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

func decodeBody(r *http.Request, dst any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(dst)
}

// handleError maps domain errors to status codes in one place. Token
// and credential failures deliberately collapse to one generic message
// each so callers cannot distinguish the failure modes.
func handleError(w http.ResponseWriter, err error) {
	var validationErr *model.ValidationError

	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, validationErr.Reason)
	case errors.Is(err, model.ErrTokenInvalid):
		writeError(w, http.StatusUnauthorized, "invalid or expired token")
	case errors.Is(err, model.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid email or password")
	case errors.Is(err, model.ErrSessionRevoked),
		errors.Is(err, model.ErrSessionExpired),
		errors.Is(err, model.ErrSessionMismatch):
		writeError(w, http.StatusUnauthorized, "invalid or expired session")
	case errors.Is(err, model.ErrDeactivated):
		writeError(w, http.StatusForbidden, "account is deactivated")
	case errors.Is(err, model.ErrUnauthorized):
		writeError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, model.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.Is(err, model.ErrConflict):
		writeError(w, http.StatusConflict, "conflict")
	case errors.Is(err, model.ErrInvalidTransition):
		writeError(w, http.StatusConflict, "invalid event state transition")
	case errors.Is(err, model.ErrEventNotOpen):
		writeError(w, http.StatusUnprocessableEntity, "event is not open")
	default:
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
