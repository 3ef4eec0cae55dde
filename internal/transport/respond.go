package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/feed"
	"github.com/rpggio/painel/internal/repository"
)

// APIError is the error body returned by the HTTP API.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

// mapError maps domain errors to HTTP status and error codes.
func mapError(err error) (int, APIError) {
	switch {
	case errors.Is(err, activity.ErrInvalidInput), errors.Is(err, repository.ErrInvalidInput):
		return http.StatusBadRequest, APIError{Code: "INVALID_INPUT", Message: err.Error()}
	case errors.Is(err, repository.ErrUnknownKey):
		return http.StatusNotFound, APIError{Code: "UNKNOWN_KEY", Message: err.Error()}
	case errors.Is(err, feed.ErrClosed):
		return http.StatusServiceUnavailable, APIError{Code: "UNAVAILABLE", Message: "feed is shutting down"}
	default:
		return http.StatusInternalServerError, APIError{Code: "INTERNAL", Message: "internal error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, err error) {
	status, apiErr := mapError(err)
	writeJSON(w, status, errorResponse{Error: apiErr})
}
