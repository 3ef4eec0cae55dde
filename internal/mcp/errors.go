package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/painel/internal/domain/activity"
	"github.com/rpggio/painel/internal/feed"
)

// APIError is returned to MCP clients as the text of an error result.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// MapError maps domain errors to MCP error codes. Unknown errors map to nil.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.Is(err, activity.ErrInvalidInput):
		return &APIError{Code: "INVALID_INPUT", Message: err.Error(), RecoveryHint: "Check tool arguments"}
	case errors.Is(err, feed.ErrClosed):
		return &APIError{Code: "UNAVAILABLE", Message: "feed is shutting down", RecoveryHint: "Retry after restart"}
	default:
		return nil
	}
}
