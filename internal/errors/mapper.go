// internal/errors/mapper.go
package errors

import (
	"context"
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// HTTPStatus converts service/repo errors into an HTTP status code.
// Keeps handlers clean by centralizing error mapping.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK

	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized

	case IsInvalidTransition(err):
		return http.StatusConflict

	case errors.Is(err, ErrNotFound), errors.Is(err, gorm.ErrRecordNotFound):
		return http.StatusNotFound

	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout

	default:
		return http.StatusInternalServerError
	}
}

// Message returns the client-facing error string. Infrastructure failures are
// collapsed to a generic message; precondition reasons pass through verbatim.
func Message(err error) string {
	var se *StorageError
	if errors.As(err, &se) {
		return "storage failure, please retry"
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "not found"
	}
	return err.Error()
}
