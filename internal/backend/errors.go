package backend

import (
	"fmt"
	"strings"

	apperrors "github.com/wishara/admin-console/internal/errors"
)

// ErrUnauthorized is returned for any 401 made on behalf of a session.
// By the time a caller sees it the session has been torn down.
var ErrUnauthorized = apperrors.Unauthorized("Your session has expired. Please sign in again.")

// APIError is a non-2xx response from the content API.
type APIError struct {
	Status  int
	Message string
	Errors  []string
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("api %d: %s (%s)", e.Status, e.Message, strings.Join(e.Errors, "; "))
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

// Unwrap exposes the classified AppError so apperrors.GetCode and friends
// work on API failures.
func (e *APIError) Unwrap() error {
	msg := e.Message
	if len(e.Errors) > 0 && (msg == "" || msg == defaultMessage(e.Status)) {
		msg = e.Errors[0]
	}
	return &apperrors.AppError{Code: apperrors.CodeForStatus(e.Status), Message: msg}
}

func defaultMessage(status int) string {
	return fmt.Sprintf("request failed with status %d", status)
}
