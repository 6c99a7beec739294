package errors

import (
	"context"
	goerrors "errors"

	apperrors "github.com/wishara/admin-console/internal/errors"
)

// Classify returns a short error class suitable for tagging metrics and logs.
// AppError codes are used as-is; context errors get their own classes.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case goerrors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case goerrors.Is(err, context.Canceled):
		return "canceled"
	}
	if code := apperrors.GetCode(err); code != "" {
		return string(code)
	}
	return "unknown"
}
