package errors

import (
	"context"
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// MapDBError maps audit store errors to AppError instances.
//   - pgx.ErrNoRows → NotFound
//   - undefined table → Unavailable with a hint to run migrations
//   - connection failures → Unavailable
//   - context timeouts/cancellations → Timeout/Canceled
//
// If the error is not a recognized database error, it returns the original error.
func MapDBError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return &AppError{Code: ErrCodeTimeout, Message: "Request timed out. Please try again.", Cause: err}
	}
	if errors.Is(err, context.Canceled) {
		return &AppError{Code: ErrCodeCanceled, Message: "Request was canceled.", Cause: err}
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return &AppError{Code: ErrCodeNotFound, Message: "Resource not found", Cause: err}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case pgErr.Code == pgerrcode.UndefinedTable:
			return &AppError{
				Code:    ErrCodeUnavailable,
				Message: "Audit storage is not initialised; run `wishara-ctl migrate`.",
				Cause:   pgErr,
			}
		case pgerrcode.IsConnectionException(pgErr.Code):
			return &AppError{Code: ErrCodeUnavailable, Message: "Audit storage is unavailable.", Cause: pgErr}
		case pgErr.Code == pgerrcode.NotNullViolation, pgerrcode.IsDataException(pgErr.Code):
			return &AppError{
				Code:    ErrCodeValidation,
				Message: "Invalid audit entry.",
				Field:   pgErr.ColumnName,
				Cause:   pgErr,
			}
		default:
			return &AppError{Code: ErrCodeInternal, Message: "A database error occurred. Please try again.", Cause: pgErr}
		}
	}

	return err
}
