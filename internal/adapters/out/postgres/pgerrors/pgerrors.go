// Package pgerrors classifies PostgreSQL failures for the retry policy.
package pgerrors

import (
	"errors"

	"campusmarket/internal/pkg/errs"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeUniqueViolation      = "23505"
)

func code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsRetryable reports whether a unit of work failed because of a concurrent
// transaction and may succeed when run again from scratch.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errs.ErrVersionIsInvalid) {
		return true
	}
	switch code(err) {
	case codeSerializationFailure, codeDeadlockDetected:
		return true
	default:
		return false
	}
}

// IsUniqueViolation reports a rejected duplicate key.
func IsUniqueViolation(err error) bool {
	return code(err) == codeUniqueViolation
}
