package dbpkg

import (
	"errors"

	"github.com/lib/pq"
)

// Postgres SQLSTATE codes.
const (
	codeSerializationFailure = "40001"
	codeDeadlockDetected     = "40P01"
	codeLockNotAvailable     = "55P03"
	codeUniqueViolation      = "23505"
	codeNumericOutOfRange    = "22003"
)

// Constraint returns the name of the violated constraint, or "" when err is not a *pq.Error.
func Constraint(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}

	return ""
}

// IsConcurrencyConflict reports whether err was raised by lock contention worth a caller retry.
func IsConcurrencyConflict(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	switch pqErr.Code {
	case codeSerializationFailure, codeDeadlockDetected, codeLockNotAvailable:
		return true
	}

	return false
}

// IsUniqueViolation reports whether err violates the named unique constraint.
func IsUniqueViolation(err error, constraint string) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == codeUniqueViolation && pqErr.Constraint == constraint
}

// IsNumericOutOfRange reports whether err was raised by a value that does not fit its numeric
// column.
func IsNumericOutOfRange(err error) bool {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return false
	}

	return pqErr.Code == codeNumericOutOfRange
}
