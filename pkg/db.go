package pkg

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// https://www.postgresql.org/docs/current/errcodes-appendix.html
const (
	pgCodeUniqueViolation      = "23505"
	pgCodeSerializationFailure = "40001"
	pgCodeDeadlockDetected     = "40P01"
)

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

// IsUniqueViolationError checks if the error is a unique violation error
func IsUniqueViolationError(err error) bool {
	return pgErrorCode(err) == pgCodeUniqueViolation
}

// IsRetryableTxError reports transaction failures caused by concurrent writers
// touching the same keys: serialization failures, deadlocks and a concurrent
// insert winning the unique key race.
func IsRetryableTxError(err error) bool {
	switch pgErrorCode(err) {
	case pgCodeSerializationFailure, pgCodeDeadlockDetected, pgCodeUniqueViolation:
		return true
	default:
		return false
	}
}
