package httperr

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgExclusionViolation = "23P01"
	pgUniqueViolation    = "23505"
	pgSerializationFail  = "40001"
)

// IsExclusionConflict reports whether err is the Postgres exclusion-constraint
// violation raised when two bookings for the same host race onto overlapping
// intervals. Serialization failures count too: the caller retries by
// re-querying slots, never by picking a different slot on its own.
func IsExclusionConflict(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgExclusionViolation || pgErr.Code == pgSerializationFail
	}
	return false
}

func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return false
}

// IsTransient reports store errors that are safe to retry wholesale: writes
// are atomic, so a timeout before commit is equivalent to "never happened".
func IsTransient(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		// Class 08: connection exceptions.
		return len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08"
	}
	return false
}
