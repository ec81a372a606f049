package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

// ErrSchemaMissing signals that the backing tables have not been provisioned
// yet. Callers treat this as a setup-pending condition, not a failure.
var ErrSchemaMissing = errors.New("database schema missing")

const pgUndefinedTable = "42P01"

// IsSchemaMissing reports whether the error means a referenced table does not
// exist. Postgres signals undefined_table; SQLite reports "no such table".
func IsSchemaMissing(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrSchemaMissing) {
		return true
	}

	var pgxErr *pgconn.PgError
	if errors.As(err, &pgxErr) {
		return pgxErr.Code == pgUndefinedTable
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUndefinedTable
	}

	return strings.Contains(err.Error(), "no such table")
}

// IsUniqueViolation reports whether the provided error references a unique
// violation. When constraintName is provided, the helper looks for the
// constraint text in the error message.
func IsUniqueViolation(err error, constraintName string) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	if constraintName != "" {
		return strings.Contains(msg, constraintName)
	}
	return strings.Contains(msg, "duplicate key value") || strings.Contains(msg, "UNIQUE constraint failed")
}
