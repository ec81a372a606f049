package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

func TestIsSchemaMissing(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sentinel", ErrSchemaMissing, true},
		{"wrapped sentinel", fmt.Errorf("query categories: %w", ErrSchemaMissing), true},
		{"pgx undefined table", &pgconn.PgError{Code: "42P01", Message: `relation "categories" does not exist`}, true},
		{"pq undefined table", &pq.Error{Code: "42P01"}, true},
		{"pgx other code", &pgconn.PgError{Code: "23505"}, false},
		{"sqlite no such table", errors.New("no such table: products"), true},
		{"unrelated", errors.New("connection refused"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := IsSchemaMissing(tc.err); got != tc.want {
				t.Fatalf("IsSchemaMissing(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestIsUniqueViolation(t *testing.T) {
	err := errors.New(`duplicate key value violates unique constraint "idx_users_email"`)
	if !IsUniqueViolation(err, "") {
		t.Fatal("expected generic unique violation match")
	}
	if !IsUniqueViolation(err, "idx_users_email") {
		t.Fatal("expected named constraint match")
	}
	if IsUniqueViolation(err, "idx_other") {
		t.Fatal("did not expect match for different constraint")
	}
	if IsUniqueViolation(nil, "") {
		t.Fatal("nil error must not match")
	}
}
