package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestMetadataForKnownCodes(t *testing.T) {
	meta := MetadataFor(CodeSetupRequired)
	if meta.HTTPStatus != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for setup required, got %d", meta.HTTPStatus)
	}
	if !meta.DetailsAllowed {
		t.Fatal("setup required should allow details")
	}
	if !meta.Retryable {
		t.Fatal("setup required should be retryable")
	}
}

func TestMetadataForUnknownCodeFallsBackToInternal(t *testing.T) {
	meta := MetadataFor(Code("NOPE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("expected internal fallback, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(CodeDependency, cause, "load products")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be discoverable with errors.Is")
	}
	if err.Code() != CodeDependency {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if err.Error() != "DEPENDENCY_ERROR: load products" {
		t.Fatalf("unexpected error string %q", err.Error())
	}
}

func TestAsFindsTypedErrorThroughWrapping(t *testing.T) {
	typed := New(CodeNotFound, "category not found")
	wrapped := fmt.Errorf("outer: %w", typed)

	found := As(wrapped)
	if found == nil || found.Code() != CodeNotFound {
		t.Fatalf("expected typed error through wrapping, got %v", found)
	}
}

func TestDumpCapturesPostgresFields(t *testing.T) {
	pgErr := &pgconn.PgError{Code: "42P01", TableName: "products", Message: "relation does not exist"}
	err := Wrap(CodeSetupRequired, pgErr, "fetch products")

	dump := Dump(err)
	if dump.PGCode != "42P01" {
		t.Fatalf("expected pg code 42P01, got %q", dump.PGCode)
	}
	if dump.Code != CodeSetupRequired {
		t.Fatalf("expected typed code, got %q", dump.Code)
	}
	if len(dump.Chain) < 2 {
		t.Fatalf("expected unwrap chain, got %v", dump.Chain)
	}
}
