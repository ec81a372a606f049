package migrate

import (
	"strings"
	"testing"
)

func TestBootstrapScript(t *testing.T) {
	script, err := BootstrapScript()
	if err != nil {
		t.Fatalf("bootstrap script failed: %v", err)
	}

	for _, table := range []string{"categories", "products", "settings", "users", "outbox_events"} {
		if !strings.Contains(script, "CREATE TABLE "+table) {
			t.Fatalf("script missing CREATE TABLE %s", table)
		}
	}
	if strings.Contains(script, "+goose") {
		t.Fatal("goose annotations must be stripped")
	}
	if strings.Contains(script, "DROP TABLE") {
		t.Fatal("down statements must not leak into the bootstrap script")
	}
	if !strings.Contains(script, "ON DELETE CASCADE") {
		t.Fatal("products must cascade on category delete")
	}
}

func TestValidateMigrationsDir(t *testing.T) {
	if err := ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir failed validation: %v", err)
	}
}
