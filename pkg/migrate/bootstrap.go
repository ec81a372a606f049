package migrate

import (
	"embed"
	"fmt"
	"sort"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// BootstrapScript renders the full up-schema as a single SQL script an
// operator can paste into their database console when the backend cannot
// run migrations itself.
func BootstrapScript() (string, error) {
	entries, err := migrationFS.ReadDir("migrations")
	if err != nil {
		return "", fmt.Errorf("read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var out strings.Builder
	out.WriteString("-- catalog-backend schema bootstrap\n")
	out.WriteString("-- run each statement in order against an empty database\n")
	for _, name := range names {
		data, err := migrationFS.ReadFile("migrations/" + name)
		if err != nil {
			return "", fmt.Errorf("read migration %s: %w", name, err)
		}
		up := upSection(string(data))
		if up == "" {
			continue
		}
		out.WriteString("\n")
		out.WriteString(up)
	}
	return out.String(), nil
}

// upSection extracts the statements between "+goose Up" and "+goose Down",
// dropping the goose annotations themselves.
func upSection(sql string) string {
	var kept []string
	inUp := false
	for _, line := range strings.Split(sql, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(trimmed, "-- +goose Up"):
			inUp = true
			continue
		case strings.HasPrefix(trimmed, "-- +goose Down"):
			inUp = false
			continue
		case strings.HasPrefix(trimmed, "-- +goose"):
			continue
		}
		if inUp {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n")) + "\n"
}
