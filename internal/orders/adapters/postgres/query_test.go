package postgres

import (
	"strings"
	"testing"
)

func TestGetQuery(t *testing.T) {
	query, args, err := getQuery("shared-data")
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	if query != "SELECT value FROM kv_store WHERE key = $1" {
		t.Errorf("unexpected query %q", query)
	}
	if len(args) != 1 || args[0] != "shared-data" {
		t.Errorf("unexpected args %v", args)
	}
}

func TestUpsertQuery(t *testing.T) {
	query, args, err := upsertQuery("shared-data", []byte(`[]`))
	if err != nil {
		t.Fatalf("build query: %v", err)
	}

	for _, fragment := range []string{
		"INSERT INTO kv_store",
		"$1", "$2", "NOW()",
		"ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value",
	} {
		if !strings.Contains(query, fragment) {
			t.Errorf("expected %q in query %q", fragment, query)
		}
	}
	if strings.Contains(query, "$3") {
		t.Errorf("expected NOW() to be inlined, got %q", query)
	}
	if len(args) != 2 || args[0] != "shared-data" || args[1] != "[]" {
		t.Errorf("unexpected args %v", args)
	}
}
