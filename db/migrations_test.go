package db

import (
	"regexp"
	"strings"
	"testing"
)

// The store layer sorts line items by insertion time, so every table must
// carry a created_at column.
func TestEveryTableCarriesCreatedAt(t *testing.T) {
	data, err := Migrations.ReadFile("migrations/0001_init.up.sql")
	if err != nil {
		t.Fatalf("read embedded migration: %v", err)
	}

	tableRe := regexp.MustCompile(`(?s)CREATE TABLE (\w+) \((.*?)\);`)
	matches := tableRe.FindAllStringSubmatch(string(data), -1)
	if len(matches) == 0 {
		t.Fatal("no CREATE TABLE statements found in migration")
	}

	want := map[string]bool{
		"products":    false,
		"carts":       false,
		"cart_items":  false,
		"orders":      false,
		"order_items": false,
		"reviews":     false,
	}
	for _, m := range matches {
		name, body := m[1], m[2]
		if _, ok := want[name]; !ok {
			t.Errorf("unexpected table %s in migration", name)
			continue
		}
		want[name] = true
		if !strings.Contains(body, "created_at TIMESTAMPTZ NOT NULL DEFAULT now()") {
			t.Errorf("table %s is missing a created_at column", name)
		}
	}
	for name, seen := range want {
		if !seen {
			t.Errorf("table %s not found in migration", name)
		}
	}
}
