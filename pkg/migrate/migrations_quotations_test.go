package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rocklimedev/quotations-backend/pkg/migrate"
)

func TestQuotationsMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_quotations_table.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no quotations migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE IF NOT EXISTS quotations",
		"reference_number text NOT NULL",
		"final_amount numeric(12,2) NOT NULL",
		"round_off numeric(12,2) NOT NULL DEFAULT 0",
		"products jsonb",
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_quotations_reference_number",
		"CREATE INDEX IF NOT EXISTS idx_quotations_created_at_id",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestCatalogMigrationsContainSchemas(t *testing.T) {
	cases := map[string][]string{
		"*_create_customers_table.sql": {
			"CREATE TABLE IF NOT EXISTS customers",
			"CREATE TABLE IF NOT EXISTS addresses",
			"REFERENCES customers (id) ON DELETE CASCADE",
		},
		"*_create_products_table.sql": {
			"CREATE TABLE IF NOT EXISTS products",
			"selling_price numeric(12,2) NOT NULL",
			"images text[] NOT NULL DEFAULT ARRAY[]::text[]",
			"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku",
		},
	}

	for pattern, checks := range cases {
		matches, err := filepath.Glob(filepath.Join("migrations", pattern))
		if err != nil {
			t.Fatalf("glob %s: %v", pattern, err)
		}
		if len(matches) == 0 {
			t.Fatalf("no migration matching %s", pattern)
		}
		data, err := os.ReadFile(matches[0])
		if err != nil {
			t.Fatalf("read migration file: %v", err)
		}
		content := string(data)
		for _, sub := range checks {
			if !strings.Contains(content, sub) {
				t.Errorf("%s missing expected statement %q", matches[0], sub)
			}
		}
	}
}

func TestMigrationsDirValidates(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("migrations dir invalid: %v", err)
	}
}
