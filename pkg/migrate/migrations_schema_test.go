package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitSchemaMigrationContainsConstraints(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init schema migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE coffees",
		"CHECK (stamps BETWEEN 0 AND 8)",
		"CREATE UNIQUE INDEX uidx_cart_variant",
		"ON cart_items (user_email, coffee_id, shot_type, drink_type, size, ice_level)",
		"CHECK (ice_level BETWEEN 0 AND 2)",
		"CHECK (point_cost > 0)",
		"DROP TABLE coffees",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
