package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/buynowhq/buynow-backend/pkg/migrate"
)

func TestInitMigrationContainsSchemas(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_init_schema.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no init migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE users",
		"CREATE UNIQUE INDEX idx_users_email",
		"CREATE TABLE products",
		"CREATE TABLE product_images",
		"CREATE TABLE reviews",
		"CREATE UNIQUE INDEX idx_reviews_product_user",
		"CREATE TABLE orders",
		"CREATE TABLE order_line_items",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestValidateDirAcceptsShippedMigrations(t *testing.T) {
	if err := migrate.ValidateDir("migrations"); err != nil {
		t.Fatalf("shipped migrations failed validation: %v", err)
	}
}
