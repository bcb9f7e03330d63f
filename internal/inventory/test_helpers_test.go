package inventory

import (
	"context"
	"database/sql"
	"os"
	"testing"

	_ "github.com/mattn/go-sqlite3"
)

// testDB creates a temporary SQLite database with the inventory schema.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	f, err := os.CreateTemp("", "inventory-test-*.db")
	if err != nil {
		t.Fatalf("creating temp db: %v", err)
	}
	dbPath := f.Name()
	f.Close()
	t.Cleanup(func() { os.Remove(dbPath) })

	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON")
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	schemaSQL := `
		CREATE TABLE materials (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			description TEXT,
			type TEXT NOT NULL,
			dim_length REAL NOT NULL DEFAULT 0,
			dim_width REAL NOT NULL DEFAULT 0,
			dim_height REAL NOT NULL DEFAULT 0,
			dim_unit TEXT NOT NULL DEFAULT 'cm',
			weight_kg REAL,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE TABLE stocks (
			id TEXT PRIMARY KEY,
			material_id TEXT NOT NULL,
			quantity REAL NOT NULL DEFAULT 0 CHECK (quantity >= 0),
			location TEXT NOT NULL,
			batch_number TEXT,
			serial_number TEXT,
			expiry_date TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			FOREIGN KEY (material_id) REFERENCES materials(id) ON DELETE CASCADE
		) STRICT;
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("creating inventory tables: %v", err)
	}

	return db
}

// createTestMaterial inserts a material and returns it.
func createTestMaterial(t *testing.T, repo *SQLiteMaterialRepository, name string) *Material {
	t.Helper()

	weight := 2.5
	m := &Material{
		Name:        name,
		Description: "test material",
		Type:        "raw",
		Dimensions:  Dimensions{Length: 100, Width: 50, Height: 25, Unit: "cm"},
		WeightKG:    &weight,
	}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("creating test material: %v", err)
	}
	return m
}
