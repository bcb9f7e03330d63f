package auth

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/oakmere/warehouse-core/internal/infrastructure/config"
	"github.com/oakmere/warehouse-core/internal/infrastructure/logging"
)

// testDB creates a temporary SQLite database with the users schema applied.
// The database file is cleaned up when the test completes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	// Use a temp file so WAL mode works (in-memory doesn't support it)
	f, err := os.CreateTemp("", "auth-test-*.db")
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
		CREATE TABLE users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			role TEXT NOT NULL DEFAULT 'VIEWER',
			permissions TEXT NOT NULL DEFAULT '[]',
			refresh_token_hash TEXT,
			created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
			updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		) STRICT;

		CREATE INDEX idx_users_role ON users(role);
	`
	if _, err := db.Exec(schemaSQL); err != nil {
		t.Fatalf("creating users table: %v", err)
	}

	return db
}

// testHasher uses the lightest cost so the suite stays fast.
func testHasher() *Hasher {
	return NewHasher(1)
}

func testLogger() *logging.Logger {
	return logging.New(config.LoggingConfig{Level: "error", Format: "text", Output: "stdout"}, "test")
}

// testService wires a full session manager over a temp database.
func testService(t *testing.T) (*Service, *SQLiteUserRepository) {
	t.Helper()

	repo := NewUserRepository(testDB(t))
	issuer := NewIssuer("test-secret-at-least-32-characters!!", 15*time.Minute, 7*24*time.Hour)
	svc := NewService(repo, testHasher(), issuer, testLogger())
	return svc, repo
}

// createTestUser inserts a user with a known password and returns it.
func createTestUser(t *testing.T, repo *SQLiteUserRepository, email, password string, role Role) *User {
	t.Helper()

	hash, err := testHasher().Hash(password)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}

	user := &User{
		Email:        email,
		Name:         "Test User",
		PasswordHash: hash,
		Role:         role,
		Permissions:  DefaultPermissions(role),
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("creating test user: %v", err)
	}
	return user
}
