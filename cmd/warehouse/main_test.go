package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestRun_InvalidConfig verifies run fails with invalid config path.
func TestRun_InvalidConfig(t *testing.T) {
	originalEnv := os.Getenv("WAREHOUSE_CONFIG")
	defer os.Setenv("WAREHOUSE_CONFIG", originalEnv)

	os.Setenv("WAREHOUSE_CONFIG", "/nonexistent/path/config.yaml")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail with invalid config path")
	}
}

// TestRun_MissingJWTSecret verifies run fails when no signing secret
// is configured.
func TestRun_MissingJWTSecret(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")

	configContent := `
database:
  path: "` + filepath.Join(tmpDir, "test.db") + `"

logging:
  level: error
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 0
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("WAREHOUSE_CONFIG")
	defer os.Setenv("WAREHOUSE_CONFIG", originalEnv)
	os.Setenv("WAREHOUSE_CONFIG", configPath)
	// Make sure the secret doesn't leak in from the environment
	originalSecret := os.Getenv("WAREHOUSE_JWT_SECRET")
	defer os.Setenv("WAREHOUSE_JWT_SECRET", originalSecret)
	os.Unsetenv("WAREHOUSE_JWT_SECRET")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := run(ctx); err == nil {
		t.Fatal("run() should fail without a JWT secret")
	}
}

// TestGetConfigPath_Default verifies default config path.
func TestGetConfigPath_Default(t *testing.T) {
	originalEnv := os.Getenv("WAREHOUSE_CONFIG")
	defer os.Setenv("WAREHOUSE_CONFIG", originalEnv)

	os.Unsetenv("WAREHOUSE_CONFIG")

	if path := getConfigPath(); path != defaultConfigPath {
		t.Errorf("getConfigPath() = %q, want %q", path, defaultConfigPath)
	}
}

// TestGetConfigPath_EnvOverride verifies environment variable override.
func TestGetConfigPath_EnvOverride(t *testing.T) {
	originalEnv := os.Getenv("WAREHOUSE_CONFIG")
	defer os.Setenv("WAREHOUSE_CONFIG", originalEnv)

	expected := "/custom/path/config.yaml"
	os.Setenv("WAREHOUSE_CONFIG", expected)

	if path := getConfigPath(); path != expected {
		t.Errorf("getConfigPath() = %q, want %q", path, expected)
	}
}

// TestRun_StartupAndShutdown tests full startup, migration, admin
// seeding, and shutdown on context cancellation.
func TestRun_StartupAndShutdown(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test-config.yaml")
	dbPath := filepath.Join(tmpDir, "test.db")

	configContent := `
database:
  path: "` + dbPath + `"
  wal_mode: true
  busy_timeout: 5

logging:
  level: error
  format: text
  output: stdout

api:
  host: "127.0.0.1"
  port: 0
  timeouts:
    read: 30
    write: 30
    idle: 60

security:
  jwt:
    secret: "test-secret-for-development-only-32ch"
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	originalEnv := os.Getenv("WAREHOUSE_CONFIG")
	defer os.Setenv("WAREHOUSE_CONFIG", originalEnv)
	os.Setenv("WAREHOUSE_CONFIG", configPath)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := run(ctx); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	// The database file should exist after a clean run
	if _, err := os.Stat(dbPath); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}
