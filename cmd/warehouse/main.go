// Warehouse Core - Inventory Management Backend
//
// This is the main entry point for the warehouse backend. It wires
// together the SQLite store, the auth subsystem, and the HTTP API with
// its WebSocket activity feed, then waits for a shutdown signal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/oakmere/warehouse-core/migrations"

	"github.com/oakmere/warehouse-core/internal/api"
	"github.com/oakmere/warehouse-core/internal/audit"
	"github.com/oakmere/warehouse-core/internal/auth"
	"github.com/oakmere/warehouse-core/internal/infrastructure/config"
	"github.com/oakmere/warehouse-core/internal/infrastructure/database"
	"github.com/oakmere/warehouse-core/internal/infrastructure/logging"
	"github.com/oakmere/warehouse-core/internal/inventory"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

// Default configuration file path
const defaultConfigPath = "configs/config.yaml"

func main() {
	// Cancel on interrupt signals (Ctrl+C, SIGTERM) for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run is the actual application logic, separated from main for
// testability. Returning an error allows main to handle exit codes
// consistently.
func run(ctx context.Context) error {
	// Use default logger until config is loaded
	log := logging.Default()
	log.Info("starting warehouse backend",
		"version", version,
		"commit", commit,
		"build_date", date,
	)

	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	log.Info("configuration loaded", "path", configPath)

	// Reinitialise logger with config settings
	log = logging.New(cfg.Logging, version)

	db, err := database.Open(database.Config{
		Path:        cfg.Database.Path,
		WALMode:     cfg.Database.WALMode,
		BusyTimeout: cfg.Database.BusyTimeout,
	})
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() {
		log.Info("closing database")
		if closeErr := db.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()
	log.Info("database connected", "path", cfg.Database.Path)

	if migrateErr := db.Migrate(ctx); migrateErr != nil {
		return fmt.Errorf("running migrations: %w", migrateErr)
	}
	log.Info("database migrations complete")

	// Auth subsystem
	userRepo := auth.NewUserRepository(db.DB)
	hasher := auth.DefaultHasher()
	issuer := auth.NewIssuer(
		cfg.Security.JWT.Secret,
		time.Duration(cfg.Security.JWT.AccessTokenTTL)*time.Minute,
		time.Duration(cfg.Security.JWT.RefreshTokenTTL)*time.Minute,
	)
	authService := auth.NewService(userRepo, hasher, issuer, log)

	// First boot on an empty database creates an admin account with a
	// generated password. It is logged exactly once; change it after
	// first login.
	adminPassword, err := auth.SeedAdmin(ctx, userRepo, hasher)
	if err != nil {
		return fmt.Errorf("seeding admin account: %w", err)
	}
	if adminPassword != "" {
		log.Warn("seeded initial admin account",
			"email", auth.SeedAdminEmail,
			"password", adminPassword,
		)
	}

	// Inventory and audit stores
	materialRepo := inventory.NewMaterialRepository(db.DB)
	stockRepo := inventory.NewStockRepository(db.DB)
	auditRepo := audit.NewSQLiteRepository(db.DB)

	server, err := api.New(api.Deps{
		Config:       cfg.API,
		WS:           cfg.WebSocket,
		Logger:       log,
		AuthService:  authService,
		TokenIssuer:  issuer,
		Hasher:       hasher,
		UserRepo:     userRepo,
		MaterialRepo: materialRepo,
		StockRepo:    stockRepo,
		AuditRepo:    auditRepo,
		Version:      version,
	})
	if err != nil {
		return fmt.Errorf("creating API server: %w", err)
	}

	if err := server.Start(ctx); err != nil {
		return fmt.Errorf("starting API server: %w", err)
	}
	defer func() {
		if closeErr := server.Close(); closeErr != nil {
			log.Error("error closing API server", "error", closeErr)
		}
	}()

	if err := healthCheck(ctx, db, server); err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	log.Info("initialisation complete, waiting for shutdown signal")

	<-ctx.Done()

	log.Info("shutdown signal received, cleaning up")

	// Deferred Close() calls run in reverse order:
	// 1. API server (drains in-flight requests and the audit queue)
	// 2. Database

	log.Info("warehouse backend stopped")
	return nil
}

// getConfigPath returns the configuration file path.
// Uses WAREHOUSE_CONFIG environment variable if set, otherwise default.
func getConfigPath() string {
	if path := os.Getenv("WAREHOUSE_CONFIG"); path != "" {
		return path
	}
	return defaultConfigPath
}

// healthCheck verifies infrastructure is up before reporting ready.
func healthCheck(ctx context.Context, db *database.DB, server *api.Server) error {
	if err := db.HealthCheck(ctx); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := server.HealthCheck(ctx); err != nil {
		return fmt.Errorf("api: %w", err)
	}
	return nil
}
