// Package database provides SQLite access for the warehouse backend.
//
// It wraps database/sql with connection configuration tuned for SQLite
// (WAL mode, busy timeout, single-writer pool) and an embedded-migration
// runner that applies versioned SQL files compiled into the binary.
//
// # Usage
//
//	db, err := database.Open(database.Config{Path: "./data/warehouse.db", WALMode: true, BusyTimeout: 5})
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	if err := db.Migrate(ctx); err != nil {
//	    return err
//	}
package database
