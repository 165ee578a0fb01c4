// Package database handles database connections and schema inspection.
//
// It wraps GORM to open the price history database from the application's
// configuration. Two drivers are supported: MySQL for shared deployments and SQLite
// for a single host (the default, a local file).
//
// # Connect
//
// Connect opens the database, applies pool settings and pings it within the
// configured timeout. The database is optional; callers treat a failed connection
// as "history disabled" rather than a fatal error.
//
// # Schema Inspection
//
// GetTableColumns lists the columns of a table for either driver, and
// MissingColumns compares them with what a repository expects. Repositories use it
// to verify the schema when auto-migration is turned off.
//
// # Usage
//
//	db, err := database.Connect(cfg.Database)
//	if err != nil {
//	    log.Warn("Price history disabled", zap.Error(err))
//	}
//
//	missing, err := database.MissingColumns(db, "price_snapshots", []string{"reference"})
package database
