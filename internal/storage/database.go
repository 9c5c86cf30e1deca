// Package storage provides database access and repositories
package storage

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// DB wraps the database connection
type DB struct {
	*sql.DB
}

// New creates a new database connection
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("sqlite3", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &DB{db}, nil
}

// Migrate runs database migrations
func (db *DB) Migrate() error {
	migrations := []string{
		createFundsTable,
		createImportsTable,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

const createFundsTable = `
CREATE TABLE IF NOT EXISTS funds (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	manager TEXT,
	isin TEXT,
	expected_return REAL NOT NULL DEFAULT 0,
	volatility REAL NOT NULL DEFAULT 0,
	performance_1y REAL NOT NULL DEFAULT 0,
	performance_3y REAL NOT NULL DEFAULT 0,
	sharpe_ratio REAL,
	min_investment TEXT DEFAULT '0',
	subscription_fee TEXT DEFAULT '0',
	management_fee TEXT DEFAULT '0',
	exit_fee TEXT DEFAULT '0',
	assets TEXT DEFAULT '0',
	description TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_funds_type ON funds(type);
`

const createImportsTable = `
CREATE TABLE IF NOT EXISTS catalog_imports (
	id TEXT PRIMARY KEY,
	source TEXT NOT NULL,
	file TEXT NOT NULL,
	funds INTEGER NOT NULL,
	skipped INTEGER NOT NULL,
	imported_at DATETIME DEFAULT CURRENT_TIMESTAMP
);
`
