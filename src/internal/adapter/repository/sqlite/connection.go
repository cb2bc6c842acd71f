package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open prepares a sqlite database for the single-host deployment mode.
// The busy timeout keeps concurrent commits waiting on the writer lock
// instead of failing immediately.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create sqlite directory %q: %w", dir, err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000&_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// sqlite allows one writer at a time; a single connection avoids
	// SQLITE_BUSY churn between pooled connections.
	db.SetMaxOpenConns(1)

	return db, nil
}

// EnsureSchema creates the ledger tables when missing.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	company_code TEXT NOT NULL,
	fiscal_year INTEGER NOT NULL,
	entry_number INTEGER NOT NULL,
	entry_date TEXT NOT NULL,
	comment TEXT NOT NULL,
	transaction_type TEXT NOT NULL,
	document_series TEXT NOT NULL DEFAULT '',
	document_number TEXT NOT NULL DEFAULT '',
	provider_code TEXT,
	attachment_ref TEXT,
	created_by TEXT NOT NULL DEFAULT '',
	total_debit TEXT NOT NULL,
	total_credit TEXT NOT NULL,
	created_at TEXT NOT NULL,
	UNIQUE (company_code, fiscal_year, entry_number)
);

CREATE TABLE IF NOT EXISTS movements (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	entry_id INTEGER NOT NULL REFERENCES entries(id),
	position INTEGER NOT NULL,
	account TEXT NOT NULL,
	direction TEXT NOT NULL,
	amount TEXT NOT NULL,
	channel TEXT NOT NULL DEFAULT '',
	project TEXT NOT NULL DEFAULT '',
	section TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	delegation TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS entry_counters (
	company_code TEXT NOT NULL,
	fiscal_year INTEGER NOT NULL,
	last_number INTEGER NOT NULL,
	PRIMARY KEY (company_code, fiscal_year)
);

CREATE INDEX IF NOT EXISTS idx_entries_date ON entries (company_code, entry_date);
CREATE INDEX IF NOT EXISTS idx_movements_entry ON movements (entry_id, position);`

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("ensure sqlite schema: %w", err)
	}
	return nil
}
