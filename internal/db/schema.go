package db

import (
	"fmt"
)

// migration is one forward-only schema step.
type migration struct {
	version int
	sql     string
}

var migrations = []migration{
	{1, `
-- Entity browser configuration records, keyed by widget uuid
CREATE TABLE IF NOT EXISTS browser_settings (
    uuid TEXT PRIMARY KEY,
    selected_count INTEGER NOT NULL DEFAULT 0,
    cardinality INTEGER NOT NULL DEFAULT 1
);
`},
	{2, `
ALTER TABLE browser_settings ADD COLUMN updated_at INTEGER NOT NULL DEFAULT 0;
CREATE INDEX IF NOT EXISTS idx_browser_settings_updated ON browser_settings(updated_at);
`},
}

// SchemaVersion is the version a fully migrated database reports.
func SchemaVersion() int {
	return migrations[len(migrations)-1].version
}

// Version returns the database's current schema version.
func (db *DB) Version() (int, error) {
	var v int
	err := db.conn.QueryRow(`SELECT COALESCE(MAX(version), 0) FROM schema_version`).Scan(&v)
	return v, err
}

// RunMigrations applies pending migrations and returns how many ran.
func (db *DB) RunMigrations() (int, error) {
	if _, err := db.conn.Exec(`CREATE TABLE IF NOT EXISTS schema_version (version INTEGER PRIMARY KEY)`); err != nil {
		return 0, fmt.Errorf("create schema_version: %w", err)
	}

	current, err := db.Version()
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		if m.version <= current {
			continue
		}

		tx, err := db.conn.Begin()
		if err != nil {
			return applied, err
		}
		if _, err := tx.Exec(m.sql); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("migration %d: %w", m.version, err)
		}
		if _, err := tx.Exec(`INSERT INTO schema_version (version) VALUES (?)`, m.version); err != nil {
			tx.Rollback()
			return applied, fmt.Errorf("record migration %d: %w", m.version, err)
		}
		if err := tx.Commit(); err != nil {
			return applied, err
		}
		applied++
	}

	return applied, nil
}
