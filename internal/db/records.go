package db

import (
	"database/sql"
	"time"

	"github.com/marcus/mbrowse/internal/settings"
)

// Entry is a stored record with its uuid.
type Entry struct {
	UUID      string
	Record    settings.Record
	UpdatedAt time.Time
}

// Put creates or replaces the record for uuid.
func (db *DB) Put(uuid string, rec settings.Record) error {
	_, err := db.conn.Exec(`
		INSERT INTO browser_settings (uuid, selected_count, cardinality, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			selected_count = excluded.selected_count,
			cardinality = excluded.cardinality,
			updated_at = excluded.updated_at
	`, uuid, rec.Count, int(rec.Cardinality), time.Now().Unix())
	return err
}

// Get returns the record for uuid. The bool is false when none is stored.
func (db *DB) Get(uuid string) (settings.Record, bool, error) {
	var rec settings.Record
	var card int
	err := db.conn.QueryRow(`
		SELECT selected_count, cardinality FROM browser_settings WHERE uuid = ?
	`, uuid).Scan(&rec.Count, &card)

	if err == sql.ErrNoRows {
		return settings.Record{}, false, nil
	}
	if err != nil {
		return settings.Record{}, false, err
	}
	rec.Cardinality = settings.Cardinality(card)
	return rec, true, nil
}

// Delete removes the record for uuid and reports whether one existed.
func (db *DB) Delete(uuid string) (bool, error) {
	res, err := db.conn.Exec(`DELETE FROM browser_settings WHERE uuid = ?`, uuid)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// List returns every stored record ordered by uuid.
func (db *DB) List() ([]Entry, error) {
	rows, err := db.conn.Query(`
		SELECT uuid, selected_count, cardinality, updated_at FROM browser_settings ORDER BY uuid
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var card int
		var updated int64
		if err := rows.Scan(&e.UUID, &e.Record.Count, &card, &updated); err != nil {
			return nil, err
		}
		e.Record.Cardinality = settings.Cardinality(card)
		if updated > 0 {
			e.UpdatedAt = time.Unix(updated, 0)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Registry snapshots the stored records into a settings registry.
func (db *DB) Registry() (*settings.Registry, error) {
	entries, err := db.List()
	if err != nil {
		return nil, err
	}
	reg := &settings.Registry{}
	for _, e := range entries {
		reg.Set(e.UUID, e.Record)
	}
	return reg, nil
}

// Import stores every record of reg in one transaction and returns the
// number written.
func (db *DB) Import(reg *settings.Registry) (int, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO browser_settings (uuid, selected_count, cardinality, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(uuid) DO UPDATE SET
			selected_count = excluded.selected_count,
			cardinality = excluded.cardinality,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	now := time.Now().Unix()
	n := 0
	for _, uuid := range reg.UUIDs() {
		rec, _ := reg.Lookup(uuid)
		if _, err := stmt.Exec(uuid, rec.Count, int(rec.Cardinality), now); err != nil {
			return n, err
		}
		n++
	}
	return n, tx.Commit()
}
