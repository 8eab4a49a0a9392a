// package repositories persists a local snapshot of records fetched from the
// remote repository.
//
// The snapshot mirrors the in-memory cache contract: rows are replaced
// wholesale on each sync, never merged, and keep the remote listing order
// (rows are read back in insertion order). The snapshot is an opt-in
// convenience for offline
// viewing and export; the remote repository stays the source of truth.
package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// replaceAll clears a table and re-inserts rows inside one transaction via
// the supplied insert function.
func replaceAll(db *sql.DB, table string, insert func(tx *sql.Tx, cachedAt time.Time) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec("DELETE FROM " + table); err != nil {
		return fmt.Errorf("failed to clear %s: %w", table, err)
	}

	if err := insert(tx, time.Now().UTC()); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit %s replacement: %w", table, err)
	}

	return nil
}

// count returns the number of rows in a table.
func count(db *sql.DB, table string) (int, error) {
	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", table, err)
	}
	return n, nil
}
