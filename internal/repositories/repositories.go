// package repositories provides SQLite persistence for client session state and the offline response cache.
package repositories

import (
	"database/sql"
	"fmt"
	"time"
)

// nowFunc is swapped in tests that need deterministic timestamps.
var nowFunc = time.Now

// withTx runs fn inside a transaction, committing when fn returns nil.
func withTx(db *sql.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
