package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/sonora/internal/models"
)

// CacheRepository stores HTTP responses in named partitions.
type CacheRepository struct {
	db *sql.DB
}

// NewCacheRepository creates a new CacheRepository with the given database connection
func NewCacheRepository(db *sql.DB) *CacheRepository {
	return &CacheRepository{db: db}
}

// Keys lists partition names in creation order.
func (r *CacheRepository) Keys(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM cache_partitions ORDER BY created_at ASC, rowid ASC")
	if err != nil {
		return nil, fmt.Errorf("failed to query partitions: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan partition: %w", err)
		}
		names = append(names, name)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return names, nil
}

// Open creates the partition when it does not exist yet.
func (r *CacheRepository) Open(ctx context.Context, name string) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		return openPartition(ctx, tx, name)
	})
}

// Delete drops a partition and all of its entries, reporting whether it existed.
func (r *CacheRepository) Delete(ctx context.Context, name string) (bool, error) {
	var existed bool
	err := withTx(r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM cache_entries WHERE partition = ?", name); err != nil {
			return fmt.Errorf("failed to delete entries: %w", err)
		}

		result, err := tx.ExecContext(ctx, "DELETE FROM cache_partitions WHERE name = ?", name)
		if err != nil {
			return fmt.Errorf("failed to delete partition: %w", err)
		}

		rows, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("failed to get affected rows: %w", err)
		}
		existed = rows > 0
		return nil
	})
	return existed, err
}

// Match finds url in the first partition (creation order) that holds it.
func (r *CacheRepository) Match(ctx context.Context, url string) (*models.CacheEntry, bool, error) {
	query := `
		SELECT e.partition, e.url, e.status, e.headers, e.body, e.stored_at
		FROM cache_entries e
		JOIN cache_partitions p ON p.name = e.partition
		WHERE e.url = ?
		ORDER BY p.created_at ASC, p.rowid ASC
		LIMIT 1
	`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, url))
}

// MatchIn finds url in a single partition.
func (r *CacheRepository) MatchIn(ctx context.Context, partition, url string) (*models.CacheEntry, bool, error) {
	query := `
		SELECT partition, url, status, headers, body, stored_at
		FROM cache_entries
		WHERE partition = ? AND url = ?
	`
	return r.scanEntry(r.db.QueryRowContext(ctx, query, partition, url))
}

// Put stores one entry, opening its partition if needed and replacing any previous entry for the URL.
func (r *CacheRepository) Put(ctx context.Context, entry models.CacheEntry) error {
	return r.PutAll(ctx, entry.Partition, []models.CacheEntry{entry})
}

// PutAll stores entries into partition atomically: either all of them are written or none.
func (r *CacheRepository) PutAll(ctx context.Context, partition string, entries []models.CacheEntry) error {
	return withTx(r.db, func(tx *sql.Tx) error {
		if err := openPartition(ctx, tx, partition); err != nil {
			return err
		}

		query := `
			INSERT INTO cache_entries (partition, url, status, headers, body, stored_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(partition, url) DO UPDATE SET
				status = excluded.status, headers = excluded.headers,
				body = excluded.body, stored_at = excluded.stored_at
		`
		for _, e := range entries {
			headers, err := json.Marshal(e.Header)
			if err != nil {
				return fmt.Errorf("failed to encode headers for %s: %w", e.URL, err)
			}

			storedAt := e.StoredAt
			if storedAt.IsZero() {
				storedAt = nowFunc()
			}

			if _, err := tx.ExecContext(ctx, query, partition, e.URL, e.Status, string(headers), e.Body, storedAt.UnixNano()); err != nil {
				return fmt.Errorf("failed to insert cache entry %s: %w", e.URL, err)
			}
		}
		return nil
	})
}

// Trim deletes the oldest entries of partition so at most max remain, returning how many were removed.
func (r *CacheRepository) Trim(ctx context.Context, partition string, max int) (int, error) {
	if max < 0 {
		return 0, nil
	}

	query := `
		DELETE FROM cache_entries
		WHERE partition = ? AND url IN (
			SELECT url FROM cache_entries
			WHERE partition = ?
			ORDER BY stored_at DESC, rowid DESC
			LIMIT -1 OFFSET ?
		)
	`
	result, err := r.db.ExecContext(ctx, query, partition, partition, max)
	if err != nil {
		return 0, fmt.Errorf("failed to trim partition %s: %w", partition, err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return int(rows), nil
}

// Count returns the number of entries in partition.
func (r *CacheRepository) Count(ctx context.Context, partition string) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM cache_entries WHERE partition = ?", partition).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count entries: %w", err)
	}
	return n, nil
}

func openPartition(ctx context.Context, tx *sql.Tx, name string) error {
	query := "INSERT INTO cache_partitions (name, created_at) VALUES (?, ?) ON CONFLICT(name) DO NOTHING"
	if _, err := tx.ExecContext(ctx, query, name, nowFunc().UnixNano()); err != nil {
		return fmt.Errorf("failed to open partition %s: %w", name, err)
	}
	return nil
}

// scanEntry scans a single row into a [models.CacheEntry]
func (r *CacheRepository) scanEntry(row *sql.Row) (*models.CacheEntry, bool, error) {
	var (
		entry    models.CacheEntry
		headers  string
		storedAt int64
	)

	err := row.Scan(&entry.Partition, &entry.URL, &entry.Status, &headers, &entry.Body, &storedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to scan cache entry: %w", err)
	}

	if err := json.Unmarshal([]byte(headers), &entry.Header); err != nil {
		return nil, false, fmt.Errorf("failed to decode headers for %s: %w", entry.URL, err)
	}
	if entry.Header == nil {
		entry.Header = http.Header{}
	}
	entry.StoredAt = time.Unix(0, storedAt)

	return &entry, true, nil
}
