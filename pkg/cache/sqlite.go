package cache

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteCache stores entries in a single SQLite database file. It suits
// hosts where many small cache files are undesirable; expired rows are
// dropped on read and by Clear.
type SQLiteCache struct {
	db *sql.DB
}

const sqliteSchema = `
	CREATE TABLE IF NOT EXISTS entries (
		key        TEXT PRIMARY KEY,
		data       BLOB NOT NULL,
		expires_at INTEGER NOT NULL DEFAULT 0
	);
`

// OpenSQLite opens or creates a SQLite cache database at path.
func OpenSQLite(path string) (*SQLiteCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	// SQLite doesn't support concurrent writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create cache schema: %w", err)
	}
	return &SQLiteCache{db: db}, nil
}

// Get retrieves a value. Expired rows are deleted and reported as misses.
func (c *SQLiteCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var (
		data      []byte
		expiresAt int64
	)
	err := c.db.QueryRowContext(ctx,
		`SELECT data, expires_at FROM entries WHERE key = ?`, key).Scan(&data, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: get: %v", ErrBackend, err)
	}

	if expiresAt != 0 && time.Now().UnixNano() > expiresAt {
		_ = c.Delete(ctx, key)
		return nil, false, nil
	}
	return data, true, nil
}

// Set stores a value, replacing any existing entry.
func (c *SQLiteCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	var expiresAt int64
	if ttl > 0 {
		expiresAt = time.Now().Add(ttl).UnixNano()
	}
	if data == nil {
		data = []byte{}
	}
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO entries (key, data, expires_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET data = excluded.data, expires_at = excluded.expires_at`,
		key, data, expiresAt)
	if err != nil {
		return fmt.Errorf("%w: set: %v", ErrBackend, err)
	}
	return nil
}

// Delete removes a value.
func (c *SQLiteCache) Delete(ctx context.Context, key string) error {
	if _, err := c.db.ExecContext(ctx, `DELETE FROM entries WHERE key = ?`, key); err != nil {
		return fmt.Errorf("%w: delete: %v", ErrBackend, err)
	}
	return nil
}

// Clear removes every entry and returns how many were removed.
func (c *SQLiteCache) Clear(ctx context.Context) (int, error) {
	res, err := c.db.ExecContext(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, fmt.Errorf("%w: clear: %v", ErrBackend, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: clear: %v", ErrBackend, err)
	}
	return int(n), nil
}

// Close closes the database.
func (c *SQLiteCache) Close() error {
	return c.db.Close()
}

// Ensure SQLiteCache implements Cache.
var _ Cache = (*SQLiteCache)(nil)
