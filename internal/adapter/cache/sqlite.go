package cache

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"codemate/internal/domain/model"
	"codemate/internal/domain/ports"
)

const createStatementTable = `
CREATE TABLE IF NOT EXISTS statement_cache (
	key TEXT PRIMARY KEY,
	fetched_at INTEGER NOT NULL,
	payload BLOB NOT NULL
);
`

// SQLite persists statements in a single table so several processes can
// share one cache file.
type SQLite struct {
	db  *sql.DB
	ttl time.Duration
	now Clock
}

var _ ports.StatementCache = (*SQLite)(nil)

// NewSQLite opens (and migrates) the cache database at path.
func NewSQLite(path string, ttl time.Duration, clock Clock) (*SQLite, error) {
	if clock == nil {
		clock = time.Now
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createStatementTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate cache db: %w", err)
	}

	return &SQLite{db: db, ttl: ttl, now: clock}, nil
}

// Get returns a fresh entry. Read and decode failures count as misses.
func (c *SQLite) Get(key string) (*model.CacheEntry, bool) {
	var (
		fetchedAt int64
		payload   []byte
	)
	err := c.db.QueryRow(
		`SELECT fetched_at, payload FROM statement_cache WHERE key = ?`, key,
	).Scan(&fetchedAt, &payload)
	if err != nil {
		return nil, false
	}

	entry := model.CacheEntry{Key: key, FetchedAt: time.Unix(0, fetchedAt)}
	if err := json.Unmarshal(payload, &entry.Payload); err != nil {
		return nil, false
	}
	if !fresh(entry, c.now(), c.ttl) {
		return nil, false
	}
	return &entry, true
}

func (c *SQLite) Put(entry model.CacheEntry) error {
	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		return fmt.Errorf("encode statement: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT OR REPLACE INTO statement_cache (key, fetched_at, payload) VALUES (?, ?, ?)`,
		entry.Key, entry.FetchedAt.UnixNano(), payload,
	)
	if err != nil {
		return fmt.Errorf("cache put: %w", err)
	}
	return nil
}

// Clear removes cache entries. If expiredOnly is true, only expired entries are removed.
func (c *SQLite) Clear(expiredOnly bool) (int, error) {
	var (
		res sql.Result
		err error
	)
	if expiredOnly {
		cutoff := c.now().Add(-c.ttl).UnixNano()
		res, err = c.db.Exec(`DELETE FROM statement_cache WHERE fetched_at <= ?`, cutoff)
	} else {
		res, err = c.db.Exec(`DELETE FROM statement_cache`)
	}
	if err != nil {
		return 0, fmt.Errorf("cache clear: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("cache clear: %w", err)
	}
	return int(n), nil
}

func (c *SQLite) Close() error {
	return c.db.Close()
}
