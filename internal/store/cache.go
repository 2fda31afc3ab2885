// Package store provides a SQLite-backed cache for advice responses.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // register sqlite driver
)

// Cache provides SQLite-backed advice caching.
type Cache struct {
	db *sql.DB
}

// Entry is one cached advice response.
type Entry struct {
	Key       string
	Provider  string
	Model     string
	Prompt    string
	Response  string
	CreatedAt time.Time
}

// Open opens or creates the cache database at the given path.
func Open(dbPath string) (*Cache, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=synchronous(normal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening cache db: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the cache database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the entry stored under key, if any.
func (c *Cache) Get(key string) (Entry, bool, error) {
	var e Entry
	var created string
	err := c.db.QueryRow(`SELECT request_key, provider, model, prompt, response, created_at
		FROM advice WHERE request_key = ?`, key).
		Scan(&e.Key, &e.Provider, &e.Model, &e.Prompt, &e.Response, &created)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading advice: %w", err)
	}
	e.CreatedAt, _ = time.Parse(time.RFC3339, created)
	return e, true, nil
}

// Put stores or replaces an entry. A zero CreatedAt is stamped with now.
func (c *Cache) Put(e Entry) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}
	_, err := c.db.Exec(`INSERT OR REPLACE INTO advice
		(request_key, provider, model, prompt, response, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		e.Key, e.Provider, e.Model, e.Prompt, e.Response, e.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("writing advice: %w", err)
	}
	return nil
}

// Prune deletes entries created before cutoff and returns how many went.
func (c *Cache) Prune(cutoff time.Time) (int64, error) {
	res, err := c.db.Exec("DELETE FROM advice WHERE created_at < ?", cutoff.UTC().Format(time.RFC3339))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of cached responses.
func (c *Cache) Count() (int, error) {
	var count int
	err := c.db.QueryRow("SELECT COUNT(*) FROM advice").Scan(&count)
	return count, err
}
