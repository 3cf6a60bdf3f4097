// Package index maintains the live mapping from date-UIDs to periodic note
// files, built by a full scan and kept current by file change notifications.
package index

import (
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"golang.org/x/sync/singleflight"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/vault"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS periodic_notes (
	uid       TEXT PRIMARY KEY,
	path      TEXT NOT NULL,
	basename  TEXT NOT NULL,
	extension TEXT NOT NULL
);
`

// Cache is the periodic note index. The backing SQLite database lives in
// memory only: the cache is rebuilt from a full scan each session and never
// persisted. Rebuilds run in a single transaction, so a failed scan leaves
// the previous state intact.
type Cache struct {
	conn     *sql.DB
	store    vault.Store
	resolver *settings.Resolver
	cal      calendar.Calendar
	logger   *slog.Logger

	rebuilds singleflight.Group
}

// Open creates an empty cache. Call Rebuild to populate it.
func Open(store vault.Store, resolver *settings.Resolver, cal calendar.Calendar, logger *slog.Logger) (*Cache, error) {
	if logger == nil {
		logger = slog.Default()
	}
	conn, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("index: open db: %w", err)
	}
	// A second pool connection would see a different empty in-memory DB.
	conn.SetMaxOpenConns(1)
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("index: apply schema: %w", err)
	}
	return &Cache{conn: conn, store: store, resolver: resolver, cal: cal, logger: logger}, nil
}

// Close releases the in-memory database.
func (c *Cache) Close() error {
	return c.conn.Close()
}

// Lookup returns the file indexed under uid, or nil when absent.
func (c *Cache) Lookup(uid string) (*vault.File, error) {
	var f vault.File
	err := c.conn.QueryRow(
		`SELECT path, basename, extension FROM periodic_notes WHERE uid = ?`, uid,
	).Scan(&f.Path, &f.Basename, &f.Extension)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("index: lookup %s: %w", uid, err)
	}
	return &f, nil
}

// LookupByDate returns the note for the period of date at granularity g.
func (c *Cache) LookupByDate(date time.Time, g calendar.Granularity) (*vault.File, error) {
	return c.Lookup(c.cal.UID(date, g))
}

// Len reports the number of indexed entries.
func (c *Cache) Len() (int, error) {
	var n int
	if err := c.conn.QueryRow(`SELECT count(*) FROM periodic_notes`).Scan(&n); err != nil {
		return 0, fmt.Errorf("index: count: %w", err)
	}
	return n, nil
}

// upsert inserts or replaces the entry for uid, last writer wins.
func (c *Cache) upsert(uid string, f vault.File) error {
	_, err := c.conn.Exec(`
		INSERT INTO periodic_notes (uid, path, basename, extension)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(uid) DO UPDATE SET
			path      = excluded.path,
			basename  = excluded.basename,
			extension = excluded.extension
	`, uid, f.Path, f.Basename, f.Extension)
	if err != nil {
		return fmt.Errorf("index: upsert %s: %w", uid, err)
	}
	return nil
}

// remove drops the entry for uid if present.
func (c *Cache) remove(uid string) error {
	if _, err := c.conn.Exec(`DELETE FROM periodic_notes WHERE uid = ?`, uid); err != nil {
		return fmt.Errorf("index: remove %s: %w", uid, err)
	}
	return nil
}
