package index

import (
	"fmt"
	"log/slog"

	"github.com/starford/jera/internal/calendar"
)

// Rebuild repopulates the index from a full scan of the configured folders
// for every granularity whose notes are enabled. The scan runs in one
// transaction: on any failure the index keeps its previous contents.
// Concurrent calls are coalesced so superseded in-flight scans cannot tear
// the result.
func (c *Cache) Rebuild() error {
	_, err, _ := c.rebuilds.Do("rebuild", func() (interface{}, error) {
		return nil, c.rebuild()
	})
	return err
}

func (c *Cache) rebuild() error {
	tx, err := c.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin rebuild: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM periodic_notes`); err != nil {
		return fmt.Errorf("index: clear: %w", err)
	}

	scans := []struct {
		g       calendar.Granularity
		enabled bool
	}{
		{calendar.Day, c.resolver.HasDailyNotes()},
		{calendar.Week, c.resolver.HasWeeklyNotes()},
		{calendar.Month, c.resolver.HasMonthlyNotes()},
	}

	total := 0
	seen := make(map[string]struct{})
	for _, scan := range scans {
		if !scan.enabled {
			continue
		}
		folder := c.resolver.Resolve(scan.g).Folder
		if folder != "" && !c.store.Exists(folder) {
			continue
		}
		files, err := c.store.List(folder)
		if err != nil {
			return fmt.Errorf("index: scan %s notes: %w", scan.g, err)
		}
		for _, f := range files {
			if !f.IsNote() {
				continue
			}
			date, ok := c.DateFromFile(f, scan.g)
			if !ok {
				continue
			}
			uid := c.cal.UID(date, scan.g)
			// Granularity-tagged UIDs cannot collide across scans; a
			// collision here means two files map to the same period.
			if _, dup := seen[uid]; dup {
				c.logger.Warn("index: duplicate periodic note",
					slog.String("uid", uid),
					slog.String("path", f.Path))
			}
			seen[uid] = struct{}{}
			if _, err := tx.Exec(`
				INSERT INTO periodic_notes (uid, path, basename, extension)
				VALUES (?, ?, ?, ?)
				ON CONFLICT(uid) DO UPDATE SET
					path      = excluded.path,
					basename  = excluded.basename,
					extension = excluded.extension
			`, uid, f.Path, f.Basename, f.Extension); err != nil {
				return fmt.Errorf("index: insert %s: %w", uid, err)
			}
			total++
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("index: commit rebuild: %w", err)
	}
	c.logger.Debug("index: rebuilt", slog.Int("entries", total))
	return nil
}
