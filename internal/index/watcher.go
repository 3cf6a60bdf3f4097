package index

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/jera/internal/vault"
)

// renamePairWindow is how long a Rename event waits for the matching
// Create event of the file's new path before it degrades to a delete.
const renamePairWindow = 200 * time.Millisecond

// Watch drives the cache's change handlers from an fsnotify watcher rooted
// at the store directory, until ctx is cancelled. fsnotify reports a rename
// as a Rename event on the old path followed by a Create event on the new
// path, so Watch pairs the two into a single OnRenamed call; a Rename with
// no Create inside the pairing window becomes a plain delete.
//
// New directories created at runtime are added to the watch list and their
// existing files are reported as created.
func (c *Cache) Watch(ctx context.Context, root string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	c.logger.Info("watcher: started", slog.String("root", root))

	var pending []string // old paths awaiting their Create counterpart
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	scheduleFlush := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(renamePairWindow)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(renamePairWindow)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			c.logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for _, old := range pending {
				c.OnDeleted(vault.NewFile(old))
			}
			pending = nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}

			rel, relErr := filepath.Rel(root, ev.Name)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&fsnotify.Create != 0:
				if info, statErr := os.Stat(ev.Name); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, ev.Name); addErr != nil {
						c.logger.Warn("watcher: add new dir failed",
							slog.String("path", ev.Name),
							slog.String("error", addErr.Error()))
					}
					c.reportDirCreated(root, ev.Name)
					continue
				}
				if len(pending) > 0 {
					old := pending[0]
					pending = pending[1:]
					c.OnRenamed(vault.NewFile(rel), old)
					continue
				}
				c.OnCreated(vault.NewFile(rel))

			case ev.Op&fsnotify.Write != 0:
				c.OnModified(vault.NewFile(rel))

			case ev.Op&fsnotify.Remove != 0:
				c.OnDeleted(vault.NewFile(rel))

			case ev.Op&fsnotify.Rename != 0:
				pending = append(pending, rel)
				scheduleFlush()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			c.logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// reportDirCreated reports every file already present in a new directory.
func (c *Cache) reportDirCreated(root, dirPath string) {
	_ = filepath.WalkDir(dirPath, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		c.OnCreated(vault.NewFile(filepath.ToSlash(rel)))
		return nil
	})
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
