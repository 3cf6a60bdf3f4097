package index

import (
	"log/slog"

	"github.com/starford/jera/internal/vault"
)

// OnCreated indexes a newly created note file. Files without the note
// extension, or whose name matches no configured format, are ignored.
func (c *Cache) OnCreated(f vault.File) {
	if !f.IsNote() {
		return
	}
	uid, ok := c.UIDFromFile(f)
	if !ok {
		return
	}
	if err := c.upsert(uid, f); err != nil {
		c.logger.Warn("index: create failed", slog.String("path", f.Path), slog.String("error", err.Error()))
		return
	}
	c.logger.Debug("index: entry added", slog.String("uid", uid), slog.String("path", f.Path))
}

// OnModified re-indexes a changed note file.
func (c *Cache) OnModified(f vault.File) {
	c.OnCreated(f)
}

// OnDeleted drops the entry for a removed note file.
func (c *Cache) OnDeleted(f vault.File) {
	if !f.IsNote() {
		return
	}
	uid, ok := c.UIDFromFile(f)
	if !ok {
		return
	}
	if err := c.remove(uid); err != nil {
		c.logger.Warn("index: delete failed", slog.String("path", f.Path), slog.String("error", err.Error()))
		return
	}
	c.logger.Debug("index: entry removed", slog.String("uid", uid), slog.String("path", f.Path))
}

// OnRenamed moves a note from the period its old path named to the one its
// new name names. The delete phase resolves the old UID from oldPath, not
// from the file, whose metadata already reflects the new path. The delete
// always runs before the create so an unchanged UID is not dropped.
func (c *Cache) OnRenamed(f vault.File, oldPath string) {
	if uid, ok := c.UIDFromPath(oldPath); ok {
		if err := c.remove(uid); err != nil {
			c.logger.Warn("index: rename delete failed", slog.String("path", oldPath), slog.String("error", err.Error()))
		}
	}
	c.OnCreated(f)
}
