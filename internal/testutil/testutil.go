// Package testutil provides shared test helpers for setting up stores,
// settings, and caches.
package testutil

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/index"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/vault"
)

// Logger returns a quiet logger for tests.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// TestStore creates a temporary store directory with an FS provider.
func TestStore(t *testing.T) (string, *vault.FS) {
	t.Helper()
	dir := t.TempDir()
	store, err := vault.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	return dir, store
}

// WriteNote creates a file (and its parents) under the store root.
func WriteNote(t *testing.T, root, rel, content string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// StaticProvider is a settings.Provider with fixed sections.
type StaticProvider struct {
	Sections map[calendar.Granularity]settings.Section
	Err      error
}

func (p *StaticProvider) Granularity(g calendar.Granularity) (settings.Section, error) {
	if p.Err != nil {
		return settings.Section{}, p.Err
	}
	return p.Sections[g], nil
}

// DailyOnlyProvider enables day notes with default settings.
func DailyOnlyProvider() *StaticProvider {
	return &StaticProvider{Sections: map[calendar.Granularity]settings.Section{
		calendar.Day: {Enabled: true},
	}}
}

// TestCache creates an unpopulated cache over the given store, cleaned up
// with the test.
func TestCache(t *testing.T, store vault.Store, provider settings.Provider) *index.Cache {
	t.Helper()
	resolver := settings.NewResolver(provider, nil, Logger())
	cache, err := index.Open(store, resolver, calendar.Default(), Logger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}
