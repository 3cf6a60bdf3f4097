package index

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/vault"
)

type staticProvider struct {
	sections map[calendar.Granularity]settings.Section
}

func (p *staticProvider) Granularity(g calendar.Granularity) (settings.Section, error) {
	return p.sections[g], nil
}

// allEnabled turns on day, week, and month notes with default formats.
func allEnabled() settings.Provider {
	return &staticProvider{sections: map[calendar.Granularity]settings.Section{
		calendar.Day:   {Enabled: true},
		calendar.Week:  {Enabled: true},
		calendar.Month: {Enabled: true},
	}}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testCache(t *testing.T, provider settings.Provider) (string, *Cache) {
	t.Helper()
	root := t.TempDir()
	store, err := vault.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	cache, err := Open(store, settings.NewResolver(provider, nil, quietLogger()), calendar.Default(), quietLogger())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return root, cache
}

func writeFile(t *testing.T, root, rel string) {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(abs, []byte("# note"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func mustLookup(t *testing.T, c *Cache, uid string) *vault.File {
	t.Helper()
	f, err := c.Lookup(uid)
	if err != nil {
		t.Fatalf("Lookup(%s): %v", uid, err)
	}
	return f
}

func TestRebuildIndexesExistingNotes(t *testing.T) {
	root, cache := testCache(t, allEnabled())
	writeFile(t, root, "2024-03-15.md")
	writeFile(t, root, "2024-03.md")
	writeFile(t, root, "2024-W11.md")
	writeFile(t, root, "shopping-list.md")
	writeFile(t, root, "2024-03-16.txt") // wrong extension

	if err := cache.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	f, err := cache.LookupByDate(time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), calendar.Day)
	if err != nil {
		t.Fatalf("LookupByDate: %v", err)
	}
	if f == nil || f.Path != "2024-03-15.md" {
		t.Fatalf("LookupByDate = %+v, want 2024-03-15.md", f)
	}

	if n, _ := cache.Len(); n != 3 {
		t.Errorf("Len = %d, want 3 (day, week, month)", n)
	}
}

func TestRebuildScansConfiguredFolders(t *testing.T) {
	provider := &staticProvider{sections: map[calendar.Granularity]settings.Section{
		calendar.Day: {Enabled: true, Folder: "journal/daily"},
	}}
	root, cache := testCache(t, provider)
	writeFile(t, root, "journal/daily/2024-03-15.md")
	writeFile(t, root, "2024-03-14.md") // outside the configured folder

	if err := cache.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if n, _ := cache.Len(); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}
}

func TestRebuildMissingFolderIsEmpty(t *testing.T) {
	provider := &staticProvider{sections: map[calendar.Granularity]settings.Section{
		calendar.Day: {Enabled: true, Folder: "does/not/exist"},
	}}
	_, cache := testCache(t, provider)

	if err := cache.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if n, _ := cache.Len(); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestRebuildSkipsDisabledGranularities(t *testing.T) {
	provider := &staticProvider{sections: map[calendar.Granularity]settings.Section{
		calendar.Day: {Enabled: true},
	}}
	root, cache := testCache(t, provider)
	writeFile(t, root, "2024-W11.md")

	if err := cache.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if n, _ := cache.Len(); n != 0 {
		t.Errorf("Len = %d, want 0: weekly notes are not enabled", n)
	}
}

// failingStore wraps a Store and fails List on demand.
type failingStore struct {
	vault.Store
	fail bool
}

func (s *failingStore) List(dir string) ([]vault.File, error) {
	if s.fail {
		return nil, errors.New("listing unavailable")
	}
	return s.Store.List(dir)
}

func TestFailedRebuildKeepsPriorState(t *testing.T) {
	root := t.TempDir()
	fsStore, err := vault.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	store := &failingStore{Store: fsStore}
	cache, err := Open(store, settings.NewResolver(allEnabled(), nil, quietLogger()), calendar.Default(), quietLogger())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { cache.Close() })

	writeFile(t, root, "2024-03-15.md")
	if err := cache.Rebuild(); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	store.fail = true
	if err := cache.Rebuild(); err == nil {
		t.Fatal("expected rebuild failure")
	}

	// The scan is all-or-nothing: the failed rebuild left the prior state.
	cal := calendar.Default()
	uid := cal.UID(time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), calendar.Day)
	if f := mustLookup(t, cache, uid); f == nil {
		t.Error("prior entry lost after failed rebuild")
	}
}

func TestOnCreatedThenDeleted(t *testing.T) {
	_, cache := testCache(t, allEnabled())
	f := vault.NewFile("2024-03-15.md")

	cache.OnCreated(f)
	uid, ok := cache.UIDFromFile(f)
	if !ok {
		t.Fatal("UIDFromFile failed")
	}
	if got := mustLookup(t, cache, uid); got == nil || got.Path != f.Path {
		t.Fatalf("after create, Lookup = %+v", got)
	}

	cache.OnDeleted(f)
	if got := mustLookup(t, cache, uid); got != nil {
		t.Errorf("after delete, Lookup = %+v, want none", got)
	}
}

func TestOnCreatedIgnoresForeignFiles(t *testing.T) {
	_, cache := testCache(t, allEnabled())

	cache.OnCreated(vault.NewFile("2024-03-15.txt")) // wrong extension
	cache.OnCreated(vault.NewFile("meeting-notes.md"))
	if n, _ := cache.Len(); n != 0 {
		t.Errorf("Len = %d, want 0", n)
	}
}

func TestOnModifiedOverwritesEntry(t *testing.T) {
	_, cache := testCache(t, allEnabled())

	cache.OnCreated(vault.NewFile("journal/2024-03-15.md"))
	cache.OnModified(vault.NewFile("elsewhere/2024-03-15.md"))

	uid, _ := cache.UIDFromPath("2024-03-15.md")
	got := mustLookup(t, cache, uid)
	if got == nil || got.Path != "elsewhere/2024-03-15.md" {
		t.Errorf("Lookup = %+v, want elsewhere/2024-03-15.md", got)
	}
}

func TestPriorityDayBeforeWeek(t *testing.T) {
	// With day format YYYY-MM-DD and an ambiguous week format that also
	// matches day-shaped names, the day interpretation must win.
	provider := &staticProvider{sections: map[calendar.Granularity]settings.Section{
		calendar.Day:  {Enabled: true},
		calendar.Week: {Enabled: true, Format: "gggg-MM-DD"},
	}}
	_, cache := testCache(t, provider)

	uid, ok := cache.UIDFromFile(vault.NewFile("2024-03-15.md"))
	if !ok {
		t.Fatal("UIDFromFile failed")
	}
	cal := calendar.Default()
	if want := cal.UID(time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), calendar.Day); uid != want {
		t.Errorf("uid = %q, want day uid %q", uid, want)
	}
}

func TestOnRenamedMovesEntry(t *testing.T) {
	_, cache := testCache(t, allEnabled())
	cal := calendar.Default()

	cache.OnCreated(vault.NewFile("2024-03-15.md"))
	u1 := cal.UID(time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), calendar.Day)
	u2 := cal.UID(time.Date(2024, 3, 16, 0, 0, 0, 0, time.Local), calendar.Day)

	cache.OnRenamed(vault.NewFile("2024-03-16.md"), "2024-03-15.md")

	if got := mustLookup(t, cache, u1); got != nil {
		t.Errorf("old uid still present: %+v", got)
	}
	got := mustLookup(t, cache, u2)
	if got == nil || got.Path != "2024-03-16.md" {
		t.Errorf("new uid = %+v, want 2024-03-16.md", got)
	}
}

func TestOnRenamedSameUIDKeepsEntry(t *testing.T) {
	// Moving a note between folders keeps its UID: the delete phase must
	// run before the create phase or the entry would be dropped.
	_, cache := testCache(t, allEnabled())

	cache.OnCreated(vault.NewFile("a/2024-03-15.md"))
	cache.OnRenamed(vault.NewFile("b/2024-03-15.md"), "a/2024-03-15.md")

	uid, _ := cache.UIDFromPath("2024-03-15.md")
	got := mustLookup(t, cache, uid)
	if got == nil || got.Path != "b/2024-03-15.md" {
		t.Errorf("Lookup = %+v, want b/2024-03-15.md", got)
	}
}

func TestOnRenamedAcrossGranularities(t *testing.T) {
	// A rename whose old and new names imply different granularities
	// targets two distinct UID namespaces: the day entry is removed and a
	// week entry appears.
	_, cache := testCache(t, allEnabled())
	cal := calendar.Default()

	cache.OnCreated(vault.NewFile("2024-03-15.md"))
	cache.OnRenamed(vault.NewFile("2024-W20.md"), "2024-03-15.md")

	dayUID := cal.UID(time.Date(2024, 3, 15, 0, 0, 0, 0, time.Local), calendar.Day)
	if got := mustLookup(t, cache, dayUID); got != nil {
		t.Errorf("day entry still present: %+v", got)
	}

	weekFile := mustLookup(t, cache, mustUID(t, cache, "2024-W20.md"))
	if weekFile == nil || weekFile.Path != "2024-W20.md" {
		t.Errorf("week entry = %+v", weekFile)
	}
}

func mustUID(t *testing.T, c *Cache, path string) string {
	t.Helper()
	uid, ok := c.UIDFromPath(path)
	if !ok {
		t.Fatalf("UIDFromPath(%s) failed", path)
	}
	return uid
}

func TestRebuildReflectsSettingsChange(t *testing.T) {
	provider := &staticProvider{sections: map[calendar.Granularity]settings.Section{
		calendar.Day: {Enabled: true},
	}}
	root, cache := testCache(t, provider)
	writeFile(t, root, "2024-03-15.md")
	writeFile(t, root, "15.03.2024.md")

	if err := cache.Rebuild(); err != nil {
		t.Fatal(err)
	}
	if n, _ := cache.Len(); n != 1 {
		t.Fatalf("Len = %d, want 1", n)
	}

	// A format change invalidates prior parses; re-initializing picks up
	// the other file instead.
	provider.sections[calendar.Day] = settings.Section{Enabled: true, Format: "DD.MM.YYYY"}
	if err := cache.Rebuild(); err != nil {
		t.Fatal(err)
	}
	uid, _ := cache.UIDFromPath("15.03.2024.md")
	got := mustLookup(t, cache, uid)
	if got == nil || got.Path != "15.03.2024.md" {
		t.Errorf("Lookup = %+v, want 15.03.2024.md", got)
	}
	if n, _ := cache.Len(); n != 1 {
		t.Errorf("Len = %d, want 1", n)
	}
}
