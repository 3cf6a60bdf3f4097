package jera

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/index"
	"github.com/starford/jera/internal/notes"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/vault"
)

// Session is the library entry point: one live periodic note index over a
// document store, plus the open-or-create flow. A session is created once,
// populated by an initial full scan, and kept current by change
// notifications for its lifetime; the index is never persisted.
type Session struct {
	logger    *slog.Logger
	cal       calendar.Calendar
	provider  SettingsProvider
	legacy    LegacySettings
	clock     Clock
	folds     FoldManager
	opener    Opener
	confirmer Confirmer
	notifier  Notifier

	root     string
	store    *vault.FS
	resolver *settings.Resolver
	cache    *index.Cache
	orch     *notes.Orchestrator
}

// Open starts a session over the document store rooted at root. The
// initial scan failure is logged, not fatal: the index starts empty and a
// later Reinitialize can populate it.
func Open(root string, opts ...Option) (*Session, error) {
	s := &Session{
		logger: slog.Default(),
		cal:    calendar.Default(),
		root:   root,
	}
	for _, opt := range opts {
		opt(s)
	}

	store, err := vault.NewFS(root)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	s.store = store

	s.resolver = settings.NewResolver(s.provider, s.legacy, s.logger)

	cache, err := index.Open(store, s.resolver, s.cal, s.logger)
	if err != nil {
		return nil, fmt.Errorf("open index: %w", err)
	}
	s.cache = cache

	materializer := notes.NewMaterializer(store, s.resolver, s.cal, s.folds, s.clock, s.notifier, s.logger)
	s.orch = notes.NewOrchestrator(materializer, s.opener, s.confirmer, s.logger)

	if err := cache.Rebuild(); err != nil {
		s.logger.Warn("initial scan failed", slog.String("error", err.Error()))
	}

	return s, nil
}

// Close releases the session's index.
func (s *Session) Close() error {
	return s.cache.Close()
}

// LookupByDate returns the note for the period of date at granularity g,
// or nil when none is indexed.
func (s *Session) LookupByDate(date time.Time, g Granularity) (*File, error) {
	return s.cache.LookupByDate(date, g)
}

// LookupByUID returns the note indexed under uid, or nil when absent.
func (s *Session) LookupByUID(uid string) (*File, error) {
	return s.cache.Lookup(uid)
}

// UID returns the canonical index key for the period of date at g.
func (s *Session) UID(date time.Time, g Granularity) string {
	return s.cal.UID(date, g)
}

// OpenOrCreate opens existing when non-nil, or materializes the note for
// date at g and opens it, optionally gated behind a confirmation dialog.
func (s *Session) OpenOrCreate(ctx context.Context, g Granularity, date time.Time,
	existing *File, opt OpenOptions) error {
	return s.orch.OpenOrCreate(ctx, g, date, existing, opt)
}

// Reinitialize rebuilds the index from a fresh full scan. Hosts call this
// on external settings-changed or metadata-changed events, since format and
// folder changes invalidate prior parses. Concurrent calls are coalesced.
func (s *Session) Reinitialize() error {
	return s.cache.Rebuild()
}

// Watch drives the index from file-system change notifications until ctx
// is cancelled.
func (s *Session) Watch(ctx context.Context) error {
	return s.cache.Watch(ctx, s.store.Root())
}

// OnCreated, OnModified, OnDeleted, and OnRenamed forward host-delivered
// change notifications to the index, for hosts with their own notification
// bus instead of Watch.
func (s *Session) OnCreated(f File)                 { s.cache.OnCreated(f) }
func (s *Session) OnModified(f File)                { s.cache.OnModified(f) }
func (s *Session) OnDeleted(f File)                 { s.cache.OnDeleted(f) }
func (s *Session) OnRenamed(f File, oldPath string) { s.cache.OnRenamed(f, oldPath) }
