package jera

import (
	"log/slog"
	"time"

	"github.com/starford/jera/internal/calendar"
)

// Option is a functional option for configuring a Session.
type Option func(*Session)

// WithLogger sets the structured logger. The default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithSettingsProvider attaches the external periodic-notes settings
// provider.
func WithSettingsProvider(p SettingsProvider) Option {
	return func(s *Session) {
		s.provider = p
	}
}

// WithLegacySettings attaches the built-in daily/weekly settings source.
func WithLegacySettings(l LegacySettings) Option {
	return func(s *Session) {
		s.legacy = l
	}
}

// WithWeekStart sets the first day of the week and the day of January that
// week 1 must contain, for week numbering and truncation.
func WithWeekStart(weekStart time.Weekday, firstWeekContains int) Option {
	return func(s *Session) {
		s.cal = calendar.Calendar{WeekStart: weekStart, FirstWeekContains: firstWeekContains}
	}
}

// WithClock overrides the wall clock used for template expansion.
func WithClock(c Clock) Option {
	return func(s *Session) {
		s.clock = c
	}
}

// WithFoldManager attaches the host's fold-state store.
func WithFoldManager(f FoldManager) Option {
	return func(s *Session) {
		s.folds = f
	}
}

// WithOpener attaches the host UI's note opener.
func WithOpener(o Opener) Option {
	return func(s *Session) {
		s.opener = o
	}
}

// WithConfirmer attaches the host UI's confirmation dialog.
func WithConfirmer(c Confirmer) Option {
	return func(s *Session) {
		s.confirmer = c
	}
}

// WithNotifier attaches the host UI's warning surface.
func WithNotifier(n Notifier) Option {
	return func(s *Session) {
		s.notifier = n
	}
}
