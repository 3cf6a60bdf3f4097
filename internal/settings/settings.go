// Package settings resolves the active filename format, folder, and template
// for each granularity, deferring to an optional external provider and
// falling back to fixed defaults.
package settings

import (
	"log/slog"
	"strings"

	"github.com/starford/jera/internal/calendar"
)

// Default filename formats per granularity.
const (
	DefaultDayFormat     = "YYYY-MM-DD"
	DefaultWeekFormat    = "gggg-[W]ww"
	DefaultMonthFormat   = "YYYY-MM"
	DefaultQuarterFormat = "YYYY-[Q]Q"
	DefaultYearFormat    = "YYYY"
)

// PeriodicConfig is the resolved settings triple for one granularity.
type PeriodicConfig struct {
	Format   string // date-formatting pattern for note filenames
	Folder   string // store-relative directory, empty = store root
	Template string // store-relative template path, empty = none
}

// Section is one granularity's entry as reported by an external provider.
type Section struct {
	Enabled  bool   `yaml:"enabled"`
	Format   string `yaml:"format"`
	Folder   string `yaml:"folder"`
	Template string `yaml:"template"`
}

// Provider reports per-granularity settings from the external periodic-notes
// configuration. Lookup errors are downgraded to defaults by the resolver.
type Provider interface {
	Granularity(g calendar.Granularity) (Section, error)
}

// Legacy exposes the built-in daily-notes and weekly-notes configuration
// used when no external provider governs a granularity. The boolean is
// false when the corresponding plugin is absent.
type Legacy interface {
	Daily() (PeriodicConfig, bool)
	Weekly() (PeriodicConfig, bool)
}

// DefaultFormat returns the fixed default filename format for g.
func DefaultFormat(g calendar.Granularity) string {
	switch g {
	case calendar.Week:
		return DefaultWeekFormat
	case calendar.Month:
		return DefaultMonthFormat
	case calendar.Quarter:
		return DefaultQuarterFormat
	case calendar.Year:
		return DefaultYearFormat
	default:
		return DefaultDayFormat
	}
}

// Resolver produces PeriodicConfig values. Both providers are optional;
// resolution never fails.
type Resolver struct {
	provider Provider
	legacy   Legacy
	logger   *slog.Logger
}

// NewResolver builds a resolver. provider and legacy may be nil.
func NewResolver(provider Provider, legacy Legacy, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{provider: provider, legacy: legacy, logger: logger}
}

// Resolve returns the active settings for g. Settings are read fresh on
// every call since providers may mutate at any time. Provider errors are
// logged and downgraded to the fixed defaults.
func (r *Resolver) Resolve(g calendar.Granularity) PeriodicConfig {
	if sec, ok := r.providerSection(g); ok {
		return normalize(PeriodicConfig{Format: sec.Format, Folder: sec.Folder, Template: sec.Template}, g)
	}
	if r.legacy != nil {
		switch g {
		case calendar.Day:
			if cfg, ok := r.legacy.Daily(); ok {
				return normalize(cfg, g)
			}
		case calendar.Week:
			if cfg, ok := r.legacy.Weekly(); ok {
				return normalize(cfg, g)
			}
		}
	}
	return PeriodicConfig{Format: DefaultFormat(g)}
}

// providerSection returns the external section for g when the provider is
// present, healthy, and has the granularity enabled.
func (r *Resolver) providerSection(g calendar.Granularity) (Section, bool) {
	if r.provider == nil {
		return Section{}, false
	}
	sec, err := r.provider.Granularity(g)
	if err != nil {
		r.logger.Info("settings: no custom periodic note settings found",
			slog.String("granularity", string(g)),
			slog.String("error", err.Error()))
		return Section{}, false
	}
	return sec, sec.Enabled
}

func normalize(cfg PeriodicConfig, g calendar.Granularity) PeriodicConfig {
	if cfg.Format == "" {
		cfg.Format = DefaultFormat(g)
	}
	cfg.Folder = strings.TrimSpace(cfg.Folder)
	cfg.Template = strings.TrimSpace(cfg.Template)
	return cfg
}

// HasDailyNotes reports whether daily notes are governed by any provider.
func (r *Resolver) HasDailyNotes() bool {
	if r.legacy != nil {
		if _, ok := r.legacy.Daily(); ok {
			return true
		}
	}
	_, enabled := r.providerSection(calendar.Day)
	return enabled
}

// HasWeeklyNotes reports whether weekly notes are governed by any provider.
func (r *Resolver) HasWeeklyNotes() bool {
	if r.legacy != nil {
		if _, ok := r.legacy.Weekly(); ok {
			return true
		}
	}
	_, enabled := r.providerSection(calendar.Week)
	return enabled
}

// HasMonthlyNotes reports whether monthly notes are enabled in the external
// provider. There is no legacy monthly plugin.
func (r *Resolver) HasMonthlyNotes() bool {
	_, enabled := r.providerSection(calendar.Month)
	return enabled
}
