// Package jera maintains a live, bidirectional mapping between calendar
// dates and periodic note files in a document store: an index keyed by
// date-UIDs, kept current by file change notifications, plus templated
// note materialization with confirmation semantics.
package jera

import (
	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/notes"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/vault"
)

// Granularity is the period size a periodic note represents.
type Granularity = calendar.Granularity

const (
	Day     = calendar.Day
	Week    = calendar.Week
	Month   = calendar.Month
	Quarter = calendar.Quarter
	Year    = calendar.Year
)

// File identifies a note in the document store.
type File = vault.File

// Store is the document-store capability the session consumes.
type Store = vault.Store

// FoldManager round-trips opaque collapsed-section state.
type FoldManager = vault.FoldManager

// FoldInfo is opaque collapsed-section state.
type FoldInfo = vault.FoldInfo

// SettingsProvider reports external per-granularity settings.
type SettingsProvider = settings.Provider

// Section is one granularity's external settings.
type Section = settings.Section

// LegacySettings exposes built-in daily/weekly note settings.
type LegacySettings = settings.Legacy

// PeriodicConfig is a resolved {format, folder, template} triple.
type PeriodicConfig = settings.PeriodicConfig

// Clock supplies the current instant.
type Clock = calendar.Clock

// Opener opens notes in the host UI.
type Opener = notes.Opener

// Confirmer gates note creation behind a yes/no dialog.
type Confirmer = notes.Confirmer

// Notifier surfaces user-visible warnings.
type Notifier = notes.Notifier

// OpenOptions control one OpenOrCreate request.
type OpenOptions = notes.OpenOptions

// CreationError reports that the store rejected a note creation.
type CreationError = notes.CreationError
