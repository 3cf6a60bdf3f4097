// Package notes materializes new periodic note files from templates and
// orchestrates the open-or-create flow.
package notes

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/dateformat"
	"github.com/starford/jera/internal/settings"
	"github.com/starford/jera/internal/vault"
)

// CreationError reports that the store rejected a note creation.
type CreationError struct {
	Path string
	Err  error
}

func (e *CreationError) Error() string {
	return fmt.Sprintf("notes: create %s: %v", e.Path, e.Err)
}

func (e *CreationError) Unwrap() error { return e.Err }

// Notifier surfaces user-visible warnings. The host UI supplies one; the
// default writes to the log.
type Notifier interface {
	Notify(message string)
}

// LogNotifier is the fallback Notifier.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) Notify(message string) {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.Warn("notice", slog.String("message", message))
}

// Materializer creates periodic note files.
type Materializer struct {
	store    vault.Store
	folds    vault.FoldManager
	resolver *settings.Resolver
	cal      calendar.Calendar
	clock    calendar.Clock
	notices  Notifier
	logger   *slog.Logger
}

// NewMaterializer wires a materializer. folds, clock, notices, and logger
// may be nil; safe defaults are used.
func NewMaterializer(store vault.Store, resolver *settings.Resolver, cal calendar.Calendar,
	folds vault.FoldManager, clock calendar.Clock, notices Notifier, logger *slog.Logger) *Materializer {
	if folds == nil {
		folds = vault.NopFoldManager{}
	}
	if clock == nil {
		clock = calendar.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if notices == nil {
		notices = LogNotifier{Logger: logger}
	}
	return &Materializer{
		store:    store,
		folds:    folds,
		resolver: resolver,
		cal:      cal,
		clock:    clock,
		notices:  notices,
		logger:   logger,
	}
}

// Create materializes the note for date at granularity g: it resolves the
// active settings, expands the configured template, and writes the file,
// creating missing folders on the way. A template that cannot be read is
// replaced by empty content with a warning; a rejected write fails with a
// CreationError.
func (m *Materializer) Create(g calendar.Granularity, date time.Time) (vault.File, error) {
	cfg := m.resolver.Resolve(g)
	filename := dateformat.Format(date, cfg.Format, m.cal.FormatOptions())
	target := notePath(cfg.Folder, filename)

	if err := m.ensureFolder(target); err != nil {
		return vault.File{}, &CreationError{Path: target, Err: err}
	}

	content, foldInfo := m.templateInfo(cfg.Template)
	content = expandTemplate(content, expandInput{
		granularity: g,
		filename:    filename,
		date:        date,
		now:         m.clock.Now(),
		format:      cfg.Format,
		opt:         m.cal.FormatOptions(),
	})

	created, err := m.store.Create(target, []byte(content))
	if err != nil {
		m.logger.Error("notes: create failed", slog.String("path", target), slog.String("error", err.Error()))
		m.notices.Notify("Unable to create new file.")
		return vault.File{}, &CreationError{Path: target, Err: err}
	}

	// Fold state is best-effort; losing it must not fail the creation.
	if err := m.folds.Save(created, foldInfo); err != nil {
		m.logger.Warn("notes: save fold state failed", slog.String("path", created.Path), slog.String("error", err.Error()))
	}

	m.logger.Debug("notes: created", slog.String("path", created.Path), slog.String("granularity", string(g)))
	return created, nil
}

// templateInfo reads the configured template and its fold state. Any read
// failure degrades to empty content so note creation still succeeds.
func (m *Materializer) templateInfo(template string) (string, vault.FoldInfo) {
	if template == "" {
		return "", nil
	}
	content, err := m.store.Read(template)
	if err != nil {
		m.logger.Error("notes: read template failed", slog.String("template", template), slog.String("error", err.Error()))
		m.notices.Notify("Failed to read the note template")
		return "", nil
	}
	foldInfo, err := m.folds.Load(vault.NewFile(template))
	if err != nil {
		m.logger.Warn("notes: load fold state failed", slog.String("template", template), slog.String("error", err.Error()))
		foldInfo = nil
	}
	return string(content), foldInfo
}

// ensureFolder creates the missing ancestors of target one level at a
// time. Folders that already exist are left untouched.
func (m *Materializer) ensureFolder(target string) error {
	dir := strings.TrimSuffix(target, "/"+pathBase(target))
	if dir == target || dir == "" {
		return nil
	}
	segs := strings.Split(dir, "/")
	for i := range segs {
		prefix := strings.Join(segs[:i+1], "/")
		if m.store.Exists(prefix) {
			continue
		}
		if err := m.store.CreateFolder(prefix); err != nil {
			return err
		}
	}
	return nil
}

func pathBase(p string) string {
	if i := strings.LastIndexByte(p, '/'); i >= 0 {
		return p[i+1:]
	}
	return p
}

// notePath joins folder and filename and appends the note extension.
func notePath(folder, filename string) string {
	if !strings.HasSuffix(filename, "."+vault.NoteExtension) {
		filename += "." + vault.NoteExtension
	}
	var parts []string
	for _, seg := range strings.Split(folder+"/"+filename, "/") {
		if seg == "" || seg == "." {
			continue
		}
		parts = append(parts, seg)
	}
	return strings.Join(parts, "/")
}
