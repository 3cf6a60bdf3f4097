package notes

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/starford/jera/internal/calendar"
	"github.com/starford/jera/internal/dateformat"
	"github.com/starford/jera/internal/vault"
)

// Opener opens a note in the host UI.
type Opener interface {
	Open(ctx context.Context, f vault.File, newSplit bool) error
}

// Confirmer asks the user a yes/no question and blocks until they answer
// or dismiss the dialog. A dismissal reports false with no error.
type Confirmer interface {
	Confirm(ctx context.Context, title, message string) (bool, error)
}

// NopOpener is used when no UI is attached.
type NopOpener struct{}

func (NopOpener) Open(context.Context, vault.File, bool) error { return nil }

// OpenOptions control one open-or-create request.
type OpenOptions struct {
	// NewSplit opens the note in a new split instead of the active pane.
	NewSplit bool
	// Confirm gates creation behind a user confirmation dialog.
	Confirm bool
	// OnCreated runs exactly once after a successful creation.
	OnCreated func(vault.File)
}

// Orchestrator decides between opening an existing periodic note and
// materializing a new one.
type Orchestrator struct {
	create  *Materializer
	opener  Opener
	confirm Confirmer
	logger  *slog.Logger
}

// NewOrchestrator wires an orchestrator. opener may be nil when no UI is
// attached; confirm may be nil when creation is never gated.
func NewOrchestrator(create *Materializer, opener Opener, confirm Confirmer, logger *slog.Logger) *Orchestrator {
	if opener == nil {
		opener = NopOpener{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{create: create, opener: opener, confirm: confirm, logger: logger}
}

// OpenOrCreate opens existing when it is non-nil, and otherwise creates the
// note for date at granularity g and opens the result. With opt.Confirm set
// the creation is gated behind a confirmation dialog naming the would-be
// filename; declining is not an error and creates nothing.
func (o *Orchestrator) OpenOrCreate(ctx context.Context, g calendar.Granularity, date time.Time,
	existing *vault.File, opt OpenOptions) error {
	if existing != nil {
		return o.opener.Open(ctx, *existing, opt.NewSplit)
	}

	if opt.Confirm && o.confirm != nil {
		cfg := o.create.resolver.Resolve(g)
		filename := dateformat.Format(date, cfg.Format, o.create.cal.FormatOptions())
		accepted, err := o.confirm.Confirm(ctx, dialogTitle(g),
			fmt.Sprintf("File %s does not exist. Would you like to create it?", filename))
		if err != nil {
			return fmt.Errorf("notes: confirm creation: %w", err)
		}
		if !accepted {
			o.logger.Debug("notes: creation declined", slog.String("filename", filename))
			return nil
		}
	}

	created, err := o.create.Create(g, date)
	if err != nil {
		return err
	}
	if err := o.opener.Open(ctx, created, opt.NewSplit); err != nil {
		return err
	}
	if opt.OnCreated != nil {
		opt.OnCreated(created)
	}
	return nil
}

func dialogTitle(g calendar.Granularity) string {
	switch g {
	case calendar.Week:
		return "New Weekly Note"
	case calendar.Month:
		return "New Monthly Note"
	case calendar.Quarter:
		return "New Quarterly Note"
	case calendar.Year:
		return "New Yearly Note"
	default:
		return "New Daily Note"
	}
}
