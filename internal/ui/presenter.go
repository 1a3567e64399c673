// Package ui renders the engine's progress events. The engine always
// produces events; presenters decide what to show. Terminal-widget rendering
// stays out of the core: presenters only consume the structured event stream
// and the tracker's counters.
package ui

import (
	"io"

	"mvx/internal/event"
	"mvx/internal/stats"
)

// Presenter consumes events and displays progress.
type Presenter interface {
	// Run consumes events until the channel closes. Blocks until done.
	Run(events <-chan event.Event) error
	// Summary returns the final summary line, empty if none.
	Summary() string
}

// Config configures a Presenter.
type Config struct {
	Writer    io.Writer
	ErrWriter io.Writer
	Quiet     bool
	Verbose   bool
	Tracker   *stats.Tracker
}

// NewPresenter picks a presenter for the configuration: quiet discards
// everything, otherwise one line per file plus periodic progress.
//
//nolint:ireturn // factory function
func NewPresenter(cfg Config) Presenter {
	if cfg.Quiet {
		return &quietPresenter{}
	}
	return &plainPresenter{
		w:       cfg.Writer,
		errW:    cfg.ErrWriter,
		tracker: cfg.Tracker,
		verbose: cfg.Verbose,
	}
}
