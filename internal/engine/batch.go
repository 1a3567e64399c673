package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"mvx/internal/event"
	"mvx/internal/interrupt"
	"mvx/internal/stats"
)

// Config describes one batch: an ordered list of sources transferred into a
// single destination.
type Config struct {
	Sources []string
	Dst     string
	Mode    Mode
	Options Options
	Tracker *stats.Tracker
	Token   *interrupt.Token
	Events  chan<- event.Event
}

// Result is the aggregate outcome of a batch.
type Result struct {
	Stats     stats.Snapshot
	Failures  int
	Cancelled bool
	Err       error
}

// Run validates every source up front (fail fast, no partial work when one
// is missing), then processes sources in order: files go to TransferFile,
// directories to MergeDirectory. A failing source is reported and the batch
// continues; cancellation stops it.
func Run(cfg Config) Result {
	for _, src := range cfg.Sources {
		if _, err := os.Stat(src); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				err = fmt.Errorf("%s: %w", src, ErrSourceNotFound)
			} else {
				err = fmt.Errorf("source %s: %w", src, err)
			}
			return Result{Stats: cfg.Tracker.Snapshot(), Failures: 1, Err: err}
		}
	}

	event.Emit(cfg.Events, event.Event{Type: event.BatchStarted})

	var firstErr error
	failures := 0
	cancelled := false

	for _, src := range cfg.Sources {
		if cfg.Token.Requested() {
			cancelled = true
			break
		}

		event.Emit(cfg.Events, event.Event{Type: event.SourceStarted, Path: src})

		info, err := os.Stat(src)
		if err != nil {
			// Validated above, but the tree may change under us.
			failures++
			if firstErr == nil {
				firstErr = fmt.Errorf("source %s: %w", src, err)
			}
			slog.Error("source vanished", "source", src, "error", err)
			continue
		}

		req := Request{Src: src, Dst: cfg.Dst, Mode: cfg.Mode, Options: cfg.Options}
		if info.IsDir() {
			err = MergeDirectory(req, cfg.Token, cfg.Tracker, cfg.Events)
		} else {
			err = TransferFile(req, cfg.Token, cfg.Tracker, cfg.Events)
		}
		if err != nil {
			if errors.Is(err, ErrCancelled) {
				cancelled = true
				if firstErr == nil {
					firstErr = err
				}
				break
			}
			failures++
			if firstErr == nil {
				firstErr = err
			}
			slog.Error("transfer failed", "source", src, "error", err)
		}
	}

	return Result{
		Stats:     cfg.Tracker.Snapshot(),
		Failures:  failures,
		Cancelled: cancelled,
		Err:       firstErr,
	}
}
