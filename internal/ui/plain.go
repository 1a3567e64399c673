package ui

import (
	"fmt"
	"io"
	"time"

	"mvx/internal/event"
	"mvx/internal/stats"
)

// plainPresenter prints one line per completed or failed file to stdout and
// periodic progress to stderr.
type plainPresenter struct {
	w       io.Writer
	errW    io.Writer
	tracker *stats.Tracker
	verbose bool
}

func (p *plainPresenter) Run(events <-chan event.Event) error {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			p.handleEvent(ev)
		case <-ticker.C:
			p.tracker.Tick()
			ticks++
			if ticks%5 == 0 {
				p.printProgress()
			}
		}
	}
}

func (p *plainPresenter) handleEvent(ev event.Event) {
	switch ev.Type {
	case event.FilePlanned:
		fmt.Fprintf(p.w, "plan: %s %s (%s)\n", ev.Action, ev.Path, stats.FormatBytes(ev.Total))
	case event.FileCompleted:
		fmt.Fprintf(p.w, "%s  %s  %s\n", ev.Path, stats.FormatBytes(ev.Total), ev.Action)
	case event.FileFailed:
		errMsg := "error"
		if ev.Err != nil {
			errMsg = ev.Err.Error()
		}
		fmt.Fprintf(p.w, "%s  %s\n", ev.Path, errMsg)
	case event.CleanupWarning:
		fmt.Fprintf(p.errW, "warning: %s: %v\n", ev.Path, ev.Err)
	case event.SourceRemoved:
		if p.verbose {
			fmt.Fprintf(p.w, "removed source %s\n", ev.Path)
		}
	case event.DirPruned:
		if p.verbose {
			fmt.Fprintf(p.w, "pruned %s\n", ev.Path)
		}
	}
}

func (p *plainPresenter) printProgress() {
	snap := p.tracker.Snapshot()
	if snap.BytesTotal <= 0 {
		return
	}
	pct := float64(snap.BytesDone) / float64(snap.BytesTotal) * 100

	rateStr := "--"
	if rate, ok := p.tracker.Rate(); ok {
		rateStr = FormatRate(rate)
	}
	etaStr := "--"
	if eta, ok := p.tracker.ETA(); ok {
		etaStr = FormatETA(eta)
	}

	fmt.Fprintf(p.errW, "progress: %.0f%% %s/%s %d/%d files %s eta %s\n",
		pct,
		stats.FormatBytes(snap.BytesDone), stats.FormatBytes(snap.BytesTotal),
		snap.FilesDone, snap.FilesTotal,
		rateStr, etaStr,
	)
}

func (p *plainPresenter) Summary() string {
	snap := p.tracker.Snapshot()
	s := fmt.Sprintf("%d files, %s in %s",
		snap.FilesDone,
		stats.FormatBytes(snap.BytesDone),
		FormatDuration(snap.Elapsed),
	)
	if snap.FilesFailed > 0 {
		s += fmt.Sprintf(" (%d failed)", snap.FilesFailed)
	}
	return s
}
