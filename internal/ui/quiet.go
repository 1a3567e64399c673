package ui

import "mvx/internal/event"

// quietPresenter consumes events but produces no output. The engine still
// computes every event so dry-run and verbose summaries stay correct when
// quiet mode is toggled off.
type quietPresenter struct{}

func (p *quietPresenter) Run(events <-chan event.Event) error {
	//nolint:revive // empty-block: intentionally draining event channel
	for range events {
	}
	return nil
}

func (p *quietPresenter) Summary() string {
	return ""
}
