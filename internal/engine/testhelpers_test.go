package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"mvx/internal/event"
	"mvx/internal/interrupt"
	"mvx/internal/stats"
)

// writeFile creates a file (and its parents) under root at rel with content.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// readFile returns the content of the file at path.
func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

// exists reports whether a path exists.
func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

// collectEvents buffers events from a capacious channel so tests can assert
// on what the engine emitted. Call the returned drain after closing ch.
func collectEvents(t *testing.T) (ch chan event.Event, drain func() []event.Event) {
	t.Helper()
	ch = make(chan event.Event, 4096)
	return ch, func() []event.Event {
		close(ch)
		var evs []event.Event
		for ev := range ch {
			evs = append(evs, ev)
		}
		return evs
	}
}

// newHarness returns a fresh token and tracker.
func newHarness() (*interrupt.Token, *stats.Tracker) {
	return interrupt.NewToken(), stats.NewTracker()
}
