// Package interrupt provides the process-wide cancellation token flipped by
// interrupt signals. The token is explicit and injectable so tests can
// simulate interruption without delivering real signals.
package interrupt

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
)

// State is the cancellation level. Transitions are monotonic:
// Running → Requested → Forced, never backward.
type State int32

const (
	// Running means no interrupt has been observed.
	Running State = iota
	// Requested means one interrupt arrived: finish the in-flight file,
	// then stop before starting the next one.
	Requested
	// Forced means a second interrupt arrived: abort immediately, even
	// mid-stream.
	Forced
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Requested:
		return "requested"
	case Forced:
		return "forced"
	default:
		return "unknown"
	}
}

// Token holds the shared cancellation state. The zero value is usable and
// starts in Running.
type Token struct {
	state atomic.Int32
}

// NewToken returns a token in the Running state.
func NewToken() *Token {
	return &Token{}
}

// Signal records one interrupt. The first call moves Running to Requested;
// any later call forces.
func (t *Token) Signal() {
	if t.state.CompareAndSwap(int32(Running), int32(Requested)) {
		return
	}
	t.state.Store(int32(Forced))
}

// State returns the current cancellation level.
func (t *Token) State() State {
	return State(t.state.Load())
}

// Requested reports whether at least one interrupt has been observed.
func (t *Token) Requested() bool {
	return t.State() >= Requested
}

// Forced reports whether a second interrupt demanded immediate abort.
func (t *Token) Forced() bool {
	return t.State() == Forced
}

// Notify installs a SIGINT/SIGTERM watcher that signals the token. It is the
// only goroutine besides the presenter that runs concurrently with the
// worker, and it never touches the filesystem. The returned stop function
// uninstalls the handler.
func Notify(t *Token) (stop func()) {
	ch := make(chan os.Signal, 2)
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-ch:
				t.Signal()
			case <-done:
				return
			}
		}
	}()

	return func() {
		signal.Stop(ch)
		close(done)
	}
}
