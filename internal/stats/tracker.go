// Package stats tracks transfer progress with lock-free atomic counters.
// There is a single writer (the transfer worker) and any number of readers
// (the presenter's timer loop), so plain atomic increments suffice.
package stats

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"
)

// rateDecay is the smoothing factor for the exponentially weighted moving
// average of throughput. Higher values weight history more, so momentary
// stalls do not collapse the estimate to zero.
const rateDecay = 0.85

// warmup is the minimum elapsed time before rate/ETA are considered
// meaningful. Below it both report unknown instead of divide-by-near-zero
// noise.
const warmup = 500 * time.Millisecond

// Tracker accumulates bytes-transferred across the files of a batch into
// rate/ETA estimates.
type Tracker struct {
	bytesDone   atomic.Int64
	bytesTotal  atomic.Int64
	filesDone   atomic.Int64
	filesFailed atomic.Int64
	filesTotal  atomic.Int64
	startTime   time.Time

	// Rate sampling state, touched only by the presenter's Tick loop.
	mu        sync.Mutex
	ewma      float64
	lastBytes int64
	lastTick  time.Time
	ticked    bool
}

// NewTracker returns a tracker with the start timestamp set to now.
func NewTracker() *Tracker {
	return &Tracker{startTime: time.Now()}
}

// AddTotals grows the expected totals. Called once per batch item when its
// byte count is resolved (a single file's size, or the sum over a merge).
func (t *Tracker) AddTotals(files, bytes int64) {
	t.filesTotal.Add(files)
	t.bytesTotal.Add(bytes)
}

// AddBytes records bytes written by the transfer strategy.
func (t *Tracker) AddBytes(n int64) { t.bytesDone.Add(n) }

// AddFileDone records one completed file.
func (t *Tracker) AddFileDone() { t.filesDone.Add(1) }

// AddFileFailed records one failed file.
func (t *Tracker) AddFileFailed() { t.filesFailed.Add(1) }

// Snapshot is a point-in-time read of all counters.
type Snapshot struct {
	BytesDone   int64
	BytesTotal  int64
	FilesDone   int64
	FilesFailed int64
	FilesTotal  int64
	Elapsed     time.Duration
}

// Snapshot returns a consistent point-in-time read of all counters.
func (t *Tracker) Snapshot() Snapshot {
	return Snapshot{
		BytesDone:   t.bytesDone.Load(),
		BytesTotal:  t.bytesTotal.Load(),
		FilesDone:   t.filesDone.Load(),
		FilesFailed: t.filesFailed.Load(),
		FilesTotal:  t.filesTotal.Load(),
		Elapsed:     t.Elapsed(),
	}
}

// Tick folds the byte delta since the last tick into the smoothed rate.
// Called periodically by the presenter, never by the worker.
func (t *Tracker) Tick() {
	current := t.bytesDone.Load()
	now := time.Now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.ticked {
		t.lastBytes = current
		t.lastTick = now
		t.ticked = true
		return
	}

	dt := now.Sub(t.lastTick).Seconds()
	if dt <= 0 {
		return
	}
	inst := float64(current-t.lastBytes) / dt
	t.ewma = rateDecay*t.ewma + (1-rateDecay)*inst
	t.lastBytes = current
	t.lastTick = now
}

// Rate returns the smoothed throughput in bytes per second. ok is false
// while the estimate is still warming up.
func (t *Tracker) Rate() (bps float64, ok bool) {
	if t.Elapsed() < warmup {
		return 0, false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.ewma <= 0 {
		return 0, false
	}
	return t.ewma, true
}

// ETA estimates remaining time from the smoothed rate and remaining bytes.
// ok is false when no meaningful estimate exists yet.
func (t *Tracker) ETA() (eta time.Duration, ok bool) {
	rate, ok := t.Rate()
	if !ok {
		return 0, false
	}
	remaining := t.bytesTotal.Load() - t.bytesDone.Load()
	if remaining <= 0 {
		return 0, true
	}
	return time.Duration(float64(remaining) / rate * float64(time.Second)), true
}

// Elapsed returns time since the tracker was created.
func (t *Tracker) Elapsed() time.Duration {
	return time.Since(t.startTime)
}

func (s Snapshot) String() string {
	return fmt.Sprintf("done=%d failed=%d total=%d bytes=%d/%d",
		s.FilesDone, s.FilesFailed, s.FilesTotal, s.BytesDone, s.BytesTotal)
}

// FormatBytes returns a human-readable byte count.
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
