// Package event defines the structured progress events the engine emits for
// the rendering/logging collaborator. Events are produced even in quiet mode;
// the quiet presenter simply discards them.
package event

import "time"

// Type identifies the kind of event.
type Type int

const (
	BatchStarted Type = iota + 1
	SourceStarted
	FilePlanned // dry-run: what would be done
	FileStarted
	FileProgress
	FileCompleted
	FileFailed
	SourceRemoved
	DirPruned
	CleanupWarning
)

var typeNames = [...]string{
	BatchStarted:   "BatchStarted",
	SourceStarted:  "SourceStarted",
	FilePlanned:    "FilePlanned",
	FileStarted:    "FileStarted",
	FileProgress:   "FileProgress",
	FileCompleted:  "FileCompleted",
	FileFailed:     "FileFailed",
	SourceRemoved:  "SourceRemoved",
	DirPruned:      "DirPruned",
	CleanupWarning: "CleanupWarning",
}

func (t Type) String() string {
	if t > 0 && int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "Unknown"
}

// Action identifies how a transfer was (or would be) carried out.
type Action int

const (
	ActionNone       Action = iota
	ActionRename            // same-device atomic rename
	ActionClone             // copy-on-write reflink
	ActionCopy              // buffered streaming copy
	ActionCopyDelete        // streaming copy followed by source removal (move)
	ActionOverwrite         // destination existed and was replaced (force)
)

var actionNames = [...]string{
	ActionNone:       "none",
	ActionRename:     "rename",
	ActionClone:      "clone",
	ActionCopy:       "copy",
	ActionCopyDelete: "copy+delete",
	ActionOverwrite:  "overwrite",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// Event is one progress record: {path, bytes-total, bytes-so-far,
// action-kind, timestamp} plus an error for failure events.
type Event struct {
	Type      Type
	Timestamp time.Time
	Path      string // destination path, or source path for removal events
	Bytes     int64  // bytes so far (FileProgress) or file size (completion)
	Total     int64  // total bytes for this unit
	Action    Action
	Err       error
}

// Emit sends e on ch with a timestamp, dropping the event if the channel is
// full or nil. Progress display is best-effort and must never block the
// worker.
func Emit(ch chan<- Event, e Event) {
	if ch == nil {
		return
	}
	e.Timestamp = time.Now()
	select {
	case ch <- e:
	default:
	}
}
