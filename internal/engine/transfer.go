package engine

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"mvx/internal/event"
	"mvx/internal/interrupt"
	"mvx/internal/platform"
	"mvx/internal/stats"
)

// defaultChunkSize is the streaming copy chunk. Cancellation and progress
// are observed once per chunk.
const defaultChunkSize = 1 << 20 // 1 MiB

// TransferFile handles a request whose source is a single regular file:
// destination resolution, conflict policy, then the strategy ladder.
func TransferFile(req Request, tok *interrupt.Token, tracker *stats.Tracker, events chan<- event.Event) error {
	info, err := os.Stat(req.Src)
	if err != nil {
		return fmt.Errorf("source %s: %w", req.Src, err)
	}
	if info.IsDir() {
		return fmt.Errorf("source %s is a directory", req.Src)
	}

	dst, err := ResolveDest(req.Src, req.Dst)
	if err != nil {
		return err
	}

	unit := FileUnit{Src: req.Src, Dst: dst, Size: info.Size()}
	tracker.AddTotals(1, unit.Size)
	return transferUnit(unit, req.Mode, req.Options, tok, tracker, events)
}

// transferUnit applies conflict and dry-run policy to one unit, then runs
// the strategy ladder. Parent directories are created here (idempotent),
// never under dry-run.
func transferUnit(unit FileUnit, mode Mode, opts Options, tok *interrupt.Token, tracker *stats.Tracker, events chan<- event.Event) error {
	overwrite := false
	if _, err := os.Lstat(unit.Dst); err == nil {
		if !opts.Force {
			tracker.AddFileFailed()
			failErr := fmt.Errorf("%s: %w", unit.Dst, ErrDestinationExists)
			event.Emit(events, event.Event{Type: event.FileFailed, Path: unit.Dst, Total: unit.Size, Err: failErr})
			return failErr
		}
		overwrite = true
	} else if !errors.Is(err, fs.ErrNotExist) {
		tracker.AddFileFailed()
		return fmt.Errorf("stat %s: %w", unit.Dst, err)
	}

	if opts.DryRun {
		tracker.AddBytes(unit.Size)
		tracker.AddFileDone()
		event.Emit(events, event.Event{
			Type:   event.FilePlanned,
			Path:   unit.Dst,
			Total:  unit.Size,
			Action: plannedAction(mode, overwrite),
		})
		return nil
	}

	if err := os.MkdirAll(filepath.Dir(unit.Dst), 0o755); err != nil {
		tracker.AddFileFailed()
		failErr := fmt.Errorf("create parent dir for %s: %w", unit.Dst, err)
		event.Emit(events, event.Event{Type: event.FileFailed, Path: unit.Dst, Total: unit.Size, Err: failErr})
		return failErr
	}

	event.Emit(events, event.Event{Type: event.FileStarted, Path: unit.Dst, Total: unit.Size})

	action, err := runStrategy(unit, mode, opts, overwrite, tok, tracker, events)
	if err != nil {
		tracker.AddFileFailed()
		event.Emit(events, event.Event{Type: event.FileFailed, Path: unit.Dst, Total: unit.Size, Err: err})
		return err
	}

	tracker.AddFileDone()
	event.Emit(events, event.Event{
		Type:   event.FileCompleted,
		Path:   unit.Dst,
		Bytes:  unit.Size,
		Total:  unit.Size,
		Action: action,
	})
	return nil
}

func plannedAction(mode Mode, overwrite bool) event.Action {
	if overwrite {
		return event.ActionOverwrite
	}
	if mode == Move {
		return event.ActionRename
	}
	return event.ActionCopy
}

// runStrategy executes the ladder: same-device rename for moves, reflink
// clone for copies, buffered streaming copy as the common fallback. Fast
// path failures fall through silently; anything else is fatal for this unit.
func runStrategy(unit FileUnit, mode Mode, opts Options, overwrite bool, tok *interrupt.Token, tracker *stats.Tracker, events chan<- event.Event) (event.Action, error) {
	if mode == Move {
		same, err := platform.SameDevice(unit.Src, filepath.Dir(unit.Dst))
		if err == nil && same {
			switch err := os.Rename(unit.Src, unit.Dst); {
			case err == nil:
				tracker.AddBytes(unit.Size)
				slog.Debug("renamed", "src", unit.Src, "dst", unit.Dst)
				return event.ActionRename, nil
			case platform.IsCrossDevice(err):
				slog.Debug("cross-device rename, streaming instead", "src", unit.Src, "dst", unit.Dst)
			default:
				return event.ActionNone, fmt.Errorf("rename %s -> %s: %w", unit.Src, unit.Dst, err)
			}
		}
	}

	if mode == Copy {
		perm := sourcePerm(unit.Src)
		if overwrite {
			// clonefile/FICLONE want a fresh destination.
			if err := os.Remove(unit.Dst); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return event.ActionNone, fmt.Errorf("remove %s: %w", unit.Dst, err)
			}
		}
		switch err := platform.Clone(unit.Src, unit.Dst, perm); {
		case err == nil:
			tracker.AddBytes(unit.Size)
			slog.Debug("cloned", "src", unit.Src, "dst", unit.Dst)
			if opts.Verify {
				if err := verifyUnit(unit); err != nil {
					return event.ActionNone, err
				}
			}
			return event.ActionClone, nil
		case errors.Is(err, platform.ErrUnsupported):
			slog.Debug("reflink unsupported, streaming instead", "src", unit.Src, "dst", unit.Dst)
		default:
			return event.ActionNone, err
		}
	}

	if err := streamCopy(unit, opts, tok, tracker, events); err != nil {
		return event.ActionNone, err
	}
	if opts.Verify {
		if err := verifyUnit(unit); err != nil {
			return event.ActionNone, err
		}
	}

	if mode == Move {
		if err := os.Remove(unit.Src); err != nil {
			// The data is safely at the destination; report and move on.
			slog.Warn("could not remove source after copy", "src", unit.Src, "error", err)
			event.Emit(events, event.Event{Type: event.CleanupWarning, Path: unit.Src, Err: err})
		} else {
			event.Emit(events, event.Event{Type: event.SourceRemoved, Path: unit.Src})
		}
		return event.ActionCopyDelete, nil
	}
	return event.ActionCopy, nil
}

// streamCopy copies in fixed-size chunks, reporting progress and checking
// for a forced interrupt after every chunk. A forced interrupt abandons the
// copy and leaves the partial destination in place.
func streamCopy(unit FileUnit, opts Options, tok *interrupt.Token, tracker *stats.Tracker, events chan<- event.Event) error {
	srcFd, err := os.Open(unit.Src)
	if err != nil {
		return fmt.Errorf("open %s: %w", unit.Src, err)
	}
	defer srcFd.Close()

	info, err := srcFd.Stat()
	if err != nil {
		return fmt.Errorf("stat %s: %w", unit.Src, err)
	}

	dstFd, err := os.OpenFile(unit.Dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create %s: %w", unit.Dst, err)
	}
	platform.Preallocate(dstFd, unit.Size)

	chunk := opts.ChunkSize
	if chunk <= 0 {
		chunk = defaultChunkSize
	}
	buf := make([]byte, chunk)

	var written int64
	for {
		if tok.Forced() {
			dstFd.Close()
			return fmt.Errorf("copy %s: %w", unit.Dst, ErrCancelled)
		}

		n, rerr := srcFd.Read(buf)
		if n > 0 {
			if _, werr := dstFd.Write(buf[:n]); werr != nil {
				dstFd.Close()
				return fmt.Errorf("write %s: %w", unit.Dst, werr)
			}
			written += int64(n)
			tracker.AddBytes(int64(n))
			event.Emit(events, event.Event{
				Type:  event.FileProgress,
				Path:  unit.Dst,
				Bytes: written,
				Total: unit.Size,
			})
		}
		if rerr == io.EOF {
			break
		}
		if rerr != nil {
			dstFd.Close()
			return fmt.Errorf("read %s: %w", unit.Src, rerr)
		}
	}

	if err := dstFd.Close(); err != nil {
		return fmt.Errorf("close %s: %w", unit.Dst, err)
	}
	return nil
}

func sourcePerm(path string) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return 0o644
	}
	return info.Mode().Perm()
}
