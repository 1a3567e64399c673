package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"syscall"

	"mvx/internal/event"
	"mvx/internal/interrupt"
	"mvx/internal/stats"
)

// fileEntry is one regular file found under the merge source, identified by
// its path relative to the source root.
type fileEntry struct {
	rel  string
	size int64
}

// MergeDirectory merges the full contents of req.Src into the destination
// tree. Files are transferred in sorted relative-path order so runs are
// deterministic; same-name files follow the force policy and files unique to
// either tree are left alone. After a move-mode merge, emptied source
// directories are pruned bottom-up.
func MergeDirectory(req Request, tok *interrupt.Token, tracker *stats.Tracker, events chan<- event.Event) error {
	srcInfo, err := os.Stat(req.Src)
	if err != nil {
		return fmt.Errorf("source %s: %w", req.Src, err)
	}
	if !srcInfo.IsDir() {
		return fmt.Errorf("source %s is not a directory", req.Src)
	}

	if dstInfo, err := os.Stat(req.Dst); err == nil {
		if !dstInfo.IsDir() {
			return fmt.Errorf("destination %s exists and is not a directory", req.Dst)
		}
	} else if !req.Options.DryRun {
		if err := os.MkdirAll(req.Dst, 0o755); err != nil {
			return fmt.Errorf("create destination %s: %w", req.Dst, err)
		}
	}

	files, totalBytes, err := collectFiles(req.Src)
	if err != nil {
		return err
	}
	tracker.AddTotals(int64(len(files)), totalBytes)

	var firstErr error
	failures := 0
	cancelled := false

	for _, f := range files {
		if tok.Requested() {
			cancelled = true
			break
		}

		unit := FileUnit{
			Src:  filepath.Join(req.Src, f.rel),
			Dst:  filepath.Join(req.Dst, f.rel),
			Size: f.size,
		}
		if err := transferUnit(unit, req.Mode, req.Options, tok, tracker, events); err != nil {
			if errors.Is(err, ErrCancelled) {
				cancelled = true
				if firstErr == nil {
					firstErr = err
				}
				break
			}
			// Record and keep going with the unit's siblings.
			failures++
			if firstErr == nil {
				firstErr = err
			}
		}
	}

	// Renames have already emptied parts of the source tree; prune whatever
	// is now empty, even after a cancellation.
	if req.Mode == Move && !req.Options.DryRun {
		pruneEmptyDirs(req.Src, events)
	}

	if cancelled && firstErr == nil {
		return fmt.Errorf("merge %s: %w", req.Src, ErrCancelled)
	}
	if failures > 1 {
		return fmt.Errorf("%w (and %d more failures)", firstErr, failures-1)
	}
	return firstErr
}

// collectFiles enumerates every regular file under root using an explicit
// work-list (no recursion, so pathologically deep trees cannot blow the
// stack) and returns entries sorted by relative path.
func collectFiles(root string) ([]fileEntry, int64, error) {
	var files []fileEntry
	var total int64

	pending := []string{root}
	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, 0, fmt.Errorf("readdir %s: %w", dir, err)
		}
		for _, e := range entries {
			path := filepath.Join(dir, e.Name())
			switch {
			case e.IsDir():
				pending = append(pending, path)
			case e.Type().IsRegular():
				info, err := e.Info()
				if err != nil {
					return nil, 0, fmt.Errorf("stat %s: %w", path, err)
				}
				rel, err := filepath.Rel(root, path)
				if err != nil {
					return nil, 0, fmt.Errorf("rel path for %s: %w", path, err)
				}
				files = append(files, fileEntry{rel: rel, size: info.Size()})
				total += info.Size()
			default:
				slog.Debug("skipping non-regular entry", "path", path)
			}
		}
	}

	sort.Slice(files, func(i, j int) bool { return files[i].rel < files[j].rel })
	return files, total, nil
}

// pruneEmptyDirs removes now-empty directories under root, root included,
// children before parents. Directories that still hold files (conflicts the
// force policy skipped, unfinished work after an interrupt) stay in place.
// Any other removal failure is a warning, never an error: the data has
// already been relocated.
func pruneEmptyDirs(root string, events chan<- event.Event) {
	var dirs []string

	pending := []string{root}
	for len(pending) > 0 {
		dir := pending[len(pending)-1]
		pending = pending[:len(pending)-1]
		dirs = append(dirs, dir)

		entries, err := os.ReadDir(dir)
		if err != nil {
			slog.Warn("cleanup: cannot read directory", "path", dir, "error", err)
			continue
		}
		for _, e := range entries {
			if e.IsDir() {
				pending = append(pending, filepath.Join(dir, e.Name()))
			}
		}
	}

	// Reverse-lexicographic order puts children before their parents.
	sort.Sort(sort.Reverse(sort.StringSlice(dirs)))

	for _, dir := range dirs {
		switch err := os.Remove(dir); {
		case err == nil:
			slog.Debug("removed empty directory", "path", dir)
			event.Emit(events, event.Event{Type: event.DirPruned, Path: dir})
		case isNotEmpty(err):
			// Expected when conflicts left files behind.
		default:
			slog.Warn("cleanup: cannot remove directory", "path", dir, "error", err)
			event.Emit(events, event.Event{Type: event.CleanupWarning, Path: dir, Err: err})
		}
	}
}

func isNotEmpty(err error) bool {
	return errors.Is(err, syscall.ENOTEMPTY) || errors.Is(err, syscall.EEXIST)
}
