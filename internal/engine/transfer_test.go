package engine

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mvx/internal/event"
)

func TestTransferFile_MoveSameDevice(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "move me")
	dstDir := filepath.Join(dir, "b")
	require.NoError(t, os.MkdirAll(dstDir, 0o755))

	tok, tracker := newHarness()
	events, drain := collectEvents(t)

	req := Request{Src: src, Dst: dstDir, Mode: Move}
	require.NoError(t, TransferFile(req, tok, tracker, events))

	dst := filepath.Join(dstDir, "a.txt")
	assert.Equal(t, "move me", readFile(t, dst))
	assert.False(t, exists(src), "source must be gone after a move")

	snap := tracker.Snapshot()
	assert.Equal(t, int64(1), snap.FilesDone)
	assert.Equal(t, snap.BytesTotal, snap.BytesDone)

	var completed *event.Event
	for _, ev := range drain() {
		if ev.Type == event.FileCompleted {
			completed = &ev
			break
		}
	}
	require.NotNil(t, completed)
	// Same-device move must take the rename fast path.
	assert.Equal(t, event.ActionRename, completed.Action)
}

func TestTransferFile_CopyKeepsSource(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "copy me")
	dst := filepath.Join(dir, "b.txt")

	tok, tracker := newHarness()
	req := Request{Src: src, Dst: dst, Mode: Copy}
	require.NoError(t, TransferFile(req, tok, tracker, nil))

	assert.Equal(t, "copy me", readFile(t, dst))
	assert.Equal(t, "copy me", readFile(t, src))
}

func TestTransferFile_CreatesIntermediateDirs(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "deep")
	dst := filepath.Join(dir, "b", "c", "d", "a.txt")

	tok, tracker := newHarness()
	req := Request{Src: src, Dst: dst, Mode: Copy}
	require.NoError(t, TransferFile(req, tok, tracker, nil))

	assert.Equal(t, "deep", readFile(t, dst))
}

func TestTransferFile_ConflictWithoutForce(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "new content")
	dst := writeFile(t, dir, "b.txt", "old content")

	tok, tracker := newHarness()
	req := Request{Src: src, Dst: dst, Mode: Copy}
	err := TransferFile(req, tok, tracker, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDestinationExists)
	assert.Equal(t, "old content", readFile(t, dst), "conflict must not touch the destination")
	assert.Equal(t, "new content", readFile(t, src))
}

func TestTransferFile_ForceOverwrites(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "new content")
	dst := writeFile(t, dir, "b.txt", "old content")

	tok, tracker := newHarness()
	req := Request{Src: src, Dst: dst, Mode: Copy, Options: Options{Force: true}}
	require.NoError(t, TransferFile(req, tok, tracker, nil))

	assert.Equal(t, "new content", readFile(t, dst))
}

func TestTransferFile_ForceIdempotent(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "same either way")
	dst := filepath.Join(dir, "b.txt")

	tok, tracker := newHarness()
	req := Request{Src: src, Dst: dst, Mode: Copy, Options: Options{Force: true}}
	require.NoError(t, TransferFile(req, tok, tracker, nil))
	require.NoError(t, TransferFile(req, tok, tracker, nil))

	assert.Equal(t, "same either way", readFile(t, dst))
	assert.Equal(t, "same either way", readFile(t, src))
}

func TestTransferFile_DryRunIsNoop(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "untouched")
	dst := filepath.Join(dir, "sub", "b.txt")

	tok, tracker := newHarness()
	events, drain := collectEvents(t)

	req := Request{Src: src, Dst: dst, Mode: Move, Options: Options{DryRun: true}}
	require.NoError(t, TransferFile(req, tok, tracker, events))

	assert.True(t, exists(src))
	assert.False(t, exists(dst))
	assert.False(t, exists(filepath.Join(dir, "sub")), "dry-run must not create directories")

	var planned int
	for _, ev := range drain() {
		if ev.Type == event.FilePlanned {
			planned++
		}
	}
	assert.Equal(t, 1, planned)
}

func TestTransferFile_MissingSource(t *testing.T) {
	dir := t.TempDir()
	tok, tracker := newHarness()
	req := Request{Src: filepath.Join(dir, "missing.txt"), Dst: dir, Mode: Copy}
	err := TransferFile(req, tok, tracker, nil)
	assert.Error(t, err)
}

func TestTransferFile_VerifyPasses(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "verified content")
	dst := filepath.Join(dir, "b.txt")

	tok, tracker := newHarness()
	req := Request{Src: src, Dst: dst, Mode: Copy, Options: Options{Verify: true}}
	require.NoError(t, TransferFile(req, tok, tracker, nil))
	assert.Equal(t, "verified content", readFile(t, dst))
}

func TestStreamCopy_ByteIdentical(t *testing.T) {
	dir := t.TempDir()
	// Bigger than one chunk so the loop runs more than once.
	content := make([]byte, 3*1024+17)
	for i := range content {
		content[i] = byte(i % 251)
	}
	src := filepath.Join(dir, "src.bin")
	require.NoError(t, os.WriteFile(src, content, 0o644))
	dst := filepath.Join(dir, "dst.bin")

	tok, tracker := newHarness()
	unit := FileUnit{Src: src, Dst: dst, Size: int64(len(content))}
	opts := Options{ChunkSize: 1024}
	require.NoError(t, streamCopy(unit, opts, tok, tracker, nil))

	got, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, content, got)
	assert.Equal(t, int64(len(content)), tracker.Snapshot().BytesDone)
}

func TestStreamCopy_EmitsProgressPerChunk(t *testing.T) {
	dir := t.TempDir()
	content := make([]byte, 4096)
	src := filepath.Join(dir, "src.bin")
	require.NoError(t, os.WriteFile(src, content, 0o644))

	tok, tracker := newHarness()
	events, drain := collectEvents(t)

	unit := FileUnit{Src: src, Dst: filepath.Join(dir, "dst.bin"), Size: 4096}
	require.NoError(t, streamCopy(unit, Options{ChunkSize: 1024}, tok, tracker, events))

	var progress []event.Event
	for _, ev := range drain() {
		if ev.Type == event.FileProgress {
			progress = append(progress, ev)
		}
	}
	require.Len(t, progress, 4)
	last := progress[len(progress)-1]
	assert.Equal(t, int64(4096), last.Bytes)
	assert.Equal(t, int64(4096), last.Total)
}

func TestStreamCopy_ForcedCancellation(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.txt", "never copied")
	dst := filepath.Join(dir, "dst.txt")

	tok, tracker := newHarness()
	tok.Signal()
	tok.Signal() // forced

	unit := FileUnit{Src: src, Dst: dst, Size: int64(len("never copied"))}
	err := streamCopy(unit, Options{}, tok, tracker, nil)

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestRunStrategy_RequestedFinishesInFlightFile(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "src.txt", "finish me")
	dst := filepath.Join(dir, "dst.txt")

	tok, tracker := newHarness()
	tok.Signal() // requested, not forced

	// Streaming only aborts on Forced; a Requested interrupt lets the
	// in-flight file complete.
	unit := FileUnit{Src: src, Dst: dst, Size: int64(len("finish me"))}
	require.NoError(t, streamCopy(unit, Options{}, tok, tracker, nil))
	assert.Equal(t, "finish me", readFile(t, dst))
}

func TestTransferUnit_FailureEmitsEvent(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "x")
	dst := writeFile(t, dir, "b.txt", "y")

	tok, tracker := newHarness()
	events, drain := collectEvents(t)

	unit := FileUnit{Src: src, Dst: dst, Size: 1}
	err := transferUnit(unit, Copy, Options{}, tok, tracker, events)
	require.Error(t, err)

	var failed int
	for _, ev := range drain() {
		if ev.Type == event.FileFailed {
			failed++
			assert.ErrorIs(t, ev.Err, ErrDestinationExists)
		}
	}
	assert.Equal(t, 1, failed)
	assert.Equal(t, int64(1), tracker.Snapshot().FilesFailed)
}

func TestPlannedAction(t *testing.T) {
	assert.Equal(t, event.ActionRename, plannedAction(Move, false))
	assert.Equal(t, event.ActionCopy, plannedAction(Copy, false))
	assert.Equal(t, event.ActionOverwrite, plannedAction(Move, true))
}

func TestTransferFile_ErrorsAreWrapped(t *testing.T) {
	dir := t.TempDir()
	src := writeFile(t, dir, "a.txt", "x")
	dst := writeFile(t, dir, "b.txt", "y")

	tok, tracker := newHarness()
	req := Request{Src: src, Dst: dst, Mode: Move}
	err := TransferFile(req, tok, tracker, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDestinationExists))
	assert.Contains(t, err.Error(), dst)
}
