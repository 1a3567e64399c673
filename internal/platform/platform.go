// Package platform wraps the OS-specific fast paths: the same-device probe
// that gates atomic renames, copy-on-write cloning, and preallocation for
// streaming copies. Every fast path is best-effort; callers fall back to a
// buffered copy when ErrUnsupported is returned.
package platform

import "errors"

// ErrUnsupported reports that a fast path is unavailable for this
// source/destination pair (different filesystems, non-CoW filesystem, or an
// OS without the syscall). It is an expected negative result, never surfaced
// to the user.
var ErrUnsupported = errors.New("fast path not supported")
