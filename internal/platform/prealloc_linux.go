//go:build linux

package platform

import (
	"os"

	"golang.org/x/sys/unix"
)

// Preallocate reserves disk space for an upcoming streaming copy. Errors are
// ignored: fallocate is not supported on all filesystems and the copy
// proceeds fine without the reservation.
func Preallocate(fd *os.File, size int64) {
	if size <= 0 {
		return
	}
	_ = unix.Fallocate(int(fd.Fd()), 0, 0, size)
}
