//go:build unix

package platform

import (
	"errors"
	"syscall"

	"golang.org/x/sys/unix"
)

// SameDevice reports whether both paths reside on the same device. Both
// paths must exist; for a destination that does not exist yet, pass its
// parent directory.
func SameDevice(a, b string) (bool, error) {
	var sa, sb unix.Stat_t
	if err := unix.Stat(a, &sa); err != nil {
		return false, err
	}
	if err := unix.Stat(b, &sb); err != nil {
		return false, err
	}
	return uint64(sa.Dev) == uint64(sb.Dev), nil
}

// IsCrossDevice reports whether err is EXDEV, the expected rename failure
// when source and destination straddle a device boundary.
func IsCrossDevice(err error) bool {
	return errors.Is(err, syscall.EXDEV)
}

// isUnsupportedErrno classifies errnos that mean "this filesystem cannot do
// that", triggering fallback to the next strategy.
func isUnsupportedErrno(err error) bool {
	for _, errno := range []syscall.Errno{
		unix.ENOSYS, unix.ENOTSUP, unix.EOPNOTSUPP, unix.EXDEV, unix.EINVAL,
	} {
		if errors.Is(err, errno) {
			return true
		}
	}
	return false
}
