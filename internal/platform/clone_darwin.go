//go:build darwin

package platform

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Clone creates dst as a copy-on-write clone of src via clonefile(2), which
// requires that dst not exist. Returns ErrUnsupported when the filesystem
// cannot clone.
func Clone(src, dst string, perm os.FileMode) error {
	err := unix.Clonefile(src, dst, 0)
	if err == nil {
		return nil
	}
	if isUnsupportedErrno(err) || errors.Is(err, unix.EEXIST) {
		return ErrUnsupported
	}
	return fmt.Errorf("clonefile %s -> %s: %w", src, dst, err)
}
