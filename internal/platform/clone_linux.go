//go:build linux

package platform

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Clone creates dst as a copy-on-write reflink of src (FICLONE). The
// destination must not already exist when overwriting is not intended;
// callers remove it first under force. Returns ErrUnsupported when the
// filesystem cannot reflink, leaving no destination behind.
func Clone(src, dst string, perm os.FileMode) error {
	srcFd, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer srcFd.Close()

	dstFd, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}

	if err := unix.IoctlFileClone(int(dstFd.Fd()), int(srcFd.Fd())); err != nil {
		dstFd.Close()
		_ = os.Remove(dst)
		if isUnsupportedErrno(err) {
			return ErrUnsupported
		}
		return fmt.Errorf("reflink %s -> %s: %w", src, dst, err)
	}

	if err := dstFd.Close(); err != nil {
		return fmt.Errorf("close %s: %w", dst, err)
	}
	return nil
}
