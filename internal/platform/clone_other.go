//go:build !linux && !darwin

package platform

import "os"

// Clone is unavailable on platforms without a copy-on-write syscall.
func Clone(src, dst string, perm os.FileMode) error {
	return ErrUnsupported
}
