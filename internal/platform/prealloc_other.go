//go:build !linux

package platform

import "os"

// Preallocate is a no-op on platforms without fallocate.
func Preallocate(fd *os.File, size int64) {}
