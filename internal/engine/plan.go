package engine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolveDest resolves the final destination path for a single-file
// transfer. If dst names an existing directory, or ends with a path
// separator, the source's basename is appended; otherwise dst is taken
// verbatim. Resolution only reads the filesystem; directory creation is the
// caller's job (and never happens in dry-run).
func ResolveDest(src, dst string) (string, error) {
	if info, err := os.Stat(dst); err == nil && info.IsDir() {
		dst = filepath.Join(dst, filepath.Base(src))
	} else if strings.HasSuffix(dst, string(filepath.Separator)) || strings.HasSuffix(dst, "/") {
		dst = filepath.Join(dst, filepath.Base(src))
	}
	abs, err := filepath.Abs(dst)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", dst, err)
	}
	return abs, nil
}
