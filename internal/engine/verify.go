package engine

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/zeebo/blake3"
)

// HashFile computes the BLAKE3 hash of the file at path, returning the
// hex-encoded digest.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, f, buf); err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// verifyUnit compares source and destination digests after a copy. For
// moves it runs before the source is deleted, so a mismatch keeps the
// original intact.
func verifyUnit(unit FileUnit) error {
	srcHash, err := HashFile(unit.Src)
	if err != nil {
		return err
	}
	dstHash, err := HashFile(unit.Dst)
	if err != nil {
		return err
	}
	if srcHash != dstHash {
		return fmt.Errorf("%s: %w", unit.Dst, ErrVerifyMismatch)
	}
	return nil
}
