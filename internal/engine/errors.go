package engine

import "errors"

var (
	// ErrSourceNotFound is returned when a source path does not exist at
	// validation time.
	ErrSourceNotFound = errors.New("source does not exist")

	// ErrDestinationExists is returned for a conflicting destination when
	// --force is not set. The filesystem is left untouched.
	ErrDestinationExists = errors.New("destination already exists (use --force to overwrite)")

	// ErrCancelled is the distinguished outcome of an interrupted transfer.
	// It is not a generic failure; it maps to exit code 130.
	ErrCancelled = errors.New("interrupted")

	// ErrVerifyMismatch is returned when --verify finds a digest mismatch
	// between source and destination.
	ErrVerifyMismatch = errors.New("content verification failed")
)
