package domain

import "go.trai.ch/zerr"

var (
	// ErrNotARepository is returned when the scanned root is not inside a git
	// working tree, or git itself is unusable at that root.
	ErrNotARepository = zerr.New("not a git repository (or git is unavailable)")

	// ErrScanSpawnFailed is returned when the git process could not be launched.
	ErrScanSpawnFailed = zerr.New("failed to start git process")

	// ErrScanCancelled is returned when a scan is aborted by its caller.
	// This is an expected outcome, not an application failure.
	ErrScanCancelled = zerr.New("scan cancelled")

	// ErrInvalidMaxItems is returned when a scan is requested with a
	// non-positive item cap.
	ErrInvalidMaxItems = zerr.New("max items must be positive")

	// ErrRootNotFound is returned when a requested workspace root does not
	// exist or is not a directory.
	ErrRootNotFound = zerr.New("workspace root is not a directory")

	// ErrConfigReadFailed is returned when the config file cannot be read.
	ErrConfigReadFailed = zerr.New("failed to read config file")

	// ErrConfigParseFailed is returned when the config file cannot be parsed.
	ErrConfigParseFailed = zerr.New("failed to parse config file")

	// ErrDeleteOutsideRoot is returned when a clean operation encounters an
	// entry that would resolve outside the workspace root.
	ErrDeleteOutsideRoot = zerr.New("refusing to delete entry outside the workspace root")

	// ErrDeleteFailed is returned when one or more ignored entries could not
	// be removed during a clean operation.
	ErrDeleteFailed = zerr.New("failed to delete ignored entries")
)
