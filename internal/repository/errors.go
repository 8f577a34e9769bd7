package repository

import "errors"

// Common repository errors
var (
	// ErrSnapshotNotFound is returned when nothing was stored under the key
	ErrSnapshotNotFound = errors.New("snapshot not found")

	// ErrCorruptSnapshot is returned when the stored payload cannot be decoded
	ErrCorruptSnapshot = errors.New("corrupt snapshot")
)
