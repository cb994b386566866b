package tracker

import "errors"

var (
	// ErrTypeConfiguration indicates a key or state shape that cannot back a tracker.
	ErrTypeConfiguration = errors.New("invalid type configuration")

	// ErrKeyNotFound indicates no state is stored for the requested key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrPersistence indicates the tracker file could not be read, parsed or written.
	ErrPersistence = errors.New("persistence failed")
)
