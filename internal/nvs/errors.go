package nvs

import "errors"

// Sentinel errors for medium operations.
// Use errors.Is() to check for these errors in calling code.
var (
	// ErrNotOpen is returned when reading or writing before Open succeeded.
	ErrNotOpen = errors.New("nvs: medium not open")

	// ErrInvalidCapacity is returned when Open is called with a capacity the
	// device cannot provide.
	ErrInvalidCapacity = errors.New("nvs: invalid capacity")

	// ErrOutOfRange is returned when an access falls outside the region.
	ErrOutOfRange = errors.New("nvs: address out of range")

	// ErrCommitFailed is returned when the shadow could not be made durable.
	ErrCommitFailed = errors.New("nvs: commit failed")
)
