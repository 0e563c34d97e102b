package storage

import "errors"

// Domain errors for the storage package.
var (
	// ErrMediumInit is returned by Setup when the medium cannot be opened.
	// It is fatal for the storage layer; callers fall back to defaults.
	ErrMediumInit = errors.New("storage: medium initialisation failed")

	// ErrInvalidItem is returned for identifiers outside the enumeration and
	// for reserved slots that hold no value.
	ErrInvalidItem = errors.New("storage: invalid item")

	// ErrTypeMismatch is returned when the requested value type does not
	// match the stored width or category of the item.
	ErrTypeMismatch = errors.New("storage: type mismatch")

	// ErrInvalidValue is returned when a value cannot be stored. A numeric
	// value whose encoding is all 0xFF bytes is reserved as the "never
	// written" marker and is rejected. Non-finite floats are rejected when
	// the document strategy is active.
	ErrInvalidValue = errors.New("storage: invalid value")

	// ErrValueTooLarge is returned when a text value plus its terminator
	// does not fit the item's storage width.
	ErrValueTooLarge = errors.New("storage: value too large")

	// ErrParse is returned when the region does not hold a decodable
	// configuration.
	ErrParse = errors.New("storage: parse failed")

	// ErrCommitFailed is returned when the medium rejects a commit. The
	// shadow keeps the uncommitted content; nothing is retried.
	ErrCommitFailed = errors.New("storage: commit failed")

	// ErrDocumentTooLarge is returned when a serialized configuration plus
	// terminator exceeds the region capacity. The region is left untouched.
	ErrDocumentTooLarge = errors.New("storage: document too large")

	// ErrNotReady is returned by accessors before Setup has completed.
	ErrNotReady = errors.New("storage: not ready")
)
