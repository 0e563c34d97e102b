package storage

import (
	"fmt"

	"github.com/nerrad567/pidstore/internal/params"
)

// StrategyName selects how the region is organised.
type StrategyName string

// Region strategies.
const (
	// StrategyDocument keeps one JSON document at offset 0, followed by a
	// NUL terminator. Individual items are fields of that document.
	StrategyDocument StrategyName = "document"

	// StrategyRaw keeps every item at its fixed layout offset.
	StrategyRaw StrategyName = "raw"
)

// ParseStrategy converts a configuration string to a StrategyName.
func ParseStrategy(s string) (StrategyName, error) {
	switch StrategyName(s) {
	case StrategyDocument, "":
		return StrategyDocument, nil
	case StrategyRaw:
		return StrategyRaw, nil
	default:
		return "", fmt.Errorf("unknown storage strategy %q", s)
	}
}

// strategy is one region organisation behind the accessor contract.
//
// Both strategies exchange item values as layout-encoded bytes so the
// accessor layer and its default fallback are shared.
type strategy interface {
	name() StrategyName

	// validate reports whether the region holds a configuration in this
	// strategy's form.
	validate() bool

	// readItem returns the stored bytes of e. written is false when the
	// item has never been stored, in which case raw is undefined.
	readItem(e Entry) (raw []byte, written bool, err error)

	// writeItem stores raw into the shadow without committing.
	writeItem(e Entry, raw []byte) error

	// load decodes a valid region into a snapshot, starting from defaults.
	// skipped names stored fields that could not be decoded and kept
	// their default.
	load() (snapshot *params.Snapshot, skipped []string, err error)

	// save writes the whole snapshot into the shadow without committing.
	save(s *params.Snapshot) error
}
