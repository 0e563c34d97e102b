package storage

import (
	"fmt"

	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
)

// Validate reports whether the region holds a configuration in the form of
// the active strategy. For the document strategy the first byte must open
// a JSON object and the object must decode.
func (s *Store) Validate() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateUninitialized || s.state == StateFailed {
		return false
	}
	return s.strategy.validate()
}

// LoadConfig returns the whole configuration.
//
// Fields are matched by name, so their order in the region is irrelevant.
// Unknown fields are ignored and missing fields keep their defaults. If the
// region holds no valid configuration the defaults are seeded (as Setup
// does) and returned.
func (s *Store) LoadConfig() (*params.Snapshot, error) {
	s.mu.Lock()
	snapshot, changes, err := s.loadLocked()
	s.mu.Unlock()

	s.notify(changes...)
	return snapshot, err
}

func (s *Store) loadLocked() (*params.Snapshot, []Change, error) {
	if err := s.ready(); err != nil {
		return nil, nil, err
	}

	if s.strategy.validate() {
		snapshot, skipped, err := s.strategy.load()
		if err != nil {
			return nil, nil, err
		}
		for _, field := range skipped {
			s.logger.Warn("stored field unreadable, using default", "field", field)
		}
		return snapshot, nil, nil
	}

	s.logger.Warn("no valid configuration in region, seeding defaults")
	defaults := params.Defaults()
	if err := s.factoryResetLocked(); err != nil {
		return nil, nil, err
	}
	if err := s.saveLocked(defaults); err != nil {
		return nil, nil, err
	}
	changes := []Change{
		{Kind: ChangeReset, Committed: true, Source: "load"},
		{Kind: ChangeSnapshot, Committed: true, Source: "load"},
	}
	return defaults, changes, nil
}

// SaveConfig replaces the whole configuration with snapshot and commits it.
//
// The snapshot is checked and serialized before anything is written. A
// text field that does not fit its item, a non-finite float, a numeric
// field encoding to all 0xFF bytes and a document larger than the region
// all leave the region untouched.
func (s *Store) SaveConfig(snapshot *params.Snapshot, opts ...SetOption) error {
	o := applyOptions(opts)

	s.mu.Lock()
	err := s.ready()
	if err == nil {
		err = s.saveLocked(snapshot)
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(Change{Kind: ChangeSnapshot, Committed: true, Source: o.source})
	return nil
}

// UpdateConfig loads the configuration, lets fn change it and saves the
// result while holding the store lock, so item writes from other callers
// cannot land in between and be overwritten. Nothing is written when fn or
// the checks of SaveConfig fail. fn must not call back into the store.
func (s *Store) UpdateConfig(fn func(*params.Snapshot) error, opts ...SetOption) (*params.Snapshot, error) {
	o := applyOptions(opts)

	s.mu.Lock()
	snapshot, changes, err := s.loadLocked()
	if err == nil {
		err = fn(snapshot)
	}
	if err == nil {
		err = s.saveLocked(snapshot)
	}
	s.mu.Unlock()

	s.notify(changes...)
	if err != nil {
		return nil, err
	}
	s.notify(Change{Kind: ChangeSnapshot, Committed: true, Source: o.source})
	return snapshot, nil
}

func (s *Store) saveLocked(snapshot *params.Snapshot) error {
	if snapshot == nil {
		return fmt.Errorf("%w: nil snapshot", ErrInvalidValue)
	}
	if err := checkSnapshot(snapshot); err != nil {
		return err
	}
	if err := s.strategy.save(snapshot); err != nil {
		return err
	}
	s.logger.Debug("configuration saved", "strategy", s.strategy.name())
	return s.commitLocked()
}

// checkSnapshot verifies every field can be stored in its item. Numeric
// fields follow the same all-ones rule as Set.
func checkSnapshot(snapshot *params.Snapshot) error {
	for _, it := range params.Items() {
		if it.Reserved() {
			continue
		}
		v := snapshot.Get(it.ID)
		if !isFinite(v) {
			return fmt.Errorf("%w: %s is not finite", ErrInvalidValue, it.Field)
		}
		if text, ok := v.(string); ok {
			if len(text)+1 > it.Size {
				return fmt.Errorf("%w: %s is %d bytes, room for %d", ErrValueTooLarge, it.Field, len(text), it.Size-1)
			}
			continue
		}
		raw, err := encodeNative(it, v)
		if err != nil {
			return err
		}
		if nvs.IsBlank(raw) {
			return fmt.Errorf("%w: all-ones value is reserved for %s", ErrInvalidValue, it.Field)
		}
	}
	return nil
}
