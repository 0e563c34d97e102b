package storage

import (
	"context"
	"fmt"

	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
)

// Setup opens the medium and makes sure it holds a usable configuration.
//
// When the region is not valid for the active strategy, Setup either
// migrates a region that still holds the binary layout (document strategy
// with MigrateLegacy) or erases the region and seeds the factory defaults.
//
// Parameters:
//   - ctx: Checked before the medium is opened; the setup itself is not
//     interruptible.
//
// Returns:
//   - bool: true if the region holds a durable, valid configuration
//     afterwards
//   - error: ErrMediumInit if the medium cannot be opened, or
//     ErrCommitFailed if the erase before seeding was not committed (the
//     store is then in StateFailed), or the seeding error
func (s *Store) Setup(ctx context.Context) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	s.mu.Lock()
	valid, changes, err := s.setupLocked()
	s.mu.Unlock()

	s.notify(changes...)
	return valid, err
}

func (s *Store) setupLocked() (bool, []Change, error) {
	if err := s.medium.Open(s.capacity); err != nil {
		s.state = StateFailed
		s.logger.Error("storage medium initialisation failed", "capacity", s.capacity, "error", err)
		return false, nil, fmt.Errorf("%w: %w", ErrMediumInit, err)
	}

	s.state = StateValidating
	if s.strategy.validate() {
		s.state = StateReady
		s.logger.Info("storage ready", "strategy", s.strategy.name(), "capacity", s.capacity)
		return true, nil, nil
	}

	s.logger.Warn("region holds no valid configuration", "strategy", s.strategy.name())

	if s.migrate && s.legacy != nil && s.legacy.validate() {
		return s.migrateLocked()
	}

	s.state = StateResetting
	if err := s.factoryResetLocked(); err != nil {
		s.state = StateFailed
		s.logger.Error("factory reset during setup failed", "error", err)
		return false, nil, fmt.Errorf("factory reset during setup: %w", err)
	}

	s.state = StateSeeding
	s.logger.Info("seeding factory defaults")
	err := s.saveLocked(params.Defaults())
	s.state = StateReady

	changes := []Change{{Kind: ChangeReset, Committed: true, Source: "setup"}}
	if err != nil {
		return false, changes, err
	}
	changes = append(changes, Change{Kind: ChangeSnapshot, Committed: true, Source: "setup"})
	return s.strategy.validate(), changes, nil
}

// migrateLocked converts a binary layout region into a document.
func (s *Store) migrateLocked() (bool, []Change, error) {
	s.logger.Info("migrating binary layout to document", "layout_version", LayoutVersion)

	snapshot, _, err := s.legacy.load()
	if err != nil {
		s.logger.Warn("legacy layout unreadable, seeding defaults", "error", err)
		snapshot = params.Defaults()
	}

	s.state = StateSeeding
	if err := nvs.Erase(s.medium); err != nil {
		s.state = StateFailed
		return false, nil, fmt.Errorf("erasing region: %w", err)
	}
	err = s.saveLocked(snapshot)
	s.state = StateReady

	changes := []Change{{Kind: ChangeSnapshot, Committed: err == nil, Source: "migration"}}
	return err == nil && s.strategy.validate(), changes, err
}

// FactoryReset erases the whole region and commits it. Every item reads its
// default afterwards. The region is not valid until defaults are saved.
func (s *Store) FactoryReset(opts ...SetOption) error {
	o := applyOptions(opts)

	s.mu.Lock()
	err := s.ready()
	if err == nil {
		err = s.factoryResetLocked()
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(Change{Kind: ChangeReset, Committed: true, Source: o.source})
	return nil
}

func (s *Store) factoryResetLocked() error {
	s.logger.Info("resetting all values")
	if err := nvs.Erase(s.medium); err != nil {
		return fmt.Errorf("erasing region: %w", err)
	}
	return s.commitLocked()
}

// SetDefaults saves the factory defaults as the whole configuration.
func (s *Store) SetDefaults(opts ...SetOption) error {
	return s.SaveConfig(params.Defaults(), opts...)
}

// Commit makes the shadow durable. The write guard is held for the
// duration of the medium write. A failed commit is not retried.
func (s *Store) Commit(opts ...SetOption) error {
	o := applyOptions(opts)

	s.mu.Lock()
	err := s.ready()
	if err == nil {
		err = s.commitLocked()
	}
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(Change{Kind: ChangeCommit, Committed: true, Source: o.source})
	return nil
}

func (s *Store) commitLocked() error {
	s.logger.Debug("saving all data to medium")

	err := s.guard.Do(s.medium.Commit)
	if err != nil {
		s.logger.Error("commit failed", "error", err)
		return fmt.Errorf("%w: %w", ErrCommitFailed, err)
	}
	return nil
}
