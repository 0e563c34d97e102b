package storage

import (
	"fmt"
	"sync"

	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
)

// State is the lifecycle state of a Store.
type State string

// Lifecycle states.
const (
	StateUninitialized State = "uninitialized"
	StateValidating    State = "validating"
	StateResetting     State = "resetting"
	StateSeeding       State = "seeding"
	StateReady         State = "ready"
	StateFailed        State = "failed"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// ChangeKind describes what a Change notification covers.
type ChangeKind string

// Change kinds.
const (
	ChangeItem     ChangeKind = "item"
	ChangeSnapshot ChangeKind = "snapshot"
	ChangeCommit   ChangeKind = "commit"
	ChangeReset    ChangeKind = "factory_reset"
)

// Change is delivered to listeners after a successful mutation.
type Change struct {
	Kind ChangeKind

	// Item and Field identify the item for ChangeItem.
	Item  params.ItemID
	Field string

	// Value is the stored native value for ChangeItem.
	Value any

	// Committed is true when the change is durable.
	Committed bool

	// Source names the caller, for example "api" or "mqtt".
	Source string
}

// Options configures a Store.
type Options struct {
	// Medium is the persistence medium. Required.
	Medium nvs.Medium

	// Capacity is the region size passed to Medium.Open.
	// Zero means nvs.DefaultCapacity.
	Capacity int

	// Strategy selects the region organisation. Empty means document.
	Strategy StrategyName

	// MigrateLegacy lets Setup convert a region that still holds the
	// binary layout into a document. Only used by the document strategy.
	MigrateLegacy bool
}

// Store is the persistent configuration of the controller.
//
// It owns the medium and the active region strategy. Item accessors work on
// the medium's RAM shadow; Commit (or WithCommit) makes changes durable.
//
// Thread Safety: all public methods are safe for concurrent use. One mutex
// serialises every operation, so an item write never interleaves with a
// document save or a commit.
type Store struct {
	mu       sync.Mutex
	medium   nvs.Medium
	capacity int
	layout   *Layout
	strategy strategy
	legacy   *rawStrategy
	migrate  bool
	state    State
	guard    WriteGuard
	logger   Logger

	listenersMu sync.RWMutex
	listeners   []func(Change)
}

// New creates a store. Call Setup before any other operation.
func New(opts Options) (*Store, error) {
	if opts.Medium == nil {
		return nil, fmt.Errorf("%w: no medium configured", ErrMediumInit)
	}
	if opts.Capacity == 0 {
		opts.Capacity = nvs.DefaultCapacity
	}

	s := &Store{
		medium:   opts.Medium,
		capacity: opts.Capacity,
		layout:   DefaultLayout(),
		migrate:  opts.MigrateLegacy,
		state:    StateUninitialized,
		logger:   noopLogger{},
	}

	switch opts.Strategy {
	case StrategyDocument, "":
		s.strategy = newDocumentStrategy(opts.Medium)
		s.legacy = newRawStrategy(opts.Medium, s.layout)
	case StrategyRaw:
		if opts.Capacity < s.layout.Size() {
			return nil, fmt.Errorf("%w: capacity %d below layout size %d", ErrMediumInit, opts.Capacity, s.layout.Size())
		}
		s.strategy = newRawStrategy(opts.Medium, s.layout)
	default:
		return nil, fmt.Errorf("unknown storage strategy %q", opts.Strategy)
	}

	return s, nil
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logger = logger
}

// OnChange registers fn to be called after every successful mutation.
// Listeners run synchronously on the mutating goroutine, after the store
// lock is released, and may call back into the store.
func (s *Store) OnChange(fn func(Change)) {
	s.listenersMu.Lock()
	defer s.listenersMu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify(changes ...Change) {
	s.listenersMu.RLock()
	listeners := make([]func(Change), len(s.listeners))
	copy(listeners, s.listeners)
	s.listenersMu.RUnlock()

	for _, c := range changes {
		for _, fn := range listeners {
			fn(c)
		}
	}
}

// State returns the lifecycle state.
func (s *Store) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Strategy returns the active region strategy.
func (s *Store) Strategy() StrategyName {
	return s.strategy.name()
}

// Layout returns the binary layout used for item addressing and defaults.
func (s *Store) Layout() *Layout {
	return s.layout
}

// Guard returns the write guard held during every commit.
func (s *Store) Guard() *WriteGuard {
	return &s.guard
}

// Capacity returns the configured region size.
func (s *Store) Capacity() int {
	return s.capacity
}

// Close closes the medium. The store cannot be used afterwards.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = StateUninitialized
	return s.medium.Close()
}

// ready reports whether item and document operations may run.
// Callers must hold s.mu.
func (s *Store) ready() error {
	if s.state != StateReady {
		return fmt.Errorf("%w: state %s", ErrNotReady, s.state)
	}
	return nil
}
