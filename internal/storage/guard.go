package storage

import "sync/atomic"

// WriteGuard signals that a medium write is in progress.
//
// Time-critical work that must not overlap a flash write (the heater
// output tick) polls Active and skips its cycle while the guard is held.
// The guard is released on every exit path of Do, including panics.
//
// Thread Safety: all methods are safe for concurrent use.
type WriteGuard struct {
	active atomic.Bool
	held   atomic.Uint64
}

// Do runs fn with the guard held.
func (g *WriteGuard) Do(fn func() error) error {
	g.active.Store(true)
	g.held.Add(1)
	defer g.active.Store(false)
	return fn()
}

// Active reports whether a guarded write is in progress.
func (g *WriteGuard) Active() bool {
	return g.active.Load()
}

// Count returns how many guarded writes have run.
func (g *WriteGuard) Count() uint64 {
	return g.held.Load()
}
