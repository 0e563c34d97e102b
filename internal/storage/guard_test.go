package storage

import (
	"errors"
	"testing"
)

func TestWriteGuard_Do(t *testing.T) {
	var g WriteGuard

	var during bool
	err := g.Do(func() error {
		during = g.Active()
		return nil
	})
	if err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if !during {
		t.Error("Active() = false inside Do")
	}
	if g.Active() {
		t.Error("Active() = true after Do")
	}

	boom := errors.New("boom")
	if err := g.Do(func() error { return boom }); !errors.Is(err, boom) {
		t.Errorf("Do() error = %v, want %v", err, boom)
	}
	if g.Active() {
		t.Error("Active() = true after failed Do")
	}
	if g.Count() != 2 {
		t.Errorf("Count() = %d, want 2", g.Count())
	}
}

func TestWriteGuard_ReleasedOnPanic(t *testing.T) {
	var g WriteGuard

	func() {
		defer func() { _ = recover() }()
		_ = g.Do(func() error { panic("medium fault") })
	}()

	if g.Active() {
		t.Error("Active() = true after panic inside Do")
	}
}
