package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
)

// guardWatch records whether the write guard was held during each commit.
type guardWatch struct {
	*nvs.Memory
	guard  *WriteGuard
	active []bool
}

func (p *guardWatch) Commit() error {
	if p.guard != nil {
		p.active = append(p.active, p.guard.Active())
	}
	return p.Memory.Commit()
}

// failingCommit fails the commit numbered failAt, counting from 1.
type failingCommit struct {
	*nvs.Memory
	failAt int
	n      int
}

func (f *failingCommit) Commit() error {
	f.n++
	if f.n == f.failAt {
		return errors.New("program cycle failed")
	}
	return f.Memory.Commit()
}

func TestSetup_CommitFailure(t *testing.T) {
	tests := []struct {
		name      string
		failAt    int
		wantState State
	}{
		{"erase", 1, StateFailed},
		{"seed", 2, StateReady},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			medium := &failingCommit{Memory: nvs.NewMemory(), failAt: tt.failAt}
			s, err := New(Options{Medium: medium})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}

			valid, err := s.Setup(context.Background())
			if valid || !errors.Is(err, ErrCommitFailed) {
				t.Errorf("Setup() = %v, %v; want false, ErrCommitFailed", valid, err)
			}
			if s.State() != tt.wantState {
				t.Errorf("State() = %s, want %s", s.State(), tt.wantState)
			}
			if durable := medium.Durable(); len(durable) > 0 && durable[0] == '{' {
				t.Error("failed setup left a durable document")
			}
		})
	}
}

func TestSetup_PowerCycle(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			mem := nvs.NewMemory()

			s, err := New(Options{Medium: mem, Strategy: strategy})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			ok, err := s.Setup(context.Background())
			if err != nil || !ok {
				t.Fatalf("Setup() on erased medium = %v, %v", ok, err)
			}
			if !s.Validate() {
				t.Fatal("Validate() = false after Setup")
			}

			on, err := Get[bool](s, params.PidOn)
			if err != nil || on {
				t.Fatalf("Get(PidOn) = %v, %v; want false", on, err)
			}
			if err := Set(s, params.PidOn, true, WithCommit()); err != nil {
				t.Fatalf("Set(PidOn) error = %v", err)
			}
			// Not committed, lost on power cycle
			if err := Set(s, params.BrewSetpoint, 90.0); err != nil {
				t.Fatalf("Set(BrewSetpoint) error = %v", err)
			}
			if err := s.Close(); err != nil {
				t.Fatalf("Close() error = %v", err)
			}

			if err := mem.PowerCycle(); err != nil {
				t.Fatalf("PowerCycle() error = %v", err)
			}
			again, err := New(Options{Medium: mem, Strategy: strategy})
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if ok, err := again.Setup(context.Background()); err != nil || !ok {
				t.Fatalf("second Setup() = %v, %v", ok, err)
			}

			if on, _ := Get[bool](again, params.PidOn); !on {
				t.Error("PidOn = false after power cycle, want true")
			}
			if v, _ := Get[float64](again, params.BrewSetpoint); v != params.DefaultBrewSetpoint {
				t.Errorf("BrewSetpoint = %v after power cycle, want %v", v, params.DefaultBrewSetpoint)
			}
		})
	}
}

func TestSetup_ValidRegionKept(t *testing.T) {
	mem := nvs.NewMemoryFrom([]byte(`{"brewSetpoint":89.5}`))
	s, err := New(Options{Medium: mem})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ok, err := s.Setup(context.Background()); err != nil || !ok {
		t.Fatalf("Setup() = %v, %v", ok, err)
	}
	if mem.Commits() != 0 {
		t.Errorf("Setup() committed %d times on a valid region", mem.Commits())
	}
	if v, _ := Get[float64](s, params.BrewSetpoint); v != 89.5 {
		t.Errorf("BrewSetpoint = %v, want 89.5", v)
	}
}

func TestSetup_OpenFailure(t *testing.T) {
	mem := nvs.NewMemory()
	mem.FailOpen(errors.New("no flash"))

	s, err := New(Options{Medium: mem})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ok, err := s.Setup(context.Background())
	if ok || !errors.Is(err, ErrMediumInit) {
		t.Fatalf("Setup() = %v, %v; want false, ErrMediumInit", ok, err)
	}
	if s.State() != StateFailed {
		t.Errorf("State() = %s, want %s", s.State(), StateFailed)
	}
	if _, err := Get[bool](s, params.PidOn); !errors.Is(err, ErrNotReady) {
		t.Errorf("Get() after failed Setup error = %v, want ErrNotReady", err)
	}
}

func TestSetup_CanceledContext(t *testing.T) {
	mem := nvs.NewMemory()
	s, err := New(Options{Medium: mem})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Setup(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Setup() error = %v, want context.Canceled", err)
	}
	if mem.Opens() != 0 {
		t.Error("medium opened despite canceled context")
	}
}

func TestSetup_RawWritesHeader(t *testing.T) {
	s, mem := newTestStore(t, StrategyRaw)

	durable := mem.Durable()
	if len(durable) < s.Layout().Size() {
		t.Fatalf("durable image is %d bytes, want at least %d", len(durable), s.Layout().Size())
	}
	want := DefaultTable()
	for i := range want {
		if durable[i] != want[i] {
			t.Fatalf("durable[%d] = %#x, want %#x", i, durable[i], want[i])
		}
	}
}

func TestSetup_DocumentTooSmall(t *testing.T) {
	mem := nvs.NewMemory()
	s, err := New(Options{Medium: mem, Capacity: 64})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ok, err := s.Setup(context.Background())
	if ok || !errors.Is(err, ErrDocumentTooLarge) {
		t.Fatalf("Setup() = %v, %v; want false, ErrDocumentTooLarge", ok, err)
	}

	// Items still read their defaults
	if v, err := Get[float64](s, params.SteamSetpoint); err != nil || v != params.DefaultSteamSetpoint {
		t.Errorf("Get(SteamSetpoint) = %v, %v", v, err)
	}
}

func TestFactoryReset(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s, mem := newTestStore(t, strategy)
			if err := s.SaveConfig(customSnapshot()); err != nil {
				t.Fatalf("SaveConfig() error = %v", err)
			}

			if err := s.FactoryReset(); err != nil {
				t.Fatalf("FactoryReset() error = %v", err)
			}
			if !nvs.IsBlank(mem.Durable()) {
				t.Error("durable region not blank after FactoryReset")
			}
			if s.Validate() {
				t.Error("Validate() = true after FactoryReset")
			}

			if v, _ := Get[float64](s, params.BrewSetpoint); v != params.DefaultBrewSetpoint {
				t.Errorf("BrewSetpoint = %v, want default", v)
			}
			if v, _ := Get[string](s, params.WifiSSID); v != "" {
				t.Errorf("WifiSSID = %q, want empty", v)
			}
		})
	}
}

func TestCommit_Failure(t *testing.T) {
	s, mem := newTestStore(t, StrategyDocument)
	mem.FailCommits(errors.New("flash worn out"))

	if err := Set(s, params.BrewSetpoint, 92.0, WithCommit()); !errors.Is(err, ErrCommitFailed) {
		t.Errorf("Set(WithCommit) error = %v, want ErrCommitFailed", err)
	}
	if err := s.Commit(); !errors.Is(err, ErrCommitFailed) {
		t.Errorf("Commit() error = %v, want ErrCommitFailed", err)
	}
	if s.Guard().Active() {
		t.Error("guard still active after failed commit")
	}

	mem.FailCommits(nil)
	if err := s.Commit(); err != nil {
		t.Errorf("Commit() after recovery error = %v", err)
	}
}

func TestCommit_HoldsGuard(t *testing.T) {
	watch := &guardWatch{Memory: nvs.NewMemory()}
	s, err := New(Options{Medium: watch})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	watch.guard = s.Guard()

	if _, err := s.Setup(context.Background()); err != nil {
		t.Fatalf("Setup() error = %v", err)
	}
	if err := Set(s, params.PidOn, true, WithCommit()); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := s.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}

	if len(watch.active) == 0 {
		t.Fatal("no commits observed")
	}
	for i, active := range watch.active {
		if !active {
			t.Errorf("commit %d ran without the guard", i)
		}
	}
	if got := s.Guard().Count(); got != uint64(len(watch.active)) {
		t.Errorf("Guard().Count() = %d, want %d", got, len(watch.active))
	}
	if s.Guard().Active() {
		t.Error("guard still active after commit")
	}
}

func TestSetup_MigratesBinaryLayout(t *testing.T) {
	legacy := customSnapshot()
	image, err := DefaultLayout().Encode(legacy)
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	mem := nvs.NewMemoryFrom(image)
	s, err := New(Options{Medium: mem, MigrateLegacy: true})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if ok, err := s.Setup(context.Background()); err != nil || !ok {
		t.Fatalf("Setup() = %v, %v", ok, err)
	}

	if durable := mem.Durable(); durable[0] != '{' {
		t.Fatalf("region starts with %#x after migration, want a document", durable[0])
	}
	got, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if *got != *legacy {
		t.Errorf("migrated = %+v\nwant %+v", got, legacy)
	}
}

func TestSetup_BinaryLayoutWithoutMigration(t *testing.T) {
	image, err := DefaultLayout().Encode(customSnapshot())
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}

	s, _ := openDocument(t, image, 0)
	got, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if *got != *params.Defaults() {
		t.Errorf("LoadConfig() = %+v, want defaults", got)
	}
}
