package nvs

import (
	"bytes"
	"errors"
	"testing"
)

func TestMemory_OpenErased(t *testing.T) {
	m := NewMemory()
	if err := m.Open(64); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if m.Capacity() != 64 {
		t.Errorf("Capacity() = %d, want 64", m.Capacity())
	}
	if !IsBlank(m.Raw()) {
		t.Error("freshly opened region is not blank")
	}
}

func TestMemory_OpenInvalidCapacity(t *testing.T) {
	tests := []struct {
		name     string
		capacity int
	}{
		{"zero", 0},
		{"negative", -1},
		{"too large", MaxCapacity + 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewMemory().Open(tt.capacity)
			if !errors.Is(err, ErrInvalidCapacity) {
				t.Errorf("Open(%d) error = %v, want ErrInvalidCapacity", tt.capacity, err)
			}
		})
	}
}

func TestMemory_ImageLargerThanCapacity(t *testing.T) {
	m := NewMemoryFrom(make([]byte, 32))
	if err := m.Open(16); !errors.Is(err, ErrInvalidCapacity) {
		t.Errorf("Open() error = %v, want ErrInvalidCapacity", err)
	}
}

func TestMemory_ReadWrite(t *testing.T) {
	m := NewMemory()
	if err := m.Open(16); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := m.WriteBytes(4, []byte{1, 2, 3}); err != nil {
		t.Fatalf("WriteBytes() error = %v", err)
	}
	if err := m.SetByte(15, 0x42); err != nil {
		t.Fatalf("SetByte() error = %v", err)
	}

	got, err := m.ReadBytes(3, 5)
	if err != nil {
		t.Fatalf("ReadBytes() error = %v", err)
	}
	want := []byte{0xFF, 1, 2, 3, 0xFF}
	if !bytes.Equal(got, want) {
		t.Errorf("ReadBytes() = %v, want %v", got, want)
	}

	b, err := m.ByteAt(15)
	if err != nil || b != 0x42 {
		t.Errorf("ByteAt(15) = %#x, %v, want 0x42", b, err)
	}

	// ReadBytes returns a copy
	got[0] = 0
	if b, _ := m.ByteAt(3); b != 0xFF {
		t.Error("ReadBytes() result aliases the shadow")
	}
}

func TestMemory_OutOfRange(t *testing.T) {
	m := NewMemory()

	if _, err := m.ReadBytes(0, 1); !errors.Is(err, ErrNotOpen) {
		t.Errorf("ReadBytes() before Open error = %v, want ErrNotOpen", err)
	}

	if err := m.Open(8); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := m.WriteBytes(6, []byte{1, 2, 3}); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("WriteBytes() error = %v, want ErrOutOfRange", err)
	}
	// Nothing written on a failed range check
	if b, _ := m.ByteAt(6); b != BlankByte {
		t.Errorf("ByteAt(6) = %#x after rejected write, want 0xFF", b)
	}
	if _, err := m.ByteAt(8); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ByteAt(8) error = %v, want ErrOutOfRange", err)
	}
	if _, err := m.ReadBytes(-1, 2); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ReadBytes(-1) error = %v, want ErrOutOfRange", err)
	}
}

func TestMemory_PowerCycle(t *testing.T) {
	m := NewMemory()
	if err := m.Open(8); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := m.SetByte(0, 0x11); err != nil {
		t.Fatalf("SetByte() error = %v", err)
	}
	if err := m.Commit(); err != nil {
		t.Fatalf("Commit() error = %v", err)
	}
	if err := m.SetByte(1, 0x22); err != nil {
		t.Fatalf("SetByte() error = %v", err)
	}

	if err := m.PowerCycle(); err != nil {
		t.Fatalf("PowerCycle() error = %v", err)
	}

	if b, _ := m.ByteAt(0); b != 0x11 {
		t.Errorf("committed byte = %#x, want 0x11", b)
	}
	if b, _ := m.ByteAt(1); b != BlankByte {
		t.Errorf("uncommitted byte = %#x, want 0xFF", b)
	}
	if m.Commits() != 1 {
		t.Errorf("Commits() = %d, want 1", m.Commits())
	}
}

func TestMemory_FailCommits(t *testing.T) {
	m := NewMemory()
	if err := m.Open(8); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	m.FailCommits(errors.New("flash busy"))
	if err := m.Commit(); !errors.Is(err, ErrCommitFailed) {
		t.Errorf("Commit() error = %v, want ErrCommitFailed", err)
	}

	m.FailCommits(nil)
	if err := m.Commit(); err != nil {
		t.Errorf("Commit() after recovery error = %v", err)
	}
}

func TestErase(t *testing.T) {
	m := NewMemoryFrom([]byte{0, 1, 2, 3})
	if err := m.Open(4); err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	if err := Erase(m); err != nil {
		t.Fatalf("Erase() error = %v", err)
	}
	if !IsBlank(m.Raw()) {
		t.Error("region not blank after Erase()")
	}

	if err := Erase(NewMemory()); !errors.Is(err, ErrNotOpen) {
		t.Errorf("Erase() on unopened medium error = %v, want ErrNotOpen", err)
	}
}

func TestIsBlank(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
		want bool
	}{
		{"empty", nil, false},
		{"all blank", []byte{0xFF, 0xFF}, true},
		{"one written", []byte{0xFF, 0x00}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsBlank(tt.in); got != tt.want {
				t.Errorf("IsBlank(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
