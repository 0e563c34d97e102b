package nvs

import "fmt"

// Region constants.
const (
	// BlankByte is the value every byte of an erased region reads as.
	BlankByte = 0xFF

	// DefaultCapacity is the region size used when none is configured.
	DefaultCapacity = 4096

	// MaxCapacity bounds the region size a medium accepts.
	MaxCapacity = 64 * 1024
)

// Medium is a bounded, byte-addressable persistent region with a RAM shadow.
//
// Reads and writes operate on the shadow. Commit makes the shadow durable.
// Raw exposes the shadow for bulk operations such as erase; writes through
// the returned slice are equivalent to WriteBytes.
type Medium interface {
	// Open loads the durable content into the shadow at the given capacity.
	// Calling Open again discards uncommitted writes (power cycle).
	Open(capacity int) error

	// Capacity returns the region size in bytes, or 0 before Open.
	Capacity() int

	ByteAt(addr int) (byte, error)
	ReadBytes(addr, n int) ([]byte, error)
	SetByte(addr int, b byte) error
	WriteBytes(addr int, data []byte) error

	// Commit persists the shadow.
	Commit() error

	// Raw returns the mutable shadow buffer.
	Raw() []byte

	Close() error
}

// shadow is the RAM copy shared by all medium implementations.
type shadow struct {
	buf []byte
}

// load replaces the shadow with durable, padded with BlankByte to capacity.
func (s *shadow) load(durable []byte, capacity int) error {
	if capacity <= 0 || capacity > MaxCapacity {
		return fmt.Errorf("%w: %d (must be 1..%d)", ErrInvalidCapacity, capacity, MaxCapacity)
	}
	if len(durable) > capacity {
		return fmt.Errorf("%w: stored image is %d bytes, capacity %d", ErrInvalidCapacity, len(durable), capacity)
	}

	buf := make([]byte, capacity)
	n := copy(buf, durable)
	for i := n; i < capacity; i++ {
		buf[i] = BlankByte
	}
	s.buf = buf
	return nil
}

func (s *shadow) Capacity() int {
	return len(s.buf)
}

func (s *shadow) check(addr, n int) error {
	if s.buf == nil {
		return ErrNotOpen
	}
	if addr < 0 || n < 0 || addr+n > len(s.buf) {
		return fmt.Errorf("%w: addr=%d len=%d capacity=%d", ErrOutOfRange, addr, n, len(s.buf))
	}
	return nil
}

func (s *shadow) ByteAt(addr int) (byte, error) {
	if err := s.check(addr, 1); err != nil {
		return 0, err
	}
	return s.buf[addr], nil
}

// ReadBytes returns a copy of n bytes starting at addr.
func (s *shadow) ReadBytes(addr, n int) ([]byte, error) {
	if err := s.check(addr, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, s.buf[addr:addr+n])
	return out, nil
}

func (s *shadow) SetByte(addr int, b byte) error {
	if err := s.check(addr, 1); err != nil {
		return err
	}
	s.buf[addr] = b
	return nil
}

// WriteBytes copies data into the shadow. Nothing is written when the range
// does not fit.
func (s *shadow) WriteBytes(addr int, data []byte) error {
	if err := s.check(addr, len(data)); err != nil {
		return err
	}
	copy(s.buf[addr:], data)
	return nil
}

func (s *shadow) Raw() []byte {
	return s.buf
}

// snapshot returns a copy of the shadow for committing.
func (s *shadow) snapshot() ([]byte, error) {
	if s.buf == nil {
		return nil, ErrNotOpen
	}
	out := make([]byte, len(s.buf))
	copy(out, s.buf)
	return out, nil
}

// Erase fills the whole shadow of m with BlankByte. It does not commit.
func Erase(m Medium) error {
	buf := m.Raw()
	if buf == nil {
		return ErrNotOpen
	}
	for i := range buf {
		buf[i] = BlankByte
	}
	return nil
}

// IsBlank reports whether every byte of b equals BlankByte.
// An empty slice is not considered blank.
func IsBlank(b []byte) bool {
	if len(b) == 0 {
		return false
	}
	for _, v := range b {
		if v != BlankByte {
			return false
		}
	}
	return true
}
