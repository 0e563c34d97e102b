package nvs

import "fmt"

// Memory is a Medium whose durable content lives in process memory.
//
// It survives re-Open (a simulated power cycle keeps committed bytes and drops
// uncommitted ones), which makes it the medium used by tests.
type Memory struct {
	shadow

	durable   []byte
	commitErr error
	commits   int
	opens     int
	openErr   error
}

var _ Medium = (*Memory)(nil)

// NewMemory returns an erased in-memory medium.
func NewMemory() *Memory {
	return &Memory{}
}

// NewMemoryFrom returns an in-memory medium whose durable content is image.
// Bytes beyond len(image) read as BlankByte after Open.
func NewMemoryFrom(image []byte) *Memory {
	durable := make([]byte, len(image))
	copy(durable, image)
	return &Memory{durable: durable}
}

// Open loads the durable copy into the shadow.
func (m *Memory) Open(capacity int) error {
	m.opens++
	if m.openErr != nil {
		return m.openErr
	}
	return m.load(m.durable, capacity)
}

// Commit copies the shadow into the durable copy.
func (m *Memory) Commit() error {
	if m.commitErr != nil {
		return fmt.Errorf("%w: %w", ErrCommitFailed, m.commitErr)
	}
	data, err := m.snapshot()
	if err != nil {
		return err
	}
	m.durable = data
	m.commits++
	return nil
}

// Close drops the shadow. The durable copy is kept.
func (m *Memory) Close() error {
	m.buf = nil
	return nil
}

// PowerCycle discards uncommitted writes and reloads the durable copy.
func (m *Memory) PowerCycle() error {
	capacity := m.Capacity()
	if capacity == 0 {
		capacity = DefaultCapacity
	}
	return m.Open(capacity)
}

// Durable returns a copy of the committed content.
func (m *Memory) Durable() []byte {
	out := make([]byte, len(m.durable))
	copy(out, m.durable)
	return out
}

// Commits returns the number of successful commits.
func (m *Memory) Commits() int {
	return m.commits
}

// Opens returns the number of Open calls.
func (m *Memory) Opens() int {
	return m.opens
}

// FailCommits makes every following Commit fail with err. Pass nil to recover.
func (m *Memory) FailCommits(err error) {
	m.commitErr = err
}

// FailOpen makes every following Open fail with err. Pass nil to recover.
func (m *Memory) FailOpen(err error) {
	m.openErr = err
}
