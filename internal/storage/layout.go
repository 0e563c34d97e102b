package storage

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
)

// Layout header.
const (
	// HeaderSize is the width of the layout version header at offset 0.
	HeaderSize = 2

	// LayoutVersion marks a region that holds the binary layout.
	// Bump it whenever an existing entry moves.
	LayoutVersion uint16 = 1
)

// Entry is one slot of the binary layout.
type Entry struct {
	Item   params.Item
	Offset int
	Size   int

	// Padding entries hold no item and stay 0xFF.
	Padding bool
}

// Layout maps items to offsets in the binary region form.
//
// Offsets are cumulative over the entry list, so an item's address is
// fixed by its position in the list and never by its identifier value.
// New items are appended at the end of the list.
type Layout struct {
	entries []Entry
	index   [params.ItemCount]int
	size    int
}

type slot struct {
	id  params.ItemID
	pad int
}

func itemSlot(id params.ItemID) slot { return slot{id: id} }
func padSlot(n int) slot             { return slot{id: -1, pad: n} }

// layoutSlots is the binary layout in address order. The padding keeps
// the addresses of the first firmware generation.
var layoutSlots = []slot{
	itemSlot(params.PidKpRegular),
	itemSlot(params.PidTnRegular),
	itemSlot(params.PidOn),
	padSlot(1),
	itemSlot(params.PidTvRegular),
	itemSlot(params.PidIMaxRegular),
	padSlot(1),
	itemSlot(params.BrewSetpoint),
	itemSlot(params.BrewTempOffset),
	padSlot(1),
	itemSlot(params.BrewTime),
	padSlot(2),
	itemSlot(params.PreInfusionTime),
	padSlot(2),
	itemSlot(params.PreInfusionPause),
	padSlot(21),
	itemSlot(params.UseBdPid),
	itemSlot(params.PidKpBd),
	padSlot(2),
	itemSlot(params.PidTnBd),
	padSlot(2),
	itemSlot(params.PidTvBd),
	padSlot(2),
	itemSlot(params.BrewSwTime),
	itemSlot(params.BrewPidDelay),
	padSlot(1),
	itemSlot(params.BdThreshold),
	itemSlot(params.WifiCredentialsSaved),
	itemSlot(params.PidStartPonM),
	itemSlot(params.PidKpStart),
	padSlot(2),
	itemSlot(params.SoftApEnabledCheck),
	padSlot(9),
	itemSlot(params.PidTnStart),
	padSlot(2),
	itemSlot(params.WifiSSID),
	itemSlot(params.WifiPassword),
	itemSlot(params.WeightSetpoint),
	itemSlot(params.PidKpSteam),
	itemSlot(params.SteamSetpoint),
	itemSlot(params.StandbyModeOn),
	itemSlot(params.StandbyModeTime),
	itemSlot(params.Reserved28),
	itemSlot(params.Reserved29),
	itemSlot(params.InfluxDBOn),
	itemSlot(params.MQTTOn),
	itemSlot(params.MQTTUsername),
	itemSlot(params.MQTTPassword),
	itemSlot(params.MQTTTopicPrefix),
	itemSlot(params.MQTTServerIP),
	itemSlot(params.MQTTServerPort),
	itemSlot(params.ScaleCalibration),
	itemSlot(params.BrewCounter),
	itemSlot(params.DisplayBrightness),
	itemSlot(params.SteamTimeout),
	itemSlot(params.PidSampleTime),
}

// buildLayout derives offsets from slots. Every item of the enumeration
// must appear exactly once.
func buildLayout(slots []slot) (*Layout, error) {
	l := &Layout{size: HeaderSize}
	for i := range l.index {
		l.index[i] = -1
	}

	for _, s := range slots {
		if s.id < 0 {
			if s.pad <= 0 {
				return nil, fmt.Errorf("padding of %d bytes at offset %d", s.pad, l.size)
			}
			l.entries = append(l.entries, Entry{Offset: l.size, Size: s.pad, Padding: true})
			l.size += s.pad
			continue
		}

		it, ok := params.Lookup(s.id)
		if !ok {
			return nil, fmt.Errorf("unknown item %d in layout", s.id)
		}
		if l.index[s.id] >= 0 {
			return nil, fmt.Errorf("item %s appears twice in layout", it.Name)
		}
		l.index[s.id] = len(l.entries)
		l.entries = append(l.entries, Entry{Item: it, Offset: l.size, Size: it.Size})
		l.size += it.Size
	}

	for id, idx := range l.index {
		if idx < 0 {
			return nil, fmt.Errorf("item %s missing from layout", params.ItemID(id))
		}
	}
	return l, nil
}

var (
	defaultLayout = mustBuildLayout()

	defaultTableOnce sync.Once
	defaultTable     []byte
)

func mustBuildLayout() *Layout {
	l, err := buildLayout(layoutSlots)
	if err != nil {
		panic("storage: " + err.Error())
	}
	return l
}

// DefaultLayout returns the binary layout of the current firmware.
func DefaultLayout() *Layout {
	return defaultLayout
}

// Size returns the number of bytes the binary form occupies.
func (l *Layout) Size() int {
	return l.size
}

// Entries returns the slots in address order.
func (l *Layout) Entries() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// entry returns the layout slot of a value-holding item.
func (l *Layout) entry(id params.ItemID) (Entry, error) {
	if !id.Valid() {
		return Entry{}, fmt.Errorf("%w: %s", ErrInvalidItem, id)
	}
	e := l.entries[l.index[id]]
	if e.Item.Reserved() {
		return Entry{}, fmt.Errorf("%w: %s is reserved", ErrInvalidItem, id)
	}
	return e, nil
}

// Resolve returns the address and width of id in the binary form.
func (l *Layout) Resolve(id params.ItemID) (offset, size int, err error) {
	e, err := l.entry(id)
	if err != nil {
		return -1, 0, err
	}
	return e.Offset, e.Size, nil
}

// Encode renders a snapshot into the binary form. Padding stays 0xFF.
func (l *Layout) Encode(s *params.Snapshot) ([]byte, error) {
	buf := make([]byte, l.size)
	for i := range buf {
		buf[i] = nvs.BlankByte
	}
	binary.LittleEndian.PutUint16(buf[0:HeaderSize], LayoutVersion)

	for _, e := range l.entries {
		if e.Padding || e.Item.Reserved() {
			continue
		}
		raw, err := encodeNative(e.Item, s.Get(e.Item.ID))
		if err != nil {
			return nil, fmt.Errorf("encoding %s: %w", e.Item.Name, err)
		}
		copy(buf[e.Offset:], raw)
	}
	return buf, nil
}

func loadDefaultTable() {
	defaultTableOnce.Do(func() {
		table, err := defaultLayout.Encode(params.Defaults())
		if err != nil {
			panic("storage: encoding default table: " + err.Error())
		}
		defaultTable = table
	})
}

// DefaultTable returns a copy of the binary image of the factory defaults.
// Unwritten items read the bytes at their own offset in this table.
func DefaultTable() []byte {
	loadDefaultTable()
	out := make([]byte, len(defaultTable))
	copy(out, defaultTable)
	return out
}

// defaultBytes returns a copy of the default table window of e.
func defaultBytes(e Entry) []byte {
	loadDefaultTable()
	out := make([]byte, e.Size)
	copy(out, defaultTable[e.Offset:e.Offset+e.Size])
	return out
}
