package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
)

// rawStrategy stores items at their fixed layout offsets.
//
// A numeric item whose bytes are all 0xFF, or a text item without a NUL in
// its window, has never been written.
type rawStrategy struct {
	medium nvs.Medium
	layout *Layout
}

func newRawStrategy(m nvs.Medium, l *Layout) *rawStrategy {
	return &rawStrategy{medium: m, layout: l}
}

func (r *rawStrategy) name() StrategyName {
	return StrategyRaw
}

func (r *rawStrategy) validate() bool {
	header, err := r.medium.ReadBytes(0, HeaderSize)
	if err != nil {
		return false
	}
	return binary.LittleEndian.Uint16(header) == LayoutVersion
}

func (r *rawStrategy) readItem(e Entry) ([]byte, bool, error) {
	raw, err := r.medium.ReadBytes(e.Offset, e.Size)
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", e.Item.Name, err)
	}
	if e.Item.Kind.IsText() {
		return raw, hasTerminator(raw), nil
	}
	return raw, !nvs.IsBlank(raw), nil
}

func (r *rawStrategy) writeItem(e Entry, raw []byte) error {
	if len(raw) != e.Size {
		return fmt.Errorf("%w: %s needs %d bytes, got %d", ErrTypeMismatch, e.Item.Name, e.Size, len(raw))
	}
	if err := r.medium.WriteBytes(e.Offset, raw); err != nil {
		return fmt.Errorf("writing %s: %w", e.Item.Name, err)
	}
	// A region written item by item becomes valid with the first write.
	if !r.validate() {
		header := binary.LittleEndian.AppendUint16(nil, LayoutVersion)
		if err := r.medium.WriteBytes(0, header); err != nil {
			return fmt.Errorf("writing layout header: %w", err)
		}
	}
	return nil
}

func (r *rawStrategy) load() (*params.Snapshot, []string, error) {
	s := params.Defaults()
	for _, e := range r.layout.entries {
		if e.Padding || e.Item.Reserved() {
			continue
		}
		raw, written, err := r.readItem(e)
		if err != nil {
			return nil, nil, err
		}
		if !written {
			continue
		}
		v, err := decodeNative(e.Item, raw)
		if err != nil {
			return nil, nil, err
		}
		if err := assign(s, e.Item.ID, v); err != nil {
			return nil, nil, err
		}
	}
	return s, nil, nil
}

func (r *rawStrategy) save(s *params.Snapshot) error {
	image, err := r.layout.Encode(s)
	if err != nil {
		return err
	}
	if len(image) > r.medium.Capacity() {
		return fmt.Errorf("%w: layout needs %d bytes, capacity %d", ErrDocumentTooLarge, len(image), r.medium.Capacity())
	}
	if err := r.medium.WriteBytes(0, image); err != nil {
		return fmt.Errorf("writing layout: %w", err)
	}
	return nil
}

// assign stores a decoded native value into the snapshot field of id.
func assign(s *params.Snapshot, id params.ItemID, v any) error {
	ref := s.Ref(id)
	if ref == nil {
		return fmt.Errorf("%w: %s", ErrInvalidItem, id)
	}
	dst := reflect.ValueOf(ref).Elem()
	src := reflect.ValueOf(v)
	if !src.IsValid() || src.Type() != dst.Type() {
		return fmt.Errorf("%w: %s is %s, got %T", ErrTypeMismatch, id, dst.Type(), v)
	}
	dst.Set(src)
	return nil
}
