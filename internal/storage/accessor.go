package storage

import (
	"encoding/binary"
	"fmt"
	"reflect"

	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
)

// Value is the set of types an item can be read or written as.
//
// Numeric types match an item when their encoded width equals the item
// width, so a flag stored in one byte reads as bool or uint8. Strings match
// text items only.
type Value interface {
	~int8 | ~int16 | ~int32 | ~uint8 | ~uint16 | ~uint32 |
		~float32 | ~float64 | ~bool | ~string
}

// SetOption configures a mutating call.
type SetOption func(*setOptions)

type setOptions struct {
	commit bool
	source string
}

// WithCommit makes the write durable before the call returns.
func WithCommit() SetOption {
	return func(o *setOptions) { o.commit = true }
}

// WithSource names the caller in change notifications.
func WithSource(source string) SetOption {
	return func(o *setOptions) { o.source = source }
}

func applyOptions(opts []SetOption) setOptions {
	var o setOptions
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func isText[T Value]() bool {
	return reflect.TypeFor[T]().Kind() == reflect.String
}

// checkType verifies that T can carry the value of e.
func checkType[T Value](e Entry) error {
	if isText[T]() {
		if !e.Item.Kind.IsText() {
			return fmt.Errorf("%w: %s is %s, not text", ErrTypeMismatch, e.Item.Name, e.Item.Kind)
		}
		return nil
	}
	if e.Item.Kind.IsText() {
		return fmt.Errorf("%w: %s is text", ErrTypeMismatch, e.Item.Name)
	}
	var zero T
	if n := binary.Size(zero); n != e.Size {
		return fmt.Errorf("%w: %s is %d bytes, %T is %d", ErrTypeMismatch, e.Item.Name, e.Size, zero, n)
	}
	return nil
}

// readLocked returns the stored bytes of e, or its default table bytes when
// the item has never been written. Callers must hold s.mu.
func (s *Store) readLocked(e Entry) ([]byte, error) {
	raw, written, err := s.strategy.readItem(e)
	if err != nil {
		return nil, err
	}
	if !written {
		s.logger.Debug("storage empty, returning default", "item", e.Item.Name, "addr", e.Offset)
		return defaultBytes(e), nil
	}
	return raw, nil
}

// writeLocked stores raw for e and commits when requested. Callers must
// hold s.mu.
func (s *Store) writeLocked(e Entry, raw []byte, o setOptions) (Change, error) {
	if !e.Item.Kind.IsText() && nvs.IsBlank(raw) {
		return Change{}, fmt.Errorf("%w: all-ones value is reserved for %s", ErrInvalidValue, e.Item.Name)
	}

	native, err := decodeNative(e.Item, raw)
	if err != nil {
		return Change{}, err
	}

	if err := s.strategy.writeItem(e, raw); err != nil {
		return Change{}, err
	}
	s.logger.Debug("item set", "item", e.Item.Name, "addr", e.Offset, "size", e.Size, "commit", o.commit)

	change := Change{
		Kind:   ChangeItem,
		Item:   e.Item.ID,
		Field:  e.Item.Field,
		Value:  native,
		Source: o.source,
	}
	if o.commit {
		if err := s.commitLocked(); err != nil {
			return Change{}, err
		}
		change.Committed = true
	}
	return change, nil
}

// Get reads item id as T. Items that have never been written read their
// factory default.
func Get[T Value](s *Store, id params.ItemID) (T, error) {
	var out T

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return out, err
	}
	e, err := s.layout.entry(id)
	if err != nil {
		return out, err
	}
	if err := checkType[T](e); err != nil {
		return out, err
	}

	raw, err := s.readLocked(e)
	if err != nil {
		return out, err
	}

	if isText[T]() {
		reflect.ValueOf(&out).Elem().SetString(decodeText(raw))
		return out, nil
	}
	if _, err := binary.Decode(raw, binary.LittleEndian, &out); err != nil {
		return out, fmt.Errorf("decoding %s: %w", e.Item.Name, err)
	}
	return out, nil
}

// Set writes v to item id in the shadow. Pass WithCommit to make it
// durable immediately.
//
// A numeric value whose encoding is all 0xFF bytes is rejected with
// ErrInvalidValue. A text value longer than the item width minus its
// terminator is rejected with ErrValueTooLarge. The item is unchanged
// after any error.
func Set[T Value](s *Store, id params.ItemID, v T, opts ...SetOption) error {
	o := applyOptions(opts)

	s.mu.Lock()
	change, err := setLocked(s, id, v, o)
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(change)
	return nil
}

func setLocked[T Value](s *Store, id params.ItemID, v T, o setOptions) (Change, error) {
	if err := s.ready(); err != nil {
		return Change{}, err
	}
	e, err := s.layout.entry(id)
	if err != nil {
		return Change{}, err
	}
	if err := checkType[T](e); err != nil {
		return Change{}, err
	}

	var raw []byte
	if isText[T]() {
		raw, err = encodeText(reflect.ValueOf(v).String(), e.Size)
	} else {
		raw, err = binary.Append(nil, binary.LittleEndian, v)
	}
	if err != nil {
		return Change{}, err
	}
	return s.writeLocked(e, raw, o)
}

// ValueOf reads item id as its native Go type (bool, float64, string, ...).
func ValueOf(s *Store, id params.ItemID) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.ready(); err != nil {
		return nil, err
	}
	e, err := s.layout.entry(id)
	if err != nil {
		return nil, err
	}
	raw, err := s.readLocked(e)
	if err != nil {
		return nil, err
	}
	return decodeNative(e.Item, raw)
}

// SetFloat writes a number to a numeric or toggle item, converting it to
// the item's storage type. Integer items reject fractions and values out of
// range with ErrInvalidValue.
func SetFloat(s *Store, id params.ItemID, f float64, opts ...SetOption) error {
	it, ok := params.Lookup(id)
	if !ok || it.Reserved() {
		return fmt.Errorf("%w: %s", ErrInvalidItem, id)
	}
	v, err := fromFloat(it, f)
	if err != nil {
		return err
	}
	return SetValue(s, id, v, opts...)
}

// SetValue writes a native value to item id. Accepted types are bool,
// float64 and string as decoded from JSON, plus the item's own storage
// type. Numbers are converted as by SetFloat.
func SetValue(s *Store, id params.ItemID, v any, opts ...SetOption) error {
	it, ok := params.Lookup(id)
	if !ok || it.Reserved() {
		return fmt.Errorf("%w: %s", ErrInvalidItem, id)
	}

	if f, isFloat := v.(float64); isFloat && it.Kind != params.KindFloat64 {
		converted, err := fromFloat(it, f)
		if err != nil {
			return err
		}
		v = converted
	}
	if _, isBool := v.(bool); isBool && it.Kind != params.KindBool {
		return fmt.Errorf("%w: %s is %s, got bool", ErrTypeMismatch, it.Name, it.Kind)
	}

	raw, err := encodeNative(it, v)
	if err != nil {
		return err
	}

	o := applyOptions(opts)

	s.mu.Lock()
	change, err := func() (Change, error) {
		if err := s.ready(); err != nil {
			return Change{}, err
		}
		e, err := s.layout.entry(id)
		if err != nil {
			return Change{}, err
		}
		return s.writeLocked(e, raw, o)
	}()
	s.mu.Unlock()

	if err != nil {
		return err
	}
	s.notify(change)
	return nil
}
