package storage

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/nerrad567/pidstore/internal/params"
)

// Item values are stored little-endian at their full kind width. Text is
// stored NUL-terminated and zero-filled to the item width.

// encodeText renders s into a window of size bytes.
func encodeText(s string, size int) ([]byte, error) {
	if len(s)+1 > size {
		return nil, fmt.Errorf("%w: %d bytes, room for %d", ErrValueTooLarge, len(s), size-1)
	}
	if bytes.IndexByte([]byte(s), 0) >= 0 {
		return nil, fmt.Errorf("%w: text contains NUL", ErrInvalidValue)
	}
	buf := make([]byte, size)
	copy(buf, s)
	return buf, nil
}

// decodeText returns the string up to the first NUL.
func decodeText(raw []byte) string {
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		return string(raw[:i])
	}
	return string(raw)
}

// hasTerminator reports whether raw holds a complete text value.
func hasTerminator(raw []byte) bool {
	return bytes.IndexByte(raw, 0) >= 0
}

// encodeNative encodes v, which must have the Go type matching the item
// kind (as returned by Snapshot.Get).
func encodeNative(it params.Item, v any) ([]byte, error) {
	if it.Kind.IsText() {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("%w: %s wants text, got %T", ErrTypeMismatch, it.Name, v)
		}
		return encodeText(s, it.Size)
	}

	var ok bool
	switch it.Kind {
	case params.KindBool:
		_, ok = v.(bool)
	case params.KindUint8:
		_, ok = v.(uint8)
	case params.KindUint16:
		_, ok = v.(uint16)
	case params.KindUint32:
		_, ok = v.(uint32)
	case params.KindInt8:
		_, ok = v.(int8)
	case params.KindInt16:
		_, ok = v.(int16)
	case params.KindInt32:
		_, ok = v.(int32)
	case params.KindFloat32:
		_, ok = v.(float32)
	case params.KindFloat64:
		_, ok = v.(float64)
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s is %s, got %T", ErrTypeMismatch, it.Name, it.Kind, v)
	}
	return binary.Append(nil, binary.LittleEndian, v)
}

// decodeNative decodes raw into the Go type matching the item kind.
func decodeNative(it params.Item, raw []byte) (any, error) {
	if it.Kind.IsText() {
		return decodeText(raw), nil
	}
	if len(raw) != it.Kind.Size() {
		return nil, fmt.Errorf("%w: %s needs %d bytes, got %d", ErrTypeMismatch, it.Name, it.Kind.Size(), len(raw))
	}

	le := binary.LittleEndian
	switch it.Kind {
	case params.KindBool:
		return raw[0] != 0, nil
	case params.KindUint8:
		return raw[0], nil
	case params.KindInt8:
		return int8(raw[0]), nil
	case params.KindUint16:
		return le.Uint16(raw), nil
	case params.KindInt16:
		return int16(le.Uint16(raw)), nil
	case params.KindUint32:
		return le.Uint32(raw), nil
	case params.KindInt32:
		return int32(le.Uint32(raw)), nil
	case params.KindFloat32:
		return math.Float32frombits(le.Uint32(raw)), nil
	case params.KindFloat64:
		return math.Float64frombits(le.Uint64(raw)), nil
	default:
		return nil, fmt.Errorf("%w: %s has kind %s", ErrInvalidItem, it.Name, it.Kind)
	}
}

// fromFloat converts f to the Go type of a numeric item. Integers must be
// whole and in range for the item width.
func fromFloat(it params.Item, f float64) (any, error) {
	if math.IsNaN(f) {
		return nil, fmt.Errorf("%w: NaN for %s", ErrInvalidValue, it.Name)
	}

	intIn := func(lo, hi float64) error {
		if f != math.Trunc(f) || f < lo || f > hi {
			return fmt.Errorf("%w: %v does not fit %s (%s)", ErrInvalidValue, f, it.Name, it.Kind)
		}
		return nil
	}

	switch it.Kind {
	case params.KindBool:
		return f != 0, nil
	case params.KindUint8:
		if err := intIn(0, math.MaxUint8); err != nil {
			return nil, err
		}
		return uint8(f), nil
	case params.KindUint16:
		if err := intIn(0, math.MaxUint16); err != nil {
			return nil, err
		}
		return uint16(f), nil
	case params.KindUint32:
		if err := intIn(0, math.MaxUint32); err != nil {
			return nil, err
		}
		return uint32(f), nil
	case params.KindInt8:
		if err := intIn(math.MinInt8, math.MaxInt8); err != nil {
			return nil, err
		}
		return int8(f), nil
	case params.KindInt16:
		if err := intIn(math.MinInt16, math.MaxInt16); err != nil {
			return nil, err
		}
		return int16(f), nil
	case params.KindInt32:
		if err := intIn(math.MinInt32, math.MaxInt32); err != nil {
			return nil, err
		}
		return int32(f), nil
	case params.KindFloat32:
		if !math.IsInf(f, 0) && math.Abs(f) > math.MaxFloat32 {
			return nil, fmt.Errorf("%w: %v overflows %s", ErrInvalidValue, f, it.Name)
		}
		return float32(f), nil
	case params.KindFloat64:
		return f, nil
	default:
		return nil, fmt.Errorf("%w: %s is %s, not numeric", ErrTypeMismatch, it.Name, it.Kind)
	}
}

// isFinite reports whether a decoded native value is a finite number or
// a non-float value.
func isFinite(v any) bool {
	switch x := v.(type) {
	case float64:
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	case float32:
		f := float64(x)
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	default:
		return true
	}
}
