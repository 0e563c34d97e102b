package storage

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/nerrad567/pidstore/internal/nvs"
	"github.com/nerrad567/pidstore/internal/params"
)

// documentStrategy keeps the configuration as one JSON object at offset 0,
// terminated by a NUL byte. Bytes after the terminator are ignored.
//
// A field absent from the document has never been written.
type documentStrategy struct {
	medium nvs.Medium
}

func newDocumentStrategy(m nvs.Medium) *documentStrategy {
	return &documentStrategy{medium: m}
}

func (d *documentStrategy) name() StrategyName {
	return StrategyDocument
}

// parseRegion decodes the object at the start of region. The decoder stops
// at the end of the first value, so the terminator and any erased bytes
// that follow are never examined.
func parseRegion(region []byte) (map[string]json.RawMessage, error) {
	if len(region) == 0 || region[0] != '{' {
		return nil, fmt.Errorf("%w: region does not start with an object", ErrParse)
	}
	var doc map[string]json.RawMessage
	if err := json.NewDecoder(bytes.NewReader(region)).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrParse, err)
	}
	return doc, nil
}

func (d *documentStrategy) parse() (map[string]json.RawMessage, error) {
	return parseRegion(d.medium.Raw())
}

func (d *documentStrategy) validate() bool {
	_, err := d.parse()
	return err == nil
}

// decodeField unmarshals one document field into the native type of it.
// A numeric value encoding to the erased pattern is refused like an
// undecodable one.
func decodeField(it params.Item, raw json.RawMessage) (any, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return nil, fmt.Errorf("%w: %s is null", ErrParse, it.Field)
	}
	var tmp params.Snapshot
	if err := json.Unmarshal(raw, tmp.Ref(it.ID)); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrParse, it.Field, err)
	}
	v := tmp.Get(it.ID)
	if s, ok := v.(string); ok {
		if len(s)+1 > it.Size {
			return nil, fmt.Errorf("%w: %s", ErrValueTooLarge, it.Field)
		}
		return v, nil
	}
	out, err := encodeNative(it, v)
	if err != nil {
		return nil, err
	}
	if nvs.IsBlank(out) {
		return nil, fmt.Errorf("%w: all-ones value is reserved for %s", ErrInvalidValue, it.Field)
	}
	return v, nil
}

func (d *documentStrategy) readItem(e Entry) ([]byte, bool, error) {
	doc, err := d.parse()
	if err != nil {
		return nil, false, nil
	}
	raw, ok := doc[e.Item.Field]
	if !ok {
		return nil, false, nil
	}
	v, err := decodeField(e.Item, raw)
	if err != nil {
		// Undecodable fields read as unwritten and fall back to the default
		return nil, false, nil
	}
	out, err := encodeNative(e.Item, v)
	if err != nil {
		return nil, false, nil
	}
	return out, true, nil
}

func (d *documentStrategy) writeItem(e Entry, raw []byte) error {
	v, err := decodeNative(e.Item, raw)
	if err != nil {
		return err
	}
	if !isFinite(v) {
		return fmt.Errorf("%w: %s is not finite", ErrInvalidValue, e.Item.Name)
	}
	value, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrInvalidValue, e.Item.Name, err)
	}

	doc, err := d.parse()
	if err != nil {
		doc = make(map[string]json.RawMessage)
	}
	doc[e.Item.Field] = value

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return d.write(data)
}

// write stores data at offset 0 followed by the terminator. Nothing is
// written when the document does not fit.
func (d *documentStrategy) write(data []byte) error {
	capacity := d.medium.Capacity()
	if len(data)+1 > capacity {
		return fmt.Errorf("%w: %d bytes plus terminator, capacity %d", ErrDocumentTooLarge, len(data), capacity)
	}
	framed := make([]byte, len(data)+1)
	copy(framed, data)
	if err := d.medium.WriteBytes(0, framed); err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (d *documentStrategy) load() (*params.Snapshot, []string, error) {
	doc, err := d.parse()
	if err != nil {
		return nil, nil, err
	}

	s := params.Defaults()
	var skipped []string
	for _, it := range params.Items() {
		if it.Reserved() {
			continue
		}
		raw, ok := doc[it.Field]
		if !ok {
			continue
		}
		v, err := decodeField(it, raw)
		if err != nil {
			skipped = append(skipped, it.Field)
			continue
		}
		if err := assign(s, it.ID, v); err != nil {
			return nil, nil, err
		}
	}
	return s, skipped, nil
}

func (d *documentStrategy) save(s *params.Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidValue, err)
	}
	return d.write(data)
}
