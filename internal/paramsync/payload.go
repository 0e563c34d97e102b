package paramsync

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/pidstore/internal/params"
)

// Switch payloads, as sent by Home Assistant switch entities.
const (
	PayloadOn  = "1"
	PayloadOff = "0"
)

// readOnly lists numeric fields that are published but never accepted as
// commands.
var readOnly = map[params.ItemID]bool{
	params.BrewCounter: true,
}

// Exposed reports whether f is published over MQTT. Text fields hold
// credentials and addresses and stay off the broker.
func Exposed(f params.Field) bool {
	return f.Numeric()
}

// Settable reports whether f accepts values on its command topic.
func Settable(f params.Field) bool {
	return Exposed(f) && !readOnly[f.Item]
}

// ParsePayload converts a command payload for f into a number and checks
// it against the field bounds. Toggles also accept on/off and true/false.
func ParsePayload(f params.Field, payload []byte) (float64, error) {
	if !Settable(f) {
		return 0, fmt.Errorf("%w: %s", ErrReadOnly, f.Name)
	}

	text := strings.TrimSpace(string(payload))
	if f.Type == params.TypeToggle {
		switch strings.ToLower(text) {
		case "on", "true":
			return 1, nil
		case "off", "false":
			return 0, nil
		}
	}

	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q for %s", ErrInvalidPayload, text, f.Name)
	}
	if !f.InRange(v) {
		return 0, fmt.Errorf("%w: %s = %v, allowed %v..%v", ErrOutOfRange, f.Name, v, f.Min, f.Max)
	}
	return v, nil
}

// FormatValue renders a stored value as a state payload. Toggles become
// PayloadOn or PayloadOff, numbers use the shortest exact decimal form.
func FormatValue(v any) (string, bool) {
	switch x := v.(type) {
	case bool:
		if x {
			return PayloadOn, true
		}
		return PayloadOff, true
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32), true
	case int8:
		return strconv.FormatInt(int64(x), 10), true
	case int16:
		return strconv.FormatInt(int64(x), 10), true
	case int32:
		return strconv.FormatInt(int64(x), 10), true
	case uint8:
		return strconv.FormatUint(uint64(x), 10), true
	case uint16:
		return strconv.FormatUint(uint64(x), 10), true
	case uint32:
		return strconv.FormatUint(uint64(x), 10), true
	default:
		return "", false
	}
}
