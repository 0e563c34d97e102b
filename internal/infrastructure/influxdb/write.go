package influxdb

import (
	"time"

	"github.com/influxdata/influxdb-client-go/v2/api/write"
)

// Measurement names.
const (
	// MeasurementParameter holds one point per changed parameter.
	MeasurementParameter = "parameter"

	// MeasurementEvent holds lifecycle events such as commits and resets.
	MeasurementEvent = "config_event"
)

// WriteParameter records the new value of a parameter.
//
// Toggles are written as 0 or 1 so they graph next to the numbers. Text
// parameters are skipped: they carry credentials and addresses, not
// history worth keeping.
//
// Parameters:
//   - field: Document name of the parameter (e.g., "brewSetpoint")
//   - value: Native value as stored (bool, float64, uint16, ...)
//   - source: Who made the change (e.g., "api", "mqtt")
//
// Example:
//
//	client.WriteParameter("brewSetpoint", 94.5, "api")
func (c *Client) WriteParameter(field string, value any, source string) {
	if !c.IsConnected() {
		return
	}
	point, ok := parameterPoint(c.host, field, value, source, time.Now())
	if !ok {
		return
	}
	c.writeAPI.WritePoint(point)
}

// WriteEvent records a configuration lifecycle event.
//
// Parameters:
//   - kind: Event kind (e.g., "commit", "factory_reset")
//   - source: Who triggered it
//   - committed: Whether the event left the region durable
func (c *Client) WriteEvent(kind, source string, committed bool) {
	if !c.IsConnected() {
		return
	}
	c.writeAPI.WritePoint(eventPoint(c.host, kind, source, committed, time.Now()))
}

// WriteSnapshot writes every numeric parameter of values as one point.
// It is used after a whole-configuration save so the history has a full
// baseline.
func (c *Client) WriteSnapshot(values map[string]any, source string) {
	if !c.IsConnected() {
		return
	}
	point, ok := snapshotPoint(c.host, values, source, time.Now())
	if !ok {
		return
	}
	c.writeAPI.WritePoint(point)
}

func parameterPoint(host, field string, value any, source string, ts time.Time) (*write.Point, bool) {
	v, ok := numericValue(value)
	if !ok {
		return nil, false
	}
	return write.NewPoint(
		MeasurementParameter,
		map[string]string{
			"host":   host,
			"field":  field,
			"source": sourceTag(source),
		},
		map[string]interface{}{
			"value": v,
		},
		ts,
	), true
}

func eventPoint(host, kind, source string, committed bool, ts time.Time) *write.Point {
	return write.NewPoint(
		MeasurementEvent,
		map[string]string{
			"host":   host,
			"kind":   kind,
			"source": sourceTag(source),
		},
		map[string]interface{}{
			"committed": committed,
		},
		ts,
	)
}

func snapshotPoint(host string, values map[string]any, source string, ts time.Time) (*write.Point, bool) {
	fields := make(map[string]interface{}, len(values))
	for name, value := range values {
		if v, ok := numericValue(value); ok {
			fields[name] = v
		}
	}
	if len(fields) == 0 {
		return nil, false
	}
	return write.NewPoint(
		MeasurementParameter,
		map[string]string{
			"host":   host,
			"field":  "*",
			"source": sourceTag(source),
		},
		fields,
		ts,
	), true
}

// numericValue converts a stored parameter value to a float field.
func numericValue(value any) (float64, bool) {
	switch v := value.(type) {
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	default:
		return 0, false
	}
}

func sourceTag(source string) string {
	if source == "" {
		return "unknown"
	}
	return source
}
