package influxdb

import (
	"testing"
	"time"
)

var testTime = time.Date(2026, 10, 17, 8, 30, 0, 0, time.UTC)

func TestNumericValue(t *testing.T) {
	tests := []struct {
		name   string
		value  any
		want   float64
		wantOK bool
	}{
		{"true", true, 1, true},
		{"false", false, 0, true},
		{"float64", 94.5, 94.5, true},
		{"float32", float32(0.5), 0.5, true},
		{"int8", int8(-3), -3, true},
		{"int16", int16(60), 60, true},
		{"int32", int32(1000), 1000, true},
		{"uint8", uint8(7), 7, true},
		{"uint16", uint16(1883), 1883, true},
		{"uint32", uint32(4242), 4242, true},
		{"text", "silvia", 0, false},
		{"nil", nil, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := numericValue(tt.value)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("numericValue(%v) = %v, %v; want %v, %v", tt.value, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestParameterPoint(t *testing.T) {
	point, ok := parameterPoint("silvia", "brewSetpoint", 94.5, "api", testTime)
	if !ok {
		t.Fatal("parameterPoint() skipped a float")
	}
	if point.Name() != MeasurementParameter {
		t.Errorf("Name() = %q, want %q", point.Name(), MeasurementParameter)
	}

	tags := map[string]string{}
	for _, tag := range point.TagList() {
		tags[tag.Key] = tag.Value
	}
	want := map[string]string{"host": "silvia", "field": "brewSetpoint", "source": "api"}
	for k, v := range want {
		if tags[k] != v {
			t.Errorf("tag %s = %q, want %q", k, tags[k], v)
		}
	}

	fields := point.FieldList()
	if len(fields) != 1 || fields[0].Key != "value" || fields[0].Value != 94.5 {
		t.Errorf("fields = %+v, want value=94.5", fields)
	}
	if !point.Time().Equal(testTime) {
		t.Errorf("Time() = %v, want %v", point.Time(), testTime)
	}

	if _, ok := parameterPoint("silvia", "wifiPassword", "secret", "api", testTime); ok {
		t.Error("parameterPoint() wrote a text parameter")
	}
}

func TestParameterPoint_UnknownSource(t *testing.T) {
	point, _ := parameterPoint("silvia", "pidOn", true, "", testTime)
	for _, tag := range point.TagList() {
		if tag.Key == "source" && tag.Value != "unknown" {
			t.Errorf("source tag = %q, want unknown", tag.Value)
		}
	}
}

func TestEventPoint(t *testing.T) {
	point := eventPoint("silvia", "factory_reset", "api", true, testTime)
	if point.Name() != MeasurementEvent {
		t.Errorf("Name() = %q", point.Name())
	}
	fields := point.FieldList()
	if len(fields) != 1 || fields[0].Key != "committed" || fields[0].Value != true {
		t.Errorf("fields = %+v, want committed=true", fields)
	}
}

func TestSnapshotPoint(t *testing.T) {
	values := map[string]any{
		"brewSetpoint": 95.0,
		"pidOn":        false,
		"wifiSSID":     "kitchen",
		"brewCounter":  uint32(12),
	}

	point, ok := snapshotPoint("silvia", values, "setup", testTime)
	if !ok {
		t.Fatal("snapshotPoint() returned no point")
	}
	got := map[string]any{}
	for _, f := range point.FieldList() {
		got[f.Key] = f.Value
	}
	if len(got) != 3 {
		t.Errorf("fields = %v, want the three numeric values", got)
	}
	if _, ok := got["wifiSSID"]; ok {
		t.Error("text field written")
	}
	if got["brewCounter"] != 12.0 {
		t.Errorf("brewCounter = %v, want 12", got["brewCounter"])
	}

	if _, ok := snapshotPoint("silvia", map[string]any{"wifiSSID": "x"}, "", testTime); ok {
		t.Error("snapshotPoint() with no numeric values returned a point")
	}
}

func TestWritesWhenDisconnected(t *testing.T) {
	var c *Client
	c.WriteParameter("brewSetpoint", 94.0, "api")
	c.WriteEvent("commit", "api", true)
	c.WriteSnapshot(map[string]any{"pidOn": true}, "api")
	if err := c.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
}
