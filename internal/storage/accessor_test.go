package storage

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/nerrad567/pidstore/internal/params"
)

// Named types are accepted through the approximation constraint.
type celsius float64

func TestSetGet_EveryWidth(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s, _ := newTestStore(t, strategy)

			mustSet := func(err error) {
				t.Helper()
				if err != nil {
					t.Fatalf("Set() error = %v", err)
				}
			}

			mustSet(Set(s, params.PidOn, true))
			mustSet(Set(s, params.BrewSetpoint, 93.25))
			mustSet(Set(s, params.ScaleCalibration, float32(-1234.5)))
			mustSet(Set(s, params.BrewCounter, uint32(4242)))
			mustSet(Set(s, params.MQTTServerPort, uint16(8883)))
			mustSet(Set(s, params.DisplayBrightness, int8(45)))
			mustSet(Set(s, params.SteamTimeout, int16(900)))
			mustSet(Set(s, params.PidSampleTime, int32(250)))
			mustSet(Set(s, params.WifiSSID, "espresso-net"))
			mustSet(Set(s, params.SteamSetpoint, celsius(121.5)))

			if v, err := Get[bool](s, params.PidOn); err != nil || !v {
				t.Errorf("Get[bool](PidOn) = %v, %v", v, err)
			}
			if v, err := Get[uint8](s, params.PidOn); err != nil || v != 1 {
				t.Errorf("Get[uint8](PidOn) = %v, %v", v, err)
			}
			if v, err := Get[float64](s, params.BrewSetpoint); err != nil || v != 93.25 {
				t.Errorf("Get[float64](BrewSetpoint) = %v, %v", v, err)
			}
			if v, err := Get[float32](s, params.ScaleCalibration); err != nil || v != -1234.5 {
				t.Errorf("Get[float32](ScaleCalibration) = %v, %v", v, err)
			}
			if v, err := Get[uint32](s, params.BrewCounter); err != nil || v != 4242 {
				t.Errorf("Get[uint32](BrewCounter) = %v, %v", v, err)
			}
			if v, err := Get[uint16](s, params.MQTTServerPort); err != nil || v != 8883 {
				t.Errorf("Get[uint16](MQTTServerPort) = %v, %v", v, err)
			}
			if v, err := Get[int8](s, params.DisplayBrightness); err != nil || v != 45 {
				t.Errorf("Get[int8](DisplayBrightness) = %v, %v", v, err)
			}
			if v, err := Get[int16](s, params.SteamTimeout); err != nil || v != 900 {
				t.Errorf("Get[int16](SteamTimeout) = %v, %v", v, err)
			}
			if v, err := Get[int32](s, params.PidSampleTime); err != nil || v != 250 {
				t.Errorf("Get[int32](PidSampleTime) = %v, %v", v, err)
			}
			if v, err := Get[string](s, params.WifiSSID); err != nil || v != "espresso-net" {
				t.Errorf("Get[string](WifiSSID) = %q, %v", v, err)
			}
			if v, err := Get[celsius](s, params.SteamSetpoint); err != nil || v != 121.5 {
				t.Errorf("Get[celsius](SteamSetpoint) = %v, %v", v, err)
			}
		})
	}
}

func TestGet_UnwrittenReturnsDefault(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s, _ := newTestStore(t, strategy)
			if err := s.FactoryReset(); err != nil {
				t.Fatalf("FactoryReset() error = %v", err)
			}

			defaults := params.Defaults()
			for _, it := range params.Items() {
				if it.Reserved() {
					continue
				}
				got, err := ValueOf(s, it.ID)
				if err != nil {
					t.Errorf("ValueOf(%s) error = %v", it.Name, err)
					continue
				}
				if want := defaults.Get(it.ID); got != want {
					t.Errorf("ValueOf(%s) = %v, want default %v", it.Name, got, want)
				}
			}

			if v, _ := Get[float64](s, params.PidKpRegular); v != params.DefaultKp {
				t.Errorf("Get(PidKpRegular) = %v, want %v", v, params.DefaultKp)
			}
			if v, _ := Get[string](s, params.MQTTTopicPrefix); v != params.DefaultMQTTTopicPrefix {
				t.Errorf("Get(MQTTTopicPrefix) = %q, want %q", v, params.DefaultMQTTTopicPrefix)
			}
		})
	}
}

func TestSet_BlankPatternRejected(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s, _ := newTestStore(t, strategy)

			if err := Set(s, params.MQTTServerPort, uint16(1884)); err != nil {
				t.Fatalf("Set() error = %v", err)
			}

			tests := []struct {
				name string
				set  func() error
			}{
				{"uint16", func() error { return Set(s, params.MQTTServerPort, uint16(0xFFFF)) }},
				{"uint8", func() error { return Set(s, params.PidOn, uint8(0xFF)) }},
				{"int32", func() error { return Set(s, params.PidSampleTime, int32(-1)) }},
				{"uint32", func() error { return Set(s, params.BrewCounter, uint32(math.MaxUint32)) }},
				{"float64", func() error {
					return Set(s, params.BrewSetpoint, math.Float64frombits(math.MaxUint64))
				}},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					if err := tt.set(); !errors.Is(err, ErrInvalidValue) {
						t.Errorf("Set() error = %v, want ErrInvalidValue", err)
					}
				})
			}

			if v, _ := Get[uint16](s, params.MQTTServerPort); v != 1884 {
				t.Errorf("MQTTServerPort = %d after rejected write, want 1884", v)
			}
		})
	}
}

func TestSetGet_TypeMismatch(t *testing.T) {
	s, _ := newTestStore(t, StrategyDocument)

	if _, err := Get[float32](s, params.BrewSetpoint); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Get[float32](float64 item) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := Get[string](s, params.PidOn); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Get[string](toggle) error = %v, want ErrTypeMismatch", err)
	}
	if _, err := Get[uint8](s, params.WifiSSID); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Get[uint8](text) error = %v, want ErrTypeMismatch", err)
	}
	if err := Set(s, params.MQTTServerPort, int32(1883)); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("Set(int32 on uint16 item) error = %v, want ErrTypeMismatch", err)
	}
}

func TestSetGet_InvalidItem(t *testing.T) {
	s, _ := newTestStore(t, StrategyRaw)

	for _, id := range []params.ItemID{params.ItemCount, -1, params.Reserved29} {
		if _, err := Get[uint16](s, id); !errors.Is(err, ErrInvalidItem) {
			t.Errorf("Get(%d) error = %v, want ErrInvalidItem", id, err)
		}
		if err := Set(s, id, uint16(1)); !errors.Is(err, ErrInvalidItem) {
			t.Errorf("Set(%d) error = %v, want ErrInvalidItem", id, err)
		}
	}
}

func TestSet_TextTooLarge(t *testing.T) {
	for _, strategy := range strategies {
		t.Run(string(strategy), func(t *testing.T) {
			s, _ := newTestStore(t, strategy)

			fits := strings.Repeat("a", params.SSIDSize-1)
			if err := Set(s, params.WifiSSID, fits); err != nil {
				t.Fatalf("Set(%d bytes) error = %v", len(fits), err)
			}
			tooLong := strings.Repeat("b", params.SSIDSize)
			if err := Set(s, params.WifiSSID, tooLong); !errors.Is(err, ErrValueTooLarge) {
				t.Errorf("Set(%d bytes) error = %v, want ErrValueTooLarge", len(tooLong), err)
			}
			if v, _ := Get[string](s, params.WifiSSID); v != fits {
				t.Errorf("WifiSSID = %q after rejected write", v)
			}
		})
	}
}

func TestSet_NonFiniteFloat(t *testing.T) {
	doc, _ := newTestStore(t, StrategyDocument)
	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		if err := Set(doc, params.BrewSetpoint, f); !errors.Is(err, ErrInvalidValue) {
			t.Errorf("document Set(%v) error = %v, want ErrInvalidValue", f, err)
		}
	}
	if v, _ := Get[float64](doc, params.BrewSetpoint); v != params.DefaultBrewSetpoint {
		t.Errorf("BrewSetpoint = %v after rejected writes", v)
	}

	// The binary form stores any bit pattern except all-ones
	raw, _ := newTestStore(t, StrategyRaw)
	if err := Set(raw, params.BrewSetpoint, math.Inf(1)); err != nil {
		t.Fatalf("raw Set(+Inf) error = %v", err)
	}
	if v, _ := Get[float64](raw, params.BrewSetpoint); !math.IsInf(v, 1) {
		t.Errorf("raw BrewSetpoint = %v, want +Inf", v)
	}
}

func TestSet_WithCommitIsDurable(t *testing.T) {
	s, mem := newTestStore(t, StrategyDocument)
	before := mem.Commits()

	if err := Set(s, params.BrewSetpoint, 94.0); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if mem.Commits() != before {
		t.Error("Set() without WithCommit committed")
	}

	if err := Set(s, params.SteamSetpoint, 118.0, WithCommit()); err != nil {
		t.Fatalf("Set(WithCommit) error = %v", err)
	}
	if mem.Commits() != before+1 {
		t.Errorf("Commits() = %d, want %d", mem.Commits(), before+1)
	}
}

func TestSetFloat(t *testing.T) {
	s, _ := newTestStore(t, StrategyDocument)

	tests := []struct {
		name    string
		id      params.ItemID
		in      float64
		want    any
		wantErr error
	}{
		{"float64", params.BrewSetpoint, 92.5, 92.5, nil},
		{"toggle on", params.PidOn, 1, true, nil},
		{"toggle off", params.StandbyModeOn, 0, false, nil},
		{"uint16", params.MQTTServerPort, 1884, uint16(1884), nil},
		{"int8", params.DisplayBrightness, 70, int8(70), nil},
		{"float32", params.ScaleCalibration, 2000.5, float32(2000.5), nil},
		{"fraction in integer", params.MQTTServerPort, 1883.5, nil, ErrInvalidValue},
		{"out of width", params.DisplayBrightness, 300, nil, ErrInvalidValue},
		{"negative unsigned", params.BrewCounter, -1, nil, ErrInvalidValue},
		{"text item", params.WifiSSID, 1, nil, ErrTypeMismatch},
		{"reserved", params.Reserved28, 1, nil, ErrInvalidItem},
		{"nan", params.BrewSetpoint, math.NaN(), nil, ErrInvalidValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := SetFloat(s, tt.id, tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("SetFloat() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("SetFloat() error = %v", err)
			}
			got, err := ValueOf(s, tt.id)
			if err != nil || got != tt.want {
				t.Errorf("ValueOf() = %v (%T), %v; want %v (%T)", got, got, err, tt.want, tt.want)
			}
		})
	}
}

func TestSetValue(t *testing.T) {
	s, _ := newTestStore(t, StrategyDocument)

	if err := SetValue(s, params.MQTTOn, true); err != nil {
		t.Errorf("SetValue(bool) error = %v", err)
	}
	if err := SetValue(s, params.MQTTServerIP, "10.0.0.2"); err != nil {
		t.Errorf("SetValue(string) error = %v", err)
	}
	if err := SetValue(s, params.MQTTServerPort, float64(1885)); err != nil {
		t.Errorf("SetValue(float64 on uint16) error = %v", err)
	}
	if err := SetValue(s, params.BrewSetpoint, true); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("SetValue(bool on float) error = %v, want ErrTypeMismatch", err)
	}
	if err := SetValue(s, params.PidOn, "yes"); !errors.Is(err, ErrTypeMismatch) {
		t.Errorf("SetValue(string on toggle) error = %v, want ErrTypeMismatch", err)
	}

	snapshot, err := s.LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if !snapshot.MQTTOn || snapshot.MQTTServerIP != "10.0.0.2" || snapshot.MQTTServerPort != 1885 {
		t.Errorf("snapshot = %+v", snapshot)
	}
}
