package mqtt

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/pidstore/internal/infrastructure/config"
)

// testConfig returns an MQTT configuration for a local Mosquitto broker at
// 127.0.0.1:1883.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "pidstore-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
	}
}

var testTopics = NewTopics("test/pidstore.", "silvia")

// connectOrSkip connects to the local broker or skips the test when none
// is running.
func connectOrSkip(t *testing.T, clientID string) *Client {
	t.Helper()

	cfg := testConfig()
	cfg.Broker.ClientID = clientID
	client, err := Connect(cfg, testTopics, nil)
	if err != nil {
		t.Skipf("no MQTT broker at %s:%d: %v", cfg.Broker.Host, cfg.Broker.Port, err)
	}
	t.Cleanup(func() { client.Close() }) //nolint:errcheck // Test cleanup
	return client
}

// =============================================================================
// Topic Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		got      string
		expected string
	}{
		{"Base", testTopics.Base(), "test/pidstore.silvia"},
		{"Param", testTopics.Param("brewSetpoint"), "test/pidstore.silvia/brewSetpoint"},
		{"ParamSet", testTopics.ParamSet("pidOn"), "test/pidstore.silvia/pidOn/set"},
		{"AllParamSets", testTopics.AllParamSets(), "test/pidstore.silvia/+/set"},
		{"Status", testTopics.Status(), "test/pidstore.silvia/status"},
		{"Discovery", Discovery("homeassistant", ComponentNumber, "pidstore-silvia-brewSetpoint"),
			"homeassistant/number/pidstore-silvia-brewSetpoint/config"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %q, want %q", tt.got, tt.expected)
			}
		})
	}
}

func TestFieldFromSetTopic(t *testing.T) {
	tests := []struct {
		topic  string
		want   string
		wantOK bool
	}{
		{"test/pidstore.silvia/brewSetpoint/set", "brewSetpoint", true},
		{"test/pidstore.silvia/brewSetpoint", "", false},
		{"test/pidstore.silvia//set", "", false},
		{"test/pidstore.silvia/a/b/set", "", false},
		{"test/pidstore.gaggia/brewSetpoint/set", "", false},
		{"other/brewSetpoint/set", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.topic, func(t *testing.T) {
			got, ok := testTopics.FieldFromSetTopic(tt.topic)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("FieldFromSetTopic(%q) = %q, %v; want %q, %v", tt.topic, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

// =============================================================================
// Option Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.MQTTAuthConfig{Username: "svc", Password: "svc-pass"}

	opts := buildClientOptions(cfg, nil)
	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v", opts.Servers)
	}
	if opts.ClientID != "pidstore-test" {
		t.Errorf("ClientID = %q", opts.ClientID)
	}
	if opts.Username != "svc" || opts.Password != "svc-pass" {
		t.Errorf("credentials = %q/%q, want config auth", opts.Username, opts.Password)
	}

	// Stored credentials win over the service config
	opts = buildClientOptions(cfg, &Credentials{Username: "barista", Password: "crema"})
	if opts.Username != "barista" || opts.Password != "crema" {
		t.Errorf("credentials = %q/%q, want stored", opts.Username, opts.Password)
	}

	cfg.Broker.TLS = true
	opts = buildClientOptions(cfg, nil)
	if opts.Servers[0].Scheme != "ssl" {
		t.Errorf("scheme = %q, want ssl", opts.Servers[0].Scheme)
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLS config not set")
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig(), nil)
	configureLWT(opts, testTopics.Status())

	if !opts.WillEnabled || opts.WillTopic != testTopics.Status() {
		t.Errorf("will = %v on %q", opts.WillEnabled, opts.WillTopic)
	}
	if string(opts.WillPayload) != StatusOffline || !opts.WillRetained {
		t.Errorf("will payload = %q retained = %v", opts.WillPayload, opts.WillRetained)
	}
}

// =============================================================================
// Handler Tests
// =============================================================================

type fakeMessage struct {
	topic   string
	payload []byte
}

func (m fakeMessage) Duplicate() bool   { return false }
func (m fakeMessage) Qos() byte         { return 1 }
func (m fakeMessage) Retained() bool    { return false }
func (m fakeMessage) Topic() string     { return m.topic }
func (m fakeMessage) MessageID() uint16 { return 1 }
func (m fakeMessage) Payload() []byte   { return m.payload }
func (m fakeMessage) Ack()              {}

type recordingLogger struct {
	mu   sync.Mutex
	msgs []string
}

func (l *recordingLogger) Error(msg string, _ ...any) { l.add(msg) }
func (l *recordingLogger) Warn(msg string, _ ...any)  { l.add(msg) }
func (l *recordingLogger) add(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.msgs = append(l.msgs, msg)
}

func TestWrapHandler(t *testing.T) {
	c := &Client{}
	logger := &recordingLogger{}
	c.SetLogger(logger)

	var got string
	wrapped := c.wrapHandler(func(topic string, payload []byte) error {
		got = topic + "=" + string(payload)
		return errors.New("out of range")
	})
	wrapped(nil, fakeMessage{topic: "a/b/set", payload: []byte("94")})
	if got != "a/b/set=94" {
		t.Errorf("handler saw %q", got)
	}

	panicking := c.wrapHandler(func(string, []byte) error { panic("boom") })
	panicking(nil, fakeMessage{topic: "a/b/set"})

	if len(logger.msgs) != 2 {
		t.Errorf("logged %v, want handler error and recovered panic", logger.msgs)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}
	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on unconnected client error = %v", err)
	}
}

func TestValidationBeforeConnect(t *testing.T) {
	client := &Client{subscriptions: make(map[string]subscription)}

	if err := client.Publish("", nil, 1, false); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Publish(empty) error = %v, want ErrInvalidTopic", err)
	}
	if err := client.Publish("t", nil, 3, false); !errors.Is(err, ErrInvalidQoS) {
		t.Errorf("Publish(qos 3) error = %v, want ErrInvalidQoS", err)
	}
	if err := client.Publish("t", make([]byte, maxPayloadSize+1), 1, false); !errors.Is(err, ErrPublishFailed) {
		t.Errorf("Publish(oversize) error = %v, want ErrPublishFailed", err)
	}
	if err := client.Publish("t", nil, 1, false); !errors.Is(err, ErrNotConnected) {
		t.Errorf("Publish(disconnected) error = %v, want ErrNotConnected", err)
	}
	if err := client.Subscribe("t", 1, nil); !errors.Is(err, ErrSubscribeFailed) {
		t.Errorf("Subscribe(nil handler) error = %v, want ErrSubscribeFailed", err)
	}
	if err := client.Unsubscribe(""); !errors.Is(err, ErrInvalidTopic) {
		t.Errorf("Unsubscribe(empty) error = %v, want ErrInvalidTopic", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := client.HealthCheck(ctx); err == nil {
		t.Error("HealthCheck() with cancelled context should fail")
	}
	if err := client.HealthCheck(context.Background()); !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

// =============================================================================
// Broker Tests (skipped without a local broker)
// =============================================================================

func TestPublishSubscribeRoundtrip(t *testing.T) {
	pub := connectOrSkip(t, "pidstore-test-pub")
	sub := connectOrSkip(t, "pidstore-test-sub")

	received := make(chan string, 4)
	err := sub.Subscribe(testTopics.AllParamSets(), 1, func(topic string, payload []byte) error {
		field, ok := testTopics.FieldFromSetTopic(topic)
		if !ok {
			return fmt.Errorf("unexpected topic %s", topic)
		}
		received <- field + "=" + string(payload)
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if tracked(sub) != 1 {
		t.Error("subscription not tracked")
	}

	time.Sleep(100 * time.Millisecond)

	if err := pub.Publish(testTopics.ParamSet("brewSetpoint"), []byte("94.5"), 1, false); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	select {
	case got := <-received:
		if got != "brewSetpoint=94.5" {
			t.Errorf("received %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("message not received")
	}

	if err := sub.Unsubscribe(testTopics.AllParamSets()); err != nil {
		t.Errorf("Unsubscribe() error = %v", err)
	}
	if tracked(sub) != 0 {
		t.Error("subscription still tracked after Unsubscribe")
	}
}

// tracked returns the number of subscriptions restored on reconnect.
func tracked(c *Client) int {
	c.subMu.RLock()
	defer c.subMu.RUnlock()
	return len(c.subscriptions)
}

func TestStatusRetained(t *testing.T) {
	connectOrSkip(t, "pidstore-test-status")
	observer := connectOrSkip(t, "pidstore-test-observer")

	status := make(chan string, 1)
	err := observer.Subscribe(testTopics.Status(), 1, func(_ string, payload []byte) error {
		select {
		case status <- string(payload):
		default:
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}

	select {
	case got := <-status:
		if got != StatusOnline && got != StatusOffline {
			t.Errorf("status payload = %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("retained status not received")
	}
}
