package paramsync

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/nerrad567/pidstore/internal/infrastructure/mqtt"
	"github.com/nerrad567/pidstore/internal/params"
	"github.com/nerrad567/pidstore/internal/storage"
)

// Source is the change source recorded for values set over MQTT.
const Source = "mqtt"

// queueSize bounds the pending state publications.
const queueSize = 64

// Client is the part of *mqtt.Client the bridge uses.
type Client interface {
	Publish(topic string, payload []byte, qos byte, retained bool) error
	Subscribe(topic string, qos byte, handler mqtt.MessageHandler) error
	Unsubscribe(topic string) error
}

// Logger defines the logging interface used by the bridge.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Options configures a Bridge.
type Options struct {
	Topics mqtt.Topics
	QoS    byte

	// Discovery publishes Home Assistant discovery documents on start.
	Discovery       bool
	DiscoveryPrefix string
	Device          Device
}

// Bridge mirrors the stored parameters onto MQTT.
//
// On start it publishes every exposed field, retained, to its state topic
// and subscribes to the command topics. A command is range-checked, stored
// and committed; the resulting change is published back as the new state.
//
// State publications run on the Run goroutine so message handlers never
// wait on the broker.
type Bridge struct {
	store  *storage.Store
	client Client
	opts   Options
	logger Logger

	queue  chan storage.Change
	resync atomic.Bool
}

// New creates a bridge between store and client.
func New(store *storage.Store, client Client, opts Options) *Bridge {
	return &Bridge{
		store:  store,
		client: client,
		opts:   opts,
		logger: noopLogger{},
		queue:  make(chan storage.Change, queueSize),
	}
}

// SetLogger sets the logger for the bridge.
func (b *Bridge) SetLogger(logger Logger) {
	b.logger = logger
}

// Run starts the bridge and publishes state changes until ctx is done.
// Register HandleChange with the store before calling Run.
func (b *Bridge) Run(ctx context.Context) error {
	if err := b.start(); err != nil {
		return err
	}
	defer func() {
		if err := b.client.Unsubscribe(b.opts.Topics.AllParamSets()); err != nil {
			b.logger.Debug("unsubscribe on shutdown failed", "error", err)
		}
	}()

	for {
		select {
		case c := <-b.queue:
			b.publishChange(c)
			if b.resync.Swap(false) {
				b.logPublishAll()
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func (b *Bridge) start() error {
	if b.opts.Discovery {
		if err := b.PublishDiscovery(); err != nil {
			b.logger.Warn("publishing discovery documents failed", "error", err)
		}
	}
	if err := b.PublishAll(); err != nil {
		b.logger.Warn("publishing parameters failed", "error", err)
	}

	topic := b.opts.Topics.AllParamSets()
	if err := b.client.Subscribe(topic, b.opts.QoS, b.HandleCommand); err != nil {
		return fmt.Errorf("subscribing to %s: %w", topic, err)
	}
	b.logger.Info("parameter sync started", "topic", topic)
	return nil
}

// HandleChange queues the publication of a storage change. It never
// blocks; if the queue is full every field is republished instead.
// Pass it to storage.Store.OnChange.
func (b *Bridge) HandleChange(c storage.Change) {
	if c.Kind == storage.ChangeCommit {
		return
	}
	select {
	case b.queue <- c:
	default:
		b.resync.Store(true)
	}
}

func (b *Bridge) publishChange(c storage.Change) {
	if c.Kind != storage.ChangeItem {
		b.logPublishAll()
		return
	}
	f, ok := params.FieldFor(c.Item)
	if !ok || !Exposed(f) {
		return
	}
	if err := b.publishValue(f, c.Value); err != nil {
		b.logger.Warn("publishing parameter failed", "field", f.Name, "error", err)
	}
}

func (b *Bridge) logPublishAll() {
	if err := b.PublishAll(); err != nil {
		b.logger.Warn("publishing parameters failed", "error", err)
	}
}

// PublishAll publishes the stored value of every exposed field. It keeps
// going after a failed field and returns the joined errors.
func (b *Bridge) PublishAll() error {
	var errs []error
	for _, f := range params.Fields() {
		if !Exposed(f) {
			continue
		}
		v, err := storage.ValueOf(b.store, f.Item)
		if err != nil {
			errs = append(errs, fmt.Errorf("reading %s: %w", f.Name, err))
			continue
		}
		if err := b.publishValue(f, v); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Bridge) publishValue(f params.Field, v any) error {
	payload, ok := FormatValue(v)
	if !ok {
		return fmt.Errorf("%s: cannot format %T", f.Name, v)
	}
	return b.client.Publish(b.opts.Topics.Param(f.Name), []byte(payload), b.opts.QoS, true)
}

// PublishDiscovery publishes the Home Assistant discovery document of
// every exposed field, retained.
func (b *Bridge) PublishDiscovery() error {
	entities, err := DiscoveryEntities(b.opts.Topics, b.opts.DiscoveryPrefix, b.opts.Device)
	if err != nil {
		return fmt.Errorf("building discovery documents: %w", err)
	}

	var errs []error
	for _, e := range entities {
		if err := b.client.Publish(e.Topic, e.Payload, b.opts.QoS, true); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// HandleCommand applies a value received on a command topic.
//
// Topics outside this machine's command space, unknown or read-only
// fields, and unparsable or out-of-range values are rejected with an error
// and leave the store unchanged. Accepted values are committed at once.
func (b *Bridge) HandleCommand(topic string, payload []byte) error {
	name, ok := b.opts.Topics.FieldFromSetTopic(topic)
	if !ok {
		return fmt.Errorf("%w: topic %s", ErrUnknownParameter, topic)
	}
	f, ok := params.FieldByName(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownParameter, name)
	}

	v, err := ParsePayload(f, payload)
	if err != nil {
		return err
	}

	b.logger.Debug("parameter command received", "field", f.Name, "value", v)
	if err := storage.SetFloat(b.store, f.Item, v, storage.WithCommit(), storage.WithSource(Source)); err != nil {
		return fmt.Errorf("storing %s: %w", f.Name, err)
	}
	return nil
}
