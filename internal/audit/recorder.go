package audit

import (
	"context"

	"github.com/nerrad567/pidstore/internal/params"
	"github.com/nerrad567/pidstore/internal/storage"
)

// Actions recorded for storage changes.
const (
	ActionSet          = "set"
	ActionSave         = "save"
	ActionCommit       = "commit"
	ActionFactoryReset = "factory_reset"
)

// Entity types.
const (
	EntityParameter = "parameter"
	EntityConfig    = "config"
)

// queueSize is the buffer of the recorder. Entries beyond it are dropped
// to avoid back-pressure on the storing goroutine.
const queueSize = 256

// redacted replaces secret values in details.
const redacted = "[redacted]"

// Logger is the logging interface used by the Recorder.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Recorder turns storage changes into audit entries and writes them
// serially on its own goroutine, which suits SQLite's single writer.
type Recorder struct {
	repo   Repository
	queue  chan *AuditLog
	logger Logger
}

// NewRecorder creates a recorder writing to repo. Call Run to start it.
func NewRecorder(repo Repository, logger Logger) *Recorder {
	if logger == nil {
		logger = noopLogger{}
	}
	return &Recorder{
		repo:   repo,
		queue:  make(chan *AuditLog, queueSize),
		logger: logger,
	}
}

// Record enqueues the entry for c. It never blocks; when the queue is full
// the entry is dropped with a warning. Pass it to storage.Store.OnChange.
func (r *Recorder) Record(c storage.Change) {
	entry := FromChange(c)

	select {
	case r.queue <- entry:
	default:
		r.logger.Warn("audit queue full, dropping entry",
			"action", entry.Action,
			"entity_id", entry.EntityID,
		)
	}
}

// Run writes queued entries until ctx is cancelled, then drains what is
// left.
func (r *Recorder) Run(ctx context.Context) {
	for {
		select {
		case entry := <-r.queue:
			r.write(entry)
		case <-ctx.Done():
			for {
				select {
				case entry := <-r.queue:
					r.write(entry)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(entry *AuditLog) {
	// The caller's context may already be cancelled during shutdown.
	if err := r.repo.Create(context.Background(), entry); err != nil {
		r.logger.Error("audit log write failed",
			"action", entry.Action,
			"entity_id", entry.EntityID,
			"error", err,
		)
	}
}

// FromChange builds the audit entry for a storage change. Values of secret
// parameters are replaced with a placeholder.
func FromChange(c storage.Change) *AuditLog {
	entry := &AuditLog{
		EntityType: EntityConfig,
		Source:     c.Source,
		Details:    map[string]any{"committed": c.Committed},
	}
	if entry.Source == "" {
		entry.Source = "unknown"
	}

	switch c.Kind {
	case storage.ChangeItem:
		entry.Action = ActionSet
		entry.EntityType = EntityParameter
		entry.EntityID = c.Field
		value := c.Value
		if f, ok := params.FieldFor(c.Item); ok && f.Secret {
			value = redacted
		}
		entry.Details["value"] = value
	case storage.ChangeSnapshot:
		entry.Action = ActionSave
	case storage.ChangeCommit:
		entry.Action = ActionCommit
	case storage.ChangeReset:
		entry.Action = ActionFactoryReset
	default:
		entry.Action = string(c.Kind)
	}
	return entry
}
