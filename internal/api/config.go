package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/nerrad567/pidstore/internal/params"
	"github.com/nerrad567/pidstore/internal/storage"
)

// secretMask replaces secret values in responses. Sent back unchanged in a
// document it keeps the stored value.
const secretMask = "********"

// FieldInfo is one entry of GET /config/fields.
type FieldInfo struct {
	Name        string           `json:"name"`
	DisplayName string           `json:"display_name"`
	Help        string           `json:"help,omitempty"`
	Type        params.FieldType `json:"type"`
	Section     string           `json:"section"`
	Position    int              `json:"position"`
	Min         float64          `json:"min"`
	Max         float64          `json:"max"`
	Step        float64          `json:"step,omitempty"`
	Unit        string           `json:"unit,omitempty"`
	Secret      bool             `json:"secret,omitempty"`
	Visible     bool             `json:"visible"`
	Value       any              `json:"value"`
}

// maskedValues returns the snapshot values keyed by field name with every
// secret field masked.
func maskedValues(snapshot *params.Snapshot) map[string]any {
	values := snapshot.Values()
	for _, f := range params.Fields() {
		if f.Secret {
			values[f.Name] = secretMask
		}
	}
	return values
}

// handleGetConfig returns the whole stored configuration.
func (s *Server) handleGetConfig(w http.ResponseWriter, _ *http.Request) {
	snapshot, err := s.store.LoadConfig()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, maskedValues(snapshot))
}

// handlePutConfig merges a full or partial document into the stored
// configuration and commits it.
//
// The body is checked against the configuration schema first; fields it
// leaves out keep their stored values. The merge and save run under the
// store lock in one write, so a rejected document changes nothing and item
// writes arriving meanwhile are not lost.
func (s *Server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeBadRequest(w, "reading request body failed")
		return
	}
	if err := params.ValidateDocument(body); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	var doc map[string]json.RawMessage
	if err := json.Unmarshal(body, &doc); err != nil {
		writeBadRequest(w, "request body must be a JSON object")
		return
	}
	dropMaskedSecrets(doc)

	merged, err := s.store.UpdateConfig(func(snapshot *params.Snapshot) error {
		return overlay(snapshot, doc)
	}, storage.WithSource(Source))
	if errors.Is(err, errBadDocument) {
		writeBadRequest(w, err.Error())
		return
	}
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, maskedValues(merged))
}

// dropMaskedSecrets removes secret fields that still carry the mask.
func dropMaskedSecrets(doc map[string]json.RawMessage) {
	for _, f := range params.Fields() {
		raw, ok := doc[f.Name]
		if !ok || !f.Secret {
			continue
		}
		var text string
		if json.Unmarshal(raw, &text) == nil && text == secretMask {
			delete(doc, f.Name)
		}
	}
}

// errBadDocument marks a PUT /config body that cannot be applied.
var errBadDocument = errors.New("invalid configuration document")

// overlay decodes doc onto snapshot by field name. Fields absent from doc
// are left alone.
func overlay(snapshot *params.Snapshot, doc map[string]json.RawMessage) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("%w: %w", errBadDocument, err)
	}
	if err := json.Unmarshal(data, snapshot); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return fmt.Errorf("%w: field %s has the wrong type", errBadDocument, typeErr.Field)
		}
		return fmt.Errorf("%w: %w", errBadDocument, err)
	}
	return nil
}

// handleListFields returns the field metadata in display order, with the
// current value and evaluated visibility of each field.
func (s *Server) handleListFields(w http.ResponseWriter, _ *http.Request) {
	snapshot, err := s.store.LoadConfig()
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	fields := params.Fields()
	out := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		visible, err := params.Visible(f, snapshot)
		if err != nil {
			s.logger.Warn("evaluating field visibility failed", "field", f.Name, "error", err)
			visible = true
		}
		info := FieldInfo{
			Name:        f.Name,
			DisplayName: f.DisplayName,
			Help:        f.Help,
			Type:        f.Type,
			Section:     f.Section.String(),
			Position:    f.Position,
			Min:         f.Min,
			Max:         f.Max,
			Step:        f.Step,
			Unit:        f.Unit,
			Secret:      f.Secret,
			Visible:     visible,
			Value:       snapshot.Get(f.Item),
		}
		if f.Secret {
			info.Value = secretMask
		}
		out = append(out, info)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"fields": out,
		"count":  len(out),
	})
}

// handleGetSchema returns the JSON Schema PUT /config bodies are checked
// against.
func (s *Server) handleGetSchema(w http.ResponseWriter, _ *http.Request) {
	schema, err := params.Schema()
	if err != nil {
		s.logger.Error("building configuration schema failed", "error", err)
		writeInternalError(w, "configuration schema unavailable")
		return
	}
	w.Header().Set("Content-Type", "application/schema+json")
	w.WriteHeader(http.StatusOK)
	//nolint:errcheck // Best-effort write to response; connection may be closed
	w.Write(schema)
}

// handleCommit makes pending item writes durable.
func (s *Server) handleCommit(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.Commit(storage.WithSource(Source)); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "committed"})
}

// handleSetDefaults replaces the configuration with the defaults.
func (s *Server) handleSetDefaults(w http.ResponseWriter, _ *http.Request) {
	if err := s.store.SetDefaults(storage.WithSource(Source)); err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "defaults"})
}
