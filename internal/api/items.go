package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nerrad567/pidstore/internal/params"
	"github.com/nerrad567/pidstore/internal/storage"
)

// ItemResponse is the body of GET and PUT /items/{name}.
type ItemResponse struct {
	Name      string `json:"name"`
	Value     any    `json:"value"`
	Committed bool   `json:"committed,omitempty"`
}

// putItemRequest is the body of PUT /items/{name}. Commit defaults to true.
type putItemRequest struct {
	Value  any   `json:"value"`
	Commit *bool `json:"commit"`
}

// handleGetItem returns the stored value of one field.
func (s *Server) handleGetItem(w http.ResponseWriter, r *http.Request) {
	f, ok := params.FieldByName(chi.URLParam(r, "name"))
	if !ok {
		writeNotFound(w, "unknown parameter")
		return
	}

	v, err := storage.ValueOf(s.store, f.Item)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if f.Secret {
		v = secretMask
	}
	writeJSON(w, http.StatusOK, ItemResponse{Name: f.Name, Value: v})
}

// handlePutItem writes one field. The value is range-checked against the
// field metadata before it reaches the store.
func (s *Server) handlePutItem(w http.ResponseWriter, r *http.Request) {
	f, ok := params.FieldByName(chi.URLParam(r, "name"))
	if !ok {
		writeNotFound(w, "unknown parameter")
		return
	}

	var req putItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Value == nil {
		writeBadRequest(w, "value is required")
		return
	}
	if err := checkItemValue(f, req.Value); err != nil {
		writeValidationError(w, err.Error())
		return
	}

	commit := req.Commit == nil || *req.Commit
	opts := []storage.SetOption{storage.WithSource(Source)}
	if commit {
		opts = append(opts, storage.WithCommit())
	}
	if err := storage.SetValue(s.store, f.Item, req.Value, opts...); err != nil {
		s.writeStoreError(w, err)
		return
	}

	v, err := storage.ValueOf(s.store, f.Item)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	if f.Secret {
		v = secretMask
	}
	writeJSON(w, http.StatusOK, ItemResponse{Name: f.Name, Value: v, Committed: commit})
}

// checkItemValue rejects JSON values outside the field bounds. Text is
// bounded by length; toggles take booleans or 0 and 1.
func checkItemValue(f params.Field, v any) error {
	switch x := v.(type) {
	case float64:
		if f.Type == params.TypeText {
			return fmt.Errorf("%s expects text", f.Name)
		}
		if !f.InRange(x) {
			return fmt.Errorf("%s = %v is outside %v..%v", f.Name, x, f.Min, f.Max)
		}
	case bool:
		if f.Type != params.TypeToggle {
			return fmt.Errorf("%s expects a number", f.Name)
		}
	case string:
		if f.Type != params.TypeText {
			return fmt.Errorf("%s expects a number", f.Name)
		}
		if f.Secret && x == secretMask {
			return fmt.Errorf("%s cannot be set to the mask", f.Name)
		}
		if !f.InRange(float64(len(x))) {
			return fmt.Errorf("%s must be at most %v bytes", f.Name, f.Max)
		}
	default:
		return fmt.Errorf("%s: unsupported value type %T", f.Name, v)
	}
	return nil
}
