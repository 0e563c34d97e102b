package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/nerrad567/pidstore/internal/storage"
)

// factoryResetConfirm must be sent verbatim to reset the region.
const factoryResetConfirm = "FACTORY RESET"

// FactoryResetRequest is the request body for POST /config/factory-reset.
type FactoryResetRequest struct {
	Confirm string `json:"confirm"`

	// SeedDefaults saves the default configuration after the erase.
	// Without it every item reads its default but the region stays
	// invalid until the next save.
	SeedDefaults bool `json:"seed_defaults"`
}

// handleFactoryReset erases the region and commits it. An exact confirmation string is required.
func (s *Server) handleFactoryReset(w http.ResponseWriter, r *http.Request) {
	var req FactoryResetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, "invalid JSON body")
		return
	}
	if req.Confirm != factoryResetConfirm {
		writeBadRequest(w, `confirm field must be exactly "FACTORY RESET"`)
		return
	}

	if err := s.store.FactoryReset(storage.WithSource(Source)); err != nil {
		s.writeStoreError(w, err)
		return
	}
	if req.SeedDefaults {
		if err := s.store.SetDefaults(storage.WithSource(Source)); err != nil {
			s.writeStoreError(w, err)
			return
		}
	}

	s.logger.Warn("factory reset via API",
		"seed_defaults", req.SeedDefaults,
		"subject", r.Context().Value(ctxKeySubject),
	)
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "reset",
		"seed_defaults": req.SeedDefaults,
	})
}

// handleSystemStatus reports the store lifecycle, the active strategy and
// the committed database regions.
func (s *Server) handleSystemStatus(w http.ResponseWriter, r *http.Request) {
	guard := s.store.Guard()
	status := map[string]any{
		"version":        s.version,
		"uptime_seconds": int64(time.Since(s.started).Seconds()),
		"store": map[string]any{
			"state":       s.store.State(),
			"strategy":    s.store.Strategy(),
			"capacity":    s.store.Capacity(),
			"layout_size": s.store.Layout().Size(),
			"valid":       s.store.Validate(),
			"commits":     guard.Count(),
			"committing":  guard.Active(),
		},
		"websocket_clients": s.hub.ClientCount(),
	}

	if s.regions != nil {
		regions, err := s.regions.Regions(r.Context())
		if err != nil {
			s.logger.Warn("listing regions failed", "error", err)
		} else {
			status["regions"] = regions
		}
	}

	writeJSON(w, http.StatusOK, status)
}
