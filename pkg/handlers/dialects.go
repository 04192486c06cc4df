package handlers

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"github.com/dataprobe-io/probe-engine/pkg/dialect"
	"github.com/dataprobe-io/probe-engine/pkg/engines"
)

// DialectsHandler exposes the compiled-in dialects and engine pool
// statistics, so callers can tell which datasource types this build
// supports.
type DialectsHandler struct {
	manager *engines.Manager
	logger  *zap.Logger
}

// NewDialectsHandler creates a DialectsHandler.
func NewDialectsHandler(manager *engines.Manager, logger *zap.Logger) *DialectsHandler {
	return &DialectsHandler{manager: manager, logger: logger}
}

// RegisterRoutes registers the handler's routes on the given mux.
func (h *DialectsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/dialects", h.List)
	mux.HandleFunc("/v1/engines/stats", h.Stats)
}

// List handles GET /v1/dialects requests.
func (h *DialectsHandler) List(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(dialect.Registered()); err != nil {
		h.logger.Error("failed to encode dialects response", zap.Error(err))
	}
}

// Stats handles GET /v1/engines/stats requests.
func (h *DialectsHandler) Stats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.manager.GetStats()); err != nil {
		h.logger.Error("failed to encode stats response", zap.Error(err))
	}
}
