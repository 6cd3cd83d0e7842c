package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// HealthHandler provides health check endpoint
type HealthHandler struct {
	domain       string
	salesChannel string
	logger       *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(domain, salesChannel string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		domain:       domain,
		salesChannel: salesChannel,
		logger:       logger,
	}
}

// HealthResponse reports the store this deployment serves.
type HealthResponse struct {
	OK           bool   `json:"ok"`
	Domain       string `json:"domain"`
	SalesChannel string `json:"sc"`
}

// ServeHTTP handles health check requests
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	response := HealthResponse{
		OK:           true,
		Domain:       h.domain,
		SalesChannel: h.salesChannel,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode health response", "error", err)
	}
}
