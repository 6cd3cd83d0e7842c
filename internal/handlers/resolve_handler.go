package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/kioskops/price-resolver/internal/models"
	"github.com/kioskops/price-resolver/internal/observability"
	"github.com/kioskops/price-resolver/internal/resolver"
	"github.com/kioskops/price-resolver/internal/vtex"
)

// Resolver resolves a scanned URL into a price/stock record.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (*models.ResolveResult, error)
}

// ResolveHandler handles POST /resolve
type ResolveHandler struct {
	resolver Resolver
	strategy string
	logger   *slog.Logger
}

// NewResolveHandler creates a new resolve handler
func NewResolveHandler(res Resolver, strategy string, logger *slog.Logger) *ResolveHandler {
	return &ResolveHandler{
		resolver: res,
		strategy: strategy,
		logger:   logger,
	}
}

// Resolve handles POST /resolve:
// - 200: resolved price (stock fields may be null)
// - 400: malformed body, disallowed domain, or no identifier in the URL
// - 404: unknown product or no price configured
// - 502: the platform call failed or returned unusable data
func (h *ResolveHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req models.ResolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("invalid request body", "error", err)
		h.writeError(w, http.StatusBadRequest, "invalid request body")
		h.observe("bad_request")
		return
	}
	if req.URL == "" {
		h.writeError(w, http.StatusBadRequest, "url is required")
		h.observe("bad_request")
		return
	}

	result, err := h.resolver.Resolve(ctx, req.URL)
	if err != nil {
		h.writeResolveError(w, req.URL, err)
		return
	}

	h.logger.Info("url resolved",
		"skuId", result.SKUID,
		"source", result.Source,
		"sellingPrice", result.SellingPrice,
	)
	h.writeJSON(w, http.StatusOK, result)
	h.observe("ok")
}

func (h *ResolveHandler) writeResolveError(w http.ResponseWriter, rawURL string, err error) {
	var badInput *resolver.BadInputError
	var notFound *vtex.NotFoundError
	var upstream *vtex.UpstreamError

	switch {
	case errors.As(err, &badInput):
		h.logger.Warn("rejected URL", "url", rawURL, "reason", badInput.Reason)
		h.writeError(w, http.StatusBadRequest, badInput.Reason)
		h.observe("bad_request")
	case errors.As(err, &notFound):
		h.logger.Info("product not found", "url", rawURL, "reason", notFound.Reason)
		h.writeError(w, http.StatusNotFound, notFound.Reason)
		h.observe("not_found")
	case errors.As(err, &upstream):
		h.logger.Error("upstream failure", "url", rawURL, "error", upstream)
		h.writeError(w, http.StatusBadGateway, upstream.Error())
		h.observe("upstream_error")
	default:
		h.logger.Error("failed to resolve url", "url", rawURL, "error", err)
		h.writeError(w, http.StatusInternalServerError, "Internal server error")
		h.observe("internal_error")
	}
}

func (h *ResolveHandler) observe(outcome string) {
	observability.ResolveTotal.WithLabelValues(h.strategy, outcome).Inc()
}

// writeJSON writes a JSON response
func (h *ResolveHandler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response", "error", err)
	}
}

// writeError writes an error response
func (h *ResolveHandler) writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	response := map[string]string{"error": message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("failed to encode error response", "error", err)
	}
}
