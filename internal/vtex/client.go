// Package vtex is a thin client for the commerce platform's catalog,
// pricing, checkout simulation and logistics APIs.
package vtex

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/kioskops/price-resolver/internal/config"
	"github.com/kioskops/price-resolver/internal/observability"
)

// Private APIs authenticate with a static app key/token header pair.
const (
	headerAppKey   = "X-VTEX-API-AppKey"
	headerAppToken = "X-VTEX-API-AppToken"
)

// Client talks to a single store account. It is safe for concurrent use;
// every call is a single attempt bounded by the configured timeout.
type Client struct {
	baseURL  string
	appKey   string
	appToken string
	http     *http.Client
}

// New creates a client for the account's stable commerce endpoint.
func New(cfg config.UpstreamConfig) *Client {
	return NewWithBaseURL(fmt.Sprintf("https://%s.vtexcommercestable.com.br", cfg.Account), cfg)
}

// NewWithBaseURL creates a client against an explicit base URL.
// Used by tests to point the client at a fake platform server.
func NewWithBaseURL(baseURL string, cfg config.UpstreamConfig) *Client {
	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		appKey:   cfg.AppKey,
		appToken: cfg.AppToken,
		http: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// do issues one request and records its duration. Transport-level failures
// (including timeouts) come back as *UpstreamError with Status zero.
func (c *Client) do(ctx context.Context, endpoint, method, path string, body io.Reader, authenticated bool) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, &UpstreamError{Endpoint: endpoint, Detail: err.Error()}
	}

	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authenticated {
		req.Header.Set(headerAppKey, c.appKey)
		req.Header.Set(headerAppToken, c.appToken)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		observability.UpstreamDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		return nil, &UpstreamError{Endpoint: endpoint, Detail: err.Error()}
	}
	observability.UpstreamDuration.WithLabelValues(endpoint, strconv.Itoa(resp.StatusCode)).Observe(time.Since(start).Seconds())

	return resp, nil
}

// decodeJSON decodes a 2xx body, converting decode failures into upstream errors.
func decodeJSON(endpoint string, resp *http.Response, v any) error {
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return &UpstreamError{
			Endpoint: endpoint,
			Status:   resp.StatusCode,
			Detail:   "malformed JSON payload: " + err.Error(),
		}
	}
	return nil
}

// upstreamStatusError builds an UpstreamError from a non-2xx response,
// keeping a bounded slice of the body for diagnosis.
func upstreamStatusError(endpoint string, resp *http.Response) *UpstreamError {
	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	return &UpstreamError{
		Endpoint: endpoint,
		Status:   resp.StatusCode,
		Detail:   strings.TrimSpace(string(detail)),
	}
}

func isSuccess(status int) bool {
	return status >= 200 && status < 300
}
