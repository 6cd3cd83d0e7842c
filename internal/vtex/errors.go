package vtex

import "fmt"

// NotFoundError means the platform knows nothing usable about the product:
// unknown SKU, no catalog entry, or no price configured.
type NotFoundError struct {
	Reason string
}

func (e *NotFoundError) Error() string {
	return e.Reason
}

// UpstreamError means a platform call failed: non-2xx status, transport
// failure, timeout, or an unusable payload. Status is zero when no HTTP
// response was received.
type UpstreamError struct {
	Endpoint string
	Status   int
	Detail   string
}

func (e *UpstreamError) Error() string {
	if e.Status > 0 {
		return fmt.Sprintf("%s: upstream returned status %d: %s", e.Endpoint, e.Status, e.Detail)
	}
	return fmt.Sprintf("%s: upstream request failed: %s", e.Endpoint, e.Detail)
}
