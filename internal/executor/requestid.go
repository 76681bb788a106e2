package executor

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// RequestIDHeader is the outbound header every call carries its
// allocated request id on.
const RequestIDHeader = "x-siumai-request-id"

// NewRequestID allocates a fresh per-call request id. uuid.NewString
// gives a lexicographically-opaque unique identifier; the module
// already depends on google/uuid, so reusing it avoids pulling in a
// dedicated ULID library for a purely cosmetic format difference.
func NewRequestID() string {
	return uuid.NewString()
}

// ExtractResponseRequestID prefers a request id echoed by the upstream
// response over the one we generated, reading x-request-id then
// x-openai-request-id.
func ExtractResponseRequestID(resp *http.Response, fallback string) string {
	if resp == nil {
		return fallback
	}
	if id := resp.Header.Get("x-request-id"); id != "" {
		return id
	}
	if id := resp.Header.Get("x-openai-request-id"); id != "" {
		return id
	}
	return fallback
}

// Traceparent builds a W3C traceparent header value for a request id,
// emitted only when SIUMAI_W3C_TRACE is enabled. version-00, a zeroed
// parent span id, and sampled flag is the minimal valid form — siumai
// does not implement full distributed tracing, only header propagation
// for callers who do.
func Traceparent(traceID string) string {
	hex := strings.ReplaceAll(traceID, "-", "")
	if len(hex) > 32 {
		hex = hex[:32]
	}
	for len(hex) < 32 {
		hex += "0"
	}
	return "00-" + hex + "-0000000000000000-01"
}
