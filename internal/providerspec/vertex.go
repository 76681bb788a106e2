package providerspec

import (
	"fmt"

	"github.com/siumai-go/siumai/internal/types"
)

// VertexMode selects Vertex AI's two URL shapes.
type VertexMode string

const (
	VertexEnterprise VertexMode = "enterprise"
	VertexExpress    VertexMode = "express"
)

// VertexBackend selects which Vertex endpoint suffix a call uses:
// Gemini's (":generateContent" / ":streamGenerateContent") or
// Anthropic-on-Vertex (":rawPredict" / ":streamRawPredict"). It changes
// only the URL; the request body is not rewritten for Anthropic-on-Vertex,
// so no "anthropic_version" field is injected and "model" is not removed.
type VertexBackend string

const (
	VertexBackendGemini    VertexBackend = "gemini"
	VertexBackendAnthropic VertexBackend = "anthropic"
)

// VertexSpec implements Spec for Google Vertex AI. It
// does not wrap GeminiSpec/AnthropicSpec by embedding — Vertex's URL
// shape is different enough (project/location-scoped, or express mode
// with a "key" query param) that a dedicated Endpoint is clearer, while
// the request/response/stream transformers are reused unmodified.
// Backend only changes the URL suffix; no transformer reads it.
type VertexSpec struct {
	Mode       VertexMode
	Backend    VertexBackend
	Project    string
	Location   string
	APIKey     string // express mode only
}

func NewVertexSpec(mode VertexMode, backend VertexBackend, project, location string) *VertexSpec {
	return &VertexSpec{Mode: mode, Backend: backend, Project: project, Location: location}
}

func (s *VertexSpec) ID() string { return "vertex" }

func (s *VertexSpec) BaseURL() string {
	if s.Mode == VertexExpress {
		return "https://aiplatform.googleapis.com/v1"
	}
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/v1beta1", s.Location)
}

func (s *VertexSpec) Endpoint(op Operation, req *types.ChatRequest, baseOverride string) (string, error) {
	if op != OpChat && op != OpChatStream {
		return "", fmt.Errorf("vertex: unsupported operation %q", op)
	}
	model := req.Common.Model
	suffix := vertexSuffix(s.Backend, op)

	base := s.BaseURL()
	if baseOverride != "" {
		base = baseOverride
	}

	if s.Mode == VertexExpress {
		url := fmt.Sprintf("%s/publishers/google/models/%s:%s", base, model, suffix)
		if s.APIKey != "" {
			url += "?key=" + s.APIKey
		}
		return url, nil
	}

	return fmt.Sprintf("%s/projects/%s/locations/%s/publishers/google/models/%s:%s",
		base, s.Project, s.Location, model, suffix), nil
}

func vertexSuffix(backend VertexBackend, op Operation) string {
	streaming := op == OpChatStream
	switch backend {
	case VertexBackendAnthropic:
		if streaming {
			return "streamRawPredict"
		}
		return "rawPredict"
	default:
		if streaming {
			return "streamGenerateContent?alt=sse"
		}
		return "generateContent"
	}
}

func (s *VertexSpec) BuildHeaders(apiKey string, extra map[string]string) map[string]string {
	base := map[string]string{"Content-Type": "application/json"}
	if s.Mode == VertexExpress && apiKey != "" {
		base["x-goog-api-key"] = apiKey
	}
	// Enterprise mode expects OAuth: caller supplies Authorization via extra.
	return mergeHeaders(base, extra)
}

func (s *VertexSpec) SSEDoneMarker() string { return "" }

// AnthropicVertexVersion is the fixed "anthropic_version" body field
// value Anthropic-on-Vertex expects in place of the header-based
// anthropic-version used by direct Anthropic calls. No request builder
// in this module writes it into a body.
const AnthropicVertexVersion = "vertex-2023-10-16"
