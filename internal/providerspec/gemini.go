package providerspec

import (
	"fmt"

	"github.com/siumai-go/siumai/internal/types"
)

// GeminiSpec implements Spec for the Google Generative Language API.
// The model is encoded into the URL path, and streaming uses a
// distinct ":streamGenerateContent?alt=sse" suffix rather than a
// "stream": true body flag.
type GeminiSpec struct {
	Base string
}

func NewGeminiSpec() *GeminiSpec {
	return &GeminiSpec{Base: "https://generativelanguage.googleapis.com/v1beta"}
}

func (s *GeminiSpec) ID() string      { return "gemini" }
func (s *GeminiSpec) BaseURL() string { return s.Base }

func (s *GeminiSpec) Endpoint(op Operation, req *types.ChatRequest, baseOverride string) (string, error) {
	base := s.Base
	if baseOverride != "" {
		base = baseOverride
	}
	model := req.Common.Model
	switch op {
	case OpChat:
		return fmt.Sprintf("%s/models/%s:generateContent", base, model), nil
	case OpChatStream:
		return fmt.Sprintf("%s/models/%s:streamGenerateContent?alt=sse", base, model), nil
	case OpEmbed:
		return fmt.Sprintf("%s/models/%s:embedContent", base, model), nil
	default:
		return "", fmt.Errorf("gemini: unsupported operation %q", op)
	}
}

// BuildHeaders sets x-goog-api-key unless the caller already supplied
// Authorization (Vertex OAuth bearer tokens use that header instead).
func (s *GeminiSpec) BuildHeaders(apiKey string, extra map[string]string) map[string]string {
	base := map[string]string{"Content-Type": "application/json"}
	if _, hasAuth := extra["Authorization"]; !hasAuth {
		base["x-goog-api-key"] = apiKey
	}
	return mergeHeaders(base, extra)
}

// SSEDoneMarker: Gemini doesn't send one, so this returns "". A spurious
// "[DONE]" line is still tolerated: the executor ends the stream on a
// "[DONE]" payload for every spec instead of parsing it.
func (s *GeminiSpec) SSEDoneMarker() string { return "" }
