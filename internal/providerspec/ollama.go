package providerspec

import (
	"fmt"

	"github.com/siumai-go/siumai/internal/types"
)

// OllamaSpec implements Spec for a local Ollama server. Ollama needs no
// auth and streams JSON-lines rather than SSE.
type OllamaSpec struct {
	Base string
}

func NewOllamaSpec() *OllamaSpec {
	return &OllamaSpec{Base: "http://localhost:11434"}
}

func (s *OllamaSpec) ID() string      { return "ollama" }
func (s *OllamaSpec) BaseURL() string { return s.Base }

func (s *OllamaSpec) Endpoint(op Operation, req *types.ChatRequest, baseOverride string) (string, error) {
	base := s.Base
	if baseOverride != "" {
		base = baseOverride
	}
	switch op {
	case OpChat, OpChatStream:
		return base + "/api/chat", nil
	case OpEmbed:
		return base + "/api/embed", nil
	default:
		return "", fmt.Errorf("ollama: unsupported operation %q", op)
	}
}

func (s *OllamaSpec) BuildHeaders(apiKey string, extra map[string]string) map[string]string {
	return mergeHeaders(map[string]string{"Content-Type": "application/json"}, extra)
}

func (s *OllamaSpec) SSEDoneMarker() string { return "" }
