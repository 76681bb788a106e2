package ollama

import (
	"encoding/json"
	"fmt"

	"github.com/siumai-go/siumai/internal/embed"
)

type embedWireRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embedWireResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float32 `json:"embeddings"`
}

// BuildEmbedRequest builds Ollama's POST /api/embed body, which accepts
// a batch input array directly, unlike Gemini's single-content shape.
func BuildEmbedRequest(req *embed.Request) ([]byte, error) {
	return json.Marshal(embedWireRequest{Model: req.Model, Input: req.Input})
}

// ParseEmbedResponse parses Ollama's batch embeddings response.
func ParseEmbedResponse(body []byte) (*embed.Response, error) {
	var wire embedWireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("ollama: parse embed response: %w", err)
	}
	return &embed.Response{Model: wire.Model, Vectors: wire.Embeddings}, nil
}
