package openai

import (
	"encoding/json"
	"fmt"

	"github.com/siumai-go/siumai/internal/embed"
	"github.com/siumai-go/siumai/internal/types"
)

type embedWireRequest struct {
	Model      string   `json:"model"`
	Input      []string `json:"input"`
	Dimensions *int     `json:"dimensions,omitempty"`
}

type embedWireResponse struct {
	Model string `json:"model"`
	Data  []struct {
		Embedding []float32 `json:"embedding"`
		Index     int       `json:"index"`
	} `json:"data"`
	Usage struct {
		PromptTokens int `json:"prompt_tokens"`
		TotalTokens  int `json:"total_tokens"`
	} `json:"usage"`
}

// BuildEmbedRequest builds OpenAI's POST /embeddings body. Reused
// as-is by every OpenAI-compatible preset that advertises embedding
// support, the same way BuildRequest/ParseResponse are shared for chat.
func BuildEmbedRequest(req *embed.Request) ([]byte, error) {
	return json.Marshal(embedWireRequest{Model: req.Model, Input: req.Input, Dimensions: req.Dimensions})
}

// ParseEmbedResponse parses OpenAI's embeddings response, placing each
// vector at its reported Index so an out-of-order data array still
// lines up with the caller's original Input order.
func ParseEmbedResponse(body []byte) (*embed.Response, error) {
	var wire embedWireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("openai: parse embed response: %w", err)
	}
	vectors := make([][]float32, len(wire.Data))
	for _, d := range wire.Data {
		if d.Index >= 0 && d.Index < len(vectors) {
			vectors[d.Index] = d.Embedding
		}
	}
	return &embed.Response{
		Model:   wire.Model,
		Vectors: vectors,
		Usage: types.Usage{
			PromptTokens: wire.Usage.PromptTokens,
			TotalTokens:  wire.Usage.TotalTokens,
		},
	}, nil
}
