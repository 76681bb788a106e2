package gemini

import (
	"encoding/json"
	"fmt"

	"github.com/siumai-go/siumai/internal/embed"
)

type embedWireRequest struct {
	Model   string          `json:"model"`
	Content embedWireContent `json:"content"`
}

type embedWireContent struct {
	Parts []embedWirePart `json:"parts"`
}

type embedWirePart struct {
	Text string `json:"text"`
}

type embedWireResponse struct {
	Embedding struct {
		Values []float32 `json:"values"`
	} `json:"embedding"`
}

// BuildEmbedRequest builds Gemini's POST .../models/{model}:embedContent
// body. Gemini embeds a single piece of content per call, unlike
// OpenAI's batch-input shape, so only req.Input[0] is sent; callers with
// multiple inputs issue one embed call per input.
func BuildEmbedRequest(req *embed.Request) ([]byte, error) {
	var text string
	if len(req.Input) > 0 {
		text = req.Input[0]
	}
	return json.Marshal(embedWireRequest{
		Model:   "models/" + req.Model,
		Content: embedWireContent{Parts: []embedWirePart{{Text: text}}},
	})
}

// ParseEmbedResponse parses Gemini's single-vector embedContent response.
func ParseEmbedResponse(body []byte) (*embed.Response, error) {
	var wire embedWireResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("gemini: parse embed response: %w", err)
	}
	return &embed.Response{Vectors: [][]float32{wire.Embedding.Values}}, nil
}
