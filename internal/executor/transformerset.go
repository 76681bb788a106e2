package executor

import (
	"github.com/siumai-go/siumai/internal/types"
)

// FrameMode tells the executor how to split a streaming response body
// into individual frames before handing them to a StreamState: SSE's
// blank-line-delimited "data:" events, or Ollama's bare newline-delimited
// JSON objects.
type FrameMode int

const (
	FrameSSE FrameMode = iota
	FrameJSONLines
)

// StreamState folds one wire-level frame into zero or more normalized
// StreamEvents. Each transform family's own *StreamState type
// (openai.StreamState, anthropic.StreamState, ...) is adapted to this
// shape rather than sharing one concrete type, since their per-stream
// state and frame shapes differ.
type StreamState interface {
	Feed(frame []byte) ([]types.StreamEvent, error)
}

// TransformerSet is the duck-typed seam between the executor and a
// vendor's transform family. There is one implementation per wire
// protocol (openai, openairesp, anthropic, gemini, ollama) plus one generated per
// OpenAI-compatible preset (compat), rather than a generic
// TransformerSet[Req, Resp] — the executor only ever needs to produce a
// JSON body, parse a JSON response, and fold a stream, so an interface
// over those three operations is all the sharing that's needed.
type TransformerSet interface {
	BuildRequest(req *types.ChatRequest) (body interface{}, warnings []types.Warning, err error)
	ParseResponse(data []byte) (*types.ChatResponse, error)
	NewStreamState() StreamState
	FrameMode() FrameMode
}
