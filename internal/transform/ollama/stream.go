package ollama

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// StreamState tracks per-stream bookkeeping across JSON-lines chunks.
type StreamState struct {
	started bool
}

func NewStreamState() *StreamState { return &StreamState{} }

// StreamLine parses one JSON-lines chunk (not SSE — Ollama has no
// "data:" prefix or blank-line framing) into zero or more normalized
// StreamEvents.
func (s *StreamState) StreamLine(line []byte) ([]types.StreamEvent, error) {
	var chunk Response
	if err := json.Unmarshal(line, &chunk); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "ollama", err)
	}

	var events []types.StreamEvent
	if !s.started {
		s.started = true
		events = append(events, types.StreamEvent{Kind: types.EventStreamStart, Model: chunk.Model, Provider: "ollama"})
	}

	if chunk.Message.Content != "" {
		events = append(events, types.StreamEvent{Kind: types.EventContentDelta, Delta: chunk.Message.Content})
	}
	for i, tc := range chunk.Message.ToolCalls {
		events = append(events, types.StreamEvent{
			Kind: types.EventToolCallDelta, ToolCallIndex: i, ToolName: tc.Function.Name,
			ArgumentsDelta: string(tc.Function.Arguments),
		})
	}

	if chunk.Done {
		events = append(events, types.StreamEvent{Kind: types.EventUsageUpdate, Usage: &types.Usage{
			PromptTokens: chunk.PromptEvalCount, CompletionTokens: chunk.EvalCount,
			TotalTokens: chunk.PromptEvalCount + chunk.EvalCount,
		}})
		events = append(events, types.StreamEvent{
			Kind: types.EventStreamEnd,
			Response: &types.ChatResponse{
				Model:        chunk.Model,
				FinishReason: normalizeDoneReason(chunk.DoneReason, len(chunk.Message.ToolCalls) > 0),
			},
		})
	}

	return events, nil
}
