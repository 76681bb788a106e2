package gemini

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// StreamState tracks per-stream bookkeeping. Gemini sends the same JSON
// shape for every SSE event (unlike Anthropic's named events), so the
// only state worth keeping is whether StreamStart has already fired.
type StreamState struct {
	started bool
}

func NewStreamState() *StreamState { return &StreamState{} }

// StreamChunk parses one SSE data payload into zero or more normalized
// StreamEvents. Gemini occasionally emits a spurious "[DONE]" sentinel
// even though its protocol doesn't define one; callers should treat that
// payload as end-of-stream rather than routing it here.
func (s *StreamState) StreamChunk(data []byte) ([]types.StreamEvent, error) {
	var chunk Response
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "gemini", err)
	}

	var events []types.StreamEvent
	if !s.started {
		s.started = true
		events = append(events, types.StreamEvent{Kind: types.EventStreamStart, Model: chunk.ModelVersion, Provider: "gemini"})
	}

	if len(chunk.Candidates) > 0 {
		candidate := chunk.Candidates[0]

		for i, p := range candidate.Content.Parts {
			switch {
			case p.FunctionCall != nil:
				events = append(events, types.StreamEvent{
					Kind: types.EventToolCallDelta, ToolCallIndex: i,
					ToolName: p.FunctionCall.Name, ArgumentsDelta: string(p.FunctionCall.Args),
				})
			case p.Text != "":
				idx := i
				events = append(events, types.StreamEvent{Kind: types.EventContentDelta, Delta: p.Text, Index: &idx})
			}
		}

		if candidate.FinishReason != "" {
			reason := normalizeFinishReason(candidate.FinishReason, false)
			events = append(events, types.StreamEvent{
				Kind:     types.EventStreamEnd,
				Response: &types.ChatResponse{FinishReason: reason, Model: chunk.ModelVersion},
			})
		}
	}

	if chunk.UsageMetadata != nil {
		events = append(events, types.StreamEvent{Kind: types.EventUsageUpdate, Usage: &types.Usage{
			PromptTokens: chunk.UsageMetadata.PromptTokenCount, CompletionTokens: chunk.UsageMetadata.CandidatesTokenCount,
			TotalTokens: chunk.UsageMetadata.TotalTokenCount,
		}})
	}

	return events, nil
}
