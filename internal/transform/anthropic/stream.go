package anthropic

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Event is a lightweight wrapper for Anthropic's named SSE payloads,
// decoded once per "data:" line. Only the fields relevant to Type are
// populated, the same discriminated-union-by-zero-value discipline
// applied throughout this package.
type Event struct {
	Type string `json:"type"`

	Message *EventMessage `json:"message,omitempty"` // message_start

	Index        *int          `json:"index,omitempty"`         // content_block_start/delta/stop
	ContentBlock *ContentBlock `json:"content_block,omitempty"` // content_block_start
	Delta        *EventDelta   `json:"delta,omitempty"`         // content_block_delta, message_delta

	Usage *Usage `json:"usage,omitempty"` // message_delta

	Err *struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error,omitempty"` // error
}

type EventMessage struct {
	ID    string `json:"id"`
	Model string `json:"model"`
	Usage Usage  `json:"usage"`
}

// EventDelta carries different fields depending on which event it
// appears in:
//   - content_block_delta/text_delta: Text
//   - content_block_delta/input_json_delta: PartialJSON
//   - content_block_delta/thinking_delta: Thinking
//   - content_block_delta/signature_delta: Signature
//   - message_delta: StopReason
type EventDelta struct {
	Type        string `json:"type"`
	Text        string `json:"text,omitempty"`
	PartialJSON string `json:"partial_json,omitempty"`
	Thinking    string `json:"thinking,omitempty"`
	Signature   string `json:"signature,omitempty"`
	StopReason  string `json:"stop_reason,omitempty"`
}

// blockState tracks the content-block type opened at each index so a
// content_block_delta (which carries only an index) can be routed to the
// right StreamEvent kind.
type blockState struct {
	kind   string // "text" | "tool_use" | "thinking"
	callID string
	name   string
}

// StreamState tracks per-stream bookkeeping across named SSE events.
type StreamState struct {
	blocks map[int]*blockState
	model  string
	respID string
	input  int
}

func NewStreamState() *StreamState {
	return &StreamState{blocks: make(map[int]*blockState)}
}

// StreamEvent parses one decoded named event into zero or more
// normalized StreamEvents.
func (s *StreamState) StreamEvent(raw []byte) ([]types.StreamEvent, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "anthropic", err)
	}

	switch ev.Type {
	case "message_start":
		if ev.Message != nil {
			s.respID = ev.Message.ID
			s.model = ev.Message.Model
			s.input = ev.Message.Usage.InputTokens
		}
		return []types.StreamEvent{{
			Kind: types.EventStreamStart, Model: s.model, RequestID: s.respID, Provider: "anthropic",
		}}, nil

	case "content_block_start":
		if ev.Index == nil || ev.ContentBlock == nil {
			return nil, nil
		}
		st := &blockState{kind: ev.ContentBlock.Type}
		if ev.ContentBlock.Type == "tool_use" {
			st.callID = ev.ContentBlock.ID
			st.name = ev.ContentBlock.Name
		}
		s.blocks[*ev.Index] = st
		if ev.ContentBlock.Type == "tool_use" {
			return []types.StreamEvent{{
				Kind: types.EventToolCallDelta, ToolCallIndex: *ev.Index, CallID: st.callID, ToolName: st.name,
			}}, nil
		}
		return nil, nil

	case "content_block_delta":
		if ev.Index == nil || ev.Delta == nil {
			return nil, nil
		}
		st := s.blocks[*ev.Index]
		if st == nil {
			return nil, nil
		}
		switch st.kind {
		case "text":
			idx := *ev.Index
			return []types.StreamEvent{{Kind: types.EventContentDelta, Delta: ev.Delta.Text, Index: &idx}}, nil
		case "thinking":
			return []types.StreamEvent{{Kind: types.EventThinkingDelta, Delta: ev.Delta.Thinking}}, nil
		case "tool_use":
			return []types.StreamEvent{{Kind: types.EventToolCallDelta, ToolCallIndex: *ev.Index, ArgumentsDelta: ev.Delta.PartialJSON}}, nil
		}
		return nil, nil

	case "content_block_stop":
		return nil, nil

	case "message_delta":
		var events []types.StreamEvent
		var reason types.FinishReason
		if ev.Delta != nil && ev.Delta.StopReason != "" {
			reason = normalizeStopReason(ev.Delta.StopReason, s.hasToolUse())
		}
		var output int
		if ev.Usage != nil {
			output = ev.Usage.OutputTokens
		}
		events = append(events, types.StreamEvent{
			Kind: types.EventUsageUpdate,
			Usage: &types.Usage{
				PromptTokens: s.input, CompletionTokens: output, TotalTokens: s.input + output,
			},
		})
		if reason.Kind != "" {
			events = append(events, types.StreamEvent{
				Kind:     types.EventStreamEnd,
				Response: &types.ChatResponse{FinishReason: reason, Model: s.model, RequestID: s.respID},
			})
		}
		return events, nil

	case "message_stop":
		return nil, nil

	case "error":
		if ev.Err == nil {
			return nil, nil
		}
		return []types.StreamEvent{{
			Kind: types.EventError,
			Err:  types.NewError(types.KindProtocolError, "anthropic", ev.Err.Message),
		}}, nil

	default: // ping and any other event types carry nothing we need
		return nil, nil
	}
}

func (s *StreamState) hasToolUse() bool {
	for _, b := range s.blocks {
		if b.kind == "tool_use" {
			return true
		}
	}
	return false
}
