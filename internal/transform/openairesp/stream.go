package openairesp

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Event is a lightweight wrapper for the Responses API's named SSE
// payloads, decoded once per "data:" line. Only the fields relevant to
// Type are populated.
type Event struct {
	Type string `json:"type"`

	Response *EventResponse `json:"response,omitempty"` // response.created/completed/incomplete/failed

	ItemID       string      `json:"item_id,omitempty"`
	OutputIndex  *int        `json:"output_index,omitempty"`
	Item         *OutputItem `json:"item,omitempty"` // response.output_item.added/done

	Delta string `json:"delta,omitempty"` // output_text.delta, function_call_arguments.delta, reasoning_summary_text.delta

	Err *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"` // error

	Usage *RespUsage `json:"usage,omitempty"` // response.usage (gateway re-serialization only)
}

type EventResponse struct {
	ID    string     `json:"id"`
	Model string     `json:"model"`
	Status string    `json:"status"`
	Usage *RespUsage `json:"usage"`
}

// StreamState tracks per-stream bookkeeping across named SSE events:
// which output_index is a function call (so arguments deltas route to
// the right call_id/name), and the response id/model once known.
type StreamState struct {
	started  bool
	model    string
	respID   string
	calls    map[int]*pendingCall
}

type pendingCall struct {
	callID string
	name   string
}

func NewStreamState() *StreamState {
	return &StreamState{calls: make(map[int]*pendingCall)}
}

// StreamEvent parses one decoded named event into zero or more
// normalized StreamEvents.
func (s *StreamState) StreamEvent(raw []byte) ([]types.StreamEvent, error) {
	var ev Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "openai-responses", err)
	}

	switch ev.Type {
	case "response.created":
		if ev.Response != nil {
			s.respID = ev.Response.ID
			s.model = ev.Response.Model
		}
		if s.started {
			return nil, nil
		}
		s.started = true
		return []types.StreamEvent{{
			Kind: types.EventStreamStart, Model: s.model, RequestID: s.respID, Provider: "openai-responses",
		}}, nil

	case "response.output_item.added":
		if ev.Item != nil && ev.Item.Type == "function_call" && ev.OutputIndex != nil {
			s.calls[*ev.OutputIndex] = &pendingCall{callID: ev.Item.CallID, name: ev.Item.Name}
			return []types.StreamEvent{{
				Kind: types.EventToolCallDelta, ToolCallIndex: *ev.OutputIndex,
				CallID: ev.Item.CallID, ToolName: ev.Item.Name,
			}}, nil
		}
		return nil, nil

	case "response.output_text.delta":
		if ev.OutputIndex == nil {
			return []types.StreamEvent{{Kind: types.EventContentDelta, Delta: ev.Delta}}, nil
		}
		idx := *ev.OutputIndex
		return []types.StreamEvent{{Kind: types.EventContentDelta, Delta: ev.Delta, Index: &idx}}, nil

	case "response.reasoning_summary_text.delta":
		return []types.StreamEvent{{Kind: types.EventThinkingDelta, Delta: ev.Delta}}, nil

	case "response.function_call_arguments.delta":
		if ev.OutputIndex == nil {
			return nil, nil
		}
		call := s.calls[*ev.OutputIndex]
		if call == nil {
			call = &pendingCall{}
		}
		return []types.StreamEvent{{
			Kind: types.EventToolCallDelta, ToolCallIndex: *ev.OutputIndex,
			CallID: call.callID, ArgumentsDelta: ev.Delta,
		}}, nil

	case "response.usage":
		// Not part of the real Responses API (usage normally arrives
		// nested in response.completed); the gateway bridge emits this
		// standalone so a mid-stream UsageUpdate round-trips as its own
		// event instead of being swallowed by the terminal completion.
		if ev.Usage == nil {
			return nil, nil
		}
		u := ev.Usage
		usage := types.Usage{PromptTokens: u.InputTokens, CompletionTokens: u.OutputTokens, TotalTokens: u.TotalTokens}
		return []types.StreamEvent{{Kind: types.EventUsageUpdate, Usage: &usage}}, nil

	case "response.completed", "response.incomplete", "response.failed":
		var hasToolCalls bool
		for range s.calls {
			hasToolCalls = true
			break
		}
		status := strippedStatus(ev.Type)
		resp := &types.ChatResponse{
			Model: s.model, RequestID: s.respID,
			FinishReason: normalizeStatus(status, hasToolCalls),
		}
		var events []types.StreamEvent
		if ev.Response != nil && ev.Response.Usage != nil {
			u := ev.Response.Usage
			usage := types.Usage{PromptTokens: u.InputTokens, CompletionTokens: u.OutputTokens, TotalTokens: u.TotalTokens}
			if u.InputTokensDetails != nil {
				c := u.InputTokensDetails.CachedTokens
				usage.Cached = &c
			}
			if u.OutputTokensDetails != nil {
				r := u.OutputTokensDetails.ReasoningTokens
				usage.Reasoning = &r
			}
			events = append(events, types.StreamEvent{Kind: types.EventUsageUpdate, Usage: &usage})
			resp.Usage = usage
		}
		events = append(events, types.StreamEvent{Kind: types.EventStreamEnd, Response: resp})
		return events, nil

	case "error":
		msg := "responses stream error"
		if ev.Err != nil && ev.Err.Message != "" {
			msg = ev.Err.Message
		}
		return []types.StreamEvent{{
			Kind: types.EventError,
			Err:  types.NewError(types.KindProtocolError, "openai-responses", msg),
		}}, nil
	}

	return nil, nil
}

func strippedStatus(eventType string) string {
	switch eventType {
	case "response.completed":
		return "completed"
	case "response.incomplete":
		return "incomplete"
	case "response.failed":
		return "failed"
	default:
		return ""
	}
}
