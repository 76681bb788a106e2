package streaming

import (
	"encoding/json"
	"io"

	"github.com/siumai-go/siumai/internal/types"
)

// UnsupportedPartBehavior governs what the bridge does with a
// StreamEvent kind the target wire protocol has no native shape for
// (e.g. a ThinkingDelta re-serialized to plain OpenAI Chat Completions,
// which has no reasoning channel).
type UnsupportedPartBehavior int

const (
	// Drop silently omits events the target protocol can't represent.
	Drop UnsupportedPartBehavior = iota
	// AsText folds unsupported events into the nearest text channel
	// instead of dropping them.
	AsText
)

// TargetWire names a re-serialization target for the gateway bridge.
type TargetWire string

const (
	WireOpenAIChat      TargetWire = "openai_chat"
	WireOpenAIResponses TargetWire = "openai_responses"
	WireAnthropic       TargetWire = "anthropic"
	WireGemini          TargetWire = "gemini"
)

// Bridge re-serializes a normalized StreamEvent sequence into a target
// vendor's SSE wire shape, so a gateway client speaking any one of the
// four supported protocols can consume a stream that was actually
// produced by a different upstream provider. This generalizes
// internal/stream/stream.go's Write function from "always emit OpenAI
// Chat Completions shape" to "emit whichever shape the caller asked
// for."
type Bridge struct {
	target   TargetWire
	behavior UnsupportedPartBehavior
	index    int

	// anthropicBlocksOpen tracks which tool-call indices already had a
	// content_block_start emitted, so later ToolCallDelta fragments only
	// emit content_block_delta.
	anthropicBlocksOpen map[int]bool
	// anthropicPendingUsage holds the most recent UsageUpdate so it can be
	// folded into the same message_delta frame as the stop_reason instead
	// of producing a second, spurious usage event on reparse.
	anthropicPendingUsage *types.Usage
}

func NewBridge(target TargetWire, behavior UnsupportedPartBehavior) *Bridge {
	return &Bridge{target: target, behavior: behavior, anthropicBlocksOpen: make(map[int]bool)}
}

// Emit writes one re-serialized SSE event for ev to w, or nothing if the
// target protocol has no representation and behavior is Drop.
func (b *Bridge) Emit(w io.Writer, ev types.StreamEvent) error {
	switch b.target {
	case WireOpenAIChat:
		return b.emitOpenAIChat(w, ev)
	case WireOpenAIResponses:
		return b.emitOpenAIResponses(w, ev)
	case WireAnthropic:
		return b.emitAnthropic(w, ev)
	case WireGemini:
		return b.emitGemini(w, ev)
	default:
		return types.NewError(types.KindInvalidParameter, "", "unknown bridge target "+string(b.target))
	}
}

// Done writes the target protocol's stream-termination sentinel.
func (b *Bridge) Done(w io.Writer) error {
	switch b.target {
	case WireOpenAIChat:
		_, err := io.WriteString(w, "data: [DONE]\n\n")
		return err
	default:
		// OpenAI Responses ends on its response.completed event;
		// Anthropic/Gemini terminate by closing the connection.
		return nil
	}
}

type chatChunk struct {
	ID      string          `json:"id"`
	Object  string          `json:"object"`
	Model   string          `json:"model"`
	Choices []chatChunkChoice `json:"choices"`
	Usage   *chatUsage      `json:"usage,omitempty"`
}

type chatChunkChoice struct {
	Index        int         `json:"index"`
	Delta        chatDelta   `json:"delta"`
	FinishReason *string     `json:"finish_reason"`
}

type chatDelta struct {
	Content   string                `json:"content,omitempty"`
	ToolCalls []chatToolCallDelta   `json:"tool_calls,omitempty"`
}

type chatToolCallDelta struct {
	Index    int                   `json:"index"`
	ID       string                `json:"id,omitempty"`
	Type     string                `json:"type,omitempty"`
	Function *chatToolCallFunction `json:"function,omitempty"`
}

type chatToolCallFunction struct {
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`
}

type chatUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatErrorEvent struct {
	Error chatErrorBody `json:"error"`
}

type chatErrorBody struct {
	Message string `json:"message"`
	Type    string `json:"type,omitempty"`
}

func (b *Bridge) emitOpenAIChat(w io.Writer, ev types.StreamEvent) error {
	switch ev.Kind {
	case types.EventStreamStart:
		return nil // OpenAI Chat Completions has no dedicated start event
	case types.EventContentDelta:
		return writeJSON(w, chatChunk{ID: ev.RequestID, Object: "chat.completion.chunk", Model: ev.Model, Choices: []chatChunkChoice{{Delta: chatDelta{Content: ev.Delta}}}})
	case types.EventThinkingDelta:
		if b.behavior == AsText {
			return writeJSON(w, chatChunk{Choices: []chatChunkChoice{{Delta: chatDelta{Content: ev.Delta}}}})
		}
		return nil
	case types.EventToolCallDelta:
		delta := chatToolCallDelta{Index: ev.ToolCallIndex, Function: &chatToolCallFunction{Arguments: ev.ArgumentsDelta}}
		if ev.CallID != "" {
			delta.ID = ev.CallID
			delta.Type = "function"
		}
		if ev.ToolName != "" {
			delta.Function.Name = ev.ToolName
		}
		return writeJSON(w, chatChunk{Choices: []chatChunkChoice{{Delta: chatDelta{ToolCalls: []chatToolCallDelta{delta}}}}})
	case types.EventUsageUpdate:
		if ev.Usage == nil {
			return nil
		}
		// OpenAI sends a trailing chunk with an empty choices array and the
		// usage totals when stream_options.include_usage is set; this is
		// distinct from the finish_reason chunk.
		return writeJSON(w, chatChunk{Choices: []chatChunkChoice{}, Usage: &chatUsage{
			PromptTokens: ev.Usage.PromptTokens, CompletionTokens: ev.Usage.CompletionTokens, TotalTokens: ev.Usage.TotalTokens,
		}})
	case types.EventError:
		if ev.Err == nil {
			return nil
		}
		return writeJSON(w, chatErrorEvent{Error: chatErrorBody{Message: ev.Err.Message, Type: string(ev.Err.Kind)}})
	case types.EventCustom:
		if b.behavior != AsText {
			return nil
		}
		return writeJSON(w, chatChunk{Choices: []chatChunkChoice{{Delta: chatDelta{Content: string(ev.Data)}}}})
	case types.EventStreamEnd:
		reason := "stop"
		if ev.Response != nil && ev.Response.FinishReason.Kind != "" {
			reason = string(ev.Response.FinishReason.Kind)
		}
		chunk := chatChunk{Choices: []chatChunkChoice{{FinishReason: &reason}}}
		if ev.Response != nil {
			chunk.Usage = &chatUsage{
				PromptTokens: ev.Response.Usage.PromptTokens, CompletionTokens: ev.Response.Usage.CompletionTokens,
				TotalTokens: ev.Response.Usage.TotalTokens,
			}
		}
		return writeJSON(w, chunk)
	default:
		return nil
	}
}

type respEvent struct {
	Type  string `json:"type"`
	Delta string `json:"delta,omitempty"`
}

// respOutputItem is the "item" payload of a response.output_item.added
// event; only the function_call shape is populated here since that's the
// only hosted item kind the bridge originates.
type respOutputItem struct {
	Type   string `json:"type"`
	ID     string `json:"id,omitempty"`
	CallID string `json:"call_id,omitempty"`
	Name   string `json:"name,omitempty"`
}

type respItemEvent struct {
	Type        string          `json:"type"`
	OutputIndex int             `json:"output_index"`
	Item        *respOutputItem `json:"item,omitempty"`
}

type respArgsDeltaEvent struct {
	Type        string `json:"type"`
	OutputIndex int    `json:"output_index"`
	Delta       string `json:"delta,omitempty"`
}

// respUsageEvent is a non-standard event type ("response.usage") the
// bridge emits so a UsageUpdate can round-trip as its own event instead
// of being folded into response.completed, which the Responses stream
// parser (internal/transform/openairesp) treats as terminal.
type respUsageEvent struct {
	Type  string     `json:"type"`
	Usage *respUsage `json:"usage,omitempty"`
}

type respUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

type respErrorEvent struct {
	Type  string       `json:"type"`
	Error respErrorBody `json:"error"`
}

type respErrorBody struct {
	Message string `json:"message"`
}

func (b *Bridge) emitOpenAIResponses(w io.Writer, ev types.StreamEvent) error {
	switch ev.Kind {
	case types.EventStreamStart:
		return WriteSSE(w, "response.created", mustMarshal(respEvent{Type: "response.created"}))
	case types.EventContentDelta:
		return WriteSSE(w, "response.output_text.delta", mustMarshal(respEvent{Type: "response.output_text.delta", Delta: ev.Delta}))
	case types.EventThinkingDelta:
		if b.behavior != AsText {
			return nil
		}
		return WriteSSE(w, "response.reasoning_summary_text.delta", mustMarshal(respEvent{Type: "response.reasoning_summary_text.delta", Delta: ev.Delta}))
	case types.EventToolCallDelta:
		if ev.CallID != "" || ev.ToolName != "" {
			item := respOutputItem{Type: "function_call", ID: ev.CallID, CallID: ev.CallID, Name: ev.ToolName}
			if err := WriteSSE(w, "response.output_item.added", mustMarshal(respItemEvent{
				Type: "response.output_item.added", OutputIndex: ev.ToolCallIndex, Item: &item,
			})); err != nil {
				return err
			}
		}
		if ev.ArgumentsDelta == "" {
			return nil
		}
		return WriteSSE(w, "response.function_call_arguments.delta", mustMarshal(respArgsDeltaEvent{
			Type: "response.function_call_arguments.delta", OutputIndex: ev.ToolCallIndex, Delta: ev.ArgumentsDelta,
		}))
	case types.EventUsageUpdate:
		if ev.Usage == nil {
			return nil
		}
		return WriteSSE(w, "response.usage", mustMarshal(respUsageEvent{Type: "response.usage", Usage: &respUsage{
			InputTokens: ev.Usage.PromptTokens, OutputTokens: ev.Usage.CompletionTokens, TotalTokens: ev.Usage.TotalTokens,
		}}))
	case types.EventError:
		if ev.Err == nil {
			return nil
		}
		return WriteSSE(w, "error", mustMarshal(respErrorEvent{Type: "error", Error: respErrorBody{Message: ev.Err.Message}}))
	case types.EventCustom:
		if b.behavior != AsText {
			return nil
		}
		return WriteSSE(w, "response.output_text.delta", mustMarshal(respEvent{Type: "response.output_text.delta", Delta: string(ev.Data)}))
	case types.EventStreamEnd:
		return WriteSSE(w, "response.completed", mustMarshal(respEvent{Type: "response.completed"}))
	default:
		return nil
	}
}

type anthropicDeltaEvent struct {
	Type  string `json:"type"`
	Index int    `json:"index"`
	Delta struct {
		Type        string `json:"type"`
		Text        string `json:"text,omitempty"`
		PartialJSON string `json:"partial_json,omitempty"`
	} `json:"delta"`
}

type anthropicBlockStartEvent struct {
	Type         string                  `json:"type"`
	Index        int                     `json:"index"`
	ContentBlock anthropicContentBlock   `json:"content_block"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
}

type anthropicMessageDeltaEvent struct {
	Type  string `json:"type"`
	Delta struct {
		StopReason string `json:"stop_reason,omitempty"`
	} `json:"delta"`
	Usage *anthropicUsageWire `json:"usage,omitempty"`
}

type anthropicUsageWire struct {
	OutputTokens int `json:"output_tokens"`
}

type anthropicErrorEvent struct {
	Type  string            `json:"type"`
	Error anthropicErrorBody `json:"error"`
}

type anthropicErrorBody struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// anthropicStopReason maps a normalized FinishReason back to one of
// Anthropic's stop_reason strings.
func anthropicStopReason(kind types.FinishReasonKind) string {
	switch kind {
	case types.FinishLength:
		return "max_tokens"
	case types.FinishToolCalls:
		return "tool_use"
	case types.FinishContentFilter:
		return "stop_sequence"
	default:
		return "end_turn"
	}
}

func (b *Bridge) emitAnthropic(w io.Writer, ev types.StreamEvent) error {
	switch ev.Kind {
	case types.EventStreamStart:
		return WriteSSE(w, "message_start", mustMarshal(map[string]string{"type": "message_start"}))
	case types.EventContentDelta:
		event := anthropicDeltaEvent{Type: "content_block_delta", Index: b.index}
		event.Delta.Type = "text_delta"
		event.Delta.Text = ev.Delta
		return WriteSSE(w, "content_block_delta", mustMarshal(event))
	case types.EventToolCallDelta:
		if !b.anthropicBlocksOpen[ev.ToolCallIndex] {
			start := anthropicBlockStartEvent{
				Type: "content_block_start", Index: ev.ToolCallIndex,
				ContentBlock: anthropicContentBlock{Type: "tool_use", ID: ev.CallID, Name: ev.ToolName},
			}
			if err := WriteSSE(w, "content_block_start", mustMarshal(start)); err != nil {
				return err
			}
			b.anthropicBlocksOpen[ev.ToolCallIndex] = true
		}
		if ev.ArgumentsDelta == "" {
			return nil
		}
		event := anthropicDeltaEvent{Type: "content_block_delta", Index: ev.ToolCallIndex}
		event.Delta.Type = "input_json_delta"
		event.Delta.PartialJSON = ev.ArgumentsDelta
		return WriteSSE(w, "content_block_delta", mustMarshal(event))
	case types.EventUsageUpdate:
		// Buffered rather than emitted immediately: a standalone
		// message_delta always produces a UsageUpdate on reparse
		// (internal/transform/anthropic/stream.go), so two frames here
		// would double it. Folded into the stop_reason frame instead.
		if ev.Usage != nil {
			u := *ev.Usage
			b.anthropicPendingUsage = &u
		}
		return nil
	case types.EventError:
		if ev.Err == nil {
			return nil
		}
		return WriteSSE(w, "error", mustMarshal(anthropicErrorEvent{
			Type: "error", Error: anthropicErrorBody{Type: string(ev.Err.Kind), Message: ev.Err.Message},
		}))
	case types.EventCustom:
		if b.behavior != AsText {
			return nil
		}
		event := anthropicDeltaEvent{Type: "content_block_delta", Index: b.index}
		event.Delta.Type = "text_delta"
		event.Delta.Text = string(ev.Data)
		return WriteSSE(w, "content_block_delta", mustMarshal(event))
	case types.EventStreamEnd:
		reason := types.FinishStop
		if ev.Response != nil && ev.Response.FinishReason.Kind != "" {
			reason = ev.Response.FinishReason.Kind
		}
		delta := anthropicMessageDeltaEvent{Type: "message_delta"}
		delta.Delta.StopReason = anthropicStopReason(reason)
		if b.anthropicPendingUsage != nil {
			delta.Usage = &anthropicUsageWire{OutputTokens: b.anthropicPendingUsage.CompletionTokens}
			b.anthropicPendingUsage = nil
		} else if ev.Response != nil {
			delta.Usage = &anthropicUsageWire{OutputTokens: ev.Response.Usage.CompletionTokens}
		}
		if err := WriteSSE(w, "message_delta", mustMarshal(delta)); err != nil {
			return err
		}
		return WriteSSE(w, "message_stop", mustMarshal(map[string]string{"type": "message_stop"}))
	default:
		return nil
	}
}

type geminiPartEvent struct {
	Candidates    []geminiCandidate    `json:"candidates,omitempty"`
	UsageMetadata *geminiUsageMetadata `json:"usageMetadata,omitempty"`
}

type geminiCandidate struct {
	Content      geminiContent `json:"content"`
	FinishReason string        `json:"finishReason,omitempty"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text         string              `json:"text,omitempty"`
	FunctionCall *geminiFunctionCall `json:"functionCall,omitempty"`
}

type geminiFunctionCall struct {
	Name string `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type geminiUsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

func (b *Bridge) emitGemini(w io.Writer, ev types.StreamEvent) error {
	switch ev.Kind {
	case types.EventContentDelta:
		return WriteSSE(w, "", mustMarshal(geminiPartEvent{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: ev.Delta}}},
		}}}))
	case types.EventToolCallDelta:
		if ev.ArgumentsDelta == "" && ev.ToolName == "" {
			return nil
		}
		return WriteSSE(w, "", mustMarshal(geminiPartEvent{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{
				FunctionCall: &geminiFunctionCall{Name: ev.ToolName, Args: json.RawMessage(ev.ArgumentsDelta)},
			}}},
		}}}))
	case types.EventUsageUpdate:
		if ev.Usage == nil {
			return nil
		}
		return WriteSSE(w, "", mustMarshal(geminiPartEvent{UsageMetadata: &geminiUsageMetadata{
			PromptTokenCount: ev.Usage.PromptTokens, CandidatesTokenCount: ev.Usage.CompletionTokens, TotalTokenCount: ev.Usage.TotalTokens,
		}}))
	case types.EventError:
		// Unlike Custom parts, Error is a terminal control event the spec
		// requires to always round-trip, so it isn't gated by behavior: a
		// text-part fold is the only representation Gemini's wire shape has
		// for it regardless of policy.
		if ev.Err == nil {
			return nil
		}
		return WriteSSE(w, "", mustMarshal(geminiPartEvent{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: ev.Err.Message}}},
		}}}))
	case types.EventCustom:
		if b.behavior != AsText {
			return nil
		}
		return WriteSSE(w, "", mustMarshal(geminiPartEvent{Candidates: []geminiCandidate{{
			Content: geminiContent{Parts: []geminiPart{{Text: string(ev.Data)}}},
		}}}))
	case types.EventStreamEnd:
		return WriteSSE(w, "", mustMarshal(geminiPartEvent{Candidates: []geminiCandidate{{FinishReason: "STOP"}}}))
	default:
		return nil
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	return WriteSSE(w, "", mustMarshal(v))
}

func mustMarshal(v interface{}) string {
	b, _ := json.Marshal(v)
	return string(b)
}
