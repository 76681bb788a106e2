package types

import "encoding/json"

// FinishReason is the normalized end-of-generation cause. Other carries
// the vendor's raw value when it doesn't map cleanly onto the closed set.
type FinishReason struct {
	Kind FinishReasonKind
	Raw  string // populated when Kind == FinishOther
}

type FinishReasonKind string

const (
	FinishStop          FinishReasonKind = "stop"
	FinishLength         FinishReasonKind = "length"
	FinishToolCalls      FinishReasonKind = "tool_calls"
	FinishContentFilter  FinishReasonKind = "content_filter"
	FinishError          FinishReasonKind = "error"
	FinishOther          FinishReasonKind = "other"
)

// Usage is token accounting for one request. Cached and Reasoning are
// pointers because vendors that don't report them must leave the field
// absent rather than claim zero usage.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Cached           *int
	Reasoning        *int
}

// Warning is a non-fatal, portable-code diagnostic surfaced alongside a
// response instead of failing the call.
type Warning struct {
	Code     string
	Message  string
	Provider string
}

// ChatResponse is the unified, non-streaming (or stream-folded) result of
// a chat completion.
type ChatResponse struct {
	Content         MessageContent
	FinishReason    FinishReason
	Usage           Usage
	ToolCalls       []ToolCall
	Thinking        string
	ProviderMetadata map[string]json.RawMessage
	RequestID       string
	Model           string
	Warnings        []Warning
}

// ContentText returns the concatenated text of Content.
func (r *ChatResponse) ContentText() string {
	return r.Content.Text()
}
