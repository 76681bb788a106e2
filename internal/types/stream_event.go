package types

import (
	"encoding/json"
	"time"
)

// StreamEventKind tags which variant a StreamEvent holds. Consumers
// should switch on Kind rather than probe fields.
type StreamEventKind string

const (
	EventStreamStart   StreamEventKind = "stream_start"
	EventContentDelta  StreamEventKind = "content_delta"
	EventThinkingDelta StreamEventKind = "thinking_delta"
	EventToolCallDelta StreamEventKind = "tool_call_delta"
	EventUsageUpdate   StreamEventKind = "usage_update"
	EventStreamEnd     StreamEventKind = "stream_end"
	EventError         StreamEventKind = "error"
	EventCustom        StreamEventKind = "custom"
)

// StreamEvent is one normalized element of a chat stream. Fields outside
// of Kind's variant are left zero-valued.
type StreamEvent struct {
	Kind StreamEventKind

	// StreamStart
	Model     string
	RequestID string
	Provider  string
	CreatedAt *time.Time

	// ContentDelta / ThinkingDelta
	Delta string
	Index *int // ContentDelta only; nil means "no explicit index"

	// ToolCallDelta
	CallID          string // may be empty on non-first fragments
	ToolName        string // may be empty on non-first fragments
	ArgumentsDelta  string
	ToolCallIndex   int

	// UsageUpdate
	Usage *Usage

	// StreamEnd
	Response *ChatResponse

	// Error
	Err *Error

	// Custom
	EventType string // "<provider>:<kind>"
	Data      json.RawMessage
}
