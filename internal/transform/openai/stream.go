package openai

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Chunk is the wire shape of one Chat Completions SSE "data:" payload.
type Chunk struct {
	ID                string        `json:"id"`
	Model             string        `json:"model"`
	Choices           []ChunkChoice `json:"choices"`
	Usage             *RespUsage    `json:"usage"`
	SystemFingerprint string        `json:"system_fingerprint"`
}

type ChunkChoice struct {
	Delta        ChunkDelta `json:"delta"`
	FinishReason string     `json:"finish_reason"`
	Index        int        `json:"index"`
}

type ChunkDelta struct {
	Content          string          `json:"content"`
	ReasoningContent string          `json:"reasoning_content"`
	Thinking         string          `json:"thinking"`
	Reasoning        string          `json:"reasoning"`
	ToolCalls        []ChunkToolCall `json:"tool_calls"`
}

type ChunkToolCall struct {
	Index    int          `json:"index"`
	ID       string       `json:"id"`
	Function ToolCallFunc `json:"function"`
}

// StreamState tracks per-stream bookkeeping so StreamChunk emits a
// single StreamStart; usage and finish_reason are emitted per chunk as
// they arrive, not folded.
type StreamState struct {
	started         bool
	reasoningFields []string
}

// NewStreamState returns a fresh per-stream state. reasoningFields
// overrides the precedence order for compat presets; pass nil for the
// OpenAI default.
func NewStreamState(reasoningFields []string) *StreamState {
	return &StreamState{reasoningFields: reasoningFields}
}

// StreamChunk parses one SSE data payload into zero or more normalized
// StreamEvents. The caller is the streaming engine (internal/streaming),
// which owns overall lifecycle enforcement; this function only emits raw
// per-chunk events.
func (s *StreamState) StreamChunk(data []byte) ([]types.StreamEvent, error) {
	var chunk Chunk
	if err := json.Unmarshal(data, &chunk); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "openai", err)
	}

	var events []types.StreamEvent

	if !s.started {
		s.started = true
		events = append(events, types.StreamEvent{
			Kind: types.EventStreamStart, Model: chunk.Model, RequestID: chunk.ID, Provider: "openai",
		})
	}

	if len(chunk.Choices) > 0 {
		choice := chunk.Choices[0]

		if choice.Delta.Content != "" {
			idx := choice.Index
			events = append(events, types.StreamEvent{Kind: types.EventContentDelta, Delta: choice.Delta.Content, Index: &idx})
		}

		if think := firstNonEmpty(choice.Delta.ReasoningContent, choice.Delta.Thinking, choice.Delta.Reasoning, s.reasoningFields); think != "" {
			events = append(events, types.StreamEvent{Kind: types.EventThinkingDelta, Delta: think})
		}

		for _, tc := range choice.Delta.ToolCalls {
			events = append(events, types.StreamEvent{
				Kind: types.EventToolCallDelta, ToolCallIndex: tc.Index, CallID: tc.ID,
				ToolName: tc.Function.Name, ArgumentsDelta: tc.Function.Arguments,
			})
		}

		if choice.FinishReason != "" {
			reason := normalizeFinishReason(choice.FinishReason, false)
			events = append(events, types.StreamEvent{
				Kind: types.EventStreamEnd,
				Response: &types.ChatResponse{
					FinishReason: reason,
					Model:        chunk.Model,
					RequestID:    chunk.ID,
				},
			})
		}
	}

	if chunk.Usage != nil {
		usage := types.Usage{
			PromptTokens: chunk.Usage.PromptTokens, CompletionTokens: chunk.Usage.CompletionTokens,
			TotalTokens: chunk.Usage.TotalTokens,
		}
		if chunk.Usage.PromptTokensDetails != nil {
			c := chunk.Usage.PromptTokensDetails.CachedTokens
			usage.Cached = &c
		}
		if chunk.Usage.CompletionTokensDetails != nil {
			r := chunk.Usage.CompletionTokensDetails.ReasoningTokens
			usage.Reasoning = &r
		}
		events = append(events, types.StreamEvent{Kind: types.EventUsageUpdate, Usage: &usage})
	}

	return events, nil
}

// firstNonEmpty applies the same reasoning-field precedence as
// ParseResponse, but against a single delta fragment's three candidate
// fields rather than a full RespMessage.
func firstNonEmpty(reasoningContent, thinking, reasoning string, fields []string) string {
	if len(fields) == 0 {
		fields = []string{"reasoning_content", "thinking", "reasoning"}
	}
	for _, f := range fields {
		switch f {
		case "reasoning_content":
			if reasoningContent != "" {
				return reasoningContent
			}
		case "thinking":
			if thinking != "" {
				return thinking
			}
		case "reasoning":
			if reasoning != "" {
				return reasoning
			}
		}
	}
	return ""
}
