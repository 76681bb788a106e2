package anthropic

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Response is the wire shape of a non-streaming /v1/messages result.
type Response struct {
	ID         string         `json:"id"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason"`
	Usage      Usage          `json:"usage"`
}

type Usage struct {
	InputTokens              int `json:"input_tokens"`
	OutputTokens             int `json:"output_tokens"`
	CacheReadInputTokens     int `json:"cache_read_input_tokens"`
	CacheCreationInputTokens int `json:"cache_creation_input_tokens"`
}

// ParseResponse decodes an Anthropic Messages body into a unified
// ChatResponse, extracting text, tool_use, and thinking blocks.
func ParseResponse(data []byte) (*types.ChatResponse, error) {
	var wire Response
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "anthropic", err)
	}

	resp := &types.ChatResponse{
		Model:        wire.Model,
		RequestID:    wire.ID,
		FinishReason: normalizeStopReason(wire.StopReason, false),
	}

	var parts []types.ContentPart
	for _, block := range wire.Content {
		switch block.Type {
		case "text":
			parts = append(parts, types.ContentPart{Kind: types.ContentText, Text: block.Text})
		case "tool_use":
			resp.ToolCalls = append(resp.ToolCalls, types.ToolCall{
				ID: block.ID, Name: block.Name, Arguments: string(block.Input),
			})
		case "thinking":
			resp.Thinking += block.Thinking
		}
	}
	if len(parts) > 0 {
		resp.Content = types.NewMultiContent(parts...)
	}
	if len(resp.ToolCalls) > 0 {
		resp.FinishReason = normalizeStopReason(wire.StopReason, true)
	}

	resp.Usage = types.Usage{
		PromptTokens:     wire.Usage.InputTokens,
		CompletionTokens: wire.Usage.OutputTokens,
		TotalTokens:      wire.Usage.InputTokens + wire.Usage.OutputTokens,
	}
	if wire.Usage.CacheReadInputTokens > 0 {
		c := wire.Usage.CacheReadInputTokens
		resp.Usage.Cached = &c
	}

	return resp, nil
}

// normalizeStopReason maps Anthropic's stop_reason to FinishReason,
// inferring ToolCalls whenever tool_use blocks are present even if stop_reason says "end_turn".
func normalizeStopReason(raw string, hasToolCalls bool) types.FinishReason {
	if hasToolCalls {
		return types.FinishReason{Kind: types.FinishToolCalls}
	}
	switch raw {
	case "end_turn", "stop_sequence":
		return types.FinishReason{Kind: types.FinishStop}
	case "max_tokens":
		return types.FinishReason{Kind: types.FinishLength}
	case "tool_use":
		return types.FinishReason{Kind: types.FinishToolCalls}
	case "":
		return types.FinishReason{Kind: types.FinishStop}
	default:
		return types.FinishReason{Kind: types.FinishOther, Raw: raw}
	}
}
