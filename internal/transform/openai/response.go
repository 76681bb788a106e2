package openai

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Response is the wire shape of a non-streaming Chat Completions result.
type Response struct {
	ID                string          `json:"id"`
	Model             string          `json:"model"`
	Choices           []RespChoice    `json:"choices"`
	Usage             *RespUsage      `json:"usage"`
	SystemFingerprint string          `json:"system_fingerprint"`
}

type RespChoice struct {
	Message      RespMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

type RespMessage struct {
	Content          string     `json:"content"`
	ReasoningContent string     `json:"reasoning_content"`
	Thinking         string     `json:"thinking"`
	Reasoning        string     `json:"reasoning"`
	ToolCalls        []ToolCall `json:"tool_calls"`
}

type RespUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
	PromptTokensDetails *struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"prompt_tokens_details"`
	CompletionTokensDetails *struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"completion_tokens_details"`
}

// reasoningText returns the first non-empty reasoning field in fields
// order, defaulting to reasoning_content > thinking > reasoning.
func reasoningText(m RespMessage, fields []string) string {
	if len(fields) == 0 {
		fields = []string{"reasoning_content", "thinking", "reasoning"}
	}
	for _, f := range fields {
		switch f {
		case "reasoning_content":
			if m.ReasoningContent != "" {
				return m.ReasoningContent
			}
		case "thinking":
			if m.Thinking != "" {
				return m.Thinking
			}
		case "reasoning":
			if m.Reasoning != "" {
				return m.Reasoning
			}
		}
	}
	return ""
}

// ParseResponse decodes an OpenAI Chat Completions body into a unified
// ChatResponse. reasoningFields lets compat presets override lookup
// order/fields; pass nil for the OpenAI default.
func ParseResponse(data []byte, reasoningFields []string, textToolCallFallback bool) (*types.ChatResponse, error) {
	var wire Response
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "openai", err)
	}
	if len(wire.Choices) == 0 {
		return nil, types.NewError(types.KindProtocolError, "openai", "response had no choices")
	}

	choice := wire.Choices[0]
	resp := &types.ChatResponse{
		Content:      types.NewTextContent(choice.Message.Content),
		Model:        wire.Model,
		RequestID:    wire.ID,
		Thinking:     reasoningText(choice.Message, reasoningFields),
		FinishReason: normalizeFinishReason(choice.FinishReason, len(choice.Message.ToolCalls) > 0),
	}

	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, types.ToolCall{
			ID: tc.ID, Name: tc.Function.Name, Arguments: tc.Function.Arguments,
		})
	}

	// SiliconFlow-style fallback: no tool_calls field, but finish_reason
	// implies one and the text looks like a {name, arguments} object.
	if len(resp.ToolCalls) == 0 && textToolCallFallback {
		if tc, ok := parseTextToolCall(choice.Message.Content); ok {
			resp.ToolCalls = append(resp.ToolCalls, tc)
			resp.Content = types.NewTextContent("")
			resp.FinishReason = types.FinishReason{Kind: types.FinishToolCalls}
		}
	}

	if wire.Usage != nil {
		resp.Usage = types.Usage{
			PromptTokens:     wire.Usage.PromptTokens,
			CompletionTokens: wire.Usage.CompletionTokens,
			TotalTokens:      wire.Usage.TotalTokens,
		}
		if wire.Usage.PromptTokensDetails != nil {
			c := wire.Usage.PromptTokensDetails.CachedTokens
			resp.Usage.Cached = &c
		}
		if wire.Usage.CompletionTokensDetails != nil {
			r := wire.Usage.CompletionTokensDetails.ReasoningTokens
			resp.Usage.Reasoning = &r
		}
	}

	if wire.SystemFingerprint != "" {
		resp.ProviderMetadata = map[string]json.RawMessage{
			"openai": mustJSON(map[string]string{"system_fingerprint": wire.SystemFingerprint}),
		}
	}

	return resp, nil
}

func mustJSON(v interface{}) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}

// parseTextToolCall attempts to parse a {"name":...,"arguments":...}
// object out of free text.
func parseTextToolCall(text string) (types.ToolCall, bool) {
	var probe struct {
		Name      string          `json:"name"`
		Arguments json.RawMessage `json:"arguments"`
	}
	if err := json.Unmarshal([]byte(text), &probe); err != nil || probe.Name == "" {
		return types.ToolCall{}, false
	}
	return types.ToolCall{Name: probe.Name, Arguments: string(probe.Arguments)}, true
}

// normalizeFinishReason maps the wire finish_reason to FinishReason,
// inferring ToolCalls if tool calls are present even when the reason
// string doesn't say so.
func normalizeFinishReason(raw string, hasToolCalls bool) types.FinishReason {
	if hasToolCalls {
		return types.FinishReason{Kind: types.FinishToolCalls}
	}
	switch raw {
	case "stop":
		return types.FinishReason{Kind: types.FinishStop}
	case "length":
		return types.FinishReason{Kind: types.FinishLength}
	case "tool_calls", "function_call":
		return types.FinishReason{Kind: types.FinishToolCalls}
	case "content_filter":
		return types.FinishReason{Kind: types.FinishContentFilter}
	case "":
		return types.FinishReason{Kind: types.FinishStop}
	default:
		return types.FinishReason{Kind: types.FinishOther, Raw: raw}
	}
}
