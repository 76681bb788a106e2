// Package gateway implements a small JSON API that accepts a unified
// chat request, dispatches it through internal/registry +
// internal/executor exactly the way the root siumai.Client does, and —
// for streaming calls — re-serializes the normalized event sequence
// into whichever wire protocol the caller asks for via
// internal/streaming's bridge, so the HTTP surface ships alongside the
// provider adapters rather than as a separate codebase.
package gateway

import (
	"encoding/json"
	"fmt"

	"github.com/siumai-go/siumai/internal/types"
)

// wireMessage is the gateway's plain JSON shape for one chat turn. Only
// atomic text content is accepted at the wire boundary; callers needing
// multimodal parts or tool results use the root siumai.Client directly
// against types.ChatRequest instead of going through the gateway.
type wireMessage struct {
	Role       string `json:"role"`
	Content    string `json:"content"`
	Name       string `json:"name,omitempty"`
	ToolCallID string `json:"tool_call_id,omitempty"`
}

// wireChatRequest is the gateway's inbound JSON request body.
type wireChatRequest struct {
	Model           string                     `json:"model"`
	Messages        []wireMessage              `json:"messages"`
	Stream          bool                       `json:"stream"`
	Temperature     *float64                   `json:"temperature,omitempty"`
	MaxTokens       *int                       `json:"max_tokens,omitempty"`
	TopP            *float64                   `json:"top_p,omitempty"`
	StopSequences   []string                   `json:"stop,omitempty"`
	Seed            *int64                     `json:"seed,omitempty"`
	ProviderOptions map[string]json.RawMessage `json:"provider_options,omitempty"`
}

// toChatRequest converts the wire shape to the unified ChatRequest,
// leaving Common.Model set to the model suffix resolved by the registry
// caller (the "provider:" prefix is consumed by registry.Resolve before
// this runs).
func (w wireChatRequest) toChatRequest(model string) (*types.ChatRequest, error) {
	if len(w.Messages) == 0 {
		return nil, fmt.Errorf("gateway: messages must not be empty")
	}
	messages := make([]types.ChatMessage, len(w.Messages))
	for i, m := range w.Messages {
		role := types.Role(m.Role)
		if !role.Valid() {
			return nil, fmt.Errorf("gateway: unknown role %q", m.Role)
		}
		messages[i] = types.ChatMessage{
			Role:       role,
			Content:    types.NewTextContent(m.Content),
			Name:       m.Name,
			ToolCallID: m.ToolCallID,
		}
	}
	return &types.ChatRequest{
		Messages: messages,
		Common: types.CommonParams{
			Model:         model,
			Temperature:   w.Temperature,
			MaxTokens:     w.MaxTokens,
			TopP:          w.TopP,
			StopSequences: w.StopSequences,
			Seed:          w.Seed,
		},
		ProviderOptions: w.ProviderOptions,
		Stream:          w.Stream,
	}, nil
}

// wireChatResponse is the gateway's outbound JSON shape for a
// non-streaming call.
type wireChatResponse struct {
	ID           string          `json:"id"`
	Model        string          `json:"model"`
	Content      string          `json:"content"`
	FinishReason string          `json:"finish_reason"`
	Usage        wireUsage       `json:"usage"`
	Warnings     []types.Warning `json:"warnings,omitempty"`
}

type wireUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

func fromChatResponse(resp *types.ChatResponse) wireChatResponse {
	reason := string(resp.FinishReason.Kind)
	if resp.FinishReason.Kind == types.FinishOther {
		reason = resp.FinishReason.Raw
	}
	return wireChatResponse{
		ID:           resp.RequestID,
		Model:        resp.Model,
		Content:      resp.ContentText(),
		FinishReason: reason,
		Usage: wireUsage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		Warnings: resp.Warnings,
	}
}
