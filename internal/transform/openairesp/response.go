package openairesp

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Response is the wire shape of a non-streaming Responses API result.
type Response struct {
	ID     string       `json:"id"`
	Model  string       `json:"model"`
	Status string       `json:"status"` // "completed" | "incomplete" | "failed"
	Output []OutputItem `json:"output"`
	Usage  *RespUsage   `json:"usage"`
}

// OutputItem is one element of the top-level "output" array.
type OutputItem struct {
	Type string `json:"type"` // "message" | "function_call" | "reasoning"

	// type == "message"
	Content []OutputContent `json:"content,omitempty"`

	// type == "function_call"
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	// type == "reasoning"
	Summary []struct {
		Text string `json:"text"`
	} `json:"summary,omitempty"`
}

type OutputContent struct {
	Type string `json:"type"` // "output_text"
	Text string `json:"text"`
}

type RespUsage struct {
	InputTokens         int `json:"input_tokens"`
	OutputTokens        int `json:"output_tokens"`
	TotalTokens         int `json:"total_tokens"`
	InputTokensDetails  *struct {
		CachedTokens int `json:"cached_tokens"`
	} `json:"input_tokens_details"`
	OutputTokensDetails *struct {
		ReasoningTokens int `json:"reasoning_tokens"`
	} `json:"output_tokens_details"`
}

// ParseResponse decodes a Responses API body into a unified ChatResponse.
// Unlike Chat Completions, content/tool-calls/reasoning arrive as
// separate items of the "output" array rather than fields of one choice,
// so this walks the array accumulating each kind.
func ParseResponse(data []byte) (*types.ChatResponse, error) {
	var wire Response
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "openai-responses", err)
	}

	resp := &types.ChatResponse{
		Model:     wire.Model,
		RequestID: wire.ID,
	}

	var text string
	for _, item := range wire.Output {
		switch item.Type {
		case "message":
			for _, c := range item.Content {
				if c.Type == "output_text" {
					text += c.Text
				}
			}
		case "function_call":
			resp.ToolCalls = append(resp.ToolCalls, types.ToolCall{
				ID: item.CallID, Name: item.Name, Arguments: item.Arguments,
			})
		case "reasoning":
			for _, s := range item.Summary {
				resp.Thinking += s.Text
			}
		}
	}
	resp.Content = types.NewTextContent(text)
	resp.FinishReason = normalizeStatus(wire.Status, len(resp.ToolCalls) > 0)

	if wire.Usage != nil {
		resp.Usage = types.Usage{
			PromptTokens: wire.Usage.InputTokens, CompletionTokens: wire.Usage.OutputTokens,
			TotalTokens: wire.Usage.TotalTokens,
		}
		if wire.Usage.InputTokensDetails != nil {
			c := wire.Usage.InputTokensDetails.CachedTokens
			resp.Usage.Cached = &c
		}
		if wire.Usage.OutputTokensDetails != nil {
			r := wire.Usage.OutputTokensDetails.ReasoningTokens
			resp.Usage.Reasoning = &r
		}
	}

	return resp, nil
}

// normalizeStatus maps the Responses API's top-level status to a unified
// FinishReason; the Responses API has no "length" status distinct from
// "incomplete", so both map to FinishLength.
func normalizeStatus(status string, hasToolCalls bool) types.FinishReason {
	if hasToolCalls {
		return types.FinishReason{Kind: types.FinishToolCalls}
	}
	switch status {
	case "completed":
		return types.FinishReason{Kind: types.FinishStop}
	case "incomplete":
		return types.FinishReason{Kind: types.FinishLength}
	case "failed":
		return types.FinishReason{Kind: types.FinishOther, Raw: status}
	default:
		return types.FinishReason{Kind: types.FinishStop}
	}
}
