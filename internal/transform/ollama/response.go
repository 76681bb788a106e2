package ollama

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Response is the wire shape of one /api/chat reply (also the shape of
// the final JSON-lines chunk when streaming, which carries "done":true).
type Response struct {
	Model           string  `json:"model"`
	Message         Message `json:"message"`
	Done            bool    `json:"done"`
	DoneReason      string  `json:"done_reason"`
	PromptEvalCount int     `json:"prompt_eval_count"`
	EvalCount       int     `json:"eval_count"`
}

// ParseResponse decodes a non-streaming Ollama /api/chat body into a
// unified ChatResponse.
func ParseResponse(data []byte) (*types.ChatResponse, error) {
	var wire Response
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, types.Wrap(types.KindProtocolError, "ollama", err)
	}

	resp := &types.ChatResponse{
		Content: types.NewTextContent(wire.Message.Content),
		Model:   wire.Model,
		Usage: types.Usage{
			PromptTokens: wire.PromptEvalCount, CompletionTokens: wire.EvalCount,
			TotalTokens: wire.PromptEvalCount + wire.EvalCount,
		},
	}

	for _, tc := range wire.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, types.ToolCall{Name: tc.Function.Name, Arguments: string(tc.Function.Arguments)})
	}
	resp.FinishReason = normalizeDoneReason(wire.DoneReason, len(resp.ToolCalls) > 0)

	return resp, nil
}

func normalizeDoneReason(raw string, hasToolCalls bool) types.FinishReason {
	if hasToolCalls {
		return types.FinishReason{Kind: types.FinishToolCalls}
	}
	switch raw {
	case "stop", "":
		return types.FinishReason{Kind: types.FinishStop}
	case "length":
		return types.FinishReason{Kind: types.FinishLength}
	default:
		return types.FinishReason{Kind: types.FinishOther, Raw: raw}
	}
}
