// Package ollama transforms between the unified types and Ollama's
// native /api/chat JSON and JSON-lines wire shape.
// Unlike every other family, Ollama does not use SSE: each streamed
// chunk is one bare JSON object terminated by a newline.
package ollama

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Message is the wire shape of one Ollama chat message.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
	ToolName  string     `json:"tool_name,omitempty"`
}

type ToolCall struct {
	Function ToolCallFunc `json:"function"`
}

type ToolCallFunc struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// FunctionTool is the wire shape of a caller-defined tool.
type FunctionTool struct {
	Type     string       `json:"type"`
	Function FunctionSpec `json:"function"`
}

type FunctionSpec struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Options mirrors the subset of Ollama's "options" bag the unified
// CommonParams map onto.
type Options struct {
	Temperature *float64 `json:"temperature,omitempty"`
	TopP        *float64 `json:"top_p,omitempty"`
	TopK        *int     `json:"top_k,omitempty"`
	Seed        *int64   `json:"seed,omitempty"`
	Stop        []string `json:"stop,omitempty"`
}

// Request is the wire body for POST /api/chat.
type Request struct {
	Model    string         `json:"model"`
	Messages []Message      `json:"messages"`
	Stream   bool           `json:"stream"`
	Tools    []FunctionTool `json:"tools,omitempty"`
	Options  *Options       `json:"options,omitempty"`
	Format   interface{}    `json:"format,omitempty"`
}

// BuildRequest translates a unified ChatRequest into Ollama's /api/chat
// wire shape. Ollama has no tool_choice concept, so ToolChoice is
// surfaced as a warning rather than silently dropped.
func BuildRequest(req *types.ChatRequest) (*Request, []types.Warning, error) {
	if req.Common.Model == "" {
		return nil, nil, types.NewError(types.KindInvalidParameter, "ollama", "model is required")
	}

	var warnings []types.Warning
	out := &Request{Model: req.Common.Model, Stream: req.Stream}

	out.Options = &Options{
		Temperature: req.Common.Temperature, TopP: req.Common.TopP,
		TopK: req.Common.TopK, Seed: req.Common.Seed, Stop: req.Common.StopSequences,
	}

	for _, m := range req.Messages {
		wm := Message{Role: string(m.Role), Content: m.Content.Text()}
		if m.Role == types.RoleTool {
			for _, p := range m.Content.Parts() {
				if p.Kind == types.ContentToolResult {
					wm.Content = p.Output
				}
			}
		}
		for _, tc := range m.ToolCalls {
			wm.ToolCalls = append(wm.ToolCalls, ToolCall{Function: ToolCallFunc{Name: tc.Name, Arguments: json.RawMessage(tc.Arguments)}})
		}
		out.Messages = append(out.Messages, wm)
	}

	for _, tool := range req.Tools {
		switch tool.Kind {
		case types.ToolFunction:
			out.Tools = append(out.Tools, FunctionTool{Type: "function", Function: FunctionSpec{
				Name: tool.Name, Description: tool.Description, Parameters: tool.Parameters,
			}})
		case types.ToolProviderDefined:
			warnings = append(warnings, types.Warning{
				Code: "unsupported_provider_tool", Provider: "ollama",
				Message: "provider-defined tool " + tool.ID + " has no Ollama equivalent; dropped",
			})
		}
	}

	if req.ToolChoice != nil && req.ToolChoice.Mode != "auto" {
		warnings = append(warnings, types.Warning{
			Code: "unsupported_field", Provider: "ollama",
			Message: "tool_choice is not supported by Ollama; model decides whether to call tools",
		})
	}

	if raw := req.ProviderOption("ollama"); len(raw) > 0 {
		var opt struct {
			StructuredOutput *struct {
				Schema json.RawMessage `json:"schema"`
			} `json:"structured_output"`
		}
		if err := json.Unmarshal(raw, &opt); err == nil && opt.StructuredOutput != nil {
			out.Format = opt.StructuredOutput.Schema
		}
	}

	return out, warnings, nil
}
