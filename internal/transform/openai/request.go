// Package openai transforms between the unified types and OpenAI's Chat
// Completions wire shape. It is reused unmodified
// by the compat package for every OpenAI-compatible vendor preset.
package openai

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Message is the wire shape of one OpenAI chat message.
type Message struct {
	Role       string      `json:"role"`
	Content    interface{} `json:"content,omitempty"`
	Name       string      `json:"name,omitempty"`
	ToolCallID string      `json:"tool_call_id,omitempty"`
	ToolCalls  []ToolCall  `json:"tool_calls,omitempty"`
}

type ToolCall struct {
	ID       string        `json:"id"`
	Type     string        `json:"type"`
	Function ToolCallFunc  `json:"function"`
}

type ToolCallFunc struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// ContentPart is one element of multimodal content.
type ContentPart struct {
	Type     string    `json:"type"`
	Text     string    `json:"text,omitempty"`
	ImageURL *ImageURL `json:"image_url,omitempty"`
}

type ImageURL struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
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
	Strict      bool            `json:"strict,omitempty"`
}

// Request is the wire body for POST /chat/completions.
type Request struct {
	Model            string         `json:"model"`
	Messages         []Message      `json:"messages"`
	Temperature      *float64       `json:"temperature,omitempty"`
	MaxTokens        *int           `json:"max_tokens,omitempty"`
	TopP             *float64       `json:"top_p,omitempty"`
	Stop             []string       `json:"stop,omitempty"`
	Seed             *int64         `json:"seed,omitempty"`
	FrequencyPenalty *float64       `json:"frequency_penalty,omitempty"`
	PresencePenalty  *float64       `json:"presence_penalty,omitempty"`
	Stream           bool           `json:"stream,omitempty"`
	StreamOptions    *StreamOptions `json:"stream_options,omitempty"`
	Tools            []FunctionTool `json:"tools,omitempty"`
	ToolChoice       interface{}    `json:"tool_choice,omitempty"`
	ResponseFormat   interface{}    `json:"response_format,omitempty"`
}

type StreamOptions struct {
	IncludeUsage bool `json:"include_usage"`
}

// Options configures vendor-specific request-building quirks so the
// compat package can reuse this builder for every OpenAI-compatible
// preset.
type Options struct {
	RoleDowngrades  map[types.Role]types.Role
	NoStreamOptions bool
}

// BuildRequest translates a unified ChatRequest into an OpenAI wire
// Request, collecting non-fatal warnings for unsupported fields.
func BuildRequest(req *types.ChatRequest, opts Options) (*Request, []types.Warning, error) {
	if req.Common.Model == "" {
		return nil, nil, types.NewError(types.KindInvalidParameter, "openai", "model is required")
	}

	var warnings []types.Warning
	out := &Request{
		Model:            req.Common.Model,
		Temperature:      req.Common.Temperature,
		MaxTokens:        req.Common.MaxTokens,
		TopP:             req.Common.TopP,
		Stop:             req.Common.StopSequences,
		Seed:             req.Common.Seed,
		FrequencyPenalty: req.Common.FrequencyPenalty,
		PresencePenalty:  req.Common.PresencePenalty,
		Stream:           req.Stream,
	}

	if req.Common.TopK != nil {
		warnings = append(warnings, types.Warning{
			Code: "unsupported_field", Provider: "openai",
			Message: "top_k is not supported by OpenAI Chat Completions; dropped",
		})
	}

	if req.Stream && !opts.NoStreamOptions {
		out.StreamOptions = &StreamOptions{IncludeUsage: true}
	}

	for _, m := range req.Messages {
		role := m.Role
		if downgrade, ok := opts.RoleDowngrades[role]; ok {
			role = downgrade
		}
		out.Messages = append(out.Messages, toWireMessage(role, m))
	}

	for _, tool := range req.Tools {
		switch tool.Kind {
		case types.ToolFunction:
			out.Tools = append(out.Tools, FunctionTool{
				Type: "function",
				Function: FunctionSpec{
					Name: tool.Name, Description: tool.Description,
					Parameters: tool.Parameters, Strict: tool.Strict,
				},
			})
		case types.ToolProviderDefined:
			warnings = append(warnings, types.Warning{
				Code: "unsupported_provider_tool", Provider: "openai",
				Message: "provider-defined tool " + tool.ID + " has no OpenAI Chat Completions equivalent; dropped",
			})
		}
	}

	if req.ToolChoice != nil {
		out.ToolChoice = toolChoiceWire(req.ToolChoice)
	}

	if raw := req.ProviderOption("openai"); len(raw) > 0 {
		var opt struct {
			StructuredOutput *struct {
				Schema json.RawMessage `json:"schema"`
				Name   string          `json:"name"`
			} `json:"structured_output"`
		}
		if err := json.Unmarshal(raw, &opt); err == nil && opt.StructuredOutput != nil {
			name := opt.StructuredOutput.Name
			if name == "" {
				name = "response"
			}
			out.ResponseFormat = map[string]interface{}{
				"type": "json_schema",
				"json_schema": map[string]interface{}{
					"name":   name,
					"schema": opt.StructuredOutput.Schema,
					"strict": true,
				},
			}
		}
	}

	return out, warnings, nil
}

func toolChoiceWire(tc *types.ToolChoice) interface{} {
	switch tc.Mode {
	case "auto", "none", "required":
		return tc.Mode
	case "function":
		return map[string]interface{}{
			"type":     "function",
			"function": map[string]string{"name": tc.FunctionName},
		}
	default:
		return "auto"
	}
}

func toWireMessage(role types.Role, m types.ChatMessage) Message {
	wm := Message{Role: string(role), Name: m.Name, ToolCallID: m.ToolCallID}

	if role == types.RoleTool {
		// Tool replies carry a single ToolResult part as plain text content.
		for _, p := range m.Content.Parts() {
			if p.Kind == types.ContentToolResult {
				wm.Content = p.Output
				if p.ToolCallID != "" {
					wm.ToolCallID = p.ToolCallID
				}
				return wm
			}
		}
		wm.Content = m.Content.Text()
		return wm
	}

	if !m.Content.IsMulti() {
		wm.Content = m.Content.Text()
	} else {
		var parts []ContentPart
		for _, p := range m.Content.Parts() {
			parts = append(parts, toWireContentPart(p))
		}
		wm.Content = parts
	}

	for _, tc := range m.ToolCalls {
		wm.ToolCalls = append(wm.ToolCalls, ToolCall{
			ID: tc.ID, Type: "function",
			Function: ToolCallFunc{Name: tc.Name, Arguments: tc.Arguments},
		})
	}

	return wm
}

func toWireContentPart(p types.ContentPart) ContentPart {
	switch p.Kind {
	case types.ContentText:
		return ContentPart{Type: "text", Text: p.Text}
	case types.ContentImage:
		url := p.URL
		if p.Source == types.SourceBase64 {
			url = "data:" + p.MimeType + ";base64," + string(p.Data)
		}
		return ContentPart{Type: "image_url", ImageURL: &ImageURL{URL: url, Detail: string(p.Detail)}}
	default:
		return ContentPart{Type: "text", Text: p.Text}
	}
}
