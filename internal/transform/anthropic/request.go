// Package anthropic transforms between the unified types and Anthropic's
// Messages API wire shape, including the
// thinking/signature content blocks and named SSE events Anthropic uses
// instead of OpenAI-style delta chunks.
package anthropic

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

const defaultMaxTokens = 1024

// Message is one entry of the Messages API "messages" array.
type Message struct {
	Role    string        `json:"role"`
	Content []ContentBlock `json:"content"`
}

// ContentBlock is one element of a message's content array. Only the
// fields relevant to Type are populated; the rest stay zero.
type ContentBlock struct {
	Type string `json:"type"`

	Text string `json:"text,omitempty"` // type == "text"

	Source *ImageSource `json:"source,omitempty"` // type == "image"

	// type == "tool_use"
	ID    string          `json:"id,omitempty"`
	Name  string          `json:"name,omitempty"`
	Input json.RawMessage `json:"input,omitempty"`

	// type == "tool_result"
	ToolUseID string `json:"tool_use_id,omitempty"`
	Content_  string `json:"content,omitempty"`
	IsError   bool   `json:"is_error,omitempty"`

	// type == "thinking"
	Thinking  string `json:"thinking,omitempty"`
	Signature string `json:"signature,omitempty"`
}

type ImageSource struct {
	Type      string `json:"type"` // "base64" or "url"
	MediaType string `json:"media_type,omitempty"`
	Data      string `json:"data,omitempty"`
	URL       string `json:"url,omitempty"`
}

// FunctionTool is the wire shape of a caller-defined tool.
type FunctionTool struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	InputSchema json.RawMessage `json:"input_schema,omitempty"`
}

// Request is the wire body for POST /v1/messages.
type Request struct {
	Model         string         `json:"model"`
	MaxTokens     int            `json:"max_tokens"`
	System        string         `json:"system,omitempty"`
	Messages      []Message      `json:"messages"`
	Temperature   *float64       `json:"temperature,omitempty"`
	TopP          *float64       `json:"top_p,omitempty"`
	TopK          *int           `json:"top_k,omitempty"`
	StopSequences []string       `json:"stop_sequences,omitempty"`
	Stream        bool           `json:"stream,omitempty"`
	Tools         []FunctionTool `json:"tools,omitempty"`
	ToolChoice    interface{}    `json:"tool_choice,omitempty"`
}

// BuildRequest translates a unified ChatRequest into Anthropic's Messages
// wire shape. System messages are pulled out into the top-level "system"
// string; max_tokens defaults to defaultMaxTokens
// when unset because Anthropic requires the field.
func BuildRequest(req *types.ChatRequest) (*Request, []types.Warning, error) {
	if req.Common.Model == "" {
		return nil, nil, types.NewError(types.KindInvalidParameter, "anthropic", "model is required")
	}

	var warnings []types.Warning
	out := &Request{
		Model:         req.Common.Model,
		Temperature:   req.Common.Temperature,
		TopP:          req.Common.TopP,
		TopK:          req.Common.TopK,
		StopSequences: req.Common.StopSequences,
		Stream:        req.Stream,
	}

	if req.Common.MaxTokens != nil {
		out.MaxTokens = *req.Common.MaxTokens
	} else {
		out.MaxTokens = defaultMaxTokens
	}

	if req.Common.FrequencyPenalty != nil || req.Common.PresencePenalty != nil {
		warnings = append(warnings, types.Warning{
			Code: "unsupported_field", Provider: "anthropic",
			Message: "frequency_penalty/presence_penalty are not supported by Anthropic; dropped",
		})
	}

	var systemParts []string
	for _, m := range req.Messages {
		if m.Role == types.RoleSystem || m.Role == types.RoleDeveloper {
			systemParts = append(systemParts, m.Content.Text())
			continue
		}
		out.Messages = append(out.Messages, toWireMessage(m))
	}
	if len(systemParts) > 0 {
		for i, s := range systemParts {
			if i == 0 {
				out.System = s
			} else {
				out.System += "\n" + s
			}
		}
	}

	for _, tool := range req.Tools {
		switch tool.Kind {
		case types.ToolFunction:
			out.Tools = append(out.Tools, FunctionTool{
				Name: tool.Name, Description: tool.Description, InputSchema: tool.Parameters,
			})
		case types.ToolProviderDefined:
			warnings = append(warnings, types.Warning{
				Code: "unsupported_provider_tool", Provider: "anthropic",
				Message: "provider-defined tool " + tool.ID + " has no direct Anthropic equivalent; dropped",
			})
		}
	}

	if req.ToolChoice != nil {
		out.ToolChoice = toolChoiceWire(req.ToolChoice)
	}

	if raw := req.ProviderOption("anthropic"); len(raw) > 0 {
		var opt struct {
			StructuredOutput *struct {
				Schema json.RawMessage `json:"schema"`
				Name   string          `json:"name"`
			} `json:"structured_output"`
		}
		if err := json.Unmarshal(raw, &opt); err == nil && opt.StructuredOutput != nil {
			// Anthropic has no native response_format; structured output is
			// implemented as a single forced tool call the caller unwraps.
			name := opt.StructuredOutput.Name
			if name == "" {
				name = "structured_response"
			}
			out.Tools = append(out.Tools, FunctionTool{Name: name, InputSchema: opt.StructuredOutput.Schema})
			out.ToolChoice = map[string]string{"type": "tool", "name": name}
		}
	}

	return out, warnings, nil
}

func toolChoiceWire(tc *types.ToolChoice) interface{} {
	switch tc.Mode {
	case "auto":
		return map[string]string{"type": "auto"}
	case "none":
		return map[string]string{"type": "none"}
	case "required":
		return map[string]string{"type": "any"}
	case "function":
		return map[string]string{"type": "tool", "name": tc.FunctionName}
	default:
		return map[string]string{"type": "auto"}
	}
}

func toWireMessage(m types.ChatMessage) Message {
	role := string(m.Role)

	if m.Role == types.RoleTool {
		var blocks []ContentBlock
		for _, p := range m.Content.Parts() {
			if p.Kind == types.ContentToolResult {
				blocks = append(blocks, ContentBlock{
					Type: "tool_result", ToolUseID: p.ToolCallID, Content_: p.Output, IsError: p.IsError,
				})
			}
		}
		return Message{Role: "user", Content: blocks}
	}

	var blocks []ContentBlock
	for _, p := range m.Content.Parts() {
		blocks = append(blocks, toWireContentBlock(p))
	}
	for _, tc := range m.ToolCalls {
		blocks = append(blocks, ContentBlock{Type: "tool_use", ID: tc.ID, Name: tc.Name, Input: json.RawMessage(tc.Arguments)})
	}

	return Message{Role: role, Content: blocks}
}

func toWireContentBlock(p types.ContentPart) ContentBlock {
	switch p.Kind {
	case types.ContentText:
		return ContentBlock{Type: "text", Text: p.Text}
	case types.ContentImage:
		src := &ImageSource{MediaType: p.MimeType}
		if p.Source == types.SourceBase64 {
			src.Type = "base64"
			src.Data = string(p.Data)
		} else {
			src.Type = "url"
			src.URL = p.URL
		}
		return ContentBlock{Type: "image", Source: src}
	default:
		return ContentBlock{Type: "text", Text: p.Text}
	}
}
