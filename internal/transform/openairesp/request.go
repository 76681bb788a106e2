// Package openairesp transforms between the unified types and OpenAI's
// Responses API wire shape: an "input" array of typed items instead of
// Chat Completions' "messages", "instructions" instead of a system
// message, and named SSE events instead of delta chunks.
package openairesp

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// InputItem is one element of the Responses API "input" array.
type InputItem struct {
	Type string `json:"type"`

	// type == "message"
	Role    string      `json:"role,omitempty"`
	Content interface{} `json:"content,omitempty"`

	// type == "function_call"
	CallID    string `json:"call_id,omitempty"`
	Name      string `json:"name,omitempty"`
	Arguments string `json:"arguments,omitempty"`

	// type == "function_call_output"
	Output string `json:"output,omitempty"`
}

// ContentPart is one element of a message item's content array.
type ContentPart struct {
	Type     string    `json:"type"` // "input_text" | "input_image" | "output_text"
	Text     string    `json:"text,omitempty"`
	ImageURL string    `json:"image_url,omitempty"`
	Detail   string    `json:"detail,omitempty"`
}

// FunctionTool is the wire shape of a caller-defined tool.
type FunctionTool struct {
	Type        string          `json:"type"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
	Strict      bool            `json:"strict,omitempty"`
}

// Request is the wire body for POST /v1/responses.
type Request struct {
	Model            string         `json:"model"`
	Input            []InputItem    `json:"input"`
	Instructions     string         `json:"instructions,omitempty"`
	Temperature      *float64       `json:"temperature,omitempty"`
	MaxOutputTokens  *int           `json:"max_output_tokens,omitempty"`
	TopP             *float64       `json:"top_p,omitempty"`
	Stream           bool           `json:"stream,omitempty"`
	Tools            []FunctionTool `json:"tools,omitempty"`
	ToolChoice       interface{}    `json:"tool_choice,omitempty"`
	Text             interface{}    `json:"text,omitempty"`
}

// BuildRequest translates a unified ChatRequest into a Responses API
// wire Request. System/developer messages fold into the top-level
// "instructions" string rather than an input item, matching the
// Responses API's distinct system-prompt slot.
func BuildRequest(req *types.ChatRequest) (*Request, []types.Warning, error) {
	if req.Common.Model == "" {
		return nil, nil, types.NewError(types.KindInvalidParameter, "openai-responses", "model is required")
	}

	var warnings []types.Warning
	out := &Request{
		Model:           req.Common.Model,
		Temperature:     req.Common.Temperature,
		MaxOutputTokens: req.Common.MaxTokens,
		TopP:            req.Common.TopP,
		Stream:          req.Stream,
	}

	if req.Common.TopK != nil || req.Common.FrequencyPenalty != nil || req.Common.PresencePenalty != nil || len(req.Common.StopSequences) > 0 {
		warnings = append(warnings, types.Warning{
			Code: "unsupported_field", Provider: "openai-responses",
			Message: "top_k/frequency_penalty/presence_penalty/stop are not supported by the Responses API; dropped",
		})
	}

	var instructions []string
	for _, m := range req.Messages {
		if m.Role == types.RoleSystem || m.Role == types.RoleDeveloper {
			instructions = append(instructions, m.Content.Text())
			continue
		}
		out.Input = append(out.Input, toInputItems(m)...)
	}
	for i, s := range instructions {
		if i == 0 {
			out.Instructions = s
		} else {
			out.Instructions += "\n" + s
		}
	}

	for _, tool := range req.Tools {
		switch tool.Kind {
		case types.ToolFunction:
			out.Tools = append(out.Tools, FunctionTool{
				Type: "function", Name: tool.Name, Description: tool.Description,
				Parameters: tool.Parameters, Strict: tool.Strict,
			})
		case types.ToolProviderDefined:
			// Provider-defined tools under the Responses API (web_search,
			// file_search, code_interpreter) use their own "<type>" tool
			// entries with no function schema.
			out.Tools = append(out.Tools, FunctionTool{Type: providerToolType(tool.ID)})
		}
	}

	if req.ToolChoice != nil {
		out.ToolChoice = toolChoiceWire(req.ToolChoice)
	}

	if raw := req.ProviderOption("openai-responses"); len(raw) > 0 {
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
			out.Text = map[string]interface{}{
				"format": map[string]interface{}{
					"type":   "json_schema",
					"name":   name,
					"schema": opt.StructuredOutput.Schema,
					"strict": true,
				},
			}
		}
	}

	return out, warnings, nil
}

// providerToolType strips the "openai." prefix convention used for
// ProviderDefined tool ids so "openai.web_search" becomes "web_search".
func providerToolType(id string) string {
	for i := 0; i < len(id); i++ {
		if id[i] == '.' {
			return id[i+1:]
		}
	}
	return id
}

func toolChoiceWire(tc *types.ToolChoice) interface{} {
	switch tc.Mode {
	case "auto", "none", "required":
		return tc.Mode
	case "function":
		return map[string]interface{}{
			"type": "function",
			"name": tc.FunctionName,
		}
	default:
		return "auto"
	}
}

func toInputItems(m types.ChatMessage) []InputItem {
	if m.Role == types.RoleTool {
		var items []InputItem
		for _, p := range m.Content.Parts() {
			if p.Kind == types.ContentToolResult {
				items = append(items, InputItem{Type: "function_call_output", CallID: p.ToolCallID, Output: p.Output})
			}
		}
		return items
	}

	var items []InputItem
	role := string(m.Role)

	msg := InputItem{Type: "message", Role: role}
	if !m.Content.IsMulti() {
		if text := m.Content.Text(); text != "" {
			msg.Content = text
		}
	} else {
		var parts []ContentPart
		for _, p := range m.Content.Parts() {
			parts = append(parts, toWireContentPart(p, role))
		}
		msg.Content = parts
	}
	if msg.Content != nil {
		items = append(items, msg)
	}

	for _, tc := range m.ToolCalls {
		items = append(items, InputItem{Type: "function_call", CallID: tc.ID, Name: tc.Name, Arguments: tc.Arguments})
	}

	return items
}

func toWireContentPart(p types.ContentPart, role string) ContentPart {
	textType := "input_text"
	if role == "assistant" {
		textType = "output_text"
	}
	switch p.Kind {
	case types.ContentText:
		return ContentPart{Type: textType, Text: p.Text}
	case types.ContentImage:
		url := p.URL
		if p.Source == types.SourceBase64 {
			url = "data:" + p.MimeType + ";base64," + string(p.Data)
		}
		return ContentPart{Type: "input_image", ImageURL: url, Detail: string(p.Detail)}
	default:
		return ContentPart{Type: textType, Text: p.Text}
	}
}
