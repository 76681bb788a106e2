// Package gemini transforms between the unified types and Google's
// Gemini generateContent/streamGenerateContent wire shape, including structured-output schemas and grounding metadata.
package gemini

import (
	"encoding/json"

	"github.com/siumai-go/siumai/internal/types"
)

// Content is one entry of the "contents" array.
type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

// Part is one piece of content within a message. Only the field
// relevant to what it holds is populated.
type Part struct {
	Text       string          `json:"text,omitempty"`
	InlineData *Blob           `json:"inlineData,omitempty"`
	FileData   *FileRef        `json:"fileData,omitempty"`
	FunctionCall *FunctionCall `json:"functionCall,omitempty"`
	FunctionResponse *FunctionResponse `json:"functionResponse,omitempty"`
}

type Blob struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"` // base64
}

type FileRef struct {
	MimeType string `json:"mimeType"`
	FileURI  string `json:"fileUri"`
}

type FunctionCall struct {
	Name string          `json:"name"`
	Args json.RawMessage `json:"args,omitempty"`
}

type FunctionResponse struct {
	Name     string          `json:"name"`
	Response json.RawMessage `json:"response"`
}

// GenerationConfig holds Gemini generation parameters.
type GenerationConfig struct {
	Temperature      *float64        `json:"temperature,omitempty"`
	TopP             *float64        `json:"topP,omitempty"`
	TopK             *int            `json:"topK,omitempty"`
	MaxOutputTokens  *int            `json:"maxOutputTokens,omitempty"`
	StopSequences    []string        `json:"stopSequences,omitempty"`
	ResponseMimeType string          `json:"responseMimeType,omitempty"`
	ResponseSchema   json.RawMessage `json:"responseSchema,omitempty"`
}

// FunctionDeclaration is the wire shape of a caller-defined tool.
type FunctionDeclaration struct {
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Parameters  json.RawMessage `json:"parameters,omitempty"`
}

// Tool groups function declarations the way Gemini's "tools" array does
// (one element per tool family; we emit a single functionDeclarations
// bucket since every caller-defined tool is a function).
type Tool struct {
	FunctionDeclarations []FunctionDeclaration `json:"functionDeclarations,omitempty"`
}

type ToolConfig struct {
	FunctionCallingConfig *FunctionCallingConfig `json:"functionCallingConfig,omitempty"`
}

type FunctionCallingConfig struct {
	Mode                 string   `json:"mode"` // AUTO | ANY | NONE
	AllowedFunctionNames []string `json:"allowedFunctionNames,omitempty"`
}

// Request is the wire body for generateContent/streamGenerateContent.
type Request struct {
	Contents          []Content         `json:"contents"`
	SystemInstruction *Content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *GenerationConfig `json:"generationConfig,omitempty"`
	Tools             []Tool            `json:"tools,omitempty"`
	ToolConfig        *ToolConfig       `json:"toolConfig,omitempty"`
}

// BuildRequest translates a unified ChatRequest into Gemini's wire shape.
// System messages are pulled into systemInstruction and the assistant
// role is renamed to "model".
func BuildRequest(req *types.ChatRequest) (*Request, []types.Warning, error) {
	if req.Common.Model == "" {
		return nil, nil, types.NewError(types.KindInvalidParameter, "gemini", "model is required")
	}

	var warnings []types.Warning
	out := &Request{}

	for _, m := range req.Messages {
		if m.Role == types.RoleSystem || m.Role == types.RoleDeveloper {
			part := Part{Text: m.Content.Text()}
			if out.SystemInstruction == nil {
				out.SystemInstruction = &Content{Parts: []Part{part}}
			} else {
				out.SystemInstruction.Parts = append(out.SystemInstruction.Parts, part)
			}
			continue
		}
		out.Contents = append(out.Contents, toWireContent(m))
	}

	out.GenerationConfig = &GenerationConfig{
		Temperature:     req.Common.Temperature,
		TopP:            req.Common.TopP,
		TopK:            req.Common.TopK,
		MaxOutputTokens: req.Common.MaxTokens,
		StopSequences:   req.Common.StopSequences,
	}

	if req.Common.FrequencyPenalty != nil || req.Common.PresencePenalty != nil || req.Common.Seed != nil {
		warnings = append(warnings, types.Warning{
			Code: "unsupported_field", Provider: "gemini",
			Message: "frequency_penalty/presence_penalty/seed are not supported by Gemini; dropped",
		})
	}

	if len(req.Tools) > 0 {
		var decls []FunctionDeclaration
		for _, tool := range req.Tools {
			switch tool.Kind {
			case types.ToolFunction:
				decls = append(decls, FunctionDeclaration{
					Name: tool.Name, Description: tool.Description, Parameters: tool.Parameters,
				})
			case types.ToolProviderDefined:
				warnings = append(warnings, types.Warning{
					Code: "unsupported_provider_tool", Provider: "gemini",
					Message: "provider-defined tool " + tool.ID + " has no direct Gemini equivalent; dropped",
				})
			}
		}
		if len(decls) > 0 {
			out.Tools = []Tool{{FunctionDeclarations: decls}}
		}
	}

	if req.ToolChoice != nil {
		out.ToolConfig = &ToolConfig{FunctionCallingConfig: toolChoiceWire(req.ToolChoice)}
	}

	if raw := req.ProviderOption("gemini"); len(raw) > 0 {
		var opt struct {
			StructuredOutput *struct {
				Schema json.RawMessage `json:"schema"`
			} `json:"structured_output"`
		}
		if err := json.Unmarshal(raw, &opt); err == nil && opt.StructuredOutput != nil {
			out.GenerationConfig.ResponseMimeType = "application/json"
			out.GenerationConfig.ResponseSchema = opt.StructuredOutput.Schema
		}
	}

	return out, warnings, nil
}

func toolChoiceWire(tc *types.ToolChoice) *FunctionCallingConfig {
	switch tc.Mode {
	case "none":
		return &FunctionCallingConfig{Mode: "NONE"}
	case "required":
		return &FunctionCallingConfig{Mode: "ANY"}
	case "function":
		return &FunctionCallingConfig{Mode: "ANY", AllowedFunctionNames: []string{tc.FunctionName}}
	default:
		return &FunctionCallingConfig{Mode: "AUTO"}
	}
}

func toWireContent(m types.ChatMessage) Content {
	role := string(m.Role)
	if m.Role == types.RoleAssistant {
		role = "model"
	}

	if m.Role == types.RoleTool {
		var parts []Part
		for _, p := range m.Content.Parts() {
			if p.Kind == types.ContentToolResult {
				parts = append(parts, Part{FunctionResponse: &FunctionResponse{
					Name: p.ToolCallID, Response: json.RawMessage(`{"result":` + jsonQuote(p.Output) + `}`),
				}})
			}
		}
		return Content{Role: "function", Parts: parts}
	}

	var parts []Part
	for _, p := range m.Content.Parts() {
		parts = append(parts, toWirePart(p))
	}
	for _, tc := range m.ToolCalls {
		parts = append(parts, Part{FunctionCall: &FunctionCall{Name: tc.Name, Args: json.RawMessage(tc.Arguments)}})
	}

	return Content{Role: role, Parts: parts}
}

func toWirePart(p types.ContentPart) Part {
	switch p.Kind {
	case types.ContentText:
		return Part{Text: p.Text}
	case types.ContentImage:
		if p.Source == types.SourceBase64 {
			return Part{InlineData: &Blob{MimeType: p.MimeType, Data: string(p.Data)}}
		}
		return Part{FileData: &FileRef{MimeType: p.MimeType, FileURI: p.URL}}
	default:
		return Part{Text: p.Text}
	}
}

func jsonQuote(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}
