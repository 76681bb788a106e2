package types

import "encoding/json"

// ToolKind tags the Tool variant: a caller-defined function, or a
// provider-hosted capability (web search, code execution, ...).
type ToolKind string

const (
	ToolFunction        ToolKind = "function"
	ToolProviderDefined ToolKind = "provider_defined"
)

// Tool describes one tool the model may call. Exactly one of the
// Function* fields or the ProviderDefined* fields is meaningful,
// selected by Kind.
type Tool struct {
	Kind ToolKind

	// Function fields.
	Name        string
	Description string
	Parameters  json.RawMessage // JSON Schema
	Strict      bool

	// ProviderDefined fields. ID has shape "<provider>.<type>".
	ID   string
	Args json.RawMessage
}

// ToolChoice selects how the model may use tools: "auto" (default),
// "none", "required", or a specific function name.
type ToolChoice struct {
	Mode         string // "auto" | "none" | "required" | "function"
	FunctionName string // set when Mode == "function"
}
