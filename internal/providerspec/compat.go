package providerspec

import (
	"fmt"

	"github.com/siumai-go/siumai/internal/types"
)

// FieldMappings describes where an OpenAI-compatible vendor puts fields
// that diverge from stock OpenAI shape.
type FieldMappings struct {
	// ReasoningFields lists the JSON field names to probe, in
	// precedence order, for a model's thinking/reasoning text:
	// reasoning_content > thinking > reasoning.
	ReasoningFields []string

	// RoleDowngrades remaps a Role to another before sending (e.g. Groq
	// downgrades Developer to System).
	RoleDowngrades map[types.Role]types.Role

	// ParamRenames renames CommonParams fields in the outgoing body,
	// keyed by the OpenAI field name, valued by the vendor's field name.
	ParamRenames map[string]string
}

// Capabilities are flags a compat preset declares support for.
// CompatSpec.Endpoint returns an error for an embed, rerank, or image
// operation whose flag is false. Streaming, Tools, and Reasoning are not
// checked anywhere, and no warning is emitted when a request uses a
// feature the preset does not declare.
type Capabilities struct {
	Streaming  bool
	Tools      bool
	Reasoning  bool
	Embeddings bool
	Images     bool
	Rerank     bool

	// QuirkTextToolCallFallback enables the SiliconFlow-style fallback
	// of parsing a {name, arguments} JSON object out of message text
	// when tool_calls is absent but finish_reason implies a tool call.
	QuirkTextToolCallFallback bool

	// NoStreamOptions disables sending "stream_options" in the request
	// body (Groq rejects it).
	NoStreamOptions bool
}

// Preset is one OpenAI-compatible vendor configuration. A single transform/compat transformer set
// is parametrized by Preset to cover all of them.
type Preset struct {
	ID           string
	Name         string
	Base         string
	EnvVar       string // overrides {UPPERCASE(id)}_API_KEY when set
	ExtraHeaders map[string]string
	Fields       FieldMappings
	Capabilities Capabilities
}

// CompatSpec implements Spec for a Preset, reusing OpenAISpec's endpoint
// shape (every compat vendor speaks OpenAI Chat Completions) but with
// the preset's own base URL, auth header, and SSE sentinel.
type CompatSpec struct {
	Preset Preset
}

func NewCompatSpec(p Preset) *CompatSpec { return &CompatSpec{Preset: p} }

func (s *CompatSpec) ID() string      { return s.Preset.ID }
func (s *CompatSpec) BaseURL() string { return s.Preset.Base }

func (s *CompatSpec) Endpoint(op Operation, req *types.ChatRequest, baseOverride string) (string, error) {
	base := s.Preset.Base
	if baseOverride != "" {
		base = baseOverride
	}
	switch op {
	case OpChat, OpChatStream:
		return base + "/chat/completions", nil
	case OpEmbed:
		if !s.Preset.Capabilities.Embeddings {
			return "", fmt.Errorf("%s: embeddings not supported", s.Preset.ID)
		}
		return base + "/embeddings", nil
	case OpRerank:
		if !s.Preset.Capabilities.Rerank {
			return "", fmt.Errorf("%s: rerank not supported", s.Preset.ID)
		}
		return base + "/rerank", nil
	case OpImage:
		if !s.Preset.Capabilities.Images {
			return "", fmt.Errorf("%s: image generation not supported", s.Preset.ID)
		}
		return base + "/images/generations", nil
	default:
		return "", fmt.Errorf("%s: unsupported operation %q", s.Preset.ID, op)
	}
}

func (s *CompatSpec) BuildHeaders(apiKey string, extra map[string]string) map[string]string {
	base := map[string]string{
		"Authorization": "Bearer " + apiKey,
		"Content-Type":  "application/json",
	}
	merged := mergeHeaders(base, s.Preset.ExtraHeaders)
	return mergeHeaders(merged, extra)
}

func (s *CompatSpec) SSEDoneMarker() string { return "[DONE]" }

// EnvVarName returns the env var this preset's API key is read from:
// EnvVar when set, otherwise the package-level EnvVarName(ID).
func (p Preset) EnvVarName() string {
	if p.EnvVar != "" {
		return p.EnvVar
	}
	return EnvVarName(p.ID)
}
