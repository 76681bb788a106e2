// Package compat implements the shared OpenAI-compatible transformer set:
// one request/response/stream-chunk transformer,
// parametrized per vendor by a providerspec.Preset, so every vendor in Presets shares
// one code path instead of duplicating the OpenAI Chat Completions
// shape.
package compat

import (
	"github.com/siumai-go/siumai/internal/providerspec"
	"github.com/siumai-go/siumai/internal/types"
)

// Presets is the table of built-in OpenAI-compatible vendor
// configurations.
var Presets = map[string]providerspec.Preset{
	"deepseek": {
		ID: "deepseek", Name: "DeepSeek", Base: "https://api.deepseek.com/v1",
		Fields: providerspec.FieldMappings{ReasoningFields: []string{"reasoning_content"}},
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true, Reasoning: true},
	},
	"openrouter": {
		ID: "openrouter", Name: "OpenRouter", Base: "https://openrouter.ai/api/v1",
		Fields:       providerspec.FieldMappings{ReasoningFields: []string{"reasoning"}},
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true, Reasoning: true, Images: true},
	},
	"groq": {
		ID: "groq", Name: "Groq", Base: "https://api.groq.com/openai/v1",
		Fields: providerspec.FieldMappings{
			// Groq rejects the "developer" role; downgrade to "system".
			RoleDowngrades: map[types.Role]types.Role{types.RoleDeveloper: types.RoleSystem},
		},
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true, NoStreamOptions: true},
	},
	"xai": {
		ID: "xai", Name: "xAI", Base: "https://api.x.ai/v1", EnvVar: "XAI_API_KEY",
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true},
	},
	"siliconflow": {
		ID: "siliconflow", Name: "SiliconFlow", Base: "https://api.siliconflow.cn/v1",
		Fields:       providerspec.FieldMappings{ReasoningFields: []string{"reasoning_content"}},
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true, Reasoning: true, QuirkTextToolCallFallback: true},
	},
	"fireworks": {
		ID: "fireworks", Name: "Fireworks", Base: "https://api.fireworks.ai/inference/v1",
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true},
	},
	"together": {
		ID: "together", Name: "Together", Base: "https://api.together.xyz/v1",
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true},
	},
	"minimaxi": {
		ID: "minimaxi", Name: "MiniMaxi", Base: "https://api.minimaxi.com/v1",
		Fields:       providerspec.FieldMappings{ReasoningFields: []string{"reasoning_content"}},
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true, Reasoning: true, Images: true},
	},
	"mistral": {
		ID: "mistral", Name: "Mistral", Base: "https://api.mistral.ai/v1",
		Capabilities: providerspec.Capabilities{Streaming: true, Tools: true, Embeddings: true},
	},
	"perplexity": {
		ID: "perplexity", Name: "Perplexity", Base: "https://api.perplexity.ai",
		Capabilities: providerspec.Capabilities{Streaming: true},
	},
	"cohere": {
		ID: "cohere", Name: "Cohere", Base: "https://api.cohere.com/v1",
		Capabilities: providerspec.Capabilities{Rerank: true},
	},
	"bedrock": {
		ID: "bedrock", Name: "Bedrock", Base: "https://bedrock-runtime.us-east-1.amazonaws.com",
		Capabilities: providerspec.Capabilities{Streaming: true},
	},
}
