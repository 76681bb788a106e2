package compat

import (
	"github.com/siumai-go/siumai/internal/providerspec"
	"github.com/siumai-go/siumai/internal/transform/openai"
	"github.com/siumai-go/siumai/internal/types"
)

// Transformer adapts internal/transform/openai's Chat Completions
// transformer to one vendor preset, so the 12+ OpenAI-compatible
// vendors in Presets share a single transformer implementation
// instead of each duplicating request/response/
// stream-chunk logic.
type Transformer struct {
	Preset providerspec.Preset
}

func NewTransformer(preset providerspec.Preset) *Transformer {
	return &Transformer{Preset: preset}
}

func (t *Transformer) options() openai.Options {
	return openai.Options{
		RoleDowngrades:  t.Preset.Fields.RoleDowngrades,
		NoStreamOptions: t.Preset.Capabilities.NoStreamOptions,
	}
}

// BuildRequest delegates to openai.BuildRequest with this preset's
// vendor-specific Options.
func (t *Transformer) BuildRequest(req *types.ChatRequest) (*openai.Request, []types.Warning, error) {
	return openai.BuildRequest(req, t.options())
}

// ParseResponse delegates to openai.ParseResponse with this preset's
// reasoning-field precedence and text-tool-call fallback quirk.
func (t *Transformer) ParseResponse(data []byte) (*types.ChatResponse, error) {
	return openai.ParseResponse(data, t.Preset.Fields.ReasoningFields, t.Preset.Capabilities.QuirkTextToolCallFallback)
}

// NewStreamState returns a fresh per-stream state parametrized by this
// preset's reasoning-field precedence.
func (t *Transformer) NewStreamState() *openai.StreamState {
	return openai.NewStreamState(t.Preset.Fields.ReasoningFields)
}
