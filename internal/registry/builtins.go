package registry

import (
	"github.com/siumai-go/siumai/internal/executor"
	"github.com/siumai-go/siumai/internal/providerspec"
	"github.com/siumai-go/siumai/internal/transform/compat"
)

// registerBuiltins populates factories with every vendor family the
// module ships: the five native wire protocols plus the shared
// OpenAI-compatible preset table, so registry.Resolve("groq:llama3")
// works the same way registry.Resolve("openai:gpt-4o") does.
func registerBuiltins() {
	factories["openai"] = func() Entry {
		spec := providerspec.NewOpenAISpec()
		return Entry{
			ID: "openai", Spec: spec, RequiresAPIKey: true,
			Transformers:     executor.OpenAITransformers{},
			EmbedTransformer: executor.OpenAIEmbedTransformer{},
		}
	}

	factories["openai-responses"] = func() Entry {
		spec := providerspec.NewOpenAIResponsesSpec()
		return Entry{
			ID: "openai-responses", Spec: spec, RequiresAPIKey: true,
			Transformers: executor.OpenAIRespTransformers{},
		}
	}

	factories["anthropic"] = func() Entry {
		spec := providerspec.NewAnthropicSpec()
		return Entry{
			ID: "anthropic", Spec: spec, RequiresAPIKey: true,
			Transformers: executor.AnthropicTransformers{},
		}
	}

	factories["gemini"] = func() Entry {
		spec := providerspec.NewGeminiSpec()
		return Entry{
			ID: "gemini", Spec: spec, RequiresAPIKey: true,
			Transformers:     executor.GeminiTransformers{},
			EmbedTransformer: executor.GeminiEmbedTransformer{},
		}
	}

	factories["ollama"] = func() Entry {
		spec := providerspec.NewOllamaSpec()
		return Entry{
			ID: "ollama", Spec: spec, RequiresAPIKey: false,
			Transformers:     executor.OllamaTransformers{},
			EmbedTransformer: executor.OllamaEmbedTransformer{},
		}
	}

	for id, preset := range compat.Presets {
		id, preset := id, preset // capture per-iteration values for the closure
		factories[id] = func() Entry {
			entry := Entry{
				ID:             preset.ID,
				Spec:           providerspec.NewCompatSpec(preset),
				RequiresAPIKey: true,
				Transformers:   executor.CompatTransformers{T: compat.NewTransformer(preset)},
			}
			if preset.Capabilities.Embeddings {
				// Every OpenAI-compatible preset that advertises
				// embedding support speaks the same wire shape
				// OpenAI's own /embeddings endpoint does.
				entry.EmbedTransformer = executor.OpenAIEmbedTransformer{}
			}
			return entry
		}
	}
}
