package executor

import (
	"github.com/siumai-go/siumai/internal/embed"
	"github.com/siumai-go/siumai/internal/transform/anthropic"
	"github.com/siumai-go/siumai/internal/transform/compat"
	"github.com/siumai-go/siumai/internal/transform/gemini"
	"github.com/siumai-go/siumai/internal/transform/ollama"
	"github.com/siumai-go/siumai/internal/transform/openai"
	"github.com/siumai-go/siumai/internal/transform/openairesp"
	"github.com/siumai-go/siumai/internal/types"
)

// OpenAITransformers adapts internal/transform/openai to TransformerSet.
// It is also the adapter CompatTransformers delegates its non-BuildRequest
// methods to, since every OpenAI-compatible preset reuses openai's
// response parser and stream-chunk folding unchanged.
type OpenAITransformers struct {
	Opts            openai.Options
	ReasoningFields []string
	TextToolCallFallback bool
}

func (t OpenAITransformers) BuildRequest(req *types.ChatRequest) (interface{}, []types.Warning, error) {
	return openai.BuildRequest(req, t.Opts)
}

func (t OpenAITransformers) ParseResponse(data []byte) (*types.ChatResponse, error) {
	return openai.ParseResponse(data, t.ReasoningFields, t.TextToolCallFallback)
}

func (t OpenAITransformers) NewStreamState() StreamState {
	return openaiStreamAdapter{state: openai.NewStreamState(t.ReasoningFields)}
}

func (t OpenAITransformers) FrameMode() FrameMode { return FrameSSE }

type openaiStreamAdapter struct{ state *openai.StreamState }

func (a openaiStreamAdapter) Feed(frame []byte) ([]types.StreamEvent, error) {
	return a.state.StreamChunk(frame)
}

// AnthropicTransformers adapts internal/transform/anthropic.
type AnthropicTransformers struct{}

func (AnthropicTransformers) BuildRequest(req *types.ChatRequest) (interface{}, []types.Warning, error) {
	return anthropic.BuildRequest(req)
}

func (AnthropicTransformers) ParseResponse(data []byte) (*types.ChatResponse, error) {
	return anthropic.ParseResponse(data)
}

func (AnthropicTransformers) NewStreamState() StreamState {
	return anthropicStreamAdapter{state: anthropic.NewStreamState()}
}

func (AnthropicTransformers) FrameMode() FrameMode { return FrameSSE }

type anthropicStreamAdapter struct{ state *anthropic.StreamState }

func (a anthropicStreamAdapter) Feed(frame []byte) ([]types.StreamEvent, error) {
	return a.state.StreamEvent(frame)
}

// GeminiTransformers adapts internal/transform/gemini.
type GeminiTransformers struct{}

func (GeminiTransformers) BuildRequest(req *types.ChatRequest) (interface{}, []types.Warning, error) {
	return gemini.BuildRequest(req)
}

func (GeminiTransformers) ParseResponse(data []byte) (*types.ChatResponse, error) {
	return gemini.ParseResponse(data)
}

func (GeminiTransformers) NewStreamState() StreamState {
	return geminiStreamAdapter{state: gemini.NewStreamState()}
}

func (GeminiTransformers) FrameMode() FrameMode { return FrameSSE }

type geminiStreamAdapter struct{ state *gemini.StreamState }

func (a geminiStreamAdapter) Feed(frame []byte) ([]types.StreamEvent, error) {
	return a.state.StreamChunk(frame)
}

// OllamaTransformers adapts internal/transform/ollama. Ollama has no SSE
// framing, so FrameMode reports FrameJSONLines.
type OllamaTransformers struct{}

func (OllamaTransformers) BuildRequest(req *types.ChatRequest) (interface{}, []types.Warning, error) {
	return ollama.BuildRequest(req)
}

func (OllamaTransformers) ParseResponse(data []byte) (*types.ChatResponse, error) {
	return ollama.ParseResponse(data)
}

func (OllamaTransformers) NewStreamState() StreamState {
	return ollamaStreamAdapter{state: ollama.NewStreamState()}
}

func (OllamaTransformers) FrameMode() FrameMode { return FrameJSONLines }

type ollamaStreamAdapter struct{ state *ollama.StreamState }

func (a ollamaStreamAdapter) Feed(frame []byte) ([]types.StreamEvent, error) {
	return a.state.StreamLine(frame)
}

// OpenAIRespTransformers adapts internal/transform/openairesp, the
// Responses API family. Unlike every other transformer set it has no
// [DONE] sentinel and instead terminates on a named
// response.completed/incomplete/failed event; its StreamState already
// returns a terminal EventStreamEnd itself, so no extra handling is
// needed here.
type OpenAIRespTransformers struct{}

func (OpenAIRespTransformers) BuildRequest(req *types.ChatRequest) (interface{}, []types.Warning, error) {
	return openairesp.BuildRequest(req)
}

func (OpenAIRespTransformers) ParseResponse(data []byte) (*types.ChatResponse, error) {
	return openairesp.ParseResponse(data)
}

func (OpenAIRespTransformers) NewStreamState() StreamState {
	return openaiRespStreamAdapter{state: openairesp.NewStreamState()}
}

func (OpenAIRespTransformers) FrameMode() FrameMode { return FrameSSE }

type openaiRespStreamAdapter struct{ state *openairesp.StreamState }

func (a openaiRespStreamAdapter) Feed(frame []byte) ([]types.StreamEvent, error) {
	return a.state.StreamEvent(frame)
}

// CompatTransformers adapts internal/transform/compat's preset-driven
// Transformer, which itself wraps openai's transformer functions.
type CompatTransformers struct {
	T *compat.Transformer
}

func (c CompatTransformers) BuildRequest(req *types.ChatRequest) (interface{}, []types.Warning, error) {
	return c.T.BuildRequest(req)
}

func (c CompatTransformers) ParseResponse(data []byte) (*types.ChatResponse, error) {
	return c.T.ParseResponse(data)
}

func (c CompatTransformers) NewStreamState() StreamState {
	return openaiStreamAdapter{state: c.T.NewStreamState()}
}

func (c CompatTransformers) FrameMode() FrameMode { return FrameSSE }

// OpenAIEmbedTransformer, GeminiEmbedTransformer, and OllamaEmbedTransformer
// adapt each family's embed.go functions to embed.Transformer for
// HTTPEmbedExecutor. Anthropic has no embeddings endpoint, so there is
// no AnthropicEmbedTransformer.
type OpenAIEmbedTransformer struct{}

func (OpenAIEmbedTransformer) BuildRequest(req *embed.Request) ([]byte, error) {
	return openai.BuildEmbedRequest(req)
}

func (OpenAIEmbedTransformer) ParseResponse(body []byte) (*embed.Response, error) {
	return openai.ParseEmbedResponse(body)
}

type GeminiEmbedTransformer struct{}

func (GeminiEmbedTransformer) BuildRequest(req *embed.Request) ([]byte, error) {
	return gemini.BuildEmbedRequest(req)
}

func (GeminiEmbedTransformer) ParseResponse(body []byte) (*embed.Response, error) {
	return gemini.ParseEmbedResponse(body)
}

type OllamaEmbedTransformer struct{}

func (OllamaEmbedTransformer) BuildRequest(req *embed.Request) ([]byte, error) {
	return ollama.BuildEmbedRequest(req)
}

func (OllamaEmbedTransformer) ParseResponse(body []byte) (*embed.Response, error) {
	return ollama.ParseEmbedResponse(body)
}
