package siumai

import (
	"context"

	"github.com/siumai-go/siumai/internal/embed"
	"github.com/siumai-go/siumai/internal/executor"
	"github.com/siumai-go/siumai/internal/middleware"
	"github.com/siumai-go/siumai/internal/registry"
	"github.com/siumai-go/siumai/internal/types"
)

// ChatCapability is the core capability every Client satisfies: unified
// non-streaming and streaming chat completion.
type ChatCapability interface {
	Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error)
	ChatStream(ctx context.Context, req *types.ChatRequest) (*StreamHandle, error)
}

// EmbedCapability is satisfied by a Client bound to a provider that
// exposes an embeddings endpoint (OpenAI, Gemini, Ollama, and any
// OpenAI-compatible preset advertising embedding support — not
// Anthropic, which has none). Callers should type-assert or check
// SupportsEmbed before calling Embed against a provider that might not
// support it.
type EmbedCapability interface {
	Embed(ctx context.Context, req *embed.Request) (*embed.Response, error)
	SupportsEmbed() bool
}

// StreamHandle pairs a normalized event channel with an explicit cancel
// trigger: cancellation is a first-class value, so the caller is never
// asked to rely on dropping the channel.
type StreamHandle struct {
	Events <-chan types.StreamEvent
	cancel context.CancelFunc
}

// Cancel drops the upstream HTTP connection and stops event production.
// Idempotent: calling it on an already-terminated stream is a no-op.
func (h *StreamHandle) Cancel() {
	if h.cancel != nil {
		h.cancel()
	}
}

// Client is the caller-facing handle for one resolved "provider:model"
// pipeline: spec + transformers + executor + middleware chain, wired by
// New through the registry instead of a fixed two-branch factory switch.
type Client struct {
	providerID   string
	model        string
	exec         *executor.HTTPExecutor
	embedExec    *executor.HTTPEmbedExecutor
	chain        *middleware.Chain
	streamChain  *middleware.StreamChain
	extraHeaders map[string]string
}

// New resolves identifier ("provider:model", e.g. "openai:gpt-4o-mini")
// against internal/registry and returns a ready Client. The API key is
// read from the provider's environment variable unless WithAPIKey
// overrides it; Ollama requires none.
func New(identifier string, opts ...Option) (*Client, error) {
	cfg := buildConfig{sep: ":"}
	for _, o := range opts {
		o(&cfg)
	}

	entry, model, err := registry.Resolve(identifier, cfg.sep)
	if err != nil {
		return nil, err
	}

	apiKey, err := registry.APIKey(entry, cfg.apiKey)
	if err != nil {
		return nil, err
	}

	exec := executor.NewHTTPExecutor(entry.ID, entry.Spec, entry.Transformers, apiKey)
	if cfg.httpClient != nil {
		exec.Client = cfg.httpClient
	}
	if cfg.retry != nil {
		exec.Retry = *cfg.retry
	}
	if cfg.baseURL != "" {
		exec.BaseOverride = cfg.baseURL
	}
	if len(cfg.interceptors) > 0 {
		exec.Interceptors = executor.Chain(cfg.interceptors...)
	}

	ms := cfg.middlewares
	sms := cfg.streamMiddlewares
	if hasAnyParam(cfg.commonDefaults) {
		dv := middleware.DefaultValues{
			Temperature: cfg.commonDefaults.Temperature,
			MaxTokens:   cfg.commonDefaults.MaxTokens,
			TopP:        cfg.commonDefaults.TopP,
		}
		ms = append([]middleware.Middleware{dv.Middleware()}, ms...)
		sms = append([]middleware.StreamMiddleware{dv.StreamMiddleware()}, sms...)
	}

	var embedExec *executor.HTTPEmbedExecutor
	if entry.EmbedTransformer != nil {
		embedExec = executor.NewHTTPEmbedExecutor(entry.ID, entry.Spec, entry.EmbedTransformer, apiKey)
		if cfg.httpClient != nil {
			embedExec.Client = cfg.httpClient
		}
		if cfg.retry != nil {
			embedExec.Retry = *cfg.retry
		}
		if cfg.baseURL != "" {
			embedExec.BaseOverride = cfg.baseURL
		}
	}

	return &Client{
		providerID:   entry.ID,
		model:        model,
		exec:         exec,
		embedExec:    embedExec,
		chain:        middleware.NewChain(ms...),
		streamChain:  middleware.NewStreamChain(sms...),
		extraHeaders: cfg.extraHeaders,
	}, nil
}

func hasAnyParam(p types.CommonParams) bool {
	return p.Temperature != nil || p.MaxTokens != nil || p.TopP != nil
}

// Model returns the model name resolved from the "provider:model"
// identifier, or "" if the identifier carried no model suffix.
func (c *Client) Model() string { return c.model }

// ProviderID returns the registry provider id this Client is bound to.
func (c *Client) ProviderID() string { return c.providerID }

// fillRequest injects the resolved model name and any client-level
// extra headers req itself doesn't already set, matching the
// registry's "provider:model" convention and the builder's
// WithExtraHeader option.
func (c *Client) fillRequest(req *types.ChatRequest) *types.ChatRequest {
	if req.Common.Model != "" && len(c.extraHeaders) == 0 {
		return req
	}
	clone := types.CloneChatRequest(req)
	if clone.Common.Model == "" {
		clone.Common.Model = c.model
	}
	if len(c.extraHeaders) > 0 {
		merged := make(map[string]string, len(c.extraHeaders)+len(clone.HTTP.ExtraHeaders))
		for k, v := range c.extraHeaders {
			merged[k] = v
		}
		for k, v := range clone.HTTP.ExtraHeaders {
			merged[k] = v
		}
		clone.HTTP.ExtraHeaders = merged
	}
	return clone
}

// Chat sends req and returns the complete response, retrying per the
// Client's RetryOptions on network failures, 5xx, 429, and overloaded
// responses. Middleware installed via WithMiddleware/WithDefaultParams
// runs outermost-first on the way in, reverse on the way out.
func (c *Client) Chat(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
	req = c.fillRequest(req)
	next := c.chain.Then(func(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
		return c.exec.Do(ctx, req)
	})
	return next(ctx, req)
}

// ChatStream starts a streaming chat completion and returns a
// StreamHandle. Retries only apply before the first byte of the
// response body arrives; once a frame has been parsed, a failure
// surfaces as a terminal Error event instead.
func (c *Client) ChatStream(ctx context.Context, req *types.ChatRequest) (*StreamHandle, error) {
	req = c.fillRequest(req)
	ctx, cancel := context.WithCancel(ctx)

	next := c.streamChain.Then(func(ctx context.Context, req *types.ChatRequest) (<-chan types.StreamEvent, error) {
		return c.exec.Stream(ctx, req)
	})
	events, err := next(ctx, req)
	if err != nil {
		cancel()
		return nil, err
	}
	return &StreamHandle{Events: events, cancel: cancel}, nil
}

// SupportsEmbed reports whether this Client's provider exposes an
// embeddings endpoint.
func (c *Client) SupportsEmbed() bool { return c.embedExec != nil }

// Embed embeds req.Input against the bound provider's embeddings
// endpoint. Returns a KindUnsupportedOperation error if the provider has
// no embeddings endpoint (check SupportsEmbed first to avoid the round
// trip through the error path).
func (c *Client) Embed(ctx context.Context, req *embed.Request) (*embed.Response, error) {
	if req.Model == "" {
		req = &embed.Request{Model: c.model, Input: req.Input, Dimensions: req.Dimensions}
	}
	if c.embedExec == nil {
		return nil, types.NewError(types.KindUnsupportedOperation, c.providerID, "provider has no embeddings endpoint")
	}
	return c.embedExec.Do(ctx, req)
}

// UserMessage builds the common case: a single-turn request carrying
// one user text message and no other configuration. Callers needing
// tools, multimodal parts, or provider options construct a
// *types.ChatRequest directly.
func UserMessage(text string) *types.ChatRequest {
	return &types.ChatRequest{
		Messages: []types.ChatMessage{
			{Role: types.RoleUser, Content: types.NewTextContent(text)},
		},
	}
}
