package middleware

import (
	"context"

	"github.com/siumai-go/siumai/internal/types"
)

// DefaultValues fills in CommonParams fields the caller left unset,
// defaulting MaxTokens when a backend requires it (Anthropic requires
// max_tokens; here it's generalized into a reusable middleware instead
// of living inside one transformer).
type DefaultValues struct {
	Temperature *float64
	MaxTokens   *int
	TopP        *float64
}

// Middleware returns the Middleware applying d's fields wherever req
// leaves them nil. It never overwrites a value the caller set.
func (d DefaultValues) Middleware() Middleware {
	return func(ctx context.Context, req *types.ChatRequest, next Next) (*types.ChatResponse, error) {
		clone := types.CloneChatRequest(req)
		if clone.Common.Temperature == nil {
			clone.Common.Temperature = d.Temperature
		}
		if clone.Common.MaxTokens == nil {
			clone.Common.MaxTokens = d.MaxTokens
		}
		if clone.Common.TopP == nil {
			clone.Common.TopP = d.TopP
		}
		return next(ctx, clone)
	}
}

// StreamMiddleware is the streaming analogue of Middleware.
func (d DefaultValues) StreamMiddleware() StreamMiddleware {
	return func(ctx context.Context, req *types.ChatRequest, next StreamNext) (<-chan types.StreamEvent, error) {
		clone := types.CloneChatRequest(req)
		if clone.Common.Temperature == nil {
			clone.Common.Temperature = d.Temperature
		}
		if clone.Common.MaxTokens == nil {
			clone.Common.MaxTokens = d.MaxTokens
		}
		if clone.Common.TopP == nil {
			clone.Common.TopP = d.TopP
		}
		return next(ctx, clone)
	}
}
