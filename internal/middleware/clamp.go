package middleware

import (
	"context"

	"github.com/siumai-go/siumai/internal/types"
)

// Limits describes a provider's known acceptable ranges for the common
// generation parameters. A zero field means "no known limit" and is not
// clamped.
type Limits struct {
	MaxTemperature *float64
	MaxTopP        *float64
	MaxOutputTokens *int
}

// Clamp reshapes request parameters that exceed l's known limits down to
// the limit, rather than letting the vendor reject the call outright.
type Clamp struct {
	Limits Limits
}

func (c Clamp) Middleware() Middleware {
	return func(ctx context.Context, req *types.ChatRequest, next Next) (*types.ChatResponse, error) {
		clamped := clampParams(*req, c.Limits)
		return next(ctx, &clamped)
	}
}

func (c Clamp) StreamMiddleware() StreamMiddleware {
	return func(ctx context.Context, req *types.ChatRequest, next StreamNext) (<-chan types.StreamEvent, error) {
		clamped := clampParams(*req, c.Limits)
		return next(ctx, &clamped)
	}
}

func clampParams(req types.ChatRequest, l Limits) types.ChatRequest {
	if l.MaxTemperature != nil && req.Common.Temperature != nil && *req.Common.Temperature > *l.MaxTemperature {
		v := *l.MaxTemperature
		req.Common.Temperature = &v
	}
	if l.MaxTopP != nil && req.Common.TopP != nil && *req.Common.TopP > *l.MaxTopP {
		v := *l.MaxTopP
		req.Common.TopP = &v
	}
	if l.MaxOutputTokens != nil && req.Common.MaxTokens != nil && *req.Common.MaxTokens > *l.MaxOutputTokens {
		v := *l.MaxOutputTokens
		req.Common.MaxTokens = &v
	}
	return req
}
