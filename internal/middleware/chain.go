// Package middleware implements the model-level request/response chain
// that sits in front of an executor call: default-value injection,
// parameter clamping, retry-policy attachment, and (optionally) a
// semantic cache or a scripted hook, generalized from one fixed
// request-validation path into an ordered, composable list.
package middleware

import (
	"context"

	"github.com/siumai-go/siumai/internal/types"
)

// Next is the continuation a Middleware calls to proceed down the
// chain; the final Next invokes the executor itself.
type Next func(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error)

// Middleware may inspect or rewrite req before calling next, and may
// inspect or rewrite the response/error next returns. It MAY
// short-circuit by returning without calling next, but must still
// return a well-formed ChatResponse or error if it does.
type Middleware func(ctx context.Context, req *types.ChatRequest, next Next) (*types.ChatResponse, error)

// Chain composes an ordered list of Middleware into a single Next that
// threads ctx/req through each one in turn before finally invoking
// terminal. Index 0 runs outermost.
type Chain struct {
	middlewares []Middleware
}

// NewChain returns a Chain running ms in order, outermost first.
func NewChain(ms ...Middleware) *Chain {
	return &Chain{middlewares: ms}
}

// Then builds the composed Next that invokes the chain and finally
// terminal.
func (c *Chain) Then(terminal Next) Next {
	next := terminal
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		mw := c.middlewares[i]
		cur := next
		next = func(ctx context.Context, req *types.ChatRequest) (*types.ChatResponse, error) {
			return mw(ctx, req, cur)
		}
	}
	return next
}

// StreamNext is the streaming analogue of Next.
type StreamNext func(ctx context.Context, req *types.ChatRequest) (<-chan types.StreamEvent, error)

// StreamMiddleware is the streaming analogue of Middleware. Because a
// streaming call hands back a channel rather than one value, a
// short-circuiting StreamMiddleware must still preserve the
// exactly-one-StreamStart/exactly-one-terminal event algebra (e.g. by
// returning a channel from streaming.Lifecycle rather than an ad hoc
// one-off channel).
type StreamMiddleware func(ctx context.Context, req *types.ChatRequest, next StreamNext) (<-chan types.StreamEvent, error)

// StreamChain is the streaming analogue of Chain.
type StreamChain struct {
	middlewares []StreamMiddleware
}

func NewStreamChain(ms ...StreamMiddleware) *StreamChain {
	return &StreamChain{middlewares: ms}
}

func (c *StreamChain) Then(terminal StreamNext) StreamNext {
	next := terminal
	for i := len(c.middlewares) - 1; i >= 0; i-- {
		mw := c.middlewares[i]
		cur := next
		next = func(ctx context.Context, req *types.ChatRequest) (<-chan types.StreamEvent, error) {
			return mw(ctx, req, cur)
		}
	}
	return next
}
