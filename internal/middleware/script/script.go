// Package script implements the optional Lua-scripted request/response
// hook middleware: a caller-supplied Lua chunk can inspect or rewrite a
// request before it's sent, and the response text after it comes back,
// without recompiling the module.
package script

import (
	"context"
	"fmt"

	lua "github.com/yuin/gopher-lua"

	"github.com/siumai-go/siumai/internal/middleware"
	"github.com/siumai-go/siumai/internal/types"
)

// Hook holds Lua source (checked once by New, then run in a fresh state
// on every call) exposing up to two global functions:
// "on_request(content) -> content" and "on_response(content) -> content".
// Either may be absent; a missing function is a no-op.
type Hook struct {
	source string
}

// New compiles source immediately to fail fast on a syntax error rather
// than at first use.
func New(source string) (*Hook, error) {
	state := lua.NewState()
	defer state.Close()
	if err := state.DoString(source); err != nil {
		return nil, fmt.Errorf("script: compiling hook: %w", err)
	}
	return &Hook{source: source}, nil
}

// Middleware returns the chain Middleware applying on_request to the
// last user message's text before next runs, and on_response to the
// resulting content text afterward.
func (h *Hook) Middleware() middleware.Middleware {
	return func(ctx context.Context, req *types.ChatRequest, next middleware.Next) (*types.ChatResponse, error) {
		if len(req.Messages) > 0 {
			clone := *req
			clone.Messages = append([]types.ChatMessage(nil), req.Messages...)
			last := len(clone.Messages) - 1
			if rewritten, ok, err := h.call("on_request", clone.Messages[last].Content.Text()); err != nil {
				return nil, fmt.Errorf("script: on_request: %w", err)
			} else if ok {
				clone.Messages[last].Content = types.NewTextContent(rewritten)
			}
			req = &clone
		}

		resp, err := next(ctx, req)
		if err != nil || resp == nil {
			return resp, err
		}

		if rewritten, ok, err := h.call("on_response", resp.Content.Text()); err != nil {
			return nil, fmt.Errorf("script: on_response: %w", err)
		} else if ok {
			resp.Content = types.NewTextContent(rewritten)
		}
		return resp, nil
	}
}

// call invokes fnName(text) in a fresh Lua state (gopher-lua states are
// not safe for concurrent reuse), returning ok=false if fnName isn't
// defined by the hook's source.
func (h *Hook) call(fnName, text string) (string, bool, error) {
	state := lua.NewState()
	defer state.Close()

	if err := state.DoString(h.source); err != nil {
		return "", false, err
	}

	fn := state.GetGlobal(fnName)
	if fn == lua.LNil {
		return "", false, nil
	}

	if err := state.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true}, lua.LString(text)); err != nil {
		return "", false, err
	}
	ret := state.Get(-1)
	state.Pop(1)

	if s, ok := ret.(lua.LString); ok {
		return string(s), true, nil
	}
	return text, true, nil
}
