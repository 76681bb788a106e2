package executor

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/siumai-go/siumai/internal/providerspec"
	"github.com/siumai-go/siumai/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestExecutor(t *testing.T, serverURL string) *HTTPExecutor {
	t.Helper()
	spec := &providerspec.OpenAISpec{ProviderID: "openai", Base: serverURL + "/v1"}
	transformers := OpenAITransformers{}
	e := NewHTTPExecutor("openai", spec, transformers, "test-key")
	e.Retry = RetryOptions{MaxAttempts: 3, InitialDelay: 10 * time.Millisecond, Multiplier: 2.0, Jitter: 0}
	return e
}

func TestDoReturnsParsedResponseOnSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"resp1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"hi there"},"finish_reason":"stop"}],"usage":{"prompt_tokens":1,"completion_tokens":2,"total_tokens":3}}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL)
	resp, err := e.Do(context.Background(), &types.ChatRequest{Common: types.CommonParams{Model: "gpt-4o-mini"}})
	require.NoError(t, err)
	assert.Equal(t, "hi there", resp.ContentText())
	assert.Equal(t, types.FinishStop, resp.FinishReason.Kind)
}

func TestDoRetriesOnRateLimitThenSucceeds(t *testing.T) {
	var calls []time.Time
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, time.Now())
		if len(calls) < 3 {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error":"rate limited"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"resp1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"ok"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL)
	resp, err := e.Do(context.Background(), &types.ChatRequest{Common: types.CommonParams{Model: "gpt-4o-mini"}})
	require.NoError(t, err)
	assert.Equal(t, "ok", resp.ContentText())
	require.Len(t, calls, 3)

	assert.True(t, calls[1].Sub(calls[0]) >= 10*time.Millisecond)
	assert.True(t, calls[2].Sub(calls[1]) >= 20*time.Millisecond)
}

func TestDoDoesNotRetryOnBadRequest(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"bad request"}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL)
	_, err := e.Do(context.Background(), &types.ChatRequest{Common: types.CommonParams{Model: "gpt-4o-mini"}})
	require.Error(t, err)
	assert.Equal(t, 1, calls)

	var siumaiErr *types.Error
	require.ErrorAs(t, err, &siumaiErr)
	assert.Equal(t, types.KindInvalidParameter, siumaiErr.Kind)
	assert.False(t, siumaiErr.Retryable)
}

func TestDoPropagatesRequestIDHeader(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get(RequestIDHeader)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"resp1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL)
	_, err := e.Do(context.Background(), &types.ChatRequest{Common: types.CommonParams{Model: "gpt-4o-mini"}})
	require.NoError(t, err)
	assert.NotEmpty(t, gotHeader)
}

func TestDoInterceptorsObserveRequestAndResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"resp1","model":"gpt-4o-mini","choices":[{"index":0,"message":{"role":"assistant","content":"hi"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	var sawRequest, sawResponse bool
	e := newTestExecutor(t, srv.URL)
	e.Interceptors = Interceptors{
		BeforeSend: func(req *http.Request) error { sawRequest = true; return nil },
		OnResponse: func(resp *http.Response) { sawResponse = true },
	}
	_, err := e.Do(context.Background(), &types.ChatRequest{Common: types.CommonParams{Model: "gpt-4o-mini"}})
	require.NoError(t, err)
	assert.True(t, sawRequest)
	assert.True(t, sawResponse)
}

func TestStreamEmitsStreamStartDeltasAndStreamEnd(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		chunks := []string{
			`{"id":"1","model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":"Hel"},"finish_reason":""}]}`,
			`{"id":"1","model":"gpt-4o-mini","choices":[{"index":0,"delta":{"content":"lo"},"finish_reason":""}]}`,
			`{"id":"1","model":"gpt-4o-mini","choices":[{"index":0,"delta":{},"finish_reason":"stop"}]}`,
		}
		for _, c := range chunks {
			_, _ = w.Write([]byte("data: " + c + "\n\n"))
			flusher.Flush()
		}
		_, _ = w.Write([]byte("data: [DONE]\n\n"))
		flusher.Flush()
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL)
	ch, err := e.Stream(context.Background(), &types.ChatRequest{Common: types.CommonParams{Model: "gpt-4o-mini"}, Stream: true})
	require.NoError(t, err)

	var events []types.StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, types.EventStreamStart, events[0].Kind)
	last := events[len(events)-1]
	assert.Equal(t, types.EventStreamEnd, last.Kind)
	require.NotNil(t, last.Response)
	assert.Equal(t, "Hello", last.Response.ContentText())
}

func TestStreamSurfacesErrorWithoutRetryingMidStream(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "text/event-stream")
		flusher := w.(http.Flusher)
		_, _ = w.Write([]byte("data: {\"id\":\"1\",\"model\":\"gpt-4o-mini\",\"choices\":[{\"index\":0,\"delta\":{\"content\":\"partial\"},\"finish_reason\":\"\"}]}\n\n"))
		flusher.Flush()
		// Truncate the connection mid-stream, as if the upstream died.
		hj, _ := w.(http.Hijacker)
		conn, _, _ := hj.Hijack()
		_ = conn.Close()
	}))
	defer srv.Close()

	e := newTestExecutor(t, srv.URL)
	ch, err := e.Stream(context.Background(), &types.ChatRequest{Common: types.CommonParams{Model: "gpt-4o-mini"}, Stream: true})
	require.NoError(t, err)

	var events []types.StreamEvent
	for ev := range ch {
		events = append(events, ev)
	}
	require.NotEmpty(t, events)
	assert.Equal(t, 1, calls, "a mid-stream failure must not trigger a retry")
}

func TestStreamFramesOllamaJSONLines(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/x-ndjson")
		flusher := w.(http.Flusher)
		lines := []string{
			`{"model":"llama3","message":{"role":"assistant","content":"Hi"},"done":false}`,
			`{"model":"llama3","message":{"role":"assistant","content":""},"done":true,"done_reason":"stop"}`,
		}
		for _, l := range lines {
			_, _ = w.Write([]byte(l + "\n"))
			flusher.Flush()
		}
	}))
	defer srv.Close()

	spec := &providerspec.OllamaSpec{Base: srv.URL}
	e := NewHTTPExecutor("ollama", spec, OllamaTransformers{}, "")
	ch, err := e.Stream(context.Background(), &types.ChatRequest{Common: types.CommonParams{Model: "llama3"}, Stream: true})
	require.NoError(t, err)

	var got []types.StreamEvent
	for ev := range ch {
		got = append(got, ev)
	}
	require.NotEmpty(t, got)
	last := got[len(got)-1]
	assert.Equal(t, types.EventStreamEnd, last.Kind)
	require.NotNil(t, last.Response)
	assert.Equal(t, "Hi", last.Response.ContentText())
}

func TestClassifyHTTPStatusDetectsOverloadedBodyOn503(t *testing.T) {
	assert.Equal(t, types.KindOverloaded, ClassifyHTTPStatus(503, `{"error":{"type":"overloaded_error"}}`))
	assert.Equal(t, types.KindServerError, ClassifyHTTPStatus(503, `{"error":"maintenance"}`))
}

func TestRetryOptionsDelayDoublesPerAttempt(t *testing.T) {
	o := RetryOptions{InitialDelay: 10 * time.Millisecond, Multiplier: 2.0, MaxDelay: time.Second}
	assert.Equal(t, 10*time.Millisecond, o.Delay(1))
	assert.Equal(t, 20*time.Millisecond, o.Delay(2))
	assert.Equal(t, 40*time.Millisecond, o.Delay(3))
}

func TestTraceparentProducesValidLength(t *testing.T) {
	tp := Traceparent(NewRequestID())
	// "00-" + 32 hex chars + "-0000000000000000-01"
	assert.Len(t, tp, 3+32+1+16+1+2)
}

func TestChainRunsEachMemberInOrder(t *testing.T) {
	var order []string
	c := Chain(
		Interceptors{BeforeSend: func(req *http.Request) error { order = append(order, "a"); return nil }},
		Interceptors{BeforeSend: func(req *http.Request) error { order = append(order, "b"); return nil }},
	)
	req, _ := http.NewRequest(http.MethodGet, "http://example.com", nil)
	require.NoError(t, c.beforeSend(req))
	assert.Equal(t, []string{"a", "b"}, order)
}

func TestDoMergesAnthropicBetaHeaderFromProviderOptions(t *testing.T) {
	var gotBeta string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotBeta = r.Header.Get("anthropic-beta")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"1","model":"claude-3-5-sonnet","role":"assistant","content":[{"type":"text","text":"hi"}],"stop_reason":"end_turn"}`))
	}))
	defer srv.Close()

	spec := &providerspec.AnthropicSpec{Base: srv.URL}
	e := NewHTTPExecutor("anthropic", spec, AnthropicTransformers{}, "test-key")

	req := (&types.ChatRequest{Common: types.CommonParams{Model: "claude-3-5-sonnet"}}).
		WithProviderOption("anthropic", []byte(`{"context_management":{"edits":[{"type":"clear_tool_uses_20250919"}]}}`))
	_, err := e.Do(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "context-management-2025-06-27", gotBeta)
}

func TestClassifyTransportErrorMarksCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	e := ClassifyTransportError("openai", ctx.Err())
	assert.Equal(t, types.KindCancelled, e.Kind)
	assert.False(t, e.Retryable)
}
