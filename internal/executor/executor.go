// Package executor turns a unified ChatRequest into an actual HTTP call
// against a vendor, governed by a Spec (URL/headers) and a TransformerSet
// (body/response/stream shape), with retries, request-id/traceparent
// propagation, and an interceptor chain layered on top.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/siumai-go/siumai/internal/providerspec"
	"github.com/siumai-go/siumai/internal/streaming"
	"github.com/siumai-go/siumai/internal/types"
)

// HTTPExecutor ties a provider's Spec and TransformerSet together behind
// one Do/Stream surface. One instance is built per provider id and
// reused across calls.
type HTTPExecutor struct {
	Provider     string
	Client       *http.Client
	Spec         providerspec.Spec
	Transformers TransformerSet
	APIKey       string
	BaseOverride string
	Retry        RetryOptions
	Interceptors Interceptors
	Limits       streaming.Limits
}

// NewHTTPExecutor builds an executor with a default *http.Client and
// retry policy; callers needing a custom transport or timeouts should
// set Client/Retry directly afterward.
func NewHTTPExecutor(provider string, spec providerspec.Spec, transformers TransformerSet, apiKey string) *HTTPExecutor {
	return &HTTPExecutor{
		Provider:     provider,
		Client:       &http.Client{Timeout: 120 * time.Second},
		Spec:         spec,
		Transformers: transformers,
		APIKey:       apiKey,
		Retry:        DefaultRetryOptions(),
	}
}

func (e *HTTPExecutor) w3cTraceEnabled() bool {
	return os.Getenv("SIUMAI_W3C_TRACE") != ""
}

func (e *HTTPExecutor) buildHTTPRequest(ctx context.Context, op providerspec.Operation, chatReq *types.ChatRequest, requestID string) (*http.Request, []types.Warning, error) {
	body, warnings, err := e.Transformers.BuildRequest(chatReq)
	if err != nil {
		return nil, nil, err
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return nil, warnings, err
	}

	url, err := e.Spec.Endpoint(op, chatReq, e.BaseOverride)
	if err != nil {
		return nil, warnings, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, warnings, err
	}

	extra := chatReq.HTTP.ExtraHeaders
	headers := e.Spec.BuildHeaders(e.APIKey, extra)
	if betaSpec, ok := e.Spec.(providerspec.BetaSpec); ok {
		headers = betaSpec.BuildHeadersWithBetas(e.APIKey, extra, betaSpec.RequiredBetas(chatReq))
	}
	for k, v := range headers {
		httpReq.Header.Set(k, v)
	}
	httpReq.Header.Set(RequestIDHeader, requestID)
	if e.w3cTraceEnabled() {
		httpReq.Header.Set("traceparent", Traceparent(requestID))
	}
	return httpReq, warnings, nil
}

// Do executes a non-streaming chat completion, retrying per e.Retry on
// network failures, 5xx, 429, and overloaded responses only.
func (e *HTTPExecutor) Do(ctx context.Context, chatReq *types.ChatRequest) (*types.ChatResponse, error) {
	requestID := NewRequestID()

	for attempt := 1; ; attempt++ {
		resp, err := e.attempt(ctx, providerspec.OpChat, chatReq, requestID)
		if err == nil {
			return resp, nil
		}
		e.Interceptors.onError(err)
		if !ShouldRetry(e.Retry, err, attempt) {
			return nil, err
		}
		if !Sleep(e.Retry.Delay(attempt), ctx.Done()) {
			return nil, ClassifyTransportError(e.Provider, ctx.Err())
		}
	}
}

func (e *HTTPExecutor) attempt(ctx context.Context, op providerspec.Operation, chatReq *types.ChatRequest, requestID string) (*types.ChatResponse, *types.Error) {
	httpReq, warnings, err := e.buildHTTPRequest(ctx, op, chatReq, requestID)
	if err != nil {
		return nil, types.NewError(types.KindInvalidParameter, e.Provider, err.Error())
	}
	if err := e.Interceptors.beforeSend(httpReq); err != nil {
		return nil, types.NewError(types.KindInvalidParameter, e.Provider, err.Error())
	}

	httpResp, err := e.Client.Do(httpReq)
	if err != nil {
		return nil, ClassifyTransportError(e.Provider, err).WithRequestID(requestID)
	}
	defer httpResp.Body.Close()
	e.Interceptors.onResponse(httpResp)

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, ClassifyTransportError(e.Provider, err).WithRequestID(requestID)
	}

	respRequestID := ExtractResponseRequestID(httpResp, requestID)

	if httpResp.StatusCode >= 400 {
		kind := ClassifyHTTPStatus(httpResp.StatusCode, string(data))
		httpErr := types.NewError(kind, e.Provider, string(data)).WithStatus(httpResp.StatusCode).WithRequestID(respRequestID)
		return nil, httpErr
	}

	chatResp, perr := e.Transformers.ParseResponse(data)
	if perr != nil {
		return nil, types.NewError(types.KindProtocolError, e.Provider, perr.Error()).WithRequestID(respRequestID)
	}
	chatResp.RequestID = respRequestID
	chatResp.Warnings = append(chatResp.Warnings, warnings...)
	return chatResp, nil
}

// Stream executes a streaming chat completion, returning a channel of
// normalized events. Retries only happen before the first byte of the
// body is read; once any frame has been parsed, a mid-stream failure is
// surfaced as a terminal Error event instead of silently retrying and
// duplicating partial output to the caller.
func (e *HTTPExecutor) Stream(ctx context.Context, chatReq *types.ChatRequest) (<-chan types.StreamEvent, error) {
	requestID := NewRequestID()
	out := make(chan types.StreamEvent)

	var httpResp *http.Response
	var lastErr *types.Error
	for attempt := 1; ; attempt++ {
		httpReq, _, err := e.buildHTTPRequest(ctx, providerspec.OpChatStream, chatReq, requestID)
		if err != nil {
			return nil, types.NewError(types.KindInvalidParameter, e.Provider, err.Error())
		}
		if err := e.Interceptors.beforeSend(httpReq); err != nil {
			return nil, types.NewError(types.KindInvalidParameter, e.Provider, err.Error())
		}

		resp, err := e.Client.Do(httpReq)
		if err != nil {
			lastErr = ClassifyTransportError(e.Provider, err).WithRequestID(requestID)
		} else if resp.StatusCode >= 400 {
			data, _ := io.ReadAll(resp.Body)
			resp.Body.Close()
			kind := ClassifyHTTPStatus(resp.StatusCode, string(data))
			lastErr = types.NewError(kind, e.Provider, string(data)).WithStatus(resp.StatusCode).WithRequestID(requestID)
		} else {
			httpResp = resp
			e.Interceptors.onResponse(resp)
			break
		}

		e.Interceptors.onError(lastErr)
		if !ShouldRetry(e.Retry, lastErr, attempt) {
			return nil, lastErr
		}
		if !Sleep(e.Retry.Delay(attempt), ctx.Done()) {
			return nil, ClassifyTransportError(e.Provider, ctx.Err())
		}
	}

	go e.pump(ctx, httpResp, requestID, out)
	return out, nil
}

func (e *HTTPExecutor) pump(ctx context.Context, httpResp *http.Response, requestID string, out chan<- types.StreamEvent) {
	defer close(out)
	defer httpResp.Body.Close()

	state := e.Transformers.NewStreamState()
	lifecycle := streaming.NewLifecycle(e.Provider, e.Limits)
	cancelCh := streaming.WatchCancel(ctx, e.Provider)

	feed := func(frame []byte) bool {
		events, err := state.Feed(frame)
		if err != nil {
			streaming.SendOrCancel(ctx, out, types.StreamEvent{Kind: types.EventError, Err: types.Wrap(types.KindProtocolError, e.Provider, err)})
			return false
		}
		for _, raw := range events {
			folded, ferr := lifecycle.Feed(raw)
			if ferr != nil {
				streaming.SendOrCancel(ctx, out, types.StreamEvent{Kind: types.EventError, Err: types.Wrap(types.KindProtocolError, e.Provider, ferr)})
				return false
			}
			for _, ev := range folded {
				if ev.Kind == types.EventStreamEnd && ev.Response != nil {
					ev.Response.RequestID = requestID
				}
				if !streaming.SendOrCancel(ctx, out, ev) {
					return false
				}
			}
		}
		return true
	}

	switch e.Transformers.FrameMode() {
	case FrameJSONLines:
		sc := streaming.NewJSONLinesScanner(httpResp.Body, 0)
		for {
			select {
			case cancelEv := <-cancelCh:
				streaming.SendOrCancel(ctx, out, cancelEv)
				return
			default:
			}
			line, ok := sc.Next()
			if !ok {
				break
			}
			if !feed(line) {
				return
			}
		}
	default:
		sc := streaming.NewSSEScanner(httpResp.Body, 0)
		for {
			select {
			case cancelEv := <-cancelCh:
				streaming.SendOrCancel(ctx, out, cancelEv)
				return
			default:
			}
			ev, ok := sc.Next()
			if !ok {
				break
			}
			// "[DONE]" ends the stream even for specs without a marker, so a
			// spurious one (Gemini) is not fed to the parser.
			if ev.Data != "" && (ev.Data == e.Spec.SSEDoneMarker() || ev.Data == "[DONE]") {
				break
			}
			if !feed([]byte(ev.Data)) {
				return
			}
		}
	}

	if !lifecycle.Terminated() {
		// The upstream connection closed without an explicit terminal event
		// (seen with OpenAI's "[DONE]" sentinel, which carries no payload of
		// its own) — synthesize one from whatever Lifecycle accumulated.
		streaming.SendOrCancel(ctx, out, types.StreamEvent{Kind: types.EventStreamEnd, Response: lifecycle.FinalResponse()})
	}
}
