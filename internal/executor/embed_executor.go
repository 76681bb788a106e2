package executor

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/siumai-go/siumai/internal/embed"
	"github.com/siumai-go/siumai/internal/providerspec"
	"github.com/siumai-go/siumai/internal/types"
)

// HTTPEmbedExecutor is C4's HttpEmbeddingExecutor: the same Spec-driven
// endpoint/header construction HTTPExecutor uses for chat, specialized
// to embeddings' single-request/single-response shape — no streaming,
// no mid-response retry distinction.
type HTTPEmbedExecutor struct {
	Provider     string
	Client       *http.Client
	Spec         providerspec.Spec
	Transformer  embed.Transformer
	APIKey       string
	BaseOverride string
	Retry        RetryOptions
}

// NewHTTPEmbedExecutor builds an embed executor with a default
// *http.Client and retry policy.
func NewHTTPEmbedExecutor(provider string, spec providerspec.Spec, t embed.Transformer, apiKey string) *HTTPEmbedExecutor {
	return &HTTPEmbedExecutor{
		Provider:    provider,
		Client:      &http.Client{Timeout: 60 * time.Second},
		Spec:        spec,
		Transformer: t,
		APIKey:      apiKey,
		Retry:       DefaultRetryOptions(),
	}
}

// Do embeds req.Input against the vendor's embeddings endpoint, retrying
// per e.Retry the same way HTTPExecutor.Do does for chat.
func (e *HTTPEmbedExecutor) Do(ctx context.Context, req *embed.Request) (*embed.Response, error) {
	if e.Transformer == nil {
		return nil, types.NewError(types.KindUnsupportedOperation, e.Provider, "embeddings not supported by this provider")
	}

	for attempt := 1; ; attempt++ {
		resp, err := e.attempt(ctx, req)
		if err == nil {
			return resp, nil
		}
		if !ShouldRetry(e.Retry, err, attempt) {
			return nil, err
		}
		if !Sleep(e.Retry.Delay(attempt), ctx.Done()) {
			return nil, ClassifyTransportError(e.Provider, ctx.Err())
		}
	}
}

func (e *HTTPEmbedExecutor) attempt(ctx context.Context, req *embed.Request) (*embed.Response, *types.Error) {
	body, err := e.Transformer.BuildRequest(req)
	if err != nil {
		return nil, types.NewError(types.KindInvalidParameter, e.Provider, err.Error())
	}

	// Endpoint construction is shared with the chat pipeline; a
	// minimal stub ChatRequest carries only what Spec.Endpoint reads
	// (the model, for vendors like Gemini that encode it in the URL).
	stub := &types.ChatRequest{Common: types.CommonParams{Model: req.Model}}
	url, err := e.Spec.Endpoint(providerspec.OpEmbed, stub, e.BaseOverride)
	if err != nil {
		return nil, types.NewError(types.KindUnsupportedOperation, e.Provider, err.Error())
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, types.NewError(types.KindInvalidParameter, e.Provider, err.Error())
	}
	for k, v := range e.Spec.BuildHeaders(e.APIKey, nil) {
		httpReq.Header.Set(k, v)
	}

	httpResp, err := e.Client.Do(httpReq)
	if err != nil {
		return nil, ClassifyTransportError(e.Provider, err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, ClassifyTransportError(e.Provider, err)
	}

	if httpResp.StatusCode >= 400 {
		kind := ClassifyHTTPStatus(httpResp.StatusCode, string(data))
		return nil, types.NewError(kind, e.Provider, string(data)).WithStatus(httpResp.StatusCode)
	}

	resp, perr := e.Transformer.ParseResponse(data)
	if perr != nil {
		return nil, types.NewError(types.KindProtocolError, e.Provider, perr.Error())
	}
	return resp, nil
}
