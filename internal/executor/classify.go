package executor

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/siumai-go/siumai/internal/types"
)

// ClassifyHTTPStatus wraps types.ClassifyStatus, additionally special-
// casing Anthropic's "overloaded_error" body shape, which arrives over
// HTTP 529 already and therefore falls straight out of ClassifyStatus,
// plus Anthropic/OpenAI-compatible vendors that signal overload with a
// 503 body containing an "overloaded" marker instead of a dedicated
// status code.
func ClassifyHTTPStatus(status int, bodySnippet string) types.Kind {
	if status == http.StatusServiceUnavailable && containsOverloadMarker(bodySnippet) {
		return types.KindOverloaded
	}
	return types.ClassifyStatus(status)
}

func containsOverloadMarker(body string) bool {
	return strings.Contains(body, "overloaded")
}

// ClassifyTransportError turns a transport-layer error (one that never
// produced an HTTP response) into an Error. Context cancellation and
// deadline-exceeded are distinguished from generic network failures so
// the retry policy never retries a caller-initiated cancellation.
func ClassifyTransportError(provider string, err error) *types.Error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return types.NewError(types.KindCancelled, provider, err.Error())
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return types.NewError(types.KindTimeout, provider, err.Error())
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return types.NewError(types.KindTimeout, provider, err.Error())
	}
	return types.NewError(types.KindNetworkError, provider, err.Error())
}
