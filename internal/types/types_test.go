package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMessageContentText(t *testing.T) {
	atomic := NewTextContent("hello")
	assert.Equal(t, "hello", atomic.Text())
	assert.False(t, atomic.IsMulti())

	multi := NewMultiContent(
		ContentPart{Kind: ContentText, Text: "foo"},
		ContentPart{Kind: ContentImage, URL: "https://example.com/a.png"},
		ContentPart{Kind: ContentText, Text: "bar"},
	)
	assert.True(t, multi.IsMulti())
	assert.Equal(t, "foobar", multi.Text())
	require.Len(t, multi.Parts(), 3)
}

func TestProviderOptionsLowercaseNormalization(t *testing.T) {
	req := &ChatRequest{}
	req = req.WithProviderOption("Anthropic", []byte(`{"beta":true}`))
	req = req.WithProviderOption("OPENAI", []byte(`{"x":1}`))

	assert.Equal(t, []byte(`{"beta":true}`), []byte(req.ProviderOption("anthropic")))
	assert.Equal(t, []byte(`{"x":1}`), []byte(req.ProviderOption("openai")))
	assert.Len(t, req.ProviderOptions, 2)
}

func TestToolCallFolderGroupsByIndexNotCallID(t *testing.T) {
	f := NewToolCallFolder()
	f.Add(0, "call_1", "get_weather", `{"c`)
	f.Add(0, "", "", `ity":"P`)
	f.Add(0, "", "", `aris"}`)

	calls := f.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, "get_weather", calls[0].Name)
	assert.Equal(t, `{"city":"Paris"}`, calls[0].Arguments)
}

func TestToolCallFolderOrdersByIndexAscending(t *testing.T) {
	f := NewToolCallFolder()
	f.Add(1, "call_b", "tool_b", "{}")
	f.Add(0, "call_a", "tool_a", "{}")

	calls := f.ToolCalls()
	require.Len(t, calls, 2)
	assert.Equal(t, "call_a", calls[0].ID)
	assert.Equal(t, "call_b", calls[1].ID)
}

func TestClassifyStatus(t *testing.T) {
	cases := map[int]Kind{
		401: KindUnauthorized,
		403: KindForbidden,
		404: KindNotFound,
		429: KindRateLimited,
		529: KindOverloaded,
		500: KindServerError,
		503: KindServerError,
		418: KindInvalidParameter,
	}
	for status, want := range cases {
		assert.Equal(t, want, ClassifyStatus(status), "status %d", status)
	}
}

func TestErrorRetryableDefaultsFromKind(t *testing.T) {
	assert.True(t, NewError(KindRateLimited, "openai", "too many requests").Retryable)
	assert.True(t, NewError(KindOverloaded, "anthropic", "overloaded").Retryable)
	assert.False(t, NewError(KindUnauthorized, "openai", "bad key").Retryable)
	assert.False(t, NewError(KindInvalidParameter, "openai", "bad field").Retryable)
}
