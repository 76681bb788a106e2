package siumai

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siumai-go/siumai/internal/embed"
)

func TestEmbedAgainstOpenAI(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"model":"text-embedding-3-small","data":[{"index":0,"embedding":[0.1,0.2,0.3]}],"usage":{"prompt_tokens":3,"total_tokens":3}}`))
	}))
	defer srv.Close()

	c, err := New("openai:text-embedding-3-small", WithAPIKey("test-key"), WithBaseURL(srv.URL))
	require.NoError(t, err)
	require.True(t, c.SupportsEmbed())

	resp, err := c.Embed(context.Background(), &embed.Request{Input: []string{"hello world"}})
	require.NoError(t, err)
	require.Len(t, resp.Vectors, 1)
	assert.Equal(t, []float32{0.1, 0.2, 0.3}, resp.Vectors[0])
	assert.Equal(t, 3, resp.Usage.TotalTokens)
}

func TestSupportsEmbedFalseForAnthropic(t *testing.T) {
	c, err := New("anthropic:claude-haiku-4-5", WithAPIKey("test-key"))
	require.NoError(t, err)
	assert.False(t, c.SupportsEmbed())

	_, err = c.Embed(context.Background(), &embed.Request{Input: []string{"hi"}})
	assert.Error(t, err)
}
