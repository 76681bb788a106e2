package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siumai-go/siumai/internal/types"
)

type stubEmbedder struct {
	vectors map[string][]float32
}

func (s stubEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if v, ok := s.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0, 0}, nil
}

func newTestCache(t *testing.T, embedder Embedder, threshold float64) *Cache {
	t.Helper()
	mr := miniredis.RunT(t)
	return New([]string{mr.Addr()}, embedder, threshold)
}

func chatReq(text string) *types.ChatRequest {
	return &types.ChatRequest{
		Messages: []types.ChatMessage{{Role: types.RoleUser, Content: types.NewTextContent(text)}},
	}
}

func TestCacheMissStoresThenHit(t *testing.T) {
	embedder := stubEmbedder{vectors: map[string][]float32{
		"what is the capital of france": {1, 0, 0},
	}}
	c := newTestCache(t, embedder, 0.9)
	bucket := func(*types.ChatRequest) string { return "openai:gpt-4o" }

	calls := 0
	terminal := func(ctx context.Context, r *types.ChatRequest) (*types.ChatResponse, error) {
		calls++
		return &types.ChatResponse{Content: types.NewTextContent("Paris")}, nil
	}

	mw := c.Middleware(bucket)
	req := chatReq("what is the capital of france")

	resp1, err := mw(context.Background(), req, terminal)
	require.NoError(t, err)
	assert.Equal(t, "Paris", resp1.Content.Text())
	assert.Equal(t, 1, calls)

	resp2, err := mw(context.Background(), req, terminal)
	require.NoError(t, err)
	assert.Equal(t, "Paris", resp2.Content.Text())
	assert.Equal(t, 1, calls, "second identical request should hit the cache, not call terminal again")
}

func TestCacheMissBelowThresholdCallsTerminalAgain(t *testing.T) {
	embedder := stubEmbedder{vectors: map[string][]float32{
		"question one": {1, 0, 0},
		"question two": {0, 1, 0},
	}}
	c := newTestCache(t, embedder, 0.95)
	bucket := func(*types.ChatRequest) string { return "openai:gpt-4o" }

	calls := 0
	terminal := func(ctx context.Context, r *types.ChatRequest) (*types.ChatResponse, error) {
		calls++
		return &types.ChatResponse{Content: types.NewTextContent("answer")}, nil
	}

	mw := c.Middleware(bucket)
	_, err := mw(context.Background(), chatReq("question one"), terminal)
	require.NoError(t, err)
	_, err = mw(context.Background(), chatReq("question two"), terminal)
	require.NoError(t, err)

	assert.Equal(t, 2, calls, "orthogonal embeddings must not be treated as a cache hit")
}

func TestCosineSimilarityIdenticalVectors(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 2, 3}, []float32{1, 2, 3}), 1e-4)
}

func TestCosineSimilarityMismatchedLengthIsZero(t *testing.T) {
	assert.Equal(t, 0.0, cosineSimilarity([]float32{1, 2}, []float32{1, 2, 3}))
}
