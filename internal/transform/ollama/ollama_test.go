package ollama

import (
	"testing"

	"github.com/siumai-go/siumai/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestWarnsOnExplicitToolChoice(t *testing.T) {
	req := &types.ChatRequest{
		Common:     types.CommonParams{Model: "llama3"},
		ToolChoice: &types.ToolChoice{Mode: "required"},
	}
	_, warnings, err := BuildRequest(req)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "unsupported_field", warnings[0].Code)
}

func TestParseResponseMapsDoneReason(t *testing.T) {
	body := []byte(`{"model":"llama3","message":{"role":"assistant","content":"hi"},"done":true,"done_reason":"stop","prompt_eval_count":3,"eval_count":2}`)
	resp, err := ParseResponse(body)
	require.NoError(t, err)
	assert.Equal(t, types.FinishStop, resp.FinishReason.Kind)
	assert.Equal(t, 5, resp.Usage.TotalTokens)
}

func TestStreamLineEmitsStreamEndOnDone(t *testing.T) {
	s := NewStreamState()
	_, err := s.StreamLine([]byte(`{"model":"llama3","message":{"role":"assistant","content":"hi"}}`))
	require.NoError(t, err)

	events, err := s.StreamLine([]byte(`{"model":"llama3","message":{"role":"assistant","content":""},"done":true,"done_reason":"stop"}`))
	require.NoError(t, err)

	var sawEnd bool
	for _, ev := range events {
		if ev.Kind == types.EventStreamEnd {
			sawEnd = true
		}
	}
	assert.True(t, sawEnd)
}
