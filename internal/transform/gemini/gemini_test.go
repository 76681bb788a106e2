package gemini

import (
	"testing"

	"github.com/siumai-go/siumai/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestMapsAssistantRoleToModel(t *testing.T) {
	req := &types.ChatRequest{
		Common: types.CommonParams{Model: "gemini-2.0-flash"},
		Messages: []types.ChatMessage{
			{Role: types.RoleSystem, Content: types.NewTextContent("be terse")},
			{Role: types.RoleUser, Content: types.NewTextContent("hi")},
			{Role: types.RoleAssistant, Content: types.NewTextContent("hello")},
		},
	}
	wire, _, err := BuildRequest(req)
	require.NoError(t, err)
	require.NotNil(t, wire.SystemInstruction)
	assert.Equal(t, "be terse", wire.SystemInstruction.Parts[0].Text)
	require.Len(t, wire.Contents, 2)
	assert.Equal(t, "model", wire.Contents[1].Role)
}

func TestBuildRequestStructuredOutputSetsResponseSchema(t *testing.T) {
	req := &types.ChatRequest{
		Common: types.CommonParams{Model: "gemini-2.0-flash"},
	}
	req = req.WithProviderOption("gemini", []byte(`{"structured_output":{"schema":{"type":"object"}}}`))
	wire, _, err := BuildRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "application/json", wire.GenerationConfig.ResponseMimeType)
}

func TestParseResponseExtractsFunctionCall(t *testing.T) {
	body := []byte(`{
		"candidates": [{"finishReason": "STOP", "content": {"parts": [{"functionCall": {"name": "get_weather", "args": {"city": "nyc"}}}]}}],
		"usageMetadata": {"promptTokenCount": 10, "candidatesTokenCount": 5, "totalTokenCount": 15}
	}`)
	resp, err := ParseResponse(body)
	require.NoError(t, err)
	assert.Equal(t, types.FinishToolCalls, resp.FinishReason.Kind)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "get_weather", resp.ToolCalls[0].Name)
}

func TestStreamChunkEmitsStreamStartOnce(t *testing.T) {
	s := NewStreamState()
	first, err := s.StreamChunk([]byte(`{"candidates":[{"content":{"parts":[{"text":"he"}]}}]}`))
	require.NoError(t, err)
	assert.Equal(t, types.EventStreamStart, first[0].Kind)

	second, err := s.StreamChunk([]byte(`{"candidates":[{"content":{"parts":[{"text":"llo"}]}}]}`))
	require.NoError(t, err)
	for _, ev := range second {
		assert.NotEqual(t, types.EventStreamStart, ev.Kind)
	}
}
