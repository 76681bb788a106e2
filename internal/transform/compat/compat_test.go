package compat

import (
	"testing"

	"github.com/siumai-go/siumai/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformerAppliesGroqRoleDowngrade(t *testing.T) {
	tr := NewTransformer(Presets["groq"])
	req := &types.ChatRequest{
		Common:   types.CommonParams{Model: "llama3-70b"},
		Messages: []types.ChatMessage{{Role: types.RoleDeveloper, Content: types.NewTextContent("be terse")}},
	}
	wire, _, err := tr.BuildRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "system", wire.Messages[0].Role)
	assert.Nil(t, wire.StreamOptions)
}

func TestTransformerSiliconFlowTextToolCallFallback(t *testing.T) {
	tr := NewTransformer(Presets["siliconflow"])
	body := []byte(`{"id":"x","model":"m","choices":[{"finish_reason":"tool_calls","message":{"content":"{\"name\":\"get_weather\",\"arguments\":{}}"}}]}`)
	resp, err := tr.ParseResponse(body)
	require.NoError(t, err)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "get_weather", resp.ToolCalls[0].Name)
}

func TestTransformerDeepSeekReasoningFieldPrecedence(t *testing.T) {
	tr := NewTransformer(Presets["deepseek"])
	body := []byte(`{"id":"x","model":"m","choices":[{"finish_reason":"stop","message":{"content":"hi","reasoning_content":"rc"}}]}`)
	resp, err := tr.ParseResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "rc", resp.Thinking)
}
