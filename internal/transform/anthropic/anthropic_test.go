package anthropic

import (
	"encoding/json"
	"testing"

	"github.com/siumai-go/siumai/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestPullsSystemMessagesOut(t *testing.T) {
	req := &types.ChatRequest{
		Common: types.CommonParams{Model: "claude-3-5-sonnet-latest"},
		Messages: []types.ChatMessage{
			{Role: types.RoleSystem, Content: types.NewTextContent("be terse")},
			{Role: types.RoleUser, Content: types.NewTextContent("hi")},
		},
	}
	wire, _, err := BuildRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "be terse", wire.System)
	require.Len(t, wire.Messages, 1)
	assert.Equal(t, "user", wire.Messages[0].Role)
	assert.Equal(t, defaultMaxTokens, wire.MaxTokens)
}

func TestBuildRequestStructuredOutputBecomesForcedTool(t *testing.T) {
	req := &types.ChatRequest{
		Common: types.CommonParams{Model: "claude-3-5-sonnet-latest"},
		ProviderOptions: map[string]json.RawMessage{
			"anthropic": json.RawMessage(`{"structured_output":{"schema":{"type":"object"},"name":"answer"}}`),
		},
	}
	wire, _, err := BuildRequest(req)
	require.NoError(t, err)
	require.Len(t, wire.Tools, 1)
	assert.Equal(t, "answer", wire.Tools[0].Name)
	assert.Equal(t, map[string]string{"type": "tool", "name": "answer"}, wire.ToolChoice)
}

func TestParseResponseInfersToolCallsFromToolUseBlock(t *testing.T) {
	body := []byte(`{
		"id": "msg_1", "model": "claude-3-5-sonnet-latest", "stop_reason": "end_turn",
		"content": [{"type": "tool_use", "id": "toolu_1", "name": "get_weather", "input": {"city": "nyc"}}],
		"usage": {"input_tokens": 10, "output_tokens": 5}
	}`)
	resp, err := ParseResponse(body)
	require.NoError(t, err)
	assert.Equal(t, types.FinishToolCalls, resp.FinishReason.Kind)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "get_weather", resp.ToolCalls[0].Name)
}

func TestStreamStateEmitsStreamStartFromMessageStart(t *testing.T) {
	s := NewStreamState()
	events, err := s.StreamEvent([]byte(`{"type":"message_start","message":{"id":"msg_1","model":"claude-3-5-sonnet-latest","usage":{"input_tokens":10}}}`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, types.EventStreamStart, events[0].Kind)
	assert.Equal(t, "claude-3-5-sonnet-latest", events[0].Model)
}

func TestStreamStateFoldsToolUseInputJSONDeltas(t *testing.T) {
	s := NewStreamState()

	_, err := s.StreamEvent([]byte(`{"type":"content_block_start","index":0,"content_block":{"type":"tool_use","id":"toolu_1","name":"get_weather"}}`))
	require.NoError(t, err)

	d1, err := s.StreamEvent([]byte(`{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"{\"city\":"}}`))
	require.NoError(t, err)
	d2, err := s.StreamEvent([]byte(`{"type":"content_block_delta","index":0,"delta":{"type":"input_json_delta","partial_json":"\"nyc\"}"}}`))
	require.NoError(t, err)

	folder := types.NewToolCallFolder()
	for _, ev := range append(d1, d2...) {
		if ev.Kind == types.EventToolCallDelta {
			folder.Add(ev.ToolCallIndex, ev.CallID, ev.ToolName, ev.ArgumentsDelta)
		}
	}
	calls := folder.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, `{"city":"nyc"}`, calls[0].Arguments)
}

func TestStreamStateMessageDeltaEmitsUsageAndStreamEnd(t *testing.T) {
	s := NewStreamState()
	events, err := s.StreamEvent([]byte(`{"type":"message_delta","delta":{"stop_reason":"end_turn"},"usage":{"output_tokens":7}}`))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, types.EventUsageUpdate, events[0].Kind)
	assert.Equal(t, types.EventStreamEnd, events[1].Kind)
	assert.Equal(t, types.FinishStop, events[1].Response.FinishReason.Kind)
}
