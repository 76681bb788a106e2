package openairesp

import (
	"testing"

	"github.com/siumai-go/siumai/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildRequestFoldsSystemMessagesIntoInstructions(t *testing.T) {
	req := &types.ChatRequest{
		Common: types.CommonParams{Model: "gpt-4o-mini"},
		Messages: []types.ChatMessage{
			{Role: types.RoleSystem, Content: types.NewTextContent("be terse")},
			{Role: types.RoleDeveloper, Content: types.NewTextContent("prefer bullet points")},
			{Role: types.RoleUser, Content: types.NewTextContent("hi")},
		},
	}
	wire, _, err := BuildRequest(req)
	require.NoError(t, err)
	assert.Equal(t, "be terse\nprefer bullet points", wire.Instructions)
	require.Len(t, wire.Input, 1)
	assert.Equal(t, "message", wire.Input[0].Type)
	assert.Equal(t, "user", wire.Input[0].Role)
	assert.Equal(t, "hi", wire.Input[0].Content)
}

func TestBuildRequestRequiresModel(t *testing.T) {
	_, _, err := BuildRequest(&types.ChatRequest{})
	require.Error(t, err)
	var se *types.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, types.KindInvalidParameter, se.Kind)
}

func TestBuildRequestWarnsOnUnsupportedFields(t *testing.T) {
	topK := 5
	req := &types.ChatRequest{
		Common: types.CommonParams{Model: "gpt-4o-mini", TopK: &topK, StopSequences: []string{"\n"}},
	}
	_, warnings, err := BuildRequest(req)
	require.NoError(t, err)
	require.Len(t, warnings, 1)
	assert.Equal(t, "unsupported_field", warnings[0].Code)
}

func TestBuildRequestToolCallOutputBecomesFunctionCallOutput(t *testing.T) {
	req := &types.ChatRequest{
		Common: types.CommonParams{Model: "gpt-4o-mini"},
		Messages: []types.ChatMessage{
			{Role: types.RoleTool, Content: types.NewMultiContent(types.ContentPart{
				Kind: types.ContentToolResult, ToolCallID: "call_1", Output: "72F and sunny",
			})},
		},
	}
	wire, _, err := BuildRequest(req)
	require.NoError(t, err)
	require.Len(t, wire.Input, 1)
	assert.Equal(t, "function_call_output", wire.Input[0].Type)
	assert.Equal(t, "call_1", wire.Input[0].CallID)
	assert.Equal(t, "72F and sunny", wire.Input[0].Output)
}

func TestParseResponseWalksOutputArray(t *testing.T) {
	body := []byte(`{
		"id": "resp_1", "model": "gpt-4o-mini", "status": "completed",
		"output": [
			{"type": "message", "content": [{"type": "output_text", "text": "hello"}]},
			{"type": "function_call", "call_id": "call_1", "name": "get_weather", "arguments": "{\"city\":\"Paris\"}"}
		],
		"usage": {"input_tokens": 10, "output_tokens": 5, "total_tokens": 15}
	}`)
	resp, err := ParseResponse(body)
	require.NoError(t, err)
	assert.Equal(t, "hello", resp.Content.Text())
	assert.Equal(t, types.FinishToolCalls, resp.FinishReason.Kind)
	require.Len(t, resp.ToolCalls, 1)
	assert.Equal(t, "get_weather", resp.ToolCalls[0].Name)
	assert.Equal(t, 15, resp.Usage.TotalTokens)
}

func TestStreamStateEmitsStreamStartOnceFromResponseCreated(t *testing.T) {
	s := NewStreamState()
	events, err := s.StreamEvent([]byte(`{"type":"response.created","response":{"id":"resp_1","model":"gpt-4o-mini"}}`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, types.EventStreamStart, events[0].Kind)
	assert.Equal(t, "gpt-4o-mini", events[0].Model)

	again, err := s.StreamEvent([]byte(`{"type":"response.created","response":{"id":"resp_1","model":"gpt-4o-mini"}}`))
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestStreamStateFoldsFunctionCallArgumentsByOutputIndex(t *testing.T) {
	s := NewStreamState()

	added, err := s.StreamEvent([]byte(`{"type":"response.output_item.added","output_index":0,"item":{"type":"function_call","call_id":"call_1","name":"get_weather"}}`))
	require.NoError(t, err)
	require.Len(t, added, 1)
	assert.Equal(t, "call_1", added[0].CallID)

	d1, err := s.StreamEvent([]byte(`{"type":"response.function_call_arguments.delta","output_index":0,"delta":"{\"city\":"}`))
	require.NoError(t, err)
	d2, err := s.StreamEvent([]byte(`{"type":"response.function_call_arguments.delta","output_index":0,"delta":"\"Paris\"}"}`))
	require.NoError(t, err)

	folder := types.NewToolCallFolder()
	for _, ev := range append(d1, d2...) {
		folder.Add(ev.ToolCallIndex, ev.CallID, ev.ToolName, ev.ArgumentsDelta)
	}
	calls := folder.ToolCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, "call_1", calls[0].ID)
	assert.Equal(t, `{"city":"Paris"}`, calls[0].Arguments)
}

func TestStreamStateCompletedEmitsUsageAndStreamEnd(t *testing.T) {
	s := NewStreamState()
	events, err := s.StreamEvent([]byte(`{"type":"response.completed","response":{"id":"resp_1","model":"gpt-4o-mini","status":"completed","usage":{"input_tokens":10,"output_tokens":5,"total_tokens":15}}}`))
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, types.EventUsageUpdate, events[0].Kind)
	assert.Equal(t, types.EventStreamEnd, events[1].Kind)
	assert.Equal(t, types.FinishStop, events[1].Response.FinishReason.Kind)
	assert.Equal(t, 15, events[1].Response.Usage.TotalTokens)
}

func TestStreamStateErrorEventEmitsErrorKind(t *testing.T) {
	s := NewStreamState()
	events, err := s.StreamEvent([]byte(`{"type":"error","error":{"message":"boom"}}`))
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, types.EventError, events[0].Kind)
	assert.Contains(t, events[0].Err.Error(), "boom")
}
