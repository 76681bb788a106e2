package streaming

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/siumai-go/siumai/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSSEScannerParsesDataAndEventLines(t *testing.T) {
	raw := "event: message_start\ndata: {\"a\":1}\n\ndata: {\"b\":2}\n\n"
	sc := NewSSEScanner(strings.NewReader(raw), 0)

	ev1, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, "message_start", ev1.Name)
	assert.Equal(t, `{"a":1}`, ev1.Data)

	ev2, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, "", ev2.Name)
	assert.Equal(t, `{"b":2}`, ev2.Data)

	_, ok = sc.Next()
	assert.False(t, ok)
	require.NoError(t, sc.Err())
}

func TestSSEScannerIgnoresCommentLines(t *testing.T) {
	raw := ": heartbeat\ndata: {\"x\":1}\n\n"
	sc := NewSSEScanner(strings.NewReader(raw), 0)
	ev, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, `{"x":1}`, ev.Data)
}

func TestJSONLinesScannerSkipsBlankLines(t *testing.T) {
	raw := "{\"a\":1}\n\n{\"b\":2}\n"
	sc := NewJSONLinesScanner(strings.NewReader(raw), 0)
	line1, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, `{"a":1}`, string(line1))
	line2, ok := sc.Next()
	require.True(t, ok)
	assert.Equal(t, `{"b":2}`, string(line2))
	_, ok = sc.Next()
	assert.False(t, ok)
}

func TestOverflowBufferRejectsContentPastCap(t *testing.T) {
	buf := NewOverflowBuffer(Limits{MaxContentBytes: 4})
	require.NoError(t, buf.AddContent("ab"))
	err := buf.AddContent("abc")
	require.Error(t, err)
}

func TestLifecycleEmitsExactlyOneStreamStartAndOneTerminal(t *testing.T) {
	lc := NewLifecycle("openai", Limits{})

	out1, err := lc.Feed(types.StreamEvent{Kind: types.EventStreamStart, Model: "gpt-4o-mini"})
	require.NoError(t, err)
	require.Len(t, out1, 1)

	out2, err := lc.Feed(types.StreamEvent{Kind: types.EventContentDelta, Delta: "hi"})
	require.NoError(t, err)
	require.Len(t, out2, 1)

	out3, err := lc.Feed(types.StreamEvent{Kind: types.EventStreamEnd, Response: &types.ChatResponse{FinishReason: types.FinishReason{Kind: types.FinishStop}}})
	require.NoError(t, err)
	require.Len(t, out3, 1)
	assert.Equal(t, types.EventStreamEnd, out3[0].Kind)
	assert.Equal(t, "hi", out3[0].Response.ContentText())

	out4, err := lc.Feed(types.StreamEvent{Kind: types.EventContentDelta, Delta: "ignored"})
	require.NoError(t, err)
	assert.Empty(t, out4)
}

func TestLifecycleSynthesizesStreamStartWhenMissing(t *testing.T) {
	lc := NewLifecycle("gemini", Limits{})
	out, err := lc.Feed(types.StreamEvent{Kind: types.EventContentDelta, Delta: "hi"})
	require.NoError(t, err)
	require.Len(t, out, 2)
	assert.Equal(t, types.EventStreamStart, out[0].Kind)
	assert.Equal(t, types.EventContentDelta, out[1].Kind)
}

func TestLifecycleFoldsToolCallsIntoFinalResponse(t *testing.T) {
	lc := NewLifecycle("openai", Limits{})
	_, _ = lc.Feed(types.StreamEvent{Kind: types.EventStreamStart})
	_, _ = lc.Feed(types.StreamEvent{Kind: types.EventToolCallDelta, ToolCallIndex: 0, CallID: "call_1", ToolName: "get_weather", ArgumentsDelta: "{}"})
	out, err := lc.Feed(types.StreamEvent{Kind: types.EventStreamEnd})
	require.NoError(t, err)
	require.Len(t, out[0].Response.ToolCalls, 1)
	assert.Equal(t, types.FinishToolCalls, out[0].Response.FinishReason.Kind)
}

func TestWatchCancelFiresOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ch := WatchCancel(ctx, "anthropic")
	cancel()

	select {
	case ev := <-ch:
		assert.Equal(t, types.KindCancelled, ev.Err.Kind)
	case <-time.After(time.Second):
		t.Fatal("expected cancellation event")
	}
}

func TestBridgeOpenAIChatDropsThinkingByDefault(t *testing.T) {
	b := NewBridge(WireOpenAIChat, Drop)
	var buf bytes.Buffer
	require.NoError(t, b.Emit(&buf, types.StreamEvent{Kind: types.EventThinkingDelta, Delta: "reasoning..."}))
	assert.Empty(t, buf.String())
}

func TestBridgeOpenAIChatContentDelta(t *testing.T) {
	b := NewBridge(WireOpenAIChat, Drop)
	var buf bytes.Buffer
	require.NoError(t, b.Emit(&buf, types.StreamEvent{Kind: types.EventContentDelta, Delta: "hi"}))
	assert.Contains(t, buf.String(), `"content":"hi"`)
}

func TestBridgeAnthropicEmitsNamedEvents(t *testing.T) {
	b := NewBridge(WireAnthropic, Drop)
	var buf bytes.Buffer
	require.NoError(t, b.Emit(&buf, types.StreamEvent{Kind: types.EventStreamStart}))
	assert.Contains(t, buf.String(), "event: message_start")
}

func TestBridgeOpenAIChatToolCallDelta(t *testing.T) {
	b := NewBridge(WireOpenAIChat, Drop)
	var buf bytes.Buffer
	require.NoError(t, b.Emit(&buf, types.StreamEvent{
		Kind: types.EventToolCallDelta, ToolCallIndex: 0, CallID: "call_1", ToolName: "get_weather", ArgumentsDelta: `{"city":"nyc"}`,
	}))
	out := buf.String()
	assert.Contains(t, out, `"id":"call_1"`)
	assert.Contains(t, out, `"name":"get_weather"`)
	assert.Contains(t, out, `"arguments":"{\"city\":\"nyc\"}"`)
}

func TestBridgeOpenAIChatUsageAndError(t *testing.T) {
	b := NewBridge(WireOpenAIChat, Drop)
	var usageBuf bytes.Buffer
	require.NoError(t, b.Emit(&usageBuf, types.StreamEvent{Kind: types.EventUsageUpdate, Usage: &types.Usage{TotalTokens: 10}}))
	assert.Contains(t, usageBuf.String(), `"total_tokens":10`)

	var errBuf bytes.Buffer
	require.NoError(t, b.Emit(&errBuf, types.StreamEvent{Kind: types.EventError, Err: types.NewError(types.KindServerError, "openai", "boom")}))
	assert.Contains(t, errBuf.String(), `"message":"boom"`)
}

func TestBridgeOpenAIResponsesToolCallSplitsAddedAndDelta(t *testing.T) {
	b := NewBridge(WireOpenAIResponses, Drop)
	var first bytes.Buffer
	require.NoError(t, b.Emit(&first, types.StreamEvent{Kind: types.EventToolCallDelta, ToolCallIndex: 0, CallID: "call_1", ToolName: "get_weather"}))
	assert.Contains(t, first.String(), "event: response.output_item.added")
	assert.Contains(t, first.String(), `"call_id":"call_1"`)

	var second bytes.Buffer
	require.NoError(t, b.Emit(&second, types.StreamEvent{Kind: types.EventToolCallDelta, ToolCallIndex: 0, ArgumentsDelta: `{"city":`}))
	assert.Contains(t, second.String(), "event: response.function_call_arguments.delta")
	assert.Contains(t, second.String(), `"delta":"{\"city\":"`)
}

func TestBridgeOpenAIResponsesUsageEmitsNonStandardEvent(t *testing.T) {
	b := NewBridge(WireOpenAIResponses, Drop)
	var buf bytes.Buffer
	require.NoError(t, b.Emit(&buf, types.StreamEvent{Kind: types.EventUsageUpdate, Usage: &types.Usage{PromptTokens: 3, CompletionTokens: 7, TotalTokens: 10}}))
	assert.Contains(t, buf.String(), "event: response.usage")
	assert.Contains(t, buf.String(), `"total_tokens":10`)
}

func TestBridgeAnthropicToolCallStartsBlockOncePerIndex(t *testing.T) {
	b := NewBridge(WireAnthropic, Drop)
	var first bytes.Buffer
	require.NoError(t, b.Emit(&first, types.StreamEvent{Kind: types.EventToolCallDelta, ToolCallIndex: 0, CallID: "call_1", ToolName: "get_weather"}))
	assert.Contains(t, first.String(), "event: content_block_start")

	var second bytes.Buffer
	require.NoError(t, b.Emit(&second, types.StreamEvent{Kind: types.EventToolCallDelta, ToolCallIndex: 0, ArgumentsDelta: `{"city":"nyc"}`}))
	assert.NotContains(t, second.String(), "event: content_block_start")
	assert.Contains(t, second.String(), "event: content_block_delta")
	assert.Contains(t, second.String(), `"partial_json":"{\"city\":\"nyc\"}"`)
}

func TestBridgeAnthropicFoldsUsageIntoMessageDeltaOnStreamEnd(t *testing.T) {
	b := NewBridge(WireAnthropic, Drop)
	var usageBuf bytes.Buffer
	require.NoError(t, b.Emit(&usageBuf, types.StreamEvent{Kind: types.EventUsageUpdate, Usage: &types.Usage{CompletionTokens: 5}}))
	assert.Empty(t, usageBuf.String(), "usage is buffered, not emitted immediately")

	var endBuf bytes.Buffer
	require.NoError(t, b.Emit(&endBuf, types.StreamEvent{Kind: types.EventStreamEnd, Response: &types.ChatResponse{
		FinishReason: types.FinishReason{Kind: types.FinishStop},
	}}))
	out := endBuf.String()
	assert.Contains(t, out, "event: message_delta")
	assert.Contains(t, out, `"output_tokens":5`)
	assert.Contains(t, out, "event: message_stop")
}

func TestBridgeGeminiToolCallAndUsage(t *testing.T) {
	b := NewBridge(WireGemini, Drop)
	var callBuf bytes.Buffer
	require.NoError(t, b.Emit(&callBuf, types.StreamEvent{Kind: types.EventToolCallDelta, ToolName: "get_weather", ArgumentsDelta: `{"city":"nyc"}`}))
	assert.Contains(t, callBuf.String(), `"functionCall"`)
	assert.Contains(t, callBuf.String(), `"name":"get_weather"`)

	var usageBuf bytes.Buffer
	require.NoError(t, b.Emit(&usageBuf, types.StreamEvent{Kind: types.EventUsageUpdate, Usage: &types.Usage{TotalTokens: 8}}))
	assert.Contains(t, usageBuf.String(), `"usageMetadata"`)
}

func TestBridgeGeminiErrorAlwaysFoldsRegardlessOfPolicy(t *testing.T) {
	b := NewBridge(WireGemini, Drop)
	var buf bytes.Buffer
	require.NoError(t, b.Emit(&buf, types.StreamEvent{Kind: types.EventError, Err: types.NewError(types.KindServerError, "gemini", "boom")}))
	assert.Contains(t, buf.String(), "boom")
}

func TestBridgeCustomDroppedByDefaultAsTextWhenRequested(t *testing.T) {
	drop := NewBridge(WireOpenAIChat, Drop)
	var dropBuf bytes.Buffer
	require.NoError(t, drop.Emit(&dropBuf, types.StreamEvent{Kind: types.EventCustom, Data: []byte("raw")}))
	assert.Empty(t, dropBuf.String())

	asText := NewBridge(WireOpenAIChat, AsText)
	var asTextBuf bytes.Buffer
	require.NoError(t, asText.Emit(&asTextBuf, types.StreamEvent{Kind: types.EventCustom, Data: []byte("raw")}))
	assert.Contains(t, asTextBuf.String(), `"content":"raw"`)
}
