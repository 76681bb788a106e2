package streaming

import "github.com/siumai-go/siumai/internal/types"

// Lifecycle enforces the stream-shape invariant every transformer family
// must present to callers regardless of what the upstream vendor
// actually sent. Per-vendor transformers (internal/transform/*) emit raw
// per-chunk events; this type is the single place that dedups/synthesizes
// around their differences.
type Lifecycle struct {
	buf         *OverflowBuffer
	startSent   bool
	terminalSent bool
	model       string
	requestID   string
	provider    string
	usage       types.Usage
	finish      types.FinishReason
}

func NewLifecycle(provider string, limits Limits) *Lifecycle {
	return &Lifecycle{buf: NewOverflowBuffer(limits), provider: provider}
}

// Feed processes one raw event from a transformer and returns the
// (possibly empty, possibly synthesized) sequence of events the caller
// should actually see. Feed never returns more than one StreamStart or
// more than one terminal event across the lifetime of a Lifecycle.
func (l *Lifecycle) Feed(ev types.StreamEvent) ([]types.StreamEvent, error) {
	if l.terminalSent {
		// A provider that emits straggler events after its terminal event
		// (seen in some Gemini responses) is silently absorbed rather than
		// re-opening the stream.
		return nil, nil
	}

	var out []types.StreamEvent

	switch ev.Kind {
	case types.EventStreamStart:
		if l.startSent {
			return nil, nil
		}
		l.startSent = true
		l.model = ev.Model
		l.requestID = ev.RequestID
		out = append(out, ev)

	case types.EventContentDelta:
		if !l.startSent {
			out = append(out, l.synthesizeStart())
		}
		if err := l.buf.AddContent(ev.Delta); err != nil {
			return out, err
		}
		out = append(out, ev)

	case types.EventThinkingDelta:
		if !l.startSent {
			out = append(out, l.synthesizeStart())
		}
		if err := l.buf.AddThinking(ev.Delta); err != nil {
			return out, err
		}
		out = append(out, ev)

	case types.EventToolCallDelta:
		if !l.startSent {
			out = append(out, l.synthesizeStart())
		}
		if err := l.buf.AddToolCallDelta(ev.ToolCallIndex, ev.CallID, ev.ToolName, ev.ArgumentsDelta); err != nil {
			return out, err
		}
		out = append(out, ev)

	case types.EventUsageUpdate:
		if ev.Usage != nil {
			l.usage = *ev.Usage
		}
		out = append(out, ev)

	case types.EventStreamEnd:
		if !l.startSent {
			out = append(out, l.synthesizeStart())
		}
		if ev.Response != nil {
			l.finish = ev.Response.FinishReason
		}
		l.terminalSent = true
		out = append(out, types.StreamEvent{Kind: types.EventStreamEnd, Response: l.FinalResponse()})

	case types.EventError:
		l.terminalSent = true
		out = append(out, ev)

	case types.EventCustom:
		out = append(out, ev)
	}

	return out, nil
}

func (l *Lifecycle) synthesizeStart() types.StreamEvent {
	l.startSent = true
	return types.StreamEvent{Kind: types.EventStreamStart, Model: l.model, RequestID: l.requestID, Provider: l.provider}
}

// FinalResponse folds every event fed so far into a ChatResponse, the
// same shape a non-streaming call would have returned.
func (l *Lifecycle) FinalResponse() *types.ChatResponse {
	resp := &types.ChatResponse{
		Model:        l.model,
		RequestID:    l.requestID,
		Usage:        l.usage,
		FinishReason: l.finish,
		Thinking:     l.buf.Thinking(),
		ToolCalls:    l.buf.ToolCalls(),
	}
	if content := l.buf.Content(); content != "" {
		resp.Content = types.NewTextContent(content)
	}
	if len(resp.ToolCalls) > 0 && resp.FinishReason.Kind == "" {
		resp.FinishReason = types.FinishReason{Kind: types.FinishToolCalls}
	}
	if resp.FinishReason.Kind == "" {
		resp.FinishReason = types.FinishReason{Kind: types.FinishStop}
	}
	return resp
}

// Terminated reports whether a terminal event has already been emitted.
func (l *Lifecycle) Terminated() bool { return l.terminalSent }
