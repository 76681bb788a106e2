package streaming

import "github.com/siumai-go/siumai/internal/types"

// Default overflow caps. A
// provider that exceeds these mid-stream gets a KindProtocolError rather
// than unbounded memory growth.
const (
	DefaultMaxContentBytes  = 10 * 1024 * 1024
	DefaultMaxThinkingBytes = 5 * 1024 * 1024
	DefaultMaxToolCalls     = 100
)

// Limits configures OverflowBuffer's caps. Zero values fall back to the
// package defaults.
type Limits struct {
	MaxContentBytes  int
	MaxThinkingBytes int
	MaxToolCalls     int
}

func (l Limits) withDefaults() Limits {
	if l.MaxContentBytes == 0 {
		l.MaxContentBytes = DefaultMaxContentBytes
	}
	if l.MaxThinkingBytes == 0 {
		l.MaxThinkingBytes = DefaultMaxThinkingBytes
	}
	if l.MaxToolCalls == 0 {
		l.MaxToolCalls = DefaultMaxToolCalls
	}
	return l
}

// OverflowBuffer accumulates content/thinking text and tool-call deltas
// across a stream, enforcing the bounded caps so a misbehaving or
// malicious upstream can't exhaust memory.
type OverflowBuffer struct {
	limits    Limits
	content   []byte
	thinking  []byte
	toolCalls *types.ToolCallFolder
	toolSeen  map[int]bool
}

func NewOverflowBuffer(limits Limits) *OverflowBuffer {
	return &OverflowBuffer{
		limits:    limits.withDefaults(),
		toolCalls: types.NewToolCallFolder(),
		toolSeen:  make(map[int]bool),
	}
}

// AddContent appends delta to the accumulated content, returning a
// KindProtocolError if the cap is exceeded.
func (b *OverflowBuffer) AddContent(delta string) error {
	if len(b.content)+len(delta) > b.limits.MaxContentBytes {
		return types.NewError(types.KindProtocolError, "", "stream content exceeded maximum buffered size")
	}
	b.content = append(b.content, delta...)
	return nil
}

// AddThinking appends delta to the accumulated thinking text, returning
// a KindProtocolError if the cap is exceeded.
func (b *OverflowBuffer) AddThinking(delta string) error {
	if len(b.thinking)+len(delta) > b.limits.MaxThinkingBytes {
		return types.NewError(types.KindProtocolError, "", "stream thinking text exceeded maximum buffered size")
	}
	b.thinking = append(b.thinking, delta...)
	return nil
}

// AddToolCallDelta folds one tool-call fragment, returning a
// KindProtocolError if the number of distinct tool-call indices exceeds
// the cap.
func (b *OverflowBuffer) AddToolCallDelta(index int, callID, name, argsDelta string) error {
	if !b.toolSeen[index] {
		if len(b.toolSeen) >= b.limits.MaxToolCalls {
			return types.NewError(types.KindProtocolError, "", "stream tool call count exceeded maximum")
		}
		b.toolSeen[index] = true
	}
	b.toolCalls.Add(index, callID, name, argsDelta)
	return nil
}

func (b *OverflowBuffer) Content() string        { return string(b.content) }
func (b *OverflowBuffer) Thinking() string       { return string(b.thinking) }
func (b *OverflowBuffer) ToolCalls() []types.ToolCall { return b.toolCalls.ToolCalls() }
