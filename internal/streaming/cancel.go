package streaming

import (
	"context"

	"github.com/siumai-go/siumai/internal/types"
)

// WatchCancel returns a channel that, once closed or fed a value, tells
// a stream-pumping goroutine to stop selecting on the upstream reader
// and instead emit a KindCancelled terminal event, mirroring the
// ctx.Done() select pattern internal/provider/anthropic.go and google.go
// use around every channel send.
func WatchCancel(ctx context.Context, provider string) <-chan types.StreamEvent {
	out := make(chan types.StreamEvent, 1)
	go func() {
		<-ctx.Done()
		out <- types.StreamEvent{
			Kind: types.EventError,
			Err:  types.NewError(types.KindCancelled, provider, "stream cancelled: "+ctx.Err().Error()),
		}
	}()
	return out
}

// SendOrCancel sends ev on ch, or abandons the send and returns false if
// ctx is cancelled first.
func SendOrCancel(ctx context.Context, ch chan<- types.StreamEvent, ev types.StreamEvent) bool {
	select {
	case ch <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
