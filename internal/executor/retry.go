package executor

import (
	"math/rand"
	"time"

	"github.com/siumai-go/siumai/internal/types"
)

// RetryOptions governs the executor's retry policy.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	Multiplier   float64
	MaxDelay     time.Duration
	Jitter       float64 // fraction of the computed delay, e.g. 0.1 = ±10%
}

// DefaultRetryOptions is a three-attempt, doubling-backoff policy.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxAttempts:  3,
		InitialDelay: 500 * time.Millisecond,
		Multiplier:   2.0,
		MaxDelay:     10 * time.Second,
		Jitter:       0.1,
	}
}

// Delay returns the backoff delay before attempt n (1-indexed: attempt 1
// is the first retry, after the initial try).
func (o RetryOptions) Delay(attempt int) time.Duration {
	d := float64(o.InitialDelay)
	for i := 1; i < attempt; i++ {
		d *= o.Multiplier
	}
	if o.MaxDelay > 0 && d > float64(o.MaxDelay) {
		d = float64(o.MaxDelay)
	}
	if o.Jitter > 0 {
		spread := d * o.Jitter
		d += (rand.Float64()*2 - 1) * spread
		if d < 0 {
			d = 0
		}
	}
	return time.Duration(d)
}

// ShouldRetry reports whether err warrants another attempt under o,
// given how many attempts have already been made (1 = only the initial
// attempt has run). Only network-layer failures, 5xx, 429, and
// provider-overloaded codes are retried; everything else, including all
// other 4xx, is not.
func ShouldRetry(o RetryOptions, err *types.Error, attemptsMade int) bool {
	if attemptsMade >= o.MaxAttempts {
		return false
	}
	return err.Retryable
}

// Sleep blocks for d unless the done channel fires first, returning
// false if interrupted.
func Sleep(d time.Duration, done <-chan struct{}) bool {
	if d <= 0 {
		select {
		case <-done:
			return false
		default:
			return true
		}
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-done:
		return false
	}
}
