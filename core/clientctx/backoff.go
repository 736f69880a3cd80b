package clientctx

import (
	"math"
	"math/rand"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryOptions configures sendMessage's retry behavior. Defaults match the
// protocol's reference values: 3 tries total (1 initial + 2 retries), 500ms
// base delay, 1.5x multiplier, capped at 100ms of added jitter per attempt.
type RetryOptions struct {
	MaxRetries int
	BaseDelay  time.Duration
	Multiplier float64
	MaxJitter  time.Duration
}

// DefaultRetryOptions returns the protocol's reference retry defaults.
func DefaultRetryOptions() RetryOptions {
	return RetryOptions{
		MaxRetries: 2,
		BaseDelay:  500 * time.Millisecond,
		Multiplier: 1.5,
		MaxJitter:  100 * time.Millisecond,
	}
}

// jitterBackOff implements backoff.BackOff with a fixed retry budget,
// exponential growth, and bounded additive jitter, matching §4.E exactly
// rather than relying on cenkalti/backoff's own randomization factor (which
// scales jitter with the interval instead of capping it).
type jitterBackOff struct {
	opts    RetryOptions
	attempt int
}

func newJitterBackOff(opts RetryOptions) *jitterBackOff {
	return &jitterBackOff{opts: opts}
}

func (b *jitterBackOff) NextBackOff() time.Duration {
	if b.attempt >= b.opts.MaxRetries {
		return backoff.Stop
	}
	delay := time.Duration(float64(b.opts.BaseDelay) * math.Pow(b.opts.Multiplier, float64(b.attempt)))
	b.attempt++

	if b.opts.MaxJitter <= 0 {
		return delay
	}
	return delay + time.Duration(rand.Int63n(int64(b.opts.MaxJitter)+1))
}

func (b *jitterBackOff) Reset() { b.attempt = 0 }
