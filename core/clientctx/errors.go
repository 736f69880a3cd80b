package clientctx

import (
	"errors"
	"fmt"

	"github.com/asimov-run/asimov/core/channel"
)

// ErrNotInvoked is returned by every send operation once the context has
// left the Invoked state (Cancelled or Finished).
var ErrNotInvoked = errors.New("clientctx: context is not invoked")

// retryableError is implemented by transport errors that know whether a
// retry is warranted (no HTTP response, or a 5xx status).
type retryableError interface {
	Retryable() bool
}

// SendMessageFailedError is raised when sendMessage exhausts its retry
// budget or hits a non-retryable transport error.
type SendMessageFailedError struct {
	Channel channel.Channel
	Retries int
	Cause   error
}

func (e *SendMessageFailedError) Error() string {
	return fmt.Sprintf("clientctx: send failed after %d retries: %v", e.Retries, e.Cause)
}

func (e *SendMessageFailedError) Unwrap() error { return e.Cause }
