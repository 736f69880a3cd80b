package clientctx

import (
	"context"
	"io"
	"iter"
	"log/slog"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/asimov-run/asimov/core/asyncqueue"
	"github.com/asimov-run/asimov/core/channel"
	"github.com/asimov-run/asimov/core/message"
)

// Status is the client context's lifecycle state.
type Status string

const (
	StatusInvoked   Status = "Invoked"
	StatusCancelled Status = "Cancelled"
	StatusFinished  Status = "Finished"
)

// SendFunc posts msg to the service half-channel. Errors satisfying
// retryableError with Retryable()==true trigger sendMessage's backoff; any
// other error is terminal.
type SendFunc func(ctx context.Context, msg message.Message) error

// Context is the agent-side per-invocation state: the incoming message
// queue, retry-guarded outgoing sends, and the lifecycle transitions driven
// by a terminal Return or an explicit Cancel.
type Context struct {
	mu       sync.Mutex
	channel  channel.Channel
	status   Status
	send     SendFunc
	queue    *asyncqueue.Queue[message.Message]
	retry    RetryOptions
	observer Observer
	logger   *slog.Logger
}

// Option configures a Context at construction.
type Option func(*Context)

// WithRetryOptions overrides the default retry/backoff parameters.
func WithRetryOptions(opts RetryOptions) Option {
	return func(c *Context) { c.retry = opts }
}

// WithObserver installs an event observer; nil is ignored.
func WithObserver(o Observer) Option {
	return func(c *Context) {
		if o != nil {
			c.observer = o
		}
	}
}

// WithLogger installs a structured logger; nil is ignored. Defaults to a
// discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Context) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New constructs a Context for ch, sending outgoing messages via send.
func New(ch channel.Channel, send SendFunc, opts ...Option) *Context {
	c := &Context{
		channel:  ch,
		status:   StatusInvoked,
		send:     send,
		queue:    asyncqueue.New[message.Message](),
		retry:    DefaultRetryOptions(),
		observer: noopObserver{},
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Status returns the context's current lifecycle state.
func (c *Context) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// Channel returns the half-channel pair this exchange was invoked with.
func (c *Context) Channel() channel.Channel { return c.channel }

// HandleIncomingMessage enqueues msg for waiting consumers. A Return with
// Close transitions the context to Finished and flushes any remaining
// waiters with an empty completion.
func (c *Context) HandleIncomingMessage(msg message.Message) {
	c.observer.OnIncomingMessage(msg)
	c.queue.Push(msg)

	if ret, ok := msg.(message.Return); ok && ret.Close {
		c.mu.Lock()
		c.status = StatusFinished
		c.mu.Unlock()
		c.queue.Flush(nil)
		c.observer.OnClose()
	}
}

// GetMessage awaits the next message with an always-true predicate,
// returning empty (asyncqueue.ErrEmpty) on timeout or once the context is
// no longer Invoked. timeout 0 waits indefinitely.
func (c *Context) GetMessage(ctx context.Context, timeout time.Duration) (message.Message, error) {
	if c.Status() != StatusInvoked {
		return nil, asyncqueue.ErrEmpty
	}
	return c.queue.WaitFor(ctx, func(message.Message) bool { return true }, timeout)
}

// GetMessages returns a lazy, single-shot, finite sequence yielding every
// message until the context leaves the Invoked state, then terminates
// cleanly.
func (c *Context) GetMessages(ctx context.Context) iter.Seq[message.Message] {
	return func(yield func(message.Message) bool) {
		for c.Status() == StatusInvoked {
			msg, err := c.queue.WaitFor(ctx, func(message.Message) bool { return true }, 0)
			if err != nil {
				return
			}
			if !yield(msg) {
				return
			}
		}
	}
}

// ProvideInputs replies to a RequestInput (or sends unsolicited inputs).
func (c *Context) ProvideInputs(ctx context.Context, inputs []message.InputItem) error {
	return c.sendIfInvoked(ctx, message.ProvideInput{Inputs: inputs})
}

// ProvideUserConfirmation answers a pending RequestUserConfirmation.
func (c *Context) ProvideUserConfirmation(ctx context.Context, reqID, confirmedBy string) error {
	return c.sendIfInvoked(ctx, message.ProvideUserConfirmation{ReqID: reqID, ConfirmedBy: confirmedBy})
}

// AuthorizePayment answers a pending RequestPayment with a completed
// payment.
func (c *Context) AuthorizePayment(ctx context.Context, reqID, paymentSchema, paymentID string, amount float64, currency, token string) error {
	return c.sendIfInvoked(ctx, message.AuthorizePayment{
		ReqID:         reqID,
		PaymentID:     paymentID,
		PaymentSchema: paymentSchema,
		Amount:        amount,
		Currency:      currency,
		Token:         token,
	})
}

// RejectPayment declines a pending RequestPayment.
func (c *Context) RejectPayment(ctx context.Context, reqID, reason string) error {
	return c.sendIfInvoked(ctx, message.RejectPayment{ReqID: reqID, Reason: reason})
}

// Cancel sends Cancel and transitions the context to Cancelled; subsequent
// sends fail with ErrNotInvoked.
func (c *Context) Cancel(ctx context.Context) error {
	c.mu.Lock()
	if c.status != StatusInvoked {
		c.mu.Unlock()
		return ErrNotInvoked
	}
	c.status = StatusCancelled
	c.mu.Unlock()

	return c.sendMessage(ctx, message.Cancel{})
}

// Dispose releases the context's internal queue. Safe to call multiple
// times or after the context has already reached a terminal state.
func (c *Context) Dispose() {
	c.queue.Flush(nil)
}

func (c *Context) sendIfInvoked(ctx context.Context, msg message.Message) error {
	if c.Status() != StatusInvoked {
		return ErrNotInvoked
	}
	return c.sendMessage(ctx, msg)
}

// sendMessage implements retry with exponential backoff plus bounded
// jitter. Only errors the transport marks retryable cause a retry; a
// terminal error or budget exhaustion raises SendMessageFailedError. On
// success it emits OnOutgoingMessage.
func (c *Context) sendMessage(ctx context.Context, msg message.Message) error {
	attempts := 0
	bo := backoff.WithContext(newJitterBackOff(c.retry), ctx)

	operation := func() error {
		attempts++
		err := c.send(ctx, msg)
		if err == nil {
			return nil
		}
		if re, ok := err.(retryableError); !ok || !re.Retryable() {
			return backoff.Permanent(err)
		}
		c.logger.WarnContext(ctx, "clientctx: send attempt failed", slog.Int("attempt", attempts), slog.Any("error", err))
		return err
	}

	if err := backoff.Retry(operation, bo); err != nil {
		return &SendMessageFailedError{Channel: c.channel, Retries: attempts - 1, Cause: err}
	}

	c.observer.OnOutgoingMessage(msg)
	return nil
}
