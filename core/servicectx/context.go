package servicectx

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/asimov-run/asimov/core/asyncqueue"
	"github.com/asimov-run/asimov/core/channel"
	"github.com/asimov-run/asimov/core/command"
	"github.com/asimov-run/asimov/core/message"
)

// Status is the service context's lifecycle state.
type Status string

const (
	StatusInitialized Status = "Initialized"
	StatusActive      Status = "Active"
	StatusSuspended   Status = "Suspended"
	StatusCancelled   Status = "Cancelled"
	StatusFinished    Status = "Finished"
)

// DefaultUpcallTimeout is used by getInputs, requestUserConfirmation, and
// requestPayment when the caller passes a non-positive timeout.
const DefaultUpcallTimeout = 5 * time.Minute

// SendFunc posts msg to the client half-channel.
type SendFunc func(ctx context.Context, msg message.Message) error

// Context is the service-side per-invocation state: the command definition
// it was invoked against, the control and input queues, the buffered
// return path, and the status the dispatch table gates on.
type Context struct {
	mu sync.Mutex

	channel channel.Channel
	def     *command.Definition
	send    SendFunc

	status         Status
	state          any
	configProfiles map[string]any

	messageQueue *asyncqueue.Queue[message.Message]
	inputQueue   *asyncqueue.Queue[message.InputItem]
	returnBuffer []message.ReturnItem

	acceptedPaymentSchemas []string
	validateReturnTypes    bool
	profiles               *command.Registry

	observer Observer
	logger   *slog.Logger
	newReqID func() string
}

// Option configures a Context at construction.
type Option func(*Context)

// WithAcceptedPaymentSchemas sets the payment schemas requestPayment offers
// when the caller doesn't override them per-call.
func WithAcceptedPaymentSchemas(schemas []string) Option {
	return func(c *Context) { c.acceptedPaymentSchemas = schemas }
}

// WithValidateReturnTypes toggles schema validation of returnData calls
// against the command definition's declared output types. Defaults to true.
func WithValidateReturnTypes(validate bool) Option {
	return func(c *Context) { c.validateReturnTypes = validate }
}

// WithConfigProfiles installs the service-wide config profile registry
// consulted during Invoke validation.
func WithConfigProfiles(reg *command.Registry) Option {
	return func(c *Context) { c.profiles = reg }
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

// WithReqIDFunc overrides how requestUserConfirmation and requestPayment
// mint their reqId. Defaults to uuid.NewString.
func WithReqIDFunc(fn func() string) Option {
	return func(c *Context) {
		if fn != nil {
			c.newReqID = fn
		}
	}
}

func newContext(def *command.Definition, ch channel.Channel, send SendFunc, opts ...Option) *Context {
	c := &Context{
		channel:             ch,
		def:                 def,
		send:                send,
		status:              StatusInitialized,
		messageQueue:        asyncqueue.New[message.Message](),
		inputQueue:          asyncqueue.New[message.InputItem](),
		validateReturnTypes: true,
		observer:            noopObserver{},
		logger:              slog.New(slog.NewTextHandler(io.Discard, nil)),
		newReqID:            uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// New constructs a fresh Context, not yet invoked, for the command
// definition def and channel ch.
func New(def *command.Definition, ch channel.Channel, send SendFunc, opts ...Option) *Context {
	return newContext(def, ch, send, opts...)
}

// Channel returns the channel this context was constructed for.
func (c *Context) Channel() channel.Channel { return c.channel }

// Status returns the context's current lifecycle state.
func (c *Context) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.status
}

// State returns the handler's own state value, round-tripped verbatim
// through Serialize/Restore as opaque JSON.
func (c *Context) State() any {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// SetState replaces the handler's state value.
func (c *Context) SetState(s any) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
}

// GetConfigProfile returns the opaque config profile data the Invoke
// supplied for name. Returns command.ErrProfileNotRequired if the command
// definition doesn't declare name among its required profiles.
func (c *Context) GetConfigProfile(name string) (any, error) {
	if !c.def.DoesRequireConfigProfile(name) {
		return nil, command.ErrProfileNotRequired
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.configProfiles[name], nil
}

// Dispose releases the context's internal queues, completing any pending
// waiters with ErrCancelled. Safe to call multiple times.
func (c *Context) Dispose() {
	c.messageQueue.Flush(ErrCancelled)
	c.inputQueue.Flush(ErrCancelled)
	c.observer.OnDispose()
}

// EmitError reports err to the installed Observer's OnError, for callers
// outside the package (the Execution Runner) that need to surface a
// handler failure the same way internal send failures are reported.
func (c *Context) EmitError(err error) {
	c.observer.OnError(err)
}

func (c *Context) setStatus(s Status) {
	c.mu.Lock()
	c.status = s
	c.mu.Unlock()
}
