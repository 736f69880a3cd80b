package servicectx

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/asimov-run/asimov/core/command"
	"github.com/asimov-run/asimov/core/message"
)

// GetInputs collects count items of inputType from the input buffer,
// blocking indefinitely on the first wait and, on every subsequent wait
// within this call, for up to timeout (DefaultUpcallTimeout if
// non-positive). A wait that times out sends one RequestInput for the
// remaining count before waiting once more; a second timeout fails with
// InputTimeoutError.
func (c *Context) GetInputs(ctx context.Context, inputType string, count int, timeout time.Duration) ([]any, error) {
	if count <= 0 {
		count = 1
	}
	if timeout <= 0 {
		timeout = DefaultUpcallTimeout
	}
	predicate := func(it message.InputItem) bool { return it.InputType == inputType }

	collected := make([]any, 0, count)
	for i := 0; len(collected) < count; i++ {
		wait := timeout
		if i == 0 {
			wait = 0
		}

		item, err := c.inputQueue.WaitFor(ctx, predicate, wait)
		if err != nil {
			remaining := count - len(collected)
			if sendErr := c.requestMoreInput(ctx, inputType, remaining); sendErr != nil {
				return collected, sendErr
			}
			item, err = c.inputQueue.WaitFor(ctx, predicate, timeout)
			if err != nil {
				return collected, &InputTimeoutError{InputType: inputType}
			}
		}
		collected = append(collected, item.Value)
	}
	return collected, nil
}

func (c *Context) requestMoreInput(ctx context.Context, inputType string, remaining int) error {
	descriptor, _ := c.def.GetInputType(inputType)
	required := true
	minCount := remaining
	return c.sendMessage(ctx, message.RequestInput{
		Inputs: map[string]message.InputDescriptor{
			inputType: {
				Description: firstDescription(descriptor),
				Schema:      descriptor.Schema,
				Required:    &required,
				MinCount:    &minCount,
			},
		},
	})
}

func firstDescription(d command.TypeDescriptor) string {
	for _, v := range d.Description {
		return v
	}
	return ""
}

// isStandingConfirmation matches the synthetic ProvideUserConfirmation
// pushed onto the message queue when Invoke carried an inline
// UserConfirmation: it carries an empty ReqID reserved for this purpose.
func isStandingConfirmation(m message.Message) bool {
	pc, ok := m.(message.ProvideUserConfirmation)
	return ok && pc.ReqID == ""
}

// RequestUserConfirmation asks the agent to confirm an action. If Invoke
// already supplied a standing confirmation and it hasn't been consumed yet,
// it is returned immediately with no round-trip to the agent. Otherwise a
// RequestUserConfirmation is sent and this call blocks until a matching
// reply arrives or timeout (DefaultUpcallTimeout if non-positive) elapses.
func (c *Context) RequestUserConfirmation(ctx context.Context, reason string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = DefaultUpcallTimeout
	}

	if standing, err := c.messageQueue.WaitFor(ctx, isStandingConfirmation, -1); err == nil {
		return standing.(message.ProvideUserConfirmation).ConfirmedBy, nil
	}

	reqID := c.newReqID()
	if err := c.sendMessage(ctx, message.RequestUserConfirmation{ReqID: reqID, Reason: reason}); err != nil {
		return "", err
	}

	msg, err := c.messageQueue.WaitFor(ctx, func(m message.Message) bool {
		pc, ok := m.(message.ProvideUserConfirmation)
		return ok && pc.ReqID == reqID
	}, timeout)
	if err != nil {
		return "", &ConfirmationTimeoutError{}
	}
	return msg.(message.ProvideUserConfirmation).ConfirmedBy, nil
}

// PaymentRequest describes the terms of a requestPayment upcall.
type PaymentRequest struct {
	AcceptedPaymentSchemas []string
	Amount                 float64
	Currency               string
	Description            string
}

// PaymentAuthorization is the agent's completed payment, returned on a
// successful requestPayment.
type PaymentAuthorization struct {
	PaymentID     string
	PaymentSchema string
	MaxAmount     float64
	Currency      string
	Token         string
	PaymentData   any
}

// RequestPayment asks the agent to authorize a payment. It blocks until a
// matching AuthorizePayment or RejectPayment arrives or timeout
// (DefaultUpcallTimeout if non-positive) elapses. MaxAmount on the returned
// authorization is always req.Amount, the amount this service asked for,
// never a value echoed back by the agent.
func (c *Context) RequestPayment(ctx context.Context, req PaymentRequest, timeout time.Duration) (*PaymentAuthorization, error) {
	if timeout <= 0 {
		timeout = DefaultUpcallTimeout
	}
	schemas := req.AcceptedPaymentSchemas
	if len(schemas) == 0 {
		schemas = c.acceptedPaymentSchemas
	}

	reqID := c.newReqID()
	wire := message.RequestPayment{
		ReqID:                  reqID,
		AcceptedPaymentSchemas: schemas,
		Amount:                 req.Amount,
		Currency:               req.Currency,
		Description:            req.Description,
	}
	if err := c.sendMessage(ctx, wire); err != nil {
		return nil, err
	}

	msg, err := c.messageQueue.WaitFor(ctx, func(m message.Message) bool {
		switch v := m.(type) {
		case message.AuthorizePayment:
			return v.ReqID == reqID
		case message.RejectPayment:
			return v.ReqID == reqID
		}
		return false
	}, timeout)
	if err != nil {
		return nil, &PaymentTimeoutError{}
	}

	switch v := msg.(type) {
	case message.AuthorizePayment:
		return &PaymentAuthorization{
			PaymentID:     v.PaymentID,
			PaymentSchema: v.PaymentSchema,
			MaxAmount:     req.Amount,
			Currency:      v.Currency,
			Token:         v.Token,
			PaymentData:   v.PaymentData,
		}, nil
	case message.RejectPayment:
		return nil, &PaymentRejectedError{Reason: v.Reason}
	default:
		return nil, fmt.Errorf("servicectx: unexpected reply to payment request")
	}
}

// ReturnData appends a successful output item to the return buffer. If
// validateReturnTypes is enabled (the default), outputType and data are
// validated against the command definition before buffering.
func (c *Context) ReturnData(outputType string, data any, summary string) error {
	if c.validateReturnTypes {
		if !c.def.HasOutputType(outputType) {
			return fmt.Errorf("%w: %s", command.ErrUnknownOutputType, outputType)
		}
		if ok, errs, _ := c.def.ValidateOutput(outputType, data); !ok {
			return &message.InvalidMessageError{Reason: fmt.Sprintf("output %q invalid", outputType), ChildErrors: errs}
		}
	}
	c.mu.Lock()
	c.returnBuffer = append(c.returnBuffer, message.ReturnItem{Output: &message.Output{
		OutputType: outputType,
		Data:       data,
		Summary:    summary,
	}})
	c.mu.Unlock()
	return nil
}

// ReturnError appends a failure item to the return buffer.
func (c *Context) ReturnError(errorName, description string, data any) {
	c.mu.Lock()
	c.returnBuffer = append(c.returnBuffer, message.ReturnItem{Error: &message.ErrorItem{
		ErrorName:   errorName,
		Description: description,
		Data:        data,
	}})
	c.mu.Unlock()
}

// Finish flushes the return buffer with Close set, transitions the context
// to Finished, and emits OnFinish. Finish is the only way a handler
// terminates an invocation successfully.
func (c *Context) Finish(ctx context.Context) error {
	if err := c.flush(ctx, true); err != nil {
		return err
	}
	c.setStatus(StatusFinished)
	c.observer.OnFinish()
	return nil
}

// Suspend flushes any pending return buffer (without closing) and
// transitions the context to Suspended. The caller is responsible for
// persisting Serialize's output before the process exits; Restore resumes
// as Active.
func (c *Context) Suspend(ctx context.Context) error {
	c.mu.Lock()
	pending := len(c.returnBuffer) > 0
	c.mu.Unlock()

	if pending {
		if err := c.flush(ctx, false); err != nil {
			return err
		}
	}
	c.setStatus(StatusSuspended)
	c.observer.OnSuspend()
	return nil
}

// flush sends the buffered return items as a single Return, clearing the
// buffer first and re-prepending unsent items on failure so a later flush
// retries them in order ahead of anything buffered since.
func (c *Context) flush(ctx context.Context, close bool) error {
	c.mu.Lock()
	items := c.returnBuffer
	c.returnBuffer = nil
	c.mu.Unlock()

	if err := c.sendMessage(ctx, message.Return{Items: items, Close: close}); err != nil {
		c.mu.Lock()
		c.returnBuffer = append(append([]message.ReturnItem(nil), items...), c.returnBuffer...)
		c.mu.Unlock()
		return err
	}
	return nil
}

func (c *Context) sendMessage(ctx context.Context, msg message.Message) error {
	if err := c.send(ctx, msg); err != nil {
		c.logger.WarnContext(ctx, "servicectx: send failed", slog.Any("error", err))
		return err
	}
	c.observer.OnOutgoingMessage(msg)
	return nil
}
