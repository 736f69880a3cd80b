package servicectx

import (
	"context"
	"fmt"

	"github.com/asimov-run/asimov/core/message"
)

// HandleIncomingMessage admits or rejects an inbound message per the
// protocol's dispatch table:
//
//	Initialized + Invoke                                -> validate, go Active
//	Initialized + anything else                         -> reject UnexpectedMessage
//	Active + ProvideInput                               -> validate fail-fast, buffer
//	Active + ProvideUserConfirmation/Authorize/RejectPayment -> queue for upcalls
//	Active + Cancel                                      -> flush queues, go Cancelled
//	Active + Invoke                                      -> reject already invoked
//	Active + anything else                               -> reject UnexpectedMessage
//	any other status                                     -> reject not active
//
// A non-nil error is the caller's (transport's) cue to answer the inbound
// request with the matching wire error instead of 204. After a successful
// admission, if the context is Active and the return buffer holds unflushed
// items, they are flushed before returning.
func (c *Context) HandleIncomingMessage(ctx context.Context, msg message.Message) error {
	err := c.dispatch(msg)
	c.observer.OnIncomingMessage(msg)
	if err != nil {
		return err
	}

	c.mu.Lock()
	active := c.status == StatusActive
	pending := len(c.returnBuffer) > 0
	c.mu.Unlock()

	if active && pending {
		if ferr := c.flush(ctx, false); ferr != nil {
			c.logger.WarnContext(ctx, "servicectx: flushing return buffer after dispatch", "error", ferr)
			c.observer.OnError(ferr)
		}
	}
	return nil
}

func (c *Context) dispatch(msg message.Message) error {
	status := c.Status()

	switch status {
	case StatusInitialized:
		inv, ok := msg.(message.Invoke)
		if !ok {
			return &UnexpectedMessageError{Status: status, Tag: msg.Tag()}
		}
		return c.handleInvoke(inv)

	case StatusActive:
		switch m := msg.(type) {
		case message.ProvideInput:
			if err := c.handleProvideInput(m); err != nil {
				return err
			}
			c.observer.OnMessage(msg)
			return nil
		case message.ProvideUserConfirmation:
			c.messageQueue.Push(msg)
			c.observer.OnMessage(msg)
			return nil
		case message.AuthorizePayment:
			c.messageQueue.Push(msg)
			c.observer.OnMessage(msg)
			return nil
		case message.RejectPayment:
			c.messageQueue.Push(msg)
			c.observer.OnMessage(msg)
			return nil
		case message.Cancel:
			c.handleCancel()
			return nil
		case message.Invoke:
			return ErrAlreadyInvoked
		default:
			return &UnexpectedMessageError{Status: status, Tag: msg.Tag()}
		}

	default:
		return ErrNotActive
	}
}

func (c *Context) handleInvoke(inv message.Invoke) error {
	var childErrors []string

	for _, name := range c.def.GetRequiredConfigProfiles() {
		val, present := inv.ConfigProfiles[name]
		if !present {
			childErrors = append(childErrors, fmt.Sprintf("missing required config profile %q", name))
			continue
		}
		if c.profiles != nil {
			if profile, ok := c.profiles.Get(name); ok {
				if ok2, errs := profile.Validate(val); !ok2 {
					for _, e := range errs {
						childErrors = append(childErrors, fmt.Sprintf("config profile %q: %s", name, e))
					}
				}
			}
		}
	}
	for name := range inv.ConfigProfiles {
		if !c.def.DoesRequireConfigProfile(name) {
			childErrors = append(childErrors, fmt.Sprintf("unknown config profile %q", name))
		}
	}

	for _, item := range inv.Inputs {
		if !c.def.HasInputType(item.InputType) {
			childErrors = append(childErrors, fmt.Sprintf("unknown input type %q", item.InputType))
			continue
		}
		if ok, errs, _ := c.def.ValidateInput(item.InputType, item.Value); !ok {
			for _, e := range errs {
				childErrors = append(childErrors, fmt.Sprintf("input %q: %s", item.InputType, e))
			}
		}
	}

	if len(childErrors) > 0 {
		return &message.InvalidMessageError{Reason: "invoke validation failed", ChildErrors: childErrors}
	}

	c.mu.Lock()
	c.configProfiles = inv.ConfigProfiles
	c.status = StatusActive
	c.mu.Unlock()

	for _, item := range inv.Inputs {
		c.inputQueue.Push(item)
	}
	if inv.UserConfirmation != nil {
		c.messageQueue.Push(message.ProvideUserConfirmation{ReqID: "", ConfirmedBy: inv.UserConfirmation.ConfirmedBy})
	}
	return nil
}

// handleProvideInput validates fail-fast: it stops at the first invalid
// entry, leaving entries validated before it already buffered and entries
// after it untouched. This is the deliberate asymmetry with Invoke, which
// validates every input and collects all errors before admitting any.
func (c *Context) handleProvideInput(m message.ProvideInput) error {
	for _, item := range m.Inputs {
		if !c.def.HasInputType(item.InputType) {
			return &message.InvalidMessageError{Reason: fmt.Sprintf("unknown input type %q", item.InputType)}
		}
		ok, errs, _ := c.def.ValidateInput(item.InputType, item.Value)
		if !ok {
			return &message.InvalidMessageError{Reason: fmt.Sprintf("input %q invalid", item.InputType), ChildErrors: errs}
		}
		c.inputQueue.Push(item)
	}
	return nil
}

func (c *Context) handleCancel() {
	c.setStatus(StatusCancelled)
	c.messageQueue.Flush(ErrCancelled)
	c.inputQueue.Flush(ErrCancelled)
	c.observer.OnCancel()
}
