package servicectx

import (
	"errors"
	"fmt"

	"github.com/asimov-run/asimov/core/message"
)

var (
	// ErrAlreadyInvoked is returned when an Invoke arrives while the
	// context is already Active.
	ErrAlreadyInvoked = errors.New("servicectx: already invoked")

	// ErrNotActive is returned by dispatch for any message received while
	// the context is Suspended, Cancelled, or Finished. Handler calls do
	// not check the status and never return it.
	ErrNotActive = errors.New("servicectx: context is not active")

	// ErrCancelled completes queue waiters flushed by an incoming Cancel.
	ErrCancelled = errors.New("servicectx: cancelled")
)

// UnexpectedMessageError reports a message whose tag the current status
// never accepts.
type UnexpectedMessageError struct {
	Status Status
	Tag    message.Tag
}

func (e *UnexpectedMessageError) Error() string {
	return fmt.Sprintf("servicectx: unexpected message %s while %s", e.Tag, e.Status)
}

// InputTimeoutError is raised when getInputs exhausts its wait (including
// one RequestInput round-trip) without collecting enough items.
type InputTimeoutError struct {
	InputType string
}

func (e *InputTimeoutError) Error() string {
	return fmt.Sprintf("servicectx: timed out waiting for input %q", e.InputType)
}

// ConfirmationTimeoutError is raised when requestUserConfirmation's wait
// expires before a matching ProvideUserConfirmation arrives.
type ConfirmationTimeoutError struct{}

func (e *ConfirmationTimeoutError) Error() string {
	return "servicectx: timed out waiting for user confirmation"
}

// PaymentTimeoutError is raised when requestPayment's wait expires before a
// matching AuthorizePayment or RejectPayment arrives.
type PaymentTimeoutError struct{}

func (e *PaymentTimeoutError) Error() string {
	return "servicectx: timed out waiting for payment"
}

// PaymentRejectedError reports an explicit RejectPayment reply.
type PaymentRejectedError struct {
	Reason string
}

func (e *PaymentRejectedError) Error() string {
	return fmt.Sprintf("servicectx: payment rejected: %s", e.Reason)
}
