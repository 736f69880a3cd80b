package clientctx

import "github.com/asimov-run/asimov/core/message"

// Observer receives client-context lifecycle events for observability.
// Methods correspond directly to the protocol's named event set.
type Observer interface {
	OnIncomingMessage(msg message.Message)
	OnOutgoingMessage(msg message.Message)
	OnClose()
}

type noopObserver struct{}

func (noopObserver) OnIncomingMessage(message.Message) {}
func (noopObserver) OnOutgoingMessage(message.Message) {}
func (noopObserver) OnClose()                          {}
