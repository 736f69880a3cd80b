package servicectx

import "github.com/asimov-run/asimov/core/message"

// Observer receives service-context lifecycle events for observability.
// Methods correspond directly to the protocol's named event set.
type Observer interface {
	OnMessage(msg message.Message)
	OnCancel()
	OnSuspend()
	OnFinish()
	OnIncomingMessage(msg message.Message)
	OnOutgoingMessage(msg message.Message)
	OnClose()
	OnDispose()
	OnError(err error)
}

type noopObserver struct{}

func (noopObserver) OnMessage(message.Message) {}
func (noopObserver) OnCancel()                 {}
func (noopObserver) OnSuspend()                {}
func (noopObserver) OnFinish()                 {}
func (noopObserver) OnIncomingMessage(message.Message) {}
func (noopObserver) OnOutgoingMessage(message.Message) {}
func (noopObserver) OnClose()                          {}
func (noopObserver) OnDispose()                         {}
func (noopObserver) OnError(error)                      {}
