package transport

import (
	"context"

	"github.com/asimov-run/asimov/core/event"
	"github.com/asimov-run/asimov/core/message"
	"github.com/asimov-run/asimov/core/servicectx"
)

// ChannelFinished is published when a channel's command handler completes
// normally and the final Return has been sent.
type ChannelFinished struct {
	ChannelID   string
	CommandName string
}

// ChannelCancelled is published when the agent cancels a channel mid-run.
type ChannelCancelled struct {
	ChannelID   string
	CommandName string
}

// ChannelSuspended is published when a channel's handler suspends awaiting
// input, user confirmation, or payment.
type ChannelSuspended struct {
	ChannelID   string
	CommandName string
}

// ChannelFailed is published when a channel's handler returns an error.
type ChannelFailed struct {
	ChannelID   string
	CommandName string
	Error       string
}

// lifecycleObserver publishes a channel's terminal transitions onto the
// service's event bus, so subscribers can observe invocation outcomes
// without sitting in the dispatch path itself.
type lifecycleObserver struct {
	channelID   string
	commandName string
	publisher   *event.Publisher
}

func newLifecycleObserver(channelID, commandName string, publisher *event.Publisher) *lifecycleObserver {
	return &lifecycleObserver{channelID: channelID, commandName: commandName, publisher: publisher}
}

func (o *lifecycleObserver) publish(payload any) {
	_ = o.publisher.Publish(context.Background(), payload)
}

func (o *lifecycleObserver) OnMessage(message.Message)         {}
func (o *lifecycleObserver) OnIncomingMessage(message.Message) {}
func (o *lifecycleObserver) OnOutgoingMessage(message.Message) {}
func (o *lifecycleObserver) OnClose()                          {}
func (o *lifecycleObserver) OnDispose()                        {}

func (o *lifecycleObserver) OnCancel() {
	o.publish(ChannelCancelled{ChannelID: o.channelID, CommandName: o.commandName})
}

func (o *lifecycleObserver) OnSuspend() {
	o.publish(ChannelSuspended{ChannelID: o.channelID, CommandName: o.commandName})
}

func (o *lifecycleObserver) OnFinish() {
	o.publish(ChannelFinished{ChannelID: o.channelID, CommandName: o.commandName})
}

func (o *lifecycleObserver) OnError(err error) {
	o.publish(ChannelFailed{ChannelID: o.channelID, CommandName: o.commandName, Error: err.Error()})
}

var _ servicectx.Observer = (*lifecycleObserver)(nil)
