package clientctx_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/asimov-run/asimov/core/channel"
	"github.com/asimov-run/asimov/core/clientctx"
	"github.com/asimov-run/asimov/core/message"
)

type fakeRetryable struct{ retryable bool }

func (e fakeRetryable) Error() string  { return "fake" }
func (e fakeRetryable) Retryable() bool { return e.retryable }

func newTestChannel() channel.Channel {
	return channel.Channel{ProtocolVersion: "1.0.0"}
}

func TestContext_GetMessageReturnsPushedMessage(t *testing.T) {
	cc := clientctx.New(newTestChannel(), func(context.Context, message.Message) error { return nil })
	cc.HandleIncomingMessage(message.RequestInput{Inputs: map[string]message.InputDescriptor{}})

	msg, err := cc.GetMessage(context.Background(), 0)
	require.NoError(t, err)
	_, ok := msg.(message.RequestInput)
	assert.True(t, ok)
}

func TestContext_ReturnCloseTransitionsFinished(t *testing.T) {
	cc := clientctx.New(newTestChannel(), func(context.Context, message.Message) error { return nil })
	cc.HandleIncomingMessage(message.Return{Close: true, Items: []message.ReturnItem{}})

	assert.Equal(t, clientctx.StatusFinished, cc.Status())

	_, err := cc.GetMessage(context.Background(), 0)
	require.Error(t, err)
}

func TestContext_CancelTransitionsAndBlocksFurtherSends(t *testing.T) {
	var sent []message.Message
	cc := clientctx.New(newTestChannel(), func(_ context.Context, msg message.Message) error {
		sent = append(sent, msg)
		return nil
	})

	require.NoError(t, cc.Cancel(context.Background()))
	assert.Equal(t, clientctx.StatusCancelled, cc.Status())
	assert.Len(t, sent, 1)

	err := cc.ProvideInputs(context.Background(), nil)
	assert.ErrorIs(t, err, clientctx.ErrNotInvoked)
}

func TestContext_SendMessageRetriesThenFails(t *testing.T) {
	attempts := 0
	cc := clientctx.New(newTestChannel(), func(context.Context, message.Message) error {
		attempts++
		return fakeRetryable{retryable: true}
	}, clientctx.WithRetryOptions(clientctx.RetryOptions{
		MaxRetries: 2,
		BaseDelay:  time.Millisecond,
		Multiplier: 1,
		MaxJitter:  0,
	}))

	err := cc.ProvideInputs(context.Background(), nil)
	require.Error(t, err)

	var failed *clientctx.SendMessageFailedError
	require.ErrorAs(t, err, &failed)
	assert.Equal(t, 2, failed.Retries)
	assert.Equal(t, 3, attempts) // initial attempt + 2 retries
}

func TestContext_SendMessageNonRetryableFailsImmediately(t *testing.T) {
	attempts := 0
	boom := errors.New("terminal")
	cc := clientctx.New(newTestChannel(), func(context.Context, message.Message) error {
		attempts++
		return boom
	})

	err := cc.ProvideInputs(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}
