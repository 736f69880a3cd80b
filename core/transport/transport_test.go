package transport_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/asimov-run/asimov"
	"github.com/asimov-run/asimov/core/clientctx"
	"github.com/asimov-run/asimov/core/command"
	"github.com/asimov-run/asimov/core/message"
	"github.com/asimov-run/asimov/core/servicectx"
	"github.com/asimov-run/asimov/core/transport"
	"github.com/asimov-run/asimov/handler"
)

func echoDefinition(t *testing.T) *command.Definition {
	t.Helper()
	def, err := command.NewBuilder("echo").
		AddInputType("text", command.TypeDescriptor{Required: true}).
		AddOutputType("text", command.TypeDescriptor{}).
		Build()
	require.NoError(t, err)
	return def
}

func echoHandler(ctx context.Context, sc *servicectx.Context) error {
	values, err := sc.GetInputs(ctx, "text", 1, time.Second)
	if err != nil {
		return err
	}
	for _, v := range values {
		if err := sc.ReturnData("text", v, "echoed"); err != nil {
			return err
		}
	}
	return nil
}

// TestInvokeEndToEnd drives a full Invoke through Service and back through
// Client: the agent posts an Invoke, the service runs echoHandler, and the
// agent's channel endpoint receives the resulting Return.
func TestInvokeEndToEnd(t *testing.T) {
	router := asimov.NewRouter[*handler.Context](
		asimov.WithContextFactory(func(w http.ResponseWriter, r *http.Request) *handler.Context {
			return handler.New(w, r, nil)
		}),
	)
	serviceServer := httptest.NewServer(router)
	defer serviceServer.Close()

	svc := transport.NewService("echo-service", "1.0.0", serviceServer.URL)
	require.NoError(t, svc.RegisterCommand(echoDefinition(t), echoHandler))
	svc.Mount(router)

	cl := transport.NewClient()

	agentMux := http.NewServeMux()
	agentMux.Handle("/agent-channel", cl)
	agentServer := httptest.NewServer(agentMux)
	defer agentServer.Close()

	inv := message.Invoke{Inputs: []message.InputItem{{InputType: "text", Value: "hello"}}}
	cc, err := cl.Invoke(context.Background(), serviceServer.URL+"/invoke/echo", agentServer.URL+"/agent-channel", inv)
	require.NoError(t, err)

	msg, err := cc.GetMessage(context.Background(), 2*time.Second)
	require.NoError(t, err)
	ret, ok := msg.(message.Return)
	require.True(t, ok, "expected a Return message, got %T", msg)
	require.Len(t, ret.Items, 1)

	deadline := time.After(2 * time.Second)
	for cc.Status() != clientctx.StatusFinished {
		select {
		case <-deadline:
			t.Fatal("timed out waiting for context to finish")
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}
