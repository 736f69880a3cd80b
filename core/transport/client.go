package transport

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"

	"github.com/asimov-run/asimov/core/channel"
	"github.com/asimov-run/asimov/core/clientctx"
	"github.com/asimov-run/asimov/core/message"
)

// Client drives the agent side of the protocol: it posts an Invoke to a
// remote Service, learns the service half-channel it was assigned, and
// returns a clientctx.Context ready to send further messages and receive
// the service's replies once the caller wires an HTTP listener on
// localChannelURL to Client.ServeChannel.
type Client struct {
	httpClient *http.Client
	logger     *slog.Logger

	mu       sync.RWMutex
	contexts map[string]*clientctx.Context // keyed by client channel ID
}

// ClientOption configures a Client at construction.
type ClientOption func(*Client)

// WithClientHTTPClient overrides the client used to call the service.
// Defaults to http.DefaultClient.
func WithClientHTTPClient(client *http.Client) ClientOption {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithClientLogger installs a structured logger; nil is ignored.
func WithClientLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient builds a Client.
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		contexts:   make(map[string]*clientctx.Context),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke posts an Invoke to serviceURL (a command's advertised
// endpointUri), establishing a client half-channel reachable at
// clientChannelURL (the address Client.ServeChannel is, or will be,
// listening on). It returns a clientctx.Context for the new exchange once
// the service accepts the request and hands back its own half-channel
// coordinates.
func (c *Client) Invoke(ctx context.Context, serviceURL, clientChannelURL string, inv message.Invoke, opts ...clientctx.Option) (*clientctx.Context, error) {
	clientHalf, err := channel.NewHalf(clientChannelURL)
	if err != nil {
		return nil, fmt.Errorf("transport: minting client half-channel: %w", err)
	}

	body, err := message.Marshal(inv)
	if err != nil {
		return nil, fmt.Errorf("transport: marshaling invoke: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, serviceURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("transport: building invoke request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(HeaderProtocolVersion, ProtocolVersion)
	req.Header.Set(HeaderClientChannelID, clientHalf.ID)
	req.Header.Set(HeaderClientChannelURL, clientHalf.URL)
	req.Header.Set(HeaderClientChannelToken, clientHalf.Token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("transport: invoking %s: %w", serviceURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode/100 != 2 {
		return nil, DecodeError(resp)
	}

	serviceHalf := channel.Half{
		ID:    resp.Header.Get(HeaderServiceChannelID),
		URL:   resp.Header.Get(HeaderServiceChannelURL),
		Token: resp.Header.Get(HeaderServiceChannelToken),
	}
	if serviceHalf.ID == "" || serviceHalf.URL == "" || serviceHalf.Token == "" {
		return nil, fmt.Errorf("transport: service response missing channel headers")
	}

	ch := channel.Channel{
		Client:          clientHalf,
		Service:         serviceHalf,
		ProtocolVersion: ProtocolVersion,
	}

	cc := clientctx.New(ch, c.sendTo(serviceHalf), opts...)

	c.mu.Lock()
	c.contexts[clientHalf.ID] = cc
	c.mu.Unlock()

	return cc, nil
}

// Forget drops the context for clientChannelID once its exchange is
// Finished or Cancelled and no longer needs to receive messages.
func (c *Client) Forget(clientChannelID string) {
	c.mu.Lock()
	delete(c.contexts, clientChannelID)
	c.mu.Unlock()
}

// sendTo returns a clientctx.SendFunc posting to the service's channel
// endpoint.
func (c *Client) sendTo(service channel.Half) clientctx.SendFunc {
	return func(ctx context.Context, msg message.Message) error {
		body, err := message.Marshal(msg)
		if err != nil {
			return fmt.Errorf("transport: marshaling %s: %w", msg.Tag(), err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, service.URL, strings.NewReader(string(body)))
		if err != nil {
			return fmt.Errorf("transport: building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderProtocolVersion, ProtocolVersion)
		req.Header.Set(HeaderServiceChannelID, service.ID)
		req.Header.Set("Authorization", "Bearer "+service.Token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return newNetworkError(fmt.Errorf("transport: sending %s: %w", msg.Tag(), err))
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode/100 != 2 {
			return DecodeError(resp)
		}
		return nil
	}
}

// ServeHTTP implements the agent-side channel endpoint a Service posts
// replies to: it resolves the target context by client channel ID, checks
// the bearer token, and hands the decoded message to HandleIncomingMessage.
// Mount it directly with net/http, or wrap it with asimov handlers the same
// way core/transport.Service does.
func (c *Client) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := checkProtocolVersion(r); err != nil {
		WriteError(w, NewVersionNotSupported(err.Error()))
		return
	}

	channelID := r.Header.Get(HeaderClientChannelID)
	if channelID == "" {
		WriteError(w, NewInvalidRequest("missing client channel id"))
		return
	}

	c.mu.RLock()
	cc, ok := c.contexts[channelID]
	c.mu.RUnlock()
	if !ok {
		WriteError(w, NewSessionNotFound(fmt.Sprintf("no active channel %q", channelID)))
		return
	}

	if !checkBearer(r, cc.Channel().Client.Token) {
		WriteError(w, NewUnauthorized("invalid or missing bearer token"))
		return
	}

	raw, err := readBody(r)
	if err != nil {
		WriteError(w, NewInvalidRequest(err.Error()))
		return
	}
	msg, err := message.Decode(raw)
	if err != nil {
		WriteError(w, NewInvalidRequest(err.Error()))
		return
	}

	cc.HandleIncomingMessage(msg)
	w.WriteHeader(http.StatusNoContent)
}
