package transport

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/Masterminds/semver/v3"

	"github.com/asimov-run/asimov"
	"github.com/asimov-run/asimov/core/channel"
	"github.com/asimov-run/asimov/core/command"
	"github.com/asimov-run/asimov/core/ctxstore"
	"github.com/asimov-run/asimov/core/event"
	"github.com/asimov-run/asimov/core/manifest"
	"github.com/asimov-run/asimov/core/message"
	"github.com/asimov-run/asimov/core/queue"
	"github.com/asimov-run/asimov/core/runner"
	"github.com/asimov-run/asimov/core/servicectx"
	"github.com/asimov-run/asimov/handler"
)

// runCommandTask is the queue payload that carries a service channel through
// to the worker that actually runs its command handler. Keeping it a plain
// struct (rather than closing over the channel) lets the queue's storage
// layer serialize it like any other task.
type runCommandTask struct {
	ChannelID string `json:"channelId"`
}

// commandPullInterval governs how often the command queue's worker polls
// for newly invoked channels. This queue is transport-internal dispatch,
// not a general-purpose background job system, so it polls far more
// aggressively than the queue package's own 5s default.
const commandPullInterval = 20 * time.Millisecond

// supportedProtocol accepts any 1.x peer version.
var supportedProtocol = func() *semver.Constraints {
	c, err := semver.NewConstraint("~1")
	if err != nil {
		panic(err)
	}
	return c
}()

// registeredCommand pairs a command.Definition with the handler function
// that implements it.
type registeredCommand struct {
	def    *command.Definition
	handle runner.Handler
}

// Service binds a set of command implementations to the ASIMOV protocol's
// three HTTP endpoints: GET /manifest.json, POST /invoke/{commandName}, and
// POST /channel (or /channel/{channelId}).
type Service struct {
	mu sync.RWMutex

	name, version, baseURL string

	commands        map[string]*registeredCommand
	commandOrder    []string
	profiles        *command.Registry
	profileOrder    []*command.ConfigProfile
	description     map[string]string
	terms           string
	acceptedSchemas []string

	manager *runner.Manager
	run     *runner.Runner
	store   ctxstore.Store

	eventBus       *event.ChannelBus
	eventPublisher *event.Publisher
	eventHandlers  []event.Handler
	eventProcessor *event.Processor

	jobs *queue.Service

	httpClient *http.Client
	logger     *slog.Logger
}

// ServiceOption configures a Service at construction.
type ServiceOption func(*Service)

// WithServiceStore installs the snapshot store suspend/resume persists to.
func WithServiceStore(store ctxstore.Store) ServiceOption {
	return func(s *Service) { s.store = store }
}

// WithServiceDescription sets the manifest's multilingual description.
func WithServiceDescription(description map[string]string) ServiceOption {
	return func(s *Service) { s.description = description }
}

// WithServiceTerms sets the manifest's terms-of-use reference.
func WithServiceTerms(terms string) ServiceOption {
	return func(s *Service) { s.terms = terms }
}

// WithServiceAcceptedPaymentSchemas sets the manifest's and new contexts'
// default accepted payment schemas.
func WithServiceAcceptedPaymentSchemas(schemas ...string) ServiceOption {
	return func(s *Service) { s.acceptedSchemas = schemas }
}

// WithServiceLogger installs a structured logger; nil is ignored.
func WithServiceLogger(logger *slog.Logger) ServiceOption {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithServiceHTTPClient overrides the client used to post messages back to
// the agent's half-channel. Defaults to http.DefaultClient.
func WithServiceHTTPClient(client *http.Client) ServiceOption {
	return func(s *Service) {
		if client != nil {
			s.httpClient = client
		}
	}
}

// WithServiceEventHandlers subscribes handlers to the service's channel
// lifecycle event bus (ChannelFinished, ChannelCancelled, ChannelSuspended,
// ChannelFailed), alongside the built-in logging subscriber.
func WithServiceEventHandlers(handlers ...event.Handler) ServiceOption {
	return func(s *Service) { s.eventHandlers = append(s.eventHandlers, handlers...) }
}

// NewService builds a Service for name/version, advertising baseURL as the
// prefix its endpoints are mounted under (used to build commands'
// endpointUri in the manifest).
func NewService(name, version, baseURL string, opts ...ServiceOption) *Service {
	s := &Service{
		name:       name,
		version:    version,
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		commands:   make(map[string]*registeredCommand),
		profiles:   command.NewRegistry(),
		manager:    runner.NewManager(),
		httpClient: http.DefaultClient,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.run = runner.New(s.manager, runner.WithStore(s.store), runner.WithLogger(s.logger))

	s.eventBus = event.NewChannelBus(event.WithChannelLogger(s.logger))
	s.eventPublisher = event.NewPublisher(s.eventBus, event.WithPublisherLogger(s.logger))
	processor := event.NewProcessor(append([]event.ProcessorOption{
		event.WithEventSource(s.eventBus),
		event.WithProcessorLogger(s.logger),
		event.WithFallbackHandler(func(ctx context.Context, evt event.Event) error {
			s.logger.InfoContext(ctx, "channel lifecycle event", slog.String("event", evt.Name))
			return nil
		}),
	}, processorHandlerOptions(s.eventHandlers)...)...)
	s.eventProcessor = processor
	go func() { _ = processor.Start(context.Background()) }()

	storage := queue.NewMemoryStorage(queue.WithMemoryStorageLogger(s.logger))
	go func() { _ = storage.Start(context.Background()) }()
	jobs, err := queue.NewService(storage, queue.WithServiceLogger(s.logger),
		queue.WithWorkerOptions(queue.WithPullInterval(commandPullInterval)),
		queue.WithHandlers(queue.NewTaskHandler(s.runQueuedCommand)))
	if err != nil {
		panic(fmt.Errorf("transport: building command queue: %w", err))
	}
	s.jobs = jobs
	go func() { _ = jobs.Run(context.Background()) }()

	return s
}

// processorHandlerOptions adapts a slice of event.Handler into the option
// form event.NewProcessor expects.
func processorHandlerOptions(handlers []event.Handler) []event.ProcessorOption {
	if len(handlers) == 0 {
		return nil
	}
	return []event.ProcessorOption{event.WithHandler(handlers...)}
}

// runQueuedCommand is the queue task handler that actually executes a
// registered command's implementation for the channel named in task. It runs
// on the queue's worker pool rather than a bare goroutine per Invoke, so
// concurrency is bounded and a crashed handler is retried by the queue
// instead of silently vanishing.
func (s *Service) runQueuedCommand(ctx context.Context, task runCommandTask) error {
	sc, ok := s.manager.Get(task.ChannelID)
	if !ok {
		s.logger.WarnContext(ctx, "queued command has no active channel", slog.String("channel_id", task.ChannelID))
		return nil
	}

	s.mu.RLock()
	rc, ok := s.commands[sc.Channel().CommandName]
	s.mu.RUnlock()
	if !ok {
		s.logger.ErrorContext(ctx, "queued command has no registered handler",
			slog.String("channel_id", task.ChannelID), slog.String("command", sc.Channel().CommandName))
		return nil
	}

	s.run.RunRegistered(ctx, sc, rc.handle)
	return nil
}

// Close stops the command queue worker and the event processor. It does not
// drain in-flight invocations; callers that need a graceful drain should
// stop accepting new requests first.
func (s *Service) Close() error {
	var errs []error
	if err := s.jobs.Stop(); err != nil {
		errs = append(errs, err)
	}
	if ms, ok := s.jobs.Storage().(*queue.MemoryStorage); ok {
		if err := ms.Stop(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := s.eventProcessor.Stop(); err != nil {
		errs = append(errs, err)
	}
	if err := s.eventBus.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// RegisterCommand advertises def on the manifest and binds handle as its
// implementation, invoked once per accepted Invoke.
func (s *Service) RegisterCommand(def *command.Definition, handle runner.Handler) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.commands[def.Name()]; exists {
		return fmt.Errorf("transport: command %q already registered", def.Name())
	}
	s.commands[def.Name()] = &registeredCommand{def: def, handle: handle}
	s.commandOrder = append(s.commandOrder, def.Name())
	return nil
}

// RegisterConfigProfile advertises a config profile on the manifest and
// makes it available for Invoke validation.
func (s *Service) RegisterConfigProfile(p *command.ConfigProfile) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.profiles.Register(p); err != nil {
		return err
	}
	s.profileOrder = append(s.profileOrder, p)
	return nil
}

// Manifest assembles the current manifest document from registered
// commands and config profiles.
func (s *Service) Manifest() manifest.Manifest {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b := manifest.NewBuilder(s.name, s.version, ProtocolVersion).
		WithDescription(s.description).
		WithTerms(s.terms).
		WithAcceptedPaymentSchemas(s.acceptedSchemas...)
	for _, p := range s.profileOrder {
		b.AddConfigProfile(p)
	}
	for _, name := range s.commandOrder {
		b.AddCommand(s.commands[name].def, s.baseURL+"/invoke/")
	}
	return b.Build()
}

// Mount registers the protocol's three endpoints on r.
func (s *Service) Mount(r asimov.Router[*handler.Context]) {
	r.Get("/manifest.json", s.handleManifest)
	r.Post("/invoke/{commandName}", s.handleInvoke)
	r.Post("/channel", s.handleChannel)
	r.Post("/channel/{channelId}", s.handleChannel)
}

func (s *Service) handleManifest(ctx *handler.Context) asimov.Response {
	return asimov.JSON(s.Manifest())
}

// checkProtocolVersion validates the x-asmv-protocol-version header against
// the 1.x constraint this implementation speaks.
func checkProtocolVersion(r *http.Request) error {
	raw := r.Header.Get(HeaderProtocolVersion)
	if raw == "" {
		return fmt.Errorf("missing %s header", HeaderProtocolVersion)
	}
	v, err := semver.NewVersion(raw)
	if err != nil {
		return fmt.Errorf("malformed protocol version %q", raw)
	}
	if !supportedProtocol.Check(v) {
		return fmt.Errorf("unsupported protocol version %q", raw)
	}
	return nil
}

// commandNameFromPath extracts {commandName} from /invoke/{commandName},
// manually: the router's path-param passthrough only populates the default
// baseContext, not an arbitrary C, so the transport parses its own URLs.
func commandNameFromPath(path string) string {
	return strings.TrimPrefix(path, "/invoke/")
}

func channelIDFromPath(path string) string {
	return strings.TrimPrefix(path, "/channel/")
}

func (s *Service) handleInvoke(ctx *handler.Context) asimov.Response {
	r := ctx.Request()

	if err := checkProtocolVersion(r); err != nil {
		return NewVersionNotSupported(err.Error())
	}

	clientID := r.Header.Get(HeaderClientChannelID)
	clientURL := r.Header.Get(HeaderClientChannelURL)
	clientToken := r.Header.Get(HeaderClientChannelToken)
	if clientID == "" || clientURL == "" || clientToken == "" {
		return NewInvalidRequest("missing client channel headers")
	}

	commandName := commandNameFromPath(r.URL.Path)
	s.mu.RLock()
	rc, ok := s.commands[commandName]
	s.mu.RUnlock()
	if !ok {
		return NewCommandNotFound(fmt.Sprintf("unknown command %q", commandName))
	}

	raw, err := readBody(r)
	if err != nil {
		return NewInvalidRequest(err.Error())
	}
	msg, err := message.Decode(raw)
	if err != nil {
		return NewInvalidRequest(err.Error())
	}
	inv, ok := msg.(message.Invoke)
	if !ok {
		return NewInvalidRequest(fmt.Sprintf("expected an Invoke message, got %s", msg.Tag()))
	}

	serviceHalf, err := channel.NewHalf(s.baseURL + "/channel")
	if err != nil {
		return NewUnexpectedError(err)
	}

	ch := channel.Channel{
		Client:          channel.Half{ID: clientID, URL: clientURL, Token: clientToken},
		Service:         serviceHalf,
		ProtocolVersion: ProtocolVersion,
		CommandName:     commandName,
	}

	sc := servicectx.New(rc.def, ch, s.sendTo(ch.Client),
		servicectx.WithConfigProfiles(s.profiles),
		servicectx.WithAcceptedPaymentSchemas(s.acceptedSchemas),
		servicectx.WithLogger(s.logger),
		servicectx.WithObserver(newLifecycleObserver(serviceHalf.ID, commandName, s.eventPublisher)),
	)

	if err := sc.HandleIncomingMessage(r.Context(), inv); err != nil {
		return dispatchError(err)
	}

	// Registered before the handler runs, not inside it: a follow-up message
	// the agent posts to /channel right after receiving this response must
	// find the channel active even if the queue hasn't picked up the job yet.
	if err := s.manager.Add(serviceHalf.ID, sc); err != nil {
		return NewUnexpectedError(err)
	}
	if err := s.jobs.Enqueue(context.Background(), runCommandTask{ChannelID: serviceHalf.ID}); err != nil {
		s.manager.Remove(serviceHalf.ID)
		return NewUnexpectedError(err)
	}

	resp := asimov.JSONWithStatus(nil, http.StatusNoContent)
	return asimov.WithHeaders(resp, map[string]string{
		HeaderServiceChannelID:    serviceHalf.ID,
		HeaderServiceChannelURL:   serviceHalf.URL,
		HeaderServiceChannelToken: serviceHalf.Token,
	})
}

func (s *Service) handleChannel(ctx *handler.Context) asimov.Response {
	r := ctx.Request()

	if err := checkProtocolVersion(r); err != nil {
		return NewVersionNotSupported(err.Error())
	}

	channelID := r.Header.Get(HeaderServiceChannelID)
	if channelID == "" {
		if id := channelIDFromPath(r.URL.Path); id != r.URL.Path {
			channelID = id
		}
	}
	if channelID == "" {
		return NewInvalidRequest("missing service channel id")
	}

	sc, ok := s.manager.Get(channelID)
	if !ok {
		return NewSessionNotFound(fmt.Sprintf("no active channel %q", channelID))
	}

	if !checkBearer(r, sc.Channel().Service.Token) {
		return NewUnauthorized("invalid or missing bearer token")
	}

	raw, err := readBody(r)
	if err != nil {
		return NewInvalidRequest(err.Error())
	}
	msg, err := message.Decode(raw)
	if err != nil {
		return NewInvalidRequest(err.Error())
	}

	if err := sc.HandleIncomingMessage(r.Context(), msg); err != nil {
		return dispatchError(err)
	}
	return asimov.JSONWithStatus(nil, http.StatusNoContent)
}

// sendTo returns a servicectx.SendFunc posting to peer's channel endpoint.
func (s *Service) sendTo(peer channel.Half) servicectx.SendFunc {
	return func(ctx context.Context, msg message.Message) error {
		body, err := message.Marshal(msg)
		if err != nil {
			return fmt.Errorf("transport: marshaling %s: %w", msg.Tag(), err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, peer.URL, strings.NewReader(string(body)))
		if err != nil {
			return fmt.Errorf("transport: building request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set(HeaderProtocolVersion, ProtocolVersion)
		req.Header.Set(HeaderClientChannelID, peer.ID)
		req.Header.Set("Authorization", "Bearer "+peer.Token)

		resp, err := s.httpClient.Do(req)
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

func checkBearer(r *http.Request, token string) bool {
	const prefix = "Bearer "
	h := r.Header.Get("Authorization")
	return token != "" && strings.HasPrefix(h, prefix) && h[len(prefix):] == token
}

func readBody(r *http.Request) ([]byte, error) {
	const maxBody = 1 << 20
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("reading request body: %w", err)
	}
	if len(body) > maxBody {
		return nil, fmt.Errorf("request body too large (max %d bytes)", maxBody)
	}
	return body, nil
}

// dispatchError maps a servicectx dispatch failure to the appropriate wire
// error: invalid messages become InvalidRequest carrying their child errors
// as details, anything else (e.g. ErrNotActive) also reports as
// InvalidRequest since it means the request was rejected by the context's
// current state rather than by an auth/transport condition.
func dispatchError(err error) *Error {
	var details any
	var invalid *message.InvalidMessageError
	if errors.As(err, &invalid) && len(invalid.ChildErrors) > 0 {
		details = invalid.ChildErrors
	}
	return NewInvalidRequest(err.Error()).WithDetails(details)
}
