package runner

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/asimov-run/asimov/core/ctxstore"
	"github.com/asimov-run/asimov/core/servicectx"
)

// DefaultSnapshotTTL bounds how long a suspended context's snapshot
// survives in the store before it is considered abandoned.
const DefaultSnapshotTTL = 24 * time.Hour

// Handler is a command implementation: it drives svcCtx through getInputs,
// requestUserConfirmation, requestPayment, and returnData/returnError
// calls, terminating with Finish or Suspend. A returned error is treated
// as an uncaught handler failure.
type Handler func(ctx context.Context, svcCtx *servicectx.Context) error

// Runner drives a single Handler invocation to completion and reconciles
// the Manager and an optional snapshot Store with the outcome.
type Runner struct {
	manager *Manager
	store   ctxstore.Store
	ttl     time.Duration
	logger  *slog.Logger
}

// Option configures a Runner at construction.
type Option func(*Runner)

// WithStore installs the snapshot store consulted on suspend and cleared
// on finish/cancel/failure. Without one, Suspend loses its snapshot once
// the process exits.
func WithStore(store ctxstore.Store) Option {
	return func(r *Runner) { r.store = store }
}

// WithSnapshotTTL overrides DefaultSnapshotTTL for suspended snapshots.
func WithSnapshotTTL(ttl time.Duration) Option {
	return func(r *Runner) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithLogger installs a structured logger; nil is ignored.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// New builds a Runner backed by manager.
func New(manager *Manager, opts ...Option) *Runner {
	r := &Runner{
		manager: manager,
		ttl:     DefaultSnapshotTTL,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run registers svcCtx under its service channel ID, runs handler to
// completion (recovering a panic as a handler failure), and on return
// reconciles the context's final status with the Manager and store:
//
//   - Suspended: the snapshot is saved under the channel ID and the
//     in-memory context is disposed.
//   - Finished or Cancelled: the snapshot (if any) is deleted and the
//     context is disposed; finish() is not called.
//   - any other status: finish() is called, the snapshot (if any) is
//     deleted, and the context is disposed.
//   - handler failure: returnError is appended, finish() is called unless
//     already Finished, the snapshot is deleted, and the context is
//     disposed.
//
// In every case the context is removed from the Manager before Run
// returns.
func (r *Runner) Run(ctx context.Context, svcCtx *servicectx.Context, handler Handler) {
	channelID := svcCtx.Channel().Service.ID

	if err := r.manager.Add(channelID, svcCtx); err != nil {
		r.logger.ErrorContext(ctx, "runner: registering service context", "channelId", channelID, "error", err)
		return
	}
	r.runRegistered(ctx, svcCtx, handler)
}

// RunRegistered behaves exactly like Run, except it assumes the caller has
// already added svcCtx to the Manager. Callers that must publish the
// channel before handing execution off to a worker pool (so a follow-up
// message arriving before the worker picks up the job still finds an
// active channel) register it themselves and call this instead of Run.
func (r *Runner) RunRegistered(ctx context.Context, svcCtx *servicectx.Context, handler Handler) {
	r.runRegistered(ctx, svcCtx, handler)
}

func (r *Runner) runRegistered(ctx context.Context, svcCtx *servicectx.Context, handler Handler) {
	channelID := svcCtx.Channel().Service.ID

	defer r.manager.Remove(channelID)
	defer svcCtx.Dispose()

	err := r.invoke(ctx, svcCtx, handler)
	if err != nil {
		r.handleFailure(ctx, svcCtx, channelID, err)
		return
	}

	switch svcCtx.Status() {
	case servicectx.StatusSuspended:
		r.handleSuspend(ctx, svcCtx, channelID)
	case servicectx.StatusFinished, servicectx.StatusCancelled:
		r.deleteSnapshot(ctx, channelID)
	default:
		if ferr := svcCtx.Finish(ctx); ferr != nil {
			r.logger.WarnContext(ctx, "runner: finishing context after normal completion", "channelId", channelID, "error", ferr)
		}
		r.deleteSnapshot(ctx, channelID)
	}
}

// invoke calls handler, converting a panic into an error the same way an
// uncaught handler exception would be treated.
func (r *Runner) invoke(ctx context.Context, svcCtx *servicectx.Context, handler Handler) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("runner: handler panicked: %v", p)
		}
	}()
	return handler(ctx, svcCtx)
}

func (r *Runner) handleFailure(ctx context.Context, svcCtx *servicectx.Context, channelID string, err error) {
	svcCtx.ReturnError(errorName(err), err.Error(), nil)
	if svcCtx.Status() != servicectx.StatusFinished {
		if ferr := svcCtx.Finish(ctx); ferr != nil {
			r.logger.WarnContext(ctx, "runner: finishing context after handler failure", "channelId", channelID, "error", ferr)
		}
	}
	r.deleteSnapshot(ctx, channelID)
	svcCtx.EmitError(err)
}

func (r *Runner) handleSuspend(ctx context.Context, svcCtx *servicectx.Context, channelID string) {
	if r.store == nil {
		return
	}
	snap, err := svcCtx.Serialize()
	if err != nil {
		r.logger.ErrorContext(ctx, "runner: serializing suspended context", "channelId", channelID, "error", err)
		return
	}
	if err := r.store.Save(ctx, channelID, snap, r.ttl); err != nil {
		r.logger.ErrorContext(ctx, "runner: saving suspended snapshot", "channelId", channelID, "error", err)
	}
}

func (r *Runner) deleteSnapshot(ctx context.Context, channelID string) {
	if r.store == nil {
		return
	}
	if err := r.store.Delete(ctx, channelID); err != nil {
		r.logger.WarnContext(ctx, "runner: deleting snapshot", "channelId", channelID, "error", err)
	}
}
