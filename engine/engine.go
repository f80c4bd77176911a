package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/logging"
	"github.com/hupe1980/tinyservice/service"
)

var (
	// ErrMaxPollsExceeded is returned when a future did not resolve within
	// Config.MaxPolls polls.
	ErrMaxPollsExceeded = errors.New("future exceeded max polls")

	// ErrCancelled is returned when an invocation was cancelled with Engine.Cancel.
	ErrCancelled = errors.New("invocation cancelled")
)

// Config defines tuning parameters for the Engine's operational behavior.
type Config struct {
	// MaxPolls bounds the number of polls per invocation. A future that keeps
	// waking itself without resolving is dropped once the bound is hit.
	// Set to 0 for unlimited.
	MaxPolls int
}

// DefaultConfig provides default configuration values.
var DefaultConfig = Config{
	MaxPolls: 0,
}

// Options configures an Engine instance using the functional options pattern.
//
// Example:
//
//	e := New(func(o *Options) {
//	    o.Config.MaxPolls = 1000
//	    o.Logger = myLogger
//	})
type Options struct {
	// Config contains operational parameters for the engine behavior.
	Config Config

	// Logger provides structured logging. Defaults to NoOpLogger.
	Logger logging.Logger

	// Callbacks are invoked around each Call, in registration order.
	Callbacks []Callback
}

// Engine drives futures to completion and tracks in-flight invocations so
// they can be cancelled by ID.
//
// Concurrency Model:
//   - Each Run/Call drives one future on the calling goroutine
//   - Invocation tracking is protected by a mutex; an Engine is safe for
//     concurrent use by multiple goroutines
type Engine struct {
	config    Config
	logger    logging.Logger
	callbacks []Callback

	// Active invocation tracking
	activeInvocations map[string]context.CancelCauseFunc
	invocationsMu     sync.Mutex
}

// New creates a new Engine with optional configuration.
func New(optFns ...func(o *Options)) *Engine {
	opts := Options{
		Config: DefaultConfig,
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	return &Engine{
		config:            opts.Config,
		logger:            opts.Logger,
		callbacks:         opts.Callbacks,
		activeInvocations: make(map[string]context.CancelCauseFunc),
	}
}

var defaultEngine = New()

// Default returns the shared engine used by BlockOn.
func Default() *Engine { return defaultEngine }

// Cancel stops the invocation with the given ID. It reports whether the
// invocation was still running.
func (e *Engine) Cancel(invocationID string) bool {
	e.invocationsMu.Lock()
	cancel, ok := e.activeInvocations[invocationID]
	e.invocationsMu.Unlock()

	if ok {
		cancel(ErrCancelled)
	}
	return ok
}

// Active returns the IDs of invocations currently being driven.
func (e *Engine) Active() []string {
	e.invocationsMu.Lock()
	defer e.invocationsMu.Unlock()

	ids := make([]string, 0, len(e.activeInvocations))
	for id := range e.activeInvocations {
		ids = append(ids, id)
	}
	return ids
}

func (e *Engine) track(ctx context.Context) (string, context.Context, func()) {
	id := uuid.NewString()
	ctx, cancel := context.WithCancelCause(ctx)

	e.invocationsMu.Lock()
	e.activeInvocations[id] = cancel
	e.invocationsMu.Unlock()

	return id, ctx, func() {
		e.invocationsMu.Lock()
		delete(e.activeInvocations, id)
		e.invocationsMu.Unlock()
		cancel(nil)
	}
}

// Run drives fut to completion on the calling goroutine. If ctx is cancelled
// first, fut is dropped and the context's cause is returned.
func Run[T any](ctx context.Context, e *Engine, fut core.Future[T]) (T, error) {
	id, ctx, done := e.track(ctx)
	defer done()

	return drive(ctx, e, id, fut)
}

// BlockOn drives fut with the default engine.
func BlockOn[T any](ctx context.Context, fut core.Future[T]) (T, error) {
	return Run(ctx, defaultEngine, fut)
}

func drive[T any](ctx context.Context, e *Engine, id string, fut core.Future[T]) (T, error) {
	var zero T

	wake := make(chan struct{}, 1)
	cx := core.NewContext(ctx, core.WakerFunc(func() {
		select {
		case wake <- struct{}{}:
		default:
		}
	}))

	for polls := 1; ; polls++ {
		if v, ok := fut.Poll(cx).Unwrap(); ok {
			return v, nil
		}

		if e.config.MaxPolls > 0 && polls >= e.config.MaxPolls {
			core.Drop(fut)
			e.logger.Warn("engine.poll.limit", "invocation_id", id, "polls", polls)
			return zero, fmt.Errorf("%w: %d", ErrMaxPollsExceeded, polls)
		}

		select {
		case <-wake:
		case <-ctx.Done():
			core.Drop(fut)
			return zero, context.Cause(ctx)
		}
	}
}

// Call waits for svc to become ready, calls it once with req and drives the
// resulting future. A readiness failure is returned as the call's error.
func Call[Req, Resp any](ctx context.Context, e *Engine, svc core.Service[Req, Resp], req Req) (Resp, error) {
	id, ctx, done := e.track(ctx)
	defer done()

	name := fmt.Sprintf("%T", svc)
	if s, ok := svc.(fmt.Stringer); ok {
		name = s.String()
	}

	start := time.Now()
	e.logger.Debug("engine.call.start", "invocation_id", id, "service", name)
	e.runCallbacks(ctx, CallbackContext{Type: CallbackBeforeCall, InvocationID: id, Service: name})

	res, err := drive[core.Result[Resp]](ctx, e, id, service.Oneshot(svc, req))
	if err == nil {
		err = res.Err
	}

	cbCtx := CallbackContext{InvocationID: id, Service: name, Duration: time.Since(start), Err: err}
	switch {
	case err == nil:
		cbCtx.Type = CallbackAfterCall
		e.logger.Debug("engine.call.done", "invocation_id", id, "service", name, "duration_ms", cbCtx.Duration.Milliseconds())
	case ctx.Err() != nil:
		cbCtx.Type = CallbackOnCancel
		e.logger.Warn("engine.call.cancelled", "invocation_id", id, "service", name, "error", err.Error())
	default:
		cbCtx.Type = CallbackOnError
		e.logger.Error("engine.call.error", "invocation_id", id, "service", name, "error", err.Error())
	}
	e.runCallbacks(ctx, cbCtx)

	if err != nil {
		var zero Resp
		return zero, err
	}

	return res.Value, nil
}
