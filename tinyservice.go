// Package tinyservice provides a small routing façade over the core service
// abstractions. Most applications interact with this package by:
//  1. Creating a Router via New()
//  2. Registering services under route names, composed with package service
//     combinators and the middleware in package layer
//  3. Invoking routes by name (Invoke), which drives the call to completion
//     on an engine.Engine
//
// Services registered on one Router may have different concrete types; the
// router stores them type-erased as service.BoxService values.
package tinyservice

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/engine"
	"github.com/hupe1980/tinyservice/logging"
	"github.com/hupe1980/tinyservice/service"
)

var (
	// ErrRouteNotFound is returned when invoking a route that was never registered.
	ErrRouteNotFound = errors.New("route not found")

	// ErrRouteExists is returned when registering a name twice.
	ErrRouteExists = errors.New("route already registered")

	// ErrInvalidRoute is returned for an empty name or a nil service.
	ErrInvalidRoute = errors.New("invalid route")
)

// RouteError represents a failure attributed to a single route.
type RouteError struct {
	Route string `json:"route"` // Name of the route
	Op    string `json:"op"`    // Operation that failed (register, invoke)
	Err   error  `json:"-"`     // Underlying error
}

func (e *RouteError) Error() string {
	return fmt.Sprintf("route %q: %s: %v", e.Route, e.Op, e.Err)
}

// Unwrap returns the underlying error.
func (e *RouteError) Unwrap() error { return e.Err }

// Options configures the Router instance.
type Options struct {
	// Engine drives invocations. Defaults to a new engine sharing Logger.
	Engine *engine.Engine

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Router is a routing table of type-erased services keyed by name.
//
// A Router is safe for concurrent use. Each invocation drives its own handle
// of the route's service (see service.Handle), so readiness reserved by one
// invocation is never consumed by another. Layers still share their
// underlying capacity, such as a semaphore or token bucket, across handles.
type Router[Req, Resp any] struct {
	engine *engine.Engine
	logger logging.Logger

	mu     sync.RWMutex
	routes map[string]*service.BoxService[Req, Resp]
}

// New creates a new Router with optional overrides.
func New[Req, Resp any](optFns ...func(o *Options)) *Router[Req, Resp] {
	opts := Options{
		Logger: logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}

	if opts.Engine == nil {
		opts.Engine = engine.New(func(o *engine.Options) {
			o.Logger = opts.Logger
		})
	}

	return &Router[Req, Resp]{
		engine: opts.Engine,
		logger: opts.Logger,
		routes: make(map[string]*service.BoxService[Req, Resp]),
	}
}

// Register adds svc under name. The service is boxed; registering an already
// boxed service does not box it again.
func (r *Router[Req, Resp]) Register(name string, svc core.Service[Req, Resp]) error {
	if name == "" || svc == nil {
		return &RouteError{Route: name, Op: "register", Err: ErrInvalidRoute}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.routes[name]; ok {
		return &RouteError{Route: name, Op: "register", Err: ErrRouteExists}
	}

	r.routes[name] = service.Box(svc)
	r.logger.Debug("router.route.registered", "route", name, "service", r.routes[name].String())

	return nil
}

// MustRegister is Register that panics on error.
func (r *Router[Req, Resp]) MustRegister(name string, svc core.Service[Req, Resp]) {
	if err := r.Register(name, svc); err != nil {
		panic(err)
	}
}

// Get returns the service registered under name.
func (r *Router[Req, Resp]) Get(name string) (*service.BoxService[Req, Resp], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	svc, ok := r.routes[name]
	return svc, ok
}

// Names returns the registered route names in sorted order.
func (r *Router[Req, Resp]) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.routes))
	for name := range r.routes {
		names = append(names, name)
	}
	sort.Strings(names)

	return names
}

// Invoke waits for the route's service to become ready, calls it with req and
// drives the call to completion. Failures are wrapped in a *RouteError.
//
// The call runs on a fresh handle of the route's service; whatever the handle
// reserved and did not use, for example after ctx is cancelled while waiting
// for readiness, is released before Invoke returns.
func (r *Router[Req, Resp]) Invoke(ctx context.Context, name string, req Req) (Resp, error) {
	var zero Resp

	svc, ok := r.Get(name)
	if !ok {
		return zero, &RouteError{Route: name, Op: "invoke", Err: ErrRouteNotFound}
	}

	h := service.Handle[Req, Resp](svc)
	defer service.Release(h)

	resp, err := engine.Call[Req, Resp](ctx, r.engine, h, req)
	if err != nil {
		return zero, &RouteError{Route: name, Op: "invoke", Err: err}
	}

	return resp, nil
}

// Engine returns the engine driving invocations.
func (r *Router[Req, Resp]) Engine() *engine.Engine { return r.engine }
