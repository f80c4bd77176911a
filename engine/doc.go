// Package engine implements a minimal driver for tinyservice futures.
//
// The combinator layer never schedules anything itself: futures are advanced
// by whoever polls them. The Engine is the smallest useful poller. It polls a
// future, parks the calling goroutine until the future's waker fires, and
// polls again until the future resolves.
//
// # Responsibilities
//
//   - Run: drive any core.Future to completion on the calling goroutine
//   - Call: poll a service's readiness, call it once and drive the result
//   - Cancellation: context cancellation and Engine.Cancel drop the in-flight
//     future through core.Drop, so no downstream transformation runs
//   - Observability: uuid invocation IDs, structured logs and lifecycle
//     callbacks around every Call
//
// # Non-goals
//
// No worker pool, no fairness between tasks, no timers beyond those owned by
// leaf futures, no retry policy. Those are composed on top.
//
// Example:
//
//	e := engine.New(func(o *engine.Options) {
//	    o.Logger = logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	})
//	resp, err := engine.Call(ctx, e, svc, req)
package engine
