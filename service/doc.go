// Package service implements the composition layer of tinyservice: a
// function adapter, combinators transforming the request, response and error
// channels of a core.Service, two-stage continuations, a fluent builder and a
// type-erasure wrapper for heterogeneous storage.
//
// Combinators:
//
//   - ServiceFunc / Sync / Blocking: plain functions as services
//   - MapRequest: transform the request before delegating
//   - MapResponse, MapErr, MapResult: transform a resolved result
//   - MapFuture: transform the whole future produced by the inner service
//   - Then: continue with the full result, success or failure
//   - AndThen: continue on success only, failures short-circuit
//   - BoxService / BoxFuture: uniform dynamic wrapper
//
// Every combinator forwards PollReady to its inner service unchanged and owns
// exactly one inner service plus one transformation. The futures it produces
// run their transformation at most once, strictly after the inner stage has
// resolved, and never after core.Drop.
//
// Example:
//
//	svc := service.Ext(service.Sync(func(n int) (int, error) { return n * 2, nil })).
//		MapResponse(func(n int) int { return n + 1 }).
//		Box()
//
//	v, err := engine.BlockOn(ctx, service.Oneshot[int, int](svc, 5)) // 11, nil
package service
