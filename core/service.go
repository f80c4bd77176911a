package core

// Service is an asynchronous unit of work from a request to a Result.
//
// A caller must observe a ready signal from PollReady before invoking Call.
// Most implementations, including every combinator in package service, do not
// enforce this at runtime: they forward PollReady to the wrapped service and
// trust the caller. Stateful services (rate limits, concurrency limits)
// reserve capacity in PollReady and resolve an unreserved Call to
// Err(ErrNotReady). Such a reservation belongs to the value it was made on,
// so concurrent drivers each take their own handle (service.Handle).
//
// Implementations SHOULD:
//   - Return Pending from PollReady only after arranging a wake-up through cx
//   - Produce a fresh Future per Call; futures are never shared between calls
//   - Leave concurrency safety of shared state to the concrete service
type Service[Req, Resp any] interface {
	// PollReady reports whether the service can accept a call right now.
	PollReady(cx *Context) Readiness

	// Call starts one unit of work. The returned future resolves to the
	// response or the call failure.
	Call(req Req) Future[Result[Resp]]
}
