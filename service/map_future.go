package service

import "github.com/hupe1980/tinyservice/core"

// MapFuture transforms the entire future produced by the inner service. It
// makes no assumption about what the wrapping future does with the result,
// which makes it the building block for instrumentation such as timing or
// logging (see packages layer/trace and layer/metrics).
type MapFuture[Req, Resp, Out any] struct {
	inner core.Service[Req, Resp]
	fn    func(core.Future[core.Result[Resp]]) core.Future[core.Result[Out]]
}

// NewMapFuture wraps inner so that Call(r) == fn(inner.Call(r)).
func NewMapFuture[Req, Resp, Out any](
	inner core.Service[Req, Resp],
	fn func(core.Future[core.Result[Resp]]) core.Future[core.Result[Out]],
) *MapFuture[Req, Resp, Out] {
	return &MapFuture[Req, Resp, Out]{inner: inner, fn: fn}
}

// PollReady forwards to the inner service.
func (s *MapFuture[Req, Resp, Out]) PollReady(cx *core.Context) core.Readiness {
	return s.inner.PollReady(cx)
}

// Call starts the inner call and hands its future to fn.
func (s *MapFuture[Req, Resp, Out]) Call(req Req) core.Future[core.Result[Out]] {
	return s.fn(s.inner.Call(req))
}
