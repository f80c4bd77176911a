package service

import "github.com/hupe1980/tinyservice/core"

// MapResponse applies fn to successful responses of the inner service.
// Failures pass through unchanged and fn is not invoked for them.
type MapResponse[Req, Resp, Out any] struct {
	inner core.Service[Req, Resp]
	fn    func(Resp) Out
}

// NewMapResponse wraps inner with a response transform.
func NewMapResponse[Req, Resp, Out any](inner core.Service[Req, Resp], fn func(Resp) Out) *MapResponse[Req, Resp, Out] {
	return &MapResponse[Req, Resp, Out]{inner: inner, fn: fn}
}

// PollReady forwards to the inner service.
func (s *MapResponse[Req, Resp, Out]) PollReady(cx *core.Context) core.Readiness {
	return s.inner.PollReady(cx)
}

// Call starts the inner call and returns a MapResponseFuture around it.
func (s *MapResponse[Req, Resp, Out]) Call(req Req) core.Future[core.Result[Out]] {
	return &MapResponseFuture[Resp, Out]{inner: s.inner.Call(req), fn: s.fn}
}

// MapResponseFuture polls the inner future and maps a successful response.
type MapResponseFuture[Resp, Out any] struct {
	inner core.Future[core.Result[Resp]]
	fn    func(Resp) Out
	stage stage
}

// Poll implements core.Future.
func (f *MapResponseFuture[Resp, Out]) Poll(cx *core.Context) core.Poll[core.Result[Out]] {
	f.stage.guard("MapResponseFuture")

	res, ok := f.inner.Poll(cx).Unwrap()
	if !ok {
		return core.Pending[core.Result[Out]]()
	}

	fn := f.fn
	f.fn, f.inner, f.stage = nil, nil, stageDone

	if res.Err != nil {
		return core.Ready(core.Err[Out](res.Err))
	}
	return core.Ready(core.Ok(fn(res.Value)))
}

// Drop implements core.Dropper.
func (f *MapResponseFuture[Resp, Out]) Drop() {
	if !f.stage.live() {
		return
	}
	core.Drop(f.inner)
	f.fn, f.inner, f.stage = nil, nil, stageDropped
}
