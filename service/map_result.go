package service

import "github.com/hupe1980/tinyservice/core"

// MapResult applies fn to the whole resolved result, success or failure. It
// is the combinator to reach for when response and error need a joint
// transformation, for example recovering selected failures into responses.
type MapResult[Req, Resp, Out any] struct {
	inner core.Service[Req, Resp]
	fn    func(core.Result[Resp]) core.Result[Out]
}

// NewMapResult wraps inner with a result transform.
func NewMapResult[Req, Resp, Out any](inner core.Service[Req, Resp], fn func(core.Result[Resp]) core.Result[Out]) *MapResult[Req, Resp, Out] {
	return &MapResult[Req, Resp, Out]{inner: inner, fn: fn}
}

// PollReady forwards to the inner service.
func (s *MapResult[Req, Resp, Out]) PollReady(cx *core.Context) core.Readiness {
	return s.inner.PollReady(cx)
}

// Call starts the inner call and returns a MapResultFuture around it.
func (s *MapResult[Req, Resp, Out]) Call(req Req) core.Future[core.Result[Out]] {
	return &MapResultFuture[Resp, Out]{inner: s.inner.Call(req), fn: s.fn}
}

// MapResultFuture polls the inner future and maps its result.
type MapResultFuture[Resp, Out any] struct {
	inner core.Future[core.Result[Resp]]
	fn    func(core.Result[Resp]) core.Result[Out]
	stage stage
}

// Poll implements core.Future.
func (f *MapResultFuture[Resp, Out]) Poll(cx *core.Context) core.Poll[core.Result[Out]] {
	f.stage.guard("MapResultFuture")

	res, ok := f.inner.Poll(cx).Unwrap()
	if !ok {
		return core.Pending[core.Result[Out]]()
	}

	fn := f.fn
	f.fn, f.inner, f.stage = nil, nil, stageDone

	return core.Ready(fn(res))
}

// Drop implements core.Dropper.
func (f *MapResultFuture[Resp, Out]) Drop() {
	if !f.stage.live() {
		return
	}
	core.Drop(f.inner)
	f.fn, f.inner, f.stage = nil, nil, stageDropped
}
