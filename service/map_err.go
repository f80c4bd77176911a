package service

import "github.com/hupe1980/tinyservice/core"

// MapErr applies fn to call failures of the inner service. Successful
// responses pass through unchanged and fn is not invoked for them.
//
// A fn returning nil recovers the failure: the call resolves to Ok with the
// zero Resp.
type MapErr[Req, Resp any] struct {
	inner core.Service[Req, Resp]
	fn    func(error) error
}

// NewMapErr wraps inner with an error transform.
func NewMapErr[Req, Resp any](inner core.Service[Req, Resp], fn func(error) error) *MapErr[Req, Resp] {
	return &MapErr[Req, Resp]{inner: inner, fn: fn}
}

// PollReady forwards to the inner service. Readiness failures are not mapped.
func (s *MapErr[Req, Resp]) PollReady(cx *core.Context) core.Readiness {
	return s.inner.PollReady(cx)
}

// Call starts the inner call and returns a MapErrFuture around it.
func (s *MapErr[Req, Resp]) Call(req Req) core.Future[core.Result[Resp]] {
	return &MapErrFuture[Resp]{inner: s.inner.Call(req), fn: s.fn}
}

// MapErrFuture polls the inner future and maps a failure.
type MapErrFuture[Resp any] struct {
	inner core.Future[core.Result[Resp]]
	fn    func(error) error
	stage stage
}

// Poll implements core.Future.
func (f *MapErrFuture[Resp]) Poll(cx *core.Context) core.Poll[core.Result[Resp]] {
	f.stage.guard("MapErrFuture")

	res, ok := f.inner.Poll(cx).Unwrap()
	if !ok {
		return core.Pending[core.Result[Resp]]()
	}

	fn := f.fn
	f.fn, f.inner, f.stage = nil, nil, stageDone

	if res.Err == nil {
		return core.Ready(res)
	}
	if err := fn(res.Err); err != nil {
		return core.Ready(core.Err[Resp](err))
	}

	var zero Resp
	return core.Ready(core.Ok(zero))
}

// Drop implements core.Dropper.
func (f *MapErrFuture[Resp]) Drop() {
	if !f.stage.live() {
		return
	}
	core.Drop(f.inner)
	f.fn, f.inner, f.stage = nil, nil, stageDropped
}
