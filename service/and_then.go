package service

import "github.com/hupe1980/tinyservice/core"

// AndThen chains a continuation that runs only when the inner call succeeds.
// A failure short-circuits: it is propagated unchanged, the continuation is
// never invoked and no second stage is polled.
type AndThen[Req, Resp, Out any] struct {
	inner core.Service[Req, Resp]
	fn    func(Resp) core.Future[core.Result[Out]]
}

// NewAndThen wraps inner with a success-only continuation.
func NewAndThen[Req, Resp, Out any](
	inner core.Service[Req, Resp],
	fn func(Resp) core.Future[core.Result[Out]],
) *AndThen[Req, Resp, Out] {
	return &AndThen[Req, Resp, Out]{inner: inner, fn: fn}
}

// PollReady forwards to the inner service.
func (s *AndThen[Req, Resp, Out]) PollReady(cx *core.Context) core.Readiness {
	return s.inner.PollReady(cx)
}

// Call starts the inner call and returns an AndThenFuture around it.
func (s *AndThen[Req, Resp, Out]) Call(req Req) core.Future[core.Result[Out]] {
	return &AndThenFuture[Resp, Out]{first: s.inner.Call(req), fn: s.fn}
}

// AndThenFuture has the same stages as ThenFuture, with a direct transition
// from stageFirst to stageDone on failure.
type AndThenFuture[Resp, Out any] struct {
	first  core.Future[core.Result[Resp]]
	fn     func(Resp) core.Future[core.Result[Out]]
	second core.Future[core.Result[Out]]
	stage  stage
}

// Poll implements core.Future.
func (f *AndThenFuture[Resp, Out]) Poll(cx *core.Context) core.Poll[core.Result[Out]] {
	for {
		switch f.stage {
		case stageFirst:
			res, ok := f.first.Poll(cx).Unwrap()
			if !ok {
				return core.Pending[core.Result[Out]]()
			}

			fn := f.fn
			f.fn, f.first, f.stage = nil, nil, stageDone
			if res.Err != nil {
				return core.Ready(core.Err[Out](res.Err))
			}
			f.second = fn(res.Value)
			f.stage = stageSecond
		case stageSecond:
			p := f.second.Poll(cx)
			if p.IsPending() {
				return p
			}
			f.second, f.stage = nil, stageDone
			return p
		default:
			f.stage.guard("AndThenFuture")
		}
	}
}

// Drop implements core.Dropper.
func (f *AndThenFuture[Resp, Out]) Drop() {
	switch f.stage {
	case stageFirst:
		core.Drop(f.first)
	case stageSecond:
		core.Drop(f.second)
	default:
		return
	}
	f.first, f.fn, f.second, f.stage = nil, nil, nil, stageDropped
}
