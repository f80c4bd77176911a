package service

import "github.com/hupe1980/tinyservice/core"

// Then chains a continuation onto the inner service. The continuation receives
// the full result of the inner call, success or failure, and returns the
// future of the next asynchronous step. It can recover failures or turn a
// success into a different kind of step.
type Then[Req, Resp, Out any] struct {
	inner core.Service[Req, Resp]
	fn    func(core.Result[Resp]) core.Future[core.Result[Out]]
}

// NewThen wraps inner with a continuation invoked on every outcome.
func NewThen[Req, Resp, Out any](
	inner core.Service[Req, Resp],
	fn func(core.Result[Resp]) core.Future[core.Result[Out]],
) *Then[Req, Resp, Out] {
	return &Then[Req, Resp, Out]{inner: inner, fn: fn}
}

// PollReady forwards to the inner service.
func (s *Then[Req, Resp, Out]) PollReady(cx *core.Context) core.Readiness {
	return s.inner.PollReady(cx)
}

// Call starts the inner call and returns a ThenFuture around it.
func (s *Then[Req, Resp, Out]) Call(req Req) core.Future[core.Result[Out]] {
	return &ThenFuture[Resp, Out]{first: s.inner.Call(req), fn: s.fn}
}

// ThenFuture is a two-stage state machine:
//
//	stageFirst   polling the inner future; fn not yet invoked
//	stageSecond  polling the continuation's future; fn consumed
//	stageDone    resolved
//	stageDropped cancelled
type ThenFuture[Resp, Out any] struct {
	first  core.Future[core.Result[Resp]]
	fn     func(core.Result[Resp]) core.Future[core.Result[Out]]
	second core.Future[core.Result[Out]]
	stage  stage
}

// Poll implements core.Future.
func (f *ThenFuture[Resp, Out]) Poll(cx *core.Context) core.Poll[core.Result[Out]] {
	for {
		switch f.stage {
		case stageFirst:
			res, ok := f.first.Poll(cx).Unwrap()
			if !ok {
				return core.Pending[core.Result[Out]]()
			}

			fn := f.fn
			// Tombstone before invoking fn: a panicking continuation must
			// never be re-entered by a later poll.
			f.fn, f.first, f.stage = nil, nil, stageDone
			f.second = fn(res)
			f.stage = stageSecond
		case stageSecond:
			p := f.second.Poll(cx)
			if p.IsPending() {
				return p
			}
			f.second, f.stage = nil, stageDone
			return p
		default:
			f.stage.guard("ThenFuture")
		}
	}
}

// Drop implements core.Dropper.
func (f *ThenFuture[Resp, Out]) Drop() {
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
