package service

import "github.com/hupe1980/tinyservice/core"

// Ready returns a future resolving once svc reports readiness. It resolves to
// nil when the service is ready and to the readiness failure otherwise.
func Ready[Req, Resp any](svc core.Service[Req, Resp]) core.Future[error] {
	done := false
	return core.FutureFunc[error](func(cx *core.Context) core.Poll[error] {
		if done {
			core.PanicPolledAfterCompletion("service.Ready")
		}
		p := svc.PollReady(cx)
		if p.IsReady() {
			done = true
		}
		return p
	})
}

// Oneshot waits for svc to become ready and then calls it exactly once with
// req. A readiness failure resolves the future to Err without calling.
func Oneshot[Req, Resp any](svc core.Service[Req, Resp], req Req) *OneshotFuture[Req, Resp] {
	return &OneshotFuture[Req, Resp]{svc: svc, req: req}
}

// OneshotFuture is the state machine behind Oneshot:
//
//	stageFirst  polling readiness; request still owned
//	stageSecond polling the call future
type OneshotFuture[Req, Resp any] struct {
	svc   core.Service[Req, Resp]
	req   Req
	call  core.Future[core.Result[Resp]]
	stage stage
}

// Poll implements core.Future.
func (f *OneshotFuture[Req, Resp]) Poll(cx *core.Context) core.Poll[core.Result[Resp]] {
	for {
		switch f.stage {
		case stageFirst:
			err, ok := f.svc.PollReady(cx).Unwrap()
			if !ok {
				return core.Pending[core.Result[Resp]]()
			}
			if err != nil {
				f.release(stageDone)
				return core.Ready(core.Err[Resp](err))
			}
			svc, req := f.svc, f.req
			f.release(stageDone)
			f.call = svc.Call(req)
			f.stage = stageSecond
		case stageSecond:
			p := f.call.Poll(cx)
			if p.IsPending() {
				return p
			}
			f.call, f.stage = nil, stageDone
			return p
		default:
			f.stage.guard("OneshotFuture")
		}
	}
}

// Drop implements core.Dropper. A request that was never sent is released.
func (f *OneshotFuture[Req, Resp]) Drop() {
	switch f.stage {
	case stageFirst:
		f.release(stageDropped)
	case stageSecond:
		core.Drop(f.call)
		f.call, f.stage = nil, stageDropped
	}
}

func (f *OneshotFuture[Req, Resp]) release(s stage) {
	var zero Req
	f.svc, f.req, f.stage = nil, zero, s
}
