package service

import "github.com/hupe1980/tinyservice/core"

// MapRequest transforms each request before handing it to the inner service.
// The transform runs synchronously inside Call, so the inner future is
// returned without any wrapping.
type MapRequest[Req, Inner, Resp any] struct {
	inner core.Service[Inner, Resp]
	fn    func(Req) Inner
}

// NewMapRequest wraps inner so that Call(r) == inner.Call(fn(r)).
func NewMapRequest[Req, Inner, Resp any](inner core.Service[Inner, Resp], fn func(Req) Inner) *MapRequest[Req, Inner, Resp] {
	return &MapRequest[Req, Inner, Resp]{inner: inner, fn: fn}
}

// PollReady forwards to the inner service.
func (s *MapRequest[Req, Inner, Resp]) PollReady(cx *core.Context) core.Readiness {
	return s.inner.PollReady(cx)
}

// Call maps the request and delegates.
func (s *MapRequest[Req, Inner, Resp]) Call(req Req) core.Future[core.Result[Resp]] {
	return s.inner.Call(s.fn(req))
}
