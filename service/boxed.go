package service

import (
	"fmt"

	"github.com/hupe1980/tinyservice/core"
)

// BoxService hides the concrete type of a service behind one uniform type.
// Distinct combinator chains are distinct Go types; a heterogeneous
// collection such as a routing table keyed by name needs a single one.
//
// Boxing costs one allocation per boxed service and one BoxFuture per call.
type BoxService[Req, Resp any] struct {
	inner core.Service[Req, Resp]
	name  string
}

// Box erases the concrete type of svc. Boxing an already boxed service
// returns it unchanged.
func Box[Req, Resp any](svc core.Service[Req, Resp]) *BoxService[Req, Resp] {
	if b, ok := svc.(*BoxService[Req, Resp]); ok {
		return b
	}
	return &BoxService[Req, Resp]{inner: svc, name: fmt.Sprintf("%T", svc)}
}

// PollReady forwards to the boxed service.
func (s *BoxService[Req, Resp]) PollReady(cx *core.Context) core.Readiness {
	return s.inner.PollReady(cx)
}

// Call forwards to the boxed service and erases the produced future.
func (s *BoxService[Req, Resp]) Call(req Req) core.Future[core.Result[Resp]] {
	return s.CallBoxed(req)
}

// CallBoxed is Call with the concrete *BoxFuture return type.
func (s *BoxService[Req, Resp]) CallBoxed(req Req) *BoxFuture[core.Result[Resp]] {
	return BoxF(s.inner.Call(req))
}

// String returns the concrete type that was boxed, for logs and debugging.
func (s *BoxService[Req, Resp]) String() string {
	return "BoxService(" + s.name + ")"
}

// BoxFuture hides the concrete type of a future. Drop is forwarded, so
// dropping a BoxFuture cancels the boxed chain.
type BoxFuture[T any] struct {
	inner core.Future[T]
	stage stage
}

// BoxF erases the concrete type of fut. Boxing an already boxed future
// returns it unchanged.
func BoxF[T any](fut core.Future[T]) *BoxFuture[T] {
	if b, ok := fut.(*BoxFuture[T]); ok {
		return b
	}
	return &BoxFuture[T]{inner: fut}
}

// Poll implements core.Future.
func (f *BoxFuture[T]) Poll(cx *core.Context) core.Poll[T] {
	f.stage.guard("BoxFuture")

	p := f.inner.Poll(cx)
	if p.IsReady() {
		f.inner, f.stage = nil, stageDone
	}
	return p
}

// Drop implements core.Dropper.
func (f *BoxFuture[T]) Drop() {
	if !f.stage.live() {
		return
	}
	core.Drop(f.inner)
	f.inner, f.stage = nil, stageDropped
}
