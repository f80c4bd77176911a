package service

import "github.com/hupe1980/tinyservice/core"

// Builder adds chainable combinator methods to any core.Service. It is itself
// a service that forwards to the wrapped one and adds no behaviour.
//
// Go methods cannot introduce type parameters, so every method keeps Req and
// Resp fixed. Compositions that change the request or response type use the
// package-level constructors (NewMapRequest, NewMapResponse, NewAndThen, ...)
// and can be wrapped with Ext again afterwards.
type Builder[Req, Resp any] struct {
	svc core.Service[Req, Resp]
}

// Ext starts a fluent composition from svc.
func Ext[Req, Resp any](svc core.Service[Req, Resp]) Builder[Req, Resp] {
	if b, ok := svc.(Builder[Req, Resp]); ok {
		return b
	}
	return Builder[Req, Resp]{svc: svc}
}

// PollReady forwards to the wrapped service.
func (b Builder[Req, Resp]) PollReady(cx *core.Context) core.Readiness {
	return b.svc.PollReady(cx)
}

// Call forwards to the wrapped service.
func (b Builder[Req, Resp]) Call(req Req) core.Future[core.Result[Resp]] {
	return b.svc.Call(req)
}

// Unwrap returns the composed service.
func (b Builder[Req, Resp]) Unwrap() core.Service[Req, Resp] { return b.svc }

// MapRequest composes NewMapRequest.
func (b Builder[Req, Resp]) MapRequest(fn func(Req) Req) Builder[Req, Resp] {
	return Builder[Req, Resp]{svc: NewMapRequest(b.svc, fn)}
}

// MapResponse composes NewMapResponse.
func (b Builder[Req, Resp]) MapResponse(fn func(Resp) Resp) Builder[Req, Resp] {
	return Builder[Req, Resp]{svc: NewMapResponse(b.svc, fn)}
}

// MapErr composes NewMapErr.
func (b Builder[Req, Resp]) MapErr(fn func(error) error) Builder[Req, Resp] {
	return Builder[Req, Resp]{svc: NewMapErr(b.svc, fn)}
}

// MapResult composes NewMapResult.
func (b Builder[Req, Resp]) MapResult(fn func(core.Result[Resp]) core.Result[Resp]) Builder[Req, Resp] {
	return Builder[Req, Resp]{svc: NewMapResult(b.svc, fn)}
}

// MapFuture composes NewMapFuture.
func (b Builder[Req, Resp]) MapFuture(fn func(core.Future[core.Result[Resp]]) core.Future[core.Result[Resp]]) Builder[Req, Resp] {
	return Builder[Req, Resp]{svc: NewMapFuture(b.svc, fn)}
}

// Then composes NewThen.
func (b Builder[Req, Resp]) Then(fn func(core.Result[Resp]) core.Future[core.Result[Resp]]) Builder[Req, Resp] {
	return Builder[Req, Resp]{svc: NewThen(b.svc, fn)}
}

// AndThen composes NewAndThen.
func (b Builder[Req, Resp]) AndThen(fn func(Resp) core.Future[core.Result[Resp]]) Builder[Req, Resp] {
	return Builder[Req, Resp]{svc: NewAndThen(b.svc, fn)}
}

// Layer applies an arbitrary service wrapper, such as the constructors in the
// layer packages, without leaving the chain.
func (b Builder[Req, Resp]) Layer(wrap func(core.Service[Req, Resp]) core.Service[Req, Resp]) Builder[Req, Resp] {
	return Builder[Req, Resp]{svc: wrap(b.svc)}
}

// Box erases the composed chain.
func (b Builder[Req, Resp]) Box() *BoxService[Req, Resp] {
	return Box(b.svc)
}
