package service

import "github.com/hupe1980/tinyservice/core"

// Handler is implemented by services holding per-driver state, typically a
// capacity reservation made in PollReady and consumed by the following Call.
//
// Handle returns an independent handle sharing the underlying resources
// (semaphores, token buckets) but none of the reservations. Release gives
// back whatever the handle reserved and no Call consumed; it is a no-op on a
// handle without a pending reservation.
//
// Every combinator in this package implements Handler by forwarding to its
// inner service, so a handle of a composed chain is a fresh chain.
type Handler[Req, Resp any] interface {
	Handle() core.Service[Req, Resp]
	Release()
}

// Handle returns a handle of svc for a single driver. A service that does not
// implement Handler holds no per-driver state and is returned unchanged.
func Handle[Req, Resp any](svc core.Service[Req, Resp]) core.Service[Req, Resp] {
	if h, ok := svc.(Handler[Req, Resp]); ok {
		return h.Handle()
	}
	return svc
}

// Release calls Release on v when it implements it.
func Release(v any) {
	if r, ok := v.(interface{ Release() }); ok {
		r.Release()
	}
}

// Handle implements Handler.
func (s *MapRequest[Req, Inner, Resp]) Handle() core.Service[Req, Resp] {
	return &MapRequest[Req, Inner, Resp]{inner: Handle(s.inner), fn: s.fn}
}

// Release implements Handler.
func (s *MapRequest[Req, Inner, Resp]) Release() { Release(s.inner) }

// Handle implements Handler.
func (s *MapResponse[Req, Resp, Out]) Handle() core.Service[Req, Out] {
	return &MapResponse[Req, Resp, Out]{inner: Handle(s.inner), fn: s.fn}
}

// Release implements Handler.
func (s *MapResponse[Req, Resp, Out]) Release() { Release(s.inner) }

// Handle implements Handler.
func (s *MapErr[Req, Resp]) Handle() core.Service[Req, Resp] {
	return &MapErr[Req, Resp]{inner: Handle(s.inner), fn: s.fn}
}

// Release implements Handler.
func (s *MapErr[Req, Resp]) Release() { Release(s.inner) }

// Handle implements Handler.
func (s *MapResult[Req, Resp, Out]) Handle() core.Service[Req, Out] {
	return &MapResult[Req, Resp, Out]{inner: Handle(s.inner), fn: s.fn}
}

// Release implements Handler.
func (s *MapResult[Req, Resp, Out]) Release() { Release(s.inner) }

// Handle implements Handler.
func (s *MapFuture[Req, Resp, Out]) Handle() core.Service[Req, Out] {
	return &MapFuture[Req, Resp, Out]{inner: Handle(s.inner), fn: s.fn}
}

// Release implements Handler.
func (s *MapFuture[Req, Resp, Out]) Release() { Release(s.inner) }

// Handle implements Handler.
func (s *Then[Req, Resp, Out]) Handle() core.Service[Req, Out] {
	return &Then[Req, Resp, Out]{inner: Handle(s.inner), fn: s.fn}
}

// Release implements Handler.
func (s *Then[Req, Resp, Out]) Release() { Release(s.inner) }

// Handle implements Handler.
func (s *AndThen[Req, Resp, Out]) Handle() core.Service[Req, Out] {
	return &AndThen[Req, Resp, Out]{inner: Handle(s.inner), fn: s.fn}
}

// Release implements Handler.
func (s *AndThen[Req, Resp, Out]) Release() { Release(s.inner) }

// Handle implements Handler.
func (b Builder[Req, Resp]) Handle() core.Service[Req, Resp] {
	return Builder[Req, Resp]{svc: Handle(b.svc)}
}

// Release implements Handler.
func (b Builder[Req, Resp]) Release() { Release(b.svc) }

// Handle implements Handler. The handle is itself a *BoxService.
func (s *BoxService[Req, Resp]) Handle() core.Service[Req, Resp] {
	return &BoxService[Req, Resp]{inner: Handle(s.inner), name: s.name}
}

// Release implements Handler.
func (s *BoxService[Req, Resp]) Release() { Release(s.inner) }

var (
	_ Handler[int, string] = (*MapRequest[int, string, string])(nil)
	_ Handler[int, string] = (*MapResponse[int, int, string])(nil)
	_ Handler[int, int]    = (*MapErr[int, int])(nil)
	_ Handler[int, string] = (*MapResult[int, int, string])(nil)
	_ Handler[int, string] = (*MapFuture[int, int, string])(nil)
	_ Handler[int, string] = (*Then[int, int, string])(nil)
	_ Handler[int, string] = (*AndThen[int, int, string])(nil)
	_ Handler[int, int]    = Builder[int, int]{}
	_ Handler[int, int]    = (*BoxService[int, int])(nil)
)
