// Package limit bounds the number of concurrent in-flight calls to a service.
package limit

import (
	"sync"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/service"
)

// ConcurrencyLimit reserves a Semaphore permit in PollReady and holds it
// until the call future resolves or is dropped.
//
// A handle keeps at most one reserved permit, so one handle serves one driver
// at a time. Concurrent drivers each take their own handle via Handle (or
// service.Handle on a chain containing the limit), all sharing the same
// semaphore. A driver that gives up between PollReady and Call returns its
// permit with Release.
type ConcurrencyLimit[Req, Resp any] struct {
	inner core.Service[Req, Resp]
	sem   *Semaphore

	mu       sync.Mutex
	reserved bool
}

// New wraps inner with a limit backed by sem.
func New[Req, Resp any](inner core.Service[Req, Resp], sem *Semaphore) *ConcurrencyLimit[Req, Resp] {
	return &ConcurrencyLimit[Req, Resp]{inner: inner, sem: sem}
}

// Layer returns a wrapper suitable for service.Builder.Layer.
func Layer[Req, Resp any](sem *Semaphore) func(core.Service[Req, Resp]) core.Service[Req, Resp] {
	return func(inner core.Service[Req, Resp]) core.Service[Req, Resp] {
		return New(inner, sem)
	}
}

// Handle returns a new handle on the same semaphore, wrapping a handle of
// the inner service.
func (l *ConcurrencyLimit[Req, Resp]) Handle() core.Service[Req, Resp] {
	return New(service.Handle(l.inner), l.sem)
}

// Release returns a permit reserved by PollReady that no Call consumed.
func (l *ConcurrencyLimit[Req, Resp]) Release() {
	l.mu.Lock()
	reserved := l.reserved
	l.reserved = false
	l.mu.Unlock()

	if reserved {
		l.sem.Release()
	}
	service.Release(l.inner)
}

// PollReady acquires a permit, then forwards to the inner service. A permit
// stays reserved while the inner service is pending and is returned if the
// inner service fails.
func (l *ConcurrencyLimit[Req, Resp]) PollReady(cx *core.Context) core.Readiness {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.reserved {
		if !l.sem.TryAcquire(cx.Waker()) {
			return core.ServiceNotReady()
		}
		l.reserved = true
	}

	r := l.inner.PollReady(cx)
	if v, ok := r.Unwrap(); ok && v != nil {
		l.reserved = false
		l.sem.Release()
	}

	return r
}

// Call consumes the reserved permit. Without one the call resolves to
// Err(core.ErrNotReady) and the inner service is not invoked.
func (l *ConcurrencyLimit[Req, Resp]) Call(req Req) core.Future[core.Result[Resp]] {
	l.mu.Lock()
	reserved := l.reserved
	l.reserved = false
	l.mu.Unlock()

	if !reserved {
		return core.ErrFuture[Resp](core.ErrNotReady)
	}

	return &Future[Resp]{inner: l.inner.Call(req), sem: l.sem}
}

// Future holds a permit until the inner future resolves or is dropped.
type Future[T any] struct {
	inner core.Future[core.Result[T]]
	sem   *Semaphore
	done  bool
}

// Poll implements core.Future.
func (f *Future[T]) Poll(cx *core.Context) core.Poll[core.Result[T]] {
	if f.done {
		if f.inner == nil {
			core.PanicPolledAfterDrop("limit.Future")
		}
		core.PanicPolledAfterCompletion("limit.Future")
	}

	p := f.inner.Poll(cx)
	if p.IsReady() {
		f.done = true
		f.sem.Release()
	}

	return p
}

// Drop releases the permit and drops the inner future.
func (f *Future[T]) Drop() {
	if f.done {
		return
	}
	f.done = true
	core.Drop(f.inner)
	f.inner = nil
	f.sem.Release()
}

var (
	_ core.Service[int, int]        = (*ConcurrencyLimit[int, int])(nil)
	_ service.Handler[int, int]     = (*ConcurrencyLimit[int, int])(nil)
	_ core.Future[core.Result[int]] = (*Future[int])(nil)
	_ core.Dropper                  = (*Future[int])(nil)
)
