// Package ratelimit gates service readiness on a token bucket.
package ratelimit

import (
	"errors"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/service"
)

// ErrBurstExceeded is the readiness failure of a limiter whose burst cannot
// admit a single call, such as a burst of zero.
var ErrBurstExceeded = errors.New("rate limit burst cannot admit a single call")

// RateLimit reserves one token per call in PollReady. When the bucket is
// empty the reservation is kept, a timer wakes the task once the token is due
// and PollReady reports pending until then.
//
// Like limit.ConcurrencyLimit a handle reserves for a single driver at a
// time; concurrent drivers take their own handle via Handle. Release cancels
// a reservation no Call consumed and returns its token to the bucket where
// the limiter allows it.
type RateLimit[Req, Resp any] struct {
	inner   core.Service[Req, Resp]
	limiter *rate.Limiter
	now     func() time.Time

	mu      sync.Mutex
	pending *rate.Reservation // reserved, not yet due
	dueAt   time.Time
	timer   *time.Timer
	held    *rate.Reservation // due, waiting for Call
}

// Options configures a RateLimit.
type Options struct {
	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// New wraps inner with limiter. The limiter may be shared between handles.
func New[Req, Resp any](inner core.Service[Req, Resp], limiter *rate.Limiter, optFns ...func(o *Options)) *RateLimit[Req, Resp] {
	opts := Options{Now: time.Now}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &RateLimit[Req, Resp]{inner: inner, limiter: limiter, now: opts.Now}
}

// Layer returns a wrapper allowing r calls per second with bursts of burst.
func Layer[Req, Resp any](r rate.Limit, burst int) func(core.Service[Req, Resp]) core.Service[Req, Resp] {
	limiter := rate.NewLimiter(r, burst)
	return func(inner core.Service[Req, Resp]) core.Service[Req, Resp] {
		return New(inner, limiter)
	}
}

// Handle returns a new handle on the same limiter, wrapping a handle of the
// inner service.
func (l *RateLimit[Req, Resp]) Handle() core.Service[Req, Resp] {
	return &RateLimit[Req, Resp]{inner: service.Handle(l.inner), limiter: l.limiter, now: l.now}
}

// Release cancels any reservation of this handle that no Call consumed and
// stops its wake-up timer.
func (l *RateLimit[Req, Resp]) Release() {
	l.mu.Lock()
	now := l.now()
	if l.pending != nil {
		l.pending.CancelAt(now)
		l.pending = nil
	}
	if l.held != nil {
		l.held.CancelAt(now)
		l.held = nil
	}
	l.stopTimer()
	l.mu.Unlock()

	service.Release(l.inner)
}

// PollReady implements core.Service.
func (l *RateLimit[Req, Resp]) PollReady(cx *core.Context) core.Readiness {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.held == nil {
		ready, err := l.reserve(cx)
		if err != nil {
			return core.ServiceFailed(err)
		}
		if !ready {
			return core.ServiceNotReady()
		}
	}

	return l.inner.PollReady(cx)
}

// reserve must be called with l.mu held.
func (l *RateLimit[Req, Resp]) reserve(cx *core.Context) (bool, error) {
	now := l.now()

	if l.pending == nil {
		r := l.limiter.ReserveN(now, 1)
		if !r.OK() {
			return false, ErrBurstExceeded
		}
		l.pending = r
		l.dueAt = now.Add(r.DelayFrom(now))
	}

	if delay := l.dueAt.Sub(now); delay > 0 {
		l.stopTimer()
		l.timer = time.AfterFunc(delay, cx.Waker().Wake)
		return false, nil
	}

	l.held, l.pending = l.pending, nil
	l.stopTimer()

	return true, nil
}

// stopTimer must be called with l.mu held.
func (l *RateLimit[Req, Resp]) stopTimer() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
}

// Call consumes the reserved token. Without one the call resolves to
// Err(core.ErrNotReady) and the inner service is not invoked.
func (l *RateLimit[Req, Resp]) Call(req Req) core.Future[core.Result[Resp]] {
	l.mu.Lock()
	held := l.held
	l.held = nil
	l.mu.Unlock()

	if held == nil {
		return core.ErrFuture[Resp](core.ErrNotReady)
	}

	return l.inner.Call(req)
}

var (
	_ core.Service[int, int]    = (*RateLimit[int, int])(nil)
	_ service.Handler[int, int] = (*RateLimit[int, int])(nil)
)
