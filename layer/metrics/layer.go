package metrics

import (
	"time"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/service"
)

// Layer instruments a service under the given route label.
func Layer[Req, Resp any](c *Collector, route string) func(core.Service[Req, Resp]) core.Service[Req, Resp] {
	return func(inner core.Service[Req, Resp]) core.Service[Req, Resp] {
		return service.NewMapFuture(inner, func(fut core.Future[core.Result[Resp]]) core.Future[core.Result[Resp]] {
			c.started(route)
			return &timedFuture[Resp]{inner: fut, c: c, route: route, start: time.Now()}
		})
	}
}

type timedFuture[T any] struct {
	inner core.Future[core.Result[T]]
	c     *Collector
	route string
	start time.Time
	done  bool
}

func (f *timedFuture[T]) Poll(cx *core.Context) core.Poll[core.Result[T]] {
	if f.done {
		if f.inner == nil {
			core.PanicPolledAfterDrop("metrics.timedFuture")
		}
		core.PanicPolledAfterCompletion("metrics.timedFuture")
	}

	p := f.inner.Poll(cx)
	if res, ok := p.Unwrap(); ok {
		f.done = true
		outcome := OutcomeOK
		if res.IsErr() {
			outcome = OutcomeError
		}
		f.c.finished(f.route, outcome, time.Since(f.start).Seconds())
	}

	return p
}

func (f *timedFuture[T]) Drop() {
	if f.done {
		return
	}
	f.done = true
	core.Drop(f.inner)
	f.inner = nil
	f.c.finished(f.route, OutcomeCanceled, time.Since(f.start).Seconds())
}
