// Package trace logs every call through a service with a unique call ID and
// its duration.
package trace

import (
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/tinyservice/core"
	"github.com/hupe1980/tinyservice/logging"
	"github.com/hupe1980/tinyservice/service"
)

// Options configures the trace layer.
type Options struct {
	// Logger receives call records. Defaults to NoOpLogger.
	Logger logging.Logger

	// NewID generates call IDs. Defaults to uuid.NewString.
	NewID func() string
}

// Layer logs calls to the wrapped service under name.
func Layer[Req, Resp any](name string, optFns ...func(o *Options)) func(core.Service[Req, Resp]) core.Service[Req, Resp] {
	opts := Options{
		Logger: logging.NoOpLogger{},
		NewID:  uuid.NewString,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return func(inner core.Service[Req, Resp]) core.Service[Req, Resp] {
		return service.NewMapFuture(inner, func(fut core.Future[core.Result[Resp]]) core.Future[core.Result[Resp]] {
			id := opts.NewID()
			opts.Logger.Debug("service.call.started", "service", name, "call_id", id)
			return &tracedFuture[Resp]{inner: fut, logger: opts.Logger, name: name, id: id, start: time.Now()}
		})
	}
}

type tracedFuture[T any] struct {
	inner  core.Future[core.Result[T]]
	logger logging.Logger
	name   string
	id     string
	start  time.Time
	done   bool
}

func (f *tracedFuture[T]) Poll(cx *core.Context) core.Poll[core.Result[T]] {
	if f.done {
		if f.inner == nil {
			core.PanicPolledAfterDrop("trace.tracedFuture")
		}
		core.PanicPolledAfterCompletion("trace.tracedFuture")
	}

	p := f.inner.Poll(cx)
	if res, ok := p.Unwrap(); ok {
		f.done = true
		logging.LogCall(f.logger, f.name, f.id, time.Since(f.start), res.Err)
	}

	return p
}

func (f *tracedFuture[T]) Drop() {
	if f.done {
		return
	}
	f.done = true
	core.Drop(f.inner)
	f.inner = nil
	f.logger.Warn("service.call.canceled", "service", f.name, "call_id", f.id, "duration", time.Since(f.start))
}
