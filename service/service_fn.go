package service

import (
	"context"

	"github.com/hupe1980/tinyservice/core"
)

// ServiceFunc adapts a plain function to core.Service. It holds no state and
// is always ready, so it is safe for concurrent use whenever fn is.
//
// The returned future is exactly the future produced by fn; no extra
// transformation is applied.
type ServiceFunc[Req, Resp any] func(req Req) core.Future[core.Result[Resp]]

// Func returns fn as a ServiceFunc. It exists to let the compiler infer the
// type parameters from fn.
func Func[Req, Resp any](fn func(req Req) core.Future[core.Result[Resp]]) ServiceFunc[Req, Resp] {
	return ServiceFunc[Req, Resp](fn)
}

// PollReady always reports ready.
func (f ServiceFunc[Req, Resp]) PollReady(_ *core.Context) core.Readiness {
	return core.ServiceReady()
}

// Call invokes the wrapped function.
func (f ServiceFunc[Req, Resp]) Call(req Req) core.Future[core.Result[Resp]] {
	return f(req)
}

// Sync wraps a synchronous function. The function runs inside Call and the
// returned future is ready on its first poll.
func Sync[Req, Resp any](fn func(req Req) (Resp, error)) ServiceFunc[Req, Resp] {
	return func(req Req) core.Future[core.Result[Resp]] {
		return core.Resolved(core.ResultOf(fn(req)))
	}
}

// Blocking wraps a function that may block. Each call runs fn on its own
// goroutine through core.Spawn; dropping the future cancels the context
// passed to fn.
func Blocking[Req, Resp any](ctx context.Context, fn func(ctx context.Context, req Req) (Resp, error)) ServiceFunc[Req, Resp] {
	return func(req Req) core.Future[core.Result[Resp]] {
		return core.SpawnResult(ctx, func(ctx context.Context) (Resp, error) {
			return fn(ctx, req)
		})
	}
}
