package core

import "context"

// Waker is notified when a pending computation may be able to make progress.
// Implementations must be safe to call from any goroutine, any number of times.
type Waker interface {
	Wake()
}

// WakerFunc adapts a plain function to the Waker interface.
type WakerFunc func()

// Wake calls f.
func (f WakerFunc) Wake() { f() }

type noopWaker struct{}

func (noopWaker) Wake() {}

// NoopWaker discards wake-ups. Useful for tests that poll by hand.
var NoopWaker Waker = noopWaker{}

// Context is passed to every Poll and PollReady call. It carries the waker of
// the task currently being driven plus the request scoped context.Context
// that leaf futures may use for cancellation and deadlines.
type Context struct {
	ctx   context.Context
	waker Waker
}

// NewContext creates a poll Context. A nil ctx defaults to context.Background
// and a nil waker to NoopWaker.
func NewContext(ctx context.Context, waker Waker) *Context {
	if ctx == nil {
		ctx = context.Background()
	}
	if waker == nil {
		waker = NoopWaker
	}
	return &Context{ctx: ctx, waker: waker}
}

// Background returns a Context with a background context.Context and a no-op waker.
func Background() *Context {
	return NewContext(context.Background(), NoopWaker)
}

// Waker returns the waker of the task being polled. A future returning
// Pending must arrange for this waker to be woken once it can progress.
func (c *Context) Waker() Waker { return c.waker }

// Context returns the context.Context associated with the polling task.
func (c *Context) Context() context.Context { return c.ctx }

// WithWaker returns a copy of c using a different waker.
func (c *Context) WithWaker(w Waker) *Context {
	return NewContext(c.ctx, w)
}
