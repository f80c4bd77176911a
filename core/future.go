package core

// Future is a poll-driven computation producing exactly one value.
//
// Poll advances the computation. It returns Pending when no value is
// available yet, in which case the implementation must have arranged for
// cx.Waker() to be woken once progress is possible. It returns Ready exactly
// once; polling again afterwards is a usage error and panics.
type Future[T any] interface {
	Poll(cx *Context) Poll[T]
}

// Dropper is implemented by futures that hold resources or continuations
// which must be released when the future is abandoned before resolution.
// Drop is idempotent and a no-op on a completed future.
type Dropper interface {
	Drop()
}

// Drop cancels an in-flight future. Owned inner futures are dropped and any
// not yet invoked continuation is released without being called. Values that
// do not implement Dropper are left to the garbage collector.
func Drop(v any) {
	if d, ok := v.(Dropper); ok {
		d.Drop()
	}
}

// FutureFunc adapts a poll function to the Future interface. The function is
// responsible for its own single-use discipline.
type FutureFunc[T any] func(cx *Context) Poll[T]

// Poll calls f.
func (f FutureFunc[T]) Poll(cx *Context) Poll[T] { return f(cx) }

// ReadyFuture resolves to a fixed value on its first poll.
type ReadyFuture[T any] struct {
	value T
	state uint8
}

const (
	readyPending uint8 = iota
	readyTaken
	readyDropped
)

// Resolved returns a future that is ready with v on the first poll.
func Resolved[T any](v T) *ReadyFuture[T] {
	return &ReadyFuture[T]{value: v}
}

// Poll implements Future.
func (f *ReadyFuture[T]) Poll(_ *Context) Poll[T] {
	switch f.state {
	case readyTaken:
		PanicPolledAfterCompletion("ReadyFuture")
	case readyDropped:
		PanicPolledAfterDrop("ReadyFuture")
	}
	v := f.value
	var zero T
	f.value = zero
	f.state = readyTaken
	return Ready(v)
}

// Drop implements Dropper.
func (f *ReadyFuture[T]) Drop() {
	if f.state == readyPending {
		var zero T
		f.value = zero
		f.state = readyDropped
	}
}

// OkFuture returns a future resolving to Ok(v).
func OkFuture[T any](v T) *ReadyFuture[Result[T]] {
	return Resolved(Ok(v))
}

// ErrFuture returns a future resolving to Err(err).
func ErrFuture[T any](err error) *ReadyFuture[Result[T]] {
	return Resolved(Err[T](err))
}
