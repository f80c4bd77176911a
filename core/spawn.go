package core

import (
	"context"
	"sync"
)

// SpawnFuture is a leaf future backed by a goroutine. It bridges ordinary
// blocking Go code into the poll model: the goroutine runs fn, stores the
// result and wakes the last registered waker.
type SpawnFuture[T any] struct {
	mu       sync.Mutex
	value    T
	finished bool
	state    uint8
	waker    Waker
	cancel   context.CancelFunc
}

// Spawn starts fn on a new goroutine and returns a future resolving to its
// return value. The context passed to fn is cancelled when the future
// resolves or is dropped.
func Spawn[T any](ctx context.Context, fn func(ctx context.Context) T) *SpawnFuture[T] {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	f := &SpawnFuture[T]{cancel: cancel}
	go func() {
		v := fn(ctx)

		f.mu.Lock()
		f.value = v
		f.finished = true
		w := f.waker
		f.waker = nil
		f.mu.Unlock()

		if w != nil {
			w.Wake()
		}
	}()
	return f
}

// SpawnResult is Spawn for functions returning the usual (value, error) pair.
func SpawnResult[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *SpawnFuture[Result[T]] {
	return Spawn(ctx, func(ctx context.Context) Result[T] {
		return ResultOf(fn(ctx))
	})
}

// Poll implements Future.
func (f *SpawnFuture[T]) Poll(cx *Context) Poll[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.state {
	case readyTaken:
		PanicPolledAfterCompletion("SpawnFuture")
	case readyDropped:
		PanicPolledAfterDrop("SpawnFuture")
	}

	if !f.finished {
		f.waker = cx.Waker()
		return Pending[T]()
	}

	v := f.value
	var zero T
	f.value = zero
	f.state = readyTaken
	f.cancel()
	return Ready(v)
}

// Drop cancels the goroutine's context. A result produced afterwards is discarded.
func (f *SpawnFuture[T]) Drop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.state != readyPending {
		return
	}
	f.state = readyDropped
	f.waker = nil
	f.cancel()
}
