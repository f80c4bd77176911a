package testutil

import (
	"sync"

	"github.com/hupe1980/tinyservice/core"
)

// ManualFuture stays pending until Complete is called. It records how often
// it was polled and whether it was dropped, and wakes the last registered
// waker on completion.
//
// Example:
//
//	fut := NewManualFuture[core.Result[int]]()
//	p := fut.Poll(cx) // pending
//	fut.Complete(core.Ok(1))
//	p = fut.Poll(cx) // ready
type ManualFuture[T any] struct {
	mu       sync.Mutex
	value    T
	complete bool
	taken    bool
	dropped  bool
	polls    int
	waker    core.Waker
}

// NewManualFuture creates a pending future.
func NewManualFuture[T any]() *ManualFuture[T] { return &ManualFuture[T]{} }

// Complete resolves the future with v and wakes the registered waker.
func (f *ManualFuture[T]) Complete(v T) {
	f.mu.Lock()
	f.value = v
	f.complete = true
	w := f.waker
	f.waker = nil
	f.mu.Unlock()

	if w != nil {
		w.Wake()
	}
}

// Poll implements core.Future.
func (f *ManualFuture[T]) Poll(cx *core.Context) core.Poll[T] {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.taken {
		core.PanicPolledAfterCompletion("ManualFuture")
	}
	if f.dropped {
		core.PanicPolledAfterDrop("ManualFuture")
	}
	f.polls++
	if !f.complete {
		f.waker = cx.Waker()
		return core.Pending[T]()
	}
	f.taken = true
	return core.Ready(f.value)
}

// Drop implements core.Dropper.
func (f *ManualFuture[T]) Drop() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropped = true
	f.waker = nil
}

// Polls returns the number of Poll calls so far.
func (f *ManualFuture[T]) Polls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.polls
}

// Dropped reports whether Drop was called.
func (f *ManualFuture[T]) Dropped() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.dropped
}

// PollOnce polls fut with a background context and a no-op waker.
func PollOnce[T any](fut core.Future[T]) core.Poll[T] {
	return fut.Poll(core.Background())
}

// PollUntilReady polls fut up to max times and returns the value of the first
// ready poll. ok is false when fut stayed pending.
func PollUntilReady[T any](fut core.Future[T], max int) (v T, ok bool) {
	cx := core.Background()
	for i := 0; i < max; i++ {
		if v, ok = fut.Poll(cx).Unwrap(); ok {
			return v, true
		}
	}
	return v, false
}
