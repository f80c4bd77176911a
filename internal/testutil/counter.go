package testutil

import "sync/atomic"

// Counter counts invocations of transformation functions so tests can assert
// that a closure ran exactly once, or never.
type Counter struct {
	n atomic.Int64
}

// Inc increments the counter.
func (c *Counter) Inc() { c.n.Add(1) }

// Count returns the current value.
func (c *Counter) Count() int { return int(c.n.Load()) }

// Wrap returns fn instrumented to bump the counter on each call.
func Wrap[A, B any](c *Counter, fn func(A) B) func(A) B {
	return func(a A) B {
		c.Inc()
		return fn(a)
	}
}

// CountingWaker records wake-ups.
type CountingWaker struct {
	n atomic.Int64
}

// Wake implements core.Waker.
func (w *CountingWaker) Wake() { w.n.Add(1) }

// Wakes returns the number of wake-ups so far.
func (w *CountingWaker) Wakes() int { return int(w.n.Load()) }
