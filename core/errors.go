package core

import (
	"errors"
	"fmt"
)

var (
	// ErrPolledAfterCompletion signals that a future was polled again after it
	// had already returned a ready value. Futures panic with an error wrapping it.
	ErrPolledAfterCompletion = errors.New("future polled after completion")

	// ErrPolledAfterDrop signals that a future was polled after being cancelled.
	ErrPolledAfterDrop = errors.New("future polled after drop")

	// ErrNotReady is the failure a stateful service resolves a call to when
	// it was invoked without a preceding ready signal from PollReady.
	ErrNotReady = errors.New("service called before it reported ready")
)

// PanicPolledAfterCompletion panics with an error naming the offending future.
func PanicPolledAfterCompletion(future string) {
	panic(fmt.Errorf("%w: %s", ErrPolledAfterCompletion, future))
}

// PanicPolledAfterDrop panics with an error naming the offending future.
func PanicPolledAfterDrop(future string) {
	panic(fmt.Errorf("%w: %s", ErrPolledAfterDrop, future))
}
