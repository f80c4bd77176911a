package engine

import (
	"context"
	"time"
)

// CallbackType defines the lifecycle points of Call where callbacks run.
type CallbackType string

const (
	// CallbackBeforeCall is triggered before readiness is polled.
	CallbackBeforeCall CallbackType = "before_call"

	// CallbackAfterCall is triggered after a call resolved successfully.
	CallbackAfterCall CallbackType = "after_call"

	// CallbackOnError is triggered after a call resolved to a failure,
	// including readiness failures.
	CallbackOnError CallbackType = "on_error"

	// CallbackOnCancel is triggered when the invocation's context was
	// cancelled before the call resolved.
	CallbackOnCancel CallbackType = "on_cancel"
)

// CallbackContext describes the invocation a callback is run for.
type CallbackContext struct {
	Type         CallbackType
	InvocationID string
	Service      string

	// Duration and Err are set for every type except CallbackBeforeCall.
	Duration time.Duration
	Err      error
}

// Callback observes the lifecycle of engine calls. Callbacks run
// synchronously on the calling goroutine and must not block.
type Callback func(ctx context.Context, cb CallbackContext)

// OnType restricts fn to a single callback type.
func OnType(t CallbackType, fn Callback) Callback {
	return func(ctx context.Context, cb CallbackContext) {
		if cb.Type == t {
			fn(ctx, cb)
		}
	}
}

func (e *Engine) runCallbacks(ctx context.Context, cb CallbackContext) {
	for _, fn := range e.callbacks {
		fn(ctx, cb)
	}
}
