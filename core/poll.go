package core

// Poll is the outcome of advancing a Future (or checking a Service's
// readiness) exactly once. A pending Poll carries no value.
type Poll[T any] struct {
	value T
	ready bool
}

// Ready returns a resolved Poll holding v.
func Ready[T any](v T) Poll[T] {
	return Poll[T]{value: v, ready: true}
}

// Pending returns a Poll signalling that no value is available yet.
func Pending[T any]() Poll[T] {
	return Poll[T]{}
}

// IsReady reports whether the poll resolved.
func (p Poll[T]) IsReady() bool { return p.ready }

// IsPending reports whether the poll is still pending.
func (p Poll[T]) IsPending() bool { return !p.ready }

// Value returns the resolved value, or the zero value while pending.
func (p Poll[T]) Value() T { return p.value }

// Unwrap returns the value and whether the poll resolved.
func (p Poll[T]) Unwrap() (T, bool) { return p.value, p.ready }

// Readiness is the result of Service.PollReady:
//
//	Ready(nil)  the service can accept a call
//	Ready(err)  the service failed and cannot accept calls
//	Pending     not yet; the waker of the polling Context will be woken
type Readiness = Poll[error]

// ServiceReady reports a service that can accept a call.
func ServiceReady() Readiness { return Ready[error](nil) }

// ServiceFailed reports a readiness failure.
func ServiceFailed(err error) Readiness { return Ready(err) }

// ServiceNotReady reports a service that cannot accept a call yet.
func ServiceNotReady() Readiness { return Pending[error]() }
