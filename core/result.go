package core

import "fmt"

// Result is the resolved value of a service call: either a response or an error.
// A Result with a non-nil Err is a failure regardless of Value.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok returns a successful Result.
func Ok[T any](v T) Result[T] { return Result[T]{Value: v} }

// Err returns a failed Result.
func Err[T any](err error) Result[T] { return Result[T]{Err: err} }

// ResultOf builds a Result from the usual Go (value, error) pair.
func ResultOf[T any](v T, err error) Result[T] {
	if err != nil {
		return Err[T](err)
	}
	return Ok(v)
}

// IsOk reports whether the result is a success.
func (r Result[T]) IsOk() bool { return r.Err == nil }

// IsErr reports whether the result is a failure.
func (r Result[T]) IsErr() bool { return r.Err != nil }

// Unpack returns the result as a (value, error) pair. The value is the zero
// value when the result is a failure.
func (r Result[T]) Unpack() (T, error) {
	if r.Err != nil {
		var zero T
		return zero, r.Err
	}
	return r.Value, nil
}

// String renders the result for logs and test failures.
func (r Result[T]) String() string {
	if r.Err != nil {
		return fmt.Sprintf("Err(%v)", r.Err)
	}
	return fmt.Sprintf("Ok(%v)", r.Value)
}
