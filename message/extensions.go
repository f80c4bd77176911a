package message

import "reflect"

// Extensions is a type-keyed bag for request scoped data (request IDs,
// authenticated principals, timing marks). At most one value per type is stored.
type Extensions struct {
	m map[reflect.Type]any
}

func keyOf[T any]() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Insert stores v, replacing and returning any previous value of type T.
func Insert[T any](e *Extensions, v T) (prev T, replaced bool) {
	if e.m == nil {
		e.m = make(map[reflect.Type]any)
	}
	k := keyOf[T]()
	if old, ok := e.m[k]; ok {
		prev, replaced = old.(T), true
	}
	e.m[k] = v
	return prev, replaced
}

// Get returns the value of type T, if present.
func Get[T any](e *Extensions) (T, bool) {
	v, ok := e.m[keyOf[T]()]
	if !ok {
		var zero T
		return zero, false
	}
	return v.(T), true
}

// Remove deletes and returns the value of type T, if present.
func Remove[T any](e *Extensions) (T, bool) {
	v, ok := Get[T](e)
	if ok {
		delete(e.m, keyOf[T]())
	}
	return v, ok
}

// Len returns the number of stored values.
func (e *Extensions) Len() int { return len(e.m) }

// Clear removes all values.
func (e *Extensions) Clear() { e.m = nil }

// Clone returns a shallow copy.
func (e *Extensions) Clone() Extensions {
	if e.m == nil {
		return Extensions{}
	}
	m := make(map[reflect.Type]any, len(e.m))
	for k, v := range e.m {
		m[k] = v
	}
	return Extensions{m: m}
}
