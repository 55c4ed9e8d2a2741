package mutate

import (
	"fmt"

	"github.com/five82/stash/internal/observe"
	"github.com/five82/stash/internal/store"
)

// Reducer adds Dispatch to the handle. Each action is applied through Set as
// an updater, so it merges like any other literal value. Place Reducer after
// Trace so dispatched changes are traced.
func Reducer[T, A any](reduce func(state T, action A) T) store.Mutator[T] {
	return func(inner store.API[T]) store.API[T] {
		return &Reduced[T, A]{API: inner, reduce: reduce}
	}
}

// Reduced is the handle returned by Reducer.
type Reduced[T, A any] struct {
	store.API[T]
	reduce func(T, A) T
}

// Dispatch applies action and returns it.
func (r *Reduced[T, A]) Dispatch(action A) A {
	if tr, ok := store.As[*Traced[T]](r.API); ok {
		tr.emit(observe.EventStoreDispatch, map[string]any{"action": describe(action)})
	}
	r.Set(store.Apply(func(current T) T {
		return r.reduce(current, action)
	}))
	return action
}

// Unwrap returns the wrapped handle.
func (r *Reduced[T, A]) Unwrap() store.API[T] {
	return r.API
}

// Dispatcher finds the Reducer in api's chain and returns its Dispatch.
func Dispatcher[A, T any](api store.API[T]) (func(A) A, bool) {
	r, ok := store.As[*Reduced[T, A]](api)
	if !ok {
		return nil, false
	}
	return r.Dispatch, true
}

func describe(action any) string {
	if s, ok := action.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%T", action)
}
