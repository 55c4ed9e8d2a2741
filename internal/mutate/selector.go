package mutate

import (
	"sync"

	"github.com/five82/stash/internal/store"
)

// Selector adds SubscribeSelect to the handle: listeners that only fire when
// a selected slice of the value changes.
func Selector[T any]() store.Mutator[T] {
	return func(inner store.API[T]) store.API[T] {
		return &Selecting[T]{API: inner}
	}
}

// Selecting is the handle returned by Selector.
type Selecting[T any] struct {
	store.API[T]
}

// SelectOption configures SubscribeSelect.
type SelectOption func(*selectConfig)

type selectConfig struct {
	equal           func(a, b any) bool
	fireImmediately bool
}

// WithEqual replaces the default comparison (store.Identical).
func WithEqual(equal func(a, b any) bool) SelectOption {
	return func(c *selectConfig) {
		if equal != nil {
			c.equal = equal
		}
	}
}

// EqualFunc is WithEqual for a typed comparison.
func EqualFunc[S any](equal func(a, b S) bool) SelectOption {
	return WithEqual(func(a, b any) bool {
		return equal(as[S](a), as[S](b))
	})
}

// FireImmediately calls the listener once at subscription with the current
// slice as both arguments.
func FireImmediately() SelectOption {
	return func(c *selectConfig) {
		c.fireImmediately = true
	}
}

// SubscribeSelect calls listener with (current, previous) selections when
// selector's result changes after a Set.
func (s *Selecting[T]) SubscribeSelect(selector func(T) any, listener func(cur, prev any), opts ...SelectOption) func() {
	cfg := selectConfig{equal: func(a, b any) bool { return store.Identical(a, b) }}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	var mu sync.Mutex
	current := selector(s.Get())
	if cfg.fireImmediately {
		listener(current, current)
	}
	return s.Subscribe(store.ListenerFunc[T](func(next, _ T) {
		selected := selector(next)
		mu.Lock()
		prev := current
		if cfg.equal(prev, selected) {
			mu.Unlock()
			return
		}
		current = selected
		mu.Unlock()
		listener(selected, prev)
	}))
}

// Unwrap returns the wrapped handle.
func (s *Selecting[T]) Unwrap() store.API[T] {
	return s.API
}

// SubscribeSelect is the typed form of Selecting.SubscribeSelect. It panics
// when api was built without the Selector mutator.
func SubscribeSelect[S, T any](api store.API[T], selector func(T) S, listener func(cur, prev S), opts ...SelectOption) func() {
	sel, ok := store.As[*Selecting[T]](api)
	if !ok {
		panic("mutate: SubscribeSelect requires the Selector mutator")
	}
	return sel.SubscribeSelect(
		func(v T) any { return selector(v) },
		func(cur, prev any) { listener(as[S](cur), as[S](prev)) },
		opts...,
	)
}

func as[S any](v any) S {
	s, _ := v.(S)
	return s
}
