package store

import (
	"reflect"
	"sync"
	"sync/atomic"
)

// API is the handle callers and mutators work with.
type API[T any] interface {
	// Set resolves u against the current value, commits the result and
	// notifies listeners. Identical literal values are ignored.
	Set(u Update[T], opts ...SetOption)
	// Get returns the latest committed value.
	Get() T
	// GetInitial returns the value the creator produced.
	GetInitial() T
	// Subscribe registers l and returns a func that removes it. The returned
	// func is safe to call more than once.
	Subscribe(l Listener[T]) (unsubscribe func())
}

// SetFunc is the Set operation handed to a Creator.
type SetFunc[T any] func(u Update[T], opts ...SetOption)

// GetFunc is the Get operation handed to a Creator.
type GetFunc[T any] func() T

// Creator builds the initial value. It receives the outermost handle's
// operations, so values it captures (action closures, for example) go
// through every installed mutator.
type Creator[T any] func(set SetFunc[T], get GetFunc[T], api API[T]) T

// Mutator wraps a handle. It may add methods or reinterpret Set, but must
// route every state change through the handle it was given.
type Mutator[T any] func(API[T]) API[T]

// Initial returns a Creator that ignores its arguments and returns v.
func Initial[T any](v T) Creator[T] {
	return func(SetFunc[T], GetFunc[T], API[T]) T { return v }
}

// New builds a container, applies mutators in order (the first wraps the raw
// container, the last is outermost), runs create once and returns the
// outermost handle. A panic in a mutator or in create propagates and no
// handle is returned.
func New[T any](create Creator[T], mutators ...Mutator[T]) API[T] {
	if create == nil {
		panic("store: nil creator")
	}

	raw := &Store[T]{}
	var api API[T] = raw
	for _, mutate := range mutators {
		if mutate != nil {
			api = mutate(api)
		}
	}

	initial := create(api.Set, api.Get, api)

	raw.mu.Lock()
	raw.state.Store(&initial)
	raw.initial.Store(&initial)
	raw.mu.Unlock()
	return api
}

// Store is the raw container. Build one with New; the zero value holds the
// zero T and has no initial value.
type Store[T any] struct {
	mu         sync.Mutex // guards commits, queue and delivering
	state      atomic.Pointer[T]
	initial    atomic.Pointer[T]
	listeners  listenerSet[T]
	queue      []notification[T]
	delivering bool
}

type notification[T any] struct {
	next, prev T
}

// Get returns the latest committed value. It never blocks.
func (s *Store[T]) Get() T {
	if p := s.state.Load(); p != nil {
		return *p
	}
	var zero T
	return zero
}

// GetInitial returns the value produced by the creator.
func (s *Store[T]) GetInitial() T {
	if p := s.initial.Load(); p != nil {
		return *p
	}
	var zero T
	return zero
}

// Subscribe registers l. Pointer listeners are deduplicated by address.
func (s *Store[T]) Subscribe(l Listener[T]) func() {
	if l == nil {
		return func() {}
	}
	key := s.listeners.add(l)
	var once sync.Once
	return func() {
		once.Do(func() { s.listeners.remove(key) })
	}
}

// Listeners reports how many listeners are registered.
func (s *Store[T]) Listeners() int {
	return len(s.listeners.current())
}

// Set commits u and delivers notifications. Notifications are delivered in
// commit order by whichever caller finds the queue idle; a Set issued from a
// listener commits at once and is delivered after the running pass.
//
// A panicking listener stops the rest of its pass; queued passes are still
// delivered before the first panic is re-raised here.
//
// A caller that commits while another goroutine is delivering returns before
// its own listeners have run. That other caller delivers the notification
// and receives any panic it raises.
func (s *Store[T]) Set(u Update[T], opts ...SetOption) {
	if s.commit(u, newSetConfig(opts)) {
		s.drain()
	}
}

// commit applies u under the lock and reports whether the caller became the
// deliverer.
func (s *Store[T]) commit(u Update[T], cfg setConfig) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	prev := s.Get()
	resolved := u.resolve(prev)
	if resolved.kind == kindValue && Identical(resolved.value, prev) {
		return false
	}

	replace := cfg.replace
	if !cfg.hasReplace {
		replace = resolved.kind == kindValue && !isComposite(reflect.ValueOf(&resolved.value).Elem())
	}
	next := nextValue(prev, resolved, replace)
	s.state.Store(&next)

	s.queue = append(s.queue, notification[T]{next: next, prev: prev})
	if s.delivering {
		return false
	}
	s.delivering = true
	return true
}

func (s *Store[T]) drain() {
	finished := false
	defer func() {
		// runtime.Goexit from a listener skips the normal exit below.
		if !finished {
			s.mu.Lock()
			s.delivering = false
			s.mu.Unlock()
		}
	}()

	var (
		failure any
		failed  bool
	)
	for {
		s.mu.Lock()
		if len(s.queue) == 0 {
			s.queue = nil
			s.delivering = false
			s.mu.Unlock()
			break
		}
		n := s.queue[0]
		s.queue[0] = notification[T]{}
		s.queue = s.queue[1:]
		s.mu.Unlock()

		if r, ok := s.deliver(n); ok && !failed {
			failure, failed = r, true
		}
	}
	finished = true

	if failed {
		panic(failure)
	}
}

func (s *Store[T]) deliver(n notification[T]) (recovered any, panicked bool) {
	defer func() {
		if r := recover(); r != nil {
			recovered, panicked = r, true
		}
	}()
	for _, l := range s.listeners.current() {
		l.OnChange(n.next, n.prev)
	}
	return nil, false
}
