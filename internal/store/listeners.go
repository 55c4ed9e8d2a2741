package store

import (
	"reflect"
	"slices"
	"sync"
	"sync/atomic"
)

// Listener observes committed changes.
type Listener[T any] interface {
	OnChange(next, prev T)
}

// ListenerFunc adapts a plain function to Listener. Functions have no identity
// in Go, so every subscription of a ListenerFunc is a separate entry; use a
// pointer-typed Listener when re-subscribing must collapse to one entry.
type ListenerFunc[T any] func(next, prev T)

// OnChange calls f(next, prev).
func (f ListenerFunc[T]) OnChange(next, prev T) {
	f(next, prev)
}

type token uint64

// listenerSet keeps listeners in insertion order and publishes an immutable
// snapshot on every change so a notification pass never holds the lock.
type listenerSet[T any] struct {
	mu       sync.Mutex
	lastID   token
	keys     []any
	byKey    map[any]Listener[T]
	snapshot atomic.Pointer[[]Listener[T]]
}

func (s *listenerSet[T]) add(l Listener[T]) any {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := identityKey(l)
	if key == nil {
		s.lastID++
		key = s.lastID
	}
	if _, ok := s.byKey[key]; ok {
		return key
	}
	if s.byKey == nil {
		s.byKey = make(map[any]Listener[T])
	}
	s.byKey[key] = l
	s.keys = append(s.keys, key)
	s.publish()
	return key
}

func (s *listenerSet[T]) remove(key any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byKey[key]; !ok {
		return false
	}
	delete(s.byKey, key)
	s.keys = slices.DeleteFunc(s.keys, func(k any) bool { return k == key })
	s.publish()
	return true
}

func (s *listenerSet[T]) publish() {
	snap := make([]Listener[T], 0, len(s.keys))
	for _, k := range s.keys {
		snap = append(snap, s.byKey[k])
	}
	s.snapshot.Store(&snap)
}

func (s *listenerSet[T]) current() []Listener[T] {
	if snap := s.snapshot.Load(); snap != nil {
		return *snap
	}
	return nil
}

// identityKey returns the listener itself when its dynamic type is a pointer,
// nil otherwise.
func identityKey[T any](l Listener[T]) any {
	if v := reflect.ValueOf(l); v.Kind() == reflect.Pointer && !v.IsNil() {
		return l
	}
	return nil
}

// SubscribeFunc subscribes fn to api as a ListenerFunc.
func SubscribeFunc[T any](api API[T], fn func(next, prev T)) (unsubscribe func()) {
	return api.Subscribe(ListenerFunc[T](fn))
}
