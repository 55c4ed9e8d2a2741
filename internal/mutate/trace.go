package mutate

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/five82/stash/internal/observe"
	"github.com/five82/stash/internal/store"
)

// Trace reports every Set, notification pass and (un)subscription on the
// wrapped handle to obs under the given store name. Notify events carry the
// number of listeners registered besides Trace's own. Put it first in the
// mutator list so that Set calls made by later mutators pass through it.
func Trace[T any](obs observe.Observer, name string) store.Mutator[T] {
	if obs == nil {
		obs = observe.NoOpObserver{}
	}
	return func(inner store.API[T]) store.API[T] {
		t := &Traced[T]{API: inner, obs: obs, name: name}
		t.emit(observe.EventStoreCreate, nil)
		raw, counted := store.As[*store.Store[T]](inner)
		inner.Subscribe(store.ListenerFunc[T](func(next, prev T) {
			var data map[string]any
			if counted {
				// Leave out the listener reporting this pass.
				data = map[string]any{"listeners": raw.Listeners() - 1}
			}
			t.emit(observe.EventStoreNotify, data)
		}))
		return t
	}
}

// Traced is the handle returned by Trace.
type Traced[T any] struct {
	store.API[T]
	obs  observe.Observer
	name string
}

// Set reports the descriptor and forwards it.
func (t *Traced[T]) Set(u store.Update[T], opts ...store.SetOption) {
	data := map[string]any{"kind": u.Kind()}
	if fields := u.Fields(); len(fields) > 0 {
		data["fields"] = slices.Sorted(maps.Keys(fields))
	}
	if replace, explicit := store.ReplaceFlag(opts...); explicit {
		data["replace"] = replace
	}
	t.emit(observe.EventStoreSet, data)
	t.API.Set(u, opts...)
}

// Subscribe reports the subscription and forwards it. The returned func
// reports the first unsubscribe only.
func (t *Traced[T]) Subscribe(l store.Listener[T]) func() {
	t.emit(observe.EventStoreSubscribe, nil)
	unsubscribe := t.API.Subscribe(l)
	var once sync.Once
	return func() {
		once.Do(func() {
			t.emit(observe.EventStoreUnsubscribe, nil)
		})
		unsubscribe()
	}
}

// Unwrap returns the wrapped handle.
func (t *Traced[T]) Unwrap() store.API[T] {
	return t.API
}

func (t *Traced[T]) emit(typ observe.EventType, data map[string]any) {
	t.obs.OnEvent(context.Background(), observe.Event{
		Type:      typ,
		Timestamp: time.Now(),
		Source:    t.name,
		Data:      data,
	})
}
