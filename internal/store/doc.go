// Package store provides a minimal observable state container.
//
// # Overview
//
// A Store holds exactly one current value of any type, an initial value fixed
// at construction, and a set of listeners. Callers read with Get, update with
// Set and observe with Subscribe. Listeners are called synchronously with
// (next, prev) whenever a Set actually changes the value.
//
// # Update Semantics
//
// Set takes an Update descriptor, a tagged variant with three cases:
//
//	store.Value(v)                        // literal next value
//	store.Patch[T](store.Fields{"B": 3})  // partial, shallow-merged
//	store.Updater(func(cur T) store.Update[T] { ... })
//
// The descriptor is resolved first (updaters are called with the current
// value), then:
//
//   - A literal identical to the current value is a no-op: nothing is
//     committed and no listener runs. See Identical.
//   - Without WithReplace, a composite literal (struct, non-nil map, non-nil
//     pointer to struct) or a Patch is merged; anything else replaces.
//   - Merge copies the current value and overlays the descriptor's fields.
//     Nested values are shared, never merged.
//
// For a current map value {a:1, b:2}:
//
//	api.Set(store.Value(map[string]int{"b": 3}))                        // {a:1, b:3}
//	api.Set(store.Value(map[string]int{"b": 3}), store.WithReplace(true)) // {b:3}
//
// Values obtained from Get are shared snapshots. Treat them as immutable.
//
// # Mutators
//
// New accepts an ordered list of Mutator functions. Each receives the handle
// built so far and returns a wrapping handle; the creator and the caller get
// the outermost one. The container itself never knows which mutators exist.
// A mutator must send every change through the handle it wraps and must not
// keep its own copy of the value.
//
// # Concurrency Model
//
//   - Get and GetInitial are atomic loads and never block.
//   - Subscribe and unsubscribe publish a copy-on-write listener snapshot.
//     A notification pass iterates the snapshot taken when it starts, so a
//     listener added during the pass is not called and a listener removed
//     during the pass still receives it.
//   - Set resolves and commits under a mutex and queues the notification.
//     Queued notifications are delivered in commit order by the caller that
//     found the queue idle. A Set issued from inside a listener is committed
//     immediately and delivered after the current pass.
//   - A concurrent Set that finds delivery in progress returns as soon as it
//     has committed. Its listeners run later on the delivering goroutine,
//     and a panic they raise surfaces from that goroutine's Set.
//
// Updaters run under the commit mutex and must not call Set on the same
// store.
//
// # Error Handling
//
// Invalid descriptors panic with *UpdateError before anything is committed.
// A panicking listener aborts the rest of its pass; the first such panic is
// re-raised from Set once queued passes have been delivered. A panicking
// creator or mutator propagates out of New.
package store
