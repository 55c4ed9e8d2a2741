// Package mutate provides mutators for store.New.
//
// Each mutator wraps a store handle and returns an augmented one:
//
//   - Trace reports Set, notification and subscription activity to an
//     observe.Observer.
//   - Selector adds SubscribeSelect, a listener that only fires when a
//     selected slice of the value changes.
//   - Reducer adds Dispatch, which turns actions into Set calls.
//
// Mutators apply in the order given to store.New, the first one wrapping the
// raw container. A mutator's Set calls go to the handle it wraps, so put Trace
// first when changes made by later mutators should be traced:
//
//	api := store.New(create,
//		mutate.Trace[State](obs, "memos"),
//		mutate.Selector[State](),
//		mutate.Reducer[State, Action](reduce),
//	)
//	dispatch, _ := mutate.Dispatcher[Action](api)
//
// Added methods are reached through store.As, which walks the chain using
// each handle's Unwrap method.
package mutate
