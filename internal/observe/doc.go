// Package observe carries store instrumentation events.
//
// The store core has no logging of its own. The trace mutator in package
// mutate turns Set, Subscribe and Dispatch calls into Events and hands them to
// an Observer; this package provides the Observer contract plus three
// implementations:
//
//   - SlogObserver: structured logging through log/slog
//   - NoOpObserver: discards events
//   - MultiObserver: fans out to several observers
//
// Observers run synchronously inside the operation they describe, so they
// must be cheap and must not call back into the store.
package observe
