package observe

import (
	"context"
	"log/slog"
	"maps"
	"slices"
)

// SlogObserver writes events to a structured logger.
//
// Events are logged at Debug level except store.set and store.dispatch, which
// are logged at Info so the default level still shows every committed change.
//
// Example:
//
//	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
//	obs := observe.NewSlogObserver(logger)
type SlogObserver struct {
	logger *slog.Logger
}

// NewSlogObserver creates a SlogObserver. A nil logger uses slog.Default().
func NewSlogObserver(logger *slog.Logger) *SlogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogObserver{logger: logger}
}

// OnEvent logs the event type as the message, the source as the store
// attribute and each Data entry as its own attribute in key order.
func (o *SlogObserver) OnEvent(ctx context.Context, event Event) {
	level := slog.LevelDebug
	switch event.Type {
	case EventStoreSet, EventStoreDispatch:
		level = slog.LevelInfo
	}
	if !o.logger.Enabled(ctx, level) {
		return
	}

	attrs := make([]slog.Attr, 0, len(event.Data)+1)
	attrs = append(attrs, slog.String("store", event.Source))
	for _, k := range slices.Sorted(maps.Keys(event.Data)) {
		attrs = append(attrs, slog.Any(k, event.Data[k]))
	}
	o.logger.LogAttrs(ctx, level, string(event.Type), attrs...)
}
