package observe

import (
	"context"
	"time"
)

// Observer receives store events. Implementations must not panic and should
// return quickly; they run inside Set.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}

// Event describes something that happened to a store. Data carries
// execution metadata (descriptor kind, field names, replace flag, action
// name, listener count on notify), not the stored values.
type Event struct {
	Type      EventType
	Timestamp time.Time
	// Source names the store that emitted the event.
	Source string
	Data   map[string]any
}

// EventType categorizes events.
type EventType string

const (
	EventStoreCreate      EventType = "store.create"
	EventStoreSet         EventType = "store.set"
	EventStoreNotify      EventType = "store.notify"
	EventStoreSubscribe   EventType = "store.subscribe"
	EventStoreUnsubscribe EventType = "store.unsubscribe"
	EventStoreDispatch    EventType = "store.dispatch"
)
