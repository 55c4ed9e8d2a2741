package observe

import "context"

// NoOpObserver discards every event.
type NoOpObserver struct{}

// OnEvent does nothing.
func (NoOpObserver) OnEvent(ctx context.Context, event Event) {}
