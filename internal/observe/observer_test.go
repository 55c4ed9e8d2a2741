package observe_test

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/five82/stash/internal/observe"
)

type collector struct {
	events []observe.Event
}

func (c *collector) OnEvent(ctx context.Context, event observe.Event) {
	c.events = append(c.events, event)
}

func TestSlogObserver_LogsEventFields(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))
	obs := observe.NewSlogObserver(logger)

	obs.OnEvent(context.Background(), observe.Event{
		Type:      observe.EventStoreSet,
		Timestamp: time.Now(),
		Source:    "memos",
		Data:      map[string]any{"kind": "patch", "fields": []string{"Draft"}},
	})

	output := buf.String()
	for _, want := range []string{"msg=store.set", "store=memos", "kind=patch", "fields=[Draft]", "level=INFO"} {
		if !strings.Contains(output, want) {
			t.Errorf("log output %q missing %q", output, want)
		}
	}
}

func TestSlogObserver_NotifyIsDebug(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))
	obs := observe.NewSlogObserver(logger)

	obs.OnEvent(context.Background(), observe.Event{Type: observe.EventStoreNotify, Source: "memos"})

	if buf.Len() != 0 {
		t.Errorf("notify event logged at info level: %q", buf.String())
	}
}

func TestSlogObserver_NilLoggerUsesDefault(t *testing.T) {
	obs := observe.NewSlogObserver(nil)
	obs.OnEvent(context.Background(), observe.Event{Type: observe.EventStoreCreate})
}

func TestMultiObserver_ForwardsInOrderAndSkipsNil(t *testing.T) {
	first, second := &collector{}, &collector{}
	multi := observe.NewMultiObserver(first, nil, second)

	event := observe.Event{Type: observe.EventStoreSubscribe, Source: "memos"}
	multi.OnEvent(context.Background(), event)

	if len(first.events) != 1 || len(second.events) != 1 {
		t.Fatalf("events = %d/%d, want 1/1", len(first.events), len(second.events))
	}
	if first.events[0].Type != observe.EventStoreSubscribe {
		t.Errorf("Type = %q, want %q", first.events[0].Type, observe.EventStoreSubscribe)
	}
}

func TestNoOpObserver(t *testing.T) {
	var obs observe.Observer = observe.NoOpObserver{}
	obs.OnEvent(context.Background(), observe.Event{Type: observe.EventStoreSet})
}
