// Package testbus provides test utilities for the event bus.
// It wraps a real EventBus with event recording and assertion helpers.
package testbus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/productstudio/studio/internal/core/eventbus"
)

// RecordedEvent holds a captured event name and payload.
type RecordedEvent struct {
	Event   eventbus.Event
	Payload any
}

// Bus wraps a real EventBus with event recording for tests.
type Bus struct {
	*eventbus.EventBus
	cancel context.CancelFunc

	mu     sync.Mutex
	events []RecordedEvent
}

// New creates a test bus, starts it in a background goroutine, and
// subscribes to all event types for recording. The bus is stopped
// when the test completes.
func New(t *testing.T) *Bus {
	t.Helper()

	bus := eventbus.New(64)
	ctx, cancel := context.WithCancel(context.Background())

	tb := &Bus{
		EventBus: bus,
		cancel:   cancel,
	}

	// Subscribe to all event types for recording.
	bus.SubscribeSessionCreated(func(p eventbus.SessionCreatedPayload) {
		tb.record(eventbus.EventSessionCreated, p)
	})
	bus.SubscribeSessionUpdated(func(p eventbus.SessionUpdatedPayload) {
		tb.record(eventbus.EventSessionUpdated, p)
	})
	bus.SubscribeSessionDeleted(func(p eventbus.SessionDeletedPayload) {
		tb.record(eventbus.EventSessionDeleted, p)
	})
	bus.SubscribeSessionRetried(func(p eventbus.SessionRetriedPayload) {
		tb.record(eventbus.EventSessionRetried, p)
	})
	bus.SubscribeSessionCompleted(func(p eventbus.SessionCompletedPayload) {
		tb.record(eventbus.EventSessionCompleted, p)
	})
	bus.SubscribeSessionFailed(func(p eventbus.SessionFailedPayload) {
		tb.record(eventbus.EventSessionFailed, p)
	})
	bus.SubscribeListRefreshed(func(p eventbus.ListRefreshedPayload) {
		tb.record(eventbus.EventListRefreshed, p)
	})

	go bus.Start(ctx)

	t.Cleanup(func() {
		cancel()
	})

	return tb
}

func (b *Bus) record(event eventbus.Event, payload any) {
	b.mu.Lock()
	b.events = append(b.events, RecordedEvent{Event: event, Payload: payload})
	b.mu.Unlock()
}

// Events returns a copy of all recorded events.
func (b *Bus) Events() []RecordedEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]RecordedEvent, len(b.events))
	copy(out, b.events)
	return out
}

// Count returns how many events of the given type were recorded.
func (b *Bus) Count(event eventbus.Event) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, e := range b.events {
		if e.Event == event {
			n++
		}
	}
	return n
}

// WaitFor blocks until at least n events of the given type are recorded or
// the timeout elapses. Returns true if the count was reached.
func (b *Bus) WaitFor(event eventbus.Event, n int, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if b.Count(event) >= n {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return b.Count(event) >= n
}
