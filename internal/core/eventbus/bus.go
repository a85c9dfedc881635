package eventbus

import (
	"context"
	"sync"
)

// envelope pairs an event with its payload on the internal channel.
type envelope struct {
	event   Event
	payload any
}

// EventBus is a buffered, typed publish/subscribe bus. Publishing never
// blocks: when the buffer is full the event is dropped and the OnDrop hooks
// fire. Subscribers run sequentially on the Start goroutine; a panicking
// subscriber is recovered and reported through OnPanic.
type EventBus struct {
	ch    chan envelope
	hooks hooks

	mu   sync.RWMutex
	subs map[Event][]func(any)
}

// New creates an EventBus with the given buffer size.
func New(buffer int) *EventBus {
	return &EventBus{
		ch:   make(chan envelope, buffer),
		subs: make(map[Event][]func(any)),
	}
}

// Start runs the dispatch loop until ctx is cancelled. Call in a goroutine.
func (bus *EventBus) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case env := <-bus.ch:
			bus.dispatch(env)
		}
	}
}

func (bus *EventBus) dispatch(env envelope) {
	bus.mu.RLock()
	subs := make([]func(any), len(bus.subs[env.event]))
	copy(subs, bus.subs[env.event])
	bus.mu.RUnlock()

	for _, fn := range subs {
		bus.invoke(env, fn)
	}
}

func (bus *EventBus) invoke(env envelope, fn func(any)) {
	defer func() {
		if r := recover(); r != nil {
			bus.runOnPanic(env.event, env.payload, r)
		}
	}()
	fn(env.payload)
}

func subscribe[T any](bus *EventBus, event Event, fn func(T)) {
	bus.mu.Lock()
	bus.subs[event] = append(bus.subs[event], func(payload any) {
		if p, ok := payload.(T); ok {
			fn(p)
		}
	})
	bus.mu.Unlock()
}

// Typed Publish/Subscribe pairs. Keep sorted A-Z by event.

// PublishListRefreshed publishes a list.refreshed event.
func (bus *EventBus) PublishListRefreshed(p ListRefreshedPayload) {
	bus.send(EventListRefreshed, p)
}

// SubscribeListRefreshed registers a subscriber for list.refreshed events.
func (bus *EventBus) SubscribeListRefreshed(fn func(ListRefreshedPayload)) {
	subscribe(bus, EventListRefreshed, fn)
}

// PublishSessionCompleted publishes a session.completed event.
func (bus *EventBus) PublishSessionCompleted(p SessionCompletedPayload) {
	bus.send(EventSessionCompleted, p)
}

// SubscribeSessionCompleted registers a subscriber for session.completed events.
func (bus *EventBus) SubscribeSessionCompleted(fn func(SessionCompletedPayload)) {
	subscribe(bus, EventSessionCompleted, fn)
}

// PublishSessionCreated publishes a session.created event.
func (bus *EventBus) PublishSessionCreated(p SessionCreatedPayload) {
	bus.send(EventSessionCreated, p)
}

// SubscribeSessionCreated registers a subscriber for session.created events.
func (bus *EventBus) SubscribeSessionCreated(fn func(SessionCreatedPayload)) {
	subscribe(bus, EventSessionCreated, fn)
}

// PublishSessionDeleted publishes a session.deleted event.
func (bus *EventBus) PublishSessionDeleted(p SessionDeletedPayload) {
	bus.send(EventSessionDeleted, p)
}

// SubscribeSessionDeleted registers a subscriber for session.deleted events.
func (bus *EventBus) SubscribeSessionDeleted(fn func(SessionDeletedPayload)) {
	subscribe(bus, EventSessionDeleted, fn)
}

// PublishSessionFailed publishes a session.failed event.
func (bus *EventBus) PublishSessionFailed(p SessionFailedPayload) {
	bus.send(EventSessionFailed, p)
}

// SubscribeSessionFailed registers a subscriber for session.failed events.
func (bus *EventBus) SubscribeSessionFailed(fn func(SessionFailedPayload)) {
	subscribe(bus, EventSessionFailed, fn)
}

// PublishSessionRetried publishes a session.retried event.
func (bus *EventBus) PublishSessionRetried(p SessionRetriedPayload) {
	bus.send(EventSessionRetried, p)
}

// SubscribeSessionRetried registers a subscriber for session.retried events.
func (bus *EventBus) SubscribeSessionRetried(fn func(SessionRetriedPayload)) {
	subscribe(bus, EventSessionRetried, fn)
}

// PublishSessionUpdated publishes a session.updated event.
func (bus *EventBus) PublishSessionUpdated(p SessionUpdatedPayload) {
	bus.send(EventSessionUpdated, p)
}

// SubscribeSessionUpdated registers a subscriber for session.updated events.
func (bus *EventBus) SubscribeSessionUpdated(fn func(SessionUpdatedPayload)) {
	subscribe(bus, EventSessionUpdated, fn)
}
