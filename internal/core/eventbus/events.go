// Package eventbus provides a typed publish/subscribe event bus for
// cross-component communication within studio. The session repository
// publishes state changes here; views subscribe instead of holding
// references into repository internals.
package eventbus

import (
	"github.com/productstudio/studio/internal/core/session"
)

// Event names a bus event type.
type Event string

// All event types.
const (
	// Keep list sorted A-Z
	EventListRefreshed    Event = "list.refreshed"
	EventSessionCompleted Event = "session.completed"
	EventSessionCreated   Event = "session.created"
	EventSessionDeleted   Event = "session.deleted"
	EventSessionFailed    Event = "session.failed"
	EventSessionRetried   Event = "session.retried"
	EventSessionUpdated   Event = "session.updated"
)

// SessionCreatedPayload is emitted when a create call succeeds.
type SessionCreatedPayload struct {
	Feature string
	Session *session.Session
}

// SessionUpdatedPayload is emitted when the current session or a list entry
// is reconciled after a get or status poll.
type SessionUpdatedPayload struct {
	Feature string
	ID      int64
	Status  session.Status
}

// SessionDeletedPayload is emitted after a successful delete.
type SessionDeletedPayload struct {
	Feature string
	ID      int64
}

// SessionRetriedPayload is emitted when a failed session is reset for
// reprocessing.
type SessionRetriedPayload struct {
	Feature string
	Session *session.Session
}

// SessionCompletedPayload is emitted once per poller run when the success
// terminal is observed.
type SessionCompletedPayload struct {
	Feature string
	ID      int64
}

// SessionFailedPayload is emitted once per poller run when the failure
// terminal is observed.
type SessionFailedPayload struct {
	Feature string
	ID      int64
	Message string
}

// ListRefreshedPayload is emitted after a list page is fetched.
type ListRefreshedPayload struct {
	Feature string
	Count   int
	HasMore bool
}
