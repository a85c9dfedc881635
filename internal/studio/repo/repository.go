// Package repo implements the per-feature session repository: the single
// source of truth for session state visible to the UI layer.
//
// Every network-facing operation converts failures to a stored error
// message plus a sentinel return (nil, false, empty). Errors never cross
// this boundary as returned error values; callers branch on the sentinel
// and render the error flag. State changes are published on the event bus.
package repo

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/productstudio/studio/internal/core/eventbus"
	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
	"github.com/productstudio/studio/internal/studio/api"
)

// DefaultPageSize is the list page size requested from the backend.
const DefaultPageSize = 20

// Backend is the API surface the repository mediates. *api.Client
// implements it.
type Backend interface {
	CreateSession(ctx context.Context, f feature.Feature, params map[string]any) (*session.Session, error)
	ListSessions(ctx context.Context, f feature.Feature, skip, limit int) ([]session.Session, error)
	GetSession(ctx context.Context, f feature.Feature, id int64) (*session.Session, error)
	GetStatus(ctx context.Context, f feature.Feature, id int64) (*session.StatusProjection, error)
	RetrySession(ctx context.Context, f feature.Feature, id int64) (*session.Session, error)
	DeleteSession(ctx context.Context, f feature.Feature, id int64) error
	UpdateComponent(ctx context.Context, f feature.Feature, componentID int64, fields map[string]any) (*session.Component, error)
}

// Repository holds the reactive session state for one feature.
type Repository struct {
	backend Backend
	feature feature.Feature
	bus     *eventbus.EventBus
	logger  zerolog.Logger

	mu       sync.Mutex
	current  *session.Session
	sessions []session.Session
	loading  bool
	errMsg   string
	skip     int
	hasMore  bool
	pageSize int
}

// New creates a repository for the given feature. bus may be nil when no
// subscribers exist (plain one-shot CLI calls).
func New(backend Backend, f feature.Feature, bus *eventbus.EventBus, logger zerolog.Logger) *Repository {
	return &Repository{
		backend:  backend,
		feature:  f,
		bus:      bus,
		logger:   logger.With().Str("feature", f.Name).Logger(),
		hasMore:  true,
		pageSize: DefaultPageSize,
	}
}

// Feature returns the feature this repository serves.
func (r *Repository) Feature() feature.Feature {
	return r.feature
}

// Current returns a copy of the current session, or nil.
func (r *Repository) Current() *session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return nil
	}
	cp := *r.current
	return &cp
}

// Sessions returns a copy of the session list, most recent first.
func (r *Repository) Sessions() []session.Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]session.Session, len(r.sessions))
	copy(out, r.sessions)
	return out
}

// Loading reports whether a repository operation is in flight.
func (r *Repository) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// ErrorMessage returns the last failure message, cleared on the next
// successful call.
func (r *Repository) ErrorMessage() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.errMsg
}

// HasMore reports whether further list pages may exist.
func (r *Repository) HasMore() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hasMore
}

// Create validates params client-side, then starts a new session. Returns
// nil on validation or backend failure with the error flag set. On success
// the session becomes current and is prepended to the list.
func (r *Repository) Create(ctx context.Context, params map[string]any) *session.Session {
	if err := r.feature.ValidateParams(params); err != nil {
		r.fail(err.Error())
		return nil
	}

	r.begin()
	sess, err := r.backend.CreateSession(ctx, r.feature, params)
	if err != nil {
		r.failFrom(err)
		return nil
	}

	r.mu.Lock()
	r.current = sess
	r.sessions = append([]session.Session{*sess}, r.sessions...)
	r.finishLocked()
	r.mu.Unlock()

	if r.bus != nil {
		r.bus.PublishSessionCreated(eventbus.SessionCreatedPayload{Feature: r.feature.Name, Session: sess})
	}

	cp := *sess
	return &cp
}

// List fetches the next page of sessions. With reset the cursor and
// accumulated list are cleared first. Once a short page was seen, further
// calls without reset issue no network request. Returns the accumulated
// list snapshot; nil signals a failed fetch.
func (r *Repository) List(ctx context.Context, reset bool) []session.Session {
	r.mu.Lock()
	if reset {
		r.skip = 0
		r.sessions = nil
		r.hasMore = true
	}
	if !r.hasMore {
		r.mu.Unlock()
		return r.Sessions()
	}
	skip := r.skip
	limit := r.pageSize
	r.mu.Unlock()

	r.begin()
	page, err := r.backend.ListSessions(ctx, r.feature, skip, limit)
	if err != nil {
		r.failFrom(err)
		return nil
	}

	r.mu.Lock()
	r.sessions = append(r.sessions, page...)
	r.skip += len(page)
	if len(page) < limit {
		r.hasMore = false
	}
	hasMore := r.hasMore
	count := len(r.sessions)
	r.finishLocked()
	r.mu.Unlock()

	if r.bus != nil {
		r.bus.PublishListRefreshed(eventbus.ListRefreshedPayload{Feature: r.feature.Name, Count: count, HasMore: hasMore})
	}

	return r.Sessions()
}

// Get fetches one session by id and makes it current. Returns nil on
// failure.
func (r *Repository) Get(ctx context.Context, id int64) *session.Session {
	r.begin()
	sess, err := r.backend.GetSession(ctx, r.feature, id)
	if err != nil {
		r.failFrom(err)
		return nil
	}

	r.mu.Lock()
	r.current = sess
	r.reconcileLocked(sess.ID, sess.Status, sess.ErrorMessage)
	r.finishLocked()
	r.mu.Unlock()

	r.publishUpdated(sess.ID, sess.Status)

	cp := *sess
	return &cp
}

// PollStatus fetches the lightweight status projection and reconciles the
// matching list entry and current session. Returns nil on failure without
// setting the error flag: poll ticks are best-effort and transient failures
// must not surface as errors (the poller simply skips the tick).
func (r *Repository) PollStatus(ctx context.Context, id int64) *session.StatusProjection {
	proj, err := r.backend.GetStatus(ctx, r.feature, id)
	if err != nil {
		r.logger.Debug().Err(err).Int64("session_id", id).Msg("status poll failed, skipping tick")
		return nil
	}

	r.mu.Lock()
	prev, known := r.statusOfLocked(id)
	if known && r.feature.Order.Regressed(prev, proj.Status) {
		r.logger.Warn().
			Int64("session_id", id).
			Str("prev", string(prev)).
			Str("next", string(proj.Status)).
			Msg("status moved backward")
	}
	r.reconcileLocked(id, proj.Status, proj.ErrorMessage)
	r.mu.Unlock()

	r.publishUpdated(id, proj.Status)

	// Terminal events fire on the observed transition only; a poll that
	// re-reads an already-terminal session stays silent.
	if proj.Status.Terminal() && (!known || !prev.Terminal()) {
		r.publishTerminal(id, proj.Status, proj.ErrorMessage)
	}

	return proj
}

// Delete removes the session on the backend, then locally. Returns false on
// failure so callers can decide on messaging without a try/catch analogue.
func (r *Repository) Delete(ctx context.Context, id int64) bool {
	r.begin()
	if err := r.backend.DeleteSession(ctx, r.feature, id); err != nil {
		r.failFrom(err)
		return false
	}

	r.mu.Lock()
	for i, s := range r.sessions {
		if s.ID == id {
			r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
			break
		}
	}
	if r.current != nil && r.current.ID == id {
		r.current = nil
	}
	r.finishLocked()
	r.mu.Unlock()

	if r.bus != nil {
		r.bus.PublishSessionDeleted(eventbus.SessionDeletedPayload{Feature: r.feature.Name, ID: id})
	}

	return true
}

// Retry re-triggers processing for a failed session. The matching list
// entry is replaced in place with the backend's reset session. Returns nil
// on failure.
func (r *Repository) Retry(ctx context.Context, id int64) *session.Session {
	r.begin()
	sess, err := r.backend.RetrySession(ctx, r.feature, id)
	if err != nil {
		r.failFrom(err)
		return nil
	}

	r.mu.Lock()
	for i := range r.sessions {
		if r.sessions[i].ID == sess.ID {
			r.sessions[i] = *sess
			break
		}
	}
	if r.current != nil && r.current.ID == sess.ID {
		r.current = sess
	}
	r.finishLocked()
	r.mu.Unlock()

	if r.bus != nil {
		r.bus.PublishSessionRetried(eventbus.SessionRetriedPayload{Feature: r.feature.Name, Session: sess})
	}

	cp := *sess
	return &cp
}

// UpdateComponent patches an editable component sub-resource. Returns nil
// on failure.
func (r *Repository) UpdateComponent(ctx context.Context, componentID int64, fields map[string]any) *session.Component {
	r.begin()
	comp, err := r.backend.UpdateComponent(ctx, r.feature, componentID, fields)
	if err != nil {
		r.failFrom(err)
		return nil
	}

	r.mu.Lock()
	r.finishLocked()
	r.mu.Unlock()

	return comp
}

// reconcileLocked copies a status update onto the current session and the
// matching list entry. List entries are independent copies; they only see
// updates through this explicit reconciliation.
func (r *Repository) reconcileLocked(id int64, status session.Status, errMsg string) {
	if r.current != nil && r.current.ID == id {
		r.current.Status = status
		r.current.ErrorMessage = errMsg
	}
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			r.sessions[i].Status = status
			r.sessions[i].ErrorMessage = errMsg
			break
		}
	}
}

func (r *Repository) statusOfLocked(id int64) (session.Status, bool) {
	if r.current != nil && r.current.ID == id {
		return r.current.Status, true
	}
	for i := range r.sessions {
		if r.sessions[i].ID == id {
			return r.sessions[i].Status, true
		}
	}
	return "", false
}

func (r *Repository) publishUpdated(id int64, status session.Status) {
	if r.bus == nil {
		return
	}
	r.bus.PublishSessionUpdated(eventbus.SessionUpdatedPayload{Feature: r.feature.Name, ID: id, Status: status})
}

func (r *Repository) publishTerminal(id int64, status session.Status, errMsg string) {
	if r.bus == nil {
		return
	}
	switch status {
	case session.StatusCompleted:
		r.bus.PublishSessionCompleted(eventbus.SessionCompletedPayload{Feature: r.feature.Name, ID: id})
	case session.StatusFailed:
		r.bus.PublishSessionFailed(eventbus.SessionFailedPayload{Feature: r.feature.Name, ID: id, Message: errMsg})
	}
}

func (r *Repository) begin() {
	r.mu.Lock()
	r.loading = true
	r.mu.Unlock()
}

// finishLocked clears the loading and error flags after a successful call.
// Caller holds the mutex.
func (r *Repository) finishLocked() {
	r.loading = false
	r.errMsg = ""
}

func (r *Repository) fail(msg string) {
	r.mu.Lock()
	r.loading = false
	r.errMsg = msg
	r.mu.Unlock()
}

func (r *Repository) failFrom(err error) {
	apiErr := api.Convert(err)
	r.logger.Error().Err(err).Msg("repository call failed")
	r.fail(apiErr.Humanize())
}
