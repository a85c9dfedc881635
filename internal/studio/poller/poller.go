// Package poller drives the create → poll → terminal cycle for one session.
//
// A poller owns exactly one timer. The hard contract is cancellation: the
// view that starts a poller must call Stop on teardown so no timer outlives
// its owner. Everything else is best-effort: transport failures during a
// tick are logged and skipped, and the loop continues until a terminal
// status is observed or the handle is stopped.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/productstudio/studio/internal/core/session"
)

// StatusSource yields lightweight status projections for a session. A nil
// result means the tick failed in transit and should be skipped; a session
// repository satisfies this.
type StatusSource interface {
	PollStatus(ctx context.Context, id int64) *session.StatusProjection
}

// State is the poller lifecycle state.
type State int

// Poller states.
const (
	StateIdle State = iota
	StatePolling
	StateCompleted
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePolling:
		return "polling"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Callbacks are invoked from the polling goroutine. OnCompleted and OnFailed
// fire at most once per handle; OnProgress fires on every successful
// non-terminal tick.
type Callbacks struct {
	OnProgress  func(session.StatusProjection)
	OnCompleted func()
	OnFailed    func(message string)
}

// Options tune one poller run.
type Options struct {
	// Interval between ticks. Fixed cadence, no backoff.
	Interval time.Duration
	// CompletionDelay is the cosmetic pause before OnCompleted fires, so
	// the final step is visibly marked done before navigation.
	CompletionDelay time.Duration
}

// Poller polls one session until terminal status or Stop.
type Poller struct {
	source    StatusSource
	sessionID int64
	opts      Options
	callbacks Callbacks
	logger    zerolog.Logger

	mu      sync.Mutex
	state   State
	stop    chan struct{}
	stopped bool
	done    chan struct{}

	consecutiveMisses int
}

// New creates an idle poller for the given session id.
func New(source StatusSource, sessionID int64, opts Options, cb Callbacks, logger zerolog.Logger) *Poller {
	if opts.Interval <= 0 {
		opts.Interval = 2500 * time.Millisecond
	}
	return &Poller{
		source:    source,
		sessionID: sessionID,
		opts:      opts,
		callbacks: cb,
		logger:    logger.With().Int64("session_id", sessionID).Logger(),
		stop:      make(chan struct{}),
		done:      make(chan struct{}),
	}
}

// State returns the current lifecycle state.
func (p *Poller) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

// Start begins polling in a new goroutine: one immediate poll, then a fixed
// interval. Start is a no-op after the first call.
func (p *Poller) Start(ctx context.Context) {
	p.mu.Lock()
	if p.state != StateIdle {
		p.mu.Unlock()
		return
	}
	p.state = StatePolling
	p.mu.Unlock()

	go p.run(ctx)
}

// Stop cancels the polling timer. Idempotent; safe from any goroutine.
// Owning views must call Stop on teardown regardless of state.
func (p *Poller) Stop() {
	p.mu.Lock()
	if !p.stopped {
		p.stopped = true
		close(p.stop)
	}
	p.mu.Unlock()
}

// Done is closed when the polling goroutine has exited. Useful in tests and
// for views that block on teardown.
func (p *Poller) Done() <-chan struct{} {
	return p.done
}

func (p *Poller) run(ctx context.Context) {
	defer close(p.done)

	// First poll is immediate, not delayed by one interval.
	if terminal := p.tick(ctx); terminal {
		return
	}

	ticker := time.NewTicker(p.opts.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-p.stop:
			return
		case <-ticker.C:
			if terminal := p.tick(ctx); terminal {
				return
			}
		}
	}
}

// tick performs one status poll. Returns true when a terminal status ends
// the run.
func (p *Poller) tick(ctx context.Context) bool {
	proj := p.source.PollStatus(ctx, p.sessionID)
	if proj == nil {
		// Transient failure: skip this tick, keep the timer running. A
		// network blip must not abort visibility into a multi-minute job.
		p.consecutiveMisses++
		p.logger.Debug().Int("consecutive_misses", p.consecutiveMisses).Msg("poll tick skipped")
		return false
	}
	p.consecutiveMisses = 0

	switch proj.Status {
	case session.StatusCompleted:
		p.transition(StateCompleted)
		p.logger.Debug().Msg("session completed")
		if p.callbacks.OnCompleted != nil {
			p.cosmeticDelay(ctx)
			p.callbacks.OnCompleted()
		}
		return true

	case session.StatusFailed:
		p.transition(StateFailed)
		p.logger.Debug().Str("error", proj.ErrorMessage).Msg("session failed")
		if p.callbacks.OnFailed != nil {
			p.callbacks.OnFailed(proj.ErrorMessage)
		}
		return true

	default:
		if p.callbacks.OnProgress != nil {
			p.callbacks.OnProgress(*proj)
		}
		return false
	}
}

func (p *Poller) transition(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

// cosmeticDelay pauses briefly before the completion handoff, but never
// holds up cancellation.
func (p *Poller) cosmeticDelay(ctx context.Context) {
	if p.opts.CompletionDelay <= 0 {
		return
	}
	t := time.NewTimer(p.opts.CompletionDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-p.stop:
	case <-t.C:
	}
}
