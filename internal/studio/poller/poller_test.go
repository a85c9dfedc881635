package poller

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/productstudio/studio/internal/core/session"
)

// scriptedSource replays a fixed sequence of status projections; nil entries
// simulate transport failures. The final entry repeats forever.
type scriptedSource struct {
	mu     sync.Mutex
	script []*session.StatusProjection
	calls  int
}

func (s *scriptedSource) PollStatus(_ context.Context, id int64) *session.StatusProjection {
	s.mu.Lock()
	defer s.mu.Unlock()
	idx := s.calls
	s.calls++
	if idx >= len(s.script) {
		idx = len(s.script) - 1
	}
	proj := s.script[idx]
	if proj == nil {
		return nil
	}
	cp := *proj
	cp.ID = id
	return &cp
}

func (s *scriptedSource) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func proj(status session.Status, errMsg string) *session.StatusProjection {
	return &session.StatusProjection{Status: status, ErrorMessage: errMsg}
}

func fastOpts() Options {
	return Options{Interval: 10 * time.Millisecond}
}

func TestPoller_CompletesAndStopsPolling(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj("analyzing", ""),
		proj("analyzing", ""),
		proj(session.StatusCompleted, ""),
	}}

	var completed atomic.Int64
	p := New(src, 1, fastOpts(), Callbacks{
		OnCompleted: func() { completed.Add(1) },
	}, zerolog.Nop())
	defer p.Stop()

	p.Start(context.Background())

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not terminate")
	}

	assert.Equal(t, StateCompleted, p.State())
	assert.Equal(t, int64(1), completed.Load(), "completion fires exactly once")
	assert.Equal(t, 3, src.callCount(), "no further status calls after the terminal tick")

	// Terminal stability: waiting longer schedules no further ticks.
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 3, src.callCount())
}

func TestPoller_FirstPollIsImmediate(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj(session.StatusCompleted, ""),
	}}

	p := New(src, 1, Options{Interval: time.Hour}, Callbacks{}, zerolog.Nop())
	defer p.Stop()

	p.Start(context.Background())

	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("immediate first poll did not run")
	}
	assert.Equal(t, 1, src.callCount())
}

func TestPoller_FailureSurfacesMessage(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj("generating", ""),
		proj(session.StatusFailed, "model quota exceeded"),
	}}

	var gotMsg atomic.Value
	p := New(src, 2, fastOpts(), Callbacks{
		OnFailed: func(msg string) { gotMsg.Store(msg) },
	}, zerolog.Nop())
	defer p.Stop()

	p.Start(context.Background())
	<-p.Done()

	assert.Equal(t, StateFailed, p.State())
	assert.Equal(t, "model quota exceeded", gotMsg.Load())
}

func TestPoller_TransientFailuresAreSkipped(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj("analyzing", ""),
		nil, // transport blip
		nil, // another one
		proj(session.StatusCompleted, ""),
	}}

	var completed atomic.Int64
	p := New(src, 3, fastOpts(), Callbacks{
		OnCompleted: func() { completed.Add(1) },
	}, zerolog.Nop())
	defer p.Stop()

	p.Start(context.Background())

	select {
	case <-p.Done():
	case <-time.After(2 * time.Second):
		t.Fatal("poller aborted on transient failures")
	}

	assert.Equal(t, int64(1), completed.Load())
	assert.Equal(t, 4, src.callCount())
}

func TestPoller_StopCancelsTimer(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj("analyzing", ""),
	}}

	p := New(src, 4, fastOpts(), Callbacks{}, zerolog.Nop())
	p.Start(context.Background())

	// Let a few ticks happen, then tear down.
	time.Sleep(35 * time.Millisecond)
	p.Stop()

	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("polling goroutine survived Stop")
	}

	calls := src.callCount()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, src.callCount(), "no ticks after teardown")
}

func TestPoller_StopIsIdempotent(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj("analyzing", ""),
	}}

	p := New(src, 5, fastOpts(), Callbacks{}, zerolog.Nop())
	p.Start(context.Background())

	assert.NotPanics(t, func() {
		p.Stop()
		p.Stop()
		p.Stop()
	})
	<-p.Done()
}

func TestPoller_ContextCancelStops(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj("analyzing", ""),
	}}

	ctx, cancel := context.WithCancel(context.Background())
	p := New(src, 6, fastOpts(), Callbacks{}, zerolog.Nop())
	p.Start(ctx)

	cancel()

	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("polling goroutine survived context cancellation")
	}
}

func TestPoller_ProgressCallback(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		{Status: "decomposing", ProgressStep: 1, ProgressMessage: "splitting work"},
		{Status: session.StatusCompleted},
	}}

	var mu sync.Mutex
	var seen []session.StatusProjection
	p := New(src, 7, fastOpts(), Callbacks{
		OnProgress: func(pr session.StatusProjection) {
			mu.Lock()
			seen = append(seen, pr)
			mu.Unlock()
		},
	}, zerolog.Nop())
	defer p.Stop()

	p.Start(context.Background())
	<-p.Done()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, seen, 1)
	assert.Equal(t, session.Status("decomposing"), seen[0].Status)
	assert.Equal(t, "splitting work", seen[0].ProgressMessage)
}

func TestPoller_CompletionDelayDoesNotBlockStop(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj(session.StatusCompleted, ""),
	}}

	p := New(src, 8, Options{Interval: 10 * time.Millisecond, CompletionDelay: time.Hour}, Callbacks{
		OnCompleted: func() {},
	}, zerolog.Nop())

	p.Start(context.Background())
	time.Sleep(20 * time.Millisecond)
	p.Stop()

	select {
	case <-p.Done():
	case <-time.After(time.Second):
		t.Fatal("cosmetic delay blocked teardown")
	}
}

func TestPoller_StartTwiceIsNoop(t *testing.T) {
	src := &scriptedSource{script: []*session.StatusProjection{
		proj(session.StatusCompleted, ""),
	}}

	p := New(src, 9, fastOpts(), Callbacks{}, zerolog.Nop())
	defer p.Stop()

	p.Start(context.Background())
	p.Start(context.Background())
	<-p.Done()

	assert.Equal(t, 1, src.callCount())
}
