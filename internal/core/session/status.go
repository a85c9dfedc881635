package session

// Status is a lifecycle state reported by the backend for a session.
// Each feature declares its own ordered sequence, but every sequence has
// exactly one initial value, one or more in-progress values, and the two
// shared terminals below.
type Status string

// Statuses shared by all features.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Terminal returns true for the two terminal statuses.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Order is a feature's ordered status sequence. It answers position queries
// for the monotonicity invariant and drives the processing view's step list.
//
// Both terminals share the highest rank: failed can follow any in-progress
// state, so it is not "after" completed in any meaningful sense.
type Order struct {
	progress []Status
	rank     map[Status]int
}

// NewOrder builds an Order from the feature's in-progress statuses, in the
// sequence the backend walks them. The initial and terminal statuses are
// implicit; progress must not repeat or contain them.
func NewOrder(progress ...Status) Order {
	rank := make(map[Status]int, len(progress)+3)
	rank[StatusPending] = 0
	for i, st := range progress {
		rank[st] = i + 1
	}
	terminal := len(progress) + 1
	rank[StatusCompleted] = terminal
	rank[StatusFailed] = terminal

	return Order{progress: progress, rank: rank}
}

// Steps returns the forward path pending → progress... → completed.
// The failure terminal is excluded: it is rendered as a dedicated panel,
// not a step.
func (o Order) Steps() []Status {
	steps := make([]Status, 0, len(o.progress)+2)
	steps = append(steps, StatusPending)
	steps = append(steps, o.progress...)
	steps = append(steps, StatusCompleted)
	return steps
}

// Rank returns the position of a status in the order. Unknown statuses
// return ok=false; callers treat them as no-ops rather than errors since
// the backend may add sub-states the client predates.
func (o Order) Rank(s Status) (int, bool) {
	r, ok := o.rank[s]
	return r, ok
}

// Known returns true if the status belongs to this order.
func (o Order) Known(s Status) bool {
	_, ok := o.rank[s]
	return ok
}

// Compare orders two statuses: -1 if a precedes b, 0 if equal rank, +1 if a
// follows b. Unknown statuses compare as rank 0.
func (o Order) Compare(a, b Status) int {
	ra := o.rank[a]
	rb := o.rank[b]
	switch {
	case ra < rb:
		return -1
	case ra > rb:
		return 1
	default:
		return 0
	}
}

// Regressed reports whether a transition from prev to next moves backward in
// the order. Retry resets to the initial status by design, so callers must
// suppress this check across an explicit retry.
func (o Order) Regressed(prev, next Status) bool {
	if !o.Known(prev) || !o.Known(next) {
		return false
	}
	return o.Compare(next, prev) < 0
}
