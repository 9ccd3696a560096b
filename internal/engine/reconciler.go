package engine

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// ReconcilerState is the reconciler's observable state.
type ReconcilerState string

const (
	StateIdle        ReconcilerState = "idle"
	StateReconciling ReconcilerState = "reconciling"
)

// Views is what the reconciler re-derives. Both refreshes are idempotent
// reads; running one more time than strictly necessary is harmless.
type Views interface {
	// RefreshLeaderboard re-fetches the full membership snapshot for the
	// challenge and re-runs the ranker.
	RefreshLeaderboard(ctx context.Context) error

	// RefreshFeed rebuilds the feed snapshot from the ledger.
	RefreshFeed(ctx context.Context) error
}

// Reconciler consumes change notifications for one challenge's derived views
// and triggers targeted re-derivation. Membership changes force a leaderboard
// refresh because the header and ranking depend on full membership state;
// entry changes only mark the feed stale. That asymmetry mirrors what the
// views actually depend on and keeps entry bursts from re-ranking constantly.
//
// No deduplication happens beyond a one-slot pending buffer per view: a burst
// of notifications may cause redundant refreshes, but at least one refresh
// always runs after the last notification of the burst.
type Reconciler struct {
	views  Views
	logger zerolog.Logger

	membershipDirty chan struct{}
	entryDirty      chan struct{}

	mu      sync.RWMutex
	state   ReconcilerState
	running bool

	done      chan struct{}
	closeOnce sync.Once
	closed    chan struct{}
}

// NewReconciler creates a reconciler for one challenge's views.
func NewReconciler(views Views, logger zerolog.Logger) *Reconciler {
	return &Reconciler{
		views:           views,
		logger:          logger,
		membershipDirty: make(chan struct{}, 1),
		entryDirty:      make(chan struct{}, 1),
		state:           StateIdle,
		done:            make(chan struct{}),
		closed:          make(chan struct{}),
	}
}

// NotifyMembershipChange records that a membership row changed. Never blocks;
// a pending refresh absorbs further notifications.
func (r *Reconciler) NotifyMembershipChange() {
	select {
	case r.membershipDirty <- struct{}{}:
	default:
	}
}

// NotifyEntryChange records that a ledger entry changed. Never blocks.
func (r *Reconciler) NotifyEntryChange() {
	select {
	case r.entryDirty <- struct{}{}:
	default:
	}
}

// State returns the reconciler's current state.
func (r *Reconciler) State() ReconcilerState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.state
}

// Run drains notifications until ctx is cancelled or Close is called.
// Refresh failures are logged and dropped: the next notification (or caller
// retry) produces a fresh snapshot, and the reconciler has no retry policy
// of its own.
func (r *Reconciler) Run(ctx context.Context) {
	r.mu.Lock()
	r.running = true
	r.mu.Unlock()
	defer close(r.closed)

	for {
		// Shutdown wins over pending work. Without this check a dirty flag
		// raised around the same time as Close could be selected instead of
		// the done channel and trigger a refresh after close.
		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		default:
		}

		select {
		case <-ctx.Done():
			return
		case <-r.done:
			return
		case <-r.membershipDirty:
			r.refresh(ctx, "leaderboard", r.views.RefreshLeaderboard)
		case <-r.entryDirty:
			r.refresh(ctx, "feed", r.views.RefreshFeed)
		}
	}
}

func (r *Reconciler) refresh(ctx context.Context, view string, fn func(context.Context) error) {
	r.setState(StateReconciling)
	defer r.setState(StateIdle)

	if err := fn(ctx); err != nil {
		r.logger.Warn().Err(err).Str("view", view).Msg("View refresh failed, awaiting next notification")
	}
}

func (r *Reconciler) setState(s ReconcilerState) {
	r.mu.Lock()
	r.state = s
	r.mu.Unlock()
}

// Close stops the run loop and waits for it to exit. Idempotent; safe to
// call whether or not Run was ever started.
func (r *Reconciler) Close() {
	r.closeOnce.Do(func() { close(r.done) })

	r.mu.RLock()
	running := r.running
	r.mu.RUnlock()
	if running {
		<-r.closed
	}
}
