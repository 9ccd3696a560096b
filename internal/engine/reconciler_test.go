package engine

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// countingViews records refresh invocations and can signal on each one.
type countingViews struct {
	mu           sync.Mutex
	leaderboards int
	feeds        int
	refreshed    chan struct{}
}

func newCountingViews() *countingViews {
	return &countingViews{refreshed: make(chan struct{}, 64)}
}

func (v *countingViews) RefreshLeaderboard(ctx context.Context) error {
	v.mu.Lock()
	v.leaderboards++
	v.mu.Unlock()
	v.refreshed <- struct{}{}
	return nil
}

func (v *countingViews) RefreshFeed(ctx context.Context) error {
	v.mu.Lock()
	v.feeds++
	v.mu.Unlock()
	v.refreshed <- struct{}{}
	return nil
}

func (v *countingViews) counts() (leaderboards, feeds int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.leaderboards, v.feeds
}

func (v *countingViews) waitRefresh(t *testing.T) {
	t.Helper()
	select {
	case <-v.refreshed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a view refresh")
	}
}

func startReconciler(t *testing.T, views Views) *Reconciler {
	t.Helper()
	r := NewReconciler(views, zerolog.Nop())
	go r.Run(context.Background())
	t.Cleanup(r.Close)
	return r
}

func TestMembershipChangeRefreshesLeaderboardOnly(t *testing.T) {
	views := newCountingViews()
	r := startReconciler(t, views)

	r.NotifyMembershipChange()
	views.waitRefresh(t)

	leaderboards, feeds := views.counts()
	if leaderboards != 1 {
		t.Errorf("leaderboard refreshes = %d, want 1", leaderboards)
	}
	if feeds != 0 {
		t.Errorf("feed refreshes = %d, want 0 (entry-only views must not refresh)", feeds)
	}
}

func TestEntryChangeRefreshesFeedOnly(t *testing.T) {
	views := newCountingViews()
	r := startReconciler(t, views)

	r.NotifyEntryChange()
	views.waitRefresh(t)

	leaderboards, feeds := views.counts()
	if feeds != 1 {
		t.Errorf("feed refreshes = %d, want 1", feeds)
	}
	if leaderboards != 0 {
		t.Errorf("leaderboard refreshes = %d, want 0", leaderboards)
	}
}

func TestBurstCausesAtLeastOneRefreshAfterLastNotification(t *testing.T) {
	views := newCountingViews()
	r := startReconciler(t, views)

	const burst = 50
	for i := 0; i < burst; i++ {
		r.NotifyEntryChange()
	}

	// Redundant refreshes are acceptable; zero refreshes are not, and no
	// notification may be stranded once the burst ends.
	views.waitRefresh(t)
	deadline := time.After(2 * time.Second)
	for {
		_, feeds := views.counts()
		if feeds >= 1 && r.State() == StateIdle {
			select {
			case <-views.refreshed:
				continue // drain stragglers
			default:
			}
			if feeds > burst {
				t.Errorf("feed refreshes = %d, exceeds notification count %d", feeds, burst)
			}
			return
		}
		select {
		case <-deadline:
			t.Fatal("reconciler never settled after burst")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestRefreshErrorDoesNotStopTheLoop(t *testing.T) {
	views := newCountingViews()
	failing := &failingViews{inner: views, failures: 1}
	r := startReconciler(t, failing)

	r.NotifyEntryChange()
	views.waitRefresh(t) // first attempt, fails after counting

	r.NotifyEntryChange()
	views.waitRefresh(t)

	_, feeds := views.counts()
	if feeds != 2 {
		t.Errorf("feed refresh attempts = %d, want 2 (loop must survive a failure)", feeds)
	}
}

type failingViews struct {
	inner    *countingViews
	mu       sync.Mutex
	failures int
}

func (f *failingViews) RefreshLeaderboard(ctx context.Context) error {
	return f.inner.RefreshLeaderboard(ctx)
}

func (f *failingViews) RefreshFeed(ctx context.Context) error {
	err := f.inner.RefreshFeed(ctx)
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failures > 0 {
		f.failures--
		return context.DeadlineExceeded
	}
	return err
}

func TestCloseIsIdempotent(t *testing.T) {
	views := newCountingViews()
	r := NewReconciler(views, zerolog.Nop())
	go r.Run(context.Background())

	r.Close()
	r.Close()

	// No refresh may run after close.
	r.NotifyMembershipChange()
	time.Sleep(50 * time.Millisecond)
	leaderboards, _ := views.counts()
	if leaderboards != 0 {
		t.Errorf("leaderboard refreshes after close = %d, want 0", leaderboards)
	}
}

func TestCloseWithoutRunDoesNotBlock(t *testing.T) {
	r := NewReconciler(newCountingViews(), zerolog.Nop())
	done := make(chan struct{})
	go func() {
		r.Close()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Close blocked with no running loop")
	}
}
