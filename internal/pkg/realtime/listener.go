package realtime

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// notifyChannel is the pg_notify channel the migration triggers publish to.
const notifyChannel = "huddle_changes"

// subscriberBuffer bounds how far a slow consumer may lag before events are
// dropped for it. Refreshes are idempotent reads, so a dropped event costs
// at most one redundant refresh later.
const subscriberBuffer = 16

// Listener implements Channel over PostgreSQL LISTEN/NOTIFY. The migrations
// install row-level triggers on memberships and entries that publish
// {table, op, record} JSON to the huddle_changes channel; one dedicated
// connection fans those notifications out to subscriptions.
type Listener struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger

	mu   sync.RWMutex
	subs map[*Subscription]subscriptionSpec
}

type subscriptionSpec struct {
	table  string
	filter Filter
}

// NewListener creates a listener backed by the given pool.
func NewListener(pool *pgxpool.Pool, logger zerolog.Logger) *Listener {
	return &Listener{
		pool:   pool,
		logger: logger,
		subs:   make(map[*Subscription]subscriptionSpec),
	}
}

// Subscribe implements Channel.
func (l *Listener) Subscribe(ctx context.Context, table string, filter string) (*Subscription, error) {
	parsed, err := ParseFilter(filter)
	if err != nil {
		return nil, err
	}

	sub := &Subscription{
		events: make(chan ChangeEvent, subscriberBuffer),
		cancel: l.remove,
	}

	l.mu.Lock()
	l.subs[sub] = subscriptionSpec{table: table, filter: parsed}
	l.mu.Unlock()

	go func() {
		<-ctx.Done()
		sub.Unsubscribe()
	}()

	return sub, nil
}

func (l *Listener) remove(sub *Subscription) {
	l.mu.Lock()
	delete(l.subs, sub)
	l.mu.Unlock()
}

// Run listens for notifications until ctx is cancelled. The listening
// connection is re-acquired after failures; subscriptions survive the
// reconnect and simply miss whatever fired in between.
func (l *Listener) Run(ctx context.Context) {
	for {
		if err := l.listen(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			l.logger.Warn().Err(err).Msg("Notification connection lost, reconnecting")
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(time.Second):
		}
	}
}

func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+notifyChannel); err != nil {
		return err
	}
	l.logger.Info().Str("channel", notifyChannel).Msg("Listening for row change notifications")

	for {
		notification, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}

		var event ChangeEvent
		if err := json.Unmarshal([]byte(notification.Payload), &event); err != nil {
			l.logger.Error().Err(err).Str("payload", notification.Payload).Msg("Malformed change notification")
			continue
		}

		l.dispatch(event)
	}
}

func (l *Listener) dispatch(event ChangeEvent) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	for sub, spec := range l.subs {
		if spec.table != event.Table || !spec.filter.Matches(event) {
			continue
		}
		select {
		case sub.events <- event:
		default:
			l.logger.Warn().Str("table", event.Table).Msg("Dropped change event for slow subscriber")
		}
	}
}
