package realtime

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Operation is the kind of row change a notification describes.
type Operation string

const (
	OpInsert Operation = "INSERT"
	OpUpdate Operation = "UPDATE"
	OpDelete Operation = "DELETE"
)

// ChangeEvent is one asynchronous change notification from the store.
type ChangeEvent struct {
	Table  string                 `json:"table"`
	Op     Operation              `json:"op"`
	Record map[string]interface{} `json:"record"`
}

// Channel hands out subscriptions to row-change notifications.
type Channel interface {
	// Subscribe starts delivering change events for table. filter is either
	// empty (all rows) or "column=eq.value"; events whose record does not
	// carry the filtered value are dropped before delivery.
	Subscribe(ctx context.Context, table string, filter string) (*Subscription, error)
}

// Subscription is one consumer's stream of change events.
type Subscription struct {
	events chan ChangeEvent
	cancel func(*Subscription)
	once   sync.Once
}

// Events returns the stream. The channel is closed on Unsubscribe.
func (s *Subscription) Events() <-chan ChangeEvent {
	return s.events
}

// Unsubscribe detaches the subscription from its channel. Idempotent: the
// second and later calls are no-ops, and no event is delivered afterwards.
func (s *Subscription) Unsubscribe() {
	s.once.Do(func() {
		if s.cancel != nil {
			s.cancel(s)
		}
		close(s.events)
	})
}

// Filter matches change events against a single-column equality condition.
// The zero Filter matches everything.
type Filter struct {
	Column string
	Value  string
}

// ParseFilter parses the "column=eq.value" filter syntax.
func ParseFilter(s string) (Filter, error) {
	if s == "" {
		return Filter{}, nil
	}

	column, rest, ok := strings.Cut(s, "=")
	if !ok || column == "" {
		return Filter{}, fmt.Errorf("invalid filter %q: want column=eq.value", s)
	}
	value, ok := strings.CutPrefix(rest, "eq.")
	if !ok || value == "" {
		return Filter{}, fmt.Errorf("invalid filter %q: only the eq operator is supported", s)
	}

	return Filter{Column: column, Value: value}, nil
}

// Matches reports whether the event's record satisfies the filter.
func (f Filter) Matches(event ChangeEvent) bool {
	if f.Column == "" {
		return true
	}
	got, ok := event.Record[f.Column]
	if !ok {
		return false
	}
	return fmt.Sprintf("%v", got) == f.Value
}
