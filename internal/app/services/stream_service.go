package services

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/engine"
	"github.com/huddleapp/huddle/internal/pkg/realtime"
	"github.com/huddleapp/huddle/internal/pkg/websocket"
)

// StreamService keeps live view streams running for challenges that have at
// least one connected websocket client. Each watched challenge gets its own
// reconciler fed by row-change subscriptions; refreshed snapshots are pushed
// through the hub. Streams start on a challenge's first client and stop on
// its last disconnect.
type StreamService struct {
	channel      realtime.Channel
	hub          *websocket.Hub
	challenges   *repositories.ChallengeRepository
	leaderboards LeaderboardService
	feeds        FeedService
	logger       zerolog.Logger

	mu      sync.Mutex
	streams map[uuid.UUID]*challengeStream

	presence chan websocket.PresenceEvent
}

type challengeStream struct {
	reconciler *engine.Reconciler
	subs       []*realtime.Subscription
	cancel     context.CancelFunc
}

// NewStreamService creates a new StreamService
func NewStreamService(
	channel realtime.Channel,
	hub *websocket.Hub,
	challenges *repositories.ChallengeRepository,
	leaderboards LeaderboardService,
	feeds FeedService,
	logger zerolog.Logger,
) *StreamService {
	s := &StreamService{
		channel:      channel,
		hub:          hub,
		challenges:   challenges,
		leaderboards: leaderboards,
		feeds:        feeds,
		logger:       logger,
		streams:      make(map[uuid.UUID]*challengeStream),
		presence:     make(chan websocket.PresenceEvent, 16),
	}
	hub.AddPresenceListener(s.presence)
	return s
}

// Run reacts to hub presence transitions until ctx is cancelled
func (s *StreamService) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			s.stopAll()
			return
		case event := <-s.presence:
			if event.Active {
				s.startStream(ctx, event.ChallengeID)
			} else {
				s.stopStream(event.ChallengeID)
			}
		}
	}
}

func (s *StreamService) startStream(ctx context.Context, challengeID uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.streams[challengeID]; ok {
		return
	}

	challenge, err := s.challenges.GetByID(ctx, challengeID.String())
	if err != nil {
		s.logger.Error().Err(err).Str("challengeId", challengeID.String()).Msg("Cannot start stream for unknown challenge")
		return
	}

	streamCtx, cancel := context.WithCancel(ctx)
	views := &streamViews{
		service:     s,
		challengeID: challengeID,
		slug:        challenge.Slug,
	}
	reconciler := engine.NewReconciler(views, s.logger.With().Str("challengeId", challengeID.String()).Logger())

	filter := "challenge_id=eq." + challengeID.String()
	membershipSub, err := s.channel.Subscribe(streamCtx, "memberships", filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to subscribe to membership changes")
		cancel()
		return
	}
	entrySub, err := s.channel.Subscribe(streamCtx, "entries", filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to subscribe to entry changes")
		membershipSub.Unsubscribe()
		cancel()
		return
	}

	stream := &challengeStream{
		reconciler: reconciler,
		subs:       []*realtime.Subscription{membershipSub, entrySub},
		cancel:     cancel,
	}
	s.streams[challengeID] = stream

	go reconciler.Run(streamCtx)
	go forward(membershipSub, reconciler.NotifyMembershipChange)
	go forward(entrySub, reconciler.NotifyEntryChange)

	// Prime both views so a fresh client sees current state immediately.
	reconciler.NotifyMembershipChange()
	reconciler.NotifyEntryChange()

	s.logger.Info().Str("challengeId", challengeID.String()).Msg("Live stream started")
}

func forward(sub *realtime.Subscription, notify func()) {
	for range sub.Events() {
		notify()
	}
}

func (s *StreamService) stopStream(challengeID uuid.UUID) {
	s.mu.Lock()
	stream, ok := s.streams[challengeID]
	if ok {
		delete(s.streams, challengeID)
	}
	s.mu.Unlock()

	if !ok {
		return
	}

	for _, sub := range stream.subs {
		sub.Unsubscribe()
	}
	stream.cancel()
	stream.reconciler.Close()

	s.logger.Info().Str("challengeId", challengeID.String()).Msg("Live stream stopped")
}

func (s *StreamService) stopAll() {
	s.mu.Lock()
	ids := make([]uuid.UUID, 0, len(s.streams))
	for id := range s.streams {
		ids = append(ids, id)
	}
	s.mu.Unlock()

	for _, id := range ids {
		s.stopStream(id)
	}
}

// streamViews adapts one challenge's snapshot services to the reconciler
type streamViews struct {
	service     *StreamService
	challengeID uuid.UUID
	slug        string
}

// RefreshLeaderboard implements engine.Views
func (v *streamViews) RefreshLeaderboard(ctx context.Context) error {
	snapshot, err := v.service.leaderboards.GetLeaderboard(ctx, v.slug)
	if err != nil {
		return err
	}
	return v.push(websocket.MessageTypeLeaderboard, snapshot)
}

// RefreshFeed implements engine.Views
func (v *streamViews) RefreshFeed(ctx context.Context) error {
	snapshot, err := v.service.feeds.GetFeed(ctx, v.slug)
	if err != nil {
		return err
	}
	return v.push(websocket.MessageTypeFeed, snapshot)
}

func (v *streamViews) push(messageType string, snapshot any) error {
	payload, err := json.Marshal(snapshot)
	if err != nil {
		return err
	}

	v.service.hub.Broadcast(&websocket.Message{
		Type:        messageType,
		ChallengeID: v.challengeID,
		Payload:     payload,
		Timestamp:   time.Now().UTC(),
	})
	return nil
}
