package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/repositories"
)

// FeedLimit caps the activity feed snapshot.
const FeedLimit = 30

// FeedService defines the interface for activity feed snapshots
type FeedService interface {
	GetFeed(ctx context.Context, slug string) (*dto.FeedResponse, error)
}

type feedServiceImpl struct {
	challengeRepo *repositories.ChallengeRepository
	entryRepo     *repositories.EntryRepository
	logger        zerolog.Logger
}

// NewFeedService creates a new FeedService
func NewFeedService(
	challengeRepo *repositories.ChallengeRepository,
	entryRepo *repositories.EntryRepository,
	logger zerolog.Logger,
) FeedService {
	return &feedServiceImpl{
		challengeRepo: challengeRepo,
		entryRepo:     entryRepo,
		logger:        logger,
	}
}

// GetFeed retrieves the newest check-ins across a challenge, newest first
func (s *feedServiceImpl) GetFeed(ctx context.Context, slug string) (*dto.FeedResponse, error) {
	challenge, err := s.challengeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	entries, err := s.entryRepo.ListFeed(ctx, challenge.ID, FeedLimit)
	if err != nil {
		s.logger.Error().Err(err).Str("challengeId", challenge.ID.String()).Msg("Failed to load feed")
		return nil, err
	}

	responses := make([]dto.EntryResponse, len(entries))
	for i, entry := range entries {
		var member *dto.MemberIdentity
		if entry.Member != nil {
			member = &dto.MemberIdentity{
				UserID:      entry.Member.ID,
				DisplayName: entry.Member.DisplayName,
				AvatarURL:   entry.Member.AvatarURL,
			}
		}
		responses[i] = toEntryResponse(entry, member)
	}

	return &dto.FeedResponse{
		ChallengeID: challenge.ID,
		Entries:     responses,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
