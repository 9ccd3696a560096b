package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/engine"
)

// LeaderboardService defines the interface for ranking snapshots
type LeaderboardService interface {
	GetLeaderboard(ctx context.Context, slug string) (*dto.LeaderboardResponse, error)
}

type leaderboardServiceImpl struct {
	challengeRepo  *repositories.ChallengeRepository
	membershipRepo *repositories.MembershipRepository
	logger         zerolog.Logger
}

// NewLeaderboardService creates a new LeaderboardService
func NewLeaderboardService(
	challengeRepo *repositories.ChallengeRepository,
	membershipRepo *repositories.MembershipRepository,
	logger zerolog.Logger,
) LeaderboardService {
	return &leaderboardServiceImpl{
		challengeRepo:  challengeRepo,
		membershipRepo: membershipRepo,
		logger:         logger,
	}
}

// GetLeaderboard derives a ranking snapshot for a challenge. Two calls over
// the same underlying data produce identical orderings; the ranking itself
// is pure and owned by the engine package.
func (s *leaderboardServiceImpl) GetLeaderboard(ctx context.Context, slug string) (*dto.LeaderboardResponse, error) {
	challenge, err := s.challengeRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	standings, err := s.membershipRepo.ListStandings(ctx, challenge.ID)
	if err != nil {
		s.logger.Error().Err(err).Str("challengeId", challenge.ID.String()).Msg("Failed to load standings")
		return nil, err
	}

	ranked := engine.Rank(standings)

	rows := make([]dto.LeaderboardRow, len(ranked))
	for i, standing := range ranked {
		rows[i] = dto.LeaderboardRow{
			Rank:         i + 1,
			MembershipID: standing.MembershipID,
			Member: dto.MemberIdentity{
				UserID:      standing.UserID,
				DisplayName: standing.DisplayName,
				AvatarURL:   standing.AvatarURL,
			},
			Streak:     standing.Streak,
			EntryCount: standing.EntryCount,
			JoinedAt:   standing.JoinedAt,
		}
	}

	return &dto.LeaderboardResponse{
		ChallengeID: challenge.ID,
		Rows:        rows,
		GeneratedAt: time.Now().UTC(),
	}, nil
}
