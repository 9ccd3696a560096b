package seed

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	appModels "github.com/huddleapp/huddle/internal/app/models"
	appRepos "github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/engine"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/helpers"
)

// CreateDefaultData seeds a demo challenge with a couple of members and a
// short check-in history, so a fresh database has something to look at.
// Safe to run repeatedly: the slug lookup short-circuits when the demo data
// is already there.
func CreateDefaultData(ctx context.Context, dbPool *pgxpool.Pool, lgr zerolog.Logger) error {
	challengeRepo := appRepos.NewChallengeRepository(dbPool)
	membershipRepo := appRepos.NewMembershipRepository(dbPool)
	entryRepo := appRepos.NewEntryRepository(dbPool)
	userRepo := appRepos.NewUserRepository(dbPool)

	const demoSlug = "demo-thirty-days-of-walking"

	if _, err := challengeRepo.GetBySlug(ctx, demoSlug); err == nil {
		lgr.Debug().Msg("Demo data already present, skipping seed")
		return nil
	} else if !errors.Is(err, apperrors.ErrChallengeNotFound) {
		return err
	}

	lgr.Info().Msg("Seeding demo challenge...")

	demoUsers := []*appModels.User{
		{ID: "demo_user_maya", DisplayName: "Maya"},
		{ID: "demo_user_jonas", DisplayName: "Jonas"},
	}
	for _, user := range demoUsers {
		if err := userRepo.Upsert(ctx, user); err != nil {
			return err
		}
	}

	today := helpers.Today()
	description := "Walk at least 6000 steps every day for a month."
	goal := 6000
	unit := "steps"

	challenge := &appModels.Challenge{
		ID:          uuid.New(),
		Slug:        demoSlug,
		Title:       "Thirty Days of Walking",
		Description: &description,
		Category:    "fitness",
		Frequency:   engine.FrequencyDaily,
		StartDate:   today.AddDate(0, 0, -7),
		EndDate:     today.AddDate(0, 0, 23),
		GoalNumeric: &goal,
		UnitLabel:   &unit,
		IsPublic:    true,
		OwnerID:     demoUsers[0].ID,
	}
	if err := challengeRepo.Create(ctx, dbPool, challenge); err != nil {
		return err
	}

	var finalErr error
	for i, user := range demoUsers {
		membership := &appModels.Membership{
			ID:          uuid.New(),
			ChallengeID: challenge.ID,
			UserID:      user.ID,
		}
		if err := membershipRepo.Create(ctx, dbPool, membership); err != nil {
			lgr.Error().Err(err).Str("userId", user.ID).Msg("Error creating demo membership")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		// Give the first member a 3-day streak and the second a broken one,
		// so the leaderboard and feed show something non-trivial.
		historyDays := []int{-2, -1, 0}
		if i == 1 {
			historyDays = []int{-4, -3}
		}

		for _, offset := range historyDays {
			day := today.AddDate(0, 0, offset)
			steps := 6000 + 250*offset
			entry := &appModels.Entry{
				ID:           uuid.New(),
				MembershipID: membership.ID,
				EntryDate:    day,
				ValueNumeric: &steps,
			}
			if err := entryRepo.Insert(ctx, dbPool, entry); err != nil {
				lgr.Error().Err(err).Str("userId", user.ID).Msg("Error creating demo entry")
				finalErr = errors.Join(finalErr, err)
			}
		}

		// Derive the cached streak by replaying what actually landed in the
		// ledger rather than what we intended to insert.
		dates, err := entryRepo.ListDatesByMembership(ctx, membership.ID)
		if err != nil {
			lgr.Error().Err(err).Str("userId", user.ID).Msg("Error replaying demo entries")
			finalErr = errors.Join(finalErr, err)
			continue
		}

		state := engine.FromHistory(dates, challenge.Frequency)
		if err := membershipRepo.UpdateStreak(ctx, dbPool, membership.ID, state.Streak, state.LastCheckin); err != nil {
			lgr.Error().Err(err).Str("userId", user.ID).Msg("Error updating demo streak")
			finalErr = errors.Join(finalErr, err)
		}
	}

	if finalErr == nil {
		lgr.Info().Str("slug", demoSlug).Msg("Demo challenge seeded")
	}
	return finalErr
}
