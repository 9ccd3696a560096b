package services

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/huddleapp/huddle/internal/app/models"
	"github.com/huddleapp/huddle/internal/app/models/dto"
	"github.com/huddleapp/huddle/internal/app/repositories"
	"github.com/huddleapp/huddle/internal/db"
	"github.com/huddleapp/huddle/internal/engine"
	"github.com/huddleapp/huddle/internal/pkg/apperrors"
	"github.com/huddleapp/huddle/internal/pkg/filestorage"
	"github.com/huddleapp/huddle/internal/pkg/helpers"
)

type fakeChallenges struct {
	challenge *models.Challenge
}

func (f *fakeChallenges) GetBySlug(ctx context.Context, slug string) (*models.Challenge, error) {
	if f.challenge == nil || f.challenge.Slug != slug {
		return nil, apperrors.ErrChallengeNotFound
	}
	return f.challenge, nil
}

type fakeMemberships struct {
	membership *models.Membership

	updateCalls   int
	updatedStreak int
	updatedLast   *time.Time
}

func (f *fakeMemberships) GetByChallengeAndUser(ctx context.Context, challengeID uuid.UUID, userID string) (*models.Membership, error) {
	if f.membership == nil || f.membership.ChallengeID != challengeID || f.membership.UserID != userID {
		return nil, apperrors.ErrMembershipNotFound
	}
	return f.membership, nil
}

func (f *fakeMemberships) UpdateStreak(ctx context.Context, q repositories.Querier, id uuid.UUID, streak int, lastCheckin *time.Time) error {
	f.updateCalls++
	f.updatedStreak = streak
	f.updatedLast = lastCheckin
	return nil
}

type fakeEntries struct {
	existing  map[string]*models.Entry // keyed by YYYY-MM-DD
	inserted  []*models.Entry
	insertErr error
}

func (f *fakeEntries) Insert(ctx context.Context, q repositories.Querier, entry *models.Entry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.inserted = append(f.inserted, entry)
	return nil
}

func (f *fakeEntries) GetByMembershipAndDate(ctx context.Context, membershipID uuid.UUID, day time.Time) (*models.Entry, error) {
	if entry, ok := f.existing[helpers.FormatDate(day)]; ok {
		return entry, nil
	}
	return nil, apperrors.ErrEntryNotFound
}

type fakeTx struct{}

func (fakeTx) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	return fn(ctx, nil)
}

type fakePhotos struct {
	uploads int
	deleted []string
}

func (f *fakePhotos) Upload(fileHeader *multipart.FileHeader, ownerID string) (*filestorage.UploadResult, error) {
	f.uploads++
	return &filestorage.UploadResult{URL: "http://localhost/photos/p.jpg", Path: ownerID + "/p.jpg"}, nil
}

func (f *fakePhotos) Delete(path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

type checkinFixture struct {
	challenges  *fakeChallenges
	memberships *fakeMemberships
	entries     *fakeEntries
	photos      *fakePhotos
	service     CheckinService
	identity    *models.Identity
}

func newCheckinFixture(streak int, lastCheckin *time.Time) *checkinFixture {
	challengeID := uuid.New()
	membershipID := uuid.New()
	today := helpers.Today()

	f := &checkinFixture{
		challenges: &fakeChallenges{
			challenge: &models.Challenge{
				ID:        challengeID,
				Slug:      "morning-run",
				Title:     "Morning Run",
				Frequency: engine.FrequencyDaily,
				StartDate: today.AddDate(-1, 0, 0),
				EndDate:   today.AddDate(1, 0, 0),
				OwnerID:   "user_owner",
			},
		},
		memberships: &fakeMemberships{
			membership: &models.Membership{
				ID:          membershipID,
				ChallengeID: challengeID,
				UserID:      "user_alice",
				Streak:      streak,
				LastCheckin: lastCheckin,
				JoinedAt:    today.AddDate(0, -1, 0),
			},
		},
		entries:  &fakeEntries{existing: map[string]*models.Entry{}},
		photos:   &fakePhotos{},
		identity: &models.Identity{UserID: "user_alice", DisplayName: "Alice"},
	}

	f.service = NewCheckinService(f.challenges, f.memberships, f.entries, f.photos, fakeTx{}, zerolog.Nop())
	return f
}

func TestSubmitCheckinFirstEver(t *testing.T) {
	f := newCheckinFixture(0, nil)

	resp, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", &dto.CheckinRequest{}, nil)
	if err != nil {
		t.Fatalf("SubmitCheckin: %v", err)
	}

	if resp.Streak != 1 {
		t.Errorf("streak = %d, want 1", resp.Streak)
	}
	if len(f.entries.inserted) != 1 {
		t.Fatalf("inserted %d entries, want 1", len(f.entries.inserted))
	}
	if got := f.entries.inserted[0].EntryDate; !got.Equal(helpers.Today()) {
		t.Errorf("entry date = %v, want today", got)
	}
	if f.memberships.updateCalls != 1 || f.memberships.updatedStreak != 1 {
		t.Errorf("membership update calls=%d streak=%d, want 1/1", f.memberships.updateCalls, f.memberships.updatedStreak)
	}
}

func TestSubmitCheckinExtendsStreak(t *testing.T) {
	yesterday := helpers.Today().AddDate(0, 0, -1)
	f := newCheckinFixture(3, &yesterday)

	resp, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", &dto.CheckinRequest{}, nil)
	if err != nil {
		t.Fatalf("SubmitCheckin: %v", err)
	}

	if resp.Streak != 4 {
		t.Errorf("streak = %d, want 4", resp.Streak)
	}
	if f.memberships.updatedStreak != 4 {
		t.Errorf("stored streak = %d, want 4", f.memberships.updatedStreak)
	}
	if f.memberships.updatedLast == nil || !f.memberships.updatedLast.Equal(helpers.Today()) {
		t.Errorf("stored lastCheckin = %v, want today", f.memberships.updatedLast)
	}
}

func TestSubmitCheckinAfterGapResets(t *testing.T) {
	threeDaysAgo := helpers.Today().AddDate(0, 0, -3)
	f := newCheckinFixture(7, &threeDaysAgo)

	resp, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", &dto.CheckinRequest{}, nil)
	if err != nil {
		t.Fatalf("SubmitCheckin: %v", err)
	}

	if resp.Streak != 1 {
		t.Errorf("streak = %d, want 1 after a gap", resp.Streak)
	}
}

func TestSubmitCheckinDuplicateDay(t *testing.T) {
	f := newCheckinFixture(2, nil)
	f.entries.existing[helpers.FormatDate(helpers.Today())] = &models.Entry{ID: uuid.New()}

	_, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", &dto.CheckinRequest{}, nil)
	if !errors.Is(err, apperrors.ErrAlreadyCheckedIn) {
		t.Fatalf("err = %v, want ErrAlreadyCheckedIn", err)
	}

	if len(f.entries.inserted) != 0 {
		t.Errorf("inserted %d entries, want 0", len(f.entries.inserted))
	}
	if f.memberships.updateCalls != 0 {
		t.Errorf("membership updated %d times, want 0", f.memberships.updateCalls)
	}
}

func TestSubmitCheckinNotAMember(t *testing.T) {
	f := newCheckinFixture(0, nil)
	stranger := &models.Identity{UserID: "user_mallory", DisplayName: "Mallory"}

	_, err := f.service.SubmitCheckin(context.Background(), stranger, "morning-run", &dto.CheckinRequest{}, nil)
	if !errors.Is(err, apperrors.ErrNotAMember) {
		t.Fatalf("err = %v, want ErrNotAMember", err)
	}
	if len(f.entries.inserted) != 0 {
		t.Errorf("inserted %d entries, want 0", len(f.entries.inserted))
	}
}

func TestSubmitCheckinOutsideWindow(t *testing.T) {
	f := newCheckinFixture(0, nil)
	beforeStart := f.challenges.challenge.StartDate.AddDate(0, 0, -1)

	req := &dto.CheckinRequest{EntryDate: helpers.FormatDate(beforeStart)}
	_, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", req, nil)
	if !errors.Is(err, apperrors.ErrChallengeNotActive) {
		t.Fatalf("err = %v, want ErrChallengeNotActive", err)
	}
}

func TestSubmitCheckinOnLastDayOfWindow(t *testing.T) {
	// Both window bounds are inclusive: a check-in dated exactly end_date
	// must be accepted.
	f := newCheckinFixture(0, nil)
	lastDay := f.challenges.challenge.EndDate

	req := &dto.CheckinRequest{EntryDate: helpers.FormatDate(lastDay)}
	resp, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", req, nil)
	if err != nil {
		t.Fatalf("SubmitCheckin on end_date: %v", err)
	}
	if resp.Entry.EntryDate != helpers.FormatDate(lastDay) {
		t.Errorf("entry date = %s, want %s", resp.Entry.EntryDate, helpers.FormatDate(lastDay))
	}

	dayAfter := lastDay.AddDate(0, 0, 1)
	req = &dto.CheckinRequest{EntryDate: helpers.FormatDate(dayAfter)}
	_, err = f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", req, nil)
	if !errors.Is(err, apperrors.ErrChallengeNotActive) {
		t.Fatalf("err = %v, want ErrChallengeNotActive past end_date", err)
	}
}

func TestSubmitCheckinRejectsBadDate(t *testing.T) {
	f := newCheckinFixture(0, nil)

	req := &dto.CheckinRequest{EntryDate: "29-08-2026"}
	_, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", req, nil)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want a validation error", err)
	}
}

func TestSubmitCheckinRejectsLongNote(t *testing.T) {
	f := newCheckinFixture(0, nil)
	note := strings.Repeat("x", models.MaxNoteLength+1)

	req := &dto.CheckinRequest{Note: &note}
	_, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", req, nil)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want a validation error", err)
	}
}

func TestSubmitCheckinRejectsNegativeValue(t *testing.T) {
	f := newCheckinFixture(0, nil)
	value := -5

	req := &dto.CheckinRequest{ValueNumeric: &value}
	_, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", req, nil)
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want a validation error", err)
	}
	if len(f.entries.inserted) != 0 {
		t.Errorf("entry inserted %d times, want 0", len(f.entries.inserted))
	}
}

func TestSubmitCheckinInsertRaceLosesCleanly(t *testing.T) {
	// The duplicate pre-check passed, but the ledger constraint fired on
	// insert: the caller sees the conflict and no streak update happens.
	f := newCheckinFixture(2, nil)
	f.entries.insertErr = apperrors.ErrAlreadyCheckedIn

	_, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", &dto.CheckinRequest{}, nil)
	if !errors.Is(err, apperrors.ErrAlreadyCheckedIn) {
		t.Fatalf("err = %v, want ErrAlreadyCheckedIn", err)
	}
	if f.memberships.updateCalls != 0 {
		t.Errorf("membership updated %d times, want 0", f.memberships.updateCalls)
	}
}

func TestSubmitCheckinDiscardsPhotoOnFailedInsert(t *testing.T) {
	f := newCheckinFixture(0, nil)
	f.entries.insertErr = apperrors.ErrAlreadyCheckedIn

	photo := &multipart.FileHeader{Filename: "run.jpg"}
	_, err := f.service.SubmitCheckin(context.Background(), f.identity, "morning-run", &dto.CheckinRequest{}, photo)
	if !errors.Is(err, apperrors.ErrAlreadyCheckedIn) {
		t.Fatalf("err = %v, want ErrAlreadyCheckedIn", err)
	}

	if f.photos.uploads != 1 {
		t.Fatalf("uploads = %d, want 1", f.photos.uploads)
	}
	if len(f.photos.deleted) != 1 {
		t.Errorf("deleted %d photos, want the orphan removed", len(f.photos.deleted))
	}
}

func TestSubmitCheckinUnknownChallenge(t *testing.T) {
	f := newCheckinFixture(0, nil)

	_, err := f.service.SubmitCheckin(context.Background(), f.identity, "no-such-slug", &dto.CheckinRequest{}, nil)
	if !errors.Is(err, apperrors.ErrChallengeNotFound) {
		t.Fatalf("err = %v, want ErrChallengeNotFound", err)
	}
}
