package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/battle"
	"greenCommuteAPI/internal/impact"
	"greenCommuteAPI/internal/journey"
	"greenCommuteAPI/internal/location"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/user"
)

var day = time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

func seedUser(t *testing.T, s *Store, name string) *user.User {
	t.Helper()
	u, err := s.CreateUser(context.Background(), &user.User{
		ClerkID:   "clerk_" + name,
		Username:  name,
		CreatedAt: day,
	})
	require.NoError(t, err)
	return u
}

func logJourney(t *testing.T, q repository.Queries, userID uuid.UUID, date time.Time, km float64, mode impact.Mode) {
	t.Helper()
	calc, err := impact.Calculate(km, mode)
	require.NoError(t, err)
	require.NoError(t, q.InsertJourney(context.Background(), &journey.Journey{
		UserID: userID, Date: date, DistanceKm: km, Mode: mode, CreatedAt: date,
	}, calc))
}

func TestCreateUserUpsertsOnClerkID(t *testing.T) {
	ctx := context.Background()
	s := New()
	first := seedUser(t, s, "ana")

	again, err := s.CreateUser(ctx, &user.User{ClerkID: "clerk_ana", Username: "ana2"})
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, "ana2", again.Username)
}

func TestFindUserByNameIsCaseInsensitiveAndExcludes(t *testing.T) {
	ctx := context.Background()
	s := New()
	ana := seedUser(t, s, "Ana")

	got, err := s.FindUserByName(ctx, "ana", uuid.New())
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	_, err = s.FindUserByName(ctx, "ANA", ana.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestInTxRollsBackOnError(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := seedUser(t, s, "ana")
	boom := errors.New("boom")

	err := s.InTx(ctx, func(q repository.Queries) error {
		logJourney(t, q, u.ID, day, 5, impact.ModeCycle)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	totals, err := s.JourneyTotals(ctx, u.ID)
	require.NoError(t, err)
	assert.Zero(t, totals.JourneyCount)
}

func TestSumCO2SavedWindowAndDrive(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := seedUser(t, s, "ana")

	logJourney(t, s, u.ID, day.AddDate(0, 0, -1), 5, impact.ModeCycle)
	logJourney(t, s, u.ID, day, 5, impact.ModeCycle)
	logJourney(t, s, u.ID, day, 5, impact.ModeDrive)
	logJourney(t, s, u.ID, day.AddDate(0, 0, 7), 10, impact.ModeWalk)

	sum, err := s.SumCO2Saved(ctx, u.ID, day, day.AddDate(0, 0, 7), false)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(850+1700).Equal(sum), sum.String())

	withDrive, err := s.SumCO2Saved(ctx, u.ID, day, day, true)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(850).Equal(withDrive), withDrive.String())
}

func TestAwardAchievementOnce(t *testing.T) {
	ctx := context.Background()
	s := New()
	u := seedUser(t, s, "ana")
	require.NoError(t, s.UpsertAchievements(ctx, achievement.DefaultCatalog))

	unearned, err := s.ListUnearnedAchievements(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, unearned, len(achievement.DefaultCatalog))

	inserted, err := s.AwardAchievement(ctx, u.ID, unearned[0].ID, day)
	require.NoError(t, err)
	assert.True(t, inserted)
	inserted, err = s.AwardAchievement(ctx, u.ID, unearned[0].ID, day)
	require.NoError(t, err)
	assert.False(t, inserted)

	left, err := s.ListUnearnedAchievements(ctx, u.ID)
	require.NoError(t, err)
	assert.Len(t, left, len(achievement.DefaultCatalog)-1)
}

func TestInsertBattleRejectsSecondOpenBattleForPair(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, b := seedUser(t, s, "ana"), seedUser(t, s, "bo")

	first, err := battle.New(a.ID, b.ID, day, 7, battle.ModeInstant)
	require.NoError(t, err)
	require.NoError(t, s.InsertBattle(ctx, first))

	reverse, err := battle.New(b.ID, a.ID, day, 7, battle.ModeInvite)
	require.NoError(t, err)
	assert.ErrorIs(t, s.InsertBattle(ctx, reverse), repository.ErrDuplicate)

	open, err := s.FindOpenBattle(ctx, b.ID, a.ID)
	require.NoError(t, err)
	assert.Equal(t, first.ID, open.ID)
}

func TestListBattlesNewestFirstWithNames(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, b, c := seedUser(t, s, "ana"), seedUser(t, s, "bo"), seedUser(t, s, "cy")

	older, _ := battle.New(a.ID, b.ID, day, 7, battle.ModeInstant)
	older.CreatedAt = day
	newer, _ := battle.New(c.ID, a.ID, day, 7, battle.ModeInstant)
	newer.CreatedAt = day.Add(time.Hour)
	require.NoError(t, s.InsertBattle(ctx, older))
	require.NoError(t, s.InsertBattle(ctx, newer))

	views, err := s.ListBattles(ctx, a.ID, 20)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, newer.ID, views[0].ID)
	assert.Equal(t, "cy", views[0].ChallengerName)
	assert.Equal(t, "ana", views[0].OpponentName)

	ids, err := s.ListBattleIDs(ctx, b.ID, battle.StatusActive)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{older.ID}, ids)
}

func TestLeaderboardsSkipZeroValues(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, b, c := seedUser(t, s, "ana"), seedUser(t, s, "bo"), seedUser(t, s, "cy")

	logJourney(t, s, a.ID, day, 5, impact.ModeCycle)
	logJourney(t, s, b.ID, day, 10, impact.ModeWalk)
	logJourney(t, s, c.ID, day, 5, impact.ModeDrive)

	top, err := s.TopCO2Savers(ctx, 10)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "bo", top[0].Username)
	assert.Equal(t, 1, top[0].Rank)
	assert.Equal(t, 1700.0, top[0].Value)
	assert.Equal(t, "ana", top[1].Username)

	streaks, err := s.TopStreaks(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, streaks)
}

func TestDeleteUserCascades(t *testing.T) {
	ctx := context.Background()
	s := New()
	a, b := seedUser(t, s, "ana"), seedUser(t, s, "bo")
	logJourney(t, s, a.ID, day, 5, impact.ModeCycle)
	fight, _ := battle.New(a.ID, b.ID, day, 7, battle.ModeInstant)
	require.NoError(t, s.InsertBattle(ctx, fight))

	require.NoError(t, s.DeleteUserByClerkID(ctx, "clerk_ana"))

	_, err := s.GetUserByID(ctx, a.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	_, err = s.GetBattle(ctx, fight.ID)
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, s.DeleteUserByClerkID(ctx, "clerk_ana"), repository.ErrNotFound)
}

func TestUpsertLocationsKeepsIDAndCopiesCoordinates(t *testing.T) {
	ctx := context.Background()
	s := New()

	lat, lng := 57.1, -2.1
	require.NoError(t, s.UpsertLocations(ctx, []location.Location{
		{Key: "work", Name: "Work", Category: location.CategoryGeneric},
		{Key: "pier", Name: "Pier", Category: location.CategoryAberdeen, Lat: &lat, Lng: &lng},
	}))
	lat = 0

	all, err := s.ListLocations(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Pier", all[0].Name)
	assert.Equal(t, 57.1, *all[0].Lat)

	require.NoError(t, s.UpsertLocations(ctx, []location.Location{{Key: "work", Name: "Office", Category: location.CategoryGeneric}}))
	got, err := s.GetLocation(ctx, all[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "Office", got.Name)

	_, err = s.GetLocation(ctx, uuid.New())
	assert.True(t, errors.Is(err, repository.ErrNotFound))
}
