package streak

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(d int) time.Time {
	return time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
}

func TestAdvanceFromNoRecord(t *testing.T) {
	userID := uuid.New()

	next, changed := Advance(nil, userID, day(1))
	require.True(t, changed)
	assert.Equal(t, userID, next.UserID)
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 1, next.BestStreak)
	assert.Equal(t, day(1), *next.LastJourneyDate)
}

func TestAdvanceFromZeroRowKeepsBest(t *testing.T) {
	userID := uuid.New()
	zero := &Streak{UserID: userID, BestStreak: 4}

	next, changed := Advance(zero, userID, day(9))
	require.True(t, changed)
	assert.Equal(t, 1, next.CurrentStreak)
	assert.Equal(t, 4, next.BestStreak)
}

func TestAdvanceConsecutiveThenBroken(t *testing.T) {
	userID := uuid.New()

	s, _ := Advance(nil, userID, day(1))
	s, _ = Advance(&s, userID, day(2))
	s, _ = Advance(&s, userID, day(3))
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 3, s.BestStreak)

	s, changed := Advance(&s, userID, day(6))
	require.True(t, changed)
	assert.Equal(t, 1, s.CurrentStreak)
	assert.Equal(t, 3, s.BestStreak)
	assert.Equal(t, day(6), *s.LastJourneyDate)
}

func TestAdvanceSameDayIsNoop(t *testing.T) {
	userID := uuid.New()
	s, _ := Advance(nil, userID, day(1))
	s, _ = Advance(&s, userID, day(2))

	again, changed := Advance(&s, userID, day(2).Add(17*time.Hour))
	assert.False(t, changed)
	assert.Equal(t, s, again)
}

func TestAdvanceBackdatedIsNoop(t *testing.T) {
	userID := uuid.New()
	s, _ := Advance(nil, userID, day(5))

	again, changed := Advance(&s, userID, day(3))
	assert.False(t, changed)
	assert.Equal(t, s, again)
}

func TestAdvanceNormalisesTimeOfDay(t *testing.T) {
	userID := uuid.New()
	s, _ := Advance(nil, userID, day(1).Add(23*time.Hour+59*time.Minute))
	s, changed := Advance(&s, userID, day(2).Add(time.Minute))

	require.True(t, changed)
	assert.Equal(t, 2, s.CurrentStreak)
	assert.Equal(t, day(2), *s.LastJourneyDate)
}

func TestAdvanceNeverLowersBest(t *testing.T) {
	userID := uuid.New()
	s := Streak{UserID: userID, CurrentStreak: 2, BestStreak: 10}
	last := day(1)
	s.LastJourneyDate = &last

	s, _ = Advance(&s, userID, day(2))
	assert.Equal(t, 3, s.CurrentStreak)
	assert.Equal(t, 10, s.BestStreak)
}
