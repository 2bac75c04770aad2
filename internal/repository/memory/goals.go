package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/leaderboard"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/stats"
)

func (q *queries) UpsertWeeklyGoal(_ context.Context, g *stats.WeeklyGoal) error {
	defer q.lock()()

	g.WeekStart = clock.DateOf(g.WeekStart)
	q.st().goals[goalKey{g.UserID, g.WeekStart}] = *g
	return nil
}

func (q *queries) GetWeeklyGoal(_ context.Context, userID uuid.UUID, weekStart time.Time) (*stats.WeeklyGoal, error) {
	defer q.lock()()

	g, ok := q.st().goals[goalKey{userID, clock.DateOf(weekStart)}]
	if !ok {
		return nil, fmt.Errorf("weekly goal: %w", repository.ErrNotFound)
	}
	return &g, nil
}

func (q *queries) TopCO2Savers(_ context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error) {
	defer q.lock()()

	return q.topBy(limit, func(r journeyRow) float64 { return r.result.VsDriveCO2SavedG }), nil
}

func (q *queries) TopCalorieBurners(_ context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error) {
	defer q.lock()()

	return q.topBy(limit, func(r journeyRow) float64 { return r.result.CaloriesKcal }), nil
}

func (q *queries) TopStreaks(_ context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error) {
	defer q.lock()()
	st := q.st()

	var entries []*leaderboard.LeaderboardEntry
	for userID, s := range st.streaks {
		u, ok := st.users[userID]
		if !ok || s.BestStreak <= 0 {
			continue
		}
		entries = append(entries, q.entry(u.ID, float64(s.BestStreak)))
	}
	return rankTop(entries, limit), nil
}

func (q *queries) topBy(limit int, value func(journeyRow) float64) []*leaderboard.LeaderboardEntry {
	st := q.st()

	sums := make(map[uuid.UUID]decimal.Decimal)
	for _, r := range st.journeys {
		sums[r.journey.UserID] = sums[r.journey.UserID].Add(decimal.NewFromFloat(value(r)))
	}

	var entries []*leaderboard.LeaderboardEntry
	for userID, sum := range sums {
		if _, ok := st.users[userID]; !ok || !sum.IsPositive() {
			continue
		}
		entries = append(entries, q.entry(userID, sum.InexactFloat64()))
	}
	return rankTop(entries, limit)
}

func (q *queries) entry(userID uuid.UUID, value float64) *leaderboard.LeaderboardEntry {
	st := q.st()
	u := st.users[userID]

	e := &leaderboard.LeaderboardEntry{
		UserID:        userID,
		Username:      u.Username,
		Value:         value,
		CurrentStreak: st.streaks[userID].CurrentStreak,
	}
	if u.ImageURL != "" {
		img := u.ImageURL
		e.ImageURL = &img
	}
	return e
}

func rankTop(entries []*leaderboard.LeaderboardEntry, limit int) []*leaderboard.LeaderboardEntry {
	slices.SortFunc(entries, func(a, b *leaderboard.LeaderboardEntry) int {
		if c := cmp.Compare(b.Value, a.Value); c != 0 {
			return c
		}
		if c := cmp.Compare(b.CurrentStreak, a.CurrentStreak); c != 0 {
			return c
		}
		return cmp.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return leaderboard.Rank(entries)
}
