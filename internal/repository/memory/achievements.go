package memory

import (
	"cmp"
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/achievement"
)

func (q *queries) UpsertAchievements(_ context.Context, catalog []achievement.Achievement) error {
	defer q.lock()()
	st := q.st()

	for _, a := range catalog {
		i := slices.IndexFunc(st.achievements, func(e achievement.Achievement) bool { return e.Key == a.Key })
		if i >= 0 {
			a.ID = st.achievements[i].ID
			st.achievements[i] = a
			continue
		}
		if a.ID == uuid.Nil {
			a.ID = uuid.New()
		}
		st.achievements = append(st.achievements, a)
	}
	slices.SortStableFunc(st.achievements, catalogOrder)
	return nil
}

func (q *queries) ListUnearnedAchievements(_ context.Context, userID uuid.UUID) ([]achievement.Achievement, error) {
	defer q.lock()()
	st := q.st()

	var out []achievement.Achievement
	for _, a := range st.achievements {
		if _, earned := st.awards[awardKey{userID, a.ID}]; !earned {
			out = append(out, a)
		}
	}
	return out, nil
}

func (q *queries) AwardAchievement(_ context.Context, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	defer q.lock()()

	k := awardKey{userID, achievementID}
	if _, ok := q.st().awards[k]; ok {
		return false, nil
	}
	q.st().awards[k] = at
	return true, nil
}

func (q *queries) ListAchievementsWithStatus(_ context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	defer q.lock()()
	st := q.st()

	out := make([]*achievement.AchievementWithStatus, 0, len(st.achievements))
	for _, a := range st.achievements {
		item := &achievement.AchievementWithStatus{Achievement: a}
		if at, ok := st.awards[awardKey{userID, a.ID}]; ok {
			item.Earned = true
			item.EarnedAt = &at
		}
		out = append(out, item)
	}
	return out, nil
}

func catalogOrder(a, b achievement.Achievement) int {
	if c := cmp.Compare(a.ThresholdType, b.ThresholdType); c != 0 {
		return c
	}
	if c := cmp.Compare(a.ThresholdValue, b.ThresholdValue); c != 0 {
		return c
	}
	return cmp.Compare(a.Key, b.Key)
}
