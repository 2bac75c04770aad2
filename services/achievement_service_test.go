package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFiveJourneysEarnedExactlyOnce(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.newUser(t, "ana")

	seen := map[string]int{}
	for i := 0; i < 5; i++ {
		resp := h.log(t, u.ID, monday, 1, "walk")
		for _, k := range keys(resp.NewAchievements) {
			seen[k]++
		}
	}
	assert.Equal(t, 1, seen["first_journey"])
	assert.Equal(t, 1, seen["five_journeys"])
	for k, n := range seen {
		assert.Equal(t, 1, n, k)
	}

	again, err := h.achievements.Evaluate(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
	again, err = h.achievements.Evaluate(ctx, u.ID)
	require.NoError(t, err)
	assert.Empty(t, again)
}

func TestThresholdsUseCumulativeTotals(t *testing.T) {
	h := newHarness(t)
	u := h.newUser(t, "ana")

	resp := h.log(t, u.ID, monday, 10, "walk")

	// 10 km on foot saves 1700 g and burns 500 kcal.
	assert.ElementsMatch(t, []string{"first_journey", "co2_1kg", "calories_500"}, keys(resp.NewAchievements))
}

func TestListMarksEarned(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.newUser(t, "ana")
	h.log(t, u.ID, monday, 1, "cycle")

	list, err := h.achievements.List(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list, 12)

	earned := 0
	for _, a := range list {
		if a.Earned {
			earned++
			assert.Equal(t, "first_journey", a.Key)
			require.NotNil(t, a.EarnedAt)
		}
	}
	assert.Equal(t, 1, earned)
}

func TestAchievementNotificationStored(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	u := h.newUser(t, "ana")
	h.log(t, u.ID, monday, 1, "cycle")

	list, err := h.notifications.GetNotifications(ctx, u.ID)
	require.NoError(t, err)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, "Achievement unlocked!", list.Notifications[0].Title)
	assert.Equal(t, "first_journey", list.Notifications[0].Data["achievement_key"])
	assert.Equal(t, 1, list.UnreadCount)
}
