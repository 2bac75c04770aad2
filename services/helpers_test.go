package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/cache"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/journey"
	"greenCommuteAPI/internal/location"
	"greenCommuteAPI/internal/logger"
	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/repository/memory"
	"greenCommuteAPI/internal/user"
	"greenCommuteAPI/internal/validation"
)

// monday is the first day most scenarios start on.
var monday = time.Date(2026, 10, 12, 0, 0, 0, 0, time.UTC)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// setDay moves the clock to noon UTC of day.
func (c *fakeClock) setDay(day time.Time) {
	c.mu.Lock()
	c.now = clock.DateOf(day).Add(12 * time.Hour)
	c.mu.Unlock()
}

type recordingPush struct {
	mu    sync.Mutex
	sends []string
}

func (p *recordingPush) SendPush(_ context.Context, tokens []notification.DeviceToken, title, _ string, _ map[string]any) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, t := range tokens {
		p.sends = append(p.sends, t.Token+":"+title)
	}
	return nil
}

func (p *recordingPush) sent() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.sends...)
}

type harness struct {
	store         *memory.Store
	clock         *fakeClock
	users         *UserService
	streaks       *StreakService
	achievements  *AchievementService
	battles       *BattleService
	journeys      *JourneyService
	locations     *LocationService
	notifications *NotificationService
	leaderboards  *LeaderboardService
	push          *recordingPush
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	log := logger.Discard()
	store := memory.New()
	clk := &fakeClock{}
	clk.setDay(monday)
	v := validation.New()

	h := &harness{store: store, clock: clk, push: &recordingPush{}}
	h.notifications = NewNotificationService(store, clk, v, log)
	h.notifications.SetPushProvider(h.push)
	t.Cleanup(h.notifications.Stop)

	h.users = NewUserService(store, clk, v, 0, log)
	h.streaks = NewStreakService(store, clk, log)
	h.achievements = NewAchievementService(store, clk, h.notifications, log)
	h.battles = NewBattleService(store, clk, v, h.notifications, log)
	h.journeys = NewJourneyService(store, clk, v, h.achievements, h.battles, log)
	h.leaderboards = NewLeaderboardService(store, cache.NewMemory(), time.Minute, log)
	h.locations = NewLocationService(store, log)

	require.NoError(t, h.achievements.Seed(context.Background(), achievement.DefaultCatalog))
	require.NoError(t, h.locations.Seed(context.Background(), location.DefaultCatalog))
	return h
}

// locationID looks up a seeded location by key.
func (h *harness) locationID(t *testing.T, key string) uuid.UUID {
	t.Helper()
	all, err := h.locations.List(context.Background())
	require.NoError(t, err)
	for _, l := range all {
		if l.Key == key {
			return l.ID
		}
	}
	t.Fatalf("no location %q", key)
	return uuid.Nil
}

func (h *harness) newUser(t *testing.T, name string) *user.User {
	t.Helper()
	u, err := h.users.CreateUser(context.Background(), &user.CreateUserRequest{
		ClerkID:  "clerk_" + name,
		Username: name,
	})
	require.NoError(t, err)
	return u
}

// log records a journey on day (empty for today) and fails the test on error.
func (h *harness) log(t *testing.T, userID uuid.UUID, day time.Time, km float64, mode string) *journey.LogJourneyResponse {
	t.Helper()
	req := &journey.LogJourneyRequest{DistanceKm: km, Mode: mode}
	if !day.IsZero() {
		req.Date = clock.FormatDate(day)
	}
	resp, err := h.journeys.LogJourney(context.Background(), userID, req)
	require.NoError(t, err)
	return resp
}

func keys(earned []achievement.Achievement) []string {
	out := make([]string, len(earned))
	for i, a := range earned {
		out[i] = a.Key
	}
	return out
}
