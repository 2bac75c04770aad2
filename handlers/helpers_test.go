package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/require"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/cache"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/location"
	"greenCommuteAPI/internal/logger"
	"greenCommuteAPI/internal/repository/memory"
	"greenCommuteAPI/internal/user"
	"greenCommuteAPI/internal/validation"
	"greenCommuteAPI/middleware"
	"greenCommuteAPI/services"
)

// today is noon on a Monday.
var today = time.Date(2026, 10, 12, 12, 0, 0, 0, time.UTC)

const testClerkHeader = "X-Test-Clerk-Id"

type testAPI struct {
	router *mux.Router
	users  *services.UserService
}

// newTestAPI wires the handlers over the memory store. Requests authenticate
// by naming a Clerk id in testClerkHeader.
func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	log := logger.Discard()
	store := memory.New()
	clk := clock.Fixed{At: today}
	v := validation.New()

	notifications := services.NewNotificationService(store, clk, v, log)
	t.Cleanup(notifications.Stop)
	users := services.NewUserService(store, clk, v, 0, log)
	streaks := services.NewStreakService(store, clk, log)
	achievements := services.NewAchievementService(store, clk, notifications, log)
	battles := services.NewBattleService(store, clk, v, notifications, log)
	journeys := services.NewJourneyService(store, clk, v, achievements, battles, log)
	leaderboards := services.NewLeaderboardService(store, cache.NewMemory(), time.Minute, log)
	locations := services.NewLocationService(store, log)
	require.NoError(t, achievements.Seed(context.Background(), achievement.DefaultCatalog))
	require.NoError(t, locations.Seed(context.Background(), location.DefaultCatalog))

	journeyHandler := NewJourneyHandler(journeys, log)
	locationHandler := NewLocationHandler(locations, log)
	userHandler := NewUserHandler(users, streaks, log)
	battleHandler := NewBattleHandler(battles, log)
	notificationHandler := NewNotificationHandler(notifications, log)

	webhooks, err := NewWebhookHandler(users, testWebhookSecret, log)
	require.NoError(t, err)

	r := mux.NewRouter()
	r.HandleFunc("/webhooks/clerk", webhooks.HandleClerkWebhook).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/calculate", journeyHandler.Calculate).Methods("POST")
	api.HandleFunc("/locations", locationHandler.ListLocations).Methods("GET")
	api.HandleFunc("/locations/distance", locationHandler.Distance).Methods("GET")

	authed := api.PathPrefix("").Subrouter()
	authed.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(middleware.WithClerkID(r.Context(), r.Header.Get(testClerkHeader))))
		})
	})
	authed.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	authed.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	authed.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")

	resolved := authed.PathPrefix("").Subrouter()
	resolved.Use(middleware.ResolveUser(users, log))
	resolved.HandleFunc("/journeys", journeyHandler.LogJourney).Methods("POST")
	resolved.HandleFunc("/journeys", journeyHandler.ListJourneys).Methods("GET")
	resolved.HandleFunc("/user/summary", userHandler.GetSummary).Methods("GET")
	resolved.HandleFunc("/user/goal", userHandler.SetWeeklyGoal).Methods("PUT")
	resolved.HandleFunc("/user/streak", userHandler.GetStreak).Methods("GET")
	resolved.HandleFunc("/achievements", NewAchievementHandler(achievements, log).GetAchievements).Methods("GET")
	resolved.HandleFunc("/leaderboards", NewLeaderboardHandler(leaderboards, log).GetLeaderboards).Methods("GET")
	resolved.HandleFunc("/battles", battleHandler.ListBattles).Methods("GET")
	resolved.HandleFunc("/battles", battleHandler.CreateBattle).Methods("POST")
	resolved.HandleFunc("/battles/update-scores", battleHandler.UpdateScores).Methods("POST")
	resolved.HandleFunc("/battles/search-users", battleHandler.SearchUsers).Methods("GET")
	resolved.HandleFunc("/battles/{id}/accept", battleHandler.AcceptBattle).Methods("POST")
	resolved.HandleFunc("/battles/{id}/decline", battleHandler.DeclineBattle).Methods("POST")
	resolved.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	resolved.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	resolved.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")
	resolved.HandleFunc("/notifications/register-device", notificationHandler.UnregisterDevice).Methods("DELETE")

	return &testAPI{router: r, users: users}
}

func (a *testAPI) signUp(t *testing.T, name string) *user.User {
	t.Helper()
	u, err := a.users.CreateUser(context.Background(), &user.CreateUserRequest{ClerkID: "clerk_" + name, Username: name})
	require.NoError(t, err)
	return u
}

// do sends body (encoded as JSON unless it is a string) as the user name.
func (a *testAPI) do(t *testing.T, method, path, name string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if name != "" {
		req.Header.Set(testClerkHeader, "clerk_"+name)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}
