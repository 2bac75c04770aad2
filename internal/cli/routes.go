package cli

import (
	"context"
	"net/http"
	_ "net/http/pprof"
	"time"

	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/handlers"
	"greenCommuteAPI/internal/config"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/middleware"
	"greenCommuteAPI/services"
)

type apiDeps struct {
	cfg   *config.Config
	log   logrus.FieldLogger
	store repository.Store

	users         *services.UserService
	streaks       *services.StreakService
	achievements  *services.AchievementService
	battles       *services.BattleService
	journeys      *services.JourneyService
	locations     *services.LocationService
	leaderboards  *services.LeaderboardService
	notifications *services.NotificationService

	limiter     *middleware.RateLimiter
	verifyToken middleware.TokenVerifier
}

func newRouter(d *apiDeps) (http.Handler, error) {
	userHandler := handlers.NewUserHandler(d.users, d.streaks, d.log)
	journeyHandler := handlers.NewJourneyHandler(d.journeys, d.log)
	locationHandler := handlers.NewLocationHandler(d.locations, d.log)
	achievementHandler := handlers.NewAchievementHandler(d.achievements, d.log)
	leaderboardHandler := handlers.NewLeaderboardHandler(d.leaderboards, d.log)
	battleHandler := handlers.NewBattleHandler(d.battles, d.log)
	notificationHandler := handlers.NewNotificationHandler(d.notifications, d.log)
	webhookHandler, err := handlers.NewWebhookHandler(d.users, d.cfg.ClerkWebhookSecret, d.log)
	if err != nil {
		return nil, err
	}

	r := mux.NewRouter()
	r.Use(middleware.RequestLogger(d.log))
	r.Use(d.limiter.Middleware)
	r.Use(middleware.MonitorMiddleware)

	r.Handle("/metrics", middleware.BasicAuthMiddleware(d.cfg.MetricsUser, d.cfg.MetricsPass)(promhttp.Handler()))
	if d.cfg.PprofSecret != "" {
		r.PathPrefix("/debug/pprof/").Handler(middleware.PprofSecurityMiddleware(d.cfg.PprofSecret)(http.DefaultServeMux))
	}

	r.HandleFunc("/health", healthHandler(d.store)).Methods("GET")
	r.HandleFunc("/webhooks/clerk", webhookHandler.HandleClerkWebhook).Methods("POST")

	api := r.PathPrefix("/api/v1").Subrouter()
	api.HandleFunc("/calculate", journeyHandler.Calculate).Methods("POST")
	api.HandleFunc("/locations", locationHandler.ListLocations).Methods("GET")
	api.HandleFunc("/locations/distance", locationHandler.Distance).Methods("GET")

	// PROTECTED ROUTES (REQUIRE AUTH HEADER)
	protected := api.PathPrefix("").Subrouter()
	protected.Use(middleware.ClerkAuthMiddleware(d.verifyToken, d.log))

	protected.HandleFunc("/user", userHandler.GetProfile).Methods("GET")
	protected.HandleFunc("/user/update-profile", userHandler.UpdateProfile).Methods("PUT")
	protected.HandleFunc("/user/delete-account", userHandler.DeleteAccount).Methods("DELETE")

	// Routes below act on the caller's internal user id.
	member := protected.PathPrefix("").Subrouter()
	member.Use(middleware.ResolveUser(d.users, d.log))

	member.HandleFunc("/user/summary", userHandler.GetSummary).Methods("GET")
	member.HandleFunc("/user/goal", userHandler.SetWeeklyGoal).Methods("PUT")
	member.HandleFunc("/user/streak", userHandler.GetStreak).Methods("GET")

	member.HandleFunc("/journeys", journeyHandler.LogJourney).Methods("POST")
	member.HandleFunc("/journeys", journeyHandler.ListJourneys).Methods("GET")

	member.HandleFunc("/achievements", achievementHandler.GetAchievements).Methods("GET")
	member.HandleFunc("/leaderboards", leaderboardHandler.GetLeaderboards).Methods("GET")

	member.HandleFunc("/battles", battleHandler.ListBattles).Methods("GET")
	member.HandleFunc("/battles", battleHandler.CreateBattle).Methods("POST")
	member.HandleFunc("/battles/update-scores", battleHandler.UpdateScores).Methods("POST")
	member.HandleFunc("/battles/search-users", battleHandler.SearchUsers).Methods("GET")
	member.HandleFunc("/battles/{id}/accept", battleHandler.AcceptBattle).Methods("POST")
	member.HandleFunc("/battles/{id}/decline", battleHandler.DeclineBattle).Methods("POST")

	member.HandleFunc("/notifications", notificationHandler.GetNotifications).Methods("GET")
	member.HandleFunc("/notifications/{id}/read", notificationHandler.MarkAsRead).Methods("PUT")
	member.HandleFunc("/notifications/register-device", notificationHandler.RegisterDevice).Methods("POST")
	member.HandleFunc("/notifications/register-device", notificationHandler.UnregisterDevice).Methods("DELETE")

	corsHandler := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins([]string{"*"}),
		gorillaHandlers.AllowedMethods([]string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization", "X-Pprof-Secret"}),
		gorillaHandlers.ExposedHeaders([]string{"Content-Length"}),
	)

	return corsHandler(r), nil
}

func healthHandler(store repository.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := store.Ping(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status": "unhealthy", "error": "database connection failed"}`))
			return
		}

		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status": "healthy", "service": "greencommute-api"}`))
	}
}
