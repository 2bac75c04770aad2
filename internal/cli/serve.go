package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	clerk "github.com/clerk/clerk-sdk-go/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"greenCommuteAPI/internal/cache"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/config"
	"greenCommuteAPI/internal/metrics"
	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/validation"
	"greenCommuteAPI/middleware"
	"greenCommuteAPI/services"
)

func newServeCmd(rt *runtime) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, rt, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, rt *runtime, migrate bool) error {
	cfg, log := rt.cfg, rt.log

	if cfg.ClerkSecretKey == "" {
		return errors.New("CLERK_SECRET_KEY environment variable is not set")
	}
	clerk.SetKey(cfg.ClerkSecretKey)
	log.Info("Clerk initialized successfully")

	store, err := openStore(ctx, rt, migrate)
	if err != nil {
		return err
	}
	defer func() {
		log.Info("Closing storage...")
		store.Close()
	}()

	leaderboardCache, closeCache := openCache(ctx, rt)
	defer closeCache()

	clk := clock.System{}
	v := validation.New()

	notificationService := services.NewNotificationService(store, clk, v, log)
	defer notificationService.Stop()
	if fcm, err := notification.NewFCMService(ctx, cfg.FCMCredentialsJSON, cfg.FCMCredentialsFile, log); err != nil {
		log.WithError(err).Warn("Could not initialize FCM, push delivery disabled")
	} else {
		notificationService.SetPushProvider(fcm)
		log.Info("FCM Push Provider initialized successfully")
	}

	achievementService := services.NewAchievementService(store, clk, notificationService, log)
	locationService := services.NewLocationService(store, log)
	if cfg.StorageDriver == config.DriverMemory {
		if err := seedCatalog(ctx, rt, achievementService, locationService); err != nil {
			return err
		}
	}
	battleService := services.NewBattleService(store, clk, v, notificationService, log)

	deps := &apiDeps{
		cfg:           cfg,
		log:           log,
		store:         store,
		users:         services.NewUserService(store, clk, v, cfg.DefaultWeeklyGoalG, log),
		streaks:       services.NewStreakService(store, clk, log),
		achievements:  achievementService,
		battles:       battleService,
		journeys:      services.NewJourneyService(store, clk, v, achievementService, battleService, log),
		locations:     locationService,
		leaderboards:  services.NewLeaderboardService(store, leaderboardCache, cfg.LeaderboardTTL, log),
		notifications: notificationService,
		limiter:       middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst),
		verifyToken:   middleware.VerifyClerkToken,
	}

	metrics.Register(prometheus.DefaultRegisterer)
	middleware.RegisterMetrics(prometheus.DefaultRegisterer)

	router, err := newRouter(deps)
	if err != nil {
		return err
	}

	go deps.limiter.CleanupVisitors(ctx)

	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.WithField("addr", server.Addr).Info("Starting server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("Server shutdown error")
	}

	log.Info("Server shutdown complete")
	return nil
}

// openCache uses Redis when REDIS_URL is set and reachable, the in-process
// cache otherwise.
func openCache(ctx context.Context, rt *runtime) (cache.Cache, func()) {
	if rt.cfg.RedisURL == "" {
		return cache.NewMemory(), func() {}
	}

	rc, err := cache.NewRedis(ctx, rt.cfg.RedisURL, rt.log)
	if err != nil {
		rt.log.WithError(err).Warn("redis unavailable, caching leaderboards in memory")
		return cache.NewMemory(), func() {}
	}
	return rc, func() { rc.Close() }
}
