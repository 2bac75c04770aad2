package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/metrics"
	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/repository"
)

type AchievementService struct {
	store         repository.Store
	clock         clock.Clock
	notifications *NotificationService
	log           logrus.FieldLogger
}

func NewAchievementService(store repository.Store, clk clock.Clock, notifications *NotificationService, log logrus.FieldLogger) *AchievementService {
	return &AchievementService{store: store, clock: clk, notifications: notifications, log: log}
}

// Evaluate awards every achievement the user's current stats meet and that
// the user does not hold yet. Only the awards made by this call are returned.
func (s *AchievementService) Evaluate(ctx context.Context, userID uuid.UUID) ([]achievement.Achievement, error) {
	var earned []achievement.Achievement
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := requireUser(ctx, q, userID); err != nil {
			return err
		}
		var err error
		earned, err = evaluateAchievements(ctx, q, userID, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}

	s.announce(ctx, userID, earned)
	return earned, nil
}

func (s *AchievementService) List(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	return s.store.ListAchievementsWithStatus(ctx, userID)
}

// Seed loads catalog into the store, updating entries that share a key.
func (s *AchievementService) Seed(ctx context.Context, catalog []achievement.Achievement) error {
	for _, a := range catalog {
		if !a.ThresholdType.Valid() {
			return fmt.Errorf("achievement %s: unknown threshold type %q", a.Key, a.ThresholdType)
		}
	}
	return s.store.UpsertAchievements(ctx, catalog)
}

// announce counts and notifies awards after their transaction committed.
func (s *AchievementService) announce(ctx context.Context, userID uuid.UUID, earned []achievement.Achievement) {
	for _, a := range earned {
		metrics.AchievementsUnlocked.WithLabelValues(a.Key).Inc()
		s.notifications.NotifyQuietly(ctx, &notification.CreateNotificationRequest{
			UserID:  userID,
			Type:    notification.NotificationAchievement,
			Title:   "Achievement unlocked!",
			Message: fmt.Sprintf("%s %s: %s", a.Icon, a.Title, a.Description),
			Data:    map[string]any{"achievement_key": a.Key},
		})
	}
}

func evaluateAchievements(ctx context.Context, q repository.Queries, userID uuid.UUID, now time.Time) ([]achievement.Achievement, error) {
	candidates, err := q.ListUnearnedAchievements(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	totals, err := q.JourneyTotals(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, err := currentStreak(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	snapshot := achievement.Stats{
		JourneyCount:      totals.JourneyCount,
		TotalCO2SavedG:    totals.TotalCO2SavedG,
		TotalCaloriesKcal: totals.TotalCaloriesKcal,
		CurrentStreak:     st.CurrentStreak,
	}

	var earned []achievement.Achievement
	for _, a := range achievement.Qualifying(candidates, snapshot) {
		inserted, err := q.AwardAchievement(ctx, userID, a.ID, now)
		if err != nil {
			return nil, err
		}
		if inserted {
			earned = append(earned, a)
		}
	}
	return earned, nil
}
