package services

import (
	"context"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/cache"
	"greenCommuteAPI/internal/leaderboard"
	"greenCommuteAPI/internal/repository"
)

const leaderboardsCacheKey = "leaderboards:global"

type LeaderboardService struct {
	store repository.Store
	cache cache.Cache
	ttl   time.Duration
	log   logrus.FieldLogger
}

func NewLeaderboardService(store repository.Store, c cache.Cache, ttl time.Duration, log logrus.FieldLogger) *LeaderboardService {
	return &LeaderboardService{store: store, cache: c, ttl: ttl, log: log}
}

// GetLeaderboards returns the top ten users by CO₂ saved, calories burned and
// best streak. Results are cached for the configured TTL; cache errors only
// cost a fresh read.
func (s *LeaderboardService) GetLeaderboards(ctx context.Context) (*leaderboard.Leaderboards, error) {
	var cached leaderboard.Leaderboards
	err := s.cache.Get(ctx, leaderboardsCacheKey, &cached)
	if err == nil {
		return &cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		s.log.WithError(err).Warn("leaderboard cache read failed")
	}

	boards, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, leaderboardsCacheKey, boards, s.ttl); err != nil {
		s.log.WithError(err).Warn("leaderboard cache write failed")
	}
	return boards, nil
}

func (s *LeaderboardService) load(ctx context.Context) (*leaderboard.Leaderboards, error) {
	co2, err := s.store.TopCO2Savers(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	calories, err := s.store.TopCalorieBurners(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}
	streaks, err := s.store.TopStreaks(ctx, leaderboardSize)
	if err != nil {
		return nil, err
	}

	return &leaderboard.Leaderboards{
		CO2:      nonNil(co2),
		Calories: nonNil(calories),
		Streaks:  nonNil(streaks),
	}, nil
}

func nonNil(entries []*leaderboard.LeaderboardEntry) []*leaderboard.LeaderboardEntry {
	if entries == nil {
		return []*leaderboard.LeaderboardEntry{}
	}
	return entries
}
