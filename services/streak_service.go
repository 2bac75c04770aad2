package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/streak"
)

type StreakService struct {
	store repository.Store
	clock clock.Clock
	log   logrus.FieldLogger
}

func NewStreakService(store repository.Store, clk clock.Clock, log logrus.FieldLogger) *StreakService {
	return &StreakService{store: store, clock: clk, log: log}
}

// UpdateStreak records a qualifying journey on date for the user.
func (s *StreakService) UpdateStreak(ctx context.Context, userID uuid.UUID, date time.Time) (*streak.Streak, error) {
	var out *streak.Streak
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		if err := requireUser(ctx, q, userID); err != nil {
			return err
		}
		var err error
		out, err = advanceStreak(ctx, q, userID, date, s.clock.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CurrentStreak returns the user's record, or a zero one if none exists.
func (s *StreakService) CurrentStreak(ctx context.Context, userID uuid.UUID) (*streak.Streak, error) {
	return currentStreak(ctx, s.store, userID)
}

func currentStreak(ctx context.Context, q repository.Queries, userID uuid.UUID) (*streak.Streak, error) {
	st, err := q.GetStreak(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return &streak.Streak{UserID: userID}, nil
	}
	return st, err
}

// advanceStreak must run inside a transaction: it holds the streak row lock
// from read to write.
func advanceStreak(ctx context.Context, q repository.Queries, userID uuid.UUID, day, now time.Time) (*streak.Streak, error) {
	prev, err := q.LockStreak(ctx, userID)
	if err != nil {
		return nil, err
	}

	next, changed := streak.Advance(prev, userID, day)
	if !changed {
		return prev, nil
	}
	next.UpdatedAt = now
	if err := q.SaveStreak(ctx, &next); err != nil {
		return nil, err
	}
	return &next, nil
}
