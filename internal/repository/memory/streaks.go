package memory

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/streak"
)

func (q *queries) InitStreak(_ context.Context, userID uuid.UUID) error {
	defer q.lock()()

	if _, ok := q.st().streaks[userID]; !ok {
		q.st().streaks[userID] = streak.Streak{UserID: userID}
	}
	return nil
}

func (q *queries) LockStreak(_ context.Context, userID uuid.UUID) (*streak.Streak, error) {
	defer q.lock()()

	s, ok := q.st().streaks[userID]
	if !ok {
		s = streak.Streak{UserID: userID}
		q.st().streaks[userID] = s
	}
	return &s, nil
}

func (q *queries) GetStreak(_ context.Context, userID uuid.UUID) (*streak.Streak, error) {
	defer q.lock()()

	s, ok := q.st().streaks[userID]
	if !ok {
		return nil, fmt.Errorf("streak for %s: %w", userID, repository.ErrNotFound)
	}
	return &s, nil
}

func (q *queries) SaveStreak(_ context.Context, s *streak.Streak) error {
	defer q.lock()()

	q.st().streaks[s.UserID] = *s
	return nil
}
