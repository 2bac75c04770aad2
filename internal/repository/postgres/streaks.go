package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/streak"
)

const streakColumns = `user_id, current_streak, best_streak, last_journey_date, updated_at`

func scanStreak(row interface{ Scan(...any) error }) (*streak.Streak, error) {
	s := &streak.Streak{}
	err := row.Scan(&s.UserID, &s.CurrentStreak, &s.BestStreak, &s.LastJourneyDate, &s.UpdatedAt)
	return s, err
}

func (q *queries) InitStreak(ctx context.Context, userID uuid.UUID) error {
	_, err := q.db.Exec(ctx, `
	INSERT INTO streaks (user_id, current_streak, best_streak, last_journey_date)
	VALUES ($1, 0, 0, NULL)
	ON CONFLICT (user_id) DO NOTHING
	`, userID)
	if err != nil {
		return fmt.Errorf("failed to init streak: %w", err)
	}
	return nil
}

func (q *queries) LockStreak(ctx context.Context, userID uuid.UUID) (*streak.Streak, error) {
	if err := q.InitStreak(ctx, userID); err != nil {
		return nil, err
	}

	s, err := scanStreak(q.db.QueryRow(ctx, `SELECT `+streakColumns+` FROM streaks WHERE user_id = $1 FOR UPDATE`, userID))
	if err != nil {
		return nil, fmt.Errorf("failed to lock streak: %w", err)
	}
	return s, nil
}

func (q *queries) GetStreak(ctx context.Context, userID uuid.UUID) (*streak.Streak, error) {
	s, err := scanStreak(q.db.QueryRow(ctx, `SELECT `+streakColumns+` FROM streaks WHERE user_id = $1`, userID))
	if err != nil {
		return nil, notFound(err, "streak")
	}
	return s, nil
}

func (q *queries) SaveStreak(ctx context.Context, s *streak.Streak) error {
	_, err := q.db.Exec(ctx, `
	INSERT INTO streaks (user_id, current_streak, best_streak, last_journey_date, updated_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (user_id) DO UPDATE SET
		current_streak = EXCLUDED.current_streak,
		best_streak = EXCLUDED.best_streak,
		last_journey_date = EXCLUDED.last_journey_date,
		updated_at = EXCLUDED.updated_at
	`, s.UserID, s.CurrentStreak, s.BestStreak, s.LastJourneyDate, s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save streak: %w", err)
	}
	return nil
}
