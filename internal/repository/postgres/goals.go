package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/leaderboard"
	"greenCommuteAPI/internal/stats"
)

func (q *queries) UpsertWeeklyGoal(ctx context.Context, g *stats.WeeklyGoal) error {
	_, err := q.db.Exec(ctx, `
	INSERT INTO weekly_goals (user_id, week_start, target_co2_saved_g)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, week_start) DO UPDATE SET target_co2_saved_g = EXCLUDED.target_co2_saved_g
	`, g.UserID, g.WeekStart, g.TargetCO2SavedG)
	if err != nil {
		return fmt.Errorf("failed to save weekly goal: %w", err)
	}
	return nil
}

func (q *queries) GetWeeklyGoal(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*stats.WeeklyGoal, error) {
	g := &stats.WeeklyGoal{}
	err := q.db.QueryRow(ctx, `
	SELECT user_id, week_start, target_co2_saved_g
	FROM weekly_goals
	WHERE user_id = $1 AND week_start = $2
	`, userID, weekStart).Scan(&g.UserID, &g.WeekStart, &g.TargetCO2SavedG)
	if err != nil {
		return nil, notFound(err, "weekly goal")
	}
	return g, nil
}

func (q *queries) TopCO2Savers(ctx context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error) {
	return q.leaderboard(ctx, `
	SELECT u.id, u.username, NULLIF(u.image_url, ''), SUM(r.vs_drive_co2_saved_g)::float8 AS value, COALESCE(s.current_streak, 0) AS current_streak
	FROM users u
	JOIN journeys j ON j.user_id = u.id
	JOIN journey_results r ON r.journey_id = j.id
	LEFT JOIN streaks s ON s.user_id = u.id
	GROUP BY u.id, u.username, u.image_url, s.current_streak
	HAVING SUM(r.vs_drive_co2_saved_g) > 0
	ORDER BY value DESC, current_streak DESC, LOWER(u.username)
	LIMIT $1
	`, limit)
}

func (q *queries) TopCalorieBurners(ctx context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error) {
	return q.leaderboard(ctx, `
	SELECT u.id, u.username, NULLIF(u.image_url, ''), SUM(r.calories_kcal)::float8 AS value, COALESCE(s.current_streak, 0) AS current_streak
	FROM users u
	JOIN journeys j ON j.user_id = u.id
	JOIN journey_results r ON r.journey_id = j.id
	LEFT JOIN streaks s ON s.user_id = u.id
	GROUP BY u.id, u.username, u.image_url, s.current_streak
	HAVING SUM(r.calories_kcal) > 0
	ORDER BY value DESC, current_streak DESC, LOWER(u.username)
	LIMIT $1
	`, limit)
}

func (q *queries) TopStreaks(ctx context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error) {
	return q.leaderboard(ctx, `
	SELECT u.id, u.username, NULLIF(u.image_url, ''), s.best_streak::float8 AS value, s.current_streak AS current_streak
	FROM users u
	JOIN streaks s ON s.user_id = u.id
	WHERE s.best_streak > 0
	ORDER BY value DESC, current_streak DESC, LOWER(u.username)
	LIMIT $1
	`, limit)
}

func (q *queries) leaderboard(ctx context.Context, query string, limit int) ([]*leaderboard.LeaderboardEntry, error) {
	rows, err := q.db.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []*leaderboard.LeaderboardEntry
	for rows.Next() {
		e := &leaderboard.LeaderboardEntry{}
		if err := rows.Scan(&e.UserID, &e.Username, &e.ImageURL, &e.Value, &e.CurrentStreak); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return leaderboard.Rank(entries), nil
}
