package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"greenCommuteAPI/internal/achievement"
)

const achievementColumns = `a.id, a.key, a.title, a.icon, a.description, a.threshold_type, a.threshold_value`

func (q *queries) UpsertAchievements(ctx context.Context, catalog []achievement.Achievement) error {
	query := `
	INSERT INTO achievements (id, key, title, icon, description, threshold_type, threshold_value)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	ON CONFLICT (key) DO UPDATE SET
		title = EXCLUDED.title,
		icon = EXCLUDED.icon,
		description = EXCLUDED.description,
		threshold_type = EXCLUDED.threshold_type,
		threshold_value = EXCLUDED.threshold_value
	`

	batch := &pgx.Batch{}
	for _, a := range catalog {
		id := a.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(query, id, a.Key, a.Title, a.Icon, a.Description, a.ThresholdType, a.ThresholdValue)
	}

	br := q.db.SendBatch(ctx, batch)
	defer br.Close()
	for _, a := range catalog {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert achievement %s: %w", a.Key, err)
		}
	}
	return nil
}

func (q *queries) ListUnearnedAchievements(ctx context.Context, userID uuid.UUID) ([]achievement.Achievement, error) {
	query := `
	SELECT ` + achievementColumns + `
	FROM achievements a
	WHERE NOT EXISTS (
		SELECT 1 FROM user_achievements ua
		WHERE ua.achievement_id = a.id AND ua.user_id = $1
	)
	ORDER BY a.threshold_type, a.threshold_value, a.key
	`

	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	var out []achievement.Achievement
	for rows.Next() {
		var a achievement.Achievement
		if err := rows.Scan(&a.ID, &a.Key, &a.Title, &a.Icon, &a.Description, &a.ThresholdType, &a.ThresholdValue); err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (q *queries) AwardAchievement(ctx context.Context, userID, achievementID uuid.UUID, at time.Time) (bool, error) {
	tag, err := q.db.Exec(ctx, `
	INSERT INTO user_achievements (user_id, achievement_id, earned_at)
	VALUES ($1, $2, $3)
	ON CONFLICT (user_id, achievement_id) DO NOTHING
	`, userID, achievementID, at)
	if err != nil {
		return false, fmt.Errorf("failed to award achievement: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (q *queries) ListAchievementsWithStatus(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error) {
	query := `
	SELECT ` + achievementColumns + `,
		ua.earned_at IS NOT NULL AS earned,
		ua.earned_at
	FROM achievements a
	LEFT JOIN user_achievements ua ON ua.achievement_id = a.id AND ua.user_id = $1
	ORDER BY a.threshold_type, a.threshold_value, a.key
	`

	rows, err := q.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch achievements: %w", err)
	}
	defer rows.Close()

	out := make([]*achievement.AchievementWithStatus, 0)
	for rows.Next() {
		a := &achievement.AchievementWithStatus{}
		err := rows.Scan(
			&a.ID,
			&a.Key,
			&a.Title,
			&a.Icon,
			&a.Description,
			&a.ThresholdType,
			&a.ThresholdValue,
			&a.Earned,
			&a.EarnedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan achievement: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
