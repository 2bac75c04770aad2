package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"greenCommuteAPI/internal/impact"
	"greenCommuteAPI/internal/journey"
)

func (q *queries) InsertJourney(ctx context.Context, j *journey.Journey, r impact.Calculation) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}

	_, err := q.db.Exec(ctx, `
	INSERT INTO journeys (id, user_id, date, distance_km, mode, start_location_id, end_location_id, created_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, j.ID, j.UserID, j.Date, j.DistanceKm, j.Mode, j.StartLocationID, j.EndLocationID, j.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert journey: %w", err)
	}

	_, err = q.db.Exec(ctx, `
	INSERT INTO journey_results (
		journey_id, time_min, co2_g, calories_kcal, drive_time_min, drive_co2_g,
		vs_drive_co2_saved_g, vs_drive_time_delta_min, vs_drive_calories_delta_kcal
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, j.ID, r.TimeMin, r.CO2G, r.CaloriesKcal, r.DriveTimeMin, r.DriveCO2G,
		r.VsDriveCO2SavedG, r.VsDriveTimeDeltaMin, r.VsDriveCaloriesDeltaKcal)
	if err != nil {
		return fmt.Errorf("failed to insert journey result: %w", err)
	}
	return nil
}

func (q *queries) ListJourneys(ctx context.Context, userID uuid.UUID, limit int) ([]*journey.JourneyWithResult, error) {
	query := `
	SELECT
		j.id, j.user_id, j.date, j.distance_km, j.mode, j.start_location_id, j.end_location_id, j.created_at,
		r.time_min, r.co2_g, r.calories_kcal, r.drive_time_min, r.drive_co2_g,
		r.vs_drive_co2_saved_g, r.vs_drive_time_delta_min, r.vs_drive_calories_delta_kcal
	FROM journeys j
	JOIN journey_results r ON r.journey_id = j.id
	WHERE j.user_id = $1
	ORDER BY j.date DESC, j.created_at DESC
	LIMIT $2
	`

	rows, err := q.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch journeys: %w", err)
	}
	defer rows.Close()

	out := make([]*journey.JourneyWithResult, 0)
	for rows.Next() {
		j := &journey.JourneyWithResult{}
		err := rows.Scan(
			&j.ID, &j.UserID, &j.Date, &j.DistanceKm, &j.Mode, &j.StartLocationID, &j.EndLocationID, &j.CreatedAt,
			&j.TimeMin, &j.CO2G, &j.CaloriesKcal, &j.DriveTimeMin, &j.DriveCO2G,
			&j.VsDriveCO2SavedG, &j.VsDriveTimeDeltaMin, &j.VsDriveCaloriesDeltaKcal,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journey: %w", err)
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func (q *queries) JourneyTotals(ctx context.Context, userID uuid.UUID) (journey.Totals, error) {
	query := `
	SELECT
		COUNT(*),
		COALESCE(SUM(r.vs_drive_co2_saved_g), 0)::float8,
		COALESCE(SUM(r.calories_kcal), 0)::float8
	FROM journeys j
	JOIN journey_results r ON r.journey_id = j.id
	WHERE j.user_id = $1
	`

	var t journey.Totals
	if err := q.db.QueryRow(ctx, query, userID).Scan(&t.JourneyCount, &t.TotalCO2SavedG, &t.TotalCaloriesKcal); err != nil {
		return t, fmt.Errorf("failed to aggregate journeys: %w", err)
	}
	return t, nil
}

func (q *queries) SumCO2Saved(ctx context.Context, userID uuid.UUID, from, to time.Time, includeDrive bool) (decimal.Decimal, error) {
	query := `
	SELECT COALESCE(SUM(r.vs_drive_co2_saved_g), 0)::text
	FROM journeys j
	JOIN journey_results r ON r.journey_id = j.id
	WHERE j.user_id = $1
	  AND j.date BETWEEN $2 AND $3
	  AND ($4 OR j.mode <> $5)
	`

	var raw string
	if err := q.db.QueryRow(ctx, query, userID, from, to, includeDrive, impact.ModeDrive).Scan(&raw); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum co2 saved: %w", err)
	}
	sum, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to parse co2 sum %q: %w", raw, err)
	}
	return sum, nil
}
