package stats

import (
	"time"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/streak"
)

const DefaultWeeklyGoalG = 5000.0

type WeeklyGoal struct {
	UserID          uuid.UUID `json:"user_id" db:"user_id"`
	WeekStart       time.Time `json:"week_start" db:"week_start"`
	TargetCO2SavedG float64   `json:"target_co2_saved_g" db:"target_co2_saved_g"`
}

type SetWeeklyGoalRequest struct {
	TargetCO2SavedG float64 `json:"target_co2_saved_g" validate:"gt=0"`
}

type GoalProgress struct {
	WeekStart  time.Time `json:"week_start"`
	TargetG    float64   `json:"target_g"`
	ProgressG  float64   `json:"progress_g"`
	Percentage float64   `json:"percentage"`
}

type Badge struct {
	Key      string    `json:"key"`
	Title    string    `json:"title"`
	Icon     string    `json:"icon"`
	EarnedAt time.Time `json:"earned_at"`
}

type UserSummary struct {
	UserID            uuid.UUID     `json:"user_id"`
	JourneyCount      int           `json:"journey_count"`
	TotalCO2SavedG    float64       `json:"total_co2_saved_g"`
	TotalCaloriesKcal float64       `json:"total_calories_kcal"`
	Streak            streak.Streak `json:"streak"`
	Badges            []Badge       `json:"badges"`
	WeeklyGoal        GoalProgress  `json:"weekly_goal"`
}
