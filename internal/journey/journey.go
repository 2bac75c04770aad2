package journey

import (
	"time"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/impact"
)

type Journey struct {
	ID              uuid.UUID   `json:"id" db:"id"`
	UserID          uuid.UUID   `json:"user_id" db:"user_id"`
	Date            time.Time   `json:"date" db:"date"`
	DistanceKm      float64     `json:"distance_km" db:"distance_km"`
	Mode            impact.Mode `json:"mode" db:"mode"`
	StartLocationID *uuid.UUID  `json:"start_location_id,omitempty" db:"start_location_id"`
	EndLocationID   *uuid.UUID  `json:"end_location_id,omitempty" db:"end_location_id"`
	CreatedAt       time.Time   `json:"created_at" db:"created_at"`
}

// JourneyWithResult is a journey joined with its stored calculation.
type JourneyWithResult struct {
	Journey
	impact.Calculation
}

// Totals aggregates every journey a user has logged.
type Totals struct {
	JourneyCount      int     `json:"journey_count"`
	TotalCO2SavedG    float64 `json:"total_co2_saved_g"`
	TotalCaloriesKcal float64 `json:"total_calories_kcal"`
}

type LogJourneyRequest struct {
	Date            string     `json:"date" validate:"omitempty,datetime=2006-01-02"`
	DistanceKm      float64    `json:"distance_km" validate:"gt=0,lte=500"`
	Mode            string     `json:"mode" validate:"required,transport_mode"`
	StartLocationID *uuid.UUID `json:"start_location_id,omitempty"`
	EndLocationID   *uuid.UUID `json:"end_location_id,omitempty"`
}

type CalculateRequest struct {
	DistanceKm float64 `json:"distance_km" validate:"gt=0,lte=500"`
	Mode       string  `json:"mode" validate:"required,transport_mode"`
}

type CalculateResponse struct {
	Results            impact.Calculation        `json:"results"`
	ImpactEquivalents  impact.ImpactEquivalents  `json:"impact_equivalents"`
	CalorieEquivalents impact.CalorieEquivalents `json:"calorie_equivalents"`
}

type LogJourneyResponse struct {
	Journey            *Journey                  `json:"journey"`
	Results            impact.Calculation        `json:"results"`
	ImpactEquivalents  impact.ImpactEquivalents  `json:"impact_equivalents"`
	CalorieEquivalents impact.CalorieEquivalents `json:"calorie_equivalents"`
	NewAchievements    []achievement.Achievement `json:"new_achievements"`
	BattlesUpdated     int                       `json:"battles_updated"`
}
