package achievement

import (
	"time"

	"github.com/google/uuid"
)

type ThresholdType string

const (
	ThresholdJourneyCount ThresholdType = "journey_count"
	ThresholdCO2SavedG    ThresholdType = "co2_saved_g"
	ThresholdCaloriesKcal ThresholdType = "calories_kcal"
	ThresholdStreak       ThresholdType = "streak"
)

type Achievement struct {
	ID             uuid.UUID     `json:"id" db:"id"`
	Key            string        `json:"key" db:"key"`
	Title          string        `json:"title" db:"title"`
	Icon           string        `json:"icon" db:"icon"`
	Description    string        `json:"description" db:"description"`
	ThresholdType  ThresholdType `json:"threshold_type" db:"threshold_type"`
	ThresholdValue float64       `json:"threshold_value" db:"threshold_value"`
}

type UserAchievement struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	AchievementID uuid.UUID `json:"achievement_id" db:"achievement_id"`
	EarnedAt      time.Time `json:"earned_at" db:"earned_at"`
}

type AchievementWithStatus struct {
	Achievement
	Earned   bool       `json:"earned"`
	EarnedAt *time.Time `json:"earned_at,omitempty"`
}

// Stats is the snapshot of a user's cumulative numbers the thresholds are
// checked against.
type Stats struct {
	JourneyCount      int     `json:"journey_count"`
	TotalCO2SavedG    float64 `json:"total_co2_saved_g"`
	TotalCaloriesKcal float64 `json:"total_calories_kcal"`
	CurrentStreak     int     `json:"current_streak"`
}

func (t ThresholdType) Valid() bool {
	_, ok := t.measure(Stats{})
	return ok
}

// measure picks the statistic a threshold type is compared against. It is the
// only place that knows the mapping; unknown types report ok=false.
func (t ThresholdType) measure(s Stats) (value float64, ok bool) {
	switch t {
	case ThresholdJourneyCount:
		return float64(s.JourneyCount), true
	case ThresholdCO2SavedG:
		return s.TotalCO2SavedG, true
	case ThresholdCaloriesKcal:
		return s.TotalCaloriesKcal, true
	case ThresholdStreak:
		return float64(s.CurrentStreak), true
	default:
		return 0, false
	}
}

// Qualifies reports whether s meets the achievement's threshold.
func (a Achievement) Qualifies(s Stats) bool {
	value, ok := a.ThresholdType.measure(s)
	return ok && value >= a.ThresholdValue
}

// Qualifying filters candidates down to the ones s meets, keeping order.
func Qualifying(candidates []Achievement, s Stats) []Achievement {
	var out []Achievement
	for _, a := range candidates {
		if a.Qualifies(s) {
			out = append(out, a)
		}
	}
	return out
}
