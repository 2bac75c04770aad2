package leaderboard

import "github.com/google/uuid"

type LeaderboardEntry struct {
	UserID        uuid.UUID `json:"user_id" db:"user_id"`
	Username      string    `json:"username" db:"username"`
	ImageURL      *string   `json:"image_url" db:"image_url"`
	Value         float64   `json:"value"`
	CurrentStreak int       `json:"current_streak,omitempty"`
	Rank          int       `json:"rank" db:"rank"`
}

type Leaderboards struct {
	CO2      []*LeaderboardEntry `json:"co2"`
	Calories []*LeaderboardEntry `json:"calories"`
	Streaks  []*LeaderboardEntry `json:"streaks"`
}

// Rank numbers entries in the order given, starting at 1.
func Rank(entries []*LeaderboardEntry) []*LeaderboardEntry {
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries
}
