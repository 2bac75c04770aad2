package streak

import (
	"time"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/clock"
)

type Streak struct {
	UserID          uuid.UUID  `json:"user_id" db:"user_id"`
	CurrentStreak   int        `json:"current_streak" db:"current_streak"`
	BestStreak      int        `json:"best_streak" db:"best_streak"`
	LastJourneyDate *time.Time `json:"last_journey_date" db:"last_journey_date"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// Tracking reports whether the record has seen at least one qualifying journey.
func (s *Streak) Tracking() bool {
	return s != nil && s.LastJourneyDate != nil
}

// Advance applies a qualifying journey made on day to prev and returns the
// resulting record. changed is false when the record must be left as it is:
// a second journey on the same day, or a journey dated before the last one.
// prev may be nil or a zero row created at sign-up.
func Advance(prev *Streak, userID uuid.UUID, day time.Time) (next Streak, changed bool) {
	day = clock.DateOf(day)

	if !prev.Tracking() {
		best := 1
		if prev != nil && prev.BestStreak > best {
			best = prev.BestStreak
		}
		return Streak{UserID: userID, CurrentStreak: 1, BestStreak: best, LastJourneyDate: &day}, true
	}

	next = *prev
	gap := clock.DaysBetween(*prev.LastJourneyDate, day)
	switch {
	case gap <= 0:
		// Back-dated journeys never rewind last_journey_date, so a late log
		// of an old trip cannot reset a running streak to 1.
		return *prev, false
	case gap == 1:
		next.CurrentStreak = prev.CurrentStreak + 1
		if next.CurrentStreak > next.BestStreak {
			next.BestStreak = next.CurrentStreak
		}
	default:
		next.CurrentStreak = 1
	}
	next.LastJourneyDate = &day
	return next, true
}
