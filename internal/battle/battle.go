package battle

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/clock"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusDeclined  Status = "declined"
	StatusCompleted Status = "completed"
)

// CreateMode selects the initial state of a new battle: an instant challenge
// starts active, an invite waits for the opponent to accept.
type CreateMode string

const (
	ModeInstant CreateMode = "instant"
	ModeInvite  CreateMode = "invite"
)

const (
	DefaultDurationDays = 7
	MaxDurationDays     = 365
)

type Battle struct {
	ID                  uuid.UUID       `json:"id" db:"id"`
	ChallengerID        uuid.UUID       `json:"challenger_id" db:"challenger_id"`
	OpponentID          uuid.UUID       `json:"opponent_id" db:"opponent_id"`
	Status              Status          `json:"status" db:"status"`
	StartDate           time.Time       `json:"start_date" db:"start_date"`
	EndDate             time.Time       `json:"end_date" db:"end_date"`
	ChallengerCO2SavedG decimal.Decimal `json:"challenger_co2_saved_g" db:"challenger_co2_saved_g"`
	OpponentCO2SavedG   decimal.Decimal `json:"opponent_co2_saved_g" db:"opponent_co2_saved_g"`
	WinnerID            *uuid.UUID      `json:"winner_id" db:"winner_id"`
	CreatedAt           time.Time       `json:"created_at" db:"created_at"`
}

// BattleView is a battle with the participants' display names.
type BattleView struct {
	Battle
	ChallengerName string  `json:"challenger_name"`
	OpponentName   string  `json:"opponent_name"`
	WinnerName     *string `json:"winner_name,omitempty"`
}

// New builds a battle starting today. durationDays must be in 1..365.
func New(challengerID, opponentID uuid.UUID, today time.Time, durationDays int, mode CreateMode) (*Battle, error) {
	if challengerID == opponentID {
		return nil, apperr.Validation("you cannot challenge yourself")
	}
	if durationDays < 1 || durationDays > MaxDurationDays {
		return nil, apperr.Validation("duration_days must be between 1 and %d", MaxDurationDays)
	}

	status := StatusActive
	switch mode {
	case ModeInstant, "":
	case ModeInvite:
		status = StatusPending
	default:
		return nil, apperr.Validation("unknown battle mode %q", mode)
	}

	start := clock.DateOf(today)
	return &Battle{
		ID:                  uuid.New(),
		ChallengerID:        challengerID,
		OpponentID:          opponentID,
		Status:              status,
		StartDate:           start,
		EndDate:             start.AddDate(0, 0, durationDays),
		ChallengerCO2SavedG: decimal.Zero,
		OpponentCO2SavedG:   decimal.Zero,
	}, nil
}

func (b *Battle) Involves(userID uuid.UUID) bool {
	return b.ChallengerID == userID || b.OpponentID == userID
}

// Open reports whether the battle still blocks a new one between the same pair.
func (b *Battle) Open() bool {
	return b.Status == StatusPending || b.Status == StatusActive
}

// Respond applies the opponent's answer to a pending invite. Accepting moves
// the window to start on the day of acceptance with the same length. Any other
// caller or state leaves the battle untouched and returns false.
func (b *Battle) Respond(userID uuid.UUID, accept bool, today time.Time) bool {
	if b.Status != StatusPending || userID != b.OpponentID {
		return false
	}
	if !accept {
		b.Status = StatusDeclined
		return true
	}
	days := clock.DaysBetween(b.StartDate, b.EndDate)
	b.StartDate = clock.DateOf(today)
	b.EndDate = b.StartDate.AddDate(0, 0, days)
	b.Status = StatusActive
	return true
}

// Expired reports whether now has reached the start of the end date.
func (b *Battle) Expired(now time.Time) bool {
	return !now.Before(b.EndDate)
}

// Score records freshly computed totals on an active battle. When the battle
// has expired it completes: the strictly higher total wins and equal totals
// leave no winner. Battles that are not active are frozen and ignored.
func (b *Battle) Score(challenger, opponent decimal.Decimal, now time.Time) (completed bool) {
	if b.Status != StatusActive {
		return false
	}
	b.ChallengerCO2SavedG = challenger
	b.OpponentCO2SavedG = opponent
	if !b.Expired(now) {
		return false
	}

	b.Status = StatusCompleted
	switch challenger.Cmp(opponent) {
	case 1:
		id := b.ChallengerID
		b.WinnerID = &id
	case -1:
		id := b.OpponentID
		b.WinnerID = &id
	default:
		b.WinnerID = nil
	}
	return true
}

// Outcome names the result of a completed battle for metrics and messages.
func (b *Battle) Outcome() string {
	switch {
	case b.Status != StatusCompleted:
		return string(b.Status)
	case b.WinnerID == nil:
		return "draw"
	case *b.WinnerID == b.ChallengerID:
		return "challenger"
	default:
		return "opponent"
	}
}

// PairKey orders two user ids so that both directions of a pair share a key.
func PairKey(a, b uuid.UUID) (uuid.UUID, uuid.UUID) {
	if a.String() > b.String() {
		return b, a
	}
	return a, b
}
