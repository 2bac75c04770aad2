// Package repository defines the persistence boundary of the service. The
// postgres package backs it with pgx, the memory package with in-process maps.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/battle"
	"greenCommuteAPI/internal/impact"
	"greenCommuteAPI/internal/journey"
	"greenCommuteAPI/internal/leaderboard"
	"greenCommuteAPI/internal/location"
	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/stats"
	"greenCommuteAPI/internal/streak"
	"greenCommuteAPI/internal/user"
)

var (
	// ErrNotFound is returned by single-row reads that matched nothing.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a write hits a uniqueness rule.
	ErrDuplicate = errors.New("duplicate record")
)

type Users interface {
	// CreateUser inserts u, or refreshes the profile of the user with the same clerk id.
	CreateUser(ctx context.Context, u *user.User) (*user.User, error)
	UpdateUser(ctx context.Context, u *user.User) error
	DeleteUserByClerkID(ctx context.Context, clerkID string) error
	GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error)
	GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error)
	// FindUserByName matches username case-insensitively and never returns exclude.
	FindUserByName(ctx context.Context, name string, exclude uuid.UUID) (*user.User, error)
	SearchUsers(ctx context.Context, query string, exclude uuid.UUID, limit int) ([]*user.Opponent, error)
}

type Journeys interface {
	InsertJourney(ctx context.Context, j *journey.Journey, result impact.Calculation) error
	ListJourneys(ctx context.Context, userID uuid.UUID, limit int) ([]*journey.JourneyWithResult, error)
	JourneyTotals(ctx context.Context, userID uuid.UUID) (journey.Totals, error)
	// SumCO2Saved adds vs_drive_co2_saved_g over journeys dated in [from, to].
	SumCO2Saved(ctx context.Context, userID uuid.UUID, from, to time.Time, includeDrive bool) (decimal.Decimal, error)
}

type Streaks interface {
	// InitStreak creates the zero row for userID if it has none.
	InitStreak(ctx context.Context, userID uuid.UUID) error
	// LockStreak returns the user's row, creating it first if needed, and holds
	// it until the surrounding transaction ends.
	LockStreak(ctx context.Context, userID uuid.UUID) (*streak.Streak, error)
	GetStreak(ctx context.Context, userID uuid.UUID) (*streak.Streak, error)
	SaveStreak(ctx context.Context, s *streak.Streak) error
}

type Achievements interface {
	UpsertAchievements(ctx context.Context, catalog []achievement.Achievement) error
	ListUnearnedAchievements(ctx context.Context, userID uuid.UUID) ([]achievement.Achievement, error)
	// AwardAchievement reports false when the user already held it.
	AwardAchievement(ctx context.Context, userID, achievementID uuid.UUID, at time.Time) (bool, error)
	ListAchievementsWithStatus(ctx context.Context, userID uuid.UUID) ([]*achievement.AchievementWithStatus, error)
}

type Locations interface {
	// UpsertLocations inserts catalog, updating entries that share a key.
	UpsertLocations(ctx context.Context, catalog []location.Location) error
	// ListLocations orders by category, then name.
	ListLocations(ctx context.Context) ([]*location.Location, error)
	GetLocation(ctx context.Context, id uuid.UUID) (*location.Location, error)
}

type Battles interface {
	// LockPair serialises battle creation for the unordered pair until the
	// transaction ends.
	LockPair(ctx context.Context, a, b uuid.UUID) error
	FindOpenBattle(ctx context.Context, a, b uuid.UUID) (*battle.Battle, error)
	InsertBattle(ctx context.Context, b *battle.Battle) error
	GetBattle(ctx context.Context, id uuid.UUID) (*battle.Battle, error)
	LockBattle(ctx context.Context, id uuid.UUID) (*battle.Battle, error)
	UpdateBattle(ctx context.Context, b *battle.Battle) error
	ListBattleIDs(ctx context.Context, userID uuid.UUID, status battle.Status) ([]uuid.UUID, error)
	ListBattles(ctx context.Context, userID uuid.UUID, limit int) ([]*battle.BattleView, error)
}

type Goals interface {
	UpsertWeeklyGoal(ctx context.Context, g *stats.WeeklyGoal) error
	GetWeeklyGoal(ctx context.Context, userID uuid.UUID, weekStart time.Time) (*stats.WeeklyGoal, error)
}

type Leaderboards interface {
	TopCO2Savers(ctx context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error)
	TopCalorieBurners(ctx context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error)
	TopStreaks(ctx context.Context, limit int) ([]*leaderboard.LeaderboardEntry, error)
}

type Notifications interface {
	InsertNotification(ctx context.Context, n *notification.Notification) error
	ListNotifications(ctx context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error)
	CountUnread(ctx context.Context, userID uuid.UUID) (int, error)
	MarkNotificationRead(ctx context.Context, id, userID uuid.UUID) error
	UpsertDeviceToken(ctx context.Context, t notification.DeviceToken) error
	DeleteDeviceToken(ctx context.Context, userID uuid.UUID, token string) error
	ListDeviceTokens(ctx context.Context, userID uuid.UUID) ([]notification.DeviceToken, error)
}

// Queries is every read and write the services issue.
type Queries interface {
	Users
	Journeys
	Streaks
	Achievements
	Locations
	Battles
	Goals
	Leaderboards
	Notifications
}

type Store interface {
	Queries
	// InTx runs fn against a transaction. fn's error rolls everything back.
	InTx(ctx context.Context, fn func(q Queries) error) error
	Ping(ctx context.Context) error
	Close()
}
