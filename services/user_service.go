package services

import (
	"context"
	"errors"
	"math"
	"slices"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/stats"
	"greenCommuteAPI/internal/user"
	"greenCommuteAPI/internal/validation"
)

type UserService struct {
	store        repository.Store
	clock        clock.Clock
	validate     *validation.Validator
	defaultGoalG float64
	log          logrus.FieldLogger
}

func NewUserService(store repository.Store, clk clock.Clock, v *validation.Validator, defaultGoalG float64, log logrus.FieldLogger) *UserService {
	if defaultGoalG <= 0 {
		defaultGoalG = stats.DefaultWeeklyGoalG
	}
	return &UserService{store: store, clock: clk, validate: v, defaultGoalG: defaultGoalG, log: log}
}

// CreateUser inserts the user, or refreshes the profile of an existing user
// with the same Clerk id, and makes sure the streak row exists.
func (s *UserService) CreateUser(ctx context.Context, req *user.CreateUserRequest) (*user.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	now := s.clock.Now()
	u := &user.User{
		ID:        uuid.New(),
		ClerkID:   req.ClerkID,
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		ImageURL:  req.ImageURL,
		CreatedAt: now,
		UpdatedAt: now,
	}

	var created *user.User
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		created, err = q.CreateUser(ctx, u)
		if err != nil {
			return err
		}
		return q.InitStreak(ctx, created.ID)
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (s *UserService) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	u, err := s.store.GetUserByClerkID(ctx, clerkID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("user not found")
	}
	return u, err
}

func (s *UserService) UpdateProfileByClerkID(ctx context.Context, clerkID string, req *user.UpdateProfileRequest) (*user.User, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	u, err := s.GetUserByClerkID(ctx, clerkID)
	if err != nil {
		return nil, err
	}

	if req.Username != "" {
		u.Username = req.Username
	}
	if req.FirstName != "" {
		u.FirstName = req.FirstName
	}
	if req.LastName != "" {
		u.LastName = req.LastName
	}
	if req.ImageURL != "" {
		u.ImageURL = req.ImageURL
	}
	u.UpdatedAt = s.clock.Now()

	if err := s.store.UpdateUser(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

func (s *UserService) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	err := s.store.DeleteUserByClerkID(ctx, clerkID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("user not found")
	}
	return err
}

// GetSummary gathers the user's totals, streak, badges and the progress
// towards this week's goal.
func (s *UserService) GetSummary(ctx context.Context, userID uuid.UUID) (*stats.UserSummary, error) {
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	totals, err := s.store.JourneyTotals(ctx, userID)
	if err != nil {
		return nil, err
	}
	st, err := currentStreak(ctx, s.store, userID)
	if err != nil {
		return nil, err
	}
	achievements, err := s.store.ListAchievementsWithStatus(ctx, userID)
	if err != nil {
		return nil, err
	}

	badges := make([]stats.Badge, 0)
	for _, a := range achievements {
		if a.Earned && a.EarnedAt != nil {
			badges = append(badges, stats.Badge{Key: a.Key, Title: a.Title, Icon: a.Icon, EarnedAt: *a.EarnedAt})
		}
	}
	slices.SortStableFunc(badges, func(a, b stats.Badge) int { return b.EarnedAt.Compare(a.EarnedAt) })

	goal, err := s.weeklyProgress(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &stats.UserSummary{
		UserID:            userID,
		JourneyCount:      totals.JourneyCount,
		TotalCO2SavedG:    totals.TotalCO2SavedG,
		TotalCaloriesKcal: totals.TotalCaloriesKcal,
		Streak:            *st,
		Badges:            badges,
		WeeklyGoal:        goal,
	}, nil
}

func (s *UserService) weeklyProgress(ctx context.Context, userID uuid.UUID) (stats.GoalProgress, error) {
	today := clock.Today(s.clock)
	weekStart := clock.WeekStart(today)

	target := s.defaultGoalG
	goal, err := s.store.GetWeeklyGoal(ctx, userID, weekStart)
	switch {
	case err == nil:
		target = goal.TargetCO2SavedG
	case !errors.Is(err, repository.ErrNotFound):
		return stats.GoalProgress{}, err
	}

	saved, err := s.store.SumCO2Saved(ctx, userID, weekStart, today, true)
	if err != nil {
		return stats.GoalProgress{}, err
	}
	progress := saved.InexactFloat64()

	pct := math.Floor(progress/target*10000+0.5) / 100
	pct = math.Max(0, math.Min(100, pct))

	return stats.GoalProgress{
		WeekStart:  weekStart,
		TargetG:    target,
		ProgressG:  progress,
		Percentage: pct,
	}, nil
}

// SetWeeklyGoal sets the target for the current week.
func (s *UserService) SetWeeklyGoal(ctx context.Context, userID uuid.UUID, req *stats.SetWeeklyGoalRequest) (*stats.WeeklyGoal, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	if err := requireUser(ctx, s.store, userID); err != nil {
		return nil, err
	}

	goal := &stats.WeeklyGoal{
		UserID:          userID,
		WeekStart:       clock.WeekStart(clock.Today(s.clock)),
		TargetCO2SavedG: req.TargetCO2SavedG,
	}
	if err := s.store.UpsertWeeklyGoal(ctx, goal); err != nil {
		return nil, err
	}
	return goal, nil
}
