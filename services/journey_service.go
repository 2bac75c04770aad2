package services

import (
	"context"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/impact"
	"greenCommuteAPI/internal/journey"
	"greenCommuteAPI/internal/metrics"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/validation"
)

type JourneyService struct {
	store        repository.Store
	clock        clock.Clock
	validate     *validation.Validator
	achievements *AchievementService
	battles      *BattleService
	log          logrus.FieldLogger
}

func NewJourneyService(
	store repository.Store,
	clk clock.Clock,
	v *validation.Validator,
	achievements *AchievementService,
	battles *BattleService,
	log logrus.FieldLogger,
) *JourneyService {
	return &JourneyService{
		store:        store,
		clock:        clk,
		validate:     v,
		achievements: achievements,
		battles:      battles,
		log:          log,
	}
}

// Calculate runs the impact calculator without storing anything.
func (s *JourneyService) Calculate(req *journey.CalculateRequest) (*journey.CalculateResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	calc, err := impact.Calculate(req.DistanceKm, impact.Mode(req.Mode))
	if err != nil {
		return nil, err
	}
	return &journey.CalculateResponse{
		Results:            calc,
		ImpactEquivalents:  impact.ImpactEquivalentsFor(calc.VsDriveCO2SavedG),
		CalorieEquivalents: impact.CalorieEquivalentsFor(calc.CaloriesKcal),
	}, nil
}

// LogJourney stores a journey with its calculated impact. The journey, the
// streak update and any achievements it earns commit together; battle scores
// and notifications follow after the commit and never fail the log.
func (s *JourneyService) LogJourney(ctx context.Context, userID uuid.UUID, req *journey.LogJourneyRequest) (*journey.LogJourneyResponse, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	mode := impact.Mode(req.Mode)
	calc, err := impact.Calculate(req.DistanceKm, mode)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	date := clock.DateOf(now)
	if req.Date != "" {
		date, err = clock.ParseDate(req.Date)
		if err != nil {
			return nil, apperr.Validation("date must be formatted YYYY-MM-DD")
		}
		if date.After(clock.DateOf(now)) {
			return nil, apperr.Validation("date cannot be in the future")
		}
	}

	j := &journey.Journey{
		ID:              uuid.New(),
		UserID:          userID,
		Date:            date,
		DistanceKm:      req.DistanceKm,
		Mode:            mode,
		StartLocationID: req.StartLocationID,
		EndLocationID:   req.EndLocationID,
		CreatedAt:       now,
	}

	var earned []achievement.Achievement
	err = s.store.InTx(ctx, func(q repository.Queries) error {
		if err := requireUser(ctx, q, userID); err != nil {
			return err
		}
		if err := requireLocation(ctx, q, j.StartLocationID, "start"); err != nil {
			return err
		}
		if err := requireLocation(ctx, q, j.EndLocationID, "end"); err != nil {
			return err
		}
		if err := q.InsertJourney(ctx, j, calc); err != nil {
			return err
		}
		if mode.Sustainable() {
			if _, err := advanceStreak(ctx, q, userID, date, now); err != nil {
				return err
			}
		}
		var err error
		earned, err = evaluateAchievements(ctx, q, userID, now)
		return err
	})
	if err != nil {
		return nil, err
	}

	metrics.JourneysLogged.WithLabelValues(string(mode)).Inc()
	log := s.log.WithFields(logrus.Fields{"user_id": userID, "journey_id": j.ID, "mode": mode})
	log.Info("journey logged")

	s.achievements.announce(ctx, userID, earned)

	updated, err := s.battles.RefreshBattleScores(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("battle refresh after journey failed")
	}

	if earned == nil {
		earned = []achievement.Achievement{}
	}
	return &journey.LogJourneyResponse{
		Journey:            j,
		Results:            calc,
		ImpactEquivalents:  impact.ImpactEquivalentsFor(calc.VsDriveCO2SavedG),
		CalorieEquivalents: impact.CalorieEquivalentsFor(calc.CaloriesKcal),
		NewAchievements:    earned,
		BattlesUpdated:     updated,
	}, nil
}

func (s *JourneyService) ListJourneys(ctx context.Context, userID uuid.UUID) ([]*journey.JourneyWithResult, error) {
	return s.store.ListJourneys(ctx, userID, journeyListLimit)
}
