package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/battle"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/metrics"
	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/user"
	"greenCommuteAPI/internal/validation"
)

type BattleService struct {
	store         repository.Store
	clock         clock.Clock
	validate      *validation.Validator
	notifications *NotificationService
	log           logrus.FieldLogger
}

func NewBattleService(store repository.Store, clk clock.Clock, v *validation.Validator, notifications *NotificationService, log logrus.FieldLogger) *BattleService {
	return &BattleService{store: store, clock: clk, validate: v, notifications: notifications, log: log}
}

// CreateBattle challenges the user named in req. At most one pending or
// active battle may exist per pair of users, in either direction.
func (s *BattleService) CreateBattle(ctx context.Context, challengerID uuid.UUID, req *battle.CreateBattleRequest) (*battle.Battle, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}
	days := battle.DefaultDurationDays
	if req.DurationDays != nil {
		days = *req.DurationDays
	}
	name := strings.TrimSpace(req.OpponentName)
	now := s.clock.Now()

	var (
		created    *battle.Battle
		challenger *user.User
	)
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		challenger, err = q.GetUserByID(ctx, challengerID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		if err != nil {
			return err
		}

		opponent, err := q.FindUserByName(ctx, name, challengerID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("no user named %q", name)
		}
		if err != nil {
			return err
		}

		b, err := battle.New(challengerID, opponent.ID, now, days, req.Mode)
		if err != nil {
			return err
		}
		b.CreatedAt = now

		if err := q.LockPair(ctx, challengerID, opponent.ID); err != nil {
			return err
		}
		_, err = q.FindOpenBattle(ctx, challengerID, opponent.ID)
		if err == nil {
			return apperr.Conflict("you already have an active battle with %s", opponent.Username)
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		if err := q.InsertBattle(ctx, b); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				return apperr.Conflict("you already have an active battle with %s", opponent.Username)
			}
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"battle_id":     created.ID,
		"challenger_id": created.ChallengerID,
		"opponent_id":   created.OpponentID,
		"status":        created.Status,
	}).Info("battle created")

	notice := &notification.CreateNotificationRequest{
		UserID: created.OpponentID,
		Data:   map[string]any{"battle_id": created.ID.String()},
	}
	if created.Status == battle.StatusPending {
		notice.Type = notification.NotificationBattleInvite
		notice.Title = "New battle challenge"
		notice.Message = fmt.Sprintf("%s challenged you to a %d day CO₂ battle", challenger.Username, days)
	} else {
		notice.Type = notification.NotificationBattleStarted
		notice.Title = "Battle started"
		notice.Message = fmt.Sprintf("%s started a %d day CO₂ battle with you", challenger.Username, days)
	}
	s.notifications.NotifyQuietly(ctx, notice)

	return created, nil
}

// RespondToBattle lets the opponent accept or decline a pending invite.
// Users outside the battle get NotFound. The challenger, or a battle that is
// no longer pending, gets the battle back unchanged.
func (s *BattleService) RespondToBattle(ctx context.Context, battleID, userID uuid.UUID, accept bool) (*battle.Battle, error) {
	var (
		b       *battle.Battle
		changed bool
	)
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		b, err = q.LockBattle(ctx, battleID)
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("battle not found")
		}
		if err != nil {
			return err
		}
		if !b.Involves(userID) {
			return apperr.NotFound("battle not found")
		}

		changed = b.Respond(userID, accept, s.clock.Now())
		if !changed {
			return nil
		}
		return q.UpdateBattle(ctx, b)
	})
	if err != nil {
		return nil, err
	}

	if changed && b.Status == battle.StatusActive {
		s.notifications.NotifyQuietly(ctx, &notification.CreateNotificationRequest{
			UserID:  b.ChallengerID,
			Type:    notification.NotificationBattleStarted,
			Title:   "Battle accepted",
			Message: fmt.Sprintf("Your battle runs until %s", clock.FormatDate(b.EndDate)),
			Data:    map[string]any{"battle_id": b.ID.String()},
		})
	}
	return b, nil
}

// RefreshBattleScores recomputes every active battle the user is in, each in
// its own transaction. A battle that fails is logged and left for the next
// trigger. It returns how many battles were rescored.
func (s *BattleService) RefreshBattleScores(ctx context.Context, userID uuid.UUID) (int, error) {
	ids, err := s.store.ListBattleIDs(ctx, userID, battle.StatusActive)
	if err != nil {
		return 0, fmt.Errorf("failed to list active battles: %w", err)
	}

	updated := 0
	for _, id := range ids {
		b, scored, err := s.refreshBattle(ctx, id)
		if err != nil {
			metrics.BattleRefreshFailures.Inc()
			s.log.WithError(err).WithField("battle_id", id).Warn("battle refresh failed")
			continue
		}
		if !scored {
			continue
		}
		updated++
		if b.Status == battle.StatusCompleted {
			s.announceResult(ctx, b)
		}
	}
	return updated, nil
}

func (s *BattleService) refreshBattle(ctx context.Context, id uuid.UUID) (*battle.Battle, bool, error) {
	var (
		b      *battle.Battle
		scored bool
	)
	err := s.store.InTx(ctx, func(q repository.Queries) error {
		var err error
		b, err = q.LockBattle(ctx, id)
		if err != nil {
			return err
		}
		// Completed or otherwise changed since it was listed.
		if b.Status != battle.StatusActive {
			return nil
		}

		challenger, err := q.SumCO2Saved(ctx, b.ChallengerID, b.StartDate, b.EndDate, false)
		if err != nil {
			return err
		}
		opponent, err := q.SumCO2Saved(ctx, b.OpponentID, b.StartDate, b.EndDate, false)
		if err != nil {
			return err
		}

		b.Score(challenger, opponent, s.clock.Now())
		scored = true
		return q.UpdateBattle(ctx, b)
	})
	if err != nil {
		return nil, false, err
	}
	return b, scored, nil
}

func (s *BattleService) announceResult(ctx context.Context, b *battle.Battle) {
	outcome := b.Outcome()
	metrics.BattlesCompleted.WithLabelValues(outcome).Inc()
	s.log.WithFields(logrus.Fields{"battle_id": b.ID, "outcome": outcome}).Info("battle completed")

	for _, participant := range []uuid.UUID{b.ChallengerID, b.OpponentID} {
		message := "It's a draw!"
		if b.WinnerID != nil {
			message = "You lost this one. Time for a rematch?"
			if *b.WinnerID == participant {
				message = "You won the battle!"
			}
		}
		s.notifications.NotifyQuietly(ctx, &notification.CreateNotificationRequest{
			UserID:  participant,
			Type:    notification.NotificationBattleResult,
			Title:   "Battle finished",
			Message: message,
			Data: map[string]any{
				"battle_id":              b.ID.String(),
				"challenger_co2_saved_g": b.ChallengerCO2SavedG.String(),
				"opponent_co2_saved_g":   b.OpponentCO2SavedG.String(),
			},
		})
	}
}

func (s *BattleService) ListBattles(ctx context.Context, userID uuid.UUID) ([]*battle.BattleView, error) {
	return s.store.ListBattles(ctx, userID, battleListLimit)
}

// SearchOpponents returns up to ten users whose name contains query. Queries
// shorter than two characters match nobody.
func (s *BattleService) SearchOpponents(ctx context.Context, userID uuid.UUID, query string) ([]*user.Opponent, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < minSearchLength {
		return []*user.Opponent{}, nil
	}
	return s.store.SearchUsers(ctx, query, userID, searchLimit)
}
