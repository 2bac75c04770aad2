package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/repository"
)

const (
	journeyListLimit = 50
	battleListLimit  = 20
	searchLimit      = 10
	minSearchLength  = 2
	leaderboardSize  = 10
	notificationPage = 50
)

// requireUser turns a missing user into a caller-facing not-found error.
func requireUser(ctx context.Context, q repository.Queries, userID uuid.UUID) error {
	if _, err := q.GetUserByID(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("user not found")
		}
		return err
	}
	return nil
}
