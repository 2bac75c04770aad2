package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/location"
	"greenCommuteAPI/internal/repository"
)

type LocationService struct {
	store repository.Store
	log   logrus.FieldLogger
}

func NewLocationService(store repository.Store, log logrus.FieldLogger) *LocationService {
	return &LocationService{store: store, log: log}
}

func (s *LocationService) List(ctx context.Context) ([]*location.Location, error) {
	return s.store.ListLocations(ctx)
}

// Distance estimates the road distance between two stored locations.
func (s *LocationService) Distance(ctx context.Context, fromID, toID uuid.UUID) (*location.DistanceResponse, error) {
	from, err := getLocation(ctx, s.store, fromID)
	if err != nil {
		return nil, err
	}
	to, err := getLocation(ctx, s.store, toID)
	if err != nil {
		return nil, err
	}

	resp := location.Distance(from, to)
	return &resp, nil
}

// Seed loads catalog into the store, updating entries that share a key.
func (s *LocationService) Seed(ctx context.Context, catalog []location.Location) error {
	for _, l := range catalog {
		if !l.Category.Valid() {
			return fmt.Errorf("location %s: unknown category %q", l.Key, l.Category)
		}
		if (l.Lat == nil) != (l.Lng == nil) {
			return fmt.Errorf("location %s: lat and lng must be set together", l.Key)
		}
	}
	return s.store.UpsertLocations(ctx, catalog)
}

func getLocation(ctx context.Context, q repository.Queries, id uuid.UUID) (*location.Location, error) {
	l, err := q.GetLocation(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound("location not found")
	}
	return l, err
}

// requireLocation accepts a nil reference; a set one must exist.
func requireLocation(ctx context.Context, q repository.Queries, id *uuid.UUID, which string) error {
	if id == nil {
		return nil
	}
	if _, err := q.GetLocation(ctx, *id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperr.NotFound("%s location not found", which)
		}
		return err
	}
	return nil
}
