package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/location"
)

func TestListLocationsGroupedByCategory(t *testing.T) {
	h := newHarness(t)

	all, err := h.locations.List(context.Background())
	require.NoError(t, err)
	require.Len(t, all, len(location.DefaultCatalog))

	assert.Equal(t, location.CategoryAberdeen, all[0].Category)
	assert.Equal(t, "Aberdeen Beach", all[0].Name)
	assert.Equal(t, location.CategoryGeneric, all[len(all)-1].Category)
}

func TestSeedLocationsIsIdempotent(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	before := h.locationID(t, "gym")

	require.NoError(t, h.locations.Seed(ctx, location.DefaultCatalog))
	all, err := h.locations.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, len(location.DefaultCatalog))
	assert.Equal(t, before, h.locationID(t, "gym"))

	lat := 1.0
	err = h.locations.Seed(ctx, []location.Location{{Key: "half", Name: "Half", Category: location.CategoryAberdeen, Lat: &lat}})
	assert.Error(t, err)
	err = h.locations.Seed(ctx, []location.Location{{Key: "moon", Name: "Moon", Category: "space"}})
	assert.Error(t, err)
}

func TestLocationDistance(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	resp, err := h.locations.Distance(ctx, h.locationID(t, "union_street"), h.locationID(t, "university_of_aberdeen"))
	require.NoError(t, err)
	assert.Equal(t, location.MethodHaversine, resp.Method)
	require.NotNil(t, resp.DistanceKm)
	assert.Equal(t, 2.9, *resp.DistanceKm)

	manual, err := h.locations.Distance(ctx, h.locationID(t, "home"), h.locationID(t, "union_street"))
	require.NoError(t, err)
	assert.Equal(t, location.MethodManual, manual.Method)
	assert.Nil(t, manual.DistanceKm)

	_, err = h.locations.Distance(ctx, uuid.New(), h.locationID(t, "home"))
	assert.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = h.locations.Distance(ctx, h.locationID(t, "home"), uuid.New())
	assert.ErrorIs(t, err, apperr.ErrNotFound)
}
