package location

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func find(t *testing.T, key string) *Location {
	t.Helper()
	for i := range DefaultCatalog {
		if DefaultCatalog[i].Key == key {
			return &DefaultCatalog[i]
		}
	}
	t.Fatalf("no location %q", key)
	return nil
}

func TestHaversineOneDegreeOfLongitudeAtEquator(t *testing.T) {
	assert.InDelta(t, 111.195, HaversineKm(0, 0, 0, 1), 0.001)
	assert.Zero(t, HaversineKm(57.1, -2.1, 57.1, -2.1))
}

func TestDistanceAppliesRoadFactorAndRounds(t *testing.T) {
	resp := Distance(find(t, "union_street"), find(t, "university_of_aberdeen"))

	assert.Equal(t, MethodHaversine, resp.Method)
	assert.Equal(t, "Union Street", resp.From)
	assert.Equal(t, "University of Aberdeen", resp.To)
	require.NotNil(t, resp.DistanceKm)
	assert.Equal(t, 2.9, *resp.DistanceKm)
}

func TestDistanceIsManualWithoutCoordinates(t *testing.T) {
	for _, pair := range [][2]string{{"home", "work"}, {"home", "union_street"}, {"union_street", "gym"}} {
		resp := Distance(find(t, pair[0]), find(t, pair[1]))
		assert.Equal(t, MethodManual, resp.Method, pair)
		assert.Nil(t, resp.DistanceKm, pair)
	}
}

func TestDefaultCatalogIsConsistent(t *testing.T) {
	seen := map[string]bool{}
	for _, l := range DefaultCatalog {
		assert.False(t, seen[l.Key], "duplicate key %s", l.Key)
		seen[l.Key] = true
		assert.True(t, l.Category.Valid(), l.Key)
		assert.Equal(t, l.Lat == nil, l.Lng == nil, "%s needs both coordinates or neither", l.Key)
		assert.Equal(t, l.Category == CategoryAberdeen, l.HasCoordinates(), l.Key)
	}
}
