package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/location"
	"greenCommuteAPI/internal/repository"
)

func (q *queries) UpsertLocations(_ context.Context, catalog []location.Location) error {
	defer q.lock()()
	st := q.st()

	for _, l := range catalog {
		l.Lat, l.Lng = copyCoord(l.Lat), copyCoord(l.Lng)
		i := slices.IndexFunc(st.locations, func(e location.Location) bool { return e.Key == l.Key })
		if i >= 0 {
			l.ID = st.locations[i].ID
			st.locations[i] = l
			continue
		}
		if l.ID == uuid.Nil {
			l.ID = uuid.New()
		}
		st.locations = append(st.locations, l)
	}
	return nil
}

func (q *queries) ListLocations(_ context.Context) ([]*location.Location, error) {
	defer q.lock()()

	out := make([]*location.Location, 0, len(q.st().locations))
	for _, l := range q.st().locations {
		out = append(out, &l)
	}
	slices.SortFunc(out, func(a, b *location.Location) int {
		if c := cmp.Compare(a.Category, b.Category); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out, nil
}

func (q *queries) GetLocation(_ context.Context, id uuid.UUID) (*location.Location, error) {
	defer q.lock()()

	i := slices.IndexFunc(q.st().locations, func(l location.Location) bool { return l.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("location %s: %w", id, repository.ErrNotFound)
	}
	l := q.st().locations[i]
	return &l, nil
}

func copyCoord(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
