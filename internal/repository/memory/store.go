// Package memory is an in-process repository.Store. A single mutex serialises
// every call, and InTx holds it for the whole callback, restoring the previous
// state when the callback fails.
package memory

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/achievement"
	"greenCommuteAPI/internal/battle"
	"greenCommuteAPI/internal/impact"
	"greenCommuteAPI/internal/journey"
	"greenCommuteAPI/internal/location"
	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/stats"
	"greenCommuteAPI/internal/streak"
	"greenCommuteAPI/internal/user"
)

type journeyRow struct {
	journey journey.Journey
	result  impact.Calculation
}

type awardKey struct {
	userID        uuid.UUID
	achievementID uuid.UUID
}

type goalKey struct {
	userID    uuid.UUID
	weekStart time.Time
}

type deviceKey struct {
	userID uuid.UUID
	token  string
}

type state struct {
	users         map[uuid.UUID]user.User
	journeys      []journeyRow
	streaks       map[uuid.UUID]streak.Streak
	achievements  []achievement.Achievement
	awards        map[awardKey]time.Time
	locations     []location.Location
	battles       map[uuid.UUID]battle.Battle
	goals         map[goalKey]stats.WeeklyGoal
	notifications []notification.Notification
	devices       map[deviceKey]notification.DeviceToken
}

func newState() *state {
	return &state{
		users:   make(map[uuid.UUID]user.User),
		streaks: make(map[uuid.UUID]streak.Streak),
		awards:  make(map[awardKey]time.Time),
		battles: make(map[uuid.UUID]battle.Battle),
		goals:   make(map[goalKey]stats.WeeklyGoal),
		devices: make(map[deviceKey]notification.DeviceToken),
	}
}

// clone copies the containers. Stored values are never mutated in place, so
// sharing their pointer fields between snapshots is safe.
func (s *state) clone() *state {
	return &state{
		users:         maps.Clone(s.users),
		journeys:      slices.Clone(s.journeys),
		streaks:       maps.Clone(s.streaks),
		achievements:  slices.Clone(s.achievements),
		awards:        maps.Clone(s.awards),
		locations:     slices.Clone(s.locations),
		battles:       maps.Clone(s.battles),
		goals:         maps.Clone(s.goals),
		notifications: slices.Clone(s.notifications),
		devices:       maps.Clone(s.devices),
	}
}

type Store struct {
	*queries
	mu sync.Mutex
	st *state
}

var _ repository.Store = (*Store)(nil)

func New() *Store {
	s := &Store{st: newState()}
	s.queries = &queries{store: s}
	return s
}

func (s *Store) InTx(ctx context.Context, fn func(q repository.Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	snapshot := s.st.clone()
	if err := fn(&queries{store: s, inTx: true}); err != nil {
		s.st = snapshot
		return err
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) Close() {}

// queries implements repository.Queries. Outside a transaction each call
// takes the store lock itself.
type queries struct {
	store *Store
	inTx  bool
}

func (q *queries) lock() func() {
	if q.inTx {
		return func() {}
	}
	q.store.mu.Lock()
	return q.store.mu.Unlock
}

func (q *queries) st() *state {
	return q.store.st
}
