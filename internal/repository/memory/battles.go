package memory

import (
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/battle"
	"greenCommuteAPI/internal/repository"
)

// LockPair is a no-op here: InTx already holds the store lock.
func (q *queries) LockPair(context.Context, uuid.UUID, uuid.UUID) error {
	return nil
}

func (q *queries) FindOpenBattle(_ context.Context, a, b uuid.UUID) (*battle.Battle, error) {
	defer q.lock()()

	if found := q.openBattle(a, b); found != nil {
		return found, nil
	}
	return nil, fmt.Errorf("open battle: %w", repository.ErrNotFound)
}

func (q *queries) openBattle(a, b uuid.UUID) *battle.Battle {
	for _, existing := range q.st().battles {
		if existing.Open() && existing.Involves(a) && existing.Involves(b) {
			return &existing
		}
	}
	return nil
}

func (q *queries) InsertBattle(_ context.Context, b *battle.Battle) error {
	defer q.lock()()

	if b.Open() && q.openBattle(b.ChallengerID, b.OpponentID) != nil {
		return fmt.Errorf("battle between %s and %s: %w", b.ChallengerID, b.OpponentID, repository.ErrDuplicate)
	}
	q.st().battles[b.ID] = *b
	return nil
}

func (q *queries) GetBattle(_ context.Context, id uuid.UUID) (*battle.Battle, error) {
	defer q.lock()()

	b, ok := q.st().battles[id]
	if !ok {
		return nil, fmt.Errorf("battle %s: %w", id, repository.ErrNotFound)
	}
	return &b, nil
}

func (q *queries) LockBattle(ctx context.Context, id uuid.UUID) (*battle.Battle, error) {
	return q.GetBattle(ctx, id)
}

func (q *queries) UpdateBattle(_ context.Context, b *battle.Battle) error {
	defer q.lock()()

	if _, ok := q.st().battles[b.ID]; !ok {
		return fmt.Errorf("battle %s: %w", b.ID, repository.ErrNotFound)
	}
	q.st().battles[b.ID] = *b
	return nil
}

func (q *queries) ListBattleIDs(_ context.Context, userID uuid.UUID, status battle.Status) ([]uuid.UUID, error) {
	defer q.lock()()

	matches := q.battlesOf(userID)
	ids := make([]uuid.UUID, 0, len(matches))
	for _, b := range matches {
		if b.Status == status {
			ids = append(ids, b.ID)
		}
	}
	return ids, nil
}

func (q *queries) ListBattles(_ context.Context, userID uuid.UUID, limit int) ([]*battle.BattleView, error) {
	defer q.lock()()
	st := q.st()

	matches := q.battlesOf(userID)
	slices.Reverse(matches)

	out := make([]*battle.BattleView, 0, min(len(matches), limit))
	for _, b := range matches {
		if len(out) == limit {
			break
		}
		view := &battle.BattleView{
			Battle:         b,
			ChallengerName: st.users[b.ChallengerID].Username,
			OpponentName:   st.users[b.OpponentID].Username,
		}
		if b.WinnerID != nil {
			name := st.users[*b.WinnerID].Username
			view.WinnerName = &name
		}
		out = append(out, view)
	}
	return out, nil
}

// battlesOf returns the user's battles oldest first.
func (q *queries) battlesOf(userID uuid.UUID) []battle.Battle {
	var out []battle.Battle
	for _, b := range q.st().battles {
		if b.Involves(userID) {
			out = append(out, b)
		}
	}
	slices.SortFunc(out, func(a, b battle.Battle) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return slices.Compare(a.ID[:], b.ID[:])
	})
	return out
}
