package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"greenCommuteAPI/internal/battle"
	"greenCommuteAPI/internal/repository"
)

const battleColumns = `
	b.id, b.challenger_id, b.opponent_id, b.status, b.start_date, b.end_date,
	b.challenger_co2_saved_g::text, b.opponent_co2_saved_g::text, b.winner_id, b.created_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanBattle(row scanner, extra ...any) (*battle.Battle, error) {
	b := &battle.Battle{}
	var challenger, opponent string
	dest := append([]any{
		&b.ID,
		&b.ChallengerID,
		&b.OpponentID,
		&b.Status,
		&b.StartDate,
		&b.EndDate,
		&challenger,
		&opponent,
		&b.WinnerID,
		&b.CreatedAt,
	}, extra...)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	var err error
	if b.ChallengerCO2SavedG, err = decimal.NewFromString(challenger); err != nil {
		return nil, fmt.Errorf("parse challenger score: %w", err)
	}
	if b.OpponentCO2SavedG, err = decimal.NewFromString(opponent); err != nil {
		return nil, fmt.Errorf("parse opponent score: %w", err)
	}
	return b, nil
}

func (q *queries) LockPair(ctx context.Context, a, b uuid.UUID) error {
	lo, hi := battle.PairKey(a, b)
	_, err := q.db.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, lo.String()+":"+hi.String())
	if err != nil {
		return fmt.Errorf("failed to lock battle pair: %w", err)
	}
	return nil
}

func (q *queries) FindOpenBattle(ctx context.Context, a, b uuid.UUID) (*battle.Battle, error) {
	query := `
	SELECT ` + battleColumns + `
	FROM friend_battles b
	WHERE ((b.challenger_id = $1 AND b.opponent_id = $2) OR (b.challenger_id = $2 AND b.opponent_id = $1))
	  AND b.status IN ('pending', 'active')
	LIMIT 1
	`

	found, err := scanBattle(q.db.QueryRow(ctx, query, a, b))
	if err != nil {
		return nil, notFound(err, "open battle")
	}
	return found, nil
}

func (q *queries) InsertBattle(ctx context.Context, b *battle.Battle) error {
	_, err := q.db.Exec(ctx, `
	INSERT INTO friend_battles (
		id, challenger_id, opponent_id, status, start_date, end_date,
		challenger_co2_saved_g, opponent_co2_saved_g, winner_id, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7::numeric, $8::numeric, $9, $10)
	`, b.ID, b.ChallengerID, b.OpponentID, b.Status, b.StartDate, b.EndDate,
		b.ChallengerCO2SavedG.String(), b.OpponentCO2SavedG.String(), b.WinnerID, b.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("battle between %s and %s: %w", b.ChallengerID, b.OpponentID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to insert battle: %w", err)
	}
	return nil
}

func (q *queries) GetBattle(ctx context.Context, id uuid.UUID) (*battle.Battle, error) {
	b, err := scanBattle(q.db.QueryRow(ctx, `SELECT `+battleColumns+` FROM friend_battles b WHERE b.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "battle")
	}
	return b, nil
}

func (q *queries) LockBattle(ctx context.Context, id uuid.UUID) (*battle.Battle, error) {
	b, err := scanBattle(q.db.QueryRow(ctx, `SELECT `+battleColumns+` FROM friend_battles b WHERE b.id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, notFound(err, "battle")
	}
	return b, nil
}

func (q *queries) UpdateBattle(ctx context.Context, b *battle.Battle) error {
	tag, err := q.db.Exec(ctx, `
	UPDATE friend_battles
	SET status = $2,
		start_date = $3,
		end_date = $4,
		challenger_co2_saved_g = $5::numeric,
		opponent_co2_saved_g = $6::numeric,
		winner_id = $7
	WHERE id = $1
	`, b.ID, b.Status, b.StartDate, b.EndDate,
		b.ChallengerCO2SavedG.String(), b.OpponentCO2SavedG.String(), b.WinnerID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("battle %s: %w", b.ID, repository.ErrDuplicate)
		}
		return fmt.Errorf("failed to update battle: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("battle %s: %w", b.ID, repository.ErrNotFound)
	}
	return nil
}

func (q *queries) ListBattleIDs(ctx context.Context, userID uuid.UUID, status battle.Status) ([]uuid.UUID, error) {
	rows, err := q.db.Query(ctx, `
	SELECT id FROM friend_battles
	WHERE (challenger_id = $1 OR opponent_id = $1) AND status = $2
	ORDER BY created_at, id
	`, userID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch battles: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan battle id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (q *queries) ListBattles(ctx context.Context, userID uuid.UUID, limit int) ([]*battle.BattleView, error) {
	query := `
	SELECT ` + battleColumns + `,
		c.username, o.username, w.username
	FROM friend_battles b
	JOIN users c ON c.id = b.challenger_id
	JOIN users o ON o.id = b.opponent_id
	LEFT JOIN users w ON w.id = b.winner_id
	WHERE b.challenger_id = $1 OR b.opponent_id = $1
	ORDER BY b.created_at DESC, b.id DESC
	LIMIT $2
	`

	rows, err := q.db.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch battles: %w", err)
	}
	defer rows.Close()

	out := make([]*battle.BattleView, 0)
	for rows.Next() {
		view := &battle.BattleView{}
		b, err := scanBattle(rows, &view.ChallengerName, &view.OpponentName, &view.WinnerName)
		if err != nil {
			return nil, fmt.Errorf("failed to scan battle: %w", err)
		}
		view.Battle = *b
		out = append(out, view)
	}
	return out, rows.Err()
}
