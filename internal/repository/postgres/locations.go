package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"greenCommuteAPI/internal/location"
)

const locationColumns = `l.id, l.key, l.name, l.category, l.lat, l.lng`

func scanLocation(row scanner) (*location.Location, error) {
	l := &location.Location{}
	if err := row.Scan(&l.ID, &l.Key, &l.Name, &l.Category, &l.Lat, &l.Lng); err != nil {
		return nil, err
	}
	return l, nil
}

func (q *queries) UpsertLocations(ctx context.Context, catalog []location.Location) error {
	query := `
	INSERT INTO locations (id, key, name, category, lat, lng)
	VALUES ($1, $2, $3, $4, $5, $6)
	ON CONFLICT (key) DO UPDATE SET
		name = EXCLUDED.name,
		category = EXCLUDED.category,
		lat = EXCLUDED.lat,
		lng = EXCLUDED.lng
	`

	batch := &pgx.Batch{}
	for _, l := range catalog {
		id := l.ID
		if id == uuid.Nil {
			id = uuid.New()
		}
		batch.Queue(query, id, l.Key, l.Name, l.Category, l.Lat, l.Lng)
	}

	br := q.db.SendBatch(ctx, batch)
	defer br.Close()
	for _, l := range catalog {
		if _, err := br.Exec(); err != nil {
			return fmt.Errorf("failed to upsert location %s: %w", l.Key, err)
		}
	}
	return nil
}

func (q *queries) ListLocations(ctx context.Context) ([]*location.Location, error) {
	rows, err := q.db.Query(ctx, `
	SELECT `+locationColumns+`
	FROM locations l
	ORDER BY l.category, l.name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list locations: %w", err)
	}
	defer rows.Close()

	locations := []*location.Location{}
	for rows.Next() {
		l, err := scanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locations = append(locations, l)
	}
	return locations, rows.Err()
}

func (q *queries) GetLocation(ctx context.Context, id uuid.UUID) (*location.Location, error) {
	l, err := scanLocation(q.db.QueryRow(ctx, `SELECT `+locationColumns+` FROM locations l WHERE l.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "location")
	}
	return l, nil
}
