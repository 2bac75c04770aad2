package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/user"
)

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const userColumns = `id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }, u *user.User) error {
	return row.Scan(
		&u.ID,
		&u.ClerkID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.ImageURL,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
}

func (q *queries) CreateUser(ctx context.Context, u *user.User) (*user.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}

	query := `
	INSERT INTO users (id, clerk_id, email, username, first_name, last_name, image_url, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (clerk_id) DO UPDATE SET
		email = EXCLUDED.email,
		username = EXCLUDED.username,
		first_name = EXCLUDED.first_name,
		last_name = EXCLUDED.last_name,
		image_url = EXCLUDED.image_url,
		updated_at = EXCLUDED.updated_at
	RETURNING ` + userColumns

	out := &user.User{}
	err := scanUser(q.db.QueryRow(ctx, query,
		u.ID,
		u.ClerkID,
		u.Email,
		u.Username,
		u.FirstName,
		u.LastName,
		u.ImageURL,
		u.CreatedAt,
		u.UpdatedAt,
	), out)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return out, nil
}

func (q *queries) UpdateUser(ctx context.Context, u *user.User) error {
	query := `
	UPDATE users
	SET email = $2, username = $3, first_name = $4, last_name = $5, image_url = $6, updated_at = $7
	WHERE id = $1
	`

	tag, err := q.db.Exec(ctx, query, u.ID, u.Email, u.Username, u.FirstName, u.LastName, u.ImageURL, u.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", u.ID, repository.ErrNotFound)
	}
	return nil
}

func (q *queries) DeleteUserByClerkID(ctx context.Context, clerkID string) error {
	tag, err := q.db.Exec(ctx, `DELETE FROM users WHERE clerk_id = $1`, clerkID)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %s: %w", clerkID, repository.ErrNotFound)
	}
	return nil
}

func (q *queries) GetUserByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	u := &user.User{}
	err := scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id), u)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (q *queries) GetUserByClerkID(ctx context.Context, clerkID string) (*user.User, error) {
	u := &user.User{}
	err := scanUser(q.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE clerk_id = $1`, clerkID), u)
	if err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (q *queries) FindUserByName(ctx context.Context, name string, exclude uuid.UUID) (*user.User, error) {
	query := `
	SELECT ` + userColumns + `
	FROM users
	WHERE LOWER(username) = LOWER($1) AND id <> $2
	ORDER BY created_at, id
	LIMIT 1
	`

	u := &user.User{}
	if err := scanUser(q.db.QueryRow(ctx, query, name, exclude), u); err != nil {
		return nil, notFound(err, "user")
	}
	return u, nil
}

func (q *queries) SearchUsers(ctx context.Context, search string, exclude uuid.UUID, limit int) ([]*user.Opponent, error) {
	query := `
	SELECT id, username, image_url
	FROM users
	WHERE username ILIKE '%' || $1 || '%' AND id <> $2
	ORDER BY LOWER(username)
	LIMIT $3
	`

	rows, err := q.db.Query(ctx, query, likeEscaper.Replace(search), exclude, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	defer rows.Close()

	out := make([]*user.Opponent, 0)
	for rows.Next() {
		o := &user.Opponent{}
		if err := rows.Scan(&o.ID, &o.Username, &o.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		out = append(out, o)
	}
	return out, rows.Err()
}
