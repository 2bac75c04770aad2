package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/user"
)

func (q *queries) CreateUser(_ context.Context, u *user.User) (*user.User, error) {
	defer q.lock()()
	st := q.st()

	for id, existing := range st.users {
		if existing.ClerkID != u.ClerkID {
			continue
		}
		existing.Email = u.Email
		existing.Username = u.Username
		existing.FirstName = u.FirstName
		existing.LastName = u.LastName
		existing.ImageURL = u.ImageURL
		existing.UpdatedAt = u.UpdatedAt
		st.users[id] = existing
		out := existing
		return &out, nil
	}

	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	st.users[u.ID] = *u
	out := *u
	return &out, nil
}

func (q *queries) UpdateUser(_ context.Context, u *user.User) error {
	defer q.lock()()
	st := q.st()

	if _, ok := st.users[u.ID]; !ok {
		return fmt.Errorf("user %s: %w", u.ID, repository.ErrNotFound)
	}
	st.users[u.ID] = *u
	return nil
}

func (q *queries) DeleteUserByClerkID(_ context.Context, clerkID string) error {
	defer q.lock()()
	st := q.st()

	var id uuid.UUID
	found := false
	for uid, u := range st.users {
		if u.ClerkID == clerkID {
			id, found = uid, true
			break
		}
	}
	if !found {
		return fmt.Errorf("user %s: %w", clerkID, repository.ErrNotFound)
	}

	delete(st.users, id)
	delete(st.streaks, id)
	st.journeys = slices.DeleteFunc(st.journeys, func(r journeyRow) bool { return r.journey.UserID == id })
	st.notifications = slices.DeleteFunc(st.notifications, func(n notification.Notification) bool { return n.UserID == id })
	for k := range st.awards {
		if k.userID == id {
			delete(st.awards, k)
		}
	}
	for k, b := range st.battles {
		if b.Involves(id) {
			delete(st.battles, k)
		}
	}
	for k := range st.goals {
		if k.userID == id {
			delete(st.goals, k)
		}
	}
	for k := range st.devices {
		if k.userID == id {
			delete(st.devices, k)
		}
	}
	return nil
}

func (q *queries) GetUserByID(_ context.Context, id uuid.UUID) (*user.User, error) {
	defer q.lock()()

	u, ok := q.st().users[id]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", id, repository.ErrNotFound)
	}
	return &u, nil
}

func (q *queries) GetUserByClerkID(_ context.Context, clerkID string) (*user.User, error) {
	defer q.lock()()

	for _, u := range q.st().users {
		if u.ClerkID == clerkID {
			return &u, nil
		}
	}
	return nil, fmt.Errorf("user %s: %w", clerkID, repository.ErrNotFound)
}

func (q *queries) FindUserByName(_ context.Context, name string, exclude uuid.UUID) (*user.User, error) {
	defer q.lock()()

	var matches []user.User
	for _, u := range q.st().users {
		if u.ID != exclude && strings.EqualFold(u.Username, name) {
			matches = append(matches, u)
		}
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("user %q: %w", name, repository.ErrNotFound)
	}
	slices.SortFunc(matches, byCreated)
	return &matches[0], nil
}

func (q *queries) SearchUsers(_ context.Context, query string, exclude uuid.UUID, limit int) ([]*user.Opponent, error) {
	defer q.lock()()

	needle := strings.ToLower(query)
	var matches []user.User
	for _, u := range q.st().users {
		if u.ID != exclude && strings.Contains(strings.ToLower(u.Username), needle) {
			matches = append(matches, u)
		}
	}
	slices.SortFunc(matches, func(a, b user.User) int {
		return cmp.Compare(strings.ToLower(a.Username), strings.ToLower(b.Username))
	})

	out := make([]*user.Opponent, 0, min(len(matches), limit))
	for _, u := range matches {
		if len(out) == limit {
			break
		}
		out = append(out, &user.Opponent{ID: u.ID, Username: u.Username, ImageURL: u.ImageURL})
	}
	return out, nil
}

func byCreated(a, b user.User) int {
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID.String(), b.ID.String())
}
