package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"github.com/google/uuid"

	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/repository"
)

func (q *queries) InsertNotification(_ context.Context, n *notification.Notification) error {
	defer q.lock()()

	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	q.st().notifications = append(q.st().notifications, *n)
	return nil
}

func (q *queries) ListNotifications(_ context.Context, userID uuid.UUID, limit int) ([]*notification.Notification, error) {
	defer q.lock()()

	out := make([]*notification.Notification, 0)
	all := q.st().notifications
	for i := len(all) - 1; i >= 0 && len(out) < limit; i-- {
		if all[i].UserID == userID {
			n := all[i]
			out = append(out, &n)
		}
	}
	return out, nil
}

func (q *queries) CountUnread(_ context.Context, userID uuid.UUID) (int, error) {
	defer q.lock()()

	count := 0
	for _, n := range q.st().notifications {
		if n.UserID == userID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (q *queries) MarkNotificationRead(_ context.Context, id, userID uuid.UUID) error {
	defer q.lock()()

	all := q.st().notifications
	for i := range all {
		if all[i].ID == id && all[i].UserID == userID {
			all[i].IsRead = true
			return nil
		}
	}
	return fmt.Errorf("notification %s: %w", id, repository.ErrNotFound)
}

func (q *queries) UpsertDeviceToken(_ context.Context, t notification.DeviceToken) error {
	defer q.lock()()

	q.st().devices[deviceKey{t.UserID, t.Token}] = t
	return nil
}

func (q *queries) DeleteDeviceToken(_ context.Context, userID uuid.UUID, token string) error {
	defer q.lock()()

	delete(q.st().devices, deviceKey{userID, token})
	return nil
}

func (q *queries) ListDeviceTokens(_ context.Context, userID uuid.UUID) ([]notification.DeviceToken, error) {
	defer q.lock()()

	var out []notification.DeviceToken
	for k, t := range q.st().devices {
		if k.userID == userID {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b notification.DeviceToken) int { return cmp.Compare(a.Token, b.Token) })
	return out, nil
}
