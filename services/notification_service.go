package services

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"greenCommuteAPI/internal/apperr"
	"greenCommuteAPI/internal/clock"
	"greenCommuteAPI/internal/notification"
	"greenCommuteAPI/internal/repository"
	"greenCommuteAPI/internal/validation"
)

type NotificationService struct {
	store      repository.Store
	clock      clock.Clock
	validate   *validation.Validator
	dispatcher *NotificationDispatcher
	log        logrus.FieldLogger
}

func NewNotificationService(store repository.Store, clk clock.Clock, v *validation.Validator, log logrus.FieldLogger) *NotificationService {
	return &NotificationService{
		store:      store,
		clock:      clk,
		validate:   v,
		dispatcher: NewNotificationDispatcher(5, log),
		log:        log,
	}
}

func (s *NotificationService) SetPushProvider(provider PushNotificationProvider) {
	s.dispatcher.SetPushProvider(provider)
}

func (s *NotificationService) Stop() {
	s.dispatcher.Stop()
}

// CreateNotification stores a notification and queues its push.
func (s *NotificationService) CreateNotification(ctx context.Context, req *notification.CreateNotificationRequest) (*notification.Notification, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	notif := &notification.Notification{
		ID:        uuid.New(),
		UserID:    req.UserID,
		Type:      req.Type,
		Title:     req.Title,
		Message:   req.Message,
		Data:      req.Data,
		CreatedAt: s.clock.Now(),
	}
	if err := s.store.InsertNotification(ctx, notif); err != nil {
		return nil, err
	}

	tokens, err := s.store.ListDeviceTokens(ctx, req.UserID)
	if err != nil {
		s.log.WithError(err).WithField("user_id", req.UserID).Warn("failed to load device tokens")
	}
	s.dispatcher.Dispatch(notif, tokens)
	return notif, nil
}

// NotifyQuietly is CreateNotification for side effects of an operation that
// already succeeded: failures are logged, never returned.
func (s *NotificationService) NotifyQuietly(ctx context.Context, req *notification.CreateNotificationRequest) {
	if _, err := s.CreateNotification(ctx, req); err != nil {
		s.log.WithError(err).WithFields(logrus.Fields{
			"user_id": req.UserID,
			"type":    req.Type,
		}).Warn("failed to create notification")
	}
}

func (s *NotificationService) GetNotifications(ctx context.Context, userID uuid.UUID) (*notification.NotificationListResponse, error) {
	items, err := s.store.ListNotifications(ctx, userID, notificationPage)
	if err != nil {
		return nil, err
	}
	unread, err := s.store.CountUnread(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &notification.NotificationListResponse{Notifications: items, UnreadCount: unread}, nil
}

func (s *NotificationService) MarkAsRead(ctx context.Context, userID, notificationID uuid.UUID) error {
	err := s.store.MarkNotificationRead(ctx, notificationID, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("notification not found")
	}
	return err
}

func (s *NotificationService) RegisterDevice(ctx context.Context, userID uuid.UUID, req *notification.RegisterDeviceRequest) error {
	if err := s.validate.Struct(req); err != nil {
		return err
	}
	return s.store.UpsertDeviceToken(ctx, notification.DeviceToken{
		UserID:   userID,
		Token:    req.Token,
		Platform: req.Platform,
	})
}

func (s *NotificationService) UnregisterDevice(ctx context.Context, userID uuid.UUID, token string) error {
	if token == "" {
		return apperr.Validation("token is required")
	}
	return s.store.DeleteDeviceToken(ctx, userID, token)
}
