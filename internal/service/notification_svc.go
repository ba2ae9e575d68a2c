package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/JairoProDev/mitube-go/internal/model"
)

const notificationPageLimit = 50

// Publisher relays a payload to live listeners of a topic. The realtime hub
// implements it; a nil Publisher disables realtime delivery.
type Publisher interface {
	Publish(topic string, payload any)
}

// NotificationStore is the persistence the notification service needs.
// Satisfied by repository.NotificationRepo.
type NotificationStore interface {
	Create(ctx context.Context, senderID string, req *model.CreateNotificationRequest) (*model.Notification, error)
	FindByID(ctx context.Context, id string) (*model.Notification, error)
	FindByRecipient(ctx context.Context, recipientID string, limit int) ([]model.Notification, error)
	MarkRead(ctx context.Context, id string) (*model.Notification, error)
	MarkAllRead(ctx context.Context, recipientID string) error
	Delete(ctx context.Context, id string) error
	PruneRead(ctx context.Context, olderThanDays int) (int64, error)
}

// NotificationService stores notifications and relays them to connected
// recipients. Relay failures never propagate to the caller; the stored copy
// is the source of truth.
type NotificationService struct {
	repo      NotificationStore
	publisher Publisher
	logger    zerolog.Logger
}

func NewNotificationService(repo NotificationStore, publisher Publisher, logger zerolog.Logger) *NotificationService {
	return &NotificationService{repo: repo, publisher: publisher, logger: logger}
}

// Create stores a notification from senderID and pushes it to the recipient's
// realtime topic if a publisher is wired.
func (s *NotificationService) Create(ctx context.Context, senderID string, req *model.CreateNotificationRequest) (*model.Notification, error) {
	n, err := s.repo.Create(ctx, senderID, req)
	if err != nil {
		return nil, err
	}
	if s.publisher != nil {
		s.publisher.Publish("notification_"+n.RecipientID, n)
	}
	return n, nil
}

// List returns the recipient's latest notifications, newest first, capped
// at notificationPageLimit.
func (s *NotificationService) List(ctx context.Context, recipientID string) ([]model.Notification, error) {
	return s.repo.FindByRecipient(ctx, recipientID, notificationPageLimit)
}

// MarkRead marks one notification read. Only the recipient may do so.
func (s *NotificationService) MarkRead(ctx context.Context, userID, id string) (*model.Notification, error) {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if n.RecipientID != userID {
		return nil, model.ErrForbidden
	}
	return s.repo.MarkRead(ctx, id)
}

// MarkAllRead marks every notification of the user read.
func (s *NotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return s.repo.MarkAllRead(ctx, userID)
}

// Delete removes one notification. Only the recipient may do so.
func (s *NotificationService) Delete(ctx context.Context, userID, id string) error {
	n, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if n.RecipientID != userID {
		return model.ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// PruneRead deletes read notifications older than the given age. Called by
// the maintenance worker.
func (s *NotificationService) PruneRead(ctx context.Context, olderThanDays int) (int64, error) {
	return s.repo.PruneRead(ctx, olderThanDays)
}
