package notification

import (
	"context"
	"errors"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"
)

var ErrNotificationNotFound = errors.New("notification not found")

// InboxService exposes persisted notifications to their recipients.
type InboxService interface {
	List(ctx context.Context, recipientID string) ([]models.Notification, error)
	MarkSeen(ctx context.Context, recipientID, id string) error
	ClearAll(ctx context.Context, recipientID string) (int64, error)
	RegisterUserToken(ctx context.Context, userID, token string) error
}

type DefaultInboxService struct {
	Repo     repository.NotificationRepository
	UserRepo repository.UserRepository
}

func (s *DefaultInboxService) List(ctx context.Context, recipientID string) ([]models.Notification, error) {
	return s.Repo.ListByRecipient(ctx, recipientID)
}

func (s *DefaultInboxService) MarkSeen(ctx context.Context, recipientID, id string) error {
	err := s.Repo.MarkSeen(ctx, recipientID, id)
	if errors.Is(err, database.ErrNotFound) {
		return ErrNotificationNotFound
	}
	return err
}

func (s *DefaultInboxService) ClearAll(ctx context.Context, recipientID string) (int64, error) {
	return s.Repo.ClearAll(ctx, recipientID)
}

// RegisterUserToken stores the customer's device token for push delivery.
func (s *DefaultInboxService) RegisterUserToken(ctx context.Context, userID, token string) error {
	return s.UserRepo.SetFCMToken(ctx, userID, token)
}
