package notification

import (
	"context"
	"errors"
	"fmt"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultDeliverer stores an inbox entry and pushes to the recipient's device.
type DefaultDeliverer struct {
	NotificationRepo repository.NotificationRepository
	TechnicianRepo   repository.TechnicianRepository
	UserRepo         repository.UserRepository
	Pusher           Pusher // nil when push is disabled
	Logger           *zap.Logger
}

func (d *DefaultDeliverer) logger() *zap.Logger {
	if d.Logger == nil {
		return zap.NewNop()
	}
	return d.Logger
}

func (d *DefaultDeliverer) Deliver(ctx context.Context, event models.NotificationEvent) error {
	if event.RecipientID == "" {
		return fmt.Errorf("notification %q has no recipient", event.Title)
	}

	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	// retries reuse event.ID, so the inbox write is a no-op after the first attempt
	n := &models.Notification{
		ID:            event.ID,
		RecipientID:   event.RecipientID,
		RecipientRole: event.RecipientRole,
		Title:         event.Title,
		Message:       event.Body,
		Type:          event.Severity,
		BookingID:     event.BookingID,
	}
	if err := d.NotificationRepo.Create(ctx, n); err != nil {
		return fmt.Errorf("store notification: %w", err)
	}

	if d.Pusher == nil {
		return nil
	}
	token, err := d.lookupToken(ctx, event)
	if err != nil {
		return err
	}
	if token == "" {
		d.logger().Info("Recipient has no FCM token, push skipped",
			zap.String("recipientId", event.RecipientID),
			zap.String("role", string(event.RecipientRole)))
		return nil
	}

	resp, err := d.Pusher.Send(ctx, BuildMessage(token, event))
	if err != nil {
		return fmt.Errorf("send push to %s: %w", event.RecipientID, err)
	}
	d.logger().Debug("Push sent", zap.String("recipientId", event.RecipientID), zap.String("messageId", resp))
	return nil
}

// lookupToken resolves the device token. A missing recipient yields an empty token.
func (d *DefaultDeliverer) lookupToken(ctx context.Context, event models.NotificationEvent) (string, error) {
	switch event.RecipientRole {
	case models.RecipientTechnician:
		t, err := d.TechnicianRepo.GetByID(ctx, event.RecipientID)
		if errors.Is(err, database.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("lookup technician token: %w", err)
		}
		return t.FCMToken, nil
	default:
		u, err := d.UserRepo.GetByID(ctx, event.RecipientID)
		if errors.Is(err, database.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("lookup user token: %w", err)
		}
		return u.FCMToken, nil
	}
}
