package notification

import (
	"context"
	"time"

	"ziyonstar/models"

	"go.uber.org/zap"
)

// DirectDispatcher delivers in a background goroutine. It is used when no queue is configured.
type DirectDispatcher struct {
	Deliverer Deliverer
	Logger    *zap.Logger
	Timeout   time.Duration
}

func (d *DirectDispatcher) Emit(_ context.Context, event models.NotificationEvent) error {
	timeout := d.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	go func() {
		// detached from the request context, which ends with the response
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := d.Deliverer.Deliver(ctx, event); err != nil && d.Logger != nil {
			d.Logger.Warn("Notification delivery failed",
				zap.String("bookingId", event.BookingID),
				zap.String("recipientId", event.RecipientID),
				zap.Error(err))
		}
	}()
	return nil
}
