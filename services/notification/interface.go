package notification

import (
	"context"

	"ziyonstar/models"
)

// Dispatcher accepts notification descriptors for asynchronous fan-out.
// Emit must return quickly; delivery failures surface only in logs.
type Dispatcher interface {
	Emit(ctx context.Context, event models.NotificationEvent) error
}

// Deliverer performs the actual fan-out of one event: inbox persistence and push.
type Deliverer interface {
	Deliver(ctx context.Context, event models.NotificationEvent) error
}
