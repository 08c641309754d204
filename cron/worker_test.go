package cron

import (
	"context"
	"errors"
	"testing"

	"ziyonstar/models"
	"ziyonstar/services/notification"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type delivererFunc func(ctx context.Context, e models.NotificationEvent) error

func (f delivererFunc) Deliver(ctx context.Context, e models.NotificationEvent) error {
	return f(ctx, e)
}

func TestHandleDeliverTask(t *testing.T) {
	var got models.NotificationEvent
	handler := HandleDeliverTask(delivererFunc(func(_ context.Context, e models.NotificationEvent) error {
		got = e
		return nil
	}), zap.NewNop())

	task, err := notification.NewDeliverTask(models.NotificationEvent{RecipientID: "user-1", Title: "Booking Placed", BookingID: "bk-1"})
	require.NoError(t, err)

	require.NoError(t, handler(context.Background(), task))
	assert.Equal(t, "Booking Placed", got.Title)
}

func TestHandleDeliverTask_RetriesDeliveryErrors(t *testing.T) {
	handler := HandleDeliverTask(delivererFunc(func(context.Context, models.NotificationEvent) error {
		return errors.New("fcm unavailable")
	}), zap.NewNop())

	task, err := notification.NewDeliverTask(models.NotificationEvent{RecipientID: "user-1"})
	require.NoError(t, err)

	err = handler(context.Background(), task)
	require.Error(t, err)
	assert.NotErrorIs(t, err, asynq.SkipRetry)
}

func TestHandleDeliverTask_BadPayloadSkipsRetry(t *testing.T) {
	handler := HandleDeliverTask(delivererFunc(func(context.Context, models.NotificationEvent) error {
		t.Fatal("deliverer must not be called")
		return nil
	}), zap.NewNop())

	err := handler(context.Background(), asynq.NewTask(notification.TypeNotificationDeliver, []byte("{not json")))
	assert.ErrorIs(t, err, asynq.SkipRetry)
}
