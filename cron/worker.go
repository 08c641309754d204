package cron

import (
	"context"
	"fmt"
	"time"

	"ziyonstar/services/notification"

	"github.com/go-redis/redis/v8"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// NotificationWorker consumes queued notification events and delivers them.
type NotificationWorker struct {
	srv    *asynq.Server
	mux    *asynq.ServeMux
	logger *zap.Logger
}

func NewNotificationWorker(redisOpts asynq.RedisClientOpt, queue string, deliverer notification.Deliverer, logger *zap.Logger) *NotificationWorker {
	srv := asynq.NewServer(
		redisOpts,
		asynq.Config{
			Concurrency: 10,
			Queues: map[string]int{
				queue: 1,
			},
		},
	)

	mux := asynq.NewServeMux()
	mux.HandleFunc(notification.TypeNotificationDeliver, HandleDeliverTask(deliverer, logger))

	return &NotificationWorker{srv: srv, mux: mux, logger: logger}
}

// Start launches the worker, retrying with linear backoff while Redis is unreachable.
func (w *NotificationWorker) Start() error {
	const maxAttempts = 5

	var err error
	for attempts := 1; attempts <= maxAttempts; attempts++ {
		if err = w.srv.Start(w.mux); err == nil {
			w.logger.Info("Notification worker started")
			return nil
		}
		w.logger.Warn("Notification worker failed to start",
			zap.Int("attempt", attempts),
			zap.Int("maxAttempts", maxAttempts),
			zap.Error(err))
		time.Sleep(time.Duration(attempts*2) * time.Second)
	}
	return fmt.Errorf("notification worker: %w", err)
}

// Shutdown waits for in-flight deliveries to finish.
func (w *NotificationWorker) Shutdown() {
	w.srv.Shutdown()
}

// HandleDeliverTask returns the asynq handler for notification:deliver tasks.
// Returning an error makes asynq retry the task.
func HandleDeliverTask(deliverer notification.Deliverer, logger *zap.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, task *asynq.Task) error {
		event, err := notification.DecodeDeliverTask(task)
		if err != nil {
			logger.Error("Invalid notification payload", zap.Error(err))
			return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
		}

		if err := deliverer.Deliver(ctx, event); err != nil {
			logger.Warn("Notification delivery failed",
				zap.String("bookingId", event.BookingID),
				zap.String("recipientId", event.RecipientID),
				zap.String("title", event.Title),
				zap.Error(err))
			return err
		}
		return nil
	}
}

// MonitorRedisConnection pings Redis periodically until ctx is done.
func MonitorRedisConnection(ctx context.Context, client *redis.Client, logger *zap.Logger) {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := client.Ping(ctx).Err(); err != nil && ctx.Err() == nil {
				logger.Warn("Queue Redis connection lost", zap.Error(err))
			}
		}
	}
}
