package notification

import (
	"context"
	"encoding/json"
	"fmt"

	"ziyonstar/models"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const TypeNotificationDeliver = "notification:deliver"

// Enqueuer is the subset of *asynq.Client used for dispatch.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

// QueueDispatcher hands events to the asynq worker, which retries failed deliveries.
type QueueDispatcher struct {
	Client   Enqueuer
	Queue    string
	MaxRetry int
}

// NewDeliverTask encodes event as an asynq task.
func NewDeliverTask(event models.NotificationEvent) (*asynq.Task, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("encode notification: %w", err)
	}
	return asynq.NewTask(TypeNotificationDeliver, payload), nil
}

// DecodeDeliverTask is the inverse of NewDeliverTask.
func DecodeDeliverTask(task *asynq.Task) (models.NotificationEvent, error) {
	var event models.NotificationEvent
	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		return event, fmt.Errorf("decode notification: %w", err)
	}
	return event, nil
}

func (q *QueueDispatcher) Emit(ctx context.Context, event models.NotificationEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	task, err := NewDeliverTask(event)
	if err != nil {
		return err
	}
	retries := q.MaxRetry
	if retries <= 0 {
		retries = 3
	}
	opts := []asynq.Option{asynq.MaxRetry(retries)}
	if q.Queue != "" {
		opts = append(opts, asynq.Queue(q.Queue))
	}
	if _, err := q.Client.EnqueueContext(ctx, task, opts...); err != nil {
		return fmt.Errorf("enqueue notification: %w", err)
	}
	return nil
}
