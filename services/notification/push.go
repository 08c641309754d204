package notification

import (
	"context"

	"ziyonstar/models"

	"firebase.google.com/go/v4/messaging"
)

// Pusher sends a single FCM message. *messaging.Client satisfies it.
type Pusher interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// BuildMessage renders event as a high-priority push for token.
func BuildMessage(token string, event models.NotificationEvent) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: event.Title,
			Body:  event.Body,
		},
		Data: map[string]string{
			"bookingId": event.BookingID,
			"type":      string(event.Severity),
			"role":      string(event.RecipientRole),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "high_priority",
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority":  "10",
				"apns-push-type": "alert",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
