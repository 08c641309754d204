package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"ziyonstar/models"
	"ziyonstar/utils"

	"go.uber.org/zap"
)

// Realtime event names, published under "booking.<event>".
const (
	EventCreated       = "created"
	EventAccepted      = "accepted"
	EventRejected      = "rejected"
	EventAssigned      = "assigned"
	EventStatusUpdated = "status_updated"
	EventJobStarted    = "job_started"
	EventPickedUp      = "device_picked_up"
	EventReviewed      = "reviewed"
)

func (s *DefaultBookingService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func (s *DefaultBookingService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultBookingService) newOTP() (string, error) {
	if s.GenerateOTP != nil {
		return s.GenerateOTP()
	}
	return utils.GenerateBookingOTP()
}

// notify hands event to the Notifier; failures are logged only.
func (s *DefaultBookingService) notify(ctx context.Context, event models.NotificationEvent) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.Emit(ctx, event); err != nil {
		s.logger().Warn("Notification emit failed",
			zap.String("bookingId", event.BookingID),
			zap.String("recipientId", event.RecipientID),
			zap.String("title", event.Title),
			zap.Error(err))
	}
}

// broadcast publishes a realtime update; failures are logged only.
func (s *DefaultBookingService) broadcast(ctx context.Context, event string, b *models.Booking, extra map[string]any) {
	if s.Broadcaster == nil || b == nil {
		return
	}
	payload := map[string]any{
		"bookingId":    b.ID,
		"status":       b.Status,
		"userId":       b.UserID,
		"technicianId": b.TechnicianID,
	}
	for k, v := range extra {
		payload[k] = v
	}
	if err := s.Broadcaster.Publish(ctx, "booking."+event, payload); err != nil {
		s.logger().Warn("Realtime broadcast failed",
			zap.String("bookingId", b.ID),
			zap.String("event", event),
			zap.Error(err))
	}
}

func userEvent(b *models.Booking, title, body string, sev models.Severity) models.NotificationEvent {
	return models.NotificationEvent{
		RecipientID:   b.UserID,
		RecipientRole: models.RecipientUser,
		Title:         title,
		Body:          body,
		Severity:      sev,
		BookingID:     b.ID,
	}
}

func technicianEvent(b *models.Booking, technicianID, title, body string, sev models.Severity) models.NotificationEvent {
	return models.NotificationEvent{
		RecipientID:   technicianID,
		RecipientRole: models.RecipientTechnician,
		Title:         title,
		Body:          body,
		Severity:      sev,
		BookingID:     b.ID,
	}
}

func bookingPlacedEvent(b *models.Booking) models.NotificationEvent {
	return userEvent(b, "Booking Placed",
		fmt.Sprintf("Your repair for %s %s has been booked.", b.DeviceBrand, b.DeviceModel),
		models.SeveritySuccess)
}

func newJobEvent(b *models.Booking) models.NotificationEvent {
	return technicianEvent(b, b.TechnicianID, "New Job Request!",
		fmt.Sprintf("You have a new repair request for %s %s.", b.DeviceBrand, b.DeviceModel),
		models.SeverityInfo)
}

func acceptedEvent(b *models.Booking) models.NotificationEvent {
	return userEvent(b, "Technician Accepted",
		"A technician has accepted your repair booking and will arrive as scheduled.",
		models.SeveritySuccess)
}

func rejectedEvent(b *models.Booking) models.NotificationEvent {
	return userEvent(b, "Booking Rejected",
		"The technician could not accept this job. Please reassign to find another expert.",
		models.SeverityWarning)
}

func newTechnicianEvent(b *models.Booking) models.NotificationEvent {
	return userEvent(b, "New Technician Assigned",
		"We have assigned a new technician for your repair.",
		models.SeverityInfo)
}

func reassignedToYouEvent(b *models.Booking) models.NotificationEvent {
	return technicianEvent(b, b.TechnicianID, "Urgent: Job Reassigned to You",
		fmt.Sprintf("A repair for %s has been reassigned to you.", b.DeviceBrand),
		models.SeverityInfo)
}

func adminQueueEvent(b *models.Booking) models.NotificationEvent {
	return userEvent(b, "Finding a Technician",
		"No technician is available right now. Our team will assign one shortly.",
		models.SeverityInfo)
}

// statusEvent describes a status change to the booking's user.
func statusEvent(b *models.Booking) models.NotificationEvent {
	switch b.Status {
	case models.StatusCompleted:
		return userEvent(b, "Repair Completed",
			"Your repair has been successfully completed. Thank you!", models.SeveritySuccess)
	case models.StatusOnWay:
		return userEvent(b, "Technician En Route",
			"Your technician is on the way and will arrive shortly.", models.SeverityInfo)
	case models.StatusArrived:
		return userEvent(b, "Technician Arrived",
			"The technician has reached your location and is starting work.", models.SeveritySuccess)
	case models.StatusCancelled:
		return userEvent(b, "Booking Cancelled",
			"Your repair booking has been cancelled.", models.SeverityWarning)
	}
	return userEvent(b, "Booking Update",
		fmt.Sprintf("Your booking status is now %s.", strings.Replace(string(b.Status), "_", " ", 1)),
		models.SeverityInfo)
}

func jobStartedEvent(b *models.Booking) models.NotificationEvent {
	return userEvent(b, "Job Started",
		fmt.Sprintf("Technician has verified the OTP and started work on your %s.", b.DeviceBrand),
		models.SeveritySuccess)
}

func pickedUpEvent(b *models.Booking, deliveryTime string) models.NotificationEvent {
	return userEvent(b, "Device Picked Up",
		fmt.Sprintf("Technician has picked up your device. Estimated delivery: %s.", deliveryTime),
		models.SeverityInfo)
}

func reviewReceivedEvent(b *models.Booking, technicianID string) models.NotificationEvent {
	return technicianEvent(b, technicianID, "New Review",
		fmt.Sprintf("You received a %d-star review for the %s %s repair.", b.Rating, b.DeviceBrand, b.DeviceModel),
		models.SeverityInfo)
}
