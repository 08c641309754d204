package booking

import (
	"context"
	"time"

	"ziyonstar/database/repository"
	"ziyonstar/models"
	"ziyonstar/services/assignment"

	"go.uber.org/zap"
)

// RespondAction is the technician's answer to a job request.
type RespondAction string

const (
	ActionAccept RespondAction = "accept"
	ActionReject RespondAction = "reject"
)

// BookingService owns the booking record and its status transitions.
// Concurrent operations on one booking are not serialized; the last write wins at document level.
type BookingService interface {
	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error)
	Respond(ctx context.Context, bookingID string, action RespondAction, reason string) (*models.Booking, error)
	Reassign(ctx context.Context, bookingID string) (*models.Booking, error)
	AssignTechnician(ctx context.Context, bookingID, technicianID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) (*models.Booking, error)
	VerifyOTP(ctx context.Context, bookingID, code string) (*models.Booking, error)
	ConfirmPickup(ctx context.Context, bookingID string, images []string, deliveryTime string) (*models.Booking, error)
	SubmitReview(ctx context.Context, bookingID string, rating int, text string) (*models.Booking, *models.Review, error)

	GetBooking(ctx context.Context, bookingID string) (*models.Booking, error)
	ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error)
	ListTechnicianBookings(ctx context.Context, technicianID string) ([]models.Booking, error)
	ListAllBookings(ctx context.Context) ([]models.Booking, error)
}

// Notifier receives notification descriptors. Failures never fail a lifecycle operation.
type Notifier interface {
	Emit(ctx context.Context, event models.NotificationEvent) error
}

// Broadcaster pushes realtime updates to connected clients.
type Broadcaster interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

// OTPLimiter bounds OTP verification attempts per booking.
type OTPLimiter interface {
	Allow(ctx context.Context, bookingID string) (bool, error)
	Reset(ctx context.Context, bookingID string) error
}

// DefaultBookingService is the production BookingService.
type DefaultBookingService struct {
	BookingRepo    repository.BookingRepository
	TechnicianRepo repository.TechnicianRepository
	ReviewRepo     repository.ReviewRepository
	Assigner       assignment.AssignmentService
	Notifier       Notifier
	Broadcaster    Broadcaster // optional
	OTPLimiter     OTPLimiter  // optional
	Logger         *zap.Logger

	// Now and GenerateOTP default to time.Now and a 6-digit crypto/rand code.
	Now         func() time.Time
	GenerateOTP func() (string, error)
}

var _ BookingService = (*DefaultBookingService)(nil)
