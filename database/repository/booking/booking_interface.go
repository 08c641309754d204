package bookingRepo

import (
	"context"
	"time"

	"ziyonstar/models"
)

// BookingUpdate lists the fields a lifecycle step may change. Nil fields are left untouched.
type BookingUpdate struct {
	Status         *models.BookingStatus
	TechnicianID   *string
	OTPVerified    *bool
	PaymentStatus  *models.PaymentStatus
	TransactionID  *string
	PaymentDetails map[string]any
	PickupDetails  *models.PickupDetails
	CompletedAt    *time.Time

	// PushRejection appends to rejectedBy. Existing entries are never rewritten.
	PushRejection *models.Rejection
}

// Apply mutates b in memory the way the store applies the update.
func (u BookingUpdate) Apply(b *models.Booking, now time.Time) {
	if u.Status != nil {
		b.Status = *u.Status
	}
	if u.TechnicianID != nil {
		b.TechnicianID = *u.TechnicianID
	}
	if u.OTPVerified != nil {
		b.OTPVerified = *u.OTPVerified
	}
	if u.PaymentStatus != nil {
		b.PaymentStatus = *u.PaymentStatus
	}
	if u.TransactionID != nil {
		b.TransactionID = *u.TransactionID
	}
	if u.PaymentDetails != nil {
		b.PaymentDetails = u.PaymentDetails
	}
	if u.PickupDetails != nil {
		p := *u.PickupDetails
		b.PickupDetails = &p
	}
	if u.CompletedAt != nil {
		t := *u.CompletedAt
		b.CompletedAt = &t
	}
	if u.PushRejection != nil {
		b.RejectedBy = append(b.RejectedBy, *u.PushRejection)
	}
	b.UpdatedAt = now
}

// BookingRepository persists bookings.
type BookingRepository interface {
	Create(ctx context.Context, b *models.Booking) error
	GetByID(ctx context.Context, id string) (*models.Booking, error)
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Booking, error)

	// Update applies u and returns the post-update document.
	Update(ctx context.Context, id string, u BookingUpdate) (*models.Booking, error)

	// MarkReviewed records the rating only if the booking is Completed and not yet reviewed.
	// It returns false when the condition did not hold.
	MarkReviewed(ctx context.Context, id string, rating int, text string) (bool, error)

	ListByUser(ctx context.Context, userID string) ([]models.Booking, error)
	ListByTechnician(ctx context.Context, technicianID string, exclude []models.BookingStatus) ([]models.Booking, error)
	ListAll(ctx context.Context) ([]models.Booking, error)

	// ListCompletedByTechnician returns Completed bookings, most recently updated first.
	ListCompletedByTechnician(ctx context.Context, technicianID string) ([]models.Booking, error)
	CountCompletedByTechnician(ctx context.Context, technicianID string) (int, error)

	EnsureIndexes(ctx context.Context) error
}
