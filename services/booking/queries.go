package booking

import (
	"context"
	"fmt"

	"ziyonstar/models"
)

func (s *DefaultBookingService) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return s.load(ctx, bookingID)
}

func (s *DefaultBookingService) ListUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	bookings, err := s.BookingRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list user bookings: %w", err)
	}
	return bookings, nil
}

// ListTechnicianBookings hides bookings still waiting on online payment.
func (s *DefaultBookingService) ListTechnicianBookings(ctx context.Context, technicianID string) ([]models.Booking, error) {
	bookings, err := s.BookingRepo.ListByTechnician(ctx, technicianID, []models.BookingStatus{models.StatusAwaitingPayment})
	if err != nil {
		return nil, fmt.Errorf("list technician bookings: %w", err)
	}
	return bookings, nil
}

func (s *DefaultBookingService) ListAllBookings(ctx context.Context) ([]models.Booking, error) {
	bookings, err := s.BookingRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}
