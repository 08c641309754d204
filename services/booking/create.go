package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"
	"ziyonstar/services/assignment"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func validateCreate(req models.CreateBookingRequest) error {
	switch {
	case strings.TrimSpace(req.UserID) == "":
		return validation("userId is required")
	case strings.TrimSpace(req.DeviceBrand) == "" || strings.TrimSpace(req.DeviceModel) == "":
		return validation("deviceBrand and deviceModel are required")
	case req.TotalPrice <= 0:
		return validation("totalPrice must be positive")
	case req.ScheduledDate.IsZero():
		return validation("scheduledDate is required")
	case strings.TrimSpace(req.TimeSlot) == "":
		return validation("timeSlot is required")
	}
	for i, issue := range req.Issues {
		if strings.TrimSpace(issue.IssueName) == "" {
			return validation("issue %d has no name", i)
		}
		if issue.Price < 0 {
			return validation("issue %q has a negative price", issue.IssueName)
		}
	}
	if req.PaymentMethod != "" && !req.PaymentMethod.Valid() {
		return validation("unsupported payment method %q", req.PaymentMethod)
	}
	return nil
}

// resolveTechnician honours an explicit eligible request, otherwise auto-assigns.
// Lookup failures degrade to an unassigned booking.
func (s *DefaultBookingService) resolveTechnician(ctx context.Context, requestedID string) *models.Technician {
	if requestedID != "" {
		tech, err := s.TechnicianRepo.GetByID(ctx, requestedID)
		switch {
		case err == nil && assignment.IsEligible(tech):
			return tech
		case err == nil:
			s.logger().Info("Requested technician not eligible, auto-assigning",
				zap.String("technicianId", requestedID), zap.String("status", string(tech.Status)))
		case errors.Is(err, database.ErrNotFound):
			s.logger().Info("Requested technician not found, auto-assigning", zap.String("technicianId", requestedID))
		default:
			s.logger().Error("Requested technician lookup failed", zap.String("technicianId", requestedID), zap.Error(err))
		}
	}

	tech, err := s.Assigner.SelectTechnician(ctx, nil)
	if err != nil {
		s.logger().Error("Auto-assignment failed, booking left unassigned", zap.Error(err))
		return nil
	}
	return tech
}

func (s *DefaultBookingService) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (*models.Booking, error) {
	if err := validateCreate(req); err != nil {
		return nil, err
	}

	method := req.PaymentMethod
	if method == "" {
		method = models.PaymentCash
	}

	otp, err := s.newOTP()
	if err != nil {
		return nil, err
	}

	tech := s.resolveTechnician(ctx, req.TechnicianID)

	now := s.now()
	b := &models.Booking{
		ID:             uuid.New().String(),
		UserID:         req.UserID,
		DeviceBrand:    req.DeviceBrand,
		DeviceModel:    req.DeviceModel,
		Issues:         req.Issues,
		TotalPrice:     req.TotalPrice,
		ScheduledDate:  req.ScheduledDate,
		TimeSlot:       req.TimeSlot,
		AddressID:      req.AddressID,
		AddressDetails: req.AddressDetails,
		RejectedBy:     []models.Rejection{},
		PaymentMethod:  method,
		PaymentStatus:  models.PaymentPending,
		OTP:            otp,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if b.Issues == nil {
		b.Issues = []models.BookingIssue{}
	}
	if tech != nil {
		b.TechnicianID = tech.ID
	}

	switch {
	case method.Online():
		b.Status = models.StatusAwaitingPayment
	case tech != nil:
		b.Status = models.StatusPendingAcceptance
	default:
		b.Status = models.StatusPendingAssignment
	}

	if err := s.BookingRepo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.logger().Info("Booking created",
		zap.String("bookingId", b.ID),
		zap.String("userId", b.UserID),
		zap.String("technicianId", b.TechnicianID),
		zap.String("status", string(b.Status)))

	s.notify(ctx, bookingPlacedEvent(b))
	if b.TechnicianID != "" {
		s.notify(ctx, newJobEvent(b))
	} else {
		s.logger().Warn("No technician assigned to booking", zap.String("bookingId", b.ID))
	}
	s.broadcast(ctx, EventCreated, b, nil)

	return b, nil
}

// load fetches a booking, mapping a missing document to KindNotFound.
func (s *DefaultBookingService) load(ctx context.Context, id string) (*models.Booking, error) {
	b, err := s.BookingRepo.GetByID(ctx, id)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound("booking %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("load booking %s: %w", id, err)
	}
	return b, nil
}

// save applies u, mapping a vanished document to KindNotFound.
func (s *DefaultBookingService) save(ctx context.Context, id string, u repository.BookingUpdate) (*models.Booking, error) {
	b, err := s.BookingRepo.Update(ctx, id, u)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound("booking %s not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("update booking %s: %w", id, err)
	}
	return b, nil
}

func ptr[T any](v T) *T {
	return &v
}
