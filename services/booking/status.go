package booking

import (
	"context"
	"crypto/subtle"

	"ziyonstar/database/repository"
	"ziyonstar/models"

	"go.uber.org/zap"
)

// UpdateStatus moves a booking along the transition table on behalf of technicians and admins.
func (s *DefaultBookingService) UpdateStatus(ctx context.Context, bookingID string, status models.BookingStatus) (*models.Booking, error) {
	if _, ok := apiSettable[status]; !ok {
		return nil, invalidTransition("status %q cannot be set directly", status)
	}

	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if IsTerminal(b.Status) {
		return nil, invalidTransition("booking %s is %s and can no longer change", b.ID, b.Status)
	}
	if status == models.StatusRejected {
		return s.reject(ctx, b, "")
	}
	if err := transition(b, status); err != nil {
		return nil, err
	}

	update := repository.BookingUpdate{Status: ptr(status)}
	switch status {
	case models.StatusInProgress:
		if !b.OTPVerified {
			return nil, validation("OTP must be verified before work starts on booking %s", b.ID)
		}
	case models.StatusPendingAcceptance, models.StatusAccepted:
		if b.TechnicianID == "" {
			return nil, invalidTransition("booking %s has no assigned technician", b.ID)
		}
	case models.StatusPendingAssignment:
		update.TechnicianID = ptr("")
	case models.StatusCompleted:
		update.CompletedAt = ptr(s.now())
		update.PaymentStatus = ptr(models.PaymentPaid)
	}

	updated, err := s.save(ctx, b.ID, update)
	if err != nil {
		return nil, err
	}
	s.logger().Info("Booking status updated",
		zap.String("bookingId", updated.ID),
		zap.String("from", string(b.Status)),
		zap.String("to", string(updated.Status)))

	if status == models.StatusCompleted && updated.TechnicianID != "" {
		s.refreshAggregates(ctx, updated.TechnicianID, updated.ID)
	}

	s.notify(ctx, statusEvent(updated))
	if status == models.StatusPendingAcceptance {
		s.notify(ctx, newJobEvent(updated))
	}
	s.broadcast(ctx, EventStatusUpdated, updated, nil)
	return updated, nil
}

// VerifyOTP starts work once the customer's code is presented. A wrong code changes nothing.
func (s *DefaultBookingService) VerifyOTP(ctx context.Context, bookingID, code string) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := transition(b, models.StatusInProgress); err != nil {
		return nil, err
	}

	if s.OTPLimiter != nil {
		allowed, err := s.OTPLimiter.Allow(ctx, b.ID)
		if err != nil {
			s.logger().Warn("OTP limiter unavailable", zap.String("bookingId", b.ID), zap.Error(err))
		} else if !allowed {
			return nil, validation("too many OTP attempts for booking %s", b.ID)
		}
	}

	if b.OTP == "" || subtle.ConstantTimeCompare([]byte(b.OTP), []byte(code)) != 1 {
		return nil, validation("invalid OTP")
	}

	updated, err := s.save(ctx, b.ID, repository.BookingUpdate{
		Status:      ptr(models.StatusInProgress),
		OTPVerified: ptr(true),
	})
	if err != nil {
		return nil, err
	}

	if s.OTPLimiter != nil {
		if err := s.OTPLimiter.Reset(ctx, b.ID); err != nil {
			s.logger().Warn("OTP limiter reset failed", zap.String("bookingId", b.ID), zap.Error(err))
		}
	}

	s.notify(ctx, jobStartedEvent(updated))
	s.broadcast(ctx, EventJobStarted, updated, nil)
	return updated, nil
}

func (s *DefaultBookingService) ConfirmPickup(ctx context.Context, bookingID string, images []string, deliveryTime string) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if err := transition(b, models.StatusPickedUp); err != nil {
		return nil, err
	}
	if images == nil {
		images = []string{}
	}

	pickup := models.PickupDetails{
		Images:       images,
		DeliveryTime: deliveryTime,
		IsPickedUp:   true,
		PickedUpAt:   s.now(),
	}
	updated, err := s.save(ctx, b.ID, repository.BookingUpdate{
		Status:        ptr(models.StatusPickedUp),
		PickupDetails: &pickup,
	})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, pickedUpEvent(updated, deliveryTime))
	s.broadcast(ctx, EventPickedUp, updated, map[string]any{"pickupDetails": pickup})
	return updated, nil
}
