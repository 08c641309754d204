package booking

import (
	"context"
	"errors"
	"strings"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"
	"ziyonstar/services/assignment"

	"go.uber.org/zap"
)

const defaultRejectReason = "No reason provided"

func (s *DefaultBookingService) Respond(ctx context.Context, bookingID string, action RespondAction, reason string) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	switch action {
	case ActionAccept:
		return s.accept(ctx, b)
	case ActionReject:
		return s.reject(ctx, b, reason)
	}
	return nil, validation("unknown action %q", action)
}

func (s *DefaultBookingService) accept(ctx context.Context, b *models.Booking) (*models.Booking, error) {
	if err := transition(b, models.StatusAccepted); err != nil {
		return nil, err
	}
	if b.TechnicianID == "" {
		return nil, invalidTransition("booking %s has no assigned technician", b.ID)
	}

	updated, err := s.save(ctx, b.ID, repository.BookingUpdate{Status: ptr(models.StatusAccepted)})
	if err != nil {
		return nil, err
	}

	s.notify(ctx, acceptedEvent(updated))
	s.broadcast(ctx, EventAccepted, updated, nil)
	return updated, nil
}

// reject records the current technician in rejectedBy and releases the booking.
func (s *DefaultBookingService) reject(ctx context.Context, b *models.Booking, reason string) (*models.Booking, error) {
	if err := transition(b, models.StatusRejected); err != nil {
		return nil, err
	}
	if b.TechnicianID == "" {
		return nil, invalidTransition("booking %s has no assigned technician to reject", b.ID)
	}
	if strings.TrimSpace(reason) == "" {
		reason = defaultRejectReason
	}

	rejection := models.Rejection{
		TechnicianID: b.TechnicianID,
		Reason:       reason,
		RejectedAt:   s.now(),
	}
	updated, err := s.save(ctx, b.ID, repository.BookingUpdate{
		Status:        ptr(models.StatusRejected),
		TechnicianID:  ptr(""),
		PushRejection: &rejection,
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("Booking rejected",
		zap.String("bookingId", updated.ID),
		zap.String("technicianId", rejection.TechnicianID),
		zap.String("reason", reason))

	s.notify(ctx, rejectedEvent(updated))
	s.broadcast(ctx, EventRejected, updated, map[string]any{"rejectedBy": rejection.TechnicianID})
	return updated, nil
}

// Reassign hands a rejected booking to the next eligible technician who has never declined it.
// With no candidate the booking returns to Pending_Assignment for manual assignment.
func (s *DefaultBookingService) Reassign(ctx context.Context, bookingID string) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if b.Status != models.StatusRejected {
		return nil, invalidTransition("booking %s is not in Rejected state", b.ID)
	}

	excluded := b.RejectedTechnicianIDs()
	next, err := s.Assigner.SelectTechnician(ctx, excluded)
	if err != nil {
		s.logger().Error("Reassignment lookup failed, moving to admin queue", zap.String("bookingId", b.ID), zap.Error(err))
		next = nil
	}
	if next != nil && contains(excluded, next.ID) {
		s.logger().Error("Assignment returned an excluded technician", zap.String("bookingId", b.ID), zap.String("technicianId", next.ID))
		next = nil
	}

	if next == nil {
		if err := transition(b, models.StatusPendingAssignment); err != nil {
			return nil, err
		}
		updated, err := s.save(ctx, b.ID, repository.BookingUpdate{Status: ptr(models.StatusPendingAssignment)})
		if err != nil {
			return nil, err
		}
		s.logger().Warn("No available technicians, booking moved to admin queue", zap.String("bookingId", b.ID))
		s.notify(ctx, adminQueueEvent(updated))
		s.broadcast(ctx, EventStatusUpdated, updated, nil)
		return updated, nil
	}

	return s.assignTo(ctx, b, next.ID, reassignedToYouEvent)
}

// AssignTechnician is the manual path used by admins for queued or rejected bookings.
func (s *DefaultBookingService) AssignTechnician(ctx context.Context, bookingID, technicianID string) (*models.Booking, error) {
	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch b.Status {
	case models.StatusPendingAssignment, models.StatusRejected, models.StatusReassignRequested:
	default:
		return nil, invalidTransition("booking %s cannot be assigned from %s", b.ID, b.Status)
	}

	tech, err := s.TechnicianRepo.GetByID(ctx, technicianID)
	if errors.Is(err, database.ErrNotFound) {
		return nil, notFound("technician %s not found", technicianID)
	}
	if err != nil {
		return nil, err
	}
	if !assignment.IsEligible(tech) {
		return nil, validation("technician %s is %s and cannot take jobs", tech.ID, tech.Status)
	}
	if contains(b.RejectedTechnicianIDs(), tech.ID) {
		return nil, validation("technician %s already rejected booking %s", tech.ID, b.ID)
	}

	return s.assignTo(ctx, b, tech.ID, newJobEvent)
}

func (s *DefaultBookingService) assignTo(ctx context.Context, b *models.Booking, technicianID string, techEvent func(*models.Booking) models.NotificationEvent) (*models.Booking, error) {
	if err := transition(b, models.StatusPendingAcceptance); err != nil {
		return nil, err
	}
	updated, err := s.save(ctx, b.ID, repository.BookingUpdate{
		Status:       ptr(models.StatusPendingAcceptance),
		TechnicianID: ptr(technicianID),
	})
	if err != nil {
		return nil, err
	}

	s.logger().Info("Technician assigned", zap.String("bookingId", updated.ID), zap.String("technicianId", technicianID))
	s.notify(ctx, newTechnicianEvent(updated))
	s.notify(ctx, techEvent(updated))
	s.broadcast(ctx, EventAssigned, updated, nil)
	return updated, nil
}

func contains(list []string, id string) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}
