package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"ziyonstar/database"
	"ziyonstar/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SubmitReview rates a completed booking exactly once and refreshes the technician's aggregates.
func (s *DefaultBookingService) SubmitReview(ctx context.Context, bookingID string, rating int, text string) (*models.Booking, *models.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, nil, validation("rating must be between 1 and 5")
	}

	b, err := s.load(ctx, bookingID)
	if err != nil {
		return nil, nil, err
	}
	if b.Status != models.StatusCompleted {
		return nil, nil, invalidTransition("only completed bookings can be reviewed")
	}
	if b.Reviewed {
		return nil, nil, invalidTransition("booking %s has already been reviewed", b.ID)
	}

	text = strings.TrimSpace(text)
	review := &models.Review{
		ID:           uuid.New().String(),
		BookingID:    b.ID,
		TechnicianID: b.TechnicianID,
		UserID:       b.UserID,
		Rating:       rating,
		ReviewText:   text,
		CreatedAt:    s.now(),
	}
	// The unique bookingId index admits one review; the booking is flagged only once it exists.
	if err := s.ReviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, database.ErrDuplicate) {
			return nil, nil, invalidTransition("booking %s has already been reviewed", b.ID)
		}
		return nil, nil, fmt.Errorf("create review: %w", err)
	}

	ok, err := s.BookingRepo.MarkReviewed(ctx, b.ID, rating, text)
	if err != nil || !ok {
		if delErr := s.ReviewRepo.DeleteByBooking(ctx, b.ID); delErr != nil {
			s.logger().Error("Failed to remove review after booking update failed",
				zap.String("bookingId", b.ID), zap.Error(delErr))
		}
		if err != nil {
			return nil, nil, fmt.Errorf("record review: %w", err)
		}
		// status changed underneath us
		return nil, nil, invalidTransition("booking %s can no longer be reviewed", b.ID)
	}
	b.Rating = rating
	b.ReviewText = text
	b.Reviewed = true
	b.UpdatedAt = s.now()

	if b.TechnicianID != "" {
		s.refreshAggregates(ctx, b.TechnicianID, b.ID)
		s.notify(ctx, reviewReceivedEvent(b, b.TechnicianID))
	}
	s.broadcast(ctx, EventReviewed, b, map[string]any{"rating": rating})
	return b, review, nil
}

// refreshAggregates recomputes rating and job counts from scratch. Failures are logged only.
func (s *DefaultBookingService) refreshAggregates(ctx context.Context, technicianID, bookingID string) {
	log := s.logger().With(zap.String("technicianId", technicianID), zap.String("bookingId", bookingID))

	stats, err := s.ReviewRepo.StatsByTechnician(ctx, technicianID)
	if err != nil {
		log.Error("Aggregate recompute failed: rating stats", zap.Error(err))
		return
	}
	completed, err := s.BookingRepo.CountCompletedByTechnician(ctx, technicianID)
	if err != nil {
		log.Error("Aggregate recompute failed: completed count", zap.Error(err))
		return
	}

	avg := RoundRating(stats.Average)
	if err := s.TechnicianRepo.SetAggregates(ctx, technicianID, avg, stats.Count, completed); err != nil {
		log.Error("Aggregate recompute failed: write", zap.Error(err))
		return
	}
	log.Debug("Technician aggregates refreshed",
		zap.Float64("averageRating", avg),
		zap.Int("totalReviews", stats.Count),
		zap.Int("completedJobs", completed))
}

// RoundRating rounds to one decimal place, half away from zero.
func RoundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
