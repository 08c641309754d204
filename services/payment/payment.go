package payment

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"

	"go.uber.org/zap"
)

var (
	ErrBookingNotFound  = errors.New("booking not found")
	ErrNotOnlinePayment = errors.New("booking is not paid online")
	ErrAlreadyPaid      = errors.New("booking is already paid")
	ErrInvalidAmount    = errors.New("booking amount must be positive")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// Order is returned to the client to complete payment.
type Order struct {
	BookingID     string `json:"bookingId"`
	TransactionID string `json:"transactionId"`
	ClientSecret  string `json:"clientSecret"`
	Amount        int64  `json:"amount"`
	Currency      string `json:"currency"`
}

// Broadcaster pushes realtime updates to connected clients.
type Broadcaster interface {
	Publish(ctx context.Context, routingKey string, payload any) error
}

type PaymentService interface {
	CreatePaymentOrder(ctx context.Context, bookingID string) (*Order, error)
	HandleWebhook(ctx context.Context, payload []byte, signature string) error
}

// DefaultPaymentService records gateway outcomes on bookings. It never moves the booking status.
type DefaultPaymentService struct {
	BookingRepo repository.BookingRepository
	Gateway     Gateway
	Broadcaster Broadcaster // optional
	Currency    string
	Logger      *zap.Logger
}

var _ PaymentService = (*DefaultPaymentService)(nil)

func (s *DefaultPaymentService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

// CreatePaymentOrder opens a gateway intent for a Card or UPI booking.
func (s *DefaultPaymentService) CreatePaymentOrder(ctx context.Context, bookingID string) (*Order, error) {
	b, err := s.BookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	if !b.PaymentMethod.Online() {
		return nil, ErrNotOnlinePayment
	}
	if b.PaymentStatus == models.PaymentPaid {
		return nil, ErrAlreadyPaid
	}
	amount := MinorUnits(b.TotalPrice)
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	currency := strings.ToLower(s.Currency)
	if currency == "" {
		currency = "inr"
	}
	intent, err := s.Gateway.CreateIntent(ctx, amount, currency, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment order: %w", err)
	}

	pending := models.PaymentPending
	_, err = s.BookingRepo.Update(ctx, b.ID, repository.BookingUpdate{
		TransactionID: &intent.ID,
		PaymentStatus: &pending,
		PaymentDetails: map[string]any{
			"gateway":  "stripe",
			"intentId": intent.ID,
			"status":   intent.Status,
			"amount":   intent.Amount,
			"currency": intent.Currency,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	s.logger().Info("Payment order created",
		zap.String("bookingId", b.ID),
		zap.String("transactionId", intent.ID),
		zap.Int64("amount", amount))

	return &Order{
		BookingID:     b.ID,
		TransactionID: intent.ID,
		ClientSecret:  intent.ClientSecret,
		Amount:        intent.Amount,
		Currency:      intent.Currency,
	}, nil
}

// HandleWebhook applies a verified payment outcome. Unknown event types and
// unknown intents are acknowledged and ignored.
func (s *DefaultPaymentService) HandleWebhook(ctx context.Context, payload []byte, signature string) error {
	evt, err := s.Gateway.ParseEvent(payload, signature)
	if err != nil {
		return err
	}

	var status models.PaymentStatus
	switch evt.Type {
	case EventIntentSucceeded:
		status = models.PaymentPaid
	case EventIntentFailed:
		status = models.PaymentFailed
	default:
		s.logger().Debug("Ignoring payment event", zap.String("type", evt.Type))
		return nil
	}

	b, err := s.resolveBooking(ctx, evt)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			s.logger().Warn("Payment event for unknown booking",
				zap.String("transactionId", evt.IntentID),
				zap.String("bookingId", evt.BookingID))
			return nil
		}
		return err
	}

	updated, err := s.BookingRepo.Update(ctx, b.ID, repository.BookingUpdate{
		PaymentStatus: &status,
		TransactionID: &evt.IntentID,
	})
	if err != nil {
		return fmt.Errorf("failed to record payment status: %w", err)
	}

	s.logger().Info("Payment status updated",
		zap.String("bookingId", updated.ID),
		zap.String("paymentStatus", string(status)))

	if s.Broadcaster != nil {
		payload := map[string]any{
			"bookingId":     updated.ID,
			"status":        updated.Status,
			"userId":        updated.UserID,
			"technicianId":  updated.TechnicianID,
			"paymentStatus": status,
			"transactionId": evt.IntentID,
		}
		if err := s.Broadcaster.Publish(ctx, "booking.payment_update", payload); err != nil {
			s.logger().Warn("Realtime broadcast failed", zap.String("bookingId", updated.ID), zap.Error(err))
		}
	}
	return nil
}

func (s *DefaultPaymentService) resolveBooking(ctx context.Context, evt *Event) (*models.Booking, error) {
	if evt.IntentID != "" {
		b, err := s.BookingRepo.GetByTransactionID(ctx, evt.IntentID)
		if err == nil {
			return b, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, fmt.Errorf("failed to load booking: %w", err)
		}
	}
	if evt.BookingID == "" {
		return nil, ErrBookingNotFound
	}
	b, err := s.BookingRepo.GetByID(ctx, evt.BookingID)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to load booking: %w", err)
	}
	return b, nil
}

// MinorUnits converts a major-unit price to the gateway's smallest currency unit.
func MinorUnits(price float64) int64 {
	return int64(math.Round(price * 100))
}
