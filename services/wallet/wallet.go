package wallet

import (
	"context"
	"fmt"
	"time"

	"ziyonstar/database/repository"
	"ziyonstar/models"
)

const (
	maxActivities = 20
	orderIDLength = 8
)

// fallbackCommission applies when no active commission is configured.
var fallbackCommission = models.Commission{
	Category: models.DefaultCommissionCategory,
	Type:     models.CommissionPercentage,
	Value:    10,
	IsActive: true,
}

// WalletService derives technician earnings. Nothing is persisted.
type WalletService interface {
	ComputeWallet(ctx context.Context, technicianID string) (*models.Wallet, error)
}

type DefaultWalletService struct {
	BookingRepo    repository.BookingRepository
	CommissionRepo repository.CommissionRepository
	Now            func() time.Time
}

// DefaultCommission picks the General category, else the first active policy, else 10%.
func DefaultCommission(active []models.Commission) models.Commission {
	for _, c := range active {
		if c.Category == models.DefaultCommissionCategory {
			return c
		}
	}
	if len(active) > 0 {
		return active[0]
	}
	return fallbackCommission
}

// Boundaries are the bucket start instants for a given now.
type Boundaries struct {
	Day   time.Time
	Week  time.Time
	Month time.Time
}

// BoundariesAt computes local midnight, now minus seven days and the first of the month.
func BoundariesAt(now time.Time) Boundaries {
	y, m, d := now.Date()
	return Boundaries{
		Day:   time.Date(y, m, d, 0, 0, 0, 0, now.Location()),
		Week:  now.AddDate(0, 0, -7),
		Month: time.Date(y, m, 1, 0, 0, 0, 0, now.Location()),
	}
}

func (s *DefaultWalletService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *DefaultWalletService) ComputeWallet(ctx context.Context, technicianID string) (*models.Wallet, error) {
	bookings, err := s.BookingRepo.ListCompletedByTechnician(ctx, technicianID)
	if err != nil {
		return nil, fmt.Errorf("wallet: load completed bookings: %w", err)
	}
	active, err := s.CommissionRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("wallet: load commissions: %w", err)
	}
	return Compute(bookings, DefaultCommission(active), s.now()), nil
}

// Compute folds completed bookings, most recent first, into a wallet.
func Compute(bookings []models.Booking, commission models.Commission, now time.Time) *models.Wallet {
	bounds := BoundariesAt(now)
	w := &models.Wallet{Activities: []models.WalletActivity{}}

	for _, b := range bookings {
		earnings := commission.Earnings(b.TotalPrice)

		w.Balance += earnings
		if !b.UpdatedAt.Before(bounds.Day) {
			w.Today += earnings
		}
		if !b.UpdatedAt.Before(bounds.Week) {
			w.Week += earnings
		}
		if !b.UpdatedAt.Before(bounds.Month) {
			w.Month += earnings
		}

		if len(w.Activities) < maxActivities {
			w.Activities = append(w.Activities, models.WalletActivity{
				ID:         b.ID,
				OrderID:    shortID(b.ID),
				Amount:     earnings,
				TotalPrice: b.TotalPrice,
				Commission: b.TotalPrice - earnings,
				Date:       b.UpdatedAt,
				Device:     b.DeviceBrand + " " + b.DeviceModel,
				Type:       "earnings",
			})
		}
	}
	return w
}

func shortID(id string) string {
	if len(id) <= orderIDLength {
		return id
	}
	return id[:orderIDLength]
}
