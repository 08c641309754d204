package wallet

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ziyonstar/database/repository"
	"ziyonstar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubBookingRepo struct {
	repository.BookingRepository
	completed []models.Booking
	err       error
}

func (r *stubBookingRepo) ListCompletedByTechnician(context.Context, string) ([]models.Booking, error) {
	return r.completed, r.err
}

type stubCommissionRepo struct {
	repository.CommissionRepository
	active []models.Commission
	err    error
}

func (r *stubCommissionRepo) ListActive(context.Context) ([]models.Commission, error) {
	return r.active, r.err
}

// Friday 14 March 2025, 15:00 local.
var now = time.Date(2025, 3, 14, 15, 0, 0, 0, time.Local)

func completed(id string, price float64, updated time.Time) models.Booking {
	return models.Booking{
		ID:          id,
		DeviceBrand: "Apple",
		DeviceModel: "iPhone 12",
		TotalPrice:  price,
		Status:      models.StatusCompleted,
		UpdatedAt:   updated,
	}
}

func TestComputeWallet_TenPercentDefault(t *testing.T) {
	svc := &DefaultWalletService{
		BookingRepo: &stubBookingRepo{completed: []models.Booking{
			completed("booking-0001", 1000, now.Add(-time.Hour)),
			completed("booking-0002", 2000, now.Add(-2*time.Hour)),
		}},
		CommissionRepo: &stubCommissionRepo{},
		Now:            func() time.Time { return now },
	}

	w, err := svc.ComputeWallet(context.Background(), "tech-1")
	require.NoError(t, err)
	assert.InDelta(t, 2700, w.Balance, 1e-9)
	assert.InDelta(t, 2700, w.Today, 1e-9)
	assert.Equal(t, float64(0), w.Pending)
	require.Len(t, w.Activities, 2)

	a := w.Activities[0]
	assert.Equal(t, "booking-", a.OrderID)
	assert.InDelta(t, 900, a.Amount, 1e-9)
	assert.InDelta(t, 100, a.Commission, 1e-9)
	assert.Equal(t, "Apple iPhone 12", a.Device)
	assert.Equal(t, "earnings", a.Type)
}

func TestComputeWallet_Buckets(t *testing.T) {
	bookings := []models.Booking{
		completed("today", 100, now.Add(-time.Hour)),
		completed("yesterday", 100, now.Add(-24*time.Hour)),
		completed("six-days", 100, now.AddDate(0, 0, -6)),
		completed("eight-days", 100, now.AddDate(0, 0, -8)),
		completed("last-month", 100, time.Date(2025, 2, 27, 12, 0, 0, 0, time.Local)),
	}
	commission := models.Commission{Type: models.CommissionFixed, Value: 10}

	w := Compute(bookings, commission, now)
	assert.InDelta(t, 450, w.Balance, 1e-9)
	assert.InDelta(t, 90, w.Today, 1e-9)
	assert.InDelta(t, 270, w.Week, 1e-9, "week is a rolling seven days")
	assert.InDelta(t, 360, w.Month, 1e-9)

	// every bucket is a subset of the balance
	assert.LessOrEqual(t, w.Today, w.Week)
	assert.LessOrEqual(t, w.Week, w.Balance)
	assert.LessOrEqual(t, w.Month, w.Balance)
}

func TestComputeWallet_BoundaryInclusive(t *testing.T) {
	b := BoundariesAt(now)
	assert.Equal(t, time.Date(2025, 3, 14, 0, 0, 0, 0, time.Local), b.Day)
	assert.Equal(t, time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local), b.Month)

	w := Compute([]models.Booking{completed("midnight", 50, b.Day)}, fallbackCommission, now)
	assert.InDelta(t, 45, w.Today, 1e-9)
}

func TestComputeWallet_ActivitiesCapped(t *testing.T) {
	var bookings []models.Booking
	for i := 0; i < 25; i++ {
		bookings = append(bookings, completed(fmt.Sprintf("b%02d", i), 100, now.Add(-time.Duration(i)*time.Minute)))
	}

	w := Compute(bookings, fallbackCommission, now)
	assert.Len(t, w.Activities, 20)
	assert.Equal(t, "b00", w.Activities[0].ID)
	assert.InDelta(t, 2250, w.Balance, 1e-9, "balance covers every booking, not just listed ones")
}

func TestDefaultCommission(t *testing.T) {
	repair := models.Commission{Category: "Repair", Type: models.CommissionPercentage, Value: 15, IsActive: true}
	general := models.Commission{Category: "General", Type: models.CommissionFixed, Value: 50, IsActive: true}

	assert.Equal(t, general, DefaultCommission([]models.Commission{repair, general}))
	assert.Equal(t, repair, DefaultCommission([]models.Commission{repair}))
	assert.Equal(t, fallbackCommission, DefaultCommission(nil))
}

func TestComputeWallet_StoreErrors(t *testing.T) {
	svc := &DefaultWalletService{
		BookingRepo:    &stubBookingRepo{err: errors.New("timeout")},
		CommissionRepo: &stubCommissionRepo{},
	}
	_, err := svc.ComputeWallet(context.Background(), "tech-1")
	assert.Error(t, err)

	svc.BookingRepo = &stubBookingRepo{}
	svc.CommissionRepo = &stubCommissionRepo{err: errors.New("timeout")}
	_, err = svc.ComputeWallet(context.Background(), "tech-1")
	assert.Error(t, err)
}

func TestComputeWallet_Empty(t *testing.T) {
	w := Compute(nil, fallbackCommission, now)
	assert.Zero(t, w.Balance)
	assert.NotNil(t, w.Activities)
	assert.Empty(t, w.Activities)
}
