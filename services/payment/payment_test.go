package payment

import (
	"context"
	"errors"
	"testing"
	"time"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBookingRepo implements only the calls the payment service makes.
type stubBookingRepo struct {
	repository.BookingRepository
	bookings map[string]*models.Booking
}

func (r *stubBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *stubBookingRepo) GetByTransactionID(_ context.Context, tx string) (*models.Booking, error) {
	for _, b := range r.bookings {
		if tx != "" && b.TransactionID == tx {
			cp := *b
			return &cp, nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *stubBookingRepo) Update(_ context.Context, id string, u repository.BookingUpdate) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	u.Apply(b, time.Now())
	cp := *b
	return &cp, nil
}

type fakeGateway struct {
	createIntent func(ctx context.Context, amount int64, currency, bookingID string) (*Intent, error)
	event        *Event
	parseErr     error
}

func (g *fakeGateway) CreateIntent(ctx context.Context, amount int64, currency, bookingID string) (*Intent, error) {
	return g.createIntent(ctx, amount, currency, bookingID)
}

func (g *fakeGateway) ParseEvent([]byte, string) (*Event, error) {
	return g.event, g.parseErr
}

type publishRecorder struct {
	keys     []string
	payloads []any
}

func (p *publishRecorder) Publish(_ context.Context, key string, payload any) error {
	p.keys = append(p.keys, key)
	p.payloads = append(p.payloads, payload)
	return nil
}

func newRepo(bookings ...*models.Booking) *stubBookingRepo {
	r := &stubBookingRepo{bookings: map[string]*models.Booking{}}
	for _, b := range bookings {
		r.bookings[b.ID] = b
	}
	return r
}

func TestCreatePaymentOrder(t *testing.T) {
	repo := newRepo(&models.Booking{
		ID: "bk-1", Status: models.StatusPendingAcceptance,
		PaymentMethod: models.PaymentCard, PaymentStatus: models.PaymentPending,
		TotalPrice: 2999.99,
	})
	var gotAmount int64
	var gotCurrency, gotBooking string
	svc := &DefaultPaymentService{
		BookingRepo: repo,
		Currency:    "INR",
		Gateway: &fakeGateway{createIntent: func(_ context.Context, amount int64, currency, bookingID string) (*Intent, error) {
			gotAmount, gotCurrency, gotBooking = amount, currency, bookingID
			return &Intent{ID: "pi_123", ClientSecret: "pi_123_secret", Status: "requires_payment_method", Amount: amount, Currency: currency}, nil
		}},
	}

	order, err := svc.CreatePaymentOrder(context.Background(), "bk-1")
	require.NoError(t, err)
	assert.Equal(t, int64(299999), gotAmount)
	assert.Equal(t, "inr", gotCurrency)
	assert.Equal(t, "bk-1", gotBooking)
	assert.Equal(t, "pi_123_secret", order.ClientSecret)

	stored := repo.bookings["bk-1"]
	assert.Equal(t, "pi_123", stored.TransactionID)
	assert.Equal(t, "stripe", stored.PaymentDetails["gateway"])
	assert.Equal(t, models.StatusPendingAcceptance, stored.Status)
}

func TestCreatePaymentOrder_Rejections(t *testing.T) {
	repo := newRepo(
		&models.Booking{ID: "cash", PaymentMethod: models.PaymentCash, TotalPrice: 100},
		&models.Booking{ID: "paid", PaymentMethod: models.PaymentUPI, PaymentStatus: models.PaymentPaid, TotalPrice: 100},
		&models.Booking{ID: "free", PaymentMethod: models.PaymentUPI, TotalPrice: 0},
	)
	svc := &DefaultPaymentService{BookingRepo: repo, Gateway: &fakeGateway{}}

	_, err := svc.CreatePaymentOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrBookingNotFound)
	_, err = svc.CreatePaymentOrder(context.Background(), "cash")
	assert.ErrorIs(t, err, ErrNotOnlinePayment)
	_, err = svc.CreatePaymentOrder(context.Background(), "paid")
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	_, err = svc.CreatePaymentOrder(context.Background(), "free")
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestHandleWebhook_Succeeded(t *testing.T) {
	repo := newRepo(&models.Booking{
		ID: "bk-1", Status: models.StatusAccepted, TransactionID: "pi_123",
		PaymentMethod: models.PaymentCard, PaymentStatus: models.PaymentPending,
	})
	pub := &publishRecorder{}
	svc := &DefaultPaymentService{
		BookingRepo: repo,
		Broadcaster: pub,
		Gateway:     &fakeGateway{event: &Event{Type: EventIntentSucceeded, IntentID: "pi_123"}},
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), []byte("{}"), "sig"))
	assert.Equal(t, models.PaymentPaid, repo.bookings["bk-1"].PaymentStatus)
	assert.Equal(t, models.StatusAccepted, repo.bookings["bk-1"].Status)
	assert.Equal(t, []string{"booking.payment_update"}, pub.keys)
}

func TestHandleWebhook_FailedResolvesByMetadata(t *testing.T) {
	repo := newRepo(&models.Booking{ID: "bk-2", PaymentMethod: models.PaymentUPI, PaymentStatus: models.PaymentPending})
	svc := &DefaultPaymentService{
		BookingRepo: repo,
		Gateway:     &fakeGateway{event: &Event{Type: EventIntentFailed, IntentID: "pi_999", BookingID: "bk-2"}},
	}

	require.NoError(t, svc.HandleWebhook(context.Background(), nil, "sig"))
	assert.Equal(t, models.PaymentFailed, repo.bookings["bk-2"].PaymentStatus)
	assert.Equal(t, "pi_999", repo.bookings["bk-2"].TransactionID)
}

func TestHandleWebhook_IgnoredAndInvalid(t *testing.T) {
	repo := newRepo()
	svc := &DefaultPaymentService{BookingRepo: repo, Gateway: &fakeGateway{event: &Event{Type: "charge.refunded"}}}
	assert.NoError(t, svc.HandleWebhook(context.Background(), nil, "sig"))

	svc.Gateway = &fakeGateway{event: &Event{Type: EventIntentSucceeded, IntentID: "pi_unknown"}}
	assert.NoError(t, svc.HandleWebhook(context.Background(), nil, "sig"))

	svc.Gateway = &fakeGateway{parseErr: errors.Join(ErrInvalidSignature, errors.New("bad header"))}
	assert.ErrorIs(t, svc.HandleWebhook(context.Background(), nil, "sig"), ErrInvalidSignature)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(1999), MinorUnits(19.99))
	assert.Equal(t, int64(100), MinorUnits(1))
	assert.Equal(t, int64(0), MinorUnits(0))
}
