package booking

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"
	"ziyonstar/services/assignment"

	"go.uber.org/zap"
)

type memBookingRepo struct {
	mu        sync.Mutex
	bookings  map[string]*models.Booking
	now       func() time.Time
	updateErr error
	markErr   error
}

func newMemBookingRepo(now func() time.Time) *memBookingRepo {
	return &memBookingRepo{bookings: map[string]*models.Booking{}, now: now}
}

func clone(b *models.Booking) *models.Booking {
	c := *b
	c.RejectedBy = append([]models.Rejection{}, b.RejectedBy...)
	return &c
}

func (r *memBookingRepo) put(b *models.Booking) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings[b.ID] = clone(b)
}

func (r *memBookingRepo) Create(_ context.Context, b *models.Booking) error {
	r.put(b)
	return nil
}

func (r *memBookingRepo) GetByID(_ context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	return clone(b), nil
}

func (r *memBookingRepo) GetByTransactionID(_ context.Context, txID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.bookings {
		if b.TransactionID == txID {
			return clone(b), nil
		}
	}
	return nil, database.ErrNotFound
}

func (r *memBookingRepo) Update(_ context.Context, id string, u repository.BookingUpdate) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.updateErr != nil {
		return nil, r.updateErr
	}
	b, ok := r.bookings[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	u.Apply(b, r.now())
	return clone(b), nil
}

func (r *memBookingRepo) MarkReviewed(_ context.Context, id string, rating int, text string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.markErr != nil {
		err := r.markErr
		r.markErr = nil
		return false, err
	}
	b, ok := r.bookings[id]
	if !ok || b.Status != models.StatusCompleted || b.Reviewed {
		return false, nil
	}
	b.Rating, b.ReviewText, b.Reviewed = rating, text, true
	return true, nil
}

func (r *memBookingRepo) list(match func(*models.Booking) bool) []models.Booking {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Booking{}
	for _, b := range r.bookings {
		if match(b) {
			out = append(out, *clone(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *memBookingRepo) ListByUser(_ context.Context, userID string) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool { return b.UserID == userID }), nil
}

func (r *memBookingRepo) ListByTechnician(_ context.Context, techID string, exclude []models.BookingStatus) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool {
		if b.TechnicianID != techID {
			return false
		}
		for _, s := range exclude {
			if b.Status == s {
				return false
			}
		}
		return true
	}), nil
}

func (r *memBookingRepo) ListAll(context.Context) ([]models.Booking, error) {
	return r.list(func(*models.Booking) bool { return true }), nil
}

func (r *memBookingRepo) ListCompletedByTechnician(_ context.Context, techID string) ([]models.Booking, error) {
	return r.list(func(b *models.Booking) bool {
		return b.TechnicianID == techID && b.Status == models.StatusCompleted
	}), nil
}

func (r *memBookingRepo) CountCompletedByTechnician(ctx context.Context, techID string) (int, error) {
	list, _ := r.ListCompletedByTechnician(ctx, techID)
	return len(list), nil
}

func (r *memBookingRepo) EnsureIndexes(context.Context) error { return nil }

// memTechnicianRepo covers the lookups the lifecycle performs.
type memTechnicianRepo struct {
	repository.TechnicianRepository
	mu         sync.Mutex
	techs      map[string]*models.Technician
	aggregates map[string][3]float64
	aggErr     error
}

func newMemTechnicianRepo(techs ...models.Technician) *memTechnicianRepo {
	r := &memTechnicianRepo{techs: map[string]*models.Technician{}, aggregates: map[string][3]float64{}}
	for i := range techs {
		t := techs[i]
		r.techs[t.ID] = &t
	}
	return r
}

func (r *memTechnicianRepo) GetByID(_ context.Context, id string) (*models.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.techs[id]
	if !ok {
		return nil, database.ErrNotFound
	}
	c := *t
	return &c, nil
}

func (r *memTechnicianRepo) FindFirst(_ context.Context, c repository.TechnicianSearchCriteria) (*models.Technician, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]string, 0, len(r.techs))
	for id := range r.techs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		t := r.techs[id]
		if contains(c.ExcludeIDs, t.ID) {
			continue
		}
		for _, s := range c.Statuses {
			if t.Status == s {
				found := *t
				return &found, nil
			}
		}
	}
	return nil, database.ErrNotFound
}

func (r *memTechnicianRepo) SetAggregates(_ context.Context, id string, avg float64, total, completed int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.aggErr != nil {
		return r.aggErr
	}
	r.aggregates[id] = [3]float64{avg, float64(total), float64(completed)}
	return nil
}

type memReviewRepo struct {
	mu        sync.Mutex
	reviews   []models.Review
	createErr error
}

func (r *memReviewRepo) Create(_ context.Context, rv *models.Review) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		err := r.createErr
		r.createErr = nil
		return err
	}
	for _, existing := range r.reviews {
		if existing.BookingID == rv.BookingID {
			return database.ErrDuplicate
		}
	}
	r.reviews = append(r.reviews, *rv)
	return nil
}

func (r *memReviewRepo) DeleteByBooking(_ context.Context, bookingID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.reviews[:0]
	for _, rv := range r.reviews {
		if rv.BookingID != bookingID {
			kept = append(kept, rv)
		}
	}
	r.reviews = kept
	return nil
}

func (r *memReviewRepo) ListByTechnician(_ context.Context, techID string) ([]models.Review, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.Review{}
	for _, rv := range r.reviews {
		if rv.TechnicianID == techID {
			out = append(out, rv)
		}
	}
	return out, nil
}

func (r *memReviewRepo) StatsByTechnician(ctx context.Context, techID string) (repository.RatingStats, error) {
	list, _ := r.ListByTechnician(ctx, techID)
	if len(list) == 0 {
		return repository.RatingStats{}, nil
	}
	sum := 0
	for _, rv := range list {
		sum += rv.Rating
	}
	return repository.RatingStats{Average: float64(sum) / float64(len(list)), Count: len(list)}, nil
}

func (r *memReviewRepo) EnsureIndexes(context.Context) error { return nil }

type recordingNotifier struct {
	mu     sync.Mutex
	events []models.NotificationEvent
	err    error
}

func (n *recordingNotifier) Emit(_ context.Context, e models.NotificationEvent) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.events = append(n.events, e)
	return n.err
}

func (n *recordingNotifier) titles() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]string, 0, len(n.events))
	for _, e := range n.events {
		out = append(out, e.Title)
	}
	return out
}

type recordingBroadcaster struct {
	keys []string
	err  error
}

func (b *recordingBroadcaster) Publish(_ context.Context, key string, _ any) error {
	b.keys = append(b.keys, key)
	return b.err
}

type countingLimiter struct {
	max      int
	attempts map[string]int
}

func (l *countingLimiter) Allow(_ context.Context, id string) (bool, error) {
	l.attempts[id]++
	return l.attempts[id] <= l.max, nil
}

func (l *countingLimiter) Reset(_ context.Context, id string) error {
	delete(l.attempts, id)
	return nil
}

type failingAssigner struct{}

func (failingAssigner) SelectTechnician(context.Context, []string) (*models.Technician, error) {
	return nil, errors.New("store unavailable")
}

type harness struct {
	svc         *DefaultBookingService
	bookings    *memBookingRepo
	techs       *memTechnicianRepo
	reviews     *memReviewRepo
	notifier    *recordingNotifier
	broadcaster *recordingBroadcaster
	clock       time.Time
}

var testClock = time.Date(2025, 3, 14, 10, 0, 0, 0, time.Local)

func newHarness(t *testing.T, techs ...models.Technician) *harness {
	t.Helper()
	h := &harness{
		techs:       newMemTechnicianRepo(techs...),
		reviews:     &memReviewRepo{},
		notifier:    &recordingNotifier{},
		broadcaster: &recordingBroadcaster{},
		clock:       testClock,
	}
	now := func() time.Time { return h.clock }
	h.bookings = newMemBookingRepo(now)
	h.svc = &DefaultBookingService{
		BookingRepo:    h.bookings,
		TechnicianRepo: h.techs,
		ReviewRepo:     h.reviews,
		Assigner:       &assignment.DefaultAssignmentService{TechnicianRepo: h.techs},
		Notifier:       h.notifier,
		Broadcaster:    h.broadcaster,
		Logger:         zap.NewNop(),
		Now:            now,
		GenerateOTP:    func() (string, error) { return "123456", nil },
	}
	return h
}

func activeTech(id string) models.Technician {
	return models.Technician{ID: id, Name: "Tech " + id, Status: models.TechnicianActive}
}

func validRequest() models.CreateBookingRequest {
	return models.CreateBookingRequest{
		UserID:      "user-1",
		DeviceBrand: "Apple",
		DeviceModel: "iPhone 13",
		Issues: []models.BookingIssue{
			{IssueName: "Screen", Price: 1500},
			{IssueName: "Battery", Price: 500},
		},
		TotalPrice:    2000,
		ScheduledDate: testClock.Add(24 * time.Hour),
		TimeSlot:      "10:00 - 12:00",
	}
}

// seed stores a booking in the given state.
func (h *harness) seed(id string, status models.BookingStatus, techID string) *models.Booking {
	b := &models.Booking{
		ID:            id,
		UserID:        "user-1",
		TechnicianID:  techID,
		DeviceBrand:   "Samsung",
		DeviceModel:   "S21",
		TotalPrice:    1000,
		Status:        status,
		RejectedBy:    []models.Rejection{},
		PaymentMethod: models.PaymentCash,
		PaymentStatus: models.PaymentPending,
		OTP:           "654321",
		CreatedAt:     h.clock,
		UpdatedAt:     h.clock,
	}
	h.bookings.put(b)
	return b
}
