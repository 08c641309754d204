package technician

import (
	"context"
	"testing"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockTechnicianRepo struct {
	repository.TechnicianRepository
	getByUIDFn func(ctx context.Context, uid string) (*models.Technician, error)
	getByIDFn  func(ctx context.Context, id string) (*models.Technician, error)
	createFn   func(ctx context.Context, t *models.Technician) error
	updateFn   func(ctx context.Context, id string, u repository.TechnicianUpdate) (*models.Technician, error)
	deleteFn   func(ctx context.Context, id string) error
}

func (m *mockTechnicianRepo) GetByFirebaseUID(ctx context.Context, uid string) (*models.Technician, error) {
	return m.getByUIDFn(ctx, uid)
}

func (m *mockTechnicianRepo) GetByID(ctx context.Context, id string) (*models.Technician, error) {
	return m.getByIDFn(ctx, id)
}

func (m *mockTechnicianRepo) Create(ctx context.Context, t *models.Technician) error {
	return m.createFn(ctx, t)
}

func (m *mockTechnicianRepo) Update(ctx context.Context, id string, u repository.TechnicianUpdate) (*models.Technician, error) {
	return m.updateFn(ctx, id, u)
}

func (m *mockTechnicianRepo) Delete(ctx context.Context, id string) error {
	return m.deleteFn(ctx, id)
}

type mockReviewRepo struct {
	repository.ReviewRepository
	reviews []models.Review
}

func (m *mockReviewRepo) ListByTechnician(context.Context, string) ([]models.Review, error) {
	return m.reviews, nil
}

func TestRegister_NewTechnicianStartsPending(t *testing.T) {
	var created *models.Technician
	svc := &DefaultTechnicianService{Repo: &mockTechnicianRepo{
		getByUIDFn: func(context.Context, string) (*models.Technician, error) { return nil, database.ErrNotFound },
		createFn: func(_ context.Context, tech *models.Technician) error {
			created = tech
			return nil
		},
	}}

	tech, isNew, err := svc.Register(context.Background(), models.TechnicianRegistration{FirebaseUID: "fb-1", Name: "Asha"})
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Equal(t, models.TechnicianPending, tech.Status)
	assert.NotEmpty(t, tech.ID)
	assert.Same(t, created, tech)
	assert.NotNil(t, tech.BrandExpertise)
}

func TestRegister_ExistingIsUpdated(t *testing.T) {
	existing := &models.Technician{ID: "t-1", FirebaseUID: "fb-1", Status: models.TechnicianActive}
	var gotUpdate repository.TechnicianUpdate
	svc := &DefaultTechnicianService{Repo: &mockTechnicianRepo{
		getByUIDFn: func(context.Context, string) (*models.Technician, error) { return existing, nil },
		updateFn: func(_ context.Context, id string, u repository.TechnicianUpdate) (*models.Technician, error) {
			gotUpdate = u
			out := *existing
			out.Name = *u.Name
			return &out, nil
		},
	}}

	tech, isNew, err := svc.Register(context.Background(), models.TechnicianRegistration{FirebaseUID: "fb-1", Name: "New Name"})
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, "New Name", tech.Name)
	assert.Nil(t, gotUpdate.Status, "re-registration never touches approval status")
	assert.Equal(t, models.TechnicianActive, tech.Status)
}

func TestRegister_Validation(t *testing.T) {
	svc := &DefaultTechnicianService{Repo: &mockTechnicianRepo{
		getByUIDFn: func(context.Context, string) (*models.Technician, error) { return nil, database.ErrNotFound },
	}}

	_, _, err := svc.Register(context.Background(), models.TechnicianRegistration{})
	assert.ErrorIs(t, err, ErrInvalidTechnician)

	_, _, err = svc.Register(context.Background(), models.TechnicianRegistration{FirebaseUID: "fb-2"})
	assert.ErrorIs(t, err, ErrInvalidTechnician)
}

func TestUpdateStatus(t *testing.T) {
	svc := &DefaultTechnicianService{Repo: &mockTechnicianRepo{
		updateFn: func(_ context.Context, id string, u repository.TechnicianUpdate) (*models.Technician, error) {
			if id == "missing" {
				return nil, database.ErrNotFound
			}
			return &models.Technician{ID: id, Status: *u.Status}, nil
		},
	}}

	tech, err := svc.UpdateStatus(context.Background(), "t-1", models.TechnicianApproved)
	require.NoError(t, err)
	assert.Equal(t, models.TechnicianApproved, tech.Status)

	_, err = svc.UpdateStatus(context.Background(), "t-1", "vip")
	assert.ErrorIs(t, err, ErrInvalidTechnician)

	_, err = svc.UpdateStatus(context.Background(), "missing", models.TechnicianBlocked)
	assert.ErrorIs(t, err, ErrTechnicianNotFound)
}

func TestSetOnlineAndToken(t *testing.T) {
	var last repository.TechnicianUpdate
	svc := &DefaultTechnicianService{Repo: &mockTechnicianRepo{
		updateFn: func(_ context.Context, id string, u repository.TechnicianUpdate) (*models.Technician, error) {
			last = u
			return &models.Technician{ID: id}, nil
		},
	}}

	_, err := svc.SetOnline(context.Background(), "t-1", true)
	require.NoError(t, err)
	require.NotNil(t, last.IsOnline)
	assert.True(t, *last.IsOnline)
	assert.Nil(t, last.Status)

	require.NoError(t, svc.UpdateFCMToken(context.Background(), "t-1", "tok"))
	assert.Equal(t, "tok", *last.FCMToken)
	assert.ErrorIs(t, svc.UpdateFCMToken(context.Background(), "t-1", ""), ErrInvalidTechnician)
}

func TestDeleteAndReviews(t *testing.T) {
	svc := &DefaultTechnicianService{
		Repo: &mockTechnicianRepo{
			deleteFn: func(context.Context, string) error { return database.ErrNotFound },
			getByIDFn: func(_ context.Context, id string) (*models.Technician, error) {
				return &models.Technician{ID: id}, nil
			},
		},
		ReviewRepo: &mockReviewRepo{reviews: []models.Review{{ID: "r1", Rating: 5}}},
	}

	assert.ErrorIs(t, svc.Delete(context.Background(), "gone"), ErrTechnicianNotFound)

	reviews, err := svc.ListReviews(context.Background(), "t-1")
	require.NoError(t, err)
	assert.Len(t, reviews, 1)
}
