package technicianRepo

import (
	"context"

	"ziyonstar/models"
)

// SearchCriteria narrows FindFirst.
type SearchCriteria struct {
	Statuses   []models.TechnicianStatus
	ExcludeIDs []string
}

// TechnicianUpdate lists mutable directory fields. Nil fields are left untouched.
type TechnicianUpdate struct {
	Name            *string
	Email           *string
	Phone           *string
	PhotoURL        *string
	City            *string
	FCMToken        *string
	Status          *models.TechnicianStatus
	IsOnline        *bool
	BrandExpertise  []string
	RepairExpertise []string
	ServiceTypes    []string
	CoverageAreas   []string
}

// TechnicianRepository persists the technician directory.
type TechnicianRepository interface {
	Create(ctx context.Context, t *models.Technician) error
	GetByID(ctx context.Context, id string) (*models.Technician, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*models.Technician, error)
	List(ctx context.Context) ([]models.Technician, error)
	Update(ctx context.Context, id string, u TechnicianUpdate) (*models.Technician, error)
	Delete(ctx context.Context, id string) error

	// FindFirst returns the earliest-registered technician matching c, or ErrNotFound.
	FindFirst(ctx context.Context, c SearchCriteria) (*models.Technician, error)

	// SetAggregates overwrites the performance aggregates.
	SetAggregates(ctx context.Context, id string, averageRating float64, totalReviews, completedJobs int) error

	EnsureIndexes(ctx context.Context) error
}
