package assignment

import (
	"context"
	"errors"
	"fmt"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"
)

// eligibleStatuses are the directory statuses that may receive jobs.
var eligibleStatuses = []models.TechnicianStatus{models.TechnicianActive, models.TechnicianApproved}

// AssignmentService picks the technician that should receive a booking.
type AssignmentService interface {
	// SelectTechnician returns the first eligible technician not in excluded,
	// or nil when nobody qualifies. Store failures are returned as errors.
	SelectTechnician(ctx context.Context, excluded []string) (*models.Technician, error)
}

// DefaultAssignmentService selects in registration order.
// Expertise, coverage and online flags are recorded on technicians but not consulted here.
type DefaultAssignmentService struct {
	TechnicianRepo repository.TechnicianRepository
}

func (s *DefaultAssignmentService) SelectTechnician(ctx context.Context, excluded []string) (*models.Technician, error) {
	tech, err := s.TechnicianRepo.FindFirst(ctx, repository.TechnicianSearchCriteria{
		Statuses:   eligibleStatuses,
		ExcludeIDs: excluded,
	})
	if errors.Is(err, database.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("technician selection failed: %w", err)
	}
	return tech, nil
}

// IsEligible reports whether t may be handed a job, by auto-selection or by explicit request.
func IsEligible(t *models.Technician) bool {
	if t == nil {
		return false
	}
	for _, s := range eligibleStatuses {
		if t.Status == s {
			return true
		}
	}
	return false
}
