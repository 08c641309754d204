package technician

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrTechnicianNotFound = errors.New("technician not found")
	ErrInvalidTechnician  = errors.New("invalid technician data")
)

// TechnicianService manages the technician directory.
type TechnicianService interface {
	Register(ctx context.Context, reg models.TechnicianRegistration) (*models.Technician, bool, error)
	GetByID(ctx context.Context, id string) (*models.Technician, error)
	GetByFirebaseUID(ctx context.Context, uid string) (*models.Technician, error)
	List(ctx context.Context) ([]models.Technician, error)
	Delete(ctx context.Context, id string) error
	UpdateStatus(ctx context.Context, id string, status models.TechnicianStatus) (*models.Technician, error)
	SetOnline(ctx context.Context, id string, online bool) (*models.Technician, error)
	UpdateFCMToken(ctx context.Context, id, token string) error
	ListReviews(ctx context.Context, id string) ([]models.Review, error)
}

type DefaultTechnicianService struct {
	Repo       repository.TechnicianRepository
	ReviewRepo repository.ReviewRepository
	Logger     *zap.Logger
}

func mapNotFound(err error) error {
	if errors.Is(err, database.ErrNotFound) {
		return ErrTechnicianNotFound
	}
	return err
}

// Register creates a technician on first sign-in and updates the profile afterwards.
// The returned bool is true when a new record was created. New technicians start pending.
func (s *DefaultTechnicianService) Register(ctx context.Context, reg models.TechnicianRegistration) (*models.Technician, bool, error) {
	if strings.TrimSpace(reg.FirebaseUID) == "" {
		return nil, false, fmt.Errorf("%w: firebaseUid is required", ErrInvalidTechnician)
	}

	existing, err := s.Repo.GetByFirebaseUID(ctx, reg.FirebaseUID)
	if err != nil && !errors.Is(err, database.ErrNotFound) {
		return nil, false, fmt.Errorf("lookup technician: %w", err)
	}

	if existing != nil {
		updated, err := s.Repo.Update(ctx, existing.ID, repository.TechnicianUpdate{
			Name:            &reg.Name,
			Email:           &reg.Email,
			Phone:           &reg.Phone,
			PhotoURL:        &reg.PhotoURL,
			City:            &reg.City,
			BrandExpertise:  reg.BrandExpertise,
			RepairExpertise: reg.RepairExpertise,
			ServiceTypes:    reg.ServiceTypes,
			CoverageAreas:   reg.CoverageAreas,
		})
		if err != nil {
			return nil, false, mapNotFound(err)
		}
		return updated, false, nil
	}

	if strings.TrimSpace(reg.Name) == "" {
		return nil, false, fmt.Errorf("%w: name is required", ErrInvalidTechnician)
	}
	t := &models.Technician{
		ID:              uuid.New().String(),
		FirebaseUID:     reg.FirebaseUID,
		Name:            reg.Name,
		Email:           reg.Email,
		Phone:           reg.Phone,
		PhotoURL:        reg.PhotoURL,
		City:            reg.City,
		Status:          models.TechnicianPending,
		BrandExpertise:  orEmpty(reg.BrandExpertise),
		RepairExpertise: orEmpty(reg.RepairExpertise),
		ServiceTypes:    orEmpty(reg.ServiceTypes),
		CoverageAreas:   orEmpty(reg.CoverageAreas),
	}
	if err := s.Repo.Create(ctx, t); err != nil {
		return nil, false, fmt.Errorf("create technician: %w", err)
	}
	if s.Logger != nil {
		s.Logger.Info("Technician registered", zap.String("technicianId", t.ID), zap.String("firebaseUid", t.FirebaseUID))
	}
	return t, true, nil
}

func orEmpty(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (s *DefaultTechnicianService) GetByID(ctx context.Context, id string) (*models.Technician, error) {
	t, err := s.Repo.GetByID(ctx, id)
	return t, mapNotFound(err)
}

func (s *DefaultTechnicianService) GetByFirebaseUID(ctx context.Context, uid string) (*models.Technician, error) {
	t, err := s.Repo.GetByFirebaseUID(ctx, uid)
	return t, mapNotFound(err)
}

func (s *DefaultTechnicianService) List(ctx context.Context) ([]models.Technician, error) {
	return s.Repo.List(ctx)
}

func (s *DefaultTechnicianService) Delete(ctx context.Context, id string) error {
	return mapNotFound(s.Repo.Delete(ctx, id))
}

// UpdateStatus is the admin approval flow.
func (s *DefaultTechnicianService) UpdateStatus(ctx context.Context, id string, status models.TechnicianStatus) (*models.Technician, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrInvalidTechnician, status)
	}
	t, err := s.Repo.Update(ctx, id, repository.TechnicianUpdate{Status: &status})
	if err != nil {
		return nil, mapNotFound(err)
	}
	if s.Logger != nil {
		s.Logger.Info("Technician status updated", zap.String("technicianId", id), zap.String("status", string(status)))
	}
	return t, nil
}

// SetOnline toggles presence. It does not affect eligibility.
func (s *DefaultTechnicianService) SetOnline(ctx context.Context, id string, online bool) (*models.Technician, error) {
	t, err := s.Repo.Update(ctx, id, repository.TechnicianUpdate{IsOnline: &online})
	return t, mapNotFound(err)
}

func (s *DefaultTechnicianService) UpdateFCMToken(ctx context.Context, id, token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("%w: fcmToken is required", ErrInvalidTechnician)
	}
	_, err := s.Repo.Update(ctx, id, repository.TechnicianUpdate{FCMToken: &token})
	return mapNotFound(err)
}

func (s *DefaultTechnicianService) ListReviews(ctx context.Context, id string) ([]models.Review, error) {
	if _, err := s.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.ReviewRepo.ListByTechnician(ctx, id)
}
