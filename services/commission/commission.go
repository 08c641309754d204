package commission

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ziyonstar/database"
	"ziyonstar/database/repository"
	"ziyonstar/models"
)

var (
	ErrInvalidCommission  = errors.New("invalid commission")
	ErrCommissionNotFound = errors.New("commission not found")
)

// CommissionService manages the admin-defined revenue split.
type CommissionService interface {
	Upsert(ctx context.Context, in models.CommissionInput) (*models.Commission, error)
	List(ctx context.Context) ([]models.Commission, error)
	Get(ctx context.Context, category string) (*models.Commission, error)
	Delete(ctx context.Context, category string) error
}

type DefaultCommissionService struct {
	Repo repository.CommissionRepository
}

func validate(c models.CommissionInput) error {
	if strings.TrimSpace(c.Category) == "" {
		return fmt.Errorf("%w: category is required", ErrInvalidCommission)
	}
	switch c.Type {
	case models.CommissionPercentage:
		if c.Value < 0 || c.Value > 100 {
			return fmt.Errorf("%w: percentage must be within 0-100", ErrInvalidCommission)
		}
	case models.CommissionFixed:
		if c.Value < 0 {
			return fmt.Errorf("%w: fixed value must not be negative", ErrInvalidCommission)
		}
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidCommission, c.Type)
	}
	return nil
}

func (s *DefaultCommissionService) Upsert(ctx context.Context, in models.CommissionInput) (*models.Commission, error) {
	in.Category = strings.TrimSpace(in.Category)
	if in.Type == "" {
		in.Type = models.CommissionPercentage
	}
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.Repo.Upsert(ctx, in)
}

func (s *DefaultCommissionService) List(ctx context.Context) ([]models.Commission, error) {
	return s.Repo.List(ctx)
}

func (s *DefaultCommissionService) Get(ctx context.Context, category string) (*models.Commission, error) {
	c, err := s.Repo.GetByCategory(ctx, category)
	if errors.Is(err, database.ErrNotFound) {
		return nil, ErrCommissionNotFound
	}
	return c, err
}

func (s *DefaultCommissionService) Delete(ctx context.Context, category string) error {
	err := s.Repo.Delete(ctx, category)
	if errors.Is(err, database.ErrNotFound) {
		return ErrCommissionNotFound
	}
	return err
}
