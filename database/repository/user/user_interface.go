package userRepo

import (
	"context"

	"ziyonstar/models"
)

// UserRepository reads customer contact data from the shared "users" collection.
type UserRepository interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	SetFCMToken(ctx context.Context, id, token string) error
}
