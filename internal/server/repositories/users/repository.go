package users

import (
	"context"

	"github.com/davidmr/portfoliocms/internal/server/models"
)

// Repository is the durable account store. Implementations must return
// common.ErrorNotFound for missing rows and common.ErrorAlreadyExists for
// identity collisions on Create.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, id string, hash string) error
	Count(ctx context.Context) (int64, error)
}
