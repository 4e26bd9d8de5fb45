package users

import (
	"context"

	"github.com/dmitrijs2005/filmvault/internal/server/models"
)

// Repository stores user accounts. Implementations must enforce email
// uniqueness and report a violation as common.ErrorAlreadyExists.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}
