package favorites

import (
	"context"

	"github.com/dmitrijs2005/filmvault/internal/server/models"
)

// Repository stores per-user favorites.
type Repository interface {
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	Upsert(ctx context.Context, fav *models.Favorite) (*models.Favorite, error)
	Delete(ctx context.Context, userID, imdbID string) error
}
