package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/dbx"
	"github.com/dmitrijs2005/filmvault/internal/server/models"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/repomanager"
)

// FavoriteService manages the favorites of the signed-in user.
type FavoriteService struct {
	db          dbx.DBTX
	repomanager repomanager.RepositoryManager
}

func NewFavoriteService(db dbx.DBTX, m repomanager.RepositoryManager) *FavoriteService {
	return &FavoriteService{db: db, repomanager: m}
}

func (s *FavoriteService) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	favs, err := s.repomanager.Favorites(s.db).List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("error listing favorites: %w", err)
	}
	if favs == nil {
		favs = []models.Favorite{}
	}
	return favs, nil
}

// Save adds or refreshes a favorite. ImdbID and Title are required.
func (s *FavoriteService) Save(ctx context.Context, fav models.Favorite) (*models.Favorite, error) {
	fav.ImdbID = strings.TrimSpace(fav.ImdbID)
	fav.Title = strings.TrimSpace(fav.Title)
	if fav.UserID == "" || fav.ImdbID == "" || fav.Title == "" {
		return nil, common.ErrMissingFields
	}

	saved, err := s.repomanager.Favorites(s.db).Upsert(ctx, &fav)
	if err != nil {
		return nil, fmt.Errorf("error saving favorite: %w", err)
	}
	return saved, nil
}

// Remove deletes a favorite. A missing row is common.ErrorNotFound.
func (s *FavoriteService) Remove(ctx context.Context, userID, imdbID string) error {
	imdbID = strings.TrimSpace(imdbID)
	if userID == "" || imdbID == "" {
		return common.ErrMissingFields
	}
	return s.repomanager.Favorites(s.db).Delete(ctx, userID, imdbID)
}
