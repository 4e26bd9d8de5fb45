package favorites

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/dbx"
	"github.com/dmitrijs2005/filmvault/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) List(ctx context.Context, userID string) ([]models.Favorite, error) {
	query :=
		`SELECT imdb_id, title, poster, year, type, created_at FROM favorites
		 WHERE user_id = $1
		 ORDER BY created_at DESC
		 `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Favorite, 0)
	for rows.Next() {
		f := models.Favorite{UserID: userID}
		if err := rows.Scan(&f.ImdbID, &f.Title, &f.Poster, &f.Year, &f.Type, &f.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

// Upsert inserts the favorite or refreshes its catalog fields, keeping the
// original created_at.
func (r *PostgresRepository) Upsert(ctx context.Context, fav *models.Favorite) (*models.Favorite, error) {
	query :=
		`INSERT INTO favorites (user_id, imdb_id, title, poster, year, type)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 ON CONFLICT (user_id, imdb_id)
		 DO UPDATE SET title = EXCLUDED.title, poster = EXCLUDED.poster, year = EXCLUDED.year, type = EXCLUDED.type
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		fav.UserID, fav.ImdbID, fav.Title, fav.Poster, fav.Year, fav.Type).Scan(&fav.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return fav, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, userID, imdbID string) error {
	query := `DELETE FROM favorites WHERE user_id = $1 AND imdb_id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, imdbID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
