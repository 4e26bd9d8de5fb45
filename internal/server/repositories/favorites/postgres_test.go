package favorites

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	listQuery   = `(?s)^SELECT\s+imdb_id,\s*title,\s*poster,\s*year,\s*type,\s*created_at\s+FROM\s+favorites\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at\s+DESC\s*$`
	upsertQuery = `(?s)^INSERT\s+INTO\s+favorites.*ON\s+CONFLICT\s+\(user_id,\s*imdb_id\).*RETURNING\s+created_at\s*$`
	deleteQuery = `^DELETE FROM favorites WHERE user_id = \$1 AND imdb_id = \$2$`
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return NewPostgresRepository(db), mock, db
}

func TestList(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	t1 := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	t2 := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows([]string{"imdb_id", "title", "poster", "year", "type", "created_at"}).
		AddRow("tt0133093", "The Matrix", "http://p/1.jpg", "1999", "movie", t1).
		AddRow("tt0088763", "Back to the Future", "", "1985", "movie", t2)
	mock.ExpectQuery(listQuery).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.List(context.Background(), "u-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "tt0133093", got[0].ImdbID)
	assert.Equal(t, "u-1", got[0].UserID)
	assert.Equal(t, t2, got[1].CreatedAt)
}

func TestList_EmptyIsNotNil(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQuery).WithArgs("u-1").
		WillReturnRows(sqlmock.NewRows([]string{"imdb_id", "title", "poster", "year", "type", "created_at"}))

	got, err := repo.List(context.Background(), "u-1")
	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestList_DBError(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectQuery(listQuery).WithArgs("u-1").WillReturnError(errors.New("boom"))

	_, err := repo.List(context.Background(), "u-1")
	assert.Error(t, err)
}

func TestUpsert(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(upsertQuery).
		WithArgs("u-1", "tt0133093", "The Matrix", "p", "1999", "movie").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	got, err := repo.Upsert(context.Background(), &models.Favorite{
		UserID: "u-1", ImdbID: "tt0133093", Title: "The Matrix", Poster: "p", Year: "1999", Type: "movie",
	})
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
}

func TestDelete(t *testing.T) {
	t.Run("deleted", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(deleteQuery).WithArgs("u-1", "tt1").WillReturnResult(sqlmock.NewResult(0, 1))
		assert.NoError(t, repo.Delete(context.Background(), "u-1", "tt1"))
	})

	t.Run("missing", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(deleteQuery).WithArgs("u-1", "tt1").WillReturnResult(sqlmock.NewResult(0, 0))
		assert.ErrorIs(t, repo.Delete(context.Background(), "u-1", "tt1"), common.ErrorNotFound)
	})

	t.Run("db error", func(t *testing.T) {
		repo, mock, db := newRepoWithMock(t)
		defer db.Close()
		mock.ExpectExec(deleteQuery).WithArgs("u-1", "tt1").WillReturnError(errors.New("boom"))
		err := repo.Delete(context.Background(), "u-1", "tt1")
		require.Error(t, err)
		assert.NotErrorIs(t, err, common.ErrorNotFound)
	})
}
