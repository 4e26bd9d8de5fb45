package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/dbx"
	"github.com/dmitrijs2005/filmvault/internal/server/models"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/users"
)

// memUsers enforces email uniqueness the way the unique index does.
type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]*models.User

	findErr   error
	createErr error
}

func newMemUsers() *memUsers {
	return &memUsers{byEmail: map[string]*models.User{}}
}

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	if r.createErr != nil {
		return nil, r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *u
	cp.CreatedAt = time.Now()
	r.byEmail[u.Email] = &cp
	out := cp
	return &out, nil
}

func (r *memUsers) FindByEmail(_ context.Context, email string) (*models.User, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	u, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *u
	return &out, nil
}

func (r *memUsers) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byEmail)
}

type memFavorites struct {
	mu   sync.Mutex
	rows map[string]map[string]models.Favorite

	err error
}

func newMemFavorites() *memFavorites {
	return &memFavorites{rows: map[string]map[string]models.Favorite{}}
}

func (r *memFavorites) List(_ context.Context, userID string) ([]models.Favorite, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Favorite
	for _, f := range r.rows[userID] {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memFavorites) Upsert(_ context.Context, fav *models.Favorite) (*models.Favorite, error) {
	if r.err != nil {
		return nil, r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rows[fav.UserID] == nil {
		r.rows[fav.UserID] = map[string]models.Favorite{}
	}
	cp := *fav
	if prev, ok := r.rows[fav.UserID][fav.ImdbID]; ok {
		cp.CreatedAt = prev.CreatedAt
	} else {
		cp.CreatedAt = time.Now()
	}
	r.rows[fav.UserID][fav.ImdbID] = cp
	return &cp, nil
}

func (r *memFavorites) Delete(_ context.Context, userID, imdbID string) error {
	if r.err != nil {
		return r.err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[userID][imdbID]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows[userID], imdbID)
	return nil
}

type fakeRepoManager struct {
	u *memUsers
	f *memFavorites
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *fakeRepoManager) Favorites(dbx.DBTX) favorites.Repository     { return m.f }
