package httpserver

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/dbx"
	"github.com/dmitrijs2005/filmvault/internal/logging"
	"github.com/dmitrijs2005/filmvault/internal/server/auth"
	"github.com/dmitrijs2005/filmvault/internal/server/metrics"
	"github.com/dmitrijs2005/filmvault/internal/server/models"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/favorites"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/users"
	"github.com/dmitrijs2005/filmvault/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type memUsers struct {
	mu      sync.Mutex
	byEmail map[string]models.User
	findErr error
}

func (r *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byEmail[u.Email]; ok {
		return nil, common.ErrorAlreadyExists
	}
	cp := *u
	cp.CreatedAt = time.Now()
	r.byEmail[u.Email] = cp
	return &cp, nil
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
	return &u, nil
}

type memFavorites struct {
	mu   sync.Mutex
	rows map[string]models.Favorite
}

func favKey(userID, imdbID string) string { return userID + "|" + imdbID }

func (r *memFavorites) List(_ context.Context, userID string) ([]models.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Favorite
	for _, f := range r.rows {
		if f.UserID == userID {
			out = append(out, f)
		}
	}
	return out, nil
}

func (r *memFavorites) Upsert(_ context.Context, fav *models.Favorite) (*models.Favorite, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cp := *fav
	cp.CreatedAt = time.Now()
	r.rows[favKey(fav.UserID, fav.ImdbID)] = cp
	return &cp, nil
}

func (r *memFavorites) Delete(_ context.Context, userID, imdbID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	k := favKey(userID, imdbID)
	if _, ok := r.rows[k]; !ok {
		return common.ErrorNotFound
	}
	delete(r.rows, k)
	return nil
}

type memManager struct {
	u *memUsers
	f *memFavorites
}

func (m *memManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memManager) Users(dbx.DBTX) users.Repository             { return m.u }
func (m *memManager) Favorites(dbx.DBTX) favorites.Repository     { return m.f }

type fakeCatalog struct {
	raw    json.RawMessage
	err    error
	calls  int
	lastQ  string
	lastID string
}

func (f *fakeCatalog) Search(_ context.Context, title string) (json.RawMessage, error) {
	f.calls++
	f.lastQ = title
	return f.raw, f.err
}

func (f *fakeCatalog) ByID(_ context.Context, imdbID string) (json.RawMessage, error) {
	f.calls++
	f.lastID = imdbID
	return f.raw, f.err
}

type testEnv struct {
	server  *HTTPServer
	handler http.Handler
	users   *memUsers
	catalog *fakeCatalog
	tokens  *auth.TokenManager
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T, cookies CookieOptions) *testEnv {
	t.Helper()

	rm := &memManager{
		u: &memUsers{byEmail: map[string]models.User{}},
		f: &memFavorites{rows: map[string]models.Favorite{}},
	}
	hasher, err := auth.NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)
	tm, err := auth.NewTokenManager([]byte(testSecret))
	require.NoError(t, err)
	us, err := services.NewUserService(nil, rm, hasher, tm)
	require.NoError(t, err)

	cat := &fakeCatalog{raw: json.RawMessage(`{"Response":"True"}`)}
	m := metrics.NewMetrics(prometheus.NewRegistry())

	s := NewHTTPServer("127.0.0.1:0", Deps{
		Users:     us,
		Favorites: services.NewFavoriteService(nil, rm),
		Catalog:   cat,
		Tokens:    tm,
		Metrics:   m,
		Logger:    logging.Nop(),
		Cookies:   cookies,
	}, time.Second)

	return &testEnv{server: s, handler: s.Handler(), users: rm.u, catalog: cat, tokens: tm, metrics: m}
}

func (e *testEnv) do(method, target, body string, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// signIn registers and logs in, returning the session cookie.
func (e *testEnv) signIn(t *testing.T, email, password string) *http.Cookie {
	t.Helper()
	body := `{"email":"` + email + `","password":"` + password + `"}`
	rec := e.do(http.MethodPost, "/api/auth/register", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = e.do(http.MethodPost, "/api/auth/login", body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	c := sessionCookie(rec)
	require.NotNil(t, c)
	return c
}

func sessionCookie(rec *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == common.SessionCookieName {
			return c
		}
	}
	return nil
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var e errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &e), rec.Body.String())
	return e
}
