// Package httpserver is the browser-facing HTTP transport: routes, session
// cookie handling and the route admission gate.
package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/dmitrijs2005/filmvault/internal/common"
	"github.com/dmitrijs2005/filmvault/internal/logging"
	"github.com/dmitrijs2005/filmvault/internal/server/metrics"
	"github.com/dmitrijs2005/filmvault/internal/server/models"
	"github.com/dmitrijs2005/filmvault/internal/server/omdb"
	"github.com/dmitrijs2005/filmvault/internal/server/services"
	"github.com/gin-gonic/gin"
)

// UserAuthenticator is the registration and login service.
type UserAuthenticator interface {
	Register(ctx context.Context, c services.Credentials) (*models.User, error)
	Login(ctx context.Context, c services.Credentials) (*services.Session, error)
}

// FavoriteStore is the per-user favorites service.
type FavoriteStore interface {
	List(ctx context.Context, userID string) ([]models.Favorite, error)
	Save(ctx context.Context, fav models.Favorite) (*models.Favorite, error)
	Remove(ctx context.Context, userID, imdbID string) error
}

// Deps bundles what the HTTP server needs. Metrics may be nil.
type Deps struct {
	Users     UserAuthenticator
	Favorites FavoriteStore
	Catalog   omdb.Catalog
	Tokens    TokenVerifier
	Metrics   *metrics.Metrics
	Logger    logging.Logger
	Cookies   CookieOptions
}

type HTTPServer struct {
	address         string
	users           UserAuthenticator
	favorites       FavoriteStore
	catalog         omdb.Catalog
	metrics         *metrics.Metrics
	logger          logging.Logger
	cookies         CookieOptions
	shutdownTimeout time.Duration
	engine          *gin.Engine
}

func NewHTTPServer(address string, d Deps, shutdownTimeout time.Duration) *HTTPServer {
	s := &HTTPServer{
		address:         address,
		users:           d.Users,
		favorites:       d.Favorites,
		catalog:         d.Catalog,
		metrics:         d.Metrics,
		logger:          d.Logger.With("module", "http_server"),
		cookies:         d.Cookies,
		shutdownTimeout: shutdownTimeout,
	}
	s.engine = s.routes(NewGate(d.Tokens, d.Cookies, d.Metrics, d.Logger))
	return s
}

// Handler returns the fully wired engine.
func (s *HTTPServer) Handler() http.Handler {
	return s.engine
}

func (s *HTTPServer) routes(gate *Gate) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies(nil)

	// The gate runs before every route, including NoRoute.
	r.Use(gin.Recovery(), accessLog(s.logger, s.metrics), gate.Middleware())

	r.GET("/healthz", healthz)
	r.GET("/favicon.ico", favicon)
	r.StaticFS("/static", http.FS(mustSub("web/static")))

	r.GET("/login", page("login.html"))
	r.GET("/register", page("register.html"))
	r.GET("/", page("index.html"))

	a := r.Group("/api/auth")
	a.POST("/register", s.register)
	a.POST("/login", s.login)
	a.POST("/logout", s.logout)

	api := r.Group("/api")
	api.GET("/me", s.me)
	api.GET("/movies/search", s.searchMovies)
	api.GET("/movies/:imdbID", s.movieByID)
	api.GET("/favorites", s.listFavorites)
	api.POST("/favorites", s.saveFavorite)
	api.DELETE("/favorites", s.deleteFavorite)

	r.NoRoute(func(c *gin.Context) {
		writeError(c, s.logger, common.ErrorNotFound)
	})

	return r
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (s *HTTPServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

// serve owns listen. It returns only after the shutdown goroutine has exited,
// whether Serve stopped because ctx was canceled or because it failed.
func (s *HTTPServer) serve(ctx context.Context, listen net.Listener) error {
	srv := &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveDone := make(chan struct{})
	stopped := make(chan struct{})
	go func() {
		defer close(stopped)
		select {
		case <-ctx.Done():
		case <-serveDone:
			return
		}
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "HTTP server shutdown", "error", err.Error())
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", listen.Addr().String())

	err := srv.Serve(listen)
	close(serveDone)
	<-stopped
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
