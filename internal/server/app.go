// Package server wires the filmvault server together: configuration,
// PostgreSQL, services, the public HTTP server and the metrics endpoint,
// and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/filmvault/internal/logging"
	"github.com/dmitrijs2005/filmvault/internal/server/auth"
	"github.com/dmitrijs2005/filmvault/internal/server/config"
	"github.com/dmitrijs2005/filmvault/internal/server/httpserver"
	"github.com/dmitrijs2005/filmvault/internal/server/metrics"
	"github.com/dmitrijs2005/filmvault/internal/server/omdb"
	"github.com/dmitrijs2005/filmvault/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/filmvault/internal/server/services"
	"github.com/gin-gonic/gin"
)

type App struct {
	config     *config.Config
	logger     logging.Logger
	db         *sql.DB
	httpServer *httpserver.HTTPServer
	metrics    *metrics.Server
}

// NewApp validates the config, connects to PostgreSQL, applies migrations
// and builds every component.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app, err := newApp(c, db, rm, logger)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func newApp(c *config.Config, db *sql.DB, rm repomanager.RepositoryManager, logger logging.Logger) (*App, error) {
	tokens, err := auth.NewTokenManager([]byte(c.SecretKey))
	if err != nil {
		return nil, fmt.Errorf("token manager: %w", err)
	}

	hasher, err := auth.NewBcryptHasher(c.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("password hasher: %w", err)
	}

	us, err := services.NewUserService(db, rm, hasher, tokens)
	if err != nil {
		return nil, fmt.Errorf("user service: %w", err)
	}
	fs := services.NewFavoriteService(db, rm)

	if c.OMDbAPIKey == "" {
		logger.Warn(context.Background(), "OMDb API key is not set, movie search is disabled")
	}
	catalog := omdb.NewClient(c.OMDbBaseURL, c.OMDbAPIKey, c.OMDbTimeout)

	reg := metrics.NewRegistry()
	m := metrics.NewMetrics(reg)

	gin.SetMode(gin.ReleaseMode)
	hs := httpserver.NewHTTPServer(c.EndpointAddr, httpserver.Deps{
		Users:     us,
		Favorites: fs,
		Catalog:   catalog,
		Tokens:    tokens,
		Metrics:   m,
		Logger:    logger,
		Cookies:   httpserver.CookieOptions{Secure: c.Production},
	}, c.ShutdownTimeout)

	app := &App{config: c, logger: logger, db: db, httpServer: hs}
	if c.MetricsAddr != "" {
		app.metrics = metrics.NewServer(c.MetricsAddr, reg, logger)
	}
	return app, nil
}

// initSignalHandler cancels the app context on SIGINT, SIGTERM or SIGQUIT.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.httpServer.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.metrics.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until ctx is canceled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.metrics != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(ctx, "db close", "error", err.Error())
		}
	}
	app.logger.Info(ctx, "App stopped")
}
