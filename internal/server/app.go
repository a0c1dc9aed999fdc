// Package server wires the blogkeeper API together: configuration, the
// credential store, hashing and token services, and the REST and gRPC
// listeners. It shuts everything down gracefully on SIGINT/SIGTERM.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/blogkeeper/internal/logging"
	"github.com/dmitrijs2005/blogkeeper/internal/server/auth"
	"github.com/dmitrijs2005/blogkeeper/internal/server/config"
	"github.com/dmitrijs2005/blogkeeper/internal/server/metrics"
	"github.com/dmitrijs2005/blogkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogkeeper/internal/server/rest"
	"github.com/dmitrijs2005/blogkeeper/internal/server/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/blogkeeper/internal/server/grpc"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	registry    *prometheus.Registry
	metrics     *metrics.Metrics
	codec       *auth.Codec
	userService *services.UserService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	level := slog.LevelDebug
	if c.IsProduction() {
		level = slog.LevelInfo
		gin.SetMode(gin.ReleaseMode)
	}
	logger := logging.NewJSONLogger(os.Stdout, level)

	if c.SecretKey == config.DevSecretKey {
		logger.Warn(ctx, "using the built-in development signing key; set JWT_SECRET")
	}

	db, rm, err := storeOpener(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	codec, err := auth.NewCodec([]byte(c.SecretKey))
	if err != nil {
		closeStore(db)
		return nil, err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	us, err := services.NewUserService(db, rm, auth.NewHasher(c.Argon2), codec, m, logger)
	if err != nil {
		closeStore(db)
		return nil, err
	}

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		registry:    registry,
		metrics:     m,
		codec:       codec,
		userService: us,
	}, nil
}

// storeOpener is a seam for tests.
var storeOpener = openStore

// openStore returns a migrated PostgreSQL handle, or no handle and the
// in-memory store when dsn is config.MemoryDSN.
func openStore(ctx context.Context, dsn string) (*sql.DB, repomanager.RepositoryManager, error) {
	if dsn == config.MemoryDSN {
		return nil, repomanager.NewMemoryRepositoryManager(), nil
	}

	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	return db, rm, nil
}

// closeStore releases a handle returned by openStore; the memory store has none.
func closeStore(db *sql.DB) {
	if db != nil {
		_ = db.Close()
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := rest.NewServer(rest.Options{
		Address:         app.config.EndpointAddrHTTP,
		AllowedOrigins:  app.config.CORSAllowedOrigins,
		ShutdownTimeout: app.config.ShutdownTimeout,
		Users:           app.userService,
		Codec:           app.codec,
		Metrics:         app.metrics,
		Gatherer:        app.registry,
		Logger:          app.logger,
	})

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.codec, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "environment", app.config.Environment)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startRESTServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close failed", "error", err)
		}
	}

	app.logger.Info(context.Background(), "App stopped")
}
