// Package server wires the bizdir components together and runs them:
// PostgreSQL with migrations, the token service and resolver, the domain
// services, S3 photo storage, metrics, and the HTTP and gRPC endpoints.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/bizdir/internal/logging"
	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"github.com/dmitrijs2005/bizdir/internal/server/config"
	"github.com/dmitrijs2005/bizdir/internal/server/httpapi"
	"github.com/dmitrijs2005/bizdir/internal/server/metrics"
	"github.com/dmitrijs2005/bizdir/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bizdir/internal/server/services"
	"github.com/dmitrijs2005/bizdir/internal/server/storage"
	"github.com/dmitrijs2005/bizdir/internal/server/validation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	gs "github.com/dmitrijs2005/bizdir/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	resolver *auth.Resolver
	handler  *httpapi.API
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	logger := logging.NewJSON(os.Stdout, c.LogLevel)

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	tokens, err := auth.NewTokenService([]byte(c.SecretKey))
	if err != nil {
		db.Close()
		return nil, err
	}
	resolver := auth.NewResolver(tokens, logger)

	store, err := storage.NewS3Store(ctx, storage.Options{
		Region:       c.S3Region,
		AccessKey:    c.S3RootUser,
		SecretKey:    c.S3RootPassword,
		BaseEndpoint: c.S3BaseEndpoint,
		Bucket:       c.S3Bucket,
		PresignTTL:   c.S3PresignTTL,
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("object storage init error: %w", err)
	}

	v := validation.New()
	us, err := services.NewUserService(db, m, auth.NewHasher(c.BcryptCost), tokens, v)
	if err != nil {
		db.Close()
		return nil, err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	api := httpapi.New(httpapi.Deps{
		Resolver:   resolver,
		Users:      us,
		Businesses: services.NewBusinessService(db, m, store, v, logger),
		Reviews:    services.NewReviewService(db, m, v),
		Photos:     services.NewPhotoService(db, m, store, v, logger),
		Metrics:    metrics.New(reg),
		Gatherer:   reg,
		Health:     db.PingContext,
		Logger:     logger,
	})

	return &App{config: c, logger: logger, db: db, resolver: resolver, handler: api}, nil
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

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.handler.Routes(), app.logger)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.resolver)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a termination signal arrives or an endpoint fails,
// then closes the database.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
