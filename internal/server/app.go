// Package server wires the AuditDesk server together: database, evidence
// storage, services and the gRPC and HTTP endpoints.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/auditdesk/internal/logging"
	"github.com/dmitrijs2005/auditdesk/internal/server/config"
	"github.com/dmitrijs2005/auditdesk/internal/server/httpapi"
	"github.com/dmitrijs2005/auditdesk/internal/server/metrics"
	"github.com/dmitrijs2005/auditdesk/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/auditdesk/internal/server/services"
	"github.com/dmitrijs2005/auditdesk/internal/server/storage"

	gs "github.com/dmitrijs2005/auditdesk/internal/server/grpc"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	registry      *prometheus.Registry
	metrics       *metrics.Metrics
	userService   *services.UserService
	recordService *services.RecordService
}

// openStorage picks S3 when an endpoint is configured and process memory
// otherwise.
func openStorage(ctx context.Context, c *config.Config, l logging.Logger) (storage.Storage, error) {
	if c.S3BaseEndpoint == "" {
		l.Warn(ctx, "No S3 endpoint configured, evidence is kept in memory")
		return storage.NewMemory(), nil
	}
	return storage.NewS3Storage(ctx, c)
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSON(os.Stdout, slog.LevelInfo)

	db, err := repomanager.OpenPostgres(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager()
	if err := m.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	st, err := openStorage(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	mt := metrics.New(reg)

	us := services.NewUserService(db, m, c)
	rs := services.NewRecordService(db, m, st, mt)

	if c.AdminUser != "" {
		created, err := us.EnsureAdmin(ctx, c.AdminUser, c.AdminPassword)
		if err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("admin bootstrap error: %w", err)
		}
		if created {
			logger.Info(ctx, "Admin account created", "username", c.AdminUser)
		}
	}

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		registry:      reg,
		metrics:       mt,
		userService:   us,
		recordService: rs,
	}, nil
}

// Run serves gRPC and HTTP until ctx is cancelled or either server fails.
func (app *App) Run(ctx context.Context) error {
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	grpcServer := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger,
		app.userService, app.recordService, app.metrics,
		app.config.SecretKey, app.config.MaxUploadBytes)

	router := httpapi.NewRouter(httpapi.New(app.recordService, app.logger, app.metrics), app.registry)
	httpServer := httpapi.NewServer(app.config.EndpointAddrHTTP, router, app.logger)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return grpcServer.Run(ctx) })
	g.Go(func() error { return httpServer.Run(ctx) })

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
