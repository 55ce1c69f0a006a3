// Package server wires the studio site together: it opens the database,
// runs migrations and seeding, builds the services and runs the HTTP API
// and the gRPC health port until the context is canceled.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/studiosite/internal/logging"
	"github.com/dmitrijs2005/studiosite/internal/server/auth"
	"github.com/dmitrijs2005/studiosite/internal/server/config"
	"github.com/dmitrijs2005/studiosite/internal/server/httpapi"
	"github.com/dmitrijs2005/studiosite/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/studiosite/internal/server/services"
	"github.com/dmitrijs2005/studiosite/internal/server/storage"
	"golang.org/x/sync/errgroup"

	gs "github.com/dmitrijs2005/studiosite/internal/server/grpc"
)

const shutdownTimeout = 10 * time.Second

var (
	openDB         = repomanager.Open
	newRepoManager = repomanager.NewPostgresRepositoryManager
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	handler   http.Handler
	uploadDir string
}

// NewApp connects to the database and prepares every component. An
// unreachable database is a startup error.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := openDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	app, err := build(ctx, c, logger, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return app, nil
}

func build(ctx context.Context, c *config.Config, logger logging.Logger, db *sql.DB) (*App, error) {
	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migrations: %w", err)
	}

	backend, uploadDir, err := newUploadBackend(ctx, c)
	if err != nil {
		return nil, fmt.Errorf("upload backend: %w", err)
	}

	tokens := auth.NewTokenService([]byte(c.SecretKey), c.TokenLifetime)
	credentials := services.NewCredentialService(db, rm, tokens, logger.With("module", "credentials"))
	content := services.NewContentService(db, rm, logger.With("module", "content"))
	messages := services.NewMessageService(db, rm, logger.With("module", "messages"))
	uploads := services.NewUploadService(backend, services.UploadLimits{
		MaxImageSize: c.MaxImageSize,
		MaxVideoSize: c.MaxVideoSize,
	}, logger.With("module", "uploads"))

	if err := services.NewSeeder(db, credentials, content, logger).Run(ctx, c.AdminUsername, c.AdminPassword); err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}

	handler, err := httpapi.NewServer(httpapi.Config{
		Credentials: credentials,
		Content:     content,
		Messages:    messages,
		Uploads:     uploads,
		DB:          db,
		Log:         logger.With("module", "http"),
		UploadDir:   uploadDir,
		UploadURL:   c.UploadPublicURL,
		Development: c.Development,
		RateLimit:   c.RateLimit,
		CORSOrigins: c.CORSOrigins,
		Metrics:     true,
	}).Handler()
	if err != nil {
		return nil, fmt.Errorf("http handler: %w", err)
	}

	return &App{config: c, logger: logger, db: db, handler: handler, uploadDir: uploadDir}, nil
}

// newUploadBackend returns the configured backend and, for the local one,
// the directory to serve.
func newUploadBackend(ctx context.Context, c *config.Config) (storage.Backend, string, error) {
	if c.UploadBackend == config.UploadBackendS3 {
		b, err := storage.NewS3Backend(ctx, storage.S3Options{
			Region:       c.S3Region,
			AccessKey:    c.S3AccessKey,
			SecretKey:    c.S3SecretKey,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
			PublicURL:    c.S3PublicURL,
		})
		if err != nil {
			return nil, "", err
		}
		return b, "", nil
	}

	b, err := storage.NewLocalBackend(c.UploadDir, c.UploadPublicURL)
	if err != nil {
		return nil, "", err
	}
	return b, b.Dir(), nil
}

func (app *App) runHTTP(ctx context.Context) error {
	ln, err := net.Listen("tcp", app.config.HTTPAddr)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Handler:           app.handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		app.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			app.logger.Error(ctx, "http shutdown", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting HTTP server", "address", ln.Addr().String())
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Run serves until SIGINT/SIGTERM or ctx cancellation, or until one of the
// servers fails; the other is then stopped too. The database is closed on
// return.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	defer func() {
		if err := app.db.Close(); err != nil {
			app.logger.Error(context.Background(), "db close", "error", err)
		}
	}()

	app.logger.Info(ctx, "Starting app...")

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.runHTTP(ctx) })
	if app.config.HealthAddrGRPC != "" {
		g.Go(func() error {
			return gs.NewGRPCServer(app.config.HealthAddrGRPC, app.logger, app.db).Run(ctx)
		})
	}

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
