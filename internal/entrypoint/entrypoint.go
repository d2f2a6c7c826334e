// Package entrypoint wires configuration, storage and the HTTP router into a
// running server.
package entrypoint

import (
	"context"
	"encoding/hex"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/badreads/badreads/internal/auth"
	"github.com/badreads/badreads/internal/config"
	"github.com/badreads/badreads/internal/database"
	"github.com/badreads/badreads/internal/database/accounts"
	"github.com/badreads/badreads/internal/database/catalog"
	"github.com/badreads/badreads/internal/database/collections"
	"github.com/badreads/badreads/internal/database/reading"
	"github.com/badreads/badreads/internal/database/reports"
	"github.com/badreads/badreads/internal/database/social"
	http_controllers "github.com/badreads/badreads/internal/http"
	"github.com/badreads/badreads/internal/ratelimit"
)

// App holds the assembled server and the resources it owns.
type App struct {
	DB     *database.Database
	Router *gin.Engine
}

// Close releases the database.
func (a *App) Close() error {
	return a.DB.Close()
}

// Build opens the database and assembles every store behind the router.
func Build(cfg *config.Config, version string, log *zap.Logger) (*App, error) {
	db, err := database.NewDatabase(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	router, err := buildRouter(db, cfg, version, log)
	if err != nil {
		db.Close()
		return nil, err
	}
	return &App{DB: db, Router: router}, nil
}

func buildRouter(db *database.Database, cfg *config.Config, version string, log *zap.Logger) (*gin.Engine, error) {
	clock := time.Now

	sqlDB, err := db.DB.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get SQL DB for sessions: %w", err)
	}
	sessionManager, err := auth.NewSessionManager(sqlDB, cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize session manager: %w", err)
	}

	csrfSecret, err := resolveCSRFSecret(cfg.Auth.SessionSecret)
	if err != nil {
		return nil, err
	}
	if cfg.Auth.SessionSecret == "" {
		log.Warn("Generated session secret (set AUTH_SESSION_SECRET to persist)")
	}

	accountRepo := accounts.NewRepository(db.DB, clock)

	return http_controllers.NewRouter(http_controllers.RouterConfig{
		Database:       db,
		Logger:         log,
		Authenticator:  auth.NewService(accountRepo, cfg.Auth.BcryptCost, clock),
		Users:          accountRepo,
		SessionManager: sessionManager,
		LoginLimiter:   ratelimit.New(cfg.Auth.LoginRatePerMinute, cfg.Auth.LoginBurst),
		CSRFSecret:     csrfSecret,
		SecureCookies:  cfg.Auth.SecureCookies,
		Social:         social.NewRepository(db.DB, clock),
		Catalog:        catalog.NewRepository(db.DB),
		Collections:    collections.NewRepository(db.DB, clock),
		Reading: reading.NewRepository(db.DB, reading.Options{
			Clock: clock,
			Range: reading.DurationRange{
				Min: cfg.Reading.MinSessionDuration,
				Max: cfg.Reading.MaxSessionDuration,
			},
		}),
		Reports:          reports.NewRepository(db.DB, clock),
		RecentWindowDays: cfg.Reports.RecentWindowDays,
		NewReleasesLimit: cfg.Reports.NewReleasesLimit,
		TopBooksLimit:    cfg.Reports.TopBooksLimit,
		Version:          version,
	}), nil
}

// resolveCSRFSecret turns the configured secret into a 32-byte key. Hex is
// decoded, anything else is used raw. Empty generates a fresh key.
func resolveCSRFSecret(configured string) ([]byte, error) {
	if configured == "" {
		secret, err := auth.GenerateSessionSecret()
		if err != nil {
			return nil, fmt.Errorf("failed to generate CSRF secret: %w", err)
		}
		configured = secret
	}

	key, err := hex.DecodeString(configured)
	if err != nil {
		key = []byte(configured)
	}
	if len(key) != 32 {
		return nil, fmt.Errorf("session secret must be 32 bytes (64 hex characters), got %d bytes", len(key))
	}
	return key, nil
}

// Serve runs the server until ctx is cancelled or SIGINT/SIGTERM arrives,
// then shuts down within the configured timeout.
func Serve(ctx context.Context, handler http.Handler, cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	log.Info("Shutting down server", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info("Server exiting")
	return nil
}

// Run builds the application and serves it until interrupted.
func Run(ctx context.Context, cfg *config.Config, version string, log *zap.Logger) error {
	log.Info("Starting BadReads", zap.String("version", version))

	app, err := Build(cfg, version, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	return Serve(ctx, app.Router, cfg, log)
}
