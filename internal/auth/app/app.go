package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpapi "github.com/aussiebroadwan/hubsite/internal/auth/http"
	"github.com/aussiebroadwan/hubsite/internal/auth/service"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite"
	"github.com/aussiebroadwan/hubsite/pkg/httpx"
	"github.com/aussiebroadwan/hubsite/pkg/jwtx"
	"github.com/aussiebroadwan/hubsite/pkg/metricsx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// BuildVersion should be set at build time via ldflags.
	BuildVersion = "v0.1.0"
)

// Application encapsulates the auth service with all its dependencies.
type Application struct {
	cfg     Config
	logger  *slog.Logger
	metrics *metricsx.Metrics

	// Core dependencies
	db    store.Store
	codec *jwtx.Codec

	// Services
	sessionService      *service.SessionService
	resetService        *service.PasswordResetService
	adminService        *service.AdminService
	hubService          *service.HubService
	mfaService          *service.MFAService
	housekeepingService *service.HousekeepingService

	// HTTP server
	server *http.Server
	router *httpapi.Router
}

// New creates a new Application with all dependencies initialized.
func New(cfg Config) (*Application, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	app := &Application{
		cfg: cfg,
		logger: slogx.New(slogx.Config{
			Service: "auth-service",
			Version: BuildVersion,
			Env:     cfg.Env,
			Level:   cfg.LogLevel,
			Format:  cfg.LogFormat,
		}),
	}

	codec, err := jwtx.NewCodec(cfg.SigningSecret,
		jwtx.WithIssuer(cfg.Issuer),
		jwtx.WithAudience(cfg.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize token codec: %w", err)
	}
	app.codec = codec

	app.metrics = metricsx.New(prometheus.NewRegistry())

	if err := app.initDatabase(); err != nil {
		return nil, err
	}

	if cfg.SuperAdminKey == "" {
		app.logger.Warn("AUTH_SUPERADMIN_KEY not set, superadmin bootstrap is disabled")
	}

	httpx.LoadRateLimitsFromEnv()

	app.initServices()
	app.initHTTP()

	return app, nil
}

// Run starts the application and blocks until shutdown is requested.
func (app *Application) Run() error {
	if err := app.housekeepingService.Start(); err != nil {
		return err
	}

	app.logger.Info("auth service starting", "port", app.cfg.Port, "version", BuildVersion)

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- app.server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig)

		if err := app.Shutdown(); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
	}

	return nil
}

// Shutdown gracefully shuts down the application.
func (app *Application) Shutdown() error {
	app.logger.Info("shutting down auth service...")

	ctx, cancel := context.WithTimeout(context.Background(), app.cfg.ShutdownGracePeriod)
	defer cancel()

	if err := app.server.Shutdown(ctx); err != nil {
		app.logger.Error("graceful server shutdown failed", "error", err)
		if err := app.server.Close(); err != nil {
			app.logger.Error("error closing server", "error", err)
		}
	}

	app.housekeepingService.Stop(ctx)

	if err := app.db.Close(); err != nil {
		app.logger.Error("error closing database", "error", err)
		return err
	}

	app.logger.Info("auth service stopped")
	return nil
}

func (app *Application) initDatabase() error {
	db, err := sqlite.NewStore("file:" + app.cfg.DatabaseFile)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	app.db = db

	if err := db.ApplyMigrations(); err != nil {
		_ = db.Close()
		return fmt.Errorf("failed to apply database migrations: %w", err)
	}

	app.logger.Info("database migrations applied successfully")
	return nil
}

func (app *Application) initServices() {
	resolver := &service.Resolver{
		Store:          app.db,
		Codec:          app.codec,
		Metrics:        app.metrics,
		RequireSession: true,
	}
	notifier := app.newNotifier()

	app.sessionService = &service.SessionService{
		Store: app.db,
		Codec: app.codec,
		Guard: &service.AccountGuard{
			MaxAttempts:  app.cfg.LockoutThreshold,
			LockDuration: app.cfg.LockoutDuration,
			Metrics:      app.metrics,
		},
		AccessTTL:  app.cfg.AccessTTL,
		RefreshTTL: app.cfg.RefreshTTL,
		Metrics:    app.metrics,
	}
	app.resetService = &service.PasswordResetService{
		Store:    app.db,
		Notifier: notifier,
		TokenTTL: app.cfg.ResetTTL,
		Metrics:  app.metrics,
		ResetURL: app.cfg.ResetURL,
	}
	app.adminService = &service.AdminService{
		Store:         app.db,
		Resolver:      resolver,
		Notifier:      notifier,
		SuperAdminKey: app.cfg.SuperAdminKey,
	}
	app.hubService = &service.HubService{Store: app.db, Resolver: resolver}
	app.mfaService = &service.MFAService{Store: app.db, Issuer: app.cfg.TOTPIssuer}

	app.housekeepingService = service.NewHousekeepingService(app.db, app.logger, app.cfg.CleanupSchedule)
	app.housekeepingService.Metrics = app.metrics
}

// newNotifier picks the webhook when one is configured. Without it, reset
// tokens can only be read from the log, which is allowed in dev alone.
func (app *Application) newNotifier() service.Notifier {
	if app.cfg.NotifyWebhookURL != "" {
		app.logger.Info("notifications delivered by webhook", "url", app.cfg.NotifyWebhookURL)
		return &service.WebhookNotifier{
			URL:   app.cfg.NotifyWebhookURL,
			Token: app.cfg.NotifyWebhookToken,
		}
	}

	if app.cfg.Env == "dev" {
		app.logger.Warn("AUTH_NOTIFY_WEBHOOK_URL not set, notifications including reset tokens are written to the log")
		return service.LogNotifier{Reveal: true}
	}
	app.logger.Warn("AUTH_NOTIFY_WEBHOOK_URL not set, password reset emails will not be delivered")
	return service.LogNotifier{}
}

func (app *Application) initHTTP() {
	router := httpapi.NewRouter(app.codec, BuildVersion, app.db, app.metrics, app.logger)

	router.SessionService = app.sessionService
	router.ResetService = app.resetService
	router.AdminService = app.adminService
	router.HubService = app.hubService
	router.MFAService = app.mfaService
	router.ApplyRoutes()

	app.router = router

	app.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 3 * time.Second,
	}
}
