// Package server wires configuration, storage, services and transports
// into the runnable learnjournal server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/assistant/upstream"
	"github.com/dmitrijs2005/learnjournal/internal/logging"
	"github.com/dmitrijs2005/learnjournal/internal/server/config"
	gs "github.com/dmitrijs2005/learnjournal/internal/server/grpc"
	"github.com/dmitrijs2005/learnjournal/internal/server/httpserver"
	"github.com/dmitrijs2005/learnjournal/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/learnjournal/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	http        *httpserver.Server
	health      *gs.HealthServer
	users       *services.UserService
	reminders   *services.ReminderService
}

// newProvider builds the upstream model client selected by cfg.Provider.
func newProvider(ctx context.Context, cfg *config.Config) (assistant.Provider, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		return upstream.NewGemini(ctx, cfg.GeminiAPIKey, cfg.Model)
	case config.ProviderGateway:
		return upstream.NewGateway(cfg.GatewayURL, cfg.GatewayAPIKey, cfg.Model, &http.Client{}), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger, err := logging.New(cfg.LogBackend, cfg.LogLevel, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("assistant provider error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	users := services.NewUserService(db, rm, cfg)
	entries := services.NewEntryService(db, rm, cfg)
	reminders := services.NewReminderService(db, rm, services.NewLogNotifier(logger.With("module", "reminders")), logger, cfg)

	svc := httpserver.Services{
		Users:         users,
		Entries:       entries,
		Topics:        services.NewTopicService(db, rm),
		Tags:          services.NewTagService(db, rm),
		Streak:        services.NewStreakService(db, rm, cfg),
		Favorites:     services.NewFavoriteService(db, rm),
		Subscriptions: services.NewSubscriptionService(db, rm),
		Reminders:     reminders,
		Export:        services.NewExportService(entries, cfg),
		Assistant:     services.NewAssistantService(provider, cfg.UpstreamTimeout, logger.With("module", "assistant")),
	}

	app := &App{
		config:      cfg,
		logger:      logger,
		db:          db,
		repomanager: rm,
		http:        httpserver.New(cfg.HTTPAddr, logger, cfg.SecretKey, svc),
		users:       users,
		reminders:   reminders,
	}
	if cfg.GRPCHealthAddr != "" {
		app.health = gs.NewHealthServer(cfg.GRPCHealthAddr, logger)
	}
	return app, nil
}

// Run migrates the schema and serves until ctx is cancelled or a
// termination signal arrives.
func (app *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations error: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return app.http.Run(ctx) })
	if app.health != nil {
		g.Go(func() error { return app.health.Run(ctx) })
	}
	if app.config.ReminderInterval > 0 {
		g.Go(func() error { return app.runHousekeeping(ctx, app.config.ReminderInterval) })
	}
	return g.Wait()
}

// runHousekeeping sends streak reminders and drops expired refresh tokens
// on every tick.
func (app *App) runHousekeeping(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			if res, err := app.reminders.Check(ctx); err != nil {
				app.logger.Error(ctx, "reminder check failed", "error", err)
			} else {
				app.logger.Info(ctx, "reminder check done", "notified_users", res.NotifiedUsers)
			}
			if n, err := app.users.PurgeExpiredTokens(ctx, now); err != nil {
				app.logger.Error(ctx, "refresh token purge failed", "error", err)
			} else if n > 0 {
				app.logger.Info(ctx, "expired refresh tokens purged", "count", n)
			}
		}
	}
}
