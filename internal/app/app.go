package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"

	"github.com/heartmarshall/swapmatch-backend/internal/adapter/postgres"
	"github.com/heartmarshall/swapmatch-backend/internal/auth"
	"github.com/heartmarshall/swapmatch-backend/internal/config"
	"github.com/heartmarshall/swapmatch-backend/internal/transport/dataloader"
	"github.com/heartmarshall/swapmatch-backend/internal/transport/middleware"
	"github.com/heartmarshall/swapmatch-backend/internal/transport/rest"
)

// Run starts the HTTP API and, when enabled, the discovery scheduler. It
// returns after ctx is cancelled and both have shut down.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)
	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.Bool("scheduler", cfg.Scheduler.Enabled),
		slog.Bool("events", cfg.Events.Enabled),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	svcs := NewServices(cfg, pool, logger)

	var scheduler *Scheduler
	if cfg.Scheduler.Enabled {
		scheduler = NewScheduler(svcs.Opportunity, cfg.Scheduler, logger)
	}

	limiter := middleware.NewRateLimiter(cfg.RateLimit.CleanupInterval)
	defer limiter.Stop()

	handler := newHandler(cfg, pool, svcs, scheduler, limiter, logger)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})

	if scheduler != nil {
		g.Go(func() error {
			return scheduler.Run(gctx)
		})
	}

	return g.Wait()
}

// newHandler mounts the REST API over svcs.
func newHandler(cfg *config.Config, pool *pgxpool.Pool, svcs *Services, scheduler *Scheduler, limiter *middleware.RateLimiter, logger *slog.Logger) http.Handler {
	return NewRouter(
		Handlers{
			Health:      newHealthHandler(pool, scheduler, cfg.Scheduler),
			Swipe:       rest.NewSwipeHandler(svcs.Swipe, logger),
			Opportunity: rest.NewOpportunityHandler(svcs.Opportunity, logger),
			Admin:       rest.NewAdminHandler(svcs.Opportunity, cfg.Scheduler.RunTimeout, logger),
			Profile:     rest.NewProfileHandler(svcs.Profile, logger),
		},
		RouterDeps{
			Logger:    logger,
			CORS:      cfg.CORS,
			RateLimit: cfg.RateLimit,
			Tokens:    auth.NewJWTManager(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer, cfg.Auth.AccessTokenTTL),
			Limiter:   limiter,
			Loaders:   &dataloader.Repos{Profile: svcs.Users, Item: svcs.Items},
		},
	)
}

// newHealthHandler keeps a nil scheduler out of the runTracker interface.
func newHealthHandler(pool *pgxpool.Pool, scheduler *Scheduler, cfg config.SchedulerConfig) *rest.HealthHandler {
	if scheduler == nil {
		return rest.NewHealthHandler(pool, nil, 0, Version)
	}
	return rest.NewHealthHandler(pool, scheduler, 3*cfg.Interval+cfg.RunTimeout, Version)
}
