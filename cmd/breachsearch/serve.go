package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/kitbuilder587/breachsearch/internal/config"
	"github.com/kitbuilder587/breachsearch/internal/metrics"
	"github.com/kitbuilder587/breachsearch/internal/repository/postgres"
	"github.com/kitbuilder587/breachsearch/internal/search/httpapi"
	"github.com/kitbuilder587/breachsearch/internal/service"
	"github.com/kitbuilder587/breachsearch/internal/session"
	"github.com/kitbuilder587/breachsearch/internal/web"
)

const shutdownTimeout = 10 * time.Second

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the search page and metrics servers",
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			return serve(ctx, cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.Config) error {
	logger, err := config.NewLogger(cfg.Log)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.New(ctx, cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer db.Close()

	sessions, closeSessions, err := openSessions(ctx, cfg.Session, logger)
	if err != nil {
		return err
	}
	defer closeSessions()

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	repo := postgres.NewProfileRepo(db)
	server := web.New(ctx, web.Deps{
		Accounts: service.NewAccountService(repo, cfg.Credits.FreeSearches, logger),
		Credits:  repo,
		Sessions: sessions,
		Search: httpapi.New(httpapi.Config{
			BaseURL: cfg.Search.BaseURL,
			Timeout: cfg.Search.Timeout,
		}, logger),
		Pinger:  db,
		Logger:  logger,
		Metrics: m,
		Config: web.Config{
			AuthPath:          cfg.Auth.Path,
			RedirectDelay:     cfg.Auth.RedirectDelay,
			SessionTTL:        cfg.Session.TTL,
			RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		},
	})
	defer server.Close()

	servers := []*http.Server{{
		Addr:              cfg.HTTP.Addr,
		Handler:           server,
		ReadHeaderTimeout: 10 * time.Second,
	}}
	if cfg.HTTP.MetricsAddr != "" {
		servers = append(servers, &http.Server{
			Addr:              cfg.HTTP.MetricsAddr,
			Handler:           metrics.Handler(reg),
			ReadHeaderTimeout: 10 * time.Second,
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, srv := range servers {
		g.Go(func() error {
			logger.Info("listening", zap.String("addr", srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return fmt.Errorf("listen %s: %w", srv.Addr, err)
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		var errs []error
		for _, srv := range servers {
			if err := srv.Shutdown(shutdownCtx); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

// openSessions - redis, если задан REDIS_URL, иначе сессии в памяти процесса
func openSessions(ctx context.Context, cfg config.SessionConfig, logger *zap.Logger) (session.Store, func(), error) {
	if cfg.RedisURL == "" {
		logger.Info("using in-memory sessions")
		store := session.NewMemoryStore(cfg.TTL)
		return store, store.Close, nil
	}

	store, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.TTL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	logger.Info("using redis sessions")
	return store, func() {
		if err := store.Close(); err != nil {
			logger.Warn("failed to close redis", zap.Error(err))
		}
	}, nil
}
