package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mendel-gtm/gtm-api/internal/build"
	"github.com/mendel-gtm/gtm-api/internal/cache"
	"github.com/mendel-gtm/gtm-api/internal/config"
	"github.com/mendel-gtm/gtm-api/internal/db"
	"github.com/mendel-gtm/gtm-api/internal/fallback"
	"github.com/mendel-gtm/gtm-api/internal/generate"
	"github.com/mendel-gtm/gtm-api/internal/gtmctx"
	"github.com/mendel-gtm/gtm-api/internal/handler"
	"github.com/mendel-gtm/gtm-api/internal/llm"
	"github.com/mendel-gtm/gtm-api/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			var database *sqlx.DB
			if cfg.RemoteEnabled() {
				database, err = openStore(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()

				version, err := db.Migrate(database, cfg.DB.Driver)
				if err != nil {
					return err
				}
				logger.Info("schema ready", zap.Int64("version", version))
			}

			svc, contexts, err := buildService(cfg, database, logger)
			if err != nil {
				return err
			}

			router := handler.NewRouter(handler.Deps{
				Contexts:  contexts,
				Generator: svc,
				Log:       logger,
			})

			mode := "fallback"
			if contexts.RemoteConfigured() {
				mode = "remote:" + cfg.DB.Driver
			}
			logger.Info("listening",
				zap.String("addr", cfg.HTTP.Addr),
				zap.String("release", build.Summary()),
				zap.String("context_source", mode),
				zap.Bool("generation", svc.Enabled()),
			)
			return listen(cmd.Context(), cfg.HTTP.Addr, router, logger)
		},
	}
}

// openStore opens the remote context store with the configured pool.
func openStore(cfg *config.Config) (*sqlx.DB, error) {
	return db.New(cfg.DB.Driver, cfg.DB.DSN, db.Pool{
		MaxOpenConns:    cfg.DB.MaxOpenConns,
		MaxIdleConns:    cfg.DB.MaxOpenConns / 2,
		ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
	})
}

// buildService wires the context provider and generation service. A nil
// database leaves the provider on bundled data only.
func buildService(cfg *config.Config, database *sqlx.DB, logger *zap.Logger) (*generate.Service, *gtmctx.Provider, error) {
	data, err := fallback.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load bundled context: %w", err)
	}

	var (
		tenants  gtmctx.TenantStore
		contexts gtmctx.ContextStore
	)
	if database != nil {
		tenants = store.NewTenantStore(database)
		contexts = store.NewContextStore(database)
	}

	provider := gtmctx.NewProvider(tenants, contexts, data, cache.New(cfg.CacheTTL, nil), gtmctx.Options{
		DefaultTenant:      cfg.Defaults.Tenant,
		DefaultCountry:     cfg.Defaults.Country,
		TaxRecoveryCountry: cfg.TaxRecoveryCountry,
	}, logger.Named("context"))

	gen, err := llm.New(cfg)
	if err != nil {
		return nil, nil, err
	}
	if gen == nil {
		logger.Warn("no generation provider configured; only dry runs will succeed")
	}

	svc := generate.NewService(provider, gen, generate.Options{
		MaxTokens:       cfg.MaxTokens,
		DefaultLanguage: cfg.Defaults.Language,
	}, logger)
	return svc, provider, nil
}

// listen serves until SIGINT or SIGTERM, then shuts down gracefully.
func listen(ctx context.Context, addr string, h http.Handler, logger *zap.Logger) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}
