package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/JaidenRM/recipe-shopper-api/internal/config"
	httpapi "github.com/JaidenRM/recipe-shopper-api/internal/http"
	"github.com/JaidenRM/recipe-shopper-api/internal/observability"
	"github.com/JaidenRM/recipe-shopper-api/internal/repo"
	"github.com/JaidenRM/recipe-shopper-api/internal/search"
)

const shutdownGrace = 15 * time.Second

// NewServeCommand creates the serve command.
func NewServeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, opts)
		},
	}
}

func runServe(ctx context.Context, opts *RootOptions) error {
	cfg, lg, err := bootstrap(opts)
	if err != nil {
		return err
	}

	shutdownOTel, err := observability.SetupOTel(ctx, cfg.OTEL, opts.Version)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownOTel(sctx); err != nil {
			lg.Warn().Err(err).Msg("otel shutdown")
		}
	}()

	db, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer closeDB(db)

	if n, err := repo.PurgeExpiredIdempotency(ctx, db, time.Now().UTC()); err != nil {
		lg.Warn().Err(err).Msg("purge expired idempotency keys")
	} else if n > 0 {
		lg.Info().Int64("purged", n).Msg("expired idempotency keys removed")
	}

	rdb, err := newRedis(ctx, cfg.RateLimit, lg)
	if err != nil {
		return err
	}
	deps := httpapi.Deps{
		DB: db,
		Providers: []search.Provider{
			search.NewWoolworths(
				search.WithBaseURL(cfg.Supermarket.WoolworthsBaseURL),
				search.WithTimeout(cfg.Supermarket.Timeout),
			),
		},
	}
	if rdb != nil {
		defer rdb.Close()
		deps.Redis = rdb
	}

	r := gin.New()
	httpapi.RegisterRoutes(r, deps, cfg)

	srv := newServer(cfg, r)
	errCh := make(chan error, 1)
	go func() {
		lg.Info().
			Str("addr", srv.Addr).
			Str("base_path", cfg.APIBasePath).
			Str("version", opts.Version).
			Msg("listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	lg.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}

func newServer(cfg config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           h,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
		MaxHeaderBytes:    cfg.MaxHeaderBytes,
	}
}

// newRedis returns nil when no Redis URL is configured. An unreachable
// server is logged, not fatal: the limiter fails open.
func newRedis(ctx context.Context, cfg config.RateLimitConfig, lg zerolog.Logger) (*redis.Client, error) {
	if cfg.RedisURL == "" {
		return nil, nil
	}
	ropts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("RATE_REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(ropts)

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		lg.Warn().Err(err).Str("addr", ropts.Addr).Msg("redis unreachable, rate limiting fails open")
	} else {
		lg.Info().Str("addr", ropts.Addr).Dur("window", cfg.Window).Msg("redis rate limiter enabled")
	}
	return rdb, nil
}
