package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/portalcliente/portal-api/internal/api"
	"github.com/portalcliente/portal-api/internal/core/service"
	"github.com/portalcliente/portal-api/internal/infrastructure/config"
	"github.com/portalcliente/portal-api/internal/infrastructure/db/redis"
	"github.com/portalcliente/portal-api/internal/infrastructure/http/handlers"
	"github.com/portalcliente/portal-api/internal/infrastructure/notify"
	"github.com/portalcliente/portal-api/internal/infrastructure/queue"
	"github.com/portalcliente/portal-api/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	var skipPrepare bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context())
			if err != nil {
				return err
			}
			return serve(cmd.Context(), cfg, !skipPrepare, logger.Get())
		},
	}
	cmd.Flags().BoolVar(&skipPrepare, "skip-migrate", false, "do not apply migrations or create indexes on startup")
	return cmd
}

// serve runs the API until ctx is cancelled, then shuts the server down,
// drains pending notifications and closes the stores.
func serve(ctx context.Context, cfg *config.Config, prepare bool, log zerolog.Logger) error {
	st, err := openStore(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer st.close(context.Background())

	if prepare {
		if err := st.prepare(ctx); err != nil {
			return err
		}
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
	if err != nil {
		return err
	}
	defer rdb.Close()

	notifier := notify.New(cfg.Notify.WebhookURL, logger.Component("notify"))
	dispatcher := queue.NewDispatcher(cfg.Notify.Workers, notifier, logger.Component("dispatcher"))
	sessions := redis.NewSessionStore(rdb)

	requests := service.NewRequestService(st.requests, st.users, st.audit, dispatcher, logger.Component("requests"))
	auth := service.NewAuthService(st.users, sessions, dispatcher, service.AuthConfig{
		JWTSecret:     cfg.Auth.JWTSecret,
		TokenTTL:      cfg.Auth.TokenTTL,
		ResetTokenTTL: cfg.Auth.ResetTokenTTL,
	}, logger.Component("auth"))

	e := api.NewRouter(api.Deps{
		Auth:        auth,
		Requests:    requests,
		Revocations: sessions,
		Locker:      redis.NewInFlightGuard(rdb, cfg.Guard.InFlightTTL),
		Readiness: map[string]handlers.Pinger{
			st.name: st.pinger,
			"redis": handlers.PingFunc(func(ctx context.Context) error { return rdb.Ping(ctx).Err() }),
		},
		JWTSecret:      cfg.Auth.JWTSecret,
		RateLimitRPS:   cfg.Guard.RateLimitRPS,
		RateLimitBurst: cfg.Guard.RateLimitBurst,
		Log:            logger.Component("http"),
	})

	// Workers outlive the request context so Stop can drain them.
	dispatcher.Start(context.Background())
	defer dispatcher.Stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.Port).Str("store", st.name).Msg("http server listening")
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return e.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
