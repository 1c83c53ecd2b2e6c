package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/redeemkit/redeemkit/modules/orderconfirm"
	"github.com/redeemkit/redeemkit/modules/pickup"
	"github.com/redeemkit/redeemkit/pkg/config"
	"github.com/redeemkit/redeemkit/pkg/email"
	"github.com/redeemkit/redeemkit/pkg/httpserver"
	"github.com/redeemkit/redeemkit/pkg/logger"
	"github.com/redeemkit/redeemkit/pkg/pg"
	"github.com/redeemkit/redeemkit/pkg/ratelimiter"
	"github.com/redeemkit/redeemkit/pkg/redemption"
	"github.com/redeemkit/redeemkit/pkg/redis"
)

const (
	orderTokensTable  = "order_confirmation_tokens"
	pickupTokensTable = "pickup_tokens"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var logCfg logger.Config
	config.MustLoad(&logCfg)
	log := logger.New(logCfg, logger.WithAttrs(slog.String("app", "redeemd")))

	if err := run(ctx, log); err != nil {
		log.ErrorContext(ctx, "redeemd exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, log *slog.Logger) error {
	var pgCfg pg.Config
	config.MustLoad(&pgCfg)
	pool, err := pg.Connect(ctx, pgCfg)
	if err != nil {
		return fmt.Errorf("connect postgres: %w", err)
	}
	defer pool.Close()

	if err := pg.Migrate(ctx, pool, pgCfg, logger.Component(log, "migrate")); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)
	rdb, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer rdb.Close()

	var rlCfg ratelimiter.Config
	config.MustLoad(&rlCfg)
	limiter, err := ratelimiter.New(ratelimiter.NewRedisStore(rdb, "redeemd"), rlCfg)
	if err != nil {
		return fmt.Errorf("build rate limiter: %w", err)
	}
	scanLimit := ratelimiter.Middleware(limiter, ratelimiter.ClientIPKey, logger.Component(log, "ratelimiter"))

	var emailCfg email.Config
	config.MustLoad(&emailCfg)
	sender, err := newSender(emailCfg, log)
	if err != nil {
		return fmt.Errorf("build email sender: %w", err)
	}

	var dirCfg directoryConfig
	config.MustLoad(&dirCfg)
	orders := newOrderDirectory(pool, dirCfg.OrdersTable)
	pickings := newPickingDirectory(pool, dirCfg.PickingsTable)

	var orderCfg orderconfirm.Config
	config.MustLoad(&orderCfg)
	orderSvc := orderconfirm.NewService(
		orderCfg,
		redemption.NewPostgresStore(pool, orderTokensTable),
		orders,
		sender,
		logger.Component(log, "orderconfirm"),
	)

	var pickupCfg pickup.Config
	config.MustLoad(&pickupCfg)
	pickupSvc := pickup.NewService(
		pickupCfg,
		redemption.NewPostgresStore(pool, pickupTokensTable),
		pickings,
		pickings.IsStorePickup,
		sender,
		logger.Component(log, "pickup"),
	)

	r := chi.NewRouter()
	r.Use(chimw.RealIP, chimw.Recoverer)
	r.Get("/health", healthHandler(pg.Healthcheck(pool), redis.Healthcheck(rdb)))
	r.Mount("/confirmation", orderconfirm.Router(orderSvc, scanLimit))
	// Pickup mounts at the root so emailed verify URLs (/qr/verify/<token>)
	// resolve without a path prefix on PICKUP_QR_BASE_URL.
	r.Mount("/", pickup.Router(pickupSvc, scanLimit))

	var httpCfg httpserver.Config
	config.MustLoad(&httpCfg)
	log.InfoContext(ctx, "starting redeemd", "addr", httpCfg.Addr)
	return httpserver.Run(ctx, httpCfg, r, log)
}

func newSender(cfg email.Config, log *slog.Logger) (email.Sender, error) {
	if cfg.PostmarkServerToken == "" {
		log.Warn("POSTMARK_SERVER_TOKEN not set, QR emails will only be logged")
		return email.NewDevSender(logger.Component(log, "email")), nil
	}
	return email.NewPostmarkSender(cfg)
}

func healthHandler(probes ...func(context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		for _, probe := range probes {
			if err := probe(r.Context()); err != nil {
				http.Error(w, err.Error(), http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}
}
