// File: cmd/app/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"merchant-payment-gateway/internal/config"
	"merchant-payment-gateway/internal/domain/model"
	"merchant-payment-gateway/internal/domain/ports/adapter"
	"merchant-payment-gateway/internal/domain/ports/repository"
	payAdapters "merchant-payment-gateway/internal/infra/adapters/payment"
	pg "merchant-payment-gateway/internal/infra/db/postgres"
	"merchant-payment-gateway/internal/infra/logging"
	"merchant-payment-gateway/internal/infra/metrics"
	red "merchant-payment-gateway/internal/infra/redis"
	"merchant-payment-gateway/internal/infra/store/memory"
	"merchant-payment-gateway/internal/infra/web"
	"merchant-payment-gateway/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "console logging and verbose output")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, *devMode)
	metrics.MustRegister()

	// ---- Storage ----
	var store repository.SubscriptionStore
	var ledger repository.IdempotencyLedger
	switch cfg.Storage.Backend {
	case "redis":
		client, err := red.NewClient(ctx, &cfg.Storage.Redis)
		if err != nil {
			log.Fatalf("redis: %v", err)
		}
		defer client.Close()
		l := red.NewLedger(client)
		store, ledger = l, l
	case "postgres":
		pool, err := pg.NewPgxPool(ctx, cfg.Storage.Database.URL, 10)
		if err != nil {
			log.Fatalf("postgres: %v", err)
		}
		defer pool.Close()
		s := pg.NewSubscriptionStore(pool)
		store, ledger = s, s
	default:
		m := memory.New()
		store, ledger = m, m
	}
	logger.Info().Str("backend", cfg.Storage.Backend).Msg("subscription storage ready")

	// ---- Payment gateways ----
	var gws []adapter.PaymentGateway
	if cfg.Payment.Razorpay.KeyID != "" {
		rzp, err := payAdapters.NewRazorpayGateway(
			cfg.Payment.Razorpay.KeyID,
			cfg.Payment.Razorpay.KeySecret,
			cfg.Payment.Razorpay.WebhookSecret,
		)
		if err != nil {
			log.Fatalf("razorpay gateway: %v", err)
		}
		gws = append(gws, rzp)
	}
	if cfg.Payment.PineLabs.MerchantID != "" {
		pl, err := payAdapters.NewPineLabsGateway(
			cfg.Payment.PineLabs.MerchantID,
			cfg.Payment.PineLabs.Secret,
			cfg.Payment.PineLabs.WebhookSecret,
			cfg.Payment.PineLabs.BaseURL,
		)
		if err != nil {
			log.Fatalf("pinelabs gateway: %v", err)
		}
		gws = append(gws, pl)
	}
	defProvider, ok := model.ParseProvider(cfg.Payment.Provider)
	if !ok {
		log.Fatalf("payment: unknown provider %q", cfg.Payment.Provider)
	}
	registry, err := payAdapters.NewRegistry(defProvider, gws...)
	if err != nil {
		log.Fatalf("payment: %v", err)
	}

	// ---- Use cases ----
	planUC, err := usecase.NewPlanUseCase(cfg.Plans, cfg.Payment.Currency)
	if err != nil {
		log.Fatalf("plans: %v", err)
	}
	subUC := usecase.NewSubscriptionUseCase(store, ledger, logger)
	payUC := usecase.NewPaymentUseCase(registry, planUC, subUC, ledger, cfg.Payment.Currency, logger)

	// ---- HTTP server ----
	srv := web.NewServer(payUC, planUC, registry, cfg.Server.AllowedOrigins, logger)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info().
			Str("addr", server.Addr).
			Str("provider", string(defProvider)).
			Msg("payment gateway listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server stopped")
			cancel()
		}
	}()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sigc:
		logger.Info().Msg("shutdown requested")
	case <-ctx.Done():
	}
	shutCtx, shutCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutCancel()
	if err := server.Shutdown(shutCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown")
	}
}
