package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/stripe/stripe-go/v81"

	"github.com/dropDatabas3/paycode/internal/codes"
	"github.com/dropDatabas3/paycode/internal/config"
	"github.com/dropDatabas3/paycode/internal/delivery"
	"github.com/dropDatabas3/paycode/internal/email"
	httpserver "github.com/dropDatabas3/paycode/internal/http"
	"github.com/dropDatabas3/paycode/internal/http/handlers"
	"github.com/dropDatabas3/paycode/internal/observability/logger"
	"github.com/dropDatabas3/paycode/internal/payments"
)

// codesBackend: ambos backends implementan Store y Lister.
type codesBackend interface {
	codes.Store
	codes.Lister
}

func main() {
	// Load .env file if it exists (local dev; en prod todo viene del entorno)
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file loaded: %v", err)
	}

	cfgPath := flag.String("config", getenv("CONFIG_PATH", "config.yaml"), "path to config.yaml (optional)")
	flag.Parse()

	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger.Init(logger.Config{
		Env:         cfg.App.Env,
		Level:       cfg.App.LogLevel,
		ServiceName: "paycode",
	})
	defer func() { _ = logger.Sync() }()

	if err := cfg.Validate(); err != nil {
		logger.L().Fatal("invalid configuration", logger.Err(err))
	}

	// El SDK de Stripe toma la key global; el webhook en sí no llama a Stripe.
	stripe.Key = cfg.Stripe.APIKey

	store := buildStore(cfg)
	sender := buildSender(cfg)
	verifier := payments.NewStripeVerifier(cfg.Stripe.WebhookSecret)
	svc := delivery.NewService(store, sender)

	metricsHandler, err := httpserver.RegisterMetrics(nil)
	if err != nil {
		logger.L().Fatal("metrics registration failed", logger.Err(err))
	}

	router := httpserver.NewRouter(
		handlers.NewRootHandler(),
		&handlers.WebhookHandler{Verifier: verifier, Delivery: svc},
		handlers.NewReadyzHandler(store),
		metricsHandler,
	)

	srv := httpserver.NewServer(cfg.Server.Addr, router)

	go func() {
		logger.L().Info("paycode listening",
			logger.String("addr", cfg.Server.Addr),
			logger.Backend(cfg.Codes.Backend),
			logger.Provider(cfg.Email.Provider),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.L().Fatal("server failed", logger.Err(err))
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.L().Info("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.L().Error("shutdown error", logger.Err(err))
	}
}

func buildStore(cfg *config.Config) codesBackend {
	switch cfg.Codes.Backend {
	case "sheetdb":
		return codes.NewSheetStore(cfg.Codes.BaseURL, cfg.Codes.Timeout)
	default:
		return codes.NewRESTStore(cfg.Codes.BaseURL, cfg.Codes.Timeout)
	}
}

func buildSender(cfg *config.Config) email.Sender {
	switch cfg.Email.Provider {
	case "sendgrid":
		return email.NewSendGrid(cfg.Email.SendGrid.APIKey, cfg.Email.From)
	case "smtp":
		s := email.NewSMTPSender(
			cfg.Email.SMTP.Host,
			cfg.Email.SMTP.Port,
			cfg.Email.From,
			cfg.Email.SMTP.Username,
			cfg.Email.SMTP.Password,
		)
		if cfg.Email.SMTP.TLS != "" {
			s.TLSMode = cfg.Email.SMTP.TLS
		}
		return s
	default:
		return email.NewPostmark(cfg.Email.Postmark.ServerToken, cfg.Email.From)
	}
}

func getenv(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
