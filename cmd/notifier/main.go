package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-library-records/config"
	"github.com/oksasatya/go-library-records/internal/bootstrap"
	"github.com/oksasatya/go-library-records/internal/notifier"
	"github.com/oksasatya/go-library-records/pkg/helpers"
	"github.com/oksasatya/go-library-records/pkg/mailer"
)

const prefetch = 16

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-notifier", cfg.Env)
	if !cfg.MailSendEnabled {
		logger.Info("MAIL_SEND_ENABLED=false; notifier disabled")
		return
	}
	if cfg.RabbitMQURL == "" || cfg.RabbitMQLoanQueue == "" {
		logger.Fatal("RabbitMQ not configured")
	}
	if cfg.MailgunDomain == "" || cfg.MailgunAPIKey == "" || cfg.MailgunSender == "" {
		logger.Fatal("Mailgun not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := bootstrap.OpenStore(ctx, cfg, logger)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer closeStore()

	consumer, err := helpers.NewRabbitConsumer(cfg.RabbitMQURL, cfg.RabbitMQLoanQueue, prefetch)
	if err != nil {
		logger.Fatalf("amqp consumer: %v", err)
	}
	defer consumer.Close()

	deliveries, err := consumer.Deliveries()
	if err != nil {
		logger.Fatalf("consume: %v", err)
	}

	mg := mailer.NewMailgun(cfg.MailgunDomain, cfg.MailgunAPIKey, cfg.MailgunSender)
	h := notifier.NewHandler(store, mg, cfg.LibraryName, logger)

	logger.Infof("notifier listening on queue=%s", cfg.RabbitMQLoanQueue)
	if err := h.Run(ctx, deliveries); err != nil && !errors.Is(err, context.Canceled) {
		logger.WithError(err).Error("notifier stopped")
		return
	}
	logger.Info("notifier exited properly")
}
