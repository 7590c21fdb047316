package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airticket/config"
	"github.com/Domenick1991/airticket/internal/email"
	"github.com/Domenick1991/airticket/internal/kafka"
	"github.com/Domenick1991/airticket/internal/logger"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// The worker turns ticket notifications into customer emails.
func main() {
	cfgPath := pflag.StringP("config", "c", "", "path to the YAML config (default $CONFIG_PATH or config.yaml)")
	pflag.Parse()

	_ = godotenv.Load()

	cfg, err := config.LoadConfig(config.ResolvePath(*cfgPath))
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log).WithField("component", "notifier")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.NotificationsTopic, log)
	defer consumer.Close()

	sender := email.NewSender(log)

	log.WithField("topic", cfg.Kafka.NotificationsTopic).Info("worker started")
	if err := consumer.Consume(ctx, kafka.TicketEventHandler(log, sender.Send)); err != nil && ctx.Err() == nil {
		log.Fatalf("consumer stopped: %v", err)
	}
	log.Info("worker stopped")
}
