package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/Domenick1991/airticket/config"
	"github.com/Domenick1991/airticket/internal/bootstrap"
	"github.com/Domenick1991/airticket/internal/cache"
	"github.com/Domenick1991/airticket/internal/kafka"
	"github.com/Domenick1991/airticket/internal/logger"
	"github.com/Domenick1991/airticket/internal/repository"
	"github.com/Domenick1991/airticket/internal/service/flights"
	"github.com/Domenick1991/airticket/internal/service/passenger"
	"github.com/Domenick1991/airticket/internal/service/ticket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

func main() {
	cfgPath := pflag.StringP("config", "c", "", "path to the YAML config (default $CONFIG_PATH or config.yaml)")
	migrate := pflag.Bool("migrate", true, "apply the database schema on startup")
	pflag.Parse()

	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.LoadConfig(config.ResolvePath(*cfgPath))
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	log := logger.New(cfg.Log)

	loc, err := cfg.Ticket.Location()
	if err != nil {
		log.Fatalf("ticket timezone: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := pgxpool.New(ctx, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("connect postgres: %v", err)
	}
	defer pool.Close()

	if *migrate {
		if err := repository.Migrate(ctx, pool); err != nil {
			log.Fatalf("migrate: %v", err)
		}
	}

	redisCache := cache.NewRedisCache(cfg.Redis, cfg.Ticket.FlightsCacheDuration())
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unavailable, flight cache and idempotency will degrade")
	}

	producer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer producer.Close()
	if err := producer.CheckConnection(ctx); err != nil {
		log.WithError(err).Warn("kafka unavailable, ticket events will be dropped with a warning")
	}
	emitter := kafka.NewEmitter(producer, cfg.Kafka.TicketEventsTopic, cfg.Kafka.NotificationsTopic)

	txManager := repository.NewTxManager(pool)
	ticketRepo := repository.NewTicketRepository(pool)
	passengerRepo := repository.NewPassengerRepository(pool)

	flightService := flights.NewFlightService(
		repository.NewFlightRepository(pool),
		redisCache,
		flights.WithLogger(log.WithField("component", "flights")),
	)
	ticketService := ticket.NewTicketService(
		ticketRepo,
		passengerRepo,
		flightService,
		repository.NewUserRepository(pool),
		txManager,
		ticket.WithEmitter(emitter),
		ticket.WithLogger(log.WithField("component", "tickets")),
		ticket.WithLocation(loc),
	)
	passengerService := passenger.NewPassengerService(
		passengerRepo,
		ticketRepo,
		txManager,
		passenger.WithEmitter(emitter),
		passenger.WithLogger(log.WithField("component", "passengers")),
		passenger.WithRevalidateOnUpdate(cfg.Ticket.RevalidatePassengersOnUpdate),
	)

	err = bootstrap.Run(ctx, cfg, bootstrap.Services{
		Flights:     flightService,
		Tickets:     ticketService,
		Passengers:  passengerService,
		Idempotency: redisCache,
	}, log)
	if err != nil {
		log.Fatalf("server error: %v", err)
	}
}
