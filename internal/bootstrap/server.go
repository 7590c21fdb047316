package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/Domenick1991/airticket/api"
	"github.com/Domenick1991/airticket/config"
	"github.com/Domenick1991/airticket/internal/api/flights_service_api"
	"github.com/Domenick1991/airticket/internal/api/grpcutil"
	"github.com/Domenick1991/airticket/internal/api/tickets_service_api"
	"github.com/Domenick1991/airticket/internal/service/flights"
	"github.com/Domenick1991/airticket/internal/service/passenger"
	"github.com/Domenick1991/airticket/internal/service/ticket"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	httpSwagger "github.com/swaggo/http-swagger"
	"google.golang.org/grpc"
)

const swaggerSpec = "/swagger/tickets.swagger.json"

// Services are the use cases exposed over both transports.
type Services struct {
	Flights    flights.FlightUseCase
	Tickets    ticket.TicketUseCase
	Passengers passenger.PassengerUseCase
	// Idempotency may be nil to disable Idempotency-Key handling.
	Idempotency api.IdempotencyStore
}

type Servers struct {
	grpcServer *grpc.Server
	httpServer *http.Server
}

// Run starts the gRPC and HTTP servers and blocks until ctx is cancelled or
// a server fails.
func Run(ctx context.Context, cfg *config.Config, svc Services, log logrus.FieldLogger) error {
	s := newServers(cfg, svc, log)

	errCh := make(chan error, 2)

	lis, err := net.Listen("tcp", cfg.GRPC.Address)
	if err != nil {
		return fmt.Errorf("listen gRPC %s: %w", cfg.GRPC.Address, err)
	}
	go func() { errCh <- s.grpcServer.Serve(lis) }()

	go func() {
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	log.WithFields(logrus.Fields{
		"http": cfg.HTTP.Address,
		"grpc": cfg.GRPC.Address,
	}).Info("servers started")

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down servers")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.grpcServer.GracefulStop()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}

func newServers(cfg *config.Config, svc Services, log logrus.FieldLogger) *Servers {
	grpcSrv := grpc.NewServer(grpc.UnaryInterceptor(grpcutil.UnaryErrorInterceptor(log)))
	flights_service_api.Register(grpcSrv, flights_service_api.NewServer(svc.Flights))
	tickets_service_api.Register(grpcSrv, tickets_service_api.NewServer(svc.Tickets, svc.Passengers, cfg.Auth.JWTSecret))

	return &Servers{
		grpcServer: grpcSrv,
		httpServer: &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           newHTTPHandler(cfg, svc, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

func newHTTPHandler(cfg *config.Config, svc Services, log logrus.FieldLogger) http.Handler {
	router := api.NewRouter(api.RouterConfig{
		Tickets:        svc.Tickets,
		Passengers:     svc.Passengers,
		Flights:        svc.Flights,
		Idempotency:    svc.Idempotency,
		IdempotencyTTL: cfg.Ticket.IdempotencyDuration(),
		JWTSecret:      cfg.Auth.JWTSecret,
		CORSOrigins:    cfg.HTTP.CORSOrigins,
		Log:            log,
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	if cfg.HTTP.SwaggerDir != "" {
		router.Static("/swagger", cfg.HTTP.SwaggerDir)
		router.GET("/docs/*any", gin.WrapH(httpSwagger.Handler(httpSwagger.URL(swaggerSpec))))
	}
	return router
}
