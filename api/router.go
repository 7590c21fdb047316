package api

import (
	"net/http"
	"time"

	"github.com/Domenick1991/airticket/internal/service/flights"
	"github.com/Domenick1991/airticket/internal/service/passenger"
	"github.com/Domenick1991/airticket/internal/service/ticket"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RouterConfig struct {
	Tickets    ticket.TicketUseCase
	Passengers passenger.PassengerUseCase
	Flights    flights.FlightUseCase

	// Idempotency may be nil, then Idempotency-Key headers are ignored.
	Idempotency    IdempotencyStore
	IdempotencyTTL time.Duration

	JWTSecret   string
	CORSOrigins []string
	Log         logrus.FieldLogger
}

// NewRouter builds the REST API under /api/v1 plus /health.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), RequestID(), RequestLogger(cfg.Log), cors.New(corsConfig(cfg.CORSOrigins)))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	v1 := router.Group("/api/v1")
	if cfg.Idempotency != nil {
		v1.Use(Idempotency(cfg.Idempotency, cfg.IdempotencyTTL, cfg.Log))
	}

	tickets := NewTicketHandler(cfg.Tickets)
	passengers := NewPassengerHandler(cfg.Passengers)

	ticketGroup := v1.Group("/tickets")
	tickets.Register(ticketGroup, RequireUser(cfg.JWTSecret))
	passengers.RegisterTicketRoutes(ticketGroup)
	tickets.RegisterUserRoutes(v1.Group("/users"))
	passengers.Register(v1.Group("/passengers"))
	NewFlightHandler(cfg.Flights).Register(v1.Group("/flights"))

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PATCH", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", idempotencyHeader, requestIDHeader},
		ExposeHeaders: []string{"Content-Length", requestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	cfg.AllowCredentials = true
	return cfg
}
