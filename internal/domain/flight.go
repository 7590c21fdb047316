package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type FlightStatus string

const (
	FlightStatusScheduled FlightStatus = "SCHEDULED"
	FlightStatusDelayed   FlightStatus = "DELAYED"
	FlightStatusCancelled FlightStatus = "CANCELLED"
	FlightStatusCompleted FlightStatus = "COMPLETED"
)

// Flight is owned by the flight directory; tickets only reference it.
type Flight struct {
	ID               int64
	FlightNumber     string
	DepartureAirport string
	ArrivalAirport   string
	DepartureTime    time.Time
	ArrivalTime      time.Time
	BasePrice        decimal.Decimal
	AvailableSeats   int
	Status           FlightStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
