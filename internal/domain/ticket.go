package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type TicketType string

const (
	TicketTypeOneWay    TicketType = "ONE_WAY"
	TicketTypeRoundTrip TicketType = "ROUND_TRIP"
)

func (t TicketType) Valid() bool {
	return t == TicketTypeOneWay || t == TicketTypeRoundTrip
}

type BookingClass string

const (
	BookingClassEconomy  BookingClass = "ECONOMY"
	BookingClassBusiness BookingClass = "BUSINESS"
	BookingClassFirst    BookingClass = "FIRST"
)

func (c BookingClass) Valid() bool {
	switch c {
	case BookingClassEconomy, BookingClassBusiness, BookingClassFirst:
		return true
	}
	return false
}

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "PENDING"
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

type Ticket struct {
	ID               int64
	UserID           *int64
	OutboundFlightID int64
	// ReturnFlightID is set if and only if Type is TicketTypeRoundTrip.
	ReturnFlightID  *int64
	Type            TicketType
	Class           BookingClass
	Status          BookingStatus
	TotalPassengers int
	OutboundPrice   decimal.Decimal
	ReturnPrice     decimal.Decimal
	TotalPrice      decimal.Decimal
	BookingDate     *time.Time
	Description     string
	// Version is bumped on every write and checked by compare-and-swap updates.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TicketLegs is a ticket joined with the flights it references.
type TicketLegs struct {
	Ticket   Ticket
	Outbound Flight
	Return   *Flight
}

// TicketFilter narrows a ticket query. Zero-valued fields do not filter.
// Time bounds are inclusive.
type TicketFilter struct {
	Type             TicketType
	DepartureAirport string
	ArrivalAirport   string
	OutboundFrom     *time.Time
	OutboundTo       *time.Time
	ReturnFrom       *time.Time
	ReturnTo         *time.Time
}
