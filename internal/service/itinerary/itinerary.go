// Package itinerary validates round-trip leg pairs and matches tickets
// against search criteria.
package itinerary

import (
	"fmt"

	"github.com/Domenick1991/airticket/internal/domain"
)

// Rule identifies which leg compatibility rule a pair of flights broke.
type Rule string

const (
	RuleTemporalOrder      Rule = "return must depart after outbound arrives"
	RuleReturnsToOrigin    Rule = "return must arrive at outbound departure airport"
	RuleDepartsDestination Rule = "return must depart from outbound arrival airport"
)

// IncompatibleLegsError is returned when a round-trip pair breaks a rule.
type IncompatibleLegsError struct {
	Rule     Rule
	Outbound int64
	Return   int64
}

func (e *IncompatibleLegsError) Error() string {
	return fmt.Sprintf("%s: flights %d and %d: %s", domain.ErrInvalidItinerary, e.Outbound, e.Return, e.Rule)
}

func (e *IncompatibleLegsError) Unwrap() error { return domain.ErrInvalidItinerary }

// Validate checks that ret is a legal return leg for outbound.
func Validate(outbound, ret domain.Flight) error {
	fail := func(rule Rule) error {
		return &IncompatibleLegsError{Rule: rule, Outbound: outbound.ID, Return: ret.ID}
	}

	if !outbound.ArrivalTime.Before(ret.DepartureTime) {
		return fail(RuleTemporalOrder)
	}
	if outbound.DepartureAirport != ret.ArrivalAirport {
		return fail(RuleReturnsToOrigin)
	}
	if outbound.ArrivalAirport != ret.DepartureAirport {
		return fail(RuleDepartsDestination)
	}
	return nil
}

// ValidateLegs checks the ticket shape against its resolved legs: one-way
// tickets must not carry a return leg, round-trip tickets must carry a
// compatible one.
func ValidateLegs(ticketType domain.TicketType, outbound domain.Flight, ret *domain.Flight) error {
	switch ticketType {
	case domain.TicketTypeOneWay:
		if ret != nil {
			return fmt.Errorf("%w: one-way ticket cannot have a return flight", domain.ErrValidation)
		}
		return nil
	case domain.TicketTypeRoundTrip:
		if ret == nil {
			return fmt.Errorf("%w: round-trip ticket requires a return flight", domain.ErrValidation)
		}
		return Validate(outbound, *ret)
	default:
		return fmt.Errorf("%w: unknown ticket type %q", domain.ErrValidation, ticketType)
	}
}
