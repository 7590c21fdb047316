package itinerary

import (
	"fmt"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
)

const DayLayout = "2006-01-02"

// DayWindow returns the first and last millisecond of day in loc.
func DayWindow(day time.Time, loc *time.Location) (time.Time, time.Time) {
	d := day.In(loc)
	start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	end := start.AddDate(0, 0, 1).Add(-time.Millisecond)
	return start, end
}

// ParseDay parses a YYYY-MM-DD day in loc.
func ParseDay(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DayLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid day %q, expected YYYY-MM-DD", domain.ErrValidation, s)
	}
	return d, nil
}

// Criteria is a resolved ticket search.
type Criteria struct {
	Filter domain.TicketFilter
}

// NewSearchCriteria builds the criteria for a search on outbound airports and
// days. returnDay is honoured only for round-trip searches.
func NewSearchCriteria(ticketType domain.TicketType, from, to string, outboundDay time.Time, returnDay *time.Time, loc *time.Location) (Criteria, error) {
	if !ticketType.Valid() {
		return Criteria{}, fmt.Errorf("%w: unknown ticket type %q", domain.ErrValidation, ticketType)
	}
	if from == "" || to == "" {
		return Criteria{}, fmt.Errorf("%w: departure and arrival airport codes are required", domain.ErrValidation)
	}

	outStart, outEnd := DayWindow(outboundDay, loc)
	f := domain.TicketFilter{
		Type:             ticketType,
		DepartureAirport: from,
		ArrivalAirport:   to,
		OutboundFrom:     &outStart,
		OutboundTo:       &outEnd,
	}
	if ticketType == domain.TicketTypeRoundTrip && returnDay != nil {
		retStart, retEnd := DayWindow(*returnDay, loc)
		f.ReturnFrom = &retStart
		f.ReturnTo = &retEnd
	}
	return Criteria{Filter: f}, nil
}

// NewOutboundTimeCriteria matches tickets whose outbound flight departs at or
// before at (before=true) or at or after it (before=false).
func NewOutboundTimeCriteria(at time.Time, before bool) Criteria {
	var f domain.TicketFilter
	if before {
		f.OutboundTo = &at
	} else {
		f.OutboundFrom = &at
	}
	return Criteria{Filter: f}
}

// Matches reports whether a ticket and its legs satisfy the criteria.
func (c Criteria) Matches(legs domain.TicketLegs) bool {
	f := c.Filter
	if f.Type != "" && legs.Ticket.Type != f.Type {
		return false
	}
	if f.DepartureAirport != "" && legs.Outbound.DepartureAirport != f.DepartureAirport {
		return false
	}
	if f.ArrivalAirport != "" && legs.Outbound.ArrivalAirport != f.ArrivalAirport {
		return false
	}
	if !within(legs.Outbound.DepartureTime, f.OutboundFrom, f.OutboundTo) {
		return false
	}
	if f.ReturnFrom != nil || f.ReturnTo != nil {
		if legs.Return == nil || !within(legs.Return.DepartureTime, f.ReturnFrom, f.ReturnTo) {
			return false
		}
	}
	return true
}

func within(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}
