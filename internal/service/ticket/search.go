package ticket

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/metrics"
	"github.com/Domenick1991/airticket/internal/service/itinerary"
	"github.com/Domenick1991/airticket/internal/service/validation"
)

// SearchInput days are YYYY-MM-DD in the service timezone. ReturnDay is
// only honoured for round-trip searches.
type SearchInput struct {
	Type             domain.TicketType `form:"ticket_type" json:"ticket_type" validate:"required,oneof=ONE_WAY ROUND_TRIP"`
	DepartureAirport string            `form:"departure_airport" json:"departure_airport" validate:"required,len=3,alpha"`
	ArrivalAirport   string            `form:"arrival_airport" json:"arrival_airport" validate:"required,len=3,alpha"`
	OutboundDay      string            `form:"outbound_day" json:"outbound_day" validate:"required"`
	ReturnDay        string            `form:"return_day" json:"return_day,omitempty"`
}

func (s *TicketService) Search(ctx context.Context, input SearchInput) ([]domain.TicketLegs, error) {
	if err := validation.Struct(input); err != nil {
		return nil, err
	}

	outboundDay, err := itinerary.ParseDay(input.OutboundDay, s.loc)
	if err != nil {
		return nil, err
	}
	var returnDay *time.Time
	if input.ReturnDay != "" {
		d, err := itinerary.ParseDay(input.ReturnDay, s.loc)
		if err != nil {
			return nil, err
		}
		returnDay = &d
	}

	criteria, err := itinerary.NewSearchCriteria(input.Type, input.DepartureAirport, input.ArrivalAirport, outboundDay, returnDay, s.loc)
	if err != nil {
		return nil, err
	}
	return s.find(ctx, "itinerary", criteria)
}

// SearchByOutboundTime returns tickets whose outbound flight departs at or
// before at when before is set, at or after it otherwise.
func (s *TicketService) SearchByOutboundTime(ctx context.Context, at time.Time, before bool) ([]domain.TicketLegs, error) {
	if at.IsZero() {
		return nil, fmt.Errorf("%w: date is required", domain.ErrValidation)
	}
	return s.find(ctx, "outbound_time", itinerary.NewOutboundTimeCriteria(at, before))
}

func (s *TicketService) find(ctx context.Context, kind string, criteria itinerary.Criteria) ([]domain.TicketLegs, error) {
	candidates, err := s.tickets.Search(ctx, criteria.Filter)
	if err != nil {
		return nil, err
	}

	result := make([]domain.TicketLegs, 0, len(candidates))
	for _, legs := range candidates {
		if criteria.Matches(legs) {
			result = append(result, legs)
		}
	}

	metrics.TicketSearches.WithLabelValues(kind, strconv.FormatBool(len(result) > 0)).Inc()
	if len(result) == 0 {
		return nil, fmt.Errorf("tickets: %w", domain.ErrNoResults)
	}
	return result, nil
}
