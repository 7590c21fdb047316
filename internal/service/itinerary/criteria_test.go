package itinerary

import (
	"errors"
	"testing"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDayWindow(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Ho_Chi_Minh")
	require.NoError(t, err)

	day := time.Date(2023, 12, 1, 15, 30, 0, 0, loc)
	start, end := DayWindow(day, loc)

	assert.Equal(t, time.Date(2023, 12, 1, 0, 0, 0, 0, loc), start)
	assert.Equal(t, time.Date(2023, 12, 1, 23, 59, 59, 999_000_000, loc), end)
}

func TestParseDay(t *testing.T) {
	d, err := ParseDay("2023-12-03", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2023, 12, 3, 0, 0, 0, 0, time.UTC), d)

	_, err = ParseDay("03/12/2023", time.UTC)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func legs(ticketType domain.TicketType, outDep string, retDep string) domain.TicketLegs {
	out, _ := time.Parse(time.RFC3339, outDep)
	l := domain.TicketLegs{
		Ticket:   domain.Ticket{Type: ticketType},
		Outbound: domain.Flight{DepartureAirport: "JFK", ArrivalAirport: "LAX", DepartureTime: out},
	}
	if retDep != "" {
		ret, _ := time.Parse(time.RFC3339, retDep)
		l.Return = &domain.Flight{DepartureAirport: "LAX", ArrivalAirport: "JFK", DepartureTime: ret}
	}
	return l
}

func TestCriteria_RoundTripSearch(t *testing.T) {
	outDay, _ := ParseDay("2023-12-01", time.UTC)
	retDay, _ := ParseDay("2023-12-03", time.UTC)

	c, err := NewSearchCriteria(domain.TicketTypeRoundTrip, "JFK", "LAX", outDay, &retDay, time.UTC)
	require.NoError(t, err)

	assert.True(t, c.Matches(legs(domain.TicketTypeRoundTrip, "2023-12-01T00:00:00Z", "2023-12-03T23:59:59Z")))
	assert.True(t, c.Matches(legs(domain.TicketTypeRoundTrip, "2023-12-01T23:59:59.999Z", "2023-12-03T09:00:00Z")))

	assert.False(t, c.Matches(legs(domain.TicketTypeRoundTrip, "2023-12-02T00:00:00Z", "2023-12-03T09:00:00Z")), "outbound next day")
	assert.False(t, c.Matches(legs(domain.TicketTypeRoundTrip, "2023-12-01T08:00:00Z", "2023-12-04T09:00:00Z")), "return next day")
	assert.False(t, c.Matches(legs(domain.TicketTypeRoundTrip, "2023-12-01T08:00:00Z", "")), "no return leg")
	assert.False(t, c.Matches(legs(domain.TicketTypeOneWay, "2023-12-01T08:00:00Z", "")), "wrong type")

	wrongRoute := legs(domain.TicketTypeRoundTrip, "2023-12-01T08:00:00Z", "2023-12-03T09:00:00Z")
	wrongRoute.Outbound.ArrivalAirport = "SFO"
	assert.False(t, c.Matches(wrongRoute))
}

func TestCriteria_OneWayIgnoresReturnDay(t *testing.T) {
	outDay, _ := ParseDay("2023-12-01", time.UTC)
	retDay, _ := ParseDay("2023-12-03", time.UTC)

	c, err := NewSearchCriteria(domain.TicketTypeOneWay, "JFK", "LAX", outDay, &retDay, time.UTC)
	require.NoError(t, err)
	assert.Nil(t, c.Filter.ReturnFrom)
	assert.True(t, c.Matches(legs(domain.TicketTypeOneWay, "2023-12-01T08:00:00Z", "")))
}

func TestCriteria_Invalid(t *testing.T) {
	day := time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC)

	_, err := NewSearchCriteria("ANY", "JFK", "LAX", day, nil, time.UTC)
	assert.True(t, errors.Is(err, domain.ErrValidation))

	_, err = NewSearchCriteria(domain.TicketTypeOneWay, "", "LAX", day, nil, time.UTC)
	assert.True(t, errors.Is(err, domain.ErrValidation))
}

func TestOutboundTimeCriteria(t *testing.T) {
	at := time.Date(2023, 12, 25, 0, 0, 0, 0, time.UTC)

	before := NewOutboundTimeCriteria(at, true)
	assert.True(t, before.Matches(legs(domain.TicketTypeOneWay, "2023-12-24T10:00:00Z", "")))
	assert.True(t, before.Matches(legs(domain.TicketTypeOneWay, "2023-12-25T00:00:00Z", "")))
	assert.False(t, before.Matches(legs(domain.TicketTypeOneWay, "2023-12-25T00:00:01Z", "")))

	after := NewOutboundTimeCriteria(at, false)
	assert.True(t, after.Matches(legs(domain.TicketTypeRoundTrip, "2023-12-25T00:00:00Z", "2023-12-30T00:00:00Z")))
	assert.False(t, after.Matches(legs(domain.TicketTypeOneWay, "2023-12-24T23:59:59Z", "")))
}
