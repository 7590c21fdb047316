package api

import (
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/service/itinerary"
	"github.com/Domenick1991/airticket/internal/service/pricing"
)

type ticketResponse struct {
	ID                  int64   `json:"id"`
	UserID              *int64  `json:"user_id"`
	OutboundFlightID    int64   `json:"outbound_flight_id"`
	ReturnFlightID      *int64  `json:"return_flight_id"`
	TicketType          string  `json:"ticket_type"`
	BookingClass        string  `json:"booking_class"`
	BookingStatus       string  `json:"booking_status"`
	TotalPassengers     int     `json:"total_passengers"`
	OutboundTicketPrice string  `json:"outbound_ticket_price"`
	ReturnTicketPrice   string  `json:"return_ticket_price"`
	TotalPrice          string  `json:"total_price"`
	BookingDate         *string `json:"booking_date"`
	Description         string  `json:"description"`
	Version             int64   `json:"version"`
	CreatedAt           string  `json:"created_at"`
	UpdatedAt           string  `json:"updated_at"`
}

type ticketLegsResponse struct {
	ticketResponse
	OutboundFlight flightResponse  `json:"outbound_flight"`
	ReturnFlight   *flightResponse `json:"return_flight"`
}

type flightResponse struct {
	ID               int64  `json:"id"`
	FlightNumber     string `json:"flight_number"`
	DepartureAirport string `json:"departure_airport"`
	ArrivalAirport   string `json:"arrival_airport"`
	DepartureTime    string `json:"departure_time"`
	ArrivalTime      string `json:"arrival_time"`
	BasePrice        string `json:"base_price"`
	AvailableSeats   int    `json:"available_seats"`
	Status           string `json:"status"`
}

type passengerResponse struct {
	ID                int64  `json:"id"`
	TicketID          int64  `json:"ticket_id"`
	PassengerType     string `json:"passenger_type"`
	FullName          string `json:"full_name"`
	Birthday          string `json:"birthday"`
	NationalID        string `json:"cccd"`
	CountryCode       string `json:"country_code"`
	AssociatedAdultID *int64 `json:"associated_adult_id"`
	CreatedAt         string `json:"created_at"`
	UpdatedAt         string `json:"updated_at"`
}

func toTicketResponse(t *domain.Ticket) ticketResponse {
	resp := ticketResponse{
		ID:                  t.ID,
		UserID:              t.UserID,
		OutboundFlightID:    t.OutboundFlightID,
		ReturnFlightID:      t.ReturnFlightID,
		TicketType:          string(t.Type),
		BookingClass:        string(t.Class),
		BookingStatus:       string(t.Status),
		TotalPassengers:     t.TotalPassengers,
		OutboundTicketPrice: pricing.Format(t.OutboundPrice),
		ReturnTicketPrice:   pricing.Format(t.ReturnPrice),
		TotalPrice:          pricing.Format(t.TotalPrice),
		Description:         t.Description,
		Version:             t.Version,
		CreatedAt:           t.CreatedAt.Format(time.RFC3339),
		UpdatedAt:           t.UpdatedAt.Format(time.RFC3339),
	}
	if t.BookingDate != nil {
		d := t.BookingDate.Format(time.RFC3339)
		resp.BookingDate = &d
	}
	return resp
}

func toTicketResponses(list []domain.Ticket) []ticketResponse {
	resp := make([]ticketResponse, 0, len(list))
	for i := range list {
		resp = append(resp, toTicketResponse(&list[i]))
	}
	return resp
}

func toTicketLegsResponses(list []domain.TicketLegs) []ticketLegsResponse {
	resp := make([]ticketLegsResponse, 0, len(list))
	for i := range list {
		legs := list[i]
		item := ticketLegsResponse{
			ticketResponse: toTicketResponse(&legs.Ticket),
			OutboundFlight: toFlightResponse(&legs.Outbound),
		}
		if legs.Return != nil {
			ret := toFlightResponse(legs.Return)
			item.ReturnFlight = &ret
		}
		resp = append(resp, item)
	}
	return resp
}

func toFlightResponse(f *domain.Flight) flightResponse {
	return flightResponse{
		ID:               f.ID,
		FlightNumber:     f.FlightNumber,
		DepartureAirport: f.DepartureAirport,
		ArrivalAirport:   f.ArrivalAirport,
		DepartureTime:    f.DepartureTime.Format(time.RFC3339),
		ArrivalTime:      f.ArrivalTime.Format(time.RFC3339),
		BasePrice:        pricing.Format(f.BasePrice),
		AvailableSeats:   f.AvailableSeats,
		Status:           string(f.Status),
	}
}

func toPassengerResponse(p *domain.Passenger) passengerResponse {
	return passengerResponse{
		ID:                p.ID,
		TicketID:          p.TicketID,
		PassengerType:     string(p.Type),
		FullName:          p.FullName,
		Birthday:          p.Birthday.Format(itinerary.DayLayout),
		NationalID:        p.NationalID,
		CountryCode:       p.CountryCode,
		AssociatedAdultID: p.AssociatedAdultID,
		CreatedAt:         p.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         p.UpdatedAt.Format(time.RFC3339),
	}
}
