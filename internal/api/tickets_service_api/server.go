package tickets_service_api

import (
	"context"
	"time"

	"github.com/Domenick1991/airticket/internal/api/grpcutil"
	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/service/itinerary"
	"github.com/Domenick1991/airticket/internal/service/passenger"
	"github.com/Domenick1991/airticket/internal/service/pricing"
	"github.com/Domenick1991/airticket/internal/service/ticket"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "airticket.v1.TicketsService"

// TicketsServiceServer is the contract registered under serviceName.
// Payloads are google.protobuf.Struct values using the REST field names.
type TicketsServiceServer interface {
	CreateTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	GetTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ConfirmTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	CancelTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	SearchTickets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	AddPassenger(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
	ListPassengers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

func method(name string, call func(TicketsServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpcutil.Unary(serviceName, name, func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
		return call(srv.(TicketsServiceServer), ctx, req)
	})
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*TicketsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		method("CreateTicket", TicketsServiceServer.CreateTicket),
		method("GetTicket", TicketsServiceServer.GetTicket),
		method("ConfirmTicket", TicketsServiceServer.ConfirmTicket),
		method("CancelTicket", TicketsServiceServer.CancelTicket),
		method("SearchTickets", TicketsServiceServer.SearchTickets),
		method("AddPassenger", TicketsServiceServer.AddPassenger),
		method("ListPassengers", TicketsServiceServer.ListPassengers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "airticket/v1/tickets.proto",
}

func Register(registrar grpc.ServiceRegistrar, srv TicketsServiceServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

// Server exposes ticket and passenger operations over gRPC. jwtSecret
// verifies the bearer token that booking requires.
type Server struct {
	tickets    ticket.TicketUseCase
	passengers passenger.PassengerUseCase
	jwtSecret  string
}

func NewServer(tickets ticket.TicketUseCase, passengers passenger.PassengerUseCase, jwtSecret string) *Server {
	return &Server{tickets: tickets, passengers: passengers, jwtSecret: jwtSecret}
}

func (s *Server) CreateTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input ticket.CreateTicketInput
	if err := grpcutil.Decode(req, &input); err != nil {
		return nil, err
	}
	t, err := s.tickets.CreateTicket(ctx, input)
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.Encode(ticketFields(t))
}

func (s *Server) GetTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := grpcutil.RequireID(req, "id")
	if err != nil {
		return nil, err
	}
	t, err := s.tickets.GetTicket(ctx, id)
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.Encode(ticketFields(t))
}

// ConfirmTicket books the ticket for the user named by the bearer token in
// the authorization metadata. Without a token and without user_id it checks
// the ticket in for its current owner. A user_id in the payload must match
// the token.
func (s *Server) ConfirmTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := grpcutil.RequireID(req, "id")
	if err != nil {
		return nil, err
	}
	var actingUser *int64
	_, claimed := req.GetFields()["user_id"]
	if claimed || grpcutil.HasAuthorization(ctx) {
		userID, err := grpcutil.BearerUser(ctx, s.jwtSecret)
		if err != nil {
			return nil, err
		}
		if claimed {
			requested, err := grpcutil.RequireID(req, "user_id")
			if err != nil {
				return nil, err
			}
			if requested != userID {
				return nil, status.Error(codes.PermissionDenied, "user_id does not match the bearer token")
			}
		}
		actingUser = &userID
	}
	t, err := s.tickets.ConfirmTicket(ctx, id, actingUser)
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.Encode(ticketFields(t))
}

func (s *Server) CancelTicket(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := grpcutil.RequireID(req, "id")
	if err != nil {
		return nil, err
	}
	t, err := s.tickets.CancelTicket(ctx, id)
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.Encode(ticketFields(t))
}

func (s *Server) SearchTickets(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input ticket.SearchInput
	if err := grpcutil.Decode(req, &input); err != nil {
		return nil, err
	}
	result, err := s.tickets.Search(ctx, input)
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.List("tickets", result, ticketLegsFields)
}

type addPassengerRequest struct {
	TicketID          int64  `json:"ticket_id"`
	PassengerType     string `json:"passenger_type"`
	FullName          string `json:"full_name"`
	Birthday          string `json:"birthday"`
	NationalID        string `json:"cccd"`
	CountryCode       string `json:"country_code"`
	AssociatedAdultID *int64 `json:"associated_adult_id"`
}

func (s *Server) AddPassenger(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in addPassengerRequest
	if err := grpcutil.Decode(req, &in); err != nil {
		return nil, err
	}
	birthday, err := time.Parse(itinerary.DayLayout, in.Birthday)
	if err != nil {
		return nil, status.Error(codes.InvalidArgument, "birthday must be YYYY-MM-DD")
	}
	p, err := s.passengers.AddPassenger(ctx, passenger.AddPassengerInput{
		TicketID:          in.TicketID,
		Type:              domain.PassengerType(in.PassengerType),
		FullName:          in.FullName,
		Birthday:          birthday,
		NationalID:        in.NationalID,
		CountryCode:       in.CountryCode,
		AssociatedAdultID: in.AssociatedAdultID,
	})
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.Encode(passengerFields(p))
}

func (s *Server) ListPassengers(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	ticketID, err := grpcutil.RequireID(req, "ticket_id")
	if err != nil {
		return nil, err
	}
	list, err := s.passengers.ListPassengers(ctx, ticketID)
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.List("passengers", list, passengerFields)
}

func ticketFields(t *domain.Ticket) map[string]any {
	fields := map[string]any{
		"id":                    t.ID,
		"user_id":               grpcutil.OptionalID(t.UserID),
		"outbound_flight_id":    t.OutboundFlightID,
		"return_flight_id":      grpcutil.OptionalID(t.ReturnFlightID),
		"ticket_type":           string(t.Type),
		"booking_class":         string(t.Class),
		"booking_status":        string(t.Status),
		"total_passengers":      t.TotalPassengers,
		"outbound_ticket_price": pricing.Format(t.OutboundPrice),
		"return_ticket_price":   pricing.Format(t.ReturnPrice),
		"total_price":           pricing.Format(t.TotalPrice),
		"booking_date":          nil,
		"description":           t.Description,
		"version":               t.Version,
		"created_at":            grpcutil.Timestamp(t.CreatedAt),
		"updated_at":            grpcutil.Timestamp(t.UpdatedAt),
	}
	if t.BookingDate != nil {
		fields["booking_date"] = grpcutil.Timestamp(*t.BookingDate)
	}
	return fields
}

func ticketLegsFields(legs *domain.TicketLegs) map[string]any {
	fields := ticketFields(&legs.Ticket)
	fields["outbound_flight"] = grpcutil.FlightFields(&legs.Outbound)
	fields["return_flight"] = nil
	if legs.Return != nil {
		fields["return_flight"] = grpcutil.FlightFields(legs.Return)
	}
	return fields
}

func passengerFields(p *domain.Passenger) map[string]any {
	return map[string]any{
		"id":                  p.ID,
		"ticket_id":           p.TicketID,
		"passenger_type":      string(p.Type),
		"full_name":           p.FullName,
		"birthday":            p.Birthday.Format(itinerary.DayLayout),
		"cccd":                p.NationalID,
		"country_code":        p.CountryCode,
		"associated_adult_id": grpcutil.OptionalID(p.AssociatedAdultID),
		"created_at":          grpcutil.Timestamp(p.CreatedAt),
		"updated_at":          grpcutil.Timestamp(p.UpdatedAt),
	}
}
