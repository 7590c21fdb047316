package flights_service_api

import (
	"context"

	"github.com/Domenick1991/airticket/internal/api/grpcutil"
	"github.com/Domenick1991/airticket/internal/service/flights"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const serviceName = "airticket.v1.FlightsService"

type FlightsServiceServer interface {
	ListFlights(ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error)
	GetFlight(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error)
}

var ServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*FlightsServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		grpcutil.Unary(serviceName, "ListFlights", func(srv any, ctx context.Context, req *emptypb.Empty) (*structpb.Struct, error) {
			return srv.(FlightsServiceServer).ListFlights(ctx, req)
		}),
		grpcutil.Unary(serviceName, "GetFlight", func(srv any, ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
			return srv.(FlightsServiceServer).GetFlight(ctx, req)
		}),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "airticket/v1/flights.proto",
}

func Register(registrar grpc.ServiceRegistrar, srv FlightsServiceServer) {
	registrar.RegisterService(&ServiceDesc, srv)
}

// Server exposes the flight directory over gRPC.
type Server struct {
	flights flights.FlightUseCase
}

func NewServer(flights flights.FlightUseCase) *Server {
	return &Server{flights: flights}
}

func (s *Server) ListFlights(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	list, err := s.flights.List(ctx)
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.List("flights", list, grpcutil.FlightFields)
}

func (s *Server) GetFlight(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := grpcutil.RequireID(req, "id")
	if err != nil {
		return nil, err
	}
	flight, err := s.flights.GetByID(ctx, id)
	if err != nil {
		return nil, grpcutil.Status(err)
	}
	return grpcutil.Encode(map[string]any{"flight": grpcutil.FlightFields(flight)})
}
