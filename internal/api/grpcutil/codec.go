package grpcutil

import (
	"encoding/json"
	"time"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/Domenick1991/airticket/internal/service/pricing"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Decode copies a struct payload into dst through its json tags.
func Decode(req *structpb.Struct, dst any) error {
	if req == nil {
		return status.Error(codes.InvalidArgument, "empty request")
	}
	data, err := json.Marshal(req.AsMap())
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

// Encode turns a map of plain values into a struct payload.
func Encode(fields map[string]any) (*structpb.Struct, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return s, nil
}

// List wraps encoded items under key.
func List[T any](key string, items []T, encode func(*T) map[string]any) (*structpb.Struct, error) {
	values := make([]any, 0, len(items))
	for i := range items {
		values = append(values, encode(&items[i]))
	}
	return Encode(map[string]any{key: values})
}

// OptionalID yields nil for an unset id so it encodes as a null value.
func OptionalID(id *int64) any {
	if id == nil {
		return nil
	}
	return *id
}

func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339)
}

// RequireID reads a positive integer field from a payload.
func RequireID(req *structpb.Struct, field string) (int64, error) {
	v, ok := req.GetFields()[field]
	if !ok {
		return 0, status.Errorf(codes.InvalidArgument, "%s is required", field)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok || n.NumberValue <= 0 || n.NumberValue != float64(int64(n.NumberValue)) {
		return 0, status.Errorf(codes.InvalidArgument, "%s must be a positive integer", field)
	}
	return int64(n.NumberValue), nil
}

// FlightFields is the wire shape of a flight shared by both services.
func FlightFields(f *domain.Flight) map[string]any {
	return map[string]any{
		"id":                f.ID,
		"flight_number":     f.FlightNumber,
		"departure_airport": f.DepartureAirport,
		"arrival_airport":   f.ArrivalAirport,
		"departure_time":    Timestamp(f.DepartureTime),
		"arrival_time":      Timestamp(f.ArrivalTime),
		"base_price":        pricing.Format(f.BasePrice),
		"available_seats":   f.AvailableSeats,
		"status":            string(f.Status),
	}
}
