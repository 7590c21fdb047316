package grpcutil

import (
	"context"
	"errors"

	"github.com/Domenick1991/airticket/internal/domain"
	"github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Status converts a service error into a gRPC status error. Errors outside
// the domain taxonomy are reported as Internal without their message.
func Status(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrNoResults):
		return status.Error(codes.NotFound, err.Error())
	case errors.Is(err, domain.ErrConflict):
		return status.Error(codes.Aborted, err.Error())
	case errors.Is(err, domain.ErrInvalidTransition):
		return status.Error(codes.FailedPrecondition, err.Error())
	case domain.IsBusinessError(err):
		return status.Error(codes.InvalidArgument, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// UnaryErrorInterceptor logs failed calls and maps their errors with Status.
func UnaryErrorInterceptor(log logrus.FieldLogger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}
		mapped := Status(err)
		entry := log.WithError(err).WithFields(logrus.Fields{
			"method": info.FullMethod,
			"code":   status.Code(mapped).String(),
		})
		if status.Code(mapped) == codes.Internal {
			entry.Error("rpc failed")
		} else {
			entry.Warn("rpc rejected")
		}
		return nil, mapped
	}
}
