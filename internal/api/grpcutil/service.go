// Package grpcutil holds the plumbing shared by the hand-registered gRPC
// services: method descriptors, struct payload codec and status mapping.
package grpcutil

import (
	"context"

	"google.golang.org/grpc"
)

// Unary builds a method descriptor for a unary call whose request decodes
// into a fresh *Req. call receives the registered service implementation.
func Unary[Req any, Resp any](service, method string, call func(srv any, ctx context.Context, req *Req) (Resp, error)) grpc.MethodDesc {
	fullMethod := "/" + service + "/" + method
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(srv, ctx, req.(*Req))
			})
		},
	}
}
