package grpcutil

import (
	"context"

	"github.com/Domenick1991/airticket/internal/auth"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

const authorizationKey = "authorization"

// HasAuthorization reports whether the caller sent authorization metadata.
func HasAuthorization(ctx context.Context) bool {
	md, ok := metadata.FromIncomingContext(ctx)
	return ok && len(md.Get(authorizationKey)) > 0
}

// BearerUser verifies the "authorization: Bearer <token>" metadata and
// returns the user it names.
func BearerUser(ctx context.Context, secret string) (int64, error) {
	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(authorizationKey); len(values) > 0 {
			header = values[0]
		}
	}
	userID, err := auth.UserFromHeader(header, secret)
	if err != nil {
		return 0, status.Error(codes.Unauthenticated, err.Error())
	}
	return userID, nil
}
