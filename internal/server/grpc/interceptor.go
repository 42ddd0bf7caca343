package grpc

import (
	"context"
	"strings"

	"github.com/dmitrijs2005/bizdir/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// authorizationKey is the metadata key carrying "Bearer <token>".
const authorizationKey = "authorization"

var publicPrefixes = []string{
	"/grpc.health.v1.Health/",
}

func isPublic(method string) bool {
	for _, p := range publicPrefixes {
		if strings.HasPrefix(method, p) {
			return true
		}
	}
	return false
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if isPublic(info.FullMethod) {
		return handler(ctx, req)
	}

	var header string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(authorizationKey); len(values) > 0 {
			header = values[0]
		}
	}

	id, err := s.resolver.Resolve(ctx, header)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, "missing or invalid authorization token")
	}

	return handler(auth.WithIdentity(ctx, id), req)
}
