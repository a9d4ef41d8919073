package auth

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// UnaryInterceptor handles JWT validation for incoming gRPC calls.
// Methods listed in public skip authentication.
func UnaryInterceptor(tokens *Tokens, public ...string) grpc.UnaryServerInterceptor {
	publicMethods := make(map[string]struct{}, len(public))
	for _, method := range public {
		publicMethods[method] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := publicMethods[info.FullMethod]; ok {
			return handler(ctx, req)
		}

		md, ok := metadata.FromIncomingContext(ctx)
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "metadata is missing")
		}
		values := md.Get("authorization")
		if len(values) == 0 {
			return nil, status.Error(codes.Unauthenticated, "authorization token is missing")
		}
		tokenStr, ok := BearerToken(values[0])
		if !ok {
			return nil, status.Error(codes.Unauthenticated, "authorization header must use the Bearer scheme")
		}

		claims, err := tokens.Validate(tokenStr)
		if err != nil {
			return nil, status.Error(codes.Unauthenticated, "invalid or expired token")
		}
		return handler(WithClaims(ctx, claims), req)
	}
}
