package server

import (
	"log/slog"

	"chat-messages/auth"
	"chat-messages/infrastructure/grpc/wire"

	grpc3 "github.com/mama165/sdk-go/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// New assembles the gRPC server: the message service behind logging and auth
// interceptors, next to the standard health service which stays public.
func New(log *slog.Logger, tokens *auth.Tokens, messages *MessageServer) *grpc.Server {
	s := grpc.NewServer(
		grpc.ChainUnaryInterceptor(
			grpc3.UnaryLoggingInterceptor(log),
			auth.UnaryInterceptor(tokens, healthpb.Health_Check_FullMethodName),
		),
	)
	wire.RegisterMessageServiceServer(s, messages)

	healthServer := health.NewServer()
	healthServer.SetServingStatus(wire.MessageService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(s, healthServer)
	return s
}
