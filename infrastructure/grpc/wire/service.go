package wire

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	MessageService_ListMessages_FullMethodName  = "/messages.v1.MessageService/ListMessages"
	MessageService_CreateMessage_FullMethodName = "/messages.v1.MessageService/CreateMessage"
	MessageService_EditMessage_FullMethodName   = "/messages.v1.MessageService/EditMessage"
	MessageService_DeleteMessage_FullMethodName = "/messages.v1.MessageService/DeleteMessage"
)

// MessageServiceServer is the server API for messages.v1.MessageService.
type MessageServiceServer interface {
	ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error)
	CreateMessage(context.Context, *CreateMessageRequest) (*CreateMessageResponse, error)
	EditMessage(context.Context, *EditMessageRequest) (*EditMessageResponse, error)
	DeleteMessage(context.Context, *DeleteMessageRequest) (*DeleteMessageResponse, error)
}

// UnimplementedMessageServiceServer can be embedded to have forward compatible implementations.
type UnimplementedMessageServiceServer struct{}

func (UnimplementedMessageServiceServer) ListMessages(context.Context, *ListMessagesRequest) (*ListMessagesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListMessages not implemented")
}

func (UnimplementedMessageServiceServer) CreateMessage(context.Context, *CreateMessageRequest) (*CreateMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateMessage not implemented")
}

func (UnimplementedMessageServiceServer) EditMessage(context.Context, *EditMessageRequest) (*EditMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method EditMessage not implemented")
}

func (UnimplementedMessageServiceServer) DeleteMessage(context.Context, *DeleteMessageRequest) (*DeleteMessageResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeleteMessage not implemented")
}

func RegisterMessageServiceServer(s grpc.ServiceRegistrar, srv MessageServiceServer) {
	s.RegisterService(&MessageService_ServiceDesc, srv)
}

// unaryHandler adapts one typed method to the grpc.MethodDesc handler shape.
func unaryHandler[Req, Resp any](fullMethod string,
	call func(MessageServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(MessageServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(MessageServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// MessageService_ServiceDesc is the grpc.ServiceDesc for messages.v1.MessageService.
var MessageService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "messages.v1.MessageService",
	HandlerType: (*MessageServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "ListMessages",
			Handler:    unaryHandler(MessageService_ListMessages_FullMethodName, MessageServiceServer.ListMessages),
		},
		{
			MethodName: "CreateMessage",
			Handler:    unaryHandler(MessageService_CreateMessage_FullMethodName, MessageServiceServer.CreateMessage),
		},
		{
			MethodName: "EditMessage",
			Handler:    unaryHandler(MessageService_EditMessage_FullMethodName, MessageServiceServer.EditMessage),
		},
		{
			MethodName: "DeleteMessage",
			Handler:    unaryHandler(MessageService_DeleteMessage_FullMethodName, MessageServiceServer.DeleteMessage),
		},
	},
	Streams: []grpc.StreamDesc{},
}
