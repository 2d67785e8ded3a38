// Package proto describes the tasklane.v1.TaskService gRPC API. Requests and
// replies are google.protobuf.Struct values carrying the same JSON shapes as
// the HTTP API, so the service needs no generated message types.
package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "tasklane.v1.TaskService"

// Method names.
const (
	MethodPing             = "Ping"
	MethodSignup           = "Signup"
	MethodLogin            = "Login"
	MethodRefresh          = "Refresh"
	MethodMe               = "Me"
	MethodListMyTasks      = "ListMyTasks"
	MethodUpdateStatus     = "UpdateStatus"
	MethodListUsers        = "ListUsers"
	MethodCreateTask       = "CreateTask"
	MethodListManagerTasks = "ListManagerTasks"
)

// FullMethod returns the "/service/method" form used on the wire and in
// grpc.UnaryServerInfo.
func FullMethod(method string) string {
	return "/" + ServiceName + "/" + method
}

// TaskServiceServer is the server API for TaskService.
type TaskServiceServer interface {
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	Signup(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Me(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	ListMyTasks(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	UpdateStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListUsers(context.Context, *emptypb.Empty) (*structpb.Struct, error)
	CreateTask(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListManagerTasks(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// UnimplementedTaskServiceServer answers every method with Unimplemented.
// Embed it to stay forward compatible.
type UnimplementedTaskServiceServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedTaskServiceServer) Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented(MethodPing)
}

func (UnimplementedTaskServiceServer) Signup(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodSignup)
}

func (UnimplementedTaskServiceServer) Login(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodLogin)
}

func (UnimplementedTaskServiceServer) Refresh(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodRefresh)
}

func (UnimplementedTaskServiceServer) Me(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented(MethodMe)
}

func (UnimplementedTaskServiceServer) ListMyTasks(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListMyTasks)
}

func (UnimplementedTaskServiceServer) UpdateStatus(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodUpdateStatus)
}

func (UnimplementedTaskServiceServer) ListUsers(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListUsers)
}

func (UnimplementedTaskServiceServer) CreateTask(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, unimplemented(MethodCreateTask)
}

func (UnimplementedTaskServiceServer) ListManagerTasks(context.Context, *emptypb.Empty) (*structpb.Struct, error) {
	return nil, unimplemented(MethodListManagerTasks)
}

// message is the request type constraint of unary methods.
type message interface {
	*emptypb.Empty | *structpb.Struct
}

func unary[Req message](method string, newReq func() Req, call func(TaskServiceServer, context.Context, Req) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: method,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := newReq()
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TaskServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(method)}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TaskServiceServer), ctx, req.(Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func newEmpty() *emptypb.Empty {
	return &emptypb.Empty{}
}

func newStruct() *structpb.Struct {
	return &structpb.Struct{}
}

// TaskService_ServiceDesc is the grpc.ServiceDesc for TaskService.
var TaskService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TaskServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodPing, newEmpty, TaskServiceServer.Ping),
		unary(MethodSignup, newStruct, TaskServiceServer.Signup),
		unary(MethodLogin, newStruct, TaskServiceServer.Login),
		unary(MethodRefresh, newStruct, TaskServiceServer.Refresh),
		unary(MethodMe, newEmpty, TaskServiceServer.Me),
		unary(MethodListMyTasks, newEmpty, TaskServiceServer.ListMyTasks),
		unary(MethodUpdateStatus, newStruct, TaskServiceServer.UpdateStatus),
		unary(MethodListUsers, newEmpty, TaskServiceServer.ListUsers),
		unary(MethodCreateTask, newStruct, TaskServiceServer.CreateTask),
		unary(MethodListManagerTasks, newEmpty, TaskServiceServer.ListManagerTasks),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tasklane/v1/task_service.proto",
}

func RegisterTaskServiceServer(s grpc.ServiceRegistrar, srv TaskServiceServer) {
	s.RegisterService(&TaskService_ServiceDesc, srv)
}
