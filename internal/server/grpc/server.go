package grpc

import (
	"context"
	"net"

	"github.com/dmitrijs2005/tasklane/internal/logging"
	pb "github.com/dmitrijs2005/tasklane/internal/proto"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/services"
	"google.golang.org/grpc"
)

type userSvc interface {
	Signup(ctx context.Context, in services.SignupInput) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Authenticate(ctx context.Context, accessToken string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
}

type taskSvc interface {
	CreateTask(ctx context.Context, manager *models.User, in services.CreateTaskInput) (*models.Task, error)
	ListTasksForUser(ctx context.Context, user *models.User) ([]*models.TaskView, error)
	ListTasksForManager(ctx context.Context, manager *models.User) ([]*models.TaskView, error)
	UpdateStatus(ctx context.Context, user *models.User, taskID string, status models.Status) (*models.Task, error)
}

type GRPCServer struct {
	pb.UnimplementedTaskServiceServer
	address string
	users   userSvc
	tasks   taskSvc
	logger  logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, us userSvc, ts taskSvc) *GRPCServer {
	return &GRPCServer{
		address: a,
		logger:  l.With("module", "grpc_server"),
		users:   us,
		tasks:   ts,
	}
}

// NewServer returns a grpc.Server with the access interceptor installed and
// the task service registered.
func (s *GRPCServer) NewServer(opts ...grpc.ServerOption) *grpc.Server {
	opts = append(opts, grpc.ChainUnaryInterceptor(s.accessTokenInterceptor))
	srv := grpc.NewServer(opts...)
	pb.RegisterTaskServiceServer(srv, s)
	return srv
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	srv := s.NewServer()

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gRPC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", s.address)

	// starts accepting incoming connections
	if err := srv.Serve(listen); err != nil {
		return err
	}

	return nil
}
