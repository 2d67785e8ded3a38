package grpc

import (
	"context"

	pb "github.com/dmitrijs2005/tasklane/internal/proto"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"github.com/dmitrijs2005/tasklane/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type signupRequest struct {
	Name     string      `json:"name"`
	Email    string      `json:"email"`
	Password string      `json:"password"`
	Role     models.Role `json:"role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type createTaskRequest struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Priority    models.Priority `json:"priority"`
	Deadline    string          `json:"deadline"`
	AssignedTo  string          `json:"assignedTo"`
}

type statusRequest struct {
	ID     string        `json:"id"`
	Status models.Status `json:"status"`
}

type authReply struct {
	Message      string       `json:"message"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

type taskListReply struct {
	Message string             `json:"message"`
	Total   int                `json:"total"`
	Tasks   []*models.TaskView `json:"tasks"`
}

func decode(req *structpb.Struct, v any) error {
	if err := pb.Decode(req, v); err != nil {
		return status.Error(codes.InvalidArgument, "Invalid request body")
	}
	return nil
}

func (s *GRPCServer) reply(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := pb.Encode(v)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	return s.reply(ctx, map[string]string{"status": "OK"})

}

func (s *GRPCServer) Signup(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in signupRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	res, err := s.users.Signup(ctx, services.SignupInput{Name: in.Name, Email: in.Email, Password: in.Password, Role: in.Role})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Signed up", "user_id", res.User.ID)
	return s.reply(ctx, authReply{Message: "User created!", Token: res.Tokens.AccessToken, RefreshToken: res.Tokens.RefreshToken, User: res.User})

}

func (s *GRPCServer) Login(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in loginRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	res, err := s.users.Login(ctx, in.Email, in.Password)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.reply(ctx, authReply{Message: "Login successful", Token: res.Tokens.AccessToken, RefreshToken: res.Tokens.RefreshToken, User: res.User})

}

func (s *GRPCServer) Refresh(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	var in refreshRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	pair, err := s.users.Refresh(ctx, in.RefreshToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.reply(ctx, map[string]string{"token": pair.AccessToken, "refresh_token": pair.RefreshToken})

}

func (s *GRPCServer) Me(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	user, err := userFrom(ctx)
	if err != nil {
		return nil, err
	}

	return s.reply(ctx, map[string]any{"message": "User fetched", "user": user})

}

func (s *GRPCServer) ListMyTasks(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	user, err := userFrom(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasksForUser(ctx, user)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.reply(ctx, taskListReply{Message: "My tasks fetched", Total: len(tasks), Tasks: nonNil(tasks)})

}

func (s *GRPCServer) UpdateStatus(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	user, err := userFrom(ctx)
	if err != nil {
		return nil, err
	}

	var in statusRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}

	task, err := s.tasks.UpdateStatus(ctx, user, in.ID, in.Status)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Task status updated", "task_id", task.ID, "status", task.Status)
	return s.reply(ctx, map[string]any{"message": "Task status updated", "task": task})

}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	users, err := s.users.ListUsers(ctx)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	if users == nil {
		users = []*models.User{}
	}

	return s.reply(ctx, map[string]any{"users": users})

}

func (s *GRPCServer) CreateTask(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {

	user, err := userFrom(ctx)
	if err != nil {
		return nil, err
	}

	var in createTaskRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	deadline, err := services.ParseDeadline(in.Deadline)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	task, err := s.tasks.CreateTask(ctx, user, services.CreateTaskInput{
		Title:       in.Title,
		Description: in.Description,
		Priority:    in.Priority,
		Deadline:    deadline,
		AssignedTo:  in.AssignedTo,
	})
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Task created", "task_id", task.ID, "assigned_to", task.AssignedTo)
	return s.reply(ctx, map[string]any{"message": "Task created", "task": task})

}

func (s *GRPCServer) ListManagerTasks(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {

	user, err := userFrom(ctx)
	if err != nil {
		return nil, err
	}

	tasks, err := s.tasks.ListTasksForManager(ctx, user)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	return s.reply(ctx, taskListReply{Message: "Manager tasks fetched", Total: len(tasks), Tasks: nonNil(tasks)})

}

func nonNil(tasks []*models.TaskView) []*models.TaskView {
	if tasks == nil {
		return []*models.TaskView{}
	}
	return tasks
}
