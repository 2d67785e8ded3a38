package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/dmitrijs2005/tasklane/internal/client/models"
	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/netx"
	pb "github.com/dmitrijs2005/tasklane/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

type GRPCClient struct {
	endpointURL string
	httpURL     string
	httpClient  *http.Client
	conn        *grpc.ClientConn
	client      pb.TaskServiceClient

	mu           sync.RWMutex
	accessToken  string
	refreshToken string
}

type authReply struct {
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
	User         *models.User `json:"user"`
}

type taskListReply struct {
	Total int            `json:"total"`
	Tasks []*models.Task `json:"tasks"`
}

type taskReply struct {
	Task *models.Task `json:"task"`
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	if token != "" {
		md.Set(common.AccessTokenHeaderName, token)
	}

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken = access
	s.refreshToken = refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	access, refresh := s.tokens()
	if method == pb.FullMethod(pb.MethodRefresh) {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)

	if err != nil {

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		if st.Code() != codes.Unauthenticated || st.Message() != common.TokenExpiredMessage {
			return err
		}

		if refresh == "" {
			return err
		}

		if rerr := s.refresh(ctx, refresh); rerr != nil {
			return rerr
		}

		// tokens refreshed, retry once with the new access token
		access, _ = s.tokens()
		return invoker(withAccessToken(ctx, access), method, req, reply, cc, opts...)

	}

	return nil
}

func (s *GRPCClient) refresh(ctx context.Context, refreshToken string) error {
	in, err := pb.Encode(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return err
	}

	resp, err := s.client.Refresh(ctx, in)
	if err != nil {
		return err
	}

	var out authReply
	if err := pb.Decode(resp, &out); err != nil {
		return err
	}

	s.setTokens(out.Token, out.RefreshToken)
	return nil
}

// NewTaskLaneClient dials endpointURL for RPCs and uses httpURL as the base
// of the HTTP API.
func NewTaskLaneClient(endpointURL, httpURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, httpURL: strings.TrimRight(httpURL, "/"), httpClient: &http.Client{}}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient(opts ...grpc.DialOption) error {

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(s.endpointURL, opts...)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewTaskServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) LoggedIn() bool {
	access, _ := s.tokens()
	return access != ""
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := pb.Decode(resp, &out); err != nil || out.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

func (s *GRPCClient) Signup(ctx context.Context, name, email, password, role string) (*models.User, error) {

	in, err := pb.Encode(map[string]string{"name": name, "email": email, "password": password, "role": role})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Signup(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.startSession(resp)

}

func (s *GRPCClient) Login(ctx context.Context, email, password string) (*models.User, error) {

	in, err := pb.Encode(map[string]string{"email": email, "password": password})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Login(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	return s.startSession(resp)

}

func (s *GRPCClient) startSession(resp *structpb.Struct) (*models.User, error) {
	var out authReply
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	s.setTokens(out.Token, out.RefreshToken)
	return out.User, nil
}

// Logout revokes the refresh token on the server and forgets both tokens.
// Local state is cleared even when the server call fails.
func (s *GRPCClient) Logout(ctx context.Context) error {
	access, refresh := s.tokens()
	if access == "" {
		return ErrNotLoggedIn
	}
	defer s.setTokens("", "")

	err := netx.PostJSON(ctx, s.httpClient, s.httpURL+"/api/auth/logout", access, map[string]string{"refresh_token": refresh}, nil)
	return s.mapHTTPError(err)
}

func (s *GRPCClient) Me(ctx context.Context) (*models.User, error) {

	resp, err := s.client.Me(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var out struct {
		User *models.User `json:"user"`
	}
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.User, nil

}

func (s *GRPCClient) ListMyTasks(ctx context.Context) ([]*models.Task, error) {

	resp, err := s.client.ListMyTasks(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var out taskListReply
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil

}

func (s *GRPCClient) ListManagerTasks(ctx context.Context) ([]*models.Task, error) {

	resp, err := s.client.ListManagerTasks(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var out taskListReply
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Tasks, nil

}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]*models.User, error) {

	resp, err := s.client.ListUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}

	var out struct {
		Users []*models.User `json:"users"`
	}
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Users, nil

}

func (s *GRPCClient) CreateTask(ctx context.Context, t models.NewTask) (*models.Task, error) {

	in, err := pb.Encode(t)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.CreateTask(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var out taskReply
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Task, nil

}

func (s *GRPCClient) UpdateStatus(ctx context.Context, taskID, taskStatus string) (*models.Task, error) {

	in, err := pb.Encode(map[string]string{"id": taskID, "status": taskStatus})
	if err != nil {
		return nil, err
	}

	resp, err := s.client.UpdateStatus(ctx, in)
	if err != nil {
		return nil, s.mapError(err)
	}

	var out taskReply
	if err := pb.Decode(resp, &out); err != nil {
		return nil, err
	}
	return out.Task, nil

}

func (s *GRPCClient) SendContact(ctx context.Context, name, email, message string) error {
	access, _ := s.tokens()
	if access == "" {
		return ErrNotLoggedIn
	}

	body := map[string]string{"name": name, "email": email, "message": message}
	return s.mapHTTPError(netx.PostJSON(ctx, s.httpClient, s.httpURL+"/api/contact", access, body, nil))
}

func (s *GRPCClient) Upload(ctx context.Context, filename, contentType string, body io.Reader) (*netx.UploadedFile, error) {
	res, err := netx.UploadMultipart(ctx, s.httpClient, s.httpURL+"/api/uploadbyuser", filename, contentType, body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRejected, err)
	}
	return res, nil
}

// mapError turns a gRPC status into a sentinel error, keeping the server's
// message in the text.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthorized, st.Message())
	case codes.PermissionDenied:
		return fmt.Errorf("%w: %s", ErrForbidden, st.Message())
	case codes.NotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, st.Message())
	case codes.InvalidArgument, codes.FailedPrecondition, codes.AlreadyExists:
		return fmt.Errorf("%w: %s", ErrRejected, st.Message())
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}

func (s *GRPCClient) mapHTTPError(err error) error {
	if err == nil {
		return nil
	}
	var se *netx.StatusError
	if !errors.As(err, &se) {
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	switch se.Code {
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthorized, se.Message)
	case http.StatusForbidden:
		return fmt.Errorf("%w: %s", ErrForbidden, se.Message)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, se.Message)
	default:
		return fmt.Errorf("%w: %w", ErrRejected, err)
	}
}
