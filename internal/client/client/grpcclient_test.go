package client

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/tasklane/internal/client/models"
	"github.com/dmitrijs2005/tasklane/internal/common"
	"github.com/dmitrijs2005/tasklane/internal/logging"
	pb "github.com/dmitrijs2005/tasklane/internal/proto"
	"github.com/dmitrijs2005/tasklane/internal/server/config"
	servergrpc "github.com/dmitrijs2005/tasklane/internal/server/grpc"
	"github.com/dmitrijs2005/tasklane/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/tasklane/internal/server/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

/*************
 * Fake pb client
 *************/

type fakePB struct {
	pb.TaskServiceClient

	lastRefreshToken string
	refreshResp      *structpb.Struct
	refreshErr       error
}

func (f *fakePB) Refresh(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	f.lastRefreshToken = in.Fields["refresh_token"].GetStringValue()
	return f.refreshResp, f.refreshErr
}

func mustStruct(t *testing.T, v map[string]any) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(v)
	require.NoError(t, err)
	return s
}

func tokenFrom(t *testing.T, ctx context.Context) string {
	t.Helper()
	md, _ := metadata.FromOutgoingContext(ctx)
	toks := md.Get(common.AccessTokenHeaderName)
	if len(toks) == 0 {
		return ""
	}
	require.Len(t, toks, 1)
	return toks[0]
}

/*************
 * accessTokenInterceptor tests
 *************/

func TestInterceptor_RefreshesTokenOnExpiredAndRetries(t *testing.T) {
	f := &fakePB{refreshResp: mustStruct(t, map[string]any{"token": "A2", "refresh_token": "R2"})}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		if callCount == 1 {
			require.Equal(t, "A1", tokenFrom(t, ctx))
			return status.Error(codes.Unauthenticated, common.TokenExpiredMessage)
		}
		require.Equal(t, "A2", tokenFrom(t, ctx))
		return nil
	}

	err := c.accessTokenInterceptor(context.Background(), pb.FullMethod(pb.MethodMe), nil, nil, nil, invoker)
	require.NoError(t, err)
	assert.Equal(t, 2, callCount)
	assert.Equal(t, "R1", f.lastRefreshToken)

	access, refresh := c.tokens()
	assert.Equal(t, "A2", access)
	assert.Equal(t, "R2", refresh)
}

func TestInterceptor_OtherUnauthenticatedIsNotRetried(t *testing.T) {
	f := &fakePB{}
	c := &GRPCClient{client: f, accessToken: "A1", refreshToken: "R1"}

	callCount := 0
	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		callCount++
		return status.Error(codes.Unauthenticated, "Not authorized, token failed")
	}

	err := c.accessTokenInterceptor(context.Background(), pb.FullMethod(pb.MethodMe), nil, nil, nil, invoker)
	require.Error(t, err)
	assert.Equal(t, 1, callCount)
	assert.Empty(t, f.lastRefreshToken)
}

func TestInterceptor_NoRefreshTokenReturnsOriginalError(t *testing.T) {
	c := &GRPCClient{client: &fakePB{}, accessToken: "A1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.TokenExpiredMessage)
	}

	err := c.accessTokenInterceptor(context.Background(), pb.FullMethod(pb.MethodMe), nil, nil, nil, invoker)
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestInterceptor_RefreshFailureIsReturned(t *testing.T) {
	refreshErr := status.Error(codes.Unauthenticated, "Refresh token expired")
	c := &GRPCClient{client: &fakePB{refreshErr: refreshErr}, accessToken: "A1", refreshToken: "R1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		return status.Error(codes.Unauthenticated, common.TokenExpiredMessage)
	}

	err := c.accessTokenInterceptor(context.Background(), pb.FullMethod(pb.MethodMe), nil, nil, nil, invoker)
	assert.Equal(t, refreshErr, err)
}

func TestInterceptor_RefreshCallCarriesNoToken(t *testing.T) {
	c := &GRPCClient{client: &fakePB{}, accessToken: "A1", refreshToken: "R1"}

	invoker := func(ctx context.Context, method string, req, reply interface{}, cc *grpc.ClientConn, opts ...grpc.CallOption) error {
		assert.Empty(t, tokenFrom(t, ctx))
		return nil
	}

	require.NoError(t, c.accessTokenInterceptor(context.Background(), pb.FullMethod(pb.MethodRefresh), nil, nil, nil, invoker))
}

func TestMapError(t *testing.T) {
	c := &GRPCClient{}

	tests := []struct {
		name string
		in   error
		want error
	}{
		{"unauthenticated", status.Error(codes.Unauthenticated, "x"), ErrUnauthorized},
		{"permission", status.Error(codes.PermissionDenied, "x"), ErrForbidden},
		{"not found", status.Error(codes.NotFound, "x"), ErrNotFound},
		{"invalid", status.Error(codes.InvalidArgument, "x"), ErrRejected},
		{"precondition", status.Error(codes.FailedPrecondition, "x"), ErrRejected},
		{"exists", status.Error(codes.AlreadyExists, "x"), ErrRejected},
		{"unavailable", status.Error(codes.Unavailable, "x"), ErrUnavailable},
		{"deadline", status.Error(codes.DeadlineExceeded, "x"), ErrUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, c.mapError(tt.in), tt.want)
		})
	}

	assert.NoError(t, c.mapError(nil))
	assert.Contains(t, c.mapError(status.Error(codes.InvalidArgument, "Title is required")).Error(), "Title is required")
	assert.Contains(t, c.mapError(errors.New("boom")).Error(), "rpc error")
}

/*************
 * End to end against the real service
 *************/

func newBufconnClient(t *testing.T, httpURL string) *GRPCClient {
	t.Helper()

	m := repomanager.NewMemoryRepositoryManager()
	cfg := &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		BcryptCost:                   bcrypt.MinCost,
	}
	w, err := services.NewWorkflow(services.WorkflowFree)
	require.NoError(t, err)

	s := servergrpc.NewGRPCServer("bufnet", logging.Nop{}, services.NewUserService(m, cfg), services.NewTaskService(m, w))
	lis := bufconn.Listen(1 << 20)
	srv := s.NewServer()
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c := &GRPCClient{endpointURL: "passthrough:///bufnet", httpURL: httpURL, httpClient: http.DefaultClient}
	require.NoError(t, c.InitGRPCClient(grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
		return lis.DialContext(ctx)
	})))
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_TaskFlow(t *testing.T) {
	ctx := context.Background()

	users := newBufconnClient(t, "")
	require.NoError(t, users.Ping(ctx))

	worker, err := users.Signup(ctx, "Uma", "uma@example.com", "secret1", "user")
	require.NoError(t, err)
	assert.Equal(t, "user", worker.Role)
	assert.True(t, users.LoggedIn())

	// signing up again switches the session to the new account
	mgr, err := users.Signup(ctx, "Max", "max@example.com", "secret1", "manager")
	require.NoError(t, err)

	me, err := users.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, mgr.ID, me.ID)

	all, err := users.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	task, err := users.CreateTask(ctx, models.NewTask{
		Title:      "Write report",
		Priority:   "high",
		Deadline:   time.Now().Add(24 * time.Hour).UTC(),
		AssignedTo: worker.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "todo", task.Status)

	_, err = users.CreateTask(ctx, models.NewTask{Deadline: time.Now().Add(time.Hour), AssignedTo: worker.ID})
	assert.ErrorIs(t, err, ErrRejected)

	mine, err := users.ListManagerTasks(ctx)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.NotNil(t, mine[0].Assignee)
	assert.Equal(t, "Uma", mine[0].Assignee.Name)

	_, err = users.ListMyTasks(ctx)
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = users.Login(ctx, "uma@example.com", "secret1")
	require.NoError(t, err)

	assigned, err := users.ListMyTasks(ctx)
	require.NoError(t, err)
	require.Len(t, assigned, 1)

	updated, err := users.UpdateStatus(ctx, task.ID, "done")
	require.NoError(t, err)
	assert.Equal(t, "done", updated.Status)

	_, err = users.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", "done")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = users.Login(ctx, "uma@example.com", "wrong-password")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

/*************
 * HTTP side
 *************/

func TestGRPCClient_HTTPCalls(t *testing.T) {
	var logoutAuth, logoutRefresh, contactAuth, contactMessage, uploadName string

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/auth/logout":
			logoutAuth = r.Header.Get("Authorization")
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			logoutRefresh = body["refresh_token"]
			_, _ = w.Write([]byte(`{"message":"Logged out"}`))
		case "/api/contact":
			contactAuth = r.Header.Get("Authorization")
			var body map[string]string
			_ = json.NewDecoder(r.Body).Decode(&body)
			contactMessage = body["message"]
			if body["message"] == "" {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"message":"Message is required"}`))
				return
			}
			_, _ = w.Write([]byte(`{"message":"Message sent"}`))
		case "/api/uploadbyuser":
			_, fh, err := r.FormFile("file")
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			uploadName = fh.Filename
			_, _ = w.Write([]byte(`{"url":"http://s3/a.txt","public_id":"uploads/a","format":"txt"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer ts.Close()

	ctx := context.Background()
	c := &GRPCClient{httpURL: ts.URL, httpClient: ts.Client()}

	assert.ErrorIs(t, c.SendContact(ctx, "n", "e", "m"), ErrNotLoggedIn)
	assert.ErrorIs(t, c.Logout(ctx), ErrNotLoggedIn)

	c.setTokens("A1", "R1")

	require.NoError(t, c.SendContact(ctx, "Uma", "uma@example.com", "hello"))
	assert.Equal(t, "Bearer A1", contactAuth)
	assert.Equal(t, "hello", contactMessage)

	err := c.SendContact(ctx, "Uma", "uma@example.com", "")
	assert.ErrorIs(t, err, ErrRejected)
	assert.Contains(t, err.Error(), "Message is required")

	res, err := c.Upload(ctx, "a.txt", "text/plain", strings.NewReader("abc"))
	require.NoError(t, err)
	assert.Equal(t, "uploads/a", res.PublicID)
	assert.Equal(t, "a.txt", uploadName)

	require.NoError(t, c.Logout(ctx))
	assert.Equal(t, "Bearer A1", logoutAuth)
	assert.Equal(t, "R1", logoutRefresh)
	assert.False(t, c.LoggedIn())
}

func TestGRPCClient_LogoutClearsTokensOnServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"message":"Token expired"}`))
	}))
	defer ts.Close()

	c := &GRPCClient{httpURL: ts.URL, httpClient: ts.Client(), accessToken: "A1", refreshToken: "R1"}

	err := c.Logout(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.False(t, c.LoggedIn())
}
