package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/tasklane/internal/common"
	pb "github.com/dmitrijs2005/tasklane/internal/proto"
	"github.com/dmitrijs2005/tasklane/internal/server/models"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const userKey ctxKey = "user"

// access is the rule for one method. A zero role means any authenticated user.
type access struct {
	public bool
	role   models.Role
}

// methodAccess lists every method. Methods missing from it require a token.
var methodAccess = map[string]access{
	pb.FullMethod(pb.MethodPing):             {public: true},
	pb.FullMethod(pb.MethodSignup):           {public: true},
	pb.FullMethod(pb.MethodLogin):            {public: true},
	pb.FullMethod(pb.MethodRefresh):          {public: true},
	pb.FullMethod(pb.MethodMe):               {},
	pb.FullMethod(pb.MethodListMyTasks):      {role: models.RoleUser},
	pb.FullMethod(pb.MethodUpdateStatus):     {role: models.RoleUser},
	pb.FullMethod(pb.MethodListUsers):        {role: models.RoleManager},
	pb.FullMethod(pb.MethodCreateTask):       {role: models.RoleManager},
	pb.FullMethod(pb.MethodListManagerTasks): {role: models.RoleManager},
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	rule := methodAccess[info.FullMethod]
	if rule.public {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	user, err := s.users.Authenticate(ctx, accessToken)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	if rule.role != "" && user.Role != rule.role {
		return nil, status.Error(codes.PermissionDenied, "Access denied")
	}

	ctx = context.WithValue(ctx, userKey, user)

	return handler(ctx, req)
}

// userFrom returns the user the interceptor attached to ctx.
func userFrom(ctx context.Context) (*models.User, error) {
	u, ok := ctx.Value(userKey).(*models.User)
	if !ok || u == nil {
		return nil, status.Error(codes.Unauthenticated, "Not authorized")
	}
	return u, nil
}

// toStatus maps a service error to a gRPC status carrying the client-safe
// message.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	code := codes.Internal
	switch {
	case errors.Is(err, common.ErrorValidation):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrRefreshTokenExpired):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrorForbidden):
		code = codes.PermissionDenied
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrDeadlineExpired):
		code = codes.FailedPrecondition
	case errors.Is(err, common.ErrorAlreadyExists):
		code = codes.AlreadyExists
	}

	if code == codes.Internal {
		s.logger.Error(ctx, err.Error())
		return status.Error(code, common.PublicMessage(err, "internal error"))
	}
	return status.Error(code, common.PublicMessage(err, err.Error()))
}
