package grpc

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/rpc"
	"github.com/dmitrijs2005/tripshare/internal/server/auth"
)

type ctxKey string

const principalKey ctxKey = "principal"

// publicMethods are served without an access token. The login screen needs
// the user list and settings before anybody is signed in.
var publicMethods = []string{rpc.MethodPing, rpc.MethodLogin, rpc.MethodListUsers, rpc.MethodGetSettings}

// methodRoles restricts methods to a single role. The services check the
// role again against stored data.
var methodRoles = map[string]models.Role{
	rpc.MethodCreateUser:          models.RoleSystemAdmin,
	rpc.MethodDeleteUser:          models.RoleSystemAdmin,
	rpc.MethodUpdateSettings:      models.RoleSystemAdmin,
	rpc.MethodGenerateAllocations: models.RoleAllocationAdmin,
	rpc.MethodUpdateHolidays:      models.RoleAllocationAdmin,
	rpc.MethodSubmitPlan:          models.RoleUser,
}

func withPrincipal(ctx context.Context, p auth.Principal) context.Context {
	return context.WithValue(ctx, principalKey, p)
}

// principalFrom returns the caller authenticated by accessTokenInterceptor.
func principalFrom(ctx context.Context) (auth.Principal, bool) {
	p, ok := ctx.Value(principalKey).(auth.Principal)
	return p, ok
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	if slices.Contains(publicMethods, info.FullMethod) {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if values := md.Get(common.AccessTokenHeaderName); len(values) > 0 {
			accessToken = values[0]
		}
	}
	if accessToken == "" {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	p, err := auth.ParseToken(accessToken, s.jwtSecret)
	if err != nil {
		return nil, status.Error(codes.Unauthenticated, err.Error())
	}

	if role, ok := methodRoles[info.FullMethod]; ok && p.Role != role {
		return nil, status.Errorf(codes.PermissionDenied, "%s may not call %s", p.Role, info.FullMethod)
	}

	return handler(withPrincipal(ctx, p), req)
}

// requestLogInterceptor tags every call with a request id and logs its outcome.
func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	log := s.logger.With("request_id", uuid.NewString(), "method", info.FullMethod)

	resp, err := handler(ctx, req)

	code := status.Code(err)
	switch {
	case err == nil:
		log.Debug(ctx, "request served", "duration", time.Since(start))
	case code == codes.Internal || code == codes.Unknown:
		log.Error(ctx, "request failed", "code", code.String(), "error", err)
	default:
		log.Info(ctx, "request rejected", "code", code.String(), "error", err)
	}
	return resp, err
}
