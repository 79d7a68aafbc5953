package grpc

import (
	"context"
	"time"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/rpc"
	"github.com/dmitrijs2005/tripshare/internal/server/services"
)

// actor resolves the acting user of a mutation. The token decides; a
// request naming somebody else is refused.
func (s *GRPCServer) actor(ctx context.Context, requested int64) (int64, error) {
	p, ok := principalFrom(ctx)
	if !ok {
		return 0, status.Error(codes.Unauthenticated, "no principal")
	}
	if requested != 0 && requested != p.UserID {
		return 0, status.Error(codes.PermissionDenied, "actor does not match token")
	}
	return p.UserID, nil
}

func period(year, month int) datecycle.YearMonth {
	return datecycle.YearMonth{Year: year, Month: time.Month(month)}
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*wrapperspb.StringValue, error) {
	return wrapperspb.String("OK"), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	res, err := s.svc.Users.Login(ctx, req.Identifier, req.Pin)
	if err != nil {
		return nil, toStatus(err)
	}
	s.logger.Info(ctx, "Logged in", "user_id", res.User.ID)
	return &rpc.LoginResponse{User: res.User, AccessToken: res.AccessToken}, nil
}

func (s *GRPCServer) ListUsers(ctx context.Context, _ *emptypb.Empty) (*rpc.ListUsersResponse, error) {
	list, err := s.svc.Users.List(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.ListUsersResponse{Users: list}, nil
}

func (s *GRPCServer) CreateUser(ctx context.Context, req *rpc.CreateUserRequest) (*rpc.UserResponse, error) {
	actorID, err := s.actor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.Users.Create(ctx, req.Data, req.Pin, actorID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.UserResponse{User: u}, nil
}

func (s *GRPCServer) UpdateUser(ctx context.Context, req *rpc.UpdateUserRequest) (*rpc.UserResponse, error) {
	actorID, err := s.actor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	u, err := s.svc.Users.Update(ctx, services.UpdateUserInput{
		ID:         req.ID,
		Data:       req.Data,
		ActorID:    actorID,
		NewPin:     req.NewPin,
		CurrentPin: req.CurrentPin,
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.UserResponse{User: u}, nil
}

func (s *GRPCServer) DeleteUser(ctx context.Context, req *rpc.DeleteUserRequest) (*emptypb.Empty, error) {
	actorID, err := s.actor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	if err := s.svc.Users.Delete(ctx, req.ID, actorID); err != nil {
		return nil, toStatus(err)
	}
	return &emptypb.Empty{}, nil
}

func (s *GRPCServer) ListPlans(ctx context.Context, req *rpc.PeriodRequest) (*rpc.PlansResponse, error) {
	list, err := s.svc.Plans.List(ctx, period(req.Year, req.Month))
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.PlansResponse{Plans: list}, nil
}

func (s *GRPCServer) SubmitPlan(ctx context.Context, req *rpc.SubmitPlanRequest) (*rpc.SubmitPlanResponse, error) {
	actorID, err := s.actor(ctx, req.Plan.UserID)
	if err != nil {
		return nil, err
	}
	res, err := s.svc.Plans.Submit(ctx, req.Plan, actorID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.SubmitPlanResponse{Plan: res.Plan, MarkedStale: res.MarkedStale}, nil
}

func allocationsResponse(p datecycle.YearMonth, list []models.Allocation) *rpc.AllocationsResponse {
	if list == nil {
		list = []models.Allocation{}
	}
	return &rpc.AllocationsResponse{Year: p.Year, Month: int(p.Month), Allocations: list}
}

func (s *GRPCServer) ListAllocations(ctx context.Context, req *rpc.PeriodRequest) (*rpc.AllocationsResponse, error) {
	p := period(req.Year, req.Month)
	list, err := s.svc.Allocations.List(ctx, p)
	if err != nil {
		return nil, toStatus(err)
	}
	return allocationsResponse(p, list), nil
}

func (s *GRPCServer) GenerateAllocations(ctx context.Context, req *rpc.GenerateRequest) (*rpc.AllocationsResponse, error) {
	actorID, err := s.actor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	p, list, err := s.svc.Allocations.Generate(ctx, actorID, period(req.Year, req.Month))
	if err != nil {
		return nil, toStatus(err)
	}
	return allocationsResponse(p, list), nil
}

func (s *GRPCServer) ListHolidays(ctx context.Context, _ *emptypb.Empty) (*rpc.HolidaysResponse, error) {
	dates, err := s.svc.Holidays.List(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.HolidaysResponse{Dates: dates}, nil
}

func (s *GRPCServer) UpdateHolidays(ctx context.Context, req *rpc.UpdateHolidaysRequest) (*rpc.HolidaysResponse, error) {
	actorID, err := s.actor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	dates, err := s.svc.Holidays.Replace(ctx, req.Dates, actorID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.HolidaysResponse{Dates: dates}, nil
}

func (s *GRPCServer) GetSettings(ctx context.Context, _ *emptypb.Empty) (*rpc.SettingsResponse, error) {
	st, err := s.svc.Settings.Get(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.SettingsResponse{Settings: st}, nil
}

func (s *GRPCServer) UpdateSettings(ctx context.Context, req *rpc.UpdateSettingsRequest) (*rpc.SettingsResponse, error) {
	actorID, err := s.actor(ctx, req.ActorID)
	if err != nil {
		return nil, err
	}
	st, err := s.svc.Settings.Update(ctx, req.Settings, actorID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.SettingsResponse{Settings: st}, nil
}

func (s *GRPCServer) ListStaleUsers(ctx context.Context, _ *emptypb.Empty) (*rpc.StaleUsersResponse, error) {
	names, err := s.svc.Allocations.StaleUsers(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &rpc.StaleUsersResponse{Names: names}, nil
}
