package client

import (
	"context"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/types/known/emptypb"

	"github.com/dmitrijs2005/tripshare/internal/common"
	"github.com/dmitrijs2005/tripshare/internal/datecycle"
	"github.com/dmitrijs2005/tripshare/internal/models"
	"github.com/dmitrijs2005/tripshare/internal/rpc"
)

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpc.TripPlannerClient

	mu          sync.RWMutex
	accessToken string
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

func (s *GRPCClient) token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.accessToken
}

func (s *GRPCClient) setToken(token string) {
	s.mu.Lock()
	s.accessToken = token
	s.mu.Unlock()
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	ctx = withAccessToken(ctx, s.token())
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewTripPlannerClient dials endpointURL. timeout bounds every call; zero
// disables it.
func NewTripPlannerClient(endpointURL string, timeout time.Duration) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: timeout}
	if err := c.InitGRPCClient(); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {
	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor))
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = rpc.NewTripPlannerClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	resp, err := s.client.Ping(ctx, &emptypb.Empty{})
	if err != nil {
		return mapError(err)
	}
	if resp.GetValue() != "OK" {
		return ErrUnavailable
	}
	return nil
}

func (s *GRPCClient) Login(ctx context.Context, identifier, pin string) (models.User, error) {
	resp, err := s.client.Login(ctx, &rpc.LoginRequest{Identifier: identifier, Pin: pin})
	if err != nil {
		return models.User{}, mapError(err)
	}
	s.setToken(resp.AccessToken)
	return resp.User, nil
}

func (s *GRPCClient) Logout() {
	s.setToken("")
}

func (s *GRPCClient) ListUsers(ctx context.Context) ([]models.User, error) {
	resp, err := s.client.ListUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Users, nil
}

func (s *GRPCClient) CreateUser(ctx context.Context, data models.UserData, pin string, actorID int64) (models.User, error) {
	if actorID <= 0 {
		return models.User{}, ErrNoSession
	}
	resp, err := s.client.CreateUser(ctx, &rpc.CreateUserRequest{Data: data, Pin: pin, ActorID: actorID})
	if err != nil {
		return models.User{}, mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) UpdateUser(ctx context.Context, id int64, data models.UserData, actorID int64, newPin, currentPin string) (models.User, error) {
	if actorID <= 0 {
		return models.User{}, ErrNoSession
	}
	req := &rpc.UpdateUserRequest{ID: id, Data: data, ActorID: actorID, NewPin: newPin, CurrentPin: currentPin}
	resp, err := s.client.UpdateUser(ctx, req)
	if err != nil {
		return models.User{}, mapError(err)
	}
	return resp.User, nil
}

func (s *GRPCClient) DeleteUser(ctx context.Context, id, actorID int64) error {
	if actorID <= 0 {
		return ErrNoSession
	}
	_, err := s.client.DeleteUser(ctx, &rpc.DeleteUserRequest{ID: id, ActorID: actorID})
	return mapError(err)
}

func (s *GRPCClient) ListPlans(ctx context.Context, period datecycle.YearMonth) ([]models.Plan, error) {
	resp, err := s.client.ListPlans(ctx, &rpc.PeriodRequest{Year: period.Year, Month: int(period.Month)})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Plans, nil
}

func (s *GRPCClient) SubmitPlan(ctx context.Context, plan models.Plan) (models.Plan, error) {
	if plan.UserID <= 0 {
		return models.Plan{}, ErrNoSession
	}
	resp, err := s.client.SubmitPlan(ctx, &rpc.SubmitPlanRequest{Plan: plan})
	if err != nil {
		return models.Plan{}, mapError(err)
	}
	return resp.Plan, nil
}

func (s *GRPCClient) ListAllocations(ctx context.Context, period datecycle.YearMonth) ([]models.Allocation, error) {
	resp, err := s.client.ListAllocations(ctx, &rpc.PeriodRequest{Year: period.Year, Month: int(period.Month)})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Allocations, nil
}

func (s *GRPCClient) GenerateAllocations(ctx context.Context, actorID int64, period datecycle.YearMonth) ([]models.Allocation, error) {
	if actorID <= 0 {
		return nil, ErrNoSession
	}
	req := &rpc.GenerateRequest{ActorID: actorID, Year: period.Year, Month: int(period.Month)}
	resp, err := s.client.GenerateAllocations(ctx, req)
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Allocations, nil
}

func (s *GRPCClient) ListHolidays(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListHolidays(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Dates, nil
}

func (s *GRPCClient) UpdateHolidays(ctx context.Context, dates []string, actorID int64) ([]string, error) {
	if actorID <= 0 {
		return nil, ErrNoSession
	}
	resp, err := s.client.UpdateHolidays(ctx, &rpc.UpdateHolidaysRequest{Dates: dates, ActorID: actorID})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Dates, nil
}

func (s *GRPCClient) GetSettings(ctx context.Context) (models.SystemSettings, error) {
	resp, err := s.client.GetSettings(ctx, &emptypb.Empty{})
	if err != nil {
		return models.SystemSettings{}, mapError(err)
	}
	return resp.Settings, nil
}

func (s *GRPCClient) UpdateSettings(ctx context.Context, settings models.SystemSettings, actorID int64) (models.SystemSettings, error) {
	if actorID <= 0 {
		return models.SystemSettings{}, ErrNoSession
	}
	resp, err := s.client.UpdateSettings(ctx, &rpc.UpdateSettingsRequest{Settings: settings, ActorID: actorID})
	if err != nil {
		return models.SystemSettings{}, mapError(err)
	}
	return resp.Settings, nil
}

func (s *GRPCClient) ListStaleUsers(ctx context.Context) ([]string, error) {
	resp, err := s.client.ListStaleUsers(ctx, &emptypb.Empty{})
	if err != nil {
		return nil, mapError(err)
	}
	return resp.Names, nil
}
