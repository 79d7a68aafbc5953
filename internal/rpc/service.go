package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

const ServiceName = "tripshare.TripPlanner"

const (
	MethodPing                = "/" + ServiceName + "/Ping"
	MethodLogin               = "/" + ServiceName + "/Login"
	MethodListUsers           = "/" + ServiceName + "/ListUsers"
	MethodCreateUser          = "/" + ServiceName + "/CreateUser"
	MethodUpdateUser          = "/" + ServiceName + "/UpdateUser"
	MethodDeleteUser          = "/" + ServiceName + "/DeleteUser"
	MethodListPlans           = "/" + ServiceName + "/ListPlans"
	MethodSubmitPlan          = "/" + ServiceName + "/SubmitPlan"
	MethodListAllocations     = "/" + ServiceName + "/ListAllocations"
	MethodGenerateAllocations = "/" + ServiceName + "/GenerateAllocations"
	MethodListHolidays        = "/" + ServiceName + "/ListHolidays"
	MethodUpdateHolidays      = "/" + ServiceName + "/UpdateHolidays"
	MethodGetSettings         = "/" + ServiceName + "/GetSettings"
	MethodUpdateSettings      = "/" + ServiceName + "/UpdateSettings"
	MethodListStaleUsers      = "/" + ServiceName + "/ListStaleUsers"
)

// TripPlannerServer is implemented by the gRPC handlers.
type TripPlannerServer interface {
	Ping(context.Context, *emptypb.Empty) (*wrapperspb.StringValue, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	ListUsers(context.Context, *emptypb.Empty) (*ListUsersResponse, error)
	CreateUser(context.Context, *CreateUserRequest) (*UserResponse, error)
	UpdateUser(context.Context, *UpdateUserRequest) (*UserResponse, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*emptypb.Empty, error)
	ListPlans(context.Context, *PeriodRequest) (*PlansResponse, error)
	SubmitPlan(context.Context, *SubmitPlanRequest) (*SubmitPlanResponse, error)
	ListAllocations(context.Context, *PeriodRequest) (*AllocationsResponse, error)
	GenerateAllocations(context.Context, *GenerateRequest) (*AllocationsResponse, error)
	ListHolidays(context.Context, *emptypb.Empty) (*HolidaysResponse, error)
	UpdateHolidays(context.Context, *UpdateHolidaysRequest) (*HolidaysResponse, error)
	GetSettings(context.Context, *emptypb.Empty) (*SettingsResponse, error)
	UpdateSettings(context.Context, *UpdateSettingsRequest) (*SettingsResponse, error)
	ListStaleUsers(context.Context, *emptypb.Empty) (*StaleUsersResponse, error)
}

func RegisterTripPlannerServer(s grpc.ServiceRegistrar, srv TripPlannerServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func unary[Req, Resp any](name string, call func(TripPlannerServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(TripPlannerServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + ServiceName + "/" + name}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(TripPlannerServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ServiceDesc describes the TripPlanner service for grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TripPlannerServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("Ping", TripPlannerServer.Ping),
		unary("Login", TripPlannerServer.Login),
		unary("ListUsers", TripPlannerServer.ListUsers),
		unary("CreateUser", TripPlannerServer.CreateUser),
		unary("UpdateUser", TripPlannerServer.UpdateUser),
		unary("DeleteUser", TripPlannerServer.DeleteUser),
		unary("ListPlans", TripPlannerServer.ListPlans),
		unary("SubmitPlan", TripPlannerServer.SubmitPlan),
		unary("ListAllocations", TripPlannerServer.ListAllocations),
		unary("GenerateAllocations", TripPlannerServer.GenerateAllocations),
		unary("ListHolidays", TripPlannerServer.ListHolidays),
		unary("UpdateHolidays", TripPlannerServer.UpdateHolidays),
		unary("GetSettings", TripPlannerServer.GetSettings),
		unary("UpdateSettings", TripPlannerServer.UpdateSettings),
		unary("ListStaleUsers", TripPlannerServer.ListStaleUsers),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tripshare/rpc",
}

// TripPlannerClient is the client API for the TripPlanner service.
type TripPlannerClient interface {
	Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListUsersResponse, error)
	CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*UserResponse, error)
	UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*UserResponse, error)
	DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*emptypb.Empty, error)
	ListPlans(ctx context.Context, in *PeriodRequest, opts ...grpc.CallOption) (*PlansResponse, error)
	SubmitPlan(ctx context.Context, in *SubmitPlanRequest, opts ...grpc.CallOption) (*SubmitPlanResponse, error)
	ListAllocations(ctx context.Context, in *PeriodRequest, opts ...grpc.CallOption) (*AllocationsResponse, error)
	GenerateAllocations(ctx context.Context, in *GenerateRequest, opts ...grpc.CallOption) (*AllocationsResponse, error)
	ListHolidays(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*HolidaysResponse, error)
	UpdateHolidays(ctx context.Context, in *UpdateHolidaysRequest, opts ...grpc.CallOption) (*HolidaysResponse, error)
	GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*SettingsResponse, error)
	UpdateSettings(ctx context.Context, in *UpdateSettingsRequest, opts ...grpc.CallOption) (*SettingsResponse, error)
	ListStaleUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StaleUsersResponse, error)
}

type tripPlannerClient struct {
	cc grpc.ClientConnInterface
}

func NewTripPlannerClient(cc grpc.ClientConnInterface) TripPlannerClient {
	return &tripPlannerClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *tripPlannerClient) Ping(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*wrapperspb.StringValue, error) {
	return invoke[wrapperspb.StringValue](ctx, c.cc, MethodPing, in, opts)
}

func (c *tripPlannerClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *tripPlannerClient) ListUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*ListUsersResponse, error) {
	return invoke[ListUsersResponse](ctx, c.cc, MethodListUsers, in, opts)
}

func (c *tripPlannerClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, MethodCreateUser, in, opts)
}

func (c *tripPlannerClient) UpdateUser(ctx context.Context, in *UpdateUserRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, MethodUpdateUser, in, opts)
}

func (c *tripPlannerClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpc.CallOption) (*emptypb.Empty, error) {
	return invoke[emptypb.Empty](ctx, c.cc, MethodDeleteUser, in, opts)
}

func (c *tripPlannerClient) ListPlans(ctx context.Context, in *PeriodRequest, opts ...grpc.CallOption) (*PlansResponse, error) {
	return invoke[PlansResponse](ctx, c.cc, MethodListPlans, in, opts)
}

func (c *tripPlannerClient) SubmitPlan(ctx context.Context, in *SubmitPlanRequest, opts ...grpc.CallOption) (*SubmitPlanResponse, error) {
	return invoke[SubmitPlanResponse](ctx, c.cc, MethodSubmitPlan, in, opts)
}

func (c *tripPlannerClient) ListAllocations(ctx context.Context, in *PeriodRequest, opts ...grpc.CallOption) (*AllocationsResponse, error) {
	return invoke[AllocationsResponse](ctx, c.cc, MethodListAllocations, in, opts)
}

func (c *tripPlannerClient) GenerateAllocations(ctx context.Context, in *GenerateRequest, opts ...grpc.CallOption) (*AllocationsResponse, error) {
	return invoke[AllocationsResponse](ctx, c.cc, MethodGenerateAllocations, in, opts)
}

func (c *tripPlannerClient) ListHolidays(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*HolidaysResponse, error) {
	return invoke[HolidaysResponse](ctx, c.cc, MethodListHolidays, in, opts)
}

func (c *tripPlannerClient) UpdateHolidays(ctx context.Context, in *UpdateHolidaysRequest, opts ...grpc.CallOption) (*HolidaysResponse, error) {
	return invoke[HolidaysResponse](ctx, c.cc, MethodUpdateHolidays, in, opts)
}

func (c *tripPlannerClient) GetSettings(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*SettingsResponse, error) {
	return invoke[SettingsResponse](ctx, c.cc, MethodGetSettings, in, opts)
}

func (c *tripPlannerClient) UpdateSettings(ctx context.Context, in *UpdateSettingsRequest, opts ...grpc.CallOption) (*SettingsResponse, error) {
	return invoke[SettingsResponse](ctx, c.cc, MethodUpdateSettings, in, opts)
}

func (c *tripPlannerClient) ListStaleUsers(ctx context.Context, in *emptypb.Empty, opts ...grpc.CallOption) (*StaleUsersResponse, error) {
	return invoke[StaleUsersResponse](ctx, c.cc, MethodListStaleUsers, in, opts)
}
