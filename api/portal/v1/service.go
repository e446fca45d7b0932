package portalv1

import (
	"context"

	"google.golang.org/grpc"
)

const metadataFile = "portal/v1/portal.proto"

// unary builds a method handler that decodes Req and dispatches to call,
// running the server's interceptors when present.
func unary[S, Req, Resp any](fullMethod string, call func(S, context.Context, *Req) (*Resp, error)) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(S), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(S), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(ContentSubtype)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// ---------------------------------------------------------------------------
// portal.v1.AdminService

const (
	AdminService_CreateOrder_FullMethodName     = "/portal.v1.AdminService/CreateOrder"
	AdminService_ImportOrders_FullMethodName    = "/portal.v1.AdminService/ImportOrders"
	AdminService_GetOrder_FullMethodName        = "/portal.v1.AdminService/GetOrder"
	AdminService_UpdateOrder_FullMethodName     = "/portal.v1.AdminService/UpdateOrder"
	AdminService_DeleteOrder_FullMethodName     = "/portal.v1.AdminService/DeleteOrder"
	AdminService_ListOrders_FullMethodName      = "/portal.v1.AdminService/ListOrders"
	AdminService_CountOrders_FullMethodName     = "/portal.v1.AdminService/CountOrders"
	AdminService_AssignOrder_FullMethodName     = "/portal.v1.AdminService/AssignOrder"
	AdminService_CancelOrder_FullMethodName     = "/portal.v1.AdminService/CancelOrder"
	AdminService_ListRiders_FullMethodName      = "/portal.v1.AdminService/ListRiders"
	AdminService_GetRiderDetails_FullMethodName = "/portal.v1.AdminService/GetRiderDetails"
	AdminService_SetRiderStatus_FullMethodName  = "/portal.v1.AdminService/SetRiderStatus"
	AdminService_ReconcileAssets_FullMethodName = "/portal.v1.AdminService/ReconcileAssets"
)

// AdminServiceServer is the server API for portal.v1.AdminService.
type AdminServiceServer interface {
	CreateOrder(context.Context, *CreateOrderRequest) (*OrderResponse, error)
	ImportOrders(context.Context, *ImportOrdersRequest) (*ImportOrdersResponse, error)
	GetOrder(context.Context, *GetOrderRequest) (*OrderResponse, error)
	UpdateOrder(context.Context, *UpdateOrderRequest) (*OrderResponse, error)
	DeleteOrder(context.Context, *DeleteOrderRequest) (*Empty, error)
	ListOrders(context.Context, *ListOrdersRequest) (*ListOrdersResponse, error)
	CountOrders(context.Context, *CountOrdersRequest) (*CountOrdersResponse, error)
	AssignOrder(context.Context, *AssignOrderRequest) (*OrderResponse, error)
	CancelOrder(context.Context, *CancelOrderRequest) (*OrderResponse, error)
	ListRiders(context.Context, *Empty) (*ListRidersResponse, error)
	GetRiderDetails(context.Context, *GetRiderDetailsRequest) (*RiderDetailsResponse, error)
	SetRiderStatus(context.Context, *SetRiderStatusRequest) (*UserResponse, error)
	ReconcileAssets(context.Context, *Empty) (*ReconcileAssetsResponse, error)
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "portal.v1.AdminService",
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "CreateOrder", Handler: unary(AdminService_CreateOrder_FullMethodName, AdminServiceServer.CreateOrder)},
		{MethodName: "ImportOrders", Handler: unary(AdminService_ImportOrders_FullMethodName, AdminServiceServer.ImportOrders)},
		{MethodName: "GetOrder", Handler: unary(AdminService_GetOrder_FullMethodName, AdminServiceServer.GetOrder)},
		{MethodName: "UpdateOrder", Handler: unary(AdminService_UpdateOrder_FullMethodName, AdminServiceServer.UpdateOrder)},
		{MethodName: "DeleteOrder", Handler: unary(AdminService_DeleteOrder_FullMethodName, AdminServiceServer.DeleteOrder)},
		{MethodName: "ListOrders", Handler: unary(AdminService_ListOrders_FullMethodName, AdminServiceServer.ListOrders)},
		{MethodName: "CountOrders", Handler: unary(AdminService_CountOrders_FullMethodName, AdminServiceServer.CountOrders)},
		{MethodName: "AssignOrder", Handler: unary(AdminService_AssignOrder_FullMethodName, AdminServiceServer.AssignOrder)},
		{MethodName: "CancelOrder", Handler: unary(AdminService_CancelOrder_FullMethodName, AdminServiceServer.CancelOrder)},
		{MethodName: "ListRiders", Handler: unary(AdminService_ListRiders_FullMethodName, AdminServiceServer.ListRiders)},
		{MethodName: "GetRiderDetails", Handler: unary(AdminService_GetRiderDetails_FullMethodName, AdminServiceServer.GetRiderDetails)},
		{MethodName: "SetRiderStatus", Handler: unary(AdminService_SetRiderStatus_FullMethodName, AdminServiceServer.SetRiderStatus)},
		{MethodName: "ReconcileAssets", Handler: unary(AdminService_ReconcileAssets_FullMethodName, AdminServiceServer.ReconcileAssets)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: metadataFile,
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

// AdminServiceClient is the client API for portal.v1.AdminService.
type AdminServiceClient interface {
	CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	ImportOrders(ctx context.Context, in *ImportOrdersRequest, opts ...grpc.CallOption) (*ImportOrdersResponse, error)
	GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	UpdateOrder(ctx context.Context, in *UpdateOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	DeleteOrder(ctx context.Context, in *DeleteOrderRequest, opts ...grpc.CallOption) (*Empty, error)
	ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error)
	CountOrders(ctx context.Context, in *CountOrdersRequest, opts ...grpc.CallOption) (*CountOrdersResponse, error)
	AssignOrder(ctx context.Context, in *AssignOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	CancelOrder(ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	ListRiders(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListRidersResponse, error)
	GetRiderDetails(ctx context.Context, in *GetRiderDetailsRequest, opts ...grpc.CallOption) (*RiderDetailsResponse, error)
	SetRiderStatus(ctx context.Context, in *SetRiderStatusRequest, opts ...grpc.CallOption) (*UserResponse, error)
	ReconcileAssets(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ReconcileAssetsResponse, error)
}

type adminServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) AdminServiceClient {
	return &adminServiceClient{cc}
}

func (c *adminServiceClient) CreateOrder(ctx context.Context, in *CreateOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, AdminService_CreateOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) ImportOrders(ctx context.Context, in *ImportOrdersRequest, opts ...grpc.CallOption) (*ImportOrdersResponse, error) {
	return invoke[ImportOrdersResponse](ctx, c.cc, AdminService_ImportOrders_FullMethodName, in, opts)
}

func (c *adminServiceClient) GetOrder(ctx context.Context, in *GetOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, AdminService_GetOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) UpdateOrder(ctx context.Context, in *UpdateOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, AdminService_UpdateOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) DeleteOrder(ctx context.Context, in *DeleteOrderRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, AdminService_DeleteOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) ListOrders(ctx context.Context, in *ListOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, AdminService_ListOrders_FullMethodName, in, opts)
}

func (c *adminServiceClient) CountOrders(ctx context.Context, in *CountOrdersRequest, opts ...grpc.CallOption) (*CountOrdersResponse, error) {
	return invoke[CountOrdersResponse](ctx, c.cc, AdminService_CountOrders_FullMethodName, in, opts)
}

func (c *adminServiceClient) AssignOrder(ctx context.Context, in *AssignOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, AdminService_AssignOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) CancelOrder(ctx context.Context, in *CancelOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, AdminService_CancelOrder_FullMethodName, in, opts)
}

func (c *adminServiceClient) ListRiders(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ListRidersResponse, error) {
	return invoke[ListRidersResponse](ctx, c.cc, AdminService_ListRiders_FullMethodName, in, opts)
}

func (c *adminServiceClient) GetRiderDetails(ctx context.Context, in *GetRiderDetailsRequest, opts ...grpc.CallOption) (*RiderDetailsResponse, error) {
	return invoke[RiderDetailsResponse](ctx, c.cc, AdminService_GetRiderDetails_FullMethodName, in, opts)
}

func (c *adminServiceClient) SetRiderStatus(ctx context.Context, in *SetRiderStatusRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, AdminService_SetRiderStatus_FullMethodName, in, opts)
}

func (c *adminServiceClient) ReconcileAssets(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ReconcileAssetsResponse, error) {
	return invoke[ReconcileAssetsResponse](ctx, c.cc, AdminService_ReconcileAssets_FullMethodName, in, opts)
}

// ---------------------------------------------------------------------------
// portal.v1.RiderService

const (
	RiderService_ListAvailableOrders_FullMethodName = "/portal.v1.RiderService/ListAvailableOrders"
	RiderService_AcquireOrder_FullMethodName        = "/portal.v1.RiderService/AcquireOrder"
	RiderService_MarkPicked_FullMethodName          = "/portal.v1.RiderService/MarkPicked"
	RiderService_UploadPODAsset_FullMethodName      = "/portal.v1.RiderService/UploadPODAsset"
	RiderService_SubmitPOD_FullMethodName           = "/portal.v1.RiderService/SubmitPOD"
	RiderService_ListMyOrders_FullMethodName        = "/portal.v1.RiderService/ListMyOrders"
	RiderService_GetMyStats_FullMethodName          = "/portal.v1.RiderService/GetMyStats"
)

// RiderServiceServer is the server API for portal.v1.RiderService.
type RiderServiceServer interface {
	ListAvailableOrders(context.Context, *ListAvailableOrdersRequest) (*ListOrdersResponse, error)
	AcquireOrder(context.Context, *AcquireOrderRequest) (*OrderResponse, error)
	MarkPicked(context.Context, *MarkPickedRequest) (*OrderResponse, error)
	UploadPODAsset(context.Context, *UploadPODAssetRequest) (*UploadPODAssetResponse, error)
	SubmitPOD(context.Context, *SubmitPODRequest) (*OrderResponse, error)
	ListMyOrders(context.Context, *ListMyOrdersRequest) (*ListOrdersResponse, error)
	GetMyStats(context.Context, *Empty) (*StatsResponse, error)
}

var RiderService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "portal.v1.RiderService",
	HandlerType: (*RiderServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "ListAvailableOrders", Handler: unary(RiderService_ListAvailableOrders_FullMethodName, RiderServiceServer.ListAvailableOrders)},
		{MethodName: "AcquireOrder", Handler: unary(RiderService_AcquireOrder_FullMethodName, RiderServiceServer.AcquireOrder)},
		{MethodName: "MarkPicked", Handler: unary(RiderService_MarkPicked_FullMethodName, RiderServiceServer.MarkPicked)},
		{MethodName: "UploadPODAsset", Handler: unary(RiderService_UploadPODAsset_FullMethodName, RiderServiceServer.UploadPODAsset)},
		{MethodName: "SubmitPOD", Handler: unary(RiderService_SubmitPOD_FullMethodName, RiderServiceServer.SubmitPOD)},
		{MethodName: "ListMyOrders", Handler: unary(RiderService_ListMyOrders_FullMethodName, RiderServiceServer.ListMyOrders)},
		{MethodName: "GetMyStats", Handler: unary(RiderService_GetMyStats_FullMethodName, RiderServiceServer.GetMyStats)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: metadataFile,
}

func RegisterRiderServiceServer(s grpc.ServiceRegistrar, srv RiderServiceServer) {
	s.RegisterService(&RiderService_ServiceDesc, srv)
}

// RiderServiceClient is the client API for portal.v1.RiderService.
type RiderServiceClient interface {
	ListAvailableOrders(ctx context.Context, in *ListAvailableOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error)
	AcquireOrder(ctx context.Context, in *AcquireOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	MarkPicked(ctx context.Context, in *MarkPickedRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	UploadPODAsset(ctx context.Context, in *UploadPODAssetRequest, opts ...grpc.CallOption) (*UploadPODAssetResponse, error)
	SubmitPOD(ctx context.Context, in *SubmitPODRequest, opts ...grpc.CallOption) (*OrderResponse, error)
	ListMyOrders(ctx context.Context, in *ListMyOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error)
	GetMyStats(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StatsResponse, error)
}

type riderServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewRiderServiceClient(cc grpc.ClientConnInterface) RiderServiceClient {
	return &riderServiceClient{cc}
}

func (c *riderServiceClient) ListAvailableOrders(ctx context.Context, in *ListAvailableOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, RiderService_ListAvailableOrders_FullMethodName, in, opts)
}

func (c *riderServiceClient) AcquireOrder(ctx context.Context, in *AcquireOrderRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, RiderService_AcquireOrder_FullMethodName, in, opts)
}

func (c *riderServiceClient) MarkPicked(ctx context.Context, in *MarkPickedRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, RiderService_MarkPicked_FullMethodName, in, opts)
}

func (c *riderServiceClient) UploadPODAsset(ctx context.Context, in *UploadPODAssetRequest, opts ...grpc.CallOption) (*UploadPODAssetResponse, error) {
	return invoke[UploadPODAssetResponse](ctx, c.cc, RiderService_UploadPODAsset_FullMethodName, in, opts)
}

func (c *riderServiceClient) SubmitPOD(ctx context.Context, in *SubmitPODRequest, opts ...grpc.CallOption) (*OrderResponse, error) {
	return invoke[OrderResponse](ctx, c.cc, RiderService_SubmitPOD_FullMethodName, in, opts)
}

func (c *riderServiceClient) ListMyOrders(ctx context.Context, in *ListMyOrdersRequest, opts ...grpc.CallOption) (*ListOrdersResponse, error) {
	return invoke[ListOrdersResponse](ctx, c.cc, RiderService_ListMyOrders_FullMethodName, in, opts)
}

func (c *riderServiceClient) GetMyStats(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*StatsResponse, error) {
	return invoke[StatsResponse](ctx, c.cc, RiderService_GetMyStats_FullMethodName, in, opts)
}

// ---------------------------------------------------------------------------
// portal.v1.ProfileService

const (
	ProfileService_GetProfile_FullMethodName    = "/portal.v1.ProfileService/GetProfile"
	ProfileService_UpdateProfile_FullMethodName = "/portal.v1.ProfileService/UpdateProfile"
)

// ProfileServiceServer is the server API for portal.v1.ProfileService.
type ProfileServiceServer interface {
	GetProfile(context.Context, *Empty) (*UserResponse, error)
	UpdateProfile(context.Context, *UpdateProfileRequest) (*UserResponse, error)
}

var ProfileService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "portal.v1.ProfileService",
	HandlerType: (*ProfileServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetProfile", Handler: unary(ProfileService_GetProfile_FullMethodName, ProfileServiceServer.GetProfile)},
		{MethodName: "UpdateProfile", Handler: unary(ProfileService_UpdateProfile_FullMethodName, ProfileServiceServer.UpdateProfile)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: metadataFile,
}

func RegisterProfileServiceServer(s grpc.ServiceRegistrar, srv ProfileServiceServer) {
	s.RegisterService(&ProfileService_ServiceDesc, srv)
}

// ProfileServiceClient is the client API for portal.v1.ProfileService.
type ProfileServiceClient interface {
	GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*UserResponse, error)
	UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*UserResponse, error)
}

type profileServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewProfileServiceClient(cc grpc.ClientConnInterface) ProfileServiceClient {
	return &profileServiceClient{cc}
}

func (c *profileServiceClient) GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, ProfileService_GetProfile_FullMethodName, in, opts)
}

func (c *profileServiceClient) UpdateProfile(ctx context.Context, in *UpdateProfileRequest, opts ...grpc.CallOption) (*UserResponse, error) {
	return invoke[UserResponse](ctx, c.cc, ProfileService_UpdateProfile_FullMethodName, in, opts)
}
