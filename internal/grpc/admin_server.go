package grpcserver

import (
	"bytes"
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	portalv1 "riderDeliveryPortal/api/portal/v1"
	"riderDeliveryPortal/internal/auth"
	"riderDeliveryPortal/models"
	"riderDeliveryPortal/repository"
)

// AdminServer implements portal.v1.AdminService.
type AdminServer struct {
	*Services
}

// Every admin call re-checks the stored role; see auth.RequireAdmin.

// CreateOrder creates a pending order. Status, rider and POD fields of the request are ignored.
func (s *AdminServer) CreateOrder(ctx context.Context, req *portalv1.CreateOrderRequest) (*portalv1.OrderResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || req.Order == nil {
		return nil, status.Error(codes.InvalidArgument, "order is required")
	}
	o, err := s.Orders.Create(ctx, draftFromWire(req.Order))
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.OrderResponse{Order: toWireOrder(o)}, nil
}

// ImportOrders creates one pending order per spreadsheet row.
func (s *AdminServer) ImportOrders(ctx context.Context, req *portalv1.ImportOrdersRequest) (*portalv1.ImportOrdersResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || strings.TrimSpace(req.Filename) == "" || len(req.Content) == 0 {
		return nil, status.Error(codes.InvalidArgument, "filename and content are required")
	}
	list, err := s.Orders.Import(ctx, req.Filename, bytes.NewReader(req.Content))
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.ImportOrdersResponse{Created: len(list), Orders: toWireOrders(list)}, nil
}

func (s *AdminServer) GetOrder(ctx context.Context, req *portalv1.GetOrderRequest) (*portalv1.OrderResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	o, err := s.Orders.Get(ctx, req.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.OrderResponse{Order: toWireOrder(o)}, nil
}

func (s *AdminServer) UpdateOrder(ctx context.Context, req *portalv1.UpdateOrderRequest) (*portalv1.OrderResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	o, err := s.Orders.Update(ctx, req.ID, patchFromWire(req.Patch))
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.OrderResponse{Order: toWireOrder(o)}, nil
}

func (s *AdminServer) DeleteOrder(ctx context.Context, req *portalv1.DeleteOrderRequest) (*portalv1.Empty, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || req.ID == "" {
		return nil, status.Error(codes.InvalidArgument, "id is required")
	}
	if err := s.Orders.Delete(ctx, req.ID); err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.Empty{}, nil
}

// ListOrders lists orders newest first with optional status and rider filters.
func (s *AdminServer) ListOrders(ctx context.Context, req *portalv1.ListOrdersRequest) (*portalv1.ListOrdersResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil {
		req = &portalv1.ListOrdersRequest{}
	}
	page, err := s.Orders.List(ctx, repository.ListOrdersParams{
		OrderFilter: repository.OrderFilter{Statuses: statusesFromWire(req.Statuses), RiderID: req.RiderID},
		PageSize:    int(req.PageSize),
		PageToken:   strings.TrimSpace(req.PageToken),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return toWirePage(page), nil
}

func (s *AdminServer) CountOrders(ctx context.Context, req *portalv1.CountOrdersRequest) (*portalv1.CountOrdersResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil {
		req = &portalv1.CountOrdersRequest{}
	}
	n, err := s.Orders.Count(ctx, repository.OrderFilter{Statuses: statusesFromWire(req.Statuses), RiderID: req.RiderID})
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.CountOrdersResponse{Count: n}, nil
}

// AssignOrder hands a pending order to an active rider.
func (s *AdminServer) AssignOrder(ctx context.Context, req *portalv1.AssignOrderRequest) (*portalv1.OrderResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || req.OrderID == "" || req.RiderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id and rider_id are required")
	}
	o, err := s.Assignment.AssignByAdmin(ctx, req.OrderID, req.RiderID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.OrderResponse{Order: toWireOrder(o)}, nil
}

func (s *AdminServer) CancelOrder(ctx context.Context, req *portalv1.CancelOrderRequest) (*portalv1.OrderResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	o, err := s.Assignment.Cancel(ctx, req.OrderID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.OrderResponse{Order: toWireOrder(o)}, nil
}

// ListRiders returns every rider with delivered, picked and active counters.
func (s *AdminServer) ListRiders(ctx context.Context, _ *portalv1.Empty) (*portalv1.ListRidersResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	list, err := s.Stats.ListRidersWithStats(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.ListRidersResponse{Riders: toWireRiders(list)}, nil
}

func (s *AdminServer) GetRiderDetails(ctx context.Context, req *portalv1.GetRiderDetailsRequest) (*portalv1.RiderDetailsResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || req.RiderID == "" {
		return nil, status.Error(codes.InvalidArgument, "rider_id is required")
	}
	d, err := s.Stats.RiderDetails(ctx, req.RiderID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.RiderDetailsResponse{
		Rider:  toWireUser(d.Rider),
		Stats:  toWireStats(d.Stats),
		Orders: toWireOrders(d.Orders),
	}, nil
}

func (s *AdminServer) SetRiderStatus(ctx context.Context, req *portalv1.SetRiderStatusRequest) (*portalv1.UserResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if req == nil || req.RiderID == "" || req.Status == "" {
		return nil, status.Error(codes.InvalidArgument, "rider_id and status are required")
	}
	st := models.AccountStatus(strings.ToLower(strings.TrimSpace(req.Status)))
	u, err := s.Stats.SetRiderStatus(ctx, req.RiderID, st)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.UserResponse{User: toWireUser(u)}, nil
}

// ReconcileAssets runs one pass of the orphaned upload collector.
func (s *AdminServer) ReconcileAssets(ctx context.Context, _ *portalv1.Empty) (*portalv1.ReconcileAssetsResponse, error) {
	if _, err := auth.RequireAdmin(ctx, s.Users); err != nil {
		return nil, err
	}
	if s.Reconciler == nil {
		return nil, status.Error(codes.FailedPrecondition, "asset reconciliation is not configured")
	}
	rep, err := s.Reconciler.RunOnce(ctx)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.ReconcileAssetsResponse{
		Scanned:   rep.Scanned,
		Linked:    rep.Linked,
		Collected: rep.Collected,
		Failed:    rep.Failed,
	}, nil
}
