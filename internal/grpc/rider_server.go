package grpcserver

import (
	"bytes"
	"context"
	"strings"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	portalv1 "riderDeliveryPortal/api/portal/v1"
	"riderDeliveryPortal/internal/auth"
	"riderDeliveryPortal/internal/service"
	"riderDeliveryPortal/models"
)

// RiderServer implements portal.v1.RiderService. Admins may call it too;
// writes are then not restricted to their own orders.
type RiderServer struct {
	*Services
}

func actorOf(p *auth.Principal) service.Actor {
	return service.Actor{UserID: p.UserID, Admin: p.IsAdmin()}
}

// ListAvailableOrders pages through pending orders.
func (s *RiderServer) ListAvailableOrders(ctx context.Context, req *portalv1.ListAvailableOrdersRequest) (*portalv1.ListOrdersResponse, error) {
	if _, err := auth.RequireRiderOrAdmin(ctx); err != nil {
		return nil, err
	}
	if req == nil {
		req = &portalv1.ListAvailableOrdersRequest{}
	}
	page, err := s.Orders.ListAvailable(ctx, int(req.PageSize), strings.TrimSpace(req.PageToken))
	if err != nil {
		return nil, toStatus(err)
	}
	return toWirePage(page), nil
}

// AcquireOrder assigns a pending order to the calling rider. Exactly one of
// several concurrent callers wins; the others get Aborted.
func (s *RiderServer) AcquireOrder(ctx context.Context, req *portalv1.AcquireOrderRequest) (*portalv1.OrderResponse, error) {
	p, err := auth.RequireRole(ctx, models.RoleRider)
	if err != nil {
		return nil, err
	}
	if req == nil || req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	o, err := s.Assignment.Acquire(ctx, req.OrderID, p.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.OrderResponse{Order: toWireOrder(o)}, nil
}

func (s *RiderServer) MarkPicked(ctx context.Context, req *portalv1.MarkPickedRequest) (*portalv1.OrderResponse, error) {
	p, err := auth.RequireRiderOrAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil || req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	o, err := s.Assignment.MarkPicked(ctx, actorOf(p), req.OrderID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.OrderResponse{Order: toWireOrder(o)}, nil
}

// UploadPODAsset stores a proof-of-delivery image and returns the reference to
// pass to SubmitPOD.
func (s *RiderServer) UploadPODAsset(ctx context.Context, req *portalv1.UploadPODAssetRequest) (*portalv1.UploadPODAssetResponse, error) {
	p, err := auth.RequireRiderOrAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil || req.OrderID == "" || len(req.Content) == 0 {
		return nil, status.Error(codes.InvalidArgument, "order_id and content are required")
	}
	a, err := s.POD.UploadAsset(ctx, actorOf(p), req.OrderID, service.Upload{
		Filename:    req.Filename,
		ContentType: req.ContentType,
		Body:        bytes.NewReader(req.Content),
	})
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.UploadPODAssetResponse{Key: a.Key, URL: a.URL}, nil
}

// SubmitPOD marks the order delivered and attaches the uploaded reference.
func (s *RiderServer) SubmitPOD(ctx context.Context, req *portalv1.SubmitPODRequest) (*portalv1.OrderResponse, error) {
	p, err := auth.RequireRiderOrAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil || req.OrderID == "" {
		return nil, status.Error(codes.InvalidArgument, "order_id is required")
	}
	o, err := s.POD.SubmitPOD(ctx, actorOf(p), req.OrderID, strings.TrimSpace(req.AssetRef), req.Notes, fromWireLocation(req.Location))
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.OrderResponse{Order: toWireOrder(o)}, nil
}

func (s *RiderServer) ListMyOrders(ctx context.Context, req *portalv1.ListMyOrdersRequest) (*portalv1.ListOrdersResponse, error) {
	p, err := auth.RequireRiderOrAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &portalv1.ListMyOrdersRequest{}
	}
	statuses := statusesFromWire(req.Statuses)
	for _, st := range statuses {
		if !st.IsValid() {
			return nil, status.Errorf(codes.InvalidArgument, "unknown status %q", st)
		}
	}
	list, err := s.Orders.ListByRider(ctx, p.UserID, statuses)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.ListOrdersResponse{Orders: toWireOrders(list)}, nil
}

func (s *RiderServer) GetMyStats(ctx context.Context, _ *portalv1.Empty) (*portalv1.StatsResponse, error) {
	p, err := auth.RequireRiderOrAdmin(ctx)
	if err != nil {
		return nil, err
	}
	st, err := s.Stats.ComputeStats(ctx, p.UserID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.StatsResponse{Stats: toWireStats(st)}, nil
}
