package grpcserver

import (
	"context"

	portalv1 "riderDeliveryPortal/api/portal/v1"
	"riderDeliveryPortal/internal/auth"
)

// ProfileServer implements portal.v1.ProfileService. The first call of a new
// identity creates its profile.
type ProfileServer struct {
	*Services
}

func (s *ProfileServer) GetProfile(ctx context.Context, _ *portalv1.Empty) (*portalv1.UserResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	u, err := s.Profiles.Get(ctx, p.UserID, p.Email, p.Role)
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.UserResponse{User: toWireUser(u)}, nil
}

func (s *ProfileServer) UpdateProfile(ctx context.Context, req *portalv1.UpdateProfileRequest) (*portalv1.UserResponse, error) {
	p, err := auth.RequirePrincipal(ctx)
	if err != nil {
		return nil, err
	}
	if req == nil {
		req = &portalv1.UpdateProfileRequest{}
	}
	u, err := s.Profiles.Update(ctx, p.UserID, p.Email, p.Role, profilePatchFromWire(req))
	if err != nil {
		return nil, toStatus(err)
	}
	return &portalv1.UserResponse{User: toWireUser(u)}, nil
}
