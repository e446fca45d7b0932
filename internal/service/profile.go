package service

import (
	"context"

	"go.uber.org/zap"

	"riderDeliveryPortal/internal/retry"
	"riderDeliveryPortal/models"
	"riderDeliveryPortal/repository"
)

// ProfileService lets any signed-in user read and edit their own profile.
// The profile is created on first access.
type ProfileService struct {
	deps
	users repository.UserRepositoryI
}

func NewProfileService(users repository.UserRepositoryI, log *zap.Logger, policy retry.Policy) *ProfileService {
	return &ProfileService{deps: newDeps(log, policy), users: users}
}

func (s *ProfileService) Get(ctx context.Context, userID, email string, role models.Role) (*models.User, error) {
	return s.users.EnsureProfile(ctx, userID, email, role)
}

func (s *ProfileService) Update(ctx context.Context, userID, email string, role models.Role, p models.ProfilePatch) (*models.User, error) {
	if _, err := s.users.EnsureProfile(ctx, userID, email, role); err != nil {
		return nil, err
	}
	u, err := s.users.UpdateProfile(ctx, userID, p)
	if err != nil {
		s.logOutcome(ctx, "update profile failed", err, zap.String("user_id", userID))
		return nil, err
	}
	s.logger(ctx).Info("profile updated", zap.String("user_id", userID))
	return u, nil
}
