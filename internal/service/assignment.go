package service

import (
	"context"

	"go.uber.org/zap"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/internal/retry"
	"riderDeliveryPortal/models"
	"riderDeliveryPortal/repository"
)

// AssignmentService binds pending orders to riders and moves them through pickup
// and cancellation. Conflicts are reported to the caller and never retried here.
type AssignmentService struct {
	deps
	orders repository.OrderRepositoryI
	users  repository.UserRepositoryI
}

func NewAssignmentService(orders repository.OrderRepositoryI, users repository.UserRepositoryI, log *zap.Logger, policy retry.Policy) *AssignmentService {
	return &AssignmentService{deps: newDeps(log, policy), orders: orders, users: users}
}

// Acquire lets a rider claim a pending order. Of any number of concurrent
// acquirers exactly one succeeds; the others get apperr.Conflict.
func (s *AssignmentService) Acquire(ctx context.Context, orderID, riderID string) (*models.Order, error) {
	return s.assign(ctx, "assignment.acquire", orderID, riderID)
}

// AssignByAdmin assigns a pending order to the given rider on an administrator's behalf.
func (s *AssignmentService) AssignByAdmin(ctx context.Context, orderID, riderID string) (*models.Order, error) {
	return s.assign(ctx, "assignment.assign_by_admin", orderID, riderID)
}

func (s *AssignmentService) assign(ctx context.Context, op, orderID, riderID string) (*models.Order, error) {
	rider, err := s.activeRider(ctx, op, riderID)
	if err != nil {
		s.logOutcome(ctx, "assign rejected", err, zap.String("order_id", orderID), zap.String("rider_id", riderID))
		return nil, err
	}
	o, err := s.orders.Assign(ctx, orderID, models.RiderRef{ID: rider.ID, Name: rider.DisplayName(), Phone: rider.Phone})
	if err != nil {
		s.logOutcome(ctx, "assign failed", err, zap.String("order_id", orderID), zap.String("rider_id", riderID))
		return nil, err
	}
	s.logger(ctx).Info("order assigned", zap.String("order_id", o.ID), zap.String("rider_id", o.RiderID))
	return o, nil
}

// activeRider loads the assignee; it must be an active rider.
func (s *AssignmentService) activeRider(ctx context.Context, op, riderID string) (*models.User, error) {
	if riderID == "" {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "rider id is required")
	}
	u, err := read(ctx, s.deps, op, func(ctx context.Context) (*models.User, error) {
		return s.users.GetByID(ctx, riderID)
	})
	if apperr.Is(err, apperr.NotFound) {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "rider %q does not exist", riderID)
	}
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleRider {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "user %q is not a rider", riderID)
	}
	if u.AccountStatus != models.AccountStatusActive {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "rider %q is %s", riderID, u.AccountStatus)
	}
	return u, nil
}

// MarkPicked records that the rider collected the parcel. Riders may only pick
// their own orders.
func (s *AssignmentService) MarkPicked(ctx context.Context, actor Actor, orderID string) (*models.Order, error) {
	o, err := s.orders.MarkPicked(ctx, orderID, actor.riderScope())
	if err != nil {
		s.logOutcome(ctx, "mark picked failed", err, zap.String("order_id", orderID), zap.String("actor", actor.UserID))
		return nil, err
	}
	s.logger(ctx).Info("order picked", zap.String("order_id", o.ID), zap.String("rider_id", o.RiderID))
	return o, nil
}

// Cancel cancels an assigned or picked order.
func (s *AssignmentService) Cancel(ctx context.Context, orderID string) (*models.Order, error) {
	o, err := s.orders.Cancel(ctx, orderID)
	if err != nil {
		s.logOutcome(ctx, "cancel failed", err, zap.String("order_id", orderID))
		return nil, err
	}
	s.logger(ctx).Info("order cancelled", zap.String("order_id", o.ID), zap.String("rider_id", o.RiderID))
	return o, nil
}
