package service

import (
	"context"

	"go.uber.org/zap"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/internal/retry"
	"riderDeliveryPortal/models"
	"riderDeliveryPortal/repository"
)

// RiderWithStats pairs a rider profile with its counters.
type RiderWithStats struct {
	Rider *models.User      `json:"rider"`
	Stats models.RiderStats `json:"stats"`
}

// RiderDetails is everything the rider detail page shows.
type RiderDetails struct {
	Rider  *models.User      `json:"rider"`
	Stats  models.RiderStats `json:"stats"`
	Orders []*models.Order   `json:"orders"`
}

// StatsService derives rider statistics from the orders table on every call.
type StatsService struct {
	deps
	orders repository.OrderRepositoryI
	users  repository.UserRepositoryI
}

func NewStatsService(orders repository.OrderRepositoryI, users repository.UserRepositoryI, log *zap.Logger, policy retry.Policy) *StatsService {
	return &StatsService{deps: newDeps(log, policy), orders: orders, users: users}
}

// ComputeStats counts the rider's delivered, picked and active orders.
// A rider without orders gets zero counters.
func (s *StatsService) ComputeStats(ctx context.Context, riderID string) (models.RiderStats, error) {
	return read(ctx, s.deps, "stats.compute", func(ctx context.Context) (models.RiderStats, error) {
		return s.orders.RiderStats(ctx, riderID)
	})
}

// ListRidersWithStats returns every rider with counters, oldest account first.
func (s *StatsService) ListRidersWithStats(ctx context.Context) ([]RiderWithStats, error) {
	riders, err := read(ctx, s.deps, "stats.list_riders", func(ctx context.Context) ([]*models.User, error) {
		return s.users.ListByRole(ctx, models.RoleRider)
	})
	if err != nil {
		return nil, err
	}
	out := make([]RiderWithStats, 0, len(riders))
	for _, r := range riders {
		st, err := s.ComputeStats(ctx, r.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, RiderWithStats{Rider: r, Stats: st})
	}
	return out, nil
}

// RiderDetails returns the rider, its counters and all of its orders.
func (s *StatsService) RiderDetails(ctx context.Context, riderID string) (*RiderDetails, error) {
	const op = "stats.rider_details"
	u, err := read(ctx, s.deps, op, func(ctx context.Context) (*models.User, error) {
		return s.users.GetByID(ctx, riderID)
	})
	if err != nil {
		return nil, err
	}
	if u.Role != models.RoleRider {
		return nil, apperr.Errorf(apperr.NotFound, op, "rider %q not found", riderID)
	}
	st, err := s.ComputeStats(ctx, riderID)
	if err != nil {
		return nil, err
	}
	orders, err := read(ctx, s.deps, op, func(ctx context.Context) ([]*models.Order, error) {
		return s.orders.ListByRider(ctx, riderID)
	})
	if err != nil {
		return nil, err
	}
	return &RiderDetails{Rider: u, Stats: st, Orders: orders}, nil
}

// SetRiderStatus activates or deactivates a rider account.
func (s *StatsService) SetRiderStatus(ctx context.Context, riderID string, status models.AccountStatus) (*models.User, error) {
	u, err := s.users.SetAccountStatus(ctx, riderID, status)
	if err != nil {
		s.logOutcome(ctx, "set rider status failed", err, zap.String("rider_id", riderID))
		return nil, err
	}
	s.logger(ctx).Info("rider status changed", zap.String("rider_id", riderID), zap.String("status", string(u.AccountStatus)))
	return u, nil
}
