package service

import (
	"context"
	"io"

	"go.uber.org/zap"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/internal/importer"
	"riderDeliveryPortal/internal/retry"
	"riderDeliveryPortal/models"
	"riderDeliveryPortal/repository"
)

// OrderService is the administrative surface over orders plus the read paths riders use.
type OrderService struct {
	deps
	orders     repository.OrderRepositoryI
	importMode importer.Mode
}

func NewOrderService(orders repository.OrderRepositoryI, importMode importer.Mode, log *zap.Logger, policy retry.Policy) *OrderService {
	return &OrderService{deps: newDeps(log, policy), orders: orders, importMode: importMode}
}

func (s *OrderService) Create(ctx context.Context, d models.OrderDraft) (*models.Order, error) {
	o, err := s.orders.Create(ctx, d)
	if err != nil {
		s.logOutcome(ctx, "create order failed", err)
		return nil, err
	}
	s.logger(ctx).Info("order created", zap.String("order_id", o.ID), zap.String("order_number", o.OrderNumber))
	return o, nil
}

// Import parses a spreadsheet and creates all of its orders atomically.
func (s *OrderService) Import(ctx context.Context, filename string, body io.Reader) ([]*models.Order, error) {
	format, err := importer.FormatFromFilename(filename)
	if err != nil {
		return nil, err
	}
	drafts, err := importer.Parse(body, format, s.importMode)
	if err != nil {
		s.logOutcome(ctx, "import rejected", err, zap.String("file", filename))
		return nil, err
	}
	if len(drafts) == 0 {
		return nil, apperr.Errorf(apperr.ValidationFailure, "orders.import", "%s contains no orders", filename)
	}
	out, err := s.orders.CreateBatch(ctx, drafts)
	if err != nil {
		s.logOutcome(ctx, "import failed", err, zap.String("file", filename))
		return nil, err
	}
	s.logger(ctx).Info("orders imported", zap.String("file", filename), zap.Int("count", len(out)))
	return out, nil
}

func (s *OrderService) Get(ctx context.Context, id string) (*models.Order, error) {
	return read(ctx, s.deps, "orders.get", func(ctx context.Context) (*models.Order, error) {
		return s.orders.GetByID(ctx, id)
	})
}

// Update applies an administrator's patch.
func (s *OrderService) Update(ctx context.Context, id string, p models.OrderPatch) (*models.Order, error) {
	if p.Empty() {
		return nil, apperr.Errorf(apperr.ValidationFailure, "orders.update", "nothing to update")
	}
	o, err := s.orders.Update(ctx, id, p)
	if err != nil {
		s.logOutcome(ctx, "update order failed", err, zap.String("order_id", id))
		return nil, err
	}
	s.logger(ctx).Info("order updated", zap.String("order_id", id), zap.String("status", string(o.Status)))
	return o, nil
}

// Delete removes the order. Its uploaded images are not deleted.
func (s *OrderService) Delete(ctx context.Context, id string) error {
	if err := s.orders.Delete(ctx, id); err != nil {
		s.logOutcome(ctx, "delete order failed", err, zap.String("order_id", id))
		return err
	}
	s.logger(ctx).Info("order deleted", zap.String("order_id", id))
	return nil
}

func (s *OrderService) List(ctx context.Context, p repository.ListOrdersParams) (repository.OrderPage, error) {
	return read(ctx, s.deps, "orders.list", func(ctx context.Context) (repository.OrderPage, error) {
		return s.orders.List(ctx, p)
	})
}

func (s *OrderService) Count(ctx context.Context, f repository.OrderFilter) (int64, error) {
	return read(ctx, s.deps, "orders.count", func(ctx context.Context) (int64, error) {
		return s.orders.Count(ctx, f)
	})
}

// ListAvailable pages through pending orders, the ones riders may acquire.
func (s *OrderService) ListAvailable(ctx context.Context, pageSize int, pageToken string) (repository.OrderPage, error) {
	return s.List(ctx, repository.ListOrdersParams{
		OrderFilter: repository.OrderFilter{Statuses: []models.OrderStatus{models.OrderStatusPending}},
		PageSize:    pageSize,
		PageToken:   pageToken,
	})
}

// ListByRider returns every order of the rider, optionally narrowed to statuses.
func (s *OrderService) ListByRider(ctx context.Context, riderID string, statuses []models.OrderStatus) ([]*models.Order, error) {
	all, err := read(ctx, s.deps, "orders.list_by_rider", func(ctx context.Context) ([]*models.Order, error) {
		return s.orders.ListByRider(ctx, riderID)
	})
	if err != nil || len(statuses) == 0 {
		return all, err
	}
	want := make(map[models.OrderStatus]bool, len(statuses))
	for _, st := range statuses {
		want[st] = true
	}
	out := make([]*models.Order, 0, len(all))
	for _, o := range all {
		if want[o.Status] {
			out = append(out, o)
		}
	}
	return out, nil
}
