package repository

import (
	"context"
	"database/sql"
	"strings"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/models"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// OrderFilter narrows List and Count. Zero values match everything.
type OrderFilter struct {
	Statuses []models.OrderStatus
	RiderID  *string
}

// ListOrdersParams represents filters and pagination for List.
type ListOrdersParams struct {
	OrderFilter
	PageSize  int
	PageToken string // opaque keyset cursor from a previous OrderPage
}

// OrderPage is one page of List results. NextPageToken is empty on the last page.
type OrderPage struct {
	Orders        []*models.Order
	NextPageToken string
}

func (f OrderFilter) where() ([]string, []any, error) {
	var where []string
	var args []any
	if len(f.Statuses) > 0 {
		placeholders := make([]string, len(f.Statuses))
		for i, s := range f.Statuses {
			if !s.IsValid() {
				return nil, nil, apperr.Errorf(apperr.ValidationFailure, "orders.filter", "unknown status %q", s)
			}
			placeholders[i] = "?"
			args = append(args, string(s))
		}
		where = append(where, "status IN ("+strings.Join(placeholders, ",")+")")
	}
	if f.RiderID != nil {
		where = append(where, "rider_id = ?")
		args = append(args, *f.RiderID)
	}
	return where, args, nil
}

// List returns orders matching the filter ordered by created_at desc, id desc with keyset pagination.
func (r *OrderRepository) List(ctx context.Context, p ListOrdersParams) (OrderPage, error) {
	const op = "orders.list"
	if p.PageSize <= 0 {
		p.PageSize = defaultPageSize
	}
	if p.PageSize > maxPageSize {
		p.PageSize = maxPageSize
	}
	where, args, err := p.where()
	if err != nil {
		return OrderPage{}, err
	}
	if p.PageToken != "" {
		ms, id, err := decodeCursor(p.PageToken)
		if err != nil {
			return OrderPage{}, apperr.New(apperr.ValidationFailure, op, "invalid page token", err)
		}
		where = append(where, "(created_at < ? OR (created_at = ? AND id < ?))")
		args = append(args, ms, ms, id)
	}

	query := `SELECT ` + orderColumns + ` FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	// One extra row tells us whether another page exists.
	query += " ORDER BY created_at DESC, id DESC LIMIT ?"
	args = append(args, p.PageSize+1)

	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	orders, err := r.queryOrders(ctx, query, args...)
	if err != nil {
		return OrderPage{}, classify(op, err)
	}
	var page OrderPage
	if len(orders) > p.PageSize {
		orders = orders[:p.PageSize]
		last := orders[len(orders)-1]
		page.NextPageToken = encodeCursor(last.CreatedAt.UnixMilli(), last.ID)
	}
	page.Orders = orders
	return page, nil
}

// Count returns the number of orders matching the filter.
func (r *OrderRepository) Count(ctx context.Context, f OrderFilter) (int64, error) {
	where, args, err := f.where()
	if err != nil {
		return 0, err
	}
	query := `SELECT COUNT(*) FROM orders`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var n int64
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, classify("orders.count", err)
	}
	return n, nil
}

// ListByRider returns every order bound to the rider, newest first.
func (r *OrderRepository) ListByRider(ctx context.Context, riderID string) ([]*models.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	orders, err := r.queryOrders(ctx, `SELECT `+orderColumns+` FROM orders WHERE rider_id = ? ORDER BY created_at DESC, id DESC`, riderID)
	if err != nil {
		return nil, classify("orders.list_by_rider", err)
	}
	return orders, nil
}

// RiderStats counts a rider's delivered, picked and active (assigned or picked) orders.
func (r *OrderRepository) RiderStats(ctx context.Context, riderID string) (models.RiderStats, error) {
	const op = "orders.rider_stats"
	if strings.TrimSpace(riderID) == "" {
		return models.RiderStats{}, apperr.Errorf(apperr.ValidationFailure, op, "rider id is required")
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	var st models.RiderStats
	err := r.db.QueryRowContext(ctx, `
SELECT
  COALESCE(SUM(CASE WHEN status = 'delivered' THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN status = 'picked' THEN 1 ELSE 0 END), 0),
  COALESCE(SUM(CASE WHEN status IN ('assigned', 'picked') THEN 1 ELSE 0 END), 0)
FROM orders
WHERE rider_id = ?`, riderID).Scan(&st.Delivered, &st.Picked, &st.Active)
	if err != nil {
		return models.RiderStats{}, classify(op, err)
	}
	return st, nil
}

func (r *OrderRepository) queryOrders(ctx context.Context, query string, args ...any) ([]*models.Order, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	orders, err := scanOrderRows(rows)
	if err != nil {
		return nil, err
	}
	if err := loadPhotos(ctx, r.db, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// scanOrderRows drains and closes rows. The connection is released before photos are loaded.
func scanOrderRows(rows *sql.Rows) ([]*models.Order, error) {
	defer rows.Close()
	out := []*models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
