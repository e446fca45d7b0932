package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/google/uuid"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/models"
)

// OrderRepository is the store accessor for Order records. Every lifecycle
// transition is a conditional write keyed on the order's prior status.
type OrderRepository struct {
	base
}

// NewOrderRepository creates a new OrderRepository.
func NewOrderRepository(db *sql.DB, opts ...Option) *OrderRepository {
	return &OrderRepository{base: newBase(db, opts)}
}

const orderColumns = `id, order_number, customer_name, customer_phone, secondary_phone, address, pincode,
 amount_to_collect, product_name, rider_id, rider_name, rider_phone, status, created_at,
 assigned_at, picked_at, delivered_at, pod_notes, pod_time, pod_has_location, pod_lat, pod_lng`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanOrder(s rowScanner) (*models.Order, error) {
	var o models.Order
	var status string
	var created int64
	var assigned, picked, delivered, podTime sql.NullInt64
	var hasLocation bool
	var lat, lng sql.NullFloat64
	err := s.Scan(&o.ID, &o.OrderNumber, &o.CustomerName, &o.CustomerPhone, &o.SecondaryPhone, &o.Address, &o.Pincode,
		&o.AmountToCollect, &o.ProductName, &o.RiderID, &o.RiderName, &o.RiderPhone, &status, &created,
		&assigned, &picked, &delivered, &o.POD.Notes, &podTime, &hasLocation, &lat, &lng)
	if err != nil {
		return nil, err
	}
	o.Status = models.OrderStatus(status)
	o.CreatedAt = fromMillis(created)
	o.AssignedAt = timePtr(assigned)
	o.PickedAt = timePtr(picked)
	o.DeliveredAt = timePtr(delivered)
	o.POD.Time = timePtr(podTime)
	o.POD.Photos = []string{}
	if hasLocation {
		o.POD.Location = &models.GeoPoint{Lat: floatPtr(lat), Lng: floatPtr(lng)}
	}
	return &o, nil
}

func getOrder(ctx context.Context, q queryer, op, id string) (*models.Order, error) {
	o, err := scanOrder(q.QueryRowContext(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(op, "order", id)
		}
		return nil, err
	}
	if err := loadPhotos(ctx, q, []*models.Order{o}); err != nil {
		return nil, err
	}
	return o, nil
}

const photoChunk = 500

// loadPhotos fills POD.Photos, in upload order, for every given order.
func loadPhotos(ctx context.Context, q queryer, orders []*models.Order) error {
	byID := make(map[string]*models.Order, len(orders))
	for _, o := range orders {
		byID[o.ID] = o
	}
	for start := 0; start < len(orders); start += photoChunk {
		end := min(start+photoChunk, len(orders))
		args := make([]any, 0, end-start)
		for _, o := range orders[start:end] {
			args = append(args, o.ID)
		}
		placeholders := strings.TrimSuffix(strings.Repeat("?,", len(args)), ",")
		rows, err := q.QueryContext(ctx, `SELECT order_id, ref FROM pod_photos WHERE order_id IN (`+placeholders+`) ORDER BY seq`, args...)
		if err != nil {
			return err
		}
		for rows.Next() {
			var orderID, ref string
			if err := rows.Scan(&orderID, &ref); err != nil {
				rows.Close()
				return err
			}
			if o := byID[orderID]; o != nil {
				o.POD.Photos = append(o.POD.Photos, ref)
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}
	return nil
}

func (r *OrderRepository) newPending(d models.OrderDraft, now func() int64) *models.Order {
	return &models.Order{
		ID:         uuid.NewString(),
		OrderDraft: d,
		Status:     models.OrderStatusPending,
		CreatedAt:  fromMillis(now()),
		POD:        models.POD{Photos: []string{}},
	}
}

func insertOrder(ctx context.Context, q queryer, o *models.Order) error {
	_, err := q.ExecContext(ctx, `INSERT INTO orders (id, order_number, customer_name, customer_phone, secondary_phone, address, pincode, amount_to_collect, product_name, status, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		o.ID, o.OrderNumber, o.CustomerName, o.CustomerPhone, o.SecondaryPhone, o.Address, o.Pincode,
		o.AmountToCollect, o.ProductName, string(o.Status), o.CreatedAt.UnixMilli())
	return err
}

// checkAmount rejects NaN and infinities, which the store and JSON cannot hold.
func checkAmount(op string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return apperr.Errorf(apperr.ValidationFailure, op, "amount to collect must be a finite number")
	}
	return nil
}

// Create inserts a new pending order built from the draft. Status, rider fields,
// POD and timestamps are never taken from the caller.
func (r *OrderRepository) Create(ctx context.Context, d models.OrderDraft) (*models.Order, error) {
	if err := checkAmount("orders.create", d.AmountToCollect); err != nil {
		return nil, err
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	o := r.newPending(d, func() int64 { return r.stamp().UnixMilli() })
	if err := insertOrder(ctx, r.db, o); err != nil {
		return nil, classify("orders.create", err)
	}
	return o, nil
}

// CreateBatch inserts all drafts in one transaction; either every order is created or none.
func (r *OrderRepository) CreateBatch(ctx context.Context, drafts []models.OrderDraft) ([]*models.Order, error) {
	const op = "orders.create_batch"
	if len(drafts) == 0 {
		return nil, nil
	}
	for i, d := range drafts {
		if err := checkAmount(op, d.AmountToCollect); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	// Rows keep their spreadsheet order when listed newest first.
	base := r.stamp().UnixMilli()
	out := make([]*models.Order, 0, len(drafts))
	for i, d := range drafts {
		created := base - int64(i)
		o := r.newPending(d, func() int64 { return created })
		if err := insertOrder(ctx, tx, o); err != nil {
			return nil, classify(op, err)
		}
		out = append(out, o)
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// GetByID fetches an order with its POD photos.
func (r *OrderRepository) GetByID(ctx context.Context, id string) (*models.Order, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	o, err := getOrder(ctx, r.db, "orders.get", id)
	if err != nil {
		return nil, classify("orders.get", err)
	}
	return o, nil
}

// Delete permanently removes an order and its photo references. Uploaded blobs are
// left in place.
func (r *OrderRepository) Delete(ctx context.Context, id string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `DELETE FROM orders WHERE id = ?`, id)
	if err != nil {
		return classify("orders.delete", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound("orders.delete", "order", id)
	}
	return nil
}

// Update merges the non-nil patch fields into the order. A status change is checked
// against the transition table and stamps its timestamp once.
func (r *OrderRepository) Update(ctx context.Context, id string, p models.OrderPatch) (*models.Order, error) {
	const op = "orders.update"
	if p.Status != nil && !p.Status.IsValid() {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "unknown status %q", *p.Status)
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getOrder(ctx, tx, op, id)
	if err != nil {
		return nil, classify(op, err)
	}
	sets, args, err := r.patchAssignments(op, cur, p)
	if err != nil {
		return nil, err
	}
	if len(sets) > 0 {
		args = append(args, id, string(cur.Status))
		res, err := tx.ExecContext(ctx, `UPDATE orders SET `+strings.Join(sets, ", ")+` WHERE id = ? AND status = ?`, args...)
		if err != nil {
			return nil, classify(op, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return nil, apperr.Errorf(apperr.Conflict, op, "order %q changed concurrently", id)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(op, err)
	}
	return r.GetByID(ctx, id)
}

func stampColumn(s models.OrderStatus) string {
	switch s {
	case models.OrderStatusAssigned:
		return "assigned_at"
	case models.OrderStatusPicked:
		return "picked_at"
	case models.OrderStatusDelivered:
		return "delivered_at"
	}
	return ""
}

func (r *OrderRepository) patchAssignments(op string, cur *models.Order, p models.OrderPatch) ([]string, []any, error) {
	var sets []string
	var args []any
	set := func(col string, v any) {
		sets = append(sets, col+" = ?")
		args = append(args, v)
	}
	str := func(col string, v *string) {
		if v != nil {
			set(col, *v)
		}
	}
	str("order_number", p.OrderNumber)
	str("customer_name", p.CustomerName)
	str("customer_phone", p.CustomerPhone)
	str("secondary_phone", p.SecondaryPhone)
	str("address", p.Address)
	str("pincode", p.Pincode)
	str("product_name", p.ProductName)
	str("pod_notes", p.PODNotes)
	if p.AmountToCollect != nil {
		if err := checkAmount(op, *p.AmountToCollect); err != nil {
			return nil, nil, err
		}
		set("amount_to_collect", *p.AmountToCollect)
	}

	status := cur.Status
	if p.Status != nil && *p.Status != cur.Status {
		if !models.CanTransition(cur.Status, *p.Status) {
			return nil, nil, apperr.Errorf(apperr.ValidationFailure, op, "cannot move order from %s to %s", cur.Status, *p.Status)
		}
		status = *p.Status
		set("status", string(status))
		if col := stampColumn(status); col != "" {
			sets = append(sets, col+" = COALESCE("+col+", ?)")
			args = append(args, r.stamp().UnixMilli())
		}
	}

	riderID, riderName, riderPhone := cur.RiderID, cur.RiderName, cur.RiderPhone
	if p.RiderID != nil {
		riderID = *p.RiderID
	}
	if p.RiderName != nil {
		riderName = *p.RiderName
	}
	if p.RiderPhone != nil {
		riderPhone = *p.RiderPhone
	}
	if status == models.OrderStatusPending && (riderID != "" || riderName != "" || riderPhone != "") {
		return nil, nil, apperr.Errorf(apperr.ValidationFailure, op, "a pending order cannot carry rider fields")
	}
	if status != models.OrderStatusPending && riderID == "" {
		return nil, nil, apperr.Errorf(apperr.ValidationFailure, op, "a %s order needs a rider", status)
	}
	str("rider_id", p.RiderID)
	str("rider_name", p.RiderName)
	str("rider_phone", p.RiderPhone)
	return sets, args, nil
}

// afterTransition turns the outcome of a conditional transition write into a result.
// mismatch is returned when the status precondition held but another predicate did not.
func (r *OrderRepository) afterTransition(ctx context.Context, op, id string, res sql.Result, expected []models.OrderStatus, to models.OrderStatus, mismatch error) (*models.Order, error) {
	if n, _ := res.RowsAffected(); n > 0 {
		return r.GetByID(ctx, id)
	}
	cur, err := getOrder(ctx, r.db, op, id)
	if err != nil {
		return nil, classify(op, err)
	}
	if err := explainTransition(op, cur.Status, expected, to); err != nil {
		return nil, err
	}
	if mismatch != nil {
		return nil, mismatch
	}
	return nil, apperr.Errorf(apperr.Conflict, op, "order %q changed concurrently", id)
}

// Assign binds a pending order to a rider. Only one caller can win; every other
// caller observes Conflict.
func (r *OrderRepository) Assign(ctx context.Context, id string, rider models.RiderRef) (*models.Order, error) {
	const op = "orders.assign"
	if strings.TrimSpace(rider.ID) == "" {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "rider id is required")
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE orders
SET rider_id = ?, rider_name = ?, rider_phone = ?, status = ?, assigned_at = COALESCE(assigned_at, ?)
WHERE id = ? AND status = ?`,
		rider.ID, rider.Name, rider.Phone, string(models.OrderStatusAssigned), r.stamp().UnixMilli(),
		id, string(models.OrderStatusPending))
	if err != nil {
		return nil, classify(op, err)
	}
	return r.afterTransition(ctx, op, id, res, []models.OrderStatus{models.OrderStatusPending}, models.OrderStatusAssigned, nil)
}

// MarkPicked moves an assigned order to picked. A non-empty riderID restricts the
// write to the rider who owns the order.
func (r *OrderRepository) MarkPicked(ctx context.Context, id, riderID string) (*models.Order, error) {
	const op = "orders.mark_picked"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	query := `UPDATE orders SET status = ?, picked_at = COALESCE(picked_at, ?) WHERE id = ? AND status = ?`
	args := []any{string(models.OrderStatusPicked), r.stamp().UnixMilli(), id, string(models.OrderStatusAssigned)}
	if riderID != "" {
		query += ` AND rider_id = ?`
		args = append(args, riderID)
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	mismatch := apperr.Errorf(apperr.ValidationFailure, op, "order %q is assigned to another rider", id)
	return r.afterTransition(ctx, op, id, res, []models.OrderStatus{models.OrderStatusAssigned}, models.OrderStatusPicked, mismatch)
}

// Cancel moves an assigned or picked order to cancelled.
func (r *OrderRepository) Cancel(ctx context.Context, id string) (*models.Order, error) {
	const op = "orders.cancel"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	sources := models.SourcesFor(models.OrderStatusCancelled)
	args := []any{string(models.OrderStatusCancelled), id}
	for _, s := range sources {
		args = append(args, string(s))
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(sources)), ",")
	res, err := r.db.ExecContext(ctx, `UPDATE orders SET status = ? WHERE id = ? AND status IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, classify(op, err)
	}
	return r.afterTransition(ctx, op, id, res, sources, models.OrderStatusCancelled, nil)
}

// SubmitPOD attaches a proof-of-delivery reference and closes the order in one
// transaction. The photo is added with set-union semantics, notes and location are
// overwritten, and delivered_at is stamped only the first time. Retrying with the
// same reference is safe.
func (r *OrderRepository) SubmitPOD(ctx context.Context, id string, sub models.PODSubmission) (*models.Order, error) {
	const op = "orders.submit_pod"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, classify(op, err)
	}
	defer func() { _ = tx.Rollback() }()

	cur, err := getOrder(ctx, tx, op, id)
	if err != nil {
		return nil, classify(op, err)
	}
	sources := models.SourcesFor(models.OrderStatusDelivered)
	if err := explainTransition(op, cur.Status, sources, models.OrderStatusDelivered); err != nil {
		return nil, err
	}
	if sub.RiderID != "" && cur.RiderID != sub.RiderID {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "order %q is assigned to another rider", id)
	}

	now := r.stamp().UnixMilli()
	if sub.AssetRef != "" {
		if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO pod_photos (order_id, ref) VALUES (?, ?)`, id, sub.AssetRef); err != nil {
			return nil, classify(op, err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE pod_assets SET linked_at = COALESCE(linked_at, ?) WHERE order_id = ? AND url = ? AND collected_at IS NULL`, now, id, sub.AssetRef); err != nil {
			return nil, classify(op, err)
		}
		// The write above holds the lock, so a claim cannot land between it and this check.
		var collected int
		if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM pod_assets WHERE order_id = ? AND url = ? AND collected_at IS NOT NULL`, id, sub.AssetRef).Scan(&collected); err != nil {
			return nil, classify(op, err)
		}
		if collected > 0 {
			return nil, apperr.Errorf(apperr.ValidationFailure, op, "photo %q was collected as an orphan; upload it again", sub.AssetRef)
		}
	}

	var hasLocation bool
	var lat, lng *float64
	if sub.Location != nil {
		hasLocation = true
		lat, lng = sub.Location.Lat, sub.Location.Lng
	}
	res, err := tx.ExecContext(ctx, `UPDATE orders
SET status = ?, delivered_at = COALESCE(delivered_at, ?), pod_notes = ?, pod_time = ?, pod_has_location = ?, pod_lat = ?, pod_lng = ?
WHERE id = ? AND status = ?`,
		string(models.OrderStatusDelivered), now, sub.Notes, now, hasLocation, lat, lng, id, string(cur.Status))
	if err != nil {
		return nil, classify(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return nil, apperr.Errorf(apperr.Conflict, op, "order %q changed concurrently", id)
	}
	if err := tx.Commit(); err != nil {
		return nil, classify(op, err)
	}
	return r.GetByID(ctx, id)
}
