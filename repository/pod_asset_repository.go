package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/models"
)

// PODAssetRepository tracks uploaded proof-of-delivery blobs until they are linked
// to an order, so orphans left by a failed second phase can be collected.
type PODAssetRepository struct {
	base
}

func NewPODAssetRepository(db *sql.DB, opts ...Option) *PODAssetRepository {
	return &PODAssetRepository{base: newBase(db, opts)}
}

func scanAsset(s rowScanner) (*models.PODAsset, error) {
	var a models.PODAsset
	var uploaded int64
	var linked, collected sql.NullInt64
	if err := s.Scan(&a.Key, &a.OrderID, &a.URL, &uploaded, &linked, &collected); err != nil {
		return nil, err
	}
	a.UploadedAt = fromMillis(uploaded)
	a.LinkedAt = timePtr(linked)
	a.CollectedAt = timePtr(collected)
	return &a, nil
}

// Insert records a freshly uploaded blob. UploadedAt is stamped when zero.
func (r *PODAssetRepository) Insert(ctx context.Context, a *models.PODAsset) error {
	if a.UploadedAt.IsZero() {
		a.UploadedAt = r.stamp()
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `INSERT INTO pod_assets (key, order_id, url, uploaded_at, linked_at, collected_at) VALUES (?, ?, ?, ?, ?, ?)`,
		a.Key, a.OrderID, a.URL, a.UploadedAt.UnixMilli(), nullMillis(a.LinkedAt), nullMillis(a.CollectedAt))
	return classify("pod_assets.insert", err)
}

func (r *PODAssetRepository) GetByKey(ctx context.Context, key string) (*models.PODAsset, error) {
	const op = "pod_assets.get"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	a, err := scanAsset(r.db.QueryRowContext(ctx, `SELECT key, order_id, url, uploaded_at, linked_at, collected_at FROM pod_assets WHERE key = ?`, key))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(op, "pod asset", key)
		}
		return nil, classify(op, err)
	}
	return a, nil
}

// ListUnlinked returns up to limit unlinked, unclaimed assets uploaded before cutoff, oldest first.
func (r *PODAssetRepository) ListUnlinked(ctx context.Context, cutoff time.Time, limit int) ([]*models.PODAsset, error) {
	const op = "pod_assets.list_unlinked"
	if limit <= 0 {
		limit = 100
	}
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	rows, err := r.db.QueryContext(ctx, `SELECT key, order_id, url, uploaded_at, linked_at, collected_at FROM pod_assets
WHERE linked_at IS NULL AND collected_at IS NULL AND uploaded_at < ?
ORDER BY uploaded_at, key
LIMIT ?`, cutoff.UnixMilli(), limit)
	if err != nil {
		return nil, classify(op, err)
	}
	defer rows.Close()
	var out []*models.PODAsset
	for rows.Next() {
		a, err := scanAsset(rows)
		if err != nil {
			return nil, classify(op, err)
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, classify(op, err)
	}
	return out, nil
}

// MarkLinked sets linked_at once. Linking an already linked asset is a no-op.
func (r *PODAssetRepository) MarkLinked(ctx context.Context, key string) error {
	const op = "pod_assets.mark_linked"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE pod_assets SET linked_at = COALESCE(linked_at, ?) WHERE key = ?`, r.stamp().UnixMilli(), key)
	if err != nil {
		return classify(op, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return notFound(op, "pod asset", key)
	}
	return nil
}

// ClaimForCollection marks an unlinked asset as collected so a later submission
// can no longer link it. It returns Conflict when the asset was linked first.
func (r *PODAssetRepository) ClaimForCollection(ctx context.Context, key string) error {
	const op = "pod_assets.claim"
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	res, err := r.db.ExecContext(ctx, `UPDATE pod_assets SET collected_at = ? WHERE key = ? AND linked_at IS NULL AND collected_at IS NULL`,
		r.stamp().UnixMilli(), key)
	if err != nil {
		return classify(op, err)
	}
	if n, _ := res.RowsAffected(); n == 1 {
		return nil
	}
	a, err := scanAsset(r.db.QueryRowContext(ctx, `SELECT key, order_id, url, uploaded_at, linked_at, collected_at FROM pod_assets WHERE key = ?`, key))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return notFound(op, "pod asset", key)
	case err != nil:
		return classify(op, err)
	case a.LinkedAt != nil:
		return apperr.Errorf(apperr.Conflict, op, "pod asset %q is already linked", key)
	}
	// already claimed
	return nil
}

// ReleaseClaim undoes ClaimForCollection after the blob could not be deleted.
func (r *PODAssetRepository) ReleaseClaim(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `UPDATE pod_assets SET collected_at = NULL WHERE key = ?`, key)
	return classify("pod_assets.release_claim", err)
}

func (r *PODAssetRepository) Delete(ctx context.Context, key string) error {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()
	_, err := r.db.ExecContext(ctx, `DELETE FROM pod_assets WHERE key = ?`, key)
	return classify("pod_assets.delete", err)
}
