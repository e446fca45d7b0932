// Package reconcile finds proof-of-delivery uploads whose second phase never
// happened and either links them to their order or collects the blob.
package reconcile

import (
	"context"
	"time"

	"go.uber.org/zap"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/internal/blob"
	"riderDeliveryPortal/repository"
)

const defaultBatch = 200

// Report summarizes one pass.
type Report struct {
	Scanned   int `json:"scanned"`
	Linked    int `json:"linked"`
	Collected int `json:"collected"`
	Failed    int `json:"failed"`
}

// Reconciler walks the unlinked part of the asset ledger.
type Reconciler struct {
	assets repository.PODAssetRepositoryI
	orders repository.OrderRepositoryI
	blobs  blob.Store
	grace  time.Duration
	batch  int
	log    *zap.Logger
	now    func() time.Time
}

// New creates a Reconciler. Assets younger than grace are left alone so an
// in-flight submission is never raced.
func New(assets repository.PODAssetRepositoryI, orders repository.OrderRepositoryI, blobs blob.Store, grace time.Duration, log *zap.Logger) *Reconciler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Reconciler{assets: assets, orders: orders, blobs: blobs, grace: grace, batch: defaultBatch, log: log, now: time.Now}
}

// RunOnce processes at most one batch of unlinked assets older than the grace period.
func (r *Reconciler) RunOnce(ctx context.Context) (Report, error) {
	var rep Report
	pending, err := r.assets.ListUnlinked(ctx, r.now().Add(-r.grace), r.batch)
	if err != nil {
		return rep, err
	}
	for _, a := range pending {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		rep.Scanned++
		o, err := r.orders.GetByID(ctx, a.OrderID)
		switch {
		case err == nil && o.HasPhoto(a.URL):
			// Linked by a submission that missed the ledger update.
			if err := r.assets.MarkLinked(ctx, a.Key); err != nil {
				rep.Failed++
				r.log.Warn("mark asset linked", zap.String("key", a.Key), zap.Error(err))
				continue
			}
			rep.Linked++
		case err == nil || apperr.Is(err, apperr.NotFound):
			orderGone := err != nil
			// Claim first so a late submission cannot link a blob that is about to vanish.
			if err := r.assets.ClaimForCollection(ctx, a.Key); err != nil {
				if apperr.Is(err, apperr.Conflict) {
					rep.Linked++
					continue
				}
				rep.Failed++
				r.log.Warn("claim orphaned asset", zap.String("key", a.Key), zap.Error(err))
				continue
			}
			if err := r.blobs.Delete(ctx, a.Key); err != nil {
				rep.Failed++
				r.log.Warn("delete orphaned blob", zap.String("key", a.Key), zap.Error(err))
				if err := r.assets.ReleaseClaim(ctx, a.Key); err != nil {
					r.log.Warn("release asset claim", zap.String("key", a.Key), zap.Error(err))
				}
				continue
			}
			// The claimed row stays as a tombstone while the order exists.
			if orderGone {
				if err := r.assets.Delete(ctx, a.Key); err != nil {
					rep.Failed++
					r.log.Warn("delete asset row", zap.String("key", a.Key), zap.Error(err))
					continue
				}
			}
			rep.Collected++
		default:
			rep.Failed++
			r.log.Warn("load order for asset", zap.String("key", a.Key), zap.String("order_id", a.OrderID), zap.Error(err))
		}
	}
	return rep, nil
}

// Run calls RunOnce every interval until ctx is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rep, err := r.RunOnce(ctx)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				r.log.Error("reconcile pass failed", zap.Error(err))
				continue
			}
			r.log.Info("reconcile pass",
				zap.Int("scanned", rep.Scanned),
				zap.Int("linked", rep.Linked),
				zap.Int("collected", rep.Collected),
				zap.Int("failed", rep.Failed),
			)
		}
	}
}
