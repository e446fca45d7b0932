package service

import (
	"context"
	"io"
	"time"

	"go.uber.org/zap"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/internal/blob"
	"riderDeliveryPortal/internal/geo"
	"riderDeliveryPortal/internal/retry"
	"riderDeliveryPortal/models"
	"riderDeliveryPortal/repository"
)

// PODService runs the two-phase proof-of-delivery flow: the image is uploaded
// first and its reference is submitted against the order afterwards.
type PODService struct {
	deps
	orders repository.OrderRepositoryI
	assets repository.PODAssetRepositoryI
	blobs  blob.Store
	now    func() time.Time
}

func NewPODService(orders repository.OrderRepositoryI, assets repository.PODAssetRepositoryI, blobs blob.Store, log *zap.Logger, policy retry.Policy) *PODService {
	return &PODService{deps: newDeps(log, policy), orders: orders, assets: assets, blobs: blobs, now: time.Now}
}

// Upload describes one proof-of-delivery image.
type Upload struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

// UploadAsset stores the image and records it in the asset ledger as unlinked.
// It is not retried: a failed attempt may already have written the blob, which the
// reconciler collects later.
func (s *PODService) UploadAsset(ctx context.Context, actor Actor, orderID string, up Upload) (*models.PODAsset, error) {
	const op = "pod.upload"
	if up.Body == nil {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "image body is required")
	}
	o, err := read(ctx, s.deps, op, func(ctx context.Context) (*models.Order, error) {
		return s.orders.GetByID(ctx, orderID)
	})
	if err != nil {
		return nil, err
	}
	if scope := actor.riderScope(); scope != "" && o.RiderID != scope {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "order %q is assigned to another rider", orderID)
	}
	if !models.CanTransition(o.Status, models.OrderStatusDelivered) {
		return nil, apperr.Errorf(apperr.ValidationFailure, op, "order %q is %s and cannot take a proof of delivery", orderID, o.Status)
	}

	key := blob.PODKey(orderID, up.Filename, s.now())
	url, err := s.blobs.Put(ctx, key, up.ContentType, up.Body)
	if err != nil {
		s.logOutcome(ctx, "pod upload failed", err, zap.String("order_id", orderID), zap.String("key", key))
		return nil, err
	}
	asset := &models.PODAsset{Key: key, OrderID: orderID, URL: url}
	if err := s.assets.Insert(ctx, asset); err != nil {
		// Without a ledger row nothing would ever collect the blob.
		if derr := s.blobs.Delete(ctx, key); derr != nil {
			s.logger(ctx).Warn("orphaned pod blob", zap.String("key", key), zap.Error(derr))
		}
		s.logOutcome(ctx, "pod ledger insert failed", err, zap.String("order_id", orderID))
		return nil, err
	}
	s.logger(ctx).Info("pod uploaded", zap.String("order_id", orderID), zap.String("key", key))
	return asset, nil
}

// SubmitPOD attaches an uploaded reference, notes and location to the order and
// marks it delivered. It is idempotent, so transient failures are retried.
func (s *PODService) SubmitPOD(ctx context.Context, actor Actor, orderID string, assetRef, notes string, location *models.GeoPoint) (*models.Order, error) {
	const op = "pod.submit"
	sub := models.PODSubmission{RiderID: actor.riderScope(), AssetRef: assetRef, Notes: notes, Location: location}
	if location != nil {
		if err := validateLocation(op, location); err != nil {
			return nil, err
		}
	}
	o, err := retry.Do(ctx, s.policy, s.logger(ctx), op, func(ctx context.Context) (*models.Order, error) {
		return s.orders.SubmitPOD(ctx, orderID, sub)
	})
	if err != nil {
		s.logOutcome(ctx, "pod submit failed", err, zap.String("order_id", orderID), zap.String("actor", actor.UserID))
		return nil, err
	}
	s.logger(ctx).Info("order delivered", zap.String("order_id", o.ID), zap.String("rider_id", o.RiderID), zap.Int("photos", len(o.POD.Photos)))
	return o, nil
}

func validateLocation(op string, l *models.GeoPoint) error {
	if err := geo.Check(l.Lat, l.Lng); err != nil {
		return apperr.New(apperr.ValidationFailure, op, err.Error(), nil)
	}
	return nil
}
