package repository

import (
	"context"
	"time"

	"riderDeliveryPortal/models"
)

// UserRepositoryI defines operations on User entities.
type UserRepositoryI interface {
	EnsureProfile(ctx context.Context, id, email string, role models.Role) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	UpdateProfile(ctx context.Context, id string, p models.ProfilePatch) (*models.User, error)
	SetAccountStatus(ctx context.Context, id string, status models.AccountStatus) (*models.User, error)
	ListByRole(ctx context.Context, role models.Role) ([]*models.User, error)
}

// OrderRepositoryI defines operations on Order entities.
type OrderRepositoryI interface {
	Create(ctx context.Context, d models.OrderDraft) (*models.Order, error)
	CreateBatch(ctx context.Context, drafts []models.OrderDraft) ([]*models.Order, error)
	GetByID(ctx context.Context, id string) (*models.Order, error)
	Update(ctx context.Context, id string, p models.OrderPatch) (*models.Order, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, p ListOrdersParams) (OrderPage, error)
	Count(ctx context.Context, f OrderFilter) (int64, error)
	ListByRider(ctx context.Context, riderID string) ([]*models.Order, error)
	RiderStats(ctx context.Context, riderID string) (models.RiderStats, error)
	Assign(ctx context.Context, id string, rider models.RiderRef) (*models.Order, error)
	MarkPicked(ctx context.Context, id, riderID string) (*models.Order, error)
	Cancel(ctx context.Context, id string) (*models.Order, error)
	SubmitPOD(ctx context.Context, id string, sub models.PODSubmission) (*models.Order, error)
}

// PODAssetRepositoryI defines operations on the proof-of-delivery asset ledger.
type PODAssetRepositoryI interface {
	Insert(ctx context.Context, a *models.PODAsset) error
	GetByKey(ctx context.Context, key string) (*models.PODAsset, error)
	ListUnlinked(ctx context.Context, cutoff time.Time, limit int) ([]*models.PODAsset, error)
	MarkLinked(ctx context.Context, key string) error
	ClaimForCollection(ctx context.Context, key string) error
	ReleaseClaim(ctx context.Context, key string) error
	Delete(ctx context.Context, key string) error
}

var (
	_ UserRepositoryI     = (*UserRepository)(nil)
	_ OrderRepositoryI    = (*OrderRepository)(nil)
	_ PODAssetRepositoryI = (*PODAssetRepository)(nil)
)
