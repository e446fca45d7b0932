package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/internal/testutil"
	"riderDeliveryPortal/models"
)

func TestPODAssetRepository_Ledger(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "pod_assets")
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := NewPODAssetRepository(d, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	old := &models.PODAsset{Key: "pod/o1/1-a.jpg", OrderID: "o1", URL: "https://cdn/a.jpg", UploadedAt: now.Add(-2 * time.Hour)}
	fresh := &models.PODAsset{Key: "pod/o1/2-b.jpg", OrderID: "o1", URL: "https://cdn/b.jpg"}
	require.NoError(t, repo.Insert(ctx, old))
	require.NoError(t, repo.Insert(ctx, fresh))
	assert.Equal(t, now, fresh.UploadedAt)

	err := repo.Insert(ctx, &models.PODAsset{Key: old.Key, OrderID: "o1", URL: "dup"})
	assert.True(t, apperr.Is(err, apperr.ValidationFailure), "duplicate key: %v", err)

	list, err := repo.ListUnlinked(ctx, now.Add(-time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, old.Key, list[0].Key)

	require.NoError(t, repo.MarkLinked(ctx, old.Key))
	require.NoError(t, repo.MarkLinked(ctx, old.Key))
	got, err := repo.GetByKey(ctx, old.Key)
	require.NoError(t, err)
	require.NotNil(t, got.LinkedAt)
	assert.Equal(t, now, *got.LinkedAt)

	list, err = repo.ListUnlinked(ctx, now.Add(time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fresh.Key, list[0].Key)

	require.NoError(t, repo.Delete(ctx, fresh.Key))
	_, err = repo.GetByKey(ctx, fresh.Key)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.True(t, apperr.Is(repo.MarkLinked(ctx, fresh.Key), apperr.NotFound))
}

func TestPODAssetRepository_ClaimForCollection(t *testing.T) {
	d := testutil.OpenInMemoryDB(t, "pod_assets_claim")
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	repo := NewPODAssetRepository(d, WithClock(func() time.Time { return now }))
	ctx := context.Background()

	orphan := &models.PODAsset{Key: "pod/o1/1-a.jpg", OrderID: "o1", URL: "https://cdn/a.jpg", UploadedAt: now.Add(-2 * time.Hour)}
	linked := &models.PODAsset{Key: "pod/o1/2-b.jpg", OrderID: "o1", URL: "https://cdn/b.jpg", UploadedAt: now.Add(-2 * time.Hour)}
	require.NoError(t, repo.Insert(ctx, orphan))
	require.NoError(t, repo.Insert(ctx, linked))
	require.NoError(t, repo.MarkLinked(ctx, linked.Key))

	require.NoError(t, repo.ClaimForCollection(ctx, orphan.Key))
	require.NoError(t, repo.ClaimForCollection(ctx, orphan.Key))
	got, err := repo.GetByKey(ctx, orphan.Key)
	require.NoError(t, err)
	require.NotNil(t, got.CollectedAt)
	assert.Equal(t, now, *got.CollectedAt)

	list, err := repo.ListUnlinked(ctx, now, 10)
	require.NoError(t, err)
	assert.Empty(t, list)

	assert.True(t, apperr.Is(repo.ClaimForCollection(ctx, linked.Key), apperr.Conflict))
	assert.True(t, apperr.Is(repo.ClaimForCollection(ctx, "pod/none"), apperr.NotFound))

	require.NoError(t, repo.ReleaseClaim(ctx, orphan.Key))
	list, err = repo.ListUnlinked(ctx, now, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Nil(t, list[0].CollectedAt)
}
