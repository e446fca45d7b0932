package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"riderDeliveryPortal/internal/apperr"
	"riderDeliveryPortal/internal/importer"
	"riderDeliveryPortal/internal/retry"
	"riderDeliveryPortal/internal/testutil"
	"riderDeliveryPortal/models"
	"riderDeliveryPortal/repository"
)

var fastRetry = retry.Policy{MaxAttempts: 3, InitialInterval: time.Millisecond, MaxInterval: 2 * time.Millisecond}

type fixture struct {
	users   *repository.UserRepository
	orders  *repository.OrderRepository
	assets  *repository.PODAssetRepository
	blobs   *testutil.MemoryBlobStore
	logs    *observer.ObservedLogs
	orderSv *OrderService
	assign  *AssignmentService
	pod     *PODService
	stats   *StatsService
	profile *ProfileService
}

func newFixture(t *testing.T, name string) *fixture {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	f := &fixture{
		users:  repository.NewUserRepository(d),
		orders: repository.NewOrderRepository(d),
		assets: repository.NewPODAssetRepository(d),
		blobs:  testutil.NewMemoryBlobStore(),
		logs:   logs,
	}
	f.orderSv = NewOrderService(f.orders, importer.Lenient, log, fastRetry)
	f.assign = NewAssignmentService(f.orders, f.users, log, fastRetry)
	f.pod = NewPODService(f.orders, f.assets, f.blobs, log, fastRetry)
	f.stats = NewStatsService(f.orders, f.users, log, fastRetry)
	f.profile = NewProfileService(f.users, log, fastRetry)
	return f
}

func (f *fixture) rider(t *testing.T, id, first string) *models.User {
	t.Helper()
	ctx := context.Background()
	_, err := f.users.EnsureProfile(ctx, id, id+"@example.com", models.RoleRider)
	require.NoError(t, err)
	phone := "9" + strings.Repeat("1", 9)
	_, err = f.users.UpdateProfile(ctx, id, models.ProfilePatch{FirstName: &first, Phone: &phone})
	require.NoError(t, err)
	u, err := f.users.SetAccountStatus(ctx, id, models.AccountStatusActive)
	require.NoError(t, err)
	return u
}

func sampleDraft() models.OrderDraft {
	return models.OrderDraft{OrderNumber: "ORD-1", CustomerName: "Meera", Address: "12 MG Road", AmountToCollect: 500}
}

func TestDeliveryScenario(t *testing.T) {
	f := newFixture(t, "svc_scenario")
	ctx := context.Background()
	r1 := f.rider(t, "r1", "Asha")
	rider := Actor{UserID: r1.ID}

	o, err := f.orderSv.Create(ctx, sampleDraft())
	require.NoError(t, err)
	assert.Equal(t, 500.0, o.AmountToCollect)

	o, err = f.assign.Acquire(ctx, o.ID, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAssigned, o.Status)
	assert.Equal(t, "r1", o.RiderID)
	assert.Equal(t, "Asha", o.RiderName)
	assert.Equal(t, r1.Phone, o.RiderPhone)

	o, err = f.assign.MarkPicked(ctx, rider, o.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPicked, o.Status)

	asset, err := f.pod.UploadAsset(ctx, rider, o.ID, Upload{Filename: "img1.jpg", ContentType: "image/jpeg", Body: bytes.NewReader([]byte("jpeg"))})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(asset.Key, "pod/"+o.ID+"/"))
	assert.True(t, strings.HasSuffix(asset.Key, "-img1.jpg"))

	o, err = f.pod.SubmitPOD(ctx, rider, o.ID, asset.URL, "left at gate", nil)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusDelivered, o.Status)
	assert.Equal(t, []string{asset.URL}, o.POD.Photos)
	assert.Equal(t, "left at gate", o.POD.Notes)

	linked, err := f.assets.GetByKey(ctx, asset.Key)
	require.NoError(t, err)
	assert.NotNil(t, linked.LinkedAt)

	st, err := f.stats.ComputeStats(ctx, r1.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RiderStats{Delivered: 1}, st)

	assert.NotZero(t, f.logs.FilterMessage("order delivered").Len())
}

func TestAcquire_ConcurrentRidersOneWins(t *testing.T) {
	f := newFixture(t, "svc_acquire_race")
	ctx := context.Background()
	r1 := f.rider(t, "r1", "Asha")
	r2 := f.rider(t, "r2", "Ravi")
	o, err := f.orderSv.Create(ctx, sampleDraft())
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, r := range []*models.User{r1, r2} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.assign.Acquire(ctx, o.ID, id)
		}(i, r.ID)
	}
	wg.Wait()

	var wins, conflicts int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case apperr.Is(err, apperr.Conflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, conflicts)

	got, err := f.orderSv.Get(ctx, o.ID)
	require.NoError(t, err)
	assert.Contains(t, []string{"r1", "r2"}, got.RiderID)
	assert.NotZero(t, f.logs.FilterLevelExact(zap.WarnLevel).Len(), "conflicts are logged at warn")
}

func TestAcquire_RiderChecks(t *testing.T) {
	f := newFixture(t, "svc_acquire_checks")
	ctx := context.Background()
	o, _ := f.orderSv.Create(ctx, sampleDraft())

	_, err := f.assign.Acquire(ctx, o.ID, "ghost")
	assert.True(t, apperr.Is(err, apperr.ValidationFailure), "unknown rider: %v", err)

	_, err = f.users.EnsureProfile(ctx, "pending-rider", "p@example.com", models.RoleRider)
	require.NoError(t, err)
	_, err = f.assign.Acquire(ctx, o.ID, "pending-rider")
	assert.True(t, apperr.Is(err, apperr.ValidationFailure), "inactive rider: %v", err)

	_, err = f.users.EnsureProfile(ctx, "boss", "b@example.com", models.RoleAdmin)
	require.NoError(t, err)
	_, err = f.assign.AssignByAdmin(ctx, o.ID, "boss")
	assert.True(t, apperr.Is(err, apperr.ValidationFailure), "admin as assignee: %v", err)

	_, err = f.assign.Acquire(ctx, o.ID, "")
	assert.True(t, apperr.Is(err, apperr.ValidationFailure))

	r := f.rider(t, "r1", "Asha")
	_, err = f.assign.Acquire(ctx, "missing", r.ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
}

func TestPOD_UploadRules(t *testing.T) {
	f := newFixture(t, "svc_pod_rules")
	ctx := context.Background()
	r1 := f.rider(t, "r1", "Asha")
	f.rider(t, "r2", "Ravi")
	o, _ := f.orderSv.Create(ctx, sampleDraft())
	img := func() Upload { return Upload{Filename: "a.jpg", Body: strings.NewReader("x")} }

	_, err := f.pod.UploadAsset(ctx, Actor{UserID: r1.ID}, o.ID, img())
	assert.True(t, apperr.Is(err, apperr.ValidationFailure), "pending order: %v", err)

	_, err = f.assign.Acquire(ctx, o.ID, r1.ID)
	require.NoError(t, err)

	_, err = f.pod.UploadAsset(ctx, Actor{UserID: "r2"}, o.ID, img())
	assert.True(t, apperr.Is(err, apperr.ValidationFailure), "other rider: %v", err)

	_, err = f.pod.UploadAsset(ctx, Actor{UserID: r1.ID}, o.ID, Upload{Filename: "a.jpg"})
	assert.True(t, apperr.Is(err, apperr.ValidationFailure), "no body: %v", err)

	admin, err := f.pod.UploadAsset(ctx, Actor{UserID: "boss", Admin: true}, o.ID, img())
	require.NoError(t, err)
	assert.Nil(t, admin.LinkedAt)

	f.blobs.FailPut = errors.New("bucket unavailable")
	_, err = f.pod.UploadAsset(ctx, Actor{UserID: r1.ID}, o.ID, img())
	assert.Error(t, err)
	assert.Len(t, f.blobs.Keys(), 1)

	lat := 123.0
	_, err = f.pod.SubmitPOD(ctx, Actor{UserID: r1.ID}, o.ID, admin.URL, "", &models.GeoPoint{Lat: &lat})
	assert.True(t, apperr.Is(err, apperr.ValidationFailure))
}

func TestPOD_ResubmissionIsSetUnion(t *testing.T) {
	f := newFixture(t, "svc_pod_union")
	ctx := context.Background()
	r1 := f.rider(t, "r1", "Asha")
	rider := Actor{UserID: r1.ID}
	o, _ := f.orderSv.Create(ctx, sampleDraft())
	_, err := f.assign.Acquire(ctx, o.ID, r1.ID)
	require.NoError(t, err)

	_, err = f.pod.SubmitPOD(ctx, rider, o.ID, "img1.jpg", "first", nil)
	require.NoError(t, err)
	_, err = f.pod.SubmitPOD(ctx, rider, o.ID, "img1.jpg", "second", nil)
	require.NoError(t, err)
	got, err := f.pod.SubmitPOD(ctx, rider, o.ID, "img2.jpg", "third", nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"img1.jpg", "img2.jpg"}, got.POD.Photos)
	assert.Equal(t, "third", got.POD.Notes)
}

func TestStats_RiderDirectory(t *testing.T) {
	f := newFixture(t, "svc_stats")
	ctx := context.Background()
	r1 := f.rider(t, "r1", "Asha")
	f.rider(t, "r2", "Ravi")
	for i := 0; i < 3; i++ {
		o, err := f.orderSv.Create(ctx, sampleDraft())
		require.NoError(t, err)
		_, err = f.assign.Acquire(ctx, o.ID, r1.ID)
		require.NoError(t, err)
		if i == 0 {
			_, err = f.assign.MarkPicked(ctx, Actor{UserID: r1.ID}, o.ID)
			require.NoError(t, err)
		}
		if i == 1 {
			_, err = f.assign.Cancel(ctx, o.ID)
			require.NoError(t, err)
		}
	}

	list, err := f.stats.ListRidersWithStats(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "r1", list[0].Rider.ID)
	assert.Equal(t, models.RiderStats{Picked: 1, Active: 2}, list[0].Stats)
	assert.Equal(t, models.RiderStats{}, list[1].Stats)

	details, err := f.stats.RiderDetails(ctx, r1.ID)
	require.NoError(t, err)
	assert.Len(t, details.Orders, 3)

	active, err := f.orderSv.ListByRider(ctx, r1.ID, []models.OrderStatus{models.OrderStatusAssigned, models.OrderStatusPicked})
	require.NoError(t, err)
	assert.Len(t, active, 2)

	_, err = f.stats.RiderDetails(ctx, "ghost")
	assert.True(t, apperr.Is(err, apperr.NotFound))

	u, err := f.stats.SetRiderStatus(ctx, "r2", models.AccountStatusInactive)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusInactive, u.AccountStatus)
}

func TestOrders_ImportAndDelete(t *testing.T) {
	f := newFixture(t, "svc_import")
	ctx := context.Background()
	csv := "orderNumber,customerName,address,amountToCollect,status,riderId\n" +
		"ORD-1,Meera,12 MG Road,500,delivered,r9\n" +
		"ORD-2,Ravi,4 Brigade Road,250,,\n"
	out, err := f.orderSv.Import(ctx, "orders.csv", strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, out, 2)
	for _, o := range out {
		assert.Equal(t, models.OrderStatusPending, o.Status)
		assert.Empty(t, o.RiderID)
	}

	_, err = f.orderSv.Import(ctx, "orders.pdf", strings.NewReader(csv))
	assert.True(t, apperr.Is(err, apperr.ValidationFailure))
	_, err = f.orderSv.Import(ctx, "empty.csv", strings.NewReader("orderNumber\n"))
	assert.True(t, apperr.Is(err, apperr.ValidationFailure))

	n, err := f.orderSv.Count(ctx, repository.OrderFilter{})
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	page, err := f.orderSv.ListAvailable(ctx, 1, "")
	require.NoError(t, err)
	assert.Len(t, page.Orders, 1)
	assert.NotEmpty(t, page.NextPageToken)

	// Deleting an order with an uploaded image leaves the blob behind.
	r1 := f.rider(t, "r1", "Asha")
	_, err = f.assign.Acquire(ctx, out[0].ID, r1.ID)
	require.NoError(t, err)
	_, err = f.pod.UploadAsset(ctx, Actor{UserID: r1.ID}, out[0].ID, Upload{Filename: "a.jpg", Body: strings.NewReader("x")})
	require.NoError(t, err)
	require.NoError(t, f.orderSv.Delete(ctx, out[0].ID))
	_, err = f.orderSv.Get(ctx, out[0].ID)
	assert.True(t, apperr.Is(err, apperr.NotFound))
	assert.Len(t, f.blobs.Keys(), 1)

	_, err = f.orderSv.Update(ctx, out[1].ID, models.OrderPatch{})
	assert.True(t, apperr.Is(err, apperr.ValidationFailure))
}

func TestProfile_EnsureAndUpdate(t *testing.T) {
	f := newFixture(t, "svc_profile")
	ctx := context.Background()
	u, err := f.profile.Get(ctx, "uid-1", "asha@example.com", models.RoleRider)
	require.NoError(t, err)
	assert.Equal(t, models.AccountStatusPending, u.AccountStatus)

	bio := "evening shifts"
	u, err = f.profile.Update(ctx, "uid-2", "ravi@example.com", models.RoleRider, models.ProfilePatch{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, bio, u.Bio)
}

func TestNewDepsDefaultsOnlyAttempts(t *testing.T) {
	d := newDeps(nil, retry.Policy{InitialInterval: 7 * time.Millisecond, MaxInterval: 9 * time.Millisecond})
	assert.Equal(t, retry.DefaultPolicy.MaxAttempts, d.policy.MaxAttempts)
	assert.Equal(t, 7*time.Millisecond, d.policy.InitialInterval)
	assert.Equal(t, 9*time.Millisecond, d.policy.MaxInterval)

	d = newDeps(nil, retry.Policy{})
	assert.Equal(t, retry.DefaultPolicy.MaxAttempts, d.policy.MaxAttempts)
	assert.NotNil(t, d.log)
}
