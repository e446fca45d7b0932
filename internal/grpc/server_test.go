package grpcserver

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	portalv1 "riderDeliveryPortal/api/portal/v1"
	"riderDeliveryPortal/internal/config"
	"riderDeliveryPortal/internal/importer"
	"riderDeliveryPortal/internal/reconcile"
	"riderDeliveryPortal/internal/retry"
	"riderDeliveryPortal/internal/service"
	"riderDeliveryPortal/internal/testutil"
	"riderDeliveryPortal/repository"
)

const testSecret = "test-secret"

type harness struct {
	conn    *grpc.ClientConn
	admin   portalv1.AdminServiceClient
	rider   portalv1.RiderServiceClient
	profile portalv1.ProfileServiceClient
	blobs   *testutil.MemoryBlobStore
	logs    *observer.ObservedLogs
}

func newHarness(t *testing.T, name string, cfg config.GRPCConfig) *harness {
	t.Helper()
	d := testutil.OpenInMemoryDB(t, name)
	core, logs := observer.New(zap.DebugLevel)
	log := zap.New(core)
	policy := retry.Policy{MaxAttempts: 2, InitialInterval: time.Millisecond, MaxInterval: time.Millisecond}

	users := repository.NewUserRepository(d)
	orders := repository.NewOrderRepository(d)
	assets := repository.NewPODAssetRepository(d)
	blobs := testutil.NewMemoryBlobStore()
	svcs := &Services{
		Users:      users,
		Orders:     service.NewOrderService(orders, importer.Lenient, log, policy),
		Assignment: service.NewAssignmentService(orders, users, log, policy),
		POD:        service.NewPODService(orders, assets, blobs, log, policy),
		Stats:      service.NewStatsService(orders, users, log, policy),
		Profiles:   service.NewProfileService(users, log, policy),
		Reconciler: reconcile.New(assets, orders, blobs, time.Hour, log),
	}
	srv, err := NewServer(cfg, testSecret, svcs, log)
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) { return lis.DialContext(ctx) }),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return &harness{
		conn:    conn,
		admin:   portalv1.NewAdminServiceClient(conn),
		rider:   portalv1.NewRiderServiceClient(conn),
		profile: portalv1.NewProfileServiceClient(conn),
		blobs:   blobs,
		logs:    logs,
	}
}

func as(t *testing.T, subject, role string) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return testutil.OutgoingBearer(ctx, testutil.GenerateJWTHS256(t, testSecret, subject, role))
}

// signUp creates the profile for subject and, for riders, activates it.
func (h *harness) signUp(t *testing.T, admin context.Context, subject, role string) {
	t.Helper()
	_, err := h.profile.GetProfile(as(t, subject, role), &portalv1.Empty{})
	require.NoError(t, err)
	if role == "rider" {
		_, err = h.admin.SetRiderStatus(admin, &portalv1.SetRiderStatusRequest{RiderID: subject, Status: "active"})
		require.NoError(t, err)
	}
}

func TestHealthWithoutToken(t *testing.T) {
	h := newHarness(t, "grpc_health", config.GRPCConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	resp, err := healthpb.NewHealthClient(h.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: "portal.v1.RiderService"})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestUnauthenticated(t *testing.T) {
	h := newHarness(t, "grpc_unauth", config.GRPCConfig{})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := h.rider.ListAvailableOrders(ctx, &portalv1.ListAvailableOrdersRequest{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))

	bad := testutil.OutgoingBearer(ctx, testutil.GenerateJWTHS256(t, "other-secret", "r1", "rider"))
	_, err = h.profile.GetProfile(bad, &portalv1.Empty{})
	assert.Equal(t, codes.Unauthenticated, status.Code(err))
}

func TestDeliveryOverGRPC(t *testing.T) {
	h := newHarness(t, "grpc_delivery", config.GRPCConfig{})
	admin := as(t, "boss", "admin")
	h.signUp(t, admin, "boss", "admin")
	h.signUp(t, admin, "r1", "rider")
	h.signUp(t, admin, "r2", "rider")
	r1, r2 := as(t, "r1", "rider"), as(t, "r2", "rider")

	created, err := h.admin.CreateOrder(admin, &portalv1.CreateOrderRequest{Order: &portalv1.Order{
		OrderNumber:     "ORD-7",
		CustomerName:    "Meera",
		Address:         "12 MG Road",
		AmountToCollect: 250,
		Status:          "delivered",
		RiderID:         "r9",
	}})
	require.NoError(t, err)
	o := created.Order
	assert.Equal(t, "pending", o.Status)
	assert.Empty(t, o.RiderID)
	assert.Equal(t, []string{}, o.POD.Photos)

	avail, err := h.rider.ListAvailableOrders(r1, &portalv1.ListAvailableOrdersRequest{})
	require.NoError(t, err)
	require.Len(t, avail.Orders, 1)
	assert.Equal(t, o.ID, avail.Orders[0].ID)

	got, err := h.rider.AcquireOrder(r1, &portalv1.AcquireOrderRequest{OrderID: o.ID})
	require.NoError(t, err)
	assert.Equal(t, "assigned", got.Order.Status)
	assert.Equal(t, "r1", got.Order.RiderID)

	_, err = h.rider.AcquireOrder(r2, &portalv1.AcquireOrderRequest{OrderID: o.ID})
	assert.Equal(t, codes.Aborted, status.Code(err))

	_, err = h.rider.MarkPicked(r2, &portalv1.MarkPickedRequest{OrderID: o.ID})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	got, err = h.rider.MarkPicked(r1, &portalv1.MarkPickedRequest{OrderID: o.ID})
	require.NoError(t, err)
	assert.Equal(t, "picked", got.Order.Status)

	up, err := h.rider.UploadPODAsset(r1, &portalv1.UploadPODAssetRequest{
		OrderID: o.ID, Filename: "door photo.jpg", ContentType: "image/jpeg", Content: []byte("jpeg"),
	})
	require.NoError(t, err)
	assert.Equal(t, h.blobs.URL(up.Key), up.URL)

	lat, lng := 12.97, 77.59
	got, err = h.rider.SubmitPOD(r1, &portalv1.SubmitPODRequest{
		OrderID: o.ID, AssetRef: up.URL, Notes: "left at door", Location: &portalv1.Location{Lat: &lat, Lng: &lng},
	})
	require.NoError(t, err)
	assert.Equal(t, "delivered", got.Order.Status)
	assert.Equal(t, []string{up.URL}, got.Order.POD.Photos)
	assert.Equal(t, "left at door", got.Order.POD.Notes)
	require.NotNil(t, got.Order.POD.Location)
	assert.InDelta(t, lat, *got.Order.POD.Location.Lat, 1e-9)
	assert.NotNil(t, got.Order.DeliveredAt)

	stats, err := h.rider.GetMyStats(r1, &portalv1.Empty{})
	require.NoError(t, err)
	assert.Equal(t, &portalv1.Stats{Delivered: 1, Picked: 0, Active: 0}, stats.Stats)

	mine, err := h.rider.ListMyOrders(r1, &portalv1.ListMyOrdersRequest{Statuses: []string{"delivered"}})
	require.NoError(t, err)
	assert.Len(t, mine.Orders, 1)
	_, err = h.rider.ListMyOrders(r1, &portalv1.ListMyOrdersRequest{Statuses: []string{"lost"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	riders, err := h.admin.ListRiders(admin, &portalv1.Empty{})
	require.NoError(t, err)
	require.Len(t, riders.Riders, 2)

	details, err := h.admin.GetRiderDetails(admin, &portalv1.GetRiderDetailsRequest{RiderID: "r1"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), details.Stats.Delivered)
	assert.Len(t, details.Orders, 1)

	rep, err := h.admin.ReconcileAssets(admin, &portalv1.Empty{})
	require.NoError(t, err)
	assert.Equal(t, 0, rep.Collected)

	_, err = h.admin.DeleteOrder(admin, &portalv1.DeleteOrderRequest{ID: o.ID})
	require.NoError(t, err)
	_, err = h.admin.GetOrder(admin, &portalv1.GetOrderRequest{ID: o.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestAdminListUpdateAndImport(t *testing.T) {
	h := newHarness(t, "grpc_admin_list", config.GRPCConfig{})
	admin := as(t, "boss", "admin")
	h.signUp(t, admin, "boss", "admin")

	csv := "Order Number,Customer Name,Address,Amount To Collect\nA-1,Ravi,1 Park St,100\nA-2,Sita,2 Lake Rd,\"1,200\"\n"
	imp, err := h.admin.ImportOrders(admin, &portalv1.ImportOrdersRequest{Filename: "orders.csv", Content: []byte(csv)})
	require.NoError(t, err)
	assert.Equal(t, 2, imp.Created)

	_, err = h.admin.ImportOrders(admin, &portalv1.ImportOrdersRequest{Filename: "orders.txt", Content: []byte(csv)})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	page, err := h.admin.ListOrders(admin, &portalv1.ListOrdersRequest{PageSize: 1})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "A-1", page.Orders[0].OrderNumber)
	require.NotEmpty(t, page.NextPageToken)
	page, err = h.admin.ListOrders(admin, &portalv1.ListOrdersRequest{PageSize: 1, PageToken: page.NextPageToken})
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	assert.Equal(t, "A-2", page.Orders[0].OrderNumber)
	assert.Equal(t, 1200.0, page.Orders[0].AmountToCollect)

	_, err = h.admin.ListOrders(admin, &portalv1.ListOrdersRequest{PageToken: "garbage"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	addr := "3 Hill Rd"
	upd, err := h.admin.UpdateOrder(admin, &portalv1.UpdateOrderRequest{ID: page.Orders[0].ID, Patch: &portalv1.OrderPatch{Address: &addr}})
	require.NoError(t, err)
	assert.Equal(t, addr, upd.Order.Address)

	n, err := h.admin.CountOrders(admin, &portalv1.CountOrdersRequest{Statuses: []string{"pending"}})
	require.NoError(t, err)
	assert.Equal(t, int64(2), n.Count)

	cancelled, err := h.admin.CancelOrder(admin, &portalv1.CancelOrderRequest{OrderID: upd.Order.ID})
	assert.Nil(t, cancelled)
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestAdminSpoofRejected(t *testing.T) {
	h := newHarness(t, "grpc_spoof", config.GRPCConfig{})

	// No stored profile at all.
	_, err := h.admin.ListRiders(as(t, "ghost", "admin"), &portalv1.Empty{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	// Stored as a rider, token claims admin.
	_, err = h.profile.GetProfile(as(t, "mallory", "rider"), &portalv1.Empty{})
	require.NoError(t, err)
	_, err = h.admin.ListRiders(as(t, "mallory", "admin"), &portalv1.Empty{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))

	_, err = h.admin.ListRiders(as(t, "mallory", "rider"), &portalv1.Empty{})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestRiderMustBeActive(t *testing.T) {
	h := newHarness(t, "grpc_inactive", config.GRPCConfig{})
	admin := as(t, "boss", "admin")
	h.signUp(t, admin, "boss", "admin")
	created, err := h.admin.CreateOrder(admin, &portalv1.CreateOrderRequest{Order: &portalv1.Order{OrderNumber: "X"}})
	require.NoError(t, err)

	newbie := as(t, "newbie", "rider")
	_, err = h.profile.GetProfile(newbie, &portalv1.Empty{})
	require.NoError(t, err)
	_, err = h.rider.AcquireOrder(newbie, &portalv1.AcquireOrderRequest{OrderID: created.Order.ID})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = h.rider.AcquireOrder(admin, &portalv1.AcquireOrderRequest{OrderID: created.Order.ID})
	assert.Equal(t, codes.PermissionDenied, status.Code(err))
}

func TestProfileUpdate(t *testing.T) {
	h := newHarness(t, "grpc_profile", config.GRPCConfig{})
	ctx := as(t, "r1", "rider")
	first := "  Asha "
	resp, err := h.profile.UpdateProfile(ctx, &portalv1.UpdateProfileRequest{FirstName: &first})
	require.NoError(t, err)
	assert.Equal(t, "Asha", resp.User.FirstName)
	assert.Equal(t, "rider", resp.User.Role)
	assert.Equal(t, "pending", resp.User.AccountStatus)
	assert.Equal(t, "r1@example.com", resp.User.Email)
}

func TestRequestIDEchoedAndLogged(t *testing.T) {
	h := newHarness(t, "grpc_reqid", config.GRPCConfig{})
	ctx := metadata.AppendToOutgoingContext(as(t, "r1", "rider"), "x-request-id", "req-42")
	var header metadata.MD
	_, err := h.profile.GetProfile(ctx, &portalv1.Empty{}, grpc.Header(&header))
	require.NoError(t, err)
	assert.Equal(t, []string{"req-42"}, header.Get("x-request-id"))

	entries := h.logs.FilterMessage("rpc").FilterField(zap.String("request_id", "req-42")).All()
	require.Len(t, entries, 1)
	assert.Equal(t, portalv1.ProfileService_GetProfile_FullMethodName, entries[0].ContextMap()["method"])
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, "grpc_ratelimit", config.GRPCConfig{RateLimitRPS: 0.001, RateLimitBurst: 2})
	ctx := as(t, "r1", "rider")
	for i := 0; i < 2; i++ {
		_, err := h.profile.GetProfile(ctx, &portalv1.Empty{})
		require.NoError(t, err)
	}
	_, err := h.profile.GetProfile(ctx, &portalv1.Empty{})
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	// Budgets are per caller.
	_, err = h.profile.GetProfile(as(t, "r2", "rider"), &portalv1.Empty{})
	assert.NoError(t, err)
}
