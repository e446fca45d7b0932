package portalv1

import "time"

// Order is the wire form of an order.
type Order struct {
	ID              string     `json:"id"`
	OrderNumber     string     `json:"orderNumber"`
	CustomerName    string     `json:"customerName"`
	CustomerPhone   string     `json:"customerPhone"`
	SecondaryPhone  string     `json:"secondaryPhone"`
	Address         string     `json:"address"`
	Pincode         string     `json:"pincode"`
	AmountToCollect float64    `json:"amountToCollect"`
	ProductName     string     `json:"productName"`
	Status          string     `json:"status"`
	RiderID         string     `json:"riderId"`
	RiderName       string     `json:"riderName"`
	RiderPhone      string     `json:"riderPhone"`
	CreatedAt       time.Time  `json:"createdAt"`
	AssignedAt      *time.Time `json:"assignedAt,omitempty"`
	PickedAt        *time.Time `json:"pickedAt,omitempty"`
	DeliveredAt     *time.Time `json:"deliveredAt,omitempty"`
	POD             POD        `json:"pod"`
}

type POD struct {
	Photos   []string   `json:"photos"`
	Notes    string     `json:"notes"`
	Time     *time.Time `json:"time,omitempty"`
	Location *Location  `json:"location,omitempty"`
}

type Location struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

type User struct {
	ID            string    `json:"id"`
	Email         string    `json:"email"`
	FirstName     string    `json:"firstName"`
	LastName      string    `json:"lastName"`
	Phone         string    `json:"phone"`
	Bio           string    `json:"bio"`
	PhotoURL      string    `json:"photoUrl"`
	Role          string    `json:"role"`
	AccountStatus string    `json:"accountStatus"`
	CreatedAt     time.Time `json:"createdAt"`
}

type Stats struct {
	Delivered int64 `json:"delivered"`
	Picked    int64 `json:"picked"`
	Active    int64 `json:"active"`
}

type Empty struct{}

type OrderResponse struct {
	Order *Order `json:"order"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ListOrdersResponse struct {
	Orders        []*Order `json:"orders"`
	NextPageToken string   `json:"nextPageToken,omitempty"`
}

// Admin service messages.

// CreateOrderRequest carries a full order; only the customer and product fields are used.
type CreateOrderRequest struct {
	Order *Order `json:"order"`
}

type ImportOrdersRequest struct {
	Filename string `json:"filename"`
	Content  []byte `json:"content"`
}

type ImportOrdersResponse struct {
	Created int      `json:"created"`
	Orders  []*Order `json:"orders"`
}

type GetOrderRequest struct {
	ID string `json:"id"`
}

// OrderPatch lists the fields to change; absent fields are left untouched.
type OrderPatch struct {
	OrderNumber     *string  `json:"orderNumber,omitempty"`
	CustomerName    *string  `json:"customerName,omitempty"`
	CustomerPhone   *string  `json:"customerPhone,omitempty"`
	SecondaryPhone  *string  `json:"secondaryPhone,omitempty"`
	Address         *string  `json:"address,omitempty"`
	Pincode         *string  `json:"pincode,omitempty"`
	AmountToCollect *float64 `json:"amountToCollect,omitempty"`
	ProductName     *string  `json:"productName,omitempty"`
	Status          *string  `json:"status,omitempty"`
	RiderID         *string  `json:"riderId,omitempty"`
	RiderName       *string  `json:"riderName,omitempty"`
	RiderPhone      *string  `json:"riderPhone,omitempty"`
	PODNotes        *string  `json:"podNotes,omitempty"`
}

type UpdateOrderRequest struct {
	ID    string      `json:"id"`
	Patch *OrderPatch `json:"patch"`
}

type DeleteOrderRequest struct {
	ID string `json:"id"`
}

type ListOrdersRequest struct {
	Statuses  []string `json:"statuses,omitempty"`
	RiderID   *string  `json:"riderId,omitempty"`
	PageSize  int32    `json:"pageSize,omitempty"`
	PageToken string   `json:"pageToken,omitempty"`
}

type CountOrdersRequest struct {
	Statuses []string `json:"statuses,omitempty"`
	RiderID  *string  `json:"riderId,omitempty"`
}

type CountOrdersResponse struct {
	Count int64 `json:"count"`
}

type AssignOrderRequest struct {
	OrderID string `json:"orderId"`
	RiderID string `json:"riderId"`
}

type CancelOrderRequest struct {
	OrderID string `json:"orderId"`
}

type RiderSummary struct {
	Rider *User  `json:"rider"`
	Stats *Stats `json:"stats"`
}

type ListRidersResponse struct {
	Riders []*RiderSummary `json:"riders"`
}

type GetRiderDetailsRequest struct {
	RiderID string `json:"riderId"`
}

type RiderDetailsResponse struct {
	Rider  *User    `json:"rider"`
	Stats  *Stats   `json:"stats"`
	Orders []*Order `json:"orders"`
}

type SetRiderStatusRequest struct {
	RiderID string `json:"riderId"`
	Status  string `json:"status"`
}

type ReconcileAssetsResponse struct {
	Scanned   int `json:"scanned"`
	Linked    int `json:"linked"`
	Collected int `json:"collected"`
	Failed    int `json:"failed"`
}

// Rider service messages.

type ListAvailableOrdersRequest struct {
	PageSize  int32  `json:"pageSize,omitempty"`
	PageToken string `json:"pageToken,omitempty"`
}

type AcquireOrderRequest struct {
	OrderID string `json:"orderId"`
}

type MarkPickedRequest struct {
	OrderID string `json:"orderId"`
}

type UploadPODAssetRequest struct {
	OrderID     string `json:"orderId"`
	Filename    string `json:"filename"`
	ContentType string `json:"contentType"`
	Content     []byte `json:"content"`
}

type UploadPODAssetResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

type SubmitPODRequest struct {
	OrderID  string    `json:"orderId"`
	AssetRef string    `json:"assetRef"`
	Notes    string    `json:"notes"`
	Location *Location `json:"location,omitempty"`
}

type ListMyOrdersRequest struct {
	Statuses []string `json:"statuses,omitempty"`
}

type StatsResponse struct {
	Stats *Stats `json:"stats"`
}

// Profile service messages.

type UpdateProfileRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	PhotoURL  *string `json:"photoUrl,omitempty"`
}
