package models

import "time"

// OrderStatus represents the current progress of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusAssigned  OrderStatus = "assigned"
	OrderStatusPicked    OrderStatus = "picked"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid reports whether s is one of the known statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusPending, OrderStatusAssigned, OrderStatusPicked, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

func (s OrderStatus) String() string {
	return string(s)
}

// transitions lists, for every status, the statuses an order may move to next.
// delivered -> delivered is the POD resubmission path.
var transitions = map[OrderStatus][]OrderStatus{
	OrderStatusPending:   {OrderStatusAssigned},
	OrderStatusAssigned:  {OrderStatusPicked, OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusPicked:    {OrderStatusDelivered, OrderStatusCancelled},
	OrderStatusDelivered: {OrderStatusDelivered},
	OrderStatusCancelled: nil,
}

// CanTransition reports whether an order in status from may be moved to status to.
func CanTransition(from, to OrderStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Reachable reports whether to can be reached from from in one or more steps.
func Reachable(from, to OrderStatus) bool {
	seen := map[OrderStatus]bool{}
	queue := []OrderStatus{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, next := range transitions[cur] {
			if next == to {
				return true
			}
			if !seen[next] {
				seen[next] = true
				queue = append(queue, next)
			}
		}
	}
	return false
}

// SourcesFor returns every status from which to is reachable in one step.
func SourcesFor(to OrderStatus) []OrderStatus {
	var out []OrderStatus
	for _, from := range []OrderStatus{OrderStatusPending, OrderStatusAssigned, OrderStatusPicked, OrderStatusDelivered, OrderStatusCancelled} {
		if CanTransition(from, to) {
			out = append(out, from)
		}
	}
	return out
}

// GeoPoint is an optional capture location. Either coordinate may be null on its own.
type GeoPoint struct {
	Lat *float64 `json:"lat"`
	Lng *float64 `json:"lng"`
}

// POD is the proof-of-delivery sub-record of an order.
type POD struct {
	Photos   []string   `json:"photos"`
	Notes    string     `json:"notes"`
	Time     *time.Time `json:"time,omitempty"`
	Location *GeoPoint  `json:"location,omitempty"`
}

// OrderDraft carries the caller supplied, descriptive part of an order.
type OrderDraft struct {
	OrderNumber     string  `json:"order_number"`
	CustomerName    string  `json:"customer_name"`
	CustomerPhone   string  `json:"customer_phone"`
	SecondaryPhone  string  `json:"secondary_phone"`
	Address         string  `json:"address"`
	Pincode         string  `json:"pincode"`
	AmountToCollect float64 `json:"amount_to_collect"`
	ProductName     string  `json:"product_name"`
}

// Order is a delivery task. Rider fields are empty exactly while Status is pending.
type Order struct {
	ID string `db:"id" json:"id"`
	OrderDraft

	RiderID    string `db:"rider_id" json:"rider_id"`
	RiderName  string `db:"rider_name" json:"rider_name"`
	RiderPhone string `db:"rider_phone" json:"rider_phone"`

	Status OrderStatus `db:"status" json:"status"`

	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	AssignedAt  *time.Time `db:"assigned_at" json:"assigned_at,omitempty"`
	PickedAt    *time.Time `db:"picked_at" json:"picked_at,omitempty"`
	DeliveredAt *time.Time `db:"delivered_at" json:"delivered_at,omitempty"`

	POD POD `json:"pod"`
}

// HasPhoto reports whether ref is already part of the POD photo list.
func (o *Order) HasPhoto(ref string) bool {
	for _, p := range o.POD.Photos {
		if p == ref {
			return true
		}
	}
	return false
}

// RiderRef is the rider identity copied onto an order at assignment time.
type RiderRef struct {
	ID    string
	Name  string
	Phone string
}

// OrderPatch is an administrator edit. Nil fields are left untouched.
type OrderPatch struct {
	OrderNumber     *string      `json:"order_number,omitempty"`
	CustomerName    *string      `json:"customer_name,omitempty"`
	CustomerPhone   *string      `json:"customer_phone,omitempty"`
	SecondaryPhone  *string      `json:"secondary_phone,omitempty"`
	Address         *string      `json:"address,omitempty"`
	Pincode         *string      `json:"pincode,omitempty"`
	AmountToCollect *float64     `json:"amount_to_collect,omitempty"`
	ProductName     *string      `json:"product_name,omitempty"`
	RiderID         *string      `json:"rider_id,omitempty"`
	RiderName       *string      `json:"rider_name,omitempty"`
	RiderPhone      *string      `json:"rider_phone,omitempty"`
	Status          *OrderStatus `json:"status,omitempty"`
	PODNotes        *string      `json:"pod_notes,omitempty"`
}

// Empty reports whether the patch carries no field at all.
func (p OrderPatch) Empty() bool {
	return p.OrderNumber == nil && p.CustomerName == nil && p.CustomerPhone == nil &&
		p.SecondaryPhone == nil && p.Address == nil && p.Pincode == nil &&
		p.AmountToCollect == nil && p.ProductName == nil && p.RiderID == nil &&
		p.RiderName == nil && p.RiderPhone == nil && p.Status == nil && p.PODNotes == nil
}

// PODSubmission is the second phase of the proof-of-delivery flow.
type PODSubmission struct {
	RiderID  string // empty when submitted by an administrator
	AssetRef string
	Notes    string
	Location *GeoPoint
}

// PODAsset is a ledger entry for an uploaded proof-of-delivery blob.
// LinkedAt stays nil until the reference has been attached to its order.
// CollectedAt is set once the reconciler has claimed the blob for deletion;
// after that the reference can no longer be linked.
type PODAsset struct {
	Key         string     `json:"key"`
	OrderID     string     `json:"order_id"`
	URL         string     `json:"url"`
	UploadedAt  time.Time  `json:"uploaded_at"`
	LinkedAt    *time.Time `json:"linked_at,omitempty"`
	CollectedAt *time.Time `json:"collected_at,omitempty"`
}
