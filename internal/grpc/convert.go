package grpcserver

import (
	"strings"

	portalv1 "riderDeliveryPortal/api/portal/v1"
	"riderDeliveryPortal/internal/service"
	"riderDeliveryPortal/models"
	"riderDeliveryPortal/repository"
)

func toWireOrder(o *models.Order) *portalv1.Order {
	if o == nil {
		return nil
	}
	photos := o.POD.Photos
	if photos == nil {
		photos = []string{}
	}
	return &portalv1.Order{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerName:    o.CustomerName,
		CustomerPhone:   o.CustomerPhone,
		SecondaryPhone:  o.SecondaryPhone,
		Address:         o.Address,
		Pincode:         o.Pincode,
		AmountToCollect: o.AmountToCollect,
		ProductName:     o.ProductName,
		Status:          string(o.Status),
		RiderID:         o.RiderID,
		RiderName:       o.RiderName,
		RiderPhone:      o.RiderPhone,
		CreatedAt:       o.CreatedAt,
		AssignedAt:      o.AssignedAt,
		PickedAt:        o.PickedAt,
		DeliveredAt:     o.DeliveredAt,
		POD: portalv1.POD{
			Photos:   photos,
			Notes:    o.POD.Notes,
			Time:     o.POD.Time,
			Location: toWireLocation(o.POD.Location),
		},
	}
}

func toWireOrders(list []*models.Order) []*portalv1.Order {
	out := make([]*portalv1.Order, 0, len(list))
	for _, o := range list {
		out = append(out, toWireOrder(o))
	}
	return out
}

func toWireLocation(g *models.GeoPoint) *portalv1.Location {
	if g == nil {
		return nil
	}
	return &portalv1.Location{Lat: g.Lat, Lng: g.Lng}
}

func fromWireLocation(l *portalv1.Location) *models.GeoPoint {
	if l == nil || (l.Lat == nil && l.Lng == nil) {
		return nil
	}
	return &models.GeoPoint{Lat: l.Lat, Lng: l.Lng}
}

func toWireUser(u *models.User) *portalv1.User {
	if u == nil {
		return nil
	}
	return &portalv1.User{
		ID:            u.ID,
		Email:         u.Email,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Phone:         u.Phone,
		Bio:           u.Bio,
		PhotoURL:      u.PhotoURL,
		Role:          string(u.Role),
		AccountStatus: string(u.AccountStatus),
		CreatedAt:     u.CreatedAt,
	}
}

func toWireStats(s models.RiderStats) *portalv1.Stats {
	return &portalv1.Stats{Delivered: s.Delivered, Picked: s.Picked, Active: s.Active}
}

func toWireRiders(list []service.RiderWithStats) []*portalv1.RiderSummary {
	out := make([]*portalv1.RiderSummary, 0, len(list))
	for _, r := range list {
		out = append(out, &portalv1.RiderSummary{Rider: toWireUser(r.Rider), Stats: toWireStats(r.Stats)})
	}
	return out
}

func toWirePage(p repository.OrderPage) *portalv1.ListOrdersResponse {
	return &portalv1.ListOrdersResponse{Orders: toWireOrders(p.Orders), NextPageToken: p.NextPageToken}
}

// draftFromWire keeps only the descriptive fields; status, rider and POD are never
// taken from a create request.
func draftFromWire(o *portalv1.Order) models.OrderDraft {
	if o == nil {
		return models.OrderDraft{}
	}
	return models.OrderDraft{
		OrderNumber:     strings.TrimSpace(o.OrderNumber),
		CustomerName:    strings.TrimSpace(o.CustomerName),
		CustomerPhone:   strings.TrimSpace(o.CustomerPhone),
		SecondaryPhone:  strings.TrimSpace(o.SecondaryPhone),
		Address:         strings.TrimSpace(o.Address),
		Pincode:         strings.TrimSpace(o.Pincode),
		AmountToCollect: o.AmountToCollect,
		ProductName:     strings.TrimSpace(o.ProductName),
	}
}

func patchFromWire(p *portalv1.OrderPatch) models.OrderPatch {
	if p == nil {
		return models.OrderPatch{}
	}
	out := models.OrderPatch{
		OrderNumber:     p.OrderNumber,
		CustomerName:    p.CustomerName,
		CustomerPhone:   p.CustomerPhone,
		SecondaryPhone:  p.SecondaryPhone,
		Address:         p.Address,
		Pincode:         p.Pincode,
		AmountToCollect: p.AmountToCollect,
		ProductName:     p.ProductName,
		RiderID:         p.RiderID,
		RiderName:       p.RiderName,
		RiderPhone:      p.RiderPhone,
		PODNotes:        p.PODNotes,
	}
	if p.Status != nil {
		st := models.OrderStatus(strings.ToLower(strings.TrimSpace(*p.Status)))
		out.Status = &st
	}
	return out
}

func statusesFromWire(in []string) []models.OrderStatus {
	if len(in) == 0 {
		return nil
	}
	out := make([]models.OrderStatus, 0, len(in))
	for _, s := range in {
		out = append(out, models.OrderStatus(strings.ToLower(strings.TrimSpace(s))))
	}
	return out
}

func profilePatchFromWire(r *portalv1.UpdateProfileRequest) models.ProfilePatch {
	return models.ProfilePatch{
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Phone:     r.Phone,
		Bio:       r.Bio,
		PhotoURL:  r.PhotoURL,
	}
}
