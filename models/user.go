package models

import (
	"strings"
	"time"
)

// Role is the portal role carried by a user profile and by the session token.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleRider Role = "rider"
)

// AccountStatus gates whether a rider may acquire work.
type AccountStatus string

const (
	AccountStatusPending  AccountStatus = "pending"
	AccountStatusActive   AccountStatus = "active"
	AccountStatusInactive AccountStatus = "inactive"
)

// User represents a portal user. It maps to the `users` table in SQLite.
// The ID is the identity provider's subject.
type User struct {
	ID            string        `db:"id" json:"id"`
	Email         string        `db:"email" json:"email"`
	FirstName     string        `db:"first_name" json:"first_name"`
	LastName      string        `db:"last_name" json:"last_name"`
	Phone         string        `db:"phone" json:"phone"`
	Bio           string        `db:"bio" json:"bio"`
	PhotoURL      string        `db:"photo_url" json:"photo_url"`
	Role          Role          `db:"role" json:"role"`
	AccountStatus AccountStatus `db:"account_status" json:"account_status"`
	CreatedAt     time.Time     `db:"created_at" json:"created_at"`
}

// DisplayName is the name copied onto orders at assignment time.
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// ProfilePatch is a self-service profile edit. Nil fields are left untouched.
type ProfilePatch struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	PhotoURL  *string `json:"photo_url,omitempty"`
}

// RiderStats are derived on every read from the orders table.
type RiderStats struct {
	Delivered int64 `json:"delivered"`
	Picked    int64 `json:"picked"`
	Active    int64 `json:"active"`
}
