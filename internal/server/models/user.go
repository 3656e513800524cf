// Package models contains the server-side domain records persisted by the
// repositories and serialized by the HTTP layer.
package models

import "time"

// Roles assignable to an identity. Admin-only routes are gated on RoleAdmin.
const (
	RoleCreator = "creator"
	RoleAdmin   = "admin"
)

// KYC states an identity can be in.
const (
	KYCNotRequired = "not_required"
	KYCPending     = "pending"
	KYCApproved    = "approved"
	KYCRejected    = "rejected"
)

// User is an identity on the platform. An identity is created either by
// password registration or auto-provisioned on the first wallet login, so
// Email/PasswordHash and WalletAddress are each optional. At least one of
// the two credential kinds is always set.
//
// WalletAddress is stored lower-cased so lookups are case-insensitive.
// PasswordHash is never serialized.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email,omitempty"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"display_name"`
	Bio               string    `json:"bio,omitempty"`
	WalletAddress     string    `json:"wallet_address,omitempty"`
	PasswordHash      string    `json:"-"`
	ProfileImageKey   string    `json:"profile_image,omitempty"`
	CoverImageKey     string    `json:"cover_image,omitempty"`
	Role              string    `json:"role"`
	IsApproved        bool      `json:"is_approved"`
	KYCStatus         string    `json:"kyc_status"`
	SubscriberCount   int64     `json:"subscriber_count"`
	TotalTipsReceived float64   `json:"total_tips_received"`
	CreatedAt         time.Time `json:"created_at"`
}
