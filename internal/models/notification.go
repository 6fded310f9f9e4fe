package models

import (
	"time"
)

// NotificationType represents notification types
type NotificationType string

const (
	NotificationTypeOrderPlaced NotificationType = "order_placed"
	NotificationTypeOrderStatus NotificationType = "order_status"
	NotificationTypeGeneral     NotificationType = "general"
)

// AudienceKind selects which ledger a notification belongs to
type AudienceKind string

const (
	AudienceAdmin  AudienceKind = "admin"
	AudienceVendor AudienceKind = "vendor"
	AudienceUser   AudienceKind = "user"
)

// IsValid checks if the audience kind names a known ledger
func (k AudienceKind) IsValid() bool {
	switch k {
	case AudienceAdmin, AudienceVendor, AudienceUser:
		return true
	}
	return false
}

// Audience is the tagged recipient of a notification, assigned at creation
// time and never moved. Vendor notifications always carry a VendorID. User
// notifications may carry a UserID to scope visibility; an empty UserID means
// visible to every user.
type Audience struct {
	Kind     AudienceKind `json:"kind"`
	VendorID string       `json:"vendorId,omitempty"`
	UserID   string       `json:"userId,omitempty"`
}

// AdminAudience returns the admin ledger audience
func AdminAudience() Audience {
	return Audience{Kind: AudienceAdmin}
}

// VendorAudience returns a vendor ledger audience for the given vendor
func VendorAudience(vendorID string) Audience {
	return Audience{Kind: AudienceVendor, VendorID: vendorID}
}

// UserAudience returns a user ledger audience. An empty userID broadcasts
// to every user.
func UserAudience(userID string) Audience {
	return Audience{Kind: AudienceUser, UserID: userID}
}

// VisibleTo checks whether the notification should be shown for the given
// scope value (a vendor ID for the vendor ledger, a user ID for the user
// ledger, ignored for the admin ledger).
func (a Audience) VisibleTo(scope string) bool {
	switch a.Kind {
	case AudienceAdmin:
		return true
	case AudienceVendor:
		return a.VendorID == scope
	case AudienceUser:
		return a.UserID == "" || a.UserID == scope
	}
	return false
}

// Notification represents a single ledger record. Created once; mutated only
// by IsRead flips or a ledger-wide clear.
type Notification struct {
	ID        string           `json:"id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Timestamp time.Time        `json:"timestamp"`
	IsRead    bool             `json:"isRead"`
	Type      NotificationType `json:"type"`
	OrderID   string           `json:"orderId,omitempty"`
	Audience  Audience         `json:"audience"`
}
