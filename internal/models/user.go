package models

import (
	"time"
)

// UserRole represents user roles in the system
type UserRole string

const (
	UserRoleUser   UserRole = "user"
	UserRoleAdmin  UserRole = "admin"
	UserRoleVendor UserRole = "vendor"
)

// UserStatus represents user account status
type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

// User represents a user in the GrocerMart system
type User struct {
	ID           string     `json:"id" db:"id"`
	Email        string     `json:"email" db:"email"`
	Phone        string     `json:"phone" db:"phone"`
	FirstName    string     `json:"firstName" db:"first_name"`
	LastName     string     `json:"lastName" db:"last_name"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         UserRole   `json:"role" db:"role"`
	Status       UserStatus `json:"status" db:"status"`
	VendorID     string     `json:"vendorId,omitempty" db:"vendor_id"`
	Theme        string     `json:"theme" db:"theme"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// GetFullName returns the user's full name
func (u *User) GetFullName() string {
	return u.FirstName + " " + u.LastName
}

// IsActive checks if the user account is active
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// UserRegistration represents user registration data
type UserRegistration struct {
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Password  string `json:"password" validate:"required,min=8"`
}

// UserLogin represents user login data
type UserLogin struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Session carries the identity and role of the acting user. Core operations
// take it explicitly instead of reading ambient session state.
type Session struct {
	UserID   string   `json:"userId"`
	Role     UserRole `json:"role"`
	VendorID string   `json:"vendorId,omitempty"`
}

// Authenticated checks if the session belongs to a logged-in user
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// IsAdmin checks if the session has the admin role
func (s Session) IsAdmin() bool {
	return s.Role == UserRoleAdmin
}

// IsVendor checks if the session has the vendor role
func (s Session) IsVendor() bool {
	return s.Role == UserRoleVendor
}
