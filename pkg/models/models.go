package models

import "time"

// Role identifies which side of the exchange a user is on.
type Role string

const (
	// RoleRestaurant lists surplus food (the supplier side).
	RoleRestaurant Role = "restaurant"
	// RoleCharity browses and reserves food (the recipient side).
	RoleCharity Role = "charity"
)

// User represents a demo account and its organization profile.
type User struct {
	ID               string    `json:"id" yaml:"id"`
	Name             string    `json:"name" yaml:"name"`
	Email            string    `json:"email" yaml:"email"`
	Role             Role      `json:"role" yaml:"role"`
	OrganizationName string    `json:"organization_name" yaml:"organization_name"`
	Address          string    `json:"address" yaml:"address"`
	Phone            string    `json:"phone" yaml:"phone"`
	PasswordHash     string    `json:"-" yaml:"-"`
	CreatedAt        time.Time `json:"created_at" yaml:"-"`
}

// IsSupplier reports whether the user lists items.
func (u *User) IsSupplier() bool {
	return u != nil && u.Role == RoleRestaurant
}

// IsRecipient reports whether the user reserves items.
func (u *User) IsRecipient() bool {
	return u != nil && u.Role == RoleCharity
}
