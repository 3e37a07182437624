package domain

import "time"

type Role string

const (
	RoleLandlord Role = "landlord"
	RoleTenant   Role = "tenant"
)

// Profile is the slice of the platform's identity record this service reads
// and conditionally mutates. Role is explicitly nullable: a freshly signed-up
// identity has no role until it creates a property or accepts an invite.
type Profile struct {
	ID        string // platform identity, uuid
	Email     string
	Role      *Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRole reports whether the profile already holds any role.
func (p Profile) HasRole() bool { return p.Role != nil }
