package domain

import "time"

// Property is the read model of the platform's property record. This
// service only checks ownership and builds previews from it; property CRUD
// lives elsewhere.
type Property struct {
	ID         string // platform property id, uuid
	LandlordID string
	Name       string
	Address    string
	Type       string // e.g. "apartment", "house"
	Unit       string

	// Tenant-only amenity details. These must never appear in a
	// pre-authentication preview.
	WifiNetwork  string
	WifiPassword string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PropertyPreview is the minimal, pre-authentication-safe projection shown
// to a prospective tenant validating an invite.
type PropertyPreview struct {
	Name    string
	Address string
	Type    string
	Unit    string
}

// Preview strips the property down to what an unauthenticated holder of a
// valid token may see. Wifi credentials and anything about current tenants
// stay out.
func (p Property) Preview() PropertyPreview {
	return PropertyPreview{
		Name:    p.Name,
		Address: p.Address,
		Type:    p.Type,
		Unit:    p.Unit,
	}
}
