package domain

import "time"

type LinkStatus string

const (
	LinkPending LinkStatus = "pending"
	LinkActive  LinkStatus = "active"
	LinkExpired LinkStatus = "expired"
	LinkRevoked LinkStatus = "revoked"
)

// Link is a durable tenant-property relationship. Rows are unique per
// (tenant, property) pair and are deactivated rather than deleted; at most
// one link per tenant may be active at a time, which is what makes a
// tenant's "home" singular.
type Link struct {
	ID         string // ulid
	TenantID   string // platform identity, uuid
	PropertyID string // platform property id, uuid
	Active     bool
	Status     LinkStatus
	AcceptedAt *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
