package service

import (
	"context"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/domain"
)

// InviteCreatedEvent describes a freshly minted invite to downstream
// delivery. It deliberately omits the plaintext token; the creator already
// holds it and composes the share themselves.
type InviteCreatedEvent struct {
	InviteID       string                `json:"invite_id"`
	PropertyID     string                `json:"property_id"`
	PropertyName   string                `json:"property_name"`
	DeliveryMethod domain.DeliveryMethod `json:"delivery_method"`
	IntendedEmail  string                `json:"intended_email,omitempty"`
	ExpiresAt      time.Time             `json:"expires_at"`
}

// Notifier delivers lifecycle events to external systems. Implementations
// must not block the caller on delivery failures; best effort only.
type Notifier interface {
	InviteCreated(ctx context.Context, event InviteCreatedEvent)
}
