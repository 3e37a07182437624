package domain

import "time"

type DeliveryMethod string

const (
	DeliveryEmail DeliveryMethod = "email"
	DeliveryCode  DeliveryMethod = "code"
)

// Valid reports whether m is one of the supported delivery methods.
func (m DeliveryMethod) Valid() bool {
	return m == DeliveryEmail || m == DeliveryCode
}

// InviteStatus is derived from the invite's timestamp columns at read time.
// It is never stored, so there is exactly one place that decides what state
// an invite is in.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
	InviteRevoked  InviteStatus = "revoked"
	InviteDeleted  InviteStatus = "deleted"
)

type Invite struct {
	ID         string // ulid
	PropertyID string // platform property id, uuid
	CreatedBy  string // issuing landlord's identity

	// TokenHash is hex(sha256(plaintext || TokenSalt)). The plaintext is
	// returned to the creator exactly once and never persisted or logged.
	TokenHash string
	TokenSalt string

	// IntendedEmail is delivery metadata only. It is never matched against
	// during validation or acceptance; the hashed token is the sole
	// credential.
	IntendedEmail  string
	DeliveryMethod DeliveryMethod

	ExpiresAt  time.Time
	AcceptedAt *time.Time
	AcceptedBy string // set together with AcceptedAt, first writer wins
	RevokedAt  *time.Time
	DeletedAt  *time.Time

	ValidationAttempts    int
	LastValidationAttempt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StatusAt derives the lifecycle state at now. Deletion and revocation
// outrank acceptance; acceptance outranks expiry, so an accepted invite
// never flips to expired after the fact.
func (i Invite) StatusAt(now time.Time) InviteStatus {
	switch {
	case i.DeletedAt != nil:
		return InviteDeleted
	case i.RevokedAt != nil:
		return InviteRevoked
	case i.AcceptedAt != nil:
		return InviteAccepted
	case now.After(i.ExpiresAt):
		return InviteExpired
	default:
		return InvitePending
	}
}

// Open reports whether the invite is still redeemable at now.
func (i Invite) Open(now time.Time) bool {
	return i.StatusAt(now) == InvitePending
}
