package store

import (
	"context"
	"errors"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today,
// postgres when the platform migrates) implement this. Sub-repositories keep
// concerns tidy and let transaction-scoped stores reuse the same interfaces.
type Store interface {
	Invites() Invites
	Links() Links
	Profiles() Profiles
	Properties() Properties
	RateLimits() RateLimits

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. This is the recommended way to handle
	// multi-step operations that must be atomic (e.g. invite acceptance).
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds
// Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Invites interface {
	// CreateInvite writes a new invite. Only token_hash and token_salt are
	// stored; the plaintext token never reaches this layer.
	CreateInvite(ctx context.Context, inv domain.Invite) error

	// GetInviteByID returns an invite regardless of state.
	GetInviteByID(ctx context.Context, id string) (domain.Invite, error)

	// ListOpenInvites returns the invites still redeemable at now: not
	// accepted, not revoked, not soft-deleted, not expired. Backed by a
	// partial index, so the result set is bounded by the number of
	// currently-outstanding invites. Token matching re-hashes the candidate
	// against each row's salt, which is why this set must stay small.
	ListOpenInvites(ctx context.Context, now time.Time) ([]domain.Invite, error)

	// ListUndeletedInvites additionally includes terminal rows (accepted,
	// revoked, expired) that retention cleanup has not yet soft-deleted.
	// The authenticated accept path uses this to report terminal statuses.
	ListUndeletedInvites(ctx context.Context) ([]domain.Invite, error)

	// MarkInviteAccepted records acceptance exactly once, guarded by
	// accepted_at IS NULL. Returns whether the update matched; a false
	// return means another acceptance already landed.
	MarkInviteAccepted(ctx context.Context, id, acceptedBy string, now time.Time) (bool, error)

	// RevokeInvite sets revoked_at on a pending invite created by createdBy.
	// Returns whether the update matched.
	RevokeInvite(ctx context.Context, id, createdBy string, now time.Time) (bool, error)

	// RecordValidationAttempt bumps the rate-limiting bookkeeping on a
	// matched invite.
	RecordValidationAttempt(ctx context.Context, id string, now time.Time) error

	// SoftDeleteExpiredInvites sets deleted_at on terminal invites past
	// their retention window: accepted longer than acceptedRetention ago,
	// or expired longer than expiredRetention ago and never accepted.
	// Returns the number of rows swept.
	SoftDeleteExpiredInvites(ctx context.Context, now time.Time, acceptedRetention, expiredRetention time.Duration) (int64, error)
}

type Links interface {
	// GetLink returns the link for a (tenant, property) pair in any state.
	GetLink(ctx context.Context, tenantID, propertyID string) (domain.Link, error)

	// GetActiveLink returns the tenant's single active link, if any.
	GetActiveLink(ctx context.Context, tenantID string) (domain.Link, error)

	// ListLinks returns all of a tenant's links, newest first.
	ListLinks(ctx context.Context, tenantID string) ([]domain.Link, error)

	// DeactivateOtherLinks flips is_active off for every link the tenant
	// holds on properties other than keepPropertyID. Returns the number of
	// rows touched.
	DeactivateOtherLinks(ctx context.Context, tenantID, keepPropertyID string, now time.Time) (int64, error)

	// UpsertActiveLink inserts or reactivates the (tenant, property) link.
	// On reactivation the original accepted_at is kept. A violation of the
	// one-active-link-per-tenant constraint surfaces as ErrAlreadyExists.
	UpsertActiveLink(ctx context.Context, link domain.Link) error
}

type Profiles interface {
	GetProfileByID(ctx context.Context, id string) (domain.Profile, error)

	// CreateProfile inserts a profile row mirrored from the platform.
	CreateProfile(ctx context.Context, p domain.Profile) error

	// EnsureRole assigns role only where no role is currently set. It never
	// overwrites; the return reports whether a row was updated.
	EnsureRole(ctx context.Context, id string, role domain.Role, now time.Time) (bool, error)
}

type Properties interface {
	GetPropertyByID(ctx context.Context, id string) (domain.Property, error)

	// CreateProperty inserts a property row mirrored from the platform.
	CreateProperty(ctx context.Context, p domain.Property) error
}

type RateLimits interface {
	// Take refills and consumes from the named bucket in a single
	// conditional update, so concurrent callers cannot double-spend.
	Take(ctx context.Context, key string, policy domain.RatePolicy, now time.Time) (domain.RateDecision, error)

	// DeleteIdleBuckets removes buckets whose last refill predates cutoff.
	DeleteIdleBuckets(ctx context.Context, cutoff time.Time) (int64, error)
}
