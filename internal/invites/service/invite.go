package service

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"time"

	"github.com/google/uuid"

	"github.com/doorstephq/doorstep/internal/invites/domain"
	"github.com/doorstephq/doorstep/internal/invites/store"
	"github.com/doorstephq/doorstep/pkg/idx"
	"github.com/doorstephq/doorstep/pkg/slogx"
	"github.com/doorstephq/doorstep/pkg/tokenx"
)

var (
	ErrInvalidInput   = errors.New("invalid invite request")
	ErrNotAuthorized  = errors.New("not authorized for this property")
	ErrInviteNotFound = errors.New("invite not found")
)

const (
	// InviteTTL is how long a freshly minted invite stays redeemable.
	InviteTTL = 48 * time.Hour

	// AcceptedRetention and ExpiredRetention control when terminal invites
	// are soft-deleted by housekeeping.
	AcceptedRetention = 30 * 24 * time.Hour
	ExpiredRetention  = 7 * 24 * time.Hour
)

// DefaultValidatePolicy caps anonymous token validation per source to blunt
// brute-force enumeration of the 12-character token space.
var DefaultValidatePolicy = domain.RatePolicy{
	MaxTokens:  10,
	RefillRate: 10,
	Window:     time.Minute,
}

// InviteService owns the invite lifecycle: minting, validation, acceptance,
// revocation and retention cleanup.
type InviteService struct {
	Store          store.Store
	Notifier       Notifier
	ValidatePolicy domain.RatePolicy

	// Now returns the current UTC time. Defaults to time.Now; tests inject
	// a fixed clock.
	Now func() time.Time
}

func (s *InviteService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *InviteService) validatePolicy() domain.RatePolicy {
	if s.ValidatePolicy.MaxTokens > 0 {
		return s.ValidatePolicy
	}
	return DefaultValidatePolicy
}

// CreatedInvite is returned to the issuing landlord. Plaintext appears here
// and nowhere else.
type CreatedInvite struct {
	InviteID  string
	Token     string
	ExpiresAt time.Time
}

// CreateInvite mints an invite for one of the caller's properties.
func (s *InviteService) CreateInvite(
	ctx context.Context,
	createdBy string,
	propertyID string,
	method domain.DeliveryMethod,
	intendedEmail string,
) (CreatedInvite, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Validate input shape before touching the store.
	if createdBy == "" {
		return CreatedInvite{}, ErrInvalidInput
	}
	if _, err := uuid.Parse(propertyID); err != nil {
		log.Warn("invite creation with malformed property id")
		return CreatedInvite{}, ErrInvalidInput
	}
	if !method.Valid() {
		log.Warn("invite creation with unknown delivery method",
			slog.String("delivery_method", string(method)),
		)
		return CreatedInvite{}, ErrInvalidInput
	}
	if method == domain.DeliveryEmail {
		if _, err := mail.ParseAddress(intendedEmail); err != nil {
			log.Warn("invite creation with unparsable intended email")
			return CreatedInvite{}, ErrInvalidInput
		}
	}

	// 2. Check ownership. A missing property and someone else's property
	// answer identically so callers cannot probe which property ids exist.
	property, err := s.Store.Properties().GetPropertyByID(ctx, propertyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Warn("invite creation for unknown property",
				slog.String("created_by", createdBy),
			)
			return CreatedInvite{}, ErrNotAuthorized
		}
		log.Error("failed to fetch property", slog.Any("error", err))
		return CreatedInvite{}, err
	}
	if property.LandlordID != createdBy {
		log.Warn("invite creation by non-owner",
			slog.String("created_by", createdBy),
			slog.String("property_id", propertyID),
		)
		return CreatedInvite{}, ErrNotAuthorized
	}

	// 3. Generate the token and its per-token salt.
	token, err := tokenx.Generate()
	if err != nil {
		log.Error("failed to generate invite token", slog.Any("error", err))
		return CreatedInvite{}, err
	}

	invite := domain.Invite{
		ID:             idx.New().String(),
		PropertyID:     propertyID,
		CreatedBy:      createdBy,
		TokenHash:      token.Hash,
		TokenSalt:      token.Salt,
		IntendedEmail:  intendedEmail,
		DeliveryMethod: method,
		ExpiresAt:      now.Add(InviteTTL),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	// 4. Persist in a transaction.
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		return tx.Invites().CreateInvite(ctx, invite)
	})
	if err != nil {
		log.Error("failed to create invite",
			slog.String("invite_id", invite.ID),
			slog.Any("error", err),
		)
		return CreatedInvite{}, err
	}

	// 5. Fire the delivery notification. Failures are logged, never
	// surfaced: the invite exists and the token is already on its way back
	// to the caller.
	if s.Notifier != nil {
		s.Notifier.InviteCreated(ctx, InviteCreatedEvent{
			InviteID:       invite.ID,
			PropertyID:     propertyID,
			PropertyName:   property.Name,
			DeliveryMethod: method,
			IntendedEmail:  intendedEmail,
			ExpiresAt:      invite.ExpiresAt,
		})
	}

	log.Info("invite created",
		slog.String("invite_id", invite.ID),
		slog.String("property_id", propertyID),
		slog.String("delivery_method", string(method)),
		slog.Time("expires_at", invite.ExpiresAt),
	)

	// 6. Return the plaintext exactly once.
	return CreatedInvite{
		InviteID:  invite.ID,
		Token:     token.Plaintext,
		ExpiresAt: invite.ExpiresAt,
	}, nil
}

// Validation is the answer to an anonymous token check. Every failure mode,
// including rate limiting and internal errors at the HTTP layer, collapses
// into the same Valid=false shape so responses cannot be told apart.
type Validation struct {
	Valid     bool
	Property  *domain.PropertyPreview
	ExpiresAt *time.Time
}

// ValidateInvite checks a candidate token for an unauthenticated caller.
// limiterKey identifies the source being throttled, typically the client IP.
func (s *InviteService) ValidateInvite(ctx context.Context, token, limiterKey string) (Validation, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Spend a rate limit token first, so failed and successful checks
	// cost the caller the same.
	decision, err := s.Store.RateLimits().Take(ctx, "validate:"+limiterKey, s.validatePolicy(), now)
	if err != nil {
		log.Error("rate limit take failed", slog.Any("error", err))
		return Validation{}, err
	}
	if !decision.Allowed {
		log.Warn("validation rate limited",
			slog.Duration("retry_after", decision.RetryAfter),
		)
		return Validation{Valid: false}, nil
	}

	// 2. Cheap shape check before any hashing.
	if len(token) != tokenx.Length {
		return Validation{Valid: false}, nil
	}

	// 3. Match against the open invites. Each row carries its own salt, so
	// matching means re-hashing the candidate per row; the partial index
	// keeps this set to the currently-outstanding invites only.
	invites, err := s.Store.Invites().ListOpenInvites(ctx, now)
	if err != nil {
		log.Error("failed to list open invites", slog.Any("error", err))
		return Validation{}, err
	}

	var matched *domain.Invite
	for i := range invites {
		if tokenx.Verify(token, invites[i].TokenHash, invites[i].TokenSalt) {
			matched = &invites[i]
			break
		}
	}
	if matched == nil {
		return Validation{Valid: false}, nil
	}

	// 4. Bookkeeping on the matched invite only. An unmatched candidate
	// leaves no trace beyond the rate limit spend.
	if err := s.Store.Invites().RecordValidationAttempt(ctx, matched.ID, now); err != nil {
		log.Error("failed to record validation attempt",
			slog.String("invite_id", matched.ID),
			slog.Any("error", err),
		)
		return Validation{}, err
	}

	// 5. Build the pre-authentication preview.
	property, err := s.Store.Properties().GetPropertyByID(ctx, matched.PropertyID)
	if err != nil {
		log.Error("failed to fetch property for preview",
			slog.String("invite_id", matched.ID),
			slog.Any("error", err),
		)
		return Validation{}, err
	}

	preview := property.Preview()
	expiresAt := matched.ExpiresAt

	log.Debug("invite validated",
		slog.String("invite_id", matched.ID),
		slog.Int("validation_attempts", matched.ValidationAttempts+1),
	)

	return Validation{
		Valid:     true,
		Property:  &preview,
		ExpiresAt: &expiresAt,
	}, nil
}

// RevokeInvite withdraws a pending invite. Only the issuing landlord may
// revoke, and a non-existent invite answers the same as someone else's.
func (s *InviteService) RevokeInvite(ctx context.Context, inviteID, createdBy string) error {
	log := slogx.FromContext(ctx)
	now := s.now()

	if inviteID == "" || createdBy == "" {
		return ErrInvalidInput
	}
	if _, err := idx.Parse(inviteID); err != nil {
		return ErrInviteNotFound
	}

	// The guard clauses in the UPDATE cover ownership and state, so a
	// wrong owner, an already-terminal invite and a missing row all fall
	// through to the same not-found answer.
	revoked, err := s.Store.Invites().RevokeInvite(ctx, inviteID, createdBy, now)
	if err != nil {
		log.Error("failed to revoke invite",
			slog.String("invite_id", inviteID),
			slog.Any("error", err),
		)
		return err
	}
	if !revoked {
		log.Warn("revocation matched no pending invite",
			slog.String("invite_id", inviteID),
			slog.String("created_by", createdBy),
		)
		return ErrInviteNotFound
	}

	log.Info("invite revoked", slog.String("invite_id", inviteID))
	return nil
}

// CleanupExpiredInvites soft-deletes terminal invites past their retention
// windows. Returns the number of rows swept.
func (s *InviteService) CleanupExpiredInvites(ctx context.Context) (int64, error) {
	return s.Store.Invites().SoftDeleteExpiredInvites(ctx, s.now(), AcceptedRetention, ExpiredRetention)
}
