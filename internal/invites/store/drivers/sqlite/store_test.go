package sqlite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/doorstephq/doorstep/internal/invites/domain"
	"github.com/doorstephq/doorstep/internal/invites/store"
	"github.com/doorstephq/doorstep/pkg/idx"
	"github.com/doorstephq/doorstep/pkg/tokenx"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	s, err := NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.ApplyMigrations())
	return s
}

func seedProfile(t *testing.T, s *Store, role *domain.Role) string {
	t.Helper()

	now := time.Now().UTC()
	p := domain.Profile{
		ID:        uuid.NewString(),
		Email:     "someone@example.com",
		Role:      role,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, s.Profiles().CreateProfile(context.Background(), p))
	return p.ID
}

func seedProperty(t *testing.T, s *Store, landlordID string) string {
	t.Helper()

	now := time.Now().UTC()
	p := domain.Property{
		ID:         uuid.NewString(),
		LandlordID: landlordID,
		Name:       "Sunset Villa",
		Address:    "12 Ocean Rd",
		Type:       "apartment",
		Unit:       "4B",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	require.NoError(t, s.Properties().CreateProperty(context.Background(), p))
	return p.ID
}

func seedInvite(t *testing.T, s *Store, propertyID, createdBy string, expiresAt time.Time) domain.Invite {
	t.Helper()

	tok, err := tokenx.Generate()
	require.NoError(t, err)

	now := time.Now().UTC()
	inv := domain.Invite{
		ID:             idx.New().String(),
		PropertyID:     propertyID,
		CreatedBy:      createdBy,
		TokenHash:      tok.Hash,
		TokenSalt:      tok.Salt,
		DeliveryMethod: domain.DeliveryCode,
		ExpiresAt:      expiresAt.UTC(),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	require.NoError(t, s.Invites().CreateInvite(context.Background(), inv))
	return inv
}

func TestInvitesRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("open invites exclude terminal and expired rows", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		tenant := seedProfile(t, s, nil)
		property := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		open := seedInvite(t, s, property, landlord, now.Add(time.Hour))
		expired := seedInvite(t, s, property, landlord, now.Add(-time.Hour))
		accepted := seedInvite(t, s, property, landlord, now.Add(time.Hour))
		revoked := seedInvite(t, s, property, landlord, now.Add(time.Hour))

		ok, err := s.Invites().MarkInviteAccepted(ctx, accepted.ID, tenant, now)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Invites().RevokeInvite(ctx, revoked.ID, landlord, now)
		require.NoError(t, err)
		require.True(t, ok)

		invites, err := s.Invites().ListOpenInvites(ctx, now)
		require.NoError(t, err)
		require.Len(t, invites, 1)
		require.Equal(t, open.ID, invites[0].ID)

		// The undeleted listing still carries all four.
		all, err := s.Invites().ListUndeletedInvites(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		_ = expired
	})

	t.Run("acceptance is first writer wins", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		alice := seedProfile(t, s, nil)
		bob := seedProfile(t, s, nil)
		property := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		inv := seedInvite(t, s, property, landlord, now.Add(time.Hour))

		ok, err := s.Invites().MarkInviteAccepted(ctx, inv.ID, alice, now)
		require.NoError(t, err)
		require.True(t, ok)

		ok, err = s.Invites().MarkInviteAccepted(ctx, inv.ID, bob, now)
		require.NoError(t, err)
		require.False(t, ok)

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, alice, got.AcceptedBy)
	})

	t.Run("revocation requires the issuing landlord", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		other := seedProfile(t, s, roleOf(domain.RoleLandlord))
		property := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		inv := seedInvite(t, s, property, landlord, now.Add(time.Hour))

		ok, err := s.Invites().RevokeInvite(ctx, inv.ID, other, now)
		require.NoError(t, err)
		require.False(t, ok)

		ok, err = s.Invites().RevokeInvite(ctx, inv.ID, landlord, now)
		require.NoError(t, err)
		require.True(t, ok)

		// A second revocation matches nothing.
		ok, err = s.Invites().RevokeInvite(ctx, inv.ID, landlord, now)
		require.NoError(t, err)
		require.False(t, ok)
	})

	t.Run("validation attempts accumulate", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		property := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		inv := seedInvite(t, s, property, landlord, now.Add(time.Hour))

		require.NoError(t, s.Invites().RecordValidationAttempt(ctx, inv.ID, now))
		require.NoError(t, s.Invites().RecordValidationAttempt(ctx, inv.ID, now.Add(time.Second)))

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Equal(t, 2, got.ValidationAttempts)
		require.NotNil(t, got.LastValidationAttempt)
	})

	t.Run("retention sweep respects both windows", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		tenant := seedProfile(t, s, nil)
		property := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		acceptedRetention := 30 * 24 * time.Hour
		expiredRetention := 7 * 24 * time.Hour

		// Accepted 31 days ago: past retention, swept.
		oldAccepted := seedInvite(t, s, property, landlord, now.Add(time.Hour))
		ok, err := s.Invites().MarkInviteAccepted(ctx, oldAccepted.ID, tenant, now.Add(-31*24*time.Hour))
		require.NoError(t, err)
		require.True(t, ok)

		// Expired 8 days ago, never accepted: swept.
		oldExpired := seedInvite(t, s, property, landlord, now.Add(-8*24*time.Hour))

		// Expired yesterday: inside retention, kept.
		freshExpired := seedInvite(t, s, property, landlord, now.Add(-24*time.Hour))

		// Still pending: kept.
		pending := seedInvite(t, s, property, landlord, now.Add(time.Hour))

		swept, err := s.Invites().SoftDeleteExpiredInvites(ctx, now, acceptedRetention, expiredRetention)
		require.NoError(t, err)
		require.Equal(t, int64(2), swept)

		for id, wantDeleted := range map[string]bool{
			oldAccepted.ID:  true,
			oldExpired.ID:   true,
			freshExpired.ID: false,
			pending.ID:      false,
		} {
			got, err := s.Invites().GetInviteByID(ctx, id)
			require.NoError(t, err)
			require.Equal(t, wantDeleted, got.DeletedAt != nil, "invite %s", id)
		}
	})
}

func TestLinksRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("schema enforces one active link per tenant", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		tenant := seedProfile(t, s, nil)
		propA := seedProperty(t, s, landlord)
		propB := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		require.NoError(t, s.Links().UpsertActiveLink(ctx, activeLink(tenant, propA, now)))

		err := s.Links().UpsertActiveLink(ctx, activeLink(tenant, propB, now))
		require.ErrorIs(t, err, store.ErrAlreadyExists)
	})

	t.Run("deactivate then activate moves the home", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		tenant := seedProfile(t, s, nil)
		propA := seedProperty(t, s, landlord)
		propB := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		require.NoError(t, s.Links().UpsertActiveLink(ctx, activeLink(tenant, propA, now)))

		n, err := s.Links().DeactivateOtherLinks(ctx, tenant, propB, now)
		require.NoError(t, err)
		require.Equal(t, int64(1), n)

		require.NoError(t, s.Links().UpsertActiveLink(ctx, activeLink(tenant, propB, now)))

		active, err := s.Links().GetActiveLink(ctx, tenant)
		require.NoError(t, err)
		require.Equal(t, propB, active.PropertyID)

		// The superseded link survives as an inactive lapsed row.
		old, err := s.Links().GetLink(ctx, tenant, propA)
		require.NoError(t, err)
		require.False(t, old.Active)
		require.Equal(t, domain.LinkExpired, old.Status)

		links, err := s.Links().ListLinks(ctx, tenant)
		require.NoError(t, err)
		require.Len(t, links, 2)
	})

	t.Run("reactivation keeps the original accepted_at", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		tenant := seedProfile(t, s, nil)
		propA := seedProperty(t, s, landlord)
		propB := seedProperty(t, s, landlord)

		first := time.Now().UTC().Add(-48 * time.Hour).Truncate(time.Second)
		later := time.Now().UTC().Truncate(time.Second)

		require.NoError(t, s.Links().UpsertActiveLink(ctx, activeLink(tenant, propA, first)))

		// Move away and back again.
		_, err := s.Links().DeactivateOtherLinks(ctx, tenant, propB, later)
		require.NoError(t, err)
		require.NoError(t, s.Links().UpsertActiveLink(ctx, activeLink(tenant, propB, later)))
		_, err = s.Links().DeactivateOtherLinks(ctx, tenant, propA, later)
		require.NoError(t, err)
		require.NoError(t, s.Links().UpsertActiveLink(ctx, activeLink(tenant, propA, later)))

		back, err := s.Links().GetLink(ctx, tenant, propA)
		require.NoError(t, err)
		require.True(t, back.Active)
		require.NotNil(t, back.AcceptedAt)
		require.WithinDuration(t, first, *back.AcceptedAt, time.Second)
	})

	t.Run("missing links surface as ErrNotFound", func(t *testing.T) {
		s := newTestStore(t)
		tenant := seedProfile(t, s, nil)

		_, err := s.Links().GetActiveLink(ctx, tenant)
		require.ErrorIs(t, err, store.ErrNotFound)

		_, err = s.Links().GetLink(ctx, tenant, uuid.NewString())
		require.ErrorIs(t, err, store.ErrNotFound)
	})
}

func TestProfilesRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("EnsureRole fills only empty roles", func(t *testing.T) {
		s := newTestStore(t)
		now := time.Now().UTC()

		fresh := seedProfile(t, s, nil)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))

		assigned, err := s.Profiles().EnsureRole(ctx, fresh, domain.RoleTenant, now)
		require.NoError(t, err)
		require.True(t, assigned)

		assigned, err = s.Profiles().EnsureRole(ctx, landlord, domain.RoleTenant, now)
		require.NoError(t, err)
		require.False(t, assigned)

		got, err := s.Profiles().GetProfileByID(ctx, landlord)
		require.NoError(t, err)
		require.NotNil(t, got.Role)
		require.Equal(t, domain.RoleLandlord, *got.Role)
	})

	t.Run("duplicate profile surfaces as ErrAlreadyExists", func(t *testing.T) {
		s := newTestStore(t)
		now := time.Now().UTC()

		p := domain.Profile{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
		require.NoError(t, s.Profiles().CreateProfile(ctx, p))
		require.ErrorIs(t, s.Profiles().CreateProfile(ctx, p), store.ErrAlreadyExists)
	})
}

func TestRateLimitsRepo(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	policy := domain.RatePolicy{MaxTokens: 3, RefillRate: 3, Window: time.Minute}

	t.Run("bucket exhausts and reports retry", func(t *testing.T) {
		s := newTestStore(t)
		now := time.Now().UTC()

		for i := range 3 {
			d, err := s.RateLimits().Take(ctx, "validate:1.2.3.4", policy, now)
			require.NoError(t, err)
			require.True(t, d.Allowed, "take %d", i)
		}

		d, err := s.RateLimits().Take(ctx, "validate:1.2.3.4", policy, now)
		require.NoError(t, err)
		require.False(t, d.Allowed)
		require.Greater(t, d.RetryAfter, time.Duration(0))
	})

	t.Run("bucket refills with elapsed time", func(t *testing.T) {
		s := newTestStore(t)
		now := time.Now().UTC()

		for range 3 {
			_, err := s.RateLimits().Take(ctx, "validate:k", policy, now)
			require.NoError(t, err)
		}

		// One window later the bucket is full again.
		later := now.Add(time.Minute)
		d, err := s.RateLimits().Take(ctx, "validate:k", policy, later)
		require.NoError(t, err)
		require.True(t, d.Allowed)
		require.Equal(t, 2, d.Remaining)
	})

	t.Run("keys are independent", func(t *testing.T) {
		s := newTestStore(t)
		now := time.Now().UTC()

		for range 3 {
			_, err := s.RateLimits().Take(ctx, "validate:a", policy, now)
			require.NoError(t, err)
		}

		d, err := s.RateLimits().Take(ctx, "validate:b", policy, now)
		require.NoError(t, err)
		require.True(t, d.Allowed)
	})

	t.Run("idle buckets are dropped", func(t *testing.T) {
		s := newTestStore(t)
		now := time.Now().UTC()

		_, err := s.RateLimits().Take(ctx, "validate:idle", policy, now.Add(-2*time.Hour))
		require.NoError(t, err)
		_, err = s.RateLimits().Take(ctx, "validate:live", policy, now)
		require.NoError(t, err)

		dropped, err := s.RateLimits().DeleteIdleBuckets(ctx, now.Add(-time.Hour))
		require.NoError(t, err)
		require.Equal(t, int64(1), dropped)
	})
}

func TestWithTx(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("rolls back on error", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		property := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		inv := seedInvite(t, s, property, landlord, now.Add(time.Hour))
		tenant := seedProfile(t, s, nil)

		boom := context.Canceled
		err := s.WithTx(ctx, func(tx store.Tx) error {
			ok, err := tx.Invites().MarkInviteAccepted(ctx, inv.ID, tenant, now)
			require.NoError(t, err)
			require.True(t, ok)
			return boom
		})
		require.ErrorIs(t, err, boom)

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.Nil(t, got.AcceptedAt)
	})

	t.Run("commits on success", func(t *testing.T) {
		s := newTestStore(t)
		landlord := seedProfile(t, s, roleOf(domain.RoleLandlord))
		property := seedProperty(t, s, landlord)
		now := time.Now().UTC()

		inv := seedInvite(t, s, property, landlord, now.Add(time.Hour))
		tenant := seedProfile(t, s, nil)

		err := s.WithTx(ctx, func(tx store.Tx) error {
			_, err := tx.Invites().MarkInviteAccepted(ctx, inv.ID, tenant, now)
			return err
		})
		require.NoError(t, err)

		got, err := s.Invites().GetInviteByID(ctx, inv.ID)
		require.NoError(t, err)
		require.NotNil(t, got.AcceptedAt)
		require.Equal(t, tenant, got.AcceptedBy)
	})
}

func roleOf(r domain.Role) *domain.Role { return &r }

func activeLink(tenantID, propertyID string, at time.Time) domain.Link {
	acceptedAt := at
	return domain.Link{
		ID:         idx.New().String(),
		TenantID:   tenantID,
		PropertyID: propertyID,
		Active:     true,
		Status:     domain.LinkActive,
		AcceptedAt: &acceptedAt,
		CreatedAt:  at,
		UpdatedAt:  at,
	}
}
