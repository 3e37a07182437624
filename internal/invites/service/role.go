package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/domain"
	"github.com/doorstephq/doorstep/internal/invites/store"
	"github.com/doorstephq/doorstep/pkg/slogx"
)

// ensureTenantRole assigns the tenant role to a roleless profile. A profile
// that already holds a role, landlord included, is left untouched: accepting
// an invite never demotes anyone.
func (s *InviteService) ensureTenantRole(
	ctx context.Context,
	tx store.Tx,
	profileID string,
	now time.Time,
) (bool, error) {
	log := slogx.FromContext(ctx)

	assigned, err := tx.Profiles().EnsureRole(ctx, profileID, domain.RoleTenant, now)
	if err != nil {
		log.Error("failed to ensure tenant role",
			slog.String("profile_id", profileID),
			slog.Any("error", err),
		)
		return false, err
	}

	if assigned {
		log.Info("tenant role assigned", slog.String("profile_id", profileID))
	}

	return assigned, nil
}
