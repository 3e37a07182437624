package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/domain"
	"github.com/doorstephq/doorstep/internal/invites/store"
	"github.com/doorstephq/doorstep/pkg/idx"
	"github.com/doorstephq/doorstep/pkg/slogx"
	"github.com/doorstephq/doorstep/pkg/tokenx"
)

// AcceptStatus enumerates the outcomes of an acceptance attempt. Values are
// wire-stable; clients switch on them.
type AcceptStatus string

const (
	AcceptOK               AcceptStatus = "OK"
	AcceptAlreadyLinked    AcceptStatus = "ALREADY_LINKED"
	AcceptInvalid          AcceptStatus = "INVALID"
	AcceptExpired          AcceptStatus = "EXPIRED"
	AcceptRevoked          AcceptStatus = "REVOKED"
	AcceptNotAuthenticated AcceptStatus = "NOT_AUTHENTICATED"
	AcceptError            AcceptStatus = "ERROR"
)

// AcceptResult reports the outcome and, on success paths, the linked
// property.
type AcceptResult struct {
	Status     AcceptStatus
	PropertyID string
	LinkID     string
}

// errRaceLost marks an acceptance that lost the accepted_at guard to a
// concurrent caller. It never escapes AcceptInvite.
var errRaceLost = errors.New("acceptance race lost")

// AcceptInvite redeems a token for an authenticated caller. The whole
// operation runs in one transaction: link upsert, old-home deactivation,
// invite acceptance and role assignment land together or not at all.
//
// Repeating a successful acceptance with the same token and caller is safe
// and answers ALREADY_LINKED.
func (s *InviteService) AcceptInvite(ctx context.Context, callerID, token string) (AcceptResult, error) {
	log := slogx.FromContext(ctx)
	now := s.now()

	// 1. Gate on authentication and shape.
	if callerID == "" {
		return AcceptResult{Status: AcceptNotAuthenticated}, nil
	}
	if len(token) != tokenx.Length {
		return AcceptResult{Status: AcceptInvalid}, nil
	}

	var result AcceptResult
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		// 2. Match the token against every undeleted invite, terminal ones
		// included, so an authenticated holder of a real-but-dead token
		// gets told EXPIRED or REVOKED instead of a blanket INVALID.
		invites, err := tx.Invites().ListUndeletedInvites(ctx)
		if err != nil {
			return err
		}

		var matched *domain.Invite
		for i := range invites {
			if tokenx.Verify(token, invites[i].TokenHash, invites[i].TokenSalt) {
				matched = &invites[i]
				break
			}
		}
		if matched == nil {
			result = AcceptResult{Status: AcceptInvalid}
			return nil
		}

		// 3. Branch on the invite's derived state.
		switch matched.StatusAt(now) {
		case domain.InviteRevoked:
			result = AcceptResult{Status: AcceptRevoked}
			return nil
		case domain.InviteExpired:
			result = AcceptResult{Status: AcceptExpired}
			return nil
		case domain.InviteAccepted:
			if matched.AcceptedBy != callerID {
				// Someone else redeemed it; to this caller the token
				// is simply not valid.
				result = AcceptResult{Status: AcceptInvalid}
				return nil
			}
			// The caller's own earlier acceptance. Re-run the linkage
			// steps so a retry after a partial client failure still
			// converges, then answer idempotently.
			res, err := s.linkCallerToProperty(ctx, tx, callerID, matched.PropertyID, now)
			if err != nil {
				return err
			}
			res.Status = AcceptAlreadyLinked
			result = res
			return nil
		case domain.InvitePending:
			// fall through to the acceptance path below
		default:
			result = AcceptResult{Status: AcceptInvalid}
			return nil
		}

		// 4. Fresh idempotency check: a link that already actively binds
		// this caller to this property means a previous acceptance (maybe
		// via another invite) already did the work.
		existing, err := tx.Links().GetLink(ctx, callerID, matched.PropertyID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return err
		}
		if err == nil && existing.Active {
			if _, err := s.ensureTenantRole(ctx, tx, callerID, now); err != nil {
				return err
			}
			result = AcceptResult{
				Status:     AcceptAlreadyLinked,
				PropertyID: matched.PropertyID,
				LinkID:     existing.ID,
			}
			return nil
		}

		// 5. Link the caller, deactivating any other home first.
		res, err := s.linkCallerToProperty(ctx, tx, callerID, matched.PropertyID, now)
		if err != nil {
			return err
		}

		// 6. Record acceptance, guarded by accepted_at IS NULL. Losing the
		// guard means a concurrent acceptance landed between our read and
		// this write; re-read to decide whose it was.
		marked, err := tx.Invites().MarkInviteAccepted(ctx, matched.ID, callerID, now)
		if err != nil {
			return err
		}
		if !marked {
			reread, err := tx.Invites().GetInviteByID(ctx, matched.ID)
			if err != nil {
				return err
			}
			if reread.AcceptedBy == callerID {
				res.Status = AcceptAlreadyLinked
				result = res
				return nil
			}
			// Another caller won the race; roll everything back so
			// their linkage stands alone.
			return errRaceLost
		}

		res.Status = AcceptOK
		result = res
		return nil
	})

	switch {
	case errors.Is(err, errRaceLost):
		log.Warn("acceptance lost race to concurrent caller")
		return AcceptResult{Status: AcceptInvalid}, nil
	case err != nil:
		log.Error("invite acceptance failed", slog.Any("error", err))
		return AcceptResult{Status: AcceptError}, err
	}

	if result.Status == AcceptOK {
		log.Info("invite accepted",
			slog.String("caller_id", callerID),
			slog.String("property_id", result.PropertyID),
			slog.String("link_id", result.LinkID),
		)
	}

	return result, nil
}

// linkCallerToProperty makes propertyID the caller's single active home and
// ensures the tenant role. Must run inside the acceptance transaction.
func (s *InviteService) linkCallerToProperty(
	ctx context.Context,
	tx store.Tx,
	callerID, propertyID string,
	now time.Time,
) (AcceptResult, error) {
	log := slogx.FromContext(ctx)

	// 1. Deactivate whatever home the caller had before.
	deactivated, err := tx.Links().DeactivateOtherLinks(ctx, callerID, propertyID, now)
	if err != nil {
		return AcceptResult{}, err
	}
	if deactivated > 0 {
		log.Info("previous home link deactivated",
			slog.String("caller_id", callerID),
			slog.Int64("links_deactivated", deactivated),
		)
	}

	// 2. Upsert the new active link. accepted_at survives reactivation.
	acceptedAt := now
	link := domain.Link{
		ID:         idx.New().String(),
		TenantID:   callerID,
		PropertyID: propertyID,
		Active:     true,
		Status:     domain.LinkActive,
		AcceptedAt: &acceptedAt,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := tx.Links().UpsertActiveLink(ctx, link); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			// The one-active-per-tenant index fired, meaning an active
			// link already covers this caller. Treat as already linked.
			existing, gerr := tx.Links().GetActiveLink(ctx, callerID)
			if gerr != nil {
				return AcceptResult{}, gerr
			}
			return AcceptResult{
				Status:     AcceptAlreadyLinked,
				PropertyID: existing.PropertyID,
				LinkID:     existing.ID,
			}, nil
		}
		return AcceptResult{}, err
	}

	// 3. Ensure the caller holds the tenant role.
	if _, err := s.ensureTenantRole(ctx, tx, callerID, now); err != nil {
		return AcceptResult{}, err
	}

	// The upsert may have reactivated an existing row under its original
	// id; read it back rather than assuming ours was inserted.
	stored, err := tx.Links().GetLink(ctx, callerID, propertyID)
	if err != nil {
		return AcceptResult{}, err
	}

	return AcceptResult{PropertyID: propertyID, LinkID: stored.ID}, nil
}
