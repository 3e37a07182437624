package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/domain"
)

type invitesRepo struct {
	q dbtx
}

const inviteColumns = `id, property_id, created_by, token_hash, token_salt,
	intended_email, delivery_method, expires_at, accepted_at, accepted_by,
	revoked_at, deleted_at, validation_attempts, last_validation_attempt,
	created_at, updated_at`

func (r *invitesRepo) CreateInvite(ctx context.Context, inv domain.Invite) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO invites (
			id, property_id, created_by, token_hash, token_salt,
			intended_email, delivery_method, expires_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.PropertyID, inv.CreatedBy, inv.TokenHash, inv.TokenSalt,
		inv.IntendedEmail, string(inv.DeliveryMethod), inv.ExpiresAt.UTC(),
		inv.CreatedAt.UTC(), inv.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

func (r *invitesRepo) GetInviteByID(ctx context.Context, id string) (domain.Invite, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+inviteColumns+` FROM invites WHERE id = ?`, id)
	return scanInvite(row)
}

func (r *invitesRepo) ListOpenInvites(ctx context.Context, now time.Time) ([]domain.Invite, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+inviteColumns+`
		FROM invites
		WHERE accepted_at IS NULL
		  AND revoked_at IS NULL
		  AND deleted_at IS NULL
		  AND expires_at > ?
		ORDER BY created_at DESC`,
		now.UTC(),
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvites(rows)
}

func (r *invitesRepo) ListUndeletedInvites(ctx context.Context) ([]domain.Invite, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+inviteColumns+`
		FROM invites
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectInvites(rows)
}

func (r *invitesRepo) MarkInviteAccepted(
	ctx context.Context,
	id, acceptedBy string,
	now time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invites
		SET accepted_at = ?, accepted_by = ?, updated_at = ?
		WHERE id = ?
		  AND accepted_at IS NULL
		  AND revoked_at IS NULL
		  AND deleted_at IS NULL`,
		now.UTC(), acceptedBy, now.UTC(), id,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *invitesRepo) RevokeInvite(
	ctx context.Context,
	id, createdBy string,
	now time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE invites
		SET revoked_at = ?, updated_at = ?
		WHERE id = ?
		  AND created_by = ?
		  AND accepted_at IS NULL
		  AND revoked_at IS NULL
		  AND deleted_at IS NULL`,
		now.UTC(), now.UTC(), id, createdBy,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}

func (r *invitesRepo) RecordValidationAttempt(ctx context.Context, id string, now time.Time) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE invites
		SET validation_attempts = validation_attempts + 1,
		    last_validation_attempt = ?,
		    updated_at = ?
		WHERE id = ?`,
		now.UTC(), now.UTC(), id,
	)
	return err
}

func (r *invitesRepo) SoftDeleteExpiredInvites(
	ctx context.Context,
	now time.Time,
	acceptedRetention, expiredRetention time.Duration,
) (int64, error) {
	// Only terminal rows are touched, so the sweep cannot race an in-flight
	// acceptance: an invite accepted moments ago is decades away from its
	// retention cutoff.
	res, err := r.q.ExecContext(ctx, `
		UPDATE invites
		SET deleted_at = ?, updated_at = ?
		WHERE deleted_at IS NULL
		  AND (
			(accepted_at IS NOT NULL AND accepted_at <= ?)
			OR (accepted_at IS NULL AND expires_at <= ?)
		  )`,
		now.UTC(), now.UTC(),
		now.Add(-acceptedRetention).UTC(),
		now.Add(-expiredRetention).UTC(),
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanInvite(row rowScanner) (domain.Invite, error) {
	var (
		inv            domain.Invite
		deliveryMethod string
		acceptedAt     sql.NullTime
		acceptedBy     sql.NullString
		revokedAt      sql.NullTime
		deletedAt      sql.NullTime
		lastAttempt    sql.NullTime
	)

	err := row.Scan(
		&inv.ID, &inv.PropertyID, &inv.CreatedBy, &inv.TokenHash, &inv.TokenSalt,
		&inv.IntendedEmail, &deliveryMethod, &inv.ExpiresAt, &acceptedAt, &acceptedBy,
		&revokedAt, &deletedAt, &inv.ValidationAttempts, &lastAttempt,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invite{}, mapNotFound(err)
	}

	inv.DeliveryMethod = domain.DeliveryMethod(deliveryMethod)
	inv.AcceptedAt = mapNullTimePtr(acceptedAt)
	inv.AcceptedBy = mapNullString(acceptedBy)
	inv.RevokedAt = mapNullTimePtr(revokedAt)
	inv.DeletedAt = mapNullTimePtr(deletedAt)
	inv.LastValidationAttempt = mapNullTimePtr(lastAttempt)

	return inv, nil
}

func collectInvites(rows *sql.Rows) ([]domain.Invite, error) {
	var out []domain.Invite
	for rows.Next() {
		inv, err := scanInvite(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}
