package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/domain"
)

type linksRepo struct {
	q dbtx
}

const linkColumns = `id, tenant_id, property_id, is_active, invitation_status,
	accepted_at, created_at, updated_at`

func (r *linksRepo) GetLink(ctx context.Context, tenantID, propertyID string) (domain.Link, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM tenant_property_links
		 WHERE tenant_id = ? AND property_id = ?`,
		tenantID, propertyID)
	return scanLink(row)
}

func (r *linksRepo) GetActiveLink(ctx context.Context, tenantID string) (domain.Link, error) {
	row := r.q.QueryRowContext(ctx,
		`SELECT `+linkColumns+` FROM tenant_property_links
		 WHERE tenant_id = ? AND is_active = 1`,
		tenantID)
	return scanLink(row)
}

func (r *linksRepo) ListLinks(ctx context.Context, tenantID string) ([]domain.Link, error) {
	rows, err := r.q.QueryContext(ctx,
		`SELECT `+linkColumns+` FROM tenant_property_links
		 WHERE tenant_id = ?
		 ORDER BY created_at DESC`,
		tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Link
	for rows.Next() {
		link, err := scanLink(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, link)
	}
	return out, rows.Err()
}

func (r *linksRepo) DeactivateOtherLinks(
	ctx context.Context,
	tenantID, keepPropertyID string,
	now time.Time,
) (int64, error) {
	// A superseded home keeps its row; the lapsed status records that the
	// linkage is no longer current without losing history.
	res, err := r.q.ExecContext(ctx, `
		UPDATE tenant_property_links
		SET is_active = 0, invitation_status = 'expired', updated_at = ?
		WHERE tenant_id = ?
		  AND property_id != ?
		  AND is_active = 1`,
		now.UTC(), tenantID, keepPropertyID,
	)
	if err != nil {
		return 0, err
	}

	return res.RowsAffected()
}

func (r *linksRepo) UpsertActiveLink(ctx context.Context, link domain.Link) error {
	// Reactivation keeps the original accepted_at. A violation of the
	// one-active-per-tenant index comes back as ErrAlreadyExists so the
	// service can fold racing acceptances into the idempotent path.
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO tenant_property_links (
			id, tenant_id, property_id, is_active, invitation_status,
			accepted_at, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, property_id) DO UPDATE SET
			is_active = excluded.is_active,
			invitation_status = excluded.invitation_status,
			accepted_at = COALESCE(tenant_property_links.accepted_at, excluded.accepted_at),
			updated_at = excluded.updated_at`,
		link.ID, link.TenantID, link.PropertyID, link.Active, string(link.Status),
		mapOptionalTime(link.AcceptedAt), link.CreatedAt.UTC(), link.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

func scanLink(row rowScanner) (domain.Link, error) {
	var (
		link       domain.Link
		status     string
		acceptedAt sql.NullTime
	)

	err := row.Scan(
		&link.ID, &link.TenantID, &link.PropertyID, &link.Active, &status,
		&acceptedAt, &link.CreatedAt, &link.UpdatedAt,
	)
	if err != nil {
		return domain.Link{}, mapNotFound(err)
	}

	link.Status = domain.LinkStatus(status)
	link.AcceptedAt = mapNullTimePtr(acceptedAt)

	return link, nil
}
