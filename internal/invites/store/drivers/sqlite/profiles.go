package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/doorstephq/doorstep/internal/invites/domain"
)

type profilesRepo struct {
	q dbtx
}

func (r *profilesRepo) GetProfileByID(ctx context.Context, id string) (domain.Profile, error) {
	var (
		p    domain.Profile
		role sql.NullString
	)

	err := r.q.QueryRowContext(ctx,
		`SELECT id, email, role, created_at, updated_at FROM profiles WHERE id = ?`,
		id,
	).Scan(&p.ID, &p.Email, &role, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, mapNotFound(err)
	}

	if role.Valid {
		v := domain.Role(role.String)
		p.Role = &v
	}

	return p, nil
}

func (r *profilesRepo) CreateProfile(ctx context.Context, p domain.Profile) error {
	var role sql.NullString
	if p.Role != nil {
		role = mapStringNull(string(*p.Role))
	}

	_, err := r.q.ExecContext(ctx, `
		INSERT INTO profiles (id, email, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		p.ID, p.Email, role, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}

// EnsureRole is the only role mutation this service performs: a conditional
// write that fills an empty role and never overwrites an existing one.
func (r *profilesRepo) EnsureRole(
	ctx context.Context,
	id string,
	role domain.Role,
	now time.Time,
) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE profiles
		SET role = ?, updated_at = ?
		WHERE id = ? AND role IS NULL`,
		string(role), now.UTC(), id,
	)
	if err != nil {
		return false, err
	}

	n, err := res.RowsAffected()
	return n > 0, err
}
