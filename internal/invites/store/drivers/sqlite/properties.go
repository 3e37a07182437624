package sqlite

import (
	"context"

	"github.com/doorstephq/doorstep/internal/invites/domain"
)

type propertiesRepo struct {
	q dbtx
}

func (r *propertiesRepo) GetPropertyByID(ctx context.Context, id string) (domain.Property, error) {
	var p domain.Property

	err := r.q.QueryRowContext(ctx, `
		SELECT id, landlord_id, name, address, type, unit,
		       wifi_network, wifi_password, created_at, updated_at
		FROM properties WHERE id = ?`,
		id,
	).Scan(
		&p.ID, &p.LandlordID, &p.Name, &p.Address, &p.Type, &p.Unit,
		&p.WifiNetwork, &p.WifiPassword, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return domain.Property{}, mapNotFound(err)
	}

	return p, nil
}

func (r *propertiesRepo) CreateProperty(ctx context.Context, p domain.Property) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO properties (
			id, landlord_id, name, address, type, unit,
			wifi_network, wifi_password, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.LandlordID, p.Name, p.Address, p.Type, p.Unit,
		p.WifiNetwork, p.WifiPassword, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	return mapConflict(err)
}
