package settings

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

func (r *postgresRepo) MaintenanceMode(ctx context.Context) (bool, error) {
	var enabled bool
	err := r.pool.QueryRow(ctx, `SELECT maintenance_mode FROM settings WHERE id`).Scan(&enabled)
	return enabled, err
}

func (r *postgresRepo) SetMaintenanceMode(ctx context.Context, enabled bool) error {
	const q = `
INSERT INTO settings (id, maintenance_mode, updated_at)
VALUES (TRUE, $1, now())
ON CONFLICT (id) DO UPDATE SET maintenance_mode = EXCLUDED.maintenance_mode, updated_at = now()
`
	_, err := r.pool.Exec(ctx, q, enabled)
	return err
}
