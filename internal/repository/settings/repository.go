package settings

import "context"

// Repository stores site-wide flags. The table holds a single row.
type Repository interface {
	MaintenanceMode(ctx context.Context) (bool, error)
	SetMaintenanceMode(ctx context.Context, enabled bool) error
}
