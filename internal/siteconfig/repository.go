package siteconfig

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// RepositoryPort defines data access for the configuration singleton.
type RepositoryPort interface {
	Get(ctx context.Context) (Config, error)
	Save(ctx context.Context, cfg Config) (Config, error)
}

// Repository provides PostgreSQL backed persistence. The table holds a
// single row keyed by id = 1.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const configColumns = `site_name, tagline, support_email, currency, maintenance_mode, updated_at`

// Get fetches the configuration row, inserting defaults when missing.
func (r *Repository) Get(ctx context.Context) (Config, error) {
	var cfg Config
	err := r.pool.QueryRow(ctx, `INSERT INTO site_config (id) VALUES (1)
		ON CONFLICT (id) DO UPDATE SET id = site_config.id
		RETURNING `+configColumns).
		Scan(&cfg.SiteName, &cfg.Tagline, &cfg.SupportEmail, &cfg.Currency, &cfg.MaintenanceMode, &cfg.UpdatedAt)
	if err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save rewrites the configuration row.
func (r *Repository) Save(ctx context.Context, cfg Config) (Config, error) {
	var out Config
	err := r.pool.QueryRow(ctx, `INSERT INTO site_config (id, site_name, tagline, support_email, currency, maintenance_mode, updated_at)
		VALUES (1, $1, $2, $3, $4, $5, NOW())
		ON CONFLICT (id) DO UPDATE SET
			site_name = EXCLUDED.site_name,
			tagline = EXCLUDED.tagline,
			support_email = EXCLUDED.support_email,
			currency = EXCLUDED.currency,
			maintenance_mode = EXCLUDED.maintenance_mode,
			updated_at = NOW()
		RETURNING `+configColumns,
		cfg.SiteName, cfg.Tagline, cfg.SupportEmail, cfg.Currency, cfg.MaintenanceMode).
		Scan(&out.SiteName, &out.Tagline, &out.SupportEmail, &out.Currency, &out.MaintenanceMode, &out.UpdatedAt)
	if err != nil {
		return Config{}, err
	}
	return out, nil
}

var _ RepositoryPort = (*Repository)(nil)
