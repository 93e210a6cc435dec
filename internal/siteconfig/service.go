package siteconfig

import (
	"context"
	"errors"
	"strings"
)

// ErrEmptySiteName rejects blanking out the storefront name.
var ErrEmptySiteName = errors.New("site name must not be empty")

// UpdateParams carries optional field overrides. Nil fields keep their
// current value.
type UpdateParams struct {
	SiteName        *string
	Tagline         *string
	SupportEmail    *string
	Currency        *string
	MaintenanceMode *bool
}

// Service implements site configuration use cases.
type Service struct {
	repo RepositoryPort
}

// NewService constructs the service.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Get returns the current configuration.
func (s *Service) Get(ctx context.Context) (Config, error) {
	return s.repo.Get(ctx)
}

// Update applies a partial update on top of the stored configuration.
func (s *Service) Update(ctx context.Context, params UpdateParams) (Config, error) {
	cfg, err := s.repo.Get(ctx)
	if err != nil {
		return Config{}, err
	}
	if params.SiteName != nil {
		name := strings.TrimSpace(*params.SiteName)
		if name == "" {
			return Config{}, ErrEmptySiteName
		}
		cfg.SiteName = name
	}
	if params.Tagline != nil {
		cfg.Tagline = strings.TrimSpace(*params.Tagline)
	}
	if params.SupportEmail != nil {
		cfg.SupportEmail = strings.TrimSpace(*params.SupportEmail)
	}
	if params.Currency != nil {
		cfg.Currency = strings.ToUpper(strings.TrimSpace(*params.Currency))
	}
	if params.MaintenanceMode != nil {
		cfg.MaintenanceMode = *params.MaintenanceMode
	}
	return s.repo.Save(ctx, cfg)
}
