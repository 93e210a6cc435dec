package siteconfig

import "time"

// Config is the singleton storefront configuration row.
type Config struct {
	SiteName        string    `json:"site_name"`
	Tagline         string    `json:"tagline"`
	SupportEmail    string    `json:"support_email"`
	Currency        string    `json:"currency"`
	MaintenanceMode bool      `json:"maintenance_mode"`
	UpdatedAt       time.Time `json:"updated_at"`
}
