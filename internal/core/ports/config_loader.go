package ports

import "go.trai.ch/shade/internal/core/domain"

// ConfigLoader resolves the effective workspace settings for a directory.
//
//go:generate mockgen -source=config_loader.go -destination=mocks/mock_config_loader.go -package=mocks
type ConfigLoader interface {
	// Load searches upward from cwd for a config file and returns the
	// effective settings, with defaults applied and the item cap clamped.
	// A missing config file is not an error: defaults rooted at cwd apply.
	Load(cwd string) (*domain.Settings, error)
}
