// Package config provides the configuration loader for shade.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/core/ports"
	"go.trai.ch/zerr"
	"gopkg.in/yaml.v3"
)

// Loader implements ports.ConfigLoader using a YAML file.
type Loader struct {
	Logger ports.Logger
}

// NewLoader creates a new Loader with the given logger.
func NewLoader(logger ports.Logger) *Loader {
	return &Loader{Logger: logger}
}

// Load searches upward from cwd for a .shade.yaml file and returns the
// effective settings. A missing file is not an error: defaults rooted at
// cwd apply.
func (l *Loader) Load(cwd string) (*domain.Settings, error) {
	configPath, found := l.findConfiguration(cwd)
	if !found {
		return defaultSettings(cwd), nil
	}

	// #nosec G304 -- path comes from the upward directory walk
	raw, err := os.ReadFile(configPath)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigReadFailed, err.Error()), "path", configPath)
	}

	var file File
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "path", configPath)
	}

	return l.resolve(filepath.Dir(configPath), &file)
}

// findConfiguration walks from cwd up to the filesystem root looking for the
// nearest config file.
func (l *Loader) findConfiguration(cwd string) (string, bool) {
	currentDir := cwd
	for {
		configPath := filepath.Join(currentDir, domain.ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath, true
		}

		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			// Reached root
			return "", false
		}
		currentDir = parentDir
	}
}

// resolve applies defaults and clamping, and anchors relative roots at the
// directory containing the config file.
func (l *Loader) resolve(configDir string, file *File) (*domain.Settings, error) {
	settings := defaultSettings(configDir)

	if len(file.Roots) > 0 {
		settings.Roots = make([]string, 0, len(file.Roots))
		for _, root := range file.Roots {
			if !filepath.IsAbs(root) {
				root = filepath.Join(configDir, root)
			}
			root = filepath.Clean(root)

			info, err := os.Stat(root)
			if err != nil || !info.IsDir() {
				return nil, zerr.With(domain.ErrRootNotFound, "root", root)
			}
			settings.Roots = append(settings.Roots, root)
		}
	}

	if file.MaxItems != 0 {
		settings.MaxItems = file.MaxItems
	}
	switch {
	case settings.MaxItems < 1:
		l.Logger.Warn(fmt.Sprintf("maxItems %d is below 1, using 1", settings.MaxItems))
		settings.MaxItems = 1
	case settings.MaxItems > domain.MaxItemsCeiling:
		l.Logger.Warn(fmt.Sprintf("maxItems %d exceeds ceiling, using %d", settings.MaxItems, domain.MaxItemsCeiling))
		settings.MaxItems = domain.MaxItemsCeiling
	}

	if file.TTL != "" {
		ttl, err := time.ParseDuration(file.TTL)
		if err != nil {
			return nil, zerr.With(zerr.Wrap(domain.ErrConfigParseFailed, err.Error()), "ttl", file.TTL)
		}
		if ttl < 0 {
			return nil, zerr.With(domain.ErrConfigParseFailed, "ttl", file.TTL)
		}
		settings.TTL = ttl
	}

	return settings, nil
}

func defaultSettings(root string) *domain.Settings {
	return &domain.Settings{
		Roots:    []string{root},
		MaxItems: domain.DefaultMaxItems,
		TTL:      domain.DefaultTTL,
	}
}
