package domain

import "time"

const (
	// ConfigFileName is the per-workspace configuration file.
	ConfigFileName = ".shade.yaml"

	// DefaultMaxItems caps a scan's result size when the config does not
	// specify one.
	DefaultMaxItems = 2500

	// MaxItemsCeiling is the upper bound settings are clamped to before they
	// reach the discovery engine. Extremely large caps defeat the purpose of
	// capping, so the config layer enforces this ceiling.
	MaxItemsCeiling = 50000

	// DefaultTTL is how long a resolved scan stays fresh in the cache.
	// A tuning parameter, not a correctness requirement.
	DefaultTTL = 30 * time.Second
)

// Settings is the effective per-workspace configuration after defaults and
// clamping have been applied.
type Settings struct {
	// Roots are the absolute workspace roots to scan.
	Roots []string
	// MaxItems is the per-scan result cap, in [1, MaxItemsCeiling].
	MaxItems int
	// TTL is the cache lifetime for resolved scans.
	TTL time.Duration
}
