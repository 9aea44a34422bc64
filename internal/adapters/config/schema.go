package config

// File represents the structure of the .shade.yaml configuration file.
type File struct {
	Version  string   `yaml:"version"`
	Roots    []string `yaml:"roots"`
	MaxItems int      `yaml:"maxItems"`
	TTL      string   `yaml:"ttl"`
}
