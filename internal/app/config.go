package app

import "errors"

// Config holds everything a CLI invocation needs to run.
type Config struct {
	ManifestPath string // path to a .hcl manifest file or a directory of them
	Namespace    string // optional namespace filter for the snapshot dump

	LogFormat string
	LogLevel  string
}

// NewConfig validates cfg and returns it.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.ManifestPath == "" {
		return nil, errors.New("ManifestPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
