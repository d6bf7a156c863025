package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load loads configuration with priority: defaults < file. An empty path
// returns the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to a YAML file.
func Save(cfg *Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Validate rejects settings the contact layer cannot run with.
func (c *Config) Validate() error {
	if c.Contact.DistThreshold <= 0 {
		return fmt.Errorf("config: contact dist_threshold must be positive, got %v", c.Contact.DistThreshold)
	}
	if c.Contact.Slop < 0 {
		return fmt.Errorf("config: contact slop must not be negative, got %v", c.Contact.Slop)
	}
	if c.Contact.Gravity <= 0 {
		return fmt.Errorf("config: gravity must be positive, got %v", c.Contact.Gravity)
	}
	if c.World.Workers < 1 {
		return fmt.Errorf("config: workers must be at least 1, got %d", c.World.Workers)
	}
	if c.World.RemovalWindow < 1 {
		return fmt.Errorf("config: removal_window must be at least 1, got %d", c.World.RemovalWindow)
	}
	return nil
}
