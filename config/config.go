// Package config handles tuning configuration for the physics library.
package config

// Config holds all tuning settings.
type Config struct {
	Contact ContactConfig `yaml:"contact"`
	World   WorldConfig   `yaml:"world"`
	Logging LoggingConfig `yaml:"logging"`
}

// ContactConfig holds contact cache and constraint assembly settings.
type ContactConfig struct {
	// DistThreshold is the tangential drift distance (world units) above
	// which a cached contact is dropped
	DistThreshold float64 `yaml:"dist_threshold"`

	// Slop is the penetration allowed before positional error feedback
	Slop float64 `yaml:"slop"`

	// BaumgarteBias scales positional error fed to the solver
	BaumgarteBias float64 `yaml:"baumgarte_bias"`

	// FrictionCoefficient applies when body materials carry no friction data
	FrictionCoefficient float64 `yaml:"friction_coefficient"`

	// Gravity magnitude (m/s²), used for the static friction limit
	Gravity float64 `yaml:"gravity"`
}

// WorldConfig holds stepping settings.
type WorldConfig struct {
	Workers int `yaml:"workers"`

	// RemovalWindow is the number of consecutive empty steps after which a
	// pair's manifold is destroyed
	RemovalWindow int `yaml:"removal_window"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Contact: ContactConfig{
			DistThreshold:       0.02,
			Slop:                0.005,
			BaumgarteBias:       0.2,
			FrictionCoefficient: 0.3,
			Gravity:             9.81,
		},
		World: WorldConfig{
			Workers:       1,
			RemovalWindow: 10,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
