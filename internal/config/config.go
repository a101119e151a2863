// Package config loads the YAML service configuration and builds the
// logger from it.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"casemark/internal/pipeline"
	"casemark/internal/texture"
)

// Config is the top-level service configuration.
type Config struct {
	App     AppConfig     `yaml:"app"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Imaging ImagingConfig `yaml:"imaging"`
}

// AppConfig identifies the running service.
type AppConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
}

// Duration is a time.Duration that unmarshals from YAML strings such
// as "10s".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	parsed, err := time.ParseDuration(value.Value)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", value.Value, err)
	}
	*d = Duration(parsed)
	return nil
}

// Std returns the standard library duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// ServerConfig configures the HTTP adapter.
type ServerConfig struct {
	Address      string   `yaml:"address"`
	ReadTimeout  Duration `yaml:"read_timeout"`
	WriteTimeout Duration `yaml:"write_timeout"`
	IdleTimeout  Duration `yaml:"idle_timeout"`
}

// LoggingConfig configures the zap logger.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Output string `yaml:"output"` // "console" or "file"
}

// ImagingConfig exposes the pipeline tunings that operators actually
// adjust; everything else stays at the stage defaults.
type ImagingConfig struct {
	// TextureMode selects the texture strategy: "full" or "fast".
	TextureMode string `yaml:"texture_mode"`

	// Stage working-raster caps in pixels; 0 keeps the default.
	FiringPinMaxDim int `yaml:"firing_pin_max_dim"`
	StriationMaxDim int `yaml:"striation_max_dim"`

	// Firing-pin radius bounds in pixels; 0 keeps the default.
	FiringPinMinRadius int `yaml:"firing_pin_min_radius"`
	FiringPinMaxRadius int `yaml:"firing_pin_max_radius"`

	// Striation line search; 0 keeps the default.
	StriationMinLineLength float64 `yaml:"striation_min_line_length"`
	StriationMaxLineGap    float64 `yaml:"striation_max_line_gap"`
}

// Load reads a YAML config file and applies defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	setDefaults(&cfg)
	return &cfg, nil
}

// Default returns the configuration used when no file is supplied.
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

func setDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "casemark"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}

	if cfg.Server.Address == "" {
		cfg.Server.Address = ":8080"
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = Duration(10 * time.Second)
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = Duration(30 * time.Second)
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = Duration(60 * time.Second)
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "console"
	}

	if cfg.Imaging.TextureMode == "" {
		cfg.Imaging.TextureMode = string(texture.ModeFull)
	}
}

// PipelineOptions converts the imaging section into stage tunings,
// starting from the canonical defaults and overriding only what is set.
func (c *Config) PipelineOptions() pipeline.Options {
	opts := pipeline.DefaultOptions()

	opts.Texture.Mode = texture.Mode(c.Imaging.TextureMode)

	if c.Imaging.FiringPinMaxDim > 0 {
		opts.FiringPin.MaxDimPx = c.Imaging.FiringPinMaxDim
	}
	if c.Imaging.StriationMaxDim > 0 {
		opts.Striation.MaxDimPx = c.Imaging.StriationMaxDim
	}
	if c.Imaging.FiringPinMinRadius > 0 {
		opts.FiringPin.MinRadiusPx = c.Imaging.FiringPinMinRadius
	}
	if c.Imaging.FiringPinMaxRadius > 0 {
		opts.FiringPin.MaxRadiusPx = c.Imaging.FiringPinMaxRadius
	}
	if c.Imaging.StriationMinLineLength > 0 {
		opts.Striation.MinLineLength = c.Imaging.StriationMinLineLength
	}
	if c.Imaging.StriationMaxLineGap > 0 {
		opts.Striation.MaxLineGap = c.Imaging.StriationMaxLineGap
	}
	return opts
}
