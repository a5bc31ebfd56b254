package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// MaxGridSize bounds both grid dimensions.
const MaxGridSize = 4096

// Load loads configuration with priority: defaults < file < flags.
func Load() (*Config, error) {
	cfg := Default()

	// Explicit path takes priority over the search locations
	configPath := ConfigPath()
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Validate reports every setting that cannot produce a usable grid.
func (c *Config) Validate() error {
	var errs []error
	if c.Terrain.Width <= 0 || c.Terrain.Width > MaxGridSize {
		errs = append(errs, fmt.Errorf("terrain.width %d out of range 1..%d", c.Terrain.Width, MaxGridSize))
	}
	if c.Terrain.Height <= 0 || c.Terrain.Height > MaxGridSize {
		errs = append(errs, fmt.Errorf("terrain.height %d out of range 1..%d", c.Terrain.Height, MaxGridSize))
	}
	if c.Terrain.LowThreshold > c.Terrain.MidThreshold {
		errs = append(errs, fmt.Errorf("terrain.low_threshold %g above mid_threshold %g",
			c.Terrain.LowThreshold, c.Terrain.MidThreshold))
	}
	layers := []struct {
		name  string
		layer NoiseLayer
	}{
		{"base", c.Generation.Base},
		{"mask", c.Generation.Mask},
		{"detail", c.Generation.Detail},
	}
	for _, l := range layers {
		if l.layer.Octaves <= 0 {
			errs = append(errs, fmt.Errorf("generation.%s.octaves must be positive", l.name))
		}
		if l.layer.MaxHeight <= 0 {
			errs = append(errs, fmt.Errorf("generation.%s.max_height must be positive", l.name))
		}
	}
	if c.Generation.MaskCap < 0 || c.Generation.MaskCap >= 1 {
		errs = append(errs, fmt.Errorf("generation.mask_cap %g out of range [0,1)", c.Generation.MaskCap))
	}
	if c.Objects.TreeChance <= 0 || c.Objects.StoneChance <= 0 {
		errs = append(errs, errors.New("objects chances must be positive"))
	}
	return errors.Join(errs...)
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		"./terranav.yaml",
		filepath.Join(ConfigDir(), "terranav.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Terranav")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Terranav")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "terranav")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "terranav")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
