// Package config handles terranav configuration loading and management.
package config

// Config holds all terrain, generation and navigation settings.
type Config struct {
	Terrain    TerrainConfig    `yaml:"terrain"`
	Generation GenerationConfig `yaml:"generation"`
	Objects    ObjectsConfig    `yaml:"objects"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// TerrainConfig holds grid dimensions and terrain class thresholds.
type TerrainConfig struct {
	Width        int     `yaml:"width"`
	Height       int     `yaml:"height"`
	Seed         int64   `yaml:"seed"`
	LowThreshold float32 `yaml:"low_threshold"` // elevation below this is low ground
	MidThreshold float32 `yaml:"mid_threshold"` // elevation below this (and above low) is mid ground
	HeightFile   string  `yaml:"height_file"`   // load heights from an .hfd file instead of generating
}

// NoiseLayer parameterizes one octave-summed value noise layer.
type NoiseLayer struct {
	MaxHeight   float32 `yaml:"max_height"`
	NoiseSize   float32 `yaml:"noise_size"`
	Persistence float32 `yaml:"persistence"`
	Octaves     int     `yaml:"octaves"`
}

// GenerationConfig holds the layered noise recipe for generated terrain.
type GenerationConfig struct {
	Base    NoiseLayer `yaml:"base"`
	Mask    NoiseLayer `yaml:"mask"`
	Detail  NoiseLayer `yaml:"detail"`
	MaskCap float32    `yaml:"mask_cap"` // fraction of the mask's max height cut away
}

// ObjectsConfig holds scattering rules for fixed map objects.
type ObjectsConfig struct {
	TreeChance     int     `yaml:"tree_chance"`  // one in N eligible cells
	StoneChance    int     `yaml:"stone_chance"` // one in N eligible cells
	TreeDetail     float32 `yaml:"tree_detail"`  // detail layer must exceed this
	StoneDetail    float32 `yaml:"stone_detail"`
	StoneMinHeight float32 `yaml:"stone_min_height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Terrain: TerrainConfig{
			Width:        64,
			Height:       64,
			Seed:         1,
			LowThreshold: 1.0,
			MidThreshold: 15.0,
		},
		Generation: GenerationConfig{
			Base:    NoiseLayer{MaxHeight: 20.0, NoiseSize: 2.0, Persistence: 0.5, Octaves: 8},
			Mask:    NoiseLayer{MaxHeight: 2.0, NoiseSize: 2.5, Persistence: 0.8, Octaves: 3},
			Detail:  NoiseLayer{MaxHeight: 1.0, NoiseSize: 5.5, Persistence: 0.9, Octaves: 7},
			MaskCap: 0.4,
		},
		Objects: ObjectsConfig{
			TreeChance:     6,
			StoneChance:    20,
			TreeDetail:     0.7,
			StoneDetail:    0.9,
			StoneMinHeight: 1.0,
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}
