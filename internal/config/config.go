package config

import (
	"encoding/json"
	"fmt"
	"os"
	"runtime"
)

// Config holds all configurable paths and normalization settings.
type Config struct {
	// Paths
	InputDir  string `json:"input_dir"`
	OutputDir string `json:"output_dir"`

	// Normalization settings
	MaxDimension int    `json:"max_dimension"`
	Format       string `json:"format"`
	JPEGQuality  int    `json:"jpeg_quality"`
	Workers      int    `json:"workers"`
}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	InputDir  string
	OutputDir string
	MaxDim    int
	Format    string
	Quality   int
	Workers   int
}

// Resolve applies CLI flag overrides and fills remaining empty fields with
// defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.InputDir != "" {
		c.InputDir = flags.InputDir
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.MaxDim > 0 {
		c.MaxDimension = flags.MaxDim
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Quality > 0 {
		c.JPEGQuality = flags.Quality
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}

	// Defaults
	if c.OutputDir == "" {
		c.OutputDir = "thumbs"
	}
	if c.MaxDimension <= 0 {
		c.MaxDimension = 1500
	}
	if c.Format == "" {
		c.Format = "webp"
	}
	if c.JPEGQuality <= 0 {
		c.JPEGQuality = 90
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
}
