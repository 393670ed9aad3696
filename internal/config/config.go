// Package config loads the game configuration from an HCL file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Config is the complete game configuration. Blocks are pointers so a config
// file may omit any of them.
type Config struct {
	Profile *ProfileSettings `hcl:"profile,block"`
	Display *DisplaySettings `hcl:"display,block"`
	Log     *LogSettings     `hcl:"log,block"`
}

// ProfileSettings locates the persisted player record
type ProfileSettings struct {
	Path string `hcl:"path,optional"`
}

// DisplaySettings are presentation pacing knobs. The core engine never reads
// these; only the TUI does.
type DisplaySettings struct {
	SeatDelayMs int  `hcl:"seat_delay_ms,optional"`
	SkipQueue   bool `hcl:"skip_queue,optional"`
}

// LogSettings contains logging configuration
type LogSettings struct {
	Level string `hcl:"level,optional"`
}

// Default returns the default configuration
func Default() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return &Config{
		Profile: &ProfileSettings{
			Path: filepath.Join(home, ".blackjack", "profile.json"),
		},
		Display: &DisplaySettings{
			SeatDelayMs: 700,
		},
		Log: &LogSettings{
			Level: "info",
		},
	}
}

// Load reads configuration from an HCL file. A missing file yields the
// defaults; missing blocks or fields fall back to their default values.
func Load(filename string) (*Config, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return Default(), nil
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var cfg Config
	diags = gohcl.DecodeBody(file.Body, nil, &cfg)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := Default()
	if cfg.Profile == nil {
		cfg.Profile = defaults.Profile
	} else if cfg.Profile.Path == "" {
		cfg.Profile.Path = defaults.Profile.Path
	}
	if cfg.Display == nil {
		cfg.Display = defaults.Display
	} else if cfg.Display.SeatDelayMs == 0 {
		cfg.Display.SeatDelayMs = defaults.Display.SeatDelayMs
	}
	if cfg.Log == nil {
		cfg.Log = defaults.Log
	} else if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}
	if c.Display.SeatDelayMs < 0 {
		return fmt.Errorf("seat_delay_ms must not be negative")
	}
	if c.Profile.Path == "" {
		return fmt.Errorf("profile path must not be empty")
	}
	return nil
}
