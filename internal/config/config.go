// Package config provides configuration types and defaults for resgate.
package config

import (
	"fmt"
	"strings"

	"github.com/five82/resgate/internal/encoder"
)

// Default constants
const (
	// DefaultOutputFormat is the report format for the CLI.
	DefaultOutputFormat = "terminal"

	// DefaultLogDirName is the log directory created under the working directory.
	DefaultLogDirName = "logs"

	// EnvPrefix prefixes environment variable overrides (RESGATE_FORMAT, ...).
	EnvPrefix = "RESGATE"
)

// Output formats accepted by the CLI.
var OutputFormats = []string{"terminal", "json", "table"}

// Preset selects a built-in resolution bitrate limit table.
type Preset string

const (
	PresetDefault Preset = "default"
	PresetStrict  Preset = "strict"
	PresetNone    Preset = "none"
)

// ParsePreset parses a string into a Preset.
func ParsePreset(s string) (Preset, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "default":
		return PresetDefault, nil
	case "strict":
		return PresetStrict, nil
	case "none":
		return PresetNone, nil
	default:
		return "", fmt.Errorf("%w: '%s', valid options: default, strict, none", ErrInvalidPreset, s)
	}
}

// String returns the string representation of the preset.
func (p Preset) String() string {
	return string(p)
}

// PresetLimits returns the limit table for a preset.
func PresetLimits(p Preset) []encoder.ResolutionBitrateLimits {
	switch p {
	case PresetStrict:
		return []encoder.ResolutionBitrateLimits{
			{FrameSizePixels: 320 * 180, MinStartBitrateBps: 0, MinBitrateBps: 30000, MaxBitrateBps: 400000},
			{FrameSizePixels: 480 * 270, MinStartBitrateBps: 400000, MinBitrateBps: 30000, MaxBitrateBps: 650000},
			{FrameSizePixels: 640 * 360, MinStartBitrateBps: 650000, MinBitrateBps: 30000, MaxBitrateBps: 1050000},
			{FrameSizePixels: 960 * 540, MinStartBitrateBps: 1050000, MinBitrateBps: 30000, MaxBitrateBps: 2000000},
			{FrameSizePixels: 1280 * 720, MinStartBitrateBps: 2000000, MinBitrateBps: 30000, MaxBitrateBps: 3000000},
		}
	case PresetNone:
		return nil
	default:
		return encoder.DefaultSinglecastLimits()
	}
}

// Config holds all configuration for the resgate CLI.
type Config struct {
	// Limit table selection. LimitsFile, when set, overrides LimitsPreset.
	LimitsPreset Preset
	LimitsFile   string

	// Output options
	OutputFormat string
	Verbose      bool

	// Run log options
	LogDir string
	NoLog  bool
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		LimitsPreset: PresetDefault,
		OutputFormat: DefaultOutputFormat,
		LogDir:       DefaultLogDirName,
		NoLog:        true,
	}
}

// ApplyPreset selects the given limits preset.
func (c *Config) ApplyPreset(p Preset) {
	c.LimitsPreset = p
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := ParsePreset(string(c.LimitsPreset)); err != nil {
		return err
	}

	valid := false
	for _, f := range OutputFormats {
		if c.OutputFormat == f {
			valid = true
			break
		}
	}
	if !valid {
		return fmt.Errorf("%w: '%s', valid options: %s",
			ErrInvalidOutputFormat, c.OutputFormat, strings.Join(OutputFormats, ", "))
	}

	return nil
}

// Limits resolves the limit table: the limits file when set, else the preset.
func (c *Config) Limits() ([]encoder.ResolutionBitrateLimits, error) {
	if c.LimitsFile != "" {
		return LoadLimitsFile(c.LimitsFile)
	}
	return PresetLimits(c.LimitsPreset), nil
}
