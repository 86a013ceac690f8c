package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/five82/resgate/internal/encoder"
)

// LimitEntry is the file representation of one limit table row. The frame
// size is given either as frame_size_pixels or as width and height.
type LimitEntry struct {
	FrameSizePixels    int `json:"frame_size_pixels,omitempty" yaml:"frame_size_pixels,omitempty"`
	Width              int `json:"width,omitempty" yaml:"width,omitempty"`
	Height             int `json:"height,omitempty" yaml:"height,omitempty"`
	MinStartBitrateBps int `json:"min_start_bitrate_bps" yaml:"min_start_bitrate_bps"`
	MinBitrateBps      int `json:"min_bitrate_bps" yaml:"min_bitrate_bps"`
	MaxBitrateBps      int `json:"max_bitrate_bps" yaml:"max_bitrate_bps"`
}

// ToLimits converts the entry, resolving width and height into a frame size.
func (e LimitEntry) ToLimits() (encoder.ResolutionBitrateLimits, error) {
	pixels := e.FrameSizePixels
	if e.Width != 0 || e.Height != 0 {
		if pixels != 0 {
			return encoder.ResolutionBitrateLimits{}, fmt.Errorf("%w: set frame_size_pixels or width/height, not both", ErrInvalidLimits)
		}
		pixels = e.Width * e.Height
	}
	return encoder.ResolutionBitrateLimits{
		FrameSizePixels:    pixels,
		MinStartBitrateBps: e.MinStartBitrateBps,
		MinBitrateBps:      e.MinBitrateBps,
		MaxBitrateBps:      e.MaxBitrateBps,
	}, nil
}

// ConvertLimits converts and validates a list of file entries.
func ConvertLimits(entries []LimitEntry) ([]encoder.ResolutionBitrateLimits, error) {
	limits := make([]encoder.ResolutionBitrateLimits, 0, len(entries))
	for i, e := range entries {
		l, err := e.ToLimits()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		limits = append(limits, l)
	}
	if err := encoder.ValidateLimits(limits); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLimits, err)
	}
	return limits, nil
}

// ParseLimits parses a YAML list of limit entries.
func ParseLimits(data []byte) ([]encoder.ResolutionBitrateLimits, error) {
	var entries []LimitEntry
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&entries); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %w", ErrInvalidLimits, err)
	}
	return ConvertLimits(entries)
}

// LoadLimitsFile reads and parses a limit table file.
func LoadLimitsFile(path string) ([]encoder.ResolutionBitrateLimits, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read limit table %s: %w", path, err)
	}
	limits, err := ParseLimits(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return limits, nil
}
