package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/five82/resgate/internal/encoder"
)

func TestNewConfig(t *testing.T) {
	cfg := NewConfig()

	if cfg.LimitsPreset != PresetDefault {
		t.Errorf("expected LimitsPreset=default, got %s", cfg.LimitsPreset)
	}
	if cfg.OutputFormat != DefaultOutputFormat {
		t.Errorf("expected OutputFormat=%s, got %s", DefaultOutputFormat, cfg.OutputFormat)
	}
	if !cfg.NoLog {
		t.Error("expected run log disabled by default")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name         string
		modify       func(*Config)
		wantErr      bool
		wantSentinel error
	}{
		{
			name:    "default config is valid",
			modify:  func(c *Config) {},
			wantErr: false,
		},
		{
			name:    "json output is valid",
			modify:  func(c *Config) { c.OutputFormat = "json" },
			wantErr: false,
		},
		{
			name:         "unknown output format",
			modify:       func(c *Config) { c.OutputFormat = "xml" },
			wantErr:      true,
			wantSentinel: ErrInvalidOutputFormat,
		},
		{
			name:         "unknown preset",
			modify:       func(c *Config) { c.LimitsPreset = "loose" },
			wantErr:      true,
			wantSentinel: ErrInvalidPreset,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
				t.Errorf("Validate() error = %v, want sentinel %v", err, tt.wantSentinel)
			}
		})
	}
}

func TestParsePreset(t *testing.T) {
	tests := []struct {
		input        string
		want         Preset
		wantErr      bool
		wantSentinel error
	}{
		{"default", PresetDefault, false, nil},
		{"DEFAULT", PresetDefault, false, nil},
		{"strict", PresetStrict, false, nil},
		{"None", PresetNone, false, nil},
		{"invalid", "", true, ErrInvalidPreset},
		{"", "", true, ErrInvalidPreset},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePreset(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ParsePreset(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}
			if tt.wantSentinel != nil && !errors.Is(err, tt.wantSentinel) {
				t.Errorf("ParsePreset(%q) error = %v, want sentinel %v", tt.input, err, tt.wantSentinel)
			}
			if got != tt.want {
				t.Errorf("ParsePreset(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestPresetLimitsAreValid(t *testing.T) {
	for _, p := range []Preset{PresetDefault, PresetStrict, PresetNone} {
		if err := encoder.ValidateLimits(PresetLimits(p)); err != nil {
			t.Errorf("PresetLimits(%s) invalid: %v", p, err)
		}
	}
}

func TestStrictPresetRequiresMoreBitrate(t *testing.T) {
	def := PresetLimits(PresetDefault)
	strict := PresetLimits(PresetStrict)
	if len(def) != len(strict) {
		t.Fatalf("table sizes differ: %d vs %d", len(def), len(strict))
	}
	for i := range def {
		if strict[i].MinStartBitrateBps < def[i].MinStartBitrateBps {
			t.Errorf("strict entry %d min start %d below default %d",
				i, strict[i].MinStartBitrateBps, def[i].MinStartBitrateBps)
		}
	}
	if len(PresetLimits(PresetNone)) != 0 {
		t.Error("none preset should have no limits")
	}
}

func TestParseLimits(t *testing.T) {
	data := []byte(`
- width: 640
  height: 360
  min_start_bitrate_bps: 500000
  min_bitrate_bps: 30000
  max_bitrate_bps: 800000
- frame_size_pixels: 921600
  min_start_bitrate_bps: 1500000
  min_bitrate_bps: 30000
  max_bitrate_bps: 2500000
`)

	limits, err := ParseLimits(data)
	if err != nil {
		t.Fatalf("ParseLimits() error = %v", err)
	}
	if len(limits) != 2 {
		t.Fatalf("got %d entries, want 2", len(limits))
	}
	if limits[0].FrameSizePixels != 640*360 || limits[1].MinStartBitrateBps != 1500000 {
		t.Errorf("ParseLimits() = %+v", limits)
	}
}

func TestParseLimitsErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"unknown field", "- frame_size_pixels: 100\n  bogus: 1\n"},
		{"both size forms", "- frame_size_pixels: 100\n  width: 10\n  height: 10\n"},
		{"not a list", "frame_size_pixels: 100\n"},
		{"decreasing bitrates", "- frame_size_pixels: 100\n  min_start_bitrate_bps: 500\n  max_bitrate_bps: 900\n- frame_size_pixels: 200\n  min_start_bitrate_bps: 100\n  max_bitrate_bps: 900\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLimits([]byte(tt.data))
			if !errors.Is(err, ErrInvalidLimits) {
				t.Errorf("ParseLimits() error = %v, want ErrInvalidLimits", err)
			}
		})
	}
}

func TestConfigLimits(t *testing.T) {
	cfg := NewConfig()
	cfg.ApplyPreset(PresetStrict)

	limits, err := cfg.Limits()
	if err != nil {
		t.Fatalf("Limits() error = %v", err)
	}
	if limits[1].MinStartBitrateBps != 400000 {
		t.Errorf("expected strict table, got %+v", limits[1])
	}

	path := filepath.Join(t.TempDir(), "limits.yaml")
	content := "- frame_size_pixels: 100\n  min_start_bitrate_bps: 1\n  max_bitrate_bps: 2\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	cfg.LimitsFile = path

	limits, err = cfg.Limits()
	if err != nil {
		t.Fatalf("Limits() error = %v", err)
	}
	if len(limits) != 1 || limits[0].FrameSizePixels != 100 {
		t.Errorf("expected file table, got %+v", limits)
	}

	cfg.LimitsFile = filepath.Join(t.TempDir(), "missing.yaml")
	if _, err := cfg.Limits(); err == nil {
		t.Error("expected error for missing limits file")
	}
}
