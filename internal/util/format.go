// Package util provides utility functions for formatting, parsing and file checks.
package util

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	Kbps = 1000
	Mbps = Kbps * 1000
)

// FormatBitrate formats bits per second with decimal units (bps, kbps, Mbps).
func FormatBitrate(bps uint64) string {
	bf := float64(bps)
	switch {
	case bf >= Mbps:
		return fmt.Sprintf("%.2f Mbps", bf/Mbps)
	case bf >= Kbps:
		return fmt.Sprintf("%.1f kbps", bf/Kbps)
	default:
		return fmt.Sprintf("%d bps", bps)
	}
}

// ParseBitrate parses a bitrate such as "450000", "450k" or "1.5M" into bits
// per second. Suffixes are decimal and case-insensitive.
func ParseBitrate(s string) (uint32, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty bitrate")
	}

	mult := 1.0
	switch strings.ToLower(s[len(s)-1:]) {
	case "k":
		mult = Kbps
		s = s[:len(s)-1]
	case "m":
		mult = Mbps
		s = s[:len(s)-1]
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("invalid bitrate %q: %w", s, err)
	}
	v *= mult
	if v < 0 || v > math.MaxUint32 || math.IsNaN(v) {
		return 0, fmt.Errorf("bitrate %q out of range", s)
	}
	return uint32(math.Round(v)), nil
}

// FormatPixels formats a pixel count, naming the common 16:9 resolution when
// it matches one.
func FormatPixels(pixels int) string {
	if name, ok := commonResolutions[pixels]; ok {
		return fmt.Sprintf("%d px (%s)", pixels, name)
	}
	return fmt.Sprintf("%d px", pixels)
}

var commonResolutions = map[int]string{
	320 * 180:   "320x180",
	480 * 270:   "480x270",
	640 * 360:   "640x360",
	960 * 540:   "960x540",
	1280 * 720:  "1280x720",
	1920 * 1080: "1920x1080",
	2560 * 1440: "2560x1440",
	3840 * 2160: "3840x2160",
}

// ParseResolution parses "WIDTHxHEIGHT" into its dimensions.
func ParseResolution(s string) (width, height int, err error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(s)), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid resolution format %q, expected 'WxH' (e.g., '1280x720')", s)
	}

	width, err = strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution width %q: %w", parts[0], err)
	}
	height, err = strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid resolution height %q: %w", parts[1], err)
	}
	if width <= 0 || height <= 0 {
		return 0, 0, fmt.Errorf("resolution %q must be positive", s)
	}
	return width, height, nil
}

// FormatDuration formats seconds as HH:MM:SS.
func FormatDuration(seconds float64) string {
	if seconds < 0 || seconds != seconds { // NaN check
		return "??:??:??"
	}

	totalSecs := int64(seconds)
	hours := totalSecs / 3600
	minutes := (totalSecs % 3600) / 60
	secs := totalSecs % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}

// Percent returns part as a percentage of total, 0 when total is 0.
func Percent(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
