package encoder

import (
	"cmp"
	"fmt"
	"slices"
)

// ResolutionBitrateLimits holds the bitrate bounds the encoder recommends for
// frames up to FrameSizePixels.
type ResolutionBitrateLimits struct {
	FrameSizePixels    int
	MinStartBitrateBps int
	MinBitrateBps      int
	MaxBitrateBps      int
}

// Info describes encoder capabilities reported by the encoder implementation.
type Info struct {
	ImplementationName string
	Limits             []ResolutionBitrateLimits
}

// BitrateLimitsForResolution returns the limits of the smallest resolution
// that is at least framePixels. ok is false when the table has no such entry.
func (i Info) BitrateLimitsForResolution(framePixels int) (limits ResolutionBitrateLimits, ok bool) {
	sorted := SortedLimits(i.Limits)
	for _, l := range sorted {
		if l.FrameSizePixels >= framePixels {
			return l, true
		}
	}
	return ResolutionBitrateLimits{}, false
}

// SortedLimits returns a copy of limits ordered by frame size.
func SortedLimits(limits []ResolutionBitrateLimits) []ResolutionBitrateLimits {
	sorted := slices.Clone(limits)
	slices.SortStableFunc(sorted, func(a, b ResolutionBitrateLimits) int {
		return cmp.Compare(a.FrameSizePixels, b.FrameSizePixels)
	})
	return sorted
}

// ValidateLimits checks that a limit table is usable for lookups: values are
// non-negative, each entry has min <= max, frame sizes are
// unique, and bitrates never decrease as resolution grows.
func ValidateLimits(limits []ResolutionBitrateLimits) error {
	sorted := SortedLimits(limits)
	for i, l := range sorted {
		if l.FrameSizePixels <= 0 {
			return fmt.Errorf("%w: frame size must be positive, got %d", ErrInvalidLimits, l.FrameSizePixels)
		}
		if l.MinBitrateBps < 0 || l.MinStartBitrateBps < 0 || l.MaxBitrateBps < 0 {
			return fmt.Errorf("%w: negative bitrate for %d pixels", ErrInvalidLimits, l.FrameSizePixels)
		}
		if l.MaxBitrateBps < l.MinBitrateBps {
			return fmt.Errorf("%w: max bitrate %d below min bitrate %d for %d pixels",
				ErrInvalidLimits, l.MaxBitrateBps, l.MinBitrateBps, l.FrameSizePixels)
		}
		if i == 0 {
			continue
		}
		prev := sorted[i-1]
		if prev.FrameSizePixels == l.FrameSizePixels {
			return fmt.Errorf("%w: duplicate entry for %d pixels", ErrInvalidLimits, l.FrameSizePixels)
		}
		if l.MinStartBitrateBps < prev.MinStartBitrateBps ||
			l.MinBitrateBps < prev.MinBitrateBps ||
			l.MaxBitrateBps < prev.MaxBitrateBps {
			return fmt.Errorf("%w: bitrates for %d pixels are lower than for %d pixels",
				ErrInvalidLimits, l.FrameSizePixels, prev.FrameSizePixels)
		}
	}
	return nil
}

// DefaultSinglecastLimits returns the limits used for singlecast streams when
// the encoder does not report its own.
func DefaultSinglecastLimits() []ResolutionBitrateLimits {
	return []ResolutionBitrateLimits{
		{FrameSizePixels: 320 * 180, MinStartBitrateBps: 0, MinBitrateBps: 30000, MaxBitrateBps: 300000},
		{FrameSizePixels: 480 * 270, MinStartBitrateBps: 300000, MinBitrateBps: 30000, MaxBitrateBps: 500000},
		{FrameSizePixels: 640 * 360, MinStartBitrateBps: 500000, MinBitrateBps: 30000, MaxBitrateBps: 800000},
		{FrameSizePixels: 960 * 540, MinStartBitrateBps: 800000, MinBitrateBps: 30000, MaxBitrateBps: 1500000},
		{FrameSizePixels: 1280 * 720, MinStartBitrateBps: 1500000, MinBitrateBps: 30000, MaxBitrateBps: 2500000},
	}
}
