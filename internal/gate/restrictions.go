package gate

import (
	"fmt"
	"strings"
)

// Restrictions are the resolution and frame rate caps applied to the video
// source. A nil field means unrestricted.
type Restrictions struct {
	MaxPixelsPerFrame    *int
	TargetPixelsPerFrame *int
	MaxFrameRate         *float64
}

// Unrestricted returns restrictions with no caps.
func Unrestricted() Restrictions {
	return Restrictions{}
}

// MaxPixels returns restrictions capping the frame size at pixels.
func MaxPixels(pixels int) Restrictions {
	return Restrictions{MaxPixelsPerFrame: &pixels}
}

// String formats the restrictions for logs.
func (r Restrictions) String() string {
	var parts []string
	if r.MaxPixelsPerFrame != nil {
		parts = append(parts, fmt.Sprintf("max_pixels=%d", *r.MaxPixelsPerFrame))
	}
	if r.TargetPixelsPerFrame != nil {
		parts = append(parts, fmt.Sprintf("target_pixels=%d", *r.TargetPixelsPerFrame))
	}
	if r.MaxFrameRate != nil {
		parts = append(parts, fmt.Sprintf("max_fps=%.2f", *r.MaxFrameRate))
	}
	if len(parts) == 0 {
		return "unrestricted"
	}
	return strings.Join(parts, " ")
}

// DidIncreaseResolution reports whether going from before to after raises the
// resolution cap. Lifting a cap counts as an increase; an unrestricted before
// can never be increased.
func DidIncreaseResolution(before, after Restrictions) bool {
	if before.MaxPixelsPerFrame == nil {
		return false
	}
	if after.MaxPixelsPerFrame == nil {
		return true
	}
	return *after.MaxPixelsPerFrame > *before.MaxPixelsPerFrame
}

// DidIncreaseFrameRate reports whether going from before to after raises the
// frame rate cap.
func DidIncreaseFrameRate(before, after Restrictions) bool {
	if before.MaxFrameRate == nil {
		return false
	}
	if after.MaxFrameRate == nil {
		return true
	}
	return *after.MaxFrameRate > *before.MaxFrameRate
}
