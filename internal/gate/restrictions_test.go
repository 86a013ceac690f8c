package gate

import (
	"testing"

	"github.com/five82/resgate/internal/encoder"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestDidIncreaseResolution(t *testing.T) {
	tests := []struct {
		name   string
		before Restrictions
		after  Restrictions
		want   bool
	}{
		{"both unrestricted", Restrictions{}, Restrictions{}, false},
		{"before unrestricted", Restrictions{}, MaxPixels(100), false},
		{"cap lifted", MaxPixels(100), Restrictions{}, true},
		{"cap raised", MaxPixels(100), MaxPixels(101), true},
		{"cap unchanged", MaxPixels(100), MaxPixels(100), false},
		{"cap lowered", MaxPixels(100), MaxPixels(99), false},
		{
			"target pixels ignored",
			Restrictions{MaxPixelsPerFrame: intp(100), TargetPixelsPerFrame: intp(50)},
			Restrictions{MaxPixelsPerFrame: intp(100), TargetPixelsPerFrame: intp(90)},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DidIncreaseResolution(tt.before, tt.after); got != tt.want {
				t.Errorf("DidIncreaseResolution() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDidIncreaseFrameRate(t *testing.T) {
	tests := []struct {
		name   string
		before Restrictions
		after  Restrictions
		want   bool
	}{
		{"unrestricted", Restrictions{}, Restrictions{MaxFrameRate: floatp(30)}, false},
		{"cap lifted", Restrictions{MaxFrameRate: floatp(15)}, Restrictions{}, true},
		{"cap raised", Restrictions{MaxFrameRate: floatp(15)}, Restrictions{MaxFrameRate: floatp(30)}, true},
		{"cap lowered", Restrictions{MaxFrameRate: floatp(30)}, Restrictions{MaxFrameRate: floatp(15)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DidIncreaseFrameRate(tt.before, tt.after); got != tt.want {
				t.Errorf("DidIncreaseFrameRate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRestrictionsString(t *testing.T) {
	if got := Unrestricted().String(); got != "unrestricted" {
		t.Errorf("String() = %q, want unrestricted", got)
	}
	r := Restrictions{MaxPixelsPerFrame: intp(921600), MaxFrameRate: floatp(30)}
	if got := r.String(); got != "max_pixels=921600 max_fps=30.00" {
		t.Errorf("String() = %q", got)
	}
}

func TestIsSimulcast(t *testing.T) {
	on := encoder.Layer{Active: true}
	off := encoder.Layer{}

	tests := []struct {
		name   string
		layers []encoder.Layer
		want   bool
	}{
		{"no layers", nil, false},
		{"single active layer", []encoder.Layer{on}, false},
		{"single inactive layer", []encoder.Layer{off}, false},
		{"two active", []encoder.Layer{on, on}, true},
		{"lowest only", []encoder.Layer{on, off}, true},
		{"upper only", []encoder.Layer{off, on}, false},
		{"two upper of three", []encoder.Layer{off, on, on}, true},
		{"none active", []encoder.Layer{off, off}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSimulcast(encoder.Config{Layers: tt.layers}); got != tt.want {
				t.Errorf("IsSimulcast() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestReasonString(t *testing.T) {
	if got := ReasonBitrateInsufficient.String(); got != "bitrate-insufficient" {
		t.Errorf("String() = %q", got)
	}
	if got := Reason(99).String(); got != "reason(99)" {
		t.Errorf("String() = %q", got)
	}
	text, err := ReasonSimulcast.MarshalText()
	if err != nil || string(text) != "simulcast" {
		t.Errorf("MarshalText() = %q, %v", text, err)
	}
}
