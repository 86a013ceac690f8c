package resgate

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func singlecast(width, height int) *Settings {
	layer := Layer{Width: width, Height: height, Active: true}
	return &Settings{
		Config: EncoderConfig{Layers: []Layer{layer}},
		Codec:  Codec{Type: CodecVP8, SimulcastStreams: []Layer{layer}},
		Info:   EncoderInfo{Limits: DefaultSinglecastLimits()},
	}
}

func TestGateIsAdaptationUpAllowed(t *testing.T) {
	tests := []struct {
		name    string
		bitrate *uint32
		before  Restrictions
		after   Restrictions
		want    bool
		reason  Reason
	}{
		{
			name:    "insufficient bitrate",
			bitrate: Bitrate(450000),
			before:  MaxPixels(640 * 360),
			after:   MaxPixels(960 * 540),
			want:    false,
			reason:  ReasonBitrateInsufficient,
		},
		{
			name:    "sufficient bitrate",
			bitrate: Bitrate(800000),
			before:  MaxPixels(640 * 360),
			after:   MaxPixels(960 * 540),
			want:    true,
			reason:  ReasonBitrateSufficient,
		},
		{
			name:    "lifting the cap is an increase",
			bitrate: Bitrate(450000),
			before:  MaxPixels(640 * 360),
			after:   Unrestricted(),
			want:    false,
			reason:  ReasonBitrateInsufficient,
		},
		{
			name:    "decrease",
			bitrate: Bitrate(1),
			before:  MaxPixels(960 * 540),
			after:   MaxPixels(640 * 360),
			want:    true,
			reason:  ReasonNoResolutionIncrease,
		},
		{
			name:   "no bitrate",
			before: MaxPixels(640 * 360),
			after:  MaxPixels(960 * 540),
			want:   true,
			reason: ReasonNoTargetBitrate,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(WithSettings(singlecast(640, 360)))
			g.SetTargetBitrateBps(tt.bitrate)

			if got := g.IsAdaptationUpAllowed(InputState{}, tt.before, tt.after); got != tt.want {
				t.Errorf("IsAdaptationUpAllowed() = %v, want %v", got, tt.want)
			}
			if d := g.Evaluate(InputState{}, tt.before, tt.after); d.Reason != tt.reason {
				t.Errorf("Evaluate() reason = %v, want %v", d.Reason, tt.reason)
			}
		})
	}
}

func TestGateWithoutSettingsAllows(t *testing.T) {
	g := New(WithTargetBitrateBps(1))
	if !g.IsAdaptationUpAllowed(InputState{}, MaxPixels(1), MaxPixels(2)) {
		t.Error("expected gate without settings to allow")
	}

	g.SetEncoderSettings(singlecast(640, 360))
	g.SetEncoderSettings(nil)
	if !g.IsAdaptationUpAllowed(InputState{}, MaxPixels(1), MaxPixels(2)) {
		t.Error("expected cleared settings to allow")
	}
}

func TestGateIsConstraint(t *testing.T) {
	g := New(WithSettings(singlecast(640, 360)), WithTargetBitrateBps(1))
	allowed, blocking := Constraints{g}.AllowUp(InputState{}, MaxPixels(640*360), MaxPixels(960*540))
	if allowed || blocking != g.Name() {
		t.Errorf("AllowUp() = %v, %q; want false, %q", allowed, blocking, g.Name())
	}
}

func TestWithLoggerLogsDecisions(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	g := New(WithLogger(zap.New(core)))

	g.Evaluate(InputState{}, MaxPixels(1), MaxPixels(2))

	entries := logs.FilterMessage("adaptation up evaluated").All()
	if len(entries) != 1 {
		t.Fatalf("got %d log entries, want 1", len(entries))
	}
	if got := entries[0].ContextMap()["reason"]; got != "no-encoder-settings" {
		t.Errorf("logged reason = %v, want no-encoder-settings", got)
	}
	if got := entries[0].ContextMap()["after"]; got != "max_pixels=2" {
		t.Errorf("logged after = %v, want max_pixels=2", got)
	}
}

func TestDecisionsNotLoggedAboveDebug(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	g := New(WithLogger(zap.New(core)))

	if !g.IsAdaptationUpAllowed(InputState{}, MaxPixels(1), MaxPixels(2)) {
		t.Fatal("expected allowed without settings")
	}
	if n := logs.Len(); n != 0 {
		t.Errorf("got %d log entries at info level, want 0", n)
	}
}

func TestParsePreset(t *testing.T) {
	p, err := ParsePreset("Strict")
	if err != nil || p != PresetStrict {
		t.Fatalf("ParsePreset() = %v, %v", p, err)
	}
	if len(PresetLimits(PresetNone)) != 0 {
		t.Error("expected empty table for none preset")
	}
}

func TestReplayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ramp.yaml")
	doc := `steps:
  - settings: {codec: vp8, layers: [{resolution: 640x360}]}
  - bitrate: 450k
  - propose: {before: {max_pixels: 230400}, after: {max_pixels: 518400}}
    expect: deny
`
	if err := os.WriteFile(path, []byte(doc), 0o644); err != nil {
		t.Fatal(err)
	}

	result, err := ReplayFile(context.Background(), path)
	if err != nil {
		t.Fatalf("ReplayFile() error = %v", err)
	}
	if result.Name != "ramp" || result.Denied != 1 || result.Mismatches != 0 {
		t.Errorf("ReplayFile() = %+v", result)
	}
}
