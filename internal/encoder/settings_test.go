package encoder

import (
	"errors"
	"math"
	"testing"
)

func TestParseCodecType(t *testing.T) {
	tests := []struct {
		input   string
		want    CodecType
		wantErr bool
	}{
		{"vp8", CodecVP8, false},
		{"VP9", CodecVP9, false},
		{" av1 ", CodecAV1, false},
		{"h264", CodecH264, false},
		{"", CodecGeneric, false},
		{"generic", CodecGeneric, false},
		{"hevc", CodecGeneric, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCodecType(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseCodecType(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownCodec) {
				t.Errorf("ParseCodecType(%q) error = %v, want ErrUnknownCodec", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseCodecType(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestCodecTypeStringRoundTrip(t *testing.T) {
	for _, c := range []CodecType{CodecGeneric, CodecVP8, CodecVP9, CodecAV1, CodecH264} {
		got, err := ParseCodecType(c.String())
		if err != nil || got != c {
			t.Errorf("ParseCodecType(%q) = %v, %v; want %v", c.String(), got, err, c)
		}
	}
}

func TestSingleActiveLayerPixels(t *testing.T) {
	q := Layer{Width: 320, Height: 180}
	h := Layer{Width: 640, Height: 360}
	f := Layer{Width: 1280, Height: 720}
	on := func(l Layer) Layer { l.Active = true; return l }

	tests := []struct {
		name   string
		codec  Codec
		want   int
		wantOK bool
	}{
		{
			name:   "single simulcast stream",
			codec:  Codec{Type: CodecVP8, SimulcastStreams: []Layer{on(h)}},
			want:   640 * 360,
			wantOK: true,
		},
		{
			name:   "top stream only",
			codec:  Codec{Type: CodecVP8, SimulcastStreams: []Layer{q, h, on(f)}},
			want:   1280 * 720,
			wantOK: true,
		},
		{
			name:  "two active streams",
			codec: Codec{Type: CodecVP8, SimulcastStreams: []Layer{on(q), on(h)}},
		},
		{
			name:  "no active streams",
			codec: Codec{Type: CodecH264, SimulcastStreams: []Layer{q, h}},
		},
		{
			name:  "no streams",
			codec: Codec{Type: CodecAV1},
		},
		{
			name:   "vp9 uses spatial layers",
			codec:  Codec{Type: CodecVP9, SpatialLayers: []Layer{q, on(h)}, SimulcastStreams: []Layer{on(q), on(f)}},
			want:   640 * 360,
			wantOK: true,
		},
		{
			name:  "vp9 ignores simulcast streams",
			codec: Codec{Type: CodecVP9, SimulcastStreams: []Layer{on(f)}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SingleActiveLayerPixels(tt.codec)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("SingleActiveLayerPixels() = %d, %v; want %d, %v", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestHigherResolutionThan(t *testing.T) {
	tests := []struct {
		pixels int
		want   int
	}{
		{0, 1},
		{1, 2},
		{2, 3},
		{3, 5},
		{640 * 360, 640 * 360 * 5 / 3},
		{1280 * 720, 1280 * 720 * 5 / 3},
		{math.MaxInt, math.MaxInt},
		{math.MaxInt - 1, math.MaxInt},
	}

	for _, tt := range tests {
		if got := HigherResolutionThan(tt.pixels); got != tt.want {
			t.Errorf("HigherResolutionThan(%d) = %d, want %d", tt.pixels, got, tt.want)
		}
	}
}

func TestHigherResolutionThanIsStrictlyGreater(t *testing.T) {
	for _, px := range []int{1, 7, 100, 57600, 921600, 8294400, math.MaxInt / 5, math.MaxInt/5 + 1, math.MaxInt / 2} {
		if got := HigherResolutionThan(px); got <= px {
			t.Errorf("HigherResolutionThan(%d) = %d, want > %d", px, got, px)
		}
	}
}

func TestConfigNumActiveLayers(t *testing.T) {
	cfg := Config{Layers: []Layer{{Active: true}, {}, {Active: true}}}
	if got := cfg.NumActiveLayers(); got != 2 {
		t.Errorf("NumActiveLayers() = %d, want 2", got)
	}
}

func TestLayerString(t *testing.T) {
	l := Layer{Width: 640, Height: 360, Active: true}
	if got := l.String(); got != "640x360:on" {
		t.Errorf("String() = %q, want %q", got, "640x360:on")
	}
}

func TestSettingsClone(t *testing.T) {
	layer := Layer{Width: 640, Height: 360, Active: true}
	orig := Settings{
		Config: Config{Layers: []Layer{layer}},
		Codec:  Codec{Type: CodecVP9, SimulcastStreams: []Layer{layer}, SpatialLayers: []Layer{layer}},
		Info:   Info{ImplementationName: "libvpx", Limits: DefaultSinglecastLimits()},
	}

	c := orig.Clone()
	c.Config.Layers[0].Active = false
	c.Codec.SimulcastStreams[0].Width = 1
	c.Codec.SpatialLayers[0].Height = 1
	c.Info.Limits[0].MinStartBitrateBps = 42

	if !orig.Config.Layers[0].Active || orig.Codec.SimulcastStreams[0].Width != 640 ||
		orig.Codec.SpatialLayers[0].Height != 360 || orig.Info.Limits[0].MinStartBitrateBps != 0 {
		t.Errorf("Clone() shares slices with the original: %+v", orig)
	}
	if c.Info.ImplementationName != "libvpx" || c.Codec.Type != CodecVP9 {
		t.Errorf("Clone() = %+v, lost scalar fields", c)
	}
}
