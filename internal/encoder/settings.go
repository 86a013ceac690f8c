// Package encoder provides the read-only encoder configuration snapshot consumed
// by the bitrate gate: configured layers, the codec's stream layout and the
// encoder's per-resolution bitrate limits.
package encoder

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// CodecType identifies the video codec in use.
type CodecType int

const (
	CodecGeneric CodecType = iota
	CodecVP8
	CodecVP9
	CodecAV1
	CodecH264
)

// ParseCodecType parses a codec name (case-insensitive).
func ParseCodecType(s string) (CodecType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "generic":
		return CodecGeneric, nil
	case "vp8":
		return CodecVP8, nil
	case "vp9":
		return CodecVP9, nil
	case "av1":
		return CodecAV1, nil
	case "h264":
		return CodecH264, nil
	default:
		return CodecGeneric, fmt.Errorf("%w: '%s', valid options: generic, vp8, vp9, av1, h264", ErrUnknownCodec, s)
	}
}

// String returns the lowercase codec name.
func (c CodecType) String() string {
	switch c {
	case CodecVP8:
		return "vp8"
	case CodecVP9:
		return "vp9"
	case CodecAV1:
		return "av1"
	case CodecH264:
		return "h264"
	default:
		return "generic"
	}
}

// Layer is one configured simulcast stream or spatial layer.
type Layer struct {
	Width            int
	Height           int
	Active           bool
	MinBitrateBps    int
	TargetBitrateBps int
	MaxBitrateBps    int
}

// Pixels returns the frame size of the layer in pixels.
func (l Layer) Pixels() int {
	return l.Width * l.Height
}

// String formats the layer as WxH with its active state.
func (l Layer) String() string {
	state := "off"
	if l.Active {
		state = "on"
	}
	return fmt.Sprintf("%dx%d:%s", l.Width, l.Height, state)
}

// Config is the encoder configuration as requested by the application.
// Layers are ordered lowest resolution first.
type Config struct {
	Layers []Layer
}

// NumActiveLayers returns the number of active layers.
func (c Config) NumActiveLayers() int {
	n := 0
	for _, l := range c.Layers {
		if l.Active {
			n++
		}
	}
	return n
}

// Codec is the codec configuration the encoder was actually set up with.
// VP9 signals resolutions through SpatialLayers, all other codecs through
// SimulcastStreams.
type Codec struct {
	Type             CodecType
	Width            int
	Height           int
	SimulcastStreams []Layer
	SpatialLayers    []Layer
}

// Settings is an immutable snapshot of the current encoder setup.
type Settings struct {
	Config Config
	Codec  Codec
	Info   Info
}

// Clone returns a deep copy of the settings. The copy shares no slices with s.
func (s Settings) Clone() Settings {
	s.Config.Layers = slices.Clone(s.Config.Layers)
	s.Codec.SimulcastStreams = slices.Clone(s.Codec.SimulcastStreams)
	s.Codec.SpatialLayers = slices.Clone(s.Codec.SpatialLayers)
	s.Info.Limits = slices.Clone(s.Info.Limits)
	return s
}

// SingleActiveLayerPixels returns the pixel count of the only active layer of
// the codec. ok is false when zero or more than one layer is active.
func SingleActiveLayerPixels(codec Codec) (pixels int, ok bool) {
	layers := codec.SimulcastStreams
	if codec.Type == CodecVP9 {
		layers = codec.SpatialLayers
	}

	numActive := 0
	for _, l := range layers {
		if l.Active {
			numActive++
			pixels = l.Pixels()
		}
	}
	if numActive != 1 {
		return 0, false
	}
	return pixels, true
}

// HigherResolutionThan returns a pixel count strictly greater than pixels,
// roughly one resolution step (5/3) up. The result saturates at math.MaxInt.
func HigherResolutionThan(pixels int) int {
	if pixels == math.MaxInt {
		return math.MaxInt
	}
	if pixels > math.MaxInt/5 {
		if pixels/3 > math.MaxInt/5 {
			return math.MaxInt
		}
		return max(pixels+1, pixels/3*5)
	}
	return max(pixels+1, pixels*5/3)
}
