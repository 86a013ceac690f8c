package gate

import "github.com/five82/resgate/internal/encoder"

// InputState describes the video source feeding the encoder as seen by the
// adaptation engine. The bitrate gate does not consult it.
type InputState struct {
	HasInput                 bool
	FrameSizePixels          *int
	FramesPerSecond          int
	CodecType                encoder.CodecType
	MinPixelsPerFrame        int
	SingleActiveStreamPixels *int
}
