package ports

import (
	"errors"
	"time"

	"github.com/user/frameshot/pkg/frame"
)

var (
	// ErrNeedMoreInput is returned by CodecSession.Receive when the codec
	// cannot produce a frame until another packet is sent. It is a
	// continuation signal, not a failure.
	ErrNeedMoreInput = errors.New("codec: need more input")

	// ErrProbeContainer classifies Probe failures where the path cannot be
	// read or demuxed.
	ErrProbeContainer = errors.New("codec: container cannot be opened")

	// ErrProbeStreamInfo classifies Probe failures where the container opened
	// but its stream metadata could not be parsed.
	ErrProbeStreamInfo = errors.New("codec: stream information unavailable")
)

// MediaType is the kind of a container stream.
type MediaType int

const (
	MediaUnknown MediaType = iota
	MediaVideo
	MediaAudio
	MediaData
)

// String returns the media type name.
func (m MediaType) String() string {
	switch m {
	case MediaVideo:
		return "video"
	case MediaAudio:
		return "audio"
	case MediaData:
		return "data"
	default:
		return "unknown"
	}
}

// NativeFormat is a backend-defined code for the pixel layout of raw decoded
// frames. Only equality is meaningful outside the backend.
type NativeFormat int

// Rational is a numerator/denominator pair (frame rate, time base).
type Rational struct {
	Num int
	Den int
}

// Float returns the rational as a float, or 0 when the denominator is 0.
func (r Rational) Float() float64 {
	if r.Den == 0 {
		return 0
	}
	return float64(r.Num) / float64(r.Den)
}

// StreamInfo describes one stream of an opened container.
type StreamInfo struct {
	Index      int
	Type       MediaType
	CodecName  string
	Width      int
	Height     int
	FrameRate  Rational
	TimeBase   Rational
	Duration   time.Duration
	FrameCount int64
	BitRate    int64
}

// Packet is one compressed unit pulled from the container.
type Packet interface {
	// StreamIndex returns the index of the stream the packet belongs to.
	StreamIndex() int
}

// RawFrame is a decoded picture in the backend's native layout. It is only
// valid until the next Receive call on the session that produced it.
type RawFrame interface {
	Width() int
	Height() int
	Format() NativeFormat
	PTS() int64
}

// CodecBackend is the external media library: container probing and pixel
// conversion.
type CodecBackend interface {
	// Name returns a short backend identifier for logs.
	Name() string

	// Probe opens the container at path and reads its stream metadata.
	// Errors wrap ErrProbeContainer or ErrProbeStreamInfo.
	Probe(path string) (Container, error)

	// NewConverter creates a converter for the given geometry/format key.
	NewConverter(key ConverterKey) (Converter, error)
}

// Container is an opened media file.
type Container interface {
	// Streams returns metadata for every stream of the container.
	Streams() []StreamInfo

	// BestVideoStream returns the index of the video stream chosen by the
	// backend's own heuristic.
	BestVideoStream() (int, bool)

	// OpenCodec opens a decoding session for the stream.
	OpenCodec(streamIndex int) (CodecSession, error)

	// ReadPacket returns the next packet of any stream, or io.EOF once the
	// container is exhausted.
	ReadPacket() (Packet, error)

	// Close releases the container.
	Close() error
}

// CodecSession decodes packets of one stream. A packet may yield zero, one or
// more frames.
type CodecSession interface {
	// Send submits a packet. A nil packet flushes the codec so delayed
	// frames can be drained.
	Send(pkt Packet) error

	// Receive returns the next decoded frame, ErrNeedMoreInput when another
	// packet is required, or io.EOF once a flushed codec is drained.
	Receive() (RawFrame, error)

	// Close releases the session.
	Close() error
}

// ConverterKey identifies a conversion. A converter is only valid for the key
// it was created with.
type ConverterKey struct {
	SrcWidth  int
	SrcHeight int
	SrcFormat NativeFormat
	DstWidth  int
	DstHeight int
	DstFormat frame.PixelFormat
}

// Converter rescales and converts raw frames into packed frame buffers.
type Converter interface {
	// Convert writes exactly DstHeight rows of the converted picture into
	// dst, advancing stride bytes per row.
	Convert(src RawFrame, dst []byte, stride int) error

	// Close releases the converter.
	Close() error
}
