// Package decoder turns a compressed media container into a pull sequence of
// frames in a caller-chosen pixel format.
//
// A Decoder moves through Closed → Open → Reading → Closed. Open probes the
// container, selects the best video stream and opens its codec. ReadFrame
// pulls packets, feeds the codec, and converts each decoded picture straight
// into the caller's frame buffer. The converter is created lazily and
// recreated whenever source or destination geometry/format changes, so
// streams that change resolution mid-way decode correctly.
//
// A Decoder is not safe for concurrent use. Use one Decoder per goroutine.
package decoder

import (
	"errors"
	"fmt"
	"io"

	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

var (
	// ErrContainerOpen is returned when the path cannot be read or demuxed.
	ErrContainerOpen = errors.New("decoder: could not open container")

	// ErrStreamInfo is returned when stream metadata cannot be parsed.
	ErrStreamInfo = errors.New("decoder: could not find stream information")

	// ErrNoVideoStream is returned when the container has no video stream.
	ErrNoVideoStream = errors.New("decoder: no video stream")

	// ErrCodecOpen is returned when the codec for the video stream cannot be opened.
	ErrCodecOpen = errors.New("decoder: could not open video codec")

	// ErrFrameDecode is returned by ReadFrame when a packet fails to decode or
	// convert. The target frame content is invalid; reading may continue.
	ErrFrameDecode = errors.New("decoder: frame decode failed")

	// ErrNotOpen is returned when reading from a closed decoder.
	ErrNotOpen = errors.New("decoder: not open")

	// ErrAlreadyOpen is returned by Open on an open decoder.
	ErrAlreadyOpen = errors.New("decoder: already open")

	// ErrDecoderFailed is returned by Open after a previous Open failed.
	// A failed decoder must be discarded.
	ErrDecoderFailed = errors.New("decoder: unusable after failed open")
)

type state int

const (
	stateClosed state = iota
	stateOpen
	stateReading
)

// Stats counts decoder activity since the last Open.
type Stats struct {
	PacketsRead       int
	PacketsSkipped    int
	FramesDecoded     int
	ConvertersCreated int
	DecodeErrors      int
}

// Decoder adapts a codec backend to a pull sequence of frames.
type Decoder struct {
	backend ports.CodecBackend
	log     ports.Logger

	state  state
	failed bool

	container   ports.Container
	session     ports.CodecSession
	streamIndex int
	stream      ports.StreamInfo

	converter ports.Converter
	convKey   ports.ConverterKey

	// pending is set while the codec may still hold decoded frames.
	pending bool
	// flushed is set once demuxing hit end of stream and the codec was flushed.
	flushed bool
	// eof is sticky: once ReadFrame returned false it always does.
	eof bool

	stats Stats
}

// New creates a closed decoder over the given backend.
func New(backend ports.CodecBackend, log ports.Logger) *Decoder {
	return &Decoder{
		backend:     backend,
		log:         log.WithComponent("decoder"),
		streamIndex: -1,
	}
}

// Open opens the media file at path and prepares its best video stream for
// decoding. On failure all partially acquired resources are released and the
// decoder becomes unusable.
func (d *Decoder) Open(path string) error {
	if d.failed {
		return ErrDecoderFailed
	}
	if d.state != stateClosed {
		return ErrAlreadyOpen
	}

	container, err := d.backend.Probe(path)
	if err != nil {
		d.failed = true
		if errors.Is(err, ports.ErrProbeStreamInfo) {
			return fmt.Errorf("%w: %s: %w", ErrStreamInfo, path, err)
		}
		return fmt.Errorf("%w: %s: %w", ErrContainerOpen, path, err)
	}

	index, ok := container.BestVideoStream()
	if !ok {
		d.failed = true
		container.Close()
		return fmt.Errorf("%w: %s", ErrNoVideoStream, path)
	}

	session, err := container.OpenCodec(index)
	if err != nil {
		d.failed = true
		container.Close()
		return fmt.Errorf("%w: stream %d: %w", ErrCodecOpen, index, err)
	}

	d.container = container
	d.session = session
	d.streamIndex = index
	d.stream = findStream(container.Streams(), index)
	d.pending = false
	d.flushed = false
	d.eof = false
	d.stats = Stats{}
	d.state = stateOpen

	d.log.Debug("Opened %s: stream %d (%s) %dx%d via %s",
		path, index, d.stream.CodecName, d.stream.Width, d.stream.Height, d.backend.Name())

	return nil
}

func findStream(streams []ports.StreamInfo, index int) ports.StreamInfo {
	for _, s := range streams {
		if s.Index == index {
			return s
		}
	}
	return ports.StreamInfo{Index: index, Type: ports.MediaVideo}
}

// ReadFrame decodes the next frame of the selected video stream into target.
//
// It returns true when target holds a new frame and false once the stream is
// exhausted. After returning false it never returns true again. A decode or
// conversion failure is returned as an error wrapping ErrFrameDecode; the
// caller may keep reading to continue with the next packet.
//
// target keeps its geometry. It should be sized to Width()×Height(); other
// sizes are rescaled by the backend converter.
func (d *Decoder) ReadFrame(target *frame.Frame) (bool, error) {
	if d.state == stateClosed {
		return false, ErrNotOpen
	}
	if target == nil || target.Format() == frame.Unknown || target.Empty() {
		return false, fmt.Errorf("%w: target frame cannot receive pixels", frame.ErrInvalidGeometry)
	}
	if d.eof {
		return false, nil
	}
	d.state = stateReading

	for {
		if d.pending {
			raw, err := d.session.Receive()
			switch {
			case err == nil:
				if err := d.convert(raw, target); err != nil {
					d.stats.DecodeErrors++
					return false, fmt.Errorf("%w: %w", ErrFrameDecode, err)
				}
				return true, nil

			case errors.Is(err, ports.ErrNeedMoreInput):
				d.pending = false

			case errors.Is(err, io.EOF):
				d.pending = false
				d.eof = true

			default:
				d.pending = false
				d.stats.DecodeErrors++
				return false, fmt.Errorf("%w: receive: %w", ErrFrameDecode, err)
			}
			continue
		}

		if d.eof || d.flushed {
			d.eof = true
			d.log.Debug("End of stream after %d frames", d.stats.FramesDecoded)
			return false, nil
		}

		pkt, err := d.container.ReadPacket()
		if errors.Is(err, io.EOF) {
			d.flushed = true
			d.pending = true
			if err := d.session.Send(nil); err != nil && !errors.Is(err, io.EOF) {
				d.stats.DecodeErrors++
				return false, fmt.Errorf("%w: flush: %w", ErrFrameDecode, err)
			}
			continue
		}
		if err != nil {
			d.stats.DecodeErrors++
			return false, fmt.Errorf("%w: read packet: %w", ErrFrameDecode, err)
		}

		d.stats.PacketsRead++
		if pkt.StreamIndex() != d.streamIndex {
			d.stats.PacketsSkipped++
			continue
		}

		// Frames may be pending even when Send fails.
		d.pending = true
		if err := d.session.Send(pkt); err != nil {
			d.stats.DecodeErrors++
			return false, fmt.Errorf("%w: send packet: %w", ErrFrameDecode, err)
		}
	}
}

// convert writes raw into target, (re)creating the converter when the
// conversion key changed.
func (d *Decoder) convert(raw ports.RawFrame, target *frame.Frame) error {
	key := ports.ConverterKey{
		SrcWidth:  raw.Width(),
		SrcHeight: raw.Height(),
		SrcFormat: raw.Format(),
		DstWidth:  target.Width(),
		DstHeight: target.Height(),
		DstFormat: target.Format(),
	}

	if d.converter == nil || key != d.convKey {
		if d.converter != nil {
			d.log.Debug("Conversion changed from %dx%d/%d to %dx%d/%d, recreating converter",
				d.convKey.SrcWidth, d.convKey.SrcHeight, d.convKey.SrcFormat,
				key.SrcWidth, key.SrcHeight, key.SrcFormat)
			d.converter.Close()
			d.converter = nil
		}

		conv, err := d.backend.NewConverter(key)
		if err != nil {
			return fmt.Errorf("create converter: %w", err)
		}
		d.converter = conv
		d.convKey = key
		d.stats.ConvertersCreated++
	}

	if err := d.converter.Convert(raw, target.Data(), target.Stride()); err != nil {
		return fmt.Errorf("convert: %w", err)
	}

	target.PTS = raw.PTS()
	d.stats.FramesDecoded++
	return nil
}

// Close releases all backend resources. It is safe to call more than once.
func (d *Decoder) Close() error {
	var errs []error

	if d.converter != nil {
		errs = append(errs, d.converter.Close())
		d.converter = nil
	}
	if d.session != nil {
		errs = append(errs, d.session.Close())
		d.session = nil
	}
	if d.container != nil {
		errs = append(errs, d.container.Close())
		d.container = nil
	}

	d.convKey = ports.ConverterKey{}
	d.streamIndex = -1
	d.stream = ports.StreamInfo{}
	d.pending = false
	d.flushed = false
	d.eof = false
	d.state = stateClosed

	return errors.Join(errs...)
}

// IsOpen reports whether the decoder holds an open stream.
func (d *Decoder) IsOpen() bool {
	return d.state != stateClosed
}

// Width returns the native width of the selected stream, or 0 when closed.
func (d *Decoder) Width() int {
	if d.state == stateClosed {
		return 0
	}
	return d.stream.Width
}

// Height returns the native height of the selected stream, or 0 when closed.
func (d *Decoder) Height() int {
	if d.state == stateClosed {
		return 0
	}
	return d.stream.Height
}

// StreamInfo returns metadata of the selected stream.
func (d *Decoder) StreamInfo() ports.StreamInfo {
	return d.stream
}

// Streams returns metadata of every stream in the open container.
func (d *Decoder) Streams() []ports.StreamInfo {
	if d.container == nil {
		return nil
	}
	return d.container.Streams()
}

// NewFrame allocates a target frame sized to the stream's native dimensions.
func (d *Decoder) NewFrame(format frame.PixelFormat) (*frame.Frame, error) {
	if d.state == stateClosed {
		return nil, ErrNotOpen
	}
	return frame.New(d.Width(), d.Height(), format)
}

// Stats returns activity counters since the last Open.
func (d *Decoder) Stats() Stats {
	return d.stats
}
