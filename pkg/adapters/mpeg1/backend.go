// Package mpeg1 is a pure Go codec backend for MPEG-1 program streams built
// on github.com/gen2brain/mpeg.
//
// The library demuxes and decodes in one call, so ReadPacket already yields
// the decoded picture and the session only hands it over. The picture stays
// valid until the next ReadPacket, which the decoder only issues after the
// session reported that it needs more input.
package mpeg1

import (
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"

	"github.com/gen2brain/mpeg"

	"github.com/user/frameshot/pkg/ports"
)

// Name is the backend identifier.
const Name = "mpeg1"

// YCbCr420 is the only native format this backend produces.
const YCbCr420 ports.NativeFormat = 1

// clockRate is the MPEG system clock used as stream time base.
const clockRate = 90000

var errClosed = errors.New("mpeg1: container closed")

// Backend implements ports.CodecBackend.
type Backend struct{}

// New creates the backend.
func New() *Backend {
	return &Backend{}
}

func (b *Backend) Name() string { return Name }

// Probe opens path and reads the sequence header.
func (b *Backend) Probe(path string) (ports.Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ports.ErrProbeContainer, err)
	}

	mpg, err := mpeg.New(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %w", ports.ErrProbeContainer, err)
	}
	if mpg.Width() <= 0 || mpg.Height() <= 0 {
		f.Close()
		return nil, fmt.Errorf("%w: no video sequence header", ports.ErrProbeStreamInfo)
	}
	mpg.SetAudioEnabled(false)

	return &container{file: f, mpg: mpg}, nil
}

// NewConverter creates a converter from YCbCr 4:2:0 pictures.
func (b *Backend) NewConverter(key ports.ConverterKey) (ports.Converter, error) {
	if key.SrcFormat != YCbCr420 {
		return nil, fmt.Errorf("mpeg1: unsupported source format %d", key.SrcFormat)
	}
	return newConverter(key)
}

type container struct {
	file   *os.File
	mpg    *mpeg.MPEG
	closed bool
}

func (c *container) Streams() []ports.StreamInfo {
	fps := c.mpg.Framerate()
	return []ports.StreamInfo{{
		Index:     0,
		Type:      ports.MediaVideo,
		CodecName: "mpeg1video",
		Width:     c.mpg.Width(),
		Height:    c.mpg.Height(),
		FrameRate: ports.Rational{Num: int(math.Round(fps * 1000)), Den: 1000},
		TimeBase:  ports.Rational{Num: 1, Den: clockRate},
	}}
}

func (c *container) BestVideoStream() (int, bool) {
	return 0, true
}

func (c *container) OpenCodec(streamIndex int) (ports.CodecSession, error) {
	if streamIndex != 0 {
		return nil, fmt.Errorf("mpeg1: no stream %d", streamIndex)
	}
	return &session{}, nil
}

func (c *container) ReadPacket() (ports.Packet, error) {
	if c.closed {
		return nil, errClosed
	}
	pic := c.mpg.DecodeVideo()
	if pic == nil {
		if c.mpg.HasEnded() {
			return nil, io.EOF
		}
		return &packet{}, nil
	}
	return &packet{frame: &rawFrame{
		img: pic.YCbCr(),
		pts: int64(math.Round(pic.Time * clockRate)),
	}}, nil
}

func (c *container) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	return c.file.Close()
}

type packet struct {
	frame *rawFrame
}

func (p *packet) StreamIndex() int { return 0 }

type session struct {
	pending *rawFrame
	flushed bool
}

func (s *session) Send(pkt ports.Packet) error {
	if pkt == nil {
		s.flushed = true
		return nil
	}
	p, ok := pkt.(*packet)
	if !ok {
		return fmt.Errorf("mpeg1: foreign packet %T", pkt)
	}
	s.pending = p.frame
	return nil
}

func (s *session) Receive() (ports.RawFrame, error) {
	if s.pending != nil {
		f := s.pending
		s.pending = nil
		return f, nil
	}
	if s.flushed {
		return nil, io.EOF
	}
	return nil, ports.ErrNeedMoreInput
}

func (s *session) Close() error {
	s.pending = nil
	return nil
}

type rawFrame struct {
	img *image.YCbCr
	pts int64
}

func (f *rawFrame) Width() int                 { return f.img.Rect.Dx() }
func (f *rawFrame) Height() int                { return f.img.Rect.Dy() }
func (f *rawFrame) Format() ports.NativeFormat { return YCbCr420 }
func (f *rawFrame) PTS() int64                 { return f.pts }

var (
	_ ports.CodecBackend = (*Backend)(nil)
	_ ports.Container    = (*container)(nil)
	_ ports.CodecSession = (*session)(nil)
)
