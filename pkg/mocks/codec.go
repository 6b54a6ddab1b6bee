package mocks

import (
	"fmt"
	"io"
	"time"

	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

// NativeYUV420 is the native format code reported by mock raw frames.
const NativeYUV420 ports.NativeFormat = 0

// RawFrame is a mock decoded picture filled with a single color.
type RawFrame struct {
	W, H  int
	Fmt   ports.NativeFormat
	Pts   int64
	Color [3]uint8
}

func (f *RawFrame) Width() int                 { return f.W }
func (f *RawFrame) Height() int                { return f.H }
func (f *RawFrame) Format() ports.NativeFormat { return f.Fmt }
func (f *RawFrame) PTS() int64                 { return f.Pts }

// Packet is a mock compressed unit. Sending it to a session queues Frames;
// SendErr makes Send fail, ReceiveErr makes the next Receive fail.
type Packet struct {
	Stream     int
	Frames     []*RawFrame
	SendErr    error
	ReceiveErr error
}

func (p *Packet) StreamIndex() int { return p.Stream }

// CodecBackend is a scripted implementation of ports.CodecBackend.
type CodecBackend struct {
	StreamList []ports.StreamInfo
	Best       int
	NoVideo    bool
	Packets    []*Packet
	// Delayed frames are only released when the codec is flushed.
	Delayed []*RawFrame

	ProbeFunc        func(path string) (ports.Container, error)
	OpenCodecErr     error
	ReadErrAt        map[int]error
	NewConverterFunc func(key ports.ConverterKey) (ports.Converter, error)

	// Recorded calls for verification
	ProbeCalls    []string
	Containers    []*Container
	Converters    []*Converter
	ConverterKeys []ports.ConverterKey
}

func (m *CodecBackend) Name() string { return "mock" }

func (m *CodecBackend) Probe(path string) (ports.Container, error) {
	m.ProbeCalls = append(m.ProbeCalls, path)
	if m.ProbeFunc != nil {
		return m.ProbeFunc(path)
	}
	c := &Container{backend: m}
	m.Containers = append(m.Containers, c)
	return c, nil
}

func (m *CodecBackend) NewConverter(key ports.ConverterKey) (ports.Converter, error) {
	m.ConverterKeys = append(m.ConverterKeys, key)
	if m.NewConverterFunc != nil {
		return m.NewConverterFunc(key)
	}
	c := &Converter{Key: key}
	m.Converters = append(m.Converters, c)
	return c, nil
}

// Container is the mock container returned by CodecBackend.Probe.
type Container struct {
	backend *CodecBackend
	cursor  int
	Session *Session
	Closed  int
}

func (c *Container) Streams() []ports.StreamInfo {
	return c.backend.StreamList
}

func (c *Container) BestVideoStream() (int, bool) {
	if c.backend.NoVideo {
		return -1, false
	}
	return c.backend.Best, true
}

func (c *Container) OpenCodec(streamIndex int) (ports.CodecSession, error) {
	if c.backend.OpenCodecErr != nil {
		return nil, c.backend.OpenCodecErr
	}
	c.Session = &Session{delayed: c.backend.Delayed}
	return c.Session, nil
}

func (c *Container) ReadPacket() (ports.Packet, error) {
	if err, ok := c.backend.ReadErrAt[c.cursor]; ok {
		delete(c.backend.ReadErrAt, c.cursor)
		return nil, err
	}
	if c.cursor >= len(c.backend.Packets) {
		return nil, io.EOF
	}
	p := c.backend.Packets[c.cursor]
	c.cursor++
	return p, nil
}

func (c *Container) Close() error {
	c.Closed++
	return nil
}

// Session is the mock codec session.
type Session struct {
	queue      []*RawFrame
	delayed    []*RawFrame
	receiveErr error
	flushed    bool

	Sent   int
	Closed int
}

func (s *Session) Send(pkt ports.Packet) error {
	if pkt == nil {
		s.flushed = true
		s.queue = append(s.queue, s.delayed...)
		s.delayed = nil
		return nil
	}
	if s.flushed {
		return fmt.Errorf("mock: send after flush")
	}
	p := pkt.(*Packet)
	s.Sent++
	if p.SendErr != nil {
		return p.SendErr
	}
	s.queue = append(s.queue, p.Frames...)
	s.receiveErr = p.ReceiveErr
	return nil
}

func (s *Session) Receive() (ports.RawFrame, error) {
	if s.receiveErr != nil {
		err := s.receiveErr
		s.receiveErr = nil
		return nil, err
	}
	if len(s.queue) > 0 {
		f := s.queue[0]
		s.queue = s.queue[1:]
		return f, nil
	}
	if s.flushed {
		return nil, io.EOF
	}
	return nil, ports.ErrNeedMoreInput
}

func (s *Session) Close() error {
	s.Closed++
	return nil
}

// Converter fills the destination with the raw frame's color.
type Converter struct {
	Key    ports.ConverterKey
	Calls  int
	Closed int
	Err    error
}

func (c *Converter) Convert(src ports.RawFrame, dst []byte, stride int) error {
	c.Calls++
	if c.Err != nil {
		return c.Err
	}
	raw, ok := src.(*RawFrame)
	if !ok {
		return fmt.Errorf("mock: unexpected raw frame %T", src)
	}
	bpp := frame.BytesPerPixel(c.Key.DstFormat)
	if len(dst) < stride*c.Key.DstHeight || stride < c.Key.DstWidth*bpp {
		return fmt.Errorf("mock: destination too small")
	}

	px := make([]byte, bpp)
	switch c.Key.DstFormat {
	case frame.PackedRGB:
		copy(px, raw.Color[:])
	case frame.PackedRGBA:
		copy(px, raw.Color[:])
		px[3] = 255
	case frame.Gray8:
		px[0] = uint8((299*int(raw.Color[0]) + 587*int(raw.Color[1]) + 114*int(raw.Color[2])) / 1000)
	}

	for y := 0; y < c.Key.DstHeight; y++ {
		row := dst[y*stride : y*stride+c.Key.DstWidth*bpp]
		for x := 0; x < len(row); x += bpp {
			copy(row[x:x+bpp], px)
		}
	}
	return nil
}

func (c *Converter) Close() error {
	c.Closed++
	return nil
}

// SolidStream builds a backend with one video stream (index 0) of n solid
// frames and an audio packet (stream 1) after every video packet.
func SolidStream(width, height, n int, fps int, color [3]uint8) *CodecBackend {
	b := &CodecBackend{
		StreamList: []ports.StreamInfo{
			{
				Index:      0,
				Type:       ports.MediaVideo,
				CodecName:  "mock",
				Width:      width,
				Height:     height,
				FrameRate:  ports.Rational{Num: fps, Den: 1},
				TimeBase:   ports.Rational{Num: 1, Den: fps},
				Duration:   time.Duration(n) * time.Second / time.Duration(fps),
				FrameCount: int64(n),
			},
			{Index: 1, Type: ports.MediaAudio, CodecName: "mock-audio"},
		},
		Best: 0,
	}
	for i := 0; i < n; i++ {
		b.Packets = append(b.Packets,
			&Packet{Stream: 0, Frames: []*RawFrame{{W: width, H: height, Fmt: NativeYUV420, Pts: int64(i), Color: color}}},
			&Packet{Stream: 1},
		)
	}
	return b
}

var (
	_ ports.CodecBackend = (*CodecBackend)(nil)
	_ ports.Container    = (*Container)(nil)
	_ ports.CodecSession = (*Session)(nil)
	_ ports.Converter    = (*Converter)(nil)
)
