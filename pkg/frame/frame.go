// Package frame provides the stride-aware pixel buffer shared by the decoder,
// the conversion engine and the exporters.
package frame

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidGeometry is returned when a frame cannot be allocated for the
// requested dimensions or format.
var ErrInvalidGeometry = errors.New("frame: invalid geometry")

// Frame is an owned rectangular pixel buffer.
//
// Geometry (width, height, format, stride) is fixed at construction. Row y
// occupies Data()[y*Stride() : (y+1)*Stride()].
type Frame struct {
	width  int
	height int
	format PixelFormat
	stride int
	data   []byte

	// PTS is the presentation timestamp of the pixels currently held,
	// in stream time base units. Opaque to this package.
	PTS int64
}

// New allocates a zero-filled frame.
func New(width, height int, format PixelFormat) (*Frame, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("%w: negative size %dx%d", ErrInvalidGeometry, width, height)
	}

	bpp := BytesPerPixel(format)
	if bpp == 0 {
		return nil, fmt.Errorf("%w: pixel format %s has no size", ErrInvalidGeometry, format)
	}

	if width > math.MaxInt/bpp {
		return nil, fmt.Errorf("%w: width %d overflows row size", ErrInvalidGeometry, width)
	}
	stride := width * bpp

	if stride > 0 && height > math.MaxInt/stride {
		return nil, fmt.Errorf("%w: %dx%d overflows buffer size", ErrInvalidGeometry, width, height)
	}

	return &Frame{
		width:  width,
		height: height,
		format: format,
		stride: stride,
		data:   make([]byte, stride*height),
	}, nil
}

// MustNew is like New but panics on invalid geometry. Intended for tests and
// fixed-size scratch frames.
func MustNew(width, height int, format PixelFormat) *Frame {
	f, err := New(width, height, format)
	if err != nil {
		panic(err)
	}
	return f
}

// Width returns the frame width in pixels.
func (f *Frame) Width() int { return f.width }

// Height returns the frame height in pixels.
func (f *Frame) Height() int { return f.height }

// Format returns the pixel format.
func (f *Frame) Format() PixelFormat { return f.format }

// Stride returns the number of bytes per row.
func (f *Frame) Stride() int { return f.stride }

// BytesPerPixel returns the pixel size of the frame's format.
func (f *Frame) BytesPerPixel() int { return BytesPerPixel(f.format) }

// Data returns the backing storage. Its length is Stride()*Height().
func (f *Frame) Data() []byte { return f.data }

// Row returns row y as a mutable slice of Stride() bytes.
// y outside [0, Height()) panics.
func (f *Frame) Row(y int) []byte {
	if y < 0 || y >= f.height {
		panic(fmt.Sprintf("frame: row %d out of range [0, %d)", y, f.height))
	}
	off := y * f.stride
	return f.data[off : off+f.stride : off+f.stride]
}

// SameGeometry reports whether both frames have the same width and height.
func (f *Frame) SameGeometry(other *Frame) bool {
	return f.width == other.width && f.height == other.height
}

// Empty reports whether the frame holds no pixels.
func (f *Frame) Empty() bool {
	return f.width == 0 || f.height == 0
}

// Clone returns a deep copy with identical geometry and timestamp.
func (f *Frame) Clone() *Frame {
	data := make([]byte, len(f.data))
	copy(data, f.data)
	return &Frame{
		width:  f.width,
		height: f.height,
		format: f.format,
		stride: f.stride,
		data:   data,
		PTS:    f.PTS,
	}
}

// String returns a short description such as "640x480 rgb".
func (f *Frame) String() string {
	return fmt.Sprintf("%dx%d %s", f.width, f.height, f.format)
}
