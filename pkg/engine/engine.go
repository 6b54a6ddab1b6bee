// Package engine implements stateless operations over frames: grayscale
// reduction, RGB to RGBA conversion and uncompressed image export.
package engine

import (
	"errors"
	"fmt"
	"image"

	"github.com/user/frameshot/pkg/adapters/osfilesystem"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

var (
	// ErrFormatMismatch is returned when a frame has the wrong pixel format
	// for the requested operation.
	ErrFormatMismatch = errors.New("engine: pixel format mismatch")

	// ErrDimensionMismatch is returned when source and destination sizes differ.
	ErrDimensionMismatch = errors.New("engine: dimension mismatch")

	// ErrIO is returned when an export destination cannot be opened or written.
	ErrIO = errors.New("engine: i/o error")
)

// Engine applies frame operations. It holds no state besides its logger and
// is safe for concurrent use on distinct frames.
type Engine struct {
	log ports.Logger
	fs  ports.FileSystem
}

// Option configures an Engine.
type Option func(*Engine)

// WithFileSystem sets the file system used by Save. The local disk is used
// by default.
func WithFileSystem(fs ports.FileSystem) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

// New creates an Engine.
func New(log ports.Logger, opts ...Option) *Engine {
	e := &Engine{log: log.WithComponent("engine")}
	for _, opt := range opts {
		opt(e)
	}
	if e.fs == nil {
		e.fs = osfilesystem.New()
	}
	return e
}

// Luminance returns 0.299R + 0.587G + 0.114B truncated to an integer.
func Luminance(r, g, b uint8) uint8 {
	return uint8((299*uint32(r) + 587*uint32(g) + 114*uint32(b)) / 1000)
}

// ToGrayscale replaces R, G and B of every pixel with its luminance. Alpha,
// format and stride are unchanged. Gray8 frames are left as they are.
func (e *Engine) ToGrayscale(f *frame.Frame) {
	if f.Format() == frame.Gray8 {
		e.log.Warn("Frame is already grayscale, nothing to do")
		return
	}

	bpp := f.BytesPerPixel()
	if bpp < 3 {
		e.log.Warn("Cannot convert %s frame to grayscale", f.Format())
		return
	}

	for y := 0; y < f.Height(); y++ {
		row := f.Row(y)
		for x := 0; x < f.Width(); x++ {
			px := row[x*bpp : x*bpp+3]
			l := Luminance(px[0], px[1], px[2])
			px[0], px[1], px[2] = l, l, l
		}
	}
}

// Convert copies a PackedRGB frame into a PackedRGBA frame of the same size,
// setting alpha to 255.
func (e *Engine) Convert(src, dst *frame.Frame) error {
	if src.Format() != frame.PackedRGB {
		return fmt.Errorf("%w: source is %s, want %s", ErrFormatMismatch, src.Format(), frame.PackedRGB)
	}
	if dst.Format() != frame.PackedRGBA {
		return fmt.Errorf("%w: destination is %s, want %s", ErrFormatMismatch, dst.Format(), frame.PackedRGBA)
	}
	if !src.SameGeometry(dst) {
		return fmt.Errorf("%w: %dx%d to %dx%d", ErrDimensionMismatch,
			src.Width(), src.Height(), dst.Width(), dst.Height())
	}

	for y := 0; y < src.Height(); y++ {
		in := src.Row(y)
		out := dst.Row(y)
		for x := 0; x < src.Width(); x++ {
			copy(out[x*4:x*4+3], in[x*3:x*3+3])
			out[x*4+3] = 255
		}
	}
	dst.PTS = src.PTS
	return nil
}

// ToImage copies a frame into a standard library image: *image.Gray for
// Gray8 and *image.RGBA otherwise.
func ToImage(f *frame.Frame) image.Image {
	rect := image.Rect(0, 0, f.Width(), f.Height())

	switch f.Format() {
	case frame.Gray8:
		img := image.NewGray(rect)
		for y := 0; y < f.Height(); y++ {
			copy(img.Pix[y*img.Stride:], f.Row(y)[:f.Width()])
		}
		return img

	case frame.PackedRGBA:
		img := image.NewRGBA(rect)
		for y := 0; y < f.Height(); y++ {
			copy(img.Pix[y*img.Stride:], f.Row(y)[:f.Width()*4])
		}
		return img

	default:
		img := image.NewRGBA(rect)
		for y := 0; y < f.Height(); y++ {
			in := f.Row(y)
			out := img.Pix[y*img.Stride:]
			for x := 0; x < f.Width(); x++ {
				copy(out[x*4:x*4+3], in[x*3:x*3+3])
				out[x*4+3] = 255
			}
		}
		return img
	}
}
