// Package testpattern generates synthetic frames for exercising exporters
// and conversions without a media file.
package testpattern

import (
	"fmt"
	"image/color"

	"github.com/user/frameshot/pkg/engine"
	"github.com/user/frameshot/pkg/frame"
)

// Kind names a pattern.
type Kind string

const (
	// KindGradient ramps red across x and green down y over constant blue.
	KindGradient Kind = "gradient"
	// KindSolid fills the frame with one color.
	KindSolid Kind = "solid"
	// KindBars draws vertical color bars.
	KindBars Kind = "bars"
)

// bars are the classic 75% color bars.
var bars = []color.RGBA{
	{191, 191, 191, 255},
	{191, 191, 0, 255},
	{0, 191, 191, 255},
	{0, 191, 0, 255},
	{191, 0, 191, 255},
	{191, 0, 0, 255},
	{0, 0, 191, 255},
}

// New renders the named pattern. c is only used by KindSolid.
func New(kind Kind, width, height int, format frame.PixelFormat, c color.RGBA) (*frame.Frame, error) {
	switch kind {
	case KindGradient:
		return Gradient(width, height, format)
	case KindSolid:
		return Solid(width, height, format, c)
	case KindBars:
		return Bars(width, height, format)
	}
	return nil, fmt.Errorf("testpattern: unknown pattern %q", kind)
}

// Gradient returns a frame where pixel (x, y) is
// (x*255/width, y*255/height, 128, 255).
func Gradient(width, height int, format frame.PixelFormat) (*frame.Frame, error) {
	return render(width, height, format, func(x, y int) color.RGBA {
		return color.RGBA{
			R: uint8(x * 255 / width),
			G: uint8(y * 255 / height),
			B: 128,
			A: 255,
		}
	})
}

// Solid returns a frame filled with c.
func Solid(width, height int, format frame.PixelFormat, c color.RGBA) (*frame.Frame, error) {
	return render(width, height, format, func(x, y int) color.RGBA { return c })
}

// Bars returns a frame of seven vertical color bars.
func Bars(width, height int, format frame.PixelFormat) (*frame.Frame, error) {
	return render(width, height, format, func(x, y int) color.RGBA {
		return bars[x*len(bars)/width]
	})
}

func render(width, height int, format frame.PixelFormat, at func(x, y int) color.RGBA) (*frame.Frame, error) {
	f, err := frame.New(width, height, format)
	if err != nil {
		return nil, err
	}

	bpp := f.BytesPerPixel()
	for y := 0; y < height; y++ {
		row := f.Row(y)
		for x := 0; x < width; x++ {
			c := at(x, y)
			px := row[x*bpp : (x+1)*bpp]
			switch format {
			case frame.Gray8:
				px[0] = engine.Luminance(c.R, c.G, c.B)
			case frame.PackedRGBA:
				px[0], px[1], px[2], px[3] = c.R, c.G, c.B, c.A
			default:
				px[0], px[1], px[2] = c.R, c.G, c.B
			}
		}
	}
	return f, nil
}
