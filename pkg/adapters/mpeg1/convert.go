package mpeg1

import (
	"fmt"
	"image"

	"golang.org/x/image/draw"

	"github.com/user/frameshot/pkg/engine"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

// converter renders YCbCr pictures into packed buffers. RGBA targets are
// drawn into directly; RGB and gray targets go through an RGBA scratch image.
type converter struct {
	key     ports.ConverterKey
	scratch *image.RGBA
}

func newConverter(key ports.ConverterKey) (*converter, error) {
	if key.DstWidth <= 0 || key.DstHeight <= 0 {
		return nil, fmt.Errorf("mpeg1: empty destination %dx%d", key.DstWidth, key.DstHeight)
	}
	c := &converter{key: key}
	switch key.DstFormat {
	case frame.PackedRGBA:
	case frame.PackedRGB, frame.Gray8:
		c.scratch = image.NewRGBA(image.Rect(0, 0, key.DstWidth, key.DstHeight))
	default:
		return nil, fmt.Errorf("mpeg1: unsupported destination format %s", key.DstFormat)
	}
	return c, nil
}

func (c *converter) Convert(src ports.RawFrame, dst []byte, stride int) error {
	raw, ok := src.(*rawFrame)
	if !ok {
		return fmt.Errorf("mpeg1: foreign frame %T", src)
	}
	if raw.Width() != c.key.SrcWidth || raw.Height() != c.key.SrcHeight {
		return fmt.Errorf("mpeg1: frame is %dx%d, converter expects %dx%d",
			raw.Width(), raw.Height(), c.key.SrcWidth, c.key.SrcHeight)
	}

	w, h := c.key.DstWidth, c.key.DstHeight
	bpp := frame.BytesPerPixel(c.key.DstFormat)
	if stride < w*bpp || len(dst) < stride*(h-1)+w*bpp {
		return fmt.Errorf("mpeg1: destination buffer too small for %dx%d %s", w, h, c.key.DstFormat)
	}

	target := c.scratch
	if target == nil {
		target = &image.RGBA{Pix: dst, Stride: stride, Rect: image.Rect(0, 0, w, h)}
	}
	c.render(target, raw.img)

	switch c.key.DstFormat {
	case frame.PackedRGB:
		for y := 0; y < h; y++ {
			in := c.scratch.Pix[y*c.scratch.Stride:]
			out := dst[y*stride:]
			for x := 0; x < w; x++ {
				copy(out[x*3:x*3+3], in[x*4:x*4+3])
			}
		}
	case frame.Gray8:
		for y := 0; y < h; y++ {
			in := c.scratch.Pix[y*c.scratch.Stride:]
			out := dst[y*stride:]
			for x := 0; x < w; x++ {
				out[x] = engine.Luminance(in[x*4], in[x*4+1], in[x*4+2])
			}
		}
	}
	return nil
}

func (c *converter) render(target *image.RGBA, img *image.YCbCr) {
	if img.Rect.Dx() == target.Rect.Dx() && img.Rect.Dy() == target.Rect.Dy() {
		draw.Draw(target, target.Rect, img, img.Rect.Min, draw.Src)
		return
	}
	draw.BiLinear.Scale(target, target.Rect, img, img.Rect, draw.Src, nil)
}

func (c *converter) Close() error {
	c.scratch = nil
	return nil
}

var _ ports.Converter = (*converter)(nil)
