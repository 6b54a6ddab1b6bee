// Package ggrenderer renders contact sheets with the gg library.
package ggrenderer

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"

	"github.com/user/frameshot/pkg/ports"
)

// ErrNoTiles is returned when a sheet is requested without thumbnails.
var ErrNoTiles = errors.New("ggrenderer: no tiles to render")

const (
	defaultColumns    = 4
	defaultThumbWidth = 160
	defaultFontSize   = 13
)

// Renderer implements ports.SheetRenderer using gg.
type Renderer struct{}

// New creates a new Renderer.
func New() *Renderer {
	return &Renderer{}
}

// RenderSheet scales every tile to the thumbnail width and lays them out
// left to right, top to bottom. Labels are drawn centered under each tile.
func (r *Renderer) RenderSheet(tiles []ports.SheetTile, opts ports.SheetOptions) (image.Image, error) {
	if len(tiles) == 0 {
		return nil, ErrNoTiles
	}
	opts = withDefaults(opts)

	cols := opts.Columns
	if len(tiles) < cols {
		cols = len(tiles)
	}
	rows := (len(tiles) + cols - 1) / cols

	thumbH := 0
	labels := false
	for _, t := range tiles {
		b := t.Image.Bounds()
		if b.Dx() == 0 || b.Dy() == 0 {
			return nil, fmt.Errorf("ggrenderer: tile %q has empty bounds", t.Label)
		}
		if h := opts.ThumbWidth * b.Dy() / b.Dx(); h > thumbH {
			thumbH = h
		}
		labels = labels || t.Label != ""
	}
	if thumbH == 0 {
		thumbH = 1
	}

	band := 0
	if labels {
		band = int(opts.FontSize) + 6
	}

	cellH := thumbH + band
	width := cols*opts.ThumbWidth + (cols+1)*opts.Gap
	height := rows*cellH + (rows+1)*opts.Gap

	dc := gg.NewContext(width, height)
	dc.SetColor(opts.Background)
	dc.Clear()

	for i, t := range tiles {
		x := opts.Gap + (i%cols)*(opts.ThumbWidth+opts.Gap)
		y := opts.Gap + (i/cols)*(cellH+opts.Gap)

		b := t.Image.Bounds()
		h := opts.ThumbWidth * b.Dy() / b.Dx()
		thumb := image.NewRGBA(image.Rect(0, 0, opts.ThumbWidth, h))
		draw.BiLinear.Scale(thumb, thumb.Bounds(), t.Image, b, draw.Src, nil)
		dc.DrawImage(thumb, x, y+(thumbH-h)/2)

		if t.Label != "" {
			dc.SetColor(opts.LabelColor)
			dc.DrawStringAnchored(t.Label, float64(x+opts.ThumbWidth/2), float64(y+thumbH+band/2), 0.5, 0.5)
		}
	}

	return dc.Image(), nil
}

// EncodePNG encodes an image as PNG.
func (r *Renderer) EncodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode PNG: %w", err)
	}
	return buf.Bytes(), nil
}

func withDefaults(opts ports.SheetOptions) ports.SheetOptions {
	if opts.Columns <= 0 {
		opts.Columns = defaultColumns
	}
	if opts.ThumbWidth <= 0 {
		opts.ThumbWidth = defaultThumbWidth
	}
	if opts.Gap < 0 {
		opts.Gap = 0
	}
	if opts.FontSize <= 0 {
		opts.FontSize = defaultFontSize
	}
	if opts.Background == nil {
		opts.Background = color.Black
	}
	if opts.LabelColor == nil {
		opts.LabelColor = color.White
	}
	return opts
}

var _ ports.SheetRenderer = (*Renderer)(nil)
