package ggrenderer

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/user/frameshot/pkg/ports"
)

func solid(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestRenderer_RenderSheet_Layout(t *testing.T) {
	r := New()
	tiles := make([]ports.SheetTile, 5)
	for i := range tiles {
		tiles[i] = ports.SheetTile{Image: solid(64, 32, color.RGBA{255, 0, 0, 255})}
	}

	img, err := r.RenderSheet(tiles, ports.SheetOptions{Columns: 3, ThumbWidth: 40, Gap: 2})
	if err != nil {
		t.Fatalf("RenderSheet failed: %v", err)
	}

	// 3 columns x 2 rows of 40x20 thumbs, no labels.
	b := img.Bounds()
	if b.Dx() != 3*40+4*2 || b.Dy() != 2*20+3*2 {
		t.Errorf("expected 128x46, got %dx%d", b.Dx(), b.Dy())
	}

	r0, g0, b0, _ := img.At(2+20, 2+10).RGBA()
	if r0>>8 != 255 || g0 != 0 || b0 != 0 {
		t.Errorf("expected red inside first thumbnail, got %d %d %d", r0>>8, g0>>8, b0>>8)
	}
	r1, g1, b1, _ := img.At(0, 0).RGBA()
	if r1 != 0 || g1 != 0 || b1 != 0 {
		t.Error("expected black background in gap")
	}
}

func TestRenderer_RenderSheet_LabelsAddBand(t *testing.T) {
	r := New()
	tiles := []ports.SheetTile{
		{Image: solid(10, 10, color.White), Label: "0.000s"},
		{Image: solid(10, 10, color.White), Label: "1.000s"},
	}

	img, err := r.RenderSheet(tiles, ports.SheetOptions{Columns: 4, ThumbWidth: 50, Gap: 0, FontSize: 10})
	if err != nil {
		t.Fatalf("RenderSheet failed: %v", err)
	}

	// Columns shrink to the tile count; label band is FontSize+6.
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50+16 {
		t.Errorf("expected 100x66, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestRenderer_RenderSheet_Errors(t *testing.T) {
	r := New()

	if _, err := r.RenderSheet(nil, ports.SheetOptions{}); !errors.Is(err, ErrNoTiles) {
		t.Errorf("expected ErrNoTiles, got %v", err)
	}

	empty := []ports.SheetTile{{Image: image.NewRGBA(image.Rect(0, 0, 0, 0))}}
	if _, err := r.RenderSheet(empty, ports.SheetOptions{}); err == nil {
		t.Error("expected error for empty tile")
	}
}

func TestRenderer_EncodePNG(t *testing.T) {
	r := New()

	data, err := r.EncodePNG(solid(30, 20, color.White))
	if err != nil {
		t.Fatalf("EncodePNG failed: %v", err)
	}

	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if b := decoded.Bounds(); b.Dx() != 30 || b.Dy() != 20 {
		t.Errorf("expected 30x20, got %dx%d", b.Dx(), b.Dy())
	}
}
