package mocks

import (
	"image"

	"github.com/user/frameshot/pkg/ports"
)

// SheetRenderer is a mock implementation of ports.SheetRenderer.
type SheetRenderer struct {
	RenderSheetFunc func(tiles []ports.SheetTile, opts ports.SheetOptions) (image.Image, error)
	EncodePNGFunc   func(img image.Image) ([]byte, error)

	// Recorded calls for verification
	Tiles   []ports.SheetTile
	Options ports.SheetOptions
	Encoded int
}

func (m *SheetRenderer) RenderSheet(tiles []ports.SheetTile, opts ports.SheetOptions) (image.Image, error) {
	m.Tiles = tiles
	m.Options = opts
	if m.RenderSheetFunc != nil {
		return m.RenderSheetFunc(tiles, opts)
	}
	return image.NewRGBA(image.Rect(0, 0, 100, 100)), nil
}

func (m *SheetRenderer) EncodePNG(img image.Image) ([]byte, error) {
	m.Encoded++
	if m.EncodePNGFunc != nil {
		return m.EncodePNGFunc(img)
	}
	return []byte("png"), nil
}

var _ ports.SheetRenderer = (*SheetRenderer)(nil)
