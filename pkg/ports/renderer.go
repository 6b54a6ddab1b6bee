package ports

import (
	"image"
	"image/color"
)

// SheetTile is one thumbnail of a contact sheet.
type SheetTile struct {
	Image image.Image
	Label string
}

// SheetOptions controls contact sheet layout.
type SheetOptions struct {
	Columns    int
	ThumbWidth int
	Gap        int
	Background color.Color
	LabelColor color.Color
	FontSize   float64
}

// SheetRenderer lays out thumbnails into a single image.
type SheetRenderer interface {
	// RenderSheet draws tiles into a grid and returns the composed image.
	RenderSheet(tiles []SheetTile, opts SheetOptions) (image.Image, error)

	// EncodePNG encodes an image as PNG.
	EncodePNG(img image.Image) ([]byte, error)
}
