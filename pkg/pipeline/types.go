package pipeline

import (
	"image/color"

	"github.com/user/frameshot/pkg/decoder"
	"github.com/user/frameshot/pkg/engine"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

// =============================================================================
// Extract Stage Types
// =============================================================================

// ExtractOptions controls which frames are kept and what is written.
type ExtractOptions struct {
	Format    frame.PixelFormat // Target pixel format (default: PackedRGB)
	Export    engine.ExportKind // Sink container, recorded in the manifest ("" = per frame)
	Every     int               // Keep every Nth decoded frame (default: 1)
	MaxFrames int               // Stop after this many kept frames (0 = all)
	Grayscale bool              // Reduce kept frames to luminance in place
	Manifest  bool              // Write manifest.yaml and manifest.md
	Sheet     SheetOptions
}

// SheetOptions controls the contact sheet.
type SheetOptions struct {
	Enabled    bool
	Columns    int    // Thumbnails per row (default: 4)
	ThumbWidth int    // Thumbnail width in pixels (default: 160)
	Path       string // Sheet file name, relative to the sink
	Background color.Color
}

// DefaultExtractOptions returns ExtractOptions with default values.
func DefaultExtractOptions() ExtractOptions {
	return ExtractOptions{
		Format: frame.PackedRGB,
		Every:  1,
		Sheet: SheetOptions{
			Columns:    4,
			ThumbWidth: 160,
			Path:       "contact-sheet.png",
		},
	}
}

// ExtractInput names the file to decode.
type ExtractInput struct {
	Path    string
	Options ExtractOptions
}

// ExtractResult summarizes an extraction run.
type ExtractResult struct {
	Stream       ports.StreamInfo
	Backend      string
	Decoded      int      // Frames produced by the decoder
	Saved        int      // Frames handed to the sink
	Files        []string // Paths returned by the sink, in order
	SheetPath    string
	ManifestPath string
	Stats        decoder.Stats
}
