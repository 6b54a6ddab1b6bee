package frame

import "fmt"

// PixelFormat identifies the in-memory layout of a Frame.
type PixelFormat int

const (
	// Unknown marks an uninitialized frame. It has no pixel size and can
	// never back an allocation.
	Unknown PixelFormat = iota
	// PackedRGB stores R, G, B contiguously (3 bytes per pixel).
	PackedRGB
	// PackedRGBA stores R, G, B, A contiguously (4 bytes per pixel).
	PackedRGBA
	// Gray8 stores one luminance byte per pixel.
	Gray8
)

// BytesPerPixel returns the pixel size of the format.
func BytesPerPixel(format PixelFormat) int {
	switch format {
	case PackedRGB:
		return 3
	case PackedRGBA:
		return 4
	case Gray8:
		return 1
	default:
		return 0
	}
}

// BytesPerPixel returns the pixel size of the format.
func (f PixelFormat) BytesPerPixel() int {
	return BytesPerPixel(f)
}

// String returns the short name used in configuration files and flags.
func (f PixelFormat) String() string {
	switch f {
	case PackedRGB:
		return "rgb"
	case PackedRGBA:
		return "rgba"
	case Gray8:
		return "gray"
	default:
		return "unknown"
	}
}

// ParsePixelFormat parses a short format name.
func ParsePixelFormat(s string) (PixelFormat, error) {
	switch s {
	case "rgb", "rgb24":
		return PackedRGB, nil
	case "rgba", "rgba32":
		return PackedRGBA, nil
	case "gray", "gray8":
		return Gray8, nil
	default:
		return Unknown, fmt.Errorf("frame: unknown pixel format %q", s)
	}
}
