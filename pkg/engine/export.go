package engine

import (
	"bufio"
	"fmt"
	"io"

	"github.com/user/frameshot/pkg/frame"
)

// ExportKind selects an uncompressed image container.
type ExportKind string

const (
	// Pixmap is binary PPM (P6), PackedRGB only.
	Pixmap ExportKind = "ppm"
	// ArbitraryMap is PAM (P7) with RGB_ALPHA tuples, PackedRGBA only.
	ArbitraryMap ExportKind = "pam"
	// Graymap is binary PGM (P5). Color frames are reduced to luminance.
	Graymap ExportKind = "pgm"
)

// ParseExportKind parses "ppm", "pam" or "pgm".
func ParseExportKind(s string) (ExportKind, error) {
	switch k := ExportKind(s); k {
	case Pixmap, ArbitraryMap, Graymap:
		return k, nil
	}
	return "", fmt.Errorf("unknown export format %q (want ppm, pam or pgm)", s)
}

// Extension returns the file extension including the dot.
func (k ExportKind) Extension() string {
	return "." + string(k)
}

// Accepts reports whether frames of the given format can be exported as k.
func (k ExportKind) Accepts(format frame.PixelFormat) bool {
	switch k {
	case Pixmap:
		return format == frame.PackedRGB
	case ArbitraryMap:
		return format == frame.PackedRGBA
	case Graymap:
		return format != frame.Unknown
	}
	return false
}

// KindFor returns the natural export kind of a pixel format.
func KindFor(format frame.PixelFormat) ExportKind {
	switch format {
	case frame.PackedRGBA:
		return ArbitraryMap
	case frame.Gray8:
		return Graymap
	default:
		return Pixmap
	}
}

func checkFormat(k ExportKind, f *frame.Frame) error {
	if !k.Accepts(f.Format()) {
		return fmt.Errorf("%w: %s cannot hold %s pixels", ErrFormatMismatch, k, f.Format())
	}
	return nil
}

// WritePixmap writes f as P6. Rows are written stride bytes at a time.
func WritePixmap(w io.Writer, f *frame.Frame) error {
	if err := checkFormat(Pixmap, f); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "P6\n%d %d\n255\n", f.Width(), f.Height()); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return writeRows(w, f)
}

// WriteArbitraryMap writes f as P7 with TUPLTYPE RGB_ALPHA.
func WriteArbitraryMap(w io.Writer, f *frame.Frame) error {
	if err := checkFormat(ArbitraryMap, f); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "P7\nWIDTH %d\nHEIGHT %d\nDEPTH %d\nMAXVAL 255\nTUPLTYPE RGB_ALPHA\nENDHDR\n",
		f.Width(), f.Height(), f.BytesPerPixel())
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return writeRows(w, f)
}

// WriteGraymap writes f as P5. Gray8 rows are copied as they are; other
// formats are reduced with Luminance without touching f.
func WriteGraymap(w io.Writer, f *frame.Frame) error {
	if err := checkFormat(Graymap, f); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "P5\n%d %d\n255\n", f.Width(), f.Height()); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if f.Format() == frame.Gray8 {
		for y := 0; y < f.Height(); y++ {
			if _, err := w.Write(f.Row(y)[:f.Width()]); err != nil {
				return fmt.Errorf("%w: %w", ErrIO, err)
			}
		}
		return nil
	}

	bpp := f.BytesPerPixel()
	line := make([]byte, f.Width())
	for y := 0; y < f.Height(); y++ {
		row := f.Row(y)
		for x := range line {
			px := row[x*bpp:]
			line[x] = Luminance(px[0], px[1], px[2])
		}
		if _, err := w.Write(line); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	return nil
}

func writeRows(w io.Writer, f *frame.Frame) error {
	for y := 0; y < f.Height(); y++ {
		if _, err := w.Write(f.Row(y)); err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
	}
	return nil
}

// Write streams f in the given container format.
func Write(w io.Writer, f *frame.Frame, kind ExportKind) error {
	switch kind {
	case Pixmap:
		return WritePixmap(w, f)
	case ArbitraryMap:
		return WriteArbitraryMap(w, f)
	case Graymap:
		return WriteGraymap(w, f)
	}
	return fmt.Errorf("%w: unknown export format %q", ErrFormatMismatch, kind)
}

// SavePixmap writes f to path as P6.
func (e *Engine) SavePixmap(f *frame.Frame, path string) error {
	return e.Save(f, path, Pixmap)
}

// SaveArbitraryMap writes f to path as P7.
func (e *Engine) SaveArbitraryMap(f *frame.Frame, path string) error {
	return e.Save(f, path, ArbitraryMap)
}

// SaveGraymap writes f to path as P5.
func (e *Engine) SaveGraymap(f *frame.Frame, path string) error {
	return e.Save(f, path, Graymap)
}

// Save writes f to path in the given format. The format is checked before
// the file is created. A failed write may leave a truncated file.
func (e *Engine) Save(f *frame.Frame, path string, kind ExportKind) error {
	if err := checkFormat(kind, f); err != nil {
		return err
	}

	file, err := e.fs.Create(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	if err := WriteTo(file, f, kind); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}

	e.log.Debug("Saved %s to %s", f, path)
	return nil
}

// WriteTo streams f through a buffered writer and flushes it.
func WriteTo(w io.Writer, f *frame.Frame, kind ExportKind) error {
	bw := bufio.NewWriter(w)
	if err := Write(bw, f, kind); err != nil {
		return err
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrIO, err)
	}
	return nil
}
