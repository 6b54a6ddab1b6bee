package frame

import (
	"errors"
	"math"
	"testing"
)

func TestNew_Geometry(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		format PixelFormat
		stride int
	}{
		{"rgb", 7, 5, PackedRGB, 21},
		{"rgba", 7, 5, PackedRGBA, 28},
		{"gray", 7, 5, Gray8, 7},
		{"zero width", 0, 5, PackedRGB, 0},
		{"zero height", 4, 0, PackedRGBA, 16},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f, err := New(tt.width, tt.height, tt.format)
			if err != nil {
				t.Fatalf("New failed: %v", err)
			}
			if f.Stride() != tt.stride {
				t.Errorf("expected stride %d, got %d", tt.stride, f.Stride())
			}
			if f.Stride() != tt.width*BytesPerPixel(tt.format) {
				t.Errorf("stride %d != width*bpp", f.Stride())
			}
			if len(f.Data()) != f.Stride()*f.Height() {
				t.Errorf("expected %d bytes, got %d", f.Stride()*f.Height(), len(f.Data()))
			}
			for i, b := range f.Data() {
				if b != 0 {
					t.Fatalf("byte %d not zero-initialized: %d", i, b)
				}
			}
		})
	}
}

func TestNew_InvalidGeometry(t *testing.T) {
	tests := []struct {
		name   string
		width  int
		height int
		format PixelFormat
	}{
		{"negative width", -1, 4, PackedRGB},
		{"negative height", 4, -1, PackedRGB},
		{"unknown format", 4, 4, Unknown},
		{"row overflow", math.MaxInt/2 + 1, 1, PackedRGBA},
		{"buffer overflow", math.MaxInt / 8, 64, PackedRGB},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.width, tt.height, tt.format)
			if !errors.Is(err, ErrInvalidGeometry) {
				t.Errorf("expected ErrInvalidGeometry, got %v", err)
			}
		})
	}
}

func TestBytesPerPixel(t *testing.T) {
	cases := map[PixelFormat]int{
		PackedRGB:  3,
		PackedRGBA: 4,
		Gray8:      1,
		Unknown:    0,
	}
	for format, want := range cases {
		if got := BytesPerPixel(format); got != want {
			t.Errorf("BytesPerPixel(%s) = %d, want %d", format, got, want)
		}
		if got := format.BytesPerPixel(); got != want {
			t.Errorf("%s.BytesPerPixel() = %d, want %d", format, got, want)
		}
	}
}

func TestRow(t *testing.T) {
	f := MustNew(3, 2, PackedRGB)
	row := f.Row(1)
	if len(row) != f.Stride() {
		t.Fatalf("expected row length %d, got %d", f.Stride(), len(row))
	}

	row[0] = 42
	if f.Data()[f.Stride()] != 42 {
		t.Error("row write did not reach backing storage")
	}

	// Capacity is clipped so appends cannot spill into the next row.
	if cap(row) != f.Stride() {
		t.Errorf("expected row capacity %d, got %d", f.Stride(), cap(row))
	}
}

func TestRow_OutOfRangePanics(t *testing.T) {
	f := MustNew(2, 2, Gray8)

	for _, y := range []int{-1, 2, 100} {
		func() {
			defer func() {
				if recover() == nil {
					t.Errorf("expected panic for row %d", y)
				}
			}()
			f.Row(y)
		}()
	}
}

func TestClone(t *testing.T) {
	f := MustNew(2, 2, PackedRGBA)
	f.Data()[5] = 9
	f.PTS = 1234

	c := f.Clone()
	if !c.SameGeometry(f) || c.Format() != f.Format() || c.Stride() != f.Stride() {
		t.Fatalf("clone geometry mismatch: %s vs %s", c, f)
	}
	if c.PTS != 1234 || c.Data()[5] != 9 {
		t.Error("clone did not copy content")
	}

	c.Data()[5] = 1
	if f.Data()[5] != 9 {
		t.Error("clone shares storage with source")
	}
}

func TestParsePixelFormat(t *testing.T) {
	for _, f := range []PixelFormat{PackedRGB, PackedRGBA, Gray8} {
		parsed, err := ParsePixelFormat(f.String())
		if err != nil {
			t.Fatalf("ParsePixelFormat(%q) failed: %v", f.String(), err)
		}
		if parsed != f {
			t.Errorf("expected %s, got %s", f, parsed)
		}
	}

	if _, err := ParsePixelFormat("yuv420p"); err == nil {
		t.Error("expected error for unsupported format")
	}
}
