package testpattern

import (
	"errors"
	"image/color"
	"testing"

	"github.com/user/frameshot/pkg/frame"
)

func TestGradient(t *testing.T) {
	f, err := Gradient(10, 4, frame.PackedRGBA)
	if err != nil {
		t.Fatalf("Gradient failed: %v", err)
	}

	tests := []struct {
		x, y int
		want []byte
	}{
		{0, 0, []byte{0, 0, 128, 255}},
		{9, 0, []byte{229, 0, 128, 255}},
		{5, 3, []byte{127, 191, 128, 255}},
	}
	for _, tt := range tests {
		got := f.Row(tt.y)[tt.x*4 : tt.x*4+4]
		if string(got) != string(tt.want) {
			t.Errorf("pixel (%d,%d): expected %v, got %v", tt.x, tt.y, tt.want, got)
		}
	}
}

func TestSolid_Formats(t *testing.T) {
	red := color.RGBA{255, 0, 0, 255}
	tests := []struct {
		format frame.PixelFormat
		want   []byte
	}{
		{frame.PackedRGB, []byte{255, 0, 0}},
		{frame.PackedRGBA, []byte{255, 0, 0, 255}},
		{frame.Gray8, []byte{76}},
	}

	for _, tt := range tests {
		f, err := Solid(3, 2, tt.format, red)
		if err != nil {
			t.Fatalf("Solid %s: %v", tt.format, err)
		}
		bpp := f.BytesPerPixel()
		for y := 0; y < 2; y++ {
			for x := 0; x < 3; x++ {
				if got := f.Row(y)[x*bpp : (x+1)*bpp]; string(got) != string(tt.want) {
					t.Fatalf("%s pixel (%d,%d): expected %v, got %v", tt.format, x, y, tt.want, got)
				}
			}
		}
	}
}

func TestBars(t *testing.T) {
	f, err := Bars(14, 1, frame.PackedRGB)
	if err != nil {
		t.Fatalf("Bars failed: %v", err)
	}
	// Two pixels per bar; the last bar is blue.
	if got := f.Row(0)[13*3 : 14*3]; string(got) != string([]byte{0, 0, 191}) {
		t.Errorf("expected blue last bar, got %v", got)
	}
}

func TestNew(t *testing.T) {
	if _, err := New("checker", 4, 4, frame.PackedRGB, color.RGBA{}); err == nil {
		t.Error("expected error for unknown pattern")
	}
	if _, err := New(KindGradient, -1, 4, frame.PackedRGB, color.RGBA{}); !errors.Is(err, frame.ErrInvalidGeometry) {
		t.Errorf("expected ErrInvalidGeometry, got %v", err)
	}
	f, err := New(KindBars, 7, 7, frame.Gray8, color.RGBA{})
	if err != nil || f.Format() != frame.Gray8 {
		t.Errorf("New bars: %v, %v", f, err)
	}
}
