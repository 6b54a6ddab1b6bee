package engine

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/mocks"
	"github.com/user/frameshot/pkg/ports"
)

func frameFrom(t *testing.T, w, h int, format frame.PixelFormat, pix []byte) *frame.Frame {
	t.Helper()
	f := frame.MustNew(w, h, format)
	if len(pix) != len(f.Data()) {
		t.Fatalf("fixture has %d bytes, frame needs %d", len(pix), len(f.Data()))
	}
	copy(f.Data(), pix)
	return f
}

func TestLuminance(t *testing.T) {
	tests := []struct {
		r, g, b uint8
		want    uint8
	}{
		{0, 0, 0, 0},
		{255, 255, 255, 255},
		{255, 0, 0, 76},
		{0, 255, 0, 149},
		{0, 0, 255, 29},
		{10, 20, 30, 18},
	}
	for _, tt := range tests {
		if got := Luminance(tt.r, tt.g, tt.b); got != tt.want {
			t.Errorf("Luminance(%d, %d, %d) = %d, want %d", tt.r, tt.g, tt.b, got, tt.want)
		}
	}
}

func TestToGrayscale_2x2(t *testing.T) {
	e := New(mocks.NewLogger())
	f := frameFrom(t, 2, 2, frame.PackedRGB, []byte{
		255, 0, 0, 0, 255, 0,
		0, 0, 255, 255, 255, 255,
	})

	e.ToGrayscale(f)

	want := []byte{
		76, 76, 76, 149, 149, 149,
		29, 29, 29, 255, 255, 255,
	}
	if !bytes.Equal(f.Data(), want) {
		t.Errorf("expected %v, got %v", want, f.Data())
	}
	if f.Format() != frame.PackedRGB || f.Stride() != 6 {
		t.Errorf("geometry changed: %s stride %d", f, f.Stride())
	}
}

func TestToGrayscale_KeepsAlpha(t *testing.T) {
	e := New(mocks.NewLogger())
	f := frameFrom(t, 2, 1, frame.PackedRGBA, []byte{255, 0, 0, 17, 0, 0, 255, 200})

	e.ToGrayscale(f)

	want := []byte{76, 76, 76, 17, 29, 29, 29, 200}
	if !bytes.Equal(f.Data(), want) {
		t.Errorf("expected %v, got %v", want, f.Data())
	}
}

func TestToGrayscale_Idempotent(t *testing.T) {
	e := New(mocks.NewLogger())
	f := frame.MustNew(16, 9, frame.PackedRGBA)
	for i := range f.Data() {
		f.Data()[i] = byte(i * 37)
	}

	e.ToGrayscale(f)
	once := append([]byte(nil), f.Data()...)
	e.ToGrayscale(f)

	if !bytes.Equal(once, f.Data()) {
		t.Error("second grayscale pass changed the frame")
	}
}

func TestToGrayscale_GrayIsNoop(t *testing.T) {
	log := mocks.NewLogger()
	e := New(log)
	f := frameFrom(t, 2, 1, frame.Gray8, []byte{3, 250})

	e.ToGrayscale(f)

	if !bytes.Equal(f.Data(), []byte{3, 250}) {
		t.Errorf("gray frame modified: %v", f.Data())
	}
	if log.Count(ports.LevelWarn) != 1 {
		t.Errorf("expected one warning, got %d", log.Count(ports.LevelWarn))
	}
}

func TestConvert(t *testing.T) {
	e := New(mocks.NewLogger())
	src := frameFrom(t, 2, 1, frame.PackedRGB, []byte{1, 2, 3, 4, 5, 6})
	src.PTS = 99
	dst := frame.MustNew(2, 1, frame.PackedRGBA)

	if err := e.Convert(src, dst); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	want := []byte{1, 2, 3, 255, 4, 5, 6, 255}
	if !bytes.Equal(dst.Data(), want) {
		t.Errorf("expected %v, got %v", want, dst.Data())
	}
	if dst.PTS != 99 {
		t.Errorf("expected PTS 99, got %d", dst.PTS)
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	e := New(mocks.NewLogger())
	src := frame.MustNew(5, 3, frame.PackedRGB)
	for i := range src.Data() {
		src.Data()[i] = byte(i*13 + 7)
	}
	dst := frame.MustNew(5, 3, frame.PackedRGBA)

	if err := e.Convert(src, dst); err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	for y := 0; y < 3; y++ {
		for x := 0; x < 5; x++ {
			in := src.Row(y)[x*3 : x*3+3]
			out := dst.Row(y)[x*4 : x*4+4]
			if !bytes.Equal(in, out[:3]) || out[3] != 255 {
				t.Fatalf("pixel (%d,%d): %v -> %v", x, y, in, out)
			}
		}
	}
}

func TestConvert_Errors(t *testing.T) {
	e := New(mocks.NewLogger())
	tests := []struct {
		name    string
		src     *frame.Frame
		dst     *frame.Frame
		wantErr error
	}{
		{"gray source", frame.MustNew(2, 2, frame.Gray8), frame.MustNew(2, 2, frame.PackedRGBA), ErrFormatMismatch},
		{"rgb destination", frame.MustNew(2, 2, frame.PackedRGB), frame.MustNew(2, 2, frame.PackedRGB), ErrFormatMismatch},
		{"width differs", frame.MustNew(2, 2, frame.PackedRGB), frame.MustNew(3, 2, frame.PackedRGBA), ErrDimensionMismatch},
		{"height differs", frame.MustNew(2, 2, frame.PackedRGB), frame.MustNew(2, 1, frame.PackedRGBA), ErrDimensionMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := e.Convert(tt.src, tt.dst); !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestToImage(t *testing.T) {
	rgb := frameFrom(t, 1, 1, frame.PackedRGB, []byte{10, 20, 30})
	img, ok := ToImage(rgb).(*image.RGBA)
	if !ok {
		t.Fatalf("expected *image.RGBA for rgb frame")
	}
	if !bytes.Equal(img.Pix, []byte{10, 20, 30, 255}) {
		t.Errorf("unexpected pixels %v", img.Pix)
	}

	gray := frameFrom(t, 2, 1, frame.Gray8, []byte{5, 6})
	gimg, ok := ToImage(gray).(*image.Gray)
	if !ok {
		t.Fatalf("expected *image.Gray for gray frame")
	}
	if gimg.Bounds().Dx() != 2 || gimg.GrayAt(1, 0).Y != 6 {
		t.Errorf("unexpected gray image %v", gimg.Pix)
	}

	rgba := frameFrom(t, 1, 1, frame.PackedRGBA, []byte{1, 2, 3, 4})
	if got := ToImage(rgba).(*image.RGBA).Pix; !bytes.Equal(got, []byte{1, 2, 3, 4}) {
		t.Errorf("unexpected rgba pixels %v", got)
	}
}
