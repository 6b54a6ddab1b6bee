package mpeg1

import (
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/frameshot/pkg/adapters/logger"
	"github.com/user/frameshot/pkg/decoder"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

// solidYCbCr returns a 4:2:0 picture of one color.
func solidYCbCr(w, h int, y, cb, cr uint8) *rawFrame {
	img := image.NewYCbCr(image.Rect(0, 0, w, h), image.YCbCrSubsampleRatio420)
	for i := range img.Y {
		img.Y[i] = y
	}
	for i := range img.Cb {
		img.Cb[i] = cb
		img.Cr[i] = cr
	}
	return &rawFrame{img: img}
}

func near(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -3 && d <= 3
}

func TestConverter_Formats(t *testing.T) {
	// Full range red in the YCbCr model used by image/color.
	raw := solidYCbCr(16, 8, 76, 85, 255)

	tests := []struct {
		format frame.PixelFormat
		want   []uint8
	}{
		{frame.PackedRGBA, []uint8{255, 0, 0, 255}},
		{frame.PackedRGB, []uint8{255, 0, 0}},
		{frame.Gray8, []uint8{76}},
	}

	for _, tt := range tests {
		t.Run(tt.format.String(), func(t *testing.T) {
			for _, size := range [][2]int{{16, 8}, {8, 4}} {
				key := ports.ConverterKey{
					SrcWidth: 16, SrcHeight: 8, SrcFormat: YCbCr420,
					DstWidth: size[0], DstHeight: size[1], DstFormat: tt.format,
				}
				conv, err := New().NewConverter(key)
				if err != nil {
					t.Fatalf("NewConverter failed: %v", err)
				}
				dst := frame.MustNew(size[0], size[1], tt.format)
				if err := conv.Convert(raw, dst.Data(), dst.Stride()); err != nil {
					t.Fatalf("Convert failed: %v", err)
				}

				bpp := dst.BytesPerPixel()
				px := dst.Row(size[1] - 1)[(size[0]-1)*bpp:]
				for i, want := range tt.want {
					if !near(px[i], want) {
						t.Errorf("%dx%d channel %d: expected ~%d, got %d", size[0], size[1], i, want, px[i])
					}
				}
				conv.Close()
			}
		})
	}
}

func TestConverter_RejectsMismatch(t *testing.T) {
	b := New()
	if _, err := b.NewConverter(ports.ConverterKey{SrcFormat: 99, DstWidth: 1, DstHeight: 1, DstFormat: frame.PackedRGB}); err == nil {
		t.Error("expected error for foreign source format")
	}
	if _, err := b.NewConverter(ports.ConverterKey{SrcFormat: YCbCr420, DstWidth: 1, DstHeight: 1, DstFormat: frame.Unknown}); err == nil {
		t.Error("expected error for unknown destination format")
	}

	conv, _ := b.NewConverter(ports.ConverterKey{
		SrcWidth: 4, SrcHeight: 4, SrcFormat: YCbCr420,
		DstWidth: 4, DstHeight: 4, DstFormat: frame.PackedRGB,
	})
	if err := conv.Convert(solidYCbCr(8, 8, 0, 128, 128), make([]byte, 48), 12); err == nil {
		t.Error("expected error for frame of a different size")
	}
	if err := conv.Convert(solidYCbCr(4, 4, 0, 128, 128), make([]byte, 10), 12); err == nil {
		t.Error("expected error for short destination")
	}
}

func TestSession_HandsOverOneFramePerPacket(t *testing.T) {
	s := &session{}

	if _, err := s.Receive(); !errors.Is(err, ports.ErrNeedMoreInput) {
		t.Fatalf("expected ErrNeedMoreInput, got %v", err)
	}

	f := solidYCbCr(2, 2, 0, 128, 128)
	s.Send(&packet{frame: f})
	got, err := s.Receive()
	if err != nil || got != f {
		t.Fatalf("expected queued frame, got %v, %v", got, err)
	}

	s.Send(&packet{})
	if _, err := s.Receive(); !errors.Is(err, ports.ErrNeedMoreInput) {
		t.Errorf("empty packet: expected ErrNeedMoreInput, got %v", err)
	}

	s.Send(nil)
	if _, err := s.Receive(); !errors.Is(err, io.EOF) {
		t.Errorf("after flush: expected io.EOF, got %v", err)
	}
}

func TestProbe_Errors(t *testing.T) {
	b := New()

	if _, err := b.Probe(filepath.Join(t.TempDir(), "missing.mpg")); !errors.Is(err, ports.ErrProbeContainer) {
		t.Errorf("expected ErrProbeContainer for missing file, got %v", err)
	}
}

// TestDecoder_Sample decodes a real MPEG-1 file when FRAMESHOT_SAMPLE_MPEG1
// points to one.
func TestDecoder_Sample(t *testing.T) {
	path := os.Getenv("FRAMESHOT_SAMPLE_MPEG1")
	if path == "" {
		t.Skip("FRAMESHOT_SAMPLE_MPEG1 not set")
	}

	d := decoder.New(New(), logger.NewNoop())
	if err := d.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	target, err := d.NewFrame(frame.PackedRGB)
	if err != nil {
		t.Fatalf("NewFrame failed: %v", err)
	}

	frames := 0
	var lastPTS int64 = -1
	for {
		ok, err := d.ReadFrame(target)
		if err != nil {
			t.Fatalf("frame %d: %v", frames, err)
		}
		if !ok {
			break
		}
		if target.PTS < lastPTS {
			t.Errorf("frame %d: PTS went backwards (%d < %d)", frames, target.PTS, lastPTS)
		}
		lastPTS = target.PTS
		frames++
	}

	if frames == 0 {
		t.Error("expected at least one frame")
	}
	if ok, _ := d.ReadFrame(target); ok {
		t.Error("ReadFrame returned true after end of stream")
	}
	t.Logf("decoded %d frames of %dx%d", frames, d.Width(), d.Height())
}
