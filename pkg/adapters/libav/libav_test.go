package libav

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/frameshot/pkg/adapters/logger"
	"github.com/user/frameshot/pkg/decoder"
	"github.com/user/frameshot/pkg/frame"
)

func newBackend(t *testing.T) *Backend {
	t.Helper()
	if !Available() {
		t.Skip("libav backend not available")
	}
	b, err := New()
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return b
}

func TestProbe_MissingFile(t *testing.T) {
	b := newBackend(t)

	d := decoder.New(b, logger.NewNoop())
	err := d.Open(filepath.Join(t.TempDir(), "missing.mp4"))
	if !errors.Is(err, decoder.ErrContainerOpen) {
		t.Errorf("expected ErrContainerOpen, got %v", err)
	}
}

// TestDecoder_Sample decodes FRAMESHOT_SAMPLE_VIDEO in every target format.
func TestDecoder_Sample(t *testing.T) {
	path := os.Getenv("FRAMESHOT_SAMPLE_VIDEO")
	if path == "" {
		t.Skip("FRAMESHOT_SAMPLE_VIDEO not set")
	}
	b := newBackend(t)

	for _, format := range []frame.PixelFormat{frame.PackedRGB, frame.PackedRGBA, frame.Gray8} {
		t.Run(format.String(), func(t *testing.T) {
			d := decoder.New(b, logger.NewNoop())
			if err := d.Open(path); err != nil {
				t.Fatalf("Open failed: %v", err)
			}
			defer d.Close()

			target, err := d.NewFrame(format)
			if err != nil {
				t.Fatalf("NewFrame failed: %v", err)
			}

			n := 0
			for {
				ok, err := d.ReadFrame(target)
				if err != nil {
					t.Fatalf("frame %d: %v", n, err)
				}
				if !ok {
					break
				}
				n++
			}
			if n == 0 {
				t.Fatal("expected at least one frame")
			}
			if ok, _ := d.ReadFrame(target); ok {
				t.Error("ReadFrame returned true after end of stream")
			}
			if got := d.Stats().ConvertersCreated; got != 1 {
				t.Errorf("expected 1 converter for a constant stream, got %d", got)
			}
		})
	}
}

// TestDecoder_SampleHalfSize scales into a target half the native size.
func TestDecoder_SampleHalfSize(t *testing.T) {
	path := os.Getenv("FRAMESHOT_SAMPLE_VIDEO")
	if path == "" {
		t.Skip("FRAMESHOT_SAMPLE_VIDEO not set")
	}

	d := decoder.New(newBackend(t), logger.NewNoop())
	if err := d.Open(path); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer d.Close()

	target := frame.MustNew(d.Width()/2, d.Height()/2, frame.PackedRGBA)
	ok, err := d.ReadFrame(target)
	if !ok || err != nil {
		t.Fatalf("ReadFrame: (%v, %v)", ok, err)
	}
	if a := target.Row(0)[3]; a != 255 {
		t.Errorf("expected opaque alpha, got %d", a)
	}
}
