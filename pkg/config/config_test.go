package config

import (
	"errors"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/user/frameshot/pkg/engine"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

func TestDefaults_Valid(t *testing.T) {
	cfg := Defaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate: %v", err)
	}
	if cfg.PixelFormat() != frame.PackedRGB {
		t.Errorf("expected rgb default, got %s", cfg.PixelFormat())
	}
	if cfg.ExportKind() != "" {
		t.Errorf("expected export picked per frame, got %q", cfg.ExportKind())
	}
	if cfg.Level() != ports.LevelInfo {
		t.Errorf("expected info level, got %s", cfg.Level())
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "frameshot.yaml")
	data := `
backend: mpeg1
format: rgba
export: pam
every: 5
max_frames: 12
output_dir: out
contact_sheet:
  enabled: true
  columns: 6
manifest: true
log_level: debug
`
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("loaded config should validate: %v", err)
	}

	if cfg.Backend != "mpeg1" || cfg.Every != 5 || cfg.MaxFrames != 12 || cfg.OutputDir != "out" {
		t.Errorf("unexpected values: %+v", cfg)
	}
	if cfg.ExportKind() != engine.ArbitraryMap {
		t.Errorf("expected pam, got %q", cfg.ExportKind())
	}
	// Unset nested fields keep their defaults.
	if cfg.ContactSheet.ThumbWidth != 160 || cfg.ContactSheet.Path != "contact-sheet.png" {
		t.Errorf("expected contact sheet defaults to survive, got %+v", cfg.ContactSheet)
	}
	if cfg.Pattern != "frame-%05d" {
		t.Errorf("expected default pattern, got %q", cfg.Pattern)
	}

	opts := cfg.ToExtractOptions()
	if opts.Format != frame.PackedRGBA || !opts.Sheet.Enabled || opts.Sheet.Columns != 6 || !opts.Manifest {
		t.Errorf("unexpected extract options: %+v", opts)
	}
}

func TestLoadFromFile_Errors(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}

	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("every: [1, 2"), 0644)
	if _, err := LoadFromFile(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		ok     bool
	}{
		{"ppm with rgb", func(c *Config) { c.Export = "ppm" }, true},
		{"ppm with rgba", func(c *Config) { c.Export = "ppm"; c.Format = "rgba" }, false},
		{"pam with rgb", func(c *Config) { c.Export = "pam" }, false},
		{"pgm with rgb", func(c *Config) { c.Export = "pgm" }, true},
		{"pgm with gray", func(c *Config) { c.Export = "pgm"; c.Format = "gray" }, true},
		{"unknown export", func(c *Config) { c.Export = "png" }, false},
		{"unknown format", func(c *Config) { c.Format = "yuv" }, false},
		{"unknown backend", func(c *Config) { c.Backend = "vlc" }, false},
		{"empty backend", func(c *Config) { c.Backend = "" }, true},
		{"zero every", func(c *Config) { c.Every = 0 }, false},
		{"negative max", func(c *Config) { c.MaxFrames = -1 }, false},
		{"bad log level", func(c *Config) { c.LogLevel = "verbose" }, false},
		{"quiet", func(c *Config) { c.LogLevel = "quiet" }, true},
		{"sheet without columns", func(c *Config) { c.ContactSheet.Enabled = true; c.ContactSheet.Columns = 0 }, false},
		{"sheet without path", func(c *Config) { c.ContactSheet.Enabled = true; c.ContactSheet.Path = "" }, false},
		{"disabled sheet ignores values", func(c *Config) { c.ContactSheet.Columns = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.ok && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrInvalid) {
				t.Errorf("expected ErrInvalid, got %v", err)
			}
		})
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want color.RGBA
		ok   bool
	}{
		{"#ff8000", color.RGBA{R: 255, G: 128, B: 0, A: 255}, true},
		{"101010", color.RGBA{R: 16, G: 16, B: 16, A: 255}, true},
		{"#FFFFFF", color.RGBA{R: 255, G: 255, B: 255, A: 255}, true},
		{"#fff", color.RGBA{}, false},
		{"#gg0000", color.RGBA{}, false},
		{"", color.RGBA{}, false},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if tt.ok != (err == nil) {
			t.Errorf("ParseColor(%q) error = %v, want ok=%v", tt.in, err, tt.ok)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestContactSheetBackground(t *testing.T) {
	cfg := Defaults()
	cfg.ContactSheet.Enabled = true
	cfg.ContactSheet.Background = "red"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Errorf("expected ErrInvalid for a named color, got %v", err)
	}

	cfg.ContactSheet.Background = "#202020"
	opts := cfg.ToExtractOptions()
	if opts.Sheet.Background != (color.RGBA{R: 32, G: 32, B: 32, A: 255}) {
		t.Errorf("unexpected background %v", opts.Sheet.Background)
	}
}
