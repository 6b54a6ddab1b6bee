// Package config provides configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"image/color"
	"os"
	"strconv"
	"strings"

	"github.com/user/frameshot/pkg/adapters/smartbackend"
	"github.com/user/frameshot/pkg/engine"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/pipeline"
	"github.com/user/frameshot/pkg/ports"
	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned by Validate for inconsistent settings.
var ErrInvalid = errors.New("config: invalid configuration")

// Config represents the full configuration for frameshot.
type Config struct {
	// Decoding
	Backend   string `yaml:"backend"`
	Format    string `yaml:"format"`
	Grayscale bool   `yaml:"grayscale"`

	// Selection
	Every     int `yaml:"every"`
	MaxFrames int `yaml:"max_frames"`

	// Output
	Export    string `yaml:"export"`
	OutputDir string `yaml:"output_dir"`
	Pattern   string `yaml:"pattern"`
	Manifest  bool   `yaml:"manifest"`

	ContactSheet ContactSheetConfig `yaml:"contact_sheet"`

	LogLevel string `yaml:"log_level"`
}

// ContactSheetConfig controls the optional thumbnail grid.
type ContactSheetConfig struct {
	Enabled    bool   `yaml:"enabled"`
	Columns    int    `yaml:"columns"`
	ThumbWidth int    `yaml:"thumb_width"`
	Path       string `yaml:"path"`
	Background string `yaml:"background"`
}

// Defaults returns a Config with default values.
func Defaults() Config {
	return Config{
		Backend:   string(smartbackend.ChoiceAuto),
		Format:    "rgb",
		Every:     1,
		OutputDir: "frames",
		Pattern:   "frame-%05d",
		ContactSheet: ContactSheetConfig{
			Columns:    4,
			ThumbWidth: 160,
			Path:       "contact-sheet.png",
			Background: "#101010",
		},
		LogLevel: "info",
	}
}

// LoadFromFile loads configuration from a YAML file on top of the defaults.
func LoadFromFile(path string) (Config, error) {
	cfg := Defaults()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks field values and their combinations.
func (c Config) Validate() error {
	if _, err := smartbackend.ParseChoice(c.Backend); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	format, err := frame.ParsePixelFormat(c.Format)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if c.LogLevel != "" && ports.ParseLogLevel(c.LogLevel).String() != c.LogLevel {
		return fmt.Errorf("%w: unknown log_level %q", ErrInvalid, c.LogLevel)
	}
	if c.Every < 1 {
		return fmt.Errorf("%w: every must be at least 1, got %d", ErrInvalid, c.Every)
	}
	if c.MaxFrames < 0 {
		return fmt.Errorf("%w: max_frames must not be negative", ErrInvalid)
	}

	if c.Export != "" {
		kind, err := engine.ParseExportKind(c.Export)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrInvalid, err)
		}
		if !kind.Accepts(format) {
			return fmt.Errorf("%w: export %s requires format %s, got %s", ErrInvalid, kind, requiredFormat(kind), format)
		}
	}

	if c.ContactSheet.Enabled {
		if c.ContactSheet.Columns < 1 {
			return fmt.Errorf("%w: contact_sheet.columns must be at least 1", ErrInvalid)
		}
		if c.ContactSheet.ThumbWidth < 1 {
			return fmt.Errorf("%w: contact_sheet.thumb_width must be at least 1", ErrInvalid)
		}
		if c.ContactSheet.Path == "" {
			return fmt.Errorf("%w: contact_sheet.path is empty", ErrInvalid)
		}
		if _, err := ParseColor(c.ContactSheet.Background); err != nil {
			return fmt.Errorf("%w: contact_sheet.background: %w", ErrInvalid, err)
		}
	}
	return nil
}

func requiredFormat(kind engine.ExportKind) frame.PixelFormat {
	switch kind {
	case engine.Pixmap:
		return frame.PackedRGB
	case engine.ArbitraryMap:
		return frame.PackedRGBA
	}
	return frame.Gray8
}

// PixelFormat returns the parsed target format.
func (c Config) PixelFormat() frame.PixelFormat {
	f, err := frame.ParsePixelFormat(c.Format)
	if err != nil {
		return frame.Unknown
	}
	return f
}

// ExportKind returns the parsed export kind, or "" to pick it per frame.
func (c Config) ExportKind() engine.ExportKind {
	k, err := engine.ParseExportKind(c.Export)
	if err != nil {
		return ""
	}
	return k
}

// Level returns the parsed log level.
func (c Config) Level() ports.LogLevel {
	return ports.ParseLogLevel(c.LogLevel)
}

// ToExtractOptions converts Config to pipeline.ExtractOptions.
func (c Config) ToExtractOptions() pipeline.ExtractOptions {
	var background color.Color
	if bg, err := ParseColor(c.ContactSheet.Background); err == nil {
		background = bg
	}
	return pipeline.ExtractOptions{
		Format:    c.PixelFormat(),
		Export:    c.ExportKind(),
		Every:     c.Every,
		MaxFrames: c.MaxFrames,
		Grayscale: c.Grayscale,
		Manifest:  c.Manifest,
		Sheet: pipeline.SheetOptions{
			Enabled:    c.ContactSheet.Enabled,
			Columns:    c.ContactSheet.Columns,
			ThumbWidth: c.ContactSheet.ThumbWidth,
			Path:       c.ContactSheet.Path,
			Background: background,
		},
	}
}

// ParseColor parses "#rrggbb" (the leading # is optional) into an opaque color.
func ParseColor(hex string) (color.RGBA, error) {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return color.RGBA{}, fmt.Errorf("invalid color %q (want #rrggbb)", hex)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
}
