// Package manifest records what an extraction run read and wrote.
package manifest

import (
	"time"

	"github.com/google/uuid"
	"github.com/user/frameshot/pkg/decoder"
	"github.com/user/frameshot/pkg/ports"
)

// Manifest describes one extraction run.
type Manifest struct {
	RunID       string    `yaml:"run_id"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Version     string    `yaml:"version,omitempty"`

	Input    Input    `yaml:"input"`
	Settings Settings `yaml:"settings"`
	Output   Output   `yaml:"output"`
}

// Input describes the decoded file and stream.
type Input struct {
	Path    string `yaml:"path"`
	Backend string `yaml:"backend"`
	Stream  Stream `yaml:"stream"`
}

// Stream is the selected video stream.
type Stream struct {
	Index      int     `yaml:"index"`
	Codec      string  `yaml:"codec"`
	Width      int     `yaml:"width"`
	Height     int     `yaml:"height"`
	FrameRate  float64 `yaml:"frame_rate"`
	DurationMs int64   `yaml:"duration_ms"`
	FrameCount int64   `yaml:"frame_count"`
}

// Settings are the options the run used.
type Settings struct {
	Format    string `yaml:"format"`
	Export    string `yaml:"export,omitempty"`
	Every     int    `yaml:"every"`
	MaxFrames int    `yaml:"max_frames,omitempty"`
	Grayscale bool   `yaml:"grayscale"`
}

// Output lists counters and written files.
type Output struct {
	FramesDecoded  int          `yaml:"frames_decoded"`
	FramesSaved    int          `yaml:"frames_saved"`
	PacketsRead    int          `yaml:"packets_read"`
	PacketsSkipped int          `yaml:"packets_skipped"`
	DecodeErrors   int          `yaml:"decode_errors"`
	ContactSheet   string       `yaml:"contact_sheet,omitempty"`
	Frames         []FrameEntry `yaml:"frames"`
}

// FrameEntry is one kept frame.
type FrameEntry struct {
	Index int    `yaml:"index"` // sequence number among kept frames
	Frame int    `yaml:"frame"` // position among decoded frames
	PTS   int64  `yaml:"pts"`
	Path  string `yaml:"path,omitempty"`
}

// New creates a Manifest with a fresh run id and the current timestamp.
func New() *Manifest {
	return &Manifest{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now(),
	}
}

// Builder provides a fluent interface for building a Manifest.
type Builder struct {
	manifest *Manifest
}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{
		manifest: New(),
	}
}

// WithVersion sets the producing tool version.
func (b *Builder) WithVersion(version string) *Builder {
	b.manifest.Version = version
	return b
}

// WithInput sets the input file, backend and stream.
func (b *Builder) WithInput(path, backend string, info ports.StreamInfo) *Builder {
	b.manifest.Input = Input{
		Path:    path,
		Backend: backend,
		Stream: Stream{
			Index:      info.Index,
			Codec:      info.CodecName,
			Width:      info.Width,
			Height:     info.Height,
			FrameRate:  info.FrameRate.Float(),
			DurationMs: info.Duration.Milliseconds(),
			FrameCount: info.FrameCount,
		},
	}
	return b
}

// WithSettings sets the run settings.
func (b *Builder) WithSettings(settings Settings) *Builder {
	b.manifest.Settings = settings
	return b
}

// AddFrame appends a kept frame.
func (b *Builder) AddFrame(entry FrameEntry) *Builder {
	b.manifest.Output.Frames = append(b.manifest.Output.Frames, entry)
	b.manifest.Output.FramesSaved = len(b.manifest.Output.Frames)
	return b
}

// WithStats copies the decoder counters.
func (b *Builder) WithStats(stats decoder.Stats) *Builder {
	b.manifest.Output.FramesDecoded = stats.FramesDecoded
	b.manifest.Output.PacketsRead = stats.PacketsRead
	b.manifest.Output.PacketsSkipped = stats.PacketsSkipped
	b.manifest.Output.DecodeErrors = stats.DecodeErrors
	return b
}

// WithContactSheet records the contact sheet path.
func (b *Builder) WithContactSheet(path string) *Builder {
	b.manifest.Output.ContactSheet = path
	return b
}

// Build returns the constructed Manifest.
func (b *Builder) Build() *Manifest {
	return b.manifest
}
