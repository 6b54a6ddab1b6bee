// Package filesink writes extracted frames, contact sheets and manifests
// into an output directory.
package filesink

import (
	"fmt"
	"path/filepath"

	"github.com/user/frameshot/pkg/engine"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

// DefaultPattern names frames frame-00001.ppm, frame-00002.ppm, ...
const DefaultPattern = "frame-%05d"

// Sink saves frames to files.
type Sink struct {
	baseDir string
	pattern string
	kind    engine.ExportKind
	fs      ports.FileSystem
}

// New creates a sink writing into baseDir. pattern is a fmt pattern taking
// the frame number; kind "" picks the natural container of each frame.
func New(baseDir, pattern string, kind engine.ExportKind, fs ports.FileSystem) *Sink {
	if pattern == "" {
		pattern = DefaultPattern
	}
	return &Sink{
		baseDir: baseDir,
		pattern: pattern,
		kind:    kind,
		fs:      fs,
	}
}

// Enabled returns true as this sink saves output.
func (s *Sink) Enabled() bool {
	return true
}

// SaveFrame exports f as baseDir/<pattern(index)>.<ext>.
func (s *Sink) SaveFrame(index int, f *frame.Frame) (string, error) {
	kind := s.kind
	if kind == "" {
		kind = engine.KindFor(f.Format())
	}
	if !kind.Accepts(f.Format()) {
		return "", fmt.Errorf("%w: %s cannot hold %s pixels", engine.ErrFormatMismatch, kind, f.Format())
	}

	path := filepath.Join(s.baseDir, fmt.Sprintf(s.pattern, index)+kind.Extension())
	w, err := s.fs.Create(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", engine.ErrIO, err)
	}
	if err := engine.WriteTo(w, f, kind); err != nil {
		w.Close()
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("%w: %w", engine.ErrIO, err)
	}
	return path, nil
}

// SaveSheet saves an encoded contact sheet. Relative names resolve inside baseDir.
func (s *Sink) SaveSheet(name string, data []byte) (string, error) {
	return s.save(name, data)
}

// SaveManifest saves the run manifest.
func (s *Sink) SaveManifest(name string, data []byte) (string, error) {
	return s.save(name, data)
}

func (s *Sink) save(name string, data []byte) (string, error) {
	path := name
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.baseDir, name)
	}
	if err := s.fs.WriteFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

var _ ports.FrameSink = (*Sink)(nil)
