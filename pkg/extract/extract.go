// Package extract implements the frame extraction stage: decode a file,
// keep a subset of its frames and hand them to a sink.
package extract

import (
	"context"
	"errors"
	"fmt"

	"github.com/user/frameshot/pkg/decoder"
	"github.com/user/frameshot/pkg/engine"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/manifest"
	"github.com/user/frameshot/pkg/pipeline"
	"github.com/user/frameshot/pkg/ports"
)

// Manifest file names, relative to the sink.
const (
	ManifestYAML     = "manifest.yaml"
	ManifestMarkdown = "manifest.md"
)

// maxConsecutiveErrors bounds how many decode errors in a row are skipped
// before the run is aborted.
const maxConsecutiveErrors = 16

// ErrTooManyErrors is returned when decoding keeps failing.
var ErrTooManyErrors = errors.New("extract: too many consecutive decode errors")

// Stage decodes a file and saves the selected frames.
type Stage struct {
	backend   ports.CodecBackend
	engine    *engine.Engine
	sink      ports.FrameSink
	renderer  ports.SheetRenderer
	logger    ports.Logger
	version   string
	translate func(string) string
	markdown  *manifest.MarkdownFormatter
}

// Option configures a Stage.
type Option func(*Stage)

// WithVersion stamps manifests with the tool version.
func WithVersion(version string) Option {
	return func(s *Stage) {
		s.version = version
	}
}

// WithTranslator translates the Markdown manifest.
func WithTranslator(translate func(string) string) Option {
	return func(s *Stage) {
		s.translate = translate
	}
}

// NewStage creates a new extract stage. renderer may be nil when contact
// sheets are never requested.
func NewStage(backend ports.CodecBackend, sink ports.FrameSink, renderer ports.SheetRenderer, logger ports.Logger, opts ...Option) *Stage {
	s := &Stage{
		backend:  backend,
		sink:     sink,
		renderer: renderer,
		logger:   logger.WithComponent("extract"),
		engine:   engine.New(logger),
	}
	for _, opt := range opts {
		opt(s)
	}
	mdOpts := []manifest.MarkdownOption{manifest.WithVersion(s.version)}
	if s.translate != nil {
		mdOpts = append(mdOpts, manifest.WithTranslator(s.translate))
	}
	s.markdown = manifest.NewMarkdownFormatter(mdOpts...)
	return s
}

// Execute decodes input.Path and saves every Nth frame.
func (s *Stage) Execute(ctx context.Context, input pipeline.ExtractInput) (pipeline.ExtractResult, error) {
	result := pipeline.ExtractResult{}
	opts := withDefaults(input.Options)

	if opts.Sheet.Enabled && s.renderer == nil {
		return result, fmt.Errorf("extract: contact sheet requested without a renderer")
	}

	dec := decoder.New(s.backend, s.logger)
	if err := dec.Open(input.Path); err != nil {
		return result, err
	}
	defer dec.Close()

	info := dec.StreamInfo()
	result.Stream = info
	result.Backend = s.backend.Name()
	s.logger.Info("Extracting frames from %s (%s %dx%d)", input.Path, info.CodecName, dec.Width(), dec.Height())

	target, err := dec.NewFrame(opts.Format)
	if err != nil {
		return result, err
	}

	builder := manifest.NewBuilder().
		WithVersion(s.version).
		WithInput(input.Path, result.Backend, info).
		WithSettings(manifest.Settings{
			Format:    opts.Format.String(),
			Export:    string(opts.Export),
			Every:     opts.Every,
			MaxFrames: opts.MaxFrames,
			Grayscale: opts.Grayscale,
		})

	grayscale := opts.Grayscale
	if grayscale && opts.Format == frame.Gray8 {
		s.logger.Warn("Frames are already grayscale, ignoring the grayscale option")
		grayscale = false
	}

	var tiles []ports.SheetTile
	failures := 0

	for {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		ok, err := dec.ReadFrame(target)
		if err != nil {
			if !errors.Is(err, decoder.ErrFrameDecode) {
				return result, err
			}
			failures++
			if failures >= maxConsecutiveErrors {
				return result, fmt.Errorf("%w: %w", ErrTooManyErrors, err)
			}
			s.logger.Warn("Skipping undecodable frame: %v", err)
			continue
		}
		if !ok {
			break
		}
		failures = 0

		position := result.Decoded
		result.Decoded++
		if position%opts.Every != 0 {
			continue
		}

		if grayscale {
			s.engine.ToGrayscale(target)
		}

		path, err := s.sink.SaveFrame(result.Saved, target)
		if err != nil {
			return result, fmt.Errorf("save frame %d: %w", position, err)
		}
		if path != "" {
			result.Files = append(result.Files, path)
			s.logger.Debug("Saved frame %d to %s", position, path)
		}
		builder.AddFrame(manifest.FrameEntry{Index: result.Saved, Frame: position, PTS: target.PTS, Path: path})

		if opts.Sheet.Enabled {
			tiles = append(tiles, ports.SheetTile{
				Image: engine.ToImage(target),
				Label: tileLabel(position, target.PTS, info.TimeBase),
			})
		}

		result.Saved++
		if opts.MaxFrames > 0 && result.Saved >= opts.MaxFrames {
			s.logger.Debug("Reached frame limit %d", opts.MaxFrames)
			break
		}
	}

	result.Stats = dec.Stats()
	s.logger.Info("Extracted %d of %d frames", result.Saved, result.Decoded)

	if opts.Sheet.Enabled && len(tiles) > 0 {
		path, err := s.saveSheet(tiles, opts.Sheet)
		if err != nil {
			return result, err
		}
		result.SheetPath = path
		builder.WithContactSheet(path)
	}

	if opts.Manifest {
		path, err := s.saveManifest(builder.WithStats(result.Stats).Build())
		if err != nil {
			return result, err
		}
		result.ManifestPath = path
	}

	return result, nil
}

func (s *Stage) saveSheet(tiles []ports.SheetTile, opts pipeline.SheetOptions) (string, error) {
	img, err := s.renderer.RenderSheet(tiles, ports.SheetOptions{
		Columns:    opts.Columns,
		ThumbWidth: opts.ThumbWidth,
		Gap:        4,
		Background: opts.Background,
	})
	if err != nil {
		return "", fmt.Errorf("render contact sheet: %w", err)
	}
	data, err := s.renderer.EncodePNG(img)
	if err != nil {
		return "", fmt.Errorf("encode contact sheet: %w", err)
	}
	path, err := s.sink.SaveSheet(opts.Path, data)
	if err != nil {
		return "", fmt.Errorf("save contact sheet: %w", err)
	}
	if path != "" {
		s.logger.Info("Contact sheet saved to %s", path)
	}
	return path, nil
}

func (s *Stage) saveManifest(m *manifest.Manifest) (string, error) {
	data, err := manifest.NewYAMLFormatter().Format(m)
	if err != nil {
		return "", err
	}
	path, err := s.sink.SaveManifest(ManifestYAML, data)
	if err != nil {
		return "", fmt.Errorf("save manifest: %w", err)
	}

	report, err := s.markdown.Format(m)
	if err != nil {
		return "", err
	}
	if _, err := s.sink.SaveManifest(ManifestMarkdown, report); err != nil {
		return "", fmt.Errorf("save manifest: %w", err)
	}

	if path != "" {
		s.logger.Info("Manifest saved to %s", path)
	}
	return path, nil
}

func withDefaults(opts pipeline.ExtractOptions) pipeline.ExtractOptions {
	def := pipeline.DefaultExtractOptions()
	if opts.Format == frame.Unknown {
		opts.Format = def.Format
	}
	if opts.Every < 1 {
		opts.Every = 1
	}
	if opts.Sheet.Columns < 1 {
		opts.Sheet.Columns = def.Sheet.Columns
	}
	if opts.Sheet.ThumbWidth < 1 {
		opts.Sheet.ThumbWidth = def.Sheet.ThumbWidth
	}
	if opts.Sheet.Path == "" {
		opts.Sheet.Path = def.Sheet.Path
	}
	return opts
}

// tileLabel formats "#<n> <seconds>s", or "#<n>" without a time base.
func tileLabel(position int, pts int64, tb ports.Rational) string {
	if tb.Num <= 0 || tb.Den <= 0 {
		return fmt.Sprintf("#%d", position)
	}
	return fmt.Sprintf("#%d %.2fs", position, float64(pts)*tb.Float())
}

var _ pipeline.Stage[pipeline.ExtractInput, pipeline.ExtractResult] = (*Stage)(nil)
