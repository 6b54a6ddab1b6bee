// Package main provides the CLI entry point for frameshot.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/ideamans/go-l10n"
	"github.com/urfave/cli/v2"

	"github.com/user/frameshot/pkg/adapters/filesink"
	"github.com/user/frameshot/pkg/adapters/ggrenderer"
	"github.com/user/frameshot/pkg/adapters/libav"
	"github.com/user/frameshot/pkg/adapters/logger"
	"github.com/user/frameshot/pkg/adapters/mp4probe"
	"github.com/user/frameshot/pkg/adapters/nullsink"
	"github.com/user/frameshot/pkg/adapters/osfilesystem"
	"github.com/user/frameshot/pkg/adapters/smartbackend"
	"github.com/user/frameshot/pkg/config"
	"github.com/user/frameshot/pkg/decoder"
	"github.com/user/frameshot/pkg/engine"
	"github.com/user/frameshot/pkg/extract"
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/pipeline"
	"github.com/user/frameshot/pkg/ports"
	"github.com/user/frameshot/pkg/testpattern"
)

var version = "dev"

var errInputRequired = errors.New("exactly one input file is required")

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, l10n.F("Error: %s", err))
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:            "frameshot",
		Usage:           l10n.T("Decode video frames into uncompressed images"),
		Description:     l10n.T("frameshot decodes the video stream of a media file and saves its frames as PPM, PAM or PGM images."),
		Version:         version,
		HideHelpCommand: true,
		Commands: []*cli.Command{
			extractCommand(),
			infoCommand(),
			patternCommand(),
			versionCommand(),
		},
	}
}

func loggingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "log-level",
			Aliases:  []string{"l"},
			Value:    "info",
			Usage:    l10n.T("Log level (debug, info, warn, error)"),
			Category: l10n.T("Logging"),
		},
		&cli.BoolFlag{
			Name:     "quiet",
			Aliases:  []string{"Q"},
			Usage:    l10n.T("Suppress all log output"),
			Category: l10n.T("Logging"),
		},
	}
}

func backendFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "backend",
		Aliases: []string{"b"},
		Value:   string(smartbackend.ChoiceAuto),
		Usage:   l10n.T("Codec backend (auto, libav, mpeg1)"),
	}
}

func newLogger(c *cli.Context, level string) ports.Logger {
	if c.Bool("quiet") {
		return logger.NewNoop()
	}
	return logger.New(ports.ParseLogLevel(level))
}

func requireInput(c *cli.Context) (string, error) {
	if c.NArg() != 1 {
		return "", errInputRequired
	}
	return c.Args().First(), nil
}

// newBackend resolves a backend name from flags or config.
func newBackend(name string, log ports.Logger) (ports.CodecBackend, error) {
	choice, err := smartbackend.ParseChoice(name)
	if err != nil {
		return nil, err
	}
	return smartbackend.New(choice, log)
}

// =============================================================================
// extract
// =============================================================================

func extractCommand() *cli.Command {
	flags := []cli.Flag{
		&cli.PathFlag{
			Name:     "config",
			Aliases:  []string{"c"},
			Usage:    l10n.T("YAML configuration file"),
			Category: l10n.T("Configuration"),
		},
		&cli.PathFlag{
			Name:     "output",
			Aliases:  []string{"o"},
			Usage:    l10n.T("Output directory (default: frames)"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "pattern",
			Usage:    l10n.T("File name pattern taking the frame number (default: frame-%05d)"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "export",
			Aliases:  []string{"e"},
			Usage:    l10n.T("Image format (ppm, pam, pgm; default: by pixel format)"),
			Category: l10n.T("Output"),
		},
		&cli.BoolFlag{
			Name:     "manifest",
			Usage:    l10n.T("Write manifest.yaml and manifest.md"),
			Category: l10n.T("Output"),
		},
		&cli.BoolFlag{
			Name:     "dry-run",
			Usage:    l10n.T("Decode without writing any file"),
			Category: l10n.T("Output"),
		},
		&cli.StringFlag{
			Name:     "format",
			Aliases:  []string{"f"},
			Usage:    l10n.T("Pixel format (rgb, rgba, gray)"),
			Category: l10n.T("Decoding"),
		},
		&cli.BoolFlag{
			Name:     "grayscale",
			Aliases:  []string{"g"},
			Usage:    l10n.T("Reduce frames to luminance"),
			Category: l10n.T("Decoding"),
		},
		&cli.IntFlag{
			Name:     "every",
			Aliases:  []string{"n"},
			Usage:    l10n.T("Keep every Nth frame"),
			Category: l10n.T("Selection"),
		},
		&cli.IntFlag{
			Name:     "max-frames",
			Aliases:  []string{"m"},
			Usage:    l10n.T("Stop after this many frames (0 = all)"),
			Category: l10n.T("Selection"),
		},
		&cli.BoolFlag{
			Name:     "sheet",
			Usage:    l10n.T("Render a contact sheet of the kept frames"),
			Category: l10n.T("Contact Sheet"),
		},
		&cli.IntFlag{
			Name:     "sheet-columns",
			Usage:    l10n.T("Thumbnails per contact sheet row"),
			Category: l10n.T("Contact Sheet"),
		},
		&cli.IntFlag{
			Name:     "thumb-width",
			Usage:    l10n.T("Thumbnail width in pixels"),
			Category: l10n.T("Contact Sheet"),
		},
		backendFlag(),
	}

	return &cli.Command{
		Name:      "extract",
		Usage:     l10n.T("Save the frames of a video as images"),
		ArgsUsage: "<video>",
		Flags:     append(flags, loggingFlags()...),
		Action:    runExtract,
	}
}

// loadConfig reads --config and applies explicitly set flags on top.
func loadConfig(c *cli.Context) (config.Config, error) {
	cfg := config.Defaults()
	if path := c.Path("config"); path != "" {
		loaded, err := config.LoadFromFile(path)
		if err != nil {
			return cfg, err
		}
		cfg = loaded
	}

	if c.IsSet("backend") {
		cfg.Backend = c.String("backend")
	}
	if c.IsSet("output") {
		cfg.OutputDir = c.Path("output")
	}
	if c.IsSet("pattern") {
		cfg.Pattern = c.String("pattern")
	}
	if c.IsSet("export") {
		cfg.Export = c.String("export")
	}
	if c.IsSet("manifest") {
		cfg.Manifest = c.Bool("manifest")
	}
	if c.IsSet("format") {
		cfg.Format = c.String("format")
	}
	if c.IsSet("grayscale") {
		cfg.Grayscale = c.Bool("grayscale")
	}
	if c.IsSet("every") {
		cfg.Every = c.Int("every")
	}
	if c.IsSet("max-frames") {
		cfg.MaxFrames = c.Int("max-frames")
	}
	if c.IsSet("sheet") {
		cfg.ContactSheet.Enabled = c.Bool("sheet")
	}
	if c.IsSet("sheet-columns") {
		cfg.ContactSheet.Columns = c.Int("sheet-columns")
	}
	if c.IsSet("thumb-width") {
		cfg.ContactSheet.ThumbWidth = c.Int("thumb-width")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}

	return cfg, cfg.Validate()
}

func runExtract(c *cli.Context) error {
	input, err := requireInput(c)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}
	log := newLogger(c, cfg.LogLevel)

	backend, err := newBackend(cfg.Backend, log)
	if err != nil {
		return err
	}

	fs := osfilesystem.New()
	var sink ports.FrameSink
	if c.Bool("dry-run") {
		sink = nullsink.New()
	} else {
		if err := fs.MkdirAll(cfg.OutputDir); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
		sink = filesink.New(cfg.OutputDir, cfg.Pattern, cfg.ExportKind(), fs)
	}

	stage := extract.NewStage(backend, sink, ggrenderer.New(), log,
		extract.WithVersion(version),
		extract.WithTranslator(l10n.T),
	)

	// Setup context with cancellation
	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			log.Warn("Interrupted, shutting down...")
			cancel()
		case <-ctx.Done():
		}
	}()

	result, err := stage.Execute(ctx, pipeline.ExtractInput{
		Path:    input,
		Options: cfg.ToExtractOptions(),
	})
	if err != nil {
		return err
	}

	if sink.Enabled() {
		log.Info("Saved %d frames to %s", result.Saved, cfg.OutputDir)
	}
	return nil
}

// =============================================================================
// info
// =============================================================================

func infoCommand() *cli.Command {
	return &cli.Command{
		Name:      "info",
		Usage:     l10n.T("Show the streams of a media file"),
		ArgsUsage: "<video>",
		Flags:     append([]cli.Flag{backendFlag()}, loggingFlags()...),
		Action:    runInfo,
	}
}

func runInfo(c *cli.Context) error {
	path, err := requireInput(c)
	if err != nil {
		return err
	}
	log := newLogger(c, c.String("log-level"))
	w := c.App.Writer

	backend, err := newBackend(c.String("backend"), log)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s: %s\n", l10n.T("File"), path)

	// MP4 track details do not need a codec backend.
	described := false
	if kind, err := smartbackend.SniffFile(path); err == nil && kind == smartbackend.ContainerMP4 {
		report, err := mp4probe.ProbeFile(path)
		if err != nil {
			log.Warn("Cannot read MP4 boxes: %v", err)
		} else {
			printTracks(w, report)
			described = true
		}
	}

	dec := decoder.New(backend, log)
	if err := dec.Open(path); err != nil {
		if described && errors.Is(err, smartbackend.ErrNoBackend) {
			log.Warn("Streams not listed: %v", err)
			return nil
		}
		return err
	}
	defer dec.Close()

	fmt.Fprintf(w, "%s: %s\n", l10n.T("Backend"), backend.Name())
	selected := dec.StreamInfo().Index
	for _, s := range dec.Streams() {
		printStream(w, s, s.Index == selected)
	}
	return nil
}

func printStream(w io.Writer, s ports.StreamInfo, selected bool) {
	marker := " "
	if selected {
		marker = "*"
	}
	fmt.Fprintf(w, "%s #%d %s %s", marker, s.Index, s.Type, s.CodecName)
	if s.Type == ports.MediaVideo {
		fmt.Fprintf(w, " %dx%d", s.Width, s.Height)
		if fps := s.FrameRate.Float(); fps > 0 {
			fmt.Fprintf(w, " %.3f fps", fps)
		}
	}
	if s.Duration > 0 {
		fmt.Fprintf(w, " %s", s.Duration.Round(time.Millisecond))
	}
	if s.FrameCount > 0 {
		fmt.Fprintf(w, " %s", l10n.F("%d frames", s.FrameCount))
	}
	if s.BitRate > 0 {
		fmt.Fprintf(w, " %d kb/s", s.BitRate/1000)
	}
	fmt.Fprintln(w)
}

func printTracks(w io.Writer, r *mp4probe.Report) {
	layout := l10n.T("progressive")
	if r.Fragmented {
		layout = l10n.T("fragmented")
	}
	fmt.Fprintf(w, "MP4 (%s) %s\n", layout, r.Duration.Round(time.Millisecond))
	for _, t := range r.Tracks {
		fmt.Fprintf(w, "  track %d %s %s", t.ID, t.Handler, t.SampleEntry)
		if t.IsVideo() {
			fmt.Fprintf(w, " (%s) %dx%d", t.Codec, t.Width, t.Height)
		}
		fmt.Fprintf(w, " %s\n", l10n.F("%d samples", t.SampleCount))
	}
}

// =============================================================================
// pattern
// =============================================================================

func patternCommand() *cli.Command {
	return &cli.Command{
		Name:  "pattern",
		Usage: l10n.T("Write a synthetic test frame"),
		Flags: append([]cli.Flag{
			&cli.PathFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    l10n.T("Output image path (.ppm, .pam or .pgm)"),
			},
			&cli.StringFlag{
				Name:    "kind",
				Aliases: []string{"k"},
				Value:   string(testpattern.KindGradient),
				Usage:   l10n.T("Pattern (gradient, solid, bars)"),
			},
			&cli.IntFlag{Name: "width", Aliases: []string{"W"}, Value: 320, Usage: l10n.T("Frame width")},
			&cli.IntFlag{Name: "height", Aliases: []string{"H"}, Value: 240, Usage: l10n.T("Frame height")},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Usage:   l10n.T("Pixel format (rgb, rgba, gray; default: by file extension)"),
			},
			&cli.StringFlag{
				Name:  "color",
				Value: "#ff0000",
				Usage: l10n.T("Fill color of the solid pattern (hex)"),
			},
		}, loggingFlags()...),
		Action: runPattern,
	}
}

func runPattern(c *cli.Context) error {
	log := newLogger(c, c.String("log-level"))
	path := c.Path("output")

	kind, err := engine.ParseExportKind(strings.TrimPrefix(filepath.Ext(path), "."))
	if err != nil {
		return err
	}

	format := formatFor(kind)
	if c.IsSet("format") {
		if format, err = frame.ParsePixelFormat(c.String("format")); err != nil {
			return err
		}
	}

	fill, err := config.ParseColor(c.String("color"))
	if err != nil {
		return err
	}

	f, err := testpattern.New(testpattern.Kind(c.String("kind")), c.Int("width"), c.Int("height"), format, fill)
	if err != nil {
		return err
	}

	if err := engine.New(log, engine.WithFileSystem(osfilesystem.New())).Save(f, path, kind); err != nil {
		return err
	}
	log.Info("Wrote %s pattern to %s", c.String("kind"), path)
	return nil
}

func formatFor(kind engine.ExportKind) frame.PixelFormat {
	switch kind {
	case engine.ArbitraryMap:
		return frame.PackedRGBA
	case engine.Graymap:
		return frame.Gray8
	}
	return frame.PackedRGB
}

// =============================================================================
// version
// =============================================================================

func versionCommand() *cli.Command {
	return &cli.Command{
		Name:  "version",
		Usage: l10n.T("Show version information"),
		Action: func(c *cli.Context) error {
			w := c.App.Writer
			fmt.Fprintln(w, l10n.F("frameshot version %s", version))
			libavState := l10n.T("not available (built without cgo)")
			if libav.Available() {
				libavState = l10n.T("available")
			}
			fmt.Fprintf(w, "  libav: %s\n", libavState)
			fmt.Fprintf(w, "  mpeg1: %s\n", l10n.T("available"))
			return nil
		},
	}
}
