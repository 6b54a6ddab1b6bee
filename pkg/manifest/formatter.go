package manifest

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Formatter defines the interface for rendering a Manifest.
type Formatter interface {
	// Format converts a Manifest to a document.
	Format(m *Manifest) ([]byte, error)
}

// FormatFunc is a function adapter for the Formatter interface.
type FormatFunc func(m *Manifest) ([]byte, error)

// Format implements the Formatter interface.
func (f FormatFunc) Format(m *Manifest) ([]byte, error) {
	return f(m)
}

// YAMLFormatter renders the machine-readable manifest.
type YAMLFormatter struct{}

// NewYAMLFormatter creates a YAMLFormatter.
func NewYAMLFormatter() *YAMLFormatter {
	return &YAMLFormatter{}
}

// Format implements the Formatter interface.
func (f *YAMLFormatter) Format(m *Manifest) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("manifest: encode yaml: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("manifest: encode yaml: %w", err)
	}
	return buf.Bytes(), nil
}

// Parse reads a manifest written by YAMLFormatter.
func Parse(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: parse yaml: %w", err)
	}
	return &m, nil
}

// MarkdownFormatter renders a human-readable report.
type MarkdownFormatter struct {
	translate func(string) string
	version   string
}

// MarkdownOption configures a MarkdownFormatter.
type MarkdownOption func(*MarkdownFormatter)

// WithTranslator translates headings and labels.
func WithTranslator(translate func(string) string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.translate = translate
	}
}

// WithVersion adds a footer naming the tool version.
func WithVersion(version string) MarkdownOption {
	return func(f *MarkdownFormatter) {
		f.version = version
	}
}

// NewMarkdownFormatter creates a MarkdownFormatter.
func NewMarkdownFormatter(opts ...MarkdownOption) *MarkdownFormatter {
	f := &MarkdownFormatter{
		translate: func(s string) string { return s },
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Format implements the Formatter interface.
func (f *MarkdownFormatter) Format(m *Manifest) ([]byte, error) {
	t := f.translate
	var sb strings.Builder

	fmt.Fprintf(&sb, "# %s\n\n", t("Extraction Manifest"))

	row := func(label, value string) {
		fmt.Fprintf(&sb, "| %s | %s |\n", t(label), value)
	}
	table := func() {
		fmt.Fprintf(&sb, "| %s | %s |\n|---|---|\n", t("Item"), t("Value"))
	}

	table()
	row("Run ID", m.RunID)
	row("Generated At", m.GeneratedAt.Format(time.RFC3339))
	row("Input", m.Input.Path)
	row("Backend", m.Input.Backend)
	sb.WriteString("\n")

	s := m.Input.Stream
	fmt.Fprintf(&sb, "## %s\n\n", t("Stream"))
	table()
	row("Stream Index", fmt.Sprintf("%d", s.Index))
	row("Codec", s.Codec)
	row("Resolution", fmt.Sprintf("%dx%d", s.Width, s.Height))
	row("Frame Rate", formatRate(s.FrameRate, t))
	row("Duration", formatDuration(s.DurationMs, t))
	row("Frame Count", formatCount(s.FrameCount, t))
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "## %s\n\n", t("Settings"))
	table()
	row("Pixel Format", m.Settings.Format)
	export := m.Settings.Export
	if export == "" {
		export = t("auto")
	}
	row("Export Format", export)
	row("Every", fmt.Sprintf("%d", m.Settings.Every))
	if m.Settings.MaxFrames > 0 {
		row("Max Frames", fmt.Sprintf("%d", m.Settings.MaxFrames))
	}
	row("Grayscale", formatBool(m.Settings.Grayscale, t))
	sb.WriteString("\n")

	o := m.Output
	fmt.Fprintf(&sb, "## %s\n\n", t("Output"))
	table()
	row("Frames Decoded", fmt.Sprintf("%d", o.FramesDecoded))
	row("Frames Saved", fmt.Sprintf("%d", o.FramesSaved))
	row("Packets Read", fmt.Sprintf("%d", o.PacketsRead))
	row("Packets Skipped", fmt.Sprintf("%d", o.PacketsSkipped))
	row("Decode Errors", fmt.Sprintf("%d", o.DecodeErrors))
	if o.ContactSheet != "" {
		row("Contact Sheet", o.ContactSheet)
	}
	sb.WriteString("\n")

	if len(o.Frames) > 0 {
		fmt.Fprintf(&sb, "## %s\n\n", t("Frames"))
		fmt.Fprintf(&sb, "| # | %s | PTS | %s |\n|---|---|---|---|\n", t("Frame"), t("File"))
		for _, e := range o.Frames {
			path := e.Path
			if path == "" {
				path = "-"
			}
			fmt.Fprintf(&sb, "| %d | %d | %d | %s |\n", e.Index, e.Frame, e.PTS, path)
		}
		sb.WriteString("\n")
	}

	if f.version != "" {
		fmt.Fprintf(&sb, "---\n\n%s\n", fmt.Sprintf(t("Generated by frameshot %s"), f.version))
	}

	return []byte(sb.String()), nil
}

func formatRate(fps float64, t func(string) string) string {
	if fps <= 0 {
		return t("N/A")
	}
	return fmt.Sprintf("%.3f fps", fps)
}

func formatDuration(ms int64, t func(string) string) string {
	if ms <= 0 {
		return t("N/A")
	}
	return fmt.Sprintf("%.2f s", float64(ms)/1000)
}

func formatCount(n int64, t func(string) string) string {
	if n <= 0 {
		return t("N/A")
	}
	return fmt.Sprintf("%d", n)
}

func formatBool(v bool, t func(string) string) string {
	if v {
		return t("yes")
	}
	return t("no")
}
