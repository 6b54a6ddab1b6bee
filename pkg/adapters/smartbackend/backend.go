// Package smartbackend picks a codec backend for a file, either by name or
// by sniffing the container header.
package smartbackend

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/user/frameshot/pkg/adapters/libav"
	"github.com/user/frameshot/pkg/adapters/mp4probe"
	"github.com/user/frameshot/pkg/adapters/mpeg1"
	"github.com/user/frameshot/pkg/ports"
)

// Container is a sniffed container family.
type Container string

const (
	ContainerMPEGPS  Container = "mpeg-ps"
	ContainerMPEGES  Container = "mpeg-video"
	ContainerMP4     Container = "mp4"
	ContainerUnknown Container = "unknown"
)

// Choice names a backend selection.
type Choice string

const (
	ChoiceAuto  Choice = "auto"
	ChoiceLibav Choice = "libav"
	ChoiceMPEG1 Choice = "mpeg1"
)

var (
	// ErrUnknownBackend is returned for an unrecognized backend name.
	ErrUnknownBackend = errors.New("smartbackend: unknown backend")
	// ErrNoBackend is returned when no available backend can read the file.
	ErrNoBackend = errors.New("smartbackend: no backend available")
)

var (
	mpegPackHeader     = []byte{0x00, 0x00, 0x01, 0xBA}
	mpegSequenceHeader = []byte{0x00, 0x00, 0x01, 0xB3}
)

// ParseChoice parses "auto", "libav" or "mpeg1". Empty means auto.
func ParseChoice(s string) (Choice, error) {
	switch c := Choice(s); c {
	case "":
		return ChoiceAuto, nil
	case ChoiceAuto, ChoiceLibav, ChoiceMPEG1:
		return c, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownBackend, s)
}

// Sniff classifies a container from its first bytes.
func Sniff(header []byte) Container {
	switch {
	case bytes.HasPrefix(header, mpegPackHeader):
		return ContainerMPEGPS
	case bytes.HasPrefix(header, mpegSequenceHeader):
		return ContainerMPEGES
	case mp4probe.Sniff(header):
		return ContainerMP4
	}
	return ContainerUnknown
}

// SniffFile reads the header of path and classifies it.
func SniffFile(path string) (Container, error) {
	f, err := os.Open(path)
	if err != nil {
		return ContainerUnknown, err
	}
	defer f.Close()

	header := make([]byte, 12)
	n, err := io.ReadFull(f, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return ContainerUnknown, err
	}
	return Sniff(header[:n]), nil
}

// New returns the backend for the choice. ChoiceAuto returns a *Backend that
// dispatches per file.
func New(choice Choice, log ports.Logger) (ports.CodecBackend, error) {
	switch choice {
	case ChoiceLibav:
		b, err := libav.New()
		if err != nil {
			return nil, err
		}
		return b, nil
	case ChoiceMPEG1:
		return mpeg1.New(), nil
	case ChoiceAuto, "":
		return NewAuto(log), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, choice)
}

// Backend dispatches Probe to the backend matching the file's container and
// routes converters to the backend that produced the last container. Like
// the decoder, it is meant to be used by one goroutine.
type Backend struct {
	log    ports.Logger
	libav  ports.CodecBackend
	mpeg1  ports.CodecBackend
	active ports.CodecBackend
}

// NewAuto creates an auto-selecting backend. libav is used when the build
// supports it.
func NewAuto(log ports.Logger) *Backend {
	b := &Backend{
		log:   log.WithComponent("backend"),
		mpeg1: mpeg1.New(),
	}
	if lb, err := libav.New(); err == nil {
		b.libav = lb
	}
	return b
}

// newWith is used by tests to inject backends.
func newWith(log ports.Logger, libavBackend, mpeg1Backend ports.CodecBackend) *Backend {
	return &Backend{log: log.WithComponent("backend"), libav: libavBackend, mpeg1: mpeg1Backend}
}

// Name returns "auto" until a file was probed, then "auto/<backend>".
func (b *Backend) Name() string {
	if b.active == nil {
		return string(ChoiceAuto)
	}
	return string(ChoiceAuto) + "/" + b.active.Name()
}

// Select returns the backend that would be used for path.
func (b *Backend) Select(path string) (ports.CodecBackend, Container, error) {
	kind, err := SniffFile(path)
	if err != nil {
		return nil, ContainerUnknown, fmt.Errorf("%w: %w", ports.ErrProbeContainer, err)
	}

	// The pure Go decoder only demuxes program streams. Bare video
	// elementary streams have no pack header and need libav.
	if kind == ContainerMPEGPS {
		return b.mpeg1, kind, nil
	}

	if b.libav != nil {
		return b.libav, kind, nil
	}

	if kind == ContainerMP4 {
		if report, perr := mp4probe.ProbeFile(path); perr == nil {
			if video, ok := report.Video(); ok {
				return nil, kind, fmt.Errorf("%w: %s video in MP4 needs the libav backend", ErrNoBackend, video.Codec)
			}
		}
	}
	return nil, kind, fmt.Errorf("%w: %s container needs the libav backend", ErrNoBackend, kind)
}

func (b *Backend) Probe(path string) (ports.Container, error) {
	backend, kind, err := b.Select(path)
	if err != nil {
		if errors.Is(err, ports.ErrProbeContainer) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ports.ErrProbeContainer, err)
	}

	b.log.Debug("Using %s backend for %s container", backend.Name(), kind)
	c, err := backend.Probe(path)
	if err != nil {
		return nil, err
	}
	b.active = backend
	return c, nil
}

func (b *Backend) NewConverter(key ports.ConverterKey) (ports.Converter, error) {
	if b.active == nil {
		return nil, fmt.Errorf("%w: no container probed yet", ErrNoBackend)
	}
	return b.active.NewConverter(key)
}

var _ ports.CodecBackend = (*Backend)(nil)
