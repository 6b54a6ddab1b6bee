// Package nullsink provides a frame sink that discards everything. Used for
// dry runs that only count and inspect frames.
package nullsink

import (
	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

// Sink is a no-op implementation of ports.FrameSink.
type Sink struct{}

// New creates a new NullSink.
func New() *Sink {
	return &Sink{}
}

// Enabled returns false as this sink discards all output.
func (s *Sink) Enabled() bool {
	return false
}

func (s *Sink) SaveFrame(index int, f *frame.Frame) (string, error) {
	return "", nil
}

func (s *Sink) SaveSheet(name string, data []byte) (string, error) {
	return "", nil
}

func (s *Sink) SaveManifest(name string, data []byte) (string, error) {
	return "", nil
}

var _ ports.FrameSink = (*Sink)(nil)
