package ports

import (
	"github.com/user/frameshot/pkg/frame"
)

// FrameSink receives frames selected by the extract stage.
type FrameSink interface {
	// Enabled reports whether frames are actually written.
	Enabled() bool

	// SaveFrame exports the frame under the given sequence number and
	// returns the path written ("" when nothing was written).
	SaveFrame(index int, f *frame.Frame) (string, error)

	// SaveSheet stores an encoded contact sheet image.
	SaveSheet(name string, data []byte) (string, error)

	// SaveManifest stores the run manifest document.
	SaveManifest(name string, data []byte) (string, error)
}
