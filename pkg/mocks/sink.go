package mocks

import (
	"fmt"
	"sync"

	"github.com/user/frameshot/pkg/frame"
	"github.com/user/frameshot/pkg/ports"
)

// FrameSink is a mock implementation of ports.FrameSink.
type FrameSink struct {
	mu sync.RWMutex

	enabled bool

	Frames    map[int]*frame.Frame
	Order     []int
	Sheets    map[string][]byte
	Manifests map[string][]byte

	SaveFrameFunc func(index int, f *frame.Frame) (string, error)
}

// NewFrameSink creates a new mock FrameSink.
func NewFrameSink(enabled bool) *FrameSink {
	return &FrameSink{
		enabled:   enabled,
		Frames:    make(map[int]*frame.Frame),
		Sheets:    make(map[string][]byte),
		Manifests: make(map[string][]byte),
	}
}

func (m *FrameSink) Enabled() bool {
	return m.enabled
}

// SaveFrame stores a clone, since callers reuse their frame buffers.
func (m *FrameSink) SaveFrame(index int, f *frame.Frame) (string, error) {
	if m.SaveFrameFunc != nil {
		return m.SaveFrameFunc(index, f)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Frames[index] = f.Clone()
	m.Order = append(m.Order, index)
	return fmt.Sprintf("frame_%06d", index), nil
}

func (m *FrameSink) SaveSheet(name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sheets[name] = data
	return name, nil
}

func (m *FrameSink) SaveManifest(name string, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Manifests[name] = data
	return name, nil
}

var _ ports.FrameSink = (*FrameSink)(nil)
