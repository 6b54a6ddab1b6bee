//go:build !cgo

package libav

import "github.com/user/frameshot/pkg/ports"

// Available reports whether the backend can be used.
func Available() bool { return false }

// Backend is a placeholder so callers compile without cgo.
type Backend struct{}

// New always fails without cgo.
func New() (*Backend, error) {
	return nil, ErrUnavailable
}

func (b *Backend) Name() string { return Name }

func (b *Backend) Probe(path string) (ports.Container, error) {
	return nil, ErrUnavailable
}

func (b *Backend) NewConverter(key ports.ConverterKey) (ports.Converter, error) {
	return nil, ErrUnavailable
}

var _ ports.CodecBackend = (*Backend)(nil)
