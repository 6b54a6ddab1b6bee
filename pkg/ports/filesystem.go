package ports

import "io"

// FileSystem abstracts file system writes.
type FileSystem interface {
	// WriteFile writes data to a file, creating parent directories.
	WriteFile(path string, data []byte) error

	// Create opens path for streaming writes, truncating an existing file.
	Create(path string) (io.WriteCloser, error)

	// MkdirAll creates a directory and all parent directories.
	MkdirAll(path string) error
}
