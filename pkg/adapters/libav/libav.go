// Package libav is a codec backend over FFmpeg's libavformat, libavcodec and
// libswscale. It needs cgo and the FFmpeg development packages; without cgo
// Available reports false and every call fails with ErrUnavailable.
package libav

import "errors"

// Name is the backend identifier.
const Name = "libav"

// ErrUnavailable is returned when the binary was built without cgo.
var ErrUnavailable = errors.New("libav: backend not available in this build")
