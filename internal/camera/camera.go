// Package camera abstracts the device camera capability. A Stream must be
// stopped as soon as the flow is done with it; holding it leaks the
// hardware resource.
package camera

import (
	"context"
	"errors"
	"image"
)

var (
	ErrPermissionDenied = errors.New("camera permission denied")
	ErrNoDevice         = errors.New("no camera device available")
)

// Provider acquires a live camera stream.
type Provider interface {
	Open(ctx context.Context) (Stream, error)
}

// Stream is an open camera. Frame returns the current frame at the
// stream's native resolution. Stop releases the device; it must be
// idempotent and safe to call after any failure.
type Stream interface {
	Frame(ctx context.Context) (image.Image, error)
	Stop()
}
