package vg

import "errors"

var (
	// ErrImageNotFound is returned when a paint or backend call references
	// an image the backend does not know about.
	ErrImageNotFound = errors.New("vg: image not found")

	// ErrInvalidImageSize is returned when an image is created with a
	// non-positive width or height.
	ErrInvalidImageSize = errors.New("vg: invalid image size")

	// ErrImageIsTarget is returned when a command samples the image it is
	// being rendered into.
	ErrImageIsTarget = errors.New("vg: image is the current render target")

	// ErrNilPaint is returned when Fill, Stroke or Triangles receive a nil paint.
	ErrNilPaint = errors.New("vg: nil paint")
)
