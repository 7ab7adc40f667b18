package software

import "errors"

var (
	// ErrOutOfBounds is returned when an upload or clear rectangle does not
	// fit its destination.
	ErrOutOfBounds = errors.New("software: rectangle out of bounds")

	// ErrUnsupportedTexture is returned for unknown texture types.
	ErrUnsupportedTexture = errors.New("software: unsupported texture type")

	// ErrUnknownFlavor is returned when a command carries a flavor the
	// backend cannot draw.
	ErrUnknownFlavor = errors.New("software: unknown command flavor")
)
