//go:build !nogpu

package wgpu

import "errors"

var (
	// ErrNoDevice is returned by New when the device or queue is nil.
	ErrNoDevice = errors.New("wgpu: device and queue are required")

	// ErrNoHALProvider is returned when a device provider does not expose
	// HAL device and queue handles.
	ErrNoHALProvider = errors.New("wgpu: provider does not expose HAL types")

	// ErrNoTarget is returned when rendering before SetSize allocated a
	// render target.
	ErrNoTarget = errors.New("wgpu: no render target")

	// ErrOutOfBounds is returned when an upload or clear rectangle does not
	// fit its destination.
	ErrOutOfBounds = errors.New("wgpu: rectangle out of bounds")

	// ErrUnsupportedTexture is returned for unknown texture types.
	ErrUnsupportedTexture = errors.New("wgpu: unsupported texture type")

	// ErrUnknownFlavor is returned for commands the backend cannot draw.
	ErrUnknownFlavor = errors.New("wgpu: unknown command flavor")

	// ErrSpanOutOfRange is returned when a command references vertices
	// past the end of the frame's vertex array.
	ErrSpanOutOfRange = errors.New("wgpu: vertex span out of range")
)
