package vg

import "image"

// Backend executes recorded frames on a concrete device.
//
// Render must interpret every Flavor, issue draws in command order and must
// not retain verts after it returns. ImageInfo is called synchronously while
// commands are recorded.
type Backend interface {
	ImageInfoer

	// SetSize resizes the render target. dpi is the device pixel ratio.
	SetSize(width, height int, dpi float32)

	// SetTarget directs following frames and ClearRect calls to t. Image
	// targets must be RGBA; their content becomes premultiplied and the
	// image is flagged ImagePremultiplied.
	SetTarget(t RenderTarget) error

	// ClearRect fills the rectangle with c, ignoring blending and stencil.
	ClearRect(x, y, width, height int, c Color) error

	// Render executes one frame.
	Render(verts []Vertex, cmds []Command) error

	// CreateImage allocates an uninitialized texture.
	CreateImage(typ TextureType, width, height int, flags ImageFlags) (ImageID, error)

	// UpdateImage uploads src into the texture with its top-left at (x, y).
	// src bounds select the sub-rectangle size.
	UpdateImage(id ImageID, src image.Image, x, y int) error

	// DeleteImage releases the texture.
	DeleteImage(id ImageID) error
}
