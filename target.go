package vg

// RenderTarget selects where a backend draws: its own target (the screen)
// or an RGBA image created through the same backend.
type RenderTarget struct {
	// Image is the destination image, or 0 for the screen.
	Image ImageID
}

// Screen is the backend's own render target.
var Screen = RenderTarget{}

// ImageTarget directs drawing into the image id.
func ImageTarget(id ImageID) RenderTarget {
	return RenderTarget{Image: id}
}

// IsScreen reports whether t is the backend's own target.
func (t RenderTarget) IsScreen() bool {
	return t.Image == 0
}
