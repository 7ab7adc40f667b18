package vg

// Scissor is an oriented clip rectangle. Transform places the rectangle's
// center; Extent holds its half-size. An extent below -0.5 on either axis
// disables clipping.
type Scissor struct {
	Transform Matrix
	Extent    [2]float32
}

// NoScissor returns a scissor that clips nothing.
func NoScissor() *Scissor {
	return &Scissor{Transform: Identity(), Extent: [2]float32{-1, -1}}
}

// NewScissor returns an axis-aligned scissor for the rectangle (x, y, w, h)
// transformed by m.
func NewScissor(x, y, w, h float32, m Matrix) *Scissor {
	w = max(0, w)
	h = max(0, h)
	return &Scissor{
		Transform: m.Multiply(Translate(x+w*0.5, y+h*0.5)),
		Extent:    [2]float32{w * 0.5, h * 0.5},
	}
}

// Enabled reports whether the scissor clips.
func (s *Scissor) Enabled() bool {
	return s != nil && s.Extent[0] >= -0.5 && s.Extent[1] >= -0.5
}
