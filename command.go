package vg

// Vertex is a position plus two coverage coordinates. U runs across a stroke
// or fringe (0 and 1 at the edges, 0.5 at the center); V is 0 on the outer
// edge of antialiased caps and 1 elsewhere. Textured triangles use (U, V) as
// plain texture coordinates.
type Vertex struct {
	X, Y, U, V float32
}

// Span is a half-open range [Offset, Offset+Count) into the frame vertex
// buffer. A zero Count means the range is absent.
type Span struct {
	Offset, Count int
}

// Present reports whether the span holds any vertices.
func (s Span) Present() bool { return s.Count > 0 }

// End returns the index one past the last vertex.
func (s Span) End() int { return s.Offset + s.Count }

// Drawable holds the vertex ranges produced for one contour. Fill vertices
// form a triangle fan, stroke vertices a triangle strip.
type Drawable struct {
	Fill   Span
	Stroke Span
}

// Flavor is the drawing strategy of a Command. The set of implementations
// is closed: ConvexFill, ConcaveFill, Stroke, StencilStroke and Triangles.
type Flavor interface {
	isFlavor()
}

// ConvexFill draws a single convex contour without touching the stencil
// buffer: fill fans, then the half-width fringe strips.
type ConvexFill struct {
	Params Params
}

// ConcaveFill draws arbitrary paths in two passes. FillParams (simple shader
// mode) accumulates winding in the stencil buffer, StrokeParams covers the
// antialias fringes and the bounding quad where the stencil is non-zero.
type ConcaveFill struct {
	FillParams   Params
	StrokeParams Params
}

// Stroke draws stroke strips in a single pass. Overlapping segments blend
// twice.
type Stroke struct {
	Params Params
}

// StencilStroke draws strokes without double blending. Pass2 (threshold
// 1-0.5/255) fills the stroke body and marks the stencil, Pass1 (threshold
// -1) adds the antialiased edges where the stencil is still clear, then the
// stencil is reset.
type StencilStroke struct {
	Pass1 Params
	Pass2 Params
}

// Triangles draws a raw triangle list with a texture bound.
type Triangles struct {
	Params Params
}

func (ConvexFill) isFlavor()    {}
func (ConcaveFill) isFlavor()   {}
func (Stroke) isFlavor()        {}
func (StencilStroke) isFlavor() {}
func (Triangles) isFlavor()     {}

// Command is one recorded draw. It never owns vertex data; every range
// indexes the vertex slice passed alongside it to Backend.Render.
type Command struct {
	Flavor    Flavor
	Drawables []Drawable

	// Triangles is the bounding quad (ConcaveFill, a 4-vertex strip) or the
	// raw triangle list (Triangles).
	Triangles Span

	Image     ImageID
	FillRule  FillRule
	Composite CompositeOperationState
}
