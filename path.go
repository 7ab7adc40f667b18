package vg

import "math"

// Point is a 2D point in pixel space.
type Point struct {
	X, Y float32
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float32) Point { return Point{X: x, Y: y} }

// Solidity selects whether a subpath adds area or cuts a hole. It forces the
// winding of the flattened contour regardless of drawing direction.
type Solidity int

const (
	// Solid subpaths are wound counter-clockwise.
	Solid Solidity = iota + 1
	// Hole subpaths are wound clockwise.
	Hole
)

// PathElement represents a single element in a path.
type PathElement interface {
	isPathElement()
}

// MoveTo starts a new subpath.
type MoveTo struct {
	Point Point
}

func (MoveTo) isPathElement() {}

// LineTo draws a line to a point.
type LineTo struct {
	Point Point
}

func (LineTo) isPathElement() {}

// QuadTo draws a quadratic Bezier curve.
type QuadTo struct {
	Control Point
	Point   Point
}

func (QuadTo) isPathElement() {}

// CubicTo draws a cubic Bezier curve.
type CubicTo struct {
	Control1 Point
	Control2 Point
	Point    Point
}

func (CubicTo) isPathElement() {}

// Close closes the current subpath.
type Close struct{}

func (Close) isPathElement() {}

// Winding sets the solidity of the current subpath.
type Winding struct {
	Solidity Solidity
}

func (Winding) isPathElement() {}

// Path represents a vector path in pixel space.
type Path struct {
	elements []PathElement
	start    Point
	current  Point
}

// NewPath creates a new empty path.
func NewPath() *Path {
	return &Path{
		elements: make([]PathElement, 0, 16),
	}
}

// MoveTo starts a new subpath at (x, y).
func (p *Path) MoveTo(x, y float32) {
	pt := Pt(x, y)
	p.elements = append(p.elements, MoveTo{Point: pt})
	p.start = pt
	p.current = pt
}

// LineTo draws a line to (x, y).
func (p *Path) LineTo(x, y float32) {
	pt := Pt(x, y)
	p.elements = append(p.elements, LineTo{Point: pt})
	p.current = pt
}

// QuadTo draws a quadratic Bezier curve.
func (p *Path) QuadTo(cx, cy, x, y float32) {
	pt := Pt(x, y)
	p.elements = append(p.elements, QuadTo{Control: Pt(cx, cy), Point: pt})
	p.current = pt
}

// CubicTo draws a cubic Bezier curve.
func (p *Path) CubicTo(c1x, c1y, c2x, c2y, x, y float32) {
	pt := Pt(x, y)
	p.elements = append(p.elements, CubicTo{
		Control1: Pt(c1x, c1y),
		Control2: Pt(c2x, c2y),
		Point:    pt,
	})
	p.current = pt
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.elements = append(p.elements, Close{})
	p.current = p.start
}

// SetSolidity marks the current subpath as solid or as a hole.
func (p *Path) SetSolidity(s Solidity) {
	p.elements = append(p.elements, Winding{Solidity: s})
}

// Clear removes all elements from the path.
func (p *Path) Clear() {
	p.elements = p.elements[:0]
	p.start = Point{}
	p.current = Point{}
}

// Elements returns the path elements.
func (p *Path) Elements() []PathElement {
	return p.elements
}

// CurrentPoint returns the current point.
func (p *Path) CurrentPoint() Point {
	return p.current
}

// IsEmpty reports whether the path has no elements.
func (p *Path) IsEmpty() bool {
	return len(p.elements) == 0
}

// Transform returns a copy of the path with every point mapped through m.
func (p *Path) Transform(m Matrix) *Path {
	tp := func(pt Point) Point {
		x, y := m.TransformPoint(pt.X, pt.Y)
		return Pt(x, y)
	}
	result := NewPath()
	for _, elem := range p.elements {
		switch e := elem.(type) {
		case MoveTo:
			e.Point = tp(e.Point)
			result.elements = append(result.elements, e)
		case LineTo:
			e.Point = tp(e.Point)
			result.elements = append(result.elements, e)
		case QuadTo:
			e.Control, e.Point = tp(e.Control), tp(e.Point)
			result.elements = append(result.elements, e)
		case CubicTo:
			e.Control1, e.Control2, e.Point = tp(e.Control1), tp(e.Control2), tp(e.Point)
			result.elements = append(result.elements, e)
		default:
			result.elements = append(result.elements, e)
		}
	}
	result.start = tp(p.start)
	result.current = tp(p.current)
	return result
}

// Rect adds a rectangle subpath.
func (p *Path) Rect(x, y, w, h float32) {
	p.MoveTo(x, y)
	p.LineTo(x, y+h)
	p.LineTo(x+w, y+h)
	p.LineTo(x+w, y)
	p.Close()
}

// kappa90 is the cubic control length for a quarter circle.
const kappa90 = 0.5522847493

// Ellipse adds an ellipse subpath.
func (p *Path) Ellipse(cx, cy, rx, ry float32) {
	ox := rx * kappa90
	oy := ry * kappa90

	p.MoveTo(cx-rx, cy)
	p.CubicTo(cx-rx, cy+oy, cx-ox, cy+ry, cx, cy+ry)
	p.CubicTo(cx+ox, cy+ry, cx+rx, cy+oy, cx+rx, cy)
	p.CubicTo(cx+rx, cy-oy, cx+ox, cy-ry, cx, cy-ry)
	p.CubicTo(cx-ox, cy-ry, cx-rx, cy-oy, cx-rx, cy)
	p.Close()
}

// Circle adds a circle subpath.
func (p *Path) Circle(cx, cy, r float32) {
	p.Ellipse(cx, cy, r, r)
}

// RoundedRect adds a rectangle with rounded corners. The radius is clamped
// to half of the smaller side.
func (p *Path) RoundedRect(x, y, w, h, r float32) {
	if r < 0.1 {
		p.Rect(x, y, w, h)
		return
	}
	r = min(r, min(abs32(w), abs32(h))*0.5)
	rx := r * sign32(w)
	ry := r * sign32(h)
	const k = 1 - kappa90

	p.MoveTo(x, y+ry)
	p.LineTo(x, y+h-ry)
	p.CubicTo(x, y+h-ry*k, x+rx*k, y+h, x+rx, y+h)
	p.LineTo(x+w-rx, y+h)
	p.CubicTo(x+w-rx*k, y+h, x+w, y+h-ry*k, x+w, y+h-ry)
	p.LineTo(x+w, y+ry)
	p.CubicTo(x+w, y+ry*k, x+w-rx*k, y, x+w-rx, y)
	p.LineTo(x+rx, y)
	p.CubicTo(x+rx*k, y, x, y+ry*k, x, y+ry)
	p.Close()
}

// Arc adds a circular arc around (cx, cy) from angle a0 to a1 (radians,
// clockwise in screen space). The arc starts a new subpath if the path is
// empty, otherwise it connects with a line from the current point.
func (p *Path) Arc(cx, cy, r, a0, a1 float32) {
	da := float64(a1 - a0)
	if math.Abs(da) >= 2*math.Pi {
		da = 2 * math.Pi
	} else {
		for da < 0 {
			da += 2 * math.Pi
		}
	}

	ndivs := max(1, min(5, int(math.Abs(da)/(math.Pi*0.5)+0.5)))
	hda := da / float64(ndivs) / 2
	kappa := math.Abs(4.0 / 3.0 * (1 - math.Cos(hda)) / math.Sin(hda))

	var px, py, ptanx, ptany float64
	for i := 0; i <= ndivs; i++ {
		a := float64(a0) + da*float64(i)/float64(ndivs)
		dy, dx := math.Sincos(a)
		x := float64(cx) + dx*float64(r)
		y := float64(cy) + dy*float64(r)
		tanx := -dy * float64(r) * kappa
		tany := dx * float64(r) * kappa

		switch {
		case i > 0:
			p.CubicTo(float32(px+ptanx), float32(py+ptany), float32(x-tanx), float32(y-tany), float32(x), float32(y))
		case p.IsEmpty():
			p.MoveTo(float32(x), float32(y))
		default:
			p.LineTo(float32(x), float32(y))
		}
		px, py, ptanx, ptany = x, y, tanx, tany
	}
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func sign32(v float32) float32 {
	if v < 0 {
		return -1
	}
	return 1
}
