package vg

import "math"

// LineCap specifies the shape of line endpoints.
type LineCap int

const (
	// LineCapButt specifies a flat line cap.
	LineCapButt LineCap = iota
	// LineCapRound specifies a rounded line cap.
	LineCapRound
	// LineCapSquare specifies a square line cap.
	LineCapSquare
)

// LineJoin specifies the shape of line joins.
type LineJoin int

const (
	// LineJoinMiter specifies a sharp (mitered) join.
	LineJoinMiter LineJoin = iota
	// LineJoinRound specifies a rounded join.
	LineJoinRound
	// LineJoinBevel specifies a beveled join.
	LineJoinBevel
)

// FillRule specifies how to determine which areas are inside a path.
type FillRule int

const (
	// FillRuleNonZero uses the non-zero winding rule.
	FillRuleNonZero FillRule = iota
	// FillRuleEvenOdd uses the even-odd rule.
	FillRuleEvenOdd
)

// Paint describes how a fill or stroke is colored and shaped.
//
// Color fills, gradients and image patterns share one representation: a
// rounded box of half-size Extent and corner Radius, placed by Transform,
// blended from InnerColor to OuterColor over Feather pixels.
type Paint struct {
	Transform  Matrix
	Extent     [2]float32
	Radius     float32
	Feather    float32
	InnerColor Color
	OuterColor Color

	// Image samples a backend texture instead of the gradient when non-zero.
	Image ImageID

	// AntiAlias enables fringe geometry for shape edges.
	AntiAlias bool

	StrokeWidth float32
	MiterLimit  float32
	LineCap     LineCap
	LineJoin    LineJoin
	FillRule    FillRule
}

// NewColorPaint creates a solid color paint.
func NewColorPaint(c Color) *Paint {
	p := defaultPaint()
	p.InnerColor = c
	p.OuterColor = c
	return p
}

func defaultPaint() *Paint {
	return &Paint{
		Transform:   Identity(),
		Feather:     1,
		AntiAlias:   true,
		StrokeWidth: 1,
		MiterLimit:  10,
		LineCap:     LineCapButt,
		LineJoin:    LineJoinMiter,
		FillRule:    FillRuleNonZero,
	}
}

// LinearGradient creates a gradient from (sx, sy) to (ex, ey).
func LinearGradient(sx, sy, ex, ey float32, start, end Color) *Paint {
	const large = 1e5

	dx := ex - sx
	dy := ey - sy
	d := float32(math.Hypot(float64(dx), float64(dy)))
	if d > 0.0001 {
		dx /= d
		dy /= d
	} else {
		dx, dy = 0, 1
	}

	p := defaultPaint()
	p.Transform = Matrix{
		A: dy, B: dx, C: sx - dx*large,
		D: -dx, E: dy, F: sy - dy*large,
	}
	p.Extent = [2]float32{large, large + d*0.5}
	p.Feather = max(1, d)
	p.InnerColor = start
	p.OuterColor = end
	return p
}

// RadialGradient creates a gradient between two circles centered at
// (cx, cy).
func RadialGradient(cx, cy, inner, outer float32, start, end Color) *Paint {
	r := (inner + outer) * 0.5
	p := defaultPaint()
	p.Transform = Translate(cx, cy)
	p.Extent = [2]float32{r, r}
	p.Radius = r
	p.Feather = max(1, outer-inner)
	p.InnerColor = start
	p.OuterColor = end
	return p
}

// BoxGradient creates a feathered rounded rectangle, useful for shadows.
func BoxGradient(x, y, w, h, radius, feather float32, inner, outer Color) *Paint {
	p := defaultPaint()
	p.Transform = Translate(x+w*0.5, y+h*0.5)
	p.Extent = [2]float32{w * 0.5, h * 0.5}
	p.Radius = radius
	p.Feather = max(1, feather)
	p.InnerColor = inner
	p.OuterColor = outer
	return p
}

// ImagePattern creates a paint that samples img. (cx, cy) is the top-left
// of the pattern, (w, h) one tile, angle its rotation in radians.
func ImagePattern(cx, cy, w, h, angle float32, img ImageID, alpha float32) *Paint {
	p := defaultPaint()
	p.Transform = Rotate(angle)
	p.Transform.C = cx
	p.Transform.F = cy
	p.Extent = [2]float32{w, h}
	p.Image = img
	p.InnerColor = RGBA(1, 1, 1, alpha)
	p.OuterColor = p.InnerColor
	return p
}

// Clone creates a copy of the Paint.
func (p *Paint) Clone() *Paint {
	c := *p
	return &c
}
