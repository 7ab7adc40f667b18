// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package pathcache flattens vector paths into polylines and expands them
// into the fill fans and stroke strips consumed by the command assembler.
//
// A Cache is built once per draw call from the path commands. ExpandFill and
// ExpandStroke may then be called to produce per-contour vertex rings, with
// antialias fringe geometry when a fringe width is given.
package pathcache

import "math"

// Verb identifies a path command.
type Verb uint8

const (
	// VerbMoveTo starts a new subpath at P[0].
	VerbMoveTo Verb = iota
	// VerbLineTo adds a line to P[0].
	VerbLineTo
	// VerbQuadTo adds a quadratic curve with control P[0] ending at P[1].
	VerbQuadTo
	// VerbCubicTo adds a cubic curve with controls P[0], P[1] ending at P[2].
	VerbCubicTo
	// VerbClose closes the current subpath.
	VerbClose
	// VerbWinding forces the winding of the current subpath.
	VerbWinding
)

// Point is a 2D point.
type Point struct {
	X, Y float32
}

// Command is one path verb with its points.
type Command struct {
	Verb    Verb
	P       [3]Point
	Winding Winding
}

// Winding is the enforced orientation of a flattened subpath.
type Winding uint8

const (
	// CCW is the winding of solid shapes.
	CCW Winding = iota + 1
	// CW is the winding of holes.
	CW
)

// Cap is the stroke end style.
type Cap uint8

const (
	CapButt Cap = iota
	CapRound
	CapSquare
)

// Join is the stroke corner style.
type Join uint8

const (
	JoinMiter Join = iota
	JoinRound
	JoinBevel
)

// Vertex is an expanded vertex: position plus coverage coordinates.
type Vertex struct {
	X, Y, U, V float32
}

// Contour is the expansion of one subpath. Fill is a triangle fan, Stroke a
// triangle strip; either may be empty.
type Contour struct {
	Fill   []Vertex
	Stroke []Vertex
	Convex bool
	Closed bool
}

type pointFlags uint8

const (
	ptCorner pointFlags = 1 << iota
	ptLeft
	ptBevel
	ptInnerBevel
)

type point struct {
	x, y     float32
	dx, dy   float32
	len      float32
	dmx, dmy float32
	flags    pointFlags
}

type subpath struct {
	first   int
	count   int
	closed  bool
	nbevel  int
	winding Winding
	convex  bool
}

// maxBezierLevel bounds curve subdivision depth.
const maxBezierLevel = 10

// Cache holds the flattened form of one path.
type Cache struct {
	points  []point
	paths   []subpath
	bounds  [4]float32
	tessTol float32
	distTol float32
}

// New flattens cmds. tessTol bounds the curve flattening error and distTol
// merges points closer than it.
func New(cmds []Command, tessTol, distTol float32) *Cache {
	c := &Cache{tessTol: tessTol, distTol: distTol}
	c.flatten(cmds)
	return c
}

// Bounds returns the bounding box [minX, minY, maxX, maxY] of all points.
// A cache without points reports a zero box.
func (c *Cache) Bounds() [4]float32 {
	return c.bounds
}

// Len returns the number of subpaths.
func (c *Cache) Len() int {
	return len(c.paths)
}

func (c *Cache) flatten(cmds []Command) {
	for _, cmd := range cmds {
		switch cmd.Verb {
		case VerbMoveTo:
			c.addPath()
			c.addPoint(cmd.P[0].X, cmd.P[0].Y, ptCorner)
		case VerbLineTo:
			c.addPoint(cmd.P[0].X, cmd.P[0].Y, ptCorner)
		case VerbQuadTo:
			last, ok := c.lastPoint()
			if !ok {
				continue
			}
			cp, end := cmd.P[0], cmd.P[1]
			c1x := last.x + 2.0/3.0*(cp.X-last.x)
			c1y := last.y + 2.0/3.0*(cp.Y-last.y)
			c2x := end.X + 2.0/3.0*(cp.X-end.X)
			c2y := end.Y + 2.0/3.0*(cp.Y-end.Y)
			c.tesselateBezier(last.x, last.y, c1x, c1y, c2x, c2y, end.X, end.Y, 0, ptCorner)
		case VerbCubicTo:
			last, ok := c.lastPoint()
			if !ok {
				continue
			}
			c.tesselateBezier(last.x, last.y,
				cmd.P[0].X, cmd.P[0].Y,
				cmd.P[1].X, cmd.P[1].Y,
				cmd.P[2].X, cmd.P[2].Y, 0, ptCorner)
		case VerbClose:
			if n := len(c.paths); n > 0 {
				c.paths[n-1].closed = true
			}
		case VerbWinding:
			if n := len(c.paths); n > 0 {
				c.paths[n-1].winding = cmd.Winding
			}
		}
	}

	if len(c.points) == 0 {
		return
	}
	c.bounds = [4]float32{1e6, 1e6, -1e6, -1e6}

	for i := range c.paths {
		p := &c.paths[i]
		pts := c.points[p.first : p.first+p.count]

		if p.count > 1 {
			first, last := &pts[0], &pts[p.count-1]
			if ptEquals(last.x, last.y, first.x, first.y, c.distTol) {
				p.count--
				p.closed = true
				pts = pts[:p.count]
			}
		}

		if p.count > 2 {
			area := polyArea(pts)
			if (p.winding == CCW && area < 0) || (p.winding == CW && area > 0) {
				polyReverse(pts)
			}
		}

		for j := range pts {
			p0 := &pts[j]
			p1 := &pts[(j+1)%len(pts)]
			p0.dx = p1.x - p0.x
			p0.dy = p1.y - p0.y
			p0.len = normalize(&p0.dx, &p0.dy)

			c.bounds[0] = min(c.bounds[0], p0.x)
			c.bounds[1] = min(c.bounds[1], p0.y)
			c.bounds[2] = max(c.bounds[2], p0.x)
			c.bounds[3] = max(c.bounds[3], p0.y)
		}
	}
}

func (c *Cache) addPath() {
	c.paths = append(c.paths, subpath{first: len(c.points), winding: CCW})
}

func (c *Cache) addPoint(x, y float32, flags pointFlags) {
	if len(c.paths) == 0 {
		c.addPath()
	}
	p := &c.paths[len(c.paths)-1]

	if p.count > 0 {
		last := &c.points[len(c.points)-1]
		if ptEquals(last.x, last.y, x, y, c.distTol) {
			last.flags |= flags
			return
		}
	}

	c.points = append(c.points, point{x: x, y: y, flags: flags})
	p.count++
}

func (c *Cache) lastPoint() (point, bool) {
	if len(c.paths) == 0 || c.paths[len(c.paths)-1].count == 0 {
		return point{}, false
	}
	return c.points[len(c.points)-1], true
}

// tesselateBezier subdivides a cubic until it is flat within tessTol.
func (c *Cache) tesselateBezier(x1, y1, x2, y2, x3, y3, x4, y4 float32, level int, flags pointFlags) {
	if level > maxBezierLevel {
		return
	}

	x12 := (x1 + x2) * 0.5
	y12 := (y1 + y2) * 0.5
	x23 := (x2 + x3) * 0.5
	y23 := (y2 + y3) * 0.5
	x34 := (x3 + x4) * 0.5
	y34 := (y3 + y4) * 0.5
	x123 := (x12 + x23) * 0.5
	y123 := (y12 + y23) * 0.5

	dx := x4 - x1
	dy := y4 - y1
	d2 := abs((x2-x4)*dy - (y2-y4)*dx)
	d3 := abs((x3-x4)*dy - (y3-y4)*dx)

	if (d2+d3)*(d2+d3) < c.tessTol*(dx*dx+dy*dy) {
		c.addPoint(x4, y4, flags)
		return
	}

	x234 := (x23 + x34) * 0.5
	y234 := (y23 + y34) * 0.5
	x1234 := (x123 + x234) * 0.5
	y1234 := (y123 + y234) * 0.5

	c.tesselateBezier(x1, y1, x12, y12, x123, y123, x1234, y1234, level+1, 0)
	c.tesselateBezier(x1234, y1234, x234, y234, x34, y34, x4, y4, level+1, flags)
}

func ptEquals(x1, y1, x2, y2, tol float32) bool {
	dx := x2 - x1
	dy := y2 - y1
	return dx*dx+dy*dy < tol*tol
}

func polyArea(pts []point) float32 {
	var area float32
	for i := 2; i < len(pts); i++ {
		a, b, c := pts[0], pts[i-1], pts[i]
		area += triArea2(a.x, a.y, b.x, b.y, c.x, c.y)
	}
	return area * 0.5
}

func triArea2(ax, ay, bx, by, cx, cy float32) float32 {
	abx := bx - ax
	aby := by - ay
	acx := cx - ax
	acy := cy - ay
	return acx*aby - abx*acy
}

func polyReverse(pts []point) {
	for i, j := 0, len(pts)-1; i < j; i, j = i+1, j-1 {
		pts[i], pts[j] = pts[j], pts[i]
	}
}

func normalize(x, y *float32) float32 {
	d := float32(math.Sqrt(float64(*x**x + *y**y)))
	if d > 1e-6 {
		id := 1 / d
		*x *= id
		*y *= id
	}
	return d
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
