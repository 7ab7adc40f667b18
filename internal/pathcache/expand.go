// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package pathcache

import "math"

// maxDMScale caps the miter extrusion scale at very sharp corners.
const maxDMScale = 600

// ExpandFill produces a fill fan per subpath. When fringe > 0 the fan is
// inset by half the fringe and an antialias strip of width w is generated
// around it; a single convex subpath only gets the outer half of the strip.
func (c *Cache) ExpandFill(w float32, join Join, miterLimit, fringe float32) []Contour {
	woff := 0.5 * fringe
	withFringe := w > 0

	c.calculateJoins(w, join, miterLimit)
	convex := len(c.paths) == 1 && c.paths[0].convex

	contours := make([]Contour, 0, len(c.paths))
	for i := range c.paths {
		p := &c.paths[i]
		pts := c.points[p.first : p.first+p.count]
		ct := Contour{Convex: p.convex, Closed: p.closed}

		if withFringe {
			fill := make([]Vertex, 0, len(pts)+p.nbevel+1)
			for j := range pts {
				p0, p1 := &pts[(j+len(pts)-1)%len(pts)], &pts[j]
				if p1.flags&ptBevel == 0 {
					fill = vset(fill, p1.x+p1.dmx*woff, p1.y+p1.dmy*woff, 0.5, 1)
					continue
				}
				if p1.flags&ptLeft != 0 {
					fill = vset(fill, p1.x+p1.dmx*woff, p1.y+p1.dmy*woff, 0.5, 1)
				} else {
					dlx0, dly0 := p0.dy, -p0.dx
					dlx1, dly1 := p1.dy, -p1.dx
					fill = vset(fill, p1.x+dlx0*woff, p1.y+dly0*woff, 0.5, 1)
					fill = vset(fill, p1.x+dlx1*woff, p1.y+dly1*woff, 0.5, 1)
				}
			}
			ct.Fill = fill
		} else {
			fill := make([]Vertex, 0, len(pts))
			for _, pt := range pts {
				fill = vset(fill, pt.x, pt.y, 0.5, 1)
			}
			ct.Fill = fill
		}

		if withFringe && len(pts) > 0 {
			lw, rw := w+woff, w-woff
			var lu, ru float32 = 0, 1
			if convex {
				lw = woff
				lu = 0.5
			}

			stroke := make([]Vertex, 0, (len(pts)+p.nbevel*5+1)*2)
			for j := range pts {
				p0, p1 := &pts[(j+len(pts)-1)%len(pts)], &pts[j]
				if p1.flags&(ptBevel|ptInnerBevel) != 0 {
					stroke = bevelJoin(stroke, p0, p1, lw, rw, lu, ru)
				} else {
					stroke = vset(stroke, p1.x+p1.dmx*lw, p1.y+p1.dmy*lw, lu, 1)
					stroke = vset(stroke, p1.x-p1.dmx*rw, p1.y-p1.dmy*rw, ru, 1)
				}
			}
			stroke = vset(stroke, stroke[0].X, stroke[0].Y, lu, 1)
			stroke = vset(stroke, stroke[1].X, stroke[1].Y, ru, 1)
			ct.Stroke = stroke
		}

		contours = append(contours, ct)
	}
	return contours
}

// ExpandStroke produces a stroke strip of half width w per subpath with
// caps on open subpaths. fringe adds antialias falloff on both sides; with
// a zero fringe all vertices carry a centered coverage coordinate.
func (c *Cache) ExpandStroke(w, fringe float32, lineCap Cap, join Join, miterLimit, tessTol float32) []Contour {
	aa := fringe
	var u0, u1 float32 = 0, 1
	ncap := curveDivs(w, math.Pi, tessTol)

	w += aa * 0.5
	if aa == 0 {
		u0, u1 = 0.5, 0.5
	}

	c.calculateJoins(w, join, miterLimit)

	contours := make([]Contour, 0, len(c.paths))
	for i := range c.paths {
		p := &c.paths[i]
		pts := c.points[p.first : p.first+p.count]
		ct := Contour{Convex: p.convex, Closed: p.closed}
		if len(pts) < 2 {
			contours = append(contours, ct)
			continue
		}

		loop := p.closed
		n := len(pts)
		s, e := 0, n
		if !loop {
			s, e = 1, n-1
		}

		var dst []Vertex
		if join == JoinRound {
			dst = make([]Vertex, 0, (n+p.nbevel*(ncap+2)+1)*2+(ncap*2+2)*2)
		} else {
			dst = make([]Vertex, 0, (n+p.nbevel*5+1)*2+(ncap*2+2)*2)
		}

		if !loop {
			p0, p1 := &pts[0], &pts[1]
			dx, dy := p1.x-p0.x, p1.y-p0.y
			normalize(&dx, &dy)
			switch lineCap {
			case CapButt:
				dst = buttCapStart(dst, p0, dx, dy, w, -aa*0.5, aa, u0, u1)
			case CapSquare:
				dst = buttCapStart(dst, p0, dx, dy, w, w-aa, aa, u0, u1)
			case CapRound:
				dst = roundCapStart(dst, p0, dx, dy, w, ncap, u0, u1)
			}
		}

		for j := s; j < e; j++ {
			p0, p1 := &pts[(j+n-1)%n], &pts[j]
			if p1.flags&(ptBevel|ptInnerBevel) != 0 {
				if join == JoinRound {
					dst = roundJoin(dst, p0, p1, w, w, u0, u1, ncap)
				} else {
					dst = bevelJoin(dst, p0, p1, w, w, u0, u1)
				}
			} else {
				dst = vset(dst, p1.x+p1.dmx*w, p1.y+p1.dmy*w, u0, 1)
				dst = vset(dst, p1.x-p1.dmx*w, p1.y-p1.dmy*w, u1, 1)
			}
		}

		if loop {
			dst = vset(dst, dst[0].X, dst[0].Y, u0, 1)
			dst = vset(dst, dst[1].X, dst[1].Y, u1, 1)
		} else {
			p0, p1 := &pts[n-2], &pts[n-1]
			dx, dy := p1.x-p0.x, p1.y-p0.y
			normalize(&dx, &dy)
			switch lineCap {
			case CapButt:
				dst = buttCapEnd(dst, p1, dx, dy, w, -aa*0.5, aa, u0, u1)
			case CapSquare:
				dst = buttCapEnd(dst, p1, dx, dy, w, w-aa, aa, u0, u1)
			case CapRound:
				dst = roundCapEnd(dst, p1, dx, dy, w, ncap, u0, u1)
			}
		}

		ct.Stroke = dst
		contours = append(contours, ct)
	}
	return contours
}

// calculateJoins computes per-point extrusion vectors and join flags for a
// half width w, and classifies each subpath as convex when every corner
// turns left.
func (c *Cache) calculateJoins(w float32, join Join, miterLimit float32) {
	var iw float32
	if w > 0 {
		iw = 1 / w
	}

	for i := range c.paths {
		p := &c.paths[i]
		pts := c.points[p.first : p.first+p.count]
		nleft := 0
		p.nbevel = 0

		for j := range pts {
			p0, p1 := &pts[(j+len(pts)-1)%len(pts)], &pts[j]
			dlx0, dly0 := p0.dy, -p0.dx
			dlx1, dly1 := p1.dy, -p1.dx

			p1.dmx = (dlx0 + dlx1) * 0.5
			p1.dmy = (dly0 + dly1) * 0.5
			dmr2 := p1.dmx*p1.dmx + p1.dmy*p1.dmy
			if dmr2 > 0.000001 {
				scale := min(1/dmr2, maxDMScale)
				p1.dmx *= scale
				p1.dmy *= scale
			}

			p1.flags &= ptCorner

			if cross := p1.dx*p0.dy - p0.dx*p1.dy; cross > 0 {
				nleft++
				p1.flags |= ptLeft
			}

			limit := max(1.01, min(p0.len, p1.len)*iw)
			if dmr2*limit*limit < 1 {
				p1.flags |= ptInnerBevel
			}

			if p1.flags&ptCorner != 0 {
				if dmr2*miterLimit*miterLimit < 1 || join == JoinBevel || join == JoinRound {
					p1.flags |= ptBevel
				}
			}

			if p1.flags&(ptBevel|ptInnerBevel) != 0 {
				p.nbevel++
			}
		}

		p.convex = len(pts) > 0 && nleft == len(pts)
	}
}

// curveDivs returns the number of segments needed to approximate an arc of
// radius r within tol.
func curveDivs(r, arc, tol float32) int {
	da := math.Acos(float64(r/(r+tol))) * 2
	if da <= 0 {
		return 2
	}
	return max(2, int(math.Ceil(float64(arc)/da)))
}

func vset(dst []Vertex, x, y, u, v float32) []Vertex {
	return append(dst, Vertex{X: x, Y: y, U: u, V: v})
}

func chooseBevel(bevel bool, p0, p1 *point, w float32) (x0, y0, x1, y1 float32) {
	if bevel {
		return p1.x + p0.dy*w, p1.y - p0.dx*w, p1.x + p1.dy*w, p1.y - p1.dx*w
	}
	return p1.x + p1.dmx*w, p1.y + p1.dmy*w, p1.x + p1.dmx*w, p1.y + p1.dmy*w
}

func bevelJoin(dst []Vertex, p0, p1 *point, lw, rw, lu, ru float32) []Vertex {
	dlx0, dly0 := p0.dy, -p0.dx
	dlx1, dly1 := p1.dy, -p1.dx
	inner := p1.flags&ptInnerBevel != 0

	if p1.flags&ptLeft != 0 {
		lx0, ly0, lx1, ly1 := chooseBevel(inner, p0, p1, lw)

		dst = vset(dst, lx0, ly0, lu, 1)
		dst = vset(dst, p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

		if p1.flags&ptBevel != 0 {
			dst = vset(dst, lx0, ly0, lu, 1)
			dst = vset(dst, p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

			dst = vset(dst, lx1, ly1, lu, 1)
			dst = vset(dst, p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
		} else {
			rx0 := p1.x - p1.dmx*rw
			ry0 := p1.y - p1.dmy*rw

			dst = vset(dst, p1.x, p1.y, 0.5, 1)
			dst = vset(dst, p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

			dst = vset(dst, rx0, ry0, ru, 1)
			dst = vset(dst, rx0, ry0, ru, 1)

			dst = vset(dst, p1.x, p1.y, 0.5, 1)
			dst = vset(dst, p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
		}

		dst = vset(dst, lx1, ly1, lu, 1)
		return vset(dst, p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
	}

	rx0, ry0, rx1, ry1 := chooseBevel(inner, p0, p1, -rw)

	dst = vset(dst, p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
	dst = vset(dst, rx0, ry0, ru, 1)

	if p1.flags&ptBevel != 0 {
		dst = vset(dst, p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
		dst = vset(dst, rx0, ry0, ru, 1)

		dst = vset(dst, p1.x+dlx1*lw, p1.y+dly1*lw, lu, 1)
		dst = vset(dst, rx1, ry1, ru, 1)
	} else {
		lx0 := p1.x + p1.dmx*lw
		ly0 := p1.y + p1.dmy*lw

		dst = vset(dst, p1.x+dlx0*lw, p1.y+dly0*lw, lu, 1)
		dst = vset(dst, p1.x, p1.y, 0.5, 1)

		dst = vset(dst, lx0, ly0, lu, 1)
		dst = vset(dst, lx0, ly0, lu, 1)

		dst = vset(dst, p1.x+dlx1*lw, p1.y+dly1*lw, lu, 1)
		dst = vset(dst, p1.x, p1.y, 0.5, 1)
	}

	dst = vset(dst, p1.x+dlx1*lw, p1.y+dly1*lw, lu, 1)
	return vset(dst, rx1, ry1, ru, 1)
}

func roundJoin(dst []Vertex, p0, p1 *point, lw, rw, lu, ru float32, ncap int) []Vertex {
	dlx0, dly0 := p0.dy, -p0.dx
	dlx1, dly1 := p1.dy, -p1.dx
	inner := p1.flags&ptInnerBevel != 0

	if p1.flags&ptLeft != 0 {
		lx0, ly0, lx1, ly1 := chooseBevel(inner, p0, p1, lw)
		a0 := math.Atan2(float64(-dly0), float64(-dlx0))
		a1 := math.Atan2(float64(-dly1), float64(-dlx1))
		if a1 > a0 {
			a1 -= math.Pi * 2
		}

		dst = vset(dst, lx0, ly0, lu, 1)
		dst = vset(dst, p1.x-dlx0*rw, p1.y-dly0*rw, ru, 1)

		n := clampInt(int(math.Ceil((a0-a1)/math.Pi*float64(ncap))), 2, ncap)
		for i := range n {
			u := float64(i) / float64(n-1)
			a := a0 + u*(a1-a0)
			rx := p1.x + float32(math.Cos(a))*rw
			ry := p1.y + float32(math.Sin(a))*rw
			dst = vset(dst, p1.x, p1.y, 0.5, 1)
			dst = vset(dst, rx, ry, ru, 1)
		}

		dst = vset(dst, lx1, ly1, lu, 1)
		return vset(dst, p1.x-dlx1*rw, p1.y-dly1*rw, ru, 1)
	}

	rx0, ry0, rx1, ry1 := chooseBevel(inner, p0, p1, -rw)
	a0 := math.Atan2(float64(dly0), float64(dlx0))
	a1 := math.Atan2(float64(dly1), float64(dlx1))
	if a1 < a0 {
		a1 += math.Pi * 2
	}

	dst = vset(dst, p1.x+dlx0*rw, p1.y+dly0*rw, lu, 1)
	dst = vset(dst, rx0, ry0, ru, 1)

	n := clampInt(int(math.Ceil((a1-a0)/math.Pi*float64(ncap))), 2, ncap)
	for i := range n {
		u := float64(i) / float64(n-1)
		a := a0 + u*(a1-a0)
		lx := p1.x + float32(math.Cos(a))*lw
		ly := p1.y + float32(math.Sin(a))*lw
		dst = vset(dst, lx, ly, lu, 1)
		dst = vset(dst, p1.x, p1.y, 0.5, 1)
	}

	dst = vset(dst, p1.x+dlx1*rw, p1.y+dly1*rw, lu, 1)
	return vset(dst, rx1, ry1, ru, 1)
}

func buttCapStart(dst []Vertex, p *point, dx, dy, w, d, aa, u0, u1 float32) []Vertex {
	px := p.x - dx*d
	py := p.y - dy*d
	dlx, dly := dy, -dx
	dst = vset(dst, px+dlx*w-dx*aa, py+dly*w-dy*aa, u0, 0)
	dst = vset(dst, px-dlx*w-dx*aa, py-dly*w-dy*aa, u1, 0)
	dst = vset(dst, px+dlx*w, py+dly*w, u0, 1)
	return vset(dst, px-dlx*w, py-dly*w, u1, 1)
}

func buttCapEnd(dst []Vertex, p *point, dx, dy, w, d, aa, u0, u1 float32) []Vertex {
	px := p.x + dx*d
	py := p.y + dy*d
	dlx, dly := dy, -dx
	dst = vset(dst, px+dlx*w, py+dly*w, u0, 1)
	dst = vset(dst, px-dlx*w, py-dly*w, u1, 1)
	dst = vset(dst, px+dlx*w+dx*aa, py+dly*w+dy*aa, u0, 0)
	return vset(dst, px-dlx*w+dx*aa, py-dly*w+dy*aa, u1, 0)
}

func roundCapStart(dst []Vertex, p *point, dx, dy, w float32, ncap int, u0, u1 float32) []Vertex {
	px, py := p.x, p.y
	dlx, dly := dy, -dx
	for i := range ncap {
		a := float64(i) / float64(ncap-1) * math.Pi
		ax := float32(math.Cos(a)) * w
		ay := float32(math.Sin(a)) * w
		dst = vset(dst, px-dlx*ax-dx*ay, py-dly*ax-dy*ay, u0, 1)
		dst = vset(dst, px, py, 0.5, 1)
	}
	dst = vset(dst, px+dlx*w, py+dly*w, u0, 1)
	return vset(dst, px-dlx*w, py-dly*w, u1, 1)
}

func roundCapEnd(dst []Vertex, p *point, dx, dy, w float32, ncap int, u0, u1 float32) []Vertex {
	px, py := p.x, p.y
	dlx, dly := dy, -dx
	dst = vset(dst, px+dlx*w, py+dly*w, u0, 1)
	dst = vset(dst, px-dlx*w, py-dly*w, u1, 1)
	for i := range ncap {
		a := float64(i) / float64(ncap-1) * math.Pi
		ax := float32(math.Cos(a)) * w
		ay := float32(math.Sin(a)) * w
		dst = vset(dst, px, py, 0.5, 1)
		dst = vset(dst, px-dlx*ax+dx*ay, py-dly*ax+dy*ay, u0, 1)
	}
	return dst
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
