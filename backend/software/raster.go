package software

import (
	"math"

	"github.com/gogpu/vg"
)

// pixelFunc receives a covered pixel: its index in the target, the logical
// position of the pixel center, the interpolated vertex coordinates and
// whether the triangle is front facing.
type pixelFunc func(i int, x, y, u, v float32, front bool)

// drawFan rasterizes a triangle fan.
func (b *Backend) drawFan(verts []vg.Vertex, s vg.Span, fn pixelFunc) {
	if s.Count < 3 {
		return
	}
	vs := verts[s.Offset:s.End()]
	for i := 2; i < len(vs); i++ {
		b.rasterTriangle(vs[0], vs[i-1], vs[i], fn)
	}
}

// drawStrip rasterizes a triangle strip.
func (b *Backend) drawStrip(verts []vg.Vertex, s vg.Span, fn pixelFunc) {
	if s.Count < 3 {
		return
	}
	vs := verts[s.Offset:s.End()]
	for i := 2; i < len(vs); i++ {
		b.rasterTriangle(vs[i-2], vs[i-1], vs[i], fn)
	}
}

// drawList rasterizes independent triangles.
func (b *Backend) drawList(verts []vg.Vertex, s vg.Span, fn pixelFunc) {
	vs := verts[s.Offset:s.End()]
	for i := 0; i+2 < len(vs); i += 3 {
		b.rasterTriangle(vs[i], vs[i+1], vs[i+2], fn)
	}
}

// rasterTriangle calls fn for every pixel whose center lies inside the
// triangle. Pixels on shared edges are visited by exactly one of the
// triangles sharing the edge (top-left rule), so winding counts in the
// stencil buffer stay exact.
func (b *Backend) rasterTriangle(v0, v1, v2 vg.Vertex, fn pixelFunc) {
	s := b.scale
	ax, ay := v0.X*s, v0.Y*s
	bx, by := v1.X*s, v1.Y*s
	cx, cy := v2.X*s, v2.Y*s

	area := edge(ax, ay, bx, by, cx, cy)
	if area == 0 || area != area {
		return
	}
	front := area > 0
	if !front {
		bx, by, cx, cy = cx, cy, bx, by
		v1, v2 = v2, v1
		area = -area
	}

	w, h := b.target.Rect.Dx(), b.target.Rect.Dy()
	minX := max(0, int(math.Floor(float64(min(ax, bx, cx)))))
	minY := max(0, int(math.Floor(float64(min(ay, by, cy)))))
	maxX := min(w-1, int(math.Ceil(float64(max(ax, bx, cx)))))
	maxY := min(h-1, int(math.Ceil(float64(max(ay, by, cy)))))
	if minX > maxX || minY > maxY {
		return
	}

	inv := 1 / area
	for py := minY; py <= maxY; py++ {
		fy := float32(py) + 0.5
		for px := minX; px <= maxX; px++ {
			fx := float32(px) + 0.5

			w0 := edge(bx, by, cx, cy, fx, fy)
			if !covers(w0, bx, by, cx, cy) {
				continue
			}
			w1 := edge(cx, cy, ax, ay, fx, fy)
			if !covers(w1, cx, cy, ax, ay) {
				continue
			}
			w2 := edge(ax, ay, bx, by, fx, fy)
			if !covers(w2, ax, ay, bx, by) {
				continue
			}

			l0, l1, l2 := w0*inv, w1*inv, w2*inv
			u := l0*v0.U + l1*v1.U + l2*v2.U
			v := l0*v0.V + l1*v1.V + l2*v2.V
			fn(py*w+px, fx/s, fy/s, u, v, front)
		}
	}
}

// edge returns twice the signed area of (x0,y0) (x1,y1) (px,py).
func edge(x0, y0, x1, y1, px, py float32) float32 {
	return (x1-x0)*(py-y0) - (y1-y0)*(px-x0)
}

// covers applies the top-left rule to an edge function value.
func covers(w, x0, y0, x1, y1 float32) bool {
	if w > 0 {
		return true
	}
	if w < 0 {
		return false
	}
	dy := y1 - y0
	return dy < 0 || (dy == 0 && x1-x0 > 0)
}
