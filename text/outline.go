package text

import (
	"errors"
	"fmt"

	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	"github.com/gogpu/vg"
)

type outlineKey struct {
	gid  GlyphID
	ppem fixed.Int26_6
}

// segment is an sfnt outline segment in pixels, y down, origin on the
// baseline.
type segment struct {
	op  sfnt.SegmentOp
	pts [3]vg.Point
}

// GlyphPath returns the outline of gid at size pixels per em with its
// origin at (x, y). Glyphs without an outline, such as spaces, give an
// empty path.
func (f *Font) GlyphPath(gid GlyphID, size, x, y float32) (*vg.Path, error) {
	p := vg.NewPath()
	if err := f.AppendGlyph(p, gid, size, x, y); err != nil {
		return nil, err
	}
	return p, nil
}

// AppendGlyph appends the outline of gid to p. Contours wound against the
// glyph's largest contour are marked as holes, so the result fills
// correctly with the nonzero rule.
func (f *Font) AppendGlyph(p *vg.Path, gid GlyphID, size, x, y float32) error {
	segs, err := f.segments(gid, size)
	if err != nil {
		return err
	}

	contours := splitContours(segs)
	solid := dominantSign(contours)
	for _, c := range contours {
		for _, s := range c {
			switch s.op {
			case sfnt.SegmentOpMoveTo:
				p.MoveTo(x+s.pts[0].X, y+s.pts[0].Y)
			case sfnt.SegmentOpLineTo:
				p.LineTo(x+s.pts[0].X, y+s.pts[0].Y)
			case sfnt.SegmentOpQuadTo:
				p.QuadTo(x+s.pts[0].X, y+s.pts[0].Y, x+s.pts[1].X, y+s.pts[1].Y)
			case sfnt.SegmentOpCubeTo:
				p.CubicTo(x+s.pts[0].X, y+s.pts[0].Y,
					x+s.pts[1].X, y+s.pts[1].Y,
					x+s.pts[2].X, y+s.pts[2].Y)
			}
		}
		p.Close()
		if signedArea(c)*solid < 0 {
			p.SetSolidity(vg.Hole)
		}
	}
	return nil
}

// segments loads the outline of gid, caching it per size.
func (f *Font) segments(gid GlyphID, size float32) ([]segment, error) {
	key := outlineKey{gid: gid, ppem: toFixed(size)}

	f.mu.Lock()
	defer f.mu.Unlock()

	if segs, ok := f.outlines.get(key); ok {
		return segs, nil
	}

	raw, err := f.sfnt.LoadGlyph(&f.buf, sfnt.GlyphIndex(gid), key.ppem, nil)
	if err != nil {
		if errors.Is(err, sfnt.ErrNotFound) {
			return nil, fmt.Errorf("text: glyph %d: %w", gid, ErrGlyphNotFound)
		}
		return nil, fmt.Errorf("text: load glyph %d: %w", gid, err)
	}

	// raw aliases f.buf and is only valid until the next sfnt call.
	segs := make([]segment, len(raw))
	for i, s := range raw {
		segs[i].op = s.Op
		for j := range s.Args {
			segs[i].pts[j] = vg.Pt(fromFixed(s.Args[j].X), fromFixed(s.Args[j].Y))
		}
	}
	f.outlines.set(key, segs)
	return segs, nil
}

// splitContours splits segments at every MoveTo.
func splitContours(segs []segment) [][]segment {
	var contours [][]segment
	start := -1
	for i, s := range segs {
		if s.op != sfnt.SegmentOpMoveTo {
			continue
		}
		if start >= 0 {
			contours = append(contours, segs[start:i])
		}
		start = i
	}
	if start >= 0 {
		contours = append(contours, segs[start:])
	}
	return contours
}

// signedArea approximates the area of a contour from its control polygon.
func signedArea(c []segment) float32 {
	var pts []vg.Point
	for _, s := range c {
		switch s.op {
		case sfnt.SegmentOpMoveTo, sfnt.SegmentOpLineTo:
			pts = append(pts, s.pts[0])
		case sfnt.SegmentOpQuadTo:
			pts = append(pts, s.pts[0], s.pts[1])
		case sfnt.SegmentOpCubeTo:
			pts = append(pts, s.pts[0], s.pts[1], s.pts[2])
		}
	}
	var area float32
	for i := range pts {
		a, b := pts[i], pts[(i+1)%len(pts)]
		area += a.X*b.Y - b.X*a.Y
	}
	return area * 0.5
}

// dominantSign returns the sign of the largest contour's area, or 1.
func dominantSign(contours [][]segment) float32 {
	var best float32
	sign := float32(1)
	for _, c := range contours {
		a := signedArea(c)
		if abs := max(a, -a); abs > best {
			best = abs
			sign = 1
			if a < 0 {
				sign = -1
			}
		}
	}
	return sign
}
