package text

import (
	"fmt"

	"github.com/gogpu/vg"
)

// Path returns the outlines of s shaped at size with the pen origin on
// the baseline at (x, y), plus the total advance.
func (f *Font) Path(s string, size, x, y float32) (*vg.Path, float32, error) {
	p := vg.NewPath()
	var adv float32
	for _, g := range f.Shape(s, size) {
		if err := f.AppendGlyph(p, g.ID, size, x+g.X, y+g.Y); err != nil {
			return nil, 0, err
		}
		adv += g.Advance
	}
	return p, adv, nil
}

// FillText fills s with paint as a single command and returns its
// advance. The baseline starts at (x, y).
func FillText(r *vg.Renderer, f *Font, size, x, y float32, s string, paint *vg.Paint, scissor *vg.Scissor) (float32, error) {
	if f == nil {
		return 0, ErrNilFont
	}
	p, adv, err := f.Path(s, size, x, y)
	if err != nil {
		return 0, fmt.Errorf("text: fill %q: %w", s, err)
	}
	if p.IsEmpty() {
		return adv, nil
	}

	if paint != nil && paint.FillRule != vg.FillRuleNonZero {
		paint = paint.Clone()
		paint.FillRule = vg.FillRuleNonZero
	}
	if err := r.Fill(paint, scissor, p); err != nil {
		return 0, fmt.Errorf("text: fill %q: %w", s, err)
	}
	return adv, nil
}
