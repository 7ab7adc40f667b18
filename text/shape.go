package text

import (
	"github.com/go-text/typesetting/di"
	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/language"
	"github.com/go-text/typesetting/shaping"
	"golang.org/x/text/unicode/bidi"
)

// Glyph is a shaped glyph positioned relative to the pen origin of the
// line. Y grows downwards.
type Glyph struct {
	ID GlyphID
	// Cluster is the rune index of the first character the glyph maps to.
	Cluster int
	X, Y    float32
	Advance float32
	// RTL marks glyphs from right-to-left runs.
	RTL bool
}

// run is a maximal range of runes [start, end) with a single direction.
type run struct {
	start, end int
	dir        di.Direction
}

// Shape converts s into glyphs in visual order, laid out left to right
// from x = 0 on a single line. Each bidi run is shaped separately with
// HarfBuzz.
func (f *Font) Shape(s string, size float32) []Glyph {
	if s == "" || size <= 0 {
		return nil
	}
	runes := []rune(s)

	face := font.NewFace(f.shapeFont)
	hb := f.shaperPool.Get().(*shaping.HarfbuzzShaper)
	defer f.shaperPool.Put(hb)

	var (
		glyphs []Glyph
		pen    float32
	)
	for _, r := range bidiRuns(s, len(runes)) {
		out := hb.Shape(shaping.Input{
			Text:      runes,
			RunStart:  r.start,
			RunEnd:    r.end,
			Direction: r.dir,
			Face:      face,
			Size:      toFixed(size),
			Script:    detectScript(runes[r.start:r.end]),
			Language:  language.NewLanguage("en"),
		})
		for _, g := range out.Glyphs {
			adv := fromFixed(g.Advance)
			y := -fromFixed(g.YOffset) // YOffset is y-up
			glyphs = append(glyphs, Glyph{
				ID:      GlyphID(uint16(g.GlyphID)), //nolint:gosec // glyph indices fit in 16 bits
				Cluster: g.TextIndex(),
				X:       pen + fromFixed(g.XOffset),
				Y:       y,
				Advance: adv,
				RTL:     r.dir == di.DirectionRTL,
			})
			pen += adv
		}
	}
	return glyphs
}

// Advance returns the total horizontal advance of s.
func (f *Font) Advance(s string, size float32) float32 {
	var w float32
	for _, g := range f.Shape(s, size) {
		w += g.Advance
	}
	return w
}

// bidiRuns splits s into directional runs in visual order. Text the bidi
// algorithm rejects is treated as a single left-to-right run.
func bidiRuns(s string, n int) []run {
	fallback := []run{{start: 0, end: n, dir: di.DirectionLTR}}

	p := bidi.Paragraph{}
	if _, err := p.SetString(s, bidi.DefaultDirection(bidi.LeftToRight)); err != nil {
		return fallback
	}
	ordering, err := p.Order()
	if err != nil || ordering.NumRuns() == 0 {
		return fallback
	}

	runs := make([]run, 0, ordering.NumRuns())
	for i := 0; i < ordering.NumRuns(); i++ {
		br := ordering.Run(i)
		// Pos is inclusive.
		start, end := br.Pos()
		end = min(end+1, n)
		if start >= end {
			continue
		}
		dir := di.DirectionLTR
		if br.Direction() == bidi.RightToLeft {
			dir = di.DirectionRTL
		}
		runs = append(runs, run{start: start, end: end, dir: dir})
	}
	if len(runs) == 0 {
		return fallback
	}
	return runs
}

// detectScript returns the script of the first non-space rune.
func detectScript(runes []rune) language.Script {
	for _, r := range runes {
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			continue
		}
		return language.LookupScript(r)
	}
	return language.Latin
}
