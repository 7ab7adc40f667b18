package text

import (
	"bytes"
	"fmt"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/go-text/typesetting/shaping"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// GlyphID is a glyph index within a font.
type GlyphID uint16

// Font is a parsed TrueType or OpenType font.
//
// The same data is parsed twice: go-text/typesetting drives shaping and
// golang.org/x/image/font/sfnt supplies outlines. Font is safe for
// concurrent use.
type Font struct {
	shapeFont *font.Font
	sfnt      *sfnt.Font

	shaperPool sync.Pool

	// mu guards buf and outlines.
	mu       sync.Mutex
	buf      sfnt.Buffer
	outlines *outlineCache
}

// Option configures a Font.
type Option func(*options)

type options struct {
	outlineCacheSize int
}

// WithOutlineCacheSize sets how many decoded glyph outlines are kept.
func WithOutlineCacheSize(n int) Option {
	return func(o *options) {
		o.outlineCacheSize = n
	}
}

// Metrics are vertical font metrics at a given size, in pixels.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the line.
	Ascent float32
	// Descent is the distance from the baseline to the bottom of the line.
	Descent float32
	// LineHeight is the recommended baseline-to-baseline distance.
	LineHeight float32
}

// Parse parses font data. The data must not be modified afterwards.
func Parse(data []byte, opts ...Option) (*Font, error) {
	o := options{outlineCacheSize: DefaultOutlineCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	if len(data) == 0 {
		return nil, ErrEmptyFontData
	}

	face, err := font.ParseTTF(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("text: parse font: %w", err)
	}
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("text: parse font outlines: %w", err)
	}

	return &Font{
		shapeFont: face.Font,
		sfnt:      sf,
		shaperPool: sync.Pool{
			New: func() any {
				return &shaping.HarfbuzzShaper{}
			},
		},
		outlines: newOutlineCache(o.outlineCacheSize),
	}, nil
}

var (
	goRegularOnce sync.Once
	goRegular     *Font
	goRegularErr  error
)

// GoRegular returns the Go Regular font. It is parsed on first use and
// shared afterwards.
func GoRegular() (*Font, error) {
	goRegularOnce.Do(func() {
		goRegular, goRegularErr = Parse(goregular.TTF)
	})
	return goRegular, goRegularErr
}

// NumGlyphs returns the number of glyphs in the font.
func (f *Font) NumGlyphs() int {
	return f.sfnt.NumGlyphs()
}

// Metrics returns the vertical metrics at size pixels per em.
func (f *Font) Metrics(size float32) (Metrics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	m, err := f.sfnt.Metrics(&f.buf, toFixed(size), xfont.HintingNone)
	if err != nil {
		return Metrics{}, fmt.Errorf("text: metrics: %w", err)
	}
	return Metrics{
		Ascent:     fromFixed(m.Ascent),
		Descent:    fromFixed(m.Descent),
		LineHeight: fromFixed(m.Height),
	}, nil
}

// CacheStats returns outline cache statistics.
func (f *Font) CacheStats() CacheStats {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outlines.stats()
}

// GlyphIndex returns the glyph for r, or 0 if the font has none.
func (f *Font) GlyphIndex(r rune) GlyphID {
	f.mu.Lock()
	defer f.mu.Unlock()

	gid, err := f.sfnt.GlyphIndex(&f.buf, r)
	if err != nil {
		return 0
	}
	return GlyphID(gid)
}

func toFixed(v float32) fixed.Int26_6 {
	return fixed.Int26_6(v * 64)
}

func fromFixed(v fixed.Int26_6) float32 {
	return float32(v) / 64
}
