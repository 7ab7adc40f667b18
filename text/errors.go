package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrGlyphNotFound is returned when a glyph index is outside the font.
	ErrGlyphNotFound = errors.New("text: glyph not found")

	// ErrNilFont is returned when drawing with a nil font.
	ErrNilFont = errors.New("text: nil font")
)
