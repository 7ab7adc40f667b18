// Package text draws strings through a vg.Renderer.
//
// Strings are split into bidi runs with golang.org/x/text/unicode/bidi,
// shaped with the go-text HarfBuzz port and turned into glyph outlines with
// golang.org/x/image/font/sfnt. Glyphs become ordinary vg paths, so text
// is antialiased, clipped and blended like any other fill.
//
//	f, err := text.GoRegular()
//	if err != nil {
//	    return err
//	}
//	adv, err := text.FillText(r, f, 24, 10, 40, "Hello", vg.NewColorPaint(vg.Black), vg.NoScissor())
package text
