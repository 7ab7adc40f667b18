package software

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
)

func newRenderer(t *testing.T, w, h int, opts ...vg.Option) (*Backend, *vg.Renderer) {
	t.Helper()
	b := New(WithSize(w, h))
	return b, vg.New(b, opts...)
}

func rect(x, y, w, h float32) *vg.Path {
	p := vg.NewPath()
	p.Rect(x, y, w, h)
	return p
}

func flush(t *testing.T, r *vg.Renderer) {
	t.Helper()
	if err := r.Flush(); err != nil {
		t.Fatalf("Flush: %v", err)
	}
}

func expectPixel(t *testing.T, img *image.RGBA, x, y int, want color.RGBA) {
	t.Helper()
	got := img.RGBAAt(x, y)
	if !near8(got.R, want.R) || !near8(got.G, want.G) || !near8(got.B, want.B) || !near8(got.A, want.A) {
		t.Errorf("pixel (%d,%d) = %v, want %v", x, y, got, want)
	}
}

func near8(a, b uint8) bool {
	d := int(a) - int(b)
	return d >= -1 && d <= 1
}

func expectStencilClear(t *testing.T, b *Backend) {
	t.Helper()
	for i, s := range b.stencil {
		if s != 0 {
			t.Fatalf("stencil[%d] = %d after frame, want 0", i, s)
		}
	}
}

var (
	red         = color.RGBA{255, 0, 0, 255}
	transparent = color.RGBA{}
)

func TestConvexFill(t *testing.T) {
	b, r := newRenderer(t, 32, 32)

	if err := r.Fill(vg.NewColorPaint(vg.Red), vg.NoScissor(), rect(8, 8, 16, 16)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	flush(t, r)

	expectPixel(t, b.Image(), 16, 16, red)
	expectPixel(t, b.Image(), 9, 22, red)
	expectPixel(t, b.Image(), 2, 2, transparent)
	expectPixel(t, b.Image(), 28, 16, transparent)
	expectStencilClear(t, b)
}

func TestConcaveFillHole(t *testing.T) {
	b, r := newRenderer(t, 64, 64)

	p := vg.NewPath()
	p.Circle(32, 32, 24)
	p.Circle(32, 32, 10)
	p.SetSolidity(vg.Hole)
	if err := r.Fill(vg.NewColorPaint(vg.Blue), vg.NoScissor(), p); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	flush(t, r)

	blue := color.RGBA{0, 0, 255, 255}
	expectPixel(t, b.Image(), 49, 32, blue)
	expectPixel(t, b.Image(), 32, 14, blue)
	expectPixel(t, b.Image(), 32, 32, transparent)
	expectPixel(t, b.Image(), 2, 2, transparent)
	expectStencilClear(t, b)
}

func TestFillRules(t *testing.T) {
	tests := []struct {
		name    string
		rule    vg.FillRule
		overlap color.RGBA
	}{
		{"nonzero", vg.FillRuleNonZero, red},
		{"evenodd", vg.FillRuleEvenOdd, transparent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, r := newRenderer(t, 40, 40)

			p := vg.NewPath()
			p.Rect(4, 4, 20, 20)
			p.Rect(14, 14, 20, 20)
			paint := vg.NewColorPaint(vg.Red)
			paint.FillRule = tt.rule
			if err := r.Fill(paint, vg.NoScissor(), p); err != nil {
				t.Fatalf("Fill: %v", err)
			}
			flush(t, r)

			expectPixel(t, b.Image(), 8, 8, red)
			expectPixel(t, b.Image(), 30, 30, red)
			expectPixel(t, b.Image(), 18, 18, tt.overlap)
			expectStencilClear(t, b)
		})
	}
}

func TestStencilStrokeBlendsOnce(t *testing.T) {
	b, r := newRenderer(t, 32, 32)

	paint := vg.NewColorPaint(vg.Black.WithAlpha(0.5))
	paint.StrokeWidth = 4
	if err := r.Stroke(paint, vg.NoScissor(), rect(8, 8, 16, 16)); err != nil {
		t.Fatalf("Stroke: %v", err)
	}
	flush(t, r)

	half := color.RGBA{0, 0, 0, 128}
	expectPixel(t, b.Image(), 8, 16, half)
	expectPixel(t, b.Image(), 8, 8, half)
	expectPixel(t, b.Image(), 23, 23, half)
	expectPixel(t, b.Image(), 16, 16, transparent)
	expectStencilClear(t, b)
}

func TestSinglePassStroke(t *testing.T) {
	b, r := newRenderer(t, 32, 32, vg.WithStencilStrokes(false))

	paint := vg.NewColorPaint(vg.Red)
	paint.StrokeWidth = 4
	if err := r.Stroke(paint, vg.NoScissor(), rect(8, 8, 16, 16)); err != nil {
		t.Fatalf("Stroke: %v", err)
	}
	flush(t, r)

	expectPixel(t, b.Image(), 8, 16, red)
	expectPixel(t, b.Image(), 16, 16, transparent)
}

func TestScissorClips(t *testing.T) {
	b, r := newRenderer(t, 32, 32)

	s := vg.NewScissor(0, 0, 16, 32, vg.Identity())
	if err := r.Fill(vg.NewColorPaint(vg.Red), s, rect(0, 0, 32, 32)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	flush(t, r)

	expectPixel(t, b.Image(), 8, 16, red)
	expectPixel(t, b.Image(), 24, 16, transparent)
}

func TestCompositeCopy(t *testing.T) {
	b, r := newRenderer(t, 32, 32)

	_ = r.Fill(vg.NewColorPaint(vg.Red), vg.NoScissor(), rect(0, 0, 32, 32))
	r.SetCompositeOperation(vg.CompositeCopy)
	_ = r.Fill(vg.NewColorPaint(vg.Blue.WithAlpha(0.5)), vg.NoScissor(), rect(0, 0, 32, 32))
	flush(t, r)

	expectPixel(t, b.Image(), 16, 16, color.RGBA{0, 0, 128, 128})
}

func TestImagePatternFill(t *testing.T) {
	b, r := newRenderer(t, 32, 32)

	src := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	for i := 0; i < len(src.Pix); i += 4 {
		src.Pix[i+1] = 255
		src.Pix[i+3] = 255
	}
	id, err := r.CreateImage(vg.TextureRGBA, 2, 2, 0, src)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}

	paint := vg.ImagePattern(8, 8, 16, 16, 0, id, 1)
	if err := r.Fill(paint, vg.NoScissor(), rect(8, 8, 16, 16)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	flush(t, r)

	expectPixel(t, b.Image(), 16, 16, color.RGBA{0, 255, 0, 255})
	expectPixel(t, b.Image(), 2, 2, transparent)
}

func TestAlphaTextureTriangles(t *testing.T) {
	b, r := newRenderer(t, 32, 32)

	mask := image.NewAlpha(image.Rect(0, 0, 1, 1))
	mask.Pix[0] = 255
	id, err := r.CreateImage(vg.TextureAlpha, 1, 1, vg.ImageNearest, mask)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}

	paint := vg.ImagePattern(0, 0, 1, 1, 0, id, 1)
	paint.InnerColor = vg.Red
	verts := []vg.Vertex{
		{X: 0, Y: 0, U: 0, V: 0},
		{X: 32, Y: 0, U: 1, V: 0},
		{X: 0, Y: 32, U: 0, V: 1},
	}
	if err := r.Triangles(paint, vg.NoScissor(), verts); err != nil {
		t.Fatalf("Triangles: %v", err)
	}
	flush(t, r)

	expectPixel(t, b.Image(), 4, 4, red)
	expectPixel(t, b.Image(), 28, 28, transparent)
}

func TestDeviceScale(t *testing.T) {
	b := New(WithSize(16, 16), WithDPI(2))
	if got := b.Image().Bounds(); got != image.Rect(0, 0, 32, 32) {
		t.Fatalf("target bounds = %v, want 32x32", got)
	}
	r := vg.New(b)
	if err := r.Fill(vg.NewColorPaint(vg.Red), vg.NoScissor(), rect(0, 0, 8, 8)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	flush(t, r)

	expectPixel(t, b.Image(), 12, 12, red)
	expectPixel(t, b.Image(), 20, 20, transparent)
}

func TestClearRect(t *testing.T) {
	b := New(WithSize(16, 16))

	if err := b.ClearRect(4, 4, 4, 4, vg.White); err != nil {
		t.Fatalf("ClearRect: %v", err)
	}
	expectPixel(t, b.Image(), 5, 5, color.RGBA{255, 255, 255, 255})
	expectPixel(t, b.Image(), 9, 9, transparent)

	if err := b.ClearRect(-10, -10, 100, 100, vg.Red); err != nil {
		t.Errorf("ClearRect(oversized) = %v, want clipped", err)
	}
	expectPixel(t, b.Image(), 15, 15, red)

	if err := b.ClearRect(0, 0, -1, 4, vg.Red); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("ClearRect(negative) = %v, want ErrOutOfBounds", err)
	}
}

func TestTextureErrors(t *testing.T) {
	b := New(WithSize(8, 8))

	if _, err := b.CreateImage(vg.TextureRGBA, 0, 4, 0); !errors.Is(err, vg.ErrInvalidImageSize) {
		t.Errorf("CreateImage(0x4) = %v, want ErrInvalidImageSize", err)
	}
	if _, err := b.CreateImage(vg.TextureType(9), 4, 4, 0); !errors.Is(err, ErrUnsupportedTexture) {
		t.Errorf("CreateImage(type 9) = %v, want ErrUnsupportedTexture", err)
	}

	id, err := b.CreateImage(vg.TextureRGBA, 4, 4, vg.ImagePremultiplied)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	big := image.NewRGBA(image.Rect(0, 0, 4, 4))
	if err := b.UpdateImage(id, big, 1, 0); !errors.Is(err, ErrOutOfBounds) {
		t.Errorf("UpdateImage(overflow) = %v, want ErrOutOfBounds", err)
	}
	if err := b.UpdateImage(id, big, 0, 0); err != nil {
		t.Errorf("UpdateImage = %v", err)
	}

	if err := b.DeleteImage(id); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if _, err := b.ImageInfo(id); !errors.Is(err, vg.ErrImageNotFound) {
		t.Errorf("ImageInfo(deleted) = %v, want ErrImageNotFound", err)
	}
	if err := b.DeleteImage(id); !errors.Is(err, vg.ErrImageNotFound) {
		t.Errorf("DeleteImage(deleted) = %v, want ErrImageNotFound", err)
	}
}

func TestRenderMissingImage(t *testing.T) {
	b := New(WithSize(8, 8))
	cmds := []vg.Command{{Flavor: vg.ConvexFill{}, Image: 99}}
	if err := b.Render(nil, cmds); !errors.Is(err, vg.ErrImageNotFound) {
		t.Errorf("Render = %v, want ErrImageNotFound", err)
	}
}

func TestTextureSampling(t *testing.T) {
	b := New()
	id, _ := b.CreateImage(vg.TextureRGBA, 2, 1, vg.ImagePremultiplied|vg.ImageRepeatX)
	tex := b.textures[id]
	copy(tex.pix, []uint8{255, 0, 0, 255, 0, 0, 255, 255})

	if c := tex.sample(0.25, 0.5); c.r != 1 || c.b != 0 {
		t.Errorf("sample at texel center = %+v, want red", c)
	}
	mid := tex.sample(0.5, 0.5)
	if mid.r < 0.49 || mid.r > 0.51 || mid.b < 0.49 || mid.b > 0.51 {
		t.Errorf("sample between texels = %+v, want an even mix", mid)
	}
	if c := tex.fetch(2, 0); c.r != 1 {
		t.Errorf("fetch(2, 0) with repeat = %+v, want wrap to red", c)
	}
	if c := tex.fetch(0, 5); c.r != 1 {
		t.Errorf("fetch(0, 5) with clamp = %+v, want red", c)
	}
}

func TestRegisteredWithRegistry(t *testing.T) {
	b, err := backend.Open(backend.BackendSoftware, 10, 20)
	if err != nil {
		t.Fatalf("backend.Open: %v", err)
	}
	sb, ok := b.(*Backend)
	if !ok {
		t.Fatalf("backend.Open = %T, want *Backend", b)
	}
	if got := sb.Image().Bounds(); got != image.Rect(0, 0, 10, 20) {
		t.Errorf("bounds = %v, want 10x20", got)
	}
}

func TestRenderToImage(t *testing.T) {
	b := New(WithSize(16, 16), WithDPI(2))
	r := vg.New(b)

	id, err := r.CreateImage(vg.TextureRGBA, 16, 16, 0, nil)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	if err := r.SetTarget(vg.ImageTarget(id)); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := r.Fill(vg.NewColorPaint(vg.Red), vg.NoScissor(), rect(0, 0, 8, 16)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := r.Fill(vg.NewColorPaint(vg.Blue), vg.NoScissor(), rect(8, 0, 8, 16)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := r.SetTarget(vg.Screen); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}

	tex := b.textures[id]
	img := tex.image().(*image.RGBA)
	expectPixel(t, img, 3, 8, red)
	expectPixel(t, img, 12, 8, color.RGBA{0, 0, 255, 255})
	if !tex.info.Flags.Has(vg.ImagePremultiplied) {
		t.Error("render target not flagged premultiplied")
	}
	for i, s := range tex.stencil {
		if s != 0 {
			t.Fatalf("image stencil[%d] = %d after frame, want 0", i, s)
		}
	}
	expectPixel(t, b.Image(), 6, 16, transparent)

	paint := vg.ImagePattern(0, 0, 16, 16, 0, id, 1)
	if err := r.Fill(paint, vg.NoScissor(), rect(0, 0, 16, 16)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	flush(t, r)

	expectPixel(t, b.Image(), 6, 16, red)
	expectPixel(t, b.Image(), 24, 16, color.RGBA{0, 0, 255, 255})
	expectStencilClear(t, b)
}

func TestSetTargetErrors(t *testing.T) {
	b, r := newRenderer(t, 8, 8)

	if err := r.SetTarget(vg.ImageTarget(42)); !errors.Is(err, vg.ErrImageNotFound) {
		t.Errorf("missing image error = %v, want ErrImageNotFound", err)
	}
	alpha, _ := r.CreateImage(vg.TextureAlpha, 4, 4, 0, nil)
	if err := r.SetTarget(vg.ImageTarget(alpha)); !errors.Is(err, ErrUnsupportedTexture) {
		t.Errorf("alpha target error = %v, want ErrUnsupportedTexture", err)
	}

	id, _ := r.CreateImage(vg.TextureRGBA, 4, 4, 0, nil)
	if err := r.SetTarget(vg.ImageTarget(id)); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := r.Fill(vg.ImagePattern(0, 0, 4, 4, 0, id, 1), vg.NoScissor(), rect(0, 0, 4, 4)); err != nil {
		t.Fatalf("Fill: %v", err)
	}
	if err := r.Flush(); !errors.Is(err, vg.ErrImageIsTarget) {
		t.Errorf("sampling the target error = %v, want ErrImageIsTarget", err)
	}

	if err := r.DeleteImage(id); err != nil {
		t.Fatalf("DeleteImage: %v", err)
	}
	if b.target != b.Image() {
		t.Error("deleting the target image should fall back to the screen")
	}
}
