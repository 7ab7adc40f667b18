// Package software renders vg frames on the CPU.
//
// The backend emulates the stencil-then-cover pipeline of the GPU backends
// with an 8-bit stencil buffer and a scalar port of the fragment program,
// so its output matches the GPU backends closely. It is used for tests,
// headless image generation and as a fallback when no GPU is available.
//
// Coordinates passed to Render are logical pixels; the target holds
// width*dpi by height*dpi device pixels.
package software

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
)

func init() {
	backend.Register(backend.BackendSoftware, func(width, height int) (vg.Backend, error) {
		return New(WithSize(width, height)), nil
	})
}

// Option configures a Backend during creation.
type Option func(*options)

type options struct {
	width, height int
	dpi           float32
}

// WithSize sets the initial logical size of the render target.
func WithSize(width, height int) Option {
	return func(o *options) {
		o.width = max(0, width)
		o.height = max(0, height)
	}
}

// WithDPI sets the initial device pixel ratio.
func WithDPI(dpi float32) Option {
	return func(o *options) {
		if dpi > 0 {
			o.dpi = dpi
		}
	}
}

// Backend is a CPU implementation of vg.Backend.
//
// Backend is not safe for concurrent use.
type Backend struct {
	screen        *image.RGBA
	screenStencil []uint8
	width         int
	height        int
	dpi           float32

	// target and stencil are the current attachments; scale maps logical
	// coordinates to target pixels.
	target      *image.RGBA
	stencil     []uint8
	scale       float32
	targetImage vg.ImageID

	textures map[vg.ImageID]*texture
	nextID   vg.ImageID
}

// New creates a software backend. Without WithSize the target is empty
// until SetSize is called.
func New(opts ...Option) *Backend {
	o := options{dpi: 1}
	for _, opt := range opts {
		opt(&o)
	}
	b := &Backend{textures: make(map[vg.ImageID]*texture)}
	b.SetSize(o.width, o.height, o.dpi)
	return b
}

// SetSize resizes and clears the render target.
func (b *Backend) SetSize(width, height int, dpi float32) {
	if dpi <= 0 {
		dpi = 1
	}
	b.width, b.height, b.dpi = width, height, dpi

	w := int(math.Round(float64(float32(max(0, width)) * dpi)))
	h := int(math.Round(float64(float32(max(0, height)) * dpi)))
	b.screen = image.NewRGBA(image.Rect(0, 0, w, h))
	b.screenStencil = make([]uint8, w*h)
	if b.targetImage == 0 {
		b.useScreen()
	}

	vg.Logger().Debug("software: set size", "width", width, "height", height, "dpi", dpi)
}

// Image returns the screen target. Pixels are premultiplied RGBA.
// The image is reallocated by SetSize.
func (b *Backend) Image() *image.RGBA {
	return b.screen
}

// SetTarget directs following frames and ClearRect calls to t. An image
// target is drawn at one logical unit per texel and gets its own stencil
// buffer. Its texels are converted to premultiplied alpha if needed.
func (b *Backend) SetTarget(t vg.RenderTarget) error {
	if t.IsScreen() {
		b.useScreen()
		return nil
	}
	tex, ok := b.textures[t.Image]
	if !ok {
		return fmt.Errorf("software: set target %d: %w", t.Image, vg.ErrImageNotFound)
	}
	if tex.info.Type != vg.TextureRGBA {
		return fmt.Errorf("software: set target %d: %w: %v", t.Image, ErrUnsupportedTexture, tex.info.Type)
	}
	if !tex.info.Flags.Has(vg.ImagePremultiplied) {
		premultiply(tex.pix)
		tex.info.Flags |= vg.ImagePremultiplied
	}
	if tex.stencil == nil {
		tex.stencil = make([]uint8, tex.info.Width*tex.info.Height)
	}

	b.target = tex.image().(*image.RGBA)
	b.stencil = tex.stencil
	b.scale = 1
	b.targetImage = t.Image
	vg.Logger().Debug("software: set target", "image", t.Image)
	return nil
}

func (b *Backend) useScreen() {
	b.target = b.screen
	b.stencil = b.screenStencil
	b.scale = b.dpi
	b.targetImage = 0
}

// ClearRect fills a device pixel rectangle with c, bypassing blending and
// the stencil buffer. The rectangle is clipped to the target.
func (b *Backend) ClearRect(x, y, width, height int, c vg.Color) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("software: clear rect %dx%d: %w", width, height, ErrOutOfBounds)
	}
	r := image.Rect(x, y, x+width, y+height).Intersect(b.target.Rect)
	if r.Empty() {
		return nil
	}

	pm := c.Premultiply()
	px := color.RGBA{R: unit8(pm.R), G: unit8(pm.G), B: unit8(pm.B), A: unit8(pm.A)}
	for py := r.Min.Y; py < r.Max.Y; py++ {
		row := b.target.Pix[b.target.PixOffset(r.Min.X, py):b.target.PixOffset(r.Max.X, py)]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = px.R
			row[i+1] = px.G
			row[i+2] = px.B
			row[i+3] = px.A
		}
	}
	return nil
}

// Render executes one frame against the target.
func (b *Backend) Render(verts []vg.Vertex, cmds []vg.Command) error {
	vg.Logger().Debug("software: render", "commands", len(cmds), "vertices", len(verts))

	for i := range cmds {
		if err := b.renderCommand(verts, &cmds[i]); err != nil {
			return fmt.Errorf("software: command %d: %w", i, err)
		}
	}
	return nil
}

func (b *Backend) renderCommand(verts []vg.Vertex, cmd *vg.Command) error {
	var tex *texture
	if cmd.Image != 0 {
		if cmd.Image == b.targetImage {
			return fmt.Errorf("image %d: %w", cmd.Image, vg.ErrImageIsTarget)
		}
		t, ok := b.textures[cmd.Image]
		if !ok {
			return fmt.Errorf("image %d: %w", cmd.Image, vg.ErrImageNotFound)
		}
		tex = t
	}
	bl := cmd.Composite

	switch f := cmd.Flavor.(type) {
	case vg.ConvexFill:
		paint := func(i int, x, y, u, v float32, _ bool) {
			b.shadeAndBlend(i, &f.Params, tex, bl, x, y, u, v)
		}
		for _, d := range cmd.Drawables {
			b.drawFan(verts, d.Fill, paint)
			b.drawStrip(verts, d.Stroke, paint)
		}

	case vg.ConcaveFill:
		mask := stencilMask(cmd.FillRule)
		for _, d := range cmd.Drawables {
			b.drawFan(verts, d.Fill, func(i int, _, _, _, _ float32, front bool) {
				if front {
					b.stencil[i]++
				} else {
					b.stencil[i]--
				}
			})
		}
		for _, d := range cmd.Drawables {
			b.drawStrip(verts, d.Stroke, func(i int, x, y, u, v float32, _ bool) {
				if b.stencil[i]&mask == 0 {
					b.shadeAndBlend(i, &f.StrokeParams, tex, bl, x, y, u, v)
				}
			})
		}
		b.drawStrip(verts, cmd.Triangles, func(i int, x, y, u, v float32, _ bool) {
			if b.stencil[i]&mask != 0 {
				b.shadeAndBlend(i, &f.StrokeParams, tex, bl, x, y, u, v)
			}
			b.stencil[i] = 0
		})

	case vg.Stroke:
		for _, d := range cmd.Drawables {
			b.drawStrip(verts, d.Stroke, func(i int, x, y, u, v float32, _ bool) {
				b.shadeAndBlend(i, &f.Params, tex, bl, x, y, u, v)
			})
		}

	case vg.StencilStroke:
		for _, d := range cmd.Drawables {
			b.drawStrip(verts, d.Stroke, func(i int, x, y, u, v float32, _ bool) {
				if b.stencil[i] == 0 && b.shadeAndBlend(i, &f.Pass2, tex, bl, x, y, u, v) {
					b.stencil[i] = 1
				}
			})
		}
		for _, d := range cmd.Drawables {
			b.drawStrip(verts, d.Stroke, func(i int, x, y, u, v float32, _ bool) {
				if b.stencil[i] == 0 {
					b.shadeAndBlend(i, &f.Pass1, tex, bl, x, y, u, v)
				}
			})
		}
		for _, d := range cmd.Drawables {
			b.drawStrip(verts, d.Stroke, func(i int, _, _, _, _ float32, _ bool) {
				b.stencil[i] = 0
			})
		}

	case vg.Triangles:
		b.drawList(verts, cmd.Triangles, func(i int, x, y, u, v float32, _ bool) {
			b.shadeAndBlend(i, &f.Params, tex, bl, x, y, u, v)
		})

	default:
		return fmt.Errorf("%w: %T", ErrUnknownFlavor, cmd.Flavor)
	}
	return nil
}

// shadeAndBlend runs the fragment program for one pixel and blends the
// result into the target. It reports false when the fragment was discarded.
func (b *Backend) shadeAndBlend(i int, p *vg.Params, tex *texture, bl vg.CompositeOperationState, x, y, u, v float32) bool {
	c, ok := shade(p, tex, x, y, u, v)
	if !ok {
		return false
	}
	blendPixel(b.target.Pix[i*4:i*4+4], c, bl)
	return true
}

func stencilMask(rule vg.FillRule) uint8 {
	if rule == vg.FillRuleEvenOdd {
		return 0x1
	}
	return 0xff
}

// premultiply scales the color channels of straight RGBA texels by alpha.
func premultiply(pix []uint8) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := uint32(pix[i+3])
		pix[i+0] = uint8((uint32(pix[i+0])*a + 127) / 255)
		pix[i+1] = uint8((uint32(pix[i+1])*a + 127) / 255)
		pix[i+2] = uint8((uint32(pix[i+2])*a + 127) / 255)
	}
}

func unit8(v float32) uint8 {
	return uint8(min(max(v, 0), 1)*255 + 0.5)
}
