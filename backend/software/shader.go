package software

import (
	"math"

	"github.com/gogpu/vg"
)

// rgba is a premultiplied color with float channels in [0, 1].
type rgba struct {
	r, g, b, a float32
}

var white = rgba{1, 1, 1, 1}

func (c rgba) scale(s float32) rgba {
	return rgba{c.r * s, c.g * s, c.b * s, c.a * s}
}

func (c rgba) mul(o rgba) rgba {
	return rgba{c.r * o.r, c.g * o.g, c.b * o.b, c.a * o.a}
}

func mix(a, b rgba, t float32) rgba {
	return rgba{
		a.r + (b.r-a.r)*t,
		a.g + (b.g-a.g)*t,
		a.b + (b.b-a.b)*t,
		a.a + (b.a-a.a)*t,
	}
}

func colorOf(c [4]float32) rgba {
	return rgba{c[0], c[1], c[2], c[3]}
}

// shade evaluates the fragment program at logical position (x, y) with
// interpolated vertex coordinates (u, v). It reports false when the
// fragment is discarded by the stroke threshold.
func shade(p *vg.Params, tex *texture, x, y, u, v float32) (rgba, bool) {
	scissor := scissorMask(p, x, y)
	strokeAlpha := strokeMask(p, u, v)
	if strokeAlpha < p.StrokeThr {
		return rgba{}, false
	}

	switch vg.ShaderType(p.ShaderType) {
	case vg.ShaderFillGradient:
		px, py := transform(&p.PaintMat, x, y)
		d := sdRoundRect(px, py, p.Extent[0], p.Extent[1], p.Radius)
		var t float32
		if p.Feather > 0 {
			t = clamp01((d + p.Feather*0.5) / p.Feather)
		} else if d > 0 {
			t = 1
		}
		c := mix(colorOf(p.InnerCol), colorOf(p.OuterCol), t)
		return c.scale(strokeAlpha * scissor), true

	case vg.ShaderFillImage:
		px, py := transform(&p.PaintMat, x, y)
		if p.Extent[0] != 0 {
			px /= p.Extent[0]
		}
		if p.Extent[1] != 0 {
			py /= p.Extent[1]
		}
		c := texel(tex, p.TexType, px, py)
		c = c.mul(colorOf(p.InnerCol))
		return c.scale(strokeAlpha * scissor), true

	case vg.ShaderSimple:
		return white, true

	case vg.ShaderImg:
		c := texel(tex, p.TexType, u, v)
		return c.scale(scissor).mul(colorOf(p.InnerCol)), true
	}
	return rgba{}, false
}

// texel samples tex and converts the result to premultiplied color
// according to texType.
func texel(tex *texture, texType, u, v float32) rgba {
	if tex == nil {
		return white
	}
	c := tex.sample(u, v)
	switch texType {
	case vg.TexTypeStraightRGBA:
		c = rgba{c.r * c.a, c.g * c.a, c.b * c.a, c.a}
	case vg.TexTypeAlpha:
		c = rgba{c.r, c.r, c.r, c.r}
	}
	return c
}

// transform applies a column-major 3x4 matrix to (x, y, 1).
func transform(m *[12]float32, x, y float32) (float32, float32) {
	return m[0]*x + m[4]*y + m[8], m[1]*x + m[5]*y + m[9]
}

func scissorMask(p *vg.Params, x, y float32) float32 {
	sx, sy := transform(&p.ScissorMat, x, y)
	sx = 0.5 - (abs(sx)-p.ScissorExt[0])*p.ScissorScale[0]
	sy = 0.5 - (abs(sy)-p.ScissorExt[1])*p.ScissorScale[1]
	return clamp01(sx) * clamp01(sy)
}

func strokeMask(p *vg.Params, u, v float32) float32 {
	return min(1, (1-abs(u*2-1))*p.StrokeMult) * min(1, v)
}

func sdRoundRect(px, py, ex, ey, r float32) float32 {
	dx := abs(px) - (ex - r)
	dy := abs(py) - (ey - r)
	outside := float32(math.Hypot(float64(max(dx, 0)), float64(max(dy, 0))))
	return min(max(dx, dy), 0) + outside - r
}

// blendPixel blends the premultiplied source into one RGBA8 target pixel.
func blendPixel(dst []uint8, src rgba, op vg.CompositeOperationState) {
	d := rgba{
		float32(dst[0]) / 255,
		float32(dst[1]) / 255,
		float32(dst[2]) / 255,
		float32(dst[3]) / 255,
	}
	fs := blendFactor(op.SrcRGB, src, d)
	fd := blendFactor(op.DstRGB, src, d)
	as := blendFactor(op.SrcAlpha, src, d).a
	ad := blendFactor(op.DstAlpha, src, d).a

	dst[0] = unit8(src.r*fs.r + d.r*fd.r)
	dst[1] = unit8(src.g*fs.g + d.g*fd.g)
	dst[2] = unit8(src.b*fs.b + d.b*fd.b)
	dst[3] = unit8(src.a*as + d.a*ad)
}

func blendFactor(f vg.BlendFactor, s, d rgba) rgba {
	switch f {
	case vg.BlendZero:
		return rgba{}
	case vg.BlendOne:
		return white
	case vg.BlendSrcColor:
		return s
	case vg.BlendOneMinusSrcColor:
		return rgba{1 - s.r, 1 - s.g, 1 - s.b, 1 - s.a}
	case vg.BlendDstColor:
		return d
	case vg.BlendOneMinusDstColor:
		return rgba{1 - d.r, 1 - d.g, 1 - d.b, 1 - d.a}
	case vg.BlendSrcAlpha:
		return rgba{s.a, s.a, s.a, s.a}
	case vg.BlendOneMinusSrcAlpha:
		return rgba{1 - s.a, 1 - s.a, 1 - s.a, 1 - s.a}
	case vg.BlendDstAlpha:
		return rgba{d.a, d.a, d.a, d.a}
	case vg.BlendOneMinusDstAlpha:
		return rgba{1 - d.a, 1 - d.a, 1 - d.a, 1 - d.a}
	case vg.BlendSrcAlphaSaturate:
		f := min(s.a, 1-d.a)
		return rgba{f, f, f, 1}
	}
	return white
}

func clamp01(v float32) float32 {
	return min(max(v, 0), 1)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
