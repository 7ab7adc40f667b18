package vg

import (
	"fmt"
	"math"
)

// ShaderType selects the fragment program branch.
type ShaderType int

const (
	// ShaderFillGradient evaluates the rounded-box gradient.
	ShaderFillGradient ShaderType = iota
	// ShaderFillImage samples the paint image through the paint transform.
	ShaderFillImage
	// ShaderSimple writes constant coverage; used for stencil passes.
	ShaderSimple
	// ShaderImg samples the texture at the vertex coordinates.
	ShaderImg
)

// Texture kind selectors carried in Params.TexType.
const (
	TexTypePremultipliedRGBA float32 = 0
	TexTypeStraightRGBA      float32 = 1
	TexTypeAlpha             float32 = 2
)

// StencilStrokeThreshold is the pass 2 coverage cutoff of StencilStroke.
const StencilStrokeThreshold float32 = 1 - 0.5/255.0

// ParamsSize is the byte size of the uniform block produced by Floats.
const ParamsSize = 44 * 4

// Params is the fragment uniform record of one draw pass. Field order
// matches the GPU uniform block.
type Params struct {
	ScissorMat   [12]float32
	PaintMat     [12]float32
	InnerCol     [4]float32
	OuterCol     [4]float32
	ScissorExt   [2]float32
	ScissorScale [2]float32
	Extent       [2]float32
	Radius       float32
	Feather      float32
	StrokeMult   float32
	StrokeThr    float32
	TexType      float32
	ShaderType   float32
}

// ImageInfoer reports texture metadata. Every Backend implements it.
type ImageInfoer interface {
	ImageInfo(id ImageID) (ImageInfo, error)
}

// NewParams builds the uniform record for paint clipped by scissor.
// strokeWidth and fringe feed the stroke multiplier; strokeThr discards
// fragments whose edge coverage falls below it (-1 keeps everything).
//
// Image metadata comes from info; a lookup failure is returned as is.
func NewParams(info ImageInfoer, paint *Paint, scissor *Scissor, strokeWidth, fringe, strokeThr float32) (Params, error) {
	var p Params

	p.InnerCol = paint.InnerColor.Premultiply().Array()
	p.OuterCol = paint.OuterColor.Premultiply().Array()

	if !scissor.Enabled() {
		p.ScissorExt = [2]float32{1, 1}
		p.ScissorScale = [2]float32{1, 1}
	} else {
		t := scissor.Transform
		p.ScissorMat = t.Invert().ToMat3x4()
		p.ScissorExt = scissor.Extent
		p.ScissorScale = [2]float32{
			float32(math.Hypot(float64(t.A), float64(t.B))) / fringe,
			float32(math.Hypot(float64(t.D), float64(t.E))) / fringe,
		}
	}

	p.Extent = paint.Extent
	p.StrokeMult = (strokeWidth*0.5 + fringe*0.5) / fringe
	p.StrokeThr = strokeThr

	var inv Matrix
	if paint.Image != 0 {
		img, err := info.ImageInfo(paint.Image)
		if err != nil {
			return Params{}, err
		}

		if img.Flags.Has(ImageFlipY) {
			half := paint.Extent[1] * 0.5
			m := paint.Transform.
				Multiply(Translate(0, half)).
				Multiply(Scale(1, -1)).
				Multiply(Translate(0, -half))
			inv = m.Invert()
		} else {
			inv = paint.Transform.Invert()
		}

		p.ShaderType = float32(ShaderFillImage)
		p.TexType = texTypeOf(img)
	} else {
		p.ShaderType = float32(ShaderFillGradient)
		p.Radius = paint.Radius
		p.Feather = paint.Feather
		inv = paint.Transform.Invert()
	}
	p.PaintMat = inv.ToMat3x4()

	return p, nil
}

func texTypeOf(img ImageInfo) float32 {
	switch img.Type {
	case TextureRGBA:
		if img.Flags.Has(ImagePremultiplied) {
			return TexTypePremultipliedRGBA
		}
		return TexTypeStraightRGBA
	case TextureAlpha:
		return TexTypeAlpha
	default:
		return TexTypePremultipliedRGBA
	}
}

// Floats returns the record in GPU upload order: 44 float32 values,
// 176 bytes.
func (p *Params) Floats() [44]float32 {
	var u [44]float32
	copy(u[0:12], p.ScissorMat[:])
	copy(u[12:24], p.PaintMat[:])
	copy(u[24:28], p.InnerCol[:])
	copy(u[28:32], p.OuterCol[:])
	copy(u[32:34], p.ScissorExt[:])
	copy(u[34:36], p.ScissorScale[:])
	copy(u[36:38], p.Extent[:])
	u[38] = p.Radius
	u[39] = p.Feather
	u[40] = p.StrokeMult
	u[41] = p.StrokeThr
	u[42] = p.TexType
	u[43] = p.ShaderType
	return u
}

// String formats the selector fields for debugging.
func (p Params) String() string {
	return fmt.Sprintf("Params{shader=%v tex=%v thr=%v mult=%v}", p.ShaderType, p.TexType, p.StrokeThr, p.StrokeMult)
}
