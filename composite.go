package vg

// BlendFactor is a source or destination factor of the blend equation
// dst = src*srcFactor + dst*dstFactor, evaluated on premultiplied colors.
type BlendFactor uint8

const (
	BlendZero BlendFactor = iota
	BlendOne
	BlendSrcColor
	BlendOneMinusSrcColor
	BlendDstColor
	BlendOneMinusDstColor
	BlendSrcAlpha
	BlendOneMinusSrcAlpha
	BlendDstAlpha
	BlendOneMinusDstAlpha
	BlendSrcAlphaSaturate
)

// CompositeOperation is a Porter-Duff compositing preset.
type CompositeOperation int

const (
	CompositeSourceOver CompositeOperation = iota
	CompositeSourceIn
	CompositeSourceOut
	CompositeAtop
	CompositeDestinationOver
	CompositeDestinationIn
	CompositeDestinationOut
	CompositeDestinationAtop
	CompositeLighter
	CompositeCopy
	CompositeXor
)

// CompositeOperationState holds separate RGB and alpha blend factors.
// The zero value is not valid; use NewCompositeOperationState.
type CompositeOperationState struct {
	SrcRGB   BlendFactor
	DstRGB   BlendFactor
	SrcAlpha BlendFactor
	DstAlpha BlendFactor
}

// NewCompositeOperationState returns the blend factors for op.
// Unknown operations fall back to source-over.
func NewCompositeOperationState(op CompositeOperation) CompositeOperationState {
	src, dst := BlendOne, BlendOneMinusSrcAlpha
	switch op {
	case CompositeSourceIn:
		src, dst = BlendDstAlpha, BlendZero
	case CompositeSourceOut:
		src, dst = BlendOneMinusDstAlpha, BlendZero
	case CompositeAtop:
		src, dst = BlendDstAlpha, BlendOneMinusSrcAlpha
	case CompositeDestinationOver:
		src, dst = BlendOneMinusDstAlpha, BlendOne
	case CompositeDestinationIn:
		src, dst = BlendZero, BlendSrcAlpha
	case CompositeDestinationOut:
		src, dst = BlendZero, BlendOneMinusSrcAlpha
	case CompositeDestinationAtop:
		src, dst = BlendOneMinusDstAlpha, BlendSrcAlpha
	case CompositeLighter:
		src, dst = BlendOne, BlendOne
	case CompositeCopy:
		src, dst = BlendOne, BlendZero
	case CompositeXor:
		src, dst = BlendOneMinusDstAlpha, BlendOneMinusSrcAlpha
	}
	return CompositeOperationState{SrcRGB: src, DstRGB: dst, SrcAlpha: src, DstAlpha: dst}
}
