//go:build !nogpu

package wgpu

import (
	"fmt"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vg"
)

const stencilFormat = gputypes.TextureFormatDepth24PlusStencil8

// pipelineKey identifies a cached render pipeline. Fields that do not
// affect a stage are zeroed by keyFor.
type pipelineKey struct {
	stage   stage
	evenOdd bool
	blend   vg.CompositeOperationState
}

func keyFor(d *drawCall) pipelineKey {
	k := pipelineKey{stage: d.stage}
	if d.stage == stageFillFringe || d.stage == stageFillCover {
		k.evenOdd = d.evenOdd
	}
	if d.stage.writesColor() && d.stage != stageClear {
		k.blend = d.blend
	}
	return k
}

// createLayouts creates the shader module, bind group layouts and the
// pipeline layout shared by every pipeline.
//
//	group(0) binding(0): viewport size (vertex)
//	group(0) binding(1): fragment uniforms, dynamic offset
//	group(1) binding(0): paint texture
//	group(1) binding(1): paint sampler
func (b *Backend) createLayouts() error {
	src, err := shaderSource(b.opts.spirv)
	if err != nil {
		return err
	}
	shader, err := b.device.CreateShaderModule(&hal.ShaderModuleDescriptor{
		Label:  b.opts.label + "_shader",
		Source: src,
	})
	if err != nil {
		return fmt.Errorf("create shader module: %w", err)
	}
	b.shader = shader

	globalLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: b.opts.label + "_global_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageVertex,
				Buffer:     &gputypes.BufferBindingLayout{Type: gputypes.BufferBindingTypeUniform},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Buffer: &gputypes.BufferBindingLayout{
					Type:             gputypes.BufferBindingTypeUniform,
					HasDynamicOffset: true,
					MinBindingSize:   vg.ParamsSize,
				},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create global bind group layout: %w", err)
	}
	b.globalLayout = globalLayout

	textureLayout, err := b.device.CreateBindGroupLayout(&hal.BindGroupLayoutDescriptor{
		Label: b.opts.label + "_texture_layout",
		Entries: []gputypes.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: gputypes.ShaderStageFragment,
				Texture: &gputypes.TextureBindingLayout{
					SampleType:    gputypes.TextureSampleTypeFloat,
					ViewDimension: gputypes.TextureViewDimension2D,
				},
			},
			{
				Binding:    1,
				Visibility: gputypes.ShaderStageFragment,
				Sampler:    &gputypes.SamplerBindingLayout{Type: gputypes.SamplerBindingTypeFiltering},
			},
		},
	})
	if err != nil {
		return fmt.Errorf("create texture bind group layout: %w", err)
	}
	b.textureLayout = textureLayout

	pipeLayout, err := b.device.CreatePipelineLayout(&hal.PipelineLayoutDescriptor{
		Label:            b.opts.label + "_pipe_layout",
		BindGroupLayouts: []hal.BindGroupLayout{b.globalLayout, b.textureLayout},
	})
	if err != nil {
		return fmt.Errorf("create pipeline layout: %w", err)
	}
	b.pipeLayout = pipeLayout
	return nil
}

// pipeline returns the cached pipeline for k, creating it on first use.
func (b *Backend) pipeline(k pipelineKey) (hal.RenderPipeline, error) {
	if p, ok := b.pipelines[k]; ok {
		return p, nil
	}

	target := gputypes.ColorTargetState{
		Format:    b.format,
		WriteMask: gputypes.ColorWriteMaskAll,
	}
	switch {
	case !k.stage.writesColor():
		target.WriteMask = gputypes.ColorWriteMaskNone
	case k.stage != stageClear:
		blend := blendState(k.blend)
		target.Blend = &blend
	}

	entry := "fs_main"
	if k.stage == stageClear {
		entry = "fs_clear"
	}

	p, err := b.device.CreateRenderPipeline(&hal.RenderPipelineDescriptor{
		Label:  fmt.Sprintf("%s_%s_pipeline", b.opts.label, k.stage),
		Layout: b.pipeLayout,
		Vertex: hal.VertexState{
			Module:     b.shader,
			EntryPoint: "vs_main",
			Buffers:    vertexLayout(),
		},
		Fragment: &hal.FragmentState{
			Module:     b.shader,
			EntryPoint: entry,
			Targets:    []gputypes.ColorTargetState{target},
		},
		DepthStencil: depthStencilState(k),
		Primitive: gputypes.PrimitiveState{
			Topology:  gputypes.PrimitiveTopologyTriangleList,
			FrontFace: gputypes.FrontFaceCCW,
			CullMode:  gputypes.CullModeNone,
		},
		Multisample: gputypes.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create %s pipeline: %w", k.stage, err)
	}

	vg.Logger().Debug("wgpu: pipeline created", "stage", k.stage.String(), "evenodd", k.evenOdd)
	b.pipelines[k] = p
	return p, nil
}

// vertexLayout describes vg.Vertex: position at location(0), coverage or
// texture coordinates at location(1).
func vertexLayout() []gputypes.VertexBufferLayout {
	return []gputypes.VertexBufferLayout{
		{
			ArrayStride: vertexStride,
			StepMode:    gputypes.VertexStepModeVertex,
			Attributes: []gputypes.VertexAttribute{
				{Format: gputypes.VertexFormatFloat32x2, Offset: 0, ShaderLocation: 0},
				{Format: gputypes.VertexFormatFloat32x2, Offset: 8, ShaderLocation: 1},
			},
		},
	}
}

// depthStencilState returns the stencil configuration of a stage. Every
// test compares against reference 0.
func depthStencilState(k pipelineKey) *hal.DepthStencilState {
	face := func(cmp gputypes.CompareFunction, fail, pass hal.StencilOperation) hal.StencilFaceState {
		return hal.StencilFaceState{
			Compare:     cmp,
			FailOp:      fail,
			DepthFailOp: fail,
			PassOp:      pass,
		}
	}
	keep := hal.StencilOperationKeep

	ds := &hal.DepthStencilState{
		Format:            stencilFormat,
		DepthWriteEnabled: false,
		DepthCompare:      gputypes.CompareFunctionAlways,
		StencilReadMask:   0xFF,
		StencilWriteMask:  0xFF,
	}
	switch k.stage {
	case stageFillStencil:
		ds.StencilFront = face(gputypes.CompareFunctionAlways, keep, hal.StencilOperationIncrementWrap)
		ds.StencilBack = face(gputypes.CompareFunctionAlways, keep, hal.StencilOperationDecrementWrap)
		return ds

	case stageFillFringe:
		ds.StencilFront = face(gputypes.CompareFunctionEqual, keep, keep)
		ds.StencilWriteMask = 0
		if k.evenOdd {
			ds.StencilReadMask = 0x01
		}

	case stageFillCover:
		zero := hal.StencilOperationZero
		ds.StencilFront = face(gputypes.CompareFunctionNotEqual, zero, zero)
		if k.evenOdd {
			ds.StencilReadMask = 0x01
		}

	case stageStrokeBase:
		ds.StencilFront = face(gputypes.CompareFunctionEqual, keep, hal.StencilOperationIncrementClamp)

	case stageStrokeAA:
		ds.StencilFront = face(gputypes.CompareFunctionEqual, keep, keep)
		ds.StencilWriteMask = 0

	case stageStrokeClear:
		zero := hal.StencilOperationZero
		ds.StencilFront = face(gputypes.CompareFunctionAlways, zero, zero)

	default:
		ds.StencilFront = face(gputypes.CompareFunctionAlways, keep, keep)
		ds.StencilReadMask = 0
		ds.StencilWriteMask = 0
	}
	ds.StencilBack = ds.StencilFront
	return ds
}

func blendState(op vg.CompositeOperationState) gputypes.BlendState {
	return gputypes.BlendState{
		Color: gputypes.BlendComponent{
			SrcFactor: blendFactor(op.SrcRGB),
			DstFactor: blendFactor(op.DstRGB),
			Operation: gputypes.BlendOperationAdd,
		},
		Alpha: gputypes.BlendComponent{
			SrcFactor: blendFactor(op.SrcAlpha),
			DstFactor: blendFactor(op.DstAlpha),
			Operation: gputypes.BlendOperationAdd,
		},
	}
}

func blendFactor(f vg.BlendFactor) gputypes.BlendFactor {
	switch f {
	case vg.BlendZero:
		return gputypes.BlendFactorZero
	case vg.BlendOne:
		return gputypes.BlendFactorOne
	case vg.BlendSrcColor:
		return gputypes.BlendFactorSrc
	case vg.BlendOneMinusSrcColor:
		return gputypes.BlendFactorOneMinusSrc
	case vg.BlendDstColor:
		return gputypes.BlendFactorDst
	case vg.BlendOneMinusDstColor:
		return gputypes.BlendFactorOneMinusDst
	case vg.BlendSrcAlpha:
		return gputypes.BlendFactorSrcAlpha
	case vg.BlendOneMinusSrcAlpha:
		return gputypes.BlendFactorOneMinusSrcAlpha
	case vg.BlendDstAlpha:
		return gputypes.BlendFactorDstAlpha
	case vg.BlendOneMinusDstAlpha:
		return gputypes.BlendFactorOneMinusDstAlpha
	case vg.BlendSrcAlphaSaturate:
		return gputypes.BlendFactorSrcAlphaSaturated
	}
	return gputypes.BlendFactorOne
}

func (b *Backend) destroyPipelines() {
	for k, p := range b.pipelines {
		b.device.DestroyRenderPipeline(p)
		delete(b.pipelines, k)
	}
	if b.pipeLayout != nil {
		b.device.DestroyPipelineLayout(b.pipeLayout)
		b.pipeLayout = nil
	}
	if b.textureLayout != nil {
		b.device.DestroyBindGroupLayout(b.textureLayout)
		b.textureLayout = nil
	}
	if b.globalLayout != nil {
		b.device.DestroyBindGroupLayout(b.globalLayout)
		b.globalLayout = nil
	}
	if b.shader != nil {
		b.device.DestroyShaderModule(b.shader)
		b.shader = nil
	}
}
