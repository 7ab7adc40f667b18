//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"
	"math"
	"time"
	"unsafe"

	"github.com/gogpu/gpucontext"
	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"

	"github.com/gogpu/vg"
	"github.com/gogpu/vg/backend"
)

var _ vg.Backend = (*Backend)(nil)

const (
	// submitTimeout bounds the wait for a submitted frame.
	submitTimeout = 5 * time.Second
	pollInterval  = 100 * time.Microsecond
)

// Backend renders vg frames with a HAL device into an offscreen RGBA8
// target with an 8-bit stencil attachment.
//
// Backend is not safe for concurrent use.
type Backend struct {
	device hal.Device
	queue  hal.Queue
	opts   options
	format gputypes.TextureFormat

	shader        hal.ShaderModule
	globalLayout  hal.BindGroupLayout
	textureLayout hal.BindGroupLayout
	pipeLayout    hal.PipelineLayout
	pipelines     map[pipelineKey]hal.RenderPipeline

	width, height int
	dpi           float32
	devW, devH    uint32

	target      hal.Texture
	targetView  hal.TextureView
	stencil     hal.Texture
	stencilView hal.TextureView
	// fresh is set until the first pass clears a newly allocated target.
	fresh bool
	// targetImage is the image frames draw into, 0 for the own target.
	targetImage vg.ImageID

	textures map[vg.ImageID]*texture
	nextID   vg.ImageID
	blank    *texture
}

// New creates a backend on an existing device and queue.
func New(device hal.Device, queue hal.Queue, opts ...Option) (*Backend, error) {
	if device == nil || queue == nil {
		return nil, ErrNoDevice
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	b := &Backend{
		device:    device,
		queue:     queue,
		opts:      o,
		format:    gputypes.TextureFormatRGBA8Unorm,
		pipelines: make(map[pipelineKey]hal.RenderPipeline),
		textures:  make(map[vg.ImageID]*texture),
		dpi:       1,
	}
	if err := b.createLayouts(); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("wgpu: %w", err)
	}

	blank, err := b.newTexture(o.label+"_blank", vg.ImageInfo{Width: 1, Height: 1, Type: vg.TextureRGBA})
	if err != nil {
		b.Destroy()
		return nil, fmt.Errorf("wgpu: blank texture: %w", err)
	}
	b.blank = blank
	copy(blank.pix, []uint8{255, 255, 255, 255})
	if err := b.upload(blank); err != nil {
		b.Destroy()
		return nil, fmt.Errorf("wgpu: blank texture: %w", err)
	}

	b.SetSize(o.width, o.height, o.dpi)
	vg.Logger().Info("wgpu: backend created", "spirv", o.spirv)
	return b, nil
}

// NewFromProvider creates a backend on the device shared by provider. The
// provider must also expose HalDevice() and HalQueue() returning the HAL
// device and queue.
func NewFromProvider(provider gpucontext.DeviceProvider, opts ...Option) (*Backend, error) {
	type halProvider interface {
		HalDevice() any
		HalQueue() any
	}
	hp, ok := provider.(halProvider)
	if !ok {
		return nil, ErrNoHALProvider
	}
	device, ok := hp.HalDevice().(hal.Device)
	if !ok || device == nil {
		return nil, fmt.Errorf("%w: HalDevice is not hal.Device", ErrNoHALProvider)
	}
	queue, ok := hp.HalQueue().(hal.Queue)
	if !ok || queue == nil {
		return nil, fmt.Errorf("%w: HalQueue is not hal.Queue", ErrNoHALProvider)
	}
	return New(device, queue, opts...)
}

// Register makes the backend available to backend.Open and
// backend.Default under backend.BackendWGPU, creating it on provider's
// device.
func Register(provider gpucontext.DeviceProvider, opts ...Option) {
	backend.Register(backend.BackendWGPU, func(width, height int) (vg.Backend, error) {
		return NewFromProvider(provider, append(opts, WithSize(width, height))...)
	})
}

// SetSize reallocates the render target. Its content is cleared to
// transparent by the next pass.
func (b *Backend) SetSize(width, height int, dpi float32) {
	if dpi <= 0 {
		dpi = 1
	}
	b.width, b.height, b.dpi = max(0, width), max(0, height), dpi

	devW := uint32(math.Round(float64(float32(b.width) * dpi)))
	devH := uint32(math.Round(float64(float32(b.height) * dpi)))
	if devW == b.devW && devH == b.devH && b.target != nil {
		return
	}

	b.destroyTarget()
	if devW == 0 || devH == 0 {
		return
	}
	if err := b.createTarget(devW, devH); err != nil {
		b.destroyTarget()
		vg.Logger().Warn("wgpu: target allocation failed", "width", devW, "height", devH, "err", err)
		return
	}
	vg.Logger().Debug("wgpu: set size", "width", width, "height", height, "dpi", dpi)
}

// renderTarget is the attachment pair a pass draws into.
type renderTarget struct {
	color   hal.TextureView
	stencil hal.TextureView
	// width and height are in device pixels, viewW and viewH in logical
	// units.
	width, height uint32
	viewW, viewH  float32
	// clear is set when the color attachment must be cleared on load.
	clear bool
}

// current returns the attachments of the active target. ok is false when
// the own target is not allocated.
func (b *Backend) current() (rt renderTarget, ok bool) {
	if b.targetImage != 0 {
		t := b.textures[b.targetImage]
		w, h := uint32(t.info.Width), uint32(t.info.Height)
		return renderTarget{
			color:   t.view,
			stencil: t.stencilView,
			width:   w,
			height:  h,
			viewW:   float32(w),
			viewH:   float32(h),
		}, true
	}
	if b.target == nil {
		return renderTarget{}, false
	}
	return renderTarget{
		color:   b.targetView,
		stencil: b.stencilView,
		width:   b.devW,
		height:  b.devH,
		viewW:   float32(b.width),
		viewH:   float32(b.height),
		clear:   b.fresh,
	}, true
}

// SetTarget directs following frames and ClearRect calls to t. An image
// target is drawn at one logical unit per texel and gets a stencil
// attachment of its own. WebGPU textures are stored top-down, so rendered
// images need no ImageFlipY. UpdateImage rewrites the whole texture from
// its CPU copy and discards rendered content.
func (b *Backend) SetTarget(t vg.RenderTarget) error {
	if t.IsScreen() {
		b.targetImage = 0
		return nil
	}
	tex, ok := b.textures[t.Image]
	if !ok {
		return fmt.Errorf("wgpu: set target %d: %w", t.Image, vg.ErrImageNotFound)
	}
	if tex.info.Type != vg.TextureRGBA {
		return fmt.Errorf("wgpu: set target %d: %w: %v", t.Image, ErrUnsupportedTexture, tex.info.Type)
	}
	if tex.stencil == nil {
		if err := b.createImageStencil(tex); err != nil {
			return fmt.Errorf("wgpu: set target %d: %w", t.Image, err)
		}
	}
	if !tex.info.Flags.Has(vg.ImagePremultiplied) {
		premultiply(tex.pix)
		tex.info.Flags |= vg.ImagePremultiplied
		if err := b.upload(tex); err != nil {
			return fmt.Errorf("wgpu: set target %d: %w", t.Image, err)
		}
	}
	b.targetImage = t.Image
	vg.Logger().Debug("wgpu: set target", "image", t.Image)
	return nil
}

// ClearRect fills a device pixel rectangle with c, bypassing blending and
// the stencil buffer. The rectangle is clipped to the target.
func (b *Backend) ClearRect(x, y, width, height int, c vg.Color) error {
	if width < 0 || height < 0 {
		return fmt.Errorf("wgpu: clear rect %dx%d: %w", width, height, ErrOutOfBounds)
	}
	rt, ok := b.current()
	if !ok {
		return nil
	}
	clip := image.Rect(x, y, x+width, y+height).Intersect(image.Rect(0, 0, int(rt.width), int(rt.height)))
	if clip.Empty() {
		return nil
	}

	f := newFrame(b.opts.uniformAlignment)
	f.addClear(rt.viewW, rt.viewH, clip, c)
	if err := b.submit(f); err != nil {
		return fmt.Errorf("wgpu: clear rect: %w", err)
	}
	return nil
}

// Render executes one frame against the target.
func (b *Backend) Render(verts []vg.Vertex, cmds []vg.Command) error {
	vg.Logger().Debug("wgpu: render", "commands", len(cmds), "vertices", len(verts))
	if len(cmds) == 0 {
		return nil
	}
	if _, ok := b.current(); !ok {
		return ErrNoTarget
	}

	for i := range cmds {
		if id := cmds[i].Image; id != 0 && id == b.targetImage {
			return fmt.Errorf("wgpu: command %d: image %d: %w", i, id, vg.ErrImageIsTarget)
		}
		if _, err := b.bindGroup(cmds[i].Image); err != nil {
			return fmt.Errorf("wgpu: command %d: %w", i, err)
		}
	}
	f, err := buildFrame(verts, cmds, b.opts.uniformAlignment)
	if err != nil {
		return err
	}
	if err := b.submit(f); err != nil {
		return fmt.Errorf("wgpu: render: %w", err)
	}
	return nil
}

// frameResources are the per-submission buffers of a frame.
type frameResources struct {
	vertBuf    hal.Buffer
	indexBuf   hal.Buffer
	viewBuf    hal.Buffer
	uniformBuf hal.Buffer
	group      hal.BindGroup
}

func (b *Backend) destroyFrameResources(r *frameResources) {
	if r.group != nil {
		b.device.DestroyBindGroup(r.group)
	}
	for _, buf := range []hal.Buffer{r.uniformBuf, r.viewBuf, r.indexBuf, r.vertBuf} {
		if buf != nil {
			b.device.DestroyBuffer(buf)
		}
	}
}

// submit encodes f into one render pass, submits it and waits for the
// GPU to finish.
func (b *Backend) submit(f *frame) error {
	if len(f.draws) == 0 {
		return nil
	}
	rt, ok := b.current()
	if !ok {
		return ErrNoTarget
	}

	// Resolve pipelines and texture groups before the pass opens.
	pipes := make([]hal.RenderPipeline, len(f.draws))
	groups := make([]hal.BindGroup, len(f.draws))
	for i := range f.draws {
		p, err := b.pipeline(keyFor(&f.draws[i]))
		if err != nil {
			return err
		}
		g, err := b.bindGroup(f.draws[i].image)
		if err != nil {
			return err
		}
		pipes[i], groups[i] = p, g
	}

	res := &frameResources{}
	defer b.destroyFrameResources(res)
	if err := b.createFrameResources(f, &rt, res); err != nil {
		return err
	}

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: b.opts.label + "_encoder",
	})
	if err != nil {
		return fmt.Errorf("create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(b.opts.label + "_frame"); err != nil {
		return fmt.Errorf("begin encoding: %w", err)
	}

	load := gputypes.LoadOpLoad
	if rt.clear {
		load = gputypes.LoadOpClear
	}
	rp := encoder.BeginRenderPass(&hal.RenderPassDescriptor{
		Label: b.opts.label + "_pass",
		ColorAttachments: []hal.RenderPassColorAttachment{{
			View:       rt.color,
			LoadOp:     load,
			StoreOp:    gputypes.StoreOpStore,
			ClearValue: gputypes.Color{R: 0, G: 0, B: 0, A: 0},
		}},
		DepthStencilAttachment: &hal.RenderPassDepthStencilAttachment{
			View:              rt.stencil,
			DepthLoadOp:       gputypes.LoadOpClear,
			DepthStoreOp:      gputypes.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     gputypes.LoadOpClear,
			StencilStoreOp:    gputypes.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})

	rp.SetViewport(0, 0, float32(rt.width), float32(rt.height), 0, 1)
	rp.SetStencilReference(0)
	rp.SetVertexBuffer(0, res.vertBuf, 0)
	rp.SetIndexBuffer(res.indexBuf, gputypes.IndexFormatUint32, 0)

	full := image.Rect(0, 0, int(rt.width), int(rt.height))
	for i := range f.draws {
		d := &f.draws[i]
		clip := full
		if !d.clip.Empty() {
			clip = d.clip
		}
		rp.SetScissorRect(uint32(clip.Min.X), uint32(clip.Min.Y), uint32(clip.Dx()), uint32(clip.Dy()))
		rp.SetPipeline(pipes[i])
		rp.SetBindGroup(0, res.group, []uint32{d.uniform})
		rp.SetBindGroup(1, groups[i], nil)
		rp.DrawIndexed(d.count, 1, d.first, 0, 0)
	}
	rp.End()

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if err := b.submitAndWait(cmdBuf); err != nil {
		return err
	}
	if b.targetImage == 0 {
		b.fresh = false
	}
	return nil
}

func (b *Backend) createFrameResources(f *frame, rt *renderTarget, res *frameResources) error {
	var err error
	if res.vertBuf, err = b.createAndUploadBuffer("verts", f.vertices,
		gputypes.BufferUsageVertex|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if res.indexBuf, err = b.createAndUploadBuffer("indices", f.indexBytes(),
		gputypes.BufferUsageIndex|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	view := appendFloats(nil, rt.viewW, rt.viewH, 0, 0)
	if res.viewBuf, err = b.createAndUploadBuffer("viewport", view,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}
	if res.uniformBuf, err = b.createAndUploadBuffer("uniforms", f.uniforms,
		gputypes.BufferUsageUniform|gputypes.BufferUsageCopyDst); err != nil {
		return err
	}

	res.group, err = b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  b.opts.label + "_global_bind",
		Layout: b.globalLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.BufferBinding{
				Buffer: res.viewBuf.NativeHandle(), Offset: 0, Size: uint64(len(view)),
			}},
			{Binding: 1, Resource: gputypes.BufferBinding{
				Buffer: res.uniformBuf.NativeHandle(), Offset: 0, Size: vg.ParamsSize,
			}},
		},
	})
	if err != nil {
		return fmt.Errorf("create global bind group: %w", err)
	}
	return nil
}

// createAndUploadBuffer creates a GPU buffer and uploads data.
func (b *Backend) createAndUploadBuffer(label string, data []byte, usage gputypes.BufferUsage) (hal.Buffer, error) {
	buf, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.opts.label + "_" + label,
		Size:  uint64(alignUp(uint32(len(data)), 4)),
		Usage: usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create %s buffer: %w", label, err)
	}
	if err := b.queue.WriteBuffer(buf, 0, data); err != nil {
		b.device.DestroyBuffer(buf)
		return nil, fmt.Errorf("write %s buffer: %w", label, err)
	}
	return buf, nil
}

// submitAndWait submits cmdBuf and polls the queue until it completes.
func (b *Backend) submitAndWait(cmdBuf hal.CommandBuffer) error {
	idx, err := b.queue.Submit([]hal.CommandBuffer{cmdBuf})
	if err != nil {
		return fmt.Errorf("submit: %w", err)
	}
	deadline := time.Now().Add(submitTimeout)
	for b.queue.PollCompleted() < idx {
		if time.Now().After(deadline) {
			return fmt.Errorf("wait for GPU: submission %d timed out after %v", idx, submitTimeout)
		}
		time.Sleep(pollInterval)
	}
	return nil
}

// Screenshot reads the own render target back into a premultiplied RGBA image
// of device pixel size.
func (b *Backend) Screenshot() (*image.RGBA, error) {
	img := image.NewRGBA(image.Rect(0, 0, int(b.devW), int(b.devH)))
	if b.target == nil || b.fresh {
		return img, nil
	}

	w, h := b.devW, b.devH
	bytesPerRow := w * 4
	const copyPitchAlignment = 256
	alignedBytesPerRow := alignUp(bytesPerRow, copyPitchAlignment)
	size := uint64(alignedBytesPerRow) * uint64(h)

	staging, err := b.device.CreateBuffer(&hal.BufferDescriptor{
		Label: b.opts.label + "_staging",
		Size:  size,
		Usage: gputypes.BufferUsageMapRead | gputypes.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: screenshot: create staging buffer: %w", err)
	}
	defer b.device.DestroyBuffer(staging)

	encoder, err := b.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: b.opts.label + "_readback_encoder",
	})
	if err != nil {
		return nil, fmt.Errorf("wgpu: screenshot: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding(b.opts.label + "_readback"); err != nil {
		return nil, fmt.Errorf("wgpu: screenshot: begin encoding: %w", err)
	}

	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageRenderAttachment,
			NewUsage: gputypes.TextureUsageCopySrc,
		},
	}})
	encoder.CopyTextureToBuffer(b.target, staging, []hal.BufferTextureCopy{{
		BufferLayout: hal.ImageDataLayout{Offset: 0, BytesPerRow: alignedBytesPerRow, RowsPerImage: h},
		TextureBase:  hal.ImageCopyTexture{Texture: b.target, MipLevel: 0},
		Size:         hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	}})
	encoder.TransitionTextures([]hal.TextureBarrier{{
		Texture: b.target,
		Usage: hal.TextureUsageTransition{
			OldUsage: gputypes.TextureUsageCopySrc,
			NewUsage: gputypes.TextureUsageRenderAttachment,
		},
	}})

	cmdBuf, err := encoder.EndEncoding()
	if err != nil {
		return nil, fmt.Errorf("wgpu: screenshot: end encoding: %w", err)
	}
	defer b.device.FreeCommandBuffer(cmdBuf)

	if err := b.submitAndWait(cmdBuf); err != nil {
		return nil, fmt.Errorf("wgpu: screenshot: %w", err)
	}

	mapping, err := b.device.MapBuffer(staging, 0, size)
	if err != nil {
		return nil, fmt.Errorf("wgpu: screenshot: map staging buffer: %w", err)
	}
	readback := unsafe.Slice((*byte)(mapping.Ptr), size)
	for row := 0; row < int(h); row++ {
		src := readback[row*int(alignedBytesPerRow):]
		copy(img.Pix[row*img.Stride:row*img.Stride+int(bytesPerRow)], src[:bytesPerRow])
	}
	if err := b.device.UnmapBuffer(staging); err != nil {
		return nil, fmt.Errorf("wgpu: screenshot: unmap staging buffer: %w", err)
	}
	return img, nil
}

// Destroy releases every GPU resource owned by the backend. The device
// and queue stay with their owner.
func (b *Backend) Destroy() {
	if b.device == nil {
		return
	}
	b.destroyTarget()
	for id, t := range b.textures {
		b.destroyTexture(t)
		delete(b.textures, id)
	}
	if b.blank != nil {
		b.destroyTexture(b.blank)
		b.blank = nil
	}
	b.destroyPipelines()
}

func (b *Backend) createTarget(w, h uint32) error {
	size := hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1}

	target, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         b.opts.label + "_target",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        b.format,
		Usage:         gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc,
	})
	if err != nil {
		return fmt.Errorf("create target texture: %w", err)
	}
	b.target = target

	targetView, err := b.device.CreateTextureView(target, &hal.TextureViewDescriptor{
		Label: b.opts.label + "_target_view",
	})
	if err != nil {
		return fmt.Errorf("create target view: %w", err)
	}
	b.targetView = targetView

	stencil, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         b.opts.label + "_stencil",
		Size:          size,
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        stencilFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create stencil texture: %w", err)
	}
	b.stencil = stencil

	stencilView, err := b.device.CreateTextureView(stencil, &hal.TextureViewDescriptor{
		Label: b.opts.label + "_stencil_view",
	})
	if err != nil {
		return fmt.Errorf("create stencil view: %w", err)
	}
	b.stencilView = stencilView

	b.devW, b.devH = w, h
	b.fresh = true
	return nil
}

// destroyTarget releases the color and stencil attachments. Safe to call
// on partially created targets.
func (b *Backend) destroyTarget() {
	if b.stencilView != nil {
		b.device.DestroyTextureView(b.stencilView)
		b.stencilView = nil
	}
	if b.stencil != nil {
		b.device.DestroyTexture(b.stencil)
		b.stencil = nil
	}
	if b.targetView != nil {
		b.device.DestroyTextureView(b.targetView)
		b.targetView = nil
	}
	if b.target != nil {
		b.device.DestroyTexture(b.target)
		b.target = nil
	}
	b.devW, b.devH = 0, 0
}
