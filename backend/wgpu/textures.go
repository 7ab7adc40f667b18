//go:build !nogpu

package wgpu

import (
	"fmt"
	"image"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	"golang.org/x/image/draw"

	"github.com/gogpu/vg"
)

// texture is a sampled GPU image. pix mirrors the texel data so partial
// updates can re-upload the whole level.
type texture struct {
	info vg.ImageInfo
	pix  []uint8

	tex     hal.Texture
	view    hal.TextureView
	sampler hal.Sampler
	group   hal.BindGroup

	// stencil is created when the texture first becomes a render target.
	stencil     hal.Texture
	stencilView hal.TextureView
}

func (t *texture) bpp() int {
	if t.info.Type == vg.TextureAlpha {
		return 1
	}
	return 4
}

func (t *texture) bounds() image.Rectangle {
	return image.Rect(0, 0, t.info.Width, t.info.Height)
}

// image wraps pix in the image type matching the texture format so that
// draw.Copy converts pixels on upload.
func (t *texture) image() draw.Image {
	w := t.info.Width
	switch {
	case t.info.Type == vg.TextureAlpha:
		return &image.Alpha{Pix: t.pix, Stride: w, Rect: t.bounds()}
	case t.info.Flags.Has(vg.ImagePremultiplied):
		return &image.RGBA{Pix: t.pix, Stride: w * 4, Rect: t.bounds()}
	default:
		return &image.NRGBA{Pix: t.pix, Stride: w * 4, Rect: t.bounds()}
	}
}

// CreateImage allocates a zero-filled texture.
func (b *Backend) CreateImage(typ vg.TextureType, width, height int, flags vg.ImageFlags) (vg.ImageID, error) {
	if width <= 0 || height <= 0 {
		return 0, fmt.Errorf("wgpu: create image %dx%d: %w", width, height, vg.ErrInvalidImageSize)
	}
	if typ != vg.TextureRGBA && typ != vg.TextureAlpha {
		return 0, fmt.Errorf("wgpu: create image: %w: %v", ErrUnsupportedTexture, typ)
	}
	if flags.Has(vg.ImageGenerateMipmaps) {
		vg.Logger().Warn("wgpu: mipmaps not supported, flag ignored")
	}

	b.nextID++
	t, err := b.newTexture(fmt.Sprintf("%s_image_%d", b.opts.label, b.nextID),
		vg.ImageInfo{Width: width, Height: height, Type: typ, Flags: flags})
	if err != nil {
		return 0, fmt.Errorf("wgpu: create image: %w", err)
	}
	b.textures[b.nextID] = t
	return b.nextID, nil
}

// UpdateImage copies src into the texture with its top-left at (x, y).
func (b *Backend) UpdateImage(id vg.ImageID, src image.Image, x, y int) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("wgpu: update image %d: %w", id, vg.ErrImageNotFound)
	}

	sr := src.Bounds()
	dr := image.Rect(x, y, x+sr.Dx(), y+sr.Dy())
	if !dr.In(t.bounds()) {
		return fmt.Errorf("wgpu: update image %d at %v: %w", id, dr, ErrOutOfBounds)
	}

	draw.Copy(t.image(), dr.Min, src, sr, draw.Src, nil)
	if err := b.upload(t); err != nil {
		return fmt.Errorf("wgpu: update image %d: %w", id, err)
	}
	return nil
}

// DeleteImage releases the texture.
func (b *Backend) DeleteImage(id vg.ImageID) error {
	t, ok := b.textures[id]
	if !ok {
		return fmt.Errorf("wgpu: delete image %d: %w", id, vg.ErrImageNotFound)
	}
	b.destroyTexture(t)
	delete(b.textures, id)
	if id == b.targetImage {
		b.targetImage = 0
	}
	return nil
}

// ImageInfo returns texture metadata.
func (b *Backend) ImageInfo(id vg.ImageID) (vg.ImageInfo, error) {
	t, ok := b.textures[id]
	if !ok {
		return vg.ImageInfo{}, fmt.Errorf("wgpu: image %d: %w", id, vg.ErrImageNotFound)
	}
	return t.info, nil
}

// bindGroup returns the texture bind group for id; id 0 binds the blank
// texture.
func (b *Backend) bindGroup(id vg.ImageID) (hal.BindGroup, error) {
	if id == 0 {
		return b.blank.group, nil
	}
	t, ok := b.textures[id]
	if !ok {
		return nil, fmt.Errorf("image %d: %w", id, vg.ErrImageNotFound)
	}
	return t.group, nil
}

func (b *Backend) newTexture(label string, info vg.ImageInfo) (*texture, error) {
	t := &texture{info: info}
	t.pix = make([]uint8, info.Width*info.Height*t.bpp())

	// RGBA images can be render targets.
	format := gputypes.TextureFormatRGBA8Unorm
	usage := gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst |
		gputypes.TextureUsageRenderAttachment | gputypes.TextureUsageCopySrc
	if info.Type == vg.TextureAlpha {
		format = gputypes.TextureFormatR8Unorm
		usage = gputypes.TextureUsageTextureBinding | gputypes.TextureUsageCopyDst
	}

	tex, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         label,
		Size:          hal.Extent3D{Width: uint32(info.Width), Height: uint32(info.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        format,
		Usage:         usage,
	})
	if err != nil {
		return nil, fmt.Errorf("create texture: %w", err)
	}
	t.tex = tex

	view, err := b.device.CreateTextureView(tex, &hal.TextureViewDescriptor{
		Label:         label + "_view",
		Format:        format,
		Dimension:     gputypes.TextureViewDimension2D,
		Aspect:        gputypes.TextureAspectAll,
		MipLevelCount: 1,
	})
	if err != nil {
		b.destroyTexture(t)
		return nil, fmt.Errorf("create texture view: %w", err)
	}
	t.view = view

	addrU, addrV := gputypes.AddressModeClampToEdge, gputypes.AddressModeClampToEdge
	if info.Flags.Has(vg.ImageRepeatX) {
		addrU = gputypes.AddressModeRepeat
	}
	if info.Flags.Has(vg.ImageRepeatY) {
		addrV = gputypes.AddressModeRepeat
	}
	filter := gputypes.FilterModeLinear
	if info.Flags.Has(vg.ImageNearest) {
		filter = gputypes.FilterModeNearest
	}
	sampler, err := b.device.CreateSampler(&hal.SamplerDescriptor{
		Label:        label + "_sampler",
		AddressModeU: addrU,
		AddressModeV: addrV,
		AddressModeW: gputypes.AddressModeClampToEdge,
		MagFilter:    filter,
		MinFilter:    filter,
		MipmapFilter: gputypes.FilterModeNearest,
	})
	if err != nil {
		b.destroyTexture(t)
		return nil, fmt.Errorf("create sampler: %w", err)
	}
	t.sampler = sampler

	group, err := b.device.CreateBindGroup(&hal.BindGroupDescriptor{
		Label:  label + "_bind",
		Layout: b.textureLayout,
		Entries: []gputypes.BindGroupEntry{
			{Binding: 0, Resource: gputypes.TextureViewBinding{TextureView: view.NativeHandle()}},
			{Binding: 1, Resource: gputypes.SamplerBinding{Sampler: sampler.NativeHandle()}},
		},
	})
	if err != nil {
		b.destroyTexture(t)
		return nil, fmt.Errorf("create bind group: %w", err)
	}
	t.group = group

	if err := b.upload(t); err != nil {
		b.destroyTexture(t)
		return nil, err
	}
	return t, nil
}

// createImageStencil allocates the stencil attachment used while t is the
// render target.
func (b *Backend) createImageStencil(t *texture) error {
	stencil, err := b.device.CreateTexture(&hal.TextureDescriptor{
		Label:         b.opts.label + "_image_stencil",
		Size:          hal.Extent3D{Width: uint32(t.info.Width), Height: uint32(t.info.Height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     gputypes.TextureDimension2D,
		Format:        stencilFormat,
		Usage:         gputypes.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("create stencil texture: %w", err)
	}
	view, err := b.device.CreateTextureView(stencil, &hal.TextureViewDescriptor{
		Label: b.opts.label + "_image_stencil_view",
	})
	if err != nil {
		b.device.DestroyTexture(stencil)
		return fmt.Errorf("create stencil view: %w", err)
	}
	t.stencil, t.stencilView = stencil, view
	return nil
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

// upload writes the whole mirror to the GPU texture.
func (b *Backend) upload(t *texture) error {
	w, h := uint32(t.info.Width), uint32(t.info.Height)
	err := b.queue.WriteTexture(
		&hal.ImageCopyTexture{Texture: t.tex, MipLevel: 0},
		t.pix,
		&hal.ImageDataLayout{
			Offset:       0,
			BytesPerRow:  w * uint32(t.bpp()),
			RowsPerImage: h,
		},
		&hal.Extent3D{Width: w, Height: h, DepthOrArrayLayers: 1},
	)
	if err != nil {
		return fmt.Errorf("write texture: %w", err)
	}
	return nil
}

// destroyTexture releases the GPU objects of t. Safe on partially
// created textures.
func (b *Backend) destroyTexture(t *texture) {
	if t.stencilView != nil {
		b.device.DestroyTextureView(t.stencilView)
		t.stencilView = nil
	}
	if t.stencil != nil {
		b.device.DestroyTexture(t.stencil)
		t.stencil = nil
	}
	if t.group != nil {
		b.device.DestroyBindGroup(t.group)
		t.group = nil
	}
	if t.sampler != nil {
		b.device.DestroySampler(t.sampler)
		t.sampler = nil
	}
	if t.view != nil {
		b.device.DestroyTextureView(t.view)
		t.view = nil
	}
	if t.tex != nil {
		b.device.DestroyTexture(t.tex)
		t.tex = nil
	}
}
